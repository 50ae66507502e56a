package commands

import (
	"context"
	"fmt"

	gocommand "github.com/goliatone/go-command"

	"github.com/goliatone/go-backoffice/components/backoffice"
)

// Intake operations accepted by IntakeCommand.
const (
	IntakeDragEnter = "dragenter"
	IntakeDragLeave = "dragleave"
	IntakeDrop      = "drop"
	IntakePick      = "pick"
	IntakeUpload    = "upload"
)

// IntakeInput drives the file intake widget of a view.
type IntakeInput struct {
	ViewID string            `json:"view_id"`
	Op     string            `json:"op"`
	Files  []backoffice.File `json:"files,omitempty"`
}

// IntakeCommand forwards drag, drop and upload gestures to the widget.
type IntakeCommand struct {
	views     viewLocator
	telemetry Telemetry
}

// NewIntakeCommand creates the command.
func NewIntakeCommand(views viewLocator, telemetry Telemetry) *IntakeCommand {
	return &IntakeCommand{views: views, telemetry: withTelemetry(telemetry)}
}

var _ gocommand.Commander[IntakeInput] = (*IntakeCommand)(nil)

// Execute runs the gesture. Rejected files surface as toasts, not errors.
func (c *IntakeCommand) Execute(ctx context.Context, msg IntakeInput) error {
	view, err := lookup(c.views, msg.ViewID)
	if err != nil {
		return err
	}
	intake := view.Intake
	switch msg.Op {
	case IntakeDragEnter:
		intake.DragEnter(ctx)
	case IntakeDragLeave:
		intake.DragLeave(ctx)
	case IntakeDrop:
		intake.Drop(ctx, msg.Files)
	case IntakePick:
		intake.Pick(ctx, msg.Files)
	case IntakeUpload:
		if intake.Upload(ctx) {
			recordAction(ctx, c.telemetry, "upload", msg.ViewID, nil)
		}
	default:
		return fmt.Errorf("%w: intake.%s", ErrUnknownAction, msg.Op)
	}
	return nil
}
