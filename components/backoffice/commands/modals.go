package commands

import (
	"context"
	"fmt"

	gocommand "github.com/goliatone/go-command"
)

// Modal operations accepted by ModalCommand.
const (
	ModalOpen    = "open"
	ModalClose   = "close"
	ModalOverlay = "overlay"
	ModalSubmit  = "submit"
	ModalField   = "field"
)

// ModalInput drives one modal of a view.
type ModalInput struct {
	ViewID       string `json:"view_id"`
	ModalID      string `json:"modal_id"`
	Op           string `json:"op"`
	Field        string `json:"field,omitempty"`
	Value        string `json:"value,omitempty"`
	OnBackground bool   `json:"on_background,omitempty"`
}

// ModalCommand opens, closes and submits modals.
type ModalCommand struct {
	views     viewLocator
	telemetry Telemetry
}

// NewModalCommand creates the command.
func NewModalCommand(views viewLocator, telemetry Telemetry) *ModalCommand {
	return &ModalCommand{views: views, telemetry: withTelemetry(telemetry)}
}

var _ gocommand.Commander[ModalInput] = (*ModalCommand)(nil)

// Execute runs the modal operation.
func (c *ModalCommand) Execute(ctx context.Context, msg ModalInput) error {
	view, err := lookup(c.views, msg.ViewID)
	if err != nil {
		return err
	}
	switch msg.Op {
	case ModalOpen:
		err = view.OpenModal(ctx, msg.ModalID)
	case ModalClose:
		err = view.CloseModal(ctx, msg.ModalID)
	case ModalOverlay:
		view.Modals.ClickOverlay(ctx, msg.ModalID, msg.OnBackground)
	case ModalField:
		err = view.Modals.SetField(msg.ModalID, msg.Field, msg.Value)
	case ModalSubmit:
		if view.Modals.SubmitForm(ctx, msg.ModalID) {
			recordAction(ctx, c.telemetry, "modal_submit", msg.ViewID, map[string]any{"modal": msg.ModalID})
		}
	default:
		return fmt.Errorf("%w: modal.%s", ErrUnknownAction, msg.Op)
	}
	return err
}
