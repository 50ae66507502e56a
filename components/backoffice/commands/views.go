package commands

import (
	"context"
	"errors"

	gocommand "github.com/goliatone/go-command"

	"github.com/goliatone/go-backoffice/components/backoffice"
)

var (
	ErrServiceRequired = errors.New("commands: view service is required")
	ErrUnknownAction   = errors.New("commands: unknown action")
)

// viewLocator resolves mounted views by id.
type viewLocator interface {
	View(id string) (*backoffice.View, error)
}

func lookup(views viewLocator, id string) (*backoffice.View, error) {
	if views == nil {
		return nil, ErrServiceRequired
	}
	return views.View(id)
}

type unmountService interface {
	Unmount(ctx context.Context, id string) error
}

// UnmountViewInput names the view to tear down.
type UnmountViewInput struct {
	ViewID string `json:"view_id"`
}

// UnmountViewCommand tears a view down when its page goes away.
type UnmountViewCommand struct {
	service   unmountService
	telemetry Telemetry
}

// NewUnmountViewCommand creates the command.
func NewUnmountViewCommand(service unmountService, telemetry Telemetry) *UnmountViewCommand {
	return &UnmountViewCommand{service: service, telemetry: withTelemetry(telemetry)}
}

var _ gocommand.Commander[UnmountViewInput] = (*UnmountViewCommand)(nil)

// Execute unmounts the view.
func (c *UnmountViewCommand) Execute(ctx context.Context, msg UnmountViewInput) error {
	if c.service == nil {
		return ErrServiceRequired
	}
	if err := c.service.Unmount(ctx, msg.ViewID); err != nil {
		return err
	}
	recordAction(ctx, c.telemetry, "unmount", msg.ViewID, nil)
	return nil
}
