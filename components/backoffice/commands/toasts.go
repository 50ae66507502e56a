package commands

import (
	"context"
	"fmt"

	gocommand "github.com/goliatone/go-command"

	"github.com/goliatone/go-backoffice/components/backoffice"
)

// Toast operations accepted by ToastCommand.
const (
	ToastNotify  = "notify"
	ToastDismiss = "dismiss"
)

// ToastInput raises or dismisses a toast.
type ToastInput struct {
	ViewID   string `json:"view_id"`
	Op       string `json:"op"`
	Message  string `json:"message,omitempty"`
	Severity string `json:"severity,omitempty"`
	ToastID  string `json:"toast_id,omitempty"`
}

// ToastCommand drives the toast region of a view.
type ToastCommand struct {
	views viewLocator
}

// NewToastCommand creates the command.
func NewToastCommand(views viewLocator) *ToastCommand {
	return &ToastCommand{views: views}
}

var _ gocommand.Commander[ToastInput] = (*ToastCommand)(nil)

// Execute raises or dismisses the toast. Dismissing an unknown id is a no-op.
func (c *ToastCommand) Execute(ctx context.Context, msg ToastInput) error {
	view, err := lookup(c.views, msg.ViewID)
	if err != nil {
		return err
	}
	switch msg.Op {
	case ToastNotify:
		view.Notify(ctx, msg.Message, backoffice.Severity(msg.Severity))
	case ToastDismiss:
		view.Toasts.Dismiss(ctx, msg.ToastID)
	default:
		return fmt.Errorf("%w: toast.%s", ErrUnknownAction, msg.Op)
	}
	return nil
}
