package commands

import (
	"context"
	"fmt"
	"strings"

	gocommand "github.com/goliatone/go-command"

	"github.com/goliatone/go-backoffice/components/backoffice"
)

// Action types accepted by the dispatcher.
const (
	ActionNavigate        = "navigate"
	ActionSidebarToggle   = "sidebar.toggle"
	ActionThemeToggle     = "theme.toggle"
	ActionThemeSet        = "theme.set"
	ActionProfileToggle   = "profile.toggle"
	ActionProductsSearch  = "products.search"
	ActionInventoryFilter = "inventory.filter"
	ActionDocumentClick   = "document.click"
	ActionViewportResize  = "viewport.resize"
	ActionViewUnmount     = "view.unmount"
	ActionIntakeDrop      = "intake.drop"
	ActionIntakeUpload    = "intake.upload"
	modalPrefix           = "modal."
	toastPrefix           = "toast."
	intakePrefix          = "intake."
)

// ActionInput is the wire form of one user action against a mounted view.
type ActionInput struct {
	ViewID       string            `json:"view_id"`
	Type         string            `json:"type"`
	Section      string            `json:"section,omitempty"`
	Theme        string            `json:"theme,omitempty"`
	Width        int               `json:"width,omitempty"`
	Term         string            `json:"term,omitempty"`
	Filter       string            `json:"filter,omitempty"`
	ModalID      string            `json:"modal_id,omitempty"`
	Field        string            `json:"field,omitempty"`
	Value        string            `json:"value,omitempty"`
	Message      string            `json:"message,omitempty"`
	Severity     string            `json:"severity,omitempty"`
	ToastID      string            `json:"toast_id,omitempty"`
	Path         []string          `json:"path,omitempty"`
	OnBackground bool              `json:"on_background,omitempty"`
	Files        []backoffice.File `json:"files,omitempty"`
}

// ViewService is what the dispatcher needs from the view service.
type ViewService interface {
	View(id string) (*backoffice.View, error)
	Unmount(ctx context.Context, id string) error
}

// Dispatcher routes actions to the commander owning their concern.
type Dispatcher struct {
	theme    gocommand.Commander[ThemeInput]
	navigate gocommand.Commander[NavigateInput]
	sidebar  gocommand.Commander[ViewportInput]
	resize   gocommand.Commander[ViewportInput]
	profile  gocommand.Commander[ViewInput]
	click    gocommand.Commander[ClickInput]
	search   gocommand.Commander[SearchInput]
	filter   gocommand.Commander[FilterInput]
	modal    gocommand.Commander[ModalInput]
	toast    gocommand.Commander[ToastInput]
	intake   gocommand.Commander[IntakeInput]
	unmount  gocommand.Commander[UnmountViewInput]
}

// NewDispatcher wires every action commander against the service.
func NewDispatcher(service ViewService, telemetry Telemetry) *Dispatcher {
	var views viewLocator
	var unmounter unmountService
	if service != nil {
		views = service
		unmounter = service
	}
	return &Dispatcher{
		theme:    NewThemeCommand(views, telemetry),
		navigate: NewNavigateCommand(views, telemetry),
		sidebar:  NewSidebarCommand(views),
		resize:   NewResizeCommand(views),
		profile:  NewProfileMenuCommand(views),
		click:    NewClickCommand(views),
		search:   NewSearchProductsCommand(views),
		filter:   NewFilterInventoryCommand(views, telemetry),
		modal:    NewModalCommand(views, telemetry),
		toast:    NewToastCommand(views),
		intake:   NewIntakeCommand(views, telemetry),
		unmount:  NewUnmountViewCommand(unmounter, telemetry),
	}
}

var _ gocommand.Commander[ActionInput] = (*Dispatcher)(nil)

// Execute runs the action.
func (d *Dispatcher) Execute(ctx context.Context, msg ActionInput) error {
	switch msg.Type {
	case ActionThemeToggle:
		return d.theme.Execute(ctx, ThemeInput{ViewID: msg.ViewID})
	case ActionThemeSet:
		return d.theme.Execute(ctx, ThemeInput{ViewID: msg.ViewID, Theme: msg.Theme})
	case ActionNavigate:
		return d.navigate.Execute(ctx, NavigateInput{ViewID: msg.ViewID, Section: msg.Section})
	case ActionSidebarToggle:
		return d.sidebar.Execute(ctx, ViewportInput{ViewID: msg.ViewID, Width: msg.Width})
	case ActionViewportResize:
		return d.resize.Execute(ctx, ViewportInput{ViewID: msg.ViewID, Width: msg.Width})
	case ActionProfileToggle:
		return d.profile.Execute(ctx, ViewInput{ViewID: msg.ViewID})
	case ActionDocumentClick:
		return d.click.Execute(ctx, ClickInput{ViewID: msg.ViewID, Path: msg.Path})
	case ActionProductsSearch:
		return d.search.Execute(ctx, SearchInput{ViewID: msg.ViewID, Term: msg.Term})
	case ActionInventoryFilter:
		return d.filter.Execute(ctx, FilterInput{ViewID: msg.ViewID, Filter: msg.Filter})
	case ActionViewUnmount:
		return d.unmount.Execute(ctx, UnmountViewInput{ViewID: msg.ViewID})
	}

	switch {
	case strings.HasPrefix(msg.Type, modalPrefix):
		return d.modal.Execute(ctx, ModalInput{
			ViewID:       msg.ViewID,
			ModalID:      msg.ModalID,
			Op:           strings.TrimPrefix(msg.Type, modalPrefix),
			Field:        msg.Field,
			Value:        msg.Value,
			OnBackground: msg.OnBackground,
		})
	case strings.HasPrefix(msg.Type, toastPrefix):
		return d.toast.Execute(ctx, ToastInput{
			ViewID:   msg.ViewID,
			Op:       strings.TrimPrefix(msg.Type, toastPrefix),
			Message:  msg.Message,
			Severity: msg.Severity,
			ToastID:  msg.ToastID,
		})
	case strings.HasPrefix(msg.Type, intakePrefix):
		return d.intake.Execute(ctx, IntakeInput{
			ViewID: msg.ViewID,
			Op:     strings.TrimPrefix(msg.Type, intakePrefix),
			Files:  msg.Files,
		})
	}
	return fmt.Errorf("%w: %q", ErrUnknownAction, msg.Type)
}
