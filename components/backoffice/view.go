package backoffice

import (
	"context"
	"time"
)

// UI is the surface any part of a page uses to raise toasts and toggle modals.
type UI interface {
	Notify(ctx context.Context, message string, severity Severity) Toast
	OpenModal(ctx context.Context, id string) error
	CloseModal(ctx context.Context, id string) error
}

// View is one mounted page: its view-model plus the toast region, modal
// controller and file intake widget created for it.
type View struct {
	ID        string
	Viewer    ViewerContext
	MountedAt time.Time
	Model     *ViewModel
	Toasts    *ToastRegion
	Modals    *ModalController
	Intake    *FileIntake
	Document  *Document
}

var _ UI = (*View)(nil)

// ViewState is the JSON form of a view.
type ViewState struct {
	ViewID  string        `json:"view_id"`
	State   UIState       `json:"state"`
	Derived Derived       `json:"derived"`
	Toasts  []Toast       `json:"toasts"`
	Modals  []string      `json:"open_modals"`
	Intake  IntakeState   `json:"intake"`
	Viewer  ViewerContext `json:"viewer"`
}

// Notify raises a toast in the view region.
func (v *View) Notify(ctx context.Context, message string, severity Severity) Toast {
	return v.Toasts.Notify(ctx, message, severity)
}

// OpenModal reveals a modal.
func (v *View) OpenModal(ctx context.Context, id string) error {
	return v.Modals.Open(ctx, id)
}

// CloseModal hides a modal.
func (v *View) CloseModal(ctx context.Context, id string) error {
	return v.Modals.Close(ctx, id)
}

// Click dispatches a document click described by the element path.
func (v *View) Click(path []string) {
	v.Document.Dispatch(ClickEvent{Path: path})
}

// Resize dispatches a viewport resize.
func (v *View) Resize(width int) {
	v.Document.Dispatch(ResizeEvent{Width: width})
}

// Shell derives the current state and builds the shell view.
func (v *View) Shell(ctx context.Context) ShellView {
	return BuildShell(v.Model.Snapshot(), v.Model.State(), v.Model.Derive(ctx))
}

// State captures the current view state.
func (v *View) State(ctx context.Context) ViewState {
	return ViewState{
		ViewID:  v.ID,
		State:   v.Model.State(),
		Derived: v.Model.Derive(ctx),
		Toasts:  v.Toasts.Toasts(),
		Modals:  v.Modals.OpenModals(),
		Intake:  v.Intake.State(),
		Viewer:  v.Viewer,
	}
}

// teardown detaches every listener and stops pending timers.
func (v *View) teardown() {
	v.Model.Unmount()
	v.Modals.Shutdown()
	v.Intake.Close()
	v.Toasts.Close()
}
