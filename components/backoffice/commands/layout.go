package commands

import (
	"context"

	gocommand "github.com/goliatone/go-command"

	"github.com/goliatone/go-backoffice/components/backoffice"
)

// ThemeInput switches the theme of a view. An empty Theme toggles it.
type ThemeInput struct {
	ViewID string `json:"view_id"`
	Theme  string `json:"theme,omitempty"`
}

// ThemeCommand toggles or sets the theme.
type ThemeCommand struct {
	views     viewLocator
	telemetry Telemetry
}

// NewThemeCommand creates the command.
func NewThemeCommand(views viewLocator, telemetry Telemetry) *ThemeCommand {
	return &ThemeCommand{views: views, telemetry: withTelemetry(telemetry)}
}

var _ gocommand.Commander[ThemeInput] = (*ThemeCommand)(nil)

// Execute applies the theme. Unknown theme names raise an error toast.
func (c *ThemeCommand) Execute(ctx context.Context, msg ThemeInput) error {
	view, err := lookup(c.views, msg.ViewID)
	if err != nil {
		return err
	}
	if msg.Theme == "" {
		theme := view.Model.ToggleTheme(ctx)
		recordAction(ctx, c.telemetry, "theme", msg.ViewID, map[string]any{"theme": string(theme)})
		return nil
	}
	if err := view.Model.SetTheme(ctx, backoffice.Theme(msg.Theme)); err != nil {
		view.Notify(ctx, "Unknown theme.", backoffice.SeverityError)
		return nil
	}
	recordAction(ctx, c.telemetry, "theme", msg.ViewID, map[string]any{"theme": msg.Theme})
	return nil
}

// NavigateInput activates a section.
type NavigateInput struct {
	ViewID  string `json:"view_id"`
	Section string `json:"section"`
}

// NavigateCommand switches the active section.
type NavigateCommand struct {
	views     viewLocator
	telemetry Telemetry
}

// NewNavigateCommand creates the command.
func NewNavigateCommand(views viewLocator, telemetry Telemetry) *NavigateCommand {
	return &NavigateCommand{views: views, telemetry: withTelemetry(telemetry)}
}

var _ gocommand.Commander[NavigateInput] = (*NavigateCommand)(nil)

// Execute navigates the view.
func (c *NavigateCommand) Execute(ctx context.Context, msg NavigateInput) error {
	view, err := lookup(c.views, msg.ViewID)
	if err != nil {
		return err
	}
	if err := view.Model.Navigate(ctx, backoffice.Section(msg.Section)); err != nil {
		return err
	}
	recordAction(ctx, c.telemetry, "navigate", msg.ViewID, map[string]any{"section": msg.Section})
	return nil
}

// ViewportInput carries the viewport width sampled by the client.
type ViewportInput struct {
	ViewID string `json:"view_id"`
	Width  int    `json:"width"`
}

// SidebarCommand toggles the sidebar for the reported viewport width.
type SidebarCommand struct {
	views viewLocator
}

// NewSidebarCommand creates the command.
func NewSidebarCommand(views viewLocator) *SidebarCommand {
	return &SidebarCommand{views: views}
}

var _ gocommand.Commander[ViewportInput] = (*SidebarCommand)(nil)

// Execute toggles the sidebar.
func (c *SidebarCommand) Execute(ctx context.Context, msg ViewportInput) error {
	view, err := lookup(c.views, msg.ViewID)
	if err != nil {
		return err
	}
	view.Model.ToggleSidebar(ctx, msg.Width)
	return nil
}

// ResizeCommand dispatches a viewport resize to the view document.
type ResizeCommand struct {
	views viewLocator
}

// NewResizeCommand creates the command.
func NewResizeCommand(views viewLocator) *ResizeCommand {
	return &ResizeCommand{views: views}
}

var _ gocommand.Commander[ViewportInput] = (*ResizeCommand)(nil)

// Execute dispatches the resize event.
func (c *ResizeCommand) Execute(_ context.Context, msg ViewportInput) error {
	view, err := lookup(c.views, msg.ViewID)
	if err != nil {
		return err
	}
	view.Resize(msg.Width)
	return nil
}

// ViewInput addresses a view without further arguments.
type ViewInput struct {
	ViewID string `json:"view_id"`
}

// ProfileMenuCommand toggles the profile dropdown.
type ProfileMenuCommand struct {
	views viewLocator
}

// NewProfileMenuCommand creates the command.
func NewProfileMenuCommand(views viewLocator) *ProfileMenuCommand {
	return &ProfileMenuCommand{views: views}
}

var _ gocommand.Commander[ViewInput] = (*ProfileMenuCommand)(nil)

// Execute toggles the menu.
func (c *ProfileMenuCommand) Execute(ctx context.Context, msg ViewInput) error {
	view, err := lookup(c.views, msg.ViewID)
	if err != nil {
		return err
	}
	view.Model.ToggleProfileMenu(ctx)
	return nil
}

// ClickInput describes a document click by element ids from target to root.
type ClickInput struct {
	ViewID string   `json:"view_id"`
	Path   []string `json:"path"`
}

// ClickCommand dispatches a document click to the view listeners.
type ClickCommand struct {
	views viewLocator
}

// NewClickCommand creates the command.
func NewClickCommand(views viewLocator) *ClickCommand {
	return &ClickCommand{views: views}
}

var _ gocommand.Commander[ClickInput] = (*ClickCommand)(nil)

// Execute dispatches the click.
func (c *ClickCommand) Execute(_ context.Context, msg ClickInput) error {
	view, err := lookup(c.views, msg.ViewID)
	if err != nil {
		return err
	}
	view.Click(msg.Path)
	return nil
}
