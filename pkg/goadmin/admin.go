package goadmin

import (
	"context"
	"errors"
	"fmt"
	"strings"

	core "github.com/goliatone/go-backoffice/components/backoffice"
	backofficepkg "github.com/goliatone/go-backoffice/pkg/backoffice"
)

// MenuBuilder ensures back-office entries exist within the admin navigation.
type MenuBuilder interface {
	EnsureMenuItem(ctx context.Context, menuCode string, item MenuItem) error
}

// MenuItem captures back-office link metadata. Parent is empty for top level
// entries.
type MenuItem struct {
	Label    string
	Route    string
	Icon     string
	Parent   string
	Position int
}

// Config wires the back-office service and feature flags into an admin shell.
type Config struct {
	EnableBackoffice bool
	MenuCode         string
	MenuBuilder      MenuBuilder
	Service          *backofficepkg.Service
	DefaultMenuItem  MenuItem
	// SectionItems adds one child entry per dashboard section.
	SectionItems bool
}

// Admin exposes helpers for go-admin style applications.
type Admin struct {
	cfg Config
}

// New creates an Admin helper that can seed back-office menus.
func New(cfg Config) (*Admin, error) {
	if cfg.EnableBackoffice && cfg.Service == nil {
		return nil, errors.New("goadmin: backoffice service is required when enabled")
	}
	if cfg.MenuCode == "" {
		cfg.MenuCode = "admin.main"
	}
	if cfg.DefaultMenuItem.Label == "" {
		cfg.DefaultMenuItem.Label = "Back Office"
	}
	if cfg.DefaultMenuItem.Route == "" {
		cfg.DefaultMenuItem.Route = "admin.backoffice"
	}
	if cfg.DefaultMenuItem.Icon == "" {
		cfg.DefaultMenuItem.Icon = "fas fa-store"
	}
	return &Admin{cfg: cfg}, nil
}

// Backoffice exposes the configured service when enabled.
func (a *Admin) Backoffice() *backofficepkg.Service {
	if !a.cfg.EnableBackoffice {
		return nil
	}
	return a.cfg.Service
}

// Bootstrap seeds menu entries when back-office support is enabled.
func (a *Admin) Bootstrap(ctx context.Context) error {
	if !a.cfg.EnableBackoffice || a.cfg.MenuBuilder == nil {
		return nil
	}
	root := a.cfg.DefaultMenuItem
	if err := a.cfg.MenuBuilder.EnsureMenuItem(ctx, a.cfg.MenuCode, root); err != nil {
		return err
	}
	if !a.cfg.SectionItems {
		return nil
	}
	for i, nav := range core.NavItems() {
		item := MenuItem{
			Label:    nav.Label,
			Route:    fmt.Sprintf("%s.%s", root.Route, strings.ToLower(string(nav.ID))),
			Icon:     nav.Icon,
			Parent:   root.Route,
			Position: i,
		}
		if err := a.cfg.MenuBuilder.EnsureMenuItem(ctx, a.cfg.MenuCode, item); err != nil {
			return fmt.Errorf("goadmin: menu item %s: %w", item.Route, err)
		}
	}
	return nil
}
