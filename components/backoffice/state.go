package backoffice

import (
	"errors"
	"strings"
)

// MobileBreakpoint is the widest viewport, in logical pixels, still treated as
// narrow. Wider viewports collapse the sidebar instead of toggling the overlay.
const MobileBreakpoint = 768

var (
	ErrInvalidTheme   = errors.New("backoffice: unknown theme")
	ErrInvalidSection = errors.New("backoffice: section id is required")
	ErrInvalidFilter  = errors.New("backoffice: unknown inventory filter")
)

// Theme is the dashboard color scheme.
type Theme string

const (
	ThemeLight Theme = "light"
	ThemeDark  Theme = "dark"
)

// ParseTheme accepts both the short names and the body class names.
func ParseTheme(value string) (Theme, bool) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "light", "light-mode":
		return ThemeLight, true
	case "dark", "dark-mode":
		return ThemeDark, true
	default:
		return "", false
	}
}

// BodyClass is the class applied to the document body and the persisted form.
func (t Theme) BodyClass() string {
	if t == ThemeDark {
		return "dark-mode"
	}
	return "light-mode"
}

// Toggle flips between light and dark.
func (t Theme) Toggle() Theme {
	if t == ThemeDark {
		return ThemeLight
	}
	return ThemeDark
}

// Section identifies one of the top-level dashboard views.
type Section string

const (
	SectionDashboard    Section = "dashboard"
	SectionProducts     Section = "products"
	SectionInventory    Section = "inventory"
	SectionUsers        Section = "users"
	SectionTransactions Section = "transactions"
	SectionApplicants   Section = "applicants"
)

var sections = []Section{
	SectionDashboard,
	SectionProducts,
	SectionInventory,
	SectionUsers,
	SectionTransactions,
	SectionApplicants,
}

// Sections returns the navigable sections in menu order.
func Sections() []Section {
	return append([]Section{}, sections...)
}

// Known reports whether the section is one of the six dashboard views.
func (s Section) Known() bool {
	for _, candidate := range sections {
		if candidate == s {
			return true
		}
	}
	return false
}

// InventoryFilter narrows the inventory table by stock status.
type InventoryFilter string

const (
	FilterAll     InventoryFilter = "all"
	FilterHealthy InventoryFilter = "healthy"
	FilterLow     InventoryFilter = "low"
	FilterOut     InventoryFilter = "out"
)

// ParseInventoryFilter validates a filter id.
func ParseInventoryFilter(value string) (InventoryFilter, bool) {
	switch f := InventoryFilter(strings.ToLower(strings.TrimSpace(value))); f {
	case FilterAll, FilterHealthy, FilterLow, FilterOut:
		return f, true
	default:
		return "", false
	}
}

// Match applies the filter predicate to a stock level.
func (f InventoryFilter) Match(level StockLevel) bool {
	switch f {
	case FilterHealthy:
		return level.IsHealthy()
	case FilterLow:
		return level.IsLow()
	case FilterOut:
		return level.IsOut()
	default:
		return true
	}
}

// UIState is the view owned state. Transitions return a new value and never
// modify the receiver.
type UIState struct {
	Theme            Theme           `json:"theme"`
	ActiveSection    Section         `json:"active_section"`
	SidebarCollapsed bool            `json:"sidebar_collapsed"`
	SidebarVisible   bool            `json:"sidebar_visible"`
	ProfileMenuOpen  bool            `json:"profile_menu_open"`
	ProductSearch    string          `json:"product_search"`
	InventoryFilter  InventoryFilter `json:"inventory_filter"`
}

// DefaultState is the state of a view with no stored preferences.
func DefaultState() UIState {
	return UIState{
		Theme:           ThemeLight,
		ActiveSection:   SectionDashboard,
		InventoryFilter: FilterAll,
	}
}

// WithTheme sets the theme.
func (s UIState) WithTheme(theme Theme) UIState {
	s.Theme = theme
	return s
}

// Navigate activates a section and closes the mobile overlay.
func (s UIState) Navigate(section Section) UIState {
	s.ActiveSection = section
	s.SidebarVisible = false
	return s
}

// ToggleSidebar collapses the sidebar on wide viewports and toggles the overlay
// on narrow ones.
func (s UIState) ToggleSidebar(viewportWidth int) UIState {
	if viewportWidth > MobileBreakpoint {
		s.SidebarCollapsed = !s.SidebarCollapsed
	} else {
		s.SidebarVisible = !s.SidebarVisible
	}
	return s
}

// ToggleProfileMenu opens or closes the profile dropdown.
func (s UIState) ToggleProfileMenu() UIState {
	s.ProfileMenuOpen = !s.ProfileMenuOpen
	return s
}

// CloseProfileMenu forces the profile dropdown closed.
func (s UIState) CloseProfileMenu() UIState {
	s.ProfileMenuOpen = false
	return s
}

// WithProductSearch stores the raw search term.
func (s UIState) WithProductSearch(term string) UIState {
	s.ProductSearch = term
	return s
}

// WithInventoryFilter sets the inventory filter.
func (s UIState) WithInventoryFilter(filter InventoryFilter) UIState {
	s.InventoryFilter = filter
	return s
}

// Resized hides the mobile overlay once the viewport is wide again.
func (s UIState) Resized(viewportWidth int) UIState {
	if viewportWidth > MobileBreakpoint {
		s.SidebarVisible = false
	}
	return s
}

// SidebarClass returns the class list applied to the sidebar element.
func (s UIState) SidebarClass() string {
	classes := make([]string, 0, 2)
	if s.SidebarCollapsed {
		classes = append(classes, "collapsed")
	}
	if s.SidebarVisible {
		classes = append(classes, "visible")
	}
	return strings.Join(classes, " ")
}
