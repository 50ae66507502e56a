package backoffice

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseThemeAcceptsBodyClasses(t *testing.T) {
	theme, ok := ParseTheme("dark-mode")
	assert.True(t, ok)
	assert.Equal(t, ThemeDark, theme)

	theme, ok = ParseTheme(" Light ")
	assert.True(t, ok)
	assert.Equal(t, ThemeLight, theme)

	_, ok = ParseTheme("sepia")
	assert.False(t, ok)
}

func TestThemeToggleAndBodyClass(t *testing.T) {
	assert.Equal(t, ThemeDark, ThemeLight.Toggle())
	assert.Equal(t, ThemeLight, ThemeDark.Toggle())
	assert.Equal(t, "dark-mode", ThemeDark.BodyClass())
	assert.Equal(t, "light-mode", ThemeLight.BodyClass())
}

func TestToggleSidebarDependsOnViewport(t *testing.T) {
	state := DefaultState()

	wide := state.ToggleSidebar(1024)
	assert.True(t, wide.SidebarCollapsed)
	assert.False(t, wide.SidebarVisible)
	assert.Equal(t, "collapsed", wide.SidebarClass())

	narrow := state.ToggleSidebar(MobileBreakpoint)
	assert.False(t, narrow.SidebarCollapsed)
	assert.True(t, narrow.SidebarVisible)
	assert.Equal(t, "visible", narrow.SidebarClass())

	assert.False(t, state.SidebarCollapsed, "transitions must not modify the receiver")
}

func TestNavigateClosesOverlay(t *testing.T) {
	state := DefaultState().ToggleSidebar(400)
	next := state.Navigate(SectionUsers)
	assert.Equal(t, SectionUsers, next.ActiveSection)
	assert.False(t, next.SidebarVisible)
}

func TestResizedHidesOverlayOnlyWhenWide(t *testing.T) {
	state := DefaultState().ToggleSidebar(400)
	assert.True(t, state.Resized(700).SidebarVisible)
	assert.False(t, state.Resized(900).SidebarVisible)
}

func TestInventoryFilterParsing(t *testing.T) {
	filter, ok := ParseInventoryFilter("LOW")
	assert.True(t, ok)
	assert.Equal(t, FilterLow, filter)

	_, ok = ParseInventoryFilter("expired")
	assert.False(t, ok)
}

func TestSectionsAreKnown(t *testing.T) {
	all := Sections()
	assert.Len(t, all, 6)
	for _, s := range all {
		assert.True(t, s.Known())
	}
	assert.False(t, Section("reports").Known())
}
