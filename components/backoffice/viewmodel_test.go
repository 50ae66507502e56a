package backoffice

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func stockSnapshot() *Snapshot {
	return NormalizeSnapshot(&Snapshot{
		SiteURL: "https://shop.example/admin",
		Products: []Product{
			{ID: "P-1", Name: "Mouse", Category: "Peripherals", Stock: NewStock(0)},
			{ID: "P-2", Name: "Keyboard", Category: "Peripherals", Stock: NewStock(2)},
			{ID: "P-3", Name: "Monitor", Category: "Displays", Stock: NewStock(10)},
		},
		Users: []User{{ID: "U-1", VerifiedAt: "2024-01-01"}, {ID: "U-2"}},
	})
}

func TestViewModelDerivesCounts(t *testing.T) {
	vm := NewViewModel(context.Background(), ViewModelOptions{Snapshot: stockSnapshot()})
	derived := vm.Derive(context.Background())
	assert.Equal(t, 1, derived.LowStockCount)
	assert.Equal(t, 1, derived.OutOfStockCount)
	assert.Equal(t, 1, derived.VerifiedUserCount)
	assert.Len(t, derived.FilteredProducts, 3)
	assert.Len(t, derived.FilteredInventory, 3)
	assert.Equal(t, "Dashboard Overview", derived.PageTitle)
	assert.Equal(t, []CategoryCount{{Name: "Peripherals", Count: 2}, {Name: "Displays", Count: 1}}, derived.Categories)
}

func TestViewModelThemeTogglePersistsOncePerToggle(t *testing.T) {
	store := newCountingStore()
	ctx := context.Background()
	vm := NewViewModel(ctx, ViewModelOptions{Snapshot: stockSnapshot(), Preferences: store})
	assert.Equal(t, ThemeLight, vm.State().Theme)

	assert.Equal(t, ThemeDark, vm.ToggleTheme(ctx))
	assert.Equal(t, []string{"dark-mode"}, store.written(PreferenceTheme))

	assert.Equal(t, ThemeLight, vm.ToggleTheme(ctx))
	assert.Equal(t, []string{"dark-mode", "light-mode"}, store.written(PreferenceTheme))
	assert.Equal(t, ThemeLight, vm.State().Theme)
}

func TestViewModelRestoresPreferences(t *testing.T) {
	store := NewInMemoryPreferenceStore()
	ctx := context.Background()
	require.NoError(t, store.SavePreference(ctx, PreferenceTheme, "dark-mode"))
	require.NoError(t, store.SavePreference(ctx, PreferenceActiveSection, "inventory"))

	vm := NewViewModel(ctx, ViewModelOptions{Preferences: store})
	state := vm.State()
	assert.Equal(t, ThemeDark, state.Theme)
	assert.Equal(t, SectionInventory, state.ActiveSection)
	assert.Equal(t, "Inventory Management", vm.Derive(ctx).PageTitle)
}

func TestViewModelSurvivesUnavailableStorage(t *testing.T) {
	telemetry := &recordingTelemetry{}
	ctx := context.Background()
	for _, store := range []PreferenceStore{UnavailablePreferenceStore{}, panickingStore{}} {
		vm := NewViewModel(ctx, ViewModelOptions{Preferences: store, Telemetry: telemetry})
		assert.Equal(t, DefaultState(), vm.State())
		assert.Equal(t, ThemeDark, vm.ToggleTheme(ctx))
		require.NoError(t, vm.Navigate(ctx, SectionUsers))
		assert.Equal(t, SectionUsers, vm.State().ActiveSection)
	}
	assert.True(t, telemetry.has("backoffice.preferences.read_error"))
	assert.True(t, telemetry.has("backoffice.preferences.write_error"))
}

func TestViewModelNavigatePersistsSection(t *testing.T) {
	store := newCountingStore()
	ctx := context.Background()
	vm := NewViewModel(ctx, ViewModelOptions{Preferences: store})

	vm.ToggleSidebar(ctx, 500)
	assert.True(t, vm.State().SidebarVisible)
	require.NoError(t, vm.Navigate(ctx, SectionProducts))
	assert.False(t, vm.State().SidebarVisible)
	assert.Equal(t, []string{"products"}, store.written(PreferenceActiveSection))

	assert.ErrorIs(t, vm.Navigate(ctx, ""), ErrInvalidSection)

	require.NoError(t, vm.Navigate(ctx, Section("reports")))
	assert.Equal(t, SectionDashboard, vm.State().ActiveSection)
	assert.Equal(t, "Dashboard Overview", vm.Derive(ctx).PageTitle)
	assert.Equal(t, []string{"products", "dashboard"}, store.written(PreferenceActiveSection))
}

func TestViewModelIgnoresUnknownStoredSection(t *testing.T) {
	store := NewInMemoryPreferenceStore()
	ctx := context.Background()
	require.NoError(t, store.SavePreference(ctx, PreferenceActiveSection, "reports"))

	vm := NewViewModel(ctx, ViewModelOptions{Preferences: store})
	assert.Equal(t, SectionDashboard, vm.State().ActiveSection)

	shell := BuildShell(vm.Snapshot(), vm.State(), vm.Derive(ctx))
	active := 0
	for _, section := range shell.Sections {
		if section.Active {
			active++
		}
	}
	assert.Equal(t, 1, active)
}

func TestViewModelProfileMenuClosesOnOutsideClick(t *testing.T) {
	ctx := context.Background()
	vm := NewViewModel(ctx, ViewModelOptions{})
	doc := NewDocument()
	vm.Mount(doc)
	vm.Mount(doc)
	assert.Equal(t, 1, doc.ListenerCount(EventClick))

	vm.ToggleProfileMenu(ctx)
	assert.True(t, vm.State().ProfileMenuOpen)

	doc.Dispatch(ClickEvent{Path: []string{"logout-link", ProfileMenuID}})
	assert.True(t, vm.State().ProfileMenuOpen)
	doc.Dispatch(ClickEvent{Path: []string{"avatar", ProfileToggleID}})
	assert.True(t, vm.State().ProfileMenuOpen)

	doc.Dispatch(ClickEvent{Path: []string{"content-area"}})
	assert.False(t, vm.State().ProfileMenuOpen)

	vm.Unmount()
	assert.Zero(t, doc.ListenerCount(EventClick))
	assert.Zero(t, doc.ListenerCount(EventResize))
}

func TestViewModelResizeHidesOverlay(t *testing.T) {
	ctx := context.Background()
	vm := NewViewModel(ctx, ViewModelOptions{})
	doc := NewDocument()
	vm.Mount(doc)

	vm.ToggleSidebar(ctx, 600)
	doc.Dispatch(ResizeEvent{Width: 700})
	assert.True(t, vm.State().SidebarVisible)
	doc.Dispatch(ResizeEvent{Width: 1200})
	assert.False(t, vm.State().SidebarVisible)
}

func TestViewModelFilters(t *testing.T) {
	ctx := context.Background()
	vm := NewViewModel(ctx, ViewModelOptions{Snapshot: stockSnapshot()})

	vm.SetProductSearch(ctx, "key")
	assert.Len(t, vm.Derive(ctx).FilteredProducts, 1)

	require.NoError(t, vm.SetInventoryFilter(ctx, "out"))
	inventory := vm.Derive(ctx).FilteredInventory
	require.Len(t, inventory, 1)
	assert.Equal(t, "P-1", inventory[0].ID)

	assert.ErrorIs(t, vm.SetInventoryFilter(ctx, "expired"), ErrInvalidFilter)
	assert.Equal(t, FilterOut, vm.State().InventoryFilter)
}

func TestViewModelPublishesOnlyChanges(t *testing.T) {
	ctx := context.Background()
	sink := &recordingSink{}
	vm := NewViewModel(ctx, ViewModelOptions{Sink: sink})

	vm.Resize(ctx, 1200)
	assert.Empty(t, sink.types())
	vm.SetProductSearch(ctx, "mouse")
	vm.SetProductSearch(ctx, "mouse")
	assert.Equal(t, 1, sink.count(EventStateChanged))
}

func TestViewModelSetThemeValidates(t *testing.T) {
	ctx := context.Background()
	store := newCountingStore()
	vm := NewViewModel(ctx, ViewModelOptions{Preferences: store})

	require.NoError(t, vm.SetTheme(ctx, "dark-mode"))
	assert.Equal(t, ThemeDark, vm.State().Theme)
	assert.ErrorIs(t, vm.SetTheme(ctx, "sepia"), ErrInvalidTheme)
	assert.Equal(t, []string{"dark-mode"}, store.written(PreferenceTheme))
}

func TestViewModelMemoizesDerivations(t *testing.T) {
	ctx := context.Background()
	vm := NewViewModel(ctx, ViewModelOptions{Snapshot: stockSnapshot()})
	vm.SetProductSearch(ctx, "mo")
	first := vm.Derive(ctx).FilteredProducts
	second := vm.Derive(ctx).FilteredProducts
	require.NotEmpty(t, first)
	assert.Same(t, &first[0], &second[0])
}
