package backoffice

import (
	"context"
	"fmt"
	"sync"
)

// Element ids the document click listener inspects.
const (
	ProfileMenuID   = "profile-menu"
	ProfileToggleID = "profile-toggle"
)

// ViewModelOptions configures a view-model.
type ViewModelOptions struct {
	ViewID      string
	Snapshot    *Snapshot
	Preferences PreferenceStore
	Translator  TranslationService
	Sink        EventSink
	Telemetry   Telemetry
}

// ViewModel owns the UI state of one mounted view and derives every computed
// collection from the snapshot and that state.
type ViewModel struct {
	mu         sync.Mutex
	viewID     string
	snapshot   *Snapshot
	state      UIState
	prefs      preferences
	translator TranslationService
	sink       EventSink
	telemetry  Telemetry
	detach     []func()

	products   memo[productSearchKey, []Product]
	inventory  memo[inventoryKey, []Product]
	counts     memo[*Snapshot, stockCounts]
	categories memo[*Snapshot, []CategoryCount]
}

type stockCounts struct {
	low      int
	out      int
	verified int
}

// NewViewModel seeds the state from stored preferences, falling back to the
// defaults when the store is empty or unavailable.
func NewViewModel(ctx context.Context, opts ViewModelOptions) *ViewModel {
	telemetry := normalizeTelemetry(opts.Telemetry)
	vm := &ViewModel{
		viewID:     opts.ViewID,
		snapshot:   opts.Snapshot,
		prefs:      newPreferences(opts.Preferences, telemetry),
		translator: opts.Translator,
		sink:       normalizeSink(opts.Sink),
		telemetry:  telemetry,
	}
	if vm.snapshot == nil {
		vm.snapshot = EmptySnapshot()
	}
	state := DefaultState()
	if theme, ok := ParseTheme(vm.prefs.read(ctx, PreferenceTheme, ThemeLight.BodyClass())); ok {
		state.Theme = theme
	}
	if section := Section(vm.prefs.read(ctx, PreferenceActiveSection, string(SectionDashboard))); section.Known() {
		state.ActiveSection = section
	}
	vm.state = state
	return vm
}

// State returns the current UI state.
func (vm *ViewModel) State() UIState {
	vm.mu.Lock()
	defer vm.mu.Unlock()
	return vm.state
}

// Snapshot returns the snapshot the view was mounted with.
func (vm *ViewModel) Snapshot() *Snapshot {
	vm.mu.Lock()
	defer vm.mu.Unlock()
	return vm.snapshot
}

// SetTheme switches the theme and persists it.
func (vm *ViewModel) SetTheme(ctx context.Context, theme Theme) error {
	if _, ok := ParseTheme(string(theme)); !ok {
		return fmt.Errorf("%w: %q", ErrInvalidTheme, theme)
	}
	theme, _ = ParseTheme(string(theme))
	vm.apply(ctx, func(s UIState) UIState { return s.WithTheme(theme) })
	vm.prefs.write(ctx, PreferenceTheme, theme.BodyClass())
	return nil
}

// ToggleTheme flips the theme and persists the result once.
func (vm *ViewModel) ToggleTheme(ctx context.Context) Theme {
	var next Theme
	vm.apply(ctx, func(s UIState) UIState {
		next = s.Theme.Toggle()
		return s.WithTheme(next)
	})
	vm.prefs.write(ctx, PreferenceTheme, next.BodyClass())
	return next
}

// Navigate activates a section, closes the mobile overlay and persists the
// section. Unknown section ids land on the dashboard.
func (vm *ViewModel) Navigate(ctx context.Context, section Section) error {
	if section == "" {
		return ErrInvalidSection
	}
	if !section.Known() {
		section = SectionDashboard
	}
	vm.apply(ctx, func(s UIState) UIState { return s.Navigate(section) })
	vm.prefs.write(ctx, PreferenceActiveSection, string(section))
	return nil
}

// ToggleSidebar collapses or reveals the sidebar depending on the viewport
// width sampled by the caller.
func (vm *ViewModel) ToggleSidebar(ctx context.Context, viewportWidth int) {
	vm.apply(ctx, func(s UIState) UIState { return s.ToggleSidebar(viewportWidth) })
}

// ToggleProfileMenu opens or closes the profile dropdown.
func (vm *ViewModel) ToggleProfileMenu(ctx context.Context) {
	vm.apply(ctx, func(s UIState) UIState { return s.ToggleProfileMenu() })
}

// SetProductSearch stores the product search term.
func (vm *ViewModel) SetProductSearch(ctx context.Context, term string) {
	vm.apply(ctx, func(s UIState) UIState { return s.WithProductSearch(term) })
}

// SetInventoryFilter validates and applies an inventory filter.
func (vm *ViewModel) SetInventoryFilter(ctx context.Context, value string) error {
	filter, ok := ParseInventoryFilter(value)
	if !ok {
		return fmt.Errorf("%w: %q", ErrInvalidFilter, value)
	}
	vm.apply(ctx, func(s UIState) UIState { return s.WithInventoryFilter(filter) })
	return nil
}

// Resize reacts to a viewport width change.
func (vm *ViewModel) Resize(ctx context.Context, viewportWidth int) {
	vm.apply(ctx, func(s UIState) UIState { return s.Resized(viewportWidth) })
}

// HandleClick closes the profile menu when the click landed outside of it.
// Clicks on the toggle are left to ToggleProfileMenu.
func (vm *ViewModel) HandleClick(ctx context.Context, click ClickEvent) {
	if click.Within(ProfileMenuID) || click.Within(ProfileToggleID) {
		return
	}
	vm.apply(ctx, func(s UIState) UIState { return s.CloseProfileMenu() })
}

// Mount attaches the click and resize listeners. Mounting twice is a no-op.
func (vm *ViewModel) Mount(doc *Document) {
	if doc == nil {
		return
	}
	vm.mu.Lock()
	defer vm.mu.Unlock()
	if len(vm.detach) > 0 {
		return
	}
	vm.detach = append(vm.detach,
		doc.Listen(EventClick, func(event Event) {
			if click, ok := event.(ClickEvent); ok {
				vm.HandleClick(context.Background(), click)
			}
		}),
		doc.Listen(EventResize, func(event Event) {
			if resize, ok := event.(ResizeEvent); ok {
				vm.Resize(context.Background(), resize.Width)
			}
		}),
	)
}

// Unmount removes the listeners attached by Mount.
func (vm *ViewModel) Unmount() {
	vm.mu.Lock()
	detach := vm.detach
	vm.detach = nil
	vm.mu.Unlock()
	for _, fn := range detach {
		fn()
	}
}

// Derive computes every derived value for the current state. Results are
// memoized on the snapshot and the relevant state fields.
func (vm *ViewModel) Derive(ctx context.Context) Derived {
	vm.mu.Lock()
	snapshot := vm.snapshot
	state := vm.state
	vm.mu.Unlock()

	counts := vm.counts.get(snapshot, func() stockCounts {
		return stockCounts{
			low:      LowStockCount(snapshot.Products),
			out:      OutOfStockCount(snapshot.Products),
			verified: VerifiedUserCount(snapshot.Users),
		}
	})
	return Derived{
		LowStockCount:     counts.low,
		OutOfStockCount:   counts.out,
		VerifiedUserCount: counts.verified,
		FilteredProducts: vm.products.get(productSearchKey{snapshot: snapshot, term: state.ProductSearch}, func() []Product {
			return FilterProducts(snapshot.Products, state.ProductSearch)
		}),
		FilteredInventory: vm.inventory.get(inventoryKey{snapshot: snapshot, filter: state.InventoryFilter}, func() []Product {
			return FilterInventory(snapshot.Products, state.InventoryFilter)
		}),
		Categories: vm.categories.get(snapshot, func() []CategoryCount {
			return CategoryHistogram(snapshot.Products)
		}),
		PageTitle: SectionTitle(ctx, vm.translator, state.ActiveSection),
	}
}

func (vm *ViewModel) apply(ctx context.Context, transition func(UIState) UIState) {
	vm.mu.Lock()
	before := vm.state
	vm.state = transition(vm.state)
	after := vm.state
	vm.mu.Unlock()

	if before == after {
		return
	}
	publish(ctx, vm.sink, vm.telemetry, vm.viewID, EventStateChanged, map[string]any{"state": after})
}
