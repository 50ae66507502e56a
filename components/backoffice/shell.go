package backoffice

import "fmt"

// Empty state messages.
const (
	EmptyProductsMessage  = "No products match your search."
	EmptyInventoryMessage = "No inventory records for this filter."
	catalogChipLimit      = 4
)

// NavItem is a sidebar entry.
type NavItem struct {
	ID     Section `json:"id"`
	Label  string  `json:"label"`
	Icon   string  `json:"icon"`
	Active bool    `json:"active"`
}

var navItems = []NavItem{
	{ID: SectionDashboard, Label: "Dashboard", Icon: "fas fa-chart-line"},
	{ID: SectionProducts, Label: "Products", Icon: "fas fa-box-open"},
	{ID: SectionInventory, Label: "Inventory", Icon: "fas fa-boxes"},
	{ID: SectionUsers, Label: "Users", Icon: "fas fa-users"},
	{ID: SectionTransactions, Label: "Transactions", Icon: "fas fa-receipt"},
	{ID: SectionApplicants, Label: "Applicants", Icon: "fas fa-id-card"},
}

// NavItems returns the sidebar entries in display order.
func NavItems() []NavItem {
	return append([]NavItem(nil), navItems...)
}

// StatCard is one of the dashboard summary cards.
type StatCard struct {
	Title      string `json:"title"`
	Value      string `json:"value"`
	TrendClass string `json:"trend_class"`
	TrendIcon  string `json:"trend_icon"`
	TrendText  string `json:"trend_text"`
	Icon       string `json:"icon"`
	ExtraClass string `json:"extra_class,omitempty"`
}

// SectionView marks whether a content section is shown.
type SectionView struct {
	ID     Section `json:"id"`
	Active bool    `json:"active"`
	Class  string  `json:"class"`
}

// CategoryChip is a catalog snapshot chip.
type CategoryChip struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
	Label string `json:"label"`
}

// ProductRow is a row of the products table.
type ProductRow struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Category  string `json:"category"`
	Price     string `json:"price"`
	EditURL   string `json:"edit_url"`
	DeleteURL string `json:"delete_url"`
}

// FilterChip is an inventory filter button.
type FilterChip struct {
	ID     InventoryFilter `json:"id"`
	Label  string          `json:"label"`
	Active bool            `json:"active"`
	Class  string          `json:"class"`
}

var filterChips = []FilterChip{
	{ID: FilterAll, Label: "All"},
	{ID: FilterHealthy, Label: "Healthy"},
	{ID: FilterLow, Label: "Low Stock"},
	{ID: FilterOut, Label: "Out of Stock"},
}

// InventoryRow is a row of the inventory table.
type InventoryRow struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Stock       string `json:"stock"`
	LastRestock string `json:"last_restock"`
	Status      string `json:"status"`
	BadgeClass  string `json:"badge_class"`
}

// UserRow is a row of the users table.
type UserRow struct {
	ID         string `json:"id"`
	Username   string `json:"username"`
	Email      string `json:"email"`
	VerifiedAt string `json:"verified_at"`
	DeleteURL  string `json:"delete_url"`
}

// ShellView is everything the page templates need for one render.
type ShellView struct {
	Theme            ThemeAssets    `json:"theme"`
	SidebarClass     string         `json:"sidebar_class"`
	ProfileMenuOpen  bool           `json:"profile_menu_open"`
	PageTitle        string         `json:"page_title"`
	ActiveSection    Section        `json:"active_section"`
	Nav              []NavItem      `json:"nav"`
	Sections         []SectionView  `json:"sections"`
	Stats            []StatCard     `json:"stats"`
	WeeklySales      []BarPoint     `json:"weekly_sales"`
	ProductCount     int            `json:"product_count"`
	CategoryChips    []CategoryChip `json:"category_chips"`
	ProductSearch    string         `json:"product_search"`
	Products         []ProductRow   `json:"products"`
	InventoryFilters []FilterChip   `json:"inventory_filters"`
	Inventory        []InventoryRow `json:"inventory"`
	Users            []UserRow      `json:"users"`
	Transactions     []Transaction  `json:"transactions"`
	Applicants       []Applicant    `json:"applicants"`
	VerifiedUsers    int            `json:"verified_users"`
	ProductsEmpty    string         `json:"products_empty"`
	InventoryEmpty   string         `json:"inventory_empty"`
}

// BuildShell assembles the view from its inputs. It has no side effects.
func BuildShell(snapshot *Snapshot, state UIState, derived Derived) ShellView {
	if snapshot == nil {
		snapshot = EmptySnapshot()
	}
	view := ShellView{
		Theme:           ResolveThemeAssets(snapshot.BaseURL, state.Theme),
		SidebarClass:    state.SidebarClass(),
		ProfileMenuOpen: state.ProfileMenuOpen,
		PageTitle:       derived.PageTitle,
		ActiveSection:   state.ActiveSection,
		Stats:           statCards(snapshot.Summary, derived),
		WeeklySales:     WeeklySales(),
		ProductCount:    len(snapshot.Products),
		ProductSearch:   state.ProductSearch,
		Transactions:    snapshot.Transactions,
		Applicants:      snapshot.Applicants,
		VerifiedUsers:   derived.VerifiedUserCount,
	}
	if view.PageTitle == "" {
		view.PageTitle = sectionTitles[SectionDashboard]
	}

	for _, item := range navItems {
		item.Active = item.ID == state.ActiveSection
		view.Nav = append(view.Nav, item)
	}
	for _, section := range sections {
		active := section == state.ActiveSection
		class := "content-section"
		if active {
			class += " active"
		}
		view.Sections = append(view.Sections, SectionView{ID: section, Active: active, Class: class})
	}

	for i, category := range derived.Categories {
		if i == catalogChipLimit {
			break
		}
		view.CategoryChips = append(view.CategoryChips, CategoryChip{
			Name:  category.Name,
			Count: category.Count,
			Label: fmt.Sprintf("%s · %d", category.Name, category.Count),
		})
	}

	view.Products = make([]ProductRow, 0, len(derived.FilteredProducts))
	for _, p := range derived.FilteredProducts {
		price := p.Price
		if price == "" {
			price = "0"
		}
		view.Products = append(view.Products, ProductRow{
			ID:        p.ID,
			Name:      p.Name,
			Category:  p.Category,
			Price:     CurrencySymbol + price,
			EditURL:   RecordURL(snapshot.SiteURL, ProductUpdatePath, p.ID),
			DeleteURL: RecordURL(snapshot.SiteURL, ProductDeletePath, p.ID),
		})
	}
	if len(view.Products) == 0 {
		view.ProductsEmpty = EmptyProductsMessage
	}

	for _, chip := range filterChips {
		chip.Active = chip.ID == state.InventoryFilter
		chip.Class = "react-chip inventory-chip"
		if chip.Active {
			chip.Class += " active"
		}
		view.InventoryFilters = append(view.InventoryFilters, chip)
	}
	view.Inventory = make([]InventoryRow, 0, len(derived.FilteredInventory))
	for _, p := range derived.FilteredInventory {
		status := p.Status()
		view.Inventory = append(view.Inventory, InventoryRow{
			ID:          p.ID,
			Name:        p.Name,
			Stock:       p.Stock.String(),
			LastRestock: p.LastRestock,
			Status:      status.Label(),
			BadgeClass:  status.BadgeClass(),
		})
	}
	if len(view.Inventory) == 0 {
		view.InventoryEmpty = EmptyInventoryMessage
	}

	view.Users = make([]UserRow, 0, len(snapshot.Users))
	for _, u := range snapshot.Users {
		view.Users = append(view.Users, UserRow{
			ID:         u.ID,
			Username:   u.Username,
			Email:      u.Email,
			VerifiedAt: u.VerifiedAt,
			DeleteURL:  RecordURL(snapshot.SiteURL, UserDeletePath, u.ID),
		})
	}
	return view
}

func statCards(summary Summary, derived Derived) []StatCard {
	formatted := FormatSummary(summary)
	return []StatCard{
		{
			Title:      "Total Sales (Today)",
			Value:      formatted.Sales,
			TrendClass: "up",
			TrendIcon:  "fas fa-arrow-up",
			TrendText:  "Live Snapshot",
			Icon:       "fas fa-chart-line",
		},
		{
			Title:      "Net Profit",
			Value:      formatted.Profit,
			TrendClass: "up",
			TrendIcon:  "fas fa-arrow-up",
			TrendText:  "Daily Net",
			Icon:       "fas fa-coins",
		},
		{
			Title:      "Products Sold",
			Value:      formatted.Sold,
			TrendClass: "down",
			TrendIcon:  "fas fa-arrow-down",
			TrendText:  "vs Yesterday",
			Icon:       "fas fa-shopping-bag",
		},
		{
			Title:      "Low Stock Items",
			Value:      fmt.Sprint(derived.LowStockCount),
			TrendClass: "alert",
			TrendIcon:  "fas fa-exclamation-circle",
			TrendText:  "Action Needed",
			Icon:       "fas fa-exclamation-circle",
			ExtraClass: "inventory-alert",
		},
		{
			Title:      "Out of Stock",
			Value:      fmt.Sprint(derived.OutOfStockCount),
			TrendClass: "down",
			TrendIcon:  "fas fa-box",
			TrendText:  "Restock immediately",
			Icon:       "fas fa-box-open",
		},
	}
}
