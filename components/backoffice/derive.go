package backoffice

import "strings"

// CategoryCount is a single bucket of the category histogram.
type CategoryCount struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// LowStockCount counts products whose numeric stock is between 1 and 4.
func LowStockCount(products []Product) int {
	count := 0
	for _, p := range products {
		if p.Stock.IsLow() {
			count++
		}
	}
	return count
}

// OutOfStockCount counts products whose numeric stock is exactly zero.
func OutOfStockCount(products []Product) int {
	count := 0
	for _, p := range products {
		if p.Stock.IsOut() {
			count++
		}
	}
	return count
}

// VerifiedUserCount counts users carrying a verification timestamp.
func VerifiedUserCount(users []User) int {
	count := 0
	for _, u := range users {
		if u.Verified() {
			count++
		}
	}
	return count
}

// FilterProducts keeps products whose name, category, or id contains the term,
// ignoring case. A blank term returns the input unchanged.
func FilterProducts(products []Product, term string) []Product {
	needle := strings.ToLower(strings.TrimSpace(term))
	if needle == "" {
		return products
	}
	out := make([]Product, 0, len(products))
	for _, p := range products {
		if strings.Contains(strings.ToLower(p.Name), needle) ||
			strings.Contains(strings.ToLower(p.Category), needle) ||
			strings.Contains(strings.ToLower(p.ID), needle) {
			out = append(out, p)
		}
	}
	return out
}

// FilterInventory keeps products matching the stock predicate of the filter.
// FilterAll returns the input unchanged.
func FilterInventory(products []Product, filter InventoryFilter) []Product {
	if filter == FilterAll || filter == "" {
		return products
	}
	out := make([]Product, 0, len(products))
	for _, p := range products {
		if filter.Match(p.Stock) {
			out = append(out, p)
		}
	}
	return out
}

// CategoryHistogram counts products per category in first-seen order.
func CategoryHistogram(products []Product) []CategoryCount {
	index := make(map[string]int)
	out := make([]CategoryCount, 0)
	for _, p := range products {
		name := p.CategoryOrDefault()
		if i, ok := index[name]; ok {
			out[i].Count++
			continue
		}
		index[name] = len(out)
		out = append(out, CategoryCount{Name: name, Count: 1})
	}
	return out
}

// Derived groups every value computed from a snapshot and a state.
type Derived struct {
	LowStockCount     int             `json:"low_stock_count"`
	OutOfStockCount   int             `json:"out_of_stock_count"`
	VerifiedUserCount int             `json:"verified_user_count"`
	FilteredProducts  []Product       `json:"filtered_products"`
	FilteredInventory []Product       `json:"filtered_inventory"`
	Categories        []CategoryCount `json:"categories"`
	PageTitle         string          `json:"page_title"`
}
