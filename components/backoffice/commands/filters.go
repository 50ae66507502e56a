package commands

import (
	"context"

	gocommand "github.com/goliatone/go-command"

	"github.com/goliatone/go-backoffice/components/backoffice"
)

// SearchInput carries the raw product search term.
type SearchInput struct {
	ViewID string `json:"view_id"`
	Term   string `json:"term"`
}

// SearchProductsCommand updates the product search term.
type SearchProductsCommand struct {
	views viewLocator
}

// NewSearchProductsCommand creates the command.
func NewSearchProductsCommand(views viewLocator) *SearchProductsCommand {
	return &SearchProductsCommand{views: views}
}

var _ gocommand.Commander[SearchInput] = (*SearchProductsCommand)(nil)

// Execute stores the term.
func (c *SearchProductsCommand) Execute(ctx context.Context, msg SearchInput) error {
	view, err := lookup(c.views, msg.ViewID)
	if err != nil {
		return err
	}
	view.Model.SetProductSearch(ctx, msg.Term)
	return nil
}

// FilterInput selects an inventory filter.
type FilterInput struct {
	ViewID string `json:"view_id"`
	Filter string `json:"filter"`
}

// FilterInventoryCommand applies an inventory filter.
type FilterInventoryCommand struct {
	views     viewLocator
	telemetry Telemetry
}

// NewFilterInventoryCommand creates the command.
func NewFilterInventoryCommand(views viewLocator, telemetry Telemetry) *FilterInventoryCommand {
	return &FilterInventoryCommand{views: views, telemetry: withTelemetry(telemetry)}
}

var _ gocommand.Commander[FilterInput] = (*FilterInventoryCommand)(nil)

// Execute applies the filter. Unknown filters raise an error toast and keep the
// current one.
func (c *FilterInventoryCommand) Execute(ctx context.Context, msg FilterInput) error {
	view, err := lookup(c.views, msg.ViewID)
	if err != nil {
		return err
	}
	if err := view.Model.SetInventoryFilter(ctx, msg.Filter); err != nil {
		view.Notify(ctx, "Unknown inventory filter.", backoffice.SeverityError)
		return nil
	}
	recordAction(ctx, c.telemetry, "inventory_filter", msg.ViewID, map[string]any{"filter": msg.Filter})
	return nil
}
