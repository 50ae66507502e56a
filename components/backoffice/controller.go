package backoffice

import (
	"context"
	"errors"
	"io"
)

// DefaultPageTitle is the browser title of the shell page.
const DefaultPageTitle = "TechStore Admin - POS System"

// ControllerOptions wires the collaborators needed to render a view.
type ControllerOptions struct {
	Service  *Service
	Renderer Renderer
	Charts   *ChartRenderer
	Template string
	// BasePath is where the backoffice routes are mounted; it is used to build
	// the action and event URLs the page script talks to.
	BasePath string
	CSSURL   string
}

// Controller renders mounted views through the template renderer.
type Controller struct {
	service  *Service
	renderer Renderer
	charts   *ChartRenderer
	template string
	basePath string
	cssURL   string
}

// NewController wires the service and renderer into a controller.
func NewController(opts ControllerOptions) *Controller {
	template := opts.Template
	if template == "" {
		template = "backoffice.html"
	}
	basePath := opts.BasePath
	if basePath == "" {
		basePath = "/admin/backoffice"
	}
	return &Controller{
		service:  opts.Service,
		renderer: opts.Renderer,
		charts:   opts.Charts,
		template: template,
		basePath: basePath,
		cssURL:   opts.CSSURL,
	}
}

// Service exposes the backing service.
func (c *Controller) Service() *Service {
	return c.service
}

// Mount creates a view for the viewer on ctx.
func (c *Controller) Mount(ctx context.Context) (*View, error) {
	if c.service == nil {
		return nil, errors.New("backoffice: controller requires service")
	}
	return c.service.Mount(ctx)
}

// RenderTemplate renders the shell of the view into out.
func (c *Controller) RenderTemplate(ctx context.Context, view *View, out io.Writer) error {
	if c.renderer == nil {
		return errors.New("backoffice: renderer not configured")
	}
	payload, err := c.Payload(ctx, view)
	if err != nil {
		return err
	}
	_, err = c.renderer.Render(c.template, payload, out)
	return err
}

// Payload builds the template data for a view.
func (c *Controller) Payload(ctx context.Context, view *View) (map[string]any, error) {
	if view == nil {
		return nil, ErrViewNotFound
	}
	snapshot := view.Model.Snapshot()
	shell := view.Shell(ctx)
	derived := view.Model.Derive(ctx)
	css := c.cssURL
	if css == "" {
		css = JoinURL(snapshot.BaseURL, "public/css/home.css")
	}
	viewPath := JoinURL(c.basePath, "views/"+view.ID)
	payload := map[string]any{
		"title":              DefaultPageTitle,
		"view_id":            view.ID,
		"shell":              shell,
		"toasts":             view.Toasts.Toasts(),
		"modals":             BuildModalViews(snapshot.SiteURL, view.Modals.Modals()),
		"intake":             view.Intake.State(),
		"css_url":            css,
		"actions_url":        viewPath + "/actions",
		"events_url":         viewPath + "/events",
		"weekly_sales_title": WeeklySalesTitle,
		"charts":             c.renderCharts(ctx, shell, derived),
	}
	return payload, nil
}

func (c *Controller) renderCharts(ctx context.Context, shell ShellView, derived Derived) map[string]string {
	out := map[string]string{}
	if c.charts == nil {
		return out
	}
	if html, err := c.charts.WeeklySalesChart(shell.WeeklySales, shell.Theme.Theme); err == nil {
		out["weekly_sales"] = html
	} else {
		c.recordChartError(ctx, "weekly_sales", err)
	}
	if html, err := c.charts.CategoryChart(derived.Categories, shell.Theme.Theme); err == nil && html != "" {
		out["categories"] = html
	} else if err != nil {
		c.recordChartError(ctx, "categories", err)
	}
	return out
}

func (c *Controller) recordChartError(ctx context.Context, chart string, err error) {
	if c.service == nil {
		return
	}
	c.service.opts.Telemetry.Record(ctx, "backoffice.chart.render_error", map[string]any{"chart": chart, "error": err.Error()})
}
