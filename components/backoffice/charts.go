package backoffice

import (
	"bytes"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/go-echarts/go-echarts/v2/types"
)

const (
	defaultChartHeight = "320px"
	// WeeklySalesTitle is the heading of the dashboard bar chart.
	WeeklySalesTitle = "Weekly Sales Chart (₱'000)"
)

// BarPoint is one day of the weekly sales chart. Height is the bar height in
// percent of the chart, Amount the value in thousands.
type BarPoint struct {
	Label  string  `json:"label"`
	Value  string  `json:"value"`
	Height int     `json:"height"`
	Amount float64 `json:"amount"`
}

// WeeklySales is the placeholder sales series shown on the dashboard until a
// sales feed exists.
func WeeklySales() []BarPoint {
	return []BarPoint{
		{Label: "Mon", Value: "₱35k", Height: 50, Amount: 35},
		{Label: "Tue", Value: "₱56k", Height: 80, Amount: 56},
		{Label: "Wed", Value: "₱21k", Height: 30, Amount: 21},
		{Label: "Thu", Value: "₱66k", Height: 95, Amount: 66},
		{Label: "Fri", Value: "₱49k", Height: 70, Amount: 49},
		{Label: "Sat", Value: "₱42k", Height: 60, Amount: 42},
		{Label: "Sun", Value: "₱31k", Height: 45, Amount: 31},
	}
}

// RenderCache memoizes rendered chart HTML.
type RenderCache interface {
	GetOrRender(key string, render func() (string, error)) (string, error)
}

// ChartCache is an in-memory TTL cache for rendered charts.
type ChartCache struct {
	ttl     time.Duration
	mu      sync.RWMutex
	entries map[string]cachedChart
}

type cachedChart struct {
	html    string
	expires time.Time
}

// NewChartCache builds a cache with the provided TTL. A non-positive TTL
// disables caching.
func NewChartCache(ttl time.Duration) *ChartCache {
	return &ChartCache{ttl: ttl, entries: make(map[string]cachedChart)}
}

// GetOrRender returns a cached entry or renders and stores a new one.
func (c *ChartCache) GetOrRender(key string, render func() (string, error)) (string, error) {
	if html, ok := c.get(key); ok {
		return html, nil
	}
	html, err := render()
	if err != nil {
		return "", err
	}
	c.set(key, html)
	return html, nil
}

func (c *ChartCache) get(key string) (string, bool) {
	if c == nil || c.ttl <= 0 {
		return "", false
	}
	c.mu.RLock()
	entry, ok := c.entries[key]
	c.mu.RUnlock()
	if !ok {
		return "", false
	}
	if time.Now().After(entry.expires) {
		c.mu.Lock()
		delete(c.entries, key)
		c.mu.Unlock()
		return "", false
	}
	return entry.html, true
}

func (c *ChartCache) set(key, html string) {
	if c == nil || c.ttl <= 0 {
		return
	}
	c.mu.Lock()
	c.entries[key] = cachedChart{html: html, expires: time.Now().Add(c.ttl)}
	c.mu.Unlock()
}

// ChartRenderer renders the dashboard charts with go-echarts.
type ChartRenderer struct {
	cache      RenderCache
	assetsHost string
}

// NewChartRenderer builds a renderer. A nil cache renders on every call.
func NewChartRenderer(cache RenderCache, assetsHost string) *ChartRenderer {
	return &ChartRenderer{cache: cache, assetsHost: assetsHost}
}

// WeeklySalesChart renders the weekly sales bar chart for the theme.
func (r *ChartRenderer) WeeklySalesChart(points []BarPoint, theme Theme) (string, error) {
	return r.cached("weekly-sales", theme, points, func() (string, error) {
		bar := charts.NewBar()
		bar.SetGlobalOptions(r.globalOptions(WeeklySalesTitle, theme)...)
		labels := make([]string, len(points))
		data := make([]opts.BarData, len(points))
		for i, point := range points {
			labels[i] = point.Label
			data[i] = opts.BarData{Name: point.Value, Value: point.Amount}
		}
		bar.SetXAxis(labels)
		bar.AddSeries("Sales", data)
		return renderChart(bar)
	})
}

// CategoryChart renders the category histogram as a pie chart.
func (r *ChartRenderer) CategoryChart(categories []CategoryCount, theme Theme) (string, error) {
	if len(categories) == 0 {
		return "", nil
	}
	return r.cached("categories", theme, categories, func() (string, error) {
		pie := charts.NewPie()
		pie.SetGlobalOptions(r.globalOptions("Catalog by Category", theme)...)
		data := make([]opts.PieData, len(categories))
		for i, category := range categories {
			data[i] = opts.PieData{Name: category.Name, Value: category.Count}
		}
		pie.AddSeries("Products", data)
		return renderChart(pie)
	})
}

func (r *ChartRenderer) cached(kind string, theme Theme, input any, render func() (string, error)) (string, error) {
	if r.cache == nil {
		return render()
	}
	key := fmt.Sprintf("%s:%s:%s", kind, theme, inputHash(input))
	return r.cache.GetOrRender(key, render)
}

func (r *ChartRenderer) globalOptions(title string, theme Theme) []charts.GlobalOpts {
	initOpts := opts.Initialization{
		Theme:  chartTheme(theme),
		Width:  "100%",
		Height: defaultChartHeight,
	}
	if r.assetsHost != "" {
		initOpts.AssetsHost = r.assetsHost
	}
	return []charts.GlobalOpts{
		charts.WithTitleOpts(opts.Title{Title: title}),
		charts.WithInitializationOpts(initOpts),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
	}
}

func chartTheme(theme Theme) string {
	if theme == ThemeDark {
		return types.ThemeWonderland
	}
	return types.ThemeWesteros
}

func renderChart(renderable interface{ Render(io.Writer) error }) (string, error) {
	var buf bytes.Buffer
	if err := renderable.Render(&buf); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// inputHash returns a deterministic hash for chart input.
func inputHash(v any) string {
	b, err := json.Marshal(v)
	if err != nil {
		return "invalid"
	}
	sum := sha1.Sum(b)
	return hex.EncodeToString(sum[:])
}
