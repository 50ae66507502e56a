package backoffice

import (
	"errors"
	"math"
	"strconv"
	"strings"
)

// Stock thresholds used by badges, counters, and the inventory filter.
const (
	LowStockMin = 1
	LowStockMax = 4
)

// StockStatus is the three-way classification rendered as a badge.
type StockStatus string

const (
	StockOut StockStatus = "out-of-stock"
	StockLow StockStatus = "low-stock"
	StockIn  StockStatus = "in-stock"
)

// Label returns the human readable badge text.
func (s StockStatus) Label() string {
	switch s {
	case StockOut:
		return "Out of Stock"
	case StockLow:
		return "Low Stock"
	default:
		return "In Stock"
	}
}

// BadgeClass returns the CSS classes used by the status badge.
func (s StockStatus) BadgeClass() string {
	switch s {
	case StockOut:
		return "status-badge critical"
	case StockLow:
		return "status-badge warning"
	default:
		return "status-badge success"
	}
}

// StockLevel holds a coerced stock count. Known is false when the source value
// could not be coerced to a number.
type StockLevel struct {
	Raw   string  `json:"raw"`
	Value float64 `json:"value"`
	Known bool    `json:"known"`
}

// NewStock returns a numeric stock level.
func NewStock(value float64) StockLevel {
	return StockLevel{
		Raw:   strconv.FormatFloat(value, 'f', -1, 64),
		Value: value,
		Known: !math.IsNaN(value),
	}
}

// UnknownStock returns a stock level that failed numeric coercion.
func UnknownStock(raw string) StockLevel {
	return StockLevel{Raw: raw}
}

// ParseStock coerces a string the way a browser Number() call would: blank
// strings are zero, 0x/0o/0b literals are unsigned integers, only the exact
// spelling Infinity is infinite, and anything else unparseable is unknown.
func ParseStock(raw string) StockLevel {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return StockLevel{Raw: raw, Known: true}
	}
	switch trimmed {
	case "Infinity", "+Infinity":
		return StockLevel{Raw: raw, Value: math.Inf(1), Known: true}
	case "-Infinity":
		return StockLevel{Raw: raw, Value: math.Inf(-1), Known: true}
	}
	if len(trimmed) > 2 && trimmed[0] == '0' {
		if base, ok := radixPrefixes[trimmed[1]]; ok {
			n, err := strconv.ParseUint(trimmed[2:], base, 64)
			if err != nil {
				return UnknownStock(raw)
			}
			return StockLevel{Raw: raw, Value: float64(n), Known: true}
		}
	}
	// ParseFloat also reads nan, inf, infinity and hex floats, which Number()
	// rejects.
	if strings.ContainsAny(strings.ToLower(trimmed), "inpx_") {
		return UnknownStock(raw)
	}
	value, err := strconv.ParseFloat(trimmed, 64)
	if err != nil && !errors.Is(err, strconv.ErrRange) {
		return UnknownStock(raw)
	}
	return StockLevel{Raw: raw, Value: value, Known: true}
}

var radixPrefixes = map[byte]int{
	'x': 16, 'X': 16,
	'o': 8, 'O': 8,
	'b': 2, 'B': 2,
}

// IsLow reports a numeric stock within the low threshold band.
func (s StockLevel) IsLow() bool {
	return s.Known && s.Value >= LowStockMin && s.Value <= LowStockMax
}

// IsOut reports a numeric stock of exactly zero.
func (s StockLevel) IsOut() bool {
	return s.Known && s.Value == 0
}

// IsHealthy reports a numeric stock above the low threshold band.
func (s StockLevel) IsHealthy() bool {
	return s.Known && s.Value > LowStockMax
}

// String returns the display value.
func (s StockLevel) String() string {
	return s.Raw
}

// ClassifyStock applies the badge priority: out, then low, then in stock.
func ClassifyStock(level StockLevel) StockStatus {
	if !level.Known || level.Value == 0 {
		return StockOut
	}
	if level.IsLow() {
		return StockLow
	}
	return StockIn
}
