package backoffice

import (
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"
)

// CurrencySymbol prefixes money values in the summary cards.
const CurrencySymbol = "₱"

// FormatMoney renders a server supplied amount. Plain numbers get the currency
// symbol, thousands separators and two decimals; anything else is returned as
// given.
func FormatMoney(raw, fallback string) string {
	value := strings.TrimSpace(raw)
	if value == "" {
		return fallback
	}
	amount, err := strconv.ParseFloat(strings.ReplaceAll(value, ",", ""), 64)
	if err != nil {
		return value
	}
	return CurrencySymbol + " " + humanize.FormatFloat("#,###.##", amount)
}

// FormatCount renders a whole number with thousands separators. Non numeric
// values are returned as given.
func FormatCount(raw, fallback string) string {
	value := strings.TrimSpace(raw)
	if value == "" {
		return fallback
	}
	n, err := strconv.ParseInt(strings.ReplaceAll(value, ",", ""), 10, 64)
	if err != nil {
		return value
	}
	return humanize.Comma(n)
}

// FormatSummary applies the display rules to every summary field.
func FormatSummary(s Summary) Summary {
	return Summary{
		Sales:  FormatMoney(s.Sales, DefaultSalesValue),
		Profit: FormatMoney(s.Profit, DefaultProfitValue),
		Sold:   FormatCount(s.Sold, DefaultSoldValue),
	}
}
