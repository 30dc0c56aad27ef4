package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// PricePoint is one observation of a product's price at a point in time.
type PricePoint struct {
	Timestamp int64           `json:"timestamp"` // Unix ms
	Price     decimal.Decimal `json:"price"`
	Vendor    string          `json:"vendor"`
}

// Time returns the observation time of the point.
func (p PricePoint) Time() time.Time {
	return time.UnixMilli(p.Timestamp)
}

// Window selects how much history a read covers.
type Window string

const (
	WindowWeek  Window = "1w"
	WindowMonth Window = "1m"
	WindowAll   Window = "all"
)

// ParseWindow maps a query-string range to a Window, defaulting to 1m.
func ParseWindow(s string) Window {
	switch s {
	case "1w", "1W":
		return WindowWeek
	case "all", "ALL":
		return WindowAll
	default:
		return WindowMonth
	}
}

// Cutoff returns the earliest timestamp (Unix ms) included in the window,
// relative to now. WindowAll includes everything.
func (w Window) Cutoff(now time.Time) int64 {
	switch w {
	case WindowWeek:
		return now.AddDate(0, 0, -7).UnixMilli()
	case WindowMonth:
		return now.AddDate(0, 0, -30).UnixMilli()
	default:
		return 0
	}
}

// SeriesStats are derived statistics over one product's price series.
type SeriesStats struct {
	Min     decimal.Decimal `json:"min"`
	Max     decimal.Decimal `json:"max"`
	Average decimal.Decimal `json:"average"`
	Count   int             `json:"count"`
}
