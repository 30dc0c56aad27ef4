package domain

import "context"

// HistoryRepository defines the key-value persistence for price series.
// Implementations must treat malformed or missing stored data as an empty
// series, never as a fatal error.
type HistoryRepository interface {
	GetSeries(ctx context.Context, productID string) ([]PricePoint, error)
	PutSeries(ctx context.Context, productID string, points []PricePoint) error
}

// DealFinder discovers live buying options for a product title.
// On any failure callers receive an error and must proceed with zero deals.
type DealFinder interface {
	FindLiveDeals(ctx context.Context, productTitle string) ([]CandidateDeal, error)
}

// Analyzer produces a comparison analysis for a reference listing and its
// competitors. Callers substitute a deterministic fallback on error.
type Analyzer interface {
	AnalyzeComparison(ctx context.Context, current Listing, competitors []Listing, reviews []Review) (*AnalysisResult, error)
}
