package usecase

import (
	"context"
	"log"
	"math/rand"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Kushagra-Garg-27/SmartComparison-Tool/internal/domain"
)

// RefreshService handles manual price refreshes: perturb every competitor
// price, record history for verified entries and hand the result to the
// analysis collaborator. Analysis failures are absorbed by a deterministic
// fallback; a refresh never returns an error to the caller.
type RefreshService struct {
	history  *HistoryService
	analyzer domain.Analyzer
	rand     *rand.Rand
}

// NewRefreshService creates a refresh service. analyzer may be nil; every
// analysis then resolves to the fallback result.
func NewRefreshService(history *HistoryService, analyzer domain.Analyzer) *RefreshService {
	return &RefreshService{
		history:  history,
		analyzer: analyzer,
		rand:     rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// RefreshPrices applies a uniform random multiplier in [0.9, 1.1) to every
// competitor price, rounds to 2 decimals, tags each listing's price trend
// against its average price (or its previous price when no average is known),
// appends a price point for each verified competitor and for the reference
// product, and re-runs analysis.
func (s *RefreshService) RefreshPrices(ctx context.Context, ref domain.Listing, competitors []domain.Listing, reviews []domain.Review) ([]domain.Listing, *domain.AnalysisResult) {
	updated := make([]domain.Listing, len(competitors))
	for i, c := range competitors {
		baseline := c.Price
		if c.AveragePrice != nil {
			baseline = *c.AveragePrice
		}

		factor := 0.9 + s.rand.Float64()*0.2
		c.Price = c.Price.Mul(decimal.NewFromFloat(factor)).Round(2)
		c.PriceTrend = ClassifyTrend(c.Price, baseline)
		updated[i] = c
	}

	for _, c := range updated {
		if c.IsVerified() {
			if err := s.history.AddPoint(ctx, c.ID, c.Price, c.Vendor); err != nil {
				log.Printf("[HISTORY] add point failed for %q: %v", c.ID, err)
			}
		}
	}
	if err := s.history.AddPoint(ctx, ref.ID, ref.Price, ref.Vendor); err != nil {
		log.Printf("[HISTORY] add point failed for %q: %v", ref.ID, err)
	}

	analysis := s.Analyze(ctx, ref, updated, reviews)
	return updated, analysis
}

// Analyze runs the analysis collaborator over the verified competitors,
// falling back to the full set when nothing is verified yet. Any collaborator
// failure yields the deterministic fallback instead of an error.
func (s *RefreshService) Analyze(ctx context.Context, ref domain.Listing, competitors []domain.Listing, reviews []domain.Review) *domain.AnalysisResult {
	subjects := verifiedOf(competitors)
	if len(subjects) == 0 {
		subjects = competitors
	}

	if s.analyzer != nil {
		result, err := s.analyzer.AnalyzeComparison(ctx, ref, subjects, reviews)
		if err == nil && result != nil {
			return result
		}
		log.Printf("[RECONCILE] analysis failed, using fallback: %v", err)
	}
	return FallbackAnalysis(ref, competitors)
}

// FallbackAnalysis is the deterministic stand-in used when the analysis
// collaborator fails. Best price is the cheapest verified competitor with a
// known (non-zero) price; repaired listings that defaulted to a zero price
// are excluded from the comparison.
func FallbackAnalysis(ref domain.Listing, competitors []domain.Listing) *domain.AnalysisResult {
	bestPriceID := ref.ID
	var bestPrice decimal.Decimal
	for _, c := range competitors {
		if !c.IsVerified() || c.Price.IsZero() {
			continue
		}
		if bestPriceID == ref.ID || c.Price.LessThan(bestPrice) {
			bestPriceID = c.ID
			bestPrice = c.Price
		}
	}

	return &domain.AnalysisResult{
		BestPriceID:    bestPriceID,
		BestValueID:    ref.ID,
		Summary:        "Comparison temporarily unavailable.",
		Recommendation: "Check back later.",
		Pros:           []string{"Premium Sound", "Long Battery"},
		Cons:           []string{"High Price"},
		Alternatives:   []domain.Alternative{},
	}
}

func verifiedOf(listings []domain.Listing) []domain.Listing {
	var out []domain.Listing
	for _, l := range listings {
		if l.IsVerified() {
			out = append(out, l)
		}
	}
	return out
}
