package gemini

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/Kushagra-Garg-27/SmartComparison-Tool/internal/domain"
)

// buildDealsPrompt asks for active product pages on trusted retailers, as a
// JSON array of {vendor, price, url, condition}.
func buildDealsPrompt(productTitle string) string {
	return fmt.Sprintf(`Find valid, active product detail pages for buying %q online.
Search on major trusted retailers like Amazon, eBay, Best Buy, Walmart, B&H, and Target.

Return a JSON array of found buying options. For each, provide:
- vendor: The name of the store (e.g. "Best Buy").
- price: The current price number (estimate if necessary).
- url: The direct link to the product page.
- condition: "New", "Used", or "Refurbished".

Only include results where the product is actually available.
Ignore generic search result pages; look for specific item pages.`, productTitle)
}

// buildAnalysisPrompt serializes the comparison context and asks for the
// structured AnalysisResult JSON object.
func buildAnalysisPrompt(current domain.Listing, competitors []domain.Listing, reviews []domain.Review) (string, error) {
	currentJSON, err := json.Marshal(current)
	if err != nil {
		return "", err
	}
	competitorsJSON, err := json.Marshal(competitors)
	if err != nil {
		return "", err
	}
	reviewTexts := make([]string, 0, len(reviews))
	for _, r := range reviews {
		reviewTexts = append(reviewTexts, r.Text)
	}
	reviewsJSON, err := json.Marshal(reviewTexts)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	b.WriteString("You are an expert e-commerce shopping assistant.\n")
	b.WriteString("Analyze the current product being viewed vs its competitors.\n\n")
	fmt.Fprintf(&b, "Current Product: %s\n", currentJSON)
	fmt.Fprintf(&b, "Competitors: %s\n", competitorsJSON)
	fmt.Fprintf(&b, "Recent Reviews: %s\n\n", reviewsJSON)
	b.WriteString(`Task:
1. Identify the 'bestPriceId' (lowest total cost; ignore competitors whose price is 0, it means the price is unknown).
2. Identify the 'bestValueId' (balance of price, condition, trust).
3. Identify any 'trustWarningId' if a seller has a low trust score (< 70).
4. Write a concise 'summary' (max 2 sentences).
5. Provide a direct 'recommendation'.
6. List 3 'pros' and 3 'cons'.
7. Suggest 2 'alternatives' (different models/brands) with title, price, reason.

Return a JSON object with keys: bestPriceId, bestValueId, trustWarningId (nullable), summary, recommendation, pros, cons, alternatives.`)

	return b.String(), nil
}

// dealPayload is the wire shape of one discovered deal.
type dealPayload struct {
	Vendor    string   `json:"vendor"`
	Price     *float64 `json:"price"`
	URL       string   `json:"url"`
	Condition string   `json:"condition"`
}

// parseDeals decodes the model's JSON array into candidate deals.
func parseDeals(raw []byte) ([]domain.CandidateDeal, error) {
	var payload []dealPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return nil, err
	}

	deals := make([]domain.CandidateDeal, 0, len(payload))
	for _, d := range payload {
		deal := domain.CandidateDeal{
			Vendor:    strings.TrimSpace(d.Vendor),
			URL:       d.URL,
			Condition: d.Condition,
		}
		if d.Price != nil {
			p := decimal.NewFromFloat(*d.Price)
			deal.Price = &p
		}
		deals = append(deals, deal)
	}
	return deals, nil
}

// analysisPayload tolerates a null trustWarningId from the model.
type analysisPayload struct {
	BestPriceID    string               `json:"bestPriceId"`
	BestValueID    string               `json:"bestValueId"`
	TrustWarningID *string              `json:"trustWarningId"`
	Summary        string               `json:"summary"`
	Recommendation string               `json:"recommendation"`
	Pros           []string             `json:"pros"`
	Cons           []string             `json:"cons"`
	Alternatives   []domain.Alternative `json:"alternatives"`
}

// parseAnalysis decodes the model's JSON object into an AnalysisResult.
func parseAnalysis(raw []byte) (*domain.AnalysisResult, error) {
	var payload analysisPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return nil, err
	}
	if payload.BestPriceID == "" || payload.BestValueID == "" {
		return nil, fmt.Errorf("%w: missing best price/value ids", domain.ErrEmptyResponse)
	}

	result := &domain.AnalysisResult{
		BestPriceID:    payload.BestPriceID,
		BestValueID:    payload.BestValueID,
		Summary:        payload.Summary,
		Recommendation: payload.Recommendation,
		Pros:           payload.Pros,
		Cons:           payload.Cons,
		Alternatives:   payload.Alternatives,
	}
	if payload.TrustWarningID != nil {
		result.TrustWarningID = *payload.TrustWarningID
	}
	if result.Alternatives == nil {
		result.Alternatives = []domain.Alternative{}
	}
	return result, nil
}
