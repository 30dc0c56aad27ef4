package domain

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Platform identifies the retail platform a listing belongs to.
type Platform string

const (
	PlatformAmazon  Platform = "Amazon"
	PlatformEbay    Platform = "eBay"
	PlatformBestBuy Platform = "BestBuy"
	PlatformWalmart Platform = "Walmart"
	PlatformDirect  Platform = "Direct"
)

// Condition describes the physical state of an offered item.
type Condition string

const (
	ConditionNew         Condition = "New"
	ConditionRefurbished Condition = "Refurbished"
	ConditionUsed        Condition = "Used"
)

// ParseCondition maps free text from deal discovery to a Condition.
// Unknown or empty input defaults to New.
func ParseCondition(s string) Condition {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "used":
		return ConditionUsed
	case "refurbished":
		return ConditionRefurbished
	default:
		return ConditionNew
	}
}

// VerificationStatus is the lifecycle tag of a listing's link/price check.
// Transitions: unverified -> searching -> {verified, failed};
// failed -> verified is only reachable through the repair step.
type VerificationStatus string

const (
	StatusUnverified VerificationStatus = "unverified"
	StatusSearching  VerificationStatus = "searching"
	StatusVerified   VerificationStatus = "verified"
	StatusFailed     VerificationStatus = "failed"
)

// Trend classifies a price relative to a reference price.
type Trend string

const (
	TrendUp     Trend = "up"
	TrendDown   Trend = "down"
	TrendStable Trend = "stable"
)

// Listing is a competitor or reference product offer tracked by the engine.
type Listing struct {
	ID                 string             `json:"id"`
	ExternalID         string             `json:"externalId,omitempty"` // ASIN, item ID, SKU, ...
	Title              string             `json:"title"`
	Price              decimal.Decimal    `json:"price"`
	Currency           string             `json:"currency"`
	Vendor             string             `json:"vendor"`
	Image              string             `json:"image,omitempty"`
	Rating             float64            `json:"rating"`
	ReviewCount        int                `json:"reviewCount"`
	Condition          Condition          `json:"condition"`
	Shipping           string             `json:"shipping,omitempty"`
	SellerTrustScore   int                `json:"sellerTrustScore"` // 0 to 100
	URL                string             `json:"url,omitempty"`
	Platform           Platform           `json:"platform"`
	PriceTrend         Trend              `json:"priceTrend,omitempty"`
	AveragePrice       *decimal.Decimal   `json:"averagePrice,omitempty"`
	VerificationStatus VerificationStatus `json:"verificationStatus"`
	IsAlternative      bool               `json:"isAlternative"`
}

// MarkSearching moves the listing into the searching state.
func (l *Listing) MarkSearching() {
	l.VerificationStatus = StatusSearching
	l.IsAlternative = false
}

// MarkVerified confirms the listing as an original (non-repaired) match.
func (l *Listing) MarkVerified() {
	l.VerificationStatus = StatusVerified
	l.IsAlternative = false
}

// MarkRepaired confirms the listing as a fallback replacement for a failed
// match. This is the only transition that sets IsAlternative, keeping the
// invariant that IsAlternative implies verified.
func (l *Listing) MarkRepaired() {
	l.VerificationStatus = StatusVerified
	l.IsAlternative = true
}

// MarkFailed records that no deal could confirm this listing.
func (l *Listing) MarkFailed() {
	l.VerificationStatus = StatusFailed
	l.IsAlternative = false
}

// IsVerified reports whether the listing passed verification.
func (l *Listing) IsVerified() bool {
	return l.VerificationStatus == StatusVerified
}

// CandidateDeal is an unverified external offer produced by deal discovery.
// Candidates carry no identifier; they are matched by content.
type CandidateDeal struct {
	Vendor    string           `json:"vendor,omitempty"`
	Price     *decimal.Decimal `json:"price,omitempty"` // may be estimated or absent
	URL       string           `json:"url,omitempty"`
	Condition string           `json:"condition,omitempty"`
}

// Review is a shopper review passed through to the analysis collaborator.
type Review struct {
	ID     string  `json:"id"`
	User   string  `json:"user"`
	Rating float64 `json:"rating"`
	Text   string  `json:"text"`
	Date   string  `json:"date"`
}

// Alternative is a different model/brand suggested by analysis.
type Alternative struct {
	Title  string          `json:"title"`
	Price  decimal.Decimal `json:"price"`
	Reason string          `json:"reason"`
}

// AnalysisResult is the structured output of the analysis collaborator.
type AnalysisResult struct {
	BestPriceID    string        `json:"bestPriceId"`
	BestValueID    string        `json:"bestValueId"`
	TrustWarningID string        `json:"trustWarningId,omitempty"`
	Summary        string        `json:"summary"`
	Recommendation string        `json:"recommendation"`
	Pros           []string      `json:"pros"`
	Cons           []string      `json:"cons"`
	Alternatives   []Alternative `json:"alternatives"`
}
