package usecase

import (
	"context"
	"log"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/Kushagra-Garg-27/SmartComparison-Tool/internal/domain"
	"github.com/Kushagra-Garg-27/SmartComparison-Tool/internal/urlutil"
)

const (
	repairedTrustScore  = 85 // verified fallback findings
	discoveryTrustScore = 80 // brand-new discoveries
	placeholderShipping = "Check Site"
)

// ReconcileService turns {existing competitors, candidate deals} into a new,
// verified, deduplicated competitor set.
type ReconcileService struct {
	finder  domain.DealFinder
	history *HistoryService
}

// NewReconcileService creates a reconcile service. finder may be nil when no
// discovery collaborator is configured; reconciliation then runs with zero
// deals and every existing listing fails verification.
func NewReconcileService(finder domain.DealFinder, history *HistoryService) *ReconcileService {
	return &ReconcileService{finder: finder, history: history}
}

// ValidateAndDiscover marks the competitor set as searching, fetches live
// deals for the reference product and reconciles the two. Discovery failures
// degrade to an empty deal list; they are never surfaced to the caller. The
// reference product's price history is seeded as a side effect so range
// queries have data on first use.
func (s *ReconcileService) ValidateAndDiscover(ctx context.Context, ref domain.Listing, existing []domain.Listing) []domain.Listing {
	for i := range existing {
		existing[i].MarkSearching()
	}

	var deals []domain.CandidateDeal
	if s.finder != nil {
		found, err := s.finder.FindLiveDeals(ctx, ref.Title)
		if err != nil {
			log.Printf("[RECONCILE] deal discovery failed, proceeding with zero deals: %v", err)
		} else {
			deals = found
		}
	}

	s.history.Seed(ctx, []domain.Listing{ref})

	return s.Reconcile(ref, existing, deals)
}

// Reconcile runs the three-stage merge: primary match, fallback repair, new
// discovery ingestion. The algorithm is deliberately greedy and first-match;
// scan-order determinism is part of the contract. Each deal is claimed at
// most once. Output order is the existing order followed by pool order.
func (s *ReconcileService) Reconcile(ref domain.Listing, existing []domain.Listing, deals []domain.CandidateDeal) []domain.Listing {
	next := make([]domain.Listing, 0, len(existing)+len(deals))
	claimed := make([]bool, len(deals))

	// Stage 1: primary match. First unclaimed deal satisfying the platform or
	// vendor test wins; the claim is final, no backtracking.
	for _, listing := range existing {
		matchIdx := -1
		for i, deal := range deals {
			if claimed[i] {
				continue
			}
			if dealMatchesListing(deal, listing) {
				matchIdx = i
				break
			}
		}

		if matchIdx >= 0 {
			claimed[matchIdx] = true
			deal := deals[matchIdx]
			listing.URL = urlutil.SanitizeURL(deal.URL)
			if deal.Price != nil {
				listing.Price = *deal.Price
			}
			listing.MarkVerified()
		} else {
			listing.MarkFailed()
		}
		next = append(next, listing)
	}

	// Stage 2: fallback repair. Unclaimed deals form a pool consumed in
	// original order, one per failed listing, first-available not best-fit.
	pool := make([]domain.CandidateDeal, 0, len(deals))
	for i, deal := range deals {
		if !claimed[i] {
			pool = append(pool, deal)
		}
	}

	for i := range next {
		if next[i].VerificationStatus != domain.StatusFailed || len(pool) == 0 {
			continue
		}
		deal := pool[0]
		pool = pool[1:]
		repairListing(&next[i], deal)
	}

	// Stage 3: whatever the pool still holds becomes brand-new listings.
	for _, deal := range pool {
		next = append(next, newDiscovery(ref, deal))
	}

	return next
}

// dealMatchesListing implements the primary-match predicate: resolved platform
// equality (falling back to the deal's vendor text as a platform name), or
// bidirectional case-insensitive vendor substring containment.
func dealMatchesListing(deal domain.CandidateDeal, listing domain.Listing) bool {
	dealPlatform := string(urlutil.MapDomainToPlatform(deal.URL))
	if dealPlatform == "" {
		dealPlatform = deal.Vendor
	}
	if dealPlatform != "" && listing.Platform != "" &&
		strings.EqualFold(dealPlatform, string(listing.Platform)) {
		return true
	}

	if listing.Vendor != "" && deal.Vendor != "" {
		lv := strings.ToLower(listing.Vendor)
		dv := strings.ToLower(deal.Vendor)
		if strings.Contains(lv, dv) || strings.Contains(dv, lv) {
			return true
		}
	}
	return false
}

// repairListing overwrites a failed listing with an unclaimed deal and marks
// it as a verified alternative.
func repairListing(l *domain.Listing, deal domain.CandidateDeal) {
	platform := urlutil.MapDomainToPlatform(deal.URL)
	if platform == "" {
		platform = domain.PlatformDirect
	}

	if deal.Vendor != "" {
		l.Title = deal.Vendor + " Offer"
		l.Vendor = deal.Vendor
	} else {
		l.Vendor = string(platform)
	}
	if deal.Price != nil {
		l.Price = *deal.Price
	} else {
		l.Price = decimal.Zero
	}
	l.URL = urlutil.SanitizeURL(deal.URL)
	l.Platform = platform
	l.Condition = domain.ParseCondition(deal.Condition)
	l.SellerTrustScore = repairedTrustScore
	l.Shipping = placeholderShipping
	l.MarkRepaired()
}

// newDiscovery builds a fresh listing from a pool deal that nothing claimed.
func newDiscovery(ref domain.Listing, deal domain.CandidateDeal) domain.Listing {
	platform := urlutil.MapDomainToPlatform(deal.URL)
	if platform == "" {
		platform = domain.PlatformDirect
	}

	vendor := deal.Vendor
	if vendor == "" {
		vendor = "Unknown"
	}

	price := decimal.Zero
	if deal.Price != nil {
		price = *deal.Price
	}

	l := domain.Listing{
		ID:               "new-discovery-" + uuid.NewString(),
		Title:            vendor + " Offer",
		Price:            price,
		Currency:         "USD",
		Vendor:           vendor,
		Platform:         platform,
		URL:              urlutil.SanitizeURL(deal.URL),
		Condition:        domain.ParseCondition(deal.Condition),
		Image:            ref.Image,
		Rating:           0,
		ReviewCount:      0,
		Shipping:         placeholderShipping,
		SellerTrustScore: discoveryTrustScore,
	}
	l.MarkVerified()
	return l
}
