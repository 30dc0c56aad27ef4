// Package catalog holds the built-in demo product set used when a compare
// request does not supply its own listings (demo mode and tests).
package catalog

import (
	"github.com/shopspring/decimal"

	"github.com/Kushagra-Garg-27/SmartComparison-Tool/internal/domain"
)

// ReferenceProduct returns the product the shopper is currently viewing.
func ReferenceProduct() domain.Listing {
	avg := decimal.NewFromFloat(799.00)
	return domain.Listing{
		ID:                 "iphone16-base",
		ExternalID:         "IP16-128-BLK",
		Title:              "Apple iPhone 16 (128GB) - Black",
		Price:              decimal.NewFromFloat(799.00),
		Currency:           "USD",
		Vendor:             "Apple Store",
		Image:              "https://store.storeimages.cdn-apple.com/4982/as-images.apple.com/is/iphone-16-black-select-202409",
		Rating:             4.8,
		ReviewCount:        850,
		Condition:          domain.ConditionNew,
		Shipping:           "Free Next Day",
		SellerTrustScore:   99,
		URL:                "https://www.apple.com/shop/buy-iphone/iphone-16",
		Platform:           domain.PlatformDirect,
		PriceTrend:         domain.TrendStable,
		AveragePrice:       &avg,
		VerificationStatus: domain.StatusUnverified,
	}
}

// Competitors returns the starting competitor set for the reference product.
func Competitors() []domain.Listing {
	avg := decimal.NewFromFloat(799.00)
	return []domain.Listing{
		{
			ID:                 "c1-amz",
			ExternalID:         "B0DGJ9XXXX",
			Title:              "Apple iPhone 16, 128GB, Black - Unlocked",
			Price:              decimal.NewFromFloat(799.00),
			Currency:           "USD",
			Vendor:             "Amazon",
			Rating:             4.7,
			ReviewCount:        120,
			Condition:          domain.ConditionNew,
			Shipping:           "Prime One-Day",
			SellerTrustScore:   96,
			URL:                "https://www.amazon.com/s?k=Apple+iPhone+16+128GB+Black",
			Platform:           domain.PlatformAmazon,
			PriceTrend:         domain.TrendStable,
			AveragePrice:       &avg,
			VerificationStatus: domain.StatusUnverified,
		},
		{
			ID:                 "c2-bb",
			ExternalID:         "6525421",
			Title:              "Apple - iPhone 16 128GB - Black (Verizon)",
			Price:              decimal.NewFromFloat(829.99),
			Currency:           "USD",
			Vendor:             "BestBuy",
			Rating:             4.9,
			ReviewCount:        45,
			Condition:          domain.ConditionNew,
			Shipping:           "Pickup Available",
			SellerTrustScore:   98,
			URL:                "https://www.bestbuy.com/site/searchpage.jsp?st=iPhone+16+128GB",
			Platform:           domain.PlatformBestBuy,
			PriceTrend:         domain.TrendUp,
			AveragePrice:       &avg,
			VerificationStatus: domain.StatusUnverified,
		},
		{
			ID:                 "c3-wm",
			ExternalID:         "11223344",
			Title:              "Apple iPhone 16 128GB Black",
			Price:              decimal.NewFromFloat(779.00),
			Currency:           "USD",
			Vendor:             "Walmart",
			Rating:             4.5,
			ReviewCount:        300,
			Condition:          domain.ConditionNew,
			Shipping:           "Free Shipping",
			SellerTrustScore:   94,
			URL:                "https://www.walmart.com/search?q=iPhone+16+128GB+Black",
			Platform:           domain.PlatformWalmart,
			PriceTrend:         domain.TrendDown,
			AveragePrice:       &avg,
			VerificationStatus: domain.StatusUnverified,
		},
	}
}

// Reviews returns the demo review set fed to the analysis collaborator.
func Reviews() []domain.Review {
	return []domain.Review{
		{ID: "r1", User: "TechFan2024", Rating: 5, Text: "The new Camera Control button is a game changer for photography!", Date: "2024-09-22"},
		{ID: "r2", User: "AppleUser1", Rating: 4, Text: "Great battery life, easily lasts all day. The A18 chip is blazing fast.", Date: "2024-09-25"},
		{ID: "r3", User: "SwitchingFromAndroid", Rating: 5, Text: "Smooth transition. iOS 18 feels very polished on this hardware.", Date: "2024-10-01"},
		{ID: "r4", User: "BudgetBuyer", Rating: 3, Text: "Screen is still 60Hz. Disappointing for the price in 2024, but the colors are nice.", Date: "2024-09-21"},
		{ID: "r5", User: "PhotoLover", Rating: 5, Text: "The macro mode on the base model is finally here and it's amazing.", Date: "2024-09-28"},
	}
}
