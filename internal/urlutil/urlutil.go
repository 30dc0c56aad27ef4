// Package urlutil maps retail URLs to platform tags and builds canonical,
// tracking-free product links.
package urlutil

import (
	"net/url"
	"strings"

	"github.com/Kushagra-Garg-27/SmartComparison-Tool/internal/domain"
)

// domainPlatforms maps host substrings to platform tags. Checked in order so
// the mapping stays deterministic.
var domainPlatforms = []struct {
	host     string
	platform domain.Platform
}{
	{"amazon.com", domain.PlatformAmazon},
	{"ebay.com", domain.PlatformEbay},
	{"walmart.com", domain.PlatformWalmart},
	{"bestbuy.com", domain.PlatformBestBuy},
	{"target.com", domain.PlatformDirect},
	{"bhphotovideo.com", domain.PlatformDirect},
}

// MapDomainToPlatform resolves a URL's host to a known platform tag.
// Returns "" for unparsable input or unknown hosts; never panics.
func MapDomainToPlatform(rawURL string) domain.Platform {
	u, err := url.Parse(rawURL)
	if err != nil || u.Host == "" {
		return ""
	}
	host := strings.ToLower(u.Hostname())
	for _, m := range domainPlatforms {
		if strings.Contains(host, m.host) {
			return m.platform
		}
	}
	return ""
}

// ResolveCanonicalURL builds the best outbound link for a listing.
// Resolution order: stored http(s) URL verbatim, canonical path from the
// sanitized external id, platform search by title, empty string. An empty
// result means "no usable link, do not render one".
func ResolveCanonicalURL(l domain.Listing) string {
	// Strict http/https check keeps javascript: and other schemes out.
	if strings.HasPrefix(l.URL, "http://") || strings.HasPrefix(l.URL, "https://") {
		return l.URL
	}

	if l.ExternalID != "" {
		// Only alphanumerics may reach the path; anything else could smuggle
		// extra path segments or query parameters.
		cleanID := stripNonAlphanumeric(l.ExternalID)
		if cleanID != "" {
			switch l.Platform {
			case domain.PlatformAmazon:
				return "https://www.amazon.com/dp/" + cleanID
			case domain.PlatformWalmart:
				return "https://www.walmart.com/ip/" + cleanID
			case domain.PlatformBestBuy:
				// Search-by-SKU reliably redirects to the product page.
				return "https://www.bestbuy.com/site/searchpage.jsp?st=" + cleanID
			case domain.PlatformEbay:
				return "https://www.ebay.com/itm/" + cleanID
			}
		}
	}

	if l.Platform != "" && l.Title != "" {
		query := url.QueryEscape(l.Title)
		switch l.Platform {
		case domain.PlatformAmazon:
			return "https://www.amazon.com/s?k=" + query
		case domain.PlatformEbay:
			return "https://www.ebay.com/sch/i.html?_nkw=" + query
		case domain.PlatformWalmart:
			return "https://www.walmart.com/search?q=" + query
		case domain.PlatformBestBuy:
			return "https://www.bestbuy.com/site/searchpage.jsp?st=" + query
		}
	}

	return ""
}

// SanitizeURL forces links onto https. Scheme-less input gets https
// prepended; http is rewritten in place.
func SanitizeURL(rawURL string) string {
	if rawURL == "" {
		return ""
	}
	if strings.HasPrefix(rawURL, "http://") {
		return "https://" + strings.TrimPrefix(rawURL, "http://")
	}
	if !strings.HasPrefix(rawURL, "https://") {
		return "https://" + rawURL
	}
	return rawURL
}

func stripNonAlphanumeric(s string) string {
	var b strings.Builder
	for _, r := range s {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	return b.String()
}
