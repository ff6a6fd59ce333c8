// Package signals derives behavioral intent indicators from fetched page
// text. The extractors are plain keyword and regex classifiers; the scoring
// engine only ever sees the resulting model.Signals value.
package signals

import (
	"regexp"
	"strings"

	"github.com/sells-group/lead-radar/internal/model"
)

// adPixelPatterns detect active advertising instrumentation.
var adPixelPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)fbq\s*\(\s*['"]init`),
	regexp.MustCompile(`(?i)gtag\s*\(\s*['"]config`),
	regexp.MustCompile(`(?i)googletagmanager\.com/gtm\.js`),
	regexp.MustCompile(`(?i)connect\.facebook\.net/[a-z_]+/fbevents\.js`),
	regexp.MustCompile(`(?i)snap\.licdn\.com/li\.lms-analytics`),
	regexp.MustCompile(`(?i)static\.ads-twitter\.com`),
	regexp.MustCompile(`(?i)tiktok\.com/i18n/pixel`),
}

// commercePlatformKeywords indicate an e-commerce storefront.
var commercePlatformKeywords = []string{
	"cdn.shopify.com", "shopify.theme", "woocommerce", "magento",
	"bigcommerce", "add to cart", "checkout", "winkelwagen",
}

// hiringKeywords paired with relevantFunctionKeywords flag hiring in a
// function that matters for purchase intent.
var hiringKeywords = []string{
	"we're hiring", "we are hiring", "join our team", "careers",
	"vacature", "open positions", "now hiring",
}

var relevantFunctionKeywords = []string{
	"store manager", "retail", "purchasing", "procurement", "buyer",
	"visual merchandiser", "operations",
}

// growthKeywords hint at recent location growth.
var growthKeywords = []string{
	"new store", "new location", "now open", "grand opening",
	"opening soon", "second location", "nieuwe winkel",
}

// promoKeywords mark active promotional campaigns.
var promoKeywords = []string{
	"sale", "% off", "discount", "limited time", "free shipping",
	"promo code", "black friday",
}

// Extraction is the raw classifier output for a batch of page text.
type Extraction struct {
	AdPixels       []string `json:"ad_pixels"`
	CommerceHints  int      `json:"commerce_hints"`
	HiringPages    int      `json:"hiring_pages"`
	HiringRelevant bool     `json:"hiring_relevant"`
	GrowthMentions int      `json:"growth_mentions"`
	PromoMentions  int      `json:"promo_mentions"`
}

// Extract scans page texts and accumulates classifier hits. It is pure and
// stateless; call it with whatever pages the caller fetched beforehand.
func Extract(pages []string) Extraction {
	var ex Extraction
	for _, page := range pages {
		lower := strings.ToLower(page)

		for _, re := range adPixelPatterns {
			if re.MatchString(page) {
				ex.AdPixels = appendUnique(ex.AdPixels, re.String())
			}
		}
		for _, kw := range commercePlatformKeywords {
			if strings.Contains(lower, kw) {
				ex.CommerceHints++
			}
		}

		hiring := containsAny(lower, hiringKeywords)
		if hiring {
			ex.HiringPages++
			if containsAny(lower, relevantFunctionKeywords) {
				ex.HiringRelevant = true
			}
		}

		for _, kw := range growthKeywords {
			if strings.Contains(lower, kw) {
				ex.GrowthMentions++
			}
		}
		for _, kw := range promoKeywords {
			if strings.Contains(lower, kw) {
				ex.PromoMentions++
			}
		}
	}
	return ex
}

// Signals folds an extraction into the sparse shape the scoring engine
// consumes. Counters the extractors cannot observe stay at their neutral
// zero value.
func (ex Extraction) Signals() model.Signals {
	var sig model.Signals
	sig.AdsActive = len(ex.AdPixels) > 0
	sig.HiringRelevant = ex.HiringRelevant
	if ex.GrowthMentions > 0 {
		sig.StoreCountDelta90d = ex.GrowthMentions
	}
	if ex.PromoMentions > 0 {
		sig.InboundMentions30d = ex.PromoMentions
	}
	return sig
}

func containsAny(s string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(s, kw) {
			return true
		}
	}
	return false
}

func appendUnique(list []string, v string) []string {
	for _, existing := range list {
		if existing == v {
			return list
		}
	}
	return append(list, v)
}
