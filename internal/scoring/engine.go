package scoring

import (
	"fmt"
	"math"

	"github.com/sells-group/lead-radar/internal/model"
)

// Fixed weights of the total score. Recency is deliberately a small nudge.
const (
	fitWeight     = 0.60
	intentWeight  = 0.35
	recencyWeight = 0.05
)

// Fit contributions.
const (
	tagOverlapBonus = 15 // per allow-list overlap
	tagOverlapMax   = 45
	tagBlockPenalty = 20 // per block-list overlap
	sizeWeightScale = 10 // size weight [-3,3] contributes [-30,30]
	cityMatchBonus  = 15
)

// Intent contributions. Channel bonuses require the preference weight for
// that channel to exceed channelActivation.
const (
	channelActivation = 0.5
	ecommerceBonus    = 10
	retailBonus       = 8
	wholesaleBonus    = 8
	adsActiveBonus    = 20
	adsCreativesBonus = 6
	adsCreativesMin   = 3
	hiringBonus       = 10
	storeGrowthBonus  = 6
	mentionsBonus     = 5
)

// Recency decay curve: full score up to freshDays, zero at and beyond
// staleDays, linear in between.
const (
	freshDays = 7
	staleDays = 180
)

// maxReasons caps the audit trail on a breakdown.
const maxReasons = 12

// Engine scores listings against resolved preferences. Thresholds are read
// from the provider on every call, never captured at construction.
type Engine struct {
	thresholds *Provider
}

// NewEngine creates an Engine. A nil provider gets defaults.
func NewEngine(p *Provider) *Engine {
	if p == nil {
		p = NewProvider(DefaultThresholds())
	}
	return &Engine{thresholds: p}
}

// Thresholds exposes the engine's provider for runtime tuning.
func (e *Engine) Thresholds() *Provider { return e.thresholds }

// Score computes the full breakdown for one listing. It is pure: identical
// inputs always produce identical output, and it never fails: malformed or
// missing optional inputs contribute their neutral value.
func (e *Engine) Score(listing model.Listing, p model.EffectivePreferences, sig *model.Signals) model.ScoreBreakdown {
	b := model.ScoreBreakdown{
		Host:    listing.Host,
		Reasons: []string{},
	}

	for _, excluded := range p.ExcludedHosts {
		if listing.Host == excluded {
			b.RecencyDays = model.RecencyUnknown
			b.Classification = model.TempCold
			b.Reasons = append(b.Reasons, "host excluded by preferences")
			return b
		}
	}

	b.Fit = e.scoreFit(listing, p, &b)
	b.Intent = e.scoreIntent(listing, p, sig, &b)
	b.RecencyDays = recencyDays(sig)
	b.Recency = recencyScore(b.RecencyDays)

	total := fitWeight*float64(b.Fit) + intentWeight*float64(b.Intent) + recencyWeight*float64(b.Recency)
	b.Total = clampScore(int(math.Round(total)))

	t := e.thresholds.Current()
	b.Classification = classify(b.Total, b.Intent, b.RecencyDays, t)

	if len(b.Reasons) > maxReasons {
		b.Reasons = b.Reasons[:maxReasons]
	}
	return b
}

// scoreFit measures static compatibility: allow-tag overlap, size weight,
// and locality. Block-list overlaps penalize hard before the clamp.
func (e *Engine) scoreFit(listing model.Listing, p model.EffectivePreferences, b *model.ScoreBreakdown) int {
	fit := 0

	// Allow-list and added keywords both count toward the overlap bonus.
	overlaps := 0
	for _, tag := range p.CategoriesAllow {
		if listing.HasTag(tag) {
			overlaps++
		}
	}
	for _, kw := range p.KeywordsAdd {
		if listing.HasTag(kw) {
			overlaps++
		}
	}
	if overlaps > 0 {
		bonus := overlaps * tagOverlapBonus
		if bonus > tagOverlapMax {
			bonus = tagOverlapMax
		}
		fit += bonus
		addReason(b, "tag overlap x%d (+%d)", overlaps, bonus)
	}

	blocked := 0
	for _, tag := range p.CategoriesBlock {
		if listing.HasTag(tag) {
			blocked++
		}
	}
	for _, kw := range p.KeywordsAvoid {
		if listing.HasTag(kw) {
			blocked++
		}
	}
	if blocked > 0 {
		fit -= blocked * tagBlockPenalty
		addReason(b, "blocked tag x%d (-%d)", blocked, blocked*tagBlockPenalty)
	}

	size := listing.DerivedSize()
	if w := p.SizeWeights.For(size); w != 0 {
		contrib := int(math.Round(w * sizeWeightScale))
		fit += contrib
		addReason(b, "size %s (%+d)", size, contrib)
	}

	if p.City != "" && p.SignalWeights.Locality > 0 && listing.InCity(p.City) {
		fit += cityMatchBonus
		addReason(b, "city match %s (+%d)", p.City, cityMatchBonus)
	}

	return clampScore(fit)
}

// scoreIntent measures behavioral strength: preference-weighted channel
// hints plus optional external signals. Absent signals contribute nothing;
// nothing here penalizes.
func (e *Engine) scoreIntent(listing model.Listing, p model.EffectivePreferences, sig *model.Signals, b *model.ScoreBreakdown) int {
	intent := 0

	if p.SignalWeights.Ecommerce > channelActivation && listing.HasTag("ecommerce") {
		intent += ecommerceBonus
		addReason(b, "channel ecommerce (+%d)", ecommerceBonus)
	}
	if p.SignalWeights.Retail > channelActivation && listing.HasTag("retail") {
		intent += retailBonus
		addReason(b, "channel retail (+%d)", retailBonus)
	}
	if p.SignalWeights.Wholesale > channelActivation && listing.HasTag("wholesale") {
		intent += wholesaleBonus
		addReason(b, "channel wholesale (+%d)", wholesaleBonus)
	}

	if sig != nil {
		if sig.AdsActive {
			intent += adsActiveBonus
			addReason(b, "ads active (+%d)", adsActiveBonus)
		}
		if sig.AdsCreatives30d >= adsCreativesMin {
			intent += adsCreativesBonus
			addReason(b, "many ad creatives (+%d)", adsCreativesBonus)
		}
		if sig.HiringRelevant {
			intent += hiringBonus
			addReason(b, "relevant hiring (+%d)", hiringBonus)
		}
		if sig.StoreCountDelta90d > 0 {
			intent += storeGrowthBonus
			addReason(b, "location growth (+%d)", storeGrowthBonus)
		}
		if sig.InboundMentions30d > 0 {
			intent += mentionsBonus
			addReason(b, "recent mentions (+%d)", mentionsBonus)
		}
	}

	return clampScore(intent)
}

// recencyDays returns the smallest known event age in days, or
// RecencyUnknown when no signal carries one.
func recencyDays(sig *model.Signals) int {
	days := model.RecencyUnknown
	if sig == nil {
		return days
	}
	for _, d := range []*int{sig.DaysSinceLaunch, sig.DaysSinceSiteUpdate} {
		if d == nil || *d < 0 {
			continue
		}
		if *d < days {
			days = *d
		}
	}
	return days
}

// recencyScore maps event age onto [0,100]: 100 within a week, 0 at half a
// year, linear between.
func recencyScore(days int) int {
	switch {
	case days <= freshDays:
		return 100
	case days >= staleDays:
		return 0
	default:
		return int(math.Round(100 * float64(staleDays-days) / float64(staleDays-freshDays)))
	}
}

// classify evaluates the triples strictest first.
func classify(total, intent, days int, t Thresholds) model.Temperature {
	if total >= t.Hot.MinTotal && intent >= t.Hot.MinIntent && days <= t.Hot.MaxDays {
		return model.TempHot
	}
	if total >= t.Warm.MinTotal && intent >= t.Warm.MinIntent && days <= t.Warm.MaxDays {
		return model.TempWarm
	}
	return model.TempCold
}

func clampScore(v int) int {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}

func addReason(b *model.ScoreBreakdown, format string, args ...any) {
	if len(b.Reasons) >= maxReasons {
		return
	}
	b.Reasons = append(b.Reasons, fmt.Sprintf(format, args...))
}
