package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/lead-radar/internal/model"
)

func basePrefs() model.EffectivePreferences {
	return model.EffectivePreferences{
		Key:           "buyer",
		RadiusKM:      25,
		SizeWeights:   model.SizeWeights{Micro: 0.5, Small: 1, Mid: 0.5, Large: -0.5},
		SignalWeights: model.SignalWeights{Locality: 1, Ecommerce: 1, Retail: 1, Wholesale: 1},
	}
}

func intPtr(v int) *int { return &v }

func TestScoreDeterministic(t *testing.T) {
	e := NewEngine(nil)
	listing := model.Listing{Host: "acme.com", Tags: []string{"lighting"}, Tiers: []string{"C"}}
	p := basePrefs()
	p.CategoriesAllow = []string{"lighting"}
	sig := &model.Signals{AdsActive: true, DaysSinceLaunch: intPtr(10)}

	first := e.Score(listing, p, sig)
	second := e.Score(listing, p, sig)
	assert.Equal(t, first, second)
}

func TestScoreFitTagOverlap(t *testing.T) {
	e := NewEngine(nil)
	p := basePrefs()
	p.CategoriesAllow = []string{"lighting", "led", "outdoor"}

	listing := model.Listing{Host: "acme.com", Tags: []string{"lighting", "led"}}
	b := e.Score(listing, p, nil)
	assert.Equal(t, 30, b.Fit, "two overlaps at 15 each")

	// Keywords count toward the same overlap bonus, capped at 45.
	p.KeywordsAdd = []string{"fixtures", "spots"}
	listing.Tags = append(listing.Tags, "outdoor", "fixtures", "spots")
	b = e.Score(listing, p, nil)
	assert.Equal(t, 45, b.Fit, "five overlaps capped at 45")
}

func TestScoreFitBlockPenalty(t *testing.T) {
	e := NewEngine(nil)
	p := basePrefs()
	p.CategoriesAllow = []string{"lighting"}
	p.CategoriesBlock = []string{"tobacco"}

	listing := model.Listing{Host: "acme.com", Tags: []string{"lighting", "tobacco"}}
	b := e.Score(listing, p, nil)
	assert.Equal(t, 0, b.Fit, "15 - 20 clamps at 0")
}

func TestScoreFitSizeWeight(t *testing.T) {
	e := NewEngine(nil)
	p := basePrefs()

	b := e.Score(model.Listing{Host: "a.com", Tiers: []string{"C"}}, p, nil)
	assert.Equal(t, 10, b.Fit, "small weight 1 scales to +10")

	b = e.Score(model.Listing{Host: "a.com", Tiers: []string{"A"}}, p, nil)
	assert.Equal(t, 0, b.Fit, "large weight -0.5 scales to -5, clamped")

	b = e.Score(model.Listing{Host: "a.com"}, p, nil)
	assert.Equal(t, 0, b.Fit, "unknown size contributes nothing")
}

func TestScoreFitCityGatedOnLocality(t *testing.T) {
	e := NewEngine(nil)
	listing := model.Listing{Host: "a.com", CityTags: []string{"amsterdam"}}

	p := basePrefs()
	p.City = "amsterdam"
	b := e.Score(listing, p, nil)
	assert.Equal(t, 15, b.Fit)

	p.SignalWeights.Locality = 0
	b = e.Score(listing, p, nil)
	assert.Equal(t, 0, b.Fit, "locality weight 0 disables the city bonus")
}

func TestScoreExcludedHost(t *testing.T) {
	e := NewEngine(nil)
	p := basePrefs()
	p.ExcludedHosts = []string{"spam.com"}

	b := e.Score(model.Listing{Host: "spam.com", Tags: []string{"lighting"}}, p, nil)
	assert.Equal(t, 0, b.Total)
	assert.Equal(t, model.TempCold, b.Classification)
	assert.Equal(t, model.RecencyUnknown, b.RecencyDays)
	require.Len(t, b.Reasons, 1)
	assert.Contains(t, b.Reasons[0], "excluded")
}

func TestScoreIntentChannels(t *testing.T) {
	e := NewEngine(nil)
	listing := model.Listing{Host: "a.com", Segments: []string{"ecommerce", "retail", "wholesale"}}

	p := basePrefs()
	b := e.Score(listing, p, nil)
	assert.Equal(t, 26, b.Intent, "10 + 8 + 8 with all channels active")

	p.SignalWeights.Ecommerce = 0.5
	b = e.Score(listing, p, nil)
	assert.Equal(t, 16, b.Intent, "weight at the activation threshold does not qualify")
}

func TestScoreIntentSignals(t *testing.T) {
	e := NewEngine(nil)
	p := basePrefs()
	listing := model.Listing{Host: "a.com"}

	sig := &model.Signals{
		AdsActive:          true,
		AdsCreatives30d:    3,
		HiringRelevant:     true,
		StoreCountDelta90d: 2,
		InboundMentions30d: 1,
	}
	b := e.Score(listing, p, sig)
	assert.Equal(t, 47, b.Intent, "20+6+10+6+5")

	sig = &model.Signals{AdsCreatives30d: 2, StoreCountDelta90d: -1}
	b = e.Score(listing, p, sig)
	assert.Equal(t, 0, b.Intent, "below-threshold counters contribute nothing")

	b = e.Score(listing, p, nil)
	assert.Equal(t, 0, b.Intent, "absent signals are neutral")
}

func TestRecencyDays(t *testing.T) {
	assert.Equal(t, model.RecencyUnknown, recencyDays(nil))
	assert.Equal(t, model.RecencyUnknown, recencyDays(&model.Signals{}))

	sig := &model.Signals{DaysSinceLaunch: intPtr(30), DaysSinceSiteUpdate: intPtr(12)}
	assert.Equal(t, 12, recencyDays(sig), "minimum of known ages")

	sig = &model.Signals{DaysSinceLaunch: intPtr(-4), DaysSinceSiteUpdate: intPtr(40)}
	assert.Equal(t, 40, recencyDays(sig), "negative ages are ignored")
}

func TestRecencyScore(t *testing.T) {
	tests := []struct {
		days int
		want int
	}{
		{0, 100},
		{7, 100},
		{8, 99},
		{180, 0},
		{400, 0},
		{model.RecencyUnknown, 0},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, recencyScore(tt.days), "days=%d", tt.days)
	}
}

func TestClassifyBoundaries(t *testing.T) {
	th := DefaultThresholds()
	tests := []struct {
		name   string
		total  int
		intent int
		days   int
		want   model.Temperature
	}{
		{"exactly hot", 72, 60, 21, model.TempHot},
		{"total one short of hot", 71, 60, 21, model.TempWarm},
		{"intent one short of hot", 72, 59, 21, model.TempWarm},
		{"one day too stale for hot", 72, 60, 22, model.TempWarm},
		{"exactly warm", 55, 40, 90, model.TempWarm},
		{"total below warm", 54, 40, 90, model.TempCold},
		{"too stale for warm", 55, 40, 91, model.TempCold},
		{"unknown recency never classifies", 100, 100, model.RecencyUnknown, model.TempCold},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, classify(tt.total, tt.intent, tt.days, th))
		})
	}
}

func TestScoreTotalWeighting(t *testing.T) {
	e := NewEngine(nil)
	p := basePrefs()
	p.CategoriesAllow = []string{"lighting"}

	listing := model.Listing{Host: "a.com", Tags: []string{"lighting"}, Tiers: []string{"C"}}
	sig := &model.Signals{AdsActive: true}

	b := e.Score(listing, p, sig)
	// fit 25 (overlap 15 + small 10), intent 20, recency 0.
	assert.Equal(t, 25, b.Fit)
	assert.Equal(t, 20, b.Intent)
	assert.Equal(t, 0, b.Recency)
	assert.Equal(t, 22, b.Total, "round(0.60*25 + 0.35*20)")
	assert.Equal(t, model.TempCold, b.Classification)
}

func TestScoreThresholdSwapTakesEffect(t *testing.T) {
	p := NewProvider(DefaultThresholds())
	e := NewEngine(p)
	prefs := basePrefs()
	prefs.CategoriesAllow = []string{"lighting"}

	listing := model.Listing{Host: "a.com", Tags: []string{"lighting"}, Tiers: []string{"C"}}
	sig := &model.Signals{AdsActive: true, DaysSinceLaunch: intPtr(3)}

	b := e.Score(listing, prefs, sig)
	require.Equal(t, model.TempCold, b.Classification)

	loose := Thresholds{
		Hot:  ThresholdTriple{MinTotal: 20, MinIntent: 15, MaxDays: 30},
		Warm: ThresholdTriple{MinTotal: 10, MinIntent: 5, MaxDays: 90},
	}
	require.NoError(t, p.Swap(loose))

	b = e.Score(listing, prefs, sig)
	assert.Equal(t, model.TempHot, b.Classification)
}
