package prefs

import (
	"github.com/sells-group/lead-radar/internal/model"
)

// Defaults applied when a field was never written. The small-organization
// bias shows up both in the boolean and in the default size weights.
const (
	defaultRadiusKM = 25
)

func defaultSizeWeights() model.SizeWeights {
	return model.SizeWeights{Micro: 0.5, Small: 1, Mid: 0.5, Large: -0.5}
}

func defaultSignalWeights() model.SignalWeights {
	return model.SignalWeights{Locality: 1, Ecommerce: 1, Retail: 1, Wholesale: 1}
}

func defaultTierFocus() []string {
	return []string{"B", "C"}
}

// resolve turns sparse raw state into a complete EffectivePreferences value.
// Every numeric weight is clamped here, on every call, so corrupt stored
// state never leaks out. List fields are never nil in the result.
func resolve(key string, raw *rawState) model.EffectivePreferences {
	p := model.EffectivePreferences{
		Key:                      key,
		RadiusKM:                 defaultRadiusKM,
		PreferSmallOrganizations: true,
		SizeWeights:              defaultSizeWeights(),
		SignalWeights:            defaultSignalWeights(),
		TierFocus:                defaultTierFocus(),
		CategoriesAllow:          []string{},
		CategoriesBlock:          []string{},
		PreferredTitles:          []string{},
		MaterialsAllow:           []string{},
		MaterialsBlock:           []string{},
		Certifications:           []string{},
		ExcludedHosts:            []string{},
		KeywordsAdd:              []string{},
		KeywordsAvoid:            []string{},
		UpdatedAt:                raw.updatedAt,
	}

	if raw.city != nil {
		p.City = normalizeToken(*raw.city)
	}
	if raw.radiusKM != nil {
		p.RadiusKM = clampInt(*raw.radiusKM, 0, 500)
	}
	if raw.preferSmall != nil {
		p.PreferSmallOrganizations = *raw.preferSmall
	}

	applyFloat(&p.SizeWeights.Micro, raw.sizeWeights.Micro)
	applyFloat(&p.SizeWeights.Small, raw.sizeWeights.Small)
	applyFloat(&p.SizeWeights.Mid, raw.sizeWeights.Mid)
	applyFloat(&p.SizeWeights.Large, raw.sizeWeights.Large)
	p.SizeWeights.Micro = clampFloat(p.SizeWeights.Micro, model.SizeWeightMin, model.SizeWeightMax)
	p.SizeWeights.Small = clampFloat(p.SizeWeights.Small, model.SizeWeightMin, model.SizeWeightMax)
	p.SizeWeights.Mid = clampFloat(p.SizeWeights.Mid, model.SizeWeightMin, model.SizeWeightMax)
	p.SizeWeights.Large = clampFloat(p.SizeWeights.Large, model.SizeWeightMin, model.SizeWeightMax)

	applyFloat(&p.SignalWeights.Locality, raw.signalWeights.Locality)
	applyFloat(&p.SignalWeights.Ecommerce, raw.signalWeights.Ecommerce)
	applyFloat(&p.SignalWeights.Retail, raw.signalWeights.Retail)
	applyFloat(&p.SignalWeights.Wholesale, raw.signalWeights.Wholesale)
	p.SignalWeights.Locality = clampFloat(p.SignalWeights.Locality, 0, model.SignalWeightMax)
	p.SignalWeights.Ecommerce = clampFloat(p.SignalWeights.Ecommerce, 0, model.SignalWeightMax)
	p.SignalWeights.Retail = clampFloat(p.SignalWeights.Retail, 0, model.SignalWeightMax)
	p.SignalWeights.Wholesale = clampFloat(p.SignalWeights.Wholesale, 0, model.SignalWeightMax)

	if len(raw.tierFocus) > 0 {
		p.TierFocus = upperList(raw.tierFocus)
	}

	p.CategoriesAllow = append(p.CategoriesAllow, raw.categoriesAllow...)
	p.CategoriesBlock = append(p.CategoriesBlock, raw.categoriesBlock...)
	p.PreferredTitles = append(p.PreferredTitles, raw.preferredTitles...)
	p.MaterialsAllow = append(p.MaterialsAllow, raw.materialsAllow...)
	p.MaterialsBlock = append(p.MaterialsBlock, raw.materialsBlock...)
	p.Certifications = append(p.Certifications, raw.certifications...)
	p.ExcludedHosts = append(p.ExcludedHosts, raw.excludedHosts...)
	p.KeywordsAdd = append(p.KeywordsAdd, raw.keywordsAdd...)
	p.KeywordsAvoid = append(p.KeywordsAvoid, raw.keywordsAvoid...)

	decodeLegacyTags(&p)
	capOverlays(&p)

	return p
}

func applyFloat(dst *float64, src *float64) {
	if src != nil {
		*dst = *src
	}
}

func clampFloat(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// capOverlays re-applies the per-field caps after legacy decoding, which can
// grow the structured lists past what was stored.
func capOverlays(p *model.EffectivePreferences) {
	p.PreferredTitles = capList(p.PreferredTitles, model.OverlayListCap)
	p.MaterialsAllow = capList(p.MaterialsAllow, model.OverlayListCap)
	p.MaterialsBlock = capList(p.MaterialsBlock, model.OverlayListCap)
	p.Certifications = capList(p.Certifications, model.OverlayListCap)
	p.ExcludedHosts = capList(p.ExcludedHosts, model.OverlayListCap)
	p.KeywordsAdd = capList(p.KeywordsAdd, model.OverlayListCap)
	p.KeywordsAvoid = capList(p.KeywordsAvoid, model.OverlayListCap)
	p.CategoriesAllow = capList(p.CategoriesAllow, model.CategoryListCap)
	p.CategoriesBlock = capList(p.CategoriesBlock, model.CategoryListCap)
}

func capList(in []string, limit int) []string {
	if len(in) > limit {
		return in[:limit]
	}
	return in
}
