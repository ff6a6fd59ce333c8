// Package prefs resolves sparse per-caller preference overrides into
// complete, bounds-checked EffectivePreferences values.
package prefs

// Patch is a partial preference update. Nil scalar fields and empty lists
// leave the stored value untouched; list values are unioned into the
// existing set, never replacing it. Unrecognized payload keys are dropped by
// JSON decoding, which keeps the input forward-compatible.
type Patch struct {
	City                     *string `json:"city"`
	RadiusKM                 *int    `json:"radius_km"`
	PreferSmallOrganizations *bool   `json:"prefer_small_organizations"`

	SizeWeights   *SizeWeightsPatch   `json:"size_weights"`
	SignalWeights *SignalWeightsPatch `json:"signal_weights"`

	TierFocus []string `json:"tier_focus"`

	CategoriesAllow []string `json:"categories_allow"`
	CategoriesBlock []string `json:"categories_block"`

	PreferredTitles []string `json:"preferred_titles"`
	MaterialsAllow  []string `json:"materials_allow"`
	MaterialsBlock  []string `json:"materials_block"`
	Certifications  []string `json:"certifications"`
	ExcludedHosts   []string `json:"excluded_hosts"`
	KeywordsAdd     []string `json:"keywords_add"`
	KeywordsAvoid   []string `json:"keywords_avoid"`
}

// SizeWeightsPatch overrides individual size-bucket weights.
type SizeWeightsPatch struct {
	Micro *float64 `json:"micro"`
	Small *float64 `json:"small"`
	Mid   *float64 `json:"mid"`
	Large *float64 `json:"large"`
}

// SignalWeightsPatch overrides individual channel weights.
type SignalWeightsPatch struct {
	Locality  *float64 `json:"locality"`
	Ecommerce *float64 `json:"ecommerce"`
	Retail    *float64 `json:"retail"`
	Wholesale *float64 `json:"wholesale"`
}
