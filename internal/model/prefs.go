package model

import "time"

// Bounds applied by the preference resolver on every resolve.
const (
	// SizeWeightMin and SizeWeightMax bound each per-bucket size weight.
	SizeWeightMin = -3.0
	SizeWeightMax = 3.0

	// SignalWeightMax bounds each channel signal weight (minimum is 0).
	SignalWeightMax = 2.0

	// OverlayListCap bounds each structured overlay list.
	OverlayListCap = 200

	// CategoryListCap bounds the legacy allow/block tag lists.
	CategoryListCap = 400
)

// SizeWeights maps each size bucket to a signed preference weight in
// [SizeWeightMin, SizeWeightMax]. Positive favors the bucket.
type SizeWeights struct {
	Micro float64 `json:"micro"`
	Small float64 `json:"small"`
	Mid   float64 `json:"mid"`
	Large float64 `json:"large"`
}

// For returns the weight for a bucket. SizeUnknown contributes 0.
func (w SizeWeights) For(b SizeBucket) float64 {
	switch b {
	case SizeMicro:
		return w.Micro
	case SizeSmall:
		return w.Small
	case SizeMid:
		return w.Mid
	case SizeLarge:
		return w.Large
	default:
		return 0
	}
}

// SignalWeights holds per-channel weights in [0, SignalWeightMax]. A channel
// weight above the engine's activation threshold enables that channel's
// intent bonus.
type SignalWeights struct {
	Locality  float64 `json:"locality"`
	Ecommerce float64 `json:"ecommerce"`
	Retail    float64 `json:"retail"`
	Wholesale float64 `json:"wholesale"`
}

// EffectivePreferences is the fully resolved configuration for one caller.
// Every field is populated: numeric weights are clamped to their documented
// bounds and list fields are never nil. The resolver synthesizes a complete
// default value for keys that were never written.
type EffectivePreferences struct {
	Key string `json:"key"`

	City     string `json:"city"`
	RadiusKM int    `json:"radius_km"`

	PreferSmallOrganizations bool `json:"prefer_small_organizations"`

	SizeWeights   SizeWeights   `json:"size_weights"`
	SignalWeights SignalWeights `json:"signal_weights"`

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

	UpdatedAt time.Time `json:"updated_at"`
}

// AllowsTag reports whether the tag is in the allow list.
func (p EffectivePreferences) AllowsTag(tag string) bool {
	for _, t := range p.CategoriesAllow {
		if t == tag {
			return true
		}
	}
	return false
}

// BlocksTag reports whether the tag is in the block list.
func (p EffectivePreferences) BlocksTag(tag string) bool {
	for _, t := range p.CategoriesBlock {
		if t == tag {
			return true
		}
	}
	return false
}
