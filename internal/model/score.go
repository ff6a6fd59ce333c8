package model

// RecencyUnknown is the sentinel for "no known intent-bearing event". It is
// far beyond every decay and classification window, so unknown recency scores
// 0 and never satisfies a days-based threshold.
const RecencyUnknown = 99999

// Signals carries optional external behavioral indicators consumed by the
// scoring engine. Absent values contribute their neutral default; signals
// never penalize.
type Signals struct {
	AdsActive           bool `json:"ads_active"`
	AdsCreatives30d     int  `json:"ads_creatives_30d"`
	HiringRelevant      bool `json:"hiring_relevant"`
	DaysSinceLaunch     *int `json:"days_since_launch,omitempty"`
	DaysSinceSiteUpdate *int `json:"days_since_site_update,omitempty"`
	StoreCountDelta90d  int  `json:"store_count_delta_90d"`
	InboundMentions30d  int  `json:"inbound_mentions_30d"`
}

// ScoreBreakdown is the scoring engine's result for one listing. All fields
// are populated on every call; RecencyDays uses RecencyUnknown when no event
// age is known.
type ScoreBreakdown struct {
	Host           string      `json:"host"`
	Fit            int         `json:"fit"`
	Intent         int         `json:"intent"`
	Recency        int         `json:"recency"`
	Total          int         `json:"total"`
	RecencyDays    int         `json:"recency_days"`
	Classification Temperature `json:"classification"`
	Reasons        []string    `json:"reasons"`
}
