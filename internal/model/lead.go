package model

import "time"

// Temperature is the ordered lifecycle state of a tracked lead, and doubles
// as the scoring classification: cold < warm < hot.
type Temperature string

const (
	TempCold Temperature = "cold"
	TempWarm Temperature = "warm"
	TempHot  Temperature = "hot"
)

// Rank returns the heat ordering: cold=0, warm=1, hot=2. Unknown values
// rank as cold.
func (t Temperature) Rank() int {
	switch t {
	case TempWarm:
		return 1
	case TempHot:
		return 2
	default:
		return 0
	}
}

// Valid reports whether t is one of the three defined temperatures.
func (t Temperature) Valid() bool {
	return t == TempCold || t == TempWarm || t == TempHot
}

// LeadRecord is a tracked entity in the lifecycle store. Host is the
// identity. Temperature only moves downward under passive decay; an explicit
// promote is the only upward transition. Saved records are exempt from purge.
type LeadRecord struct {
	Host        string      `json:"host"`
	Temperature Temperature `json:"temperature"`
	Saved       bool        `json:"saved"`
	TouchedAt   time.Time   `json:"touched_at"`
	CreatedAt   time.Time   `json:"created_at"`
}

// LeadSummary holds store-wide counts. Counts are taken after a full purge
// pass, so they are never stale.
type LeadSummary struct {
	Total int `json:"total"`
	Hot   int `json:"hot"`
	Warm  int `json:"warm"`
	Cold  int `json:"cold"`
	Saved int `json:"saved"`
}
