// Package leads tracks scored entities through a temperature lifecycle with
// time-driven decay and eviction.
package leads

import (
	"time"

	"github.com/sells-group/lead-radar/internal/model"
)

// DecayConfig holds the idle windows driving passive decay and purge. The
// windows are independent constants, not derived from each other.
type DecayConfig struct {
	// HotIdle is how long a hot record may sit untouched before warm.
	HotIdle time.Duration
	// WarmIdle is how long a warm record may sit untouched before cold.
	WarmIdle time.Duration
	// ColdTTL is how long an unsaved cold record survives before purge.
	ColdTTL time.Duration
}

// DefaultDecayConfig returns the stock decay windows.
func DefaultDecayConfig() DecayConfig {
	return DecayConfig{
		HotIdle:  7 * 24 * time.Hour,
		WarmIdle: 24 * time.Hour,
		ColdTTL:  2 * time.Hour,
	}
}

// ageRecord applies passive decay to a record as of now and reports whether
// the record should be purged. It is the single source of the decay rules:
// both the lazy read path and the background sweep call it, so the two
// triggers can never disagree.
//
// Windows chain from the record's current temperature: a hot record spends
// HotIdle hot, then WarmIdle warm, then ColdTTL cold before purge. Saved
// records decay in temperature but are never purged.
func ageRecord(rec model.LeadRecord, now time.Time, cfg DecayConfig) (model.LeadRecord, bool) {
	idle := now.Sub(rec.TouchedAt)
	if idle < 0 {
		idle = 0
	}

	// remaining is the idle time left after walking down each band.
	remaining := idle

	if rec.Temperature == model.TempHot {
		if remaining <= cfg.HotIdle {
			return rec, false
		}
		rec.Temperature = model.TempWarm
		remaining -= cfg.HotIdle
	}

	if rec.Temperature == model.TempWarm {
		if remaining <= cfg.WarmIdle {
			return rec, false
		}
		rec.Temperature = model.TempCold
		remaining -= cfg.WarmIdle
	}

	if rec.Temperature == model.TempCold && !rec.Saved && remaining > cfg.ColdTTL {
		return rec, true
	}
	return rec, false
}
