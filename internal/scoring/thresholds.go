// Package scoring computes per-listing relevance scores and classifies them
// against runtime-tunable thresholds.
package scoring

import (
	"fmt"
	"strings"
	"sync/atomic"

	"github.com/rotisserie/eris"
)

// ThresholdTriple gates one classification band: a listing qualifies when
// total and intent meet their minimums AND the most recent relevant event is
// at most MaxDays old.
type ThresholdTriple struct {
	MinTotal  int `json:"min_total" yaml:"min_total" mapstructure:"min_total"`
	MinIntent int `json:"min_intent" yaml:"min_intent" mapstructure:"min_intent"`
	MaxDays   int `json:"max_days" yaml:"max_days" mapstructure:"max_days"`
}

// Thresholds holds the hot and warm classification triples. Anything that
// satisfies neither is cold.
type Thresholds struct {
	Hot  ThresholdTriple `json:"hot" yaml:"hot" mapstructure:"hot"`
	Warm ThresholdTriple `json:"warm" yaml:"warm" mapstructure:"warm"`
}

// DefaultThresholds returns the stock classification cutoffs.
func DefaultThresholds() Thresholds {
	return Thresholds{
		Hot:  ThresholdTriple{MinTotal: 72, MinIntent: 60, MaxDays: 21},
		Warm: ThresholdTriple{MinTotal: 55, MinIntent: 40, MaxDays: 90},
	}
}

// Validate checks that the triples are in range and that hot is strictly at
// least as demanding as warm on every axis. An inverted set would silently
// misclassify everything, so it is rejected at install time rather than left
// to the operator.
func (t Thresholds) Validate() error {
	var errs []string

	for name, triple := range map[string]ThresholdTriple{"hot": t.Hot, "warm": t.Warm} {
		if triple.MinTotal < 0 || triple.MinTotal > 100 {
			errs = append(errs, fmt.Sprintf("%s.min_total must be between 0 and 100", name))
		}
		if triple.MinIntent < 0 || triple.MinIntent > 100 {
			errs = append(errs, fmt.Sprintf("%s.min_intent must be between 0 and 100", name))
		}
		if triple.MaxDays < 0 {
			errs = append(errs, fmt.Sprintf("%s.max_days must be >= 0", name))
		}
	}

	if t.Warm.MinTotal > t.Hot.MinTotal {
		errs = append(errs, "warm.min_total must be <= hot.min_total")
	}
	if t.Warm.MinIntent > t.Hot.MinIntent {
		errs = append(errs, "warm.min_intent must be <= hot.min_intent")
	}
	if t.Warm.MaxDays < t.Hot.MaxDays {
		errs = append(errs, "warm.max_days must be >= hot.max_days")
	}

	if len(errs) > 0 {
		return eris.Errorf("scoring: threshold validation failed: %s", strings.Join(errs, "; "))
	}
	return nil
}

// Provider hands out the current thresholds and accepts runtime swaps. Reads
// happen at every scoring call, so a swap takes effect immediately without a
// restart.
type Provider struct {
	cur atomic.Pointer[Thresholds]
}

// NewProvider creates a Provider with the given initial thresholds, falling
// back to defaults when the initial set fails validation.
func NewProvider(t Thresholds) *Provider {
	p := &Provider{}
	if err := t.Validate(); err != nil {
		t = DefaultThresholds()
	}
	p.cur.Store(&t)
	return p
}

// Current returns the active thresholds.
func (p *Provider) Current() Thresholds {
	return *p.cur.Load()
}

// Swap installs new thresholds. An invalid set is rejected and the previous
// set stays active.
func (p *Provider) Swap(t Thresholds) error {
	if err := t.Validate(); err != nil {
		return err
	}
	p.cur.Store(&t)
	return nil
}
