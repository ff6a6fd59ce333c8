package leads

import (
	"sort"
	"sync"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/lead-radar/internal/catalog"
	"github.com/sells-group/lead-radar/internal/model"
)

// ErrInvalidKey marks a mutation with an empty or unnormalizable host.
var ErrInvalidKey = eris.New("leads: invalid host")

// Patch is a partial lead update for Upsert. Nil fields leave the stored
// value untouched.
type Patch struct {
	Temperature *model.Temperature `json:"temperature"`
	Saved       *bool              `json:"saved"`
}

// Store is the in-memory lead lifecycle store. Reads apply decay lazily so
// callers never observe stale state between sweeps; a background Sweeper
// (see sweep.go) handles eviction independent of traffic.
type Store struct {
	mu   sync.Mutex
	recs map[string]*model.LeadRecord
	cfg  DecayConfig

	// nowFunc allows test injection of time.
	nowFunc func() time.Time
}

// NewStore creates an empty lead store with the given decay windows.
func NewStore(cfg DecayConfig) *Store {
	if cfg.HotIdle <= 0 || cfg.WarmIdle <= 0 || cfg.ColdTTL <= 0 {
		cfg = DefaultDecayConfig()
	}
	return &Store{
		recs:    make(map[string]*model.LeadRecord),
		cfg:     cfg,
		nowFunc: time.Now,
	}
}

// Get returns the record for a host with decay applied, or absent. A record
// whose purge deadline has passed is removed and reported absent.
func (s *Store) Get(host string) (model.LeadRecord, bool) {
	k := catalog.CanonicalHost(host)
	if k == "" {
		return model.LeadRecord{}, false
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return s.getLocked(k)
}

func (s *Store) getLocked(k string) (model.LeadRecord, bool) {
	rec, ok := s.recs[k]
	if !ok {
		return model.LeadRecord{}, false
	}
	aged, purge := ageRecord(*rec, s.nowFunc(), s.cfg)
	if purge {
		delete(s.recs, k)
		return model.LeadRecord{}, false
	}
	*rec = aged
	return aged, true
}

// Upsert creates or updates a record and always bumps TouchedAt. CreatedAt
// is preserved across updates.
func (s *Store) Upsert(host string, patch Patch) (model.LeadRecord, error) {
	k := catalog.CanonicalHost(host)
	if k == "" {
		return model.LeadRecord{}, eris.Wrapf(ErrInvalidKey, "host %q", host)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.nowFunc()
	rec := s.ensureLocked(k, now)
	if patch.Temperature != nil && patch.Temperature.Valid() {
		rec.Temperature = *patch.Temperature
	}
	if patch.Saved != nil {
		rec.Saved = *patch.Saved
	}
	rec.TouchedAt = now
	return *rec, nil
}

// Promote sets the target temperature, marks the record saved, and resets
// its idle clock. It is the only upward temperature transition.
func (s *Store) Promote(host string, target model.Temperature) (model.LeadRecord, error) {
	k := catalog.CanonicalHost(host)
	if k == "" {
		return model.LeadRecord{}, eris.Wrapf(ErrInvalidKey, "host %q", host)
	}
	if !target.Valid() {
		target = model.TempHot
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.nowFunc()
	rec := s.ensureLocked(k, now)
	rec.Temperature = target
	rec.Saved = true
	rec.TouchedAt = now

	zap.L().Info("leads: promoted",
		zap.String("host", k),
		zap.String("temperature", string(target)),
	)
	return *rec, nil
}

// Reset forces a record to cold and resets its idle clock without changing
// its saved flag.
func (s *Store) Reset(host string) (model.LeadRecord, error) {
	k := catalog.CanonicalHost(host)
	if k == "" {
		return model.LeadRecord{}, eris.Wrapf(ErrInvalidKey, "host %q", host)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.nowFunc()
	rec := s.ensureLocked(k, now)
	rec.Temperature = model.TempCold
	rec.TouchedAt = now
	return *rec, nil
}

// Touch reaffirms a record: decay is applied first, then the idle clock
// resets at the decayed temperature.
func (s *Store) Touch(host string) (model.LeadRecord, error) {
	k := catalog.CanonicalHost(host)
	if k == "" {
		return model.LeadRecord{}, eris.Wrapf(ErrInvalidKey, "host %q", host)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.nowFunc()
	if aged, ok := s.getLocked(k); ok {
		rec := s.recs[k]
		rec.Temperature = aged.Temperature
		rec.TouchedAt = now
		return *rec, nil
	}
	rec := s.ensureLocked(k, now)
	return *rec, nil
}

// Summary runs a full purge pass and returns store-wide counts.
func (s *Store) Summary() model.LeadSummary {
	s.SweepOnce()

	s.mu.Lock()
	defer s.mu.Unlock()

	var sum model.LeadSummary
	for _, rec := range s.recs {
		sum.Total++
		switch rec.Temperature {
		case model.TempHot:
			sum.Hot++
		case model.TempWarm:
			sum.Warm++
		default:
			sum.Cold++
		}
		if rec.Saved {
			sum.Saved++
		}
	}
	return sum
}

// ListByTemperature returns decayed records at the given temperature,
// most recently touched first.
func (s *Store) ListByTemperature(temp model.Temperature) []model.LeadRecord {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.nowFunc()
	out := make([]model.LeadRecord, 0)
	for k, rec := range s.recs {
		aged, purge := ageRecord(*rec, now, s.cfg)
		if purge {
			delete(s.recs, k)
			continue
		}
		*rec = aged
		if aged.Temperature == temp {
			out = append(out, aged)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].TouchedAt.After(out[j].TouchedAt) })
	return out
}

// sweepBatchSize bounds how many records are aged under one lock hold, so a
// sweep never stalls foreground traffic for the whole store.
const sweepBatchSize = 64

// SweepOnce ages every record and purges the expired ones, taking the lock
// per batch rather than for the whole pass. It returns the number purged.
func (s *Store) SweepOnce() int {
	s.mu.Lock()
	keys := make([]string, 0, len(s.recs))
	for k := range s.recs {
		keys = append(keys, k)
	}
	s.mu.Unlock()

	purged := 0
	for start := 0; start < len(keys); start += sweepBatchSize {
		end := start + sweepBatchSize
		if end > len(keys) {
			end = len(keys)
		}

		s.mu.Lock()
		now := s.nowFunc()
		for _, k := range keys[start:end] {
			rec, ok := s.recs[k]
			if !ok {
				continue
			}
			aged, purge := ageRecord(*rec, now, s.cfg)
			if purge {
				delete(s.recs, k)
				purged++
				continue
			}
			*rec = aged
		}
		s.mu.Unlock()
	}

	if purged > 0 {
		zap.L().Debug("leads: purged", zap.Int("count", purged))
	}
	return purged
}

// ensureLocked returns the record for a key, creating a cold unsaved record
// on first reference. Caller holds the lock.
func (s *Store) ensureLocked(k string, now time.Time) *model.LeadRecord {
	if rec, ok := s.recs[k]; ok {
		return rec
	}
	rec := &model.LeadRecord{
		Host:        k,
		Temperature: model.TempCold,
		TouchedAt:   now,
		CreatedAt:   now,
	}
	s.recs[k] = rec
	return rec
}
