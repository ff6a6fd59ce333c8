package leads

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/lead-radar/internal/model"
)

var t0 = time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)

// newTestStore returns a store with an adjustable clock starting at t0.
func newTestStore() (*Store, *time.Time) {
	now := t0
	s := NewStore(DefaultDecayConfig())
	s.nowFunc = func() time.Time { return now }
	return s, &now
}

func TestAgeRecord(t *testing.T) {
	cfg := DefaultDecayConfig()
	tests := []struct {
		name      string
		temp      model.Temperature
		saved     bool
		idle      time.Duration
		wantTemp  model.Temperature
		wantPurge bool
	}{
		{"hot fresh", model.TempHot, false, time.Hour, model.TempHot, false},
		{"hot at window edge", model.TempHot, false, 7 * 24 * time.Hour, model.TempHot, false},
		{"hot 8 days idle decays one band", model.TempHot, false, 8 * 24 * time.Hour, model.TempWarm, false},
		{"hot fully drained", model.TempHot, false, 8*24*time.Hour + 3*time.Hour, model.TempCold, true},
		{"warm fresh", model.TempWarm, false, 12 * time.Hour, model.TempWarm, false},
		{"warm past window", model.TempWarm, false, 25 * time.Hour, model.TempCold, false},
		{"warm drained to purge", model.TempWarm, false, 27 * time.Hour, model.TempCold, true},
		{"cold within ttl", model.TempCold, false, time.Hour, model.TempCold, false},
		{"cold past ttl", model.TempCold, false, 3 * time.Hour, model.TempCold, true},
		{"saved cold never purges", model.TempCold, true, 1000 * time.Hour, model.TempCold, false},
		{"saved hot still decays", model.TempHot, true, 9 * 24 * time.Hour, model.TempWarm, false},
		{"clock skew treated as fresh", model.TempHot, false, -time.Hour, model.TempHot, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := model.LeadRecord{
				Host:        "acme.com",
				Temperature: tt.temp,
				Saved:       tt.saved,
				TouchedAt:   t0.Add(-tt.idle),
			}
			aged, purge := ageRecord(rec, t0, cfg)
			assert.Equal(t, tt.wantTemp, aged.Temperature)
			assert.Equal(t, tt.wantPurge, purge)
		})
	}
}

func TestPromoteAndLazyDecay(t *testing.T) {
	s, now := newTestStore()

	rec, err := s.Promote("https://www.Acme.com/x", model.TempHot)
	require.NoError(t, err)
	assert.Equal(t, "acme.com", rec.Host)
	assert.Equal(t, model.TempHot, rec.Temperature)
	assert.True(t, rec.Saved)

	// 8 days idle: one band down, not two.
	*now = now.Add(8 * 24 * time.Hour)
	got, ok := s.Get("acme.com")
	require.True(t, ok)
	assert.Equal(t, model.TempWarm, got.Temperature)
}

func TestPromoteResetsIdleClock(t *testing.T) {
	s, now := newTestStore()

	_, err := s.Promote("acme.com", model.TempHot)
	require.NoError(t, err)

	*now = now.Add(6 * 24 * time.Hour)
	_, err = s.Promote("acme.com", model.TempHot)
	require.NoError(t, err)

	*now = now.Add(6 * 24 * time.Hour)
	got, ok := s.Get("acme.com")
	require.True(t, ok)
	assert.Equal(t, model.TempHot, got.Temperature, "second promote restarted the window")
}

func TestPromoteInvalidTargetDefaultsHot(t *testing.T) {
	s, _ := newTestStore()
	rec, err := s.Promote("acme.com", model.Temperature("lava"))
	require.NoError(t, err)
	assert.Equal(t, model.TempHot, rec.Temperature)
}

func TestUnsavedColdPurged(t *testing.T) {
	s, now := newTestStore()

	_, err := s.Touch("acme.com")
	require.NoError(t, err)

	*now = now.Add(3 * time.Hour)
	_, ok := s.Get("acme.com")
	assert.False(t, ok, "unsaved cold record past TTL is gone")
}

func TestSavedColdSurvives(t *testing.T) {
	s, now := newTestStore()

	_, err := s.Promote("acme.com", model.TempHot)
	require.NoError(t, err)
	_, err = s.Reset("acme.com")
	require.NoError(t, err)

	*now = now.Add(30 * 24 * time.Hour)
	got, ok := s.Get("acme.com")
	require.True(t, ok, "saved records never purge")
	assert.Equal(t, model.TempCold, got.Temperature)
	assert.True(t, got.Saved)
}

func TestResetPreservesSaved(t *testing.T) {
	s, _ := newTestStore()

	_, err := s.Promote("acme.com", model.TempWarm)
	require.NoError(t, err)

	rec, err := s.Reset("acme.com")
	require.NoError(t, err)
	assert.Equal(t, model.TempCold, rec.Temperature)
	assert.True(t, rec.Saved)
}

func TestTouchAgesBeforeResettingClock(t *testing.T) {
	s, now := newTestStore()

	_, err := s.Promote("acme.com", model.TempHot)
	require.NoError(t, err)

	// Past the hot window: touch lands at warm, with a fresh clock.
	*now = now.Add(8 * 24 * time.Hour)
	rec, err := s.Touch("acme.com")
	require.NoError(t, err)
	assert.Equal(t, model.TempWarm, rec.Temperature)
	assert.Equal(t, *now, rec.TouchedAt)

	// Within the warm window from the touch, still warm.
	*now = now.Add(12 * time.Hour)
	got, ok := s.Get("acme.com")
	require.True(t, ok)
	assert.Equal(t, model.TempWarm, got.Temperature)
}

func TestTouchUnknownHostCreatesCold(t *testing.T) {
	s, _ := newTestStore()
	rec, err := s.Touch("new.com")
	require.NoError(t, err)
	assert.Equal(t, model.TempCold, rec.Temperature)
	assert.False(t, rec.Saved)
}

func TestUpsertPreservesCreatedAt(t *testing.T) {
	s, now := newTestStore()

	first, err := s.Upsert("acme.com", Patch{})
	require.NoError(t, err)

	*now = now.Add(time.Hour)
	warm := model.TempWarm
	second, err := s.Upsert("acme.com", Patch{Temperature: &warm})
	require.NoError(t, err)

	assert.Equal(t, first.CreatedAt, second.CreatedAt)
	assert.Equal(t, *now, second.TouchedAt)
	assert.Equal(t, model.TempWarm, second.Temperature)
}

func TestMutationsRejectInvalidHost(t *testing.T) {
	s, _ := newTestStore()

	_, err := s.Upsert("", Patch{})
	assert.ErrorIs(t, err, ErrInvalidKey)
	_, err = s.Promote("not a host", model.TempHot)
	assert.ErrorIs(t, err, ErrInvalidKey)
	_, err = s.Reset("")
	assert.ErrorIs(t, err, ErrInvalidKey)
	_, err = s.Touch("")
	assert.ErrorIs(t, err, ErrInvalidKey)
}

func TestSummaryPurgesFirst(t *testing.T) {
	s, now := newTestStore()

	_, err := s.Promote("hot.com", model.TempHot)
	require.NoError(t, err)
	_, err = s.Promote("warm.com", model.TempWarm)
	require.NoError(t, err)
	_, err = s.Touch("stale.com")
	require.NoError(t, err)

	*now = now.Add(3 * time.Hour)
	sum := s.Summary()
	assert.Equal(t, model.LeadSummary{Total: 2, Hot: 1, Warm: 1, Saved: 2}, sum)
}

func TestListByTemperature(t *testing.T) {
	s, now := newTestStore()

	_, err := s.Promote("older.com", model.TempHot)
	require.NoError(t, err)
	*now = now.Add(time.Minute)
	_, err = s.Promote("newer.com", model.TempHot)
	require.NoError(t, err)
	_, err = s.Touch("cold.com")
	require.NoError(t, err)

	hot := s.ListByTemperature(model.TempHot)
	require.Len(t, hot, 2)
	assert.Equal(t, "newer.com", hot[0].Host, "most recently touched first")
	assert.Equal(t, "older.com", hot[1].Host)

	cold := s.ListByTemperature(model.TempCold)
	require.Len(t, cold, 1)
	assert.Equal(t, "cold.com", cold[0].Host)
}

func TestSweepOnce(t *testing.T) {
	s, now := newTestStore()

	for _, host := range []string{"a.com", "b.com", "c.com"} {
		_, err := s.Touch(host)
		require.NoError(t, err)
	}
	_, err := s.Promote("keep.com", model.TempHot)
	require.NoError(t, err)

	*now = now.Add(3 * time.Hour)
	purged := s.SweepOnce()
	assert.Equal(t, 3, purged)

	sum := s.Summary()
	assert.Equal(t, 1, sum.Total)
}
