package catalog

import (
	"context"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"github.com/sells-group/lead-radar/internal/model"
)

// Source supplies one ordered collection of raw records. A Fetch error means
// the whole source is unavailable for this load; the merge treats it as
// contributing zero records.
type Source interface {
	Name() string
	Fetch(ctx context.Context) ([]RawRecord, error)
}

// snapshot is one immutable catalog build. Readers hold the slice returned
// by Load and must not mutate it.
type snapshot struct {
	listings []model.Listing
	loadedAt time.Time
}

// Merger combines ordered sources into a deduplicated catalog. The first
// source to contribute a host wins; later occurrences of the same host are
// skipped. Snapshots are cached for a TTL and replaced atomically, so
// concurrent readers always see either the old or the fully new catalog.
type Merger struct {
	sources []Source
	ttl     time.Duration

	snap  atomic.Pointer[snapshot]
	group singleflight.Group

	// nowFunc allows test injection of time.
	nowFunc func() time.Time
}

// NewMerger creates a Merger over the given sources, in priority order.
// ttl <= 0 disables snapshot caching.
func NewMerger(sources []Source, ttl time.Duration) *Merger {
	return &Merger{
		sources: sources,
		ttl:     ttl,
		nowFunc: time.Now,
	}
}

// Load returns the current catalog, rebuilding it when the cached snapshot
// is missing or older than the TTL. Load never fails: a source that cannot
// be fetched or parsed contributes zero records.
func (m *Merger) Load(ctx context.Context) []model.Listing {
	if s := m.snap.Load(); s != nil && m.ttl > 0 && m.nowFunc().Sub(s.loadedAt) < m.ttl {
		return s.listings
	}
	return m.rebuild(ctx)
}

// Reload rebuilds the catalog immediately, bypassing the TTL.
func (m *Merger) Reload(ctx context.Context) []model.Listing {
	return m.rebuild(ctx)
}

// LoadedAt returns the build time of the current snapshot, zero if none.
func (m *Merger) LoadedAt() time.Time {
	if s := m.snap.Load(); s != nil {
		return s.loadedAt
	}
	return time.Time{}
}

// rebuild performs the merge and publishes a new snapshot. Concurrent
// rebuild requests are coalesced into a single pass.
func (m *Merger) rebuild(ctx context.Context) []model.Listing {
	v, _, _ := m.group.Do("rebuild", func() (any, error) {
		listings := m.merge(ctx)
		m.snap.Store(&snapshot{listings: listings, loadedAt: m.nowFunc()})
		return listings, nil
	})
	return v.([]model.Listing)
}

// mergeFetchers caps concurrent source fetches during a merge.
const mergeFetchers = 4

// merge fetches all sources concurrently, then flattens the results in
// source order, normalizing each record and keeping the first occurrence of
// every host. Output order is first-seen order, so dedup priority follows
// source order regardless of fetch completion order.
func (m *Merger) merge(ctx context.Context) []model.Listing {
	fetched := make([][]RawRecord, len(m.sources))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(mergeFetchers)
	for i, src := range m.sources {
		g.Go(func() error {
			records, err := src.Fetch(gctx)
			if err != nil {
				zap.L().Warn("catalog: source unavailable",
					zap.String("source", src.Name()),
					zap.Error(err),
				)
				return nil
			}
			fetched[i] = records
			return nil
		})
	}
	_ = g.Wait()

	seen := make(map[string]struct{})
	var out []model.Listing

	for i, src := range m.sources {
		records := fetched[i]

		dropped := 0
		for _, raw := range records {
			listing, err := NormalizeRecord(raw)
			if err != nil {
				dropped++
				continue
			}
			if _, ok := seen[listing.Host]; ok {
				continue
			}
			seen[listing.Host] = struct{}{}
			out = append(out, listing)
		}

		if dropped > 0 {
			zap.L().Debug("catalog: dropped invalid records",
				zap.String("source", src.Name()),
				zap.Int("dropped", dropped),
			)
		}
	}

	zap.L().Info("catalog: merged",
		zap.Int("sources", len(m.sources)),
		zap.Int("listings", len(out)),
	)
	return out
}

// Find returns the listing for a canonical host in the current catalog.
func (m *Merger) Find(ctx context.Context, host string) (model.Listing, bool) {
	for _, l := range m.Load(ctx) {
		if l.Host == host {
			return l, true
		}
	}
	return model.Listing{}, false
}
