package prefs

import (
	"strings"
	"sync"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/lead-radar/internal/catalog"
	"github.com/sells-group/lead-radar/internal/model"
)

// ErrInvalidKey marks a Set call with an empty or unnormalizable caller key.
// It is the one condition this package surfaces to the caller.
var ErrInvalidKey = eris.New("prefs: invalid key")

// rawState is the sparse stored form for one key. Only fields a caller has
// ever set are populated; everything else comes from defaults at resolve
// time. Values here are unvalidated; clamping and normalization happen on
// every resolve, so out-of-range stored state self-heals.
type rawState struct {
	city        *string
	radiusKM    *int
	preferSmall *bool

	sizeWeights   SizeWeightsPatch
	signalWeights SignalWeightsPatch

	tierFocus []string

	categoriesAllow []string
	categoriesBlock []string

	preferredTitles []string
	materialsAllow  []string
	materialsBlock  []string
	certifications  []string
	excludedHosts   []string
	keywordsAdd     []string
	keywordsAvoid   []string

	updatedAt time.Time
}

// Store holds raw preference state keyed by normalized caller identity.
// Operations on different keys proceed concurrently; mutations on one key
// are serialized by the store lock.
type Store struct {
	mu  sync.RWMutex
	raw map[string]*rawState

	// nowFunc allows test injection of time.
	nowFunc func() time.Time
}

// NewStore creates an empty preference store.
func NewStore() *Store {
	return &Store{
		raw:     make(map[string]*rawState),
		nowFunc: time.Now,
	}
}

// NormalizeKey canonicalizes a caller key. Host-shaped keys are reduced to
// their canonical host; plain slugs are lowercased and trimmed. Returns ""
// for keys that cannot be normalized.
func NormalizeKey(key string) string {
	k := strings.ToLower(strings.TrimSpace(key))
	if k == "" {
		return ""
	}
	if strings.Contains(k, "://") || strings.Contains(k, "/") || strings.Contains(k, ".") {
		return catalog.CanonicalHost(k)
	}
	for _, r := range k {
		switch {
		case r >= 'a' && r <= 'z':
		case r >= '0' && r <= '9':
		case r == '-' || r == '_':
		default:
			return ""
		}
	}
	return k
}

// Get resolves the effective preferences for a key. Unknown keys are not an
// error: a complete default value is synthesized and the key is registered
// as seen with empty overrides.
func (s *Store) Get(key string) model.EffectivePreferences {
	k := NormalizeKey(key)
	if k == "" {
		// Unresolvable key on a read path: serve defaults under the
		// normalized (empty) key, register nothing.
		return resolve(k, &rawState{})
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	raw, ok := s.raw[k]
	if !ok {
		raw = &rawState{}
		s.raw[k] = raw
	}
	// Resolve under the lock: a concurrent Set on the same key mutates raw
	// in place.
	return resolve(k, raw)
}

// Set merges a patch into the stored raw state for a key and returns the
// freshly resolved effective value.
func (s *Store) Set(key string, patch Patch) (model.EffectivePreferences, error) {
	k := NormalizeKey(key)
	if k == "" {
		return model.EffectivePreferences{}, eris.Wrapf(ErrInvalidKey, "key %q", key)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	raw, ok := s.raw[k]
	if !ok {
		raw = &rawState{}
		s.raw[k] = raw
	}
	applyPatch(raw, patch, s.nowFunc())

	zap.L().Debug("prefs: updated", zap.String("key", k))
	return resolve(k, raw), nil
}

// Reset discards all stored state for a key. Administrative use only.
func (s *Store) Reset(key string) {
	k := NormalizeKey(key)
	if k == "" {
		return
	}
	s.mu.Lock()
	delete(s.raw, k)
	s.mu.Unlock()
}

// Keys returns all registered keys, in no particular order.
func (s *Store) Keys() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	keys := make([]string, 0, len(s.raw))
	for k := range s.raw {
		keys = append(keys, k)
	}
	return keys
}

// applyPatch merges a patch into raw state. Scalars override when present;
// list values are unioned with normalization, dedup, and the field cap.
// Weight sub-fields override independently.
func applyPatch(raw *rawState, p Patch, now time.Time) {
	if p.City != nil {
		raw.city = p.City
	}
	if p.RadiusKM != nil {
		raw.radiusKM = p.RadiusKM
	}
	if p.PreferSmallOrganizations != nil {
		raw.preferSmall = p.PreferSmallOrganizations
	}

	if p.SizeWeights != nil {
		mergeFloat(&raw.sizeWeights.Micro, p.SizeWeights.Micro)
		mergeFloat(&raw.sizeWeights.Small, p.SizeWeights.Small)
		mergeFloat(&raw.sizeWeights.Mid, p.SizeWeights.Mid)
		mergeFloat(&raw.sizeWeights.Large, p.SizeWeights.Large)
	}
	if p.SignalWeights != nil {
		mergeFloat(&raw.signalWeights.Locality, p.SignalWeights.Locality)
		mergeFloat(&raw.signalWeights.Ecommerce, p.SignalWeights.Ecommerce)
		mergeFloat(&raw.signalWeights.Retail, p.SignalWeights.Retail)
		mergeFloat(&raw.signalWeights.Wholesale, p.SignalWeights.Wholesale)
	}

	raw.tierFocus = unionList(raw.tierFocus, p.TierFocus, model.OverlayListCap)

	raw.categoriesAllow = unionList(raw.categoriesAllow, p.CategoriesAllow, model.CategoryListCap)
	raw.categoriesBlock = unionList(raw.categoriesBlock, p.CategoriesBlock, model.CategoryListCap)

	raw.preferredTitles = unionList(raw.preferredTitles, p.PreferredTitles, model.OverlayListCap)
	raw.materialsAllow = unionList(raw.materialsAllow, p.MaterialsAllow, model.OverlayListCap)
	raw.materialsBlock = unionList(raw.materialsBlock, p.MaterialsBlock, model.OverlayListCap)
	raw.certifications = unionList(raw.certifications, p.Certifications, model.OverlayListCap)
	raw.excludedHosts = unionList(raw.excludedHosts, p.ExcludedHosts, model.OverlayListCap)
	raw.keywordsAdd = unionList(raw.keywordsAdd, p.KeywordsAdd, model.OverlayListCap)
	raw.keywordsAvoid = unionList(raw.keywordsAvoid, p.KeywordsAvoid, model.OverlayListCap)

	raw.updatedAt = now
}

func mergeFloat(dst **float64, src *float64) {
	if src != nil {
		*dst = src
	}
}

// unionList appends incoming values to existing ones, lowercasing and
// collapsing whitespace, deduplicating in first-seen order, and capping the
// result.
func unionList(existing, incoming []string, limit int) []string {
	if len(incoming) == 0 {
		return existing
	}
	out := make([]string, 0, len(existing)+len(incoming))
	seen := make(map[string]struct{}, len(existing)+len(incoming))
	for _, v := range append(append([]string{}, existing...), incoming...) {
		v = strings.Join(strings.Fields(strings.ToLower(v)), " ")
		if v == "" {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
		if len(out) >= limit {
			break
		}
	}
	return out
}
