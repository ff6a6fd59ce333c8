// Package catalog builds the in-memory listing catalog: it normalizes raw
// source records into model.Listing values and merges ordered sources into a
// deduplicated snapshot.
package catalog

import (
	"strings"

	"github.com/rotisserie/eris"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/sells-group/lead-radar/internal/model"
)

// ErrInvalidRecord marks a raw record whose identity key is missing or not a
// domain. Such records are dropped during the merge, never surfaced.
var ErrInvalidRecord = eris.New("catalog: invalid record")

// RawRecord is a loosely-typed ingestion record. Sources differ in shape;
// every field is optional and unknown keys in the payload are ignored. The
// identity is taken from Host, then Domain, then URL.
type RawRecord struct {
	Host     string   `json:"host" yaml:"host"`
	Domain   string   `json:"domain" yaml:"domain"`
	URL      string   `json:"url" yaml:"url"`
	Name     string   `json:"name" yaml:"name"`
	Tiers    []string `json:"tiers" yaml:"tiers"`
	Tags     []string `json:"tags" yaml:"tags"`
	Segments []string `json:"segments" yaml:"segments"`
	CityTags []string `json:"city_tags" yaml:"city_tags"`
	Cities   []string `json:"cities" yaml:"cities"`
	Size     string   `json:"size" yaml:"size"`
}

var titleCaser = cases.Title(language.English)

// NormalizeRecord canonicalizes a raw record into a Listing. It returns
// ErrInvalidRecord when no usable host can be derived.
func NormalizeRecord(raw RawRecord) (model.Listing, error) {
	host := CanonicalHost(firstNonEmpty(raw.Host, raw.Domain, raw.URL))
	if host == "" {
		return model.Listing{}, eris.Wrap(ErrInvalidRecord, "no host")
	}

	name := strings.TrimSpace(raw.Name)
	if name == "" {
		name = displayNameFromHost(host)
	}

	return model.Listing{
		Host:     host,
		Name:     name,
		Tiers:    normalizeTiers(raw.Tiers),
		Tags:     normalizeSet(raw.Tags),
		Segments: normalizeSet(raw.Segments),
		CityTags: normalizeSet(append(append([]string{}, raw.CityTags...), raw.Cities...)),
		Size:     model.ParseSizeBucket(strings.ToLower(strings.TrimSpace(raw.Size))),
	}, nil
}

// CanonicalHost lowercases a host-ish string and strips scheme, www prefix,
// port, path, query, and fragment. It returns "" when the remainder is not
// syntactically a domain.
func CanonicalHost(s string) string {
	h := strings.ToLower(strings.TrimSpace(s))
	if h == "" {
		return ""
	}
	if i := strings.Index(h, "://"); i >= 0 {
		h = h[i+3:]
	}
	for _, sep := range []string{"/", "?", "#"} {
		if i := strings.Index(h, sep); i >= 0 {
			h = h[:i]
		}
	}
	if i := strings.Index(h, "@"); i >= 0 {
		h = h[i+1:]
	}
	if i := strings.Index(h, ":"); i >= 0 {
		h = h[:i]
	}
	h = strings.TrimPrefix(h, "www.")
	h = strings.Trim(h, ".")
	if !isDomain(h) {
		return ""
	}
	return h
}

// isDomain checks the minimal syntactic shape: at least one dot, non-empty
// labels, and only letters, digits, and hyphens within labels.
func isDomain(h string) bool {
	if h == "" || !strings.Contains(h, ".") {
		return false
	}
	for _, label := range strings.Split(h, ".") {
		if label == "" || strings.HasPrefix(label, "-") || strings.HasSuffix(label, "-") {
			return false
		}
		for _, r := range label {
			switch {
			case r >= 'a' && r <= 'z':
			case r >= '0' && r <= '9':
			case r == '-':
			default:
				return false
			}
		}
	}
	return true
}

// displayNameFromHost derives a display label from the first host label:
// "acme-corp.com" becomes "Acme Corp".
func displayNameFromHost(host string) string {
	label := host
	if i := strings.Index(label, "."); i >= 0 {
		label = label[:i]
	}
	label = strings.NewReplacer("-", " ", "_", " ").Replace(label)
	return titleCaser.String(label)
}

// normalizeSet lowercases, collapses inner whitespace, and deduplicates
// preserving first-seen order. Empty elements are dropped.
func normalizeSet(in []string) []string {
	out := make([]string, 0, len(in))
	seen := make(map[string]struct{}, len(in))
	for _, v := range in {
		v = strings.Join(strings.Fields(strings.ToLower(v)), " ")
		if v == "" {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}

// normalizeTiers uppercases tier bands and deduplicates preserving order.
func normalizeTiers(in []string) []string {
	out := make([]string, 0, len(in))
	seen := make(map[string]struct{}, len(in))
	for _, v := range in {
		v = strings.ToUpper(strings.TrimSpace(v))
		if v == "" {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
