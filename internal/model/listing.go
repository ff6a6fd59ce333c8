// Package model defines the core data shapes shared across the catalog,
// preference, scoring, and lead lifecycle layers.
package model

// SizeBucket is a coarse organizational size class.
type SizeBucket string

const (
	SizeMicro   SizeBucket = "micro"
	SizeSmall   SizeBucket = "small"
	SizeMid     SizeBucket = "mid"
	SizeLarge   SizeBucket = "large"
	SizeUnknown SizeBucket = "unknown"
)

// ParseSizeBucket maps a raw size token to a SizeBucket. Unrecognized
// values map to SizeUnknown.
func ParseSizeBucket(s string) SizeBucket {
	switch SizeBucket(s) {
	case SizeMicro, SizeSmall, SizeMid, SizeLarge:
		return SizeBucket(s)
	default:
		return SizeUnknown
	}
}

// Listing is a normalized business-entity record. Host is the canonical
// identity key and is unique within a merged catalog snapshot. Listings are
// immutable once published; a reload replaces the whole snapshot.
type Listing struct {
	Host     string     `json:"host"`
	Name     string     `json:"name"`
	Tiers    []string   `json:"tiers"`
	Tags     []string   `json:"tags"`
	Segments []string   `json:"segments"`
	CityTags []string   `json:"city_tags"`
	Size     SizeBucket `json:"size"`
}

// DerivedSize returns the listing's declared size bucket, falling back to a
// tier-derived bucket: A maps to large, B to mid, C to small.
func (l Listing) DerivedSize() SizeBucket {
	if l.Size != "" && l.Size != SizeUnknown {
		return l.Size
	}
	for _, t := range l.Tiers {
		switch t {
		case "A", "a":
			return SizeLarge
		case "B", "b":
			return SizeMid
		case "C", "c":
			return SizeSmall
		}
	}
	return SizeUnknown
}

// HasTag reports whether the listing carries the tag in either its tags or
// segments set. Matching is exact; callers normalize case upstream.
func (l Listing) HasTag(tag string) bool {
	for _, t := range l.Tags {
		if t == tag {
			return true
		}
	}
	for _, s := range l.Segments {
		if s == tag {
			return true
		}
	}
	return false
}

// InCity reports whether the listing carries the given city slug.
func (l Listing) InCity(city string) bool {
	for _, c := range l.CityTags {
		if c == city {
			return true
		}
	}
	return false
}
