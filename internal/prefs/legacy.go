package prefs

import (
	"strings"

	"github.com/sells-group/lead-radar/internal/model"
)

// Legacy clients encode structured preferences as prefixed tokens inside the
// allow/block tag lists ("title:owner", "mat:steel"). The decode runs at
// resolve time, never at write time, so it applies uniformly no matter how
// the raw tag arrived, and the prefixed tag stays in the tag list as well.

// legacyTarget names the structured field a prefix folds into.
type legacyTarget int

const (
	targetTitles legacyTarget = iota
	targetMaterials
	targetCerts
	targetKeywords
	targetHosts
)

var legacyPrefixes = map[string]legacyTarget{
	"title:": targetTitles,
	"mat:":   targetMaterials,
	"cert:":  targetCerts,
	"kw:":    targetKeywords,
	"host:":  targetHosts,
}

// decodeLegacyTags mines both category lists for prefixed tokens and folds
// the values into the corresponding structured fields. Allow-list materials
// and keywords land in the allow-side fields, block-list ones in the
// block-side fields; hosts always land in ExcludedHosts.
func decodeLegacyTags(p *model.EffectivePreferences) {
	for _, tag := range p.CategoriesAllow {
		prefix, value, ok := splitLegacyTag(tag)
		if !ok {
			continue
		}
		switch legacyPrefixes[prefix] {
		case targetTitles:
			p.PreferredTitles = appendUnique(p.PreferredTitles, value)
		case targetMaterials:
			p.MaterialsAllow = appendUnique(p.MaterialsAllow, value)
		case targetCerts:
			p.Certifications = appendUnique(p.Certifications, value)
		case targetKeywords:
			p.KeywordsAdd = appendUnique(p.KeywordsAdd, value)
		case targetHosts:
			p.ExcludedHosts = appendUnique(p.ExcludedHosts, value)
		}
	}

	for _, tag := range p.CategoriesBlock {
		prefix, value, ok := splitLegacyTag(tag)
		if !ok {
			continue
		}
		switch legacyPrefixes[prefix] {
		case targetTitles:
			p.PreferredTitles = appendUnique(p.PreferredTitles, value)
		case targetMaterials:
			p.MaterialsBlock = appendUnique(p.MaterialsBlock, value)
		case targetCerts:
			p.Certifications = appendUnique(p.Certifications, value)
		case targetKeywords:
			p.KeywordsAvoid = appendUnique(p.KeywordsAvoid, value)
		case targetHosts:
			p.ExcludedHosts = appendUnique(p.ExcludedHosts, value)
		}
	}
}

// splitLegacyTag returns the known prefix and the trimmed value, or ok=false
// when the tag carries no known prefix or an empty value.
func splitLegacyTag(tag string) (prefix, value string, ok bool) {
	i := strings.Index(tag, ":")
	if i < 0 {
		return "", "", false
	}
	prefix = tag[:i+1]
	if _, known := legacyPrefixes[prefix]; !known {
		return "", "", false
	}
	value = normalizeToken(tag[i+1:])
	if value == "" {
		return "", "", false
	}
	return prefix, value, true
}

func appendUnique(list []string, v string) []string {
	for _, existing := range list {
		if existing == v {
			return list
		}
	}
	return append(list, v)
}

func normalizeToken(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}

func upperList(in []string) []string {
	out := make([]string, 0, len(in))
	for _, v := range in {
		if v = strings.ToUpper(strings.TrimSpace(v)); v != "" {
			out = append(out, v)
		}
	}
	return out
}
