// Package catalog implements the canonical entity store: one pretty-printed
// UTF-8 JSON document per product, addressed by slug. Documents are nested
// JSON trees whose leaves are dot-addressable (e.g. "company.headquarters.country"),
// with field-level provenance kept under meta.provenance.
package catalog

import "strings"

// Document is one canonical entity as a decoded JSON tree. Field access is
// by dotted path so the merger, validators, and scorer share one address
// scheme with the provenance map.
type Document map[string]any

// Well-known document paths.
const (
	PathSlug          = "slug"
	PathName          = "name"
	PathNameZh        = "name_zh"
	PathProductURL    = "product_url"
	PathDescription   = "description"
	PathDescriptionZh = "description_zh"
	PathCompanyName   = "company.name"
	PathCompanyURL    = "company.url"
	PathCompanyWeb    = "company.website"
	PathSources       = "sources"
	PathMeta          = "meta"
	PathProvenance    = "meta.provenance"
	PathAddedDate     = "meta.added_date"
	PathLastUpdated   = "meta.last_updated"
	PathQualityScore  = "meta.data_quality_score"
)

// Get retrieves the value at a dotted path, or nil when any intermediate
// key is missing or not an object.
func (d Document) Get(path string) any {
	var current any = map[string]any(d)
	for _, key := range strings.Split(path, ".") {
		obj, ok := current.(map[string]any)
		if !ok {
			return nil
		}
		current = obj[key]
	}
	return current
}

// Set writes a value at a dotted path, creating intermediate objects as
// needed. Existing sibling keys are preserved.
func (d Document) Set(path string, value any) {
	keys := strings.Split(path, ".")
	current := map[string]any(d)
	for _, key := range keys[:len(keys)-1] {
		next, ok := current[key].(map[string]any)
		if !ok {
			next = make(map[string]any)
			current[key] = next
		}
		current = next
	}
	current[keys[len(keys)-1]] = value
}

// Has reports whether the path holds a non-empty value. Empty strings,
// empty arrays, and empty objects count as unset, matching the merge
// rule that absent means "unknown".
func (d Document) Has(path string) bool {
	return !isEmptyValue(d.Get(path))
}

// Slug returns the document's slug, or "" when unset.
func (d Document) Slug() string {
	s, _ := d.Get(PathSlug).(string)
	return s
}

// Name returns the document's product name, or "" when unset.
func (d Document) Name() string {
	s, _ := d.Get(PathName).(string)
	return s
}

// StringAt returns the string at path, or "" when unset or not a string.
func (d Document) StringAt(path string) string {
	s, _ := d.Get(path).(string)
	return s
}

// SliceAt returns the array at path, or nil when unset or not an array.
func (d Document) SliceAt(path string) []any {
	s, _ := d.Get(path).([]any)
	return s
}

// isEmptyValue reports whether v counts as "no value" for merge purposes.
func isEmptyValue(v any) bool {
	switch val := v.(type) {
	case nil:
		return true
	case string:
		return strings.TrimSpace(val) == ""
	case []any:
		return len(val) == 0
	case map[string]any:
		return len(val) == 0
	default:
		return false
	}
}
