// Package provenance provides field-level tracking of data sources for
// canonical entities. Every non-default leaf value in a document has a
// corresponding entry recording which source wrote it, at what trust tier,
// and when — this is what makes later tier comparisons possible.
package provenance

import (
	"sort"

	"github.com/agentstation/utc"

	"github.com/aidirectory/lodestar/pkg/catalog"
	"github.com/aidirectory/lodestar/pkg/sources"
)

// Entry records the origin of one field value. Confidence is the tier's
// fixed trust score, kept for display and audit only; overwrite decisions
// compare tier ordinals.
type Entry struct {
	Source     string       `json:"source"`
	Tier       sources.Tier `json:"tier"`
	Confidence float64      `json:"confidence"`
	UpdatedAt  string       `json:"updated_at"`
}

// NewEntry builds an entry for a write happening now.
func NewEntry(source string, tier sources.Tier) Entry {
	return Entry{
		Source:     source,
		Tier:       tier,
		Confidence: tier.TrustScore(),
		UpdatedAt:  utc.Now().Format("2006-01-02"),
	}
}

// toMap renders the entry in the document's generic JSON form.
func (e Entry) toMap() map[string]any {
	return map[string]any{
		"source":     e.Source,
		"tier":       int(e.Tier),
		"confidence": e.Confidence,
		"updated_at": e.UpdatedAt,
	}
}

// entryFromValue decodes a provenance entry from a decoded JSON value.
// Malformed entries decode to the zero Entry (tier 0, which no defined
// tier can tie with).
func entryFromValue(v any) (Entry, bool) {
	obj, ok := v.(map[string]any)
	if !ok {
		return Entry{}, false
	}
	var e Entry
	e.Source, _ = obj["source"].(string)
	switch tier := obj["tier"].(type) {
	case float64:
		e.Tier = sources.Tier(int(tier))
	case int:
		e.Tier = sources.Tier(tier)
	}
	if c, ok := obj["confidence"].(float64); ok {
		e.Confidence = c
	}
	e.UpdatedAt, _ = obj["updated_at"].(string)
	return e, true
}

// Lookup returns the provenance entry for a dotted field path, if any.
func Lookup(doc catalog.Document, fieldPath string) (Entry, bool) {
	prov, ok := doc.Get(catalog.PathProvenance).(map[string]any)
	if !ok {
		return Entry{}, false
	}
	raw, ok := prov[fieldPath]
	if !ok {
		return Entry{}, false
	}
	return entryFromValue(raw)
}

// Stamp records a provenance entry for a dotted field path, replacing any
// previous entry for that path.
func Stamp(doc catalog.Document, fieldPath string, e Entry) {
	prov, ok := doc.Get(catalog.PathProvenance).(map[string]any)
	if !ok {
		prov = make(map[string]any)
		doc.Set(catalog.PathProvenance, prov)
	}
	prov[fieldPath] = e.toMap()
}

// Paths returns the sorted field paths that carry provenance entries.
func Paths(doc catalog.Document) []string {
	prov, ok := doc.Get(catalog.PathProvenance).(map[string]any)
	if !ok {
		return nil
	}
	paths := make([]string, 0, len(prov))
	for p := range prov {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths
}
