// Package merge implements trust-tiered, field-level merging of scraped
// records into canonical documents. Each field write is gated by the tier
// rule, checked against the cross-validator, and stamped with provenance,
// so a low-trust source can never silently degrade curated data.
package merge

import (
	"encoding/json"
	"fmt"
	"net/url"
	"strings"

	"github.com/agentstation/utc"

	"github.com/aidirectory/lodestar/pkg/catalog"
	"github.com/aidirectory/lodestar/pkg/crossval"
	"github.com/aidirectory/lodestar/pkg/errors"
	"github.com/aidirectory/lodestar/pkg/logging"
	"github.com/aidirectory/lodestar/pkg/provenance"
	"github.com/aidirectory/lodestar/pkg/quality"
	"github.com/aidirectory/lodestar/pkg/sources"
)

// FieldValidator is the contamination gate the merger consults before and
// after every field write. crossval.Validator satisfies it; a nil validator
// disables cross-validation (used by offline re-scoring tools).
type FieldValidator interface {
	// ValidateField reports whether writing value at fieldPath is safe.
	ValidateField(slug, fieldPath string, value any) bool

	// ValidateCompanyConsistency emits warning-level violations for
	// conflicting company facts. It never blocks a write.
	ValidateCompanyConsistency(slug string, r *sources.ScrapedRecord) []crossval.Violation

	// RecordWrite updates the validator's session indices after an
	// accepted write, so later records in the same batch see it.
	RecordWrite(slug, fieldPath string, value any)
}

// Merger applies scraped records to the canonical store.
type Merger struct {
	store     *catalog.Store
	validator FieldValidator
}

// New returns a merger writing to store. validator may be nil.
func New(store *catalog.Store, validator FieldValidator) *Merger {
	return &Merger{store: store, validator: validator}
}

// Create materializes a new canonical document under slug from a single
// record and persists it. Every written field gets a provenance entry at
// the record's tier; auxiliary-tier records may only contribute hiring
// fields even at creation.
func (m *Merger) Create(slug string, r *sources.ScrapedRecord) (catalog.Document, error) {
	if _, err := catalog.ValidateSlug(slug); err != nil {
		return nil, err
	}
	if strings.TrimSpace(r.Name) == "" {
		return nil, &errors.ValidationError{Field: "name", Message: "record has no product name"}
	}

	tier := r.EffectiveTier()
	entry := provenance.NewEntry(r.Source, tier)
	today := utc.Now().Format("2006-01-02")

	// Identity is set unconditionally: even a tier whose field writes are
	// scoped away still names the entity it creates.
	name := strings.TrimSpace(r.Name)
	doc := catalog.Document{
		catalog.PathSlug: slug,
		catalog.PathName: name,
		catalog.PathMeta: map[string]any{
			"added_date":   today,
			"last_updated": today,
			"provenance":   map[string]any{},
		},
	}
	m.recordWrite(slug, catalog.PathName, name)

	for _, spec := range fieldSpecs {
		value := spec.extract(r)
		if isEmpty(value) {
			continue
		}
		if !tierMayTouch(spec.path, tier) {
			continue
		}
		if !m.validate(slug, spec.path, value) {
			continue
		}
		doc.Set(spec.path, value)
		provenance.Stamp(doc, spec.path, entry)
		m.recordWrite(slug, spec.path, value)
	}

	if doc.StringAt("status") == "" {
		doc.Set("status", "active")
	}

	// The company URL is derived once, at creation, from the best
	// available fallback. Later records refine company.website instead.
	if companyURL := buildCompanyURL(r); companyURL != "" {
		doc.Set(catalog.PathCompanyURL, companyURL)
		provenance.Stamp(doc, catalog.PathCompanyURL, entry)
		m.recordWrite(slug, catalog.PathCompanyURL, companyURL)
	}

	appendSource(doc, r, today)

	if m.validator != nil {
		m.validator.ValidateCompanyConsistency(slug, r)
	}

	quality.Rescore(doc)
	if err := m.store.Save(slug, doc); err != nil {
		return nil, err
	}
	logging.Info().Str("slug", slug).Str("source", r.Source).
		Stringer("tier", tier).Msg("created entity")
	return doc, nil
}

// Merge folds a record into the existing document under slug and persists
// the result. Fields the tier rule or the cross-validator reject are
// skipped individually; only persistence failures abort.
func (m *Merger) Merge(slug string, r *sources.ScrapedRecord) (catalog.Document, error) {
	doc, err := m.store.Load(slug)
	if err != nil {
		return nil, err
	}

	tier := r.EffectiveTier()
	entry := provenance.NewEntry(r.Source, tier)
	changed := false

	for _, spec := range fieldSpecs {
		value := spec.extract(r)
		if isEmpty(value) {
			continue
		}
		if !tierMayTouch(spec.path, tier) {
			continue
		}
		switch spec.kind {
		case kindList:
			if m.mergeList(doc, slug, spec.path, value.([]any), tier, entry) {
				changed = true
			}
		default:
			if m.mergeScalar(doc, slug, spec.path, value, tier, entry) {
				changed = true
			}
		}
	}

	if appendSource(doc, r, utc.Now().Format("2006-01-02")) {
		changed = true
	}

	if m.validator != nil {
		m.validator.ValidateCompanyConsistency(slug, r)
	}

	if changed {
		doc.Set(catalog.PathLastUpdated, utc.Now().Format("2006-01-02"))
		quality.Rescore(doc)
		if err := m.store.Save(slug, doc); err != nil {
			return nil, err
		}
		logging.Info().Str("slug", slug).Str("source", r.Source).
			Stringer("tier", tier).Msg("merged record")
	} else {
		logging.Debug().Str("slug", slug).Str("source", r.Source).
			Msg("no fields accepted")
	}
	return doc, nil
}

// mergeScalar applies the tier rule to one scalar or compound field and
// reports whether it wrote.
func (m *Merger) mergeScalar(doc catalog.Document, slug, path string, value any, tier sources.Tier, entry provenance.Entry) bool {
	if !shouldOverwrite(doc, path, tier) {
		return false
	}
	if !m.validate(slug, path, value) {
		return false
	}
	doc.Set(path, value)
	provenance.Stamp(doc, path, entry)
	m.recordWrite(slug, path, value)
	return true
}

// mergeList unions incoming items into the array at path. Existing items
// are never removed or replaced; the AI tier may only seed an empty array.
// Reports whether any item was added.
func (m *Merger) mergeList(doc catalog.Document, slug, path string, items []any, tier sources.Tier, entry provenance.Entry) bool {
	existing := doc.SliceAt(path)
	if len(existing) > 0 && tier == sources.TierAIGenerated {
		return false
	}
	if !m.validate(slug, path, items) {
		return false
	}

	seen := make(map[string]bool, len(existing))
	for _, item := range existing {
		seen[itemKey(item)] = true
	}
	merged := append([]any{}, existing...)
	added := false
	for _, item := range items {
		key := itemKey(item)
		if seen[key] {
			continue
		}
		seen[key] = true
		merged = append(merged, item)
		added = true
	}
	if !added {
		return false
	}
	doc.Set(path, merged)
	provenance.Stamp(doc, path, entry)
	return true
}

// shouldOverwrite decides whether tier may replace the current value at
// path: empty fields accept anything, the AI tier only fills gaps, and a
// non-empty value yields only to a strictly higher trust tier. A value
// with no provenance entry is treated as hand-curated (T1).
func shouldOverwrite(doc catalog.Document, path string, tier sources.Tier) bool {
	if !doc.Has(path) {
		return true
	}
	if tier == sources.TierAIGenerated {
		return false
	}
	return tier.StrongerThan(existingTier(doc, path))
}

// existingTier returns the tier that wrote the current value at path.
func existingTier(doc catalog.Document, path string) sources.Tier {
	if e, ok := provenance.Lookup(doc, path); ok && e.Tier.Valid() {
		return e.Tier
	}
	return sources.TierAuthoritative
}

// tierMayTouch enforces the auxiliary tier's field-scope restriction:
// T4 sources write hiring fields only, everything else is dropped
// silently regardless of the overwrite rule.
func tierMayTouch(path string, tier sources.Tier) bool {
	if tier != sources.TierAuxiliary {
		return true
	}
	return strings.HasPrefix(path, "hiring.")
}

// validate consults the cross-validator; a nil validator accepts all.
func (m *Merger) validate(slug, path string, value any) bool {
	if m.validator == nil {
		return true
	}
	return m.validator.ValidateField(slug, path, value)
}

func (m *Merger) recordWrite(slug, path string, value any) {
	if m.validator != nil {
		m.validator.RecordWrite(slug, path, value)
	}
}

// isEmpty reports whether an extracted value carries no information.
func isEmpty(v any) bool {
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

// itemKey renders an array item as a canonical comparison key. Map items
// compare by content, not identity, so re-merging the same record is a
// no-op. encoding/json sorts map keys, making the key order-independent.
func itemKey(item any) string {
	if s, ok := item.(string); ok {
		return "s:" + s
	}
	b, err := json.Marshal(item)
	if err != nil {
		return fmt.Sprintf("%v", item)
	}
	return "j:" + string(b)
}

// buildCompanyURL picks the best available company link: the official
// website, then Wikipedia, then a search-engine query so the document
// always carries a lead a human can follow.
func buildCompanyURL(r *sources.ScrapedRecord) string {
	if r.CompanyWebsite != "" {
		return r.CompanyWebsite
	}
	if r.CompanyWikipediaURL != "" {
		return r.CompanyWikipediaURL
	}
	name := r.CompanyName
	if name == "" {
		name = r.Name
	}
	if name == "" {
		return ""
	}
	return "https://www.bing.com/search?q=" + url.QueryEscape(name+" company")
}

// appendSource records the contributing source on the document's sources
// list, deduplicated by source URL (or by name when the URL is absent).
// Entries are never removed. Reports whether an entry was added.
func appendSource(doc catalog.Document, r *sources.ScrapedRecord, date string) bool {
	list := doc.SliceAt(catalog.PathSources)
	key := r.SourceURL
	if key == "" {
		key = r.Source
	}
	for _, raw := range list {
		obj, ok := raw.(map[string]any)
		if !ok {
			continue
		}
		existing, _ := obj["url"].(string)
		if existing == "" {
			existing, _ = obj["name"].(string)
		}
		if existing == key {
			return false
		}
	}
	entry := map[string]any{
		"name": r.Source,
		"tier": int(r.EffectiveTier()),
		"date": date,
	}
	if r.SourceURL != "" {
		entry["url"] = r.SourceURL
	}
	doc.Set(catalog.PathSources, append(list, entry))
	return true
}
