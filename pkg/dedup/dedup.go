package dedup

import (
	"strings"

	"github.com/aidirectory/lodestar/internal/matcher"
	"github.com/aidirectory/lodestar/pkg/catalog"
	"github.com/aidirectory/lodestar/pkg/constants"
	"github.com/aidirectory/lodestar/pkg/logging"
	"github.com/aidirectory/lodestar/pkg/sources"
)

// Deduplicator resolves incoming records against the canonical store.
//
// The fuzzy step scans every indexed name, so resolution is
// O(existing entities) per record — acceptable for small-to-medium
// corpora. Larger stores would need blocking (bucketing candidates by
// prefix or n-gram) before pairwise similarity.
type Deduplicator struct {
	store *catalog.Store
	index *Index
}

// New builds a Deduplicator with fresh indices scanned from the store.
func New(store *catalog.Store) (*Deduplicator, error) {
	index, err := NewIndex(store)
	if err != nil {
		return nil, err
	}
	return &Deduplicator{store: store, index: index}, nil
}

// Index exposes the resolution index so the pipeline can register writes.
func (d *Deduplicator) Index() *Index {
	return d.index
}

// Resolve maps a record to an existing entity slug, or "" when the record
// is new. Matching order, first hit wins:
//
//  1. exact domain of the record's product URL
//  2. exact domain of the record's company website
//  3. exact case-insensitive name
//  4. fuzzy name at/above the similarity threshold
//     (ties break to highest score, then smallest slug)
//  5. an existing canonical file at the slugified name
func (d *Deduplicator) Resolve(record *sources.ScrapedRecord) string {
	if domain := catalog.ExtractDomain(record.ProductURL); domain != "" {
		if slug, ok := d.index.SlugByDomain(domain); ok {
			return slug
		}
	}

	if domain := catalog.ExtractDomain(record.CompanyWebsite); domain != "" {
		if slug, ok := d.index.SlugByDomain(domain); ok {
			return slug
		}
	}

	if slug, ok := d.index.SlugByName(record.Name); ok {
		return slug
	}

	if slug, ok := d.fuzzyName(record.Name); ok {
		return slug
	}

	if candidate := catalog.Slugify(record.Name); candidate != "" && d.store.Exists(candidate) {
		return candidate
	}

	return ""
}

// fuzzyName finds the closest indexed name at/above the threshold.
func (d *Deduplicator) fuzzyName(name string) (string, bool) {
	target := strings.ToLower(name)
	candidates := make([]matcher.Candidate, 0, d.index.Len())
	for _, indexed := range d.index.Names() {
		slug, _ := d.index.SlugByName(indexed)
		candidates = append(candidates, matcher.Candidate{Key: indexed, ID: slug})
	}

	best, score, ok := matcher.Best(target, candidates, constants.NameSimilarityThreshold)
	if !ok {
		return "", false
	}
	logging.Debug().
		Str("name", name).
		Str("matched", best.Key).
		Str("slug", best.ID).
		Float64("score", score).
		Msg("Fuzzy name match")
	return best.ID, true
}
