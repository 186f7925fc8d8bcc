// Package dedup resolves incoming scraped records to existing canonical
// entities, or declares them new. Resolution runs against read-only
// indices built once per batch from the canonical store, with an explicit
// mutation step (RecordWrite) so records later in the same batch see
// entities written earlier in the run.
package dedup

import (
	"sort"
	"strings"

	"github.com/aidirectory/lodestar/pkg/catalog"
)

// Index holds the per-batch lookup tables for entity resolution:
// bare domain → slug and lowercased name → slug.
type Index struct {
	domains map[string]string
	names   map[string]string
}

// NewIndex builds the resolution index by scanning the canonical store.
// Unparseable files are skipped; they neither match nor block resolution
// of unrelated records.
func NewIndex(store *catalog.Store) (*Index, error) {
	idx := &Index{
		domains: make(map[string]string),
		names:   make(map[string]string),
	}
	err := store.Walk(func(slug string, doc catalog.Document) {
		idx.RecordWrite(slug, doc)
	})
	if err != nil {
		return nil, err
	}
	return idx, nil
}

// RecordWrite registers a written document's name and domains so that
// subsequent records in the same batch resolve against it. Called by the
// pipeline after every successful create or merge. Only the product URL
// and the company website are indexed: company.url may fall back to a
// Wikipedia page or a generated search link, and keying a shared host
// like en.wikipedia.org to one entity would merge unrelated products.
func (idx *Index) RecordWrite(slug string, doc catalog.Document) {
	if name := doc.Name(); name != "" {
		idx.names[strings.ToLower(name)] = slug
	}
	for _, path := range []string{catalog.PathProductURL, catalog.PathCompanyWeb} {
		if domain := catalog.ExtractDomain(doc.StringAt(path)); domain != "" {
			if _, taken := idx.domains[domain]; !taken {
				idx.domains[domain] = slug
			}
		}
	}
}

// SlugByDomain returns the entity owning a bare domain, if any.
func (idx *Index) SlugByDomain(domain string) (string, bool) {
	slug, ok := idx.domains[domain]
	return slug, ok
}

// SlugByName returns the entity owning a name (case-insensitive), if any.
func (idx *Index) SlugByName(name string) (string, bool) {
	slug, ok := idx.names[strings.ToLower(name)]
	return slug, ok
}

// Names returns all indexed lowercased names in sorted order. The sort
// keeps fuzzy matching deterministic across runs.
func (idx *Index) Names() []string {
	names := make([]string, 0, len(idx.names))
	for name := range idx.names {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Len returns the number of indexed names.
func (idx *Index) Len() int {
	return len(idx.names)
}
