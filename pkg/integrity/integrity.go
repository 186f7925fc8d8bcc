// Package integrity validates cross-entity references in the canonical
// store. Relation arrays hold slugs of other entities; a broken reference
// means the data is stale or a merge slipped in a name where a slug
// belongs. The checker reports, it never repairs.
package integrity

import (
	"fmt"

	"github.com/aidirectory/lodestar/pkg/catalog"
	"github.com/aidirectory/lodestar/pkg/logging"
)

// referenceFields are the document arrays whose items are entity slugs.
var referenceFields = []string{"competitors", "based_on", "used_by"}

// Error describes one broken cross-entity reference.
type Error struct {
	Slug           string
	Field          string
	ReferencedSlug string
}

func (e Error) String() string {
	return fmt.Sprintf("%s: %s references unknown entity %q", e.Slug, e.Field, e.ReferencedSlug)
}

// Checker validates reference arrays against the set of known slugs.
type Checker struct {
	store *catalog.Store
}

// NewChecker returns a checker over store.
func NewChecker(store *catalog.Store) *Checker {
	return &Checker{store: store}
}

// CheckAll walks the whole store and returns every broken reference.
// Unreadable files are skipped (the store walk logs them); the slugs of
// unreadable files still count as existing, since the file is there.
func (c *Checker) CheckAll() ([]Error, error) {
	slugs, err := c.store.Slugs()
	if err != nil {
		return nil, err
	}
	known := make(map[string]bool, len(slugs))
	for _, slug := range slugs {
		known[slug] = true
	}

	var errs []Error
	walkErr := c.store.Walk(func(slug string, doc catalog.Document) {
		errs = append(errs, CheckDocument(doc, known)...)
	})
	if walkErr != nil {
		return nil, walkErr
	}
	if len(errs) > 0 {
		logging.Warn().Int("broken_references", len(errs)).Msg("integrity check found problems")
	}
	return errs, nil
}

// CheckDocument validates one document's reference arrays against the
// known slug set. Non-string items are ignored; they are a schema concern,
// not a reference concern.
func CheckDocument(doc catalog.Document, known map[string]bool) []Error {
	slug := doc.Slug()
	if slug == "" {
		slug = "<unknown>"
	}
	var errs []Error
	for _, field := range referenceFields {
		for _, item := range doc.SliceAt(field) {
			ref, ok := item.(string)
			if !ok {
				continue
			}
			if !known[ref] {
				errs = append(errs, Error{Slug: slug, Field: field, ReferencedSlug: ref})
			}
		}
	}
	return errs
}
