package catalog

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/aidirectory/lodestar/pkg/errors"
)

// validSlug must match the product schema's slug pattern. It admits only
// lowercase alphanumerics and interior hyphens, which also rules out any
// path separator or traversal sequence before a file path is built.
var validSlug = regexp.MustCompile(`^[a-z0-9]([a-z0-9-]*[a-z0-9])?$`)

// slugStrip removes diacritics during slugification: NFKD decomposition
// followed by dropping combining marks.
var slugStrip = transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

var nonSlugRunes = regexp.MustCompile(`[^a-z0-9]+`)

// Slugify derives a filesystem-safe identifier from an entity name.
// Diacritics fold to their base letters; runs of any other non-alphanumeric
// characters collapse to single hyphens. Names that contain no ASCII
// alphanumerics at all (e.g. purely CJK names) produce an empty slug, which
// ValidateSlug will reject — such records need an explicit slug upstream.
func Slugify(name string) string {
	folded, _, err := transform.String(slugStrip, name)
	if err != nil {
		folded = name
	}
	s := strings.ToLower(strings.TrimSpace(folded))
	s = nonSlugRunes.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}

// ValidateSlug rejects identifiers that are malformed or could escape the
// store directory. It returns the slug unchanged when valid.
func ValidateSlug(slug string) (string, error) {
	if slug == "" {
		return "", errors.NewSlugError(slug, "empty")
	}
	if !validSlug.MatchString(slug) {
		return "", errors.NewSlugError(slug, "must match [a-z0-9][a-z0-9-]*[a-z0-9]")
	}
	return slug, nil
}
