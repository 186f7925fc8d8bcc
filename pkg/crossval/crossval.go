package crossval

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/aidirectory/lodestar/internal/matcher"
	"github.com/aidirectory/lodestar/pkg/catalog"
	"github.com/aidirectory/lodestar/pkg/constants"
	"github.com/aidirectory/lodestar/pkg/logging"
	"github.com/aidirectory/lodestar/pkg/sources"
)

// companyRef holds the first-seen facts for a company name. Multiple
// products legitimately share one parent company, so these facts are a
// soft reference: mismatches warn, never block.
type companyRef struct {
	Slug        string
	HQCountry   string
	FoundedYear int
}

// Validator checks candidate field values against every other entity in
// the store before the merger commits them. It keeps indices separate
// from the deduplicator's because the two answer different questions:
// "which entity is this record about?" versus "does this value already
// belong to someone else?".
type Validator struct {
	aggregators map[string]struct{}

	nameToSlug   map[string]string // lowercased name -> slug
	nameZhToSlug map[string]string // localized name -> slug
	urlToSlug    map[string]string // exact product URL -> slug
	descBySlug   map[string]string // slug -> English description
	descZhBySlug map[string]string // slug -> Chinese description
	companyFacts map[string]companyRef

	violations []Violation
}

// New seeds a Validator from the canonical store. Only descriptions of at
// least MinIndexedDescriptionLength bytes are indexed, to avoid false
// positives on fragments. Unparseable files are skipped.
func New(store *catalog.Store, rules Rules) (*Validator, error) {
	v := &Validator{
		aggregators:  rules.domainSet(),
		nameToSlug:   make(map[string]string),
		nameZhToSlug: make(map[string]string),
		urlToSlug:    make(map[string]string),
		descBySlug:   make(map[string]string),
		descZhBySlug: make(map[string]string),
		companyFacts: make(map[string]companyRef),
	}
	err := store.Walk(func(slug string, doc catalog.Document) {
		v.seed(slug, doc)
	})
	if err != nil {
		return nil, err
	}
	return v, nil
}

// seed indexes one canonical document.
func (v *Validator) seed(slug string, doc catalog.Document) {
	if name := doc.Name(); name != "" {
		v.nameToSlug[strings.ToLower(name)] = slug
	}
	if nameZh := doc.StringAt(catalog.PathNameZh); nameZh != "" {
		v.nameZhToSlug[nameZh] = slug
	}
	if url := doc.StringAt(catalog.PathProductURL); url != "" {
		v.urlToSlug[url] = slug
	}
	if desc := doc.StringAt(catalog.PathDescription); len(desc) >= constants.MinIndexedDescriptionLength {
		v.descBySlug[slug] = desc
	}
	if descZh := doc.StringAt(catalog.PathDescriptionZh); len(descZh) >= constants.MinIndexedDescriptionLength {
		v.descZhBySlug[slug] = descZh
	}

	companyName := strings.TrimSpace(doc.StringAt(catalog.PathCompanyName))
	if companyName == "" {
		return
	}
	if _, seen := v.companyFacts[companyName]; seen {
		return
	}
	ref := companyRef{
		Slug:      slug,
		HQCountry: doc.StringAt("company.headquarters.country"),
	}
	if year, ok := doc.Get("company.founded_year").(float64); ok {
		ref.FoundedYear = int(year)
	}
	v.companyFacts[companyName] = ref
}

// ValidateField reports whether value is safe to write to fieldPath on the
// target entity. A false return means an error-severity violation was
// recorded and the field must be skipped. Warn-only findings return true.
// Paths without contamination rules are always safe.
func (v *Validator) ValidateField(targetSlug, fieldPath string, value any) bool {
	str, ok := value.(string)
	if !ok || strings.TrimSpace(str) == "" {
		return true
	}

	switch fieldPath {
	case catalog.PathNameZh:
		return v.checkNameZh(targetSlug, str)
	case catalog.PathName:
		return v.checkNameReverse(targetSlug, str)
	case catalog.PathDescription:
		return v.checkDescription(targetSlug, str, v.descBySlug, catalog.PathDescription)
	case catalog.PathDescriptionZh:
		return v.checkDescription(targetSlug, str, v.descZhBySlug, catalog.PathDescriptionZh)
	case catalog.PathProductURL:
		return v.checkProductURL(targetSlug, str)
	default:
		return true
	}
}

// ValidateCompanyConsistency compares the record's company facts against
// the first-seen facts for the same company name. Mismatches produce
// warnings only; sibling products sharing a company are expected.
func (v *Validator) ValidateCompanyConsistency(targetSlug string, record *sources.ScrapedRecord) []Violation {
	companyName := strings.TrimSpace(record.CompanyName)
	ref, seen := v.companyFacts[companyName]
	if companyName == "" || !seen || ref.Slug == targetSlug {
		return nil
	}

	var warnings []Violation

	if ref.HQCountry != "" && record.CompanyHQCountry != "" && ref.HQCountry != record.CompanyHQCountry {
		warnings = append(warnings, v.record(targetSlug, "company.headquarters.country",
			record.CompanyHQCountry, ref.Slug, SeverityWarning,
			fmt.Sprintf("company %q HQ country mismatch: %q vs %q in %q",
				companyName, record.CompanyHQCountry, ref.HQCountry, ref.Slug)))
	}

	if ref.FoundedYear != 0 && record.CompanyFoundedYear != 0 && ref.FoundedYear != record.CompanyFoundedYear {
		warnings = append(warnings, v.record(targetSlug, "company.founded_year",
			fmt.Sprintf("%d", record.CompanyFoundedYear), ref.Slug, SeverityWarning,
			fmt.Sprintf("company %q founded_year mismatch: %d vs %d in %q",
				companyName, record.CompanyFoundedYear, ref.FoundedYear, ref.Slug)))
	}

	return warnings
}

// RecordWrite updates the validator's indices after an accepted write so
// a second colliding record in the same batch is still caught. Skipping
// this step silently reopens the contamination window; it is part of the
// write contract, not an optimization.
func (v *Validator) RecordWrite(slug, fieldPath string, value any) {
	str, ok := value.(string)
	if !ok || str == "" {
		return
	}
	switch fieldPath {
	case catalog.PathName:
		v.nameToSlug[strings.ToLower(str)] = slug
	case catalog.PathNameZh:
		v.nameZhToSlug[str] = slug
	case catalog.PathProductURL:
		v.urlToSlug[str] = slug
	case catalog.PathDescription:
		if len(str) >= constants.MinIndexedDescriptionLength {
			v.descBySlug[slug] = str
		}
	case catalog.PathDescriptionZh:
		if len(str) >= constants.MinIndexedDescriptionLength {
			v.descZhBySlug[slug] = str
		}
	}
}

// Violations returns a copy of the session's accumulated violation log.
func (v *Validator) Violations() []Violation {
	out := make([]Violation, len(v.violations))
	copy(out, v.violations)
	return out
}

// checkNameZh rejects a localized name that already belongs to another
// entity, either as its name_zh or as its English name (the bilingual
// alias attaching to the wrong product).
func (v *Validator) checkNameZh(targetSlug, value string) bool {
	if owner, ok := v.nameZhToSlug[value]; ok && owner != targetSlug {
		v.record(targetSlug, catalog.PathNameZh, value, owner, SeverityError,
			fmt.Sprintf("name_zh %q already belongs to entity %q", value, owner))
		return false
	}
	if owner, ok := v.nameToSlug[strings.ToLower(value)]; ok && owner != targetSlug {
		v.record(targetSlug, catalog.PathNameZh, value, owner, SeverityError,
			fmt.Sprintf("name_zh %q matches English name of %q", value, owner))
		return false
	}
	return true
}

// checkNameReverse is the symmetric check: an incoming English name that
// matches another entity's name_zh.
func (v *Validator) checkNameReverse(targetSlug, value string) bool {
	if owner, ok := v.nameZhToSlug[value]; ok && owner != targetSlug {
		v.record(targetSlug, catalog.PathName, value, owner, SeverityError,
			fmt.Sprintf("name %q matches name_zh of %q", value, owner))
		return false
	}
	return true
}

// checkDescription rejects a description near-identical to another
// entity's in the same language — templated scraping bleed-through.
func (v *Validator) checkDescription(targetSlug, value string, index map[string]string, fieldPath string) bool {
	if len(strings.TrimSpace(value)) < constants.MinIndexedDescriptionLength {
		return true
	}
	for otherSlug, otherDesc := range index {
		if otherSlug == targetSlug {
			continue
		}
		if matcher.Ratio(value, otherDesc) >= constants.DescriptionSimilarityThreshold {
			v.record(targetSlug, fieldPath, value, otherSlug, SeverityError,
				fmt.Sprintf("%s is near-identical to entity %q", fieldPath, otherSlug))
			return false
		}
	}
	return true
}

// checkProductURL rejects aggregator-site URLs and URLs already owned by
// a different entity.
func (v *Validator) checkProductURL(targetSlug, value string) bool {
	domain := catalog.ExtractDomain(value)
	if _, blocked := v.aggregators[domain]; blocked {
		v.record(targetSlug, catalog.PathProductURL, value, "", SeverityError,
			fmt.Sprintf("product_url points to aggregator site %q", domain))
		return false
	}
	if owner, ok := v.urlToSlug[value]; ok && owner != targetSlug {
		v.record(targetSlug, catalog.PathProductURL, value, owner, SeverityError,
			fmt.Sprintf("product_url already belongs to entity %q", owner))
		return false
	}
	return true
}

// record appends a violation to the session log and logs it.
func (v *Validator) record(targetSlug, field, value, conflictingSlug string, severity Severity, reason string) Violation {
	value = truncateRunes(value, constants.ViolationValueLimit)
	violation := Violation{
		TargetSlug:      targetSlug,
		Field:           field,
		RejectedValue:   value,
		ConflictingSlug: conflictingSlug,
		Reason:          reason,
		Severity:        severity,
	}
	v.violations = append(v.violations, violation)

	event := logging.Info()
	if severity == SeverityError {
		event = logging.Warn()
	}
	event.
		Str("slug", targetSlug).
		Str("field", field).
		Str("conflicting_slug", conflictingSlug).
		Str("severity", string(severity)).
		Msg(reason)
	return violation
}

// truncateRunes caps a string at limit characters, never splitting a
// multi-byte rune. The values logged here are often Chinese names and
// descriptions, so a byte slice could leave invalid UTF-8 in the log.
func truncateRunes(s string, limit int) string {
	if utf8.RuneCountInString(s) <= limit {
		return s
	}
	runes := []rune(s)
	return string(runes[:limit])
}
