// Package crossval guards the merge path against cross-entity data
// contamination: bilingual name collisions, duplicated boilerplate
// descriptions, misattributed URLs, and inconsistent company facts. The
// validator holds its own indices, seeded from the canonical store, and
// must be told about every accepted write so that colliding records
// arriving within one batch are still caught.
package crossval

// Severity classifies a violation's effect on the write path.
type Severity string

const (
	// SeverityError blocks the single field write that triggered it.
	SeverityError Severity = "error"

	// SeverityWarning is recorded for audit but never blocks a write.
	SeverityWarning Severity = "warning"
)

// Violation is an immutable record of one rejected or suspicious field
// write. Violations accumulate in the validator's session log and are
// surfaced with batch results; they are never silently dropped.
type Violation struct {
	TargetSlug      string   `json:"target_slug"`
	Field           string   `json:"field"`
	RejectedValue   string   `json:"rejected_value"`
	ConflictingSlug string   `json:"conflicting_slug,omitempty"`
	Reason          string   `json:"reason"`
	Severity        Severity `json:"severity"`
}

// Blocking reports whether this violation blocks the write.
func (v Violation) Blocking() bool {
	return v.Severity == SeverityError
}
