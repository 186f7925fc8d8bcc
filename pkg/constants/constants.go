// Package constants provides shared constants used throughout the lodestar codebase.
// This includes similarity thresholds, file permissions, and limits that should be
// consistent across the reconciliation pipeline.
package constants

// File permission constants define standard Unix file permissions
const (
	// DirPermissions is the default permission for created directories (rwxr-xr-x)
	DirPermissions = 0755

	// FilePermissions is the default permission for created files (rw-r--r--)
	FilePermissions = 0644
)

// Similarity thresholds for approximate string matching
const (
	// NameSimilarityThreshold is the minimum Levenshtein ratio for two
	// product names to be considered the same entity during deduplication.
	NameSimilarityThreshold = 0.85

	// DescriptionSimilarityThreshold is the minimum Levenshtein ratio at
	// which two descriptions are treated as contaminated duplicates.
	DescriptionSimilarityThreshold = 0.90

	// MinIndexedDescriptionLength is the minimum description length (in
	// bytes) indexed for duplicate detection. Shorter fragments produce
	// too many false positives.
	MinIndexedDescriptionLength = 20
)

// Limit constants
const (
	// ViolationValueLimit is the maximum number of bytes of a rejected
	// value kept on a violation record.
	ViolationValueLimit = 100

	// DefaultBatchLimit is the default cap on records processed per batch
	// when the caller does not supply one.
	DefaultBatchLimit = 100
)
