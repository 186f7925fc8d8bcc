// Package quality computes weighted completeness scores for canonical
// documents. The score rewards filled high-value fields (identity, URL,
// description) over long-tail metadata, giving curators a single number to
// rank enrichment work by.
package quality

import (
	"math"
	"sort"

	"github.com/agentstation/utc"

	"github.com/aidirectory/lodestar/pkg/catalog"
)

// fieldWeights ranks document fields by editorial importance. The score is
// the earned fraction of the total weight.
var fieldWeights = map[string]float64{
	// Core identity.
	"name":         3.0,
	"product_url":  3.0,
	"description":  3.0,
	"product_type": 2.0,
	"category":     2.0,
	"sub_category": 1.5,
	"icon_url":     1.0,

	// Company.
	"company.name":         2.0,
	"company.url":          2.0,
	"company.website":      1.5,
	"company.founded_year": 1.0,
	"company.headquarters": 1.0,
	"company.description":  0.5,
	"company.funding":      0.5,

	// Tech.
	"architecture":  1.0,
	"modalities":    1.0,
	"platforms":     1.0,
	"api_available": 0.5,

	// Openness.
	"open_source":    0.5,
	"repository_url": 0.5,

	// Pricing.
	"pricing": 1.0,

	// Discovery.
	"tags":     1.0,
	"keywords": 1.0,

	// People and audit trail.
	"key_people": 0.5,
	"sources":    1.0,

	// Lifecycle and localization.
	"status":         1.0,
	"description_zh": 0.5,
}

// totalWeight is fixed by the weights table.
var totalWeight = func() float64 {
	var sum float64
	for _, w := range fieldWeights {
		sum += w
	}
	return sum
}()

// Score returns the document's completeness in [0, 1], rounded to two
// decimal places. Empty strings, arrays, and objects count as missing.
func Score(doc catalog.Document) float64 {
	var earned float64
	for path, weight := range fieldWeights {
		if doc.Has(path) {
			earned += weight
		}
	}
	return math.Round(earned/totalWeight*100) / 100
}

// MissingFields returns the weighted fields the document does not fill,
// heaviest first (ties broken by path), for enrichment planning.
func MissingFields(doc catalog.Document) []string {
	missing := make([]string, 0, len(fieldWeights))
	for path := range fieldWeights {
		if !doc.Has(path) {
			missing = append(missing, path)
		}
	}
	sort.Slice(missing, func(i, j int) bool {
		wi, wj := fieldWeights[missing[i]], fieldWeights[missing[j]]
		if wi != wj {
			return wi > wj
		}
		return missing[i] < missing[j]
	})
	return missing
}

// Rescore computes the document's score and stores it under
// meta.data_quality_score along with a refreshed last-updated date.
// It reports the new score.
func Rescore(doc catalog.Document) float64 {
	score := Score(doc)
	doc.Set(catalog.PathQualityScore, score)
	doc.Set(catalog.PathLastUpdated, utc.Now().Format("2006-01-02"))
	return score
}
