package pipeline

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aidirectory/lodestar/pkg/catalog"
	"github.com/aidirectory/lodestar/pkg/crossval"
	"github.com/aidirectory/lodestar/pkg/sources"
)

func newPipeline(t *testing.T) (*Pipeline, *catalog.Store) {
	t.Helper()
	store := catalog.NewStore(t.TempDir())
	p, err := New(store, crossval.DefaultRules())
	require.NoError(t, err)
	return p, store
}

func TestRunCreatesAndMergesWithinBatch(t *testing.T) {
	p, store := newPipeline(t)

	records := []sources.ScrapedRecord{
		{
			Name:       "Acme AI",
			Source:     "directory-a",
			ProductURL: "https://acme.example.com",
		},
		{
			// Different name, same product domain: must resolve to the
			// entity created by the previous record in this batch.
			Name:        "Acme Assistant",
			Source:      "directory-b",
			ProductURL:  "https://acme.example.com/assistant",
			Description: "An AI automation assistant for operations teams.",
		},
	}

	result, err := p.Run(records, 0)
	require.NoError(t, err)

	assert.Equal(t, 1, result.Created)
	assert.Equal(t, 1, result.Updated)
	assert.Equal(t, 0, result.Failed)
	require.Len(t, result.Outcomes, 2)
	assert.Equal(t, ActionCreated, result.Outcomes[0].Action)
	assert.Equal(t, ActionUpdated, result.Outcomes[1].Action)
	assert.Equal(t, "acme-ai", result.Outcomes[0].Slug)
	assert.Equal(t, "acme-ai", result.Outcomes[1].Slug)

	doc, err := store.Load("acme-ai")
	require.NoError(t, err)
	assert.Equal(t, "An AI automation assistant for operations teams.", doc.StringAt("description"))
	assert.Len(t, doc.SliceAt("sources"), 2)
}

func TestRunSkipsBadRecordsAndContinues(t *testing.T) {
	p, store := newPipeline(t)

	records := []sources.ScrapedRecord{
		{Source: "directory-a"},              // no name
		{Name: "智谱清言", Source: "directory"},  // slugifies to nothing
		{Name: "Good Tool", Source: "directory-a"},
	}

	result, err := p.Run(records, 0)
	require.NoError(t, err)

	assert.Equal(t, 2, result.Skipped)
	assert.Equal(t, 1, result.Created)
	assert.Equal(t, ActionSkipped, result.Outcomes[0].Action)
	assert.Equal(t, ActionSkipped, result.Outcomes[1].Action)
	assert.Error(t, result.Outcomes[1].Err)
	assert.True(t, store.Exists("good-tool"))
}

func TestRunNormalizesBeforeResolution(t *testing.T) {
	p, store := newPipeline(t)

	result, err := p.Run([]sources.ScrapedRecord{
		{Name: "Acme, Inc.", Source: "directory-a"},
		{Name: "  Acme  ", Source: "directory-b"},
	}, 0)
	require.NoError(t, err)

	assert.Equal(t, 1, result.Created)
	assert.Equal(t, 1, result.Updated)
	assert.True(t, store.Exists("acme"))
}

func TestRunSurfacesViolations(t *testing.T) {
	p, _ := newPipeline(t)

	result, err := p.Run([]sources.ScrapedRecord{
		{Name: "First Bot", Source: "a", NameZh: "文心一言"},
		{Name: "Second Bot", Source: "b", NameZh: "文心一言"},
	}, 0)
	require.NoError(t, err)

	require.NotEmpty(t, result.Violations)
	assert.Equal(t, "name_zh", result.Violations[0].Field)
	assert.Equal(t, "second-bot", result.Violations[0].TargetSlug)
	assert.Equal(t, "first-bot", result.Violations[0].ConflictingSlug)
}

func TestRunKeepsWikipediaFallbackEntitiesApart(t *testing.T) {
	p, store := newPipeline(t)

	// The first entity's company.url falls back to a Wikipedia page. A
	// later record whose website lives on the same shared host must still
	// create its own entity instead of merging into the first.
	result, err := p.Run([]sources.ScrapedRecord{
		{
			Name:                "Alpha Tool",
			Source:              "directory-a",
			CompanyWikipediaURL: "https://en.wikipedia.org/wiki/Alpha_Corp",
		},
		{
			Name:           "Beta Tool",
			Source:         "directory-b",
			CompanyWebsite: "https://en.wikipedia.org/wiki/Beta_Corp",
		},
	}, 0)
	require.NoError(t, err)

	assert.Equal(t, 2, result.Created)
	assert.Equal(t, 0, result.Updated)
	assert.True(t, store.Exists("alpha-tool"))
	assert.True(t, store.Exists("beta-tool"))

	alpha, err := store.Load("alpha-tool")
	require.NoError(t, err)
	assert.Empty(t, alpha.StringAt("company.website"))
}

func TestRunHonorsLimit(t *testing.T) {
	p, _ := newPipeline(t)

	result, err := p.Run([]sources.ScrapedRecord{
		{Name: "One", Source: "a"},
		{Name: "Two", Source: "a"},
		{Name: "Three", Source: "a"},
	}, 2)
	require.NoError(t, err)
	assert.Len(t, result.Outcomes, 2)
}
