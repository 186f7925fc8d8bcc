package crossval

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aidirectory/lodestar/pkg/catalog"
	"github.com/aidirectory/lodestar/pkg/sources"
)

func newValidator(t *testing.T, docs map[string]catalog.Document) *Validator {
	t.Helper()
	store := catalog.NewStore(t.TempDir())
	for slug, doc := range docs {
		require.NoError(t, store.Save(slug, doc))
	}
	v, err := New(store, DefaultRules())
	require.NoError(t, err)
	return v
}

func TestNameZhCollision(t *testing.T) {
	v := newValidator(t, map[string]catalog.Document{
		"wenxin": {"slug": "wenxin", "name": "ERNIE Bot", "name_zh": "文心一言"},
	})

	// The same localized name on a different entity is contamination.
	assert.False(t, v.ValidateField("other-product", "name_zh", "文心一言"))

	// On its own entity it is fine.
	assert.True(t, v.ValidateField("wenxin", "name_zh", "文心一言"))

	violations := v.Violations()
	require.Len(t, violations, 1)
	assert.Equal(t, SeverityError, violations[0].Severity)
	assert.Equal(t, "wenxin", violations[0].ConflictingSlug)
	assert.True(t, violations[0].Blocking())
}

func TestBilingualCollisionIsSymmetric(t *testing.T) {
	v := newValidator(t, map[string]catalog.Document{
		"tongyi": {"slug": "tongyi", "name": "Tongyi Qianwen", "name_zh": "通义千问"},
	})

	// name_zh arriving as another entity's English name.
	assert.False(t, v.ValidateField("other", "name_zh", "Tongyi Qianwen"))

	// English name arriving as another entity's name_zh.
	assert.False(t, v.ValidateField("other", "name", "通义千问"))
}

func TestDescriptionContamination(t *testing.T) {
	desc := "An AI assistant that answers questions and writes code for developers."
	v := newValidator(t, map[string]catalog.Document{
		"chatgpt": {"slug": "chatgpt", "name": "ChatGPT", "description": desc},
	})

	// Identical long description on a different entity is blocked.
	assert.False(t, v.ValidateField("copycat", "description", desc))

	// Short strings are never indexed or checked.
	assert.True(t, v.ValidateField("copycat", "description", "An AI tool."))

	// A genuinely different description passes.
	assert.True(t, v.ValidateField("copycat", "description",
		"A text-to-image diffusion model for generating concept art from prompts."))
}

func TestProductURLChecks(t *testing.T) {
	v := newValidator(t, map[string]catalog.Document{
		"chatgpt": {"slug": "chatgpt", "name": "ChatGPT", "product_url": "https://chat.openai.com"},
	})

	// Aggregator domains can never be a product URL.
	assert.False(t, v.ValidateField("other", "product_url", "https://theresanaiforthat.com/ai/foo"))
	assert.False(t, v.ValidateField("other", "product_url", "https://www.producthunt.com/posts/foo"))

	// An exact URL owned by another entity is blocked.
	assert.False(t, v.ValidateField("other", "product_url", "https://chat.openai.com"))
	assert.True(t, v.ValidateField("chatgpt", "product_url", "https://chat.openai.com"))

	// A fresh URL passes.
	assert.True(t, v.ValidateField("other", "product_url", "https://other.example.com"))
}

func TestUnruledPathsAlwaysPass(t *testing.T) {
	v := newValidator(t, nil)
	assert.True(t, v.ValidateField("any", "company.founded_year", 2015))
	assert.True(t, v.ValidateField("any", "tags", []any{"chat"}))
	assert.True(t, v.ValidateField("any", "description", ""))
}

func TestRecordWriteClosesBatchWindow(t *testing.T) {
	v := newValidator(t, nil)

	// First record in the batch claims the name.
	require.True(t, v.ValidateField("first", "name_zh", "文心一言"))
	v.RecordWrite("first", "name_zh", "文心一言")

	// Second record in the same batch collides.
	assert.False(t, v.ValidateField("second", "name_zh", "文心一言"))
}

func TestCompanyConsistencyWarns(t *testing.T) {
	v := newValidator(t, map[string]catalog.Document{
		"chatgpt": {
			"slug": "chatgpt",
			"name": "ChatGPT",
			"company": map[string]any{
				"name":         "OpenAI",
				"founded_year": 2015,
				"headquarters": map[string]any{"country": "United States"},
			},
		},
	})

	warnings := v.ValidateCompanyConsistency("other", &sources.ScrapedRecord{
		Name:               "Other",
		Source:             "test",
		CompanyName:        "OpenAI",
		CompanyFoundedYear: 2020,
		CompanyHQCountry:   "France",
	})
	require.Len(t, warnings, 2)
	for _, w := range warnings {
		assert.Equal(t, SeverityWarning, w.Severity)
		assert.False(t, w.Blocking())
		assert.Equal(t, "chatgpt", w.ConflictingSlug)
	}

	// Matching facts produce no warnings.
	assert.Empty(t, v.ValidateCompanyConsistency("other", &sources.ScrapedRecord{
		Name:               "Other",
		Source:             "test",
		CompanyName:        "OpenAI",
		CompanyFoundedYear: 2015,
		CompanyHQCountry:   "United States",
	}))

	// The first-seen entity itself is exempt.
	assert.Empty(t, v.ValidateCompanyConsistency("chatgpt", &sources.ScrapedRecord{
		Name:               "ChatGPT",
		Source:             "test",
		CompanyName:        "OpenAI",
		CompanyFoundedYear: 2020,
	}))
}

func TestViolationValueTruncated(t *testing.T) {
	long := strings.Repeat("x", 50) + strings.Repeat("y", 100)
	v := newValidator(t, map[string]catalog.Document{
		"taken": {"slug": "taken", "name": "Taken", "description": long},
	})

	require.False(t, v.ValidateField("other", "description", long))
	violations := v.Violations()
	require.Len(t, violations, 1)
	assert.Len(t, violations[0].RejectedValue, 100)
}

func TestViolationValueTruncatedOnRuneBoundary(t *testing.T) {
	// Multi-byte text must be cut by characters, not bytes, or the log
	// ends with a torn rune.
	long := strings.Repeat("智能助手描述内容重复", 12)
	v := newValidator(t, map[string]catalog.Document{
		"taken": {"slug": "taken", "name": "Taken", "description": long},
	})

	require.False(t, v.ValidateField("other", "description", long))
	violations := v.Violations()
	require.Len(t, violations, 1)
	assert.True(t, utf8.ValidString(violations[0].RejectedValue))
	assert.Equal(t, 100, utf8.RuneCountInString(violations[0].RejectedValue))
}

func TestLoadRulesExtendsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rules.yaml")
	require.NoError(t, os.WriteFile(path, []byte("aggregator_domains:\n  - custom-directory.example\n"), 0o644))

	rules, err := LoadRules(path)
	require.NoError(t, err)
	set := rules.domainSet()
	_, hasCustom := set["custom-directory.example"]
	_, hasDefault := set["toolify.ai"]
	assert.True(t, hasCustom)
	assert.True(t, hasDefault)
}
