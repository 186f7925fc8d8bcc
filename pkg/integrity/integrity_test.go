package integrity

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aidirectory/lodestar/pkg/catalog"
)

func TestCheckAllFindsBrokenReferences(t *testing.T) {
	dir := t.TempDir()
	store := catalog.NewStore(dir)

	require.NoError(t, store.Save("chatgpt", catalog.Document{
		"slug":        "chatgpt",
		"name":        "ChatGPT",
		"competitors": []any{"claude", "ghost-product"},
		"based_on":    []any{"gpt-4"},
	}))
	require.NoError(t, store.Save("claude", catalog.Document{"slug": "claude", "name": "Claude"}))
	require.NoError(t, store.Save("gpt-4", catalog.Document{"slug": "gpt-4", "name": "GPT-4"}))

	errs, err := NewChecker(store).CheckAll()
	require.NoError(t, err)
	require.Len(t, errs, 1)
	assert.Equal(t, "chatgpt", errs[0].Slug)
	assert.Equal(t, "competitors", errs[0].Field)
	assert.Equal(t, "ghost-product", errs[0].ReferencedSlug)
	assert.Contains(t, errs[0].String(), "ghost-product")
}

func TestCheckAllSkipsUnparseableFiles(t *testing.T) {
	dir := t.TempDir()
	store := catalog.NewStore(dir)

	require.NoError(t, store.Save("good", catalog.Document{
		"slug":        "good",
		"name":        "Good",
		"competitors": []any{"broken"},
	}))
	// The broken file still exists, so references to it are not errors.
	require.NoError(t, os.WriteFile(filepath.Join(dir, "broken.json"), []byte("{nope"), 0o644))

	errs, err := NewChecker(store).CheckAll()
	require.NoError(t, err)
	assert.Empty(t, errs)
}

func TestCheckDocumentIgnoresNonStringItems(t *testing.T) {
	doc := catalog.Document{
		"slug":        "x",
		"competitors": []any{42, "known"},
	}
	errs := CheckDocument(doc, map[string]bool{"known": true})
	assert.Empty(t, errs)
}
