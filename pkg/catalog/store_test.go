package catalog

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aidirectory/lodestar/pkg/errors"
)

func TestStoreSaveLoad(t *testing.T) {
	store := NewStore(t.TempDir())

	doc := Document{
		"slug": "chatgpt",
		"name": "ChatGPT",
		"company": map[string]any{
			"name": "OpenAI",
		},
	}
	require.NoError(t, store.Save("chatgpt", doc))
	assert.True(t, store.Exists("chatgpt"))

	loaded, err := store.Load("chatgpt")
	require.NoError(t, err)
	assert.Equal(t, "ChatGPT", loaded.Name())
	assert.Equal(t, "OpenAI", loaded.StringAt("company.name"))
}

func TestStoreLoadNotFound(t *testing.T) {
	store := NewStore(t.TempDir())

	_, err := store.Load("ghost")
	require.Error(t, err)
	assert.True(t, errors.IsNotFound(err))
}

func TestStoreRejectsBadSlugs(t *testing.T) {
	store := NewStore(t.TempDir())

	for _, slug := range []string{"", "../escape", "UPPER", "a/b"} {
		err := store.Save(slug, Document{"name": "x"})
		require.Error(t, err, "slug %q", slug)
		assert.True(t, errors.IsInvalidSlug(err), "slug %q", slug)
		assert.False(t, store.Exists(slug), "slug %q", slug)
	}
}

func TestStoreSaveLeavesNoTempFiles(t *testing.T) {
	dir := t.TempDir()
	store := NewStore(dir)

	require.NoError(t, store.Save("chatgpt", Document{"name": "ChatGPT"}))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	for _, entry := range entries {
		assert.False(t, strings.HasSuffix(entry.Name(), ".tmp"), "leftover %s", entry.Name())
	}
}

func TestStoreSavePrettyPrints(t *testing.T) {
	dir := t.TempDir()
	store := NewStore(dir)

	require.NoError(t, store.Save("chatgpt", Document{
		"name":        "ChatGPT",
		"product_url": "https://chat.openai.com/?a=1&b=2",
	}))

	data, err := os.ReadFile(filepath.Join(dir, "chatgpt.json"))
	require.NoError(t, err)

	text := string(data)
	assert.Contains(t, text, "\n  \"name\"")
	assert.Contains(t, text, "&") // HTML escaping disabled
	assert.NotContains(t, text, `&`)
	assert.True(t, strings.HasSuffix(text, "\n"))
}

func TestStoreSlugsAndWalk(t *testing.T) {
	dir := t.TempDir()
	store := NewStore(dir)

	require.NoError(t, store.Save("beta", Document{"slug": "beta", "name": "Beta"}))
	require.NoError(t, store.Save("alpha", Document{"slug": "alpha", "name": "Alpha"}))

	// A corrupt file must be skipped, not fatal.
	require.NoError(t, os.WriteFile(filepath.Join(dir, "broken.json"), []byte("{nope"), 0o644))

	slugs, err := store.Slugs()
	require.NoError(t, err)
	assert.Equal(t, []string{"alpha", "beta", "broken"}, slugs)

	var walked []string
	require.NoError(t, store.Walk(func(slug string, doc Document) {
		walked = append(walked, slug)
	}))
	assert.Equal(t, []string{"alpha", "beta"}, walked)
}

func TestStoreMissingDirIsEmpty(t *testing.T) {
	store := NewStore(filepath.Join(t.TempDir(), "nope"))

	slugs, err := store.Slugs()
	require.NoError(t, err)
	assert.Empty(t, slugs)

	require.NoError(t, store.Walk(func(string, Document) {
		t.Fatal("unexpected document")
	}))
}
