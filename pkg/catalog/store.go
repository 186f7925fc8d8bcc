package catalog

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/aidirectory/lodestar/pkg/constants"
	"github.com/aidirectory/lodestar/pkg/errors"
	"github.com/aidirectory/lodestar/pkg/logging"
)

// Store is the canonical on-disk entity store: one JSON file per entity,
// named after its slug. A Store is owned exclusively by one batch at a
// time; callers must serialize concurrent batches themselves.
type Store struct {
	dir string
}

// NewStore creates a store rooted at dir. The directory is created on the
// first write, not here, so read-only passes work against a missing store.
func NewStore(dir string) *Store {
	return &Store{dir: dir}
}

// Dir returns the store's root directory.
func (s *Store) Dir() string {
	return s.dir
}

// Path returns the file path for a slug after validating it.
func (s *Store) Path(slug string) (string, error) {
	slug, err := ValidateSlug(slug)
	if err != nil {
		return "", err
	}
	return filepath.Join(s.dir, slug+".json"), nil
}

// Exists reports whether a canonical file exists for the slug. Invalid
// slugs report false rather than erroring; they cannot name a file here.
func (s *Store) Exists(slug string) bool {
	path, err := s.Path(slug)
	if err != nil {
		return false
	}
	_, err = os.Stat(path)
	return err == nil
}

// Load reads and parses one canonical document.
func (s *Store) Load(slug string) (Document, error) {
	path, err := s.Path(slug)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path) //nolint:gosec // path is slug-validated
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.NewNotFoundError("entity", slug)
		}
		return nil, errors.NewStoreReadError(path, err)
	}

	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, errors.NewStoreReadError(path, err)
	}
	return doc, nil
}

// Save persists one canonical document atomically: the JSON is written to
// a temp file in the store directory and renamed over the target, so a
// crash never leaves a truncated entity behind. Failures are PersistErrors
// carrying the slug — the one batch-fatal condition in the pipeline.
func (s *Store) Save(slug string, doc Document) error {
	path, err := s.Path(slug)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(s.dir, constants.DirPermissions); err != nil {
		return errors.NewPersistError(slug, s.dir, err)
	}

	data, err := marshalDocument(doc)
	if err != nil {
		return errors.NewPersistError(slug, path, err)
	}

	tmp, err := os.CreateTemp(s.dir, slug+".*.tmp")
	if err != nil {
		return errors.NewPersistError(slug, path, err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return errors.NewPersistError(slug, path, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return errors.NewPersistError(slug, path, err)
	}
	if err := os.Chmod(tmpName, constants.FilePermissions); err != nil {
		os.Remove(tmpName)
		return errors.NewPersistError(slug, path, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return errors.NewPersistError(slug, path, err)
	}
	return nil
}

// Slugs returns the sorted slugs of every canonical file in the store.
// A missing store directory yields an empty list.
func (s *Store) Slugs() ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, errors.WrapIO("read", s.dir, err)
	}

	var slugs []string
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, ".json") {
			continue
		}
		slugs = append(slugs, strings.TrimSuffix(name, ".json"))
	}
	sort.Strings(slugs)
	return slugs, nil
}

// Walk calls fn for every parseable document in the store, in slug order.
// Corrupt or unparseable files are logged and skipped: a broken file must
// never block resolution of unrelated entities.
func (s *Store) Walk(fn func(slug string, doc Document)) error {
	slugs, err := s.Slugs()
	if err != nil {
		return err
	}
	for _, slug := range slugs {
		doc, err := s.Load(slug)
		if err != nil {
			logging.Warn().
				Str("slug", slug).
				Err(err).
				Msg("Skipping unreadable canonical file")
			continue
		}
		fn(slug, doc)
	}
	return nil
}

// marshalDocument renders the canonical pretty-printed form: two-space
// indent, unescaped HTML for readable URLs, trailing newline.
func marshalDocument(doc Document) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
