package store

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"newsharvest/internal/harvester"
)

func testSource(t *testing.T) harvester.Source {
	t.Helper()
	loc, err := time.LoadLocation("Europe/Prague")
	require.NoError(t, err)
	return harvester.Source{
		Name:              "echo24.cz",
		Slug:              "echo24",
		Homepage:          "https://echo24.cz/",
		Domain:            "echo24.cz",
		ArticlePathMarker: "/a/",
		DefaultAuthor:     "Redakce Echo24",
		Location:          loc,
	}
}

func testArticle(url string) harvester.Article {
	return harvester.Article{
		Title:   "Vláda schválila rozpočet",
		URL:     url,
		Date:    "2024-05-12T08:30:00+02:00",
		Author:  "Jan Novák",
		Source:  "echo24.cz",
		Snippet: "Krátký souhrn…",
		Body:    "První odstavec.\n\nDruhý odstavec.",
		Tags:    []string{"Domácí", "Politika"},
	}
}

func TestFileStorePathLayout(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	s, err := NewFileStore(root, testSource(t))
	require.NoError(t, err)

	article := testArticle("https://echo24.cz/a/abc/vlada")
	path, err := s.Path(article)
	require.NoError(t, err)

	fingerprint := harvester.Fingerprint(article.URL)
	want := filepath.Join(root, "echo24", "2024", "05", "echo24-20240512-"+fingerprint+".json")
	assert.Equal(t, want, path)
}

func TestFileStoreSaveWritesReadableRecord(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	s, err := NewFileStore(root, testSource(t))
	require.NoError(t, err)

	article := testArticle("https://echo24.cz/a/abc/vlada")
	path, err := s.Save(context.Background(), article)
	require.NoError(t, err)

	raw, err := os.ReadFile(path)
	require.NoError(t, err)

	// Unicode fidelity: accented text is stored verbatim, not escaped.
	assert.Contains(t, string(raw), "Vláda schválila rozpočet")
	assert.Contains(t, string(raw), "Jan Novák")

	var decoded harvester.Article
	require.NoError(t, json.Unmarshal(raw, &decoded))
	assert.Equal(t, article, decoded)

	// Stable key order on disk.
	text := string(raw)
	keys := []string{`"title"`, `"url"`, `"date"`, `"author"`, `"source"`, `"content_snippet"`, `"full_content"`, `"tags"`}
	last := -1
	for _, key := range keys {
		idx := strings.Index(text, key)
		require.Greater(t, idx, last, "key %s out of order", key)
		last = idx
	}
}

func TestFileStoreSaveOverwritesSamePath(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	s, err := NewFileStore(root, testSource(t))
	require.NoError(t, err)

	article := testArticle("https://echo24.cz/a/abc/vlada")
	first, err := s.Save(context.Background(), article)
	require.NoError(t, err)

	article.Body = "Aktualizovaný obsah."
	second, err := s.Save(context.Background(), article)
	require.NoError(t, err)
	assert.Equal(t, first, second)

	raw, err := os.ReadFile(second)
	require.NoError(t, err)
	assert.Contains(t, string(raw), "Aktualizovaný obsah.")
}

func TestFileStoreSaveLeavesNoTempFiles(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	s, err := NewFileStore(root, testSource(t))
	require.NoError(t, err)

	path, err := s.Save(context.Background(), testArticle("https://echo24.cz/a/abc/vlada"))
	require.NoError(t, err)

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, filepath.Base(path), entries[0].Name())
}

func TestFileStoreSaveRejectsBadDate(t *testing.T) {
	t.Parallel()

	s, err := NewFileStore(t.TempDir(), testSource(t))
	require.NoError(t, err)

	article := testArticle("https://echo24.cz/a/abc/vlada")
	article.Date = "yesterday"
	_, err = s.Save(context.Background(), article)
	require.Error(t, err)
}

func TestFileStoreSaveHonorsCanceledContext(t *testing.T) {
	t.Parallel()

	s, err := NewFileStore(t.TempDir(), testSource(t))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = s.Save(ctx, testArticle("https://echo24.cz/a/abc/vlada"))
	require.Error(t, err)
}
