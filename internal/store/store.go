// Package store persists articles as individually addressable JSON
// records and maintains the fingerprint index used for deduplication.
package store

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"newsharvest/internal/harvester"
)

// FileStore writes one JSON record per article under a fixed directory
// layout: <root>/<slug>/<year>/<month>/<slug>-<YYYYMMDD>-<fp8>.json.
type FileStore struct {
	root string
	slug string
}

// NewFileStore returns a store rooted at dir for the given publication.
func NewFileStore(root string, source harvester.Source) (*FileStore, error) {
	if err := os.MkdirAll(root, 0o750); err != nil {
		return nil, fmt.Errorf("create store root %s: %w", root, err)
	}
	return &FileStore{
		root: root,
		slug: source.Slug,
	}, nil
}

// Path computes the deterministic target path for an article. It
// depends only on the publish date and the URL fingerprint, never on
// content, so re-extracting a URL overwrites the same record.
func (s *FileStore) Path(article harvester.Article) (string, error) {
	published, err := time.Parse(time.RFC3339, article.Date)
	if err != nil {
		return "", fmt.Errorf("parse article date %q: %w", article.Date, err)
	}
	name := fmt.Sprintf("%s-%s-%s.json", s.slug, published.Format("20060102"), harvester.Fingerprint(article.URL))
	return filepath.Join(
		s.root,
		s.slug,
		fmt.Sprintf("%04d", published.Year()),
		fmt.Sprintf("%02d", published.Month()),
		name,
	), nil
}

// Save writes the article record. The write is all-or-nothing: the
// payload lands in a temp file in the target directory and is renamed
// into place, so an interrupted run never leaves a partial record. An
// existing record at the same path is silently overwritten.
func (s *FileStore) Save(ctx context.Context, article harvester.Article) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", fmt.Errorf("save canceled: %w", err)
	}
	target, err := s.Path(article)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(filepath.Dir(target), 0o750); err != nil {
		return "", fmt.Errorf("create article dir for %s: %w", target, err)
	}

	payload, err := encodeArticle(article)
	if err != nil {
		return "", err
	}
	if err := writeAtomic(target, payload); err != nil {
		return "", err
	}
	return target, nil
}

// encodeArticle marshals with stable key order, four-space indentation,
// and no escaping of non-ASCII or HTML characters, keeping the records
// human-readable.
func encodeArticle(article harvester.Article) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "    ")
	if err := enc.Encode(article); err != nil {
		return nil, fmt.Errorf("marshal article: %w", err)
	}
	return buf.Bytes(), nil
}

func writeAtomic(target string, payload []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(target), filepath.Base(target)+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp record: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(payload); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write temp record: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close temp record: %w", err)
	}
	if err := os.Rename(tmpName, target); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("rename record into place: %w", err)
	}
	return nil
}
