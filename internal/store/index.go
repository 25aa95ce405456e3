package store

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"sync"

	"newsharvest/internal/harvester"
)

// recordName matches stored record file names and captures the
// fingerprint component.
var recordName = regexp.MustCompile(`-(\d{8})-([0-9a-f]{8})\.json$`)

// FingerprintIndex is the in-memory deduplication set. It is rebuilt
// from the storage tree at the start of each cycle and updated as
// articles are scheduled, so deduplication is strictly URL-identity
// based and safe under concurrent workers.
type FingerprintIndex struct {
	root string
	slug string

	mu   sync.Mutex
	seen map[string]struct{}
}

// NewFingerprintIndex builds an empty index over the store tree.
func NewFingerprintIndex(root string, source harvester.Source) *FingerprintIndex {
	return &FingerprintIndex{
		root: root,
		slug: source.Slug,
		seen: make(map[string]struct{}),
	}
}

// Load scans the publication subtree and collects the fingerprint
// embedded in every stored record name. A missing subtree is an empty
// index, not an error.
func (i *FingerprintIndex) Load() error {
	base := filepath.Join(i.root, i.slug)
	loaded := make(map[string]struct{})

	err := filepath.WalkDir(base, func(_ string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if entry.IsDir() {
			return nil
		}
		if match := recordName.FindStringSubmatch(entry.Name()); match != nil {
			loaded[match[2]] = struct{}{}
		}
		return nil
	})
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("scan store tree %s: %w", base, err)
	}

	i.mu.Lock()
	i.seen = loaded
	i.mu.Unlock()
	return nil
}

// Reserve atomically checks and claims a fingerprint. It returns false
// when the fingerprint is already stored or already claimed by another
// worker in this cycle, so the same URL is never fetched twice.
func (i *FingerprintIndex) Reserve(fingerprint string) bool {
	i.mu.Lock()
	defer i.mu.Unlock()
	if _, ok := i.seen[fingerprint]; ok {
		return false
	}
	i.seen[fingerprint] = struct{}{}
	return true
}

// Release drops a reservation after a failed pipeline so a later cycle
// can retry the URL.
func (i *FingerprintIndex) Release(fingerprint string) {
	i.mu.Lock()
	delete(i.seen, fingerprint)
	i.mu.Unlock()
}

// Len reports the current number of known fingerprints.
func (i *FingerprintIndex) Len() int {
	i.mu.Lock()
	defer i.mu.Unlock()
	return len(i.seen)
}
