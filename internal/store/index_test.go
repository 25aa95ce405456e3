package store

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"newsharvest/internal/harvester"
)

func TestIndexLoadFindsStoredFingerprints(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	source := testSource(t)
	s, err := NewFileStore(root, source)
	require.NoError(t, err)

	urlA := "https://echo24.cz/a/one"
	urlB := "https://echo24.cz/a/two"
	_, err = s.Save(context.Background(), testArticle(urlA))
	require.NoError(t, err)
	_, err = s.Save(context.Background(), testArticle(urlB))
	require.NoError(t, err)

	index := NewFingerprintIndex(root, source)
	require.NoError(t, index.Load())
	assert.Equal(t, 2, index.Len())

	assert.False(t, index.Reserve(harvester.Fingerprint(urlA)))
	assert.False(t, index.Reserve(harvester.Fingerprint(urlB)))
	assert.True(t, index.Reserve(harvester.Fingerprint("https://echo24.cz/a/three")))
}

func TestIndexLoadEmptyTree(t *testing.T) {
	t.Parallel()

	index := NewFingerprintIndex(t.TempDir(), testSource(t))
	require.NoError(t, index.Load())
	assert.Equal(t, 0, index.Len())
}

func TestIndexReserveIsSingleAdmission(t *testing.T) {
	t.Parallel()

	index := NewFingerprintIndex(t.TempDir(), testSource(t))
	require.NoError(t, index.Load())

	fingerprint := harvester.Fingerprint("https://echo24.cz/a/race")
	var wins int
	var mu sync.Mutex
	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if index.Reserve(fingerprint) {
				mu.Lock()
				wins++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, 1, wins, "exactly one goroutine may claim a fingerprint")
}

func TestIndexReleaseAllowsRetry(t *testing.T) {
	t.Parallel()

	index := NewFingerprintIndex(t.TempDir(), testSource(t))
	require.NoError(t, index.Load())

	fingerprint := harvester.Fingerprint("https://echo24.cz/a/retry")
	require.True(t, index.Reserve(fingerprint))
	require.False(t, index.Reserve(fingerprint))

	index.Release(fingerprint)
	assert.True(t, index.Reserve(fingerprint))
}

func TestIndexReloadReplacesReservations(t *testing.T) {
	t.Parallel()

	index := NewFingerprintIndex(t.TempDir(), testSource(t))
	require.NoError(t, index.Load())
	require.True(t, index.Reserve("deadbeef"))

	// A fresh scan drops in-memory reservations that never hit disk.
	require.NoError(t, index.Load())
	assert.True(t, index.Reserve("deadbeef"))
}
