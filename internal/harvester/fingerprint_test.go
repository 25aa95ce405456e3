package harvester

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFingerprintIsDeterministic(t *testing.T) {
	t.Parallel()

	first := Fingerprint("https://echo24.cz/a/abc123/some-story")
	second := Fingerprint("https://echo24.cz/a/abc123/some-story")
	require.Equal(t, first, second)
	require.Len(t, first, FingerprintLen)
	assert.Regexp(t, "^[0-9a-f]{8}$", first)
}

func TestFingerprintDistinctURLs(t *testing.T) {
	t.Parallel()

	a := Fingerprint("https://echo24.cz/a/one")
	b := Fingerprint("https://echo24.cz/a/two")
	assert.NotEqual(t, a, b)
}

func TestFingerprintMatchesKnownDigest(t *testing.T) {
	t.Parallel()

	// md5("hello") = 5d41402abc4b2a76b9719d911017c592, last eight chars.
	assert.Equal(t, "1017c592", Fingerprint("hello"))
}
