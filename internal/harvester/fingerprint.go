package harvester

import (
	"crypto/md5" //nolint:gosec // dedup key, not a security boundary
	"encoding/hex"
)

// FingerprintLen is the number of hex characters kept from the URL digest.
const FingerprintLen = 8

// Fingerprint derives the deduplication key for a URL: the trailing
// eight hex characters of its MD5 digest. Two URLs may collide at 32
// bits; that risk is accepted rather than corrected.
func Fingerprint(url string) string {
	sum := md5.Sum([]byte(url))
	digest := hex.EncodeToString(sum[:])
	return digest[len(digest)-FingerprintLen:]
}
