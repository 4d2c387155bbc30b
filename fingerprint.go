package vizh

import (
	"encoding/hex"
	"os"

	"golang.org/x/crypto/blake2b"
)

// Fingerprint returns a hex-encoded blake2b-256 digest of data, used
// to decide whether previously generated C for a source image is
// still up to date.
func Fingerprint(data []byte) string {
	sum := blake2b.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// FingerprintMatches reports whether the fingerprint recorded at
// fingerprintPath (if any) matches data's current fingerprint. A
// missing or unreadable fingerprint file is treated as a mismatch,
// never an error: the caller should simply regenerate.
func FingerprintMatches(fingerprintPath string, data []byte) bool {
	want, err := os.ReadFile(fingerprintPath)
	if err != nil {
		return false
	}
	return string(want) == Fingerprint(data)
}

// WriteFingerprint persists data's fingerprint to fingerprintPath,
// overwriting any previous value.
func WriteFingerprint(fingerprintPath string, data []byte) error {
	return os.WriteFile(fingerprintPath, []byte(Fingerprint(data)), 0644)
}
