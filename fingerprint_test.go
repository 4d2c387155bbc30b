package vizh

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFingerprintIsStableAndSensitive(t *testing.T) {
	a := Fingerprint([]byte("void f() {}"))
	b := Fingerprint([]byte("void f() {}"))
	c := Fingerprint([]byte("void g() {}"))

	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
}

func TestFingerprintMatchesRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "f.sum")
	data := []byte("int main(void) { return 0; }")

	assert.False(t, FingerprintMatches(path, data))

	require.NoError(t, WriteFingerprint(path, data))
	assert.True(t, FingerprintMatches(path, data))
	assert.False(t, FingerprintMatches(path, []byte("changed")))
}
