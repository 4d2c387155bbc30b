package vizh

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingRecognizer struct {
	text   string
	calls  int
	closed bool
}

func (r *countingRecognizer) Recognize(crop *Bitmap) (string, error) {
	r.calls++
	return r.text, nil
}

func (r *countingRecognizer) Close() error {
	r.closed = true
	return nil
}

func TestOCRAdapterCachesByPixelContent(t *testing.T) {
	rec := &countingRecognizer{text: "  memcopy  "}
	adapter, err := NewOCRAdapter(rec)
	require.NoError(t, err)

	crop := filledSquareBitmap(10, 10, 2, 2, 8, 8)

	text, err := adapter.Recognize(crop)
	require.NoError(t, err)
	assert.Equal(t, "memcopy", text)

	// The same pixels again hit the cache, not the engine.
	_, err = adapter.Recognize(crop.Crop(BoundingBox{X: 0, Y: 0, W: 10, H: 10}))
	require.NoError(t, err)
	assert.Equal(t, 1, rec.calls)

	// Different pixels miss.
	_, err = adapter.Recognize(filledSquareBitmap(10, 10, 0, 0, 4, 4))
	require.NoError(t, err)
	assert.Equal(t, 2, rec.calls)
}

func TestOCRAdapterClosesUnderlyingRecognizer(t *testing.T) {
	rec := &countingRecognizer{}
	adapter, err := NewOCRAdapter(rec)
	require.NoError(t, err)

	require.NoError(t, adapter.Close())
	assert.True(t, rec.closed)
}

func TestParseArgCount(t *testing.T) {
	box := BoundingBox{X: 1, Y: 2, W: 3, H: 4}

	n, err := ParseArgCount(" 3 ", box)
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	_, err = ParseArgCount("three", box)
	require.Error(t, err)
	var oerr *OCRFailureError
	require.ErrorAs(t, err, &oerr)
	assert.Equal(t, box, oerr.Box)

	_, err = ParseArgCount("-1", box)
	assert.Error(t, err)
}
