package vizh

import (
	"image"
	"io"
	"strconv"
	"strings"

	lru "github.com/hashicorp/golang-lru"
	"github.com/pkg/errors"
)

// TextRecognizer is the OCR collaborator the parser depends on to read
// the function name, argument count and call-target labels printed
// inside circles. Its implementation (binding to a system OCR engine
// such as Tesseract) is outside this module's scope; only the
// contract is specified here.
type TextRecognizer interface {
	// Recognize returns the text found in crop, trimmed of surrounding
	// whitespace. An empty string is a valid result, not an error.
	Recognize(crop *Bitmap) (string, error)
}

// OCRAdapter wraps a TextRecognizer with an LRU cache keyed on a crop's
// pixel content, so that OCRing the same pixels twice (e.g. two Call
// circles naming the same callee) does not pay for a second
// recognition call. It implements io.Closer so that any resources the
// underlying engine holds (handles, worker processes) are released on
// every exit path, mirroring the original's __enter__/__exit__ scoped
// lifetime.
type OCRAdapter struct {
	rec   TextRecognizer
	cache *lru.Cache
}

const ocrCacheSize = 256

// NewOCRAdapter wraps rec with an LRU-cached façade. rec is closed
// when the adapter is closed if it implements io.Closer itself.
func NewOCRAdapter(rec TextRecognizer) (*OCRAdapter, error) {
	cache, err := lru.New(ocrCacheSize)
	if err != nil {
		return nil, errors.Wrap(err, "vizh: could not allocate OCR cache")
	}
	return &OCRAdapter{rec: rec, cache: cache}, nil
}

// Recognize looks up crop's pixel content in the cache before falling
// back to the wrapped TextRecognizer.
func (a *OCRAdapter) Recognize(crop *Bitmap) (string, error) {
	key := bitmapCacheKey(crop)
	if v, ok := a.cache.Get(key); ok {
		return v.(string), nil
	}
	text, err := a.rec.Recognize(crop)
	if err != nil {
		return "", err
	}
	text = strings.TrimSpace(text)
	a.cache.Add(key, text)
	return text, nil
}

// Close releases the underlying engine's resources, if any.
func (a *OCRAdapter) Close() error {
	if closer, ok := a.rec.(io.Closer); ok {
		return closer.Close()
	}
	return nil
}

// bitmapCacheKey builds a cheap, order-sensitive cache key from a
// crop's dimensions and pixel bytes. It is not a cryptographic digest;
// OCR crops are small enough that string-keying the raw bytes is fine.
func bitmapCacheKey(b *Bitmap) string {
	var sb strings.Builder
	sb.Grow(len(b.Pix) + 16)
	sb.WriteString(strconv.Itoa(b.W))
	sb.WriteByte('x')
	sb.WriteString(strconv.Itoa(b.H))
	sb.WriteByte(':')
	sb.Write(b.Pix)
	return sb.String()
}

// ParseArgCount converts the argument-count box's recognised text into
// an integer, wrapping non-numeric OCR output as an OCRFailureError so
// callers can localise it back to the source box.
func ParseArgCount(text string, box BoundingBox) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(text))
	if err != nil {
		return 0, &OCRFailureError{Context: "argument count", Box: box}
	}
	if n < 0 {
		return 0, &OCRFailureError{Context: "argument count", Box: box}
	}
	return n, nil
}

// bitmapToImage adapts a Bitmap to image.Image so it can be handed to
// an imaging-based debug renderer or a third-party OCR binding that
// expects the standard interface.
func bitmapToImage(b *Bitmap) image.Image {
	return bitmapToGray(b)
}
