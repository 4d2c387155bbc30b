package vizh

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func squareBitmap(w, h, x0, y0, x1, y1 int) *Bitmap {
	b := NewBitmap(w, h)
	for y := y0; y < y1; y++ {
		for x := x0; x < x1; x++ {
			if x == x0 || x == x1-1 || y == y0 || y == y1-1 {
				b.Set(x, y, 255)
			}
		}
	}
	return b
}

func filledSquareBitmap(w, h, x0, y0, x1, y1 int) *Bitmap {
	b := NewBitmap(w, h)
	for y := y0; y < y1; y++ {
		for x := x0; x < x1; x++ {
			b.Set(x, y, 255)
		}
	}
	return b
}

func TestExternalContoursSingleBlob(t *testing.T) {
	b := filledSquareBitmap(20, 20, 5, 5, 15, 15)
	contours := ExternalContours(b)
	require.Len(t, contours, 1)

	box := BoundingRect(contours[0])
	assert.Equal(t, 5, box.X)
	assert.Equal(t, 5, box.Y)
	assert.Equal(t, 10, box.W)
	assert.Equal(t, 10, box.H)
}

func TestExternalContoursTwoBlobs(t *testing.T) {
	b := NewBitmap(30, 10)
	for y := 2; y < 8; y++ {
		for x := 2; x < 6; x++ {
			b.Set(x, y, 255)
		}
		for x := 20; x < 26; x++ {
			b.Set(x, y, 255)
		}
	}
	contours := ExternalContours(b)
	assert.Len(t, contours, 2)
}

func TestNestedContourCountPlainRectangle(t *testing.T) {
	b := squareBitmap(20, 20, 2, 2, 18, 18)
	n := nestedContourCount(b, BoundingBox{X: 0, Y: 0, W: 20, H: 20})
	// One foreground ring plus the background hole it encloses.
	assert.Equal(t, 2, n)
}
