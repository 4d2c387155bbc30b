package vizh

import "image"

// Bitmap is a single-channel binary image: 0 for background, 255 for
// foreground. All contour extraction operates on values of this shape,
// produced by Threshold.
type Bitmap struct {
	Pix    []uint8
	Stride int
	W, H   int
}

// NewBitmap allocates a zeroed (all-background) bitmap of the given
// dimensions.
func NewBitmap(w, h int) *Bitmap {
	return &Bitmap{Pix: make([]uint8, w*h), Stride: w, W: w, H: h}
}

func (b *Bitmap) At(x, y int) uint8 {
	if x < 0 || y < 0 || x >= b.W || y >= b.H {
		return 0
	}
	return b.Pix[y*b.Stride+x]
}

func (b *Bitmap) Set(x, y int, v uint8) {
	if x < 0 || y < 0 || x >= b.W || y >= b.H {
		return
	}
	b.Pix[y*b.Stride+x] = v
}

// Image renders the bitmap as a standard image.Image, for handing to
// an OCR engine or PNG encoder.
func (b *Bitmap) Image() image.Image {
	return bitmapToGray(b)
}

// Crop returns a new Bitmap holding the pixels inside box, clamped to
// the source bounds.
func (b *Bitmap) Crop(box BoundingBox) *Bitmap {
	out := NewBitmap(box.W, box.H)
	for y := 0; y < box.H; y++ {
		for x := 0; x < box.W; x++ {
			out.Set(x, y, b.At(box.X+x, box.Y+y))
		}
	}
	return out
}

// Contour is a sequence of boundary pixels produced by external
// contour tracing, in the order they were visited.
type Contour []Point

// moore8 lists the 8 neighbour offsets in clockwise order starting
// from due west, the order Moore-Neighbor tracing walks in.
var moore8 = [8]Point{
	{-1, 0}, {-1, -1}, {0, -1}, {1, -1},
	{1, 0}, {1, 1}, {0, 1}, {-1, 1},
}

// ExternalContours finds every outer boundary of the foreground
// (non-zero) regions in b using Moore-Neighbor tracing with Jacob's
// stopping criterion, mirroring cv2.findContours(..., RETR_EXTERNAL,
// CHAIN_APPROX_NONE). Regions nested inside a hole of another region
// are still traced; only contours of background (hole) pixels are
// excluded, matching the "external" retrieval mode.
func ExternalContours(b *Bitmap) []Contour {
	visited := make([]bool, len(b.Pix))
	var contours []Contour

	isFg := func(x, y int) bool { return b.At(x, y) != 0 }

	for y := 0; y < b.H; y++ {
		for x := 0; x < b.W; x++ {
			idx := y*b.Stride + x
			if !isFg(x, y) || visited[idx] {
				continue
			}
			// A pixel starts an external boundary if it has no
			// foreground neighbour to its west, i.e. it is the
			// leftmost pixel of its row run touching the background.
			if isFg(x-1, y) {
				continue
			}
			contour, traced := traceBoundary(b, x, y, isFg)
			// Mark the whole 8-connected component as seen, so pixels
			// bordering one of its holes never start a second contour.
			visited[idx] = true
			stack := []Point{{x, y}}
			for len(stack) > 0 {
				p := stack[len(stack)-1]
				stack = stack[:len(stack)-1]
				for _, nb := range moore8 {
					nx, ny := p.X+nb.X, p.Y+nb.Y
					if isFg(nx, ny) && !visited[ny*b.Stride+nx] {
						visited[ny*b.Stride+nx] = true
						stack = append(stack, Point{nx, ny})
					}
				}
			}
			if traced {
				contours = append(contours, contour)
			}
		}
	}
	return contours
}

// traceBoundary walks the boundary of the foreground component
// touching (startX, startY) using the Moore-Neighbor algorithm with
// Jacob's stopping criterion: tracing halts once the walk is back at
// the start pixel and about to leave it the same way it first did. The
// second return value is false for isolated single pixels, which form
// a degenerate (non-)contour.
func traceBoundary(b *Bitmap, startX, startY int, isFg func(x, y int) bool) (Contour, bool) {
	start := Point{startX, startY}

	// The start pixel was reached from due west (see ExternalContours:
	// it is the leftmost foreground pixel of its row run), so the
	// first search begins at the neighbour clockwise from west.
	first, firstIdx, ok := nextBoundaryPoint(b, start, 0, isFg)
	if !ok {
		return Contour{start}, false
	}

	contour := Contour{start}
	cur, searchStart := first, (firstIdx+5)%8
	for {
		next, idx, ok := nextBoundaryPoint(b, cur, searchStart, isFg)
		if cur == start && ok && next == first {
			return contour, true
		}
		contour = append(contour, cur)
		if !ok {
			// Dangling single-pixel-wide spur with no way back.
			return contour, true
		}
		cur, searchStart = next, (idx+5)%8
		if len(contour) > len(b.Pix) {
			// Safety valve: unreachable on well-formed input, guards
			// against an infinite loop on malformed input.
			return contour, true
		}
	}
}

// nextBoundaryPoint scans the 8-neighbourhood of p clockwise starting
// at offset searchStart and returns the first foreground pixel found,
// its index in moore8, and whether one was found at all.
func nextBoundaryPoint(b *Bitmap, p Point, searchStart int, isFg func(x, y int) bool) (Point, int, bool) {
	for i := 0; i < 8; i++ {
		idx := (searchStart + i) % 8
		nb := moore8[idx]
		nx, ny := p.X+nb.X, p.Y+nb.Y
		if isFg(nx, ny) {
			return Point{nx, ny}, idx, true
		}
	}
	return Point{}, 0, false
}

// nestedContourCount counts how many foreground components and how
// many background "hole" components sit inside box, on the source
// bitmap, minus one for the background around them. The shape
// classifier uses this to tell a Dec quadrilateral (at most 2) from a
// comment box, whose enclosed text pushes the count above 2; see
// classifyQuad.
//
// This heuristic mirrors the original parser's nested-contour count
// and is faithful-but-fragile: it inspects only direct structure
// inside the bounding box, not genuine topological containment.
func nestedContourCount(b *Bitmap, box BoundingBox) int {
	sub := b.Crop(box)
	fg := ExternalContours(sub)

	inv := NewBitmap(sub.W, sub.H)
	for i, v := range sub.Pix {
		if v == 0 {
			inv.Pix[i] = 255
		}
	}
	holes := ExternalContours(inv)

	return len(fg) + len(holes) - 1
}
