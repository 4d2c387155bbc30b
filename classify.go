package vizh

import (
	"math"
	"sort"
)

// approxEpsilonRatio is the fraction of a contour's arc length used as
// the Douglas-Peucker epsilon when approximating it to a polygon.
const approxEpsilonRatio = 0.01

// arrowSlopeAngle and triangleSlopeAngle are the expected slope, in
// degrees from vertical, of a 7-gon arrow's and a 3-gon triangle's
// diagonal edges respectively.
const (
	triangleSlopeAngle = 30.0
	arrowSlopeAngle    = 45.0
	slopeTolerance     = 15.0
)

// shapeDirection is the geometric orientation recovered from a
// triangle's or arrow's silhouette.
type shapeDirection int

const (
	dirUnknown shapeDirection = iota
	dirLeft
	dirRight
	dirUp
	dirDown
)

// ShapeClassifier turns a contour plus its polygon approximation into
// an Instruction, dispatching purely on the number of vertices the
// approximated polygon has. It needs access to the binarised body
// image (to erase a circle before OCRing its label, and to count a
// quadrilateral's nested contours) and a TextRecognizer for circles.
type ShapeClassifier struct {
	body *Bitmap
	ocr  TextRecognizer
}

// NewShapeClassifier builds a classifier bound to one function body's
// binarised image and the OCR adapter used to read call targets.
func NewShapeClassifier(body *Bitmap, ocr TextRecognizer) *ShapeClassifier {
	return &ShapeClassifier{body: body, ocr: ocr}
}

// Classify approximates contour to a polygon and dispatches on its
// vertex count. It returns (nil, nil) for a quadrilateral judged to be
// a comment box rather than a Dec instruction — a legitimate "no
// instruction here" outcome, not an error.
func (c *ShapeClassifier) Classify(contour Contour) (*Instruction, error) {
	box := BoundingRect(contour)
	arcLen := ArcLength(contour, true)
	polygon := ApproxPolyDP(contour, approxEpsilonRatio*arcLen, true)

	switch n := len(polygon); {
	case n == 3:
		return c.classifyTriangle(polygon, box)
	case n == 4:
		return c.classifyQuad(box)
	case n == 6:
		return c.classifyBrace(polygon, box)
	case n == 7:
		return c.classifyArrow(polygon, box)
	case n == 8:
		instr, err := NewInstruction(Inc)
		return &instr, err
	case n > 10:
		return c.classifyCircle(box)
	default:
		return nil, &ParseError{Msg: "didn't recognise the instruction", Box: box}
	}
}

func (c *ShapeClassifier) classifyTriangle(polygon []Point, box BoundingBox) (*Instruction, error) {
	switch detectDirection(polygon, triangleSlopeAngle) {
	case dirUp:
		instr, err := NewInstruction(Read)
		return &instr, err
	case dirDown:
		instr, err := NewInstruction(Write)
		return &instr, err
	default:
		return nil, &ParseError{Msg: "found a triangle, but not sure what direction it's pointing", Box: box}
	}
}

// classifyQuad distinguishes a Dec quadrilateral from a comment box by
// counting the nested contours inside it; see nestedContourCount.
func (c *ShapeClassifier) classifyQuad(box BoundingBox) (*Instruction, error) {
	if nestedContourCount(c.body, box) > 2 {
		// Comment: not an instruction at all.
		return nil, nil
	}
	instr, err := NewInstruction(Dec)
	return &instr, err
}

// classifyBrace distinguishes a loop-start brace from a loop-end brace
// by finding the most vertical edge and comparing its x position to
// the polygon's leftmost point.
func (c *ShapeClassifier) classifyBrace(polygon []Point, box BoundingBox) (*Instruction, error) {
	type edge struct{ a, b Point }
	n := len(polygon)
	var longest edge
	longestDy := -1
	for i := 0; i < n; i++ {
		a, b := polygon[i], polygon[(i+1)%n]
		if dy := absInt(b.Y - a.Y); dy > longestDy {
			longestDy = dy
			longest = edge{a, b}
		}
	}

	leftmost := polygon[0]
	for _, p := range polygon[1:] {
		if p.X < leftmost.X {
			leftmost = p
		}
	}

	edgeMinX := longest.a.X
	if longest.b.X < edgeMinX {
		edgeMinX = longest.b.X
	}

	if edgeMinX > leftmost.X {
		instr, err := NewInstruction(LoopEnd)
		return &instr, err
	}
	instr, err := NewInstruction(LoopStart)
	return &instr, err
}

func (c *ShapeClassifier) classifyArrow(polygon []Point, box BoundingBox) (*Instruction, error) {
	var kind InstructionKind
	switch detectDirection(polygon, arrowSlopeAngle) {
	case dirLeft:
		kind = Left
	case dirRight:
		kind = Right
	case dirUp:
		kind = Up
	case dirDown:
		kind = Down
	default:
		return nil, &ParseError{Msg: "found an arrow, but not sure what direction it's pointing", Box: box}
	}
	instr, err := NewInstruction(kind)
	return &instr, err
}

// classifyCircle erases the circle from the body image (so its ink
// doesn't confuse OCR) and recognises the callee name printed inside
// it.
func (c *ShapeClassifier) classifyCircle(box BoundingBox) (*Instruction, error) {
	eraseRegion(c.body, box, 5)

	text, err := c.ocr.Recognize(c.body.Crop(box))
	if err != nil {
		return nil, &OCRFailureError{Context: "call target", Box: box}
	}
	if text == "" {
		return nil, &ParseError{Msg: "found a circle, but couldn't parse a function name inside it", Box: box}
	}

	instr, err := NewCall(text)
	if err != nil {
		return nil, &OCRFailureError{Context: "call target", Box: box}
	}
	return &instr, nil
}

// eraseRegion blacks out a margin-pixel border around box in b,
// mirroring cv2.drawContours(..., thickness=10) drawing over the
// circle's outline before the interior is cropped for OCR.
func eraseRegion(b *Bitmap, box BoundingBox, margin int) {
	for y := box.Y - margin; y < box.Y+margin; y++ {
		for x := box.X; x < box.X+box.W; x++ {
			b.Set(x, y, 0)
		}
	}
	for y := box.Y + box.H - margin; y < box.Y+box.H+margin; y++ {
		for x := box.X; x < box.X+box.W; x++ {
			b.Set(x, y, 0)
		}
	}
	for x := box.X - margin; x < box.X+margin; x++ {
		for y := box.Y; y < box.Y+box.H; y++ {
			b.Set(x, y, 0)
		}
	}
	for x := box.X + box.W - margin; x < box.X+box.W+margin; x++ {
		for y := box.Y; y < box.Y+box.H; y++ {
			b.Set(x, y, 0)
		}
	}
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

// detectDirection finds the one edge of polygon sloping down-right at
// slopeAngle degrees from vertical and the one sloping up-right at the
// mirrored angle, then infers the overall pointing direction from how
// those two edges relate. It mirrors the original parser's
// arccos(dot(unit_vector, (0,1))) formula exactly: the angle is
// measured from the downward vertical axis, not the x-axis, despite
// the looser "angle to the x-axis" phrasing used elsewhere.
func detectDirection(polygon []Point, slopeAngle float64) shapeDirection {
	type edge struct{ a, b Point }
	var downSlope, upSlope *edge
	n := len(polygon)

	for i := 0; i < n; i++ {
		p1, p2 := polygon[i], polygon[(i+1)%n]
		if p1.X > p2.X {
			p1, p2 = p2, p1
		}

		vx, vy := float64(p2.X-p1.X), float64(p2.Y-p1.Y)
		norm := math.Hypot(vx, vy)
		if norm == 0 {
			continue
		}
		// dot with the downward vertical unit vector (0, 1)
		dot := vy / norm
		if dot > 1 {
			dot = 1
		} else if dot < -1 {
			dot = -1
		}
		deg := math.Acos(dot) * 180 / math.Pi

		e := edge{p1, p2}
		if deg >= slopeAngle-slopeTolerance && deg <= slopeAngle+slopeTolerance {
			downSlope = &e
		} else if deg >= 180-slopeAngle-slopeTolerance && deg <= 180-slopeAngle+slopeTolerance {
			upSlope = &e
		}
	}

	if downSlope == nil || upSlope == nil {
		return dirUnknown
	}

	downXs := []int{downSlope.a.X, downSlope.b.X}
	upXs := []int{upSlope.a.X, upSlope.b.X}
	downYs := []int{downSlope.a.Y, downSlope.b.Y}
	upYs := []int{upSlope.a.Y, upSlope.b.Y}
	sort.Ints(downXs)
	sort.Ints(upXs)
	sort.Ints(downYs)
	sort.Ints(upYs)

	switch {
	case downXs[0] < upXs[0] && downXs[1] < upXs[1]:
		return dirDown
	case downXs[0] > upXs[0] && downXs[1] > upXs[1]:
		return dirUp
	case downYs[0] < upYs[0] && downYs[1] < upYs[1]:
		return dirRight
	case downYs[0] > upYs[0] && downYs[1] > upYs[1]:
		return dirLeft
	default:
		return dirUnknown
	}
}
