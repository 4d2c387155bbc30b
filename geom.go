package vizh

import "math"

// Point is a 2-D integer pixel coordinate.
type Point struct {
	X, Y int
}

// Polygon is an ordered sequence of vertices produced by contour
// approximation.
type Polygon []Point

func dist(a, b Point) float64 {
	dx := float64(a.X - b.X)
	dy := float64(a.Y - b.Y)
	return math.Hypot(dx, dy)
}

// ArcLength sums the Euclidean length of every edge in points, closing
// the loop back to points[0] when closed is true.
func ArcLength(points []Point, closed bool) float64 {
	if len(points) < 2 {
		return 0
	}
	total := 0.0
	for i := 1; i < len(points); i++ {
		total += dist(points[i-1], points[i])
	}
	if closed {
		total += dist(points[len(points)-1], points[0])
	}
	return total
}

// BoundingRect returns the smallest axis-aligned box containing points.
func BoundingRect(points []Point) BoundingBox {
	if len(points) == 0 {
		return BoundingBox{}
	}
	minX, minY := points[0].X, points[0].Y
	maxX, maxY := points[0].X, points[0].Y
	for _, p := range points[1:] {
		if p.X < minX {
			minX = p.X
		}
		if p.X > maxX {
			maxX = p.X
		}
		if p.Y < minY {
			minY = p.Y
		}
		if p.Y > maxY {
			maxY = p.Y
		}
	}
	return BoundingBox{X: minX, Y: minY, W: maxX - minX + 1, H: maxY - minY + 1}
}

// ApproxPolyDP approximates a contour with the Ramer-Douglas-Peucker
// algorithm, dropping points whose perpendicular distance from the
// chord they sit on is below epsilon. For a closed contour it splits
// the ring at its two most distant points before simplifying each half,
// mirroring how cv2.approxPolyDP treats closed contours.
func ApproxPolyDP(points []Point, epsilon float64, closed bool) []Point {
	if len(points) < 3 {
		out := make([]Point, len(points))
		copy(out, points)
		return out
	}
	if !closed {
		return rdp(points, epsilon)
	}

	i1, i2 := farthestPair(points)
	arc1 := ringSlice(points, i1, i2)
	arc2 := ringSlice(points, i2, i1)

	r1 := rdp(arc1, epsilon)
	r2 := rdp(arc2, epsilon)

	result := make([]Point, 0, len(r1)+len(r2)-2)
	result = append(result, r1[:len(r1)-1]...)
	result = append(result, r2[:len(r2)-1]...)
	return result
}

// farthestPair finds the two indices whose points are mutually
// farthest apart; used to pick a stable split for closed contours.
func farthestPair(points []Point) (int, int) {
	best := -1.0
	i1, i2 := 0, 0
	for i := 0; i < len(points); i++ {
		for j := i + 1; j < len(points); j++ {
			if d := dist(points[i], points[j]); d > best {
				best = d
				i1, i2 = i, j
			}
		}
	}
	return i1, i2
}

// ringSlice returns the points from index i to index j inclusive,
// wrapping around the end of the slice if j < i.
func ringSlice(points []Point, i, j int) []Point {
	n := len(points)
	if i <= j {
		out := make([]Point, j-i+1)
		copy(out, points[i:j+1])
		return out
	}
	out := make([]Point, 0, n-i+j+1)
	out = append(out, points[i:]...)
	out = append(out, points[:j+1]...)
	return out
}

// rdp runs the classic open-polyline Douglas-Peucker simplification.
func rdp(points []Point, epsilon float64) []Point {
	if len(points) < 3 {
		out := make([]Point, len(points))
		copy(out, points)
		return out
	}
	first, last := points[0], points[len(points)-1]
	maxDist := -1.0
	maxIdx := 0
	for i := 1; i < len(points)-1; i++ {
		d := perpendicularDistance(points[i], first, last)
		if d > maxDist {
			maxDist = d
			maxIdx = i
		}
	}
	if maxDist <= epsilon {
		return []Point{first, last}
	}
	left := rdp(points[:maxIdx+1], epsilon)
	right := rdp(points[maxIdx:], epsilon)
	result := make([]Point, 0, len(left)+len(right)-1)
	result = append(result, left[:len(left)-1]...)
	result = append(result, right...)
	return result
}

func perpendicularDistance(p, a, b Point) float64 {
	if a == b {
		return dist(p, a)
	}
	dx := float64(b.X - a.X)
	dy := float64(b.Y - a.Y)
	num := math.Abs(dy*float64(p.X-a.X) - dx*float64(p.Y-a.Y))
	den := math.Hypot(dx, dy)
	return num / den
}
