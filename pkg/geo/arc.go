package geo

import (
	"math"
	"sort"
)

// WrapArc reduces an arc position into [0, perimeter). Negative positions
// wrap around from the end of the ring.
func WrapArc(pos, perimeter float64) float64 {
	if perimeter <= 0 {
		return 0
	}
	pos = math.Mod(pos, perimeter)
	if pos < 0 {
		pos += perimeter
	}
	if pos >= perimeter {
		pos = 0
	}
	return pos
}

// Locate returns the boundary point at arc position pos, measured along the
// ring from vertex 0 in stored vertex order. pos wraps modulo the
// perimeter.
func (r Ring) Locate(pos float64) Point {
	n := len(r.vertices)
	if n == 0 {
		return Point{}
	}
	perimeter := r.Perimeter()
	if n == 1 || perimeter == 0 {
		return r.vertices[0]
	}
	pos = WrapArc(pos, perimeter)

	// First edge whose end lies strictly beyond pos; zero-length edges are
	// skipped automatically.
	i := sort.Search(n, func(i int) bool { return r.cum[i+1] > pos })
	if i == n {
		return r.vertices[0]
	}
	a, b := r.vertices[i], r.vertices[(i+1)%n]
	frac := (pos - r.cum[i]) / (r.cum[i+1] - r.cum[i])
	return a.Lerp(b, frac)
}

// Project returns the point on the ring's boundary closest to p along with
// its arc position. When several edges are equally close the earliest one
// in vertex order wins. The returned point is Locate(arc), so locating the
// returned arc position reproduces it exactly.
func (r Ring) Project(p Point) (Point, float64) {
	n := len(r.vertices)
	if n == 0 {
		return Point{}, 0
	}
	perimeter := r.Perimeter()
	if n == 1 || perimeter == 0 {
		return r.vertices[0], 0
	}

	bestDist := math.MaxFloat64
	bestArc := 0.0
	for i := 0; i < n; i++ {
		a, b := r.vertices[i], r.vertices[(i+1)%n]
		t, dist := nearestOnSegment(p, a, b)
		if dist < bestDist {
			bestDist = dist
			bestArc = r.cum[i] + t*(r.cum[i+1]-r.cum[i])
		}
	}
	bestArc = WrapArc(bestArc, perimeter)
	return r.Locate(bestArc), bestArc
}

// DistanceToBoundary returns the distance from p to the nearest point on
// the ring's boundary.
func (r Ring) DistanceToBoundary(p Point) float64 {
	n := len(r.vertices)
	if n == 0 {
		return math.MaxFloat64
	}
	best := p.Distance(r.vertices[0])
	for i := 0; i < n; i++ {
		_, d := nearestOnSegment(p, r.vertices[i], r.vertices[(i+1)%n])
		best = math.Min(best, d)
	}
	return best
}

// nearestOnSegment returns the parameter t in [0,1] of the point on segment
// ab closest to p, and the distance to it.
func nearestOnSegment(p, a, b Point) (float64, float64) {
	ab := b.Sub(a)
	abLen2 := ab.Dot(ab)
	if abLen2 == 0 {
		return 0, p.Distance(a)
	}
	t := p.Sub(a).Dot(ab) / abLen2
	if t < 0 {
		t = 0
	}
	if t > 1 {
		t = 1
	}
	closest := a.Lerp(b, t)
	return t, p.Distance(closest)
}
