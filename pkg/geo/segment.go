package geo

import "math"

// paramEps is the parametric slack used when deciding whether an
// intersection falls within a segment.
const paramEps = 1e-12

// SegmentParams returns the parameters t in [0,1] along segment a→b at
// which it meets segment c→d. Crossing and touching segments yield one
// parameter; collinear overlapping segments yield the two ends of the
// overlap. Nil means the segments do not meet.
func SegmentParams(a, b, c, d Point) []float64 {
	r := b.Sub(a)
	s := d.Sub(c)
	rr := r.Dot(r)
	if rr == 0 {
		return nil
	}
	qp := c.Sub(a)
	denom := r.Cross(s)
	scale := math.Sqrt(rr) * s.Length()

	if math.Abs(denom) > 1e-14*scale {
		t := qp.Cross(s) / denom
		u := qp.Cross(r) / denom
		if t < -paramEps || t > 1+paramEps || u < -paramEps || u > 1+paramEps {
			return nil
		}
		return []float64{clamp01(t)}
	}

	// Parallel. Only collinear segments can meet.
	if math.Abs(qp.Cross(r)) > 1e-14*math.Max(rr, qp.Length()*math.Sqrt(rr)) {
		return nil
	}
	tc := qp.Dot(r) / rr
	td := d.Sub(a).Dot(r) / rr
	lo, hi := math.Min(tc, td), math.Max(tc, td)
	if hi < -paramEps || lo > 1+paramEps {
		return nil
	}
	lo, hi = clamp01(lo), clamp01(hi)
	if lo == hi {
		return []float64{lo}
	}
	return []float64{lo, hi}
}

// SegmentsIntersect returns true if segments a→b and c→d share at least
// one point.
func SegmentsIntersect(a, b, c, d Point) bool {
	return len(SegmentParams(a, b, c, d)) > 0
}

// ClosestParam returns the parameter in [0,1] of the point on segment a→b
// closest to p, and the distance from p to that point.
func ClosestParam(p, a, b Point) (float64, float64) {
	return nearestOnSegment(p, a, b)
}

func clamp01(t float64) float64 {
	if t < 0 {
		return 0
	}
	if t > 1 {
		return 1
	}
	return t
}
