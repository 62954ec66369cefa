// Package routing computes detours along a closed boundary ring.
package routing

import (
	"github.com/ScriptKitty10/AmadorUAVs-2024/pkg/geo"
)

// Dir is the direction of travel along a ring, relative to its stored
// vertex order.
type Dir int

const (
	Forward Dir = iota // increasing arc position
	Reverse            // decreasing arc position
)

func (d Dir) String() string {
	if d == Reverse {
		return "reverse"
	}
	return "forward"
}

// Direction returns the direction of the shorter arc from start to end.
// When both arcs are the same length the forward one is chosen.
func Direction(ring geo.Ring, start, end float64) Dir {
	perimeter := ring.Perimeter()
	f := geo.WrapArc(end-start, perimeter)
	if f <= perimeter-f {
		return Forward
	}
	return Reverse
}

// ArcLength returns the length of the shorter arc from start to end.
func ArcLength(ring geo.Ring, start, end float64) float64 {
	perimeter := ring.Perimeter()
	f := geo.WrapArc(end-start, perimeter)
	if f <= perimeter-f {
		return f
	}
	return perimeter - f
}

// ShortestArc samples the shorter boundary arc from arc position start to
// arc position end, ordered from start to end.
//
// An arc that does not pass the ring origin is sampled with n evenly
// spaced positions, both ends included. An arc that passes the origin is
// split there and each half gets n/2 positions, so an odd n yields n-1
// points and the origin appears twice, once closing the first half and
// once opening the second.
func ShortestArc(ring geo.Ring, start, end float64, n int) []geo.Point {
	perimeter := ring.Perimeter()
	if n <= 0 || perimeter == 0 {
		return nil
	}
	start = geo.WrapArc(start, perimeter)
	end = geo.WrapArc(end, perimeter)

	var positions []float64
	switch Direction(ring, start, end) {
	case Forward:
		if start <= end {
			positions = linspace(start, end, n)
		} else {
			positions = append(linspace(start, perimeter, n/2), linspace(0, end, n/2)...)
		}
	case Reverse:
		if start >= end {
			positions = linspace(start, end, n)
		} else {
			positions = append(linspace(start, 0, n/2), linspace(perimeter, end, n/2)...)
		}
	}

	pts := make([]geo.Point, len(positions))
	for i, pos := range positions {
		pts[i] = ring.Locate(pos)
	}
	return pts
}

// linspace returns n evenly spaced values from a to b inclusive.
func linspace(a, b float64, n int) []float64 {
	switch {
	case n <= 0:
		return nil
	case n == 1:
		return []float64{a}
	}
	out := make([]float64, n)
	step := (b - a) / float64(n-1)
	for i := range out {
		out[i] = a + float64(i)*step
	}
	out[n-1] = b
	return out
}
