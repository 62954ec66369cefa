package boundary

import (
	"math"
	"sort"

	clipper "github.com/ctessum/go.clipper"

	"github.com/ScriptKitty10/AmadorUAVs-2024/pkg/geo"
)

// Default Planar settings.
const (
	DefaultScale       = 1e9
	DefaultArcSegments = 16
	DefaultTolerance   = 1e-10
)

// paramEps is the smallest parametric gap between two split points on a
// segment that still gets its own midpoint check.
const paramEps = 1e-12

// Planar implements Geometry treating latitude/longitude as planar
// coordinates. Offsetting is done by Clipper on integer-scaled
// coordinates; containment by orb.
type Planar struct {
	// Scale is the number of integer units per degree handed to Clipper.
	Scale float64
	// ArcSegments is the number of segments used to round a quarter circle
	// at convex corners of an offset ring.
	ArcSegments int
	// Tolerance is the distance, in degrees, within which a point counts
	// as lying on a ring's boundary.
	Tolerance float64
}

// NewPlanar returns a Planar geometry with default settings.
func NewPlanar() *Planar {
	return &Planar{
		Scale:       DefaultScale,
		ArcSegments: DefaultArcSegments,
		Tolerance:   DefaultTolerance,
	}
}

func (g *Planar) scale() float64 {
	if g.Scale <= 0 {
		return DefaultScale
	}
	return g.Scale
}

func (g *Planar) tolerance() float64 {
	if g.Tolerance < 0 {
		return DefaultTolerance
	}
	return g.Tolerance
}

func (g *Planar) arcSegments() int {
	if g.ArcSegments <= 0 {
		return DefaultArcSegments
	}
	return g.ArcSegments
}

// Offset shrinks ring inward by distance degrees with round joins. The
// result is counterclockwise.
func (g *Planar) Offset(ring geo.Ring, distance float64) (geo.Ring, error) {
	if ring.IsEmpty() || ring.Area() == 0 {
		return geo.Ring{}, &GeometryError{Ring: describe(ring), Op: "offset", Distance: distance, Err: ErrDegenerateRing}
	}
	if distance < 0 {
		return geo.Ring{}, &GeometryError{Ring: describe(ring), Op: "offset", Distance: distance, Err: ErrNegativeDistance}
	}
	if distance == 0 {
		return ring.EnsureCCW(), nil
	}

	s := g.scale()
	delta := distance * s
	co := clipper.NewClipperOffset()
	// Largest deviation of a chord from the true arc when a quarter circle
	// is split into ArcSegments chords.
	co.ArcTolerance = delta * (1 - math.Cos(math.Pi/(4*float64(g.arcSegments()))))
	co.AddPath(toPath(ring, s), clipper.JtRound, clipper.EtClosedPolygon)
	paths := co.Execute(-delta)

	switch {
	case len(paths) == 0:
		return geo.Ring{}, &GeometryError{Ring: describe(ring), Op: "offset", Distance: distance, Err: ErrEmptyOffset}
	case len(paths) > 1:
		return geo.Ring{}, &GeometryError{Ring: describe(ring), Op: "offset", Distance: distance, Err: ErrSplitOffset}
	}

	out := fromPath(paths[0], s)
	if out.IsEmpty() || out.Area() == 0 {
		return geo.Ring{}, &GeometryError{Ring: describe(ring), Op: "offset", Distance: distance, Err: ErrDegenerateRing}
	}
	return out.EnsureCCW(), nil
}

// Contains reports whether p is inside ring or within Tolerance of its
// boundary.
func (g *Planar) Contains(ring geo.Ring, p geo.Point) bool {
	if ring.IsEmpty() {
		return false
	}
	if ring.Contains(p) {
		return true
	}
	return ring.DistanceToBoundary(p) <= g.tolerance()
}

// SegmentWithin reports whether the segment p0→p1 stays inside ring. The
// segment is split at every point where it meets the boundary (crossings,
// touches, collinear overlaps and vertices lying on it); each piece lies
// wholly on one side, so checking its midpoint decides it.
func (g *Planar) SegmentWithin(ring geo.Ring, p0, p1 geo.Point) bool {
	if !g.Contains(ring, p0) || !g.Contains(ring, p1) {
		return false
	}
	if p0 == p1 {
		return true
	}

	tol := g.tolerance()
	ts := []float64{0, 1}
	for i := 0; i < ring.Len(); i++ {
		a, b := ring.Edge(i)
		ts = append(ts, geo.SegmentParams(p0, p1, a, b)...)
		if t, d := geo.ClosestParam(a, p0, p1); d <= tol {
			ts = append(ts, t)
		}
	}
	sort.Float64s(ts)

	for i := 1; i < len(ts); i++ {
		if ts[i]-ts[i-1] <= paramEps {
			continue
		}
		mid := p0.Lerp(p1, (ts[i-1]+ts[i])/2)
		if !g.Contains(ring, mid) {
			return false
		}
	}
	return true
}

// Project returns the nearest boundary point of ring to p with its arc
// position. Locating the returned arc position on ring gives back exactly
// the returned point.
func (g *Planar) Project(ring geo.Ring, p geo.Point) (geo.Point, float64, error) {
	if ring.IsEmpty() || ring.Perimeter() == 0 {
		return geo.Point{}, 0, &ProjectionError{Ring: describe(ring), Point: p, Err: ErrDegenerateRing}
	}
	q, arc := ring.Project(p)
	return q, arc, nil
}

func toPath(ring geo.Ring, scale float64) clipper.Path {
	path := make(clipper.Path, 0, ring.Len())
	for _, v := range ring.Vertices() {
		path = append(path, &clipper.IntPoint{
			X: clipper.CInt(math.Round(v.Lon * scale)),
			Y: clipper.CInt(math.Round(v.Lat * scale)),
		})
	}
	return path
}

func fromPath(path clipper.Path, scale float64) geo.Ring {
	pts := make([]geo.Point, 0, len(path))
	for _, ip := range path {
		pts = append(pts, geo.Point{
			Lat: float64(ip.Y) / scale,
			Lon: float64(ip.X) / scale,
		})
	}
	return geo.NewRing(pts...)
}
