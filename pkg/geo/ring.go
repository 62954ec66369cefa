package geo

import (
	"encoding/json"
	"fmt"
	"math"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"
)

// Ring is a closed polygon boundary defined by its vertices in order. The
// closing edge from the last vertex back to the first is implicit. A Ring
// is immutable once built and may be shared between goroutines.
type Ring struct {
	vertices []Point
	// cum[i] is the arc length from vertex 0 to vertex i; cum[n] is the
	// perimeter.
	cum []float64
}

// NewRing creates a ring from a list of vertices. A trailing vertex equal to
// the first one is dropped, so both open and explicitly closed vertex lists
// are accepted.
func NewRing(pts ...Point) Ring {
	n := len(pts)
	if n > 1 && pts[0] == pts[n-1] {
		n--
	}
	verts := make([]Point, n)
	copy(verts, pts[:n])

	cum := make([]float64, n+1)
	for i := 0; i < n; i++ {
		cum[i+1] = cum[i] + verts[i].Distance(verts[(i+1)%n])
	}
	return Ring{vertices: verts, cum: cum}
}

// Len returns the number of vertices.
func (r Ring) Len() int {
	return len(r.vertices)
}

// IsEmpty returns true if the ring has fewer than 3 vertices.
func (r Ring) IsEmpty() bool {
	return len(r.vertices) < 3
}

// Vertex returns the i-th vertex. Wraps around.
func (r Ring) Vertex(i int) Point {
	n := len(r.vertices)
	return r.vertices[((i%n)+n)%n]
}

// Vertices returns a copy of the ring's vertices.
func (r Ring) Vertices() []Point {
	return append([]Point(nil), r.vertices...)
}

// Edge returns the i-th edge as (start, end). Wraps around.
func (r Ring) Edge(i int) (Point, Point) {
	return r.Vertex(i), r.Vertex(i + 1)
}

// SignedArea returns the signed area using the shoelace formula in the
// (lon, lat) plane. Positive for counterclockwise winding.
func (r Ring) SignedArea() float64 {
	n := len(r.vertices)
	if n < 3 {
		return 0
	}
	area := 0.0
	for i := 0; i < n; i++ {
		j := (i + 1) % n
		area += r.vertices[i].Lon * r.vertices[j].Lat
		area -= r.vertices[j].Lon * r.vertices[i].Lat
	}
	return area / 2
}

// Area returns the unsigned area of the ring, in square degrees.
func (r Ring) Area() float64 {
	return math.Abs(r.SignedArea())
}

// IsCounterClockwise returns true if vertices are in CCW order.
func (r Ring) IsCounterClockwise() bool {
	return r.SignedArea() > 0
}

// EnsureCCW returns the ring with vertices in counterclockwise order.
func (r Ring) EnsureCCW() Ring {
	if r.SignedArea() < 0 {
		return r.Reverse()
	}
	return r
}

// Reverse returns the ring with reversed vertex order.
func (r Ring) Reverse() Ring {
	n := len(r.vertices)
	rev := make([]Point, n)
	for i, v := range r.vertices {
		rev[n-1-i] = v
	}
	return NewRing(rev...)
}

// Centroid returns the area centroid of the ring.
func (r Ring) Centroid() Point {
	n := len(r.vertices)
	if n == 0 {
		return Point{}
	}
	a := r.SignedArea()
	if n < 3 || math.Abs(a) < 1e-24 {
		// Degenerate: return average.
		sum := Point{}
		for _, v := range r.vertices {
			sum = sum.Add(v)
		}
		return sum.Scale(1.0 / float64(n))
	}
	cx, cy := 0.0, 0.0
	for i := 0; i < n; i++ {
		j := (i + 1) % n
		cross := r.vertices[i].Lon*r.vertices[j].Lat - r.vertices[j].Lon*r.vertices[i].Lat
		cx += (r.vertices[i].Lon + r.vertices[j].Lon) * cross
		cy += (r.vertices[i].Lat + r.vertices[j].Lat) * cross
	}
	f := 1.0 / (6.0 * a)
	return Point{Lat: cy * f, Lon: cx * f}
}

// BoundingBox returns the axis-aligned bounding box as (min, max).
func (r Ring) BoundingBox() (Point, Point) {
	if len(r.vertices) == 0 {
		return Point{}, Point{}
	}
	minP := r.vertices[0]
	maxP := r.vertices[0]
	for _, v := range r.vertices[1:] {
		minP.Lat = math.Min(minP.Lat, v.Lat)
		minP.Lon = math.Min(minP.Lon, v.Lon)
		maxP.Lat = math.Max(maxP.Lat, v.Lat)
		maxP.Lon = math.Max(maxP.Lon, v.Lon)
	}
	return minP, maxP
}

// Perimeter returns the total boundary length, in degrees.
func (r Ring) Perimeter() float64 {
	if len(r.cum) == 0 {
		return 0
	}
	return r.cum[len(r.cum)-1]
}

// Contains returns true if the point is inside the ring or on its
// boundary.
func (r Ring) Contains(p Point) bool {
	if r.IsEmpty() {
		return false
	}
	return planar.RingContains(r.Orb(), p.Orb())
}

// Orb returns the ring as a closed orb.Ring (first vertex repeated at the
// end).
func (r Ring) Orb() orb.Ring {
	or := make(orb.Ring, 0, len(r.vertices)+1)
	for _, v := range r.vertices {
		or = append(or, v.Orb())
	}
	if len(r.vertices) > 0 {
		or = append(or, r.vertices[0].Orb())
	}
	return or
}

// RingFromOrb converts an orb.Ring to a Ring.
func RingFromOrb(or orb.Ring) Ring {
	pts := make([]Point, len(or))
	for i, op := range or {
		pts[i] = FromOrb(op)
	}
	return NewRing(pts...)
}

// Pairs returns the vertices as [lat, lon] pairs.
func (r Ring) Pairs() [][2]float64 {
	return Pairs(r.vertices)
}

// Pairs converts points to [lat, lon] pairs.
func Pairs(pts []Point) [][2]float64 {
	out := make([][2]float64, len(pts))
	for i, p := range pts {
		out[i] = [2]float64{p.Lat, p.Lon}
	}
	return out
}

// FromPairs converts [lat, lon] pairs to points.
func FromPairs(pairs [][2]float64) []Point {
	out := make([]Point, len(pairs))
	for i, pr := range pairs {
		out[i] = Point{Lat: pr[0], Lon: pr[1]}
	}
	return out
}

// MarshalJSON encodes the ring as a list of [lat, lon] pairs.
func (r Ring) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.Pairs())
}

// UnmarshalJSON decodes a list of [lat, lon] pairs.
func (r *Ring) UnmarshalJSON(b []byte) error {
	var pairs [][2]float64
	if err := json.Unmarshal(b, &pairs); err != nil {
		return fmt.Errorf("decoding ring: %w", err)
	}
	*r = NewRing(FromPairs(pairs)...)
	return nil
}
