package geo

import (
	"fmt"
	"math"
	"strconv"

	"github.com/paulmach/orb"
)

// Point is a latitude/longitude pair in degrees. Over the few hundred feet a
// geofence spans it is treated as a planar point with x = Lon and y = Lat.
type Point struct {
	Lat float64 `json:"lat" yaml:"lat"`
	Lon float64 `json:"lon" yaml:"lon"`
}

// Pt is a shorthand constructor for Point.
func Pt(lat, lon float64) Point {
	return Point{Lat: lat, Lon: lon}
}

// Add returns p + q.
func (p Point) Add(q Point) Point {
	return Point{p.Lat + q.Lat, p.Lon + q.Lon}
}

// Sub returns p - q.
func (p Point) Sub(q Point) Point {
	return Point{p.Lat - q.Lat, p.Lon - q.Lon}
}

// Scale returns p * s.
func (p Point) Scale(s float64) Point {
	return Point{p.Lat * s, p.Lon * s}
}

// Length returns the planar length of the vector, in degrees.
func (p Point) Length() float64 {
	return math.Hypot(p.Lon, p.Lat)
}

// Dot returns the dot product of p and q.
func (p Point) Dot(q Point) float64 {
	return p.Lon*q.Lon + p.Lat*q.Lat
}

// Cross returns the 2D cross product in the (lon, lat) plane.
func (p Point) Cross(q Point) float64 {
	return p.Lon*q.Lat - p.Lat*q.Lon
}

// Distance returns the planar distance from p to q, in degrees.
func (p Point) Distance(q Point) float64 {
	return p.Sub(q).Length()
}

// Lerp returns the linear interpolation between p and q at t in [0,1].
func (p Point) Lerp(q Point, t float64) Point {
	return Point{
		Lat: p.Lat + (q.Lat-p.Lat)*t,
		Lon: p.Lon + (q.Lon-p.Lon)*t,
	}
}

// Round returns p with both coordinates rounded to the given number of
// decimal digits.
func (p Point) Round(digits int) Point {
	return Point{Lat: RoundTo(p.Lat, digits), Lon: RoundTo(p.Lon, digits)}
}

// Orb returns the point as an orb.Point (x = lon, y = lat).
func (p Point) Orb() orb.Point {
	return orb.Point{p.Lon, p.Lat}
}

// FromOrb converts an orb.Point back to a Point.
func FromOrb(op orb.Point) Point {
	return Point{Lat: op.Y(), Lon: op.X()}
}

func (p Point) String() string {
	return fmt.Sprintf("(%.7f, %.7f)", p.Lat, p.Lon)
}

// RoundTo rounds v to the given number of decimal digits. It goes through
// the shortest decimal formatting so the result is the float closest to
// the rounded decimal value.
func RoundTo(v float64, digits int) float64 {
	r, err := strconv.ParseFloat(strconv.FormatFloat(v, 'f', digits, 64), 64)
	if err != nil {
		return v
	}
	return r
}
