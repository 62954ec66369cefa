// Package boundary derives the safety rings a flight plan is repaired
// against and exposes the polygon operations the repairer needs.
package boundary

import (
	"fmt"

	"github.com/ScriptKitty10/AmadorUAVs-2024/pkg/geo"
)

// FeetPerDegree converts margin distances to degrees. One degree of
// latitude is roughly 364,000 ft; the same factor is used for longitude,
// which is adequate over the size of a flying field.
const FeetPerDegree = 364000.0

// Geometry is the polygon capability the repairer depends on.
type Geometry interface {
	// Offset shrinks ring inward by distance degrees.
	Offset(ring geo.Ring, distance float64) (geo.Ring, error)
	// Contains reports whether p lies in the closed region bounded by ring.
	Contains(ring geo.Ring, p geo.Point) bool
	// SegmentWithin reports whether the straight segment p0→p1 lies
	// entirely in the closed region bounded by ring.
	SegmentWithin(ring geo.Ring, p0, p1 geo.Point) bool
	// Project returns the point on ring's boundary nearest to p and its arc
	// position.
	Project(ring geo.Ring, p geo.Point) (geo.Point, float64, error)
}

// Margins are the inward offsets, in feet, applied to a geofence.
type Margins struct {
	PrimaryFt float64 `json:"primary_ft" yaml:"primary_ft" mapstructure:"primary_ft"`
	BufferFt  float64 `json:"buffer_ft" yaml:"buffer_ft" mapstructure:"buffer_ft"`
}

// DefaultMargins returns the margins used when none are configured.
func DefaultMargins() Margins {
	return Margins{PrimaryFt: 25, BufferFt: 23}
}

// Validate checks the margins are usable.
func (m Margins) Validate() error {
	if m.PrimaryFt < 0 {
		return fmt.Errorf("primary margin must not be negative (got %g ft)", m.PrimaryFt)
	}
	if m.BufferFt < 0 {
		return fmt.Errorf("buffer margin must not be negative (got %g ft)", m.BufferFt)
	}
	return nil
}

// SafetyDistance is the offset of the safety boundary, in degrees.
func (m Margins) SafetyDistance() float64 {
	return m.PrimaryFt / FeetPerDegree
}

// InnerDistance is the offset of the inner margin, in degrees.
func (m Margins) InnerDistance() float64 {
	return (m.PrimaryFt + m.BufferFt) / FeetPerDegree
}

// Boundaries holds a geofence and the two rings derived from it. The rings
// are immutable and may be shared between concurrent repairs.
type Boundaries struct {
	Geofence geo.Ring `json:"geofence"`
	Safety   geo.Ring `json:"safety"`
	Inner    geo.Ring `json:"inner"`
	Margins  Margins  `json:"margins"`
}

// Derive shrinks fence by the primary margin to get the safety boundary,
// and by primary plus buffer to get the inner margin.
func Derive(g Geometry, fence geo.Ring, m Margins) (*Boundaries, error) {
	if err := m.Validate(); err != nil {
		return nil, fmt.Errorf("deriving boundaries: %w", err)
	}
	if fence.IsEmpty() {
		return nil, &GeometryError{Ring: "geofence", Op: "derive", Err: ErrDegenerateRing}
	}

	safety, err := g.Offset(fence, m.SafetyDistance())
	if err != nil {
		return nil, WithRing(err, "safety boundary")
	}
	inner, err := g.Offset(fence, m.InnerDistance())
	if err != nil {
		return nil, WithRing(err, "inner margin")
	}

	return &Boundaries{
		Geofence: fence,
		Safety:   safety,
		Inner:    inner,
		Margins:  m,
	}, nil
}
