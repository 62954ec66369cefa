package boundary

import (
	"errors"
	"fmt"

	"github.com/ScriptKitty10/AmadorUAVs-2024/pkg/geo"
)

var (
	// ErrEmptyOffset means the inward offset consumed the whole region.
	ErrEmptyOffset = errors.New("offset distance leaves no region")
	// ErrSplitOffset means the inward offset pinched the region into
	// several disjoint rings.
	ErrSplitOffset = errors.New("offset splits the region into several rings")
	// ErrDegenerateRing means a ring has fewer than 3 vertices, zero area
	// or zero perimeter.
	ErrDegenerateRing = errors.New("degenerate ring")
	// ErrNegativeDistance means an inward offset was asked for a negative
	// distance.
	ErrNegativeDistance = errors.New("offset distance must not be negative")
)

// GeometryError reports a failed ring construction.
type GeometryError struct {
	Ring     string  // which ring, e.g. "geofence" or "inner margin"
	Op       string  // the failing operation
	Distance float64 // offset distance in degrees, when Op is "offset"
	Err      error
}

func (e *GeometryError) Error() string {
	if e.Op == "offset" {
		return fmt.Sprintf("geometry: offset %s by %.9g°: %v", e.Ring, e.Distance, e.Err)
	}
	return fmt.Sprintf("geometry: %s %s: %v", e.Op, e.Ring, e.Err)
}

func (e *GeometryError) Unwrap() error { return e.Err }

// ProjectionError reports a projection against a ring that has no usable
// boundary.
type ProjectionError struct {
	Ring  string
	Point geo.Point
	Err   error
}

func (e *ProjectionError) Error() string {
	return fmt.Sprintf("projection: %v onto %s: %v", e.Point, e.Ring, e.Err)
}

func (e *ProjectionError) Unwrap() error { return e.Err }

// describe gives a short identification of an unnamed ring for error
// messages.
func describe(r geo.Ring) string {
	return fmt.Sprintf("%d-vertex ring", r.Len())
}

// WithRing fills in the ring name of a GeometryError or ProjectionError
// carried by err. Other errors are returned as is.
func WithRing(err error, name string) error {
	var ge *GeometryError
	if errors.As(err, &ge) {
		ge.Ring = name
		return err
	}
	var pe *ProjectionError
	if errors.As(err, &pe) {
		pe.Ring = name
	}
	return err
}
