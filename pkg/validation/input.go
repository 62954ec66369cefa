package validation

import (
	"fmt"
	"math"

	"github.com/ScriptKitty10/AmadorUAVs-2024/pkg/geo"
	"github.com/ScriptKitty10/AmadorUAVs-2024/pkg/plan"
)

// ValidateInput checks a parsed input before any geometry is run.
func ValidateInput(in *plan.Input) *Report {
	r := NewReport()

	validateCoordinates(in.Geofence, "geofence", r)
	validateCoordinates(in.Waypoints, "waypoints", r)
	if !r.Valid {
		return r
	}
	validateGeofence(in.Geofence, r)
	validateWaypoints(in, r)

	return r
}

func validateCoordinates(pts []geo.Point, field string, r *Report) {
	for i, p := range pts {
		path := fmt.Sprintf("%s[%d]", field, i)
		if !finite(p.Lat) || !finite(p.Lon) {
			r.AddError(Result{
				Level:       LevelInput,
				Message:     fmt.Sprintf("%s is not a finite coordinate", path),
				Field:       path,
				ActualValue: p.String(),
			})
			continue
		}
		if p.Lat < -90 || p.Lat > 90 {
			r.AddError(Result{
				Level:       LevelInput,
				Message:     fmt.Sprintf("%s latitude %.7f is out of range", path, p.Lat),
				Field:       path,
				ActualValue: p.Lat,
				Expected:    "-90 to 90",
				Suggestions: []string{"Check that each line lists latitude before longitude"},
			})
		}
		if p.Lon < -180 || p.Lon > 180 {
			r.AddError(Result{
				Level:       LevelInput,
				Message:     fmt.Sprintf("%s longitude %.7f is out of range", path, p.Lon),
				Field:       path,
				ActualValue: p.Lon,
				Expected:    "-180 to 180",
			})
		}
	}
}

func validateGeofence(pts []geo.Point, r *Report) {
	n := len(pts)
	if n > 1 && pts[0] == pts[n-1] {
		r.AddInfo(Result{
			Level:   LevelInput,
			Message: "geofence repeats its first vertex at the end; the ring is closed implicitly",
			Field:   fmt.Sprintf("geofence[%d]", n-1),
		})
		n--
	}
	verts := pts[:n]

	if n < 3 {
		r.AddError(Result{
			Level:       LevelInput,
			Message:     fmt.Sprintf("geofence needs at least 3 vertices (got %d)", n),
			Field:       "geofence",
			ActualValue: n,
			Expected:    ">= 3",
		})
		return
	}

	uniq := []geo.Point{verts[0]}
	for i := 1; i < n; i++ {
		if verts[i] == verts[i-1] {
			r.AddWarning(Result{
				Level:   LevelInput,
				Message: fmt.Sprintf("geofence vertex %d repeats vertex %d", i, i-1),
				Field:   fmt.Sprintf("geofence[%d]", i),
			})
			continue
		}
		uniq = append(uniq, verts[i])
	}

	ring := geo.NewRing(uniq...)
	n = ring.Len()
	if ring.Area() == 0 {
		r.AddError(Result{
			Level:   LevelGeometry,
			Message: "geofence encloses no area",
			Field:   "geofence",
		})
		return
	}

	// Non-adjacent edges must not meet.
	for i := 0; i < n; i++ {
		a, b := ring.Edge(i)
		for j := i + 2; j < n; j++ {
			if i == 0 && j == n-1 {
				continue
			}
			c, d := ring.Edge(j)
			if geo.SegmentsIntersect(a, b, c, d) {
				r.AddError(Result{
					Level:        LevelGeometry,
					Message:      fmt.Sprintf("geofence edge %d crosses edge %d", i, j),
					Field:        fmt.Sprintf("geofence[%d]", i),
					ConflictWith: fmt.Sprintf("geofence[%d]", j),
					Suggestions:  []string{"List the vertices in traversal order around the boundary"},
				})
			}
		}
	}
}

func validateWaypoints(in *plan.Input, r *Report) {
	if len(in.Waypoints) < 2 {
		r.AddError(Result{
			Level:       LevelInput,
			Message:     fmt.Sprintf("flight plan needs at least 2 waypoints (got %d)", len(in.Waypoints)),
			Field:       "waypoints",
			ActualValue: len(in.Waypoints),
			Expected:    ">= 2",
		})
	}

	fence := in.Fence()
	if fence.IsEmpty() {
		return
	}
	for i, p := range in.Waypoints {
		if !fence.Contains(p) {
			r.AddInfo(Result{
				Level:   LevelInput,
				Message: fmt.Sprintf("waypoint %d lies outside the geofence and will be moved onto the inner margin", i),
				Field:   fmt.Sprintf("waypoints[%d]", i),
			})
		}
	}
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
