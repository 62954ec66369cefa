// Package repair rewrites a flight plan so that every leg stays inside the
// inner margin of its geofence.
package repair

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/ScriptKitty10/AmadorUAVs-2024/pkg/boundary"
	"github.com/ScriptKitty10/AmadorUAVs-2024/pkg/geo"
	"github.com/ScriptKitty10/AmadorUAVs-2024/pkg/routing"
)

// DefaultSamples is the number of boundary samples taken along a detour.
const DefaultSamples = 4

// Repairer walks a flight plan leg by leg and routes legs that leave the
// inner margin along its boundary. A Repairer holds no state between calls
// and may be used concurrently.
type Repairer struct {
	Geometry boundary.Geometry
	// Samples is the sample count passed to the arc router per detour.
	Samples int
	Logger  *slog.Logger
}

// New returns a Repairer using g with default settings.
func New(g boundary.Geometry) *Repairer {
	return &Repairer{Geometry: g, Samples: DefaultSamples}
}

// Leg describes what happened to one leg of the original plan.
type Leg struct {
	Index       int       `json:"index"`
	From        geo.Point `json:"from"`
	To          geo.Point `json:"to"`
	FromSnapped bool      `json:"from_snapped"`
	ToSnapped   bool      `json:"to_snapped"`
	Detour      bool      `json:"detour"`
	// Direction and ArcLength describe the boundary arc of a detour.
	Direction string  `json:"direction,omitempty"`
	ArcLength float64 `json:"arc_length,omitempty"`
	// Inserted counts the boundary points added between From and To.
	Inserted int `json:"inserted"`
}

// Result is a repaired flight plan.
type Result struct {
	Plan []geo.Point `json:"plan"`
	Legs []Leg       `json:"legs"`
}

// Detours returns the number of legs that were routed along the boundary.
func (r *Result) Detours() int {
	n := 0
	for _, l := range r.Legs {
		if l.Detour {
			n++
		}
	}
	return n
}

// Snapped returns the number of original waypoints moved onto the inner
// margin.
func (r *Result) Snapped() int {
	n := 0
	for i, l := range r.Legs {
		if l.FromSnapped {
			n++
		}
		if i == len(r.Legs)-1 && l.ToSnapped {
			n++
		}
	}
	return n
}

// endpoint is a leg endpoint after snapping. arc is valid only when
// snapped is true.
type endpoint struct {
	p       geo.Point
	arc     float64
	snapped bool
}

// Repair returns the repaired version of plan against inner. The input
// slice is not modified. A plan with fewer than two waypoints has no legs
// and yields an empty plan. On error no partial result is returned.
func (r *Repairer) Repair(plan []geo.Point, inner geo.Ring) (*Result, error) {
	g := r.Geometry
	if g == nil {
		g = boundary.NewPlanar()
	}
	samples := r.Samples
	if samples <= 0 {
		samples = DefaultSamples
	}
	log := r.Logger
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	res := &Result{Plan: []geo.Point{}, Legs: []Leg{}}
	if len(plan) < 2 {
		return res, nil
	}

	out := make([]geo.Point, 0, len(plan))
	add := func(p geo.Point) bool {
		if len(out) > 0 && out[len(out)-1] == p {
			return false
		}
		out = append(out, p)
		return true
	}

	for i := 0; i+1 < len(plan); i++ {
		last := i+2 == len(plan)

		a, err := r.snap(g, inner, plan[i])
		if err != nil {
			return nil, fmt.Errorf("leg %d: %w", i, err)
		}
		b, err := r.snap(g, inner, plan[i+1])
		if err != nil {
			return nil, fmt.Errorf("leg %d: %w", i, err)
		}

		leg := Leg{Index: i, From: a.p, To: b.p, FromSnapped: a.snapped, ToSnapped: b.snapped}

		if g.SegmentWithin(inner, a.p, b.p) {
			add(a.p)
			if last {
				add(b.p)
			}
		} else {
			add(a.p)
			start, err := r.arcOf(g, inner, a)
			if err != nil {
				return nil, fmt.Errorf("leg %d: %w", i, err)
			}
			end, err := r.arcOf(g, inner, b)
			if err != nil {
				return nil, fmt.Errorf("leg %d: %w", i, err)
			}

			detour := routing.ShortestArc(inner, start, end, samples)
			if len(detour) > 0 && detour[0] == a.p {
				detour = detour[1:]
			}
			if len(detour) > 0 && detour[len(detour)-1] == b.p {
				detour = detour[:len(detour)-1]
			}
			for _, p := range detour {
				if add(p) {
					leg.Inserted++
				}
			}
			if last {
				add(b.p)
			}

			leg.Detour = true
			leg.Direction = routing.Direction(inner, start, end).String()
			leg.ArcLength = routing.ArcLength(inner, start, end)
		}

		res.Legs = append(res.Legs, leg)

		log.Debug("leg repaired",
			"leg", i,
			"detour", leg.Detour,
			"from_snapped", leg.FromSnapped,
			"to_snapped", leg.ToSnapped,
			"inserted", leg.Inserted,
		)
	}

	res.Plan = out
	return res, nil
}

// snap moves p onto the boundary of inner when it lies outside.
func (r *Repairer) snap(g boundary.Geometry, inner geo.Ring, p geo.Point) (endpoint, error) {
	if g.Contains(inner, p) {
		return endpoint{p: p}, nil
	}
	q, arc, err := g.Project(inner, p)
	if err != nil {
		return endpoint{}, boundary.WithRing(err, "inner margin")
	}
	return endpoint{p: q, arc: arc, snapped: true}, nil
}

// arcOf returns the arc position of e on inner, reusing the position found
// while snapping.
func (r *Repairer) arcOf(g boundary.Geometry, inner geo.Ring, e endpoint) (float64, error) {
	if e.snapped {
		return e.arc, nil
	}
	_, arc, err := g.Project(inner, e.p)
	if err != nil {
		return 0, boundary.WithRing(err, "inner margin")
	}
	return arc, nil
}
