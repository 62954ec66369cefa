package repair

import (
	"bytes"
	"errors"
	"log/slog"
	"strings"
	"testing"

	"github.com/ScriptKitty10/AmadorUAVs-2024/pkg/boundary"
	"github.com/ScriptKitty10/AmadorUAVs-2024/pkg/geo"
)

// xy builds a point from planar (x, y) = (lon, lat) coordinates.
func xy(x, y float64) geo.Point {
	return geo.Pt(y, x)
}

// lShape is the 2x2 square with its upper right quadrant removed. Arc
// position 0 is at (0, 0); the reflex vertex (1, 1) is at arc 4.
func lShape() geo.Ring {
	return geo.NewRing(xy(0, 0), xy(2, 0), xy(2, 1), xy(1, 1), xy(1, 2), xy(0, 2))
}

// lShapeFromReflex is the same region with arc position 0 at the reflex
// vertex.
func lShapeFromReflex() geo.Ring {
	return geo.NewRing(xy(1, 1), xy(1, 2), xy(0, 2), xy(0, 0), xy(2, 0), xy(2, 1))
}

func fieldSquare(sideFt float64) geo.Ring {
	s := sideFt / boundary.FeetPerDegree
	o := geo.Pt(38.5, -121.5)
	return geo.NewRing(o, o.Add(geo.Pt(0, s)), o.Add(geo.Pt(s, s)), o.Add(geo.Pt(s, 0)))
}

func assertPlan(t *testing.T, got, want []geo.Point) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("expected %d points, got %d: %v", len(want), len(got), got)
	}
	for i := range want {
		if got[i].Distance(want[i]) > 1e-12 {
			t.Errorf("point %d: expected %v, got %v", i, want[i], got[i])
		}
	}
}

func assertInvariants(t *testing.T, g boundary.Geometry, plan []geo.Point, inner geo.Ring) {
	t.Helper()
	r := ValidateRoute(g, plan, inner)
	if !r.Valid {
		t.Errorf("route invariants violated: %v", r.Errors)
	}
}

func TestRepairUnchangedWhenInside(t *testing.T) {
	g := boundary.NewPlanar()
	plan := []geo.Point{xy(0.5, 1.5), xy(0.5, 0.5), xy(1.5, 0.5), xy(1.8, 0.2)}
	res, err := New(g).Repair(plan, lShape())
	if err != nil {
		t.Fatalf("repair: %v", err)
	}
	assertPlan(t, res.Plan, plan)
	if res.Detours() != 0 || res.Snapped() != 0 {
		t.Errorf("expected no detours or snaps, got %d and %d", res.Detours(), res.Snapped())
	}
	if len(res.Legs) != 3 {
		t.Errorf("expected 3 legs, got %d", len(res.Legs))
	}
}

func TestRepairDetourAroundNotch(t *testing.T) {
	g := boundary.NewPlanar()
	inner := lShape()
	// The second waypoint lies outside, above the notch, and snaps to the
	// convex corner (1, 2). The straight leg would cut across the notch.
	plan := []geo.Point{xy(1.5, 0.9), xy(1.2, 2.2)}

	res, err := New(g).Repair(plan, inner)
	if err != nil {
		t.Fatalf("repair: %v", err)
	}
	assertPlan(t, res.Plan, []geo.Point{
		xy(1.5, 0.9),
		xy(1.5, 1),
		xy(1, 1),
		xy(1, 1.5),
		xy(1, 2),
	})
	assertInvariants(t, g, res.Plan, inner)

	leg := res.Legs[0]
	if !leg.Detour || leg.FromSnapped || !leg.ToSnapped {
		t.Errorf("unexpected leg diagnostics %+v", leg)
	}
	if leg.Inserted != 3 || leg.Inserted > DefaultSamples {
		t.Errorf("expected 3 inserted points, got %d", leg.Inserted)
	}
	if leg.Direction != "forward" {
		t.Errorf("expected forward detour, got %q", leg.Direction)
	}
}

func TestRepairDetourAcrossRingOrigin(t *testing.T) {
	g := boundary.NewPlanar()
	inner := lShapeFromReflex()
	plan := []geo.Point{xy(1.5, 0.9), xy(1.2, 2.2)}

	res, err := New(g).Repair(plan, inner)
	if err != nil {
		t.Fatalf("repair: %v", err)
	}
	// The arc router emits the origin (1, 1) twice here; it must appear once.
	assertPlan(t, res.Plan, []geo.Point{xy(1.5, 0.9), xy(1.5, 1), xy(1, 1), xy(1, 2)})
	assertInvariants(t, g, res.Plan, inner)
}

func TestRepairPreservesOrder(t *testing.T) {
	g := boundary.NewPlanar()
	inner := lShape()
	plan := []geo.Point{xy(0.5, 1.5), xy(0.5, 0.5), xy(1.5, 0.9), xy(1.2, 2.2)}

	res, err := New(g).Repair(plan, inner)
	if err != nil {
		t.Fatalf("repair: %v", err)
	}
	assertInvariants(t, g, res.Plan, inner)

	// Unsnapped originals appear in their original order.
	next := 0
	for _, p := range res.Plan {
		if next < 3 && p == plan[next] {
			next++
		}
	}
	if next != 3 {
		t.Errorf("expected the first 3 waypoints in order, matched %d in %v", next, res.Plan)
	}
	if last := res.Plan[len(res.Plan)-1]; last != xy(1, 2) {
		t.Errorf("expected plan to end at the snapped waypoint, got %v", last)
	}
	if res.Snapped() != 1 || res.Detours() != 1 {
		t.Errorf("expected 1 snap and 1 detour, got %d and %d", res.Snapped(), res.Detours())
	}
}

func TestRepairNoConsecutiveDuplicates(t *testing.T) {
	g := boundary.NewPlanar()
	inner := lShape()
	// Repeated waypoints and two outside points that snap to the same spot.
	plan := []geo.Point{xy(0.5, 0.5), xy(0.5, 0.5), xy(-1, 0.5), xy(-2, 0.5), xy(1.5, 0.5)}

	res, err := New(g).Repair(plan, inner)
	if err != nil {
		t.Fatalf("repair: %v", err)
	}
	for i := 1; i < len(res.Plan); i++ {
		if res.Plan[i] == res.Plan[i-1] {
			t.Errorf("points %d and %d are equal: %v", i-1, i, res.Plan[i])
		}
	}
	assertPlan(t, res.Plan, []geo.Point{xy(0.5, 0.5), xy(0, 0.5), xy(1.5, 0.5)})
}

func TestRepairDoesNotMutateInput(t *testing.T) {
	plan := []geo.Point{xy(1.5, 0.9), xy(1.2, 2.2)}
	orig := append([]geo.Point(nil), plan...)
	if _, err := New(boundary.NewPlanar()).Repair(plan, lShape()); err != nil {
		t.Fatalf("repair: %v", err)
	}
	for i := range orig {
		if plan[i] != orig[i] {
			t.Errorf("input point %d changed from %v to %v", i, orig[i], plan[i])
		}
	}
}

func TestRepairShortPlan(t *testing.T) {
	r := New(boundary.NewPlanar())
	for _, plan := range [][]geo.Point{nil, {xy(0.5, 0.5)}} {
		res, err := r.Repair(plan, lShape())
		if err != nil {
			t.Fatalf("repair: %v", err)
		}
		if len(res.Plan) != 0 || len(res.Legs) != 0 {
			t.Errorf("expected empty result for %d waypoints, got %v", len(plan), res.Plan)
		}
	}
}

func TestRepairDegenerateRing(t *testing.T) {
	inner := geo.NewRing(xy(0, 0), xy(1, 1))
	res, err := New(boundary.NewPlanar()).Repair([]geo.Point{xy(0.5, 0.5), xy(2, 2)}, inner)
	if res != nil {
		t.Error("expected no partial result on failure")
	}
	var pe *boundary.ProjectionError
	if !errors.As(err, &pe) {
		t.Fatalf("expected ProjectionError, got %v", err)
	}
	if pe.Ring != "inner margin" {
		t.Errorf("expected ring to be named, got %q", pe.Ring)
	}
}

func TestRepairFieldInsideUnchanged(t *testing.T) {
	g := boundary.NewPlanar()
	b, err := boundary.Derive(g, fieldSquare(600), boundary.DefaultMargins())
	if err != nil {
		t.Fatalf("derive: %v", err)
	}
	c := b.Geofence.Centroid()
	d := 100 / boundary.FeetPerDegree
	plan := []geo.Point{
		c.Add(geo.Pt(-d, -d)),
		c.Add(geo.Pt(d, -d)),
		c.Add(geo.Pt(d, d)),
		c.Add(geo.Pt(-d, d)),
	}
	res, err := New(g).Repair(plan, b.Inner)
	if err != nil {
		t.Fatalf("repair: %v", err)
	}
	if len(res.Plan) != len(plan) {
		t.Fatalf("expected %d points, got %d", len(plan), len(res.Plan))
	}
	for i := range plan {
		if res.Plan[i].Round(7) != plan[i].Round(7) {
			t.Errorf("point %d changed: %v -> %v", i, plan[i], res.Plan[i])
		}
	}
}

func TestRepairFieldSnapsOutsideWaypoint(t *testing.T) {
	g := boundary.NewPlanar()
	fence := fieldSquare(600)
	b, err := boundary.Derive(g, fence, boundary.DefaultMargins())
	if err != nil {
		t.Fatalf("derive: %v", err)
	}
	c := fence.Centroid()
	outside := c.Add(geo.Pt(400/boundary.FeetPerDegree, 0))
	plan := []geo.Point{c, outside, c.Add(geo.Pt(0, 100/boundary.FeetPerDegree))}

	res, err := New(g).Repair(plan, b.Inner)
	if err != nil {
		t.Fatalf("repair: %v", err)
	}
	assertInvariants(t, g, res.Plan, b.Inner)
	if res.Snapped() != 1 {
		t.Errorf("expected 1 snapped waypoint, got %d", res.Snapped())
	}
	for _, p := range res.Plan {
		if !fence.Contains(p) {
			t.Errorf("repaired point %v lies outside the geofence", p)
		}
	}
}

func TestRepairLogsLegs(t *testing.T) {
	var buf bytes.Buffer
	r := New(boundary.NewPlanar())
	r.Logger = slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	if _, err := r.Repair([]geo.Point{xy(1.5, 0.9), xy(1.2, 2.2)}, lShape()); err != nil {
		t.Fatalf("repair: %v", err)
	}
	if !strings.Contains(buf.String(), "leg repaired") || !strings.Contains(buf.String(), "detour=true") {
		t.Errorf("expected a debug line per leg, got %q", buf.String())
	}
}

func TestValidateRouteFindsProblems(t *testing.T) {
	g := boundary.NewPlanar()
	plan := []geo.Point{xy(0.5, 1.8), xy(0.5, 1.8), xy(1.8, 0.5)}
	r := ValidateRoute(g, plan, lShape())
	if r.Valid {
		t.Fatal("expected invalid route")
	}
	if len(r.Errors) != 2 {
		t.Errorf("expected 2 errors, got %d: %v", len(r.Errors), r.Errors)
	}
	if !r.HasField("route[1]") || !r.HasField("route[2]") {
		t.Errorf("unexpected fields: %v", r.Errors)
	}
}
