package pipeline

import (
	"context"
	"errors"
	"testing"

	"github.com/ScriptKitty10/AmadorUAVs-2024/pkg/boundary"
	"github.com/ScriptKitty10/AmadorUAVs-2024/pkg/config"
	"github.com/ScriptKitty10/AmadorUAVs-2024/pkg/geo"
	"github.com/ScriptKitty10/AmadorUAVs-2024/pkg/mission"
	"github.com/ScriptKitty10/AmadorUAVs-2024/pkg/plan"
)

func fieldInput(sideFt float64) *plan.Input {
	s := sideFt / boundary.FeetPerDegree
	o := geo.Pt(38.5, -121.5)
	c := o.Add(geo.Pt(s/2, s/2))
	d := 100 / boundary.FeetPerDegree
	return &plan.Input{
		Name:     "field",
		Geofence: []geo.Point{o, o.Add(geo.Pt(0, s)), o.Add(geo.Pt(s, s)), o.Add(geo.Pt(s, 0))},
		Waypoints: []geo.Point{
			c,
			c.Add(geo.Pt(4*d, 0)), // outside, gets snapped
			c.Add(geo.Pt(0, d)),
		},
	}
}

func newPipeline(t *testing.T) *Pipeline {
	t.Helper()
	p, err := New(config.Default(), nil)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	return p
}

func TestRun(t *testing.T) {
	p := newPipeline(t)
	in := fieldInput(600)
	out, err := p.Run(context.Background(), in)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if out.ID == "" || out.Name != "field" {
		t.Errorf("unexpected identity %q %q", out.ID, out.Name)
	}
	if out.CacheHit {
		t.Error("first run should miss the cache")
	}
	if out.Result.Snapped() != 1 {
		t.Errorf("expected 1 snapped waypoint, got %d", out.Result.Snapped())
	}
	if len(out.Document.Waypoints()) != len(out.Result.Plan) {
		t.Errorf("document has %d waypoints, plan has %d", len(out.Document.Waypoints()), len(out.Result.Plan))
	}
	if got := len(out.Document.GeoFence.Polygons[0].Polygon); got != 4 {
		t.Errorf("expected the original 4 fence vertices, got %d", got)
	}
	if !out.Validation.Valid {
		t.Errorf("expected valid run, got %v", out.Validation.Errors)
	}

	again, err := p.Run(context.Background(), in)
	if err != nil {
		t.Fatalf("second Run failed: %v", err)
	}
	if !again.CacheHit {
		t.Error("second run should hit the cache")
	}
	if again.ID == out.ID {
		t.Error("each run should get its own id")
	}
}

func TestRunInputError(t *testing.T) {
	in := fieldInput(600)
	in.Waypoints = in.Waypoints[:1]
	_, err := newPipeline(t).Run(context.Background(), in)
	var ie *InputError
	if !errors.As(err, &ie) {
		t.Fatalf("expected InputError, got %v", err)
	}
	if !ie.Report.HasField("waypoints") {
		t.Errorf("expected waypoints finding, got %v", ie.Report.Errors)
	}
}

func TestRunMarginsTooLarge(t *testing.T) {
	in := fieldInput(100)
	in.Margins = &boundary.Margins{PrimaryFt: 25, BufferFt: 40}
	_, err := newPipeline(t).Run(context.Background(), in)
	var ge *boundary.GeometryError
	if !errors.As(err, &ge) {
		t.Fatalf("expected GeometryError, got %v", err)
	}
	if ge.Ring != "inner margin" {
		t.Errorf("expected inner margin to fail, got %q", ge.Ring)
	}
}

func TestRunCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := newPipeline(t).Run(ctx, fieldInput(600)); !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestRunUsesParams(t *testing.T) {
	cfg := config.Default()
	cfg.Mission.AltitudeFt = 200
	p, err := New(cfg, nil)
	if err != nil {
		t.Fatal(err)
	}
	out, err := p.Run(context.Background(), fieldInput(600))
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if got := *out.Document.Mission.Items[1].Altitude; got != 200*mission.MetersPerFoot {
		t.Errorf("expected 60.96 m, got %f", got)
	}
}
