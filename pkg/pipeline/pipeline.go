// Package pipeline runs the full repair of one input: validate, derive
// rings, repair, serialize.
package pipeline

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/google/uuid"

	"github.com/ScriptKitty10/AmadorUAVs-2024/pkg/boundary"
	"github.com/ScriptKitty10/AmadorUAVs-2024/pkg/config"
	"github.com/ScriptKitty10/AmadorUAVs-2024/pkg/mission"
	"github.com/ScriptKitty10/AmadorUAVs-2024/pkg/plan"
	"github.com/ScriptKitty10/AmadorUAVs-2024/pkg/repair"
	"github.com/ScriptKitty10/AmadorUAVs-2024/pkg/validation"
)

// InputError means the input failed validation before any geometry ran.
type InputError struct {
	Report *validation.Report
}

func (e *InputError) Error() string {
	if len(e.Report.Errors) > 0 {
		return fmt.Sprintf("invalid input (%s): %s", e.Report.Summary, e.Report.Errors[0].Message)
	}
	return fmt.Sprintf("invalid input (%s)", e.Report.Summary)
}

// Pipeline holds what is shared between runs. It is safe for concurrent
// use.
type Pipeline struct {
	Cache    *boundary.Cache
	Repairer *repair.Repairer
	Margins  boundary.Margins
	Params   mission.Params
	Logger   *slog.Logger
}

// New builds a pipeline from cfg with its own ring cache.
func New(cfg *config.Config, log *slog.Logger) (*Pipeline, error) {
	g := cfg.Planar()
	cache, err := boundary.NewCache(g, cfg.Cache.Size)
	if err != nil {
		return nil, fmt.Errorf("creating boundary cache: %w", err)
	}
	return &Pipeline{
		Cache:    cache,
		Repairer: cfg.Repairer(g),
		Margins:  cfg.Margins,
		Params:   cfg.Mission,
		Logger:   log,
	}, nil
}

// Output is the result of one run.
type Output struct {
	ID         string               `json:"id"`
	Name       string               `json:"name,omitempty"`
	Boundaries *boundary.Boundaries `json:"boundaries"`
	Result     *repair.Result       `json:"result"`
	Document   *mission.Document    `json:"mission"`
	Validation *validation.Report   `json:"validation"`
	CacheHit   bool                 `json:"cache_hit"`
}

// Run repairs in and builds its mission document. The returned report
// merges input, route and document findings; only input errors stop the
// run. Geometry and serialization failures are returned as errors.
func (p *Pipeline) Run(ctx context.Context, in *plan.Input) (*Output, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	log := p.Logger
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	id := uuid.NewString()
	log = log.With("run", id, "input", in.Name)

	report := validation.ValidateInput(in)
	if !report.Valid {
		log.Warn("input rejected", "summary", report.Summary)
		return nil, &InputError{Report: report}
	}

	margins := in.MarginsOr(p.Margins)
	b, hit, err := p.Cache.Derive(in.Fence(), margins)
	if err != nil {
		return nil, err
	}
	log.Debug("boundaries ready",
		"cache_hit", hit,
		"safety_vertices", b.Safety.Len(),
		"inner_vertices", b.Inner.Len(),
	)

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r := *p.Repairer
	if r.Geometry == nil {
		r.Geometry = boundary.NewPlanar()
	}
	r.Logger = log
	res, err := r.Repair(in.Waypoints, b.Inner)
	if err != nil {
		return nil, fmt.Errorf("repairing plan: %w", err)
	}
	report.Merge(repair.ValidateRoute(r.Geometry, res.Plan, b.Inner))

	doc, err := mission.Serialize(res.Plan, in.Geofence, p.Params)
	if err != nil {
		return nil, err
	}
	report.Merge(mission.ValidateDocument(doc))

	log.Info("plan repaired",
		"waypoints", len(in.Waypoints),
		"repaired", len(res.Plan),
		"detours", res.Detours(),
		"snapped", res.Snapped(),
	)

	return &Output{
		ID:         id,
		Name:       in.Name,
		Boundaries: b,
		Result:     res,
		Document:   doc,
		Validation: report,
		CacheHit:   hit,
	}, nil
}
