package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/ScriptKitty10/AmadorUAVs-2024/internal/server"
	"github.com/ScriptKitty10/AmadorUAVs-2024/pkg/mission"
	"github.com/ScriptKitty10/AmadorUAVs-2024/pkg/pipeline"
	"github.com/ScriptKitty10/AmadorUAVs-2024/pkg/plan"
	"github.com/ScriptKitty10/AmadorUAVs-2024/pkg/report"
	"github.com/ScriptKitty10/AmadorUAVs-2024/pkg/validation"
)

type repairOptions struct {
	output  string
	geojson string
	quiet   bool
}

type batchOptions struct {
	outDir string
	jobs   int
}

func runRepair(ctx context.Context, a *app, path string, opts repairOptions) error {
	in, err := plan.Load(path)
	if err != nil {
		return err
	}
	p, err := pipeline.New(a.cfg, a.log)
	if err != nil {
		return err
	}

	out, err := p.Run(ctx, in)
	if err != nil {
		var ie *pipeline.InputError
		if errors.As(err, &ie) {
			printValidationReport(ie.Report)
			return errInvalid
		}
		return err
	}

	if err := mission.WriteFile(opts.output, out.Document); err != nil {
		return err
	}
	if opts.geojson != "" {
		fc := report.GeoJSON(out.Boundaries, in.Waypoints, out.Result.Plan)
		if err := report.WriteGeoJSON(opts.geojson, fc); err != nil {
			return err
		}
	}

	if !opts.quiet {
		report.WriteListing(os.Stdout, in.Waypoints, out.Result)
		if len(out.Validation.Errors) > 0 || len(out.Validation.Warnings) > 0 {
			fmt.Println()
			printValidationReport(out.Validation)
		}
		fmt.Printf("Wrote %s\n", opts.output)
	}
	return nil
}

func runValidate(a *app, paths []string) error {
	valid := true
	for i, path := range paths {
		r, err := validateFile(path)
		if err != nil {
			return err
		}
		if len(paths) > 1 {
			if i > 0 {
				fmt.Println()
			}
			fmt.Printf("== %s\n", path)
		}
		printValidationReport(r)
		a.log.Debug("validated", "file", path, "summary", r.Summary)
		valid = valid && r.Valid
	}
	if !valid {
		return errInvalid
	}
	return nil
}

// validateFile checks an input file, or a mission document when path has
// the .plan extension.
func validateFile(path string) (*validation.Report, error) {
	if strings.EqualFold(filepath.Ext(path), filepath.Ext(mission.DefaultFile)) {
		doc, err := mission.ReadFile(path)
		if err != nil {
			return nil, err
		}
		return mission.ValidateDocument(doc), nil
	}
	in, err := plan.Load(path)
	if err != nil {
		return nil, err
	}
	return validation.ValidateInput(in), nil
}

// batchResult is the outcome of one input in a batch.
type batchResult struct {
	input  string
	output string
	out    *pipeline.Output
	err    error
}

func runBatch(ctx context.Context, a *app, paths []string, opts batchOptions) error {
	if err := os.MkdirAll(opts.outDir, 0o755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}
	p, err := pipeline.New(a.cfg, a.log)
	if err != nil {
		return err
	}

	var (
		mu      sync.Mutex
		results []batchResult
	)
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(max(opts.jobs, 1))

	for _, path := range paths {
		g.Go(func() error {
			res := repairOne(ctx, p, path, opts.outDir)
			mu.Lock()
			results = append(results, res)
			mu.Unlock()
			// Only cancellation stops the batch; per-plan failures are
			// reported in the summary.
			if errors.Is(res.err, context.Canceled) {
				return res.err
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	sort.Slice(results, func(i, j int) bool { return results[i].input < results[j].input })
	failed := printBatchSummary(results)
	a.log.Info("batch finished", "plans", len(results), "failed", failed, "cached_rings", p.Cache.Len())
	if failed > 0 {
		return fmt.Errorf("%d of %d plans failed", failed, len(results))
	}
	return nil
}

func repairOne(ctx context.Context, p *pipeline.Pipeline, path, outDir string) batchResult {
	res := batchResult{input: path}
	in, err := plan.Load(path)
	if err != nil {
		res.err = err
		return res
	}
	out, err := p.Run(ctx, in)
	if err != nil {
		res.err = err
		return res
	}
	res.out = out
	res.output = filepath.Join(outDir, in.Name+filepath.Ext(mission.DefaultFile))
	res.err = mission.WriteFile(res.output, out.Document)
	return res
}

func runServe(ctx context.Context, a *app) error {
	p, err := pipeline.New(a.cfg, a.log)
	if err != nil {
		return err
	}
	return server.New(a.cfg, p, a.log).Start(ctx)
}
