package main

import (
	"fmt"

	"github.com/ScriptKitty10/AmadorUAVs-2024/pkg/validation"
)

func printValidationReport(r *validation.Report) {
	if len(r.Errors) > 0 {
		fmt.Printf("ERRORS (%d):\n", len(r.Errors))
		for _, e := range r.Errors {
			fmt.Printf("  [%s] %s\n", e.Level, e.Message)
			if e.Field != "" {
				fmt.Printf("    -> %s = %v\n", e.Field, e.ActualValue)
			}
			if e.Expected != "" {
				fmt.Printf("    expected: %s\n", e.Expected)
			}
			if e.ConflictWith != "" {
				fmt.Printf("    conflicts with: %s\n", e.ConflictWith)
			}
			for _, s := range e.Suggestions {
				fmt.Printf("    * %s\n", s)
			}
		}
		fmt.Println()
	}

	if len(r.Warnings) > 0 {
		fmt.Printf("WARNINGS (%d):\n", len(r.Warnings))
		for _, w := range r.Warnings {
			fmt.Printf("  [%s] %s\n", w.Level, w.Message)
			if w.Field != "" {
				fmt.Printf("    -> %s = %v\n", w.Field, w.ActualValue)
			}
			for _, s := range w.Suggestions {
				fmt.Printf("    * %s\n", s)
			}
		}
		fmt.Println()
	}

	if len(r.Info) > 0 {
		fmt.Printf("INFO (%d):\n", len(r.Info))
		for _, i := range r.Info {
			fmt.Printf("  [%s] %s\n", i.Level, i.Message)
		}
		fmt.Println()
	}

	if r.Valid {
		fmt.Printf("Result: VALID (%s)\n", r.Summary)
	} else {
		fmt.Printf("Result: INVALID (%s)\n", r.Summary)
	}
}

// printBatchSummary prints one row per input and returns the number of
// failures.
func printBatchSummary(results []batchResult) int {
	fmt.Printf("%-32s %6s %8s %8s  %s\n", "Input", "Points", "Detours", "Snapped", "Output")
	fmt.Printf("%-32s %6s %8s %8s  %s\n",
		"--------------------------------", "------", "--------", "--------", "------")

	failed := 0
	for _, r := range results {
		if r.err != nil {
			failed++
			fmt.Printf("%-32s FAILED: %v\n", r.input, r.err)
			continue
		}
		res := r.out.Result
		fmt.Printf("%-32s %6d %8d %8d  %s\n", r.input, len(res.Plan), res.Detours(), res.Snapped(), r.output)
	}
	fmt.Println()
	fmt.Printf("%d plans, %d failed\n", len(results), failed)
	return failed
}
