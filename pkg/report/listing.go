package report

import (
	"fmt"
	"io"

	"github.com/ScriptKitty10/AmadorUAVs-2024/pkg/geo"
	"github.com/ScriptKitty10/AmadorUAVs-2024/pkg/repair"
)

// WriteListing prints the original and repaired plans one point per line,
// followed by the legs that were changed.
func WriteListing(w io.Writer, original []geo.Point, res *repair.Result) {
	fmt.Fprintf(w, "ORIGINAL (%d):\n", len(original))
	for i, p := range original {
		fmt.Fprintf(w, "  %3d  %s\n", i, p)
	}
	fmt.Fprintln(w)

	fmt.Fprintf(w, "REPAIRED (%d):\n", len(res.Plan))
	for i, p := range res.Plan {
		fmt.Fprintf(w, "  %3d  %s\n", i, p)
	}
	fmt.Fprintln(w)

	changed := 0
	for _, l := range res.Legs {
		if !l.Detour && !l.FromSnapped && !l.ToSnapped {
			continue
		}
		if changed == 0 {
			fmt.Fprintln(w, "CHANGES:")
		}
		changed++
		fmt.Fprintf(w, "  leg %d:", l.Index)
		if l.FromSnapped {
			fmt.Fprintf(w, " start snapped to %s;", l.From)
		}
		if l.ToSnapped {
			fmt.Fprintf(w, " end snapped to %s;", l.To)
		}
		if l.Detour {
			fmt.Fprintf(w, " %s detour of %.7f deg, %d points inserted", l.Direction, l.ArcLength, l.Inserted)
		}
		fmt.Fprintln(w)
	}
	fmt.Fprintf(w, "Result: %d legs, %d detours, %d snapped\n", len(res.Legs), res.Detours(), res.Snapped())
}
