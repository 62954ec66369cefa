package repair

import (
	"fmt"

	"github.com/ScriptKitty10/AmadorUAVs-2024/pkg/boundary"
	"github.com/ScriptKitty10/AmadorUAVs-2024/pkg/geo"
	"github.com/ScriptKitty10/AmadorUAVs-2024/pkg/validation"
)

// ValidateRoute checks a repaired plan against inner: no two consecutive
// points may be equal and every leg must stay inside the ring.
func ValidateRoute(g boundary.Geometry, plan []geo.Point, inner geo.Ring) *validation.Report {
	r := validation.NewReport()

	for i := 0; i+1 < len(plan); i++ {
		a, b := plan[i], plan[i+1]
		field := fmt.Sprintf("route[%d]", i+1)
		if a == b {
			r.AddError(validation.Result{
				Level:        validation.LevelRoute,
				Message:      fmt.Sprintf("route point %d repeats point %d", i+1, i),
				Field:        field,
				ActualValue:  b.String(),
				ConflictWith: fmt.Sprintf("route[%d]", i),
			})
			continue
		}
		if !g.SegmentWithin(inner, a, b) {
			r.AddError(validation.Result{
				Level:       validation.LevelRoute,
				Message:     fmt.Sprintf("leg from route point %d to %d leaves the inner margin", i, i+1),
				Field:       field,
				ActualValue: fmt.Sprintf("%v -> %v", a, b),
				Suggestions: []string{"Increase the detour sample count for concave geofences"},
			})
		}
	}

	r.AddInfo(validation.Result{
		Level:   validation.LevelRoute,
		Message: fmt.Sprintf("checked %d legs against the inner margin", max(len(plan)-1, 0)),
		Field:   "route",
	})
	return r
}
