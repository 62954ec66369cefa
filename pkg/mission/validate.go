package mission

import (
	"fmt"

	"github.com/ScriptKitty10/AmadorUAVs-2024/pkg/geo"
	"github.com/ScriptKitty10/AmadorUAVs-2024/pkg/validation"
)

// ValidateDocument checks that doc has the shape ground control expects:
// a set-speed item followed by numbered waypoints, a home position at the
// first waypoint, one inclusion fence polygon and rounded coordinates.
func ValidateDocument(doc *Document) *validation.Report {
	r := validation.NewReport()

	if doc.FileType != "Plan" {
		r.AddError(validation.Result{
			Level:       validation.LevelMission,
			Message:     fmt.Sprintf("fileType must be \"Plan\" (got %q)", doc.FileType),
			Field:       "fileType",
			ActualValue: doc.FileType,
			Expected:    "Plan",
		})
	}
	if doc.Version != 1 || doc.Mission.Version != 2 || doc.GeoFence.Version != 2 || doc.RallyPoints.Version != 2 {
		got := fmt.Sprintf("plan=%d mission=%d geoFence=%d rallyPoints=%d",
			doc.Version, doc.Mission.Version, doc.GeoFence.Version, doc.RallyPoints.Version)
		r.AddError(validation.Result{
			Level:       validation.LevelMission,
			Message:     "unexpected format versions",
			Field:       "version",
			ActualValue: got,
			Expected:    "plan=1 mission=2 geoFence=2 rallyPoints=2",
		})
	}

	validateItems(doc, r)
	validateFence(doc, r)
	return r
}

func validateItems(doc *Document, r *validation.Report) {
	items := doc.Mission.Items
	if len(items) < 2 {
		r.AddError(validation.Result{
			Level:       validation.LevelMission,
			Message:     "mission needs a set-speed item and at least one waypoint",
			Field:       "mission.items",
			ActualValue: len(items),
			Expected:    ">= 2",
		})
		return
	}
	if items[0].Command != CommandChangeSpeed {
		r.AddError(validation.Result{
			Level:       validation.LevelMission,
			Message:     fmt.Sprintf("first item must be a set-speed command (%d)", CommandChangeSpeed),
			Field:       "mission.items[0].command",
			ActualValue: items[0].Command,
		})
	}

	for i, it := range items {
		field := fmt.Sprintf("mission.items[%d]", i)
		if it.DoJumpID != i+1 {
			r.AddError(validation.Result{
				Level:       validation.LevelMission,
				Message:     fmt.Sprintf("item %d has doJumpId %d", i, it.DoJumpID),
				Field:       field + ".doJumpId",
				ActualValue: it.DoJumpID,
				Expected:    fmt.Sprint(i + 1),
			})
		}
		if i == 0 {
			continue
		}
		if it.Command != CommandNavWaypoint {
			r.AddWarning(validation.Result{
				Level:       validation.LevelMission,
				Message:     fmt.Sprintf("item %d is not a waypoint command", i),
				Field:       field + ".command",
				ActualValue: it.Command,
			})
			continue
		}
		if !rounded(it.Params[4]) || !rounded(it.Params[5]) {
			r.AddWarning(validation.Result{
				Level:   validation.LevelMission,
				Message: fmt.Sprintf("waypoint %d is not rounded to %d digits", i, CoordDigits),
				Field:   field + ".params",
			})
		}
	}

	home := doc.Mission.PlannedHomePosition
	first := items[1].Params
	if home[0] != first[4] || home[1] != first[5] {
		r.AddError(validation.Result{
			Level:        validation.LevelMission,
			Message:      "planned home position differs from the first waypoint",
			Field:        "mission.plannedHomePosition",
			ActualValue:  fmt.Sprintf("%v", home),
			ConflictWith: "mission.items[1]",
		})
	}
}

func validateFence(doc *Document, r *validation.Report) {
	polys := doc.GeoFence.Polygons
	if len(polys) != 1 {
		r.AddError(validation.Result{
			Level:       validation.LevelMission,
			Message:     fmt.Sprintf("expected one fence polygon (got %d)", len(polys)),
			Field:       "geoFence.polygons",
			ActualValue: len(polys),
			Expected:    "1",
		})
		return
	}
	p := polys[0]
	if !p.Inclusion {
		r.AddError(validation.Result{
			Level:   validation.LevelMission,
			Message: "fence polygon must be an inclusion fence",
			Field:   "geoFence.polygons[0].inclusion",
		})
	}
	if len(p.Polygon) < 3 {
		r.AddError(validation.Result{
			Level:       validation.LevelMission,
			Message:     fmt.Sprintf("fence polygon needs at least 3 vertices (got %d)", len(p.Polygon)),
			Field:       "geoFence.polygons[0].polygon",
			ActualValue: len(p.Polygon),
			Expected:    ">= 3",
		})
	}
}

func rounded(v float64) bool {
	return geo.RoundTo(v, CoordDigits) == v
}
