// Package plan reads geofence and flight plan input files.
package plan

import (
	"github.com/ScriptKitty10/AmadorUAVs-2024/pkg/boundary"
	"github.com/ScriptKitty10/AmadorUAVs-2024/pkg/geo"
)

// Input is a geofence together with the flight plan to be flown inside it.
type Input struct {
	// Name identifies the input, usually the file name without extension.
	Name string `json:"name,omitempty"`
	// Geofence holds the vertices as written, in traversal order. A
	// repeated closing vertex is kept here and dropped by Fence.
	Geofence []geo.Point `json:"geofence"`
	// Waypoints holds the flight plan in visit order.
	Waypoints []geo.Point `json:"waypoints"`
	// Margins overrides the configured margins when set. Only the YAML
	// form can carry it.
	Margins *boundary.Margins `json:"margins,omitempty"`
}

// Fence returns the geofence as a ring.
func (in *Input) Fence() geo.Ring {
	return geo.NewRing(in.Geofence...)
}

// MarginsOr returns the input's own margins, or def when it has none.
func (in *Input) MarginsOr(def boundary.Margins) boundary.Margins {
	if in.Margins != nil {
		return *in.Margins
	}
	return def
}
