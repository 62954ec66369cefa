// Package report renders a repair run for inspection: a GeoJSON map of the
// rings and both plans, and a plain-text before/after listing.
package report

import (
	"fmt"
	"os"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"

	"github.com/ScriptKitty10/AmadorUAVs-2024/pkg/boundary"
	"github.com/ScriptKitty10/AmadorUAVs-2024/pkg/geo"
)

// Feature kinds, stored in the "kind" property.
const (
	KindGeofence = "geofence"
	KindSafety   = "safety"
	KindInner    = "inner"
	KindOriginal = "original"
	KindRepaired = "repaired"
	KindWaypoint = "waypoint"
)

// GeoJSON returns a feature collection with the geofence, both offset
// rings, the original and repaired routes, and the repaired waypoints.
// Rings become polygons, routes line strings. Empty routes are left out.
func GeoJSON(b *boundary.Boundaries, original, repaired []geo.Point) *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()

	rings := []struct {
		kind string
		ring geo.Ring
	}{
		{KindGeofence, b.Geofence},
		{KindSafety, b.Safety},
		{KindInner, b.Inner},
	}
	for _, r := range rings {
		if r.ring.IsEmpty() {
			continue
		}
		f := geojson.NewFeature(orb.Polygon{r.ring.Orb()})
		f.Properties["kind"] = r.kind
		f.Properties["vertices"] = r.ring.Len()
		if r.kind == KindGeofence {
			f.Properties["primary_ft"] = b.Margins.PrimaryFt
			f.Properties["buffer_ft"] = b.Margins.BufferFt
		}
		fc.Append(f)
	}

	if len(original) > 0 {
		f := geojson.NewFeature(lineString(original))
		f.Properties["kind"] = KindOriginal
		fc.Append(f)
	}
	if len(repaired) > 0 {
		f := geojson.NewFeature(lineString(repaired))
		f.Properties["kind"] = KindRepaired
		fc.Append(f)
	}
	for i, p := range repaired {
		f := geojson.NewFeature(p.Orb())
		f.Properties["kind"] = KindWaypoint
		f.Properties["seq"] = i
		fc.Append(f)
	}
	return fc
}

// WriteGeoJSON writes fc to path.
func WriteGeoJSON(path string, fc *geojson.FeatureCollection) error {
	data, err := fc.MarshalJSON()
	if err != nil {
		return fmt.Errorf("encoding geojson: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing geojson: %w", err)
	}
	return nil
}

func lineString(pts []geo.Point) orb.LineString {
	ls := make(orb.LineString, len(pts))
	for i, p := range pts {
		ls[i] = p.Orb()
	}
	return ls
}
