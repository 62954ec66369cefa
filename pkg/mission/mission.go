// Package mission turns a repaired flight plan into a QGroundControl
// mission document.
package mission

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/ScriptKitty10/AmadorUAVs-2024/pkg/geo"
)

// Unit conversions.
const (
	MetersPerFoot      = 0.3048
	MetersPerSecPerMPH = 0.44704
)

// CoordDigits is the number of decimal digits coordinates are rounded to.
const CoordDigits = 7

// DefaultFile is the name the mission document is written to by default.
const DefaultFile = "navigate.plan"

// ErrNoWaypoints means there is no waypoint to use as home position.
var ErrNoWaypoints = errors.New("no waypoints to set as home position")

// SerializationError reports a failure to build or write a mission
// document.
type SerializationError struct {
	Op  string
	Err error
}

func (e *SerializationError) Error() string {
	return fmt.Sprintf("mission: %s: %v", e.Op, e.Err)
}

func (e *SerializationError) Unwrap() error { return e.Err }

// Params are the fixed flight parameters written into every mission.
type Params struct {
	AltitudeFt    float64 `json:"altitude_ft" mapstructure:"altitude_ft"`
	SpeedMPH      float64 `json:"speed_mph" mapstructure:"speed_mph"`
	GroundStation string  `json:"ground_station" mapstructure:"ground_station"`
	FirmwareType  int     `json:"firmware_type" mapstructure:"firmware_type"`
	VehicleType   int     `json:"vehicle_type" mapstructure:"vehicle_type"`
}

// DefaultParams returns 100 ft cruise altitude at 30 mph for an
// ArduPilot multirotor.
func DefaultParams() Params {
	return Params{
		AltitudeFt:    100,
		SpeedMPH:      30,
		GroundStation: "QGroundControl",
		FirmwareType:  12,
		VehicleType:   2,
	}
}

// AltitudeM returns the cruise altitude in meters.
func (p Params) AltitudeM() float64 {
	return p.AltitudeFt * MetersPerFoot
}

// SpeedMS returns the cruise speed in meters per second.
func (p Params) SpeedMS() float64 {
	return p.SpeedMPH * MetersPerSecPerMPH
}

// Serialize builds the mission document for a repaired plan. The geofence
// written is the original one, not an offset ring. The first waypoint
// becomes the planned home position.
func Serialize(plan []geo.Point, geofence []geo.Point, p Params) (*Document, error) {
	if len(plan) == 0 {
		return nil, &SerializationError{Op: "serialize", Err: ErrNoWaypoints}
	}

	alt := p.AltitudeM()
	speed := p.SpeedMS()

	items := make([]Item, 0, len(plan)+1)
	items = append(items, Item{
		AutoContinue: true,
		Command:      CommandChangeSpeed,
		DoJumpID:     1,
		Frame:        FrameMission,
		Params:       [7]float64{1, speed, -1, 0, 0, 0, 0},
		Type:         "SimpleItem",
	})
	for i, wp := range plan {
		wp = wp.Round(CoordDigits)
		items = append(items, Item{
			AMSLAltAboveTerrain: ptr(alt),
			Altitude:            ptr(alt),
			AltitudeMode:        ptr(1),
			AutoContinue:        true,
			Command:             CommandNavWaypoint,
			DoJumpID:            i + 2,
			Frame:               FrameGlobalRelativeAlt,
			Params:              [7]float64{0, 0, 0, 0, wp.Lat, wp.Lon, alt},
			Type:                "SimpleItem",
		})
	}

	home := plan[0].Round(CoordDigits)
	fence := make([][2]float64, len(geofence))
	for i, v := range geofence {
		v = v.Round(CoordDigits)
		fence[i] = [2]float64{v.Lat, v.Lon}
	}

	return &Document{
		FileType:      "Plan",
		Version:       1,
		GroundStation: p.GroundStation,
		Mission: Mission{
			Version:             2,
			FirmwareType:        p.FirmwareType,
			VehicleType:         p.VehicleType,
			CruiseSpeed:         speed,
			HoverSpeed:          speed,
			Items:               items,
			PlannedHomePosition: [3]float64{home.Lat, home.Lon, alt},
		},
		GeoFence: GeoFence{
			Version:  2,
			Polygons: []Polygon{{Version: 1, Inclusion: true, Polygon: fence}},
			Circles:  []any{},
		},
		RallyPoints: RallyPoints{Version: 2, Points: []any{}},
	}, nil
}

// Encode writes doc as JSON indented with four spaces.
func Encode(w io.Writer, doc *Document) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "    ")
	if err := enc.Encode(doc); err != nil {
		return &SerializationError{Op: "encode", Err: err}
	}
	return nil
}

// Decode reads a mission document.
func Decode(r io.Reader) (*Document, error) {
	var doc Document
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("decoding mission document: %w", err)
	}
	return &doc, nil
}

// ReadFile reads a mission document from path.
func ReadFile(path string) (*Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening mission document: %w", err)
	}
	defer f.Close()
	return Decode(f)
}

// WriteFile writes doc to path. The document is written to a temporary
// file in the same directory and renamed into place, so path either holds
// the complete new document or is left untouched.
func WriteFile(path string, doc *Document) (err error) {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return &SerializationError{Op: "write", Err: err}
	}
	defer func() {
		if err != nil {
			tmp.Close()
			os.Remove(tmp.Name())
		}
	}()

	if err := Encode(tmp, doc); err != nil {
		return err
	}
	if err := tmp.Sync(); err != nil {
		return &SerializationError{Op: "write", Err: err}
	}
	if err := tmp.Close(); err != nil {
		return &SerializationError{Op: "write", Err: err}
	}
	if err := os.Chmod(tmp.Name(), 0o644); err != nil {
		return &SerializationError{Op: "write", Err: err}
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return &SerializationError{Op: "write", Err: err}
	}
	return nil
}

func ptr[T any](v T) *T {
	return &v
}
