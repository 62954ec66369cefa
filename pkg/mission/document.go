package mission

// MAVLink command codes used in mission items.
const (
	CommandNavWaypoint = 16
	CommandChangeSpeed = 178
)

// MAVLink frames used in mission items.
const (
	FrameMission           = 2
	FrameGlobalRelativeAlt = 3
)

// Document is a QGroundControl .plan file.
type Document struct {
	FileType      string      `json:"fileType"`
	Version       int         `json:"version"`
	GroundStation string      `json:"groundStation"`
	Mission       Mission     `json:"mission"`
	GeoFence      GeoFence    `json:"geoFence"`
	RallyPoints   RallyPoints `json:"rallyPoints"`
}

// Mission is the ordered list of vehicle commands.
type Mission struct {
	Version             int        `json:"version"`
	FirmwareType        int        `json:"firmwareType"`
	VehicleType         int        `json:"vehicleType"`
	CruiseSpeed         float64    `json:"cruiseSpeed"`
	HoverSpeed          float64    `json:"hoverSpeed"`
	Items               []Item     `json:"items"`
	PlannedHomePosition [3]float64 `json:"plannedHomePosition"` // lat, lon, altitude m
}

// Item is a single mission command. Altitude fields are only present on
// waypoint items.
type Item struct {
	AMSLAltAboveTerrain *float64   `json:"AMSLAltAboveTerrain,omitempty"`
	Altitude            *float64   `json:"Altitude,omitempty"`
	AltitudeMode        *int       `json:"AltitudeMode,omitempty"`
	AutoContinue        bool       `json:"autoContinue"`
	Command             int        `json:"command"`
	DoJumpID            int        `json:"doJumpId"`
	Frame               int        `json:"frame"`
	Params              [7]float64 `json:"params"`
	Type                string     `json:"type"`
}

// GeoFence holds the inclusion polygons the vehicle must stay within.
type GeoFence struct {
	Version  int       `json:"version"`
	Polygons []Polygon `json:"polygons"`
	Circles  []any     `json:"circles"`
}

// Polygon is a fence polygon as [lat, lon] pairs.
type Polygon struct {
	Version   int          `json:"version"`
	Inclusion bool         `json:"inclusion"`
	Polygon   [][2]float64 `json:"polygon"`
}

// RallyPoints holds alternative landing points. Always empty here.
type RallyPoints struct {
	Version int   `json:"version"`
	Points  []any `json:"points"`
}

// Waypoints returns the (lat, lon) of every waypoint item in order.
func (d *Document) Waypoints() [][2]float64 {
	var out [][2]float64
	for _, it := range d.Mission.Items {
		if it.Command == CommandNavWaypoint {
			out = append(out, [2]float64{it.Params[4], it.Params[5]})
		}
	}
	return out
}
