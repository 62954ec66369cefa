package plan

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/ScriptKitty10/AmadorUAVs-2024/pkg/boundary"
	"github.com/ScriptKitty10/AmadorUAVs-2024/pkg/geo"
)

// ParseError reports a malformed line in a text input file.
type ParseError struct {
	Line int
	Msg  string
	Err  error
}

func (e *ParseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("line %d: %s: %v", e.Line, e.Msg, e.Err)
	}
	return fmt.Sprintf("line %d: %s", e.Line, e.Msg)
}

func (e *ParseError) Unwrap() error { return e.Err }

// Load reads an input file. Files ending in .yaml or .yml are read as
// YAML, anything else as the text format.
func Load(path string) (*Input, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading input file: %w", err)
	}

	var in *Input
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		in, err = ParseYAML(data)
	default:
		in, err = Parse(bytes.NewReader(data))
	}
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", filepath.Base(path), err)
	}
	in.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	return in, nil
}

// Parse reads the text format: a header line "N M" followed by N geofence
// vertices and M waypoints, one "lat lon" pair per line. Blank lines and
// lines starting with '#' are skipped. Lines after the last waypoint are
// ignored.
func Parse(r io.Reader) (*Input, error) {
	sc := bufio.NewScanner(r)
	lineNo := 0
	next := func() (string, bool) {
		for sc.Scan() {
			lineNo++
			line := strings.TrimSpace(sc.Text())
			if line == "" || strings.HasPrefix(line, "#") {
				continue
			}
			return line, true
		}
		return "", false
	}

	header, ok := next()
	if !ok {
		if err := sc.Err(); err != nil {
			return nil, fmt.Errorf("reading input: %w", err)
		}
		return nil, &ParseError{Line: lineNo, Msg: "missing header line"}
	}
	fields := strings.Fields(header)
	if len(fields) != 2 {
		return nil, &ParseError{Line: lineNo, Msg: fmt.Sprintf("header must hold two counts, got %q", header)}
	}
	n, err := parseCount(fields[0])
	if err != nil {
		return nil, &ParseError{Line: lineNo, Msg: "geofence vertex count", Err: err}
	}
	m, err := parseCount(fields[1])
	if err != nil {
		return nil, &ParseError{Line: lineNo, Msg: "waypoint count", Err: err}
	}

	readPoints := func(count int, what string) ([]geo.Point, error) {
		pts := make([]geo.Point, 0, count)
		for len(pts) < count {
			line, ok := next()
			if !ok {
				if err := sc.Err(); err != nil {
					return nil, fmt.Errorf("reading input: %w", err)
				}
				return nil, &ParseError{Line: lineNo, Msg: fmt.Sprintf("expected %d %s, found %d", count, what, len(pts))}
			}
			p, err := parsePoint(line)
			if err != nil {
				return nil, &ParseError{Line: lineNo, Msg: what, Err: err}
			}
			pts = append(pts, p)
		}
		return pts, nil
	}

	fence, err := readPoints(n, "geofence vertices")
	if err != nil {
		return nil, err
	}
	waypoints, err := readPoints(m, "waypoints")
	if err != nil {
		return nil, err
	}
	return &Input{Geofence: fence, Waypoints: waypoints}, nil
}

func parseCount(s string) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, err
	}
	if n < 0 {
		return 0, fmt.Errorf("count must not be negative (got %d)", n)
	}
	return n, nil
}

func parsePoint(line string) (geo.Point, error) {
	fields := strings.Fields(line)
	if len(fields) != 2 {
		return geo.Point{}, fmt.Errorf("expected \"lat lon\", got %q", line)
	}
	lat, err := strconv.ParseFloat(fields[0], 64)
	if err != nil {
		return geo.Point{}, fmt.Errorf("latitude: %w", err)
	}
	lon, err := strconv.ParseFloat(fields[1], 64)
	if err != nil {
		return geo.Point{}, fmt.Errorf("longitude: %w", err)
	}
	return geo.Pt(lat, lon), nil
}

type yamlInput struct {
	Geofence  [][]float64       `yaml:"geofence"`
	Waypoints [][]float64       `yaml:"waypoints"`
	Margins   *boundary.Margins `yaml:"margins"`
}

// ParseYAML reads the YAML form:
//
//	geofence: [[lat, lon], ...]
//	waypoints: [[lat, lon], ...]
//	margins: {primary_ft: 25, buffer_ft: 23}   # optional
func ParseYAML(data []byte) (*Input, error) {
	var raw yamlInput
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parsing input YAML: %w", err)
	}
	fence, err := yamlPoints(raw.Geofence, "geofence")
	if err != nil {
		return nil, err
	}
	waypoints, err := yamlPoints(raw.Waypoints, "waypoints")
	if err != nil {
		return nil, err
	}
	return &Input{Geofence: fence, Waypoints: waypoints, Margins: raw.Margins}, nil
}

func yamlPoints(pairs [][]float64, field string) ([]geo.Point, error) {
	pts := make([]geo.Point, len(pairs))
	for i, pr := range pairs {
		if len(pr) != 2 {
			return nil, fmt.Errorf("%s[%d]: expected [lat, lon], got %d values", field, i, len(pr))
		}
		pts[i] = geo.Pt(pr[0], pr[1])
	}
	return pts, nil
}
