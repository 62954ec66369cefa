package plan

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ScriptKitty10/AmadorUAVs-2024/pkg/boundary"
	"github.com/ScriptKitty10/AmadorUAVs-2024/pkg/geo"
)

const sampleText = `4 3
38.3160 -120.9740
38.3160 -120.9700
38.3130 -120.9700
38.3130 -120.9740
38.3150 -120.9735
38.3145 -120.9720
38.3140 -120.9705
`

func TestParseText(t *testing.T) {
	in, err := Parse(strings.NewReader(sampleText))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if len(in.Geofence) != 4 {
		t.Errorf("geofence vertices = %d, want 4", len(in.Geofence))
	}
	if len(in.Waypoints) != 3 {
		t.Errorf("waypoints = %d, want 3", len(in.Waypoints))
	}
	if in.Geofence[1] != geo.Pt(38.3160, -120.9700) {
		t.Errorf("geofence[1] = %v", in.Geofence[1])
	}
	if in.Waypoints[2] != geo.Pt(38.3140, -120.9705) {
		t.Errorf("waypoints[2] = %v", in.Waypoints[2])
	}
	if in.Margins != nil {
		t.Error("text input carries no margins")
	}
}

func TestParseSkipsBlankAndComments(t *testing.T) {
	src := "# field survey\n3 2\n\n0 0\n0 1\n1 1\n# plan\n0.2 0.2\n0.5 0.3\ntrailing junk is ignored\n"
	in, err := Parse(strings.NewReader(src))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if len(in.Geofence) != 3 || len(in.Waypoints) != 2 {
		t.Errorf("got %d vertices and %d waypoints", len(in.Geofence), len(in.Waypoints))
	}
}

func TestParseErrors(t *testing.T) {
	cases := []struct {
		name string
		src  string
		line int
	}{
		{"empty", "", 0},
		{"one count", "3\n", 1},
		{"bad count", "x 2\n", 1},
		{"negative count", "3 -1\n", 1},
		{"bad latitude", "3 1\n0 0\nabc 1\n", 3},
		{"three fields", "3 1\n0 0\n0 1\n1 1 1\n", 4},
		{"short file", "3 2\n0 0\n0 1\n1 1\n0.5 0.5\n", 5},
	}
	for _, c := range cases {
		_, err := Parse(strings.NewReader(c.src))
		var pe *ParseError
		if !errors.As(err, &pe) {
			t.Errorf("%s: expected ParseError, got %v", c.name, err)
			continue
		}
		if pe.Line != c.line {
			t.Errorf("%s: error on line %d, want %d (%v)", c.name, pe.Line, c.line, err)
		}
	}
}

func TestLoadText(t *testing.T) {
	path := filepath.Join(t.TempDir(), "field.txt")
	if err := os.WriteFile(path, []byte(sampleText), 0o644); err != nil {
		t.Fatal(err)
	}
	in, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if in.Name != "field" {
		t.Errorf("name = %q, want %q", in.Name, "field")
	}
}

func TestLoadYAML(t *testing.T) {
	src := `
geofence:
  - [38.3160, -120.9740]
  - [38.3160, -120.9700]
  - [38.3130, -120.9700]
waypoints:
  - [38.3150, -120.9735]
  - [38.3145, -120.9720]
margins:
  primary_ft: 30
  buffer_ft: 10
`
	path := filepath.Join(t.TempDir(), "mission.yaml")
	if err := os.WriteFile(path, []byte(src), 0o644); err != nil {
		t.Fatal(err)
	}
	in, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(in.Geofence) != 3 || len(in.Waypoints) != 2 {
		t.Errorf("got %d vertices and %d waypoints", len(in.Geofence), len(in.Waypoints))
	}
	if in.Name != "mission" {
		t.Errorf("name = %q, want %q", in.Name, "mission")
	}
	m := in.MarginsOr(boundary.DefaultMargins())
	if m.PrimaryFt != 30 || m.BufferFt != 10 {
		t.Errorf("margins = %+v, want 30/10", m)
	}
}

func TestParseYAMLBadPair(t *testing.T) {
	_, err := ParseYAML([]byte("geofence: [[1, 2, 3]]\n"))
	if err == nil || !strings.Contains(err.Error(), "geofence[0]") {
		t.Errorf("expected error naming geofence[0], got %v", err)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.txt")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestMarginsOrDefault(t *testing.T) {
	in := &Input{}
	if m := in.MarginsOr(boundary.DefaultMargins()); m != boundary.DefaultMargins() {
		t.Errorf("expected defaults, got %+v", m)
	}
}

func TestFenceDropsClosingVertex(t *testing.T) {
	in := &Input{Geofence: []geo.Point{geo.Pt(0, 0), geo.Pt(0, 1), geo.Pt(1, 1), geo.Pt(0, 0)}}
	if n := in.Fence().Len(); n != 3 {
		t.Errorf("fence vertices = %d, want 3", n)
	}
}
