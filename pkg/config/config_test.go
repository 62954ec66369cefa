package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	if cfg.Margins.PrimaryFt != 25 || cfg.Margins.BufferFt != 23 {
		t.Errorf("expected margins 25/23, got %+v", cfg.Margins)
	}
	if cfg.Repair.Samples != 4 {
		t.Errorf("expected 4 samples, got %d", cfg.Repair.Samples)
	}
	if cfg.Geometry.Scale != 1e9 || cfg.Geometry.ArcSegments != 16 || cfg.Geometry.ToleranceDeg != 1e-10 {
		t.Errorf("unexpected geometry defaults %+v", cfg.Geometry)
	}
	if cfg.Mission.AltitudeFt != 100 || cfg.Mission.SpeedMPH != 30 || cfg.Mission.GroundStation != "QGroundControl" {
		t.Errorf("unexpected mission defaults %+v", cfg.Mission)
	}
	if cfg.Mission.FirmwareType != 12 || cfg.Mission.VehicleType != 2 {
		t.Errorf("unexpected vehicle defaults %+v", cfg.Mission)
	}
	if cfg.Server.Port != 3000 || cfg.Cache.Size != 64 || cfg.Log.Level != "info" {
		t.Errorf("unexpected defaults %+v", cfg)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults should validate: %v", err)
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "flightfix.yaml")
	data := `margins:
  primary_ft: 30
  buffer_ft: 10
repair:
  samples: 8
mission:
  altitude_ft: 150
log:
  format: json
`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Margins.PrimaryFt != 30 || cfg.Margins.BufferFt != 10 {
		t.Errorf("expected margins 30/10, got %+v", cfg.Margins)
	}
	if cfg.Repair.Samples != 8 || cfg.Mission.AltitudeFt != 150 || cfg.Log.Format != "json" {
		t.Errorf("file values not applied: %+v", cfg)
	}
	// Keys absent from the file keep their defaults.
	if cfg.Mission.SpeedMPH != 30 || cfg.Server.Port != 3000 {
		t.Errorf("expected defaults for unset keys, got %+v", cfg)
	}
}

func TestLoadEnvOverride(t *testing.T) {
	t.Setenv("FLIGHTFIX_MARGINS_PRIMARY_FT", "40")
	t.Setenv("FLIGHTFIX_SERVER_PORT", "8081")
	path := filepath.Join(t.TempDir(), "flightfix.yaml")
	if err := os.WriteFile(path, []byte("margins:\n  primary_ft: 30\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Margins.PrimaryFt != 40 {
		t.Errorf("expected env to win with 40, got %g", cfg.Margins.PrimaryFt)
	}
	if cfg.Server.Port != 8081 {
		t.Errorf("expected port 8081, got %d", cfg.Server.Port)
	}
}

func TestLoadMissingExplicitFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("expected error for missing config file")
	}
}

func TestLoadInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "flightfix.yaml")
	if err := os.WriteFile(path, []byte("repair:\n  samples: 0\nmargins:\n  buffer_ft: -1\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	_, err := Load(path)
	if err == nil {
		t.Fatal("expected validation error")
	}
	for _, want := range []string{"repair.samples", "buffer margin"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("expected %q in %v", want, err)
		}
	}
}

func TestValidateLog(t *testing.T) {
	cfg := Default()
	cfg.Log.Level = "chatty"
	cfg.Log.Format = "xml"
	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected validation error")
	}
	if !strings.Contains(err.Error(), "log.level") || !strings.Contains(err.Error(), "log.format") {
		t.Errorf("expected both log findings, got %v", err)
	}
}

func TestBuilders(t *testing.T) {
	cfg := Default()
	cfg.Repair.Samples = 6
	cfg.Geometry.ArcSegments = 8
	g := cfg.Planar()
	if g.ArcSegments != 8 || g.Scale != 1e9 {
		t.Errorf("unexpected planar %+v", g)
	}
	if r := cfg.Repairer(g); r.Samples != 6 || r.Geometry != g {
		t.Errorf("unexpected repairer %+v", r)
	}
	if o := cfg.LogOptions(); o.Level != "info" || o.Format != "text" {
		t.Errorf("unexpected log options %+v", o)
	}
}
