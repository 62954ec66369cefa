// Package config loads flightfix settings from defaults, an optional YAML
// file and FLIGHTFIX_* environment variables.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"github.com/ScriptKitty10/AmadorUAVs-2024/internal/logging"
	"github.com/ScriptKitty10/AmadorUAVs-2024/pkg/boundary"
	"github.com/ScriptKitty10/AmadorUAVs-2024/pkg/mission"
	"github.com/ScriptKitty10/AmadorUAVs-2024/pkg/repair"
)

// EnvPrefix is the prefix of environment overrides:
// FLIGHTFIX_MARGINS_PRIMARY_FT → margins.primary_ft.
const EnvPrefix = "FLIGHTFIX"

// Config holds all flightfix configuration.
type Config struct {
	Margins  boundary.Margins `mapstructure:"margins" json:"margins"`
	Repair   RepairConfig     `mapstructure:"repair" json:"repair"`
	Geometry GeometryConfig   `mapstructure:"geometry" json:"geometry"`
	Mission  mission.Params   `mapstructure:"mission" json:"mission"`
	Cache    CacheConfig      `mapstructure:"cache" json:"cache"`
	Server   ServerConfig     `mapstructure:"server" json:"server"`
	Log      LogConfig        `mapstructure:"log" json:"log"`
}

type RepairConfig struct {
	Samples int `mapstructure:"samples" json:"samples"`
}

type GeometryConfig struct {
	Scale        float64 `mapstructure:"scale" json:"scale"`
	ArcSegments  int     `mapstructure:"arc_segments" json:"arc_segments"`
	ToleranceDeg float64 `mapstructure:"tolerance_deg" json:"tolerance_deg"`
}

type CacheConfig struct {
	Size int `mapstructure:"size" json:"size"`
}

type ServerConfig struct {
	Port int `mapstructure:"port" json:"port"`
}

type LogConfig struct {
	Level  string `mapstructure:"level" json:"level"`
	Format string `mapstructure:"format" json:"format"`
	File   string `mapstructure:"file" json:"file"`
}

func setDefaults(v *viper.Viper) {
	m := boundary.DefaultMargins()
	v.SetDefault("margins.primary_ft", m.PrimaryFt)
	v.SetDefault("margins.buffer_ft", m.BufferFt)
	v.SetDefault("repair.samples", repair.DefaultSamples)
	v.SetDefault("geometry.scale", boundary.DefaultScale)
	v.SetDefault("geometry.arc_segments", boundary.DefaultArcSegments)
	v.SetDefault("geometry.tolerance_deg", boundary.DefaultTolerance)

	p := mission.DefaultParams()
	v.SetDefault("mission.altitude_ft", p.AltitudeFt)
	v.SetDefault("mission.speed_mph", p.SpeedMPH)
	v.SetDefault("mission.ground_station", p.GroundStation)
	v.SetDefault("mission.firmware_type", p.FirmwareType)
	v.SetDefault("mission.vehicle_type", p.VehicleType)

	v.SetDefault("cache.size", 64)
	v.SetDefault("server.port", 3000)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
	v.SetDefault("log.file", "")
}

// Default returns the built-in configuration.
func Default() *Config {
	v := viper.New()
	setDefaults(v)
	var cfg Config
	// Defaults always decode.
	_ = v.Unmarshal(&cfg)
	return &cfg
}

// Load reads configuration. When path is empty, flightfix.yaml is looked
// up in the working directory and ./configs and may be missing; an
// explicit path must exist.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading config %s: %w", path, err)
		}
	} else {
		v.SetConfigName("flightfix")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./configs")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("reading config: %w", err)
			}
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks that values are usable.
func (c *Config) Validate() error {
	var errs []string

	if err := c.Margins.Validate(); err != nil {
		errs = append(errs, err.Error())
	}
	if c.Repair.Samples < 1 {
		errs = append(errs, fmt.Sprintf("repair.samples must be at least 1, got %d", c.Repair.Samples))
	}
	if c.Geometry.Scale <= 0 {
		errs = append(errs, fmt.Sprintf("geometry.scale must be positive, got %g", c.Geometry.Scale))
	}
	if c.Geometry.ArcSegments < 1 {
		errs = append(errs, fmt.Sprintf("geometry.arc_segments must be at least 1, got %d", c.Geometry.ArcSegments))
	}
	if c.Geometry.ToleranceDeg < 0 {
		errs = append(errs, fmt.Sprintf("geometry.tolerance_deg must not be negative, got %g", c.Geometry.ToleranceDeg))
	}
	if c.Mission.AltitudeFt <= 0 {
		errs = append(errs, fmt.Sprintf("mission.altitude_ft must be positive, got %g", c.Mission.AltitudeFt))
	}
	if c.Mission.SpeedMPH <= 0 {
		errs = append(errs, fmt.Sprintf("mission.speed_mph must be positive, got %g", c.Mission.SpeedMPH))
	}
	if c.Cache.Size < 1 {
		errs = append(errs, fmt.Sprintf("cache.size must be at least 1, got %d", c.Cache.Size))
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Sprintf("server.port must be 1-65535, got %d", c.Server.Port))
	}
	if _, err := logging.ParseLevel(c.Log.Level); err != nil {
		errs = append(errs, "log.level: "+err.Error())
	}
	switch strings.ToLower(c.Log.Format) {
	case "text", "json":
	default:
		errs = append(errs, fmt.Sprintf("log.format must be text or json, got %q", c.Log.Format))
	}

	if len(errs) > 0 {
		return fmt.Errorf("config validation failed:\n  - %s", strings.Join(errs, "\n  - "))
	}
	return nil
}

// LogOptions returns the logger settings.
func (c *Config) LogOptions() logging.Options {
	return logging.Options{Level: c.Log.Level, Format: c.Log.Format, File: c.Log.File}
}

// Planar returns the geometry adapter configured by c.
func (c *Config) Planar() *boundary.Planar {
	return &boundary.Planar{
		Scale:       c.Geometry.Scale,
		ArcSegments: c.Geometry.ArcSegments,
		Tolerance:   c.Geometry.ToleranceDeg,
	}
}

// Repairer returns a repairer over g with the configured sample count.
func (c *Config) Repairer(g boundary.Geometry) *repair.Repairer {
	r := repair.New(g)
	r.Samples = c.Repair.Samples
	return r
}
