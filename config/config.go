// Package config provides configuration loading and access for the
// simulation engine.
package config

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Config holds all engine configuration parameters.
type Config struct {
	World    WorldConfig    `yaml:"world"`
	Physics  PhysicsConfig  `yaml:"physics"`
	Chunk    ChunkConfig    `yaml:"chunk"`
	Thermal  ThermalConfig  `yaml:"thermal"`
	Parallel ParallelConfig `yaml:"parallel"`
	Telemetry TelemetryConfig `yaml:"telemetry"`

	// Derived values computed after loading.
	Derived DerivedConfig `yaml:"-"`
}

// WorldConfig holds the fixed grid dimensions and RNG seed.
type WorldConfig struct {
	Width  int   `yaml:"width"`
	Height int   `yaml:"height"`
	Seed   int64 `yaml:"seed"`
}

// PhysicsConfig holds the gravity/friction/raycast tunables of §4.5/§6.
type PhysicsConfig struct {
	GravityX        float64 `yaml:"gravity_x"`
	GravityY        float64 `yaml:"gravity_y"`
	G               float64 `yaml:"g"`
	AirFriction     float64 `yaml:"air_friction"`
	MaxVelocity     float64 `yaml:"max_velocity"`
	MaxRaycastSteps int     `yaml:"max_raycast_steps"`
}

// ChunkConfig holds chunk-grid settings (§4.4). Only MoveBufferCap is
// read by the engine; the chunk grid uses its own fixed sleep threshold
// and ignores SleepThreshold.
type ChunkConfig struct {
	SleepThreshold  int `yaml:"sleep_threshold"`
	MoveBufferCap   int `yaml:"move_buffer_capacity"`
}

// ThermalConfig holds the ambient-temperature / diffusion settings of
// §4.8/§6. Only AmbientTemp is read by the engine; the temperature pass
// uses its own fixed air conductivity and air lerp rate and ignores
// AirConductivity and AirLerpRate.
type ThermalConfig struct {
	AmbientTemp     float64 `yaml:"ambient_temp"`
	AirConductivity int     `yaml:"air_conductivity"`
	AirLerpRate     float64 `yaml:"air_lerp_rate"`
}

// ParallelConfig toggles the optional data-parallel fill of §5.
type ParallelConfig struct {
	Enabled bool `yaml:"enabled"`
	Workers int  `yaml:"workers"`
}

// TelemetryConfig controls the rolling perf window. EnableCSV is not
// read; CSV export is switched on by the CLI's -perf flag.
type TelemetryConfig struct {
	WindowSize int  `yaml:"window_size"`
	EnableCSV  bool `yaml:"enable_csv"`
}

// DerivedConfig holds values computed from the rest of Config once
// after loading, the way the teacher's computeDerived pass does.
type DerivedConfig struct {
	ChunksX, ChunksY int
}

func (c *Config) computeDerived() {
	c.Derived.ChunksX = (c.World.Width + 31) / 32
	c.Derived.ChunksY = (c.World.Height + 31) / 32
}

var (
	global *Config
)

// Init loads configuration from the given path, or uses embedded
// defaults alone if path is empty, and installs it as the package
// singleton for callers (mainly CLI entry points) that want one without
// threading a *Config through every call.
func Init(path string) error {
	cfg, err := Load(path)
	if err != nil {
		return err
	}
	global = cfg
	return nil
}

// MustInit is Init but panics on error, for use during program startup.
func MustInit(path string) {
	if err := Init(path); err != nil {
		panic(err)
	}
}

// Cfg returns the package-level singleton installed by Init/MustInit.
// Library code should prefer an explicit *Config; this exists for CLI
// convenience.
func Cfg() *Config {
	if global == nil {
		panic("config: Cfg() called before Init")
	}
	return global
}

// Load builds a Config from the embedded defaults, optionally merging a
// user-supplied YAML file on top, then computes derived fields.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config %q: %w", path, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config %q: %w", path, err)
		}
	}

	cfg.computeDerived()
	return cfg, nil
}

// WriteYAML marshals the config and writes it to path, for tools (like
// cmd/tune) that persist a tuned configuration back to disk.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config %q: %w", path, err)
	}
	return nil
}
