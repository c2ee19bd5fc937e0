// Package config loads and resolves the physics core's tunable
// configuration: embedded defaults overlaid by an optional user YAML
// file, plus named per-character multiplier sets. The actor package
// never reads the global singleton directly — callers resolve a Config
// into a plain actor.Tunables value via Tunables(), keeping the
// physics core itself free of global state.
package config

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/pthm-cable/platformcore/actor"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Config is the full configuration tree.
type Config struct {
	Mask      MaskConfig                      `yaml:"mask"`
	Physics   PhysicsConfig                   `yaml:"physics"`
	Sensors   SensorsConfig                   `yaml:"sensors"`
	Characters map[string]CharacterMultipliers `yaml:"characters"`
	Telemetry TelemetryConfig                 `yaml:"telemetry"`

	// Derived values computed once after load.
	Derived DerivedConfig `yaml:"-"`
}

// MaskConfig mirrors the mask package's construction-time invariants.
type MaskConfig struct {
	CloudHeight  int `yaml:"cloud_height"`
	MaxDimension int `yaml:"max_dimension"`
}

// PhysicsConfig holds the stock physics tunables, expressed in the
// same units as actor.Tunables (per-second).
type PhysicsConfig struct {
	Acc      float64 `yaml:"acc"`
	Dec      float64 `yaml:"dec"`
	Frc      float64 `yaml:"frc"`
	TopSpeed float64 `yaml:"top_speed"`
	CapSpeed float64 `yaml:"cap_speed"`

	Air       float64 `yaml:"air"`
	AirDrag   float64 `yaml:"air_drag"`
	Grv       float64 `yaml:"grv"`
	TopYSpeed float64 `yaml:"top_y_speed"`

	Jmp    float64 `yaml:"jmp"`
	JmpRel float64 `yaml:"jmp_rel"`
	DieJmp float64 `yaml:"die_jmp"`
	HitJmp float64 `yaml:"hit_jmp"`

	Slp             float64 `yaml:"slp"`
	RollUphillSlp   float64 `yaml:"roll_uphill_slp"`
	RollDownhillSlp float64 `yaml:"roll_downhill_slp"`
	RollFrc         float64 `yaml:"roll_frc"`
	RollDec         float64 `yaml:"roll_dec"`
	Chrg            float64 `yaml:"chrg"`

	MoveThreshold     float64 `yaml:"move_threshold"`
	RollThreshold     float64 `yaml:"roll_threshold"`
	UnrollThreshold   float64 `yaml:"unroll_threshold"`
	FalloffThreshold  float64 `yaml:"falloff_threshold"`
	BrakingThreshold  float64 `yaml:"braking_threshold"`
	AirDragThreshold  float64 `yaml:"air_drag_threshold"`
	AirDragXThreshold float64 `yaml:"air_drag_x_threshold"`
	ChrgThreshold     float64 `yaml:"chrg_threshold"`
	WaitTime          float64 `yaml:"wait_time"`
}

// SensorsConfig holds the hitbox dimensions the sensor set is built
// from. Widths and heights must be odd so the box stays symmetric
// around the actor's position.
type SensorsConfig struct {
	NormalWidth    int `yaml:"normal_width"`
	NormalHeight   int `yaml:"normal_height"`
	JumpRollWidth  int `yaml:"jumproll_width"`
	JumpRollHeight int `yaml:"jumproll_height"`
}

// CharacterMultipliers scales the stock PhysicsConfig into a named
// character's tunables. A zero-value multiplier resolves to 1.0,
// leaving the stock tunables unchanged.
type CharacterMultipliers struct {
	AccMul      float64 `yaml:"acc_mul"`
	TopSpeedMul float64 `yaml:"top_speed_mul"`
	JmpMul      float64 `yaml:"jmp_mul"`
	GrvMul      float64 `yaml:"grv_mul"`
}

// TelemetryConfig controls the telemetry package's CSV output.
type TelemetryConfig struct {
	OutputDir         string `yaml:"output_dir"`
	LongAirtimeFrames int    `yaml:"long_airtime_frames"`
}

// DerivedConfig holds values computed once after load.
type DerivedConfig struct {
	DT32         float32
	HardCapSpeed float64
}

var global *Config

// Init loads configuration from path (embedded defaults only if path is
// empty) and stores it as the package-global singleton. Must be called
// before Cfg().
func Init(path string) error {
	cfg, err := Load(path)
	if err != nil {
		return err
	}
	global = cfg
	return nil
}

// MustInit is like Init but panics on error: a broken configuration is
// a programming error, not a recoverable runtime condition.
func MustInit(path string) {
	if err := Init(path); err != nil {
		panic(fmt.Sprintf("config: failed to initialize: %v", err))
	}
}

// Cfg returns the global configuration. Panics if Init was not called.
func Cfg() *Config {
	if global == nil {
		panic("config: Cfg() called before Init()")
	}
	return global
}

// Load parses the embedded defaults, then overlays path's contents (if
// path is non-empty) field-by-field over them before computing Derived.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	cfg.computeDerived()
	return cfg, nil
}

func (c *Config) computeDerived() {
	c.Derived.DT32 = float32(actor.FixedDT)
	c.Derived.HardCapSpeed = actor.HardCapSpeed
}

// WriteYAML marshals the config back out, used by cmd/tunefit to persist
// a tuning run's winning character multipliers.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	return os.WriteFile(path, data, 0644)
}

// Tunables resolves the stock PhysicsConfig and Sensors section, scaled
// by the named character's multipliers, into a plain actor.Tunables
// value. An unknown character name resolves to the identity multiplier
// (1.0 for every field) rather than erroring, since "no character found"
// is a legitimate default-character request, not a programmer error.
func (c *Config) Tunables(character string) actor.Tunables {
	mul, ok := c.Characters[character]
	if !ok {
		mul = CharacterMultipliers{AccMul: 1, TopSpeedMul: 1, JmpMul: 1, GrvMul: 1}
	}
	if mul.AccMul == 0 {
		mul.AccMul = 1
	}
	if mul.TopSpeedMul == 0 {
		mul.TopSpeedMul = 1
	}
	if mul.JmpMul == 0 {
		mul.JmpMul = 1
	}
	if mul.GrvMul == 0 {
		mul.GrvMul = 1
	}

	p := c.Physics
	return actor.Tunables{
		Acc:      p.Acc * mul.AccMul,
		Dec:      p.Dec,
		Frc:      p.Frc,
		TopSpeed: p.TopSpeed * mul.TopSpeedMul,
		CapSpeed: p.CapSpeed,

		Air:       p.Air,
		AirDrag:   p.AirDrag,
		Grv:       p.Grv * mul.GrvMul,
		TopYSpeed: p.TopYSpeed,

		Jmp:    p.Jmp * mul.JmpMul,
		JmpRel: p.JmpRel,
		DieJmp: p.DieJmp,
		HitJmp: p.HitJmp,

		Slp:             p.Slp,
		RollUphillSlp:   p.RollUphillSlp,
		RollDownhillSlp: p.RollDownhillSlp,
		RollFrc:         p.RollFrc,
		RollDec:         p.RollDec,
		Chrg:            p.Chrg,

		MoveThreshold:     p.MoveThreshold,
		RollThreshold:     p.RollThreshold,
		UnrollThreshold:   p.UnrollThreshold,
		FalloffThreshold:  p.FalloffThreshold,
		BrakingThreshold:  p.BrakingThreshold,
		AirDragThreshold:  p.AirDragThreshold,
		AirDragXThreshold: p.AirDragXThreshold,
		ChrgThreshold:     p.ChrgThreshold,
		WaitTime:          p.WaitTime,

		NormalWidth:    c.Sensors.NormalWidth,
		NormalHeight:   c.Sensors.NormalHeight,
		JumpRollWidth:  c.Sensors.JumpRollWidth,
		JumpRollHeight: c.Sensors.JumpRollHeight,
	}
}
