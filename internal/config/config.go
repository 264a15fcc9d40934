// Package config handles simulation configuration loading and validation.
package config

import "time"

// Config holds all settings of a simulation run.
type Config struct {
	Logging    LoggingConfig    `yaml:"logging"`
	Assets     AssetsConfig     `yaml:"assets"`
	Synthesis  SynthesisConfig  `yaml:"synthesis"`
	Weapons    WeaponsConfig    `yaml:"weapons"`
	Projectile ProjectileConfig `yaml:"projectile"`
	Simulation SimulationConfig `yaml:"simulation"`
	World      WorldConfig      `yaml:"world"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// AssetsConfig lists the scene assets to load.
type AssetsConfig struct {
	BaseDir string   `yaml:"base_dir"` // Scene paths are relative to this
	Scenes  []string `yaml:"scenes"`
}

// SynthesisConfig controls the collider synthesis pass.
type SynthesisConfig struct {
	Workers    int    `yaml:"workers"`
	Degenerate string `yaml:"degenerate"` // abort or skip
}

// WeaponsConfig controls weapon mounts.
type WeaponsConfig struct {
	RateOfFire  float64 `yaml:"rate_of_fire"` // Shots per second
	MountPrefix string  `yaml:"mount_prefix"`
}

// ProjectileConfig describes fired projectiles.
type ProjectileConfig struct {
	Speed      float32       `yaml:"speed"`
	Lifetime   time.Duration `yaml:"lifetime"`
	Radius     float32       `yaml:"radius"`
	HalfLength float32       `yaml:"half_length"`
}

// SimulationConfig drives the headless frame loop.
type SimulationConfig struct {
	Frames     int             `yaml:"frames"`
	FrameTimes []time.Duration `yaml:"frame_times"` // Cycled when shorter than Frames
	FireFrames []FrameRange    `yaml:"fire_frames"`
	FireTarget string          `yaml:"fire_target"` // player or all
}

// FrameRange is the half-open frame interval [From, To).
type FrameRange struct {
	From int `yaml:"from"`
	To   int `yaml:"to"`
}

// Contains reports whether frame lies in the range.
func (r FrameRange) Contains(frame int) bool {
	return frame >= r.From && frame < r.To
}

// WorldConfig lists scene instances placed when the simulation starts.
type WorldConfig struct {
	Spawns []SpawnConfig `yaml:"spawns"`
}

// SpawnConfig places one scene instance.
type SpawnConfig struct {
	Scene       string      `yaml:"scene"`
	Name        string      `yaml:"name"`
	Translation [3]float32  `yaml:"translation"`
	Rotation    *[4]float32 `yaml:"rotation"` // x, y, z, w
	Velocity    *[3]float32 `yaml:"velocity"`
	Player      bool        `yaml:"player"`
	RateOfFire  float64     `yaml:"rate_of_fire"` // Overrides weapons.rate_of_fire
}

// FrameTime returns the time step of frame i.
func (s *SimulationConfig) FrameTime(i int) time.Duration {
	if len(s.FrameTimes) == 0 {
		return 0
	}
	return s.FrameTimes[i%len(s.FrameTimes)]
}

// Firing reports whether fire intent is held during frame i.
func (s *SimulationConfig) Firing(i int) bool {
	for _, r := range s.FireFrames {
		if r.Contains(i) {
			return true
		}
	}
	return false
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
		Assets: AssetsConfig{
			BaseDir: ".",
		},
		Synthesis: SynthesisConfig{
			Workers:    4,
			Degenerate: "abort",
		},
		Weapons: WeaponsConfig{
			RateOfFire:  20,
			MountPrefix: "barrel.",
		},
		Projectile: ProjectileConfig{
			Speed:      100,
			Lifetime:   10 * time.Second,
			Radius:     0.1,
			HalfLength: 0.8,
		},
		Simulation: SimulationConfig{
			Frames:     600,
			FrameTimes: []time.Duration{16666667 * time.Nanosecond},
			FireTarget: "player",
		},
	}
}
