package config

import (
	"errors"
	"fmt"
	"math"

	"github.com/Faultbox/hullforge/internal/assets"
)

// ErrInvalidConfig wraps every validation failure.
var ErrInvalidConfig = errors.New("invalid config")

// Validate checks the settings that would otherwise fail deep inside the
// simulation, most importantly a rate of fire that would stall the weapon
// scheduler.
func (c *Config) Validate() error {
	var errs []error
	bad := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf("%w: "+format, append([]any{ErrInvalidConfig}, args...)...))
	}

	if !validRate(c.Weapons.RateOfFire) {
		bad("weapons.rate_of_fire must be positive, got %v", c.Weapons.RateOfFire)
	}

	switch c.Synthesis.Degenerate {
	case "", "abort", "skip":
	default:
		bad("synthesis.degenerate must be abort or skip, got %q", c.Synthesis.Degenerate)
	}
	if c.Synthesis.Workers < 1 {
		bad("synthesis.workers must be at least 1, got %d", c.Synthesis.Workers)
	}

	if c.Projectile.Speed < 0 || !finite32(c.Projectile.Speed) {
		bad("projectile.speed must be non-negative, got %v", c.Projectile.Speed)
	}
	if c.Projectile.Lifetime <= 0 {
		bad("projectile.lifetime must be positive, got %v", c.Projectile.Lifetime)
	}
	if !(c.Projectile.Radius > 0) || c.Projectile.HalfLength < 0 {
		bad("projectile capsule radius %v half_length %v", c.Projectile.Radius, c.Projectile.HalfLength)
	}

	if c.Simulation.Frames < 0 {
		bad("simulation.frames must not be negative, got %d", c.Simulation.Frames)
	}
	if len(c.Simulation.FrameTimes) == 0 {
		bad("simulation.frame_times is empty")
	}
	for i, dt := range c.Simulation.FrameTimes {
		if dt < 0 {
			bad("simulation.frame_times[%d] is negative: %v", i, dt)
		}
	}
	for i, r := range c.Simulation.FireFrames {
		if r.From < 0 || r.To < r.From {
			bad("simulation.fire_frames[%d] is not a range: [%d, %d)", i, r.From, r.To)
		}
	}
	switch c.Simulation.FireTarget {
	case "", "player", "all":
	default:
		bad("simulation.fire_target must be player or all, got %q", c.Simulation.FireTarget)
	}

	listed := make(map[string]bool, len(c.Assets.Scenes))
	for _, s := range c.Assets.Scenes {
		listed[assets.NormalizePath(s)] = true
	}
	for i, sp := range c.World.Spawns {
		if !listed[assets.NormalizePath(sp.Scene)] {
			bad("world.spawns[%d] uses scene %q not listed in assets.scenes", i, sp.Scene)
		}
		if sp.RateOfFire != 0 && !validRate(sp.RateOfFire) {
			bad("world.spawns[%d].rate_of_fire must be positive, got %v", i, sp.RateOfFire)
		}
	}

	return errors.Join(errs...)
}

func validRate(r float64) bool {
	return r > 0 && !math.IsInf(r, 0)
}

func finite32(f float32) bool {
	return !math.IsNaN(float64(f)) && !math.IsInf(float64(f), 0)
}
