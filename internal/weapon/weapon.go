// Package weapon implements the fire-intent latch and the cooldown scheduler
// that turns elapsed frame time into retroactively timed shots.
package weapon

import (
	"errors"
	"fmt"
	gomath "math"
	"time"
)

// Construction errors. A non-positive interval would never let the catch-up
// loop terminate, so it is rejected up front.
var (
	ErrInvalidRate     = errors.New("rate of fire must be positive and finite")
	ErrInvalidInterval = errors.New("fire interval must be positive")
)

// DefaultRate is the rate of fire, in shots per second, of mounts that do
// not configure one.
const DefaultRate = 20.0

// Weapon is the per-entity fire state. Cooldown is the time left until the
// next shot is due; it goes negative only inside Step while shots are owed.
type Weapon struct {
	firing   bool
	interval time.Duration
	cooldown time.Duration
}

// Shot is one emitted fire event.
type Shot struct {
	// Offset is how long ago, within the current frame, the shot was due.
	Offset time.Duration
}

// New returns a weapon firing rate shots per second.
func New(rate float64) (Weapon, error) {
	if !(rate > 0) || gomath.IsInf(rate, 0) {
		return Weapon{}, fmt.Errorf("%w: %v", ErrInvalidRate, rate)
	}
	d := time.Duration(float64(time.Second) / rate)
	if d <= 0 {
		return Weapon{}, fmt.Errorf("%w: %v rounds below 1ns", ErrInvalidRate, rate)
	}
	return NewWithInterval(d)
}

// NewWithInterval returns a weapon firing once per interval.
func NewWithInterval(interval time.Duration) (Weapon, error) {
	if interval <= 0 {
		return Weapon{}, fmt.Errorf("%w: %v", ErrInvalidInterval, interval)
	}
	return Weapon{interval: interval}, nil
}

// Fire latches a fire request for the next Step.
func (w *Weapon) Fire() {
	w.firing = true
}

// Firing reports whether a fire request is latched.
func (w Weapon) Firing() bool { return w.firing }

// Interval returns the nominal time between shots.
func (w Weapon) Interval() time.Duration { return w.interval }

// Cooldown returns the time until the next shot is due.
func (w Weapon) Cooldown() time.Duration { return w.cooldown }

// Rate returns shots per second.
func (w Weapon) Rate() float64 {
	if w.interval <= 0 {
		return 0
	}
	return float64(time.Second) / float64(w.interval)
}

// Step advances the weapon by elapsed and returns the new state together with
// every shot owed this frame, oldest first. The latch is consumed. A weapon
// without an interval (the zero value) never fires.
func (w Weapon) Step(elapsed time.Duration) (Weapon, []Shot) {
	if !w.firing || w.interval <= 0 {
		w.cooldown = max(w.cooldown, 0)
		return w, nil
	}

	w.firing = false
	if w.cooldown > 0 {
		w.cooldown -= elapsed
	}

	var shots []Shot
	for w.cooldown <= 0 {
		shots = append(shots, Shot{Offset: -w.cooldown})
		w.cooldown += w.interval
	}
	return w, shots
}
