package weapon

import "github.com/Faultbox/hullforge/pkg/math"

// SpawnRequest describes a projectile to materialize.
type SpawnRequest struct {
	Position  math.Vec3
	Direction math.Vec3
	Velocity  math.Vec3
	Shot      Shot
}

// Spawn resolves a shot fired from origin along forward. The inherited
// velocity of the carrier is added to the muzzle velocity, and the spawn
// point is advanced by the time the shot has already been in flight.
func Spawn(shot Shot, origin, forward, inherited math.Vec3, speed float32) SpawnRequest {
	dir := forward.Normalize()
	vel := dir.Scale(speed).Add(inherited)
	return SpawnRequest{
		Position:  origin.Add(vel.Scale(float32(shot.Offset.Seconds()))),
		Direction: dir,
		Velocity:  vel,
		Shot:      shot,
	}
}
