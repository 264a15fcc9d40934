package math

// Transform is a local translation, rotation and scale.
type Transform struct {
	Translation Vec3
	Rotation    Quat
	Scale       Vec3
}

// TransformIdentity returns a transform that leaves points unchanged.
func TransformIdentity() Transform {
	return Transform{Rotation: QuatIdentity(), Scale: Vec3One}
}

// TransformFromTranslation returns an unrotated, unscaled transform at p.
func TransformFromTranslation(p Vec3) Transform {
	t := TransformIdentity()
	t.Translation = p
	return t
}

// Affine composes the transform into a single matrix: T * R * S.
func (t Transform) Affine() Mat4 {
	m := Translate(t.Translation.X, t.Translation.Y, t.Translation.Z)
	m = m.Mul(t.Rotation.ToMat4())
	return m.Mul(Scale(t.Scale.X, t.Scale.Y, t.Scale.Z))
}

// Forward returns the -Z axis after rotation.
func (t Transform) Forward() Vec3 {
	return t.Rotation.Rotate(Vec3{0, 0, -1})
}
