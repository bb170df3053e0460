package transform

import "github.com/go-gl/mathgl/mgl32"

// TransformBuilderOption is a functional option for configuring a Transform during construction.
type TransformBuilderOption func(*transform)

// WithID overrides the generated ID.
//
// Parameters:
//   - id: unique identifier for the transform
//
// Returns:
//   - TransformBuilderOption: functional option to set the ID
func WithID(id uint64) TransformBuilderOption {
	return func(t *transform) {
		t.id = id
	}
}

// WithEnabled sets whether the owner starts enabled. Transforms are enabled by default.
//
// Parameters:
//   - enabled: true to update and draw the owner
//
// Returns:
//   - TransformBuilderOption: functional option to set the enabled state
func WithEnabled(enabled bool) TransformBuilderOption {
	return func(t *transform) {
		t.enabled.Store(enabled)
	}
}

// WithPosition sets the initial world position.
//
// Parameters:
//   - p: the position
//
// Returns:
//   - TransformBuilderOption: functional option to set the position
func WithPosition(p mgl32.Vec3) TransformBuilderOption {
	return func(t *transform) {
		t.position = p
	}
}

// WithRotation sets the initial world rotation.
//
// Parameters:
//   - q: the rotation, normalized on construction
//
// Returns:
//   - TransformBuilderOption: functional option to set the rotation
func WithRotation(q mgl32.Quat) TransformBuilderOption {
	return func(t *transform) {
		t.rotation = q
	}
}

// WithRotationEuler sets the initial rotation from Euler angles in radians.
//
// Parameters:
//   - x, y, z: rotation about each axis, applied X then Y then Z
//
// Returns:
//   - TransformBuilderOption: functional option to set the rotation
func WithRotationEuler(x, y, z float32) TransformBuilderOption {
	return func(t *transform) {
		t.rotation = eulerToQuat(x, y, z)
	}
}

// WithScale sets the per-axis scale.
//
// Parameters:
//   - s: the scale
//
// Returns:
//   - TransformBuilderOption: functional option to set the scale
func WithScale(s mgl32.Vec3) TransformBuilderOption {
	return func(t *transform) {
		t.scale = s
	}
}

// WithUniformScale sets the same scale on every axis.
//
// Parameters:
//   - s: the scale
//
// Returns:
//   - TransformBuilderOption: functional option to set the scale
func WithUniformScale(s float32) TransformBuilderOption {
	return func(t *transform) {
		t.scale = mgl32.Vec3{s, s, s}
	}
}

// WithRotationSpeed sets the Euler rotation rate applied by Advance.
//
// Parameters:
//   - speed: radians per second about X, Y and Z
//
// Returns:
//   - TransformBuilderOption: functional option to set the rotation speed
func WithRotationSpeed(speed mgl32.Vec3) TransformBuilderOption {
	return func(t *transform) {
		t.rotationSpeed = speed
	}
}
