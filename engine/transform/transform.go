package transform

import (
	"sync"
	"sync/atomic"

	"github.com/go-gl/mathgl/mgl32"
)

// idCounter hands out transform IDs when none is configured.
var idCounter atomic.Uint64

type transform struct {
	mu *sync.RWMutex

	id      uint64
	enabled atomic.Bool

	position mgl32.Vec3
	rotation mgl32.Quat
	scale    mgl32.Vec3

	// rotationSpeed is an Euler rate in radians per second, applied by Advance.
	rotationSpeed mgl32.Vec3
}

// Transform is the placement of an object in the world: position, orientation and scale.
// All methods are safe for concurrent use. The tick loop advances the rotation while the
// render loop reads a Placement snapshot.
type Transform interface {
	// ID returns the transform's unique identifier.
	//
	// Returns:
	//   - uint64: the ID
	ID() uint64

	// Enabled reports whether the owner should be updated and drawn.
	//
	// Returns:
	//   - bool: true if enabled
	Enabled() bool

	// SetEnabled enables or disables the owner.
	//
	// Parameters:
	//   - enabled: true to enable
	SetEnabled(enabled bool)

	// Position returns the world position.
	//
	// Returns:
	//   - mgl32.Vec3: the position
	Position() mgl32.Vec3

	// SetPosition sets the world position.
	//
	// Parameters:
	//   - p: the new position
	SetPosition(p mgl32.Vec3)

	// Rotation returns the world rotation.
	//
	// Returns:
	//   - mgl32.Quat: the normalized rotation
	Rotation() mgl32.Quat

	// SetRotation sets the world rotation. The quaternion is normalized.
	//
	// Parameters:
	//   - q: the new rotation
	SetRotation(q mgl32.Quat)

	// SetRotationEuler sets the rotation from Euler angles in radians, applied X then Y then Z.
	//
	// Parameters:
	//   - x: rotation about the X axis
	//   - y: rotation about the Y axis
	//   - z: rotation about the Z axis
	SetRotationEuler(x, y, z float32)

	// Scale returns the per-axis scale.
	//
	// Returns:
	//   - mgl32.Vec3: the scale
	Scale() mgl32.Vec3

	// SetScale sets the per-axis scale.
	//
	// Parameters:
	//   - s: the new scale
	SetScale(s mgl32.Vec3)

	// RotationSpeed returns the Euler rotation rate in radians per second.
	RotationSpeed() mgl32.Vec3

	// SetRotationSpeed sets the Euler rotation rate applied by Advance.
	//
	// Parameters:
	//   - speed: radians per second about X, Y and Z
	SetRotationSpeed(speed mgl32.Vec3)

	// Advance applies the rotation speed for a time step.
	//
	// Parameters:
	//   - dt: the time step in seconds
	Advance(dt float32)

	// Placement returns a consistent snapshot of position, rotation and uniform scale.
	// The uniform scale is the X component of the scale.
	//
	// Returns:
	//   - mgl32.Vec3: the position
	//   - mgl32.Quat: the rotation
	//   - float32: the uniform scale
	Placement() (mgl32.Vec3, mgl32.Quat, float32)
}

var _ Transform = &transform{}

// NewTransform creates an enabled transform at the origin with identity rotation and unit scale.
//
// Parameters:
//   - options: functional options to configure the transform
//
// Returns:
//   - Transform: the new transform
func NewTransform(options ...TransformBuilderOption) Transform {
	t := &transform{
		mu:       &sync.RWMutex{},
		id:       idCounter.Add(1),
		rotation: mgl32.QuatIdent(),
		scale:    mgl32.Vec3{1, 1, 1},
	}
	t.enabled.Store(true)

	for _, option := range options {
		option(t)
	}
	t.rotation = t.rotation.Normalize()
	return t
}

func (t *transform) ID() uint64 {
	return t.id
}

func (t *transform) Enabled() bool {
	return t.enabled.Load()
}

func (t *transform) SetEnabled(enabled bool) {
	t.enabled.Store(enabled)
}

func (t *transform) Position() mgl32.Vec3 {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.position
}

func (t *transform) SetPosition(p mgl32.Vec3) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.position = p
}

func (t *transform) Rotation() mgl32.Quat {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.rotation
}

func (t *transform) SetRotation(q mgl32.Quat) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.rotation = q.Normalize()
}

func (t *transform) SetRotationEuler(x, y, z float32) {
	q := eulerToQuat(x, y, z)
	t.mu.Lock()
	defer t.mu.Unlock()
	t.rotation = q
}

func (t *transform) Scale() mgl32.Vec3 {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.scale
}

func (t *transform) SetScale(s mgl32.Vec3) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.scale = s
}

func (t *transform) RotationSpeed() mgl32.Vec3 {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.rotationSpeed
}

func (t *transform) SetRotationSpeed(speed mgl32.Vec3) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.rotationSpeed = speed
}

func (t *transform) Advance(dt float32) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.rotationSpeed == (mgl32.Vec3{}) || dt == 0 {
		return
	}
	step := t.rotationSpeed.Mul(dt)
	t.rotation = eulerToQuat(step.X(), step.Y(), step.Z()).Mul(t.rotation).Normalize()
}

func (t *transform) Placement() (mgl32.Vec3, mgl32.Quat, float32) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.position, t.rotation, t.scale.X()
}

// eulerToQuat composes rotations about X, then Y, then Z.
func eulerToQuat(x, y, z float32) mgl32.Quat {
	qx := mgl32.QuatRotate(x, mgl32.Vec3{1, 0, 0})
	qy := mgl32.QuatRotate(y, mgl32.Vec3{0, 1, 0})
	qz := mgl32.QuatRotate(z, mgl32.Vec3{0, 0, 1})
	return qz.Mul(qy).Mul(qx)
}
