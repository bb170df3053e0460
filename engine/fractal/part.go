package fractal

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

const (
	// BranchFactor is the number of children every part has on the next level.
	BranchFactor = 5

	// MinDepth and MaxDepth bound the number of levels a hierarchy may hold.
	MinDepth = 1
	MaxDepth = 8

	// DefaultDepth is the depth used when none is configured.
	DefaultDepth = 4

	// SpinRate is the constant angular speed, in radians per second, every part spins about its local up axis.
	SpinRate = 0.125 * math32.Pi

	// LevelScaleFactor shrinks the uniform scale from one level to the next.
	LevelScaleFactor float32 = 0.5

	// ChildOffset is the distance, in units of the child's own scale, between a child and its parent.
	ChildOffset float32 = 1.5

	// BoundsFactor sizes the per-draw bounding cube relative to the root scale.
	BoundsFactor float32 = 3
)

// Part is a single node of the fractal. Parts are stored by value in per-level slices;
// the parent of the part at index i lives at index i/BranchFactor on the previous level.
type Part struct {
	// Direction is the fixed unit offset direction from the parent, in the parent's frame.
	Direction mgl32.Vec3
	// Rotation is the fixed local orientation aligning the part with Direction.
	Rotation mgl32.Quat
	// WorldRotation is recomputed every frame.
	WorldRotation mgl32.Quat
	// WorldPosition is recomputed every frame, after the render matrix has been emitted.
	WorldPosition mgl32.Vec3
	// SpinAngle accumulates SpinRate * deltaTime every frame. It is never wrapped.
	SpinAngle float32
}

var (
	up      = mgl32.Vec3{0, 1, 0}
	right   = mgl32.Vec3{1, 0, 0}
	left    = mgl32.Vec3{-1, 0, 0}
	forward = mgl32.Vec3{0, 0, 1}
	back    = mgl32.Vec3{0, 0, -1}

	zAxis = mgl32.Vec3{0, 0, 1}
	xAxis = mgl32.Vec3{1, 0, 0}
)

// directions is the canonical palette indexed by a part's position within its sibling group.
var directions = [BranchFactor]mgl32.Vec3{up, right, left, forward, back}

// rotations turn the local up axis onto the matching entry of directions.
var rotations = [BranchFactor]mgl32.Quat{
	mgl32.QuatIdent(),
	mgl32.QuatRotate(-0.5*math32.Pi, zAxis),
	mgl32.QuatRotate(0.5*math32.Pi, zAxis),
	mgl32.QuatRotate(0.5*math32.Pi, xAxis),
	mgl32.QuatRotate(-0.5*math32.Pi, xAxis),
}

// Direction returns the canonical direction for a sibling position.
//
// Parameters:
//   - childIndex: position within the sibling group, in [0, BranchFactor)
//
// Returns:
//   - mgl32.Vec3: the unit direction
func Direction(childIndex int) mgl32.Vec3 {
	return directions[childIndex]
}

// LocalRotation returns the canonical local rotation for a sibling position.
//
// Parameters:
//   - childIndex: position within the sibling group, in [0, BranchFactor)
//
// Returns:
//   - mgl32.Quat: the fixed local orientation
func LocalRotation(childIndex int) mgl32.Quat {
	return rotations[childIndex]
}

// newPart creates a part for the given sibling position with zeroed runtime state.
func newPart(childIndex int) Part {
	return Part{
		Direction: directions[childIndex],
		Rotation:  rotations[childIndex],
	}
}

// SpinAngleDelta converts a frame time into the spin increment applied to every part.
//
// Parameters:
//   - deltaTime: frame time in seconds
//
// Returns:
//   - float32: the spin increment in radians
func SpinAngleDelta(deltaTime float32) float32 {
	return SpinRate * deltaTime
}
