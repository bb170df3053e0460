package fractal

import (
	"github.com/Carmen-Shannon/oxy-fractal/common"
	"github.com/go-gl/mathgl/mgl32"
)

// Frame carries the per-frame inputs of an update: the frame time and the owner's placement.
type Frame struct {
	// DeltaTime is the frame time in seconds.
	DeltaTime float32
	// Position is the owner's world position; it becomes the root part's world position.
	Position mgl32.Vec3
	// Rotation is the owner's world rotation; it becomes the root part's parent rotation.
	Rotation mgl32.Quat
	// Scale is the owner's uniform scale, the scale of level 0.
	Scale float32
}

// Bounds returns the bounding cube used for every level's draw this frame.
func (f Frame) Bounds() common.Bounds {
	return common.NewCubeBounds(f.Position, BoundsFactor*f.Scale)
}

// levelTask updates one level for one frame. Every index is independent of the others, so
// execute may run concurrently for distinct indices. parentParts is read-only and must be
// final for this frame; parts and matrices are only written at the executed index.
type levelTask struct {
	levelIndex int

	// position and rotation are only meaningful for level 0.
	position mgl32.Vec3
	rotation mgl32.Quat

	spinAngleDelta float32
	scale          float32

	parts       []Part
	parentParts []Part
	matrices    []common.Affine3x4
}

// newLevelTask prepares the update of levelIndex in h for the given frame.
func newLevelTask(h *Hierarchy, levelIndex int, frame Frame) *levelTask {
	t := &levelTask{
		levelIndex:     levelIndex,
		spinAngleDelta: SpinAngleDelta(frame.DeltaTime),
		scale:          LevelScale(frame.Scale, levelIndex),
		parts:          h.Parts(levelIndex),
		matrices:       h.Matrices(levelIndex),
	}
	if levelIndex == 0 {
		t.position = frame.Position
		t.rotation = frame.Rotation
	} else {
		t.parentParts = h.Parts(levelIndex - 1)
	}
	return t
}

// count returns the number of parts the task covers.
func (t *levelTask) count() int {
	return len(t.parts)
}

// execute updates the part at index i.
//
// The matrix is emitted before the world position is recomputed, so it carries the position
// from the previous frame together with this frame's rotation.
func (t *levelTask) execute(i int) {
	part := t.parts[i]

	part.SpinAngle += t.spinAngleDelta

	var parent Part
	parentWorldRotation := t.rotation
	if t.levelIndex > 0 {
		parent = t.parentParts[ParentIndex(i)]
		parentWorldRotation = parent.WorldRotation
	}

	part.WorldRotation = parentWorldRotation.Mul(part.Rotation.Mul(mgl32.QuatRotate(part.SpinAngle, up)))

	t.matrices[i] = common.PackAffine(part.WorldRotation, t.scale, part.WorldPosition)

	if t.levelIndex == 0 {
		part.WorldPosition = t.position
	} else {
		part.WorldPosition = parent.WorldPosition.Add(parentWorldRotation.Rotate(part.Direction.Mul(ChildOffset * t.scale)))
	}

	t.parts[i] = part
}

// executeRange updates parts [start, end).
func (t *levelTask) executeRange(start, end int) {
	for i := start; i < end; i++ {
		t.execute(i)
	}
}
