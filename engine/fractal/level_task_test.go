package fractal

import (
	"testing"

	"github.com/Carmen-Shannon/oxy-fractal/common"
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// runSequential updates every level in order on the calling goroutine.
func runSequential(h *Hierarchy, frame Frame) {
	for l := range h.Depth() {
		task := newLevelTask(h, l, frame)
		task.executeRange(0, task.count())
	}
}

func identityFrame(dt float32) Frame {
	return Frame{DeltaTime: dt, Rotation: mgl32.QuatIdent(), Scale: 1}
}

func assertVec3InDelta(t *testing.T, want, got mgl32.Vec3, msgAndArgs ...any) {
	t.Helper()
	for c := range 3 {
		assert.InDelta(t, want[c], got[c], 1e-5, msgAndArgs...)
	}
}

func TestSpinAccumulatesOverFrames(t *testing.T) {
	var h Hierarchy
	h.Activate(1)

	for range 8 {
		runSequential(&h, identityFrame(0.1))
	}

	assert.InDelta(t, 0.3141593, h.Parts(0)[0].SpinAngle, 1e-6)
	assert.InDelta(t, 8*0.125*math32.Pi*0.1, h.Parts(0)[0].SpinAngle, 1e-6)
}

func TestRootFollowsOwnerWithoutLag(t *testing.T) {
	var h Hierarchy
	h.Activate(1)

	owner := mgl32.QuatRotate(0.7, mgl32.Vec3{0, 0, 1})
	frame := Frame{DeltaTime: 0.5, Position: mgl32.Vec3{3, -2, 1}, Rotation: owner, Scale: 2}
	runSequential(&h, frame)

	root := h.Parts(0)[0]
	assert.Equal(t, frame.Position, root.WorldPosition)
	want := owner.Mul(mgl32.QuatRotate(SpinAngleDelta(0.5), mgl32.Vec3{0, 1, 0}))
	assert.True(t, want.ApproxEqualThreshold(root.WorldRotation, 1e-6))

	frame.Position = mgl32.Vec3{10, 0, 0}
	runSequential(&h, frame)
	assert.Equal(t, frame.Position, h.Parts(0)[0].WorldPosition)
}

func TestMatrixUsesPreviousFramePosition(t *testing.T) {
	var h Hierarchy
	h.Activate(2)

	first := Frame{DeltaTime: 0.1, Position: mgl32.Vec3{1, 2, 3}, Rotation: mgl32.QuatIdent(), Scale: 1}
	runSequential(&h, first)

	// First frame: every matrix carries the zero-initialized position.
	assert.Equal(t, mgl32.Vec3{}, h.Matrices(0)[0].Translation())
	assert.Equal(t, mgl32.Vec3{}, h.Matrices(1)[3].Translation())

	rootAfterFirst := h.Parts(0)[0].WorldPosition
	childAfterFirst := h.Parts(1)[3].WorldPosition

	second := first
	second.Position = mgl32.Vec3{5, 5, 5}
	runSequential(&h, second)

	assert.Equal(t, rootAfterFirst, h.Matrices(0)[0].Translation())
	assert.Equal(t, childAfterFirst, h.Matrices(1)[3].Translation())
	assert.Equal(t, second.Position, h.Parts(0)[0].WorldPosition)
}

func TestMatrixBasisUsesCurrentRotationAndLevelScale(t *testing.T) {
	var h Hierarchy
	h.Activate(2)
	frame := Frame{DeltaTime: 1, Rotation: mgl32.QuatIdent(), Scale: 4}
	runSequential(&h, frame)

	for l := range h.Depth() {
		scale := LevelScale(frame.Scale, l)
		for i, m := range h.Matrices(l) {
			want := common.PackAffine(h.Parts(l)[i].WorldRotation, scale, mgl32.Vec3{})
			for _, c := range []int{0, 1, 2, 4, 5, 6, 8, 9, 10} {
				assert.InDelta(t, want[c], m[c], 1e-6, "level %d index %d element %d", l, i, c)
			}
			assert.InDelta(t, scale, m.Col(0).Len(), 1e-5)
		}
	}
}

func TestChildPositionsOffsetAlongDirection(t *testing.T) {
	var h Hierarchy
	h.Activate(2)

	// Zero frame time keeps spin at zero, so the parent rotation is the owner's.
	frame := Frame{Position: mgl32.Vec3{1, 0, 0}, Rotation: mgl32.QuatIdent(), Scale: 2}
	runSequential(&h, frame)

	childScale := LevelScale(frame.Scale, 1)
	for i, p := range h.Parts(1) {
		want := frame.Position.Add(Direction(i).Mul(ChildOffset * childScale))
		assertVec3InDelta(t, want, p.WorldPosition, "child %d", i)
	}
}

func TestChildPositionsFollowParentRotation(t *testing.T) {
	var h Hierarchy
	h.Activate(2)

	owner := mgl32.QuatRotate(math32.Pi/2, mgl32.Vec3{0, 0, 1})
	frame := Frame{Rotation: owner, Scale: 1}
	runSequential(&h, frame)

	// The up child is carried onto -X by the owner's rotation.
	assertVec3InDelta(t, mgl32.Vec3{-ChildOffset * 0.5, 0, 0}, h.Parts(1)[0].WorldPosition)
}

func TestChildRotationComposition(t *testing.T) {
	var h Hierarchy
	h.Activate(3)
	runSequential(&h, identityFrame(0.3))
	runSequential(&h, identityFrame(0.2))

	for l := 1; l < h.Depth(); l++ {
		for i, p := range h.Parts(l) {
			parent := h.Parts(l - 1)[ParentIndex(i)]
			want := parent.WorldRotation.Mul(p.Rotation.Mul(mgl32.QuatRotate(p.SpinAngle, mgl32.Vec3{0, 1, 0})))
			require.True(t, want.ApproxEqualThreshold(p.WorldRotation, 1e-5), "level %d index %d", l, i)
		}
	}
}

func TestFrameBounds(t *testing.T) {
	f := Frame{Position: mgl32.Vec3{1, 2, 3}, Scale: 2}
	b := f.Bounds()
	assert.Equal(t, f.Position, b.Center)
	assertVec3InDelta(t, mgl32.Vec3{-2, -1, 0}, b.Min())
	assertVec3InDelta(t, mgl32.Vec3{4, 5, 6}, b.Max())
}
