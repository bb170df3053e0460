package fractal

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNodeCounts(t *testing.T) {
	tests := []struct {
		depth  int
		counts []int
		total  int
	}{
		{1, []int{1}, 1},
		{2, []int{1, 5}, 6},
		{3, []int{1, 5, 25}, 31},
		{4, []int{1, 5, 25, 125}, 156},
	}
	for _, tt := range tests {
		var h Hierarchy
		h.Activate(tt.depth)

		require.Equal(t, tt.depth, h.Depth())
		for l, want := range tt.counts {
			assert.Equal(t, want, h.NodeCount(l), "depth %d level %d", tt.depth, l)
			assert.Len(t, h.Matrices(l), want)
			assert.Equal(t, want, NodeCountAt(l))
		}
		assert.Equal(t, tt.total, h.TotalNodeCount())
		assert.Equal(t, tt.total, TotalNodeCountFor(tt.depth))
	}
}

func TestActivateAssignsSiblingPalette(t *testing.T) {
	var h Hierarchy
	h.Activate(3)

	for l := range h.Depth() {
		for i, p := range h.Parts(l) {
			assert.Equal(t, Direction(i%BranchFactor), p.Direction, "level %d index %d", l, i)
			assert.Equal(t, LocalRotation(i%BranchFactor), p.Rotation, "level %d index %d", l, i)
			assert.Zero(t, p.SpinAngle)
			assert.Equal(t, mgl32.Vec3{}, p.WorldPosition)
		}
	}

	node7 := h.Parts(2)[7]
	assert.Equal(t, mgl32.Vec3{-1, 0, 0}, node7.Direction)
	assert.Equal(t, 1, ParentIndex(7))
	assert.Equal(t, 2, SiblingPosition(7))

	for i := range h.NodeCount(1) {
		assert.Equal(t, 0, ParentIndex(i))
	}
}

func TestRotationsAlignUpWithDirection(t *testing.T) {
	for i := range BranchFactor {
		got := LocalRotation(i).Rotate(mgl32.Vec3{0, 1, 0})
		want := Direction(i)
		for c := range 3 {
			assert.InDelta(t, want[c], got[c], 1e-6, "sibling %d component %d", i, c)
		}
	}
}

func TestActivateDepthOutOfRangePanics(t *testing.T) {
	var h Hierarchy
	assert.Panics(t, func() { h.Activate(0) })
	assert.Panics(t, func() { h.Activate(MaxDepth + 1) })
	assert.False(t, h.Active())
}

func TestDeactivate(t *testing.T) {
	var h Hierarchy
	assert.NotPanics(t, h.Deactivate)

	h.Activate(2)
	assert.True(t, h.Active())
	h.Deactivate()
	assert.False(t, h.Active())
	assert.Zero(t, h.Depth())
	assert.Zero(t, h.TotalNodeCount())
}

func TestReactivateReallocates(t *testing.T) {
	var h Hierarchy
	h.Activate(2)
	h.Parts(1)[3].SpinAngle = 1

	h.Activate(3)
	assert.Equal(t, 3, h.Depth())
	assert.Zero(t, h.Parts(1)[3].SpinAngle)
}

func TestLevelScale(t *testing.T) {
	assert.Equal(t, float32(2), LevelScale(2, 0))
	assert.Equal(t, float32(1), LevelScale(2, 1))
	assert.Equal(t, float32(0.25), LevelScale(2, 3))
}
