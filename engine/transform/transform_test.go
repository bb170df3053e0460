package transform

import (
	"sync"
	"testing"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
)

func assertVecNear(t *testing.T, want, got mgl32.Vec3) {
	t.Helper()
	for i := range want {
		assert.InDelta(t, want[i], got[i], 1e-5, "component %d", i)
	}
}

func TestNewTransformDefaults(t *testing.T) {
	tr := NewTransform()

	assert.True(t, tr.Enabled())
	assert.Equal(t, mgl32.Vec3{}, tr.Position())
	assert.Equal(t, mgl32.QuatIdent(), tr.Rotation())
	assert.Equal(t, mgl32.Vec3{1, 1, 1}, tr.Scale())
	assert.NotZero(t, tr.ID())
	assert.NotEqual(t, tr.ID(), NewTransform().ID())
}

func TestNewTransformOptions(t *testing.T) {
	tr := NewTransform(
		WithID(42),
		WithEnabled(false),
		WithPosition(mgl32.Vec3{1, 2, 3}),
		WithUniformScale(2),
	)

	assert.Equal(t, uint64(42), tr.ID())
	assert.False(t, tr.Enabled())
	pos, rot, scale := tr.Placement()
	assert.Equal(t, mgl32.Vec3{1, 2, 3}, pos)
	assert.Equal(t, mgl32.QuatIdent(), rot)
	assert.Equal(t, float32(2), scale)
}

func TestWithRotationNormalizes(t *testing.T) {
	tr := NewTransform(WithRotation(mgl32.Quat{W: 2}))
	assert.InDelta(t, 1, tr.Rotation().Len(), 1e-6)
}

func TestSetRotationEulerSingleAxis(t *testing.T) {
	tr := NewTransform()
	tr.SetRotationEuler(0, math32.Pi/2, 0)

	assertVecNear(t, mgl32.Vec3{0, 0, -1}, tr.Rotation().Rotate(mgl32.Vec3{1, 0, 0}))
}

func TestUniformScaleIsXComponent(t *testing.T) {
	tr := NewTransform(WithScale(mgl32.Vec3{3, 1, 1}))
	_, _, scale := tr.Placement()
	assert.Equal(t, float32(3), scale)
}

func TestAdvanceAppliesRotationSpeed(t *testing.T) {
	tr := NewTransform(WithRotationSpeed(mgl32.Vec3{0, math32.Pi, 0}))

	tr.Advance(0.25)
	tr.Advance(0.25)

	assertVecNear(t, mgl32.Vec3{0, 0, -1}, tr.Rotation().Rotate(mgl32.Vec3{1, 0, 0}))
}

func TestAdvanceWithoutSpeedIsNoop(t *testing.T) {
	tr := NewTransform()
	tr.Advance(1)
	assert.Equal(t, mgl32.QuatIdent(), tr.Rotation())
}

func TestConcurrentAdvanceAndPlacement(t *testing.T) {
	tr := NewTransform(WithRotationSpeed(mgl32.Vec3{0.1, 0.2, 0.3}))

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		for range 1000 {
			tr.Advance(0.01)
		}
	}()
	go func() {
		defer wg.Done()
		for range 1000 {
			_, rot, _ := tr.Placement()
			assert.InDelta(t, 1, rot.Len(), 1e-4)
		}
	}()
	wg.Wait()
}
