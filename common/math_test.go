package common

import (
	"testing"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
)

const eps = 1e-5

func TestPackAffineIdentity(t *testing.T) {
	m := PackAffine(mgl32.QuatIdent(), 2, mgl32.Vec3{1, 2, 3})

	want := Affine3x4{
		2, 0, 0, 1,
		0, 2, 0, 2,
		0, 0, 2, 3,
	}
	assert.Equal(t, want, m)
	assert.Equal(t, mgl32.Vec3{1, 2, 3}, m.Translation())
}

func TestPackAffineRotationColumns(t *testing.T) {
	// A quarter turn about z maps +x to +y and +y to -x.
	q := mgl32.QuatRotate(0.5*math32.Pi, mgl32.Vec3{0, 0, 1})
	m := PackAffine(q, 1, mgl32.Vec3{})

	assert.True(t, m.Col(0).ApproxEqualThreshold(mgl32.Vec3{0, 1, 0}, eps), "col0 = %v", m.Col(0))
	assert.True(t, m.Col(1).ApproxEqualThreshold(mgl32.Vec3{-1, 0, 0}, eps), "col1 = %v", m.Col(1))
	assert.True(t, m.Col(2).ApproxEqualThreshold(mgl32.Vec3{0, 0, 1}, eps), "col2 = %v", m.Col(2))
}

func TestPackAffineMatchesQuatRotate(t *testing.T) {
	q := mgl32.QuatRotate(0.7, mgl32.Vec3{1, 2, 3}.Normalize())
	m := PackAffine(q, 0.25, mgl32.Vec3{4, 5, 6})
	p := mgl32.Vec3{1, -1, 0.5}

	want := q.Rotate(p).Mul(0.25).Add(mgl32.Vec3{4, 5, 6})
	assert.True(t, m.TransformPoint(p).ApproxEqualThreshold(want, eps))
}

func TestMul4Identity(t *testing.T) {
	var id [16]float32
	Identity(id[:])

	a := [16]float32{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 15, 16}
	var out [16]float32
	Mul4(out[:], id[:], a[:])
	assert.Equal(t, a, out)

	Mul4(out[:], a[:], id[:])
	assert.Equal(t, a, out)
}

func TestLookAtMovesEyeToOrigin(t *testing.T) {
	var view [16]float32
	eye := mgl32.Vec3{0, 0, 5}
	LookAt(view[:], eye, mgl32.Vec3{}, mgl32.Vec3{0, 1, 0})

	m := mgl32.Mat4(view)
	got := m.Mul4x1(eye.Vec4(1))
	assert.InDelta(t, 0, got[0], eps)
	assert.InDelta(t, 0, got[1], eps)
	assert.InDelta(t, 0, got[2], eps)

	// The target sits straight ahead, on the -z axis in view space.
	target := m.Mul4x1(mgl32.Vec4{0, 0, 0, 1})
	assert.InDelta(t, -5, target[2], eps)
}

func TestSliceToBytes(t *testing.T) {
	assert.Nil(t, SliceToBytes[Affine3x4](nil))

	mats := make([]Affine3x4, 3)
	assert.Len(t, SliceToBytes(mats), 3*Affine3x4Stride)
}

func TestClamp(t *testing.T) {
	assert.Equal(t, 1, Clamp(0, 1, 8))
	assert.Equal(t, 8, Clamp(12, 1, 8))
	assert.Equal(t, 4, Clamp(4, 1, 8))
	assert.Equal(t, float32(0.5), Clamp(float32(0.5), 0, 1))
}

func TestCoalesce(t *testing.T) {
	assert.Equal(t, "b", Coalesce("", "b", "c"))
	assert.Equal(t, 0, Coalesce(0, 0))
}
