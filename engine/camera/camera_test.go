package camera

import (
	"encoding/binary"
	"math"
	"testing"

	"github.com/Carmen-Shannon/oxy-fractal/common"
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func assertVecNear(t *testing.T, want, got mgl32.Vec3) {
	t.Helper()
	for i := range 3 {
		assert.InDelta(t, want[i], got[i], 1e-4, "component %d", i)
	}
}

func TestOrbitPosition(t *testing.T) {
	tests := []struct {
		name      string
		azimuth   float32
		elevation float32
		want      mgl32.Vec3
	}{
		{"front", 0, 0, mgl32.Vec3{0, 0, 10}},
		{"right", math32.Pi / 2, 0, mgl32.Vec3{10, 0, 0}},
		{"above", 0, math32.Pi / 4, mgl32.Vec3{0, 10 * math32.Sqrt(2) / 2, 10 * math32.Sqrt(2) / 2}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewCamera(WithOrbit(10, tt.azimuth, tt.elevation))
			assertVecNear(t, tt.want, c.Position())
		})
	}
}

func TestSetTargetMovesEye(t *testing.T) {
	c := NewCamera(WithOrbit(5, 0, 0))
	c.SetTarget(mgl32.Vec3{1, 2, 3})

	assert.Equal(t, mgl32.Vec3{1, 2, 3}, c.Target())
	assertVecNear(t, mgl32.Vec3{1, 2, 8}, c.Position())
}

func TestZoomClampsRadius(t *testing.T) {
	c := NewCamera(WithOrbit(10, 0, 0), WithRadiusLimits(2, 20), WithZoomSpeed(1))

	c.Zoom(4)
	assert.InDelta(t, 6, c.Radius(), 1e-6)

	c.Zoom(100)
	assert.InDelta(t, 2, c.Radius(), 1e-6)

	c.Zoom(-100)
	assert.InDelta(t, 20, c.Radius(), 1e-6)
}

func TestOrbitClampsElevation(t *testing.T) {
	c := NewCamera(WithOrbitSpeed(1))
	c.Orbit(0, 100)
	assert.Less(t, c.Elevation(), math32.Pi/2)

	c.Orbit(0.5, 0)
	assert.InDelta(t, 0.5, c.Azimuth(), 1e-6)
}

func TestSetAspectIgnoresInvalid(t *testing.T) {
	c := NewCamera(WithAspect(2))
	c.SetAspect(0)
	assert.Equal(t, float32(2), c.Aspect())

	c.SetAspect(1.5)
	assert.Equal(t, float32(1.5), c.Aspect())
}

func TestFrustumSeesTarget(t *testing.T) {
	c := NewCamera(WithOrbit(12, 0.3, 0.2))
	f := c.Frustum()

	assert.True(t, f.IntersectsBounds(common.NewCubeBounds(mgl32.Vec3{}, 3)))
	assert.False(t, f.IntersectsBounds(common.NewCubeBounds(c.Position().Mul(-100), 1)))
}

func TestViewProjectionIsProduct(t *testing.T) {
	c := NewCamera()
	view, proj := c.ViewMatrix(), c.ProjectionMatrix()

	var want [16]float32
	common.Mul4(want[:], proj[:], view[:])
	assert.Equal(t, want, c.ViewProjectionMatrix())
}

func TestUniformMarshal(t *testing.T) {
	c := NewCamera(WithOrbit(4, 0, 0))
	u := c.Uniform()
	buf := u.Marshal()

	require.Len(t, buf, 80)
	assert.Equal(t, u.ViewProj[5], math.Float32frombits(binary.LittleEndian.Uint32(buf[20:])))
	assert.InDelta(t, 4, math.Float32frombits(binary.LittleEndian.Uint32(buf[72:])), 1e-5)
}

func TestCamerasHaveDistinctProviders(t *testing.T) {
	a, b := NewCamera(), NewCamera()
	assert.NotEqual(t, a.BindGroupProvider().Label(), b.BindGroupProvider().Label())
}
