package mesh

import (
	"encoding/binary"
	"math"
	"testing"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// assertOutwardWinding checks that every non-degenerate triangle is counter-clockwise when
// seen from the side its vertex normals point to.
func assertOutwardWinding(t *testing.T, m Mesh) {
	t.Helper()
	vs := m.Vertices()
	idx := m.Indices()
	for i := 0; i < len(idx); i += 3 {
		a := mgl32.Vec3(vs[idx[i]].Position)
		b := mgl32.Vec3(vs[idx[i+1]].Position)
		c := mgl32.Vec3(vs[idx[i+2]].Position)
		cross := b.Sub(a).Cross(c.Sub(a))
		if cross.Len() < 1e-6 {
			continue
		}
		n := mgl32.Vec3(vs[idx[i]].Normal).Add(vs[idx[i+1]].Normal).Add(vs[idx[i+2]].Normal)
		assert.Greater(t, cross.Dot(n), float32(0), "triangle %d", i/3)
	}
}

func TestNewCube(t *testing.T) {
	m := NewCube("cube", 2)

	assert.Equal(t, "cube", m.Name())
	assert.Len(t, m.Vertices(), 24)
	assert.Equal(t, 36, m.IndexCount())
	assert.InDelta(t, math32.Sqrt(3), m.BoundingRadius(), 1e-5)
	assert.Equal(t, "cube_mesh", m.MeshProvider().Label())

	for _, v := range m.Vertices() {
		for _, p := range v.Position {
			assert.InDelta(t, 1, math32.Abs(p), 1e-6)
		}
		assert.InDelta(t, 1, mgl32.Vec3(v.Normal).Len(), 1e-6)
	}
	assertOutwardWinding(t, m)
}

func TestNewSphere(t *testing.T) {
	m := NewSphere("sphere", 0.5, 16, 8)

	assert.Len(t, m.Vertices(), 9*17)
	assert.Equal(t, 8*16*6, m.IndexCount())
	assert.InDelta(t, 0.5, m.BoundingRadius(), 1e-5)

	for _, v := range m.Vertices() {
		assert.InDelta(t, 0.5, mgl32.Vec3(v.Position).Len(), 1e-5)
	}
	for _, i := range m.Indices() {
		assert.Less(t, int(i), len(m.Vertices()))
	}
	assertOutwardWinding(t, m)
}

func TestNewSphereClampsSubdivisions(t *testing.T) {
	m := NewSphere("tiny", 1, 1, 1)
	assert.Len(t, m.Vertices(), 3*4)
	assert.Equal(t, 2*3*6, m.IndexCount())
}

func TestVertexAndIndexData(t *testing.T) {
	m := NewCube("cube", 1)

	vd := m.VertexData()
	require.Len(t, vd, 24*GPUVertexStride)
	first := m.Vertices()[0]
	assert.Equal(t, first.Position[0], math.Float32frombits(binary.LittleEndian.Uint32(vd[0:])))
	assert.Equal(t, first.Normal[2], math.Float32frombits(binary.LittleEndian.Uint32(vd[20:])))

	id := m.IndexData()
	require.Len(t, id, 36*4)
	assert.Equal(t, m.Indices()[5], binary.LittleEndian.Uint32(id[20:]))

	var v GPUVertex
	assert.Equal(t, GPUVertexStride, v.Size())
}
