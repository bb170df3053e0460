// Package mesh holds the renderable geometry shared by every part of a fractal.
package mesh

import (
	"github.com/Carmen-Shannon/oxy-fractal/engine/renderer/bind_group_provider"
	"github.com/go-gl/mathgl/mgl32"
)

// mesh is the implementation of the Mesh interface.
type mesh struct {
	name           string
	vertices       []GPUVertex
	indices        []uint32
	meshProvider   bind_group_provider.BindGroupProvider
	boundingRadius float32
}

// Mesh is an indexed triangle list staged for GPU upload. The renderer creates the vertex and
// index buffers on the MeshProvider; the mesh itself only holds CPU-side data.
type Mesh interface {
	// Name retrieves the mesh identifier.
	//
	// Returns:
	//   - string: the mesh name
	Name() string

	// Vertices returns the CPU-side vertices.
	//
	// Returns:
	//   - []GPUVertex: the vertex list
	Vertices() []GPUVertex

	// Indices returns the triangle list indices.
	//
	// Returns:
	//   - []uint32: three indices per triangle
	Indices() []uint32

	// VertexData returns the vertices packed for the GPU.
	//
	// Returns:
	//   - []byte: the raw vertex buffer contents
	VertexData() []byte

	// IndexData returns the indices packed for the GPU.
	//
	// Returns:
	//   - []byte: the raw index buffer contents
	IndexData() []byte

	// IndexCount returns the number of indices drawn per instance.
	//
	// Returns:
	//   - int: the index count
	IndexCount() int

	// BoundingRadius returns the distance from the origin to the farthest vertex.
	//
	// Returns:
	//   - float32: the bounding sphere radius in model space
	BoundingRadius() float32

	// MeshProvider retrieves the BindGroupProvider holding GPU mesh buffers.
	//
	// Returns:
	//   - bind_group_provider.BindGroupProvider: the mesh provider
	MeshProvider() bind_group_provider.BindGroupProvider

	// Release frees the GPU buffers held by the mesh provider.
	Release()
}

var _ Mesh = &mesh{}

// NewMesh creates a Mesh from the given options.
//
// Parameters:
//   - options: a variadic list of MeshBuilderOption functions to configure the Mesh
//
// Returns:
//   - Mesh: the configured mesh
func NewMesh(options ...MeshBuilderOption) Mesh {
	m := &mesh{}
	for _, opt := range options {
		opt(m)
	}
	if m.meshProvider == nil {
		m.meshProvider = bind_group_provider.NewBindGroupProvider(m.name + "_mesh")
	}
	m.boundingRadius = boundingRadius(m.vertices)
	return m
}

func (m *mesh) Name() string {
	return m.name
}

func (m *mesh) Vertices() []GPUVertex {
	return m.vertices
}

func (m *mesh) Indices() []uint32 {
	return m.indices
}

func (m *mesh) VertexData() []byte {
	return MarshalVertices(m.vertices)
}

func (m *mesh) IndexData() []byte {
	return MarshalIndices(m.indices)
}

func (m *mesh) IndexCount() int {
	return len(m.indices)
}

func (m *mesh) BoundingRadius() float32 {
	return m.boundingRadius
}

func (m *mesh) MeshProvider() bind_group_provider.BindGroupProvider {
	return m.meshProvider
}

func (m *mesh) Release() {
	if m.meshProvider != nil {
		m.meshProvider.Release()
	}
}

func boundingRadius(vertices []GPUVertex) float32 {
	var r float32
	for _, v := range vertices {
		r = max(r, mgl32.Vec3(v.Position).Len())
	}
	return r
}
