package mesh

import (
	"github.com/Carmen-Shannon/oxy-fractal/engine/renderer/bind_group_provider"
)

// MeshBuilderOption is a functional option for configuring a Mesh via NewMesh.
type MeshBuilderOption func(*mesh)

// WithName is an option builder that sets the name of the Mesh.
//
// Parameters:
//   - name: the mesh identifier
//
// Returns:
//   - MeshBuilderOption: a function that applies the name option to a mesh
func WithName(name string) MeshBuilderOption {
	return func(m *mesh) {
		m.name = name
	}
}

// WithGeometry is an option builder that sets the vertices and triangle indices of the Mesh.
//
// Parameters:
//   - vertices: the vertex list
//   - indices: three indices per triangle, counter-clockwise front faces
//
// Returns:
//   - MeshBuilderOption: a function that applies the geometry option to a mesh
func WithGeometry(vertices []GPUVertex, indices []uint32) MeshBuilderOption {
	return func(m *mesh) {
		m.vertices = vertices
		m.indices = indices
	}
}

// WithMeshProvider is an option builder that sets the BindGroupProvider holding GPU mesh buffers.
//
// Parameters:
//   - provider: the mesh provider
//
// Returns:
//   - MeshBuilderOption: a function that applies the provider option to a mesh
func WithMeshProvider(provider bind_group_provider.BindGroupProvider) MeshBuilderOption {
	return func(m *mesh) {
		m.meshProvider = provider
	}
}
