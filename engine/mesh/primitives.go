package mesh

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// cubeFaces lists each face's outward normal with two tangent axes whose cross product is the normal.
var cubeFaces = [6][3]mgl32.Vec3{
	{{1, 0, 0}, {0, 0, -1}, {0, 1, 0}},
	{{-1, 0, 0}, {0, 0, 1}, {0, 1, 0}},
	{{0, 1, 0}, {1, 0, 0}, {0, 0, -1}},
	{{0, -1, 0}, {1, 0, 0}, {0, 0, 1}},
	{{0, 0, 1}, {1, 0, 0}, {0, 1, 0}},
	{{0, 0, -1}, {-1, 0, 0}, {0, 1, 0}},
}

// NewCube creates an axis-aligned cube centered on the origin with flat per-face normals.
//
// Parameters:
//   - name: the mesh identifier
//   - size: the edge length
//
// Returns:
//   - Mesh: 24 vertices and 36 indices
func NewCube(name string, size float32) Mesh {
	h := size / 2
	vertices := make([]GPUVertex, 0, 24)
	indices := make([]uint32, 0, 36)

	for _, face := range cubeFaces {
		n, u, v := face[0], face[1], face[2]
		center := n.Mul(h)
		base := uint32(len(vertices))
		corners := [4]mgl32.Vec3{
			center.Sub(u.Mul(h)).Sub(v.Mul(h)),
			center.Add(u.Mul(h)).Sub(v.Mul(h)),
			center.Add(u.Mul(h)).Add(v.Mul(h)),
			center.Sub(u.Mul(h)).Add(v.Mul(h)),
		}
		for _, c := range corners {
			vertices = append(vertices, GPUVertex{Position: c, Normal: n})
		}
		indices = append(indices, base, base+1, base+2, base, base+2, base+3)
	}

	return NewMesh(WithName(name), WithGeometry(vertices, indices))
}

// NewSphere creates a UV sphere centered on the origin with smooth normals.
//
// Parameters:
//   - name: the mesh identifier
//   - radius: the sphere radius
//   - segments: subdivisions around the Y axis (minimum 3)
//   - rings: subdivisions from pole to pole (minimum 2)
//
// Returns:
//   - Mesh: (rings+1)*(segments+1) vertices and rings*segments*6 indices
func NewSphere(name string, radius float32, segments, rings int) Mesh {
	segments = max(segments, 3)
	rings = max(rings, 2)

	vertices := make([]GPUVertex, 0, (rings+1)*(segments+1))
	for r := 0; r <= rings; r++ {
		theta := math32.Pi * float32(r) / float32(rings)
		sinTheta, cosTheta := math32.Sin(theta), math32.Cos(theta)
		for s := 0; s <= segments; s++ {
			phi := 2 * math32.Pi * float32(s) / float32(segments)
			n := mgl32.Vec3{sinTheta * math32.Sin(phi), cosTheta, sinTheta * math32.Cos(phi)}
			vertices = append(vertices, GPUVertex{Position: n.Mul(radius), Normal: n})
		}
	}

	indices := make([]uint32, 0, rings*segments*6)
	stride := uint32(segments + 1)
	for r := range uint32(rings) {
		for s := range uint32(segments) {
			a := r*stride + s
			b := a + stride
			indices = append(indices, a, b, a+1, a+1, b, b+1)
		}
	}

	return NewMesh(WithName(name), WithGeometry(vertices, indices))
}
