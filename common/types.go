// package common contains common types that are used throughout this engine. They are not interface-wrapped structs, just plain structs that express
// commonly used data-types.
package common

import (
	"github.com/go-gl/mathgl/mgl32"
)

// Affine3x4Stride is the size in bytes of a single Affine3x4 as laid out in a GPU instance buffer.
const Affine3x4Stride = 12 * 4

// Affine3x4 is an affine transform packed as 3 rows by 4 columns of float32 in row-major order.
// The first three columns hold the (scaled) rotation basis vectors and the fourth column holds the translation.
// Consumers must treat the matrix as having an implicit final row of (0, 0, 0, 1).
//
// Element (row, col) lives at index row*4 + col.
type Affine3x4 [12]float32

// At returns the element at the given row and column.
//
// Parameters:
//   - row: the row index in [0, 3)
//   - col: the column index in [0, 4)
//
// Returns:
//   - float32: the element value
func (m Affine3x4) At(row, col int) float32 {
	return m[row*4+col]
}

// Col returns one of the four columns as a vector.
// Columns 0-2 are the basis vectors, column 3 is the translation.
//
// Parameters:
//   - col: the column index in [0, 4)
//
// Returns:
//   - mgl32.Vec3: the column vector
func (m Affine3x4) Col(col int) mgl32.Vec3 {
	return mgl32.Vec3{m[col], m[4+col], m[8+col]}
}

// Translation returns the translation column.
func (m Affine3x4) Translation() mgl32.Vec3 {
	return m.Col(3)
}

// TransformPoint applies the affine transform to a point, using the implicit (0, 0, 0, 1) final row.
//
// Parameters:
//   - p: the point to transform
//
// Returns:
//   - mgl32.Vec3: the transformed point
func (m Affine3x4) TransformPoint(p mgl32.Vec3) mgl32.Vec3 {
	return mgl32.Vec3{
		m[0]*p[0] + m[1]*p[1] + m[2]*p[2] + m[3],
		m[4]*p[0] + m[5]*p[1] + m[6]*p[2] + m[7],
		m[8]*p[0] + m[9]*p[1] + m[10]*p[2] + m[11],
	}
}

// Bounds is an axis-aligned bounding box described by its center and its full edge lengths.
type Bounds struct {
	// Center is the world-space center of the box.
	Center mgl32.Vec3
	// Size holds the full edge lengths along x, y and z.
	Size mgl32.Vec3
}

// NewCubeBounds creates a cube-shaped Bounds around center with the given edge length.
//
// Parameters:
//   - center: the world-space center
//   - edge: the full edge length of the cube
//
// Returns:
//   - Bounds: the cube bounds
func NewCubeBounds(center mgl32.Vec3, edge float32) Bounds {
	return Bounds{Center: center, Size: mgl32.Vec3{edge, edge, edge}}
}

// Min returns the minimum corner of the box.
func (b Bounds) Min() mgl32.Vec3 {
	return b.Center.Sub(b.Size.Mul(0.5))
}

// Max returns the maximum corner of the box.
func (b Bounds) Max() mgl32.Vec3 {
	return b.Center.Add(b.Size.Mul(0.5))
}

// Contains reports whether p lies inside or on the surface of the box.
//
// Parameters:
//   - p: the point to test
//
// Returns:
//   - bool: true if p is inside the box
func (b Bounds) Contains(p mgl32.Vec3) bool {
	lo, hi := b.Min(), b.Max()
	for i := range 3 {
		if p[i] < lo[i] || p[i] > hi[i] {
			return false
		}
	}
	return true
}
