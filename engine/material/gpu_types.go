package material

import (
	_ "embed"
	"encoding/binary"
	"math"
	"unsafe"

	"github.com/go-gl/mathgl/mgl32"
)

// FractalShaderSource is the WGSL instancing shader shared by every fractal material.
// Bind groups: 0 camera uniform, 1 per-level instance matrices and level color, 2 material params.
//
//go:embed assets/fractal.wgsl
var FractalShaderSource string

const (
	// VertexEntryPoint and FragmentEntryPoint name the entry points of FractalShaderSource.
	VertexEntryPoint   = "vs_main"
	FragmentEntryPoint = "fs_main"
)

// GPUMaterialParams is the GPU-aligned uniform for the fractal fragment shader.
// Matches the WGSL MaterialParams struct layout exactly.
// Size: 16 bytes.
type GPUMaterialParams struct {
	LightDirection mgl32.Vec3 // offset  0: direction toward the light (12 bytes)
	Ambient        float32    // offset 12: ambient light term in [0, 1] (4 bytes)
}

// Size returns the size of the GPUMaterialParams struct in bytes.
//
// Returns:
//   - int: the size of the struct in bytes.
func (g *GPUMaterialParams) Size() int {
	return int(unsafe.Sizeof(*g))
}

// Marshal serializes the GPUMaterialParams struct into a byte buffer suitable for GPU upload.
//
// Returns:
//   - []byte: 16-byte buffer ready for GPU upload.
func (g *GPUMaterialParams) Marshal() []byte {
	buf := make([]byte, 16)
	binary.LittleEndian.PutUint32(buf[0:4], math.Float32bits(g.LightDirection[0]))
	binary.LittleEndian.PutUint32(buf[4:8], math.Float32bits(g.LightDirection[1]))
	binary.LittleEndian.PutUint32(buf[8:12], math.Float32bits(g.LightDirection[2]))
	binary.LittleEndian.PutUint32(buf[12:16], math.Float32bits(g.Ambient))
	return buf
}

// GPULevelParams is the GPU-aligned uniform holding the color of one fractal level.
// Matches the WGSL LevelParams struct layout exactly.
// Size: 16 bytes (one vec4<f32>).
type GPULevelParams struct {
	Color [4]float32 // offset 0: RGBA color of every part on the level (16 bytes)
}

// Size returns the size of the GPULevelParams struct in bytes.
//
// Returns:
//   - int: the size of the struct in bytes.
func (g *GPULevelParams) Size() int {
	return int(unsafe.Sizeof(*g))
}

// Marshal serializes the GPULevelParams struct into a byte buffer suitable for GPU upload.
//
// Returns:
//   - []byte: 16-byte buffer ready for GPU upload.
func (g *GPULevelParams) Marshal() []byte {
	buf := make([]byte, 16)
	binary.LittleEndian.PutUint32(buf[0:4], math.Float32bits(g.Color[0]))
	binary.LittleEndian.PutUint32(buf[4:8], math.Float32bits(g.Color[1]))
	binary.LittleEndian.PutUint32(buf[8:12], math.Float32bits(g.Color[2]))
	binary.LittleEndian.PutUint32(buf[12:16], math.Float32bits(g.Color[3]))
	return buf
}
