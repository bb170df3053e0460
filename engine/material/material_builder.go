package material

import (
	"github.com/Carmen-Shannon/oxy-fractal/common"
	"github.com/go-gl/mathgl/mgl32"
)

// MaterialBuilderOption is a function that configures a material instance during construction.
type MaterialBuilderOption func(*material)

// WithName is an option builder that sets the name of the material.
//
// Parameters:
//   - name: the identifier for the material
//
// Returns:
//   - MaterialBuilderOption: a function that applies the name option to a material
func WithName(name string) MaterialBuilderOption {
	return func(m *material) {
		m.name = name
	}
}

// WithBaseColor is an option builder that sets the RGBA color of the root level.
//
// Parameters:
//   - color: the base color as RGBA float32 values
//
// Returns:
//   - MaterialBuilderOption: a function that applies the base color option to a material
func WithBaseColor(color [4]float32) MaterialBuilderOption {
	return func(m *material) {
		m.baseColor = color
	}
}

// WithTipColor is an option builder that enables the per-level gradient and sets the color
// reached at the deepest level.
//
// Parameters:
//   - color: the tip color as RGBA float32 values
//
// Returns:
//   - MaterialBuilderOption: a function that applies the tip color option to a material
func WithTipColor(color [4]float32) MaterialBuilderOption {
	return func(m *material) {
		m.tipColor = color
		m.gradient = true
	}
}

// WithLight is an option builder that sets the directional light used for shading.
//
// Parameters:
//   - direction: direction toward the light, need not be normalized
//   - ambient: ambient term, clamped to [0, 1]
//
// Returns:
//   - MaterialBuilderOption: a function that applies the light option to a material
func WithLight(direction mgl32.Vec3, ambient float32) MaterialBuilderOption {
	return func(m *material) {
		m.lightDirection = direction
		m.ambient = common.Clamp(ambient, 0, 1)
	}
}

// WithShaderSource is an option builder that replaces the WGSL source. The source must keep
// the bind group layout and entry points of FractalShaderSource.
//
// Parameters:
//   - source: the WGSL source
//
// Returns:
//   - MaterialBuilderOption: a function that applies the shader option to a material
func WithShaderSource(source string) MaterialBuilderOption {
	return func(m *material) {
		m.shaderSource = source
	}
}

// WithPipelineKey is an option builder that sets the render pipeline key of the material.
//
// Parameters:
//   - key: the pipeline key
//
// Returns:
//   - MaterialBuilderOption: a function that applies the pipeline key option to a material
func WithPipelineKey(key string) MaterialBuilderOption {
	return func(m *material) {
		m.pipelineKey = key
	}
}
