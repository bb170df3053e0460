// Package material describes how fractal parts are shaded: the shader, the pipeline it is
// registered under, and the colors assigned to each level.
package material

import (
	"github.com/Carmen-Shannon/oxy-fractal/engine/renderer/bind_group_provider"
	"github.com/go-gl/mathgl/mgl32"
)

// DefaultPipelineKey is the pipeline key used when none is configured.
const DefaultPipelineKey = "fractal_instanced"

// material is the implementation of the Material interface.
type material struct {
	name           string
	baseColor      [4]float32
	tipColor       [4]float32
	gradient       bool
	lightDirection mgl32.Vec3
	ambient        float32
	shaderSource   string
	pipelineKey    string

	bindGroupProvider bind_group_provider.BindGroupProvider
}

// Material defines the surface appearance of a fractal together with the GPU resources
// needed to draw it.
//
// Colors are per level: with a tip color configured, level colors blend linearly from the
// base color at the root level to the tip color at the deepest level.
type Material interface {
	// Name retrieves the material identifier.
	//
	// Returns:
	//   - string: the material name
	Name() string

	// BaseColor retrieves the RGBA color of the root level.
	//
	// Returns:
	//   - [4]float32: the base color
	BaseColor() [4]float32

	// TipColor retrieves the RGBA color of the deepest level, and whether a gradient is enabled.
	//
	// Returns:
	//   - [4]float32: the tip color
	//   - bool: true if level colors blend toward the tip color
	TipColor() ([4]float32, bool)

	// LevelColor returns the color of a level within a hierarchy of the given depth.
	//
	// Parameters:
	//   - level: the level index, 0 being the root
	//   - depth: the number of levels in the hierarchy
	//
	// Returns:
	//   - [4]float32: the RGBA color of every part on that level
	LevelColor(level, depth int) [4]float32

	// Params returns the fragment shader parameters packed for the GPU.
	//
	// Returns:
	//   - GPUMaterialParams: light direction and ambient term
	Params() GPUMaterialParams

	// ShaderSource returns the WGSL source holding both entry points.
	//
	// Returns:
	//   - string: the shader source
	ShaderSource() string

	// PipelineKey retrieves the key identifying the render pipeline this material uses.
	//
	// Returns:
	//   - string: the pipeline key
	PipelineKey() string

	// BindGroupProvider retrieves the bind group provider holding the material uniform buffer.
	//
	// Returns:
	//   - bind_group_provider.BindGroupProvider: the material's provider
	BindGroupProvider() bind_group_provider.BindGroupProvider

	// Release frees the GPU resources held by the material's provider.
	Release()
}

var _ Material = &material{}

// NewMaterial creates a new Material instance configured with the provided options.
//
// Parameters:
//   - options: a variadic list of MaterialBuilderOption functions to configure the material
//
// Returns:
//   - Material: the configured material
func NewMaterial(options ...MaterialBuilderOption) Material {
	m := &material{
		name:           "fractal",
		baseColor:      [4]float32{1, 1, 1, 1},
		lightDirection: mgl32.Vec3{0.4, 1, 0.6},
		ambient:        0.25,
		shaderSource:   FractalShaderSource,
		pipelineKey:    DefaultPipelineKey,
	}
	for _, opt := range options {
		opt(m)
	}
	if m.bindGroupProvider == nil {
		m.bindGroupProvider = bind_group_provider.NewBindGroupProvider(m.name + "_material")
	}
	return m
}

func (m *material) Name() string {
	return m.name
}

func (m *material) BaseColor() [4]float32 {
	return m.baseColor
}

func (m *material) TipColor() ([4]float32, bool) {
	return m.tipColor, m.gradient
}

func (m *material) LevelColor(level, depth int) [4]float32 {
	if !m.gradient || depth <= 1 {
		return m.baseColor
	}
	t := float32(level) / float32(depth-1)
	t = min(max(t, 0), 1)

	var c [4]float32
	for i := range c {
		c[i] = m.baseColor[i] + (m.tipColor[i]-m.baseColor[i])*t
	}
	return c
}

func (m *material) Params() GPUMaterialParams {
	return GPUMaterialParams{
		LightDirection: m.lightDirection,
		Ambient:        m.ambient,
	}
}

func (m *material) ShaderSource() string {
	return m.shaderSource
}

func (m *material) PipelineKey() string {
	return m.pipelineKey
}

func (m *material) BindGroupProvider() bind_group_provider.BindGroupProvider {
	return m.bindGroupProvider
}

func (m *material) Release() {
	if m.bindGroupProvider != nil {
		m.bindGroupProvider.Release()
	}
}
