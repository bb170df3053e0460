package renderer

import (
	"github.com/Carmen-Shannon/oxy-fractal/common"
	"github.com/Carmen-Shannon/oxy-fractal/engine/mesh"
	"github.com/cogentcore/webgpu/wgpu"
)

// Bind group indices of the instancing pipeline.
const (
	BindGroupCamera = iota
	BindGroupInstance
	BindGroupMaterial

	bindGroupCount
)

// Bindings within BindGroupInstance.
const (
	// InstanceMatricesBinding holds one common.Affine3x4 per instance (read-only storage).
	InstanceMatricesBinding = 0
	// InstanceLevelBinding holds the material.GPULevelParams of the level (uniform).
	InstanceLevelBinding = 1
)

const (
	cameraUniformSize  = 80
	levelParamsSize    = 16
	materialParamsSize = 16
)

// bindGroupLayoutDescriptors returns the fixed layouts matching the fractal shader.
func bindGroupLayoutDescriptors() [bindGroupCount]wgpu.BindGroupLayoutDescriptor {
	return [bindGroupCount]wgpu.BindGroupLayoutDescriptor{
		BindGroupCamera: {
			Label: "Camera Bind Group Layout",
			Entries: []wgpu.BindGroupLayoutEntry{
				{
					Binding:    0,
					Visibility: wgpu.ShaderStageVertex | wgpu.ShaderStageFragment,
					Buffer: wgpu.BufferBindingLayout{
						Type:           wgpu.BufferBindingTypeUniform,
						MinBindingSize: cameraUniformSize,
					},
				},
			},
		},
		BindGroupInstance: {
			Label: "Instance Bind Group Layout",
			Entries: []wgpu.BindGroupLayoutEntry{
				{
					Binding:    InstanceMatricesBinding,
					Visibility: wgpu.ShaderStageVertex,
					Buffer: wgpu.BufferBindingLayout{
						Type:           wgpu.BufferBindingTypeReadOnlyStorage,
						MinBindingSize: common.Affine3x4Stride,
					},
				},
				{
					Binding:    InstanceLevelBinding,
					Visibility: wgpu.ShaderStageFragment,
					Buffer: wgpu.BufferBindingLayout{
						Type:           wgpu.BufferBindingTypeUniform,
						MinBindingSize: levelParamsSize,
					},
				},
			},
		},
		BindGroupMaterial: {
			Label: "Material Bind Group Layout",
			Entries: []wgpu.BindGroupLayoutEntry{
				{
					Binding:    0,
					Visibility: wgpu.ShaderStageFragment,
					Buffer: wgpu.BufferBindingLayout{
						Type:           wgpu.BufferBindingTypeUniform,
						MinBindingSize: materialParamsSize,
					},
				},
			},
		},
	}
}

// vertexBufferLayouts describes mesh.GPUVertex: position at location 0, normal at location 1.
func vertexBufferLayouts() []wgpu.VertexBufferLayout {
	return []wgpu.VertexBufferLayout{
		{
			ArrayStride: mesh.GPUVertexStride,
			StepMode:    wgpu.VertexStepModeVertex,
			Attributes: []wgpu.VertexAttribute{
				{Format: wgpu.VertexFormatFloat32x3, Offset: 0, ShaderLocation: 0},
				{Format: wgpu.VertexFormatFloat32x3, Offset: 12, ShaderLocation: 1},
			},
		},
	}
}

// bufferUsage returns the usage flags for a buffer bound with the given binding type.
func bufferUsage(t wgpu.BufferBindingType) wgpu.BufferUsage {
	switch t {
	case wgpu.BufferBindingTypeStorage, wgpu.BufferBindingTypeReadOnlyStorage:
		return wgpu.BufferUsageStorage | wgpu.BufferUsageCopyDst
	default:
		return wgpu.BufferUsageUniform | wgpu.BufferUsageCopyDst
	}
}
