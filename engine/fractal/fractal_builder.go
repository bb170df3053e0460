package fractal

import (
	"github.com/Carmen-Shannon/oxy-fractal/engine/material"
	"github.com/Carmen-Shannon/oxy-fractal/engine/mesh"
	"github.com/Carmen-Shannon/oxy-fractal/engine/transform"
)

// FractalBuilderOption is a functional option for configuring a Fractal during construction.
type FractalBuilderOption func(*fractal)

// WithLabel sets the label used in logs and GPU resource names.
//
// Parameters:
//   - label: the label
//
// Returns:
//   - FractalBuilderOption: functional option to set the label
func WithLabel(label string) FractalBuilderOption {
	return func(f *fractal) {
		f.label = label
	}
}

// WithDepth sets the number of levels, clamped to [MinDepth, MaxDepth]. Defaults to DefaultDepth.
//
// Parameters:
//   - depth: the requested depth
//
// Returns:
//   - FractalBuilderOption: functional option to set the depth
func WithDepth(depth int) FractalBuilderOption {
	return func(f *fractal) {
		f.depth = ClampDepth(depth)
	}
}

// WithMesh sets the mesh drawn for every part.
//
// Parameters:
//   - m: the mesh
//
// Returns:
//   - FractalBuilderOption: functional option to set the mesh
func WithMesh(m mesh.Mesh) FractalBuilderOption {
	return func(f *fractal) {
		f.mesh = m
	}
}

// WithMaterial sets the material used for every level.
//
// Parameters:
//   - m: the material
//
// Returns:
//   - FractalBuilderOption: functional option to set the material
func WithMaterial(m material.Material) FractalBuilderOption {
	return func(f *fractal) {
		f.material = m
	}
}

// WithSink attaches the destination of instance data and draws, usually a renderer.Renderer.
// Without a sink the fractal only simulates.
//
// Parameters:
//   - s: the sink
//
// Returns:
//   - FractalBuilderOption: functional option to set the sink
func WithSink(s Sink) FractalBuilderOption {
	return func(f *fractal) {
		f.sink = s
	}
}

// WithScheduler shares a scheduler between fractals. A shared scheduler is not released by
// Fractal.Release.
//
// Parameters:
//   - s: the scheduler
//
// Returns:
//   - FractalBuilderOption: functional option to set the scheduler
func WithScheduler(s Scheduler) FractalBuilderOption {
	return func(f *fractal) {
		f.scheduler = s
	}
}

// WithTransform sets the owner placement the root part follows.
//
// Parameters:
//   - t: the transform
//
// Returns:
//   - FractalBuilderOption: functional option to set the transform
func WithTransform(t transform.Transform) FractalBuilderOption {
	return func(f *fractal) {
		f.transform = t
	}
}
