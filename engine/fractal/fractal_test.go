package fractal

import (
	"errors"
	"testing"

	"github.com/Carmen-Shannon/oxy-fractal/common"
	"github.com/Carmen-Shannon/oxy-fractal/engine/material"
	"github.com/Carmen-Shannon/oxy-fractal/engine/mesh"
	"github.com/Carmen-Shannon/oxy-fractal/engine/renderer"
	"github.com/Carmen-Shannon/oxy-fractal/engine/renderer/bind_group_provider"
	"github.com/Carmen-Shannon/oxy-fractal/engine/transform"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeSink records instance buffer traffic without a GPU.
type fakeSink struct {
	created   map[string]int
	writes    []bind_group_provider.BufferWrite
	draws     []renderer.DrawParams
	failAt    int
	drawError error
}

func newFakeSink() *fakeSink {
	return &fakeSink{created: make(map[string]int), failAt: -1}
}

func (s *fakeSink) CreateInstanceBuffer(label string, instanceCount int) (bind_group_provider.BindGroupProvider, error) {
	if len(s.created) == s.failAt {
		return nil, errors.New("out of device memory")
	}
	s.created[label] = instanceCount
	p := bind_group_provider.NewBindGroupProvider(label)
	p.SetBuffer(renderer.InstanceMatricesBinding, nil, uint64(instanceCount)*common.Affine3x4Stride)
	return p, nil
}

func (s *fakeSink) WriteBuffers(writes []bind_group_provider.BufferWrite) {
	for _, w := range writes {
		// Copy, the fractal's matrix storage is reused next frame.
		w.Data = append([]byte(nil), w.Data...)
		s.writes = append(s.writes, w)
	}
}

func (s *fakeSink) DrawInstanced(params renderer.DrawParams) error {
	if s.drawError != nil {
		return s.drawError
	}
	s.draws = append(s.draws, params)
	return nil
}

func (s *fakeSink) writesFor(binding int) []bind_group_provider.BufferWrite {
	var out []bind_group_provider.BufferWrite
	for _, w := range s.writes {
		if w.Binding == binding {
			out = append(out, w)
		}
	}
	return out
}

func newDrawableFractal(t *testing.T, sink *fakeSink, options ...FractalBuilderOption) Fractal {
	t.Helper()
	options = append([]FractalBuilderOption{
		WithLabel("tree"),
		WithMesh(mesh.NewCube("cube", 1)),
		WithMaterial(material.NewMaterial(material.WithTipColor([4]float32{0, 0, 1, 1}))),
		WithSink(sink),
	}, options...)
	f := NewFractal(options...)
	t.Cleanup(f.Release)
	return f
}

func TestNewFractalDefaults(t *testing.T) {
	f := NewFractal()
	defer f.Release()

	assert.Equal(t, DefaultDepth, f.Depth())
	assert.False(t, f.Active())
	assert.NotNil(t, f.Transform())
	assert.NotEmpty(t, f.Label())
}

func TestWithDepthClamps(t *testing.T) {
	shared := NewScheduler(WithWorkers(1))
	defer shared.Release()

	tests := []struct {
		requested int
		want      int
	}{
		{-4, MinDepth},
		{30, MaxDepth},
		{3, 3},
	}
	for _, tt := range tests {
		f := NewFractal(WithDepth(tt.requested), WithScheduler(shared))
		assert.Equal(t, tt.want, f.Depth())
		f.Release()
	}
}

func TestActivateCreatesInstanceBuffers(t *testing.T) {
	sink := newFakeSink()
	f := newDrawableFractal(t, sink, WithDepth(3))

	f.Activate()

	require.True(t, f.Active())
	assert.Equal(t, map[string]int{"tree_level_0": 1, "tree_level_1": 5, "tree_level_2": 25}, sink.created)

	colors := sink.writesFor(renderer.InstanceLevelBinding)
	require.Len(t, colors, 3)
	for _, w := range colors {
		assert.Len(t, w.Data, 16)
	}
}

func TestActivateWithoutSinkOnlySimulates(t *testing.T) {
	f := NewFractal(WithDepth(2))
	defer f.Release()

	f.Activate()
	f.Update(0.1)

	assert.True(t, f.Active())
	assert.Equal(t, 6, f.Hierarchy().TotalNodeCount())
	assert.NoError(t, f.Draw())
}

func TestActivatePanicsOnBufferFailure(t *testing.T) {
	sink := newFakeSink()
	sink.failAt = 1
	f := newDrawableFractal(t, sink, WithDepth(2))

	assert.Panics(t, f.Activate)
}

func TestUpdateAndDrawOneDrawPerLevel(t *testing.T) {
	sink := newFakeSink()
	tr := transform.NewTransform(transform.WithPosition(mgl32.Vec3{0, 1, 0}), transform.WithUniformScale(2))
	f := newDrawableFractal(t, sink, WithDepth(3), WithTransform(tr))
	f.Activate()

	f.Update(0.1)
	require.NoError(t, f.Draw())

	require.Len(t, sink.draws, 3)
	wantBounds := common.NewCubeBounds(mgl32.Vec3{0, 1, 0}, BoundsFactor*2)
	for l, d := range sink.draws {
		assert.Equal(t, l, d.Level)
		assert.Equal(t, NodeCountAt(l), d.InstanceCount)
		assert.Equal(t, wantBounds, d.Bounds)
		assert.Equal(t, "tree_level_"+string(rune('0'+l)), d.Instances.Label())
	}
	assert.Equal(t, wantBounds, f.Bounds())

	matrices := sink.writesFor(renderer.InstanceMatricesBinding)
	require.Len(t, matrices, 3)
	for l, w := range matrices {
		assert.Len(t, w.Data, NodeCountAt(l)*common.Affine3x4Stride)
		assert.Equal(t, common.SliceToBytes(f.Hierarchy().Matrices(l)), w.Data)
	}
}

func TestDrawPanicsWithoutMesh(t *testing.T) {
	sink := newFakeSink()
	f := NewFractal(
		WithMaterial(material.NewMaterial()),
		WithSink(sink),
		WithDepth(1),
	)
	defer f.Release()
	f.Activate()

	assert.Panics(t, func() { _ = f.Draw() })
}

func TestDrawPropagatesSinkError(t *testing.T) {
	sink := newFakeSink()
	f := newDrawableFractal(t, sink, WithDepth(2))
	f.Activate()
	f.Update(0.1)

	sink.drawError = errors.New("device lost")
	assert.ErrorIs(t, f.Draw(), sink.drawError)
}

func TestDrawWhenInactiveIsNoop(t *testing.T) {
	sink := newFakeSink()
	f := newDrawableFractal(t, sink)

	assert.NoError(t, f.Draw())
	assert.Empty(t, sink.draws)
}

func TestSetDepthReactivates(t *testing.T) {
	sink := newFakeSink()
	f := newDrawableFractal(t, sink, WithDepth(2))
	f.Activate()
	f.Update(0.5)
	require.NotZero(t, f.Hierarchy().Parts(0)[0].SpinAngle)

	f.SetDepth(3)

	assert.Equal(t, 3, f.Depth())
	assert.True(t, f.Active())
	assert.Equal(t, 3, f.Hierarchy().Depth())
	assert.Zero(t, f.Hierarchy().Parts(0)[0].SpinAngle)
	assert.Contains(t, sink.created, "tree_level_2")

	f.SetDepth(100)
	assert.Equal(t, MaxDepth, f.Depth())
	assert.Equal(t, MaxDepth, f.Hierarchy().Depth())
}

func TestSetDepthWhileInactiveDoesNotActivate(t *testing.T) {
	f := NewFractal(WithDepth(2))
	defer f.Release()

	f.SetDepth(0)
	assert.Equal(t, MinDepth, f.Depth())
	assert.False(t, f.Active())
}

func TestReactivationIsDeterministic(t *testing.T) {
	f := NewFractal(WithDepth(3))
	defer f.Release()

	f.Activate()
	before := make([][]Part, 3)
	for l := range 3 {
		before[l] = append([]Part(nil), f.Hierarchy().Parts(l)...)
	}
	f.Update(0.2)
	f.Deactivate()
	assert.False(t, f.Active())

	f.Activate()
	for l := range 3 {
		assert.Equal(t, before[l], f.Hierarchy().Parts(l), "level %d", l)
	}
}

func TestUpdateWhenInactiveIsNoop(t *testing.T) {
	f := NewFractal()
	defer f.Release()
	assert.NotPanics(t, func() { f.Update(0.1) })
}

func TestClampDepth(t *testing.T) {
	assert.Equal(t, 1, ClampDepth(0))
	assert.Equal(t, 5, ClampDepth(5))
	assert.Equal(t, 8, ClampDepth(9))
}
