package engine

import (
	"errors"
	"testing"
	"time"

	"github.com/Carmen-Shannon/oxy-fractal/engine/fractal"
	"github.com/Carmen-Shannon/oxy-fractal/engine/material"
	"github.com/Carmen-Shannon/oxy-fractal/engine/mesh"
	"github.com/Carmen-Shannon/oxy-fractal/engine/renderer"
	"github.com/Carmen-Shannon/oxy-fractal/engine/renderer/bind_group_provider"
	"github.com/Carmen-Shannon/oxy-fractal/engine/transform"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeRenderer implements the parts of renderer.Renderer the engine and fractals use.
// Calling any other method panics through the nil embedded interface.
type fakeRenderer struct {
	renderer.Renderer

	calls    []string
	draws    int
	beginErr error
	stats    renderer.FrameStats
	released bool
}

func (r *fakeRenderer) CreateInstanceBuffer(label string, instanceCount int) (bind_group_provider.BindGroupProvider, error) {
	return bind_group_provider.NewBindGroupProvider(label), nil
}

func (r *fakeRenderer) WriteBuffers(writes []bind_group_provider.BufferWrite) {}

func (r *fakeRenderer) BeginFrame() error {
	r.calls = append(r.calls, "begin")
	return r.beginErr
}

func (r *fakeRenderer) DrawInstanced(params renderer.DrawParams) error {
	r.calls = append(r.calls, "draw")
	r.draws++
	r.stats.Draws++
	r.stats.Instances += params.InstanceCount
	return nil
}

func (r *fakeRenderer) EndFrame() { r.calls = append(r.calls, "end") }

func (r *fakeRenderer) Present() { r.calls = append(r.calls, "present") }

func (r *fakeRenderer) Stats() renderer.FrameStats { return r.stats }

func (r *fakeRenderer) Release() { r.released = true }

func newTestFractal(t *testing.T, r *fakeRenderer, depth int, options ...fractal.FractalBuilderOption) fractal.Fractal {
	t.Helper()
	options = append([]fractal.FractalBuilderOption{
		fractal.WithDepth(depth),
		fractal.WithMesh(mesh.NewCube("cube", 1)),
		fractal.WithMaterial(material.NewMaterial()),
		fractal.WithSink(r),
	}, options...)
	f := fractal.NewFractal(options...)
	f.Activate()
	return f
}

func TestRenderFrameUpdatesThenDrawsInOnePass(t *testing.T) {
	r := &fakeRenderer{}
	a := newTestFractal(t, r, 2)
	b := newTestFractal(t, r, 3)
	e := NewEngine(WithRenderer(r), WithFractal(a), WithFractal(b)).(*engine)
	defer e.release()

	require.NoError(t, e.renderFrame(0.1))

	assert.Equal(t, []string{"begin", "draw", "draw", "draw", "draw", "draw", "end", "present"}, r.calls)
	assert.NotZero(t, a.Hierarchy().Parts(0)[0].SpinAngle)
	assert.NotZero(t, b.Hierarchy().Parts(0)[0].SpinAngle)
}

func TestRenderFrameSkipsDisabledFractals(t *testing.T) {
	r := &fakeRenderer{}
	tr := transform.NewTransform(transform.WithEnabled(false))
	f := newTestFractal(t, r, 2, fractal.WithTransform(tr))
	e := NewEngine(WithRenderer(r), WithFractal(f)).(*engine)
	defer e.release()

	require.NoError(t, e.renderFrame(0.1))

	assert.Zero(t, r.draws)
	assert.Zero(t, f.Hierarchy().Parts(0)[0].SpinAngle)
}

func TestRenderFrameBeginError(t *testing.T) {
	r := &fakeRenderer{beginErr: errors.New("surface outdated")}
	f := newTestFractal(t, r, 1)
	e := NewEngine(WithRenderer(r), WithFractal(f)).(*engine)
	defer e.release()

	err := e.renderFrame(0.1)
	assert.ErrorIs(t, err, r.beginErr)
	assert.Equal(t, []string{"begin"}, r.calls)
}

func TestRenderFrameHeadless(t *testing.T) {
	f := fractal.NewFractal(fractal.WithDepth(2))
	f.Activate()
	e := NewEngine(WithFractal(f), WithProfiling(true)).(*engine)
	defer e.release()

	assert.NoError(t, e.renderFrame(0.25))
	assert.InDelta(t, fractal.SpinAngleDelta(0.25), f.Hierarchy().Parts(1)[0].SpinAngle, 1e-6)
}

func TestTickAdvancesTransforms(t *testing.T) {
	tr := transform.NewTransform(transform.WithRotationSpeed(mgl32.Vec3{0, 1, 0}))
	f := fractal.NewFractal(fractal.WithTransform(tr))
	e := NewEngine(WithFractal(f)).(*engine)
	defer e.release()

	var ticked float32
	e.SetTickCallback(func(dt float32) { ticked += dt })
	e.tick(0.5)

	assert.Equal(t, float32(0.5), ticked)
	assert.NotEqual(t, mgl32.QuatIdent(), tr.Rotation())
}

func TestAddAndRemoveFractal(t *testing.T) {
	e := NewEngine().(*engine)
	a := fractal.NewFractal(fractal.WithDepth(1))
	b := fractal.NewFractal(fractal.WithDepth(1))
	a.Activate()

	e.AddFractal(a)
	e.AddFractal(b)
	require.Len(t, e.Fractals(), 2)

	e.RemoveFractal(a)
	assert.Equal(t, []fractal.Fractal{b}, e.Fractals())
	assert.False(t, a.Active())

	e.RemoveFractal(a)
	assert.Len(t, e.Fractals(), 1)
	e.release()
	assert.Empty(t, e.Fractals())
}

func TestReleaseReleasesRenderer(t *testing.T) {
	r := &fakeRenderer{}
	e := NewEngine(WithRenderer(r)).(*engine)
	e.release()
	assert.True(t, r.released)
}

func TestSetTickRateBeforeRun(t *testing.T) {
	e := NewEngine(WithTickRate(30)).(*engine)
	assert.Equal(t, time.Second/30, e.engineTickRate)

	e.SetTickRate(0)
	assert.Equal(t, time.Second/60, e.engineTickRate)
}

func TestSetRenderFrameLimit(t *testing.T) {
	e := NewEngine(WithRenderFrameLimit(120)).(*engine)
	assert.Equal(t, time.Second/120, e.renderFrameLimit)
	e.SetRenderFrameLimit(0)
	assert.Zero(t, e.renderFrameLimit)
}

func TestQuitIsIdempotent(t *testing.T) {
	e := NewEngine()
	assert.NotPanics(t, func() {
		e.Quit()
		e.Quit()
	})
}
