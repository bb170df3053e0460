package engine

import (
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/Carmen-Shannon/oxy-fractal/engine/camera"
	"github.com/Carmen-Shannon/oxy-fractal/engine/fractal"
	"github.com/Carmen-Shannon/oxy-fractal/engine/logger"
	"github.com/Carmen-Shannon/oxy-fractal/engine/profiler"
	"github.com/Carmen-Shannon/oxy-fractal/engine/renderer"
	"github.com/Carmen-Shannon/oxy-fractal/engine/window"
)

// SetLogger replaces the logger used by every engine package. Pass nil to silence logging.
//
// Parameters:
//   - l: the logger to use
func SetLogger(l *slog.Logger) {
	logger.SetLogger(l)
}

// engine implements the Engine interface.
// Coordinates the tick, render and window threads.
type engine struct {
	mu *sync.Mutex

	tickRateChannel chan time.Duration // Channel for dynamic tick rate updates

	running bool
	wg      sync.WaitGroup

	quitChannel chan struct{}
	quitOnce    sync.Once // Ensures quitChannel is only closed once

	window   window.Window
	renderer renderer.Renderer
	camera   camera.Camera

	profiler         *profiler.Profiler
	profilingEnabled bool

	engineTickRate time.Duration
	tickCallback   func(deltaTime float32)
	renderCallback func(deltaTime float32)

	fractals []fractal.Fractal

	renderFrameLimit time.Duration // minimum frame duration; 0 = uncapped
}

// Engine is the main entry point for the engine.
// It runs a fixed-rate tick loop that advances fractal transforms and a render loop that
// updates every fractal, then draws them in one render pass.
type Engine interface {
	// Window returns the underlying window.
	//
	// Returns:
	//   - window.Window: the window instance, or nil when running headless
	Window() window.Window

	// Renderer returns the renderer frames are drawn with.
	//
	// Returns:
	//   - renderer.Renderer: the renderer, or nil when running headless
	Renderer() renderer.Renderer

	// Camera returns the camera driven by window input.
	//
	// Returns:
	//   - camera.Camera: the camera, or nil if none was configured
	Camera() camera.Camera

	// EnableProfiler enables performance profiling output to the log.
	EnableProfiler()

	// DisableProfiler disables performance profiling output.
	DisableProfiler()

	// SetTickRate sets the engine tick rate in frames per second.
	//
	// Parameters:
	//   - fps: target ticks per second (defaults to 60 if <= 0)
	SetTickRate(fps float64)

	// SetTickCallback registers the function called each engine tick, after transforms advance.
	//
	// Parameters:
	//   - callback: function receiving the delta time in seconds
	SetTickCallback(callback func(deltaTime float32))

	// SetRenderCallback registers the function called after each render frame is presented.
	//
	// Parameters:
	//   - callback: function receiving the delta time in seconds
	SetRenderCallback(callback func(deltaTime float32))

	// SetRenderFrameLimit sets an optional render frame rate cap in frames per second.
	//
	// Parameters:
	//   - fps: maximum render frames per second (0 = uncapped)
	SetRenderFrameLimit(fps float64)

	// AddFractal registers a fractal for update and drawing. The caller activates it.
	//
	// Parameters:
	//   - f: the fractal to add
	AddFractal(f fractal.Fractal)

	// RemoveFractal unregisters a fractal and releases it.
	//
	// Parameters:
	//   - f: the fractal to remove
	RemoveFractal(f fractal.Fractal)

	// Fractals returns a copy of the registered fractals in registration order.
	//
	// Returns:
	//   - []fractal.Fractal: the registered fractals
	Fractals() []fractal.Fractal

	// Run starts the tick and render loops and processes window messages until the window
	// closes. Blocks; must be called from the goroutine that created the window. Every
	// registered fractal and the renderer are released before Run returns.
	Run()

	// Quit signals all engine goroutines to stop.
	// Safe to call multiple times; subsequent calls are no-ops.
	Quit()
}

// NewEngine creates a new Engine with the provided options and wires window input to the
// renderer and camera: resize reconfigures the surface, left-drag orbits, scroll zooms.
//
// Parameters:
//   - options: functional options for engine configuration
//
// Returns:
//   - Engine: the newly created engine
func NewEngine(options ...EngineBuilderOption) Engine {
	e := &engine{
		mu:              &sync.Mutex{},
		tickRateChannel: make(chan time.Duration, 1),
		quitChannel:     make(chan struct{}),
		profiler:        profiler.NewProfiler(time.Second),
		engineTickRate:  time.Second / 60,
	}

	for _, opt := range options {
		opt(e)
	}

	if e.window != nil {
		e.window.SetResizeCallback(func(width, height int) {
			if e.renderer != nil {
				e.renderer.Resize(width, height)
			}
		})
		if e.camera != nil {
			e.window.SetDragCallback(func(dx, dy float32) {
				e.camera.Orbit(-dx, dy)
			})
			e.window.SetScrollCallback(func(delta float32) {
				e.camera.Zoom(delta)
			})
		}
	}

	return e
}

func (e *engine) Window() window.Window {
	return e.window
}

func (e *engine) Renderer() renderer.Renderer {
	return e.renderer
}

func (e *engine) Camera() camera.Camera {
	return e.camera
}

func (e *engine) Run() {
	e.handle()
	e.window.ProcessMessages()

	e.signalQuit()
	e.wg.Wait()
	e.release()
}

func (e *engine) Quit() {
	e.signalQuit()
}

// signalQuit closes the quit channel to signal all goroutines to exit.
func (e *engine) signalQuit() {
	e.quitOnce.Do(func() {
		e.mu.Lock()
		e.running = false
		e.mu.Unlock()
		close(e.quitChannel)
	})
}

// handle launches the tick, render and quit goroutines.
func (e *engine) handle() {
	e.mu.Lock()
	e.running = true
	e.mu.Unlock()

	e.wg.Add(3)
	go e.handleEngine()
	go e.handleRender()
	go e.handleQuit()
}

// handleEngine runs the fixed-rate tick loop. Exits when the quit channel is closed.
func (e *engine) handleEngine() {
	defer e.wg.Done()

	ticker := time.NewTicker(e.engineTickRate)
	defer ticker.Stop()

	lastTick := time.Now()

	for {
		select {
		case <-e.quitChannel:
			return
		case <-ticker.C:
			now := time.Now()
			dt := float32(now.Sub(lastTick).Seconds())
			lastTick = now
			e.tick(dt)
		case newRate := <-e.tickRateChannel:
			ticker.Reset(newRate)
			e.engineTickRate = newRate
		}
	}
}

// tick advances every enabled fractal's transform, then runs the tick callback.
func (e *engine) tick(dt float32) {
	for _, f := range e.Fractals() {
		if t := f.Transform(); t.Enabled() {
			t.Advance(dt)
		}
	}
	if e.tickCallback != nil {
		e.tickCallback(dt)
	}
}

// handleRender runs the uncapped (or frame-limited) render loop.
// Recovers from panics to avoid crashing the process and signals quit on recovery.
func (e *engine) handleRender() {
	defer e.wg.Done()
	defer func() {
		if r := recover(); r != nil {
			logger.Logger().Warn("render goroutine recovered from panic", "panic", fmt.Sprint(r))
			e.signalQuit()
		}
	}()

	lastRender := time.Now()

	for {
		select {
		case <-e.quitChannel:
			return
		default:
			now := time.Now()
			dt := float32(now.Sub(lastRender).Seconds())
			lastRender = now

			if err := e.renderFrame(dt); err != nil {
				logger.Logger().Warn("frame skipped", "error", err)
			}

			if e.renderCallback != nil {
				e.renderCallback(dt)
			}

			if e.renderFrameLimit > 0 {
				elapsed := time.Since(lastRender)
				if remaining := e.renderFrameLimit - elapsed; remaining > 0 {
					time.Sleep(remaining)
				}
			}
		}
	}
}

// renderFrame runs one frame: update every enabled fractal, then draw them all inside a single
// render pass. Updates complete before the pass begins, so no draw observes a partial level.
func (e *engine) renderFrame(dt float32) error {
	fractals := e.Fractals()

	start := time.Now()
	for _, f := range fractals {
		if f.Transform().Enabled() {
			f.Update(dt)
		}
	}
	updateTime := time.Since(start)

	if e.renderer == nil {
		e.profile(updateTime, renderer.FrameStats{})
		return nil
	}

	if err := e.renderer.BeginFrame(); err != nil {
		return fmt.Errorf("begin frame: %w", err)
	}
	var drawErr error
	for _, f := range fractals {
		if !f.Transform().Enabled() {
			continue
		}
		if err := f.Draw(); err != nil && drawErr == nil {
			drawErr = err
		}
	}
	e.renderer.EndFrame()
	e.renderer.Present()

	e.profile(updateTime, e.renderer.Stats())
	return drawErr
}

// profile feeds one frame into the profiler when profiling is enabled.
func (e *engine) profile(updateTime time.Duration, stats renderer.FrameStats) {
	if !e.profilingEnabled || e.profiler == nil {
		return
	}
	e.profiler.RecordUpdate(updateTime)
	e.profiler.RecordDraws(stats.Draws, stats.Culled, stats.Instances)
	e.profiler.Tick()
}

// handleQuit blocks until the quit channel is closed, then decrements the WaitGroup.
func (e *engine) handleQuit() {
	defer e.wg.Done()
	<-e.quitChannel
}

// release frees every fractal and then the renderer.
func (e *engine) release() {
	e.mu.Lock()
	fractals := e.fractals
	e.fractals = nil
	e.mu.Unlock()

	for _, f := range fractals {
		f.Release()
	}
	if e.renderer != nil {
		e.renderer.Release()
	}
}

func (e *engine) EnableProfiler() {
	e.profilingEnabled = true
}

func (e *engine) DisableProfiler() {
	e.profilingEnabled = false
}

// SetTickRate sets the engine tick rate in frames per second.
// If the engine is running, the change takes effect immediately.
func (e *engine) SetTickRate(fps float64) {
	if fps <= 0 {
		fps = 60
	}
	newRate := time.Second / time.Duration(fps)

	e.mu.Lock()
	running := e.running
	e.mu.Unlock()

	if running {
		// Non-blocking send; replace a pending value that has not been consumed yet.
		select {
		case e.tickRateChannel <- newRate:
		default:
			select {
			case <-e.tickRateChannel:
			default:
			}
			e.tickRateChannel <- newRate
		}
	} else {
		e.engineTickRate = newRate
	}
}

func (e *engine) SetTickCallback(callback func(deltaTime float32)) {
	e.tickCallback = callback
}

func (e *engine) SetRenderCallback(callback func(deltaTime float32)) {
	e.renderCallback = callback
}

func (e *engine) SetRenderFrameLimit(fps float64) {
	if fps <= 0 {
		e.renderFrameLimit = 0
		return
	}
	e.renderFrameLimit = time.Second / time.Duration(fps)
}

func (e *engine) AddFractal(f fractal.Fractal) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.fractals = append(e.fractals, f)
}

func (e *engine) RemoveFractal(f fractal.Fractal) {
	e.mu.Lock()
	i := slices.Index(e.fractals, f)
	if i < 0 {
		e.mu.Unlock()
		return
	}
	e.fractals = slices.Delete(e.fractals, i, i+1)
	e.mu.Unlock()

	f.Release()
}

func (e *engine) Fractals() []fractal.Fractal {
	e.mu.Lock()
	defer e.mu.Unlock()
	return slices.Clone(e.fractals)
}
