// Command fractal opens a window and renders an animated fractal tree.
//
// Keys: + and - change the depth, space pauses the owner rotation, arrows orbit the camera,
// R recenters the camera, Esc quits. Drag with the left mouse button to orbit, scroll to zoom.
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/Carmen-Shannon/oxy-fractal/config"
	"github.com/Carmen-Shannon/oxy-fractal/engine"
	"github.com/Carmen-Shannon/oxy-fractal/engine/camera"
	"github.com/Carmen-Shannon/oxy-fractal/engine/fractal"
	"github.com/Carmen-Shannon/oxy-fractal/engine/material"
	"github.com/Carmen-Shannon/oxy-fractal/engine/mesh"
	"github.com/Carmen-Shannon/oxy-fractal/engine/renderer"
	"github.com/Carmen-Shannon/oxy-fractal/engine/transform"
	"github.com/Carmen-Shannon/oxy-fractal/engine/window"
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

func main() {
	configPath := flag.String("config", "", "path to a TOML configuration file")
	depth := flag.Int("depth", 0, "fractal depth in [1, 8], overrides the configuration file")
	flag.Parse()

	if err := run(*configPath, *depth); err != nil {
		fmt.Fprintln(os.Stderr, "fractal:", err)
		os.Exit(1)
	}
}

// loadConfig returns the defaults or the file at path, then applies the depth override.
func loadConfig(path string, depth int) (config.Config, error) {
	cfg := config.Default()
	if path != "" {
		var err error
		if cfg, err = config.Load(path); err != nil {
			return config.Config{}, err
		}
	}
	if depth != 0 {
		cfg.Fractal.Depth = depth
		cfg.Clamp()
	}
	return cfg, nil
}

func run(configPath string, depthOverride int) error {
	cfg, err := loadConfig(configPath, depthOverride)
	if err != nil {
		return err
	}

	engine.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: cfg.Engine.SlogLevel(),
	})))

	// ── Window + Renderer ───────────────────────────────────────────
	win, err := window.NewWindow(
		window.WithTitle(cfg.Window.Title),
		window.WithSize(cfg.Window.Width, cfg.Window.Height),
	)
	if err != nil {
		return err
	}

	presentMode := renderer.PresentModeUncapped
	if cfg.Window.VSync {
		presentMode = renderer.PresentModeVSync
	}
	r, err := renderer.NewRenderer(
		renderer.BackendTypeWGPU,
		win,
		renderer.WithPresentMode(presentMode),
		renderer.WithMSAA(renderer.ParseMSAASampleCount(cfg.Window.MSAA)),
		renderer.WithForceSoftwareRenderer(cfg.Window.SoftwareRenderer),
	)
	if err != nil {
		_ = win.Close()
		return err
	}

	// ── Camera ──────────────────────────────────────────────────────
	target := mgl32.Vec3(cfg.Fractal.Position).Add(mgl32.Vec3{0, cfg.Fractal.Scale, 0})
	radius := 8 * cfg.Fractal.Scale
	cam := camera.NewCamera(
		camera.WithAspect(float32(win.Width())/float32(win.Height())),
		camera.WithTarget(target),
		camera.WithOrbit(radius, 0.6, math32.Pi/8),
		camera.WithRadiusLimits(cfg.Fractal.Scale, 60*cfg.Fractal.Scale),
	)
	if err := r.SetCamera(cam); err != nil {
		return err
	}

	// ── Mesh + Material ─────────────────────────────────────────────
	var partMesh mesh.Mesh
	switch cfg.Fractal.Mesh {
	case "sphere":
		partMesh = mesh.NewSphere("part", 0.5, 24, 12)
	default:
		partMesh = mesh.NewCube("part", 1)
	}
	defer partMesh.Release()
	if err := r.RegisterMesh(partMesh); err != nil {
		return err
	}

	materialOptions := []material.MaterialBuilderOption{
		material.WithBaseColor(cfg.Fractal.BaseColor),
	}
	if tip, ok := cfg.Fractal.Tip(); ok {
		materialOptions = append(materialOptions, material.WithTipColor(tip))
	}
	mat := material.NewMaterial(materialOptions...)
	defer mat.Release()
	if err := r.RegisterMaterial(mat); err != nil {
		return err
	}

	// ── Fractal ─────────────────────────────────────────────────────
	owner := transform.NewTransform(
		transform.WithPosition(mgl32.Vec3(cfg.Fractal.Position)),
		transform.WithUniformScale(cfg.Fractal.Scale),
		transform.WithRotationSpeed(mgl32.Vec3(cfg.Fractal.RotationSpeed)),
	)
	scheduler := fractal.NewScheduler(
		fractal.WithWorkers(cfg.Scheduler.Workers),
		fractal.WithBatchSize(cfg.Scheduler.BatchSize),
	)
	defer scheduler.Release()

	tree := fractal.NewFractal(
		fractal.WithLabel("tree"),
		fractal.WithDepth(cfg.Fractal.Depth),
		fractal.WithMesh(partMesh),
		fractal.WithMaterial(mat),
		fractal.WithSink(r),
		fractal.WithScheduler(scheduler),
		fractal.WithTransform(owner),
	)
	tree.Activate()

	// ── Engine ──────────────────────────────────────────────────────
	eng := engine.NewEngine(
		engine.WithWindow(win),
		engine.WithRenderer(r),
		engine.WithCamera(cam),
		engine.WithFractal(tree),
		engine.WithTickRate(cfg.Engine.TickRate),
		engine.WithProfiling(cfg.Engine.Profiling),
		engine.WithRenderFrameLimit(cfg.Window.FrameLimit),
	)

	updateTitle := func() {
		win.SetTitle(fmt.Sprintf("%s (depth %d, %d parts)", cfg.Window.Title, tree.Depth(), fractal.TotalNodeCountFor(tree.Depth())))
	}
	updateTitle()

	win.SetKeyDownCallback(func(key window.Key) {
		switch key {
		case window.KeyPlus:
			tree.SetDepth(tree.Depth() + 1)
			updateTitle()
		case window.KeyMinus:
			tree.SetDepth(tree.Depth() - 1)
			updateTitle()
		case window.KeySpace:
			if speed := owner.RotationSpeed(); speed == (mgl32.Vec3{}) {
				owner.SetRotationSpeed(mgl32.Vec3(cfg.Fractal.RotationSpeed))
			} else {
				owner.SetRotationSpeed(mgl32.Vec3{})
			}
		case window.KeyLeft:
			cam.Orbit(-5, 0)
		case window.KeyRight:
			cam.Orbit(5, 0)
		case window.KeyUp:
			cam.Orbit(0, 5)
		case window.KeyDown:
			cam.Orbit(0, -5)
		case window.KeyR:
			cam.SetTarget(target)
			cam.SetRadius(radius)
		}
	})

	eng.Run()
	return win.Close()
}
