package fractal

import (
	"fmt"
	"strconv"
	"sync"
	"sync/atomic"

	"github.com/Carmen-Shannon/oxy-fractal/common"
	"github.com/Carmen-Shannon/oxy-fractal/engine/logger"
	"github.com/Carmen-Shannon/oxy-fractal/engine/material"
	"github.com/Carmen-Shannon/oxy-fractal/engine/mesh"
	"github.com/Carmen-Shannon/oxy-fractal/engine/renderer"
	"github.com/Carmen-Shannon/oxy-fractal/engine/renderer/bind_group_provider"
	"github.com/Carmen-Shannon/oxy-fractal/engine/transform"
)

// fractalCount is used to generate unique labels for fractals created without WithLabel.
var fractalCount atomic.Uint64

// Sink receives the per-level instance data of a fractal. renderer.Renderer satisfies it.
type Sink interface {
	// CreateInstanceBuffer allocates the GPU resources holding one level's matrices.
	CreateInstanceBuffer(label string, instanceCount int) (bind_group_provider.BindGroupProvider, error)
	// WriteBuffers uploads data to previously created buffers.
	WriteBuffers(writes []bind_group_provider.BufferWrite)
	// DrawInstanced issues one instanced draw.
	DrawInstanced(params renderer.DrawParams) error
}

type fractal struct {
	mu *sync.Mutex

	label string
	depth int

	hierarchy Hierarchy
	scheduler Scheduler
	ownsSched bool
	transform transform.Transform

	mesh     mesh.Mesh
	material material.Material
	sink     Sink

	// instances holds one provider per level while active and a sink is attached.
	instances []bind_group_provider.BindGroupProvider
	// bounds is the bounding cube computed by the most recent Update.
	bounds common.Bounds
}

// Fractal is a self-similar hierarchy of parts attached to a transform. Each part has
// BranchFactor children on the next level, offset along a fixed direction and drawn at half
// the parent's scale. Every part spins about its local up axis at SpinRate.
//
// Per frame the owner calls Update, which recomputes every level on the scheduler, and then
// Draw, which uploads each level's matrices to the sink and issues one instanced draw per level.
type Fractal interface {
	// Label returns the label used for logging and GPU resource names.
	//
	// Returns:
	//   - string: the label
	Label() string

	// Depth returns the configured number of levels.
	//
	// Returns:
	//   - int: the depth in [MinDepth, MaxDepth]
	Depth() int

	// SetDepth clamps and stores a new depth. An active fractal is deactivated and activated
	// again at the new depth, so all spin state restarts from zero.
	//
	// Parameters:
	//   - depth: the requested depth
	SetDepth(depth int)

	// Active reports whether storage is allocated.
	//
	// Returns:
	//   - bool: true between Activate and Deactivate
	Active() bool

	// Activate allocates the hierarchy and, when a sink is attached, one instance buffer per
	// level. Activating an active fractal reallocates it. Activate panics if the sink fails to
	// allocate a buffer.
	Activate()

	// Deactivate releases the hierarchy and the instance buffers. Safe to call when inactive.
	Deactivate()

	// Hierarchy returns the part storage. Callers must not retain level slices across Activate.
	//
	// Returns:
	//   - *Hierarchy: the hierarchy owned by the fractal
	Hierarchy() *Hierarchy

	// Transform returns the owner placement.
	//
	// Returns:
	//   - transform.Transform: the transform the root follows
	Transform() transform.Transform

	// Update advances every part by dt seconds and returns once every level's matrices are final.
	// Does nothing when inactive.
	//
	// Parameters:
	//   - dt: the frame time in seconds
	Update(dt float32)

	// Draw uploads each level's matrices and issues one instanced draw per level.
	// Does nothing when inactive or when no sink is attached. Panics if a sink is attached
	// without a mesh or a material.
	//
	// Returns:
	//   - error: the first draw error reported by the sink
	Draw() error

	// Bounds returns the bounding cube of the last Update: centered on the owner's position
	// with an edge of BoundsFactor times the owner's scale.
	//
	// Returns:
	//   - common.Bounds: the bounding volume
	Bounds() common.Bounds

	// Release deactivates the fractal and stops a scheduler it created itself.
	Release()
}

var _ Fractal = &fractal{}

// NewFractal creates an inactive fractal. Call Activate before the first Update.
//
// Parameters:
//   - options: functional options to configure the fractal
//
// Returns:
//   - Fractal: the new fractal
func NewFractal(options ...FractalBuilderOption) Fractal {
	f := &fractal{
		mu:    &sync.Mutex{},
		label: "fractal_" + strconv.FormatUint(fractalCount.Add(1), 10),
		depth: DefaultDepth,
	}
	for _, option := range options {
		option(f)
	}

	if f.transform == nil {
		f.transform = transform.NewTransform()
	}
	if f.scheduler == nil {
		f.scheduler = NewScheduler()
		f.ownsSched = true
	}
	return f
}

// ClampDepth limits a requested depth to [MinDepth, MaxDepth].
//
// Parameters:
//   - depth: the requested depth
//
// Returns:
//   - int: the clamped depth
func ClampDepth(depth int) int {
	return common.Clamp(depth, MinDepth, MaxDepth)
}

func (f *fractal) Label() string {
	return f.label
}

func (f *fractal) Depth() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.depth
}

func (f *fractal) SetDepth(depth int) {
	f.mu.Lock()
	defer f.mu.Unlock()

	clamped := ClampDepth(depth)
	if clamped == f.depth {
		return
	}
	logger.Logger().Info("fractal depth changed", "label", f.label, "from", f.depth, "to", clamped)
	f.depth = clamped

	if f.hierarchy.Active() {
		f.deactivate()
		f.activate()
	}
}

func (f *fractal) Active() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.hierarchy.Active()
}

func (f *fractal) Activate() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deactivate()
	f.activate()
}

func (f *fractal) Deactivate() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deactivate()
}

func (f *fractal) Hierarchy() *Hierarchy {
	return &f.hierarchy
}

func (f *fractal) Transform() transform.Transform {
	return f.transform
}

func (f *fractal) Update(dt float32) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if !f.hierarchy.Active() {
		return
	}

	position, rotation, scale := f.transform.Placement()
	frame := Frame{
		DeltaTime: dt,
		Position:  position,
		Rotation:  rotation,
		Scale:     scale,
	}
	f.scheduler.Run(&f.hierarchy, frame)
	f.bounds = frame.Bounds()
}

func (f *fractal) Draw() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.sink == nil || !f.hierarchy.Active() {
		return nil
	}
	if f.mesh == nil || f.material == nil {
		panic(fmt.Sprintf("fractal %q: draw requires a mesh and a material", f.label))
	}

	writes := make([]bind_group_provider.BufferWrite, 0, f.hierarchy.Depth())
	for l := range f.hierarchy.Depth() {
		writes = append(writes, bind_group_provider.BufferWrite{
			Provider: f.instances[l],
			Binding:  renderer.InstanceMatricesBinding,
			Data:     common.SliceToBytes(f.hierarchy.Matrices(l)),
		})
	}
	f.sink.WriteBuffers(writes)

	for l := range f.hierarchy.Depth() {
		err := f.sink.DrawInstanced(renderer.DrawParams{
			Mesh:          f.mesh,
			Material:      f.material,
			Instances:     f.instances[l],
			InstanceCount: f.hierarchy.NodeCount(l),
			Bounds:        f.bounds,
			Level:         l,
		})
		if err != nil {
			return fmt.Errorf("fractal %q: %w", f.label, err)
		}
	}
	return nil
}

func (f *fractal) Bounds() common.Bounds {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.bounds
}

func (f *fractal) Release() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deactivate()
	if f.ownsSched {
		f.scheduler.Release()
	}
}

// activate allocates the hierarchy and per-level instance buffers. Caller must hold the mutex
// and must have deactivated first.
func (f *fractal) activate() {
	f.hierarchy.Activate(f.depth)

	position, _, scale := f.transform.Placement()
	f.bounds = common.NewCubeBounds(position, BoundsFactor*scale)

	if f.sink != nil {
		f.instances = make([]bind_group_provider.BindGroupProvider, 0, f.depth)
		levelWrites := make([]bind_group_provider.BufferWrite, 0, f.depth)
		for l := range f.depth {
			provider, err := f.sink.CreateInstanceBuffer(f.label+"_level_"+strconv.Itoa(l), NodeCountAt(l))
			if err != nil {
				panic(fmt.Sprintf("fractal %q: create instance buffer for level %d: %v", f.label, l, err))
			}
			f.instances = append(f.instances, provider)

			if f.material != nil {
				params := material.GPULevelParams{Color: f.material.LevelColor(l, f.depth)}
				levelWrites = append(levelWrites, bind_group_provider.BufferWrite{
					Provider: provider,
					Binding:  renderer.InstanceLevelBinding,
					Data:     params.Marshal(),
				})
			}
		}
		if len(levelWrites) > 0 {
			f.sink.WriteBuffers(levelWrites)
		}
	}

	logger.Logger().Debug("fractal activated",
		"label", f.label,
		"depth", f.depth,
		"parts", f.hierarchy.TotalNodeCount(),
	)
}

// deactivate releases the instance buffers and the hierarchy. Caller must hold the mutex.
func (f *fractal) deactivate() {
	if !f.hierarchy.Active() {
		return
	}
	for _, provider := range f.instances {
		provider.Release()
	}
	f.instances = nil
	f.hierarchy.Deactivate()
	logger.Logger().Debug("fractal deactivated", "label", f.label)
}
