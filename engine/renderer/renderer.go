package renderer

import (
	"errors"
	"fmt"
	"sync"

	"github.com/Carmen-Shannon/oxy-fractal/common"
	"github.com/Carmen-Shannon/oxy-fractal/engine/camera"
	"github.com/Carmen-Shannon/oxy-fractal/engine/logger"
	"github.com/Carmen-Shannon/oxy-fractal/engine/material"
	"github.com/Carmen-Shannon/oxy-fractal/engine/mesh"
	"github.com/Carmen-Shannon/oxy-fractal/engine/renderer/bind_group_provider"
	"github.com/Carmen-Shannon/oxy-fractal/engine/window"
)

// DrawParams describes one instanced draw. It is passed by value on every call, so draws never
// share mutable parameter state.
type DrawParams struct {
	// Mesh is the geometry drawn once per instance.
	Mesh mesh.Mesh
	// Material selects the pipeline and the material bind group.
	Material material.Material
	// Instances is the provider created by CreateInstanceBuffer holding the instance matrices.
	Instances bind_group_provider.BindGroupProvider
	// InstanceCount is the number of matrices to draw from Instances.
	InstanceCount int
	// Bounds is the world-space volume enclosing every instance, used for frustum rejection.
	Bounds common.Bounds
	// Level identifies the draw in logs.
	Level int
}

// FrameStats counts the draws issued since the last BeginFrame.
type FrameStats struct {
	Draws     int
	Culled    int
	Instances int
}

// renderer is the implementation of the Renderer interface.
type renderer struct {
	mu *sync.Mutex

	backend RendererBackend

	cam              camera.Camera
	frustum          common.Frustum
	hasFrustum       bool
	cullingDisabled  bool
	stats            FrameStats
	initializedGroup map[bind_group_provider.BindGroupProvider]bool

	// Pre-creation config collected from builder options
	forceFallbackAdapter bool
	pendingPresentMode   *PresentMode
	pendingMSAA          *MSAASampleCount
}

// Renderer is the high-level drawing API used by the engine and by fractals.
//
// All fractal draws go through a single instancing pipeline layout: group 0 holds the camera
// uniform, group 1 a level's instance matrices and level color, group 2 the material uniform.
type Renderer interface {
	// Resize reconfigures the surface for a new size.
	//
	// Parameters:
	//   - width: the new width of the surface in pixels
	//   - height: the new height of the surface in pixels
	Resize(width, height int)

	// SetPresentMode sets the present mode. A Resize is required for it to take effect.
	//
	// Parameters:
	//   - mode: the PresentMode to use
	SetPresentMode(mode PresentMode)

	// SetCamera attaches the camera whose uniform is uploaded at every BeginFrame and whose
	// frustum is used to reject draws.
	//
	// Parameters:
	//   - cam: the camera to use
	//
	// Returns:
	//   - error: an error if the camera bind group could not be created
	SetCamera(cam camera.Camera) error

	// RegisterMaterial compiles the material's pipeline if its key is new, creates the material
	// bind group, and uploads the material parameters.
	//
	// Parameters:
	//   - m: the material to register
	//
	// Returns:
	//   - error: an error if pipeline or buffer creation fails
	RegisterMaterial(m material.Material) error

	// RegisterMesh uploads a mesh's vertex and index buffers.
	//
	// Parameters:
	//   - m: the mesh to upload
	//
	// Returns:
	//   - error: an error if buffer creation fails
	RegisterMesh(m mesh.Mesh) error

	// CreateInstanceBuffer creates the group 1 resources of one fractal level: a storage buffer
	// of instanceCount matrices and a level color uniform.
	//
	// Parameters:
	//   - label: debug label for the GPU resources
	//   - instanceCount: the number of matrices the buffer must hold
	//
	// Returns:
	//   - bind_group_provider.BindGroupProvider: the provider to write matrices to and draw from
	//   - error: an error if the count is not positive or GPU allocation fails
	CreateInstanceBuffer(label string, instanceCount int) (bind_group_provider.BindGroupProvider, error)

	// WriteBuffers submits buffer writes to the GPU queue.
	//
	// Parameters:
	//   - writes: the writes to submit
	WriteBuffers(writes []bind_group_provider.BufferWrite)

	// BeginFrame uploads the camera uniform, resets frame statistics and begins the render pass.
	//
	// Returns:
	//   - error: an error if the swapchain texture could not be acquired
	BeginFrame() error

	// DrawInstanced encodes one instanced draw. Draws whose bounds lie entirely outside the camera
	// frustum are skipped and counted as culled.
	//
	// Parameters:
	//   - params: the draw description
	//
	// Returns:
	//   - error: an error if params are incomplete or the pipeline is not registered
	DrawInstanced(params DrawParams) error

	// EndFrame ends the render pass and submits it.
	EndFrame()

	// Present presents the frame.
	Present()

	// Stats returns the counters of the current or last frame.
	//
	// Returns:
	//   - FrameStats: draws issued, draws culled, instances drawn
	Stats() FrameStats

	// Release frees every GPU resource owned by the renderer.
	Release()
}

var _ Renderer = &renderer{}

// NewRenderer creates a Renderer drawing into the given window's surface.
//
// Parameters:
//   - backendType: the type of rendering backend to use (e.g., WGPU)
//   - win: the window providing the surface descriptor and initial size
//   - options: variadic list of RendererBuilderOption functions to configure the Renderer
//
// Returns:
//   - Renderer: the configured renderer
//   - error: an error if no GPU adapter or device could be acquired
func NewRenderer(backendType RendererBackendType, win window.Window, options ...RendererBuilderOption) (Renderer, error) {
	r := newRenderer(nil, options...)

	msaa := MSAA4x
	if r.pendingMSAA != nil {
		msaa = *r.pendingMSAA
	}

	var err error
	switch backendType {
	case BackendTypeWGPU:
		fallthrough
	default:
		r.backend, err = newWGPURendererBackend(win.SurfaceDescriptor(), r.forceFallbackAdapter, msaa)
	}
	if err != nil {
		return nil, fmt.Errorf("create renderer backend: %w", err)
	}

	if r.pendingPresentMode != nil {
		r.backend.SetPresentMode(*r.pendingPresentMode)
	}
	r.backend.ConfigureSurface(win.Width(), win.Height())
	return r, nil
}

// newRenderer builds the renderer around an existing backend. Options are applied first so
// pre-creation settings are visible to NewRenderer.
func newRenderer(backend RendererBackend, options ...RendererBuilderOption) *renderer {
	r := &renderer{
		mu:               &sync.Mutex{},
		backend:          backend,
		initializedGroup: make(map[bind_group_provider.BindGroupProvider]bool),
	}
	for _, opt := range options {
		opt(r)
	}
	return r
}

func (r *renderer) Resize(width, height int) {
	r.backend.ConfigureSurface(width, height)
	if r.cam != nil && height > 0 {
		r.cam.SetAspect(float32(width) / float32(height))
	}
}

func (r *renderer) SetPresentMode(mode PresentMode) {
	r.backend.SetPresentMode(mode)
}

func (r *renderer) SetCamera(cam camera.Camera) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.initBindGroup(cam.BindGroupProvider(), BindGroupCamera, map[int]uint64{0: cameraUniformSize}); err != nil {
		return fmt.Errorf("init camera bind group: %w", err)
	}
	r.cam = cam
	return nil
}

func (r *renderer) RegisterMaterial(m material.Material) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.backend.RegisterRenderPipeline(m.PipelineKey(), m.ShaderSource(), material.VertexEntryPoint, material.FragmentEntryPoint); err != nil {
		return fmt.Errorf("register pipeline %q: %w", m.PipelineKey(), err)
	}
	provider := m.BindGroupProvider()
	if err := r.initBindGroup(provider, BindGroupMaterial, map[int]uint64{0: materialParamsSize}); err != nil {
		return fmt.Errorf("init material bind group %q: %w", m.Name(), err)
	}

	params := m.Params()
	r.backend.WriteBuffers([]bind_group_provider.BufferWrite{
		{Provider: provider, Binding: 0, Data: params.Marshal()},
	})
	logger.Logger().Debug("material registered", "name", m.Name(), "pipeline", m.PipelineKey())
	return nil
}

func (r *renderer) RegisterMesh(m mesh.Mesh) error {
	if m.IndexCount() == 0 {
		return fmt.Errorf("mesh %q has no indices", m.Name())
	}
	if err := r.backend.InitMeshBuffers(m.MeshProvider(), m.VertexData(), m.IndexData(), m.IndexCount()); err != nil {
		return fmt.Errorf("init mesh buffers %q: %w", m.Name(), err)
	}
	logger.Logger().Debug("mesh registered", "name", m.Name(), "vertices", len(m.Vertices()), "indices", m.IndexCount())
	return nil
}

func (r *renderer) CreateInstanceBuffer(label string, instanceCount int) (bind_group_provider.BindGroupProvider, error) {
	if instanceCount <= 0 {
		return nil, fmt.Errorf("instance buffer %q: instance count %d must be positive", label, instanceCount)
	}

	provider := bind_group_provider.NewBindGroupProvider(label)
	sizes := map[int]uint64{
		InstanceMatricesBinding: uint64(instanceCount) * common.Affine3x4Stride,
		InstanceLevelBinding:    levelParamsSize,
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.initBindGroup(provider, BindGroupInstance, sizes); err != nil {
		provider.Release()
		return nil, fmt.Errorf("instance buffer %q: %w", label, err)
	}
	return provider, nil
}

func (r *renderer) WriteBuffers(writes []bind_group_provider.BufferWrite) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.backend.WriteBuffers(writes)
}

func (r *renderer) BeginFrame() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.stats = FrameStats{}
	if r.cam != nil {
		uniform := r.cam.Uniform()
		r.backend.WriteBuffers([]bind_group_provider.BufferWrite{
			{Provider: r.cam.BindGroupProvider(), Binding: 0, Data: uniform.Marshal()},
		})
		r.frustum = r.cam.Frustum()
		r.hasFrustum = true
	}
	return r.backend.BeginFrame()
}

func (r *renderer) DrawInstanced(params DrawParams) error {
	if params.Mesh == nil || params.Material == nil {
		return errors.New("draw requires a mesh and a material")
	}
	if params.Instances == nil {
		return errors.New("draw requires an instance buffer")
	}
	if params.InstanceCount <= 0 {
		return nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.cam == nil {
		return errors.New("draw requires a camera, call SetCamera first")
	}
	if r.hasFrustum && !r.cullingDisabled && !r.frustum.IntersectsBounds(params.Bounds) {
		r.stats.Culled++
		return nil
	}

	bindGroups := []bind_group_provider.BindGroupProvider{
		BindGroupCamera:   r.cam.BindGroupProvider(),
		BindGroupInstance: params.Instances,
		BindGroupMaterial: params.Material.BindGroupProvider(),
	}
	if err := r.backend.DrawCall(params.Material.PipelineKey(), params.Mesh.MeshProvider(), uint32(params.InstanceCount), bindGroups); err != nil {
		return fmt.Errorf("draw level %d: %w", params.Level, err)
	}
	r.stats.Draws++
	r.stats.Instances += params.InstanceCount
	return nil
}

func (r *renderer) EndFrame() {
	r.backend.EndFrame()
}

func (r *renderer) Present() {
	r.backend.Present()
}

func (r *renderer) Stats() FrameStats {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.stats
}

func (r *renderer) Release() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.backend.Release()
}

// initBindGroup creates the resources of a fixed group on a provider once. Caller must hold the mutex.
func (r *renderer) initBindGroup(provider bind_group_provider.BindGroupProvider, group int, sizes map[int]uint64) error {
	if r.initializedGroup[provider] {
		return nil
	}
	if err := r.backend.InitBindGroup(provider, group, sizes); err != nil {
		return err
	}
	r.initializedGroup[provider] = true
	return nil
}
