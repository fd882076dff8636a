// Package gpu drives the scene through WebGPU. Uniform writes are recorded
// per draw and replayed with dynamic offsets into one uniform buffer.
package gpu

import (
	"errors"
	"fmt"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/cogentcore/webgpu/wgpuglfw"
	"github.com/gekko3d/deskscene/scenert/rt/core"
	"github.com/gekko3d/deskscene/scenert/rt/shaders"
	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/go-gl/mathgl/mgl32"
)

const depthFormat = wgpu.TextureFormatDepth24Plus

type draw struct {
	mesh  *gpuMesh
	block Block
	unit  int32
}

type Renderer struct {
	instance *wgpu.Instance
	adapter  *wgpu.Adapter
	device   *wgpu.Device
	queue    *wgpu.Queue
	surface  *wgpu.Surface
	config   *wgpu.SurfaceConfiguration

	pipeline      *wgpu.RenderPipeline
	uniformLayout *wgpu.BindGroupLayout
	textureLayout *wgpu.BindGroupLayout

	uniformBuffer   *wgpu.Buffer
	uniformGroup    *wgpu.BindGroup
	uniformCapacity int

	depthTexture *wgpu.Texture
	depthView    *wgpu.TextureView

	uniforms *UniformRecorder
	textures *Textures
	draws    []draw
	staging  []byte
	clear    wgpu.Color

	log core.Logger
}

func NewRenderer(window *glfw.Window, names core.UniformTable, log core.Logger) (*Renderer, error) {
	if log == nil {
		log = nopLogger{}
	}
	r := &Renderer{log: log, uniforms: NewUniformRecorder(names, log)}

	r.instance = wgpu.CreateInstance(nil)
	r.surface = r.instance.CreateSurface(wgpuglfw.GetSurfaceDescriptor(window))

	var err error
	r.adapter, err = r.instance.RequestAdapter(&wgpu.RequestAdapterOptions{
		CompatibleSurface: r.surface,
		PowerPreference:   wgpu.PowerPreferenceHighPerformance,
	})
	if err != nil {
		r.Close()
		return nil, fmt.Errorf("request adapter: %w", err)
	}
	r.device, err = r.adapter.RequestDevice(nil)
	if err != nil {
		r.Close()
		return nil, fmt.Errorf("request device: %w", err)
	}
	r.queue = r.device.GetQueue()

	width, height := window.GetFramebufferSize()
	caps := r.surface.GetCapabilities(r.adapter)
	r.config = &wgpu.SurfaceConfiguration{
		Usage:       wgpu.TextureUsageRenderAttachment,
		Format:      caps.Formats[0],
		Width:       uint32(max(width, 1)),
		Height:      uint32(max(height, 1)),
		PresentMode: wgpu.PresentModeFifo,
		AlphaMode:   caps.AlphaModes[0],
	}
	r.surface.Configure(r.adapter, r.device, r.config)

	if err := r.createPipeline(); err != nil {
		r.Close()
		return nil, err
	}
	if err := r.createDepth(); err != nil {
		r.Close()
		return nil, err
	}
	if err := r.ensureUniformCapacity(64); err != nil {
		r.Close()
		return nil, err
	}
	r.textures, err = newTextures(r.device, r.textureLayout)
	if err != nil {
		r.Close()
		return nil, err
	}

	log.Infof("WebGPU renderer ready: %dx%d, surface format %v", r.config.Width, r.config.Height, r.config.Format)
	return r, nil
}

func (r *Renderer) createPipeline() error {
	module, err := r.device.CreateShaderModule(&wgpu.ShaderModuleDescriptor{
		Label:          "Scene Shader",
		WGSLDescriptor: &wgpu.ShaderModuleWGSLDescriptor{Code: shaders.SceneWGSL},
	})
	if err != nil {
		return fmt.Errorf("scene shader: %w", err)
	}
	defer module.Release()

	r.uniformLayout, err = r.device.CreateBindGroupLayout(&wgpu.BindGroupLayoutDescriptor{
		Label: "SceneUniformsBGL",
		Entries: []wgpu.BindGroupLayoutEntry{
			{
				Binding:    0,
				Visibility: wgpu.ShaderStageVertex | wgpu.ShaderStageFragment,
				Buffer: wgpu.BufferBindingLayout{
					Type:             wgpu.BufferBindingTypeUniform,
					HasDynamicOffset: true,
					MinBindingSize:   UniformBlockSize,
				},
			},
		},
	})
	if err != nil {
		return err
	}

	r.textureLayout, err = r.device.CreateBindGroupLayout(&wgpu.BindGroupLayoutDescriptor{
		Label: "SceneTextureBGL",
		Entries: []wgpu.BindGroupLayoutEntry{
			{
				Binding:    0,
				Visibility: wgpu.ShaderStageFragment,
				Texture: wgpu.TextureBindingLayout{
					SampleType:    wgpu.TextureSampleTypeFloat,
					ViewDimension: wgpu.TextureViewDimension2D,
					Multisampled:  false,
				},
			},
			{
				Binding:    1,
				Visibility: wgpu.ShaderStageFragment,
				Sampler: wgpu.SamplerBindingLayout{
					Type: wgpu.SamplerBindingTypeFiltering,
				},
			},
		},
	})
	if err != nil {
		return err
	}

	pipelineLayout, err := r.device.CreatePipelineLayout(&wgpu.PipelineLayoutDescriptor{
		Label:            "ScenePL",
		BindGroupLayouts: []*wgpu.BindGroupLayout{r.uniformLayout, r.textureLayout},
	})
	if err != nil {
		return err
	}
	defer pipelineLayout.Release()

	r.pipeline, err = r.device.CreateRenderPipeline(&wgpu.RenderPipelineDescriptor{
		Label:  "Scene Pipeline",
		Layout: pipelineLayout,
		Vertex: wgpu.VertexState{
			Module:     module,
			EntryPoint: "vs_main",
			Buffers: []wgpu.VertexBufferLayout{{
				ArrayStride: 32,
				StepMode:    wgpu.VertexStepModeVertex,
				Attributes: []wgpu.VertexAttribute{
					{Format: wgpu.VertexFormatFloat32x3, Offset: 0, ShaderLocation: 0},
					{Format: wgpu.VertexFormatFloat32x3, Offset: 12, ShaderLocation: 1},
					{Format: wgpu.VertexFormatFloat32x2, Offset: 24, ShaderLocation: 2},
				},
			}},
		},
		Fragment: &wgpu.FragmentState{
			Module:     module,
			EntryPoint: "fs_main",
			Targets: []wgpu.ColorTargetState{{
				Format: r.config.Format,
				Blend: &wgpu.BlendState{
					Color: wgpu.BlendComponent{
						SrcFactor: wgpu.BlendFactorSrcAlpha,
						DstFactor: wgpu.BlendFactorOneMinusSrcAlpha,
						Operation: wgpu.BlendOperationAdd,
					},
					Alpha: wgpu.BlendComponent{
						SrcFactor: wgpu.BlendFactorOne,
						DstFactor: wgpu.BlendFactorOneMinusSrcAlpha,
						Operation: wgpu.BlendOperationAdd,
					},
				},
				WriteMask: wgpu.ColorWriteMaskAll,
			}},
		},
		Primitive: wgpu.PrimitiveState{
			Topology:  wgpu.PrimitiveTopologyTriangleList,
			FrontFace: wgpu.FrontFaceCCW,
			CullMode:  wgpu.CullModeNone,
		},
		DepthStencil: &wgpu.DepthStencilState{
			Format:            depthFormat,
			DepthWriteEnabled: true,
			DepthCompare:      wgpu.CompareFunctionLess,
			StencilFront:      wgpu.StencilFaceState{Compare: wgpu.CompareFunctionAlways},
			StencilBack:       wgpu.StencilFaceState{Compare: wgpu.CompareFunctionAlways},
		},
		Multisample: wgpu.MultisampleState{
			Count: 1,
			Mask:  0xFFFFFFFF,
		},
	})
	return err
}

func (r *Renderer) createDepth() error {
	if r.depthView != nil {
		r.depthView.Release()
		r.depthTexture.Release()
	}
	var err error
	r.depthTexture, err = r.device.CreateTexture(&wgpu.TextureDescriptor{
		Label:         "Scene Depth",
		Size:          wgpu.Extent3D{Width: r.config.Width, Height: r.config.Height, DepthOrArrayLayers: 1},
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     wgpu.TextureDimension2D,
		Format:        depthFormat,
		Usage:         wgpu.TextureUsageRenderAttachment,
	})
	if err != nil {
		return err
	}
	r.depthView, err = r.depthTexture.CreateView(nil)
	return err
}

// ensureUniformCapacity grows the uniform buffer to hold n draws.
func (r *Renderer) ensureUniformCapacity(n int) error {
	if n <= r.uniformCapacity {
		return nil
	}
	capacity := max(r.uniformCapacity, 64)
	for capacity < n {
		capacity *= 2
	}
	if r.uniformGroup != nil {
		r.uniformGroup.Release()
		r.uniformBuffer.Release()
	}

	var err error
	r.uniformBuffer, err = r.device.CreateBuffer(&wgpu.BufferDescriptor{
		Label: "Scene Uniforms",
		Size:  uint64(capacity * UniformStride),
		Usage: wgpu.BufferUsageUniform | wgpu.BufferUsageCopyDst,
	})
	if err != nil {
		return err
	}
	r.uniformGroup, err = r.device.CreateBindGroup(&wgpu.BindGroupDescriptor{
		Label:  "SceneUniformsBG",
		Layout: r.uniformLayout,
		Entries: []wgpu.BindGroupEntry{
			{Binding: 0, Buffer: r.uniformBuffer, Offset: 0, Size: UniformBlockSize},
		},
	})
	if err != nil {
		return err
	}
	r.uniformCapacity = capacity
	r.staging = make([]byte, capacity*UniformStride)
	return nil
}

func (r *Renderer) Shader() core.Shader {
	return r.uniforms
}

func (r *Renderer) Textures() core.TextureDevice {
	return r.textures
}

func (r *Renderer) NewMeshes() (core.Meshes, error) {
	m, err := newMeshes(r)
	if err != nil {
		return nil, err
	}
	return m, nil
}

func (r *Renderer) BeginFrame(width, height int, clearColor mgl32.Vec4) error {
	if width > 0 && height > 0 && (uint32(width) != r.config.Width || uint32(height) != r.config.Height) {
		r.config.Width = uint32(width)
		r.config.Height = uint32(height)
		r.surface.Configure(r.adapter, r.device, r.config)
		if err := r.createDepth(); err != nil {
			return fmt.Errorf("resize depth buffer: %w", err)
		}
	}
	r.clear = wgpu.Color{R: float64(clearColor[0]), G: float64(clearColor[1]), B: float64(clearColor[2]), A: float64(clearColor[3])}
	r.draws = r.draws[:0]
	return nil
}

// EndFrame uploads every recorded block and replays the draws in order.
func (r *Renderer) EndFrame() error {
	defer func() { r.draws = r.draws[:0] }()

	if err := r.ensureUniformCapacity(len(r.draws)); err != nil {
		return fmt.Errorf("grow uniform buffer: %w", err)
	}
	for i := range r.draws {
		copy(r.staging[i*UniformStride:], r.draws[i].block[:])
	}
	if len(r.draws) > 0 {
		if err := r.queue.WriteBuffer(r.uniformBuffer, 0, r.staging[:len(r.draws)*UniformStride]); err != nil {
			return fmt.Errorf("write uniforms: %w", err)
		}
	}

	next, err := r.surface.GetCurrentTexture()
	if err != nil {
		return fmt.Errorf("acquire surface texture: %w", err)
	}
	defer next.Release()
	view, err := next.CreateView(nil)
	if err != nil {
		return err
	}
	defer view.Release()

	encoder, err := r.device.CreateCommandEncoder(nil)
	if err != nil {
		return err
	}
	defer encoder.Release()
	pass := encoder.BeginRenderPass(&wgpu.RenderPassDescriptor{
		ColorAttachments: []wgpu.RenderPassColorAttachment{{
			View:       view,
			LoadOp:     wgpu.LoadOpClear,
			StoreOp:    wgpu.StoreOpStore,
			ClearValue: r.clear,
		}},
		DepthStencilAttachment: &wgpu.RenderPassDepthStencilAttachment{
			View:            r.depthView,
			DepthLoadOp:     wgpu.LoadOpClear,
			DepthStoreOp:    wgpu.StoreOpStore,
			DepthClearValue: 1,
		},
	})
	pass.SetPipeline(r.pipeline)
	for i, d := range r.draws {
		pass.SetBindGroup(0, r.uniformGroup, []uint32{uint32(i * UniformStride)})
		pass.SetBindGroup(1, r.textures.group(d.unit), nil)
		pass.SetVertexBuffer(0, d.mesh.vertices, 0, wgpu.WholeSize)
		pass.SetIndexBuffer(d.mesh.indices, wgpu.IndexFormatUint32, 0, wgpu.WholeSize)
		pass.DrawIndexed(d.mesh.count, 1, 0, 0, 0)
	}
	if err := pass.End(); err != nil {
		return fmt.Errorf("scene pass: %w", err)
	}

	cmd, err := encoder.Finish(nil)
	if err != nil {
		return err
	}
	defer cmd.Release()
	r.queue.Submit(cmd)
	r.surface.Present()
	return nil
}

// Close releases every GPU object the renderer created. Textures still
// registered are released with it.
func (r *Renderer) Close() error {
	var errs []error
	if r.textures != nil {
		if n := r.textures.Len(); n > 0 {
			errs = append(errs, fmt.Errorf("%d textures still alive at renderer shutdown", n))
		}
		r.textures.release()
		r.textures = nil
	}
	if r.uniformGroup != nil {
		r.uniformGroup.Release()
		r.uniformBuffer.Release()
	}
	if r.depthView != nil {
		r.depthView.Release()
	}
	if r.depthTexture != nil {
		r.depthTexture.Release()
	}
	if r.pipeline != nil {
		r.pipeline.Release()
	}
	if r.textureLayout != nil {
		r.textureLayout.Release()
	}
	if r.uniformLayout != nil {
		r.uniformLayout.Release()
	}
	if r.queue != nil {
		r.queue.Release()
	}
	if r.device != nil {
		r.device.Release()
	}
	if r.adapter != nil {
		r.adapter.Release()
	}
	if r.surface != nil {
		r.surface.Release()
	}
	if r.instance != nil {
		r.instance.Release()
	}
	*r = Renderer{log: r.log, uniforms: r.uniforms}
	return errors.Join(errs...)
}
