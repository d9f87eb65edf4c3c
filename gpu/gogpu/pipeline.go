package gogpu

import (
	_ "embed"
	"fmt"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/naga"
	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/mapgfx/gpu"
)

//go:embed shaders/sprite.wgsl
var spriteShaderSource string

// spriteVertexStride is the byte size of one sprite vertex:
// position vec2 + tex_coord vec2 + color vec4, all float32.
const spriteVertexStride = 32

// compileSpriteShader compiles the embedded WGSL source to SPIR-V and
// creates the shader module.
func compileSpriteShader(device hal.Device) (hal.ShaderModule, error) {
	if spriteShaderSource == "" {
		return nil, fmt.Errorf("gogpu: sprite shader source is empty")
	}
	spirvBytes, err := naga.Compile(spriteShaderSource)
	if err != nil {
		return nil, fmt.Errorf("compile sprite shader: %w", err)
	}

	// SPIR-V is little-endian 32-bit words.
	spirvCode := make([]uint32, len(spirvBytes)/4)
	for i := range spirvCode {
		spirvCode[i] = uint32(spirvBytes[i*4]) |
			uint32(spirvBytes[i*4+1])<<8 |
			uint32(spirvBytes[i*4+2])<<16 |
			uint32(spirvBytes[i*4+3])<<24
	}

	module, err := device.CreateShaderModule(&hal.ShaderModuleDescriptor{
		Label:  "sprite_shader",
		Source: hal.ShaderSource{SPIRV: spirvCode},
	})
	if err != nil {
		return nil, fmt.Errorf("create sprite shader module: %w", err)
	}
	return module, nil
}

// spriteVertexLayout returns the vertex buffer layout for the sprite
// pipeline. Matches VertexInput in sprite.wgsl:
//
//	location 0: position (vec2<f32>)
//	location 1: tex_coord (vec2<f32>)
//	location 2: color (vec4<f32>)
func spriteVertexLayout() []gputypes.VertexBufferLayout {
	return []gputypes.VertexBufferLayout{
		{
			ArrayStride: spriteVertexStride,
			StepMode:    gputypes.VertexStepModeVertex,
			Attributes: []gputypes.VertexAttribute{
				{Format: gputypes.VertexFormatFloat32x2, Offset: 0, ShaderLocation: 0},  // position
				{Format: gputypes.VertexFormatFloat32x2, Offset: 8, ShaderLocation: 1},  // tex_coord
				{Format: gputypes.VertexFormatFloat32x4, Offset: 16, ShaderLocation: 2}, // color
			},
		},
	}
}

// blendState returns the gputypes blend state for a blend mode.
func blendState(mode gpu.BlendMode) gputypes.BlendState {
	if mode == gpu.BlendAdditive {
		return gputypes.BlendState{
			Color: gputypes.BlendComponent{
				SrcFactor: gputypes.BlendFactorOne,
				DstFactor: gputypes.BlendFactorOne,
				Operation: gputypes.BlendOperationAdd,
			},
			Alpha: gputypes.BlendComponent{
				SrcFactor: gputypes.BlendFactorOne,
				DstFactor: gputypes.BlendFactorOne,
				Operation: gputypes.BlendOperationAdd,
			},
		}
	}
	return gputypes.BlendStatePremultiplied()
}

// createPipelines builds the shader module, layouts, sampler and one
// render pipeline per blend mode.
func (d *Device) createPipelines() error {
	shader, err := compileSpriteShader(d.device)
	if err != nil {
		return err
	}
	d.shader = shader

	// Bind group layout:
	//   Binding 0: FrameUniforms (uniform buffer, vertex)
	//   Binding 1: atlas page texture (texture_2d, fragment)
	//   Binding 2: sampler (fragment)
	bindLayout, err := d.device.CreateBindGroupLayout(&hal.BindGroupLayoutDescriptor{
		Label: "sprite_bind_layout",
		Entries: []gputypes.BindGroupLayoutEntry{
			{
				Binding:    0,
				Visibility: gputypes.ShaderStageVertex,
				Buffer:     &gputypes.BufferBindingLayout{Type: gputypes.BufferBindingTypeUniform},
			},
			{
				Binding:    1,
				Visibility: gputypes.ShaderStageFragment,
				Texture: &gputypes.TextureBindingLayout{
					SampleType:    gputypes.TextureSampleTypeFloat,
					ViewDimension: gputypes.TextureViewDimension2D,
				},
			},
			{
				Binding:    2,
				Visibility: gputypes.ShaderStageFragment,
				Sampler:    &gputypes.SamplerBindingLayout{Type: gputypes.SamplerBindingTypeFiltering},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("create sprite bind layout: %w", err)
	}
	d.bindLayout = bindLayout

	pipeLayout, err := d.device.CreatePipelineLayout(&hal.PipelineLayoutDescriptor{
		Label:            "sprite_pipe_layout",
		BindGroupLayouts: []hal.BindGroupLayout{d.bindLayout},
	})
	if err != nil {
		return fmt.Errorf("create sprite pipeline layout: %w", err)
	}
	d.pipeLayout = pipeLayout

	// Nearest filtering keeps tile edges crisp at integer zoom levels;
	// the atlas padding absorbs bleed at fractional zoom.
	sampler, err := d.device.CreateSampler(&hal.SamplerDescriptor{
		Label:        "sprite_sampler",
		AddressModeU: gputypes.AddressModeClampToEdge,
		AddressModeV: gputypes.AddressModeClampToEdge,
		AddressModeW: gputypes.AddressModeClampToEdge,
		MagFilter:    gputypes.FilterModeLinear,
		MinFilter:    gputypes.FilterModeLinear,
		MipmapFilter: gputypes.FilterModeLinear,
	})
	if err != nil {
		return fmt.Errorf("create sprite sampler: %w", err)
	}
	d.sampler = sampler

	for _, mode := range []gpu.BlendMode{gpu.BlendPremultiplied, gpu.BlendAdditive} {
		blend := blendState(mode)
		pipeline, err := d.device.CreateRenderPipeline(&hal.RenderPipelineDescriptor{
			Label:  fmt.Sprintf("sprite_pipeline_%s", mode),
			Layout: d.pipeLayout,
			Vertex: hal.VertexState{
				Module:     d.shader,
				EntryPoint: "vs_main",
				Buffers:    spriteVertexLayout(),
			},
			Fragment: &hal.FragmentState{
				Module:     d.shader,
				EntryPoint: "fs_main",
				Targets: []gputypes.ColorTargetState{
					{
						Format:    gputypes.TextureFormatBGRA8Unorm,
						Blend:     &blend,
						WriteMask: gputypes.ColorWriteMaskAll,
					},
				},
			},
			Primitive: gputypes.PrimitiveState{
				Topology: gputypes.PrimitiveTopologyTriangleList,
				CullMode: gputypes.CullModeNone,
			},
			Multisample: gputypes.MultisampleState{
				Count: 1,
				Mask:  0xFFFFFFFF,
			},
		})
		if err != nil {
			return fmt.Errorf("create %s pipeline: %w", mode, err)
		}
		d.pipelines[mode] = pipeline
	}
	return nil
}

// destroyPipelines releases pipeline resources in reverse creation order.
func (d *Device) destroyPipelines() {
	for mode, p := range d.pipelines {
		if p != nil {
			d.device.DestroyRenderPipeline(p)
		}
		delete(d.pipelines, mode)
	}
	if d.sampler != nil {
		d.device.DestroySampler(d.sampler)
		d.sampler = nil
	}
	if d.pipeLayout != nil {
		d.device.DestroyPipelineLayout(d.pipeLayout)
		d.pipeLayout = nil
	}
	if d.bindLayout != nil {
		d.device.DestroyBindGroupLayout(d.bindLayout)
		d.bindLayout = nil
	}
	if d.shader != nil {
		d.device.DestroyShaderModule(d.shader)
		d.shader = nil
	}
}
