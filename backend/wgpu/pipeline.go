package wgpu

import (
	_ "embed"
	"encoding/binary"
	"fmt"
	"math"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/naga"
	"github.com/gogpu/wgpu/hal"
)

//go:embed shaders/path.wgsl
var pathShaderSource string

// Uniform block layout, matching struct Uniforms in path.wgsl:
//
//	view_proj (mat4x4<f32>) = 64 bytes (offset 0)
//	color     (vec4<f32>)   = 16 bytes (offset 64)
//	viewport  (vec2<f32>)   =  8 bytes (offset 80)
//	size      (f32)         =  4 bytes (offset 88)
//	indexed   (u32)         =  4 bytes (offset 92)
//	first     (u32)         =  4 bytes (offset 96)
//	padding                 = 12 bytes
//
// Total = 112 bytes. Every draw gets its own slot, aligned to the
// minimum dynamic uniform offset alignment.
const (
	uniformSize  = 112
	uniformAlign = 256
)

// verticesPerInstance is the number of vertices of one expanded quad.
const verticesPerInstance = 6

// compileSPIRV compiles WGSL to SPIR-V words through naga.
func compileSPIRV(source string) ([]uint32, error) {
	spirvBytes, err := naga.Compile(source)
	if err != nil {
		return nil, fmt.Errorf("compile path shader: %w", err)
	}
	words := make([]uint32, len(spirvBytes)/4)
	for i := range words {
		words[i] = binary.LittleEndian.Uint32(spirvBytes[i*4:])
	}
	return words, nil
}

// ensurePipeline creates the shader, layouts, pipelines and the uniform
// ring if they don't already exist.
func (d *Device) ensurePipeline() error {
	if d.linePipeline != nil && d.pointPipeline != nil {
		return nil
	}
	if err := d.createPipeline(); err != nil {
		d.destroyPipeline()
		return err
	}
	return nil
}

// createPipeline compiles the path shader and creates the line and point
// pipelines. Both pipelines draw triangle lists; they differ only in the
// vertex entry point that expands the primitive.
func (d *Device) createPipeline() error {
	if pathShaderSource == "" {
		return fmt.Errorf("path shader source is empty")
	}

	source := hal.ShaderSource{WGSL: pathShaderSource}
	if d.spirv {
		words, err := compileSPIRV(pathShaderSource)
		if err != nil {
			return err
		}
		source = hal.ShaderSource{SPIRV: words}
	}
	shader, err := d.device.CreateShaderModule(&hal.ShaderModuleDescriptor{
		Label:  "path_shader",
		Source: source,
	})
	if err != nil {
		return fmt.Errorf("compile path shader: %w", err)
	}
	d.shader = shader

	uniformLayout, err := d.device.CreateBindGroupLayout(&hal.BindGroupLayoutDescriptor{
		Label: "path_uniform_layout",
		Entries: []gputypes.BindGroupLayoutEntry{
			{
				Binding:    0,
				Visibility: gputypes.ShaderStageVertex | gputypes.ShaderStageFragment,
				Buffer: &gputypes.BufferBindingLayout{
					Type:             gputypes.BufferBindingTypeUniform,
					HasDynamicOffset: true,
					MinBindingSize:   uniformSize,
				},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("create path uniform layout: %w", err)
	}
	d.uniformLayout = uniformLayout

	storageLayout, err := d.device.CreateBindGroupLayout(&hal.BindGroupLayoutDescriptor{
		Label: "path_storage_layout",
		Entries: []gputypes.BindGroupLayoutEntry{
			{
				Binding:    0,
				Visibility: gputypes.ShaderStageVertex,
				Buffer:     &gputypes.BufferBindingLayout{Type: gputypes.BufferBindingTypeReadOnlyStorage},
			},
			{
				Binding:    1,
				Visibility: gputypes.ShaderStageVertex,
				Buffer:     &gputypes.BufferBindingLayout{Type: gputypes.BufferBindingTypeReadOnlyStorage},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("create path storage layout: %w", err)
	}
	d.storageLayout = storageLayout

	pipeLayout, err := d.device.CreatePipelineLayout(&hal.PipelineLayoutDescriptor{
		Label:            "path_pipe_layout",
		BindGroupLayouts: []hal.BindGroupLayout{d.uniformLayout, d.storageLayout},
	})
	if err != nil {
		return fmt.Errorf("create path pipeline layout: %w", err)
	}
	d.pipeLayout = pipeLayout

	d.linePipeline, err = d.createRenderPipeline("path_line_pipeline", "vs_line")
	if err != nil {
		return fmt.Errorf("create path line pipeline: %w", err)
	}
	d.pointPipeline, err = d.createRenderPipeline("path_point_pipeline", "vs_point")
	if err != nil {
		return fmt.Errorf("create path point pipeline: %w", err)
	}

	uniformBuf, err := d.device.CreateBuffer(&hal.BufferDescriptor{
		Label: "path_uniforms",
		Size:  uint64(d.maxDraws) * uniformAlign,
		Usage: gputypes.BufferUsageUniform | gputypes.BufferUsageCopyDst,
	})
	if err != nil {
		return fmt.Errorf("create path uniform buffer: %w", err)
	}
	d.uniformBuf = uniformBuf

	uniformGroup, err := d.device.CreateBindGroup(&hal.BindGroupDescriptor{
		Label:  "path_uniform_group",
		Layout: d.uniformLayout,
		Entries: []gputypes.BindGroupEntry{
			{Binding: 0, Resource: gputypes.BufferBinding{
				Buffer: uniformBuf.NativeHandle(),
				Offset: 0,
				Size:   uniformSize,
			}},
		},
	})
	if err != nil {
		return fmt.Errorf("create path uniform bind group: %w", err)
	}
	d.uniformGroup = uniformGroup

	slogger().Debug("wgpu: path pipelines created",
		"format", d.format, "samples", d.samples, "spirv", d.spirv)
	return nil
}

func (d *Device) createRenderPipeline(label, entry string) (hal.RenderPipeline, error) {
	premulBlend := gputypes.BlendStatePremultiplied()
	return d.device.CreateRenderPipeline(&hal.RenderPipelineDescriptor{
		Label:  label,
		Layout: d.pipeLayout,
		Vertex: hal.VertexState{
			Module:     d.shader,
			EntryPoint: entry,
		},
		Fragment: &hal.FragmentState{
			Module:     d.shader,
			EntryPoint: "fs_main",
			Targets: []gputypes.ColorTargetState{
				{
					Format:    d.format,
					Blend:     &premulBlend,
					WriteMask: gputypes.ColorWriteMaskAll,
				},
			},
		},
		Primitive: gputypes.PrimitiveState{
			Topology: gputypes.PrimitiveTopologyTriangleList,
			CullMode: gputypes.CullModeNone,
		},
		Multisample: gputypes.MultisampleState{
			Count: d.samples,
			Mask:  0xFFFFFFFF,
		},
	})
}

// destroyPipeline releases all pipeline resources in reverse creation order.
func (d *Device) destroyPipeline() {
	if d.device == nil {
		return
	}
	if d.uniformGroup != nil {
		d.device.DestroyBindGroup(d.uniformGroup)
		d.uniformGroup = nil
	}
	if d.uniformBuf != nil {
		d.device.DestroyBuffer(d.uniformBuf)
		d.uniformBuf = nil
	}
	if d.pointPipeline != nil {
		d.device.DestroyRenderPipeline(d.pointPipeline)
		d.pointPipeline = nil
	}
	if d.linePipeline != nil {
		d.device.DestroyRenderPipeline(d.linePipeline)
		d.linePipeline = nil
	}
	if d.pipeLayout != nil {
		d.device.DestroyPipelineLayout(d.pipeLayout)
		d.pipeLayout = nil
	}
	if d.storageLayout != nil {
		d.device.DestroyBindGroupLayout(d.storageLayout)
		d.storageLayout = nil
	}
	if d.uniformLayout != nil {
		d.device.DestroyBindGroupLayout(d.uniformLayout)
		d.uniformLayout = nil
	}
	if d.shader != nil {
		d.device.DestroyShaderModule(d.shader)
		d.shader = nil
	}
}

// encodeUniforms packs one uniform slot.
func encodeUniforms(dst []byte, viewProj *[16]float32, color [4]float32, viewport [2]float32, size float32, indexed bool, first uint32) {
	le := binary.LittleEndian
	for i, v := range viewProj {
		le.PutUint32(dst[i*4:], math.Float32bits(v))
	}
	for i, v := range color {
		le.PutUint32(dst[64+i*4:], math.Float32bits(v))
	}
	le.PutUint32(dst[80:], math.Float32bits(viewport[0]))
	le.PutUint32(dst[84:], math.Float32bits(viewport[1]))
	le.PutUint32(dst[88:], math.Float32bits(size))
	var flag uint32
	if indexed {
		flag = 1
	}
	le.PutUint32(dst[92:], flag)
	le.PutUint32(dst[96:], first)
	clear(dst[100:uniformSize])
}
