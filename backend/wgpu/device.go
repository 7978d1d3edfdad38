package wgpu

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/pathedit"
	"github.com/gogpu/pathedit/render"
)

// Errors returned by Device.
var (
	// ErrNoFrame is returned by draws issued outside BeginFrame/EndFrame.
	ErrNoFrame = errors.New("wgpu: draw outside of a frame")

	// ErrTooManyDraws is returned when a frame issues more draws than the
	// uniform ring holds. See WithMaxDraws.
	ErrTooManyDraws = errors.New("wgpu: too many draws in frame")

	// ErrUnknownHandle is returned for buffers or vertex arrays that were
	// never created or have been destroyed.
	ErrUnknownHandle = errors.New("wgpu: unknown handle")

	// ErrOutOfRange is returned for writes and draws past the end of a buffer.
	ErrOutOfRange = errors.New("wgpu: out of range")

	// ErrUnsupportedTopology is returned for topologies other than
	// line strips and point lists.
	ErrUnsupportedTopology = errors.New("wgpu: unsupported topology")
)

const (
	positionStride = 12
	indexStride    = 4
)

// Default values for Device options.
const (
	DefaultMaxDraws    = 4096
	DefaultSampleCount = 1
)

// Option configures a Device.
type Option func(*Device)

// WithMaxDraws sets how many draws a single frame may issue.
func WithMaxDraws(n uint32) Option {
	return func(d *Device) {
		if n > 0 {
			d.maxDraws = n
		}
	}
}

// WithSampleCount sets the MSAA sample count of the target render pass.
func WithSampleCount(n uint32) Option {
	return func(d *Device) {
		if n > 0 {
			d.samples = n
		}
	}
}

// WithSPIRV makes the device compile its shader to SPIR-V with naga
// instead of handing WGSL to the HAL.
func WithSPIRV(enabled bool) Option {
	return func(d *Device) {
		d.spirv = enabled
	}
}

// buffer is a HAL buffer behind a render.Buffer handle.
type buffer struct {
	raw   hal.Buffer
	label string
	size  uint64
	usage gputypes.BufferUsage
}

// vertexArray caches the storage bind group of a vertex array. The group
// is rebuilt when one of its buffers is reallocated.
type vertexArray struct {
	desc      render.VertexArrayDescriptor
	group     hal.BindGroup
	positions hal.Buffer
	indices   hal.Buffer
}

// Device implements render.Device on top of a gogpu/wgpu HAL device.
//
// Buffers and vertex arrays can be created at any time. Draws are recorded
// into the render pass handed to BeginFrame; the host owns the pass, its
// encoder and the submission. WebGPU has no wide lines or large points, so
// every line segment and every point is expanded into a quad in the vertex
// shader, honoring SetLineWidth and SetPointSize in pixels.
//
// Buffers replaced by ReallocBuffer during a frame stay alive until the next
// BeginFrame, since draws already recorded may still reference them.
type Device struct {
	device hal.Device
	queue  hal.Queue
	format gputypes.TextureFormat

	samples  uint32
	maxDraws uint32
	spirv    bool

	// GPU objects for the render pipelines.
	shader        hal.ShaderModule
	uniformLayout hal.BindGroupLayout
	storageLayout hal.BindGroupLayout
	pipeLayout    hal.PipelineLayout
	linePipeline  hal.RenderPipeline
	pointPipeline hal.RenderPipeline
	uniformBuf    hal.Buffer
	uniformGroup  hal.BindGroup

	// noIndices is bound in place of the index buffer of vertex arrays
	// that have none.
	noIndices hal.Buffer

	buffers    map[render.Buffer]*buffer
	arrays     map[render.VertexArray]*vertexArray
	nextHandle uint32

	retiredBuffers []hal.Buffer
	retiredGroups  []hal.BindGroup

	viewProj  [16]float32
	color     [4]float32
	lineWidth float32
	pointSize float32

	pass     hal.RenderPassEncoder
	viewport [2]float32
	slot     uint32
	scratch  [uniformSize]byte
	closed   bool
}

var _ render.Device = (*Device)(nil)

// New creates a Device drawing into render targets of the given format.
// Pipelines are not created until the first frame begins.
func New(device hal.Device, queue hal.Queue, format gputypes.TextureFormat, opts ...Option) (*Device, error) {
	if device == nil || queue == nil {
		return nil, fmt.Errorf("wgpu: nil device or queue")
	}
	if format == gputypes.TextureFormatUndefined {
		format = gputypes.TextureFormatBGRA8Unorm
	}
	d := &Device{
		device:    device,
		queue:     queue,
		format:    format,
		samples:   DefaultSampleCount,
		maxDraws:  DefaultMaxDraws,
		buffers:   make(map[render.Buffer]*buffer),
		arrays:    make(map[render.VertexArray]*vertexArray),
		viewProj:  pathedit.Identity4(),
		color:     [4]float32{1, 1, 1, 1},
		lineWidth: 1,
		pointSize: 1,
	}
	for _, opt := range opts {
		opt(d)
	}
	noIndices, err := device.CreateBuffer(&hal.BufferDescriptor{
		Label: "path_no_indices",
		Size:  indexStride,
		Usage: gputypes.BufferUsageStorage,
	})
	if err != nil {
		return nil, fmt.Errorf("wgpu: create placeholder index buffer: %w", err)
	}
	d.noIndices = noIndices
	return d, nil
}

// NewFromProvider creates a Device from the host's device provider.
//
// The provider must implement HalDevice() any and HalQueue() any returning
// hal.Device and hal.Queue. The render target format is taken from the
// provider's surface format.
func NewFromProvider(provider render.DeviceHandle, opts ...Option) (*Device, error) {
	if provider == nil {
		return nil, fmt.Errorf("wgpu: nil device provider")
	}
	type halProvider interface {
		HalDevice() any
		HalQueue() any
	}
	hp, ok := provider.(halProvider)
	if !ok {
		return nil, fmt.Errorf("wgpu: provider does not expose HAL access")
	}
	device, ok := hp.HalDevice().(hal.Device)
	if !ok {
		return nil, fmt.Errorf("wgpu: provider HalDevice is not hal.Device")
	}
	queue, ok := hp.HalQueue().(hal.Queue)
	if !ok {
		return nil, fmt.Errorf("wgpu: provider HalQueue is not hal.Queue")
	}
	return New(device, queue, provider.SurfaceFormat(), opts...)
}

func init() {
	render.Register("wgpu", func(cfg render.BackendConfig) (render.Device, error) {
		return NewFromProvider(cfg.Device)
	})
}

// SetLogger sets the logger used by this package.
func (d *Device) SetLogger(l *slog.Logger) {
	setLogger(l)
}

// Format returns the color target format the pipelines are built for.
func (d *Device) Format() gputypes.TextureFormat { return d.format }

// SetViewProjection sets the camera transform applied to every position.
func (d *Device) SetViewProjection(m pathedit.Mat4) {
	d.viewProj = m
}

// BeginFrame starts recording draws into pass. width and height are the
// render target size in pixels and scale line widths and point sizes.
//
// Resources retired by the previous frame are released here, so the host
// must have submitted that frame's commands before calling BeginFrame.
func (d *Device) BeginFrame(pass hal.RenderPassEncoder, width, height uint32) error {
	if d.closed {
		return fmt.Errorf("wgpu: device closed")
	}
	if pass == nil {
		return fmt.Errorf("wgpu: nil render pass")
	}
	if width == 0 || height == 0 {
		return fmt.Errorf("wgpu: invalid viewport %dx%d", width, height)
	}
	if err := d.ensurePipeline(); err != nil {
		return err
	}
	d.releaseRetired()
	d.pass = pass
	d.viewport = [2]float32{float32(width), float32(height)}
	d.slot = 0
	return nil
}

// EndFrame stops recording. The render pass stays owned by the host.
func (d *Device) EndFrame() {
	if d.pass != nil {
		slogger().Debug("wgpu: frame recorded", "draws", d.slot)
	}
	d.pass = nil
}

// Close releases every GPU object owned by the device. Handles become
// invalid. Close is safe to call more than once.
func (d *Device) Close() {
	if d.closed {
		return
	}
	d.closed = true
	d.pass = nil
	d.releaseRetired()
	for _, a := range d.arrays {
		if a.group != nil {
			d.device.DestroyBindGroup(a.group)
		}
	}
	for _, b := range d.buffers {
		d.device.DestroyBuffer(b.raw)
	}
	clear(d.arrays)
	clear(d.buffers)
	if d.noIndices != nil {
		d.device.DestroyBuffer(d.noIndices)
		d.noIndices = nil
	}
	d.destroyPipeline()
}

func (d *Device) releaseRetired() {
	for _, g := range d.retiredGroups {
		d.device.DestroyBindGroup(g)
	}
	for _, b := range d.retiredBuffers {
		d.device.DestroyBuffer(b)
	}
	d.retiredGroups = d.retiredGroups[:0]
	d.retiredBuffers = d.retiredBuffers[:0]
}

func (d *Device) newHandle() uint32 {
	d.nextHandle++
	return d.nextHandle
}

func (d *Device) createRaw(label string, size uint64, usage gputypes.BufferUsage) (hal.Buffer, error) {
	// Positions and indices are read as storage by the vertex shader.
	return d.device.CreateBuffer(&hal.BufferDescriptor{
		Label: label,
		Size:  size,
		Usage: usage | gputypes.BufferUsageStorage | gputypes.BufferUsageCopyDst,
	})
}

// CreateBuffer allocates a buffer of desc.Size bytes.
func (d *Device) CreateBuffer(desc *render.BufferDescriptor) (render.Buffer, error) {
	if desc == nil || desc.Size == 0 {
		return 0, fmt.Errorf("wgpu: create buffer: empty descriptor")
	}
	raw, err := d.createRaw(desc.Label, desc.Size, desc.Usage)
	if err != nil {
		return 0, fmt.Errorf("wgpu: create buffer %q: %w", desc.Label, err)
	}
	h := render.Buffer(d.newHandle())
	d.buffers[h] = &buffer{raw: raw, label: desc.Label, size: desc.Size, usage: desc.Usage}
	return h, nil
}

// ReallocBuffer replaces the storage of buf with a new buffer of size bytes.
func (d *Device) ReallocBuffer(buf render.Buffer, size uint64) error {
	b, ok := d.buffers[buf]
	if !ok {
		return fmt.Errorf("%w: buffer %d", ErrUnknownHandle, buf)
	}
	if size == 0 {
		return fmt.Errorf("wgpu: realloc buffer %d: zero size", buf)
	}
	raw, err := d.createRaw(b.label, size, b.usage)
	if err != nil {
		return fmt.Errorf("wgpu: realloc buffer %q: %w", b.label, err)
	}
	d.retire(b.raw)
	b.raw = raw
	b.size = size
	return nil
}

func (d *Device) retire(raw hal.Buffer) {
	if d.pass != nil {
		d.retiredBuffers = append(d.retiredBuffers, raw)
		return
	}
	d.device.DestroyBuffer(raw)
}

// WriteBuffer copies data into buf starting at offset.
func (d *Device) WriteBuffer(buf render.Buffer, offset uint64, data []byte) error {
	b, ok := d.buffers[buf]
	if !ok {
		return fmt.Errorf("%w: buffer %d", ErrUnknownHandle, buf)
	}
	if offset+uint64(len(data)) > b.size {
		return fmt.Errorf("%w: write [%d,%d) into buffer %d of %d bytes",
			ErrOutOfRange, offset, offset+uint64(len(data)), buf, b.size)
	}
	if len(data) == 0 {
		return nil
	}
	if err := d.queue.WriteBuffer(b.raw, offset, data); err != nil {
		return fmt.Errorf("wgpu: write buffer %d: %w", buf, err)
	}
	return nil
}

// DestroyBuffer releases buf. Unknown handles are ignored.
func (d *Device) DestroyBuffer(buf render.Buffer) {
	b, ok := d.buffers[buf]
	if !ok {
		return
	}
	delete(d.buffers, buf)
	d.retire(b.raw)
}

// CreateVertexArray creates a vertex array over existing buffers. Positions
// must be tightly packed float32 triples.
func (d *Device) CreateVertexArray(desc *render.VertexArrayDescriptor) (render.VertexArray, error) {
	if desc == nil {
		return 0, fmt.Errorf("wgpu: create vertex array: nil descriptor")
	}
	if _, ok := d.buffers[desc.Positions]; !ok {
		return 0, fmt.Errorf("%w: position buffer %d", ErrUnknownHandle, desc.Positions)
	}
	if desc.Indices != 0 {
		if _, ok := d.buffers[desc.Indices]; !ok {
			return 0, fmt.Errorf("%w: index buffer %d", ErrUnknownHandle, desc.Indices)
		}
	}
	if desc.Stride != positionStride {
		return 0, fmt.Errorf("wgpu: create vertex array %q: stride %d, want %d",
			desc.Label, desc.Stride, positionStride)
	}
	h := render.VertexArray(d.newHandle())
	d.arrays[h] = &vertexArray{desc: *desc}
	return h, nil
}

// DestroyVertexArray releases va. The referenced buffers are not touched.
func (d *Device) DestroyVertexArray(va render.VertexArray) {
	a, ok := d.arrays[va]
	if !ok {
		return
	}
	delete(d.arrays, va)
	if a.group != nil {
		d.retireGroup(a.group)
	}
}

func (d *Device) retireGroup(g hal.BindGroup) {
	if d.pass != nil {
		d.retiredGroups = append(d.retiredGroups, g)
		return
	}
	d.device.DestroyBindGroup(g)
}

// SetColor sets the RGB color used by subsequent draws. The location is
// ignored: the color lives in the per-draw uniform block.
func (d *Device) SetColor(_ render.UniformLocation, rgb [3]float32) {
	d.color = [4]float32{rgb[0], rgb[1], rgb[2], 1}
}

// SetLineWidth sets the width of line strips in pixels.
func (d *Device) SetLineWidth(width float32) { d.lineWidth = width }

// SetPointSize sets the edge length of points in pixels.
func (d *Device) SetPointSize(size float32) { d.pointSize = size }

// Draw draws count vertices starting at vertex first.
func (d *Device) Draw(va render.VertexArray, topology gputypes.PrimitiveTopology, first, count uint32) error {
	return d.draw(va, topology, first, count, false)
}

// DrawIndexed draws count indices starting at index first.
func (d *Device) DrawIndexed(va render.VertexArray, topology gputypes.PrimitiveTopology, first, count uint32) error {
	return d.draw(va, topology, first, count, true)
}

func (d *Device) draw(va render.VertexArray, topology gputypes.PrimitiveTopology, first, count uint32, indexed bool) error {
	if d.pass == nil {
		return ErrNoFrame
	}
	a, ok := d.arrays[va]
	if !ok {
		return fmt.Errorf("%w: vertex array %d", ErrUnknownHandle, va)
	}

	var (
		pipeline  hal.RenderPipeline
		instances uint32
		size      float32
	)
	switch topology {
	case gputypes.PrimitiveTopologyLineStrip:
		pipeline, size = d.linePipeline, d.lineWidth
		if count >= 2 {
			instances = count - 1
		}
	case gputypes.PrimitiveTopologyPointList:
		pipeline, size, instances = d.pointPipeline, d.pointSize, count
	default:
		return fmt.Errorf("%w: %v", ErrUnsupportedTopology, topology)
	}

	if err := d.checkRange(a, first, count, indexed); err != nil {
		return err
	}
	if instances == 0 {
		return nil
	}
	if d.slot >= d.maxDraws {
		return fmt.Errorf("%w: limit %d", ErrTooManyDraws, d.maxDraws)
	}

	group, err := d.arrayGroup(a)
	if err != nil {
		return err
	}
	offset := d.slot * uniformAlign
	encodeUniforms(d.scratch[:], &d.viewProj, d.color, d.viewport, size, indexed, first)
	if err := d.queue.WriteBuffer(d.uniformBuf, uint64(offset), d.scratch[:]); err != nil {
		return fmt.Errorf("wgpu: write uniforms: %w", err)
	}
	d.slot++

	d.pass.SetPipeline(pipeline)
	d.pass.SetBindGroup(0, d.uniformGroup, []uint32{offset})
	d.pass.SetBindGroup(1, group, nil)
	d.pass.Draw(verticesPerInstance, instances, 0, 0)
	return nil
}

func (d *Device) checkRange(a *vertexArray, first, count uint32, indexed bool) error {
	end := uint64(first) + uint64(count)
	if indexed {
		if a.desc.Indices == 0 {
			return fmt.Errorf("wgpu: indexed draw of vertex array %q without indices", a.desc.Label)
		}
		ib := d.buffers[a.desc.Indices]
		if ib == nil {
			return fmt.Errorf("%w: index buffer %d", ErrUnknownHandle, a.desc.Indices)
		}
		if end*indexStride > ib.size {
			return fmt.Errorf("%w: indices [%d,%d) of %q", ErrOutOfRange, first, end, a.desc.Label)
		}
		return nil
	}
	pb := d.buffers[a.desc.Positions]
	if pb == nil {
		return fmt.Errorf("%w: position buffer %d", ErrUnknownHandle, a.desc.Positions)
	}
	if end*positionStride > pb.size {
		return fmt.Errorf("%w: vertices [%d,%d) of %q", ErrOutOfRange, first, end, a.desc.Label)
	}
	return nil
}

// arrayGroup returns the storage bind group of a, rebuilding it when a
// buffer behind the vertex array has been reallocated.
func (d *Device) arrayGroup(a *vertexArray) (hal.BindGroup, error) {
	pb := d.buffers[a.desc.Positions]
	if pb == nil {
		return nil, fmt.Errorf("%w: position buffer %d", ErrUnknownHandle, a.desc.Positions)
	}
	positions, positionsSize := pb.raw, pb.size
	indices, indicesSize := d.noIndices, uint64(indexStride)
	if a.desc.Indices != 0 {
		ib := d.buffers[a.desc.Indices]
		if ib == nil {
			return nil, fmt.Errorf("%w: index buffer %d", ErrUnknownHandle, a.desc.Indices)
		}
		indices, indicesSize = ib.raw, ib.size
	}
	if a.group != nil && a.positions == positions && a.indices == indices {
		return a.group, nil
	}

	group, err := d.device.CreateBindGroup(&hal.BindGroupDescriptor{
		Label:  a.desc.Label,
		Layout: d.storageLayout,
		Entries: []gputypes.BindGroupEntry{
			{Binding: 0, Resource: gputypes.BufferBinding{
				Buffer: positions.NativeHandle(),
				Size:   positionsSize,
			}},
			{Binding: 1, Resource: gputypes.BufferBinding{
				Buffer: indices.NativeHandle(),
				Size:   indicesSize,
			}},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("wgpu: create bind group %q: %w", a.desc.Label, err)
	}
	if a.group != nil {
		d.retireGroup(a.group)
	}
	a.group, a.positions, a.indices = group, positions, indices
	return group, nil
}

// Stats reports live objects, used in tests and diagnostics.
type Stats struct {
	Buffers      int
	VertexArrays int
	Retired      int
	Draws        uint32
}

// Stats returns the current object counts and the draws of the current or
// last frame.
func (d *Device) Stats() Stats {
	return Stats{
		Buffers:      len(d.buffers),
		VertexArrays: len(d.arrays),
		Retired:      len(d.retiredBuffers) + len(d.retiredGroups),
		Draws:        d.slot,
	}
}
