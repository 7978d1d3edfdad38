// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package render

import (
	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"
)

// Buffer is a handle to a GPU buffer owned by a Device.
// The zero value means "no buffer".
type Buffer uint32

// VertexArray is a handle to a vertex array: a position buffer plus an
// optional index buffer and the vertex layout used to read them.
// The zero value means "no vertex array".
type VertexArray uint32

// UniformLocation identifies the color uniform a Device writes to before a
// path is drawn. Its meaning is backend specific (a GL uniform location, a
// bind group binding); backends that have a single color slot ignore it.
type UniformLocation int32

// BufferDescriptor describes a buffer to create.
type BufferDescriptor struct {
	// Label is an optional debug name.
	Label string

	// Size is the buffer size in bytes.
	Size uint64

	// Usage specifies how the buffer will be used. Only
	// gputypes.BufferUsageVertex and gputypes.BufferUsageIndex are
	// meaningful to this package; backends add copy flags as needed.
	Usage gputypes.BufferUsage
}

// VertexArrayDescriptor describes how a draw reads vertices.
type VertexArrayDescriptor struct {
	// Label is an optional debug name.
	Label string

	// Positions is the vertex buffer holding packed float32 positions.
	Positions Buffer

	// Indices is the uint32 index buffer used by DrawIndexed.
	// Zero for vertex arrays that are only drawn with Draw.
	Indices Buffer

	// Stride is the distance in bytes between consecutive positions.
	Stride uint32
}

// Device is the rendering context the host application provides.
//
// It covers exactly what the path editor needs from a GPU API: buffers with
// sub-range uploads, vertex arrays, line-strip and point draws, transient
// rasterization state and a per-path color uniform. Implementations live in
// backend/ (software raster, wgpu HAL) and recording/ (command capture).
//
// Devices are not safe for concurrent use. All calls must happen on the
// goroutine that owns the underlying GPU context.
type Device interface {
	// CreateBuffer allocates a buffer of desc.Size bytes.
	CreateBuffer(desc *BufferDescriptor) (Buffer, error)

	// ReallocBuffer re-specifies the storage of buf with a new size.
	// The handle stays valid, previous contents are undefined.
	ReallocBuffer(buf Buffer, size uint64) error

	// WriteBuffer copies data into buf starting at offset.
	WriteBuffer(buf Buffer, offset uint64, data []byte) error

	// DestroyBuffer releases buf. Unknown handles are ignored.
	DestroyBuffer(buf Buffer)

	// CreateVertexArray creates a vertex array over existing buffers.
	CreateVertexArray(desc *VertexArrayDescriptor) (VertexArray, error)

	// DestroyVertexArray releases va. The referenced buffers are not touched.
	DestroyVertexArray(va VertexArray)

	// SetColor sets the RGB color used by subsequent draws.
	SetColor(loc UniformLocation, rgb [3]float32)

	// SetLineWidth sets the rasterized width of line primitives.
	SetLineWidth(width float32)

	// SetPointSize sets the rasterized size of point primitives.
	SetPointSize(size float32)

	// Draw draws count vertices starting at vertex first, without indices.
	Draw(va VertexArray, topology gputypes.PrimitiveTopology, first, count uint32) error

	// DrawIndexed draws count indices starting at index first.
	DrawIndexed(va VertexArray, topology gputypes.PrimitiveTopology, first, count uint32) error
}

// DeviceHandle provides GPU device access from the host application.
//
// Key principle: the editor RECEIVES the device from the host, it does NOT
// create one. GPU backends (backend/wgpu) are constructed from a
// DeviceHandle so they share the host's device and queue.
//
// DeviceHandle is an alias for gpucontext.DeviceProvider, keeping full
// compatibility with the gpucontext ecosystem.
type DeviceHandle = gpucontext.DeviceProvider

// NullDeviceHandle is a DeviceHandle that provides nil implementations.
// Used for CPU-only rendering where no GPU is available.
type NullDeviceHandle struct{}

// Device returns nil for the null device.
func (NullDeviceHandle) Device() gpucontext.Device { return nil }

// Queue returns nil for the null device.
func (NullDeviceHandle) Queue() gpucontext.Queue { return nil }

// Adapter returns nil for the null device.
func (NullDeviceHandle) Adapter() gpucontext.Adapter { return nil }

// AdapterInfo returns zero adapter info for the null device.
func (NullDeviceHandle) AdapterInfo() gpucontext.AdapterInfo { return gpucontext.AdapterInfo{} }

// SurfaceFormat returns undefined format for the null device.
func (NullDeviceHandle) SurfaceFormat() gputypes.TextureFormat {
	return gputypes.TextureFormatUndefined
}

// Ensure NullDeviceHandle implements DeviceHandle.
var _ DeviceHandle = NullDeviceHandle{}
