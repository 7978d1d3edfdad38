package recording

import (
	"encoding/binary"
	"errors"
	"fmt"
	"slices"

	"github.com/gogpu/gputypes"

	"github.com/gogpu/pathedit/render"
)

// Errors returned by the recording device for invalid calls.
var (
	// ErrUnknownHandle is returned when a call names a buffer or vertex array
	// the device never created or already destroyed.
	ErrUnknownHandle = errors.New("recording: unknown handle")

	// ErrOutOfRange is returned when a write or draw reaches past the end of
	// a buffer.
	ErrOutOfRange = errors.New("recording: out of range")
)

func init() {
	render.Register("recording", func(render.BackendConfig) (render.Device, error) {
		return NewDevice(), nil
	})
}

// Device is a render.Device that records every call.
//
// Buffers are backed by byte slices, so writes and draws are validated the
// way a GPU driver would validate them. The Device is not safe for
// concurrent use.
type Device struct {
	commands []Command

	buffers    map[render.Buffer][]byte
	arrays     map[render.VertexArray]render.VertexArrayDescriptor
	nextBuffer render.Buffer
	nextArray  render.VertexArray

	state  DrawState
	faults map[CommandType]error
}

// NewDevice creates an empty recording device with line width and point
// size 1.
func NewDevice() *Device {
	return &Device{
		commands: make([]Command, 0, 256),
		buffers:  make(map[render.Buffer][]byte),
		arrays:   make(map[render.VertexArray]render.VertexArrayDescriptor),
		state:    DrawState{LineWidth: 1, PointSize: 1},
		faults:   make(map[CommandType]error),
	}
}

// Commands returns a copy of the recorded commands in call order.
func (d *Device) Commands() []Command {
	return slices.Clone(d.commands)
}

// CommandsOf returns the recorded commands of type t in call order.
func (d *Device) CommandsOf(t CommandType) []Command {
	var out []Command
	for _, c := range d.commands {
		if c.Type() == t {
			out = append(out, c)
		}
	}
	return out
}

// Count returns the number of recorded commands of type t.
func (d *Device) Count(t CommandType) int {
	n := 0
	for _, c := range d.commands {
		if c.Type() == t {
			n++
		}
	}
	return n
}

// Reset forgets the recorded commands. Live resources and state are kept.
func (d *Device) Reset() {
	d.commands = d.commands[:0]
}

// FailNext makes the next call of type t return err instead of executing.
// Only methods that return an error can fail.
func (d *Device) FailNext(t CommandType, err error) {
	d.faults[t] = err
}

// fault consumes a pending fault for t.
func (d *Device) fault(t CommandType) error {
	err, ok := d.faults[t]
	if !ok {
		return nil
	}
	delete(d.faults, t)
	return err
}

// BufferData returns a copy of the contents of buf.
func (d *Device) BufferData(buf render.Buffer) ([]byte, bool) {
	data, ok := d.buffers[buf]
	if !ok {
		return nil, false
	}
	return slices.Clone(data), true
}

// LiveBuffers returns the number of buffers not yet destroyed.
func (d *Device) LiveBuffers() int { return len(d.buffers) }

// LiveVertexArrays returns the number of vertex arrays not yet destroyed.
func (d *Device) LiveVertexArrays() int { return len(d.arrays) }

// State returns the current color, line width and point size.
func (d *Device) State() DrawState { return d.state }

// CreateBuffer implements render.Device.
func (d *Device) CreateBuffer(desc *render.BufferDescriptor) (render.Buffer, error) {
	if err := d.fault(CmdCreateBuffer); err != nil {
		return 0, err
	}
	d.nextBuffer++
	d.buffers[d.nextBuffer] = make([]byte, desc.Size)
	d.commands = append(d.commands, CreateBufferCommand{
		Buffer: d.nextBuffer,
		Label:  desc.Label,
		Size:   desc.Size,
		Usage:  desc.Usage,
	})
	return d.nextBuffer, nil
}

// ReallocBuffer implements render.Device. The new storage is zeroed.
func (d *Device) ReallocBuffer(buf render.Buffer, size uint64) error {
	if err := d.fault(CmdReallocBuffer); err != nil {
		return err
	}
	if _, ok := d.buffers[buf]; !ok {
		return fmt.Errorf("%w: buffer %d", ErrUnknownHandle, buf)
	}
	d.buffers[buf] = make([]byte, size)
	d.commands = append(d.commands, ReallocBufferCommand{Buffer: buf, Size: size})
	return nil
}

// WriteBuffer implements render.Device.
func (d *Device) WriteBuffer(buf render.Buffer, offset uint64, data []byte) error {
	if err := d.fault(CmdWriteBuffer); err != nil {
		return err
	}
	dst, ok := d.buffers[buf]
	if !ok {
		return fmt.Errorf("%w: buffer %d", ErrUnknownHandle, buf)
	}
	if offset+uint64(len(data)) > uint64(len(dst)) {
		return fmt.Errorf("%w: write [%d, %d) into buffer %d of size %d",
			ErrOutOfRange, offset, offset+uint64(len(data)), buf, len(dst))
	}
	copy(dst[offset:], data)
	d.commands = append(d.commands, WriteBufferCommand{
		Buffer: buf,
		Offset: offset,
		Data:   slices.Clone(data),
	})
	return nil
}

// DestroyBuffer implements render.Device.
func (d *Device) DestroyBuffer(buf render.Buffer) {
	if _, ok := d.buffers[buf]; !ok {
		return
	}
	delete(d.buffers, buf)
	d.commands = append(d.commands, DestroyBufferCommand{Buffer: buf})
}

// CreateVertexArray implements render.Device.
func (d *Device) CreateVertexArray(desc *render.VertexArrayDescriptor) (render.VertexArray, error) {
	if err := d.fault(CmdCreateVertexArray); err != nil {
		return 0, err
	}
	if _, ok := d.buffers[desc.Positions]; !ok {
		return 0, fmt.Errorf("%w: position buffer %d", ErrUnknownHandle, desc.Positions)
	}
	if desc.Indices != 0 {
		if _, ok := d.buffers[desc.Indices]; !ok {
			return 0, fmt.Errorf("%w: index buffer %d", ErrUnknownHandle, desc.Indices)
		}
	}
	if desc.Stride == 0 {
		return 0, errors.New("recording: vertex array stride is zero")
	}
	d.nextArray++
	d.arrays[d.nextArray] = *desc
	d.commands = append(d.commands, CreateVertexArrayCommand{VertexArray: d.nextArray, Descriptor: *desc})
	return d.nextArray, nil
}

// DestroyVertexArray implements render.Device.
func (d *Device) DestroyVertexArray(va render.VertexArray) {
	if _, ok := d.arrays[va]; !ok {
		return
	}
	delete(d.arrays, va)
	d.commands = append(d.commands, DestroyVertexArrayCommand{VertexArray: va})
}

// SetColor implements render.Device.
func (d *Device) SetColor(loc render.UniformLocation, rgb [3]float32) {
	d.state.RGB = rgb
	d.commands = append(d.commands, SetColorCommand{Location: loc, RGB: rgb})
}

// SetLineWidth implements render.Device.
func (d *Device) SetLineWidth(width float32) {
	d.state.LineWidth = width
	d.commands = append(d.commands, SetLineWidthCommand{Width: width})
}

// SetPointSize implements render.Device.
func (d *Device) SetPointSize(size float32) {
	d.state.PointSize = size
	d.commands = append(d.commands, SetPointSizeCommand{Size: size})
}

// Draw implements render.Device.
func (d *Device) Draw(va render.VertexArray, topology gputypes.PrimitiveTopology, first, count uint32) error {
	if err := d.fault(CmdDraw); err != nil {
		return err
	}
	desc, ok := d.arrays[va]
	if !ok {
		return fmt.Errorf("%w: vertex array %d", ErrUnknownHandle, va)
	}
	if err := d.checkVertices(desc, uint64(first)+uint64(count)); err != nil {
		return err
	}
	d.commands = append(d.commands, DrawCommand{
		VertexArray: va,
		Topology:    topology,
		First:       first,
		Count:       count,
		State:       d.state,
	})
	return nil
}

// DrawIndexed implements render.Device.
func (d *Device) DrawIndexed(va render.VertexArray, topology gputypes.PrimitiveTopology, first, count uint32) error {
	if err := d.fault(CmdDrawIndexed); err != nil {
		return err
	}
	desc, ok := d.arrays[va]
	if !ok {
		return fmt.Errorf("%w: vertex array %d", ErrUnknownHandle, va)
	}
	indices, err := d.Indices(va, first, count)
	if err != nil {
		return err
	}
	for _, idx := range indices {
		if err := d.checkVertices(desc, uint64(idx)+1); err != nil {
			return err
		}
	}
	d.commands = append(d.commands, DrawIndexedCommand{
		VertexArray: va,
		Topology:    topology,
		First:       first,
		Count:       count,
		State:       d.state,
		Indices:     indices,
	})
	return nil
}

// Indices decodes count uint32 indices starting at index first from the
// index buffer bound to va.
func (d *Device) Indices(va render.VertexArray, first, count uint32) ([]uint32, error) {
	desc, ok := d.arrays[va]
	if !ok {
		return nil, fmt.Errorf("%w: vertex array %d", ErrUnknownHandle, va)
	}
	data, ok := d.buffers[desc.Indices]
	if !ok {
		return nil, fmt.Errorf("%w: vertex array %d has no index buffer", ErrUnknownHandle, va)
	}
	end := (uint64(first) + uint64(count)) * 4
	if end > uint64(len(data)) {
		return nil, fmt.Errorf("%w: indices [%d, %d) in buffer of %d entries",
			ErrOutOfRange, first, uint64(first)+uint64(count), len(data)/4)
	}
	out := make([]uint32, count)
	for i := range out {
		out[i] = binary.LittleEndian.Uint32(data[(uint64(first)+uint64(i))*4:])
	}
	return out, nil
}

// checkVertices verifies that n vertices fit in the position buffer of desc.
func (d *Device) checkVertices(desc render.VertexArrayDescriptor, n uint64) error {
	data, ok := d.buffers[desc.Positions]
	if !ok {
		return fmt.Errorf("%w: position buffer %d", ErrUnknownHandle, desc.Positions)
	}
	if n*uint64(desc.Stride) > uint64(len(data)) {
		return fmt.Errorf("%w: vertex %d past position buffer %d", ErrOutOfRange, n-1, desc.Positions)
	}
	return nil
}

// Ensure Device implements render.Device.
var _ render.Device = (*Device)(nil)
