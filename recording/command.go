package recording

import (
	"github.com/gogpu/gputypes"

	"github.com/gogpu/pathedit/render"
)

// CommandType identifies the type of a command.
// Each command type corresponds to one render.Device method.
type CommandType uint8

const (
	// Resource commands
	CmdCreateBuffer       CommandType = iota // Create a buffer
	CmdReallocBuffer                         // Re-specify buffer storage
	CmdWriteBuffer                           // Upload bytes into a buffer
	CmdDestroyBuffer                         // Destroy a buffer
	CmdCreateVertexArray                     // Create a vertex array
	CmdDestroyVertexArray                    // Destroy a vertex array

	// State commands
	CmdSetColor     // Set the color uniform
	CmdSetLineWidth // Set line width
	CmdSetPointSize // Set point size

	// Drawing commands
	CmdDraw        // Non-indexed draw
	CmdDrawIndexed // Indexed draw
)

// commandTypeNames maps CommandType values to their string representation.
var commandTypeNames = [...]string{
	CmdCreateBuffer:       "CreateBuffer",
	CmdReallocBuffer:      "ReallocBuffer",
	CmdWriteBuffer:        "WriteBuffer",
	CmdDestroyBuffer:      "DestroyBuffer",
	CmdCreateVertexArray:  "CreateVertexArray",
	CmdDestroyVertexArray: "DestroyVertexArray",
	CmdSetColor:           "SetColor",
	CmdSetLineWidth:       "SetLineWidth",
	CmdSetPointSize:       "SetPointSize",
	CmdDraw:               "Draw",
	CmdDrawIndexed:        "DrawIndexed",
}

// String returns the string representation of a CommandType.
func (c CommandType) String() string {
	if int(c) < len(commandTypeNames) {
		return commandTypeNames[c]
	}
	return "Unknown"
}

// Command is the interface implemented by all command types.
type Command interface {
	// Type returns the CommandType for this command.
	Type() CommandType
}

// --------------------------------------------------------------------------
// Resource Commands
// --------------------------------------------------------------------------

// CreateBufferCommand records a buffer creation.
type CreateBufferCommand struct {
	// Buffer is the handle returned to the caller.
	Buffer render.Buffer
	Label  string
	Size   uint64
	Usage  gputypes.BufferUsage
}

// Type implements Command.
func (CreateBufferCommand) Type() CommandType { return CmdCreateBuffer }

// ReallocBufferCommand records a buffer re-specification.
type ReallocBufferCommand struct {
	Buffer render.Buffer
	Size   uint64
}

// Type implements Command.
func (ReallocBufferCommand) Type() CommandType { return CmdReallocBuffer }

// WriteBufferCommand records an upload. Data is a copy of the caller's bytes.
type WriteBufferCommand struct {
	Buffer render.Buffer
	Offset uint64
	Data   []byte
}

// Type implements Command.
func (WriteBufferCommand) Type() CommandType { return CmdWriteBuffer }

// DestroyBufferCommand records a buffer destruction.
type DestroyBufferCommand struct {
	Buffer render.Buffer
}

// Type implements Command.
func (DestroyBufferCommand) Type() CommandType { return CmdDestroyBuffer }

// CreateVertexArrayCommand records a vertex array creation.
type CreateVertexArrayCommand struct {
	// VertexArray is the handle returned to the caller.
	VertexArray render.VertexArray
	Descriptor  render.VertexArrayDescriptor
}

// Type implements Command.
func (CreateVertexArrayCommand) Type() CommandType { return CmdCreateVertexArray }

// DestroyVertexArrayCommand records a vertex array destruction.
type DestroyVertexArrayCommand struct {
	VertexArray render.VertexArray
}

// Type implements Command.
func (DestroyVertexArrayCommand) Type() CommandType { return CmdDestroyVertexArray }

// --------------------------------------------------------------------------
// State Commands
// --------------------------------------------------------------------------

// SetColorCommand records a color uniform update.
type SetColorCommand struct {
	Location render.UniformLocation
	RGB      [3]float32
}

// Type implements Command.
func (SetColorCommand) Type() CommandType { return CmdSetColor }

// SetLineWidthCommand records a line width change.
type SetLineWidthCommand struct {
	Width float32
}

// Type implements Command.
func (SetLineWidthCommand) Type() CommandType { return CmdSetLineWidth }

// SetPointSizeCommand records a point size change.
type SetPointSizeCommand struct {
	Size float32
}

// Type implements Command.
func (SetPointSizeCommand) Type() CommandType { return CmdSetPointSize }

// --------------------------------------------------------------------------
// Drawing Commands
// --------------------------------------------------------------------------

// DrawState is the rasterization state in effect when a draw was issued.
type DrawState struct {
	RGB       [3]float32
	LineWidth float32
	PointSize float32
}

// DrawCommand records a non-indexed draw.
type DrawCommand struct {
	VertexArray render.VertexArray
	Topology    gputypes.PrimitiveTopology
	First       uint32
	Count       uint32
	State       DrawState
}

// Type implements Command.
func (DrawCommand) Type() CommandType { return CmdDraw }

// DrawIndexedCommand records an indexed draw.
type DrawIndexedCommand struct {
	VertexArray render.VertexArray
	Topology    gputypes.PrimitiveTopology
	First       uint32
	Count       uint32
	State       DrawState

	// Indices are the index values the draw read, resolved from the index
	// buffer at the time of the call.
	Indices []uint32
}

// Type implements Command.
func (DrawIndexedCommand) Type() CommandType { return CmdDrawIndexed }
