package recording

import (
	"fmt"

	"github.com/gogpu/pathedit/render"
)

// Playback replays commands into dst. Buffer and vertex array handles are
// remapped to the ones dst returns. The first error aborts the playback and
// is returned with the index of the failing command.
func Playback(commands []Command, dst render.Device) error {
	p := player{
		dst:     dst,
		buffers: make(map[render.Buffer]render.Buffer),
		arrays:  make(map[render.VertexArray]render.VertexArray),
	}
	for i, cmd := range commands {
		if err := p.play(cmd); err != nil {
			return fmt.Errorf("recording: playback command %d (%s): %w", i, cmd.Type(), err)
		}
	}
	return nil
}

type player struct {
	dst     render.Device
	buffers map[render.Buffer]render.Buffer
	arrays  map[render.VertexArray]render.VertexArray
}

func (p *player) buffer(b render.Buffer) render.Buffer {
	if b == 0 {
		return 0
	}
	return p.buffers[b]
}

func (p *player) play(cmd Command) error {
	switch c := cmd.(type) {
	case CreateBufferCommand:
		buf, err := p.dst.CreateBuffer(&render.BufferDescriptor{Label: c.Label, Size: c.Size, Usage: c.Usage})
		if err != nil {
			return err
		}
		p.buffers[c.Buffer] = buf
	case ReallocBufferCommand:
		return p.dst.ReallocBuffer(p.buffer(c.Buffer), c.Size)
	case WriteBufferCommand:
		return p.dst.WriteBuffer(p.buffer(c.Buffer), c.Offset, c.Data)
	case DestroyBufferCommand:
		p.dst.DestroyBuffer(p.buffer(c.Buffer))
		delete(p.buffers, c.Buffer)
	case CreateVertexArrayCommand:
		desc := c.Descriptor
		desc.Positions = p.buffer(desc.Positions)
		desc.Indices = p.buffer(desc.Indices)
		va, err := p.dst.CreateVertexArray(&desc)
		if err != nil {
			return err
		}
		p.arrays[c.VertexArray] = va
	case DestroyVertexArrayCommand:
		p.dst.DestroyVertexArray(p.arrays[c.VertexArray])
		delete(p.arrays, c.VertexArray)
	case SetColorCommand:
		p.dst.SetColor(c.Location, c.RGB)
	case SetLineWidthCommand:
		p.dst.SetLineWidth(c.Width)
	case SetPointSizeCommand:
		p.dst.SetPointSize(c.Size)
	case DrawCommand:
		return p.dst.Draw(p.arrays[c.VertexArray], c.Topology, c.First, c.Count)
	case DrawIndexedCommand:
		return p.dst.DrawIndexed(p.arrays[c.VertexArray], c.Topology, c.First, c.Count)
	default:
		return fmt.Errorf("unsupported command %T", cmd)
	}
	return nil
}
