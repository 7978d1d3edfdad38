package pathedit

import (
	"encoding/binary"
	"fmt"
	"log/slog"
	"math"

	"github.com/gogpu/gputypes"

	"github.com/gogpu/pathedit/internal/idqueue"
	"github.com/gogpu/pathedit/render"
)

// VertexID identifies a vertex in the VertexPool.
type VertexID uint32

// vertexStride is the size of one packed position in the GPU buffer.
const vertexStride = 12

// VertexPool is a fixed-capacity store of vertex positions mirrored into a
// single GPU vertex buffer. Free ids are handed out first-in first-out, so a
// released id is reused only after every id freed before it.
//
// The GPU buffer is sized for the full capacity once and never reallocated,
// so every vertex array in the renderer can bind it permanently.
type VertexPool struct {
	dev       render.Device
	buf       render.Buffer
	positions []Vec3
	live      []bool
	free      *idqueue.Queue[VertexID]
	logger    func() *slog.Logger
}

func newVertexPool(dev render.Device, capacity int, logger func() *slog.Logger) (*VertexPool, error) {
	buf, err := dev.CreateBuffer(&render.BufferDescriptor{
		Label: "pathedit_positions",
		Size:  uint64(capacity) * vertexStride,
		Usage: gputypes.BufferUsageVertex | gputypes.BufferUsageCopyDst,
	})
	if err != nil {
		return nil, fmt.Errorf("pathedit: create position buffer: %w", err)
	}
	return &VertexPool{
		dev:       dev,
		buf:       buf,
		positions: make([]Vec3, capacity),
		live:      make([]bool, capacity),
		free:      idqueue.NewFull[VertexID](capacity),
		logger:    logger,
	}, nil
}

// Allocate takes the next free id, stores pos and writes it to the GPU.
// It returns ErrPoolExhausted when every id is live. If the GPU write fails
// the id stays free and the device error is returned.
func (p *VertexPool) Allocate(pos Vec3) (VertexID, error) {
	id, ok := p.free.Peek()
	if !ok {
		return 0, fmt.Errorf("%w: all %d vertices in use", ErrPoolExhausted, p.Cap())
	}
	if err := p.dev.WriteBuffer(p.buf, uint64(id)*vertexStride, encodePosition(pos)); err != nil {
		return 0, fmt.Errorf("pathedit: write vertex %d: %w", id, err)
	}
	p.free.Pop()
	p.positions[id] = pos
	p.live[id] = true
	p.logger().Debug("pathedit: vertex allocated",
		slog.Uint64("id", uint64(id)),
		slog.Int("free", p.free.Len()))
	return id, nil
}

// Release returns id to the tail of the free queue.
// Releasing an id that is not live returns ErrNotFound.
func (p *VertexPool) Release(id VertexID) error {
	if !p.Live(id) {
		return fmt.Errorf("%w: vertex %d", ErrNotFound, id)
	}
	p.live[id] = false
	p.positions[id] = Vec3{}
	p.free.Push(id)
	return nil
}

// Position returns the position of a live vertex.
func (p *VertexPool) Position(id VertexID) (Vec3, error) {
	if !p.Live(id) {
		return Vec3{}, fmt.Errorf("%w: vertex %d", ErrNotFound, id)
	}
	return p.positions[id], nil
}

// Live reports whether id is currently allocated.
func (p *VertexPool) Live(id VertexID) bool {
	return int(id) < len(p.live) && p.live[id]
}

// Len returns the number of live vertices.
func (p *VertexPool) Len() int { return p.Cap() - p.free.Len() }

// Free returns the number of ids available for allocation.
func (p *VertexPool) Free() int { return p.free.Len() }

// Cap returns the fixed capacity of the pool.
func (p *VertexPool) Cap() int { return len(p.positions) }

// Buffer returns the GPU position buffer.
func (p *VertexPool) Buffer() render.Buffer { return p.buf }

func (p *VertexPool) destroy() {
	if p.buf != 0 {
		p.dev.DestroyBuffer(p.buf)
		p.buf = 0
	}
}

// encodePosition packs a position as three little-endian float32 values.
func encodePosition(v Vec3) []byte {
	var b [vertexStride]byte
	binary.LittleEndian.PutUint32(b[0:4], math.Float32bits(v.X))
	binary.LittleEndian.PutUint32(b[4:8], math.Float32bits(v.Y))
	binary.LittleEndian.PutUint32(b[8:12], math.Float32bits(v.Z))
	return b[:]
}

// encodeIndices packs ids as little-endian uint32 values.
func encodeIndices(ids []VertexID) []byte {
	b := make([]byte, 4*len(ids))
	for i, id := range ids {
		binary.LittleEndian.PutUint32(b[i*4:], uint32(id))
	}
	return b
}
