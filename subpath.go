package pathedit

import (
	"fmt"
	"log/slog"
	"slices"

	"github.com/gogpu/gputypes"

	"github.com/gogpu/pathedit/render"
)

// SubPathID identifies a sub-path within its Path.
type SubPathID uint32

// indexStride is the size of one uint32 index in the GPU buffer.
const indexStride = 4

// subPathOptions carries the per-renderer settings every SubPath needs.
type subPathOptions struct {
	initialCapacity int
	deferWrites     bool
	logger          func() *slog.Logger
}

// SubPath is an ordered polyline of vertex ids. Its first entry is the
// branch point it was started from; it never becomes empty.
//
// The ids are mirrored into a GPU index buffer whose capacity starts at
// Config.InitialIndexCapacity and doubles whenever an append overflows it.
// An append that fits writes a single index slot; an append that overflows
// re-specifies the buffer and rewrites the whole sequence.
type SubPath struct {
	id       SubPathID
	vertices []VertexID
	capacity int
	dirty    bool

	// allocated is the capacity the GPU index buffer currently has storage
	// for. It lags capacity only when writes are deferred.
	allocated int

	dev      render.Device
	indexBuf render.Buffer
	va       render.VertexArray
	opts     subPathOptions
}

func newSubPath(dev render.Device, id SubPathID, start VertexID, positions render.Buffer, opts subPathOptions) (*SubPath, error) {
	capacity := max(opts.initialCapacity, 1)
	buf, err := dev.CreateBuffer(&render.BufferDescriptor{
		Label: fmt.Sprintf("pathedit_subpath_%d_indices", id),
		Size:  uint64(capacity) * indexStride,
		Usage: gputypes.BufferUsageIndex | gputypes.BufferUsageCopyDst,
	})
	if err != nil {
		return nil, fmt.Errorf("pathedit: create index buffer: %w", err)
	}
	va, err := dev.CreateVertexArray(&render.VertexArrayDescriptor{
		Label:     fmt.Sprintf("pathedit_subpath_%d", id),
		Positions: positions,
		Indices:   buf,
		Stride:    vertexStride,
	})
	if err != nil {
		dev.DestroyBuffer(buf)
		return nil, fmt.Errorf("pathedit: create vertex array: %w", err)
	}
	return &SubPath{
		id:        id,
		vertices:  []VertexID{start},
		capacity:  capacity,
		allocated: capacity,
		dirty:     true,
		dev:       dev,
		indexBuf:  buf,
		va:        va,
		opts:      opts,
	}, nil
}

// ID returns the sub-path id.
func (s *SubPath) ID() SubPathID { return s.id }

// Vertices returns a copy of the vertex sequence.
func (s *SubPath) Vertices() []VertexID { return slices.Clone(s.vertices) }

// Len returns the number of vertices, at least 1.
func (s *SubPath) Len() int { return len(s.vertices) }

// Capacity returns the index buffer capacity in entries.
func (s *SubPath) Capacity() int { return s.capacity }

// Dirty reports whether the GPU index buffer needs a full upload.
func (s *SubPath) Dirty() bool { return s.dirty }

// Start returns the branch point the sub-path was started from.
func (s *SubPath) Start() VertexID { return s.vertices[0] }

// Last returns the most recently appended vertex.
func (s *SubPath) Last() VertexID { return s.vertices[len(s.vertices)-1] }

// MarkDirty schedules a full index upload on the next draw.
func (s *SubPath) MarkDirty() { s.dirty = true }

// appendVertex adds id to the end of the sequence and mirrors it to the GPU.
// On a device error the sequence is left as it was.
func (s *SubPath) appendVertex(id VertexID) error {
	s.vertices = append(s.vertices, id)
	if len(s.vertices) > s.capacity {
		for s.capacity < len(s.vertices) {
			s.capacity *= 2
		}
		s.opts.logger().Debug("pathedit: index buffer grown",
			slog.Uint64("subpath", uint64(s.id)),
			slog.Int("capacity", s.capacity))
	}

	if s.opts.deferWrites {
		s.dirty = true
		return nil
	}

	last := len(s.vertices) - 1
	if len(s.vertices) > s.allocated {
		if err := s.writeAll(); err != nil {
			s.vertices = s.vertices[:last]
			s.dirty = true
			return err
		}
		return nil
	}

	if err := s.dev.WriteBuffer(s.indexBuf, uint64(last)*indexStride, encodeIndices(s.vertices[last:])); err != nil {
		s.vertices = s.vertices[:last]
		return fmt.Errorf("pathedit: write index %d of sub-path %d: %w", last, s.id, err)
	}
	return nil
}

// writeAll re-specifies the index buffer if it is too small and rewrites
// the whole sequence.
func (s *SubPath) writeAll() error {
	if s.allocated < s.capacity {
		if err := s.dev.ReallocBuffer(s.indexBuf, uint64(s.capacity)*indexStride); err != nil {
			return fmt.Errorf("pathedit: grow index buffer of sub-path %d: %w", s.id, err)
		}
		s.allocated = s.capacity
	}
	if err := s.dev.WriteBuffer(s.indexBuf, 0, encodeIndices(s.vertices)); err != nil {
		return fmt.Errorf("pathedit: upload sub-path %d: %w", s.id, err)
	}
	return nil
}

// upload rewrites the full index buffer and clears the dirty flag.
func (s *SubPath) upload() error {
	if err := s.writeAll(); err != nil {
		return err
	}
	s.dirty = false
	s.opts.logger().Debug("pathedit: sub-path uploaded",
		slog.Uint64("subpath", uint64(s.id)),
		slog.Int("len", len(s.vertices)))
	return nil
}

// drawLineStrip draws the whole sequence as one connected line strip.
func (s *SubPath) drawLineStrip() error {
	return s.dev.DrawIndexed(s.va, gputypes.PrimitiveTopologyLineStrip, 0, uint32(len(s.vertices))) //nolint:gosec // bounded by MaxVertices
}

// drawEndpoints draws the first and last vertex as points.
// They coincide for a sub-path of length 1.
func (s *SubPath) drawEndpoints() error {
	if err := s.dev.DrawIndexed(s.va, gputypes.PrimitiveTopologyPointList, 0, 1); err != nil {
		return err
	}
	return s.dev.DrawIndexed(s.va, gputypes.PrimitiveTopologyPointList, uint32(len(s.vertices)-1), 1) //nolint:gosec // bounded by MaxVertices
}

func (s *SubPath) destroy() {
	if s.va != 0 {
		s.dev.DestroyVertexArray(s.va)
		s.va = 0
	}
	if s.indexBuf != 0 {
		s.dev.DestroyBuffer(s.indexBuf)
		s.indexBuf = 0
	}
}
