package pathedit

import (
	"encoding/binary"
	"math"
	"testing"

	"github.com/gogpu/pathedit/recording"
	"github.com/gogpu/pathedit/render"
)

// newTestRenderer creates a Renderer over a recording device.
func newTestRenderer(t *testing.T, opts ...Option) (*Renderer, *recording.Device) {
	t.Helper()

	dev := recording.NewDevice()
	r, err := NewRenderer(dev, opts...)
	if err != nil {
		t.Fatalf("NewRenderer() error = %v", err)
	}
	t.Cleanup(func() { _ = r.Close() })
	return r, dev
}

// mustAddPath adds a path and selects it.
func mustAddPath(t *testing.T, r *Renderer, color Color, root Vec3) PathID {
	t.Helper()

	id, err := r.AddPath(color, root)
	if err != nil {
		t.Fatalf("AddPath() error = %v", err)
	}
	if err := r.StartPath(id); err != nil {
		t.Fatalf("StartPath(%d) error = %v", id, err)
	}
	return id
}

// mustStartSubPath adds a sub-path to the selected path and selects it.
func mustStartSubPath(t *testing.T, r *Renderer) SubPathID {
	t.Helper()

	id, err := r.AddSubPath()
	if err != nil {
		t.Fatalf("AddSubPath() error = %v", err)
	}
	if err := r.StartSubPath(id); err != nil {
		t.Fatalf("StartSubPath(%d) error = %v", id, err)
	}
	return id
}

func mustAddVertex(t *testing.T, r *Renderer, pos Vec3) VertexID {
	t.Helper()

	id, err := r.AddVertex(pos)
	if err != nil {
		t.Fatalf("AddVertex(%v) error = %v", pos, err)
	}
	return id
}

func mustSubPath(t *testing.T, r *Renderer, path PathID, sub SubPathID) *SubPath {
	t.Helper()

	p, err := r.Paths().Path(path)
	if err != nil {
		t.Fatalf("Path(%d) error = %v", path, err)
	}
	sp, err := p.SubPath(sub)
	if err != nil {
		t.Fatalf("SubPath(%d) error = %v", sub, err)
	}
	return sp
}

// gpuPosition decodes vertex id from the device's copy of the position buffer.
func gpuPosition(t *testing.T, dev *recording.Device, buf render.Buffer, id VertexID) Vec3 {
	t.Helper()

	data, ok := dev.BufferData(buf)
	if !ok {
		t.Fatalf("position buffer %d not found", buf)
	}
	off := int(id) * vertexStride
	f := func(i int) float32 {
		return math.Float32frombits(binary.LittleEndian.Uint32(data[off+i*4:]))
	}
	return Vec3{X: f(0), Y: f(1), Z: f(2)}
}

// gpuIndices decodes the first n entries of an index buffer.
func gpuIndices(t *testing.T, dev *recording.Device, buf render.Buffer, n int) []VertexID {
	t.Helper()

	data, ok := dev.BufferData(buf)
	if !ok {
		t.Fatalf("index buffer %d not found", buf)
	}
	if len(data) < n*indexStride {
		t.Fatalf("index buffer holds %d entries, want at least %d", len(data)/indexStride, n)
	}
	out := make([]VertexID, n)
	for i := range out {
		out[i] = VertexID(binary.LittleEndian.Uint32(data[i*indexStride:]))
	}
	return out
}

func commandTypes(cmds []recording.Command) []recording.CommandType {
	out := make([]recording.CommandType, len(cmds))
	for i, c := range cmds {
		out[i] = c.Type()
	}
	return out
}
