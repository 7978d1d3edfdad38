package pathedit

import (
	"errors"
	"slices"
	"testing"

	"github.com/gogpu/pathedit/recording"
)

func TestSubPathCapacityDoubles(t *testing.T) {
	r, dev := newTestRenderer(t)
	pid := mustAddPath(t, r, White, V3(0, 0, -1))
	sid := mustStartSubPath(t, r)
	sp := mustSubPath(t, r, pid, sid)

	if sp.Len() != 1 || sp.Capacity() != DefaultInitialIndexCapacity {
		t.Fatalf("new sub-path Len/Capacity = %d/%d, want 1/%d", sp.Len(), sp.Capacity(), DefaultInitialIndexCapacity)
	}

	prev := sp.Capacity()
	for i := range 20 {
		mustAddVertex(t, r, V3(float32(i), 0, -1))
		if sp.Capacity() < sp.Len() {
			t.Fatalf("Capacity() = %d < Len() = %d", sp.Capacity(), sp.Len())
		}
		if c := sp.Capacity(); c != prev && c != 2*prev {
			t.Fatalf("Capacity() went %d -> %d, want unchanged or doubled", prev, c)
		}
		prev = sp.Capacity()
	}
	if sp.Capacity() != 40 {
		t.Errorf("Capacity() after 21 entries = %d, want 40", sp.Capacity())
	}
	if n := dev.Count(recording.CmdReallocBuffer); n != 3 {
		t.Errorf("ReallocBuffer count = %d, want 3 (5->10->20->40)", n)
	}
	if got := gpuIndices(t, dev, sp.indexBuf, sp.Len()); !slices.Equal(got, sp.Vertices()) {
		t.Errorf("GPU indices = %v, want %v", got, sp.Vertices())
	}
}

func TestSubPathFastAndSlowPath(t *testing.T) {
	r, dev := newTestRenderer(t)
	pid := mustAddPath(t, r, White, V3(0, 0, -1))
	sid := mustStartSubPath(t, r)
	sp := mustSubPath(t, r, pid, sid)

	// Fast path: one 4-byte write at the new slot.
	dev.Reset()
	v := mustAddVertex(t, r, V3(1, 0, -1))
	writes := dev.CommandsOf(recording.CmdWriteBuffer)
	if len(writes) != 2 {
		t.Fatalf("fast path issued %d writes, want 2 (position + index)", len(writes))
	}
	w := writes[1].(recording.WriteBufferCommand)
	if w.Buffer != sp.indexBuf || w.Offset != 4 || len(w.Data) != 4 {
		t.Errorf("index write = buffer %d offset %d len %d, want buffer %d offset 4 len 4",
			w.Buffer, w.Offset, len(w.Data), sp.indexBuf)
	}
	if got := gpuIndices(t, dev, sp.indexBuf, 2)[1]; got != v {
		t.Errorf("index slot 1 = %d, want %d", got, v)
	}

	for i := range 3 {
		mustAddVertex(t, r, V3(float32(i), 1, -1))
	}

	// Slow path: the sixth entry overflows capacity 5.
	dev.Reset()
	mustAddVertex(t, r, V3(9, 9, -1))
	got := commandTypes(dev.Commands())
	want := []recording.CommandType{recording.CmdWriteBuffer, recording.CmdReallocBuffer, recording.CmdWriteBuffer}
	if !slices.Equal(got, want) {
		t.Fatalf("slow path commands = %v, want %v", got, want)
	}
	realloc := dev.Commands()[1].(recording.ReallocBufferCommand)
	if realloc.Size != 10*indexStride {
		t.Errorf("realloc size = %d, want %d", realloc.Size, 10*indexStride)
	}
	full := dev.Commands()[2].(recording.WriteBufferCommand)
	if full.Offset != 0 || len(full.Data) != 6*indexStride {
		t.Errorf("full rewrite = offset %d len %d, want offset 0 len %d", full.Offset, len(full.Data), 6*indexStride)
	}
}

func TestSubPathDeferredWrites(t *testing.T) {
	r, dev := newTestRenderer(t, WithDeferredIndexWrites(true))
	pid := mustAddPath(t, r, White, V3(0, 0, -1))
	sid := mustStartSubPath(t, r)
	sp := mustSubPath(t, r, pid, sid)

	if err := r.Draw(0); err != nil {
		t.Fatalf("Draw() error = %v", err)
	}

	dev.Reset()
	for i := range 7 {
		mustAddVertex(t, r, V3(float32(i), 0, -1))
	}
	for _, c := range dev.Commands() {
		if w, ok := c.(recording.WriteBufferCommand); ok && w.Buffer == sp.indexBuf {
			t.Fatal("deferred append wrote the index buffer")
		}
		if c.Type() == recording.CmdReallocBuffer {
			t.Fatal("deferred append reallocated the index buffer")
		}
	}
	if !sp.Dirty() {
		t.Error("Dirty() = false after deferred appends")
	}
	if sp.Capacity() != 10 {
		t.Errorf("Capacity() = %d, want 10", sp.Capacity())
	}

	if err := r.Draw(0); err != nil {
		t.Fatalf("Draw() error = %v", err)
	}
	if sp.Dirty() {
		t.Error("Dirty() = true after Draw")
	}
	if got := gpuIndices(t, dev, sp.indexBuf, sp.Len()); !slices.Equal(got, sp.Vertices()) {
		t.Errorf("GPU indices after Draw = %v, want %v", got, sp.Vertices())
	}
}

func TestSubPathAppendFailureRollsBack(t *testing.T) {
	r, dev := newTestRenderer(t)
	pid := mustAddPath(t, r, White, V3(0, 0, -1))
	sid := mustStartSubPath(t, r)
	sp := mustSubPath(t, r, pid, sid)
	for i := range 4 {
		mustAddVertex(t, r, V3(float32(i), 0, -1))
	}

	before := r.Stats()
	boom := errors.New("out of memory")
	dev.FailNext(recording.CmdReallocBuffer, boom)
	if _, err := r.AddVertex(V3(5, 5, -1)); !errors.Is(err, boom) {
		t.Fatalf("AddVertex() error = %v, want %v", err, boom)
	}
	if sp.Len() != 5 {
		t.Errorf("Len() after failed append = %d, want 5", sp.Len())
	}
	if got := r.Stats(); got.Vertices != before.Vertices {
		t.Errorf("live vertices after failed append = %d, want %d", got.Vertices, before.Vertices)
	}
	if sp.Capacity() < sp.Len() {
		t.Errorf("Capacity() = %d < Len() = %d", sp.Capacity(), sp.Len())
	}

	// The retry grows the buffer.
	mustAddVertex(t, r, V3(5, 5, -1))
	if sp.Len() != 6 {
		t.Errorf("Len() after retry = %d, want 6", sp.Len())
	}
	if err := r.Draw(0); err != nil {
		t.Fatalf("Draw() error = %v", err)
	}
	if got := gpuIndices(t, dev, sp.indexBuf, sp.Len()); !slices.Equal(got, sp.Vertices()) {
		t.Errorf("GPU indices = %v, want %v", got, sp.Vertices())
	}
}

func TestSubPathAccessors(t *testing.T) {
	r, _ := newTestRenderer(t)
	pid := mustAddPath(t, r, White, V3(0, 0, -1))
	sid := mustStartSubPath(t, r)
	sp := mustSubPath(t, r, pid, sid)

	if sp.Start() != sp.Last() {
		t.Errorf("Start() = %d, Last() = %d, want equal for length 1", sp.Start(), sp.Last())
	}
	v := mustAddVertex(t, r, V3(1, 0, -1))
	if sp.Last() != v {
		t.Errorf("Last() = %d, want %d", sp.Last(), v)
	}

	vs := sp.Vertices()
	vs[0] = 999
	if sp.Start() == 999 {
		t.Error("Vertices() must return a copy")
	}

	if err := r.Draw(0); err != nil {
		t.Fatal(err)
	}
	sp.MarkDirty()
	if !sp.Dirty() {
		t.Error("Dirty() = false after MarkDirty")
	}
}
