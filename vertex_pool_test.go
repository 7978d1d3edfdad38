package pathedit

import (
	"errors"
	"testing"

	"github.com/gogpu/pathedit/recording"
)

func newTestPool(t *testing.T, capacity int) (*VertexPool, *recording.Device) {
	t.Helper()

	dev := recording.NewDevice()
	p, err := newVertexPool(dev, capacity, Logger)
	if err != nil {
		t.Fatalf("newVertexPool() error = %v", err)
	}
	return p, dev
}

func TestVertexPoolAllocateWritesThrough(t *testing.T) {
	p, dev := newTestPool(t, 4)

	want := V3(0.5, -0.25, -1)
	id, err := p.Allocate(V3(1, 1, 1))
	if err != nil {
		t.Fatalf("Allocate() error = %v", err)
	}
	id2, err := p.Allocate(want)
	if err != nil {
		t.Fatalf("Allocate() error = %v", err)
	}
	if id != 0 || id2 != 1 {
		t.Errorf("Allocate() ids = %d, %d, want 0, 1", id, id2)
	}

	if got := gpuPosition(t, dev, p.Buffer(), id2); got != want {
		t.Errorf("GPU position of %d = %v, want %v", id2, got, want)
	}
	if got, err := p.Position(id2); err != nil || got != want {
		t.Errorf("Position(%d) = %v, %v, want %v, nil", id2, got, err, want)
	}

	writes := dev.CommandsOf(recording.CmdWriteBuffer)
	last := writes[len(writes)-1].(recording.WriteBufferCommand)
	if last.Offset != 12 || len(last.Data) != 12 {
		t.Errorf("last write = offset %d, %d bytes, want offset 12, 12 bytes", last.Offset, len(last.Data))
	}
}

func TestVertexPoolExhausted(t *testing.T) {
	p, _ := newTestPool(t, 2)

	for range 2 {
		if _, err := p.Allocate(Vec3{}); err != nil {
			t.Fatalf("Allocate() error = %v", err)
		}
	}
	if _, err := p.Allocate(Vec3{}); !errors.Is(err, ErrPoolExhausted) {
		t.Errorf("Allocate() on full pool error = %v, want ErrPoolExhausted", err)
	}
	if p.Len() != 2 || p.Free() != 0 || p.Cap() != 2 {
		t.Errorf("Len/Free/Cap = %d/%d/%d, want 2/0/2", p.Len(), p.Free(), p.Cap())
	}
}

func TestVertexPoolFIFOReuse(t *testing.T) {
	p, _ := newTestPool(t, 3)

	for range 3 {
		if _, err := p.Allocate(Vec3{}); err != nil {
			t.Fatalf("Allocate() error = %v", err)
		}
	}

	// Freed in order 2, 0: reused in the same order.
	for _, id := range []VertexID{2, 0} {
		if err := p.Release(id); err != nil {
			t.Fatalf("Release(%d) error = %v", id, err)
		}
	}
	for _, want := range []VertexID{2, 0} {
		got, err := p.Allocate(Vec3{})
		if err != nil {
			t.Fatalf("Allocate() error = %v", err)
		}
		if got != want {
			t.Errorf("Allocate() = %d, want %d", got, want)
		}
	}
}

func TestVertexPoolReleaseNotLive(t *testing.T) {
	p, _ := newTestPool(t, 2)

	id, _ := p.Allocate(Vec3{})
	if err := p.Release(id); err != nil {
		t.Fatalf("Release(%d) error = %v", id, err)
	}

	tests := []struct {
		name string
		id   VertexID
	}{
		{"double release", id},
		{"never allocated", 1},
		{"out of range", 99},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := p.Release(tt.id); !errors.Is(err, ErrNotFound) {
				t.Errorf("Release(%d) error = %v, want ErrNotFound", tt.id, err)
			}
		})
	}
	if p.Free() != 2 {
		t.Errorf("Free() = %d, want 2", p.Free())
	}
	if _, err := p.Position(1); !errors.Is(err, ErrNotFound) {
		t.Errorf("Position(1) error = %v, want ErrNotFound", err)
	}
}

func TestVertexPoolWriteFailureKeepsID(t *testing.T) {
	p, dev := newTestPool(t, 2)

	boom := errors.New("device lost")
	dev.FailNext(recording.CmdWriteBuffer, boom)
	if _, err := p.Allocate(V3(1, 2, 3)); !errors.Is(err, boom) {
		t.Fatalf("Allocate() error = %v, want %v", err, boom)
	}
	if p.Free() != 2 {
		t.Errorf("Free() after failed write = %d, want 2", p.Free())
	}

	id, err := p.Allocate(V3(1, 2, 3))
	if err != nil {
		t.Fatalf("Allocate() error = %v", err)
	}
	if id != 0 {
		t.Errorf("Allocate() after failed write = %d, want 0", id)
	}
}

func TestVertexPoolBufferSizedOnce(t *testing.T) {
	p, dev := newTestPool(t, 10)

	creates := dev.CommandsOf(recording.CmdCreateBuffer)
	if len(creates) != 1 {
		t.Fatalf("created %d buffers, want 1", len(creates))
	}
	if size := creates[0].(recording.CreateBufferCommand).Size; size != 10*vertexStride {
		t.Errorf("position buffer size = %d, want %d", size, 10*vertexStride)
	}

	for range 10 {
		if _, err := p.Allocate(Vec3{}); err != nil {
			t.Fatalf("Allocate() error = %v", err)
		}
	}
	if n := dev.Count(recording.CmdReallocBuffer); n != 0 {
		t.Errorf("position buffer reallocated %d times, want 0", n)
	}
}
