package recording

import (
	"errors"
	"testing"

	"github.com/gogpu/gputypes"

	"github.com/gogpu/pathedit/render"
)

func TestPlaybackRemapsHandles(t *testing.T) {
	src := NewDevice()
	va := newTestArray(t, src, 3, []uint32{0, 2})
	src.SetColor(0, [3]float32{0, 1, 0})
	if err := src.DrawIndexed(va, gputypes.PrimitiveTopologyLineStrip, 0, 2); err != nil {
		t.Fatalf("DrawIndexed() error = %v", err)
	}

	// Shift the destination's handle space.
	dst := NewDevice()
	if _, err := dst.CreateBuffer(&render.BufferDescriptor{Size: 1}); err != nil {
		t.Fatal(err)
	}
	dst.Reset()

	if err := Playback(src.Commands(), dst); err != nil {
		t.Fatalf("Playback() error = %v", err)
	}
	if got, want := len(dst.Commands()), len(src.Commands()); got != want {
		t.Fatalf("len(dst.Commands()) = %d, want %d", got, want)
	}
	draws := dst.CommandsOf(CmdDrawIndexed)
	c := draws[0].(DrawIndexedCommand)
	if len(c.Indices) != 2 || c.Indices[1] != 2 {
		t.Errorf("replayed Indices = %v, want [0 2]", c.Indices)
	}
	if c.State.RGB != [3]float32{0, 1, 0} {
		t.Errorf("replayed State.RGB = %v, want [0 1 0]", c.State.RGB)
	}
}

func TestPlaybackStopsOnError(t *testing.T) {
	src := NewDevice()
	newTestArray(t, src, 1, []uint32{0})

	dst := NewDevice()
	boom := errors.New("boom")
	dst.FailNext(CmdWriteBuffer, boom)

	err := Playback(src.Commands(), dst)
	if !errors.Is(err, boom) {
		t.Errorf("Playback() error = %v, want wrapping %v", err, boom)
	}
	if dst.LiveVertexArrays() != 0 {
		t.Errorf("LiveVertexArrays() = %d, want 0 (playback should stop)", dst.LiveVertexArrays())
	}
}
