package raster

import (
	"bytes"
	"errors"
	"image/color"
	"image/png"
	"path/filepath"
	"testing"

	"github.com/chewxy/math32"
	"github.com/gogpu/gputypes"

	"github.com/gogpu/pathedit"
	"github.com/gogpu/pathedit/render"
)

// drawScenario draws one path rooted at the center with a two-segment
// sub-path to (0.5, 0.5) and (0.7, 0.3).
func drawScenario(t *testing.T, d *Device, c pathedit.Color, opts ...pathedit.Option) {
	t.Helper()

	r, err := pathedit.NewRenderer(d, opts...)
	if err != nil {
		t.Fatalf("NewRenderer() error = %v", err)
	}
	t.Cleanup(func() { _ = r.Close() })

	id, err := r.AddPath(c, pathedit.V3(0, 0, -1))
	if err != nil {
		t.Fatal(err)
	}
	if err := r.StartPath(id); err != nil {
		t.Fatal(err)
	}
	sub, err := r.AddSubPath()
	if err != nil {
		t.Fatal(err)
	}
	if err := r.StartSubPath(sub); err != nil {
		t.Fatal(err)
	}
	for _, p := range []pathedit.Vec3{pathedit.V3(0.5, 0.5, -1), pathedit.V3(0.7, 0.3, -1)} {
		v, err := r.AddVertex(p)
		if err != nil {
			t.Fatal(err)
		}
		if err := r.StartVertex(v); err != nil {
			t.Fatal(err)
		}
	}
	if err := r.Draw(0); err != nil {
		t.Fatalf("Draw() error = %v", err)
	}
}

func alphaAt(d *Device, x, y int) uint8 {
	return d.Image().RGBAAt(x, y).A
}

func TestDeviceDrawsScenario(t *testing.T) {
	d := New(100, 100)
	drawScenario(t, d, pathedit.Red, pathedit.WithLineWidth(3))

	tests := []struct {
		name   string
		x, y   int
		filled bool
	}{
		{"root marker", 50, 50, true},
		{"root marker edge", 51, 51, true},
		{"first segment midpoint", 62, 37, true},
		{"second segment midpoint", 80, 30, true},
		{"end marker", 85, 35, true},
		{"empty corner", 5, 95, false},
		{"below the path", 60, 70, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := alphaAt(d, tt.x, tt.y)
			if tt.filled && a < 128 {
				t.Errorf("alpha at (%d, %d) = %d, want >= 128", tt.x, tt.y, a)
			}
			if !tt.filled && a != 0 {
				t.Errorf("alpha at (%d, %d) = %d, want 0", tt.x, tt.y, a)
			}
		})
	}

	c := d.Image().RGBAAt(50, 50)
	if c.R < 250 || c.G > 5 || c.B > 5 {
		t.Errorf("root color = %v, want red", c)
	}
}

func TestDevicePerspective(t *testing.T) {
	d := New(64, 64)
	d.SetViewProjection(pathedit.PerspectiveFov(math32.Pi/3, 64, 64, 0.1, 100))
	drawScenario(t, d, pathedit.White)

	if a := alphaAt(d, 32, 32); a < 128 {
		t.Errorf("root at (32, 32) alpha = %d, want >= 128", a)
	}
}

func TestDeviceClearAndPNG(t *testing.T) {
	d := New(8, 4)
	d.Clear(color.White)
	if got := d.Image().RGBAAt(3, 2); got != (color.RGBA{255, 255, 255, 255}) {
		t.Errorf("pixel after Clear = %v, want white", got)
	}

	var buf bytes.Buffer
	if err := d.WritePNG(&buf); err != nil {
		t.Fatalf("WritePNG() error = %v", err)
	}
	img, err := png.Decode(&buf)
	if err != nil {
		t.Fatalf("png.Decode() error = %v", err)
	}
	if b := img.Bounds(); b.Dx() != 8 || b.Dy() != 4 {
		t.Errorf("decoded bounds = %v, want 8x4", b)
	}

	if err := d.SavePNG(filepath.Join(t.TempDir(), "out.png")); err != nil {
		t.Errorf("SavePNG() error = %v", err)
	}
}

func TestDeviceErrors(t *testing.T) {
	d := New(10, 10)
	pos, _ := d.CreateBuffer(&render.BufferDescriptor{Size: 12})
	va, err := d.CreateVertexArray(&render.VertexArrayDescriptor{Positions: pos, Stride: 12})
	if err != nil {
		t.Fatal(err)
	}

	if err := d.Draw(99, gputypes.PrimitiveTopologyPointList, 0, 1); !errors.Is(err, ErrUnknownHandle) {
		t.Errorf("Draw(unknown) error = %v, want ErrUnknownHandle", err)
	}
	if err := d.DrawIndexed(va, gputypes.PrimitiveTopologyPointList, 0, 1); !errors.Is(err, ErrUnknownHandle) {
		t.Errorf("DrawIndexed(no index buffer) error = %v, want ErrUnknownHandle", err)
	}
	if err := d.Draw(va, gputypes.PrimitiveTopologyPointList, 1, 1); err == nil {
		t.Error("Draw(past positions) error = nil")
	}
	if err := d.Draw(va, gputypes.PrimitiveTopologyTriangleList, 0, 1); err == nil {
		t.Error("Draw(triangle list) error = nil, want unsupported topology")
	}
	if err := d.WriteBuffer(pos, 8, make([]byte, 8)); err == nil {
		t.Error("WriteBuffer(overflow) error = nil")
	}
	if _, err := d.CreateVertexArray(&render.VertexArrayDescriptor{Positions: pos, Stride: 4}); err == nil {
		t.Error("CreateVertexArray(stride 4) error = nil")
	}
}

func TestRegisteredBackend(t *testing.T) {
	if _, err := render.NewDevice("raster", render.BackendConfig{}); err == nil {
		t.Error("NewDevice(raster, 0x0) error = nil")
	}
	dev, err := render.NewDevice("raster", render.BackendConfig{Width: 16, Height: 8})
	if err != nil {
		t.Fatalf("NewDevice(raster) error = %v", err)
	}
	d, ok := dev.(*Device)
	if !ok {
		t.Fatalf("NewDevice(raster) = %T, want *Device", dev)
	}
	if d.Width() != 16 || d.Height() != 8 {
		t.Errorf("size = %dx%d, want 16x8", d.Width(), d.Height())
	}
}
