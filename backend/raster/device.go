package raster

import (
	"encoding/binary"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"io"
	"math"
	"os"

	"github.com/chewxy/math32"
	"github.com/gogpu/gputypes"
	"golang.org/x/image/vector"

	"github.com/gogpu/pathedit"
	"github.com/gogpu/pathedit/render"
)

func init() {
	render.Register("raster", func(cfg render.BackendConfig) (render.Device, error) {
		if cfg.Width <= 0 || cfg.Height <= 0 {
			return nil, fmt.Errorf("raster: invalid size %dx%d", cfg.Width, cfg.Height)
		}
		return New(cfg.Width, cfg.Height), nil
	})
}

// ErrUnknownHandle is returned when a call names a buffer or vertex array
// the device does not know.
var ErrUnknownHandle = errors.New("raster: unknown handle")

// Device rasterizes draws into an RGBA image.
// It implements render.Device and is not safe for concurrent use.
type Device struct {
	width, height int
	img           *image.RGBA
	ras           *vector.Rasterizer

	buffers    map[render.Buffer][]byte
	arrays     map[render.VertexArray]render.VertexArrayDescriptor
	nextBuffer render.Buffer
	nextArray  render.VertexArray

	viewProj  pathedit.Mat4
	color     color.NRGBA
	lineWidth float32
	pointSize float32
}

// Ensure Device implements render.Device.
var _ render.Device = (*Device)(nil)

// New creates a device with a transparent width x height image and an
// identity view-projection.
func New(width, height int) *Device {
	return &Device{
		width:     width,
		height:    height,
		img:       image.NewRGBA(image.Rect(0, 0, width, height)),
		ras:       vector.NewRasterizer(width, height),
		buffers:   make(map[render.Buffer][]byte),
		arrays:    make(map[render.VertexArray]render.VertexArrayDescriptor),
		viewProj:  pathedit.Identity4(),
		color:     color.NRGBA{A: 255},
		lineWidth: 1,
		pointSize: 1,
	}
}

// Width returns the image width in pixels.
func (d *Device) Width() int { return d.width }

// Height returns the image height in pixels.
func (d *Device) Height() int { return d.height }

// Image returns the image draws are rendered into.
func (d *Device) Image() *image.RGBA { return d.img }

// SetViewProjection sets the matrix applied to every position.
func (d *Device) SetViewProjection(m pathedit.Mat4) { d.viewProj = m }

// Clear fills the whole image with c.
func (d *Device) Clear(c color.Color) {
	draw.Draw(d.img, d.img.Bounds(), image.NewUniform(c), image.Point{}, draw.Src)
}

// WritePNG encodes the image as PNG to w.
func (d *Device) WritePNG(w io.Writer) error {
	return png.Encode(w, d.img)
}

// SavePNG writes the image to a PNG file.
func (d *Device) SavePNG(path string) error {
	f, err := os.Create(path) //nolint:gosec // path is user-provided intentionally
	if err != nil {
		return fmt.Errorf("raster: create %s: %w", path, err)
	}
	if err := d.WritePNG(f); err != nil {
		_ = f.Close()
		return fmt.Errorf("raster: encode %s: %w", path, err)
	}
	return f.Close()
}

// CreateBuffer implements render.Device.
func (d *Device) CreateBuffer(desc *render.BufferDescriptor) (render.Buffer, error) {
	d.nextBuffer++
	d.buffers[d.nextBuffer] = make([]byte, desc.Size)
	return d.nextBuffer, nil
}

// ReallocBuffer implements render.Device.
func (d *Device) ReallocBuffer(buf render.Buffer, size uint64) error {
	if _, ok := d.buffers[buf]; !ok {
		return fmt.Errorf("%w: buffer %d", ErrUnknownHandle, buf)
	}
	d.buffers[buf] = make([]byte, size)
	return nil
}

// WriteBuffer implements render.Device.
func (d *Device) WriteBuffer(buf render.Buffer, offset uint64, data []byte) error {
	dst, ok := d.buffers[buf]
	if !ok {
		return fmt.Errorf("%w: buffer %d", ErrUnknownHandle, buf)
	}
	if offset+uint64(len(data)) > uint64(len(dst)) {
		return fmt.Errorf("raster: write of %d bytes at %d overflows buffer %d (%d bytes)", len(data), offset, buf, len(dst))
	}
	copy(dst[offset:], data)
	return nil
}

// DestroyBuffer implements render.Device.
func (d *Device) DestroyBuffer(buf render.Buffer) {
	delete(d.buffers, buf)
}

// CreateVertexArray implements render.Device.
func (d *Device) CreateVertexArray(desc *render.VertexArrayDescriptor) (render.VertexArray, error) {
	if _, ok := d.buffers[desc.Positions]; !ok {
		return 0, fmt.Errorf("%w: position buffer %d", ErrUnknownHandle, desc.Positions)
	}
	if desc.Stride < 12 {
		return 0, fmt.Errorf("raster: stride %d too small for 3 x float32", desc.Stride)
	}
	d.nextArray++
	d.arrays[d.nextArray] = *desc
	return d.nextArray, nil
}

// DestroyVertexArray implements render.Device.
func (d *Device) DestroyVertexArray(va render.VertexArray) {
	delete(d.arrays, va)
}

// SetColor implements render.Device. The uniform location is ignored.
func (d *Device) SetColor(_ render.UniformLocation, rgb [3]float32) {
	d.color = pathedit.RGB(rgb[0], rgb[1], rgb[2]).NRGBA()
}

// SetLineWidth implements render.Device.
func (d *Device) SetLineWidth(width float32) { d.lineWidth = width }

// SetPointSize implements render.Device.
func (d *Device) SetPointSize(size float32) { d.pointSize = size }

// Draw implements render.Device.
func (d *Device) Draw(va render.VertexArray, topology gputypes.PrimitiveTopology, first, count uint32) error {
	desc, ok := d.arrays[va]
	if !ok {
		return fmt.Errorf("%w: vertex array %d", ErrUnknownHandle, va)
	}
	ids := make([]uint32, count)
	for i := range ids {
		ids[i] = first + uint32(i) //nolint:gosec // i < count
	}
	return d.rasterize(desc, topology, ids)
}

// DrawIndexed implements render.Device.
func (d *Device) DrawIndexed(va render.VertexArray, topology gputypes.PrimitiveTopology, first, count uint32) error {
	desc, ok := d.arrays[va]
	if !ok {
		return fmt.Errorf("%w: vertex array %d", ErrUnknownHandle, va)
	}
	data, ok := d.buffers[desc.Indices]
	if !ok {
		return fmt.Errorf("%w: vertex array %d has no index buffer", ErrUnknownHandle, va)
	}
	if (uint64(first)+uint64(count))*4 > uint64(len(data)) {
		return fmt.Errorf("raster: indices [%d, %d) past index buffer of %d entries", first, uint64(first)+uint64(count), len(data)/4)
	}
	ids := make([]uint32, count)
	for i := range ids {
		ids[i] = binary.LittleEndian.Uint32(data[(int(first)+i)*4:])
	}
	return d.rasterize(desc, topology, ids)
}

// point is a position in pixel space. ok is false for positions behind the
// eye, which are not drawn.
type point struct {
	x, y float32
	ok   bool
}

func (d *Device) rasterize(desc render.VertexArrayDescriptor, topology gputypes.PrimitiveTopology, ids []uint32) error {
	pts, err := d.project(desc, ids)
	if err != nil {
		return err
	}

	d.ras.Reset(d.width, d.height)
	switch topology {
	case gputypes.PrimitiveTopologyPointList:
		for _, p := range pts {
			if p.ok {
				d.square(p, d.pointSize)
			}
		}
	case gputypes.PrimitiveTopologyLineStrip:
		for i := 1; i < len(pts); i++ {
			if pts[i-1].ok && pts[i].ok {
				d.segment(pts[i-1], pts[i], d.lineWidth)
			}
		}
	default:
		return fmt.Errorf("raster: unsupported topology %v", topology)
	}
	d.ras.Draw(d.img, d.img.Bounds(), image.NewUniform(d.color), image.Point{})
	return nil
}

// project reads the positions named by ids and maps them to pixels.
func (d *Device) project(desc render.VertexArrayDescriptor, ids []uint32) ([]point, error) {
	data, ok := d.buffers[desc.Positions]
	if !ok {
		return nil, fmt.Errorf("%w: position buffer %d", ErrUnknownHandle, desc.Positions)
	}
	pts := make([]point, len(ids))
	for i, id := range ids {
		off := uint64(id) * uint64(desc.Stride)
		if off+12 > uint64(len(data)) {
			return nil, fmt.Errorf("raster: vertex %d past position buffer %d", id, desc.Positions)
		}
		pos := pathedit.V3(
			math.Float32frombits(binary.LittleEndian.Uint32(data[off:])),
			math.Float32frombits(binary.LittleEndian.Uint32(data[off+4:])),
			math.Float32frombits(binary.LittleEndian.Uint32(data[off+8:])),
		)
		ndc, ok := d.viewProj.Project(pos)
		pts[i] = point{
			x:  (ndc.X + 1) / 2 * float32(d.width),
			y:  (1 - ndc.Y) / 2 * float32(d.height),
			ok: ok,
		}
	}
	return pts, nil
}

// square adds an axis-aligned square of side size centered at p.
func (d *Device) square(p point, size float32) {
	h := math32.Max(size, 1) / 2
	d.ras.MoveTo(p.x-h, p.y-h)
	d.ras.LineTo(p.x+h, p.y-h)
	d.ras.LineTo(p.x+h, p.y+h)
	d.ras.LineTo(p.x-h, p.y+h)
	d.ras.ClosePath()
}

// segment adds a quad of the given width along a -> b.
func (d *Device) segment(a, b point, width float32) {
	dx, dy := b.x-a.x, b.y-a.y
	l := math32.Hypot(dx, dy)
	if l == 0 {
		d.square(a, width)
		return
	}
	h := math32.Max(width, 1) / 2
	nx, ny := -dy/l*h, dx/l*h
	d.ras.MoveTo(a.x+nx, a.y+ny)
	d.ras.LineTo(b.x+nx, b.y+ny)
	d.ras.LineTo(b.x-nx, b.y-ny)
	d.ras.LineTo(a.x-nx, a.y-ny)
	d.ras.ClosePath()
}
