package input

import (
	"github.com/chewxy/math32"

	"github.com/gogpu/pathedit"
)

// Defaults of NewProjector.
const (
	DefaultFovY   = 60 * math32.Pi / 180
	DefaultPlaneZ = -1
)

// Projector maps window coordinates onto the drawing plane z = Z of a
// perspective camera looking down -z from the origin.
//
// Window coordinates have their origin at the top-left corner with y
// growing downward; world coordinates have y growing upward.
type Projector struct {
	// Width and Height are the window size in logical pixels.
	Width, Height float32

	// FovY is the vertical field of view in radians.
	FovY float32

	// Z is the depth of the drawing plane. It must be negative to lie in
	// front of the camera.
	Z float32
}

// NewProjector returns a projector with a 60 degree field of view and the
// drawing plane at z = -1.
func NewProjector(width, height int) Projector {
	return Projector{
		Width:  float32(width),
		Height: float32(height),
		FovY:   DefaultFovY,
		Z:      DefaultPlaneZ,
	}
}

// Scale returns the world size of one pixel on the drawing plane.
func (p Projector) Scale() float32 {
	if p.Height <= 0 {
		return 0
	}
	return 2 * math32.Tan(p.FovY/2) / p.Height * math32.Abs(p.Z)
}

// ToWorld converts a window position to a point on the drawing plane.
func (p Projector) ToWorld(x, y float64) pathedit.Vec3 {
	s := p.Scale()
	wx := (float32(x) - p.Width/2) * s
	wy := (p.Height - float32(y) - p.Height/2) * s
	return pathedit.V3(wx, wy, p.Z)
}

// ViewProjection returns the camera matrix matching ToWorld.
func (p Projector) ViewProjection(near, far float32) pathedit.Mat4 {
	return pathedit.PerspectiveFov(p.FovY, p.Width, p.Height, near, far)
}
