// Package raster provides a software render.Device that draws into an
// *image.RGBA.
//
// Line strips become quads of the current line width and points become
// squares of the current point size; both are filled with
// golang.org/x/image/vector in the current color. Positions are transformed
// by a view-projection matrix (identity by default, so positions are
// normalized device coordinates) and mapped to pixels with y pointing down.
//
// The raster device is the reference backend: it needs no GPU and produces
// pixels that tests can inspect.
//
// # Example
//
//	// Import to register the backend
//	import _ "github.com/gogpu/pathedit/backend/raster"
//
//	// Create via registry
//	dev, _ := render.NewDevice("raster", render.BackendConfig{Width: 512, Height: 512})
//
//	// Or create directly
//	dev := raster.New(512, 512)
//	dev.SetViewProjection(pathedit.PerspectiveFov(math32.Pi/3, 512, 512, 0.1, 100))
//
//	// Draw, then get output
//	_ = r.Draw(0)
//	_ = dev.SavePNG("paths.png")
package raster
