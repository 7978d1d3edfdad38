// Package recording provides a render.Device that records every call as a
// typed command instead of drawing.
//
// The recording device keeps the contents of every buffer it creates, so the
// exact bytes the editor uploaded can be inspected, and it snapshots the
// rasterization state (color, line width, point size) and resolved indices
// of every draw. It backs the editor's tests and dry runs.
//
// # Basic Usage
//
//	dev := recording.NewDevice()
//	r, _ := pathedit.NewRenderer(dev)
//	// ... edit paths ...
//	_ = r.Draw(0)
//
//	for _, cmd := range dev.Commands() {
//	    fmt.Println(cmd.Type())
//	}
//
// # Playback
//
// A recording can be replayed into any other device. Handles are remapped,
// so the target device may hand out different buffer names:
//
//	img := raster.New(800, 800)
//	err := recording.Playback(dev.Commands(), img)
//
// # Fault Injection
//
// FailNext makes the next command of a given type fail with an error, which
// exercises the error paths of code built on render.Device:
//
//	dev.FailNext(recording.CmdDrawIndexed, errors.New("device lost"))
//
// The device registers itself with the render backend registry as
// "recording".
package recording
