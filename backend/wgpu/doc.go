// Package wgpu provides a GPU rendering backend for the path editor using
// gogpu/wgpu.
//
// The backend implements render.Device over a HAL device and queue that
// belong to the host application. It never creates a surface, a command
// encoder or a render pass: the host begins a pass, hands it to
// Device.BeginFrame, lets the editor draw, then ends and submits the pass.
//
// # Usage
//
//	dev, err := wgpu.NewFromProvider(provider)
//	if err != nil {
//	    return err
//	}
//	defer dev.Close()
//
//	r, err := pathedit.NewRenderer(dev)
//	...
//	pass := encoder.BeginRenderPass(desc)
//	dev.SetViewProjection(camera)
//	if err := dev.BeginFrame(pass, width, height); err != nil {
//	    return err
//	}
//	err = r.Draw(colorLocation)
//	dev.EndFrame()
//	pass.End()
//
// # Wide Lines and Points
//
// WebGPU rasterizes lines and points one pixel wide. The path shader pulls
// positions and indices from storage buffers and expands each line segment
// and each point into a quad, so SetLineWidth and SetPointSize are honored
// in pixels. Each draw writes its own slot of a dynamic-offset uniform ring
// holding the camera, color, viewport and primitive size.
//
// # Registry
//
// Importing the package registers the "wgpu" backend. Its factory reads
// render.BackendConfig.Device, which must implement HalDevice() any and
// HalQueue() any.
package wgpu
