// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package render defines the contract between the path editor and the
// rendering context of its host application.
//
// # Key Principle
//
// The editor RECEIVES a rendering context, it does NOT create one. Window
// creation, shader programs and the camera transform belong to the host; the
// editor only allocates buffers, uploads data and issues draws through the
// Device interface.
//
// # Core Types
//
//   - Device: buffers, vertex arrays, draws, line width, point size, color
//   - Buffer, VertexArray: GL-style non-zero handles owned by a Device
//   - DeviceHandle: alias of gpucontext.DeviceProvider for GPU backends
//
// # Backends
//
// Backends register themselves by name, following the database/sql pattern:
//
//	import _ "github.com/gogpu/pathedit/backend/raster"
//
//	dev, err := render.NewDevice("raster", render.BackendConfig{Width: 800, Height: 800})
//
// Available implementations:
//
//   - backend/raster: software rasterizer into *image.RGBA
//   - backend/wgpu: gogpu/wgpu HAL device, records into a render pass
//   - recording: captures every call, used by tests and dry runs
package render
