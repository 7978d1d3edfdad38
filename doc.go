// Package pathedit is an editing and rendering engine for branching
// polylines over GPU buffers.
//
// # Overview
//
// A Path is rooted at one fixed vertex and made of sub-paths, each an ordered
// polyline that starts at a branch point: the root or any vertex already in
// the path. Vertices come from a fixed-capacity VertexPool whose positions
// are written straight through to a single GPU vertex buffer. Every sub-path
// mirrors its vertex ids into its own index buffer and is drawn as a line
// strip with point markers at both ends; the root gets a larger marker.
//
// # Quick Start
//
//	import (
//	    "github.com/gogpu/pathedit"
//	    "github.com/gogpu/pathedit/render"
//	    _ "github.com/gogpu/pathedit/backend/raster"
//	)
//
//	dev, _ := render.NewDevice("raster", render.BackendConfig{Width: 800, Height: 800})
//	r, _ := pathedit.NewRenderer(dev)
//	defer r.Close()
//
//	id, _ := r.AddPath(pathedit.White, pathedit.V3(0, 0, -1))
//	_ = r.StartPath(id)
//	sub, _ := r.AddSubPath()
//	_ = r.StartSubPath(sub)
//	v, _ := r.AddVertex(pathedit.V3(0.5, 0.5, -1))
//	_ = r.StartVertex(v)
//	_, _ = r.AddVertex(pathedit.V3(0.7, 0.3, -1))
//
//	_ = r.Draw(0)
//
// # Selection
//
// Edits go through a cursor of (path, sub-path, vertex). Add operations never
// change the cursor; Start operations select; End operations clear the level
// and everything nested in it. AddSubPath starts the new sub-path at the
// selected vertex, or at the root when no vertex is selected, which is how
// branches are made.
//
// # Resources
//
// Vertex and path ids come from FIFO free-id queues over fixed capacities
// (Config.MaxVertices, Config.MaxPaths). Deleting a path releases its id,
// every vertex it owns and its GPU resources. Sub-path ids only grow.
//
// # Rendering Context
//
// The editor does not create windows, shaders or cameras. It draws through a
// render.Device supplied by the host; see package render and the backends
// under backend/. Line width and point size are changed only around each
// draw step and are back to 1 when Draw returns.
//
// # Concurrency
//
// A Renderer is not safe for concurrent use. Call it from the goroutine that
// owns the rendering context.
package pathedit
