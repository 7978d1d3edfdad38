package pathedit

import (
	"fmt"
	"log/slog"

	"github.com/gogpu/pathedit/render"
)

// Renderer owns the vertex pool, the path registry and the selection cursor,
// and draws every path through a render.Device supplied by the host.
//
// The embedded Selection provides the editing operations (StartPath,
// AddSubPath, AddVertex, ...). A Renderer is not safe for concurrent use;
// all calls must happen on the goroutine that owns the device.
type Renderer struct {
	*Selection

	dev    render.Device
	cfg    Config
	pool   *VertexPool
	reg    *PathRegistry
	log    *slog.Logger
	closed bool
}

// Stats reports live object counts.
type Stats struct {
	Paths        int
	SubPaths     int
	Vertices     int
	FreeVertices int
	FreePaths    int
}

// NewRenderer creates a Renderer drawing through dev.
// The position buffer for the whole vertex pool is created immediately.
//
// Example:
//
//	dev, _ := render.NewDevice("raster", render.BackendConfig{Width: 800, Height: 800})
//	r, err := pathedit.NewRenderer(dev, pathedit.WithMaxPaths(10))
func NewRenderer(dev render.Device, opts ...Option) (*Renderer, error) {
	if dev == nil {
		return nil, fmt.Errorf("%w: nil device", ErrInvalidConfig)
	}
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if err := o.config.Validate(); err != nil {
		return nil, err
	}

	r := &Renderer{dev: dev, cfg: o.config, log: o.logger}
	propagateLogger(dev, r.logger())

	pool, err := newVertexPool(dev, r.cfg.MaxVertices, r.logger)
	if err != nil {
		return nil, err
	}
	r.pool = pool
	r.reg = newPathRegistry(dev, pool, r.cfg.MaxPaths, subPathOptions{
		initialCapacity: r.cfg.InitialIndexCapacity,
		deferWrites:     r.cfg.DeferIndexWrites,
		logger:          r.logger,
	})
	r.Selection = &Selection{reg: r.reg, pool: pool}

	r.logger().Info("pathedit: renderer created",
		slog.Int("max_vertices", r.cfg.MaxVertices),
		slog.Int("max_paths", r.cfg.MaxPaths),
		slog.Bool("defer_index_writes", r.cfg.DeferIndexWrites))
	return r, nil
}

// logger returns the per-renderer logger or the package logger.
func (r *Renderer) logger() *slog.Logger {
	if r.log != nil {
		return r.log
	}
	return Logger()
}

// Config returns the configuration the renderer was created with.
func (r *Renderer) Config() Config { return r.cfg }

// Device returns the device the renderer draws through.
func (r *Renderer) Device() render.Device { return r.dev }

// Vertices returns the vertex pool.
func (r *Renderer) Vertices() *VertexPool { return r.pool }

// Paths returns the path registry.
func (r *Renderer) Paths() *PathRegistry { return r.reg }

// AddPath creates a path of the given color with its root vertex at root.
// The selection is not changed.
func (r *Renderer) AddPath(color Color, root Vec3) (PathID, error) {
	return r.reg.addPath(color, root)
}

// VertexPosition returns the position of a live vertex.
func (r *Renderer) VertexPosition(id VertexID) (Vec3, error) {
	if r.closed {
		return Vec3{}, ErrClosed
	}
	return r.pool.Position(id)
}

// Stats returns live object counts.
func (r *Renderer) Stats() Stats {
	s := Stats{
		Paths:        r.reg.Len(),
		Vertices:     r.pool.Len(),
		FreeVertices: r.pool.Free(),
		FreePaths:    r.reg.Free(),
	}
	for _, p := range r.reg.paths {
		s.SubPaths += len(p.subPaths)
	}
	return s
}

// Close destroys every GPU resource owned by the renderer. Further
// operations return ErrClosed. Close is idempotent.
func (r *Renderer) Close() error {
	if r.closed {
		return nil
	}
	r.closed = true
	r.reg.destroy()
	r.pool.destroy()
	r.logger().Info("pathedit: renderer closed")
	return nil
}
