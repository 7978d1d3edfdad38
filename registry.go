package pathedit

import (
	"errors"
	"fmt"
	"log/slog"
	"maps"
	"slices"

	"github.com/gogpu/pathedit/internal/idqueue"
	"github.com/gogpu/pathedit/render"
)

// PathRegistry stores the live paths under ids taken from a fixed-size FIFO
// queue, and mirrors their geometry through the shared VertexPool.
type PathRegistry struct {
	dev     render.Device
	pool    *VertexPool
	paths   map[PathID]*Path
	free    *idqueue.Queue[PathID]
	subOpts subPathOptions
	logger  func() *slog.Logger
	closed  bool
}

func newPathRegistry(dev render.Device, pool *VertexPool, maxPaths int, subOpts subPathOptions) *PathRegistry {
	return &PathRegistry{
		dev:     dev,
		pool:    pool,
		paths:   make(map[PathID]*Path),
		free:    idqueue.NewFull[PathID](maxPaths),
		subOpts: subOpts,
		logger:  subOpts.logger,
	}
}

// Path returns the live path with the given id.
func (r *PathRegistry) Path(id PathID) (*Path, error) {
	if r.closed {
		return nil, ErrClosed
	}
	p, ok := r.paths[id]
	if !ok {
		return nil, fmt.Errorf("%w: path %d", ErrNotFound, id)
	}
	return p, nil
}

// Len returns the number of live paths.
func (r *PathRegistry) Len() int { return len(r.paths) }

// Free returns the number of path ids available.
func (r *PathRegistry) Free() int { return r.free.Len() }

// Cap returns the maximum number of live paths.
func (r *PathRegistry) Cap() int { return r.free.Cap() }

// IDs returns the live path ids in ascending order.
func (r *PathRegistry) IDs() []PathID {
	return slices.Sorted(maps.Keys(r.paths))
}

// addPath allocates a root vertex at rootPos and stores a new path.
// Both ceilings are checked first, so an ErrPoolExhausted failure takes
// nothing from either pool.
func (r *PathRegistry) addPath(color Color, rootPos Vec3) (PathID, error) {
	if r.closed {
		return 0, ErrClosed
	}
	id, ok := r.free.Peek()
	if !ok {
		return 0, fmt.Errorf("%w: all %d paths in use", ErrPoolExhausted, r.Cap())
	}
	if r.pool.Free() == 0 {
		return 0, fmt.Errorf("%w: no vertex left for path root", ErrPoolExhausted)
	}

	root, err := r.pool.Allocate(rootPos)
	if err != nil {
		return 0, err
	}
	p, err := newPath(r.dev, id, color, root, r.pool.Buffer(), r.subOpts)
	if err != nil {
		_ = r.pool.Release(root)
		return 0, err
	}
	r.free.Pop()
	r.paths[id] = p
	r.logger().Debug("pathedit: path added",
		slog.Uint64("id", uint64(id)),
		slog.Uint64("root", uint64(root)))
	return id, nil
}

// deletePath removes a path, destroys its GPU resources and releases every
// vertex it owns along with its id.
func (r *PathRegistry) deletePath(id PathID) error {
	p, err := r.Path(id)
	if err != nil {
		return err
	}
	delete(r.paths, id)
	p.destroy()

	var errs []error
	for _, v := range p.owned {
		if err := r.pool.Release(v); err != nil {
			errs = append(errs, err)
		}
	}
	r.free.Push(id)

	if err := errors.Join(errs...); err != nil {
		r.logger().Warn("pathedit: vertex release failed",
			slog.Uint64("path", uint64(id)),
			slog.String("error", err.Error()))
	}
	r.logger().Debug("pathedit: path deleted",
		slog.Uint64("id", uint64(id)),
		slog.Int("vertices", len(p.owned)))
	return nil
}

func (r *PathRegistry) destroy() {
	for _, id := range r.IDs() {
		r.paths[id].destroy()
	}
	r.closed = true
}
