package pathedit

import (
	"fmt"
	"maps"
	"slices"

	"github.com/gogpu/gputypes"

	"github.com/gogpu/pathedit/render"
)

// PathID identifies a path in the PathRegistry.
type PathID uint32

// Path is a branching polyline: a fixed root vertex and any number of
// sub-paths, each starting at the root or at a vertex of another sub-path.
//
// A Path owns its root and every vertex appended to its sub-paths. Deleting
// the path releases all of them back to the VertexPool.
type Path struct {
	id       PathID
	root     VertexID
	color    Color
	subPaths map[SubPathID]*SubPath
	nextSub  SubPathID

	// owned lists the vertices in allocation order; ownedSet indexes it.
	owned    []VertexID
	ownedSet map[VertexID]struct{}

	dev       render.Device
	positions render.Buffer
	rootVA    render.VertexArray
	subOpts   subPathOptions
}

func newPath(dev render.Device, id PathID, color Color, root VertexID, positions render.Buffer, subOpts subPathOptions) (*Path, error) {
	va, err := dev.CreateVertexArray(&render.VertexArrayDescriptor{
		Label:     fmt.Sprintf("pathedit_path_%d_root", id),
		Positions: positions,
		Stride:    vertexStride,
	})
	if err != nil {
		return nil, fmt.Errorf("pathedit: create root vertex array: %w", err)
	}
	return &Path{
		id:        id,
		root:      root,
		color:     color,
		subPaths:  make(map[SubPathID]*SubPath),
		owned:     []VertexID{root},
		ownedSet:  map[VertexID]struct{}{root: {}},
		dev:       dev,
		positions: positions,
		rootVA:    va,
		subOpts:   subOpts,
	}, nil
}

// ID returns the path id.
func (p *Path) ID() PathID { return p.id }

// Root returns the root vertex.
func (p *Path) Root() VertexID { return p.root }

// Color returns the color the path is drawn with.
func (p *Path) Color() Color { return p.color }

// SubPath returns the sub-path with the given id.
func (p *Path) SubPath(id SubPathID) (*SubPath, error) {
	sp, ok := p.subPaths[id]
	if !ok {
		return nil, fmt.Errorf("%w: sub-path %d in path %d", ErrNotFound, id, p.id)
	}
	return sp, nil
}

// SubPathIDs returns the sub-path ids in ascending order.
func (p *Path) SubPathIDs() []SubPathID {
	return slices.Sorted(maps.Keys(p.subPaths))
}

// Owns reports whether v is the root or a vertex appended to one of the
// path's sub-paths.
func (p *Path) Owns(v VertexID) bool {
	_, ok := p.ownedSet[v]
	return ok
}

// Vertices returns the owned vertices in allocation order, root first.
func (p *Path) Vertices() []VertexID { return slices.Clone(p.owned) }

// addSubPath starts a new sub-path at start, which must be owned by p.
// Sub-path ids increase monotonically and are never reused.
func (p *Path) addSubPath(start VertexID) (SubPathID, error) {
	if !p.Owns(start) {
		return 0, fmt.Errorf("%w: vertex %d in path %d", ErrNotFound, start, p.id)
	}
	id := p.nextSub
	sp, err := newSubPath(p.dev, id, start, p.positions, p.subOpts)
	if err != nil {
		return 0, err
	}
	p.subPaths[id] = sp
	p.nextSub++
	return id, nil
}

// appendVertex appends v to sub-path sub and takes ownership of v.
func (p *Path) appendVertex(sub SubPathID, v VertexID) error {
	sp, err := p.SubPath(sub)
	if err != nil {
		return err
	}
	if err := sp.appendVertex(v); err != nil {
		return err
	}
	p.owned = append(p.owned, v)
	p.ownedSet[v] = struct{}{}
	return nil
}

// drawRoot draws the root vertex as a single point.
func (p *Path) drawRoot() error {
	return p.dev.Draw(p.rootVA, gputypes.PrimitiveTopologyPointList, uint32(p.root), 1)
}

// destroy releases the GPU resources of the path and its sub-paths.
// Owned vertices are released by the registry.
func (p *Path) destroy() {
	for _, sp := range p.subPaths {
		sp.destroy()
	}
	if p.rootVA != 0 {
		p.dev.DestroyVertexArray(p.rootVA)
		p.rootVA = 0
	}
}
