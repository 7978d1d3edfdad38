package pathedit

import "fmt"

// SelectionState is the level of the selection cursor.
type SelectionState int

const (
	// SelectionIdle means no path is selected.
	SelectionIdle SelectionState = iota

	// SelectionPath means a path is selected, but no sub-path.
	SelectionPath

	// SelectionSubPath means a path and one of its sub-paths are selected.
	SelectionSubPath
)

// String returns the state name.
func (s SelectionState) String() string {
	switch s {
	case SelectionIdle:
		return "Idle"
	case SelectionPath:
		return "Path"
	case SelectionSubPath:
		return "SubPath"
	default:
		return fmt.Sprintf("SelectionState(%d)", int(s))
	}
}

// Selection is the cursor used to build paths incrementally.
//
// The cursor nests: a selected vertex implies a selected sub-path, which
// implies a selected path. Ending an outer level clears the inner ones.
// A selected vertex is always owned by the selected path and becomes the
// start of the next sub-path added.
type Selection struct {
	reg  *PathRegistry
	pool *VertexPool

	path       PathID
	subPath    SubPathID
	vertex     VertexID
	hasPath    bool
	hasSubPath bool
	hasVertex  bool
}

// State returns the current cursor level. A selected vertex is reported
// separately by SelectedVertex.
func (s *Selection) State() SelectionState {
	switch {
	case !s.hasPath:
		return SelectionIdle
	case !s.hasSubPath:
		return SelectionPath
	default:
		return SelectionSubPath
	}
}

// SelectedPath returns the selected path id, if any.
func (s *Selection) SelectedPath() (PathID, bool) { return s.path, s.hasPath }

// SelectedSubPath returns the selected sub-path id, if any.
func (s *Selection) SelectedSubPath() (SubPathID, bool) { return s.subPath, s.hasSubPath }

// SelectedVertex returns the selected vertex id, if any.
func (s *Selection) SelectedVertex() (VertexID, bool) { return s.vertex, s.hasVertex }

// activePath returns the selected path or ErrInvalidSelection.
func (s *Selection) activePath() (*Path, error) {
	if s.reg.closed {
		return nil, ErrClosed
	}
	if !s.hasPath {
		return nil, fmt.Errorf("%w: no path selected", ErrInvalidSelection)
	}
	return s.reg.Path(s.path)
}

// StartPath selects an existing path. Selecting a different path clears the
// sub-path and vertex selection.
func (s *Selection) StartPath(id PathID) error {
	if _, err := s.reg.Path(id); err != nil {
		return err
	}
	if !s.hasPath || s.path != id {
		s.clearSubPath()
	}
	s.path, s.hasPath = id, true
	return nil
}

// EndPath clears the whole selection.
func (s *Selection) EndPath() {
	s.clearSubPath()
	s.path, s.hasPath = 0, false
}

// DeletePath deletes the selected path and clears the selection.
func (s *Selection) DeletePath() error {
	if _, err := s.activePath(); err != nil {
		return err
	}
	if err := s.reg.deletePath(s.path); err != nil {
		return err
	}
	s.EndPath()
	return nil
}

// DeletePathByID deletes any live path. If the selection referenced it, the
// selection is cleared.
func (s *Selection) DeletePathByID(id PathID) error {
	if err := s.reg.deletePath(id); err != nil {
		return err
	}
	if s.hasPath && s.path == id {
		s.EndPath()
	}
	return nil
}

// AddSubPath adds a sub-path to the selected path, starting at the selected
// vertex or, when none is selected, at the path root. The selection is not
// changed.
func (s *Selection) AddSubPath() (SubPathID, error) {
	p, err := s.activePath()
	if err != nil {
		return 0, err
	}
	start := p.Root()
	if s.hasVertex {
		start = s.vertex
	}
	return p.addSubPath(start)
}

// StartSubPath selects a sub-path of the selected path.
func (s *Selection) StartSubPath(id SubPathID) error {
	p, err := s.activePath()
	if err != nil {
		return err
	}
	if _, err := p.SubPath(id); err != nil {
		return err
	}
	s.subPath, s.hasSubPath = id, true
	return nil
}

// EndSubPath clears the sub-path and vertex selection.
func (s *Selection) EndSubPath() {
	s.clearSubPath()
}

// AddVertex allocates a vertex at pos and appends it to the selected
// sub-path. The selection is not changed.
func (s *Selection) AddVertex(pos Vec3) (VertexID, error) {
	p, err := s.activePath()
	if err != nil {
		return 0, err
	}
	if !s.hasSubPath {
		return 0, fmt.Errorf("%w: no sub-path selected", ErrInvalidSelection)
	}
	v, err := s.pool.Allocate(pos)
	if err != nil {
		return 0, err
	}
	if err := p.appendVertex(s.subPath, v); err != nil {
		_ = s.pool.Release(v)
		return 0, err
	}
	return v, nil
}

// StartVertex selects a vertex owned by the selected path. It requires a
// selected sub-path.
func (s *Selection) StartVertex(id VertexID) error {
	p, err := s.activePath()
	if err != nil {
		return err
	}
	if !s.hasSubPath {
		return fmt.Errorf("%w: no sub-path selected", ErrInvalidSelection)
	}
	if !p.Owns(id) {
		return fmt.Errorf("%w: vertex %d in path %d", ErrNotFound, id, p.ID())
	}
	s.vertex, s.hasVertex = id, true
	return nil
}

// EndVertex clears the vertex selection.
func (s *Selection) EndVertex() {
	s.vertex, s.hasVertex = 0, false
}

// SubPathStart returns the position of the selected sub-path's first vertex.
func (s *Selection) SubPathStart() (Vec3, error) {
	p, err := s.activePath()
	if err != nil {
		return Vec3{}, err
	}
	if !s.hasSubPath {
		return Vec3{}, fmt.Errorf("%w: no sub-path selected", ErrInvalidSelection)
	}
	sp, err := p.SubPath(s.subPath)
	if err != nil {
		return Vec3{}, err
	}
	return s.pool.Position(sp.Start())
}

func (s *Selection) clearSubPath() {
	s.subPath, s.hasSubPath = 0, false
	s.EndVertex()
}
