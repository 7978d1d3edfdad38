package input

import (
	"log/slog"

	"github.com/gogpu/gpucontext"

	"github.com/gogpu/pathedit"
)

// Editor is the part of the path editor a Sketcher drives.
// *pathedit.Renderer satisfies it.
type Editor interface {
	AddSubPath() (pathedit.SubPathID, error)
	StartSubPath(id pathedit.SubPathID) error
	EndSubPath()
	AddVertex(pos pathedit.Vec3) (pathedit.VertexID, error)
	StartVertex(id pathedit.VertexID) error
	SubPathStart() (pathedit.Vec3, error)
}

var _ Editor = (*pathedit.Renderer)(nil)

// Option configures a Sketcher.
type Option func(*Sketcher)

// WithMinDistSqr sets the squared world distance the pointer must travel
// before a new vertex is placed.
func WithMinDistSqr(d float32) Option {
	return func(s *Sketcher) {
		if d >= 0 {
			s.minDistSqr = d
		}
	}
}

// WithOnError sets the callback receiving editor errors. Errors are logged
// whether or not a callback is set.
func WithOnError(fn func(error)) Option {
	return func(s *Sketcher) {
		s.onError = fn
	}
}

// WithLogger sets the logger. By default the pathedit package logger is used.
func WithLogger(l *slog.Logger) Option {
	return func(s *Sketcher) {
		s.logger = l
	}
}

// Sketcher turns pointer drags into sub-paths of the selected path.
//
// Pressing the primary button adds a sub-path branching from the selected
// vertex (or the path root) and selects it. Dragging appends a vertex each
// time the pointer has moved at least the minimum distance from the last
// placed one, and selects that vertex. Releasing ends the sub-path and
// clears the vertex selection, so the next stroke starts at the path root
// unless the host selects a vertex first.
//
// A Sketcher is not safe for concurrent use; deliver events from the
// goroutine that owns the editor.
type Sketcher struct {
	editor     Editor
	proj       Projector
	minDistSqr float32
	onError    func(error)
	logger     *slog.Logger

	pressed   bool
	pointerID int
	last      pathedit.Vec3
}

// NewSketcher creates a Sketcher driving editor.
func NewSketcher(editor Editor, proj Projector, opts ...Option) *Sketcher {
	s := &Sketcher{
		editor:     editor,
		proj:       proj,
		minDistSqr: pathedit.DefaultMinDistSqr,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Attach registers the sketcher with an event source.
func (s *Sketcher) Attach(src gpucontext.PointerEventSource) {
	src.OnPointer(s.HandlePointer)
}

// SetProjector replaces the projector, typically after a window resize.
func (s *Sketcher) SetProjector(p Projector) { s.proj = p }

// Projector returns the current projector.
func (s *Sketcher) Projector() Projector { return s.proj }

// Pressed reports whether a stroke is in progress.
func (s *Sketcher) Pressed() bool { return s.pressed }

// HandlePointer processes one pointer event.
func (s *Sketcher) HandlePointer(ev gpucontext.PointerEvent) {
	switch ev.Type {
	case gpucontext.PointerDown:
		s.down(ev)
	case gpucontext.PointerMove:
		if s.pressed && ev.PointerID == s.pointerID {
			s.move(ev.X, ev.Y)
		}
	case gpucontext.PointerUp, gpucontext.PointerCancel:
		if s.pressed && ev.PointerID == s.pointerID {
			s.pressed = false
			s.editor.EndSubPath()
		}
	}
}

func (s *Sketcher) down(ev gpucontext.PointerEvent) {
	if s.pressed || !ev.IsPrimary || ev.Button != gpucontext.ButtonLeft {
		return
	}
	id, err := s.editor.AddSubPath()
	if err != nil {
		s.report("add sub-path", err)
		return
	}
	if err := s.editor.StartSubPath(id); err != nil {
		s.report("start sub-path", err)
		return
	}
	start, err := s.editor.SubPathStart()
	if err != nil {
		s.report("sub-path start", err)
		s.editor.EndSubPath()
		return
	}
	s.pressed = true
	s.pointerID = ev.PointerID
	s.last = start
	s.log().Debug("input: stroke started", "subpath", id, "start", start)
	s.move(ev.X, ev.Y)
}

func (s *Sketcher) move(x, y float64) {
	pos := s.proj.ToWorld(x, y)
	if pos.DistanceSq(s.last) < s.minDistSqr {
		return
	}
	id, err := s.editor.AddVertex(pos)
	if err != nil {
		s.report("add vertex", err)
		return
	}
	if err := s.editor.StartVertex(id); err != nil {
		s.report("start vertex", err)
		return
	}
	s.last = pos
}

func (s *Sketcher) report(op string, err error) {
	s.log().Warn("input: "+op+" failed", "err", err)
	if s.onError != nil {
		s.onError(err)
	}
}

func (s *Sketcher) log() *slog.Logger {
	if s.logger != nil {
		return s.logger
	}
	return pathedit.Logger()
}
