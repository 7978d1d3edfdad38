package pathedit

import (
	"fmt"

	"github.com/gogpu/pathedit/render"
)

// neutralRasterSize is the line width and point size restored after every
// scoped draw.
const neutralRasterSize = 1

// Draw draws every path in ascending id order. For each path it binds the
// path color, uploads dirty sub-paths, then draws the sub-path line strips,
// the sub-path endpoints and the root marker.
//
// Line width and point size are changed only for the duration of each step
// and are back to 1 when Draw returns, including on error. The first device
// error aborts the frame.
func (r *Renderer) Draw(loc render.UniformLocation) error {
	if r.closed {
		return ErrClosed
	}
	for _, id := range r.reg.IDs() {
		if err := r.drawPath(r.reg.paths[id], loc); err != nil {
			return fmt.Errorf("pathedit: draw path %d: %w", id, err)
		}
	}
	return nil
}

func (r *Renderer) drawPath(p *Path, loc render.UniformLocation) error {
	r.dev.SetColor(loc, p.color.Array())

	subPaths := make([]*SubPath, 0, len(p.subPaths))
	for _, id := range p.SubPathIDs() {
		subPaths = append(subPaths, p.subPaths[id])
	}

	for _, sp := range subPaths {
		if !sp.Dirty() {
			continue
		}
		if err := sp.upload(); err != nil {
			return err
		}
	}

	err := r.withLineWidth(r.cfg.LineWidth, func() error {
		for _, sp := range subPaths {
			if err := sp.drawLineStrip(); err != nil {
				return fmt.Errorf("line strip of sub-path %d: %w", sp.ID(), err)
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	err = r.withPointSize(r.cfg.EndVertexSize, func() error {
		for _, sp := range subPaths {
			if err := sp.drawEndpoints(); err != nil {
				return fmt.Errorf("endpoints of sub-path %d: %w", sp.ID(), err)
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	return r.withPointSize(r.cfg.RootVertexSize, func() error {
		if err := p.drawRoot(); err != nil {
			return fmt.Errorf("root marker: %w", err)
		}
		return nil
	})
}

// withLineWidth runs fn with the line width set to w.
func (r *Renderer) withLineWidth(w float32, fn func() error) error {
	r.dev.SetLineWidth(w)
	defer r.dev.SetLineWidth(neutralRasterSize)
	return fn()
}

// withPointSize runs fn with the point size set to size.
func (r *Renderer) withPointSize(size float32, fn func() error) error {
	r.dev.SetPointSize(size)
	defer r.dev.SetPointSize(neutralRasterSize)
	return fn()
}
