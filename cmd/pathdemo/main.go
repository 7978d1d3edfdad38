// Command pathdemo builds a few branching paths headlessly and renders them
// to a PNG file.
//
// The first path is built through the editing API; the second one is
// sketched by replaying a pointer drag through input.Sketcher.
//
//	pathdemo -output paths.png -width 800 -height 600
//	pathdemo -config pathdemo.toml -backend recording -v
//
// With -backend recording the frame is captured as commands, then replayed
// into the raster device for the PNG.
package main

import (
	"errors"
	"flag"
	"fmt"
	"image/color"
	"io"
	"log/slog"
	"math"
	"os"

	"github.com/gogpu/gpucontext"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/gogpu/pathedit"
	"github.com/gogpu/pathedit/backend/raster"
	"github.com/gogpu/pathedit/input"
	"github.com/gogpu/pathedit/recording"
	"github.com/gogpu/pathedit/render"
)

func main() {
	var (
		configPath = flag.String("config", "", "TOML config file (optional)")
		output     = flag.String("output", "pathdemo.png", "output file")
		width      = flag.Int("width", 800, "image width")
		height     = flag.Int("height", 800, "image height")
		backend    = flag.String("backend", "raster", "render backend: raster or recording")
		dumpConfig = flag.Bool("dump-config", false, "print the effective config and exit")
		verbose    = flag.Bool("v", false, "debug logging")
	)
	flag.Parse()

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	pathedit.SetLogger(logger)

	cfg := pathedit.DefaultConfig()
	if *configPath != "" {
		var err error
		cfg, err = pathedit.LoadConfig(*configPath)
		if err != nil {
			logger.Error("load config", "err", err)
			os.Exit(1)
		}
	}
	if *dumpConfig {
		data, err := cfg.EncodeTOML()
		if err != nil {
			logger.Error("encode config", "err", err)
			os.Exit(1)
		}
		if _, err := os.Stdout.Write(data); err != nil {
			logger.Error("write config", "err", err)
			os.Exit(1)
		}
		return
	}

	stats, err := run(cfg, *backend, *output, *width, *height, logger)
	if err != nil {
		logger.Error("pathdemo failed", "err", err)
		os.Exit(1)
	}
	printSummary(os.Stdout, *output, cfg, stats)
}

// printSummary writes a one-line report with grouped digits.
func printSummary(w io.Writer, output string, cfg pathedit.Config, s pathedit.Stats) {
	p := message.NewPrinter(language.English)
	p.Fprintf(w, "%s: %d paths, %d sub-paths, %d of %d vertices used\n",
		output, s.Paths, s.SubPaths, s.Vertices, cfg.MaxVertices)
}

func run(cfg pathedit.Config, backend, output string, width, height int, logger *slog.Logger) (pathedit.Stats, error) {
	proj := input.NewProjector(width, height)
	viewProj := proj.ViewProjection(0.1, 100)

	canvas := raster.New(width, height)
	canvas.SetViewProjection(viewProj)
	canvas.Clear(color.Black)

	var (
		dev render.Device = canvas
		rec *recording.Device
	)
	if backend != "raster" {
		d, err := render.NewDevice(backend, render.BackendConfig{Width: width, Height: height})
		if err != nil {
			return pathedit.Stats{}, err
		}
		var ok bool
		if rec, ok = d.(*recording.Device); !ok {
			return pathedit.Stats{}, fmt.Errorf("backend %q cannot be used headlessly", backend)
		}
		dev = rec
	}

	r, err := pathedit.NewRenderer(dev, pathedit.WithConfig(cfg), pathedit.WithLogger(logger))
	if err != nil {
		return pathedit.Stats{}, err
	}
	defer r.Close()

	if err := buildBranch(r); err != nil {
		return pathedit.Stats{}, fmt.Errorf("build path: %w", err)
	}
	if err := sketch(r, proj, cfg.MinDistSqr, logger); err != nil {
		return pathedit.Stats{}, fmt.Errorf("sketch path: %w", err)
	}

	if err := r.Draw(0); err != nil {
		return pathedit.Stats{}, err
	}
	s := r.Stats()
	logger.Info("frame drawn", "paths", s.Paths, "subpaths", s.SubPaths, "vertices", s.Vertices)

	if rec != nil {
		logger.Info("frame recorded", "commands", len(rec.Commands()), "draws",
			rec.Count(recording.CmdDraw)+rec.Count(recording.CmdDrawIndexed))
		if err := recording.Playback(rec.Commands(), canvas); err != nil {
			return pathedit.Stats{}, err
		}
	}

	if err := canvas.SavePNG(output); err != nil {
		return pathedit.Stats{}, fmt.Errorf("save %s: %w", output, err)
	}
	logger.Info("demo saved", "file", output, "width", width, "height", height)
	return s, nil
}

// buildBranch creates a white path at the center of the drawing plane with
// one sub-path of two vertices, then branches a second sub-path off its
// first vertex.
func buildBranch(r *pathedit.Renderer) error {
	id, err := r.AddPath(pathedit.White, pathedit.V3(0, 0, input.DefaultPlaneZ))
	if err != nil {
		return err
	}
	if err := r.StartPath(id); err != nil {
		return err
	}
	defer r.EndPath()

	sub, err := r.AddSubPath()
	if err != nil {
		return err
	}
	if err := r.StartSubPath(sub); err != nil {
		return err
	}
	var branch pathedit.VertexID
	for i, p := range []pathedit.Vec3{
		pathedit.V3(0.5, 0.5, input.DefaultPlaneZ),
		pathedit.V3(0.7, 0.3, input.DefaultPlaneZ),
	} {
		v, err := r.AddVertex(p)
		if err != nil {
			return err
		}
		if i == 0 {
			branch = v
		}
	}

	if err := r.StartVertex(branch); err != nil {
		return err
	}
	sub, err = r.AddSubPath()
	if err != nil {
		return err
	}
	if err := r.StartSubPath(sub); err != nil {
		return err
	}
	if _, err := r.AddVertex(pathedit.V3(0.3, 0.6, input.DefaultPlaneZ)); err != nil {
		return err
	}
	r.EndSubPath()
	return nil
}

// sketch adds a green path and draws two strokes into it by replaying
// pointer events.
func sketch(r *pathedit.Renderer, proj input.Projector, minDistSqr float32, logger *slog.Logger) error {
	root := proj.ToWorld(float64(proj.Width)*0.25, float64(proj.Height)*0.75)
	id, err := r.AddPath(pathedit.Green, root)
	if err != nil {
		return err
	}
	if err := r.StartPath(id); err != nil {
		return err
	}
	defer r.EndPath()

	var errs []error
	sk := input.NewSketcher(r, proj,
		input.WithMinDistSqr(minDistSqr),
		input.WithLogger(logger),
		input.WithOnError(func(err error) { errs = append(errs, err) }),
	)

	w, h := float64(proj.Width), float64(proj.Height)
	// A sine wave to the right, then a stroke rising from the root.
	strokes := [][][2]float64{
		wave(w*0.25, h*0.75, w*0.5, h*0.08, 64),
		line(w*0.25, h*0.75, w*0.2, h*0.45, 16),
	}
	for _, stroke := range strokes {
		for i, p := range stroke {
			typ := gpucontext.PointerMove
			switch i {
			case 0:
				typ = gpucontext.PointerDown
			case len(stroke) - 1:
				typ = gpucontext.PointerUp
			}
			sk.HandlePointer(pointerEvent(typ, p[0], p[1]))
		}
	}
	return errors.Join(errs...)
}

func pointerEvent(typ gpucontext.PointerEventType, x, y float64) gpucontext.PointerEvent {
	button := gpucontext.ButtonNone
	if typ != gpucontext.PointerMove {
		button = gpucontext.ButtonLeft
	}
	return gpucontext.PointerEvent{
		Type:        typ,
		PointerID:   1,
		X:           x,
		Y:           y,
		PointerType: gpucontext.PointerTypeMouse,
		IsPrimary:   true,
		Button:      button,
	}
}

func wave(x0, y0, length, amplitude float64, steps int) [][2]float64 {
	pts := make([][2]float64, 0, steps+1)
	for i := 0; i <= steps; i++ {
		t := float64(i) / float64(steps)
		pts = append(pts, [2]float64{x0 + t*length, y0 - amplitude*math.Sin(t*2*math.Pi)})
	}
	return pts
}

func line(x0, y0, x1, y1 float64, steps int) [][2]float64 {
	pts := make([][2]float64, 0, steps+1)
	for i := 0; i <= steps; i++ {
		t := float64(i) / float64(steps)
		pts = append(pts, [2]float64{x0 + t*(x1-x0), y0 + t*(y1-y0)})
	}
	return pts
}
