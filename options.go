package pathedit

import "log/slog"

// Option configures a Renderer during creation.
//
// Example:
//
//	r, err := pathedit.NewRenderer(dev,
//	    pathedit.WithMaxVertices(50000),
//	    pathedit.WithMarkerSizes(6, 4),
//	)
type Option func(*options)

// options holds optional configuration for Renderer creation.
type options struct {
	config Config
	logger *slog.Logger
}

// defaultOptions returns the default renderer options.
func defaultOptions() options {
	return options{
		config: DefaultConfig(),
		logger: nil, // falls back to the package logger
	}
}

// WithConfig replaces the whole configuration. Options applied after it
// override individual fields.
func WithConfig(cfg Config) Option {
	return func(o *options) {
		o.config = cfg
	}
}

// WithMaxVertices sets the vertex pool capacity.
func WithMaxVertices(n int) Option {
	return func(o *options) {
		o.config.MaxVertices = n
	}
}

// WithMaxPaths sets the maximum number of live paths.
func WithMaxPaths(n int) Option {
	return func(o *options) {
		o.config.MaxPaths = n
	}
}

// WithMarkerSizes sets the point sizes of root and endpoint markers.
func WithMarkerSizes(root, end float32) Option {
	return func(o *options) {
		o.config.RootVertexSize = root
		o.config.EndVertexSize = end
	}
}

// WithLineWidth sets the width of sub-path line strips.
func WithLineWidth(w float32) Option {
	return func(o *options) {
		o.config.LineWidth = w
	}
}

// WithDeferredIndexWrites makes appended vertices reach the index buffer on
// the next Draw instead of immediately.
func WithDeferredIndexWrites(enabled bool) Option {
	return func(o *options) {
		o.config.DeferIndexWrites = enabled
	}
}

// WithLogger sets a logger for this Renderer only. Without it the Renderer
// uses the package logger (see SetLogger).
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		o.logger = l
	}
}
