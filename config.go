package pathedit

import (
	"bytes"
	"fmt"
	"os"

	"github.com/chewxy/math32"
	"github.com/pelletier/go-toml/v2"
)

// Default limits and rendering parameters.
const (
	DefaultMaxVertices          = 10000
	DefaultMaxPaths             = 100
	DefaultMinDistSqr           = 0.01
	DefaultRootVertexSize       = 5
	DefaultEndVertexSize        = 3
	DefaultLineWidth            = 1
	DefaultInitialIndexCapacity = 5
)

// Config holds the limits and drawing parameters of a Renderer.
// It can be loaded from a TOML file:
//
//	max_vertices = 10000
//	max_paths = 100
//	min_dist_sqr = 0.01
//	root_vertex_size = 5.0
//	end_vertex_size = 3.0
//	line_width = 1.0
//	initial_index_capacity = 5
//	defer_index_writes = false
type Config struct {
	// MaxVertices is the fixed capacity of the vertex pool.
	MaxVertices int `toml:"max_vertices"`

	// MaxPaths is the maximum number of live paths.
	MaxPaths int `toml:"max_paths"`

	// MinDistSqr is the squared world distance a pointer must travel before
	// the input controller places the next vertex. The editor itself never
	// applies it.
	MinDistSqr float32 `toml:"min_dist_sqr"`

	// RootVertexSize is the point size of the path root marker.
	RootVertexSize float32 `toml:"root_vertex_size"`

	// EndVertexSize is the point size of sub-path endpoint markers.
	EndVertexSize float32 `toml:"end_vertex_size"`

	// LineWidth is the width of sub-path line strips.
	LineWidth float32 `toml:"line_width"`

	// InitialIndexCapacity is the index buffer capacity of a new sub-path.
	InitialIndexCapacity int `toml:"initial_index_capacity"`

	// DeferIndexWrites batches index uploads into the next Draw instead of
	// writing each appended vertex immediately.
	DeferIndexWrites bool `toml:"defer_index_writes"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		MaxVertices:          DefaultMaxVertices,
		MaxPaths:             DefaultMaxPaths,
		MinDistSqr:           DefaultMinDistSqr,
		RootVertexSize:       DefaultRootVertexSize,
		EndVertexSize:        DefaultEndVertexSize,
		LineWidth:            DefaultLineWidth,
		InitialIndexCapacity: DefaultInitialIndexCapacity,
	}
}

// Validate reports the first invalid field, wrapped in ErrInvalidConfig.
func (c Config) Validate() error {
	switch {
	case c.MaxVertices <= 0:
		return fmt.Errorf("%w: max_vertices must be positive, got %d", ErrInvalidConfig, c.MaxVertices)
	case uint64(c.MaxVertices) > 1<<32-1:
		return fmt.Errorf("%w: max_vertices %d exceeds uint32 range", ErrInvalidConfig, c.MaxVertices)
	case c.MaxPaths <= 0:
		return fmt.Errorf("%w: max_paths must be positive, got %d", ErrInvalidConfig, c.MaxPaths)
	case uint64(c.MaxPaths) > 1<<32-1:
		return fmt.Errorf("%w: max_paths %d exceeds uint32 range", ErrInvalidConfig, c.MaxPaths)
	case c.InitialIndexCapacity <= 0:
		return fmt.Errorf("%w: initial_index_capacity must be positive, got %d", ErrInvalidConfig, c.InitialIndexCapacity)
	case !positive(c.RootVertexSize):
		return fmt.Errorf("%w: root_vertex_size must be positive, got %v", ErrInvalidConfig, c.RootVertexSize)
	case !positive(c.EndVertexSize):
		return fmt.Errorf("%w: end_vertex_size must be positive, got %v", ErrInvalidConfig, c.EndVertexSize)
	case !positive(c.LineWidth):
		return fmt.Errorf("%w: line_width must be positive, got %v", ErrInvalidConfig, c.LineWidth)
	case c.MinDistSqr < 0 || math32.IsNaN(c.MinDistSqr) || math32.IsInf(c.MinDistSqr, 0):
		return fmt.Errorf("%w: min_dist_sqr must be finite and non-negative, got %v", ErrInvalidConfig, c.MinDistSqr)
	}
	return nil
}

func positive(v float32) bool {
	return v > 0 && !math32.IsInf(v, 1)
}

// ParseConfig decodes TOML data on top of DefaultConfig, so omitted keys keep
// their defaults. Unknown keys are rejected. The result is validated.
func ParseConfig(data []byte) (Config, error) {
	cfg := DefaultConfig()
	dec := toml.NewDecoder(bytes.NewReader(data)).DisallowUnknownFields()
	if err := dec.Decode(&cfg); err != nil {
		return Config{}, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// LoadConfig reads and parses a TOML config file.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path) //nolint:gosec // path is chosen by the caller
	if err != nil {
		return Config{}, fmt.Errorf("pathedit: load config: %w", err)
	}
	cfg, err := ParseConfig(data)
	if err != nil {
		return Config{}, fmt.Errorf("pathedit: load config %s: %w", path, err)
	}
	return cfg, nil
}

// EncodeTOML encodes the config as TOML, in the format ParseConfig reads.
func (c Config) EncodeTOML() ([]byte, error) {
	return toml.Marshal(c)
}
