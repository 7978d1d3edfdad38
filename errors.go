package pathedit

import "errors"

// Sentinel errors returned by the editor. Callers match them with errors.Is;
// returned errors usually wrap one of these with the offending id.
var (
	// ErrPoolExhausted is returned when no vertex or path id is free.
	ErrPoolExhausted = errors.New("pathedit: pool exhausted")

	// ErrInvalidSelection is returned when an operation requires a selection
	// level (path or sub-path) that is not active.
	ErrInvalidSelection = errors.New("pathedit: invalid selection")

	// ErrNotFound is returned for ids that do not name a live object.
	ErrNotFound = errors.New("pathedit: not found")

	// ErrInvalidConfig is returned by Config.Validate and NewRenderer.
	ErrInvalidConfig = errors.New("pathedit: invalid config")

	// ErrClosed is returned by operations on a closed Renderer.
	ErrClosed = errors.New("pathedit: renderer closed")
)
