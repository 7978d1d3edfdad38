// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package render

import (
	"fmt"
	"sort"
	"sync"
)

// BackendConfig carries the parameters a backend factory may need.
// Backends ignore fields that do not apply to them.
type BackendConfig struct {
	// Width and Height are the framebuffer size in pixels.
	Width, Height int

	// Device supplies the host's GPU device and queue to GPU backends.
	// CPU backends ignore it.
	Device DeviceHandle
}

// BackendFactory creates a new Device. Factories are registered via
// Register() and called by NewDevice().
type BackendFactory func(cfg BackendConfig) (Device, error)

// Registry state - protected by mutex for thread-safe access.
var (
	registryMu sync.RWMutex
	backends   = make(map[string]BackendFactory)
)

// Register registers a backend factory with the given name.
// This function is typically called from init() in backend packages,
// following the database/sql driver pattern:
//
//	func init() {
//	    render.Register("raster", func(cfg render.BackendConfig) (render.Device, error) {
//	        return New(cfg.Width, cfg.Height), nil
//	    })
//	}
//
// Register panics if factory is nil or if a backend with the same name is
// already registered.
func Register(name string, factory BackendFactory) {
	registryMu.Lock()
	defer registryMu.Unlock()

	if factory == nil {
		panic("render: Register factory is nil")
	}
	if _, dup := backends[name]; dup {
		panic("render: Register called twice for " + name)
	}
	backends[name] = factory
}

// Unregister removes a backend from the registry.
// This is primarily useful for testing. Unknown names are a no-op.
func Unregister(name string) {
	registryMu.Lock()
	defer registryMu.Unlock()
	delete(backends, name)
}

// NewDevice creates a new Device from the backend registered under name.
//
//	import _ "github.com/gogpu/pathedit/backend/raster"
//
//	dev, err := render.NewDevice("raster", render.BackendConfig{Width: 800, Height: 800})
//
// The error message includes a hint about forgotten imports.
func NewDevice(name string, cfg BackendConfig) (Device, error) {
	registryMu.RLock()
	factory, ok := backends[name]
	registryMu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("render: unknown backend %q (forgotten import?)", name)
	}
	dev, err := factory(cfg)
	if err != nil {
		return nil, fmt.Errorf("render: backend %q: %w", name, err)
	}
	return dev, nil
}

// Backends returns the registered backend names, sorted alphabetically.
func Backends() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()

	names := make([]string, 0, len(backends))
	for name := range backends {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// IsRegistered checks if a backend with the given name is registered.
func IsRegistered(name string) bool {
	registryMu.RLock()
	defer registryMu.RUnlock()
	_, ok := backends[name]
	return ok
}
