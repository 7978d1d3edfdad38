// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package render

import (
	"errors"
	"strings"
	"testing"
)

// resetRegistry clears all registered backends for test isolation.
func resetRegistry() {
	registryMu.Lock()
	defer registryMu.Unlock()
	backends = make(map[string]BackendFactory)
}

func TestRegisterAndNewDevice(t *testing.T) {
	resetRegistry()
	defer resetRegistry()

	var got BackendConfig
	Register("test", func(cfg BackendConfig) (Device, error) {
		got = cfg
		return nil, nil
	})

	if !IsRegistered("test") {
		t.Fatal("IsRegistered(test) = false, want true")
	}
	if _, err := NewDevice("test", BackendConfig{Width: 64, Height: 32}); err != nil {
		t.Fatalf("NewDevice() error = %v", err)
	}
	if got.Width != 64 || got.Height != 32 {
		t.Errorf("factory got %+v, want {64 32}", got)
	}
}

func TestNewDeviceUnknown(t *testing.T) {
	resetRegistry()
	defer resetRegistry()

	_, err := NewDevice("missing", BackendConfig{})
	if err == nil {
		t.Fatal("NewDevice(missing) error = nil, want error")
	}
	if !strings.Contains(err.Error(), "forgotten import") {
		t.Errorf("error %q should mention forgotten import", err)
	}
}

func TestNewDeviceFactoryError(t *testing.T) {
	resetRegistry()
	defer resetRegistry()

	boom := errors.New("boom")
	Register("broken", func(BackendConfig) (Device, error) { return nil, boom })

	_, err := NewDevice("broken", BackendConfig{})
	if !errors.Is(err, boom) {
		t.Errorf("NewDevice(broken) error = %v, want wrapping %v", err, boom)
	}
}

func TestRegisterPanics(t *testing.T) {
	resetRegistry()
	defer resetRegistry()

	tests := []struct {
		name string
		fn   func()
	}{
		{"nil factory", func() { Register("nil", nil) }},
		{"duplicate", func() {
			f := func(BackendConfig) (Device, error) { return nil, nil }
			Register("dup", f)
			Register("dup", f)
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			defer func() {
				if recover() == nil {
					t.Error("expected panic")
				}
			}()
			tt.fn()
		})
	}
}

func TestBackendsSorted(t *testing.T) {
	resetRegistry()
	defer resetRegistry()

	f := func(BackendConfig) (Device, error) { return nil, nil }
	Register("zeta", f)
	Register("alpha", f)
	Register("mid", f)

	got := Backends()
	want := []string{"alpha", "mid", "zeta"}
	if len(got) != len(want) {
		t.Fatalf("Backends() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Backends()[%d] = %q, want %q", i, got[i], want[i])
		}
	}

	Unregister("mid")
	if IsRegistered("mid") {
		t.Error("mid still registered after Unregister")
	}
}
