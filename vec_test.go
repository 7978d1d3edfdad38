package pathedit

import (
	"image/color"
	"testing"
)

func TestVec3Arithmetic(t *testing.T) {
	a := V3(1, 2, 3)
	b := V3(4, -1, 0.5)

	if got := a.Add(b); got != V3(5, 1, 3.5) {
		t.Errorf("Add() = %v, want (5, 1, 3.5)", got)
	}
	if got := a.Sub(b); got != V3(-3, 3, 2.5) {
		t.Errorf("Sub() = %v, want (-3, 3, 2.5)", got)
	}
	if got := a.Mul(2); got != V3(2, 4, 6) {
		t.Errorf("Mul() = %v, want (2, 4, 6)", got)
	}
	if got := a.Dot(b); got != 3.5 {
		t.Errorf("Dot() = %v, want 3.5", got)
	}
	if got := V3(3, 4, 0).Length(); got != 5 {
		t.Errorf("Length() = %v, want 5", got)
	}
	if got := V3(1, 1, -1).DistanceSq(V3(0, 0, -1)); got != 2 {
		t.Errorf("DistanceSq() = %v, want 2", got)
	}
	if got := a.Array(); got != [3]float32{1, 2, 3} {
		t.Errorf("Array() = %v, want [1 2 3]", got)
	}
}

func TestColorConversions(t *testing.T) {
	tests := []struct {
		name string
		c    Color
		want color.NRGBA
	}{
		{"white", White, color.NRGBA{255, 255, 255, 255}},
		{"black", Black, color.NRGBA{0, 0, 0, 255}},
		{"half red", RGB(0.5, 0, 0), color.NRGBA{128, 0, 0, 255}},
		{"clamped", RGB(2, -1, 0), color.NRGBA{255, 0, 0, 255}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.c.NRGBA(); got != tt.want {
				t.Errorf("NRGBA() = %v, want %v", got, tt.want)
			}
		})
	}

	if got := FromColor(color.NRGBA{0, 255, 0, 255}); got != Green {
		t.Errorf("FromColor(green) = %v, want %v", got, Green)
	}
	if got := Blue.Array(); got != [3]float32{0, 0, 1} {
		t.Errorf("Blue.Array() = %v, want [0 0 1]", got)
	}
}
