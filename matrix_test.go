package pathedit

import (
	"testing"

	"github.com/chewxy/math32"
)

const epsilon = 1e-5

func approx(a, b float32) bool {
	return math32.Abs(a-b) < epsilon
}

func TestIdentity4(t *testing.T) {
	m := Identity4()
	got := m.MulVec4(1, 2, 3, 1)
	if got != [4]float32{1, 2, 3, 1} {
		t.Errorf("Identity4().MulVec4() = %v, want [1 2 3 1]", got)
	}
}

func TestPerspective(t *testing.T) {
	fovy := math32.Pi / 3
	m := Perspective(fovy, 2, 0.1, 100)

	f := 1 / math32.Tan(fovy/2)
	if !approx(m[0], f/2) || !approx(m[5], f) {
		t.Errorf("scale = %v, %v, want %v, %v", m[0], m[5], f/2, f)
	}
	if m[11] != -1 || m[15] != 0 {
		t.Errorf("m[11], m[15] = %v, %v, want -1, 0", m[11], m[15])
	}

	// Near and far planes map to -1 and 1.
	near, ok := m.Project(V3(0, 0, -0.1))
	if !ok || !approx(near.Z, -1) {
		t.Errorf("near plane depth = %v, %v, want -1", near.Z, ok)
	}
	far, ok := m.Project(V3(0, 0, -100))
	if !ok || !approx(far.Z, 1) {
		t.Errorf("far plane depth = %v, %v, want 1", far.Z, ok)
	}

	if _, ok := m.Project(V3(0, 0, 1)); ok {
		t.Error("Project() of a point behind the eye should fail")
	}
}

func TestPerspectiveFovMatchesAspect(t *testing.T) {
	a := PerspectiveFov(1, 800, 400, 0.1, 10)
	b := Perspective(1, 2, 0.1, 10)
	if a != b {
		t.Errorf("PerspectiveFov() = %v, want %v", a, b)
	}
}

func TestMultiplyTranslate(t *testing.T) {
	m := Translate4(V3(1, 2, 3)).Multiply(Translate4(V3(-1, 1, 0)))
	got := m.MulVec4(0, 0, 0, 1)
	if got != [4]float32{0, 3, 3, 1} {
		t.Errorf("combined translation = %v, want [0 3 3 1]", got)
	}
	if Identity4().Multiply(m) != m {
		t.Error("Identity4().Multiply(m) != m")
	}
}
