package idqueue

import "testing"

func TestNewFullOrder(t *testing.T) {
	q := NewFull[uint32](4)
	if q.Len() != 4 || q.Cap() != 4 {
		t.Fatalf("Len/Cap = %d/%d, want 4/4", q.Len(), q.Cap())
	}
	for want := uint32(0); want < 4; want++ {
		got, ok := q.Pop()
		if !ok {
			t.Fatalf("Pop() ok = false at %d", want)
		}
		if got != want {
			t.Errorf("Pop() = %d, want %d", got, want)
		}
	}
	if _, ok := q.Pop(); ok {
		t.Error("Pop() on empty queue should return false")
	}
	if !q.Empty() {
		t.Error("Empty() = false after draining")
	}
}

func TestFIFOReuse(t *testing.T) {
	q := NewFull[uint32](3)
	a, _ := q.Pop() // 0
	b, _ := q.Pop() // 1

	// Released ids come back after the never-used ones, in release order.
	q.Push(b)
	q.Push(a)

	want := []uint32{2, 1, 0}
	for i, w := range want {
		got, ok := q.Pop()
		if !ok || got != w {
			t.Errorf("Pop() #%d = %d (ok=%v), want %d", i, got, ok, w)
		}
	}
}

func TestPushFull(t *testing.T) {
	q := NewFull[uint32](2)
	if q.Push(7) {
		t.Error("Push() on full queue should return false")
	}
	if q.Len() != 2 {
		t.Errorf("Len() = %d, want 2", q.Len())
	}
}

func TestPeek(t *testing.T) {
	q := New[uint32](2)
	if _, ok := q.Peek(); ok {
		t.Error("Peek() on empty queue should return false")
	}
	q.Push(5)
	q.Push(6)
	got, ok := q.Peek()
	if !ok || got != 5 {
		t.Errorf("Peek() = %d (ok=%v), want 5", got, ok)
	}
	if q.Len() != 2 {
		t.Errorf("Peek() changed Len() to %d", q.Len())
	}
}

func TestWrapAround(t *testing.T) {
	q := New[uint32](3)
	for round := 0; round < 10; round++ {
		for i := uint32(0); i < 3; i++ {
			if !q.Push(i + uint32(round)*3) {
				t.Fatalf("round %d: Push failed", round)
			}
		}
		for i := uint32(0); i < 3; i++ {
			got, _ := q.Pop()
			if want := i + uint32(round)*3; got != want {
				t.Fatalf("round %d: Pop() = %d, want %d", round, got, want)
			}
		}
	}
}

func TestZeroCapacity(t *testing.T) {
	q := New[uint32](-1)
	if q.Cap() != 0 {
		t.Errorf("Cap() = %d, want 0", q.Cap())
	}
	if q.Push(1) {
		t.Error("Push() into zero-capacity queue should fail")
	}
}
