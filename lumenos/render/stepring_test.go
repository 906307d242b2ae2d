package render

import (
	"runtime"
	"sync"
	"testing"
)

func TestStepRingEmpty(t *testing.T) {
	var r StepRing

	if !r.IsEmpty() {
		t.Fatal("IsEmpty() = false on new ring")
	}
	if _, ok := r.Pop(); ok {
		t.Fatal("Pop() ok = true on empty ring, want false")
	}
	if _, ok := r.Peek(); ok {
		t.Fatal("Peek() ok = true on empty ring, want false")
	}
	if got := r.Space(); got != StepRingSize-1 {
		t.Fatalf("Space() = %d, want %d", got, StepRingSize-1)
	}
}

func TestStepRingFullAndFIFO(t *testing.T) {
	var r StepRing

	for i := 0; i < StepRingSize-1; i++ {
		if r.IsFull() {
			t.Fatalf("IsFull() = true after %d pushes", i)
		}
		if !r.Push(Step{Point: V(Fixed(i), Fixed(-i)), Laser: i%2 == 0}) {
			t.Fatalf("Push(%d) = false, want true", i)
		}
	}
	if !r.IsFull() {
		t.Fatal("IsFull() = false after capacity-1 pushes")
	}
	if r.Push(Step{Point: V(99, 99)}) {
		t.Fatal("Push() on full ring = true, want false")
	}
	if got := r.Len(); got != StepRingSize-1 {
		t.Fatalf("Len() = %d, want %d", got, StepRingSize-1)
	}

	if s, ok := r.Peek(); !ok || s.Point.X != 0 {
		t.Fatalf("Peek() = %+v, %t; want first step", s, ok)
	}

	for i := 0; i < StepRingSize-1; i++ {
		s, ok := r.Pop()
		if !ok {
			t.Fatalf("Pop(%d) ok = false", i)
		}
		want := Step{Point: V(Fixed(i), Fixed(-i)), Laser: i%2 == 0}
		if s != want {
			t.Fatalf("Pop(%d) = %+v, want %+v", i, s, want)
		}
	}
	if !r.IsEmpty() {
		t.Fatal("IsEmpty() = false after draining")
	}
}

func TestStepRingWraps(t *testing.T) {
	var r StepRing

	for i := 0; i < StepRingSize*5; i++ {
		if !r.Push(Step{Point: V(Fixed(i), 0)}) {
			t.Fatalf("Push(%d) = false", i)
		}
		s, ok := r.Pop()
		if !ok || s.Point.X != Fixed(i) {
			t.Fatalf("Pop() = %+v, %t; want x=%d", s, ok, i)
		}
	}

	r.Push(Step{})
	r.Push(Step{})
	r.Clear()
	if !r.IsEmpty() || r.Len() != 0 {
		t.Fatalf("Clear() left Len() = %d", r.Len())
	}
}

func TestStepRingConcurrentFIFO(t *testing.T) {
	const total = 20_000

	var r StepRing
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; i < total; {
			s := Step{Point: V(Fixed(i&0x3fff), Fixed(i>>14)), Laser: i%3 == 0}
			if r.Push(s) {
				i++
				continue
			}
			runtime.Gosched()
		}
	}()

	for i := 0; i < total; {
		s, ok := r.Pop()
		if !ok {
			runtime.Gosched()
			continue
		}
		want := Step{Point: V(Fixed(i&0x3fff), Fixed(i>>14)), Laser: i%3 == 0}
		if s != want {
			t.Fatalf("Pop() #%d = %+v, want %+v", i, s, want)
		}
		i++
	}
	wg.Wait()

	if !r.IsEmpty() {
		t.Fatalf("ring not empty after %d steps", total)
	}
}
