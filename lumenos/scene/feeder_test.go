package scene

import (
	"testing"

	"lumen/lumenos/kernel"
	"lumen/lumenos/render"
)

type fakeLoader struct {
	writes  []int
	pending bool
}

func (l *fakeLoader) WritePoints(sel render.Selector, pts []render.Point8) error {
	if sel != render.Inactive {
		panic("feeder wrote the active buffer")
	}
	l.writes = append(l.writes, len(pts))
	return nil
}

func (l *fakeLoader) RequestSwap()      { l.pending = true }
func (l *fakeLoader) SwapPending() bool { return l.pending }

func newFeederKernel(t *testing.T, frameTicks uint32) (*kernel.Kernel, *Feeder, *fakeLoader) {
	t.Helper()
	k := kernel.New()
	dst := &fakeLoader{}
	f := NewFeeder(dst, frameTicks, nil)
	if _, err := k.AddTask(f); err != nil {
		t.Fatalf("AddTask() = %v", err)
	}
	return k, f, dst
}

func TestFeederWaitsForSwap(t *testing.T) {
	k, f, dst := newFeederKernel(t, 2)
	s := Scene{Frames: []Frame{{{X: 1}, {X: 2}}, {{X: 3}}}}
	f.Load(s)

	k.Step()
	if len(dst.writes) != 1 || !dst.pending {
		t.Fatalf("writes = %v pending=%t, want one write and a swap request", dst.writes, dst.pending)
	}

	// Frame time passes but the swap has not been taken.
	k.TickTo(5)
	k.Step()
	if len(dst.writes) != 1 {
		t.Fatalf("writes = %v while swap pending, want 1", dst.writes)
	}

	dst.pending = false
	k.TickTo(6)
	k.Step()
	if len(dst.writes) != 2 || dst.writes[1] != 1 {
		t.Fatalf("writes = %v, want [2 1]", dst.writes)
	}
	if f.Frames() != 2 {
		t.Fatalf("Frames() = %d, want 2", f.Frames())
	}
}

func TestFeederPacesFrames(t *testing.T) {
	k, f, dst := newFeederKernel(t, 10)
	f.Load(Scene{Frames: []Frame{{{X: 1}}, {{X: 2}}}})

	k.Step()
	dst.pending = false
	k.TickTo(5)
	k.Step()
	if len(dst.writes) != 1 {
		t.Fatalf("writes = %v before frame time, want 1", dst.writes)
	}
	k.TickTo(10)
	k.Step()
	if len(dst.writes) != 2 {
		t.Fatalf("writes = %v at frame time, want 2", dst.writes)
	}
}

func TestFeederSingleFrameAndHold(t *testing.T) {
	k, f, dst := newFeederKernel(t, 1)
	sq, _ := Pattern("square")
	f.Load(sq)

	k.Step()
	dst.pending = false
	for i := uint64(1); i < 5; i++ {
		k.TickTo(i)
		k.Step()
	}
	if len(dst.writes) != 1 {
		t.Fatalf("single frame written %d times, want 1", len(dst.writes))
	}

	st, _ := Pattern("star")
	f.Load(st)
	f.Hold(true)
	k.TickTo(10)
	k.Step()
	dst.pending = false
	k.TickTo(20)
	k.Step()
	if len(dst.writes) != 2 {
		t.Fatalf("writes = %d while held, want 2", len(dst.writes))
	}
}
