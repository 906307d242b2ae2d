package hal

import (
	"errors"
	"sync/atomic"
	"testing"
	"time"
)

func TestDueTicks(t *testing.T) {
	if got := dueTicks(time.Second, 20_000); got != 20_000 {
		t.Fatalf("dueTicks(1s, 20k) = %d, want 20000", got)
	}
	if got := dueTicks(1500*time.Millisecond, 1000); got != 1500 {
		t.Fatalf("dueTicks(1.5s, 1k) = %d, want 1500", got)
	}
	if got := dueTicks(-time.Second, 1000); got != 0 {
		t.Fatalf("dueTicks(-1s) = %d, want 0", got)
	}
	if got := dueTicks(1000*time.Hour, maxStepRate); got != 1000*3600*maxStepRate {
		t.Fatalf("dueTicks(1000h) = %d", got)
	}
}

func TestPacedTimerRunsAndStops(t *testing.T) {
	tm := newPacedTimer(time.Millisecond)
	var n atomic.Uint32

	if err := tm.Start(0, func() {}); err == nil {
		t.Fatal("Start(0) = nil, want error")
	}
	if err := tm.Start(2000, func() { n.Add(1) }); err != nil {
		t.Fatalf("Start() = %v", err)
	}
	if err := tm.Start(2000, func() {}); !errors.Is(err, ErrTimerRunning) {
		t.Fatalf("second Start() = %v, want ErrTimerRunning", err)
	}

	deadline := time.Now().Add(2 * time.Second)
	for n.Load() < 20 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	if err := tm.SetRate(4000); err != nil {
		t.Fatalf("SetRate() = %v", err)
	}
	tm.Stop()

	got := n.Load()
	if got < 20 {
		t.Fatalf("callbacks = %d, want at least 20", got)
	}
	time.Sleep(20 * time.Millisecond)
	if n.Load() != got {
		t.Fatalf("callbacks continued after Stop: %d -> %d", got, n.Load())
	}

	tm.Stop()
	if err := tm.Start(1000, func() {}); err != nil {
		t.Fatalf("restart Start() = %v", err)
	}
	tm.Stop()
}
