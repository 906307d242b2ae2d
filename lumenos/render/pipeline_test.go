package render

import (
	"errors"
	"testing"
)

func TestNewRejectsNilOutput(t *testing.T) {
	if _, err := New(nil, DefaultConfig(), nil); !errors.Is(err, ErrNoOutput) {
		t.Fatalf("New(nil) = %v, want ErrNoOutput", err)
	}
	if _, err := New(&recordOutput{}, Config{}, nil); !errors.Is(err, ErrConfig) {
		t.Fatalf("New(Config{}) = %v, want ErrConfig", err)
	}
}

func TestPipelineWriteActiveIsLoggedOverride(t *testing.T) {
	cfg := DefaultConfig()
	cfg.LogLevel = LogInfo
	p, _, log := newTestPipeline(t, cfg)

	if err := p.Write(Active, 3, 1, 2, 0); err != nil {
		t.Fatalf("Write(Active) = %v, want nil", err)
	}
	if !log.contains("override") {
		t.Fatalf("log = %q, want override line", log.lines)
	}
	pt, err := p.Read(Active, 3)
	if err != nil || pt != (Point8{X: 1, Y: 2}) {
		t.Fatalf("Read(Active, 3) = %+v, %v", pt, err)
	}
}

func TestPipelineBoundsAreLoggedNoOps(t *testing.T) {
	p, _, log := newTestPipeline(t, DefaultConfig())

	if err := p.Write(Inactive, MaxPoints, 1, 1, 0); !errors.Is(err, ErrIndexRange) {
		t.Fatalf("Write() = %v, want ErrIndexRange", err)
	}
	if err := p.SetCount(Inactive, MaxPoints+1); !errors.Is(err, ErrCountRange) {
		t.Fatalf("SetCount() = %v, want ErrCountRange", err)
	}
	if err := p.WritePoints(Inactive, make([]Point8, MaxPoints+1)); !errors.Is(err, ErrCountRange) {
		t.Fatalf("WritePoints() = %v, want ErrCountRange", err)
	}
	if got := p.Count(Inactive); got != 0 {
		t.Fatalf("Count() = %d after rejected writes, want 0", got)
	}
	if !log.contains("out of range") {
		t.Fatalf("log = %q, want range errors", log.lines)
	}
}

func TestPipelineSetConfigClamps(t *testing.T) {
	p, _, _ := newTestPipeline(t, DefaultConfig())

	got := p.SetConfig(Config{PPS: 0, StepLength: 0, AccFactor: 9, DecFactor: 12, LogLevel: 7})
	want := Config{PPS: 1, StepLength: 1, AccFactor: MaxRamp, DecFactor: MaxRamp, LogLevel: LogVerbose}
	if got != want {
		t.Fatalf("SetConfig() = %+v, want %+v", got, want)
	}
	if p.Config() != want {
		t.Fatalf("Config() = %+v, want %+v", p.Config(), want)
	}
	if err := got.Validate(); err != nil {
		t.Fatalf("Validate() = %v", err)
	}
}

func TestPipelineSetConfigReportsRate(t *testing.T) {
	p, _, _ := newTestPipeline(t, DefaultConfig())
	var rates []uint32
	p.OnRate(func(pps uint32) { rates = append(rates, pps) })

	cfg := p.Config()
	cfg.StepLength = 9
	p.SetConfig(cfg)
	if len(rates) != 0 {
		t.Fatalf("rates = %v after step change, want none", rates)
	}

	cfg.PPS = 1000
	p.SetConfig(cfg)
	cfg.PPS = MaxPPS + 1
	p.SetConfig(cfg)
	if len(rates) != 2 || rates[0] != 1000 || rates[1] != MaxPPS {
		t.Fatalf("rates = %v, want [1000 %d]", rates, MaxPPS)
	}
}

func TestBridgeHoldsOnUnderrun(t *testing.T) {
	p, out, _ := newTestPipeline(t, DefaultConfig())

	p.ring.Push(Step{Point: V(4080, 17), Laser: true})
	p.Tick()
	p.Tick()

	if len(out.points) != 1 || len(out.lasers) != 1 {
		t.Fatalf("outputs = %d/%d, want 1/1", len(out.points), len(out.lasers))
	}
	s := p.Snapshot()
	if s.Ticks != 2 || s.Emitted != 1 || s.Underruns != 1 {
		t.Fatalf("Snapshot() ticks=%d emitted=%d underruns=%d, want 2/1/1", s.Ticks, s.Emitted, s.Underruns)
	}
	if s.Last != (Step{Point: V(4080, 17), Laser: true}) {
		t.Fatalf("Last = %+v", s.Last)
	}
}

func TestPipelineFillAndReset(t *testing.T) {
	p, _, _ := newTestPipeline(t, DefaultConfig())
	load(t, p, Inactive, Point8{0, 0, 0}, Point8{255, 255, 0})

	if n := p.Fill(1000); n == 0 {
		t.Fatal("Fill() made no progress")
	}
	if !p.ring.IsFull() {
		t.Fatal("ring not full after Fill()")
	}

	p.Reset()
	s := p.Snapshot()
	if s.State != StateEmpty || s.Buffered != 0 || s.Pushed != 0 || s.Swaps != 0 {
		t.Fatalf("Snapshot() after Reset = %s", s)
	}
	if p.Count(Active) != 0 || p.Count(Inactive) != 0 {
		t.Fatal("buffers not cleared by Reset")
	}
}
