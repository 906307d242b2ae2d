// Package render turns sparse scene points into a paced stream of galvo steps.
//
// A Pipeline owns two frame buffers, the interpolating state machine that
// fills a lock-free step ring, and the bridge that drains one step per
// hardware tick into an Output. Step runs in the cooperative scheduler; Tick
// runs in the timer interrupt. The two only meet at the ring and at the
// buffer swap.
package render

import (
	"errors"
	"fmt"
)

var ErrNoOutput = errors.New("render: nil output")

// Pipeline is the complete render path. All state is allocated with it.
type Pipeline struct {
	pair    FrameBufferPair
	ring    StepRing
	machine Machine
	bridge  Bridge
	log     Logger
	onRate  func(pps uint32)
}

// New builds a pipeline feeding out. A nil log discards messages.
func New(out Output, cfg Config, log Logger) (*Pipeline, error) {
	if out == nil {
		return nil, ErrNoOutput
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if log == nil {
		log = nopLogger{}
	}
	p := &Pipeline{log: log}
	p.pair.Init()
	p.machine.init(&p.pair, &p.ring, cfg, log)
	p.bridge = Bridge{ring: &p.ring, out: out}
	return p, nil
}

// Step runs one unit of producer work. See Machine.Step.
func (p *Pipeline) Step() bool { return p.machine.Step() }

// Fill runs up to budget producer steps and stops early once the machine only
// waits. It returns the number of steps that made progress.
func (p *Pipeline) Fill(budget int) int {
	n := 0
	for i := 0; i < budget; i++ {
		if !p.machine.Step() {
			break
		}
		n++
	}
	return n
}

// Tick is the output interrupt handler.
func (p *Pipeline) Tick() { p.bridge.Tick() }

func (p *Pipeline) logf(level LogLevel, format string, args ...any) {
	if p.machine.pending.LogLevel < level {
		return
	}
	p.log.WriteLineString("render: " + fmt.Sprintf(format, args...))
}

// Write stores one point. Writing the active buffer is permitted as an
// override and is reported at info level.
func (p *Pipeline) Write(sel Selector, index int, x, y uint8, flags Flags) error {
	if err := p.pair.Write(sel, index, x, y, flags); err != nil {
		p.logf(LogError, "write %s[%d]: %v", sel, index, err)
		return fmt.Errorf("write %s[%d]: %w", sel, index, err)
	}
	if sel == Active {
		p.logf(LogInfo, "override: write active[%d] = (%d,%d,%#02x)", index, x, y, uint8(flags))
	}
	return nil
}

// WritePoints copies pts into the selected buffer and sets its count.
func (p *Pipeline) WritePoints(sel Selector, pts []Point8) error {
	if len(pts) > MaxPoints {
		p.logf(LogError, "write %s: %d points exceeds %d", sel, len(pts), MaxPoints)
		return fmt.Errorf("write %s: %d points: %w", sel, len(pts), ErrCountRange)
	}
	buf := p.pair.Buffer(sel)
	for i, pt := range pts {
		if err := buf.Set(i, pt); err != nil {
			return err
		}
	}
	if sel == Active {
		p.logf(LogInfo, "override: write %d points to active", len(pts))
	}
	return buf.SetCount(len(pts))
}

func (p *Pipeline) Read(sel Selector, index int) (Point8, error) {
	pt, err := p.pair.Read(sel, index)
	if err != nil {
		p.logf(LogError, "read %s[%d]: %v", sel, index, err)
		return Point8{}, fmt.Errorf("read %s[%d]: %w", sel, index, err)
	}
	return pt, nil
}

func (p *Pipeline) SetCount(sel Selector, n int) error {
	if err := p.pair.SetCount(sel, n); err != nil {
		p.logf(LogError, "set count %s = %d: %v", sel, n, err)
		return fmt.Errorf("set count %s = %d: %w", sel, n, err)
	}
	return nil
}

// Count returns the point count of the selected buffer.
func (p *Pipeline) Count(sel Selector) int { return p.pair.Buffer(sel).Count() }

func (p *Pipeline) Clear(sel Selector) {
	p.pair.Clear(sel)
	if sel == Active {
		p.logf(LogInfo, "override: cleared active buffer")
	}
}

// RequestSwap promotes the inactive buffer at the end of the current pass.
func (p *Pipeline) RequestSwap() { p.machine.RequestSwap() }

func (p *Pipeline) SwapPending() bool { return p.machine.SwapPending() }

// SetConfig normalizes and stores cfg. The machine picks it up at the next
// transition; a new PPS goes to the rate hook right away.
func (p *Pipeline) SetConfig(cfg Config) Config {
	n := cfg.Normalize()
	if n != cfg {
		p.logf(LogInfo, "config clamped: %+v", n)
	}
	prev := p.machine.Config().PPS
	p.machine.Configure(n)
	if n.PPS != prev && p.onRate != nil {
		p.onRate(n.PPS)
	}
	return n
}

// OnRate registers fn to pace the output tick. It is called from SetConfig
// whenever the PPS changes.
func (p *Pipeline) OnRate(fn func(pps uint32)) { p.onRate = fn }

func (p *Pipeline) Config() Config { return p.machine.Config() }

// State returns the state machine position. Safe from any goroutine.
func (p *Pipeline) State() State { return p.machine.State() }

// Ring exposes the step ring for diagnostics.
func (p *Pipeline) Ring() *StepRing { return &p.ring }

// Snapshot copies the counters. Safe from any goroutine.
func (p *Pipeline) Snapshot() Stats {
	var s Stats
	s.State = p.machine.State()
	p.machine.stats.fill(&s)
	p.bridge.fill(&s)
	s.Buffered = p.ring.Len()
	return s
}

// Reset stops rendering: both buffers and the ring are cleared, the machine
// returns to empty and the counters restart. The output tick must be stopped.
func (p *Pipeline) Reset() {
	p.pair.Init()
	p.ring.Clear()
	p.machine.Reset()
	p.bridge.reset()
}
