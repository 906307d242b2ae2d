package render

import (
	"fmt"
	"sync/atomic"
)

// Logger receives single log lines.
type Logger interface {
	WriteLineString(s string)
}

type nopLogger struct{}

func (nopLogger) WriteLineString(string) {}

// State is the render state machine position.
type State uint8

const (
	StateEmpty State = iota
	StateReady
	StateFetchPoint
	StateDwell
	StateInterpolate
	StateBufferEnd
	StateBufferSwap
	StateErrorInterp
	StateErrorBuffer
)

func (s State) String() string {
	switch s {
	case StateEmpty:
		return "empty"
	case StateReady:
		return "ready"
	case StateFetchPoint:
		return "fetch-point"
	case StateDwell:
		return "dwell"
	case StateInterpolate:
		return "interpolate"
	case StateBufferEnd:
		return "buffer-end"
	case StateBufferSwap:
		return "buffer-swap"
	case StateErrorInterp:
		return "error-interp"
	case StateErrorBuffer:
		return "error-buffer"
	default:
		return fmt.Sprintf("state(%d)", uint8(s))
	}
}

// Machine fills the step ring from the active frame buffer, one unit of work per
// Step call. Everything except RequestSwap and the counters belongs to the
// cooperative context.
type Machine struct {
	pair *FrameBufferPair
	ring *StepRing
	log  Logger

	pending Config
	cfg     Config

	state     State
	published atomic.Uint32
	cursor    int
	endImage  bool
	dwell     uint8
	t         Transition
	ip        Interpolator
	fault     error

	swapRequested atomic.Bool
	stats         machineCounters
}

// NewMachine returns a machine in the empty state.
func NewMachine(pair *FrameBufferPair, ring *StepRing, cfg Config, log Logger) *Machine {
	m := &Machine{}
	m.init(pair, ring, cfg, log)
	return m
}

func (m *Machine) init(pair *FrameBufferPair, ring *StepRing, cfg Config, log Logger) {
	if log == nil {
		log = nopLogger{}
	}
	m.pair = pair
	m.ring = ring
	m.log = log
	m.pending = cfg.Normalize()
	m.cfg = m.pending
	m.ip.Reset()
	m.setState(StateEmpty)
}

// Configure replaces the configuration. It takes effect at the next transition.
func (m *Machine) Configure(cfg Config) { m.pending = cfg.Normalize() }

// Config returns the configuration the next transition will use.
func (m *Machine) Config() Config { return m.pending }

// RequestSwap asks for the buffers to be swapped at the end of the current pass.
func (m *Machine) RequestSwap() { m.swapRequested.Store(true) }

// SwapPending reports whether a swap request has not been served yet.
func (m *Machine) SwapPending() bool { return m.swapRequested.Load() }

// State returns the current state. It is safe from any goroutine.
func (m *Machine) State() State { return State(m.published.Load()) }

// Transition returns a copy of the segment being rendered.
func (m *Machine) Transition() Transition { return m.t }

// Cursor returns the index of the next point to fetch.
func (m *Machine) Cursor() int { return m.cursor }

// Reset returns to the empty state and zeroes the counters. The ring is left
// untouched.
func (m *Machine) Reset() {
	m.cursor = 0
	m.endImage = false
	m.dwell = 0
	m.fault = nil
	m.t = Transition{}
	m.ip.Reset()
	m.swapRequested.Store(false)
	m.stats.reset()
	m.setState(StateEmpty)
}

func (m *Machine) setState(s State) {
	m.state = s
	m.published.Store(uint32(s))
}

func (m *Machine) logf(level LogLevel, format string, args ...any) {
	if m.pending.LogLevel < level {
		return
	}
	m.log.WriteLineString("render: " + fmt.Sprintf(format, args...))
}

// Step performs one unit of work. It reports false when it only waited, on an
// empty scene or a full ring, so the caller may yield.
func (m *Machine) Step() bool {
	switch m.state {
	case StateEmpty:
		return m.stepEmpty()
	case StateReady:
		m.stepReady()
	case StateFetchPoint:
		m.stepFetch()
	case StateDwell:
		return m.stepDwell()
	case StateInterpolate:
		return m.stepInterpolate()
	case StateBufferEnd:
		m.stepBufferEnd()
	case StateBufferSwap:
		m.stepBufferSwap()
	case StateErrorInterp:
		m.stats.interpFaults.Add(1)
		m.recoverFault()
	case StateErrorBuffer:
		m.stats.bufferFaults.Add(1)
		m.recoverFault()
	default:
		m.stats.stateFaults.Add(1)
		m.logf(LogError, "unknown state %d, resetting", uint8(m.state))
		m.setState(StateEmpty)
	}
	return true
}

func (m *Machine) stepEmpty() bool {
	if m.pair.Buffer(Active).Empty() {
		if m.pair.Buffer(Inactive).Empty() {
			m.stats.pointBufWait.Add(1)
			return false
		}
		m.pair.Swap()
		m.swapRequested.Store(false)
		m.stats.swaps.Add(1)
		m.logf(LogInfo, "promoted inactive buffer (%d points)", m.pair.Buffer(Active).Count())
	}
	m.setState(StateReady)
	return true
}

// stepReady positions the beam model on the first point without emitting.
func (m *Machine) stepReady() {
	m.cursor = 0
	m.endImage = false
	p, err := m.pair.Buffer(Active).At(0)
	if err != nil {
		m.fail(StateErrorBuffer, err)
		return
	}
	pos := VecFromPoint8(p)
	on := p.Flags.LaserOn()
	m.t = Transition{
		Start: pos, Current: pos, End: pos,
		StartLaser: on, CurrentLaser: on, EndLaser: on,
	}
	m.cursor = 1
	m.endImage = p.Flags.IsLast()
	m.setState(StateFetchPoint)
}

func (m *Machine) stepFetch() {
	buf := m.pair.Buffer(Active)
	if m.endImage || m.cursor >= buf.Count() {
		m.setState(StateBufferEnd)
		return
	}
	p, err := buf.At(m.cursor)
	if err != nil {
		m.fail(StateErrorBuffer, fmt.Errorf("fetch point %d: %w", m.cursor, err))
		return
	}
	m.cursor++
	m.endImage = p.Flags.IsLast()

	m.cfg = m.pending
	m.t.Next(VecFromPoint8(p), p.Flags.LaserOn())
	if err := m.ip.Init(&m.t, m.cfg.StepLength, m.cfg.AccFactor, m.cfg.DecFactor); err != nil {
		m.fail(StateErrorInterp, err)
		return
	}

	m.dwell = 0
	if m.t.LaserChanged() {
		if m.t.EndLaser {
			m.dwell = m.cfg.OnDwell
		} else {
			m.dwell = m.cfg.OffDwell
		}
	}
	m.logf(LogVerbose, "transition %s steps=%d dwell=%d", m.t, m.ip.TotalSteps(), m.dwell)

	if m.dwell > 0 {
		m.setState(StateDwell)
	} else {
		m.setState(StateInterpolate)
	}
}

func (m *Machine) stepDwell() bool {
	if m.ring.IsFull() {
		m.stats.stepBufWait.Add(1)
		return false
	}
	m.ring.Push(m.t.Step())
	m.stats.pushed.Add(1)
	m.dwell--
	if m.dwell == 0 {
		m.setState(StateInterpolate)
	}
	return true
}

func (m *Machine) stepInterpolate() bool {
	if m.ring.IsFull() {
		m.stats.stepBufWait.Add(1)
		return false
	}
	if err := m.ip.NextStep(); err != nil {
		m.fail(StateErrorInterp, err)
		return true
	}
	m.ring.Push(m.t.Step())
	m.stats.pushed.Add(1)
	if !m.ip.Active() {
		m.setState(StateFetchPoint)
	}
	return true
}

func (m *Machine) stepBufferEnd() {
	m.cursor = 0
	m.endImage = false
	switch {
	case m.swapRequested.Load():
		m.setState(StateBufferSwap)
	case m.pair.Buffer(Active).Empty():
		m.setState(StateEmpty)
	default:
		m.stats.pointBufRepeat.Add(1)
		m.setState(StateFetchPoint)
	}
}

func (m *Machine) stepBufferSwap() {
	m.swapRequested.Store(false)
	if m.pair.Buffer(Inactive).Empty() {
		m.logf(LogInfo, "swap requested with empty inactive buffer, repeating")
		m.stats.pointBufRepeat.Add(1)
		m.setState(StateFetchPoint)
		return
	}
	m.pair.Swap()
	m.stats.swaps.Add(1)
	m.logf(LogInfo, "swapped buffers (%d points)", m.pair.Buffer(Active).Count())
	m.setState(StateFetchPoint)
}

func (m *Machine) fail(s State, err error) {
	m.fault = err
	m.setState(s)
}

// recoverFault blanks the beam where it stands and falls back to the empty state.
func (m *Machine) recoverFault() {
	m.logf(LogError, "%s: %v", m.state, m.fault)
	m.t.CurrentLaser = false
	m.t.EndLaser = false
	if m.ring.Push(m.t.Step()) {
		m.stats.pushed.Add(1)
	}
	m.fault = nil
	m.dwell = 0
	m.ip.Reset()
	m.setState(StateEmpty)
}
