package render

import (
	"fmt"
	"sync/atomic"
)

// Stats is a point-in-time copy of the pipeline counters.
type Stats struct {
	State State

	// Producer side.
	PointBufWait   uint32
	PointBufRepeat uint32
	StepBufWait    uint32
	Swaps          uint32
	Pushed         uint32
	InterpFaults   uint32
	BufferFaults   uint32
	StateFaults    uint32

	// Consumer side.
	Ticks     uint32
	Emitted   uint32
	Underruns uint32
	Last      Step

	Buffered int
}

// Faults returns the total number of recorded faults.
func (s Stats) Faults() uint32 { return s.InterpFaults + s.BufferFaults + s.StateFaults }

func (s Stats) String() string {
	return fmt.Sprintf("state=%s pushed=%d emitted=%d buffered=%d swaps=%d repeat=%d wait(pt=%d step=%d) underrun=%d faults=%d",
		s.State, s.Pushed, s.Emitted, s.Buffered, s.Swaps, s.PointBufRepeat,
		s.PointBufWait, s.StepBufWait, s.Underruns, s.Faults())
}

// machineCounters are written by the cooperative context and may be read from
// any goroutine.
type machineCounters struct {
	pointBufWait   atomic.Uint32
	pointBufRepeat atomic.Uint32
	stepBufWait    atomic.Uint32
	swaps          atomic.Uint32
	pushed         atomic.Uint32
	interpFaults   atomic.Uint32
	bufferFaults   atomic.Uint32
	stateFaults    atomic.Uint32
}

func (c *machineCounters) fill(s *Stats) {
	s.PointBufWait = c.pointBufWait.Load()
	s.PointBufRepeat = c.pointBufRepeat.Load()
	s.StepBufWait = c.stepBufWait.Load()
	s.Swaps = c.swaps.Load()
	s.Pushed = c.pushed.Load()
	s.InterpFaults = c.interpFaults.Load()
	s.BufferFaults = c.bufferFaults.Load()
	s.StateFaults = c.stateFaults.Load()
}

func (c *machineCounters) reset() {
	c.pointBufWait.Store(0)
	c.pointBufRepeat.Store(0)
	c.stepBufWait.Store(0)
	c.swaps.Store(0)
	c.pushed.Store(0)
	c.interpFaults.Store(0)
	c.bufferFaults.Store(0)
	c.stateFaults.Store(0)
}
