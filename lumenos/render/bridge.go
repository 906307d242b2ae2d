package render

import "sync/atomic"

// Output is the hardware sink driven at the output tick.
type Output interface {
	OutputPoint(p Vec)
	SetLaser(on bool)
}

// Bridge moves at most one step per tick from the ring to the output.
// Tick runs in interrupt context: it never blocks, allocates or logs.
type Bridge struct {
	ring *StepRing
	out  Output

	ticks     atomic.Uint32
	emitted   atomic.Uint32
	underruns atomic.Uint32
	last      atomic.Uint32
}

// Tick pops one step and forwards it. An empty ring leaves the output holding
// its last position and laser state.
func (b *Bridge) Tick() {
	b.ticks.Add(1)
	s, ok := b.ring.Pop()
	if !ok {
		b.underruns.Add(1)
		return
	}
	b.out.OutputPoint(s.Point)
	b.out.SetLaser(s.Laser)
	b.emitted.Add(1)
	b.last.Store(packStep(s))
}

// Last returns the most recently emitted step.
func (b *Bridge) Last() Step { return unpackStep(b.last.Load()) }

func (b *Bridge) fill(s *Stats) {
	s.Ticks = b.ticks.Load()
	s.Emitted = b.emitted.Load()
	s.Underruns = b.underruns.Load()
	s.Last = b.Last()
}

func (b *Bridge) reset() {
	b.ticks.Store(0)
	b.emitted.Store(0)
	b.underruns.Store(0)
	b.last.Store(0)
}

// Steps are packed as x | y<<15 | laser<<31. Coordinates fit in 15 bits.
func packStep(s Step) uint32 {
	v := uint32(uint16(s.Point.X)&0x7fff) | uint32(uint16(s.Point.Y)&0x7fff)<<15
	if s.Laser {
		v |= 1 << 31
	}
	return v
}

func unpackStep(v uint32) Step {
	return Step{
		Point: Vec{X: Fixed(v & 0x7fff), Y: Fixed((v >> 15) & 0x7fff)},
		Laser: v&(1<<31) != 0,
	}
}
