package render

import "sync/atomic"

const (
	// StepRingSize is the ring capacity. It must be a power of two.
	StepRingSize = 16
	stepRingMask = StepRingSize - 1
)

// Step is one paced output sample.
type Step struct {
	Point Vec
	Laser bool
}

// StepRing is a single-producer/single-consumer queue of steps.
//
// One slot is always left empty so full and empty are distinguishable from the
// indices alone: full when (head+1)&mask == tail, empty when head == tail.
// Only the producer stores head and only the consumer stores tail; a slot is
// written before head is published and read before tail is released.
type StepRing struct {
	_     [0]func() // no copies.
	head  atomic.Uint32
	tail  atomic.Uint32
	point [StepRingSize]Vec
	laser [StepRingSize]bool
}

// Push appends a step. It returns false, without overwriting, when full.
// Producer side only.
func (r *StepRing) Push(s Step) bool {
	head := r.head.Load()
	if (head+1)&stepRingMask == r.tail.Load() {
		return false
	}
	r.point[head] = s.Point
	r.laser[head] = s.Laser
	r.head.Store((head + 1) & stepRingMask)
	return true
}

// Pop removes the oldest step. It returns false when empty.
// Consumer side only.
func (r *StepRing) Pop() (Step, bool) {
	tail := r.tail.Load()
	if tail == r.head.Load() {
		return Step{}, false
	}
	s := Step{Point: r.point[tail], Laser: r.laser[tail]}
	r.tail.Store((tail + 1) & stepRingMask)
	return s, true
}

// Peek returns the oldest step without consuming it. Diagnostics only: call it
// from the consumer side or while the consumer is stopped.
func (r *StepRing) Peek() (Step, bool) {
	tail := r.tail.Load()
	if tail == r.head.Load() {
		return Step{}, false
	}
	return Step{Point: r.point[tail], Laser: r.laser[tail]}, true
}

func (r *StepRing) IsEmpty() bool { return r.head.Load() == r.tail.Load() }

func (r *StepRing) IsFull() bool {
	return (r.head.Load()+1)&stepRingMask == r.tail.Load()
}

// Len returns the number of queued steps.
func (r *StepRing) Len() int {
	return int((r.head.Load() - r.tail.Load()) & stepRingMask)
}

// Space returns how many steps can be pushed before the ring is full.
func (r *StepRing) Space() int { return StepRingSize - 1 - r.Len() }

// Cap returns the usable capacity.
func (r *StepRing) Cap() int { return StepRingSize - 1 }

// Clear drops all queued steps. The consumer must not be running.
func (r *StepRing) Clear() {
	r.head.Store(0)
	r.tail.Store(0)
	r.point = [StepRingSize]Vec{}
	r.laser = [StepRingSize]bool{}
}
