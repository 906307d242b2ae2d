package render

import (
	"errors"
	"fmt"
)

var (
	ErrNilTransition  = errors.New("render: nil transition")
	ErrInterpFinished = errors.New("render: interpolation already finished")
	ErrInterpState    = errors.New("render: invalid interpolation state")
)

const (
	// MaxRamp is the deepest acceleration/deceleration ramp.
	MaxRamp = 7
	// MinStepLength is the shortest step, in 8-bit coordinate units.
	MinStepLength = 1
)

// Transition is one point-to-point segment.
type Transition struct {
	Start   Vec
	Current Vec
	End     Vec

	StartLaser   bool
	CurrentLaser bool
	EndLaser     bool
}

// Next makes the previous end the new start and moves towards next.
// The current laser state takes the end state so it holds through the move.
func (t *Transition) Next(next Vec, laser bool) {
	t.Start = t.End
	t.Current = t.Start
	t.End = next

	t.StartLaser = t.EndLaser
	t.CurrentLaser = laser
	t.EndLaser = laser
}

// LaserChanged reports whether the laser toggles across the segment.
func (t *Transition) LaserChanged() bool { return t.StartLaser != t.EndLaser }

// Step returns the (current point, current laser) pair.
func (t *Transition) Step() Step { return Step{Point: t.Current, Laser: t.CurrentLaser} }

func (t Transition) String() string {
	return fmt.Sprintf("(%d,%d)->(%d,%d) cur=(%d,%d) laser=%t/%t/%t",
		t.Start.X, t.Start.Y, t.End.X, t.End.Y, t.Current.X, t.Current.Y,
		t.StartLaser, t.CurrentLaser, t.EndLaser)
}

// InterpState is the position in the interpolation sequence.
type InterpState uint8

const (
	InterpReady InterpState = iota
	InterpFirst
	InterpUniform
	InterpLast
	InterpFinished
)

func (s InterpState) String() string {
	switch s {
	case InterpReady:
		return "ready"
	case InterpFirst:
		return "first"
	case InterpUniform:
		return "interpolate"
	case InterpLast:
		return "last"
	case InterpFinished:
		return "finished"
	default:
		return "unknown"
	}
}

// Interpolator expands a Transition into steps no longer than the step length
// (Chebyshev), with optional shift-based velocity ramps at both ends.
//
// All divisions happen in Init; NextStep only adds and shifts.
type Interpolator struct {
	t *Transition

	delta Vec
	step  uint16
	total uint16

	acc uint8
	dec uint8

	state InterpState
}

// Init prepares the interpolator for t. stepLength is in 8-bit coordinate units;
// it is raised to MinStepLength and the ramps are capped at MaxRamp.
func (ip *Interpolator) Init(t *Transition, stepLength, acc, dec uint8) error {
	if t == nil {
		ip.state = InterpFinished
		return ErrNilTransition
	}
	if stepLength < MinStepLength {
		stepLength = MinStepLength
	}
	if acc > MaxRamp {
		acc = MaxRamp
	}
	if dec > MaxRamp {
		dec = MaxRamp
	}

	ip.t = t
	ip.step = 0
	t.Current = t.Start

	length := int32(stepLength) << FixedShift
	distance := t.Start.Chebyshev(t.End)
	if distance <= length {
		ip.total = 1
		ip.delta = t.End.Sub(t.Start)
		ip.acc, ip.dec = 0, 0
		ip.state = InterpLast
		return nil
	}

	total := (distance + length - 1) / length
	ip.total = uint16(total)
	ip.delta = Vec{
		X: Fixed((int32(t.End.X) - int32(t.Start.X)) / total),
		Y: Fixed((int32(t.End.Y) - int32(t.Start.Y)) / total),
	}
	ip.acc, ip.dec = acc, dec
	ip.state = InterpReady
	return nil
}

// NextStep advances one step and writes the new position into the transition.
func (ip *Interpolator) NextStep() error {
	t := ip.t
	switch ip.state {
	case InterpReady:
		ip.state = InterpFirst
		fallthrough

	case InterpFirst:
		if ip.acc > 0 {
			// Ramp positions sit at delta/2^k past the start, k = acc..1.
			t.Current = t.Start.Add(ip.delta.Shr(ip.acc))
			ip.acc--
			return nil
		}
		t.Current = t.Start.Add(ip.delta)
		ip.step = 1
		ip.state = InterpUniform
		return nil

	case InterpUniform:
		if ip.step+1 < ip.total {
			t.Current = t.Current.Add(ip.delta)
			ip.step++
			return nil
		}
		ip.state = InterpLast
		fallthrough

	case InterpLast:
		if ip.dec > 0 {
			ip.delta = ip.delta.Shr(1)
			t.Current = t.Current.Add(ip.delta)
			ip.dec--
			return nil
		}
		t.Current = t.End
		ip.state = InterpFinished
		return nil

	case InterpFinished:
		return ErrInterpFinished

	default:
		return ErrInterpState
	}
}

// Active reports whether more steps remain.
func (ip *Interpolator) Active() bool { return ip.state != InterpFinished }

// State returns the current interpolation state.
func (ip *Interpolator) State() InterpState { return ip.state }

// TotalSteps returns the uniform step count of the current segment.
func (ip *Interpolator) TotalSteps() int { return int(ip.total) }

// Reset leaves the interpolator finished and detached.
func (ip *Interpolator) Reset() {
	*ip = Interpolator{state: InterpFinished}
}
