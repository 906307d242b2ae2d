package render

import (
	"errors"

	"lumen/hal/irq"
)

// MaxPoints is the capacity of each frame buffer.
const MaxPoints = 128

var (
	ErrIndexRange = errors.New("render: point index out of range")
	ErrCountRange = errors.New("render: point count out of range")
)

// Selector picks one buffer of a FrameBufferPair.
type Selector uint8

const (
	Inactive Selector = iota
	Active
)

func (s Selector) String() string {
	switch s {
	case Inactive:
		return "inactive"
	case Active:
		return "active"
	default:
		return "unknown"
	}
}

// FrameBuffer is a fixed-capacity list of sparse scene points.
type FrameBuffer struct {
	points [MaxPoints]Point8
	count  uint8
}

// Count returns the number of valid points.
func (b *FrameBuffer) Count() int { return int(b.count) }

// Empty reports whether the buffer holds no points.
func (b *FrameBuffer) Empty() bool { return b.count == 0 }

// Clear zeroes the points and the count.
func (b *FrameBuffer) Clear() {
	b.points = [MaxPoints]Point8{}
	b.count = 0
}

// Set stores a point at index. The count is not changed.
func (b *FrameBuffer) Set(index int, p Point8) error {
	if index < 0 || index >= MaxPoints {
		return ErrIndexRange
	}
	b.points[index] = p
	return nil
}

// At returns the point at index.
func (b *FrameBuffer) At(index int) (Point8, error) {
	if index < 0 || index >= MaxPoints {
		return Point8{}, ErrIndexRange
	}
	return b.points[index], nil
}

// SetCount sets the number of valid points.
func (b *FrameBuffer) SetCount(n int) error {
	if n < 0 || n > MaxPoints {
		return ErrCountRange
	}
	b.count = uint8(n)
	return nil
}

// FrameBufferPair holds two frame buffers: the renderer reads the active one while
// the inactive one is filled. Roles are exchanged by Swap.
type FrameBufferPair struct {
	a, b     FrameBuffer
	active   *FrameBuffer
	inactive *FrameBuffer
}

// Init assigns the initial roles. It must run before first use.
func (p *FrameBufferPair) Init() {
	p.a.Clear()
	p.b.Clear()
	p.active = &p.a
	p.inactive = &p.b
}

// Buffer returns the buffer currently holding the selected role.
func (p *FrameBufferPair) Buffer(sel Selector) *FrameBuffer {
	if sel == Active {
		return p.active
	}
	return p.inactive
}

// Write stores a point in the selected buffer.
func (p *FrameBufferPair) Write(sel Selector, index int, x, y uint8, flags Flags) error {
	return p.Buffer(sel).Set(index, Point8{X: x, Y: y, Flags: flags})
}

// Read returns a point from the selected buffer.
func (p *FrameBufferPair) Read(sel Selector, index int) (Point8, error) {
	return p.Buffer(sel).At(index)
}

// SetCount sets the point count of the selected buffer.
func (p *FrameBufferPair) SetCount(sel Selector, n int) error {
	return p.Buffer(sel).SetCount(n)
}

// Clear empties the selected buffer.
func (p *FrameBufferPair) Clear(sel Selector) {
	p.Buffer(sel).Clear()
}

// Swap exchanges the active and inactive roles. Only the two pointers move, with
// interrupts masked for the exchange.
func (p *FrameBufferPair) Swap() {
	st := irq.Disable()
	p.active, p.inactive = p.inactive, p.active
	irq.Restore(st)
}
