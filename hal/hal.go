package hal

import "errors"

// Logger writes newline-delimited log lines.
type Logger interface {
	WriteLineString(s string)
	WriteLineBytes(b []byte)
}

// LED is a minimal output pin abstraction.
type LED interface {
	High()
	Low()
}

var ErrNotImplemented = errors.New("not implemented")

// PixelFormat defines the framebuffer pixel encoding.
type PixelFormat uint8

const (
	// PixelFormatRGB565 is 16bpp: rrrrrggggggbbbbb.
	PixelFormatRGB565 PixelFormat = iota + 1
)

// Framebuffer is a simple pixel buffer plus a "present" hook.
type Framebuffer interface {
	Width() int
	Height() int
	Format() PixelFormat
	StrideBytes() int
	Buffer() []byte
	ClearRGB(r, g, b uint8)
	Present() error
}

// KeyCode is a minimal key identifier.
type KeyCode uint16

const (
	KeyUnknown KeyCode = iota
	KeyUp
	KeyDown
	KeyLeft
	KeyRight
	KeySpace
	KeyEscape
)

// KeyEvent is a keyboard event.
type KeyEvent struct {
	Code  KeyCode
	Press bool
}

// Keyboard provides key events (best-effort on each platform).
type Keyboard interface {
	Events() <-chan KeyEvent
}

// Display provides access to the framebuffer (if available).
type Display interface {
	Framebuffer() Framebuffer
}

// Input provides access to input devices (if available).
type Input interface {
	Keyboard() Keyboard
}

// Time provides a base tick stream.
//
// The tick duration is platform-defined (1ms on every current target).
type Time interface {
	Ticks() <-chan uint64
}

// DACMax is the largest code accepted by a 12-bit DAC.
const DACMax = 4095

// DAC drives the two galvo channels. Codes are 12-bit; larger values are
// clamped. WriteXY is called from the step timer and must not block.
type DAC interface {
	WriteXY(x, y uint16) error
}

// StepTimer calls a function at a fixed rate, in interrupt context: the
// function runs with interrupts masked (see hal/irq) and must not block.
type StepTimer interface {
	Start(hz uint32, fn func()) error
	SetRate(hz uint32) error
	Stop()
}

// HAL provides the only contact point between the OS and the outside world.
type HAL interface {
	Logger() Logger
	// GPIO carries PinLaser, the beam enable output, and PinLED when the
	// board has a status LED.
	GPIO() GPIO
	Display() Display
	Input() Input
	Time() Time
	DAC() DAC
	StepTimer() StepTimer
}
