package hal

import (
	"fmt"
	"sync"
)

// Pin names every HAL registers.
const (
	PinLED   = "LED"
	PinLaser = "LASER" // beam enable, high means lit
)

// GPIOMode selects whether a pin is an input or output.
type GPIOMode uint8

const (
	GPIOModeInput GPIOMode = iota
	GPIOModeOutput
)

type GPIOPull uint8

const (
	GPIOPullNone GPIOPull = iota
	GPIOPullUp
	GPIOPullDown
)

// GPIOCaps is a bit set of what a pin can do.
type GPIOCaps uint8

const (
	GPIOCapInput GPIOCaps = 1 << iota
	GPIOCapOutput
	GPIOCapPullUp
	GPIOCapPullDown
)

// GPIO is the board's pin registry. Pins are looked up by name with FindPin.
type GPIO interface {
	PinCount() int
	Pin(id int) GPIOPin
}

// GPIOPin is a single digital IO pin.
type GPIOPin interface {
	Name() string
	Caps() GPIOCaps
	Configure(mode GPIOMode, pull GPIOPull) error
	Read() (level bool, err error)
	Write(level bool) error
}

// pinSet is the registry the HALs build from their fixed pins.
type pinSet []GPIOPin

func newPinSet(pins ...GPIOPin) pinSet {
	s := make(pinSet, 0, len(pins))
	for _, p := range pins {
		if p != nil {
			s = append(s, p)
		}
	}
	return s
}

func (s pinSet) PinCount() int { return len(s) }

func (s pinSet) Pin(id int) GPIOPin {
	if id < 0 || id >= len(s) {
		return nil
	}
	return s[id]
}

// FindPin returns the first pin called name, or nil.
func FindPin(g GPIO, name string) GPIOPin {
	if g == nil {
		return nil
	}
	for i := 0; i < g.PinCount(); i++ {
		if p := g.Pin(i); p != nil && p.Name() == name {
			return p
		}
	}
	return nil
}

// PinLevels reads every pin of g by name. Pins that fail to read are left out.
func PinLevels(g GPIO) map[string]bool {
	if g == nil || g.PinCount() == 0 {
		return nil
	}
	m := make(map[string]bool, g.PinCount())
	for i := 0; i < g.PinCount(); i++ {
		p := g.Pin(i)
		if p == nil {
			continue
		}
		if level, err := p.Read(); err == nil {
			m[p.Name()] = level
		}
	}
	return m
}

// virtualPin is a pin held in memory. The host HAL backs the laser enable with
// one and routes writes to the scope.
type virtualPin struct {
	mu    sync.Mutex
	name  string
	caps  GPIOCaps
	mode  GPIOMode
	pull  GPIOPull
	level bool

	onWrite func(level bool)
}

func newVirtualPin(name string, caps GPIOCaps) *virtualPin {
	return &virtualPin{name: name, caps: caps}
}

// newOutputPin returns a virtual pin already configured as an output.
func newOutputPin(name string, onWrite func(bool)) *virtualPin {
	p := newVirtualPin(name, GPIOCapOutput)
	p.mode = GPIOModeOutput
	p.onWrite = onWrite
	return p
}

func (p *virtualPin) Name() string   { return p.name }
func (p *virtualPin) Caps() GPIOCaps { return p.caps }

func (p *virtualPin) need(c GPIOCaps, what string) error {
	if p.caps&c == 0 {
		return fmt.Errorf("gpio: pin %s: %s unsupported", p.name, what)
	}
	return nil
}

func (p *virtualPin) Configure(mode GPIOMode, pull GPIOPull) error {
	var err error
	switch mode {
	case GPIOModeInput:
		err = p.need(GPIOCapInput, "input")
	case GPIOModeOutput:
		err = p.need(GPIOCapOutput, "output")
	default:
		err = fmt.Errorf("gpio: pin %s: bad mode %d", p.name, mode)
	}
	if err != nil {
		return err
	}
	switch pull {
	case GPIOPullNone:
	case GPIOPullUp:
		err = p.need(GPIOCapPullUp, "pull-up")
	case GPIOPullDown:
		err = p.need(GPIOCapPullDown, "pull-down")
	default:
		err = fmt.Errorf("gpio: pin %s: bad pull %d", p.name, pull)
	}
	if err != nil {
		return err
	}

	p.mu.Lock()
	p.mode, p.pull = mode, pull
	p.mu.Unlock()
	return nil
}

func (p *virtualPin) Read() (bool, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.level, nil
}

func (p *virtualPin) Write(level bool) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.mode != GPIOModeOutput {
		return fmt.Errorf("gpio: pin %s: not an output", p.name)
	}
	p.level = level
	if p.onWrite != nil {
		p.onWrite(level)
	}
	return nil
}

// ledPin exposes the status LED in the registry so its level can be read back.
type ledPin struct {
	mu    sync.Mutex
	led   LED
	level bool
}

func newLEDPin(led LED) GPIOPin {
	if led == nil {
		return nil
	}
	return &ledPin{led: led}
}

func (p *ledPin) Name() string   { return PinLED }
func (p *ledPin) Caps() GPIOCaps { return GPIOCapOutput }

func (p *ledPin) Configure(mode GPIOMode, pull GPIOPull) error {
	if mode != GPIOModeOutput || pull != GPIOPullNone {
		return fmt.Errorf("gpio: pin %s: only push-pull output supported", PinLED)
	}
	return nil
}

func (p *ledPin) Read() (bool, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.level, nil
}

func (p *ledPin) Write(level bool) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.level = level
	if level {
		p.led.High()
	} else {
		p.led.Low()
	}
	return nil
}
