//go:build !tinygo

package hal

import (
	"fmt"
	"os"
	"sync"
	"time"
)

// HostConfig selects optional host devices.
type HostConfig struct {
	// AudioDAC mirrors the beam to the sound card (X left, Y right).
	AudioDAC bool
	// LogLED echoes LED transitions on the log.
	LogLED bool
}

type hostHAL struct {
	logger *hostLogger
	led    *hostLED
	gpio   GPIO
	fb     *hostFramebuffer
	kbd    *hostKeyboard
	t      *hostTime
	scope  *hostScope
	timer  *pacedTimer
	audio  *audioDAC
}

// New returns a host HAL implementation with default options.
func New() HAL { return NewHost(HostConfig{}) }

// NewHost returns a host HAL implementation.
func NewHost(cfg HostConfig) HAL {
	return newHostHAL(cfg)
}

func newHostHAL(cfg HostConfig) *hostHAL {
	logger := &hostLogger{w: os.Stdout}
	led := &hostLED{logger: logger, echo: cfg.LogLED}
	scope := newHostScope()
	laser := newOutputPin(PinLaser, scope.setLaser)
	h := &hostHAL{
		logger: logger,
		led:    led,
		gpio:   newPinSet(newLEDPin(led), laser),
		fb:     newHostFramebuffer(hudWidth, hudHeight),
		kbd:    newHostKeyboard(),
		t:      newHostTime(),
		scope:  scope,
		timer:  newPacedTimer(250 * time.Microsecond),
	}
	if cfg.AudioDAC {
		a, err := newAudioDAC()
		if err != nil {
			logger.WriteLineString(fmt.Sprintf("hal: audio dac disabled: %v", err))
		} else {
			h.audio = a
			scope.tee = a
		}
	}
	return h
}

// Host HUD framebuffer size.
const (
	hudWidth  = 256
	hudHeight = 40
)

func (h *hostHAL) Logger() Logger       { return h.logger }
func (h *hostHAL) GPIO() GPIO           { return h.gpio }
func (h *hostHAL) Display() Display     { return hostDisplay{fb: h.fb} }
func (h *hostHAL) Input() Input         { return hostInput{kbd: h.kbd} }
func (h *hostHAL) Time() Time           { return h.t }
func (h *hostHAL) DAC() DAC             { return h.scope }
func (h *hostHAL) StepTimer() StepTimer { return h.timer }

func (h *hostHAL) close() {
	h.timer.Stop()
	if h.audio != nil {
		_ = h.audio.Close()
	}
}

type hostDisplay struct {
	fb *hostFramebuffer
}

func (d hostDisplay) Framebuffer() Framebuffer { return d.fb }

type hostInput struct {
	kbd *hostKeyboard
}

func (in hostInput) Keyboard() Keyboard { return in.kbd }

type hostLogger struct {
	mu sync.Mutex
	w  *os.File
}

func (l *hostLogger) WriteLineString(s string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintln(l.w, s)
}

func (l *hostLogger) WriteLineBytes(b []byte) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.w.Write(b)
	l.w.Write([]byte{'\n'})
}

type hostLED struct {
	mu     sync.Mutex
	on     bool
	echo   bool
	logger *hostLogger
}

func (l *hostLED) High() {
	l.mu.Lock()
	defer l.mu.Unlock()
	if !l.on && l.echo {
		l.logger.WriteLineString("led: HIGH")
	}
	l.on = true
}

func (l *hostLED) Low() {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.on && l.echo {
		l.logger.WriteLineString("led: LOW")
	}
	l.on = false
}

func (l *hostLED) isOn() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.on
}
