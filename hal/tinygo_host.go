//go:build tinygo && !baremetal

package hal

import "time"

type tinyGoHostHAL struct {
	logger *tinyGoHostLogger
	led    *tinyGoHostLED
	gpio   GPIO
	fb     *tinyGoHostFramebuffer
	kbd    *tinyGoHostKeyboard
	t      *tinyGoHostTime
	dac    *tinyGoHostDAC
	timer  *pacedTimer
}

// New returns a TinyGo-on-host HAL implementation.
//
// This is used by `tinygo run` targets like linux/wasm where there is no MCU
// pin mapping. The DAC only remembers the last position.
func New() HAL {
	l := &tinyGoHostLogger{}
	led := &tinyGoHostLED{}
	laser := newOutputPin(PinLaser, nil)
	return &tinyGoHostHAL{
		logger: l,
		led:    led,
		gpio:   newPinSet(newLEDPin(led), laser),
		fb:     newTinyGoHostFramebuffer(128, 32),
		kbd:    newTinyGoHostKeyboard(),
		t:      newTinyGoHostTime(),
		dac:    &tinyGoHostDAC{},
		timer:  newPacedTimer(100 * time.Microsecond),
	}
}

func (h *tinyGoHostHAL) Logger() Logger       { return h.logger }
func (h *tinyGoHostHAL) GPIO() GPIO           { return h.gpio }
func (h *tinyGoHostHAL) Display() Display     { return tinyGoHostDisplay{fb: h.fb} }
func (h *tinyGoHostHAL) Input() Input         { return tinyGoHostInput{kbd: h.kbd} }
func (h *tinyGoHostHAL) Time() Time           { return h.t }
func (h *tinyGoHostHAL) DAC() DAC             { return h.dac }
func (h *tinyGoHostHAL) StepTimer() StepTimer { return h.timer }

type tinyGoHostDisplay struct {
	fb Framebuffer
}

func (d tinyGoHostDisplay) Framebuffer() Framebuffer { return d.fb }

type tinyGoHostInput struct {
	kbd Keyboard
}

func (in tinyGoHostInput) Keyboard() Keyboard { return in.kbd }

type tinyGoHostTime struct {
	ch  chan uint64
	seq uint64
}

func newTinyGoHostTime() *tinyGoHostTime {
	t := &tinyGoHostTime{ch: make(chan uint64, 16)}
	go func() {
		ticker := time.NewTicker(1 * time.Millisecond)
		defer ticker.Stop()
		for range ticker.C {
			t.seq++
			select {
			case t.ch <- t.seq:
			default:
			}
		}
	}()
	return t
}

func (t *tinyGoHostTime) Ticks() <-chan uint64 { return t.ch }

type tinyGoHostDAC struct {
	x, y uint16
}

func (d *tinyGoHostDAC) WriteXY(x, y uint16) error {
	d.x, d.y = clampCode(x), clampCode(y)
	return nil
}

type tinyGoHostLogger struct{}

func (l *tinyGoHostLogger) WriteLineString(s string) {
	println(s)
}

func (l *tinyGoHostLogger) WriteLineBytes(b []byte) {
	println(string(b))
}

// tinyGoHostLED only keeps the level; the heartbeat would flood the console.
type tinyGoHostLED struct {
	on bool
}

func (l *tinyGoHostLED) High() { l.on = true }
func (l *tinyGoHostLED) Low()  { l.on = false }

type tinyGoHostKeyboard struct {
	ch chan KeyEvent
}

func newTinyGoHostKeyboard() *tinyGoHostKeyboard {
	return &tinyGoHostKeyboard{ch: make(chan KeyEvent)}
}

func (k *tinyGoHostKeyboard) Events() <-chan KeyEvent { return k.ch }

type tinyGoHostFramebuffer struct {
	w      int
	h      int
	stride int
	buf    []byte
}

func newTinyGoHostFramebuffer(w, h int) *tinyGoHostFramebuffer {
	stride := w * 2
	return &tinyGoHostFramebuffer{
		w:      w,
		h:      h,
		stride: stride,
		buf:    make([]byte, stride*h),
	}
}

func (f *tinyGoHostFramebuffer) Width() int          { return f.w }
func (f *tinyGoHostFramebuffer) Height() int         { return f.h }
func (f *tinyGoHostFramebuffer) Format() PixelFormat { return PixelFormatRGB565 }
func (f *tinyGoHostFramebuffer) StrideBytes() int    { return f.stride }
func (f *tinyGoHostFramebuffer) Buffer() []byte      { return f.buf }

func (f *tinyGoHostFramebuffer) ClearRGB(r, g, b uint8) {
	pixel := RGB565(r, g, b)
	lo := byte(pixel)
	hi := byte(pixel >> 8)
	for i := 0; i < len(f.buf); i += 2 {
		f.buf[i] = lo
		f.buf[i+1] = hi
	}
}

func (f *tinyGoHostFramebuffer) Present() error { return nil }
