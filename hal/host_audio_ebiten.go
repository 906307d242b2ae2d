//go:build !tinygo && cgo

package hal

import (
	"errors"
	"sync"
	"time"

	"github.com/hajimehoshi/ebiten/v2/audio"
)

const audioSampleRate = 48000

// audioDAC plays the beam through the sound card: X on the left channel, Y on
// the right, which is enough to drive a hobby galvo amplifier or an
// oscilloscope in XY mode.
type audioDAC struct {
	mu     sync.Mutex
	ctx    *audio.Context
	player *audio.Player

	buf          []int16 // interleaved L/R
	r            int
	w            int
	n            int
	lastL, lastR int16 // held on underrun

	dropped uint64
}

func newAudioDAC() (*audioDAC, error) {
	a := &audioDAC{buf: make([]int16, 2*audioSampleRate/10)}
	ctx := audio.CurrentContext()
	if ctx == nil {
		ctx = audio.NewContext(audioSampleRate)
	} else if ctx.SampleRate() != audioSampleRate {
		return nil, errors.New("host audio: ebiten audio context sample rate is fixed")
	}
	a.ctx = ctx

	p, err := ctx.NewPlayer(&audioDACReader{a: a})
	if err != nil {
		return nil, err
	}
	p.SetBufferSize(50 * time.Millisecond)
	p.Play()
	a.player = p
	return a, nil
}

// dacToSample maps a 12-bit code around the centre of the int16 range.
func dacToSample(v uint16) int16 {
	return int16((int32(clampCode(v)) - 2048) << 4)
}

// WriteXY queues one frame. It never blocks: a full buffer drops the frame.
func (a *audioDAC) WriteXY(x, y uint16) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.n+2 > len(a.buf) {
		a.dropped++
		return nil
	}
	a.buf[a.w] = dacToSample(x)
	a.buf[a.w+1] = dacToSample(y)
	a.w = (a.w + 2) % len(a.buf)
	a.n += 2
	return nil
}

func (a *audioDAC) Close() error {
	a.mu.Lock()
	p := a.player
	a.player = nil
	a.mu.Unlock()
	if p != nil {
		return p.Close()
	}
	return nil
}

type audioDACReader struct {
	a *audioDAC
}

func (r *audioDACReader) Read(p []byte) (int, error) {
	a := r.a
	a.mu.Lock()
	defer a.mu.Unlock()
	// Ebiten audio expects 16-bit little-endian stereo.
	for i := 0; i+3 < len(p); i += 4 {
		if a.n >= 2 {
			a.lastL = a.buf[a.r]
			a.lastR = a.buf[a.r+1]
			a.r = (a.r + 2) % len(a.buf)
			a.n -= 2
		}
		p[i+0] = byte(a.lastL)
		p[i+1] = byte(a.lastL >> 8)
		p[i+2] = byte(a.lastR)
		p[i+3] = byte(a.lastR >> 8)
	}
	return len(p) &^ 3, nil
}
