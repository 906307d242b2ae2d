//go:build !tinygo

package hal

import "time"

const hostTickDur = time.Millisecond

// hostTime turns frame callbacks (window or headless loop) into a 1ms tick
// stream. Time between calls is accumulated so ticks are not lost when a frame
// runs late; ticks the consumer cannot take are dropped, not queued.
type hostTime struct {
	ch  chan uint64
	seq uint64

	last time.Time
	acc  time.Duration
}

func newHostTime() *hostTime {
	return &hostTime{ch: make(chan uint64, 1024)}
}

func (t *hostTime) Ticks() <-chan uint64 { return t.ch }

func (t *hostTime) step() { t.advance(time.Now()) }

func (t *hostTime) advance(now time.Time) {
	if t.last.IsZero() {
		t.last = now
		t.emit(1)
		return
	}

	t.acc += now.Sub(t.last)
	t.last = now

	ticks := uint64(t.acc / hostTickDur)
	if ticks == 0 {
		return
	}
	t.acc %= hostTickDur
	t.emit(ticks)
}

func (t *hostTime) emit(n uint64) {
	t.seq += n
	select {
	case t.ch <- t.seq:
	default:
	}
}
