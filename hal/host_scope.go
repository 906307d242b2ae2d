//go:build !tinygo

package hal

import (
	"sync"
	"sync/atomic"
)

const scopeTrail = 2048

// ScopeSample is one recorded beam position.
type ScopeSample struct {
	X, Y  uint16
	Laser bool
}

// hostScope is the simulated galvo: it keeps the most recent beam samples for
// the preview window and forwards them to an optional secondary DAC.
type hostScope struct {
	laser atomic.Bool

	mu      sync.Mutex
	samples [scopeTrail]ScopeSample
	next    int
	n       int
	writes  uint64

	tee DAC
}

func newHostScope() *hostScope { return &hostScope{} }

func (s *hostScope) setLaser(on bool) { s.laser.Store(on) }

func (s *hostScope) WriteXY(x, y uint16) error {
	x, y = clampCode(x), clampCode(y)
	s.mu.Lock()
	s.samples[s.next] = ScopeSample{X: x, Y: y, Laser: s.laser.Load()}
	s.next = (s.next + 1) % scopeTrail
	if s.n < scopeTrail {
		s.n++
	}
	s.writes++
	tee := s.tee
	s.mu.Unlock()

	if tee != nil {
		return tee.WriteXY(x, y)
	}
	return nil
}

// snapshot appends up to max recent samples, oldest first.
func (s *hostScope) snapshot(dst []ScopeSample, max int) []ScopeSample {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := s.n
	if max > 0 && n > max {
		n = max
	}
	start := (s.next - n + scopeTrail) % scopeTrail
	for i := 0; i < n; i++ {
		dst = append(dst, s.samples[(start+i)%scopeTrail])
	}
	return dst
}

func (s *hostScope) count() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.writes
}
