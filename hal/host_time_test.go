//go:build !tinygo

package hal

import (
	"testing"
	"time"
)

func TestHostTimeAccumulates(t *testing.T) {
	ht := newHostTime()
	t0 := time.Unix(100, 0)

	ht.advance(t0)
	if got := <-ht.Ticks(); got != 1 {
		t.Fatalf("first tick = %d, want 1", got)
	}

	ht.advance(t0.Add(600 * time.Microsecond))
	select {
	case v := <-ht.Ticks():
		t.Fatalf("tick %d before a full millisecond", v)
	default:
	}

	ht.advance(t0.Add(2600 * time.Microsecond))
	if got := <-ht.Ticks(); got != 3 {
		t.Fatalf("tick after 2.6ms = %d, want 3", got)
	}
}
