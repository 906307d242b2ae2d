//go:build !tinygo

package app

import (
	"testing"

	"lumen/hal"
	"lumen/lumenos/render"
	"lumen/lumenos/telemetry"
)

func TestTelemetryCommandAndStatus(t *testing.T) {
	h := newFakeHAL(false)
	h.timer = &fakeTimer{hz: render.DefaultPPS}
	s := newTestSystem(t, h, DefaultConfig())

	st := s.telemetryStatus()
	if st.PPS != DefaultConfig().Render.PPS {
		t.Fatalf("status pps = %d, want %d", st.PPS, DefaultConfig().Render.PPS)
	}

	s.telemetryCommand(telemetry.Command{Pattern: "star", StepLength: 16, PPS: 30000})
	drive(s, 40)

	st = s.telemetryStatus()
	if st.Pattern != "star" || st.StepLength != 16 {
		t.Fatalf("status pattern=%q step=%d, want star/16", st.Pattern, st.StepLength)
	}
	if st.PPS != 30000 || h.timer.rate() != 30000 {
		t.Fatalf("status pps = %d, timer hz = %d; want 30000", st.PPS, h.timer.rate())
	}
	if _, ok := st.Pins[hal.PinLaser]; !ok {
		t.Fatalf("status pins = %v, want %s", st.Pins, hal.PinLaser)
	}
	if st.Counters.Emitted == 0 {
		t.Fatalf("status counters = %+v, want emitted steps", st.Counters)
	}
}
