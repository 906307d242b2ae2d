//go:build !tinygo

package app

import (
	"lumen/hal"
	"lumen/lumenos/proto"
	"lumen/lumenos/telemetry"
)

func (s *system) startTelemetry() error {
	if s.cfg.Telemetry == "" {
		return nil
	}
	srv, err := telemetry.New(telemetry.Config{
		Addr:    s.cfg.Telemetry,
		Source:  s.telemetryStatus,
		Command: s.telemetryCommand,
		Log:     s.log.WriteLineString,
	})
	if err != nil {
		return err
	}
	addr, err := srv.Start()
	if err != nil {
		return err
	}
	s.log.WriteLineString("telemetry: ws://" + addr + "/ws")
	return nil
}

func (s *system) telemetryStatus() telemetry.Status {
	st := telemetry.NewStatus(s.pipe.Snapshot())
	st.Tick = s.k.NowTick()
	st.Pattern = s.patternName()
	st.PPS = s.pps.Load()
	st.StepLength = uint8(s.stepLen.Load())
	st.Pins = hal.PinLevels(s.h.GPIO())
	return st
}

// telemetryCommand runs on a connection goroutine; it only posts messages.
func (s *system) telemetryCommand(c telemetry.Command) {
	if c.Pattern != "" {
		s.k.Post(s.ctrl, uint16(proto.MsgPattern), proto.PatternPayload(c.Pattern))
	}
	if c.StepLength != 0 {
		s.k.Post(s.ctrl, uint16(proto.MsgStepLength), proto.StepLengthPayload(c.StepLength))
	}
	if c.PPS != 0 {
		s.k.Post(s.ctrl, uint16(proto.MsgPPS), proto.PPSPayload(c.PPS))
	}
}
