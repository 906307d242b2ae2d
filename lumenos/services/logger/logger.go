package logger

import (
	"lumen/hal"
	"lumen/lumenos/kernel"
	"lumen/lumenos/proto"
)

// maxLinesPerStep bounds the time the service holds the scheduler.
const maxLinesPerStep = 4

type Service struct {
	log hal.Logger
	ep  kernel.Capability
}

func New(log hal.Logger, ep kernel.Capability) *Service {
	return &Service{log: log, ep: ep}
}

func (s *Service) Step(ctx *kernel.Context) {
	for i := 0; i < maxLinesPerStep; i++ {
		msg, ok := ctx.TryRecv(s.ep)
		if !ok {
			ctx.BlockOn(s.ep)
			return
		}
		if s.log == nil || msg.Kind != uint16(proto.MsgLogLine) {
			continue
		}
		s.log.WriteLineBytes(msg.Payload())
	}
}
