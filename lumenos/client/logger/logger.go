package logger

import (
	"sync/atomic"

	"lumen/lumenos/kernel"
	"lumen/lumenos/proto"
)

// Queue forwards log lines to the logger service.
//
// Delivery is best-effort: a full mailbox drops the line and counts it. Lines
// longer than kernel.MaxMessageBytes are truncated.
type Queue struct {
	k       *kernel.Kernel
	to      kernel.Capability
	dropped atomic.Uint32
}

func New(k *kernel.Kernel, to kernel.Capability) *Queue {
	return &Queue{k: k, to: to}
}

func (q *Queue) WriteLineString(s string) {
	if len(s) > kernel.MaxMessageBytes {
		s = s[:kernel.MaxMessageBytes]
	}
	if q.k.Post(q.to, uint16(proto.MsgLogLine), []byte(s)) != kernel.SendOK {
		q.dropped.Add(1)
	}
}

// Dropped returns how many lines were lost.
func (q *Queue) Dropped() uint32 { return q.dropped.Load() }
