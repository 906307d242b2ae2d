package logger

import (
	"testing"

	clientlog "lumen/lumenos/client/logger"
	"lumen/lumenos/kernel"
)

type lineSink struct {
	lines []string
}

func (s *lineSink) WriteLineString(v string) { s.lines = append(s.lines, v) }
func (s *lineSink) WriteLineBytes(b []byte)  { s.lines = append(s.lines, string(b)) }

func TestServiceDrainsQueue(t *testing.T) {
	k := kernel.New()
	ep, err := k.NewEndpoint(kernel.RightSend | kernel.RightRecv)
	if err != nil {
		t.Fatalf("NewEndpoint() = %v", err)
	}
	sink := &lineSink{}
	if _, err := k.AddTask(New(sink, ep.Restrict(kernel.RightRecv))); err != nil {
		t.Fatalf("AddTask() = %v", err)
	}
	q := clientlog.New(k, ep.Restrict(kernel.RightSend))

	q.WriteLineString("render: swapped buffers")
	q.WriteLineString("render: error-interp")
	for k.Step() {
	}

	if len(sink.lines) != 2 || sink.lines[0] != "render: swapped buffers" || sink.lines[1] != "render: error-interp" {
		t.Fatalf("lines = %q", sink.lines)
	}
	if q.Dropped() != 0 {
		t.Fatalf("Dropped() = %d, want 0", q.Dropped())
	}
}

func TestQueueDropsWhenFull(t *testing.T) {
	k := kernel.New()
	ep, _ := k.NewEndpoint(kernel.RightSend | kernel.RightRecv)
	q := clientlog.New(k, ep.Restrict(kernel.RightSend))

	for i := 0; i < 20; i++ {
		q.WriteLineString("line")
	}
	if q.Dropped() == 0 {
		t.Fatal("Dropped() = 0 after overfilling the mailbox")
	}
}
