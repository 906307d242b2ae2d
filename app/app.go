package app

import (
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"lumen/hal"
	clientlog "lumen/lumenos/client/logger"
	"lumen/lumenos/kernel"
	"lumen/lumenos/proto"
	"lumen/lumenos/render"
	"lumen/lumenos/scene"
	"lumen/lumenos/services/logger"
)

var (
	// ErrHalted is returned by the step function once a task has panicked.
	ErrHalted  = errors.New("app: halted after task panic")
	ErrNoLaser = errors.New("app: no " + hal.PinLaser + " pin")
)

// idleSleep is how long the scheduler backs off when no task made progress.
// It must stay well below the time the step ring covers at high PPS.
const idleSleep = 100 * time.Microsecond

type system struct {
	h   hal.HAL
	cfg Config
	k   *kernel.Kernel

	log    *clientlog.Queue
	out    *hwOutput
	pipe   *render.Pipeline
	feeder *scene.Feeder
	ctrl   kernel.Capability
	hud    *hud

	// Mirrors for readers outside the scheduler goroutine.
	pattern atomic.Pointer[string]
	stepLen atomic.Uint32
	pps     atomic.Uint32

	err atomic.Pointer[error]
}

// New initializes and starts the system with default config.
func New(h hal.HAL) func() error {
	return NewWithConfig(h, DefaultConfig())
}

// Run starts the system and blocks forever (TinyGo/native entrypoint).
func Run(h hal.HAL) {
	RunWithConfig(h, DefaultConfig())
}

// NewWithConfig starts the system and returns the host step function. The
// step function reports startup failures and task panics.
func NewWithConfig(h hal.HAL, cfg Config) func() error {
	s, err := newSystem(h, cfg)
	if err == nil {
		err = s.start()
	}
	if err != nil {
		if l := h.Logger(); l != nil {
			l.WriteLineString("lumen: " + err.Error())
		}
		return func() error { return err }
	}
	return s.check
}

func RunWithConfig(h hal.HAL, cfg Config) {
	_ = NewWithConfig(h, cfg)
	select {}
}

func newSystem(h hal.HAL, cfg Config) (*system, error) {
	sc, err := cfg.initialScene()
	if err != nil {
		return nil, err
	}

	laser := hal.FindPin(h.GPIO(), hal.PinLaser)
	if laser == nil {
		return nil, ErrNoLaser
	}

	k := kernel.New()
	logEP, err := k.NewEndpoint(kernel.RightSend | kernel.RightRecv)
	if err != nil {
		return nil, err
	}
	ctrlEP, err := k.NewEndpoint(kernel.RightSend | kernel.RightRecv)
	if err != nil {
		return nil, err
	}

	s := &system{
		h:    h,
		cfg:  cfg,
		k:    k,
		log:  clientlog.New(k, logEP.Restrict(kernel.RightSend)),
		out:  newOutput(h.DAC(), laser),
		ctrl: ctrlEP.Restrict(kernel.RightSend),
	}
	s.pipe, err = render.New(s.out, cfg.Render, s.log)
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	s.stepLen.Store(uint32(s.pipe.Config().StepLength))
	s.pps.Store(s.pipe.Config().PPS)
	s.pipe.OnRate(s.setRate)
	s.feeder = scene.NewFeeder(s.pipe, cfg.FrameTicks, s.log)
	s.load(sc)

	if d := h.Display(); d != nil {
		s.hud = newHUD(d.Framebuffer())
	}

	tasks := []kernel.Task{
		logger.New(h.Logger(), logEP.Restrict(kernel.RightRecv)),
		&renderTask{pipe: s.pipe},
		s.feeder,
		&controlTask{s: s, ep: ctrlEP.Restrict(kernel.RightRecv)},
		&statusTask{s: s, led: hal.FindPin(h.GPIO(), hal.PinLED)},
	}
	for _, t := range tasks {
		if _, err := k.AddTask(t); err != nil {
			return nil, err
		}
	}

	installPanicHandler(s)
	return s, nil
}

// start launches the step timer and the goroutines feeding the kernel.
func (s *system) start() error {
	if t := s.h.StepTimer(); t != nil {
		if err := t.Start(s.pipe.Config().PPS, s.pipe.Tick); err != nil {
			return fmt.Errorf("step timer: %w", err)
		}
	}

	if ht := s.h.Time(); ht != nil {
		if ch := ht.Ticks(); ch != nil {
			go func() {
				for seq := range ch {
					s.k.TickTo(seq)
				}
			}()
		}
	}

	if in := s.h.Input(); in != nil {
		if kbd := in.Keyboard(); kbd != nil {
			if ch := kbd.Events(); ch != nil {
				go s.forwardKeys(ch)
			}
		}
	}

	if err := s.startTelemetry(); err != nil {
		s.log.WriteLineString("telemetry: " + err.Error())
	}

	cfg := s.pipe.Config()
	s.log.WriteLineString(fmt.Sprintf("lumen: %s, %d pps, step %d",
		s.patternName(), cfg.PPS, cfg.StepLength))
	go s.run()
	return nil
}

// run is the scheduler loop. It keeps going after a task panic so the logger
// can drain.
func (s *system) run() {
	for {
		if !s.k.Step() {
			time.Sleep(idleSleep)
		}
	}
}

// check is the host step function.
func (s *system) check() error {
	if p := s.err.Load(); p != nil {
		return *p
	}
	return nil
}

func (s *system) halt(err error) {
	s.err.CompareAndSwap(nil, &err)
	if t := s.h.StepTimer(); t != nil {
		t.Stop()
	}
	s.out.Blank()
}

// setRate repaces the step timer after a PPS change. It runs wherever
// Pipeline.SetConfig runs.
func (s *system) setRate(pps uint32) {
	s.pps.Store(pps)
	if s.check() != nil {
		return
	}
	if t := s.h.StepTimer(); t != nil {
		if err := t.SetRate(pps); err != nil {
			s.log.WriteLineString("step timer: " + err.Error())
		}
	}
}

func (s *system) forwardKeys(ch <-chan hal.KeyEvent) {
	for ev := range ch {
		if !ev.Press {
			continue
		}
		key := keyFromHAL(ev.Code)
		if key == proto.KeyUnknown {
			continue
		}
		s.k.Post(s.ctrl, uint16(proto.MsgKey), proto.KeyPayload(key))
	}
}

func keyFromHAL(c hal.KeyCode) proto.Key {
	switch c {
	case hal.KeyUp:
		return proto.KeyUp
	case hal.KeyDown:
		return proto.KeyDown
	case hal.KeyLeft:
		return proto.KeyLeft
	case hal.KeyRight:
		return proto.KeyRight
	case hal.KeySpace:
		return proto.KeySpace
	default:
		return proto.KeyUnknown
	}
}

// load switches the feeder to sc. Called from the scheduler goroutine.
func (s *system) load(sc scene.Scene) {
	s.feeder.Load(sc)
	name := sc.Name
	s.pattern.Store(&name)
}

// patternName is safe from any goroutine.
func (s *system) patternName() string {
	if p := s.pattern.Load(); p != nil {
		return *p
	}
	return ""
}
