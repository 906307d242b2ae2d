package app

import (
	"fmt"

	"lumen/hal"
	"lumen/lumenos/kernel"
	"lumen/lumenos/proto"
	"lumen/lumenos/render"
	"lumen/lumenos/scene"
)

// renderBudget bounds the producer work done per scheduler step.
const renderBudget = 4 * render.StepRingSize

// renderTask keeps the step ring topped up.
type renderTask struct {
	pipe *render.Pipeline
}

func (t *renderTask) Step(ctx *kernel.Context) {
	if t.pipe.Fill(renderBudget) > 0 {
		return
	}
	if t.pipe.State() == render.StateEmpty {
		ctx.BlockOnTick()
		return
	}
	// Ring full: the timer drains it faster than a kernel tick.
	ctx.Yield()
}

// controlTask applies key presses and remote commands.
type controlTask struct {
	s  *system
	ep kernel.Capability
}

func (t *controlTask) Step(ctx *kernel.Context) {
	for {
		msg, ok := ctx.TryRecv(t.ep)
		if !ok {
			ctx.BlockOn(t.ep)
			return
		}
		t.handle(msg)
	}
}

func (t *controlTask) handle(msg kernel.Message) {
	switch proto.Kind(msg.Kind) {
	case proto.MsgKey:
		key, ok := proto.DecodeKey(msg.Payload())
		if !ok {
			return
		}
		switch key {
		case proto.KeyLeft:
			t.cyclePattern(-1)
		case proto.KeyRight:
			t.cyclePattern(1)
		case proto.KeyUp:
			t.setStepLength(int(t.s.pipe.Config().StepLength) + 1)
		case proto.KeyDown:
			t.setStepLength(int(t.s.pipe.Config().StepLength) - 1)
		case proto.KeySpace:
			held := !t.s.feeder.Held()
			t.s.feeder.Hold(held)
			if held {
				t.s.log.WriteLineString("scene: hold")
			} else {
				t.s.log.WriteLineString("scene: play")
			}
		}
	case proto.MsgPattern:
		name := string(msg.Payload())
		sc, ok := scene.Pattern(name)
		if !ok {
			t.s.log.WriteLineString("scene: unknown pattern " + name)
			return
		}
		t.s.load(sc)
	case proto.MsgStepLength:
		if n, ok := proto.DecodeStepLength(msg.Payload()); ok {
			t.setStepLength(int(n))
		}
	case proto.MsgPPS:
		if pps, ok := proto.DecodePPS(msg.Payload()); ok {
			t.setPPS(pps)
		}
	}
}

// cyclePattern moves through the built-in patterns. A scene loaded from file
// counts as sitting before the first one.
func (t *controlTask) cyclePattern(dir int) {
	names := scene.Patterns()
	cur := -1
	for i, n := range names {
		if n == t.s.patternName() {
			cur = i
		}
	}
	next := (cur + dir + len(names)) % len(names)
	if cur < 0 && dir < 0 {
		next = len(names) - 1
	}
	sc, _ := scene.Pattern(names[next])
	t.s.load(sc)
	t.s.log.WriteLineString("scene: " + names[next])
}

func (t *controlTask) setStepLength(n int) {
	if n < render.MinStepLength || n > 255 {
		return
	}
	cfg := t.s.pipe.Config()
	cfg.StepLength = uint8(n)
	cfg = t.s.pipe.SetConfig(cfg)
	t.s.stepLen.Store(uint32(cfg.StepLength))
}

// setPPS changes the output rate. Out of range values are clamped; the
// pipeline's rate hook moves the step timer.
func (t *controlTask) setPPS(pps uint32) {
	if pps == 0 {
		return
	}
	cfg := t.s.pipe.Config()
	if cfg.PPS == pps {
		return
	}
	cfg.PPS = pps
	cfg = t.s.pipe.SetConfig(cfg)
	t.s.log.WriteLineString(fmt.Sprintf("render: %d pps", cfg.PPS))
}

const (
	heartbeatTicks = 250
	hudTicks       = 100
)

// statusTask blinks the LED and redraws the HUD.
//
// The LED blinks while a scene renders, stays off while the pipeline waits for
// points, and stays on after a fault until the next buffer swap.
type statusTask struct {
	s   *system
	led hal.GPIOPin

	lastFaults uint32
	faultSwaps uint32
	faulted    bool
	beat       bool
	nextBeat   uint64
	nextHUD    uint64
}

func (t *statusTask) Step(ctx *kernel.Context) {
	defer ctx.BlockOnTick()
	if kernel.InPanicMode() {
		t.setLED(true)
		return
	}
	now := ctx.NowTick()
	st := t.s.pipe.Snapshot()

	if f := st.Faults(); f != t.lastFaults {
		t.lastFaults = f
		t.faulted = true
		t.faultSwaps = st.Swaps
	} else if t.faulted && st.Swaps != t.faultSwaps {
		t.faulted = false
	}

	if now >= t.nextBeat {
		t.nextBeat = now + heartbeatTicks
		t.beat = !t.beat
	}
	t.setLED(t.faulted || (t.beat && st.State != render.StateEmpty))

	if t.s.hud != nil && now >= t.nextHUD {
		t.nextHUD = now + hudTicks
		t.s.hud.draw(hudInfo{
			pattern: t.s.patternName(),
			pps:     t.s.pipe.Config().PPS,
			step:    t.s.pipe.Config().StepLength,
			held:    t.s.feeder.Held(),
			faulted: t.faulted,
			stats:   st,
		})
	}
}

func (t *statusTask) setLED(on bool) {
	if t.led == nil {
		return
	}
	_ = t.led.Write(on)
}
