package scene

import (
	"fmt"

	"lumen/lumenos/kernel"
	"lumen/lumenos/render"
)

// Loader is the part of the render pipeline the feeder writes to.
type Loader interface {
	WritePoints(sel render.Selector, pts []render.Point8) error
	RequestSwap()
	SwapPending() bool
}

// Feeder is a kernel task that plays a scene: it writes the next frame into
// the inactive buffer and requests a swap every frameTicks, but only once the
// previous swap has been taken. Single-frame scenes are written once.
type Feeder struct {
	dst        Loader
	log        render.Logger
	frameTicks uint64

	scene  Scene
	next   int
	due    uint64
	loaded bool
	held   bool
	frames uint32
}

func NewFeeder(dst Loader, frameTicks uint32, log render.Logger) *Feeder {
	if frameTicks == 0 {
		frameTicks = 1
	}
	return &Feeder{dst: dst, log: log, frameTicks: uint64(frameTicks)}
}

// Load replaces the scene. The first frame goes out on the next step.
func (f *Feeder) Load(s Scene) {
	f.scene = s
	f.next = 0
	f.loaded = false
}

func (f *Feeder) Scene() Scene { return f.scene }

// Hold freezes the current frame.
func (f *Feeder) Hold(on bool) { f.held = on }

func (f *Feeder) Held() bool { return f.held }

// Frames returns how many frames have been handed to the pipeline.
func (f *Feeder) Frames() uint32 { return f.frames }

func (f *Feeder) Step(ctx *kernel.Context) {
	defer ctx.BlockOnTick()

	n := len(f.scene.Frames)
	if n == 0 || f.dst.SwapPending() {
		return
	}
	now := ctx.NowTick()
	if f.loaded && (f.held || n == 1 || now < f.due) {
		return
	}

	if err := f.dst.WritePoints(render.Inactive, f.scene.Frames[f.next]); err != nil {
		f.logf("scene %s frame %d: %v", f.scene.Name, f.next, err)
		f.scene = Scene{}
		return
	}
	f.dst.RequestSwap()
	f.frames++
	f.next = (f.next + 1) % n
	f.due = now + f.frameTicks
	f.loaded = true
}

func (f *Feeder) logf(format string, args ...any) {
	if f.log == nil {
		return
	}
	f.log.WriteLineString("scene: " + fmt.Sprintf(format, args...))
}
