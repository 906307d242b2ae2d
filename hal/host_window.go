//go:build !tinygo && cgo

package hal

import (
	"image"
	"image/color"

	"lumen/internal/buildinfo"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

const (
	scopeSize = 512
	hudScale  = 2
)

var (
	colorBeam  = color.RGBA{R: 0x30, G: 0xff, B: 0x60, A: 0xff}
	colorBlank = color.RGBA{R: 0x30, G: 0x30, B: 0x50, A: 0xff}
	colorLED   = color.RGBA{R: 0xff, G: 0x40, B: 0x20, A: 0xff}
)

// RunWindow starts a desktop window that shows the simulated galvo beam and
// the HUD framebuffer, and forwards keyboard input. It blocks until the window
// closes.
func RunWindow(newApp func(HAL) func() error, cfg HostConfig) error {
	h := newHostHAL(cfg)
	defer h.close()
	step := newApp(h)

	g := &hostGame{h: h, step: step}
	ebiten.SetWindowTitle("Lumen (" + buildinfo.Short() + ")")
	ebiten.SetWindowSize(scopeSize, scopeSize+h.fb.height*hudScale)
	ebiten.SetTPS(60)
	return ebiten.RunGame(g)
}

type hostGame struct {
	h       *hostHAL
	step    func() error
	samples []ScopeSample

	img     *image.RGBA
	fbImg   *ebiten.Image
	scratch []byte
	fbSeq   uint64
}

func (g *hostGame) Update() error {
	g.h.kbd.poll()
	g.h.t.step()
	if g.step != nil {
		if err := g.step(); err != nil {
			return err
		}
	}
	return nil
}

func (g *hostGame) Draw(screen *ebiten.Image) {
	screen.Fill(color.Black)
	g.drawBeam(screen)
	g.drawHUD(screen)
	if g.h.led.isOn() {
		vector.DrawFilledCircle(screen, scopeSize-10, 10, 4, colorLED, true)
	}
}

func scopeXY(s ScopeSample) (float32, float32) {
	x := float32(s.X) * scopeSize / (DACMax + 1)
	y := float32(DACMax-s.Y) * scopeSize / (DACMax + 1)
	return x, y
}

// drawBeam draws the recent trail; older segments fade out.
func (g *hostGame) drawBeam(screen *ebiten.Image) {
	g.samples = g.h.scope.snapshot(g.samples[:0], 0)
	n := len(g.samples)
	if n < 2 {
		return
	}
	for i := 1; i < n; i++ {
		a, b := g.samples[i-1], g.samples[i]
		x0, y0 := scopeXY(a)
		x1, y1 := scopeXY(b)
		clr := colorBlank
		width := float32(1)
		if b.Laser {
			clr = colorBeam
			width = 2
		}
		fade := uint8(64 + 191*i/n)
		clr.R = uint8(uint16(clr.R) * uint16(fade) / 255)
		clr.G = uint8(uint16(clr.G) * uint16(fade) / 255)
		clr.B = uint8(uint16(clr.B) * uint16(fade) / 255)
		if x0 == x1 && y0 == y1 {
			if b.Laser {
				vector.DrawFilledCircle(screen, x1, y1, width, clr, true)
			}
			continue
		}
		vector.StrokeLine(screen, x0, y0, x1, y1, width, clr, true)
	}
}

func (g *hostGame) drawHUD(screen *ebiten.Image) {
	fb := g.h.fb
	if g.img == nil {
		g.img = image.NewRGBA(image.Rect(0, 0, fb.width, fb.height))
		g.scratch = make([]byte, len(fb.buf))
		g.fbImg = ebiten.NewImage(fb.width, fb.height)
	}

	if seq := fb.snapshotRGB565(g.scratch); seq != g.fbSeq {
		g.fbSeq = seq
		src := g.scratch
		dst := g.img.Pix
		for i := 0; i+1 < len(src) && i/2*4+3 < len(dst); i += 2 {
			r, gg, b := rgb888From565(uint16(src[i]) | uint16(src[i+1])<<8)
			j := (i / 2) * 4
			dst[j+0] = r
			dst[j+1] = gg
			dst[j+2] = b
			dst[j+3] = 0xFF
		}
		g.fbImg.WritePixels(g.img.Pix)
	}

	var op ebiten.DrawImageOptions
	op.GeoM.Scale(hudScale, hudScale)
	op.GeoM.Translate(0, scopeSize)
	screen.DrawImage(g.fbImg, &op)
}

func (g *hostGame) Layout(outsideWidth, outsideHeight int) (int, int) {
	return scopeSize, scopeSize + g.h.fb.height*hudScale
}
