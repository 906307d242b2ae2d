package app

import (
	"fmt"
	"image/color"

	"lumen/hal"
	"lumen/lumenos/render"

	"tinygo.org/x/drivers"
	"tinygo.org/x/tinyfont"
	"tinygo.org/x/tinyfont/proggy"
)

var (
	colorHUDBG    = color.RGBA{R: 0x00, G: 0x00, B: 0x00, A: 0xff}
	colorHUDFG    = color.RGBA{R: 0x30, G: 0xff, B: 0x60, A: 0xff}
	colorHUDDim   = color.RGBA{R: 0x88, G: 0x88, B: 0x88, A: 0xff}
	colorHUDFault = color.RGBA{R: 0xff, G: 0x40, B: 0x20, A: 0xff}
)

const hudLineHeight = 12

type hudInfo struct {
	pattern string
	pps     uint32
	step    uint8
	held    bool
	faulted bool
	stats   render.Stats
}

// hud draws the status lines into the display framebuffer.
type hud struct {
	d    *fbDisplay
	font tinyfont.Fonter
}

func newHUD(fb hal.Framebuffer) *hud {
	if fb == nil || fb.Format() != hal.PixelFormatRGB565 || fb.Buffer() == nil {
		return nil
	}
	return &hud{d: newFBDisplay(fb), font: &proggy.TinySZ8pt7b}
}

func (h *hud) draw(info hudInfo) {
	w, _ := h.d.Size()
	_ = h.d.FillRectangle(0, 0, w, 3*hudLineHeight+4, colorHUDBG)

	mode := "play"
	if info.held {
		mode = "hold"
	}
	st := info.stats
	h.line(0, colorHUDFG, fmt.Sprintf("%s  %s  %dpps  step %d", info.pattern, mode, info.pps, info.step))
	h.line(1, colorHUDDim, fmt.Sprintf("%s  swaps %d  ring %d/%d", st.State, st.Swaps, st.Buffered, render.StepRingSize-1))

	c := colorHUDDim
	if info.faulted {
		c = colorHUDFault
	}
	h.line(2, c, fmt.Sprintf("underrun %d  faults %d", st.Underruns, st.Faults()))
	_ = h.d.Display()
}

func (h *hud) line(row int16, c color.RGBA, s string) {
	tinyfont.WriteLine(h.d, h.font, 2, (row+1)*hudLineHeight, s, c)
}

// fbDisplay adapts a hal.Framebuffer to drivers.Displayer.
type fbDisplay struct {
	fb hal.Framebuffer
}

func newFBDisplay(fb hal.Framebuffer) *fbDisplay {
	return &fbDisplay{fb: fb}
}

func (d *fbDisplay) Size() (x, y int16) {
	if d.fb == nil {
		return 0, 0
	}
	return int16(d.fb.Width()), int16(d.fb.Height())
}

func (d *fbDisplay) SetPixel(x, y int16, c color.RGBA) {
	if d.fb == nil || d.fb.Format() != hal.PixelFormatRGB565 {
		return
	}
	buf := d.fb.Buffer()
	if buf == nil {
		return
	}

	ix, iy := int(x), int(y)
	if ix < 0 || ix >= d.fb.Width() || iy < 0 || iy >= d.fb.Height() {
		return
	}
	off := iy*d.fb.StrideBytes() + ix*2
	if off < 0 || off+1 >= len(buf) {
		return
	}
	pixel := hal.RGB565(c.R, c.G, c.B)
	buf[off] = byte(pixel)
	buf[off+1] = byte(pixel >> 8)
}

func (d *fbDisplay) Display() error {
	if d.fb == nil {
		return nil
	}
	return d.fb.Present()
}

func (d *fbDisplay) FillRectangle(x, y, width, height int16, c color.RGBA) error {
	if d.fb == nil || d.fb.Format() != hal.PixelFormatRGB565 {
		return nil
	}
	buf := d.fb.Buffer()
	if buf == nil {
		return nil
	}

	w, h := d.fb.Width(), d.fb.Height()
	x0 := clampInt(int(x), 0, w)
	y0 := clampInt(int(y), 0, h)
	x1 := clampInt(int(x)+int(width), 0, w)
	y1 := clampInt(int(y)+int(height), 0, h)
	if x0 >= x1 || y0 >= y1 {
		return nil
	}

	pixel := hal.RGB565(c.R, c.G, c.B)
	lo, hi := byte(pixel), byte(pixel>>8)
	stride := d.fb.StrideBytes()
	for py := y0; py < y1; py++ {
		row := py * stride
		for px := x0; px < x1; px++ {
			off := row + px*2
			if off+1 >= len(buf) {
				break
			}
			buf[off] = lo
			buf[off+1] = hi
		}
	}
	return nil
}

func (d *fbDisplay) SetRotation(drivers.Rotation) error { return nil }

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
