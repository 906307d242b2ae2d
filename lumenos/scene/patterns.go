package scene

import (
	"math"

	"lumen/lumenos/render"
)

const (
	center = 128
	radius = 100

	starFrames = 24
	circleSegs = 48
	gridLines  = 8
)

var patterns = []struct {
	name  string
	build func() Scene
}{
	{"square", square},
	{"triangle", triangle},
	{"star", star},
	{"circle", circle},
	{"grid", grid},
}

// Patterns lists the built-in pattern names in cycling order.
func Patterns() []string {
	names := make([]string, len(patterns))
	for i, p := range patterns {
		names[i] = p.name
	}
	return names
}

// Pattern builds a built-in pattern by name.
func Pattern(name string) (Scene, bool) {
	for _, p := range patterns {
		if p.name == name {
			s := p.build()
			s.Name = name
			return s, true
		}
	}
	return Scene{}, false
}

// polygon traces a closed outline: a blanked move to the first vertex, then
// lit edges back to it.
func polygon(vs []render.Point8) Frame {
	f := make(Frame, 0, len(vs)+1)
	first := vs[0]
	first.Flags = render.FlagBlank
	f = append(f, first)
	f = append(f, vs[1:]...)
	f = append(f, vs[0])
	return f
}

func pt(x, y float64) render.Point8 {
	return render.Point8{X: clampCoord(x), Y: clampCoord(y)}
}

func clampCoord(v float64) uint8 {
	v = math.Round(v)
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v)
}

func square() Scene {
	lo, hi := float64(center-radius), float64(center+radius)
	return Scene{Frames: []Frame{polygon([]render.Point8{
		pt(lo, lo), pt(hi, lo), pt(hi, hi), pt(lo, hi),
	})}}
}

func triangle() Scene {
	vs := make([]render.Point8, 3)
	for i := range vs {
		a := math.Pi/2 + float64(i)*2*math.Pi/3
		vs[i] = pt(center+radius*math.Cos(a), center+radius*math.Sin(a))
	}
	return Scene{Frames: []Frame{polygon(vs)}}
}

// star is a five-point star drawn in one stroke, turning a full revolution
// over its frames.
func star() Scene {
	s := Scene{Frames: make([]Frame, starFrames)}
	for f := range s.Frames {
		rot := float64(f) * 2 * math.Pi / starFrames
		vs := make([]render.Point8, 5)
		for i := range vs {
			a := math.Pi/2 + rot + float64(i*2)*2*math.Pi/5
			vs[i] = pt(center+radius*math.Cos(a), center+radius*math.Sin(a))
		}
		s.Frames[f] = polygon(vs)
	}
	return s
}

func circle() Scene {
	vs := make([]render.Point8, circleSegs)
	for i := range vs {
		a := float64(i) * 2 * math.Pi / circleSegs
		vs[i] = pt(center+radius*math.Cos(a), center+radius*math.Sin(a))
	}
	return Scene{Frames: []Frame{polygon(vs)}}
}

// grid is a raster scan: lit lines left to right with blanked returns.
func grid() Scene {
	lo, hi := float64(center-radius), float64(center+radius)
	step := (hi - lo) / (gridLines - 1)
	f := make(Frame, 0, 2*gridLines)
	for i := 0; i < gridLines; i++ {
		y := lo + float64(i)*step
		start := pt(lo, y)
		start.Flags = render.FlagBlank
		f = append(f, start, pt(hi, y))
	}
	return Scene{Frames: []Frame{f}}
}
