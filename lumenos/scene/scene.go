// Package scene holds galvo scenes: frames of 8-bit points loaded into the
// render pipeline.
//
// The text format is one point per line:
//
//	# comment
//	x y [flags]
//	---
//
// x and y are 0..255. flags is a number (0x40 blank, 0x80 last) or the words
// "blank" and "last". A line of three or more dashes starts a new frame.
package scene

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"lumen/lumenos/render"
)

var (
	ErrSyntax     = errors.New("scene: syntax error")
	ErrEmpty      = errors.New("scene: no points")
	ErrFrameLimit = errors.New("scene: frame exceeds buffer capacity")
)

// Frame is one image, drawn in order.
type Frame []render.Point8

// Scene is a named sequence of frames.
type Scene struct {
	Name   string
	Frames []Frame
}

// Points returns the total point count.
func (s Scene) Points() int {
	n := 0
	for _, f := range s.Frames {
		n += len(f)
	}
	return n
}

// ParseFile reads a scene file. The scene is named after the file.
func ParseFile(path string) (Scene, error) {
	f, err := os.Open(path)
	if err != nil {
		return Scene{}, err
	}
	defer f.Close()

	s, err := Parse(f)
	if err != nil {
		return Scene{}, fmt.Errorf("%s: %w", path, err)
	}
	s.Name = baseName(path)
	return s, nil
}

// Parse reads the text format from r.
func Parse(r io.Reader) (Scene, error) {
	var (
		s   Scene
		cur Frame
	)
	flush := func() {
		if len(cur) > 0 {
			s.Frames = append(s.Frames, cur)
			cur = nil
		}
	}

	sc := bufio.NewScanner(r)
	line := 0
	for sc.Scan() {
		line++
		text := sc.Text()
		if i := strings.IndexByte(text, '#'); i >= 0 {
			text = text[:i]
		}
		text = strings.TrimSpace(text)
		if text == "" {
			continue
		}
		if len(text) >= 3 && strings.Trim(text, "-") == "" {
			flush()
			continue
		}

		pt, err := parsePoint(text)
		if err != nil {
			return Scene{}, fmt.Errorf("line %d: %w", line, err)
		}
		if len(cur) == render.MaxPoints {
			return Scene{}, fmt.Errorf("line %d: %w (%d)", line, ErrFrameLimit, render.MaxPoints)
		}
		cur = append(cur, pt)
	}
	if err := sc.Err(); err != nil {
		return Scene{}, err
	}
	flush()
	if len(s.Frames) == 0 {
		return Scene{}, ErrEmpty
	}
	return s, nil
}

func parsePoint(text string) (render.Point8, error) {
	fields := strings.Fields(text)
	if len(fields) < 2 {
		return render.Point8{}, fmt.Errorf("%w: want \"x y [flags]\", got %q", ErrSyntax, text)
	}
	x, err := parseCoord(fields[0])
	if err != nil {
		return render.Point8{}, err
	}
	y, err := parseCoord(fields[1])
	if err != nil {
		return render.Point8{}, err
	}

	var flags render.Flags
	for _, f := range fields[2:] {
		switch strings.ToLower(f) {
		case "blank":
			flags |= render.FlagBlank
		case "last":
			flags |= render.FlagLast
		default:
			v, err := strconv.ParseUint(f, 0, 8)
			if err != nil {
				return render.Point8{}, fmt.Errorf("%w: bad flags %q", ErrSyntax, f)
			}
			flags |= render.Flags(v)
		}
	}
	return render.Point8{X: x, Y: y, Flags: flags}, nil
}

func parseCoord(s string) (uint8, error) {
	v, err := strconv.ParseUint(s, 0, 8)
	if err != nil {
		return 0, fmt.Errorf("%w: coordinate %q not in 0..255", ErrSyntax, s)
	}
	return uint8(v), nil
}

// Write encodes s in the text format.
func Write(w io.Writer, s Scene) error {
	bw := bufio.NewWriter(w)
	if s.Name != "" {
		fmt.Fprintf(bw, "# %s\n", s.Name)
	}
	for i, f := range s.Frames {
		if i > 0 {
			bw.WriteString("---\n")
		}
		for _, pt := range f {
			fmt.Fprintf(bw, "%d %d", pt.X, pt.Y)
			if !pt.Flags.LaserOn() {
				bw.WriteString(" blank")
			}
			if pt.Flags.IsLast() {
				bw.WriteString(" last")
			}
			if rest := pt.Flags &^ (render.FlagBlank | render.FlagLast); rest != 0 {
				fmt.Fprintf(bw, " %#02x", uint8(rest))
			}
			bw.WriteByte('\n')
		}
	}
	return bw.Flush()
}

func baseName(path string) string {
	if i := strings.LastIndexAny(path, `/\`); i >= 0 {
		path = path[i+1:]
	}
	if i := strings.LastIndexByte(path, '.'); i > 0 {
		path = path[:i]
	}
	return path
}
