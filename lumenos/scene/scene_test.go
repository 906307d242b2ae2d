package scene

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"lumen/lumenos/render"
)

const sample = `
# two frames
0 0 blank
255 0
255 255 0x80   # last
---
10 20 blank last
30 40
`

func TestParse(t *testing.T) {
	s, err := Parse(strings.NewReader(sample))
	if err != nil {
		t.Fatalf("Parse() = %v", err)
	}
	if len(s.Frames) != 2 || s.Points() != 5 {
		t.Fatalf("Parse() frames=%d points=%d, want 2/5", len(s.Frames), s.Points())
	}
	want := render.Point8{X: 255, Y: 255, Flags: render.FlagLast}
	if got := s.Frames[0][2]; got != want {
		t.Fatalf("Frames[0][2] = %+v, want %+v", got, want)
	}
	want = render.Point8{X: 10, Y: 20, Flags: render.FlagBlank | render.FlagLast}
	if got := s.Frames[1][0]; got != want {
		t.Fatalf("Frames[1][0] = %+v, want %+v", got, want)
	}
}

func TestParseErrors(t *testing.T) {
	for _, in := range []string{"1", "1 256", "-1 0", "1 2 bright", "1 2 0x100"} {
		if _, err := Parse(strings.NewReader(in)); !errors.Is(err, ErrSyntax) {
			t.Fatalf("Parse(%q) = %v, want ErrSyntax", in, err)
		}
	}
	if _, err := Parse(strings.NewReader("# nothing\n---\n")); !errors.Is(err, ErrEmpty) {
		t.Fatalf("Parse(empty) = %v, want ErrEmpty", err)
	}

	var b strings.Builder
	for i := 0; i <= render.MaxPoints; i++ {
		b.WriteString("1 1\n")
	}
	if _, err := Parse(strings.NewReader(b.String())); !errors.Is(err, ErrFrameLimit) {
		t.Fatalf("Parse(%d points) = %v, want ErrFrameLimit", render.MaxPoints+1, err)
	}
}

func TestWriteParses(t *testing.T) {
	in, _ := Pattern("grid")
	in.Frames[0][1].Flags = render.FlagLast | 0x01

	var buf bytes.Buffer
	if err := Write(&buf, in); err != nil {
		t.Fatalf("Write() = %v", err)
	}
	out, err := Parse(&buf)
	if err != nil {
		t.Fatalf("Parse(Write()) = %v", err)
	}
	if len(out.Frames) != 1 || len(out.Frames[0]) != len(in.Frames[0]) {
		t.Fatalf("Parse(Write()) frames = %d", len(out.Frames))
	}
	for i := range in.Frames[0] {
		if out.Frames[0][i] != in.Frames[0][i] {
			t.Fatalf("point %d = %+v, want %+v", i, out.Frames[0][i], in.Frames[0][i])
		}
	}
}

func TestPatterns(t *testing.T) {
	for _, name := range Patterns() {
		s, ok := Pattern(name)
		if !ok || s.Name != name || len(s.Frames) == 0 {
			t.Fatalf("Pattern(%q) = %+v, %t", name, s, ok)
		}
		for i, f := range s.Frames {
			if len(f) < 2 || len(f) > render.MaxPoints {
				t.Fatalf("%s frame %d has %d points", name, i, len(f))
			}
			if f[0].Flags.LaserOn() {
				t.Fatalf("%s frame %d starts lit, want blanked move", name, i)
			}
		}
	}
	if _, ok := Pattern("spiral"); ok {
		t.Fatal("Pattern(spiral) ok = true")
	}
}

func TestBaseName(t *testing.T) {
	if got := baseName("scenes/star.scene"); got != "star" {
		t.Fatalf("baseName() = %q, want star", got)
	}
}
