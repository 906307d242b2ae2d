package render

import (
	"errors"
	"testing"
)

func TestFrameBufferWriteRead(t *testing.T) {
	var p FrameBufferPair
	p.Init()

	for i := 0; i < MaxPoints; i++ {
		x, y, f := uint8(i), uint8(255-i), Flags(i)&(FlagBlank|FlagLast)
		if err := p.Write(Inactive, i, x, y, f); err != nil {
			t.Fatalf("Write(%d) = %v, want nil", i, err)
		}
		got, err := p.Read(Inactive, i)
		if err != nil {
			t.Fatalf("Read(%d) = %v, want nil", i, err)
		}
		if got != (Point8{X: x, Y: y, Flags: f}) {
			t.Fatalf("Read(%d) = %+v, want (%d,%d,%#x)", i, got, x, y, f)
		}
	}
}

func TestFrameBufferBounds(t *testing.T) {
	var p FrameBufferPair
	p.Init()

	if err := p.Write(Inactive, MaxPoints, 1, 1, 0); !errors.Is(err, ErrIndexRange) {
		t.Fatalf("Write(MaxPoints) = %v, want ErrIndexRange", err)
	}
	if err := p.Write(Inactive, -1, 1, 1, 0); !errors.Is(err, ErrIndexRange) {
		t.Fatalf("Write(-1) = %v, want ErrIndexRange", err)
	}
	if _, err := p.Read(Active, MaxPoints); !errors.Is(err, ErrIndexRange) {
		t.Fatalf("Read(MaxPoints) = %v, want ErrIndexRange", err)
	}
	if err := p.SetCount(Inactive, MaxPoints+1); !errors.Is(err, ErrCountRange) {
		t.Fatalf("SetCount(MaxPoints+1) = %v, want ErrCountRange", err)
	}
	if err := p.SetCount(Inactive, MaxPoints); err != nil {
		t.Fatalf("SetCount(MaxPoints) = %v, want nil", err)
	}
	if got := p.Buffer(Inactive).Count(); got != MaxPoints {
		t.Fatalf("Count() = %d, want %d", got, MaxPoints)
	}
}

func TestFrameBufferSwapTwiceRestores(t *testing.T) {
	var p FrameBufferPair
	p.Init()

	active, inactive := p.Buffer(Active), p.Buffer(Inactive)
	if active == inactive {
		t.Fatal("active and inactive buffers are the same")
	}

	p.Swap()
	if p.Buffer(Active) != inactive || p.Buffer(Inactive) != active {
		t.Fatal("Swap() did not exchange roles")
	}
	p.Swap()
	if p.Buffer(Active) != active || p.Buffer(Inactive) != inactive {
		t.Fatal("Swap(); Swap() did not restore roles")
	}
}

func TestFrameBufferSwapCarriesContent(t *testing.T) {
	var p FrameBufferPair
	p.Init()

	if err := p.Write(Inactive, 0, 10, 20, FlagBlank); err != nil {
		t.Fatalf("Write() = %v", err)
	}
	if err := p.SetCount(Inactive, 1); err != nil {
		t.Fatalf("SetCount() = %v", err)
	}
	p.Swap()

	if got := p.Buffer(Active).Count(); got != 1 {
		t.Fatalf("active Count() = %d, want 1", got)
	}
	got, err := p.Read(Active, 0)
	if err != nil || got != (Point8{10, 20, FlagBlank}) {
		t.Fatalf("Read(Active, 0) = %+v, %v; want (10,20,blank)", got, err)
	}
	if !p.Buffer(Inactive).Empty() {
		t.Fatal("inactive buffer not empty after swap")
	}

	p.Clear(Active)
	if !p.Buffer(Active).Empty() {
		t.Fatal("Clear(Active) left points")
	}
}

func TestFixedConversions(t *testing.T) {
	for _, c := range []uint8{0, 1, 100, 255} {
		f := FixedFromCoord8(c)
		if f != Fixed(c)*FixedOne {
			t.Fatalf("FixedFromCoord8(%d) = %d, want %d", c, f, int(c)*16)
		}
		if got := f.Coord8(); got != c {
			t.Fatalf("Coord8() = %d, want %d", got, c)
		}
	}
	if got := Fixed(-5).Coord8(); got != 0 {
		t.Fatalf("Fixed(-5).Coord8() = %d, want 0", got)
	}
	if got := Fixed(5000).Coord8(); got != 255 {
		t.Fatalf("Fixed(5000).Coord8() = %d, want 255", got)
	}

	a := V(0, 0)
	b := V(FixedMax, -FixedMax)
	if got := a.Chebyshev(b); got != int32(FixedMax) {
		t.Fatalf("Chebyshev() = %d, want %d", got, FixedMax)
	}
	if got := b.Chebyshev(a); got != int32(FixedMax) {
		t.Fatalf("Chebyshev() reversed = %d, want %d", got, FixedMax)
	}
}
