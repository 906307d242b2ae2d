package render

// Flags is the per-point flag byte, laid out as in the ILDA image format.
type Flags uint8

const (
	// FlagBlank turns the laser off for the move towards the point.
	FlagBlank Flags = 0x40
	// FlagLast marks the last point of an image.
	FlagLast Flags = 0x80
)

// LaserOn reports whether the laser is lit at a point carrying these flags.
func (f Flags) LaserOn() bool { return f&FlagBlank == 0 }

// IsLast reports whether the point closes an image.
func (f Flags) IsLast() bool { return f&FlagLast != 0 }

// Point8 is the unit of sparse scene storage.
type Point8 struct {
	X     uint8
	Y     uint8
	Flags Flags
}

// Fixed is a signed Q12.4 coordinate.
type Fixed int16

const (
	// FixedShift is the number of fractional bits.
	FixedShift = 4
	// FixedOne is 1.0 in Fixed.
	FixedOne Fixed = 1 << FixedShift
	// FixedMax is the largest coordinate reachable from a Point8.
	FixedMax Fixed = 255 << FixedShift
)

// FixedFromCoord8 converts an 8-bit coordinate without loss.
func FixedFromCoord8(c uint8) Fixed { return Fixed(int16(c) << FixedShift) }

// Coord8 truncates back to the 8-bit grid.
func (f Fixed) Coord8() uint8 {
	if f < 0 {
		return 0
	}
	if f > FixedMax {
		return 255
	}
	return uint8(f >> FixedShift)
}

func abs32(v int32) int32 {
	if v < 0 {
		return -v
	}
	return v
}

// Vec is a fixed-point position or displacement.
type Vec struct {
	X, Y Fixed
}

// V returns a Vec built from raw fixed-point components.
func V(x, y Fixed) Vec { return Vec{X: x, Y: y} }

// VecFromPoint8 lifts a stored point onto the fixed-point grid.
func VecFromPoint8(p Point8) Vec {
	return Vec{X: FixedFromCoord8(p.X), Y: FixedFromCoord8(p.Y)}
}

func (v Vec) Add(o Vec) Vec { return Vec{v.X + o.X, v.Y + o.Y} }
func (v Vec) Sub(o Vec) Vec { return Vec{v.X - o.X, v.Y - o.Y} }

// Shr shifts both components right (arithmetic shift).
func (v Vec) Shr(k uint8) Vec { return Vec{v.X >> k, v.Y >> k} }

// Chebyshev returns max(|dx|, |dy|) between v and o.
func (v Vec) Chebyshev(o Vec) int32 {
	dx := abs32(int32(o.X) - int32(v.X))
	dy := abs32(int32(o.Y) - int32(v.Y))
	if dx > dy {
		return dx
	}
	return dy
}
