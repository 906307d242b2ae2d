package hal

import "testing"

func TestRGB565RoundTrip(t *testing.T) {
	for _, c := range [][3]uint8{{0, 0, 0}, {255, 255, 255}, {255, 0, 0}, {0, 255, 0}, {0, 0, 255}} {
		r, g, b := rgb888From565(RGB565(c[0], c[1], c[2]))
		if r != c[0] || g != c[1] || b != c[2] {
			t.Fatalf("round trip %v = (%d,%d,%d)", c, r, g, b)
		}
	}
	if got := RGB565(0xff, 0, 0); got != 0xF800 {
		t.Fatalf("RGB565(red) = %#04x, want 0xf800", got)
	}
}
