//go:build !tinygo

package hal

import "testing"

func TestHostScopeTrail(t *testing.T) {
	s := newHostScope()
	s.setLaser(true)
	for i := 0; i < scopeTrail+10; i++ {
		if err := s.WriteXY(uint16(i), 5000); err != nil {
			t.Fatalf("WriteXY() = %v", err)
		}
	}

	got := s.snapshot(nil, 3)
	if len(got) != 3 {
		t.Fatalf("snapshot() len = %d, want 3", len(got))
	}
	last := uint16(scopeTrail + 9)
	if got[2].X != clampCode(last) || got[0].X != clampCode(last-2) {
		t.Fatalf("snapshot() = %+v, want newest last", got)
	}
	if got[2].Y != DACMax || !got[2].Laser {
		t.Fatalf("sample = %+v, want clamped Y and laser on", got[2])
	}
	if all := s.snapshot(nil, 0); len(all) != scopeTrail {
		t.Fatalf("snapshot(all) len = %d, want %d", len(all), scopeTrail)
	}
	if s.count() != scopeTrail+10 {
		t.Fatalf("count() = %d", s.count())
	}
}

type recordDAC struct {
	xs, ys []uint16
}

func (d *recordDAC) WriteXY(x, y uint16) error {
	d.xs = append(d.xs, x)
	d.ys = append(d.ys, y)
	return nil
}

func TestHostScopeTee(t *testing.T) {
	s := newHostScope()
	tee := &recordDAC{}
	s.tee = tee

	s.WriteXY(100, 200)
	if len(tee.xs) != 1 || tee.xs[0] != 100 || tee.ys[0] != 200 {
		t.Fatalf("tee got %v/%v, want [100]/[200]", tee.xs, tee.ys)
	}
}

func TestHostLaserPinDrivesScope(t *testing.T) {
	h := newHostHAL(HostConfig{})
	defer h.close()

	laser := FindPin(h.GPIO(), PinLaser)
	if laser == nil {
		t.Fatal("FindPin(host, LASER) = nil")
	}
	if err := laser.Write(true); err != nil {
		t.Fatalf("laser Write(true) = %v", err)
	}
	if !h.scope.laser.Load() {
		t.Fatal("scope laser = false after pin write, want true")
	}
	if FindPin(h.GPIO(), PinLED) == nil {
		t.Fatal("FindPin(host, LED) = nil")
	}
}
