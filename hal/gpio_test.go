package hal

import "testing"

type fakeLED struct {
	on bool
}

func (l *fakeLED) High() { l.on = true }
func (l *fakeLED) Low()  { l.on = false }

func TestVirtualPinModes(t *testing.T) {
	pin := newVirtualPin("IN", GPIOCapInput)
	if err := pin.Configure(GPIOModeOutput, GPIOPullNone); err == nil {
		t.Fatal("Configure(output) on input-only pin = nil, want error")
	}
	if err := pin.Configure(GPIOModeInput, GPIOPullUp); err == nil {
		t.Fatal("Configure(pull-up) without capability = nil, want error")
	}
	if err := pin.Configure(GPIOModeInput, GPIOPullNone); err != nil {
		t.Fatalf("Configure(input) = %v", err)
	}
	if err := pin.Write(true); err == nil {
		t.Fatal("Write() on input pin = nil, want error")
	}
}

func TestOutputPinNotifies(t *testing.T) {
	var seen []bool
	pin := newOutputPin(PinLaser, func(level bool) { seen = append(seen, level) })

	if err := pin.Write(true); err != nil {
		t.Fatalf("Write(true) = %v", err)
	}
	if err := pin.Write(false); err != nil {
		t.Fatalf("Write(false) = %v", err)
	}
	if len(seen) != 2 || !seen[0] || seen[1] {
		t.Fatalf("onWrite saw %v, want [true false]", seen)
	}
	level, err := pin.Read()
	if err != nil || level {
		t.Fatalf("Read() = %t, %v; want false", level, err)
	}
}

func TestFindPin(t *testing.T) {
	led := &fakeLED{}
	g := newPinSet(newLEDPin(led), newOutputPin(PinLaser, nil))

	p := FindPin(g, PinLED)
	if p == nil {
		t.Fatal("FindPin(LED) = nil")
	}
	if err := p.Write(true); err != nil || !led.on {
		t.Fatalf("LED pin Write(true) = %v, led on = %t", err, led.on)
	}
	if FindPin(g, PinLaser) == nil {
		t.Fatal("FindPin(LASER) = nil")
	}
	if FindPin(g, "NOPE") != nil {
		t.Fatal("FindPin(NOPE) != nil")
	}
	if FindPin(nil, PinLED) != nil {
		t.Fatal("FindPin(nil) != nil")
	}
	if g.Pin(-1) != nil || g.Pin(2) != nil {
		t.Fatal("Pin() out of range != nil")
	}
}

func TestPinSetSkipsMissingLED(t *testing.T) {
	g := newPinSet(newLEDPin(nil), newOutputPin(PinLaser, nil))
	if got := g.PinCount(); got != 1 {
		t.Fatalf("PinCount() = %d, want 1", got)
	}
}

func TestPinLevels(t *testing.T) {
	laser := newOutputPin(PinLaser, nil)
	g := newPinSet(newLEDPin(&fakeLED{}), laser)
	if err := laser.Write(true); err != nil {
		t.Fatalf("Write(true) = %v", err)
	}

	got := PinLevels(g)
	if len(got) != 2 || !got[PinLaser] || got[PinLED] {
		t.Fatalf("PinLevels() = %v, want LASER high and LED low", got)
	}
	if PinLevels(nil) != nil {
		t.Fatal("PinLevels(nil) != nil")
	}
}
