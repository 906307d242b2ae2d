//go:build tinygo && baremetal

package hal

import (
	"machine"
	"time"
)

type tinyGoHAL struct {
	logger *uartLogger
	led    *pinLED
	gpio   GPIO
	fb     Framebuffer
	kbd    Keyboard
	t      *tinyGoTime
	dac    *MCP4922
	timer  *pacedTimer
}

// New returns a Raspberry Pi Pico (RP2040/RP2350) HAL implementation.
//
// UART: UART0 on GP0 (TX) / GP1 (RX), 115200 8N1.
// DAC: MCP4922 on SPI0, SCK GP18, SDO GP19, SDI GP16, CS GP17, 20MHz mode 0.
// Laser enable: GP15, active high.
func New() HAL {
	uart := machine.UART0
	uart.Configure(machine.UARTConfig{
		BaudRate: 115200,
		TX:       machine.GP0,
		RX:       machine.GP1,
	})

	ledPin := machine.LED
	ledPin.Configure(machine.PinConfig{Mode: machine.PinOutput})

	laserPin := machine.GP15
	laserPin.Configure(machine.PinConfig{Mode: machine.PinOutput})
	laserPin.Low()

	cs := machine.GP17
	cs.Configure(machine.PinConfig{Mode: machine.PinOutput})
	spi := machine.SPI0
	logger := &uartLogger{uart: uart}
	if err := spi.Configure(machine.SPIConfig{
		Frequency: 20_000_000,
		SCK:       machine.GP18,
		SDO:       machine.GP19,
		SDI:       machine.GP16,
		Mode:      0,
	}); err != nil {
		logger.WriteLineString("hal: spi0: " + err.Error())
	}

	led := &pinLED{pin: ledPin}
	laser := &machinePin{name: PinLaser, pin: laserPin}
	return &tinyGoHAL{
		logger: logger,
		led:    led,
		gpio:   newPinSet(newLEDPin(led), laser),
		fb:     &stubFramebuffer{w: 128, h: 32, format: PixelFormatRGB565},
		kbd:    &stubKeyboard{},
		t:      newTinyGoTime(),
		dac:    NewMCP4922(spi, cs),
		timer:  newPacedTimer(100 * time.Microsecond),
	}
}

func (h *tinyGoHAL) Logger() Logger       { return h.logger }
func (h *tinyGoHAL) GPIO() GPIO           { return h.gpio }
func (h *tinyGoHAL) Display() Display     { return tinyGoDisplay{fb: h.fb} }
func (h *tinyGoHAL) Input() Input         { return tinyGoInput{kbd: h.kbd} }
func (h *tinyGoHAL) Time() Time           { return h.t }
func (h *tinyGoHAL) DAC() DAC             { return h.dac }
func (h *tinyGoHAL) StepTimer() StepTimer { return h.timer }
