package hal

import (
	"fmt"

	"tinygo.org/x/drivers"
)

// OutputPin is a push-pull digital output.
type OutputPin interface {
	High()
	Low()
}

// MCP4922 command bits. Bit 14 (buffered reference) and bit 13 (1x gain) stay
// clear: unbuffered reference at 2x gain.
const (
	mcpChannelB = 1 << 15
	mcpActive   = 1 << 12

	mcpWordX = mcpActive
	mcpWordY = mcpChannelB | mcpActive
)

// MCP4922 drives a dual 12-bit SPI DAC: X on channel A, Y on channel B.
// Each channel is one 16-bit big-endian word framed by chip select.
type MCP4922 struct {
	bus drivers.SPI
	cs  OutputPin
	buf [2]byte
}

// NewMCP4922 returns a driver on an already configured SPI bus (mode 0, MSB
// first, up to 20MHz). cs is driven high (idle).
func NewMCP4922(bus drivers.SPI, cs OutputPin) *MCP4922 {
	cs.High()
	return &MCP4922{bus: bus, cs: cs}
}

// WriteXY sets both channels. Codes above DACMax are clamped.
func (d *MCP4922) WriteXY(x, y uint16) error {
	if err := d.write(mcpWordX | clampCode(x)); err != nil {
		return fmt.Errorf("mcp4922: channel A: %w", err)
	}
	if err := d.write(mcpWordY | clampCode(y)); err != nil {
		return fmt.Errorf("mcp4922: channel B: %w", err)
	}
	return nil
}

// Shutdown puts both outputs into high-impedance shutdown.
func (d *MCP4922) Shutdown() error {
	if err := d.write(0); err != nil {
		return err
	}
	return d.write(mcpChannelB)
}

func (d *MCP4922) write(word uint16) error {
	d.buf[0] = byte(word >> 8)
	d.buf[1] = byte(word)
	d.cs.Low()
	err := d.bus.Tx(d.buf[:], nil)
	d.cs.High()
	return err
}

func clampCode(v uint16) uint16 {
	if v > DACMax {
		return DACMax
	}
	return v
}
