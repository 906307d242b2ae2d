package app

import (
	"sync/atomic"

	"lumen/hal"
	"lumen/lumenos/render"
)

// hwOutput drives the DAC and the laser pin from the step timer.
type hwOutput struct {
	dac   hal.DAC
	laser hal.GPIOPin

	lit       atomic.Bool
	dacErrors atomic.Uint32
}

func newOutput(dac hal.DAC, laser hal.GPIOPin) *hwOutput {
	o := &hwOutput{dac: dac, laser: laser}
	if laser != nil {
		_ = laser.Configure(hal.GPIOModeOutput, hal.GPIOPullNone)
		_ = laser.Write(false)
	}
	return o
}

// dacCode maps a fixed-point coordinate onto the 12-bit DAC range. Q12.4
// points already span 0..4080.
func dacCode(f render.Fixed) uint16 {
	if f < 0 {
		return 0
	}
	if f > hal.DACMax {
		return hal.DACMax
	}
	return uint16(f)
}

func (o *hwOutput) OutputPoint(p render.Vec) {
	if o.dac == nil {
		return
	}
	if err := o.dac.WriteXY(dacCode(p.X), dacCode(p.Y)); err != nil {
		o.dacErrors.Add(1)
	}
}

func (o *hwOutput) SetLaser(on bool) {
	if o.lit.Load() == on {
		return
	}
	o.lit.Store(on)
	if o.laser != nil {
		_ = o.laser.Write(on)
	}
}

// Blank forces the beam off regardless of the cached level.
func (o *hwOutput) Blank() {
	o.lit.Store(false)
	if o.laser != nil {
		_ = o.laser.Write(false)
	}
}

// DACErrors returns the number of failed DAC writes.
func (o *hwOutput) DACErrors() uint32 { return o.dacErrors.Load() }
