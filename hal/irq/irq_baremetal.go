//go:build tinygo && baremetal

package irq

import "runtime/interrupt"

// Disable masks interrupts and returns the previous state.
func Disable() State { return State(interrupt.Disable()) }

// Restore re-enables interrupts as they were before Disable.
func Restore(st State) { interrupt.Restore(interrupt.State(st)) }
