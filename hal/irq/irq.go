// Package irq masks the periodic output interrupt around short critical sections.
//
// On bare-metal TinyGo targets Disable/Restore map onto runtime/interrupt. Elsewhere
// the "interrupt" is a timer goroutine, and masking is a process-wide lock that the
// timer also takes around each callback (see Run). Sections are not reentrant on host.
package irq

// State is the saved interrupt state returned by Disable.
type State uintptr

// Run executes fn as the interrupt handler would: with interrupts masked.
func Run(fn func()) {
	st := Disable()
	fn()
	Restore(st)
}
