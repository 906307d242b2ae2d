//go:build !tinygo || !baremetal

package irq

import "sync"

var mu sync.Mutex

// Disable blocks the emulated interrupt until Restore.
func Disable() State {
	mu.Lock()
	return 0
}

// Restore releases the emulated interrupt.
func Restore(_ State) {
	mu.Unlock()
}
