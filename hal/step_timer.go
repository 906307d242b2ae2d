package hal

import (
	"errors"
	"sync"
	"time"

	"lumen/hal/irq"
)

var ErrTimerRunning = errors.New("step timer: already running")

// maxStepRate bounds the requested rate.
const maxStepRate = 100_000

// pacedTimer emulates a periodic interrupt with a goroutine. Every period it
// computes how many callbacks fell due since start and runs them back to back,
// each inside irq.Run. A stalled goroutine never catches up more than 100ms.
type pacedTimer struct {
	mu      sync.Mutex
	hz      uint32
	stop    chan struct{}
	done    chan struct{}
	period  time.Duration
	rateSet chan uint32
}

func newPacedTimer(period time.Duration) *pacedTimer {
	if period <= 0 {
		period = time.Millisecond
	}
	return &pacedTimer{period: period}
}

func checkRate(hz uint32) error {
	if hz == 0 || hz > maxStepRate {
		return errors.New("step timer: rate out of range")
	}
	return nil
}

func (t *pacedTimer) Start(hz uint32, fn func()) error {
	if err := checkRate(hz); err != nil {
		return err
	}
	if fn == nil {
		return errors.New("step timer: nil callback")
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	if t.stop != nil {
		return ErrTimerRunning
	}
	t.hz = hz
	t.stop = make(chan struct{})
	t.done = make(chan struct{})
	t.rateSet = make(chan uint32, 1)
	go t.run(hz, fn, t.stop, t.done, t.rateSet)
	return nil
}

func (t *pacedTimer) SetRate(hz uint32) error {
	if err := checkRate(hz); err != nil {
		return err
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	t.hz = hz
	if t.rateSet == nil {
		return nil
	}
	select {
	case <-t.rateSet:
	default:
	}
	t.rateSet <- hz
	return nil
}

// Stop halts the timer and waits for the running batch to finish.
func (t *pacedTimer) Stop() {
	t.mu.Lock()
	stop, done := t.stop, t.done
	t.stop, t.done, t.rateSet = nil, nil, nil
	t.mu.Unlock()

	if stop == nil {
		return
	}
	close(stop)
	<-done
}

func (t *pacedTimer) run(hz uint32, fn func(), stop <-chan struct{}, done chan<- struct{}, rate <-chan uint32) {
	defer close(done)

	tk := time.NewTicker(t.period)
	defer tk.Stop()

	start := time.Now()
	var fired uint64
	maxLag := uint64(hz / 10)
	for {
		select {
		case <-stop:
			return
		case hz = <-rate:
			start = time.Now()
			fired = 0
			maxLag = uint64(hz / 10)
		case now := <-tk.C:
			due := dueTicks(now.Sub(start), hz)
			if due-fired > maxLag+1 {
				fired = due - maxLag - 1
			}
			for ; fired < due; fired++ {
				irq.Run(fn)
			}
		}
	}
}

// dueTicks returns how many ticks at hz fit in d.
func dueTicks(d time.Duration, hz uint32) uint64 {
	if d <= 0 {
		return 0
	}
	secs := uint64(d / time.Second)
	rem := uint64(d % time.Second)
	return secs*uint64(hz) + rem*uint64(hz)/uint64(time.Second)
}
