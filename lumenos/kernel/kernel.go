// Package kernel is a small cooperative scheduler with fixed-size mailboxes.
//
// Tasks run one Step at a time on the scheduler goroutine. Messages may be
// posted from any goroutine; wakeups and ticks are handed over through atomics
// and applied at the start of the next Kernel.Step.
package kernel

import (
	"errors"
	"sync/atomic"
)

const (
	maxTasks     = 16
	maxEndpoints = 16
	mailboxSlots = 8
)

// MaxMessageBytes is the maximum payload size for IPC messages.
const MaxMessageBytes = 96

var (
	ErrTooManyTasks     = errors.New("kernel: too many tasks")
	ErrTooManyEndpoints = errors.New("kernel: too many endpoints")
)

type TaskID uint8

// Rights define which operations are allowed for a capability.
type Rights uint8

const (
	RightSend Rights = 1 << iota
	RightRecv
)

// Endpoint identifies an IPC destination.
type Endpoint uint8

// Capability grants access to an IPC endpoint.
//
// It is opaque by construction (no exported fields).
type Capability struct {
	ep     Endpoint
	rights Rights
}

func (c Capability) Valid() bool { return c.rights != 0 }

func (c Capability) canSend() bool { return c.rights&RightSend != 0 }
func (c Capability) canRecv() bool { return c.rights&RightRecv != 0 }

// Restrict returns a capability with a reduced set of rights.
func (c Capability) Restrict(rights Rights) Capability {
	if !c.Valid() {
		return Capability{}
	}
	r := c.rights & rights
	if r == 0 {
		return Capability{}
	}
	return Capability{ep: c.ep, rights: r}
}

// Message is a fixed-size IPC envelope.
type Message struct {
	To   Endpoint
	Kind uint16
	Len  uint16
	Data [MaxMessageBytes]byte
}

// Payload returns the valid part of Data.
func (m *Message) Payload() []byte {
	n := int(m.Len)
	if n > MaxMessageBytes {
		n = MaxMessageBytes
	}
	return m.Data[:n]
}

// SendResult describes the outcome of a send attempt.
type SendResult uint8

const (
	SendOK SendResult = iota
	SendErrInvalidCap
	SendErrNoSendRight
	SendErrNoEndpoint
	SendErrPayloadTooLarge
	SendErrQueueFull
)

func (r SendResult) String() string {
	switch r {
	case SendOK:
		return "ok"
	case SendErrInvalidCap:
		return "invalid capability"
	case SendErrNoSendRight:
		return "capability has no send right"
	case SendErrNoEndpoint:
		return "no such endpoint"
	case SendErrPayloadTooLarge:
		return "payload too large"
	case SendErrQueueFull:
		return "queue full"
	default:
		return "unknown"
	}
}

// Task is a cooperative unit of execution. Step must return promptly.
type Task interface {
	Step(*Context)
}

type endpointState struct {
	q        mailbox
	waitMask atomic.Uint32
}

type taskState struct {
	task     Task
	runnable bool
	dead     bool
}

// Kernel is a minimal cooperative scheduler plus IPC router.
type Kernel struct {
	endpoints     [maxEndpoints]endpointState
	endpointCount atomic.Uint32

	tasks     [maxTasks]taskState
	taskCount TaskID
	rr        TaskID

	wake atomic.Uint32

	tick         atomic.Uint64
	seenTick     uint64
	tickWaitMask uint32
}

// New creates a kernel instance.
func New() *Kernel {
	return &Kernel{}
}

// NewEndpoint allocates a new endpoint and returns a capability for it.
// Endpoints are allocated during setup, before the scheduler runs.
func (k *Kernel) NewEndpoint(rights Rights) (Capability, error) {
	n := k.endpointCount.Load()
	if n >= maxEndpoints {
		return Capability{}, ErrTooManyEndpoints
	}
	k.endpointCount.Store(n + 1)
	return Capability{ep: Endpoint(n), rights: rights}, nil
}

// AddTask registers a task and returns its ID.
func (k *Kernel) AddTask(t Task) (TaskID, error) {
	if k.taskCount >= maxTasks {
		return 0, ErrTooManyTasks
	}
	id := k.taskCount
	k.taskCount++
	k.tasks[id] = taskState{task: t, runnable: true}
	return id, nil
}

// Step runs at most one runnable task step. It reports whether a task ran and
// made progress (see Context.Yield).
func (k *Kernel) Step() bool {
	k.applyWakeups()
	if k.taskCount == 0 {
		return false
	}

	for i := TaskID(0); i < k.taskCount; i++ {
		id := (k.rr + i) % k.taskCount
		st := &k.tasks[id]
		if st.task == nil || st.dead || !st.runnable {
			continue
		}

		k.rr = (id + 1) % k.taskCount
		ctx := Context{k: k, taskID: id}
		if !k.runTask(st, &ctx) {
			st.dead = true
			return true
		}
		k.park(id, st, &ctx)
		return !ctx.idle
	}
	return false
}

func (k *Kernel) runTask(st *taskState, ctx *Context) (ok bool) {
	defer func() {
		if r := recover(); r != nil {
			triggerPanic(PanicInfo{TaskID: ctx.taskID, Value: r})
			ok = false
		}
	}()
	st.task.Step(ctx)
	return true
}

func (k *Kernel) park(id TaskID, st *taskState, ctx *Context) {
	if !ctx.blocked {
		return
	}
	if ctx.blockOnTick {
		st.runnable = false
		k.tickWaitMask |= 1 << id
		return
	}
	if Endpoint(k.endpointCount.Load()) <= ctx.blockOn {
		return
	}
	ep := &k.endpoints[ctx.blockOn]
	casOr(&ep.waitMask, 1<<id)
	st.runnable = false
	// A message posted between the task's last TryRecv and the mask update
	// must not be missed.
	if !ep.q.empty() {
		st.runnable = true
		casAndNot(&ep.waitMask, 1<<id)
	}
}

func (k *Kernel) applyWakeups() {
	if now := k.tick.Load(); now != k.seenTick {
		k.seenTick = now
		k.wakeMask(k.tickWaitMask)
		k.tickWaitMask = 0
	}
	if w := k.wake.Swap(0); w != 0 {
		k.wakeMask(w)
	}
}

func (k *Kernel) wakeMask(mask uint32) {
	for tid := TaskID(0); tid < k.taskCount; tid++ {
		if mask&(1<<tid) != 0 {
			k.tasks[tid].runnable = true
		}
	}
}

// Tick advances the timebase by one. Safe from any goroutine.
func (k *Kernel) Tick() { k.tick.Add(1) }

// TickTo moves the timebase forward to seq. Safe from any goroutine.
func (k *Kernel) TickTo(seq uint64) {
	for {
		cur := k.tick.Load()
		if seq <= cur || k.tick.CompareAndSwap(cur, seq) {
			return
		}
	}
}

// NowTick returns the current tick. Safe from any goroutine.
func (k *Kernel) NowTick() uint64 { return k.tick.Load() }

// Post sends a message from outside any task. Safe from any goroutine.
func (k *Kernel) Post(to Capability, kind uint16, payload []byte) SendResult {
	if !to.Valid() {
		return SendErrInvalidCap
	}
	if !to.canSend() {
		return SendErrNoSendRight
	}
	return k.send(to.ep, kind, payload)
}

func (k *Kernel) send(to Endpoint, kind uint16, payload []byte) SendResult {
	if uint32(to) >= k.endpointCount.Load() {
		return SendErrNoEndpoint
	}
	if len(payload) > MaxMessageBytes {
		return SendErrPayloadTooLarge
	}

	var msg Message
	msg.To = to
	msg.Kind = kind
	msg.Len = uint16(len(payload))
	copy(msg.Data[:], payload)

	ep := &k.endpoints[to]
	if !ep.q.push(&msg) {
		return SendErrQueueFull
	}
	if w := ep.waitMask.Swap(0); w != 0 {
		casOr(&k.wake, w)
	}
	return SendOK
}

func (k *Kernel) recv(from Capability) (Message, bool) {
	if !from.Valid() || !from.canRecv() || uint32(from.ep) >= k.endpointCount.Load() {
		return Message{}, false
	}
	return k.endpoints[from.ep].q.pop()
}

func casOr(v *atomic.Uint32, mask uint32) {
	for {
		old := v.Load()
		if old&mask == mask || v.CompareAndSwap(old, old|mask) {
			return
		}
	}
}

func casAndNot(v *atomic.Uint32, mask uint32) {
	for {
		old := v.Load()
		if old&mask == 0 || v.CompareAndSwap(old, old&^mask) {
			return
		}
	}
}
