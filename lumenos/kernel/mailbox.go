package kernel

import "sync/atomic"

// mailbox is a fixed-size multi-producer, single-consumer queue.
//
// Producers reserve a slot by advancing head, fill it, then mark it ready.
// The consumer only takes a slot once it is marked ready, so a reserved but
// unfilled slot reads as empty.
type mailbox struct {
	_     [0]func() // no copies.
	head  atomic.Uint32
	tail  atomic.Uint32
	ready [mailboxSlots]atomic.Bool
	slots [mailboxSlots]Message
}

func (mb *mailbox) push(msg *Message) bool {
	for {
		head := mb.head.Load()
		if head-mb.tail.Load() >= mailboxSlots {
			return false
		}
		if mb.head.CompareAndSwap(head, head+1) {
			i := head % mailboxSlots
			mb.slots[i] = *msg
			mb.ready[i].Store(true)
			return true
		}
	}
}

func (mb *mailbox) pop() (Message, bool) {
	tail := mb.tail.Load()
	i := tail % mailboxSlots
	if !mb.ready[i].Load() {
		return Message{}, false
	}
	msg := mb.slots[i]
	mb.ready[i].Store(false)
	mb.tail.Store(tail + 1)
	return msg, true
}

func (mb *mailbox) empty() bool {
	return !mb.ready[mb.tail.Load()%mailboxSlots].Load()
}
