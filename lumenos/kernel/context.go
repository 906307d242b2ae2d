package kernel

// Context provides task-local access to kernel operations during one Step.
type Context struct {
	k      *Kernel
	taskID TaskID

	blocked     bool
	blockOnTick bool
	blockOn     Endpoint
	idle        bool
}

// TaskID returns the current task ID.
func (c *Context) TaskID() TaskID { return c.taskID }

// TryRecv reads one message from the endpoint without blocking.
func (c *Context) TryRecv(epCap Capability) (Message, bool) {
	return c.k.recv(epCap)
}

// Send sends a message to the capability endpoint.
func (c *Context) Send(toCap Capability, kind uint16, payload []byte) SendResult {
	return c.k.Post(toCap, kind, payload)
}

// BlockOn parks the task until a message arrives at the endpoint.
func (c *Context) BlockOn(epCap Capability) {
	if !epCap.Valid() || !epCap.canRecv() {
		return
	}
	c.blocked = true
	c.blockOnTick = false
	c.blockOn = epCap.ep
}

// BlockOnTick parks the task until the timebase advances.
func (c *Context) BlockOnTick() {
	c.blocked = true
	c.blockOnTick = true
}

// NowTick returns the current tick value.
func (c *Context) NowTick() uint64 { return c.k.NowTick() }

// Yield reports that the task stays runnable but had nothing to do this step.
// Kernel.Step then returns false so the caller may sleep briefly.
func (c *Context) Yield() { c.idle = true }
