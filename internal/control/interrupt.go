package control

func (c *Controller) InterruptGlobalEnable() {
	c.mu.Lock()
	c.gie = true
	c.signal()
	c.mu.Unlock()
}

func (c *Controller) InterruptGlobalDisable() {
	c.mu.Lock()
	c.gie = false
	c.mu.Unlock()
}

func (c *Controller) InterruptEnable(mask uint32) {
	c.mu.Lock()
	c.ier |= mask & intrMask
	c.mu.Unlock()
}

func (c *Controller) InterruptDisable(mask uint32) {
	c.mu.Lock()
	c.ier &^= mask
	c.mu.Unlock()
}

// InterruptClear clears the given status bits.
func (c *Controller) InterruptClear(mask uint32) {
	c.mu.Lock()
	c.isr &^= mask
	c.mu.Unlock()
}

func (c *Controller) InterruptGetEnabled() uint32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.ier
}

func (c *Controller) InterruptGetStatus() uint32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.isr
}

// Interrupt delivers a notification whenever the interrupt line is
// asserted: global enable set and an enabled status bit raised. Pending
// notifications coalesce.
func (c *Controller) Interrupt() <-chan struct{} {
	return c.irq
}

// raise latches enabled sources into the status register. Must be called
// with mu held.
func (c *Controller) raise(sources uint32) {
	c.isr |= sources & c.ier
	c.signal()
}

func (c *Controller) signal() {
	if !c.gie || c.isr == 0 {
		return
	}
	select {
	case c.irq <- struct{}{}:
	default:
	}
}
