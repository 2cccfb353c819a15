// Package control wraps an engine in the start/done handshake of a
// memory-mapped accelerator: parameter registers latched on start, done/idle/
// ready status, auto-restart and a maskable interrupt.
//
// The handshake is a three-state machine:
//
//	Idle --Start--> Running --last sample written--> Done --IsDone/Wait--> Idle
//
// Start is also accepted from Done; the unread completion is dropped.
package control

import (
	"context"
	"errors"
	"sync"

	"pixelstream/internal/engine"
	"pixelstream/internal/logger"
	"pixelstream/internal/processing/filters"
	"pixelstream/internal/stream"
)

const component = "Controller"

var ErrNotStarted = errors.New("controller has not been started")

type Controller struct {
	engine *engine.Engine
	logger logger.Logger

	mu          sync.Mutex
	state       State
	autoRestart bool
	gie         bool
	ier         uint32
	isr         uint32

	filter    uint32
	threshold uint32
	width     uint32
	height    uint32

	frames   uint64
	report   engine.FrameReport
	err      error
	finished chan struct{}
	cancel   context.CancelFunc

	irq chan struct{}
}

func New(e *engine.Engine, log logger.Logger) *Controller {
	if log == nil {
		log = logger.NoOpLogger{}
	}
	return &Controller{
		engine: e,
		logger: log,
		irq:    make(chan struct{}, 1),
	}
}

func (c *Controller) SetFilterMode(v uint32) {
	c.mu.Lock()
	c.filter = v & filterBits
	c.mu.Unlock()
}

func (c *Controller) FilterMode() uint32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.filter
}

func (c *Controller) SetThreshold(v uint32) {
	c.mu.Lock()
	c.threshold = v & thresholdBits
	c.mu.Unlock()
}

func (c *Controller) Threshold() uint32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.threshold
}

func (c *Controller) SetWidth(v uint32) {
	c.mu.Lock()
	c.width = v & sizeBits
	c.mu.Unlock()
}

func (c *Controller) Width() uint32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.width
}

func (c *Controller) SetHeight(v uint32) {
	c.mu.Lock()
	c.height = v & sizeBits
	c.mu.Unlock()
}

func (c *Controller) Height() uint32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.height
}

// Configure writes all four parameter registers.
func (c *Controller) Configure(cfg engine.Config) {
	c.SetFilterMode(uint32(cfg.Filter))
	c.SetThreshold(uint32(cfg.Threshold))
	c.SetWidth(uint32(cfg.Width))
	c.SetHeight(uint32(cfg.Height))
}

func (c *Controller) latched() engine.Config {
	return engine.Config{
		Filter:    filters.FilterMode(c.filter),
		Threshold: stream.Sample(c.threshold),
		Width:     int(c.width),
		Height:    int(c.height),
	}
}

// Start latches the parameter registers and begins a frame on src/dst. It
// returns once the frame is running; use Wait, IsDone or Interrupt to learn
// when it finishes. An invalid configuration is rejected and the
// controller stays where it was.
func (c *Controller) Start(ctx context.Context, src stream.Source, dst stream.Sink) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state == StateRunning {
		return engine.ErrBusy
	}

	cfg := c.latched()
	if err := c.engine.Configure(cfg); err != nil {
		return err
	}

	runCtx, cancel := context.WithCancel(ctx)
	c.cancel = cancel
	c.finished = make(chan struct{})
	c.err = nil
	c.report = engine.FrameReport{}
	c.transition(StateRunning)

	go c.loop(runCtx, src, dst, c.finished)
	return nil
}

func (c *Controller) loop(ctx context.Context, src stream.Source, dst stream.Sink, finished chan struct{}) {
	defer close(finished)

	for frame := 0; ; frame++ {
		report, err := c.engine.RunFrame(ctx, src, dst)

		c.mu.Lock()
		if err != nil && frame > 0 && endedBetweenFrames(err) {
			// auto-restart ran out of input on a frame boundary
			err = nil
		} else {
			c.report = report
		}
		if err == nil && report.Samples > 0 {
			c.frames++
			c.raise(IntrDone | IntrReady)
		}
		c.err = err

		if err == nil && c.autoRestart && ctx.Err() == nil && report.Samples > 0 {
			// parameter registers are sampled again on every restart
			if err = c.engine.Configure(c.latched()); err == nil {
				c.mu.Unlock()
				continue
			}
			c.err = err
		}

		c.cancel()
		c.transition(StateDone)
		if err != nil {
			c.logger.Error(component, err, map[string]interface{}{"frame": frame})
		}
		c.mu.Unlock()
		return
	}
}

func endedBetweenFrames(err error) bool {
	var se *engine.StreamError
	return errors.As(err, &se) && se.Row == 0 && se.Col == 0 && errors.Is(err, engine.ErrStreamUnderrun)
}

// transition must be called with mu held.
func (c *Controller) transition(to State) {
	if c.state == to {
		return
	}
	c.logger.Debug(component, "state transition", map[string]interface{}{
		"from": c.state.String(),
		"to":   to.String(),
	})
	c.state = to
}

// Abort cancels the running frame and waits for it to stop.
func (c *Controller) Abort() {
	c.mu.Lock()
	cancel, finished := c.cancel, c.finished
	c.mu.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	<-finished
}

// Wait blocks until the current run finishes and acknowledges completion
// the way a status read does. It returns the last frame's report and the
// error that ended the run, if any.
func (c *Controller) Wait(ctx context.Context) (engine.FrameReport, error) {
	c.mu.Lock()
	finished := c.finished
	c.mu.Unlock()

	if finished == nil {
		return engine.FrameReport{}, ErrNotStarted
	}

	select {
	case <-ctx.Done():
		return engine.FrameReport{}, ctx.Err()
	case <-finished:
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state == StateDone {
		c.transition(StateIdle)
	}
	return c.report, c.err
}

// IsDone reports a finished run. Reading it clears the done flag.
func (c *Controller) IsDone() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state != StateDone {
		return false
	}
	c.transition(StateIdle)
	return true
}

func (c *Controller) IsIdle() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state != StateRunning
}

// IsReady reports whether Start would be accepted now.
func (c *Controller) IsReady() bool {
	return c.IsIdle()
}

func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Frames returns the number of frames completed since creation.
func (c *Controller) Frames() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.frames
}

// Err returns the error that ended the last run.
func (c *Controller) Err() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.err
}

func (c *Controller) EnableAutoRestart() {
	c.mu.Lock()
	c.autoRestart = true
	c.mu.Unlock()
}

// DisableAutoRestart lets the frame in flight finish and then stops.
func (c *Controller) DisableAutoRestart() {
	c.mu.Lock()
	c.autoRestart = false
	c.mu.Unlock()
}

func (c *Controller) Registers() Registers {
	c.mu.Lock()
	defer c.mu.Unlock()

	var ctrl uint32
	switch c.state {
	case StateRunning:
		ctrl |= CtrlStart
	case StateDone:
		ctrl |= CtrlDone | CtrlIdle | CtrlReady
	default:
		ctrl |= CtrlIdle | CtrlReady
	}
	if c.autoRestart {
		ctrl |= CtrlAutoRestart
	}

	var gie uint32
	if c.gie {
		gie = 1
	}
	return Registers{
		Ctrl:      ctrl,
		GIE:       gie,
		IER:       c.ier,
		ISR:       c.isr,
		Filter:    c.filter,
		Threshold: c.threshold,
		Width:     c.width,
		Height:    c.height,
	}
}
