package control

import "fmt"

// CTRL word bits.
const (
	CtrlStart       uint32 = 1 << 0
	CtrlDone        uint32 = 1 << 1
	CtrlIdle        uint32 = 1 << 2
	CtrlReady       uint32 = 1 << 3
	CtrlAutoRestart uint32 = 1 << 7
)

// Interrupt sources for IER and ISR.
const (
	IntrDone  uint32 = 1 << 0
	IntrReady uint32 = 1 << 1

	intrMask = IntrDone | IntrReady
)

// Parameter register widths.
const (
	filterBits    = 0x7
	thresholdBits = 0xff
	sizeBits      = 0xffff
)

// State is the handshake state of the controller.
type State int

const (
	StateIdle State = iota
	StateRunning
	StateDone
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateRunning:
		return "running"
	case StateDone:
		return "done"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Registers is a snapshot of the register file.
type Registers struct {
	Ctrl      uint32
	GIE       uint32
	IER       uint32
	ISR       uint32
	Filter    uint32
	Threshold uint32
	Width     uint32
	Height    uint32
}

func (r Registers) String() string {
	return fmt.Sprintf("ctrl=%#02x gie=%d ier=%#x isr=%#x filter=%d threshold=%d width=%d height=%d",
		r.Ctrl, r.GIE, r.IER, r.ISR, r.Filter, r.Threshold, r.Width, r.Height)
}
