package panel

import (
	"errors"
	"fmt"
)

// Sentinel errors for lifecycle and transport-capability failures.
// Use errors.Is() to check for these in calling code.
var (
	// ErrInvalidTransition is returned when a lifecycle call is made from a
	// state that does not support it. The call performs no hardware action
	// and the handle stays usable.
	ErrInvalidTransition = errors.New("panel: invalid lifecycle transition")

	// ErrUnsupported is returned when an operation needs a transport
	// capability (reads, link-mode control) the transport does not provide.
	ErrUnsupported = errors.New("panel: operation not supported by transport")

	// ErrAuxUnavailable marks a failed request for the auxiliary enable
	// line. It is logged and swallowed during prepare/unprepare: the line
	// may already be under firmware control.
	ErrAuxUnavailable = errors.New("panel: auxiliary enable line unavailable")
)

// SequenceError reports the exact instruction at which an initialization
// program aborted, for field diagnosis of bad links or damaged glass.
type SequenceError struct {
	// Index is the zero-based position in the table.
	Index int
	// Instr is the instruction that failed.
	Instr Instruction
	// Err is the underlying transport error.
	Err error
}

func (e *SequenceError) Error() string {
	if e.Instr.op == opSwitchPage {
		return fmt.Sprintf("panel: init sequence aborted at [%d] switch page 0x%02x: %v",
			e.Index, e.Instr.page, e.Err)
	}
	return fmt.Sprintf("panel: init sequence aborted at [%d] cmd 0x%02x data 0x%02x: %v",
		e.Index, e.Instr.cmd, e.Instr.data, e.Err)
}

func (e *SequenceError) Unwrap() error { return e.Err }

// transitionError builds the ErrInvalidTransition for a rejected call.
func transitionError(call string, from State) error {
	return fmt.Errorf("%w: %s while %s", ErrInvalidTransition, call, from)
}
