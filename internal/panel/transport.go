package panel

// Transport is the write side of the panel control link. Implementations
// deliver the buffer as a single DCS transaction: the first byte selects
// the command, the remainder are its parameters. Write must not return
// before the transaction has completed on the wire.
//
// The panel never opens, configures or closes the transport; it is borrowed
// from the caller and must outlive the handle.
type Transport interface {
	Write(buf []byte) error
}

// Reader is an optional transport capability used for brightness read-back
// and diagnostics. Transports that cannot read (write-only bridges) simply
// do not implement it; the panel discovers the capability by assertion.
type Reader interface {
	Read(cmd byte, n int) ([]byte, error)
}

// LinkModeSetter is an optional transport capability that switches the link
// between low-power command mode and high-speed mode. The init sequence
// runs in low-power mode; brightness transactions require high-speed mode.
type LinkModeSetter interface {
	SetLowPower(on bool) error
}

// MaxReturnSizer is an optional transport capability that negotiates the
// largest read-back payload the peripheral may return in one transaction.
// Only the diagnostic read path uses it.
type MaxReturnSizer interface {
	SetMaxReturnSize(n int) error
}

// Rail is the panel power supply. Enable must not return before the rail
// is stable enough for the reset sequence to start.
type Rail interface {
	Enable() error
	Disable() error
}

// Line is a level-set output such as the panel reset line. For the reset
// line, true releases the controller from reset and false holds it there.
type Line interface {
	Set(level bool) error
}

// AuxLine is a transient secondary enable line used only while powering the
// panel up or down. It is acquired, driven and released within a single
// lifecycle call and never held across calls. Acquisition may legitimately
// fail when firmware already owns the line.
type AuxLine interface {
	// Acquire claims the line and returns its release function. The caller
	// must invoke release on every exit path.
	Acquire() (release func(), err error)
	Line
}

// setLowPower flips the link mode when the transport supports it. Missing
// support is not an error here: bridge transports have no low-power mode
// and run every command the same way.
func setLowPower(t Transport, on bool) error {
	lm, ok := t.(LinkModeSetter)
	if !ok {
		return nil
	}
	return lm.SetLowPower(on)
}
