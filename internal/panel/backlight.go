package panel

import "fmt"

// Brightness transactions only work in high-speed mode; the controller
// drops them silently in low-power command mode. Both entry points below
// force the link out of low-power mode and leave it there. Putting it back
// for the next initialization is the init sequence's job, not this one's.

// SetBrightness writes the 16-bit display brightness register.
func (p *Panel) SetBrightness(value uint16) error {
	if err := setLowPower(p.link, false); err != nil {
		return fmt.Errorf("panel: leave low-power mode: %w", err)
	}
	buf := []byte{dcsSetDisplayBrightness, byte(value), byte(value >> 8)}
	if err := p.link.Write(buf); err != nil {
		return fmt.Errorf("panel: set brightness: %w", err)
	}
	return nil
}

// GetBrightness reads the display brightness register back. The wire value
// is 16 bits wide but the reported level is its low byte, matching the
// 8-bit range hosts expose. Returns ErrUnsupported on write-only
// transports.
func (p *Panel) GetBrightness() (uint16, error) {
	r, ok := p.link.(Reader)
	if !ok {
		return 0, fmt.Errorf("%w: brightness read", ErrUnsupported)
	}
	if err := setLowPower(p.link, false); err != nil {
		return 0, fmt.Errorf("panel: leave low-power mode: %w", err)
	}
	raw, err := r.Read(dcsGetDisplayBrightness, 2)
	if err != nil {
		return 0, fmt.Errorf("panel: get brightness: %w", err)
	}
	var value uint16
	if len(raw) > 0 {
		value = uint16(raw[0])
	}
	if len(raw) > 1 {
		value |= uint16(raw[1]) << 8
	}
	return value & 0xFF, nil
}
