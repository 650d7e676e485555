// Package hwio provides the periph.io-backed power rail, reset line and
// auxiliary enable line implementations consumed by the panel core. Pins
// are resolved by name ("GPIO23" style BCM names on a Raspberry Pi).
package hwio

import (
	"fmt"

	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/host/v3"
)

// Init initializes the periph.io host drivers. Safe to call more than
// once; periph caches the result.
func Init() error {
	if _, err := host.Init(); err != nil {
		return fmt.Errorf("hwio: periph host init failed: %w", err)
	}
	return nil
}

// lookup resolves a named GPIO and leaves it configured as an output at
// the given initial level.
func lookup(name string, initial gpio.Level) (gpio.PinOut, error) {
	p := gpioreg.ByName(name)
	if p == nil {
		return nil, fmt.Errorf("hwio: gpio %s not found", name)
	}
	if err := p.Out(initial); err != nil {
		return nil, fmt.Errorf("hwio: gpio %s Out failed: %w", name, err)
	}
	return p, nil
}

// Line drives a single level-set output such as the panel reset line.
type Line struct {
	pin gpio.PinOut
}

// NewLine resolves a named GPIO as a low output.
func NewLine(name string) (*Line, error) {
	pin, err := lookup(name, gpio.Low)
	if err != nil {
		return nil, err
	}
	return &Line{pin: pin}, nil
}

// NewLineFromPin wraps an already-configured pin. Tests use this with
// gpiotest pins.
func NewLineFromPin(pin gpio.PinOut) *Line {
	return &Line{pin: pin}
}

// Set drives the line high for true, low for false.
func (l *Line) Set(level bool) error {
	return l.pin.Out(gpio.Level(level))
}

// Rail switches the panel supply through an enable GPIO. Boards with an
// active-low enable set ActiveLow.
type Rail struct {
	pin       gpio.PinOut
	activeLow bool
}

// NewRail resolves a named GPIO as the rail enable, left in the disabled
// state.
func NewRail(name string, activeLow bool) (*Rail, error) {
	pin, err := lookup(name, gpio.Level(activeLow))
	if err != nil {
		return nil, err
	}
	return &Rail{pin: pin, activeLow: activeLow}, nil
}

// NewRailFromPin wraps an already-configured pin.
func NewRailFromPin(pin gpio.PinOut, activeLow bool) *Rail {
	return &Rail{pin: pin, activeLow: activeLow}
}

func (r *Rail) Enable() error {
	return r.pin.Out(gpio.Level(!r.activeLow))
}

func (r *Rail) Disable() error {
	return r.pin.Out(gpio.Level(r.activeLow))
}

// AuxLine is a secondary enable line that is looked up on demand rather
// than held open: the panel claims it only for the duration of a power
// transition and releases it right after, so firmware that also knows the
// pin can keep using it in between.
type AuxLine struct {
	name string
	pin  gpio.PinOut
}

// NewAuxLine records the pin name; nothing is touched until Acquire.
func NewAuxLine(name string) *AuxLine {
	return &AuxLine{name: name}
}

// Acquire resolves the pin and returns the release function. The release
// halts the pin so other owners can reclaim it.
func (a *AuxLine) Acquire() (func(), error) {
	p := gpioreg.ByName(a.name)
	if p == nil {
		return nil, fmt.Errorf("hwio: gpio %s not found", a.name)
	}
	a.pin = p
	return func() {
		_ = p.Halt()
		a.pin = nil
	}, nil
}

// Set drives the line; valid only between Acquire and its release.
func (a *AuxLine) Set(level bool) error {
	if a.pin == nil {
		return fmt.Errorf("hwio: gpio %s not acquired", a.name)
	}
	return a.pin.Out(gpio.Level(level))
}
