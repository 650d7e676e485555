// Package dbi implements the panel control transport over a 4-wire serial
// display bus: SPI data plus a data/command select pin. Bring-up rigs use
// this to reach the controller's command channel through a bridge board
// when the DSI link itself is driven by the SoC.
//
// A transaction buffer is framed the usual DBI type-C way: the first byte
// goes out with D/C low (command), the remaining bytes with D/C high
// (parameters).
package dbi

import (
	"errors"
	"fmt"

	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/spi"
	"periph.io/x/conn/v3/spi/spireg"
	"periph.io/x/host/v3"
)

// Conn is a write/read capable panel transport on top of an spi.Conn.
type Conn struct {
	bus  spi.Conn
	dc   gpio.PinOut
	port spi.PortCloser
}

// New wraps an already-connected SPI bus and a configured D/C pin.
func New(bus spi.Conn, dc gpio.PinOut) *Conn {
	return &Conn{bus: bus, dc: dc}
}

// Open initializes periph.io, opens the named SPI port ("" for the system
// default) at the given frequency and resolves the D/C pin by name.
func Open(portName, dcName string, freq physic.Frequency) (*Conn, error) {
	if _, err := host.Init(); err != nil {
		return nil, fmt.Errorf("dbi: periph host init failed: %w", err)
	}

	port, err := spireg.Open(portName)
	if err != nil {
		return nil, fmt.Errorf("dbi: failed to open SPI port %q: %w", portName, err)
	}
	if freq == 0 {
		freq = 2 * physic.MegaHertz
	}
	bus, err := port.Connect(freq, spi.Mode0, 8)
	if err != nil {
		_ = port.Close()
		return nil, fmt.Errorf("dbi: failed to connect SPI: %w", err)
	}

	dc := gpioreg.ByName(dcName)
	if dc == nil {
		_ = port.Close()
		return nil, fmt.Errorf("dbi: gpio %s not found", dcName)
	}
	if err := dc.Out(gpio.Low); err != nil {
		_ = port.Close()
		return nil, fmt.Errorf("dbi: gpio %s Out failed: %w", dcName, err)
	}

	return &Conn{bus: bus, dc: dc, port: port}, nil
}

// Write sends one command transaction: buf[0] with D/C low, the rest with
// D/C high.
func (c *Conn) Write(buf []byte) error {
	if len(buf) == 0 {
		return errors.New("dbi: empty transaction")
	}
	if err := c.dc.Out(gpio.Low); err != nil {
		return fmt.Errorf("dbi: d/c select: %w", err)
	}
	if err := c.bus.Tx(buf[:1], nil); err != nil {
		return fmt.Errorf("dbi: command 0x%02x: %w", buf[0], err)
	}
	if len(buf) == 1 {
		return nil
	}
	if err := c.dc.Out(gpio.High); err != nil {
		return fmt.Errorf("dbi: d/c select: %w", err)
	}
	if err := c.bus.Tx(buf[1:], nil); err != nil {
		return fmt.Errorf("dbi: data for 0x%02x: %w", buf[0], err)
	}
	return nil
}

// Read issues the command byte and clocks n response bytes back with D/C
// high.
func (c *Conn) Read(cmd byte, n int) ([]byte, error) {
	if err := c.dc.Out(gpio.Low); err != nil {
		return nil, fmt.Errorf("dbi: d/c select: %w", err)
	}
	if err := c.bus.Tx([]byte{cmd}, nil); err != nil {
		return nil, fmt.Errorf("dbi: command 0x%02x: %w", cmd, err)
	}
	if err := c.dc.Out(gpio.High); err != nil {
		return nil, fmt.Errorf("dbi: d/c select: %w", err)
	}
	out := make([]byte, n)
	// Clock dummy bytes out to shift the response in.
	if err := c.bus.Tx(make([]byte, n), out); err != nil {
		return nil, fmt.Errorf("dbi: read for 0x%02x: %w", cmd, err)
	}
	return out, nil
}

// Close releases the SPI port when the Conn owns it. Conns built with New
// borrow the bus and leave it open.
func (c *Conn) Close() error {
	if c.port == nil {
		return nil
	}
	return c.port.Close()
}
