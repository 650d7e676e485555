package panel

import (
	"fmt"

	appLog "panelctl/internal/log"
)

// Standard DCS commands the lifecycle uses on page 0.
const (
	dcsEnterSleepMode       byte = 0x10
	dcsSetDisplayOff        byte = 0x28
	dcsSetTearOn            byte = 0x35
	dcsSetDisplayBrightness byte = 0x51
	dcsGetDisplayBrightness byte = 0x52
	dcsWriteControlDisplay  byte = 0x53
	dcsGetID1               byte = 0xDA
)

// writeControlDisplay backlight-control bits (BCTRL | BL).
const (
	ctrlDisplayBacklightOn  byte = 0x24
	ctrlDisplayBacklightOff byte = 0x00
)

// switchPage selects a register page with the vendor unlock sequence. The
// controller keeps its private registers behind pages; every write after
// this targets the selected page. Failure is a link failure, never retried.
func (p *Panel) switchPage(page byte) error {
	buf := [6]byte{0xFF, 0xFF, 0x98, 0x06, 0x04, page}
	if err := p.link.Write(buf[:]); err != nil {
		return err
	}
	if p.prof.PageSettle > 0 {
		p.sleep(p.prof.PageSettle)
	}
	return nil
}

// softwareReset puts the controller back into its power-on register state
// without touching the reset line.
func (p *Panel) softwareReset() error {
	buf := [6]byte{0xFF, 0x00, 0x00, 0x00, 0x00, 0x00}
	if err := p.link.Write(buf[:]); err != nil {
		return err
	}
	p.sleep(p.prof.SoftResetSettle)
	return nil
}

// writeRegister writes one data byte to a register on the current page.
func (p *Panel) writeRegister(cmd, data byte) error {
	return p.link.Write([]byte{cmd, data})
}

// dcs sends a parameterless DCS command.
func (p *Panel) dcs(cmd byte) error {
	return p.link.Write([]byte{cmd})
}

// runInit executes the full initialization program: optional software
// reset, the instruction table in order, tear-effect enable, and the
// optional diagnostic read-back. The table aborts at the first transport
// failure with a SequenceError carrying the failing index; nothing after
// that index is issued.
func (p *Panel) runInit() error {
	if p.prof.SoftReset {
		if err := p.softwareReset(); err != nil {
			return fmt.Errorf("panel: software reset: %w", err)
		}
	}

	for i, instr := range p.table {
		var err error
		switch instr.op {
		case opSwitchPage:
			err = p.switchPage(instr.page)
		case opWriteRegister:
			err = p.writeRegister(instr.cmd, instr.data)
		}
		if err != nil {
			return &SequenceError{Index: i, Instr: instr, Err: err}
		}
	}

	if err := p.writeRegister(dcsSetTearOn, 0x22); err != nil {
		return fmt.Errorf("panel: tear effect on: %w", err)
	}

	if p.prof.DiagnosticRead {
		p.readDiagnostics()
	}
	return nil
}

// readDiagnostics pulls the brightness and ID1 registers back for field
// logs. The path is informational only: a missing read capability or a
// failed read must never abort an otherwise good bring-up.
func (p *Panel) readDiagnostics() {
	r, ok := p.link.(Reader)
	if !ok {
		appLog.Debug("panel: diagnostic read skipped, transport is write-only")
		return
	}

	if err := p.switchPage(0x00); err != nil {
		appLog.Warn("panel: diagnostic read skipped", "err", err)
		return
	}
	if mrs, ok := p.link.(MaxReturnSizer); ok {
		if err := mrs.SetMaxReturnSize(1); err != nil {
			appLog.Warn("panel: max return size negotiation failed", "err", err)
			return
		}
	}

	if raw, err := r.Read(dcsGetDisplayBrightness, 2); err != nil {
		appLog.Warn("panel: brightness read-back failed", "err", err)
	} else if len(raw) >= 2 {
		appLog.Info("panel: brightness read-back",
			"value", uint16(raw[0])|uint16(raw[1])<<8)
	}

	if raw, err := r.Read(dcsGetID1, 1); err != nil {
		appLog.Warn("panel: ID1 read failed", "err", err)
	} else if len(raw) >= 1 {
		appLog.Info("panel: ID1", "id", fmt.Sprintf("0x%02x", raw[0]))
	}
}
