package panel

// defaultInitTable is the factory initialization program for the ILI9806E
// at 480x800. The values come from the vendor bring-up sequence and are
// tied to this specific glass; they are not meant to be edited per board.
var defaultInitTable = []Instruction{
	// Page 1: interface, inversion and power settings.
	SwitchPage(0x01),
	WriteRegister(0x08, 0x10), // output SDA
	WriteRegister(0x21, 0x01), // DE active high
	WriteRegister(0x30, 0x02), // 480x800
	WriteRegister(0x31, 0x02), // 2-dot inversion
	WriteRegister(0x40, 0x16), // AVDD/AVEE charge pump
	WriteRegister(0x41, 0x33),
	WriteRegister(0x42, 0x02), // VGH/VGL
	WriteRegister(0x43, 0x09), // VGH clamp
	WriteRegister(0x44, 0x09), // VGL clamp
	WriteRegister(0x50, 0x78), // VGMP 4.5V
	WriteRegister(0x51, 0x78), // VGMN 4.5V
	WriteRegister(0x52, 0x00), // flicker
	WriteRegister(0x53, 0x5E),
	WriteRegister(0x60, 0x07), // SDTI
	WriteRegister(0x61, 0x00), // CRTI
	WriteRegister(0x62, 0x08), // EQTI
	WriteRegister(0x63, 0x00), // PCTI

	// Page 1: positive and negative gamma curves.
	SwitchPage(0x01),
	WriteRegister(0xA0, 0x00),
	WriteRegister(0xA1, 0x1B),
	WriteRegister(0xA2, 0x24),
	WriteRegister(0xA3, 0x11),
	WriteRegister(0xA4, 0x07),
	WriteRegister(0xA5, 0x0C),
	WriteRegister(0xA6, 0x08),
	WriteRegister(0xA7, 0x05),
	WriteRegister(0xA8, 0x06),
	WriteRegister(0xA9, 0x0B),
	WriteRegister(0xAA, 0x0E),
	WriteRegister(0xAB, 0x07),
	WriteRegister(0xAC, 0x0E),
	WriteRegister(0xAD, 0x12),
	WriteRegister(0xAE, 0x0C),
	WriteRegister(0xAF, 0x00),
	WriteRegister(0xC0, 0x00),
	WriteRegister(0xC1, 0x1C),
	WriteRegister(0xC2, 0x24),
	WriteRegister(0xC3, 0x11),
	WriteRegister(0xC4, 0x07),
	WriteRegister(0xC5, 0x0C),
	WriteRegister(0xC6, 0x08),
	WriteRegister(0xC7, 0x06),
	WriteRegister(0xC8, 0x07),
	WriteRegister(0xC9, 0x0A),
	WriteRegister(0xCA, 0x0E),
	WriteRegister(0xCB, 0x07),
	WriteRegister(0xCC, 0x0D),
	WriteRegister(0xCD, 0x11),
	WriteRegister(0xCE, 0x0C),
	WriteRegister(0xCF, 0x00),

	// Page 6: GIP timing.
	SwitchPage(0x06),
	WriteRegister(0x00, 0x20),
	WriteRegister(0x01, 0x04),
	WriteRegister(0x02, 0x00),
	WriteRegister(0x03, 0x00),
	WriteRegister(0x04, 0x16),
	WriteRegister(0x05, 0x16),
	WriteRegister(0x06, 0x88),
	WriteRegister(0x07, 0x02),
	WriteRegister(0x08, 0x01),
	WriteRegister(0x09, 0x00),
	WriteRegister(0x0A, 0x00),
	WriteRegister(0x0B, 0x00),
	WriteRegister(0x0C, 0x16),
	WriteRegister(0x0D, 0x16),
	WriteRegister(0x0E, 0x00),
	WriteRegister(0x0F, 0x00),
	WriteRegister(0x10, 0x50),
	WriteRegister(0x11, 0x52),
	WriteRegister(0x12, 0x00),
	WriteRegister(0x13, 0x00),
	WriteRegister(0x14, 0x00),
	WriteRegister(0x15, 0x43),
	WriteRegister(0x16, 0x0B),
	WriteRegister(0x17, 0x00),
	WriteRegister(0x18, 0x00),
	WriteRegister(0x19, 0x00),
	WriteRegister(0x1A, 0x00),
	WriteRegister(0x1B, 0x00),
	WriteRegister(0x1C, 0x00),
	WriteRegister(0x1D, 0x00),
	WriteRegister(0x20, 0x01),
	WriteRegister(0x21, 0x23),
	WriteRegister(0x22, 0x45),
	WriteRegister(0x23, 0x67),
	WriteRegister(0x24, 0x01),
	WriteRegister(0x25, 0x23),
	WriteRegister(0x26, 0x45),
	WriteRegister(0x27, 0x67),
	WriteRegister(0x30, 0x13),
	WriteRegister(0x31, 0x11),
	WriteRegister(0x32, 0x00),
	WriteRegister(0x33, 0x22),
	WriteRegister(0x34, 0x22),
	WriteRegister(0x36, 0x22),
	WriteRegister(0x37, 0xAA),
	WriteRegister(0x38, 0xBB),
	WriteRegister(0x39, 0x66),
	WriteRegister(0x3A, 0x22),
	WriteRegister(0x3B, 0x22),
	WriteRegister(0x3C, 0x22),
	WriteRegister(0x3D, 0x22),
	WriteRegister(0x3E, 0x22),
	WriteRegister(0x3F, 0x22),
	WriteRegister(0x40, 0x22),

	// Page 7: vendor power-on trim.
	SwitchPage(0x07),
	WriteRegister(0x17, 0x22),
	WriteRegister(0x02, 0x77),

	// Page 0 holds the standard DCS commands: leave sleep, display on.
	SwitchPage(0x00),
	WriteRegister(0x11, 0x00),
	WriteRegister(0x29, 0x00),
}

// DefaultInitTable returns the compiled-in initialization program. The
// returned slice is a copy, so callers may truncate or extend it without
// affecting other panel instances.
func DefaultInitTable() []Instruction {
	table := make([]Instruction, len(defaultInitTable))
	copy(table, defaultInitTable)
	return table
}
