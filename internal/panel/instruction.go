// Package panel drives an Ilitek ILI9806E display controller through its
// power-up, initialization and power-down lifecycle, and exposes brightness
// control over the same command channel.
//
// The package only sequences the control plane. The physical link (DSI or a
// serial bridge), the power rail and the reset line are collaborators passed
// in at construction; the panel never opens or closes them.
package panel

// op selects the kind of an init-table instruction.
type op uint8

const (
	opSwitchPage op = iota
	opWriteRegister
)

// Instruction is a single step of a panel initialization program: either a
// register-page switch or a one-byte register write on the current page.
// Instructions are immutable values; a full program is an ordered slice
// built once and never mutated.
type Instruction struct {
	op   op
	page byte
	cmd  byte
	data byte
}

// SwitchPage returns an instruction that selects the given register page.
// Every write that follows targets the selected page until the next switch,
// so table order is what guarantees each write lands on the right page.
func SwitchPage(page byte) Instruction {
	return Instruction{op: opSwitchPage, page: page}
}

// WriteRegister returns an instruction that writes one data byte to a
// register on the currently selected page.
func WriteRegister(cmd, data byte) Instruction {
	return Instruction{op: opWriteRegister, cmd: cmd, data: data}
}
