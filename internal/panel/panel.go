package panel

import (
	"fmt"
	"time"

	appLog "panelctl/internal/log"
)

// Opts carries the construction-time options for a Panel. The zero value
// selects revision A behavior with the compiled-in init table.
type Opts struct {
	// Profile is the hardware-revision policy. Zero Name means RevisionA.
	Profile Profile

	// Table overrides the initialization program. Nil means the compiled-in
	// ILI9806E table. Tests substitute small synthetic tables here.
	Table []Instruction

	// Aux is the transient secondary enable line, if the board has one.
	Aux AuxLine

	// Sleep replaces time.Sleep for settle delays. Tests inject a
	// recording clock; production leaves it nil.
	Sleep func(time.Duration)
}

// Panel owns one display controller: its power rail, its reset line and a
// borrowed control-link transport. Lifecycle calls must be serialized by
// the caller; the handle holds no lock of its own.
type Panel struct {
	link  Transport
	power Rail
	reset Line
	aux   AuxLine

	prof  Profile
	table []Instruction
	sleep func(time.Duration)

	state State
}

// New builds a panel handle around its collaborators. The transport, rail
// and reset line are borrowed and must outlive the handle.
func New(link Transport, power Rail, reset Line, opts Opts) *Panel {
	p := &Panel{
		link:  link,
		power: power,
		reset: reset,
		aux:   opts.Aux,
		prof:  opts.Profile,
		table: opts.Table,
		sleep: opts.Sleep,
		state: Unprepared,
	}
	if p.prof.Name == "" {
		p.prof = RevisionA()
	}
	if p.table == nil {
		p.table = defaultInitTable
	}
	if p.sleep == nil {
		p.sleep = time.Sleep
	}
	return p
}

// State reports the current lifecycle state.
func (p *Panel) State() State { return p.state }

// Profile reports the revision policy the handle was built with.
func (p *Panel) Profile() Profile { return p.prof }

// Prepare powers the panel rail and sequences the reset line according to
// the revision policy. Valid only while Unprepared.
func (p *Panel) Prepare() error {
	if p.state != Unprepared {
		return transitionError("prepare", p.state)
	}

	release := p.acquireAux(true)
	defer release()

	if p.prof.PulseReset {
		// Revision A ordering: park the controller in reset, bring the
		// rail up, then pulse the line with the two settle windows.
		if err := p.reset.Set(false); err != nil {
			return fmt.Errorf("panel: reset assert: %w", err)
		}
		if err := p.power.Enable(); err != nil {
			return fmt.Errorf("panel: rail enable: %w", err)
		}
		p.sleep(p.prof.ResetHold)
		if err := p.reset.Set(true); err != nil {
			return fmt.Errorf("panel: reset release: %w", err)
		}
		p.sleep(p.prof.ResetSettle)
	} else {
		// Revision B ordering: rail first, settle, release reset, then
		// wait out the vendor reset-to-ready bound.
		if err := p.power.Enable(); err != nil {
			return fmt.Errorf("panel: rail enable: %w", err)
		}
		p.sleep(p.prof.RailSettle)
		if err := p.reset.Set(true); err != nil {
			return fmt.Errorf("panel: reset release: %w", err)
		}
		p.sleep(p.prof.ResetSettle)
	}

	p.state = Prepared
	return nil
}

// Enable runs the initialization program over the control link in
// low-power mode and turns the backlight on. Valid only while Prepared.
//
// A failure anywhere in here leaves the state at Prepared and the table is
// replayed from the start on the next attempt; the controller tolerates a
// partial program as long as it is re-run from instruction zero.
func (p *Panel) Enable() error {
	if p.state != Prepared {
		return transitionError("enable", p.state)
	}

	if err := setLowPower(p.link, true); err != nil {
		return fmt.Errorf("panel: enter low-power mode: %w", err)
	}

	err := p.runInit()

	// The link must be back in high-speed mode whether or not the program
	// completed, otherwise the pixel path and brightness writes wedge.
	if restoreErr := setLowPower(p.link, false); restoreErr != nil && err == nil {
		err = fmt.Errorf("panel: leave low-power mode: %w", restoreErr)
	}
	if err != nil {
		return err
	}

	if p.prof.ManagedBacklight {
		if err := p.writeRegister(dcsWriteControlDisplay, ctrlDisplayBacklightOn); err != nil {
			return fmt.Errorf("panel: backlight on: %w", err)
		}
	}

	p.state = Enabled
	return nil
}

// Disable turns the backlight off and blanks the display. Valid only while
// Enabled.
func (p *Panel) Disable() error {
	if p.state != Enabled {
		return transitionError("disable", p.state)
	}

	if p.prof.ManagedBacklight {
		if err := p.writeRegister(dcsWriteControlDisplay, ctrlDisplayBacklightOff); err != nil {
			return fmt.Errorf("panel: backlight off: %w", err)
		}
	}
	if err := p.dcs(dcsSetDisplayOff); err != nil {
		return fmt.Errorf("panel: display off: %w", err)
	}

	p.state = Disabled
	return nil
}

// Unprepare puts the controller to sleep and drops the power rail. Valid
// only while Disabled. The sleep command is always attempted before the
// rail goes down, but a failure there must not keep the rail powered.
func (p *Panel) Unprepare() error {
	if p.state != Disabled {
		return transitionError("unprepare", p.state)
	}

	if err := p.dcs(dcsEnterSleepMode); err != nil {
		appLog.Warn("panel: enter sleep failed, powering off anyway", "err", err)
	}

	release := p.acquireAux(false)
	defer release()

	if err := p.power.Disable(); err != nil {
		return fmt.Errorf("panel: rail disable: %w", err)
	}

	p.state = Unprepared
	return nil
}

// acquireAux claims the secondary enable line for the duration of one
// lifecycle call and drives it to level. The returned release function is
// always safe to call. Acquisition failure is logged and tolerated: on
// some boards the bootloader keeps the line and the panel works anyway.
// TODO: decide at product level whether a missing aux line should be fatal.
func (p *Panel) acquireAux(level bool) func() {
	if p.aux == nil {
		return func() {}
	}
	release, err := p.aux.Acquire()
	if err != nil {
		appLog.Warn("panel: aux line not acquired, continuing",
			"err", fmt.Errorf("%w: %v", ErrAuxUnavailable, err))
		return func() {}
	}
	if err := p.aux.Set(level); err != nil {
		appLog.Warn("panel: aux line drive failed", "err", err, "level", level)
	}
	return release
}
