package panel

import "time"

// Profile captures how a particular hardware revision of the panel wants to
// be brought up: reset ordering, settle durations and which optional
// subsystems exist. Two revisions of the same silicon are in the field and
// they genuinely differ here, so the policy is a construction-time value
// rather than two copies of the driver.
type Profile struct {
	// Name identifies the revision in logs and status output.
	Name string

	// PulseReset selects the power-up ordering. When true the reset line is
	// parked inactive before the rail comes up, then pulsed active after
	// ResetHold. When false the rail comes up first, settles for
	// RailSettle, and the reset line is simply released.
	PulseReset bool

	// RailSettle is the wait after enabling the power rail before the reset
	// line is touched (release ordering only).
	RailSettle time.Duration

	// ResetHold is how long the reset line is held inactive before being
	// asserted (pulse ordering only).
	ResetHold time.Duration

	// ResetSettle is the wait after the final reset edge before the panel
	// accepts commands. For release ordering this is the vendor tRT bound.
	ResetSettle time.Duration

	// PageSettle is the wait after a page-switch transaction. Later
	// revisions of the controller do not need one.
	PageSettle time.Duration

	// SoftReset issues the vendor software-reset command before the init
	// table, followed by SoftResetSettle.
	SoftReset       bool
	SoftResetSettle time.Duration

	// ManagedBacklight routes backlight on/off through the panel's control
	// display register during enable/disable.
	ManagedBacklight bool

	// DiagnosticRead enables the post-init brightness and ID read-back.
	// Purely informational; read failures never abort the bring-up.
	DiagnosticRead bool
}

// RevisionA is the original population: reset pulsed around the rail
// enable with two 20ms settles, page switches need a short settle, and the
// init table is preceded by a software reset.
func RevisionA() Profile {
	return Profile{
		Name:             "A",
		PulseReset:       true,
		ResetHold:        20 * time.Millisecond,
		ResetSettle:      20 * time.Millisecond,
		PageSettle:       1200 * time.Microsecond,
		SoftReset:        true,
		SoftResetSettle:  10 * time.Millisecond,
		ManagedBacklight: true,
	}
}

// RevisionB is the later population: rail first, 20ms settle, reset
// release, then the 120ms tRT bound. Page switches settle instantly and
// the software reset is not needed.
func RevisionB() Profile {
	return Profile{
		Name:             "B",
		RailSettle:       20 * time.Millisecond,
		ResetSettle:      120 * time.Millisecond,
		ManagedBacklight: true,
	}
}
