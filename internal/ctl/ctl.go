// Package ctl serializes access to one panel handle. The lifecycle state
// machine holds no lock of its own and concurrent calls on it are
// undefined, so every external surface (HTTP API, scheduler, main) goes
// through a Controller.
package ctl

import (
	"fmt"
	"sync"

	appLog "panelctl/internal/log"
	"panelctl/internal/panel"
)

// Controller wraps a panel with a mutex and composes the low-level
// transitions into the two operations the host actually wants: full
// power-up and full power-down.
type Controller struct {
	mu sync.Mutex
	p  *panel.Panel
}

func New(p *panel.Panel) *Controller {
	return &Controller{p: p}
}

// State reports the current lifecycle state.
func (c *Controller) State() panel.State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.p.State()
}

// Profile reports the revision policy of the underlying panel.
func (c *Controller) Profile() panel.Profile {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.p.Profile()
}

// Up brings the panel from wherever it is to Enabled: Prepare and Enable
// from cold, a bare Enable after a failed attempt left it Prepared, or a
// full cycle from Disabled. Already Enabled is a no-op.
func (c *Controller) Up() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	switch c.p.State() {
	case panel.Enabled:
		return nil
	case panel.Disabled:
		if err := c.p.Unprepare(); err != nil {
			return err
		}
		fallthrough
	case panel.Unprepared:
		if err := c.p.Prepare(); err != nil {
			return err
		}
		fallthrough
	case panel.Prepared:
		return c.p.Enable()
	default:
		return fmt.Errorf("ctl: unexpected state %s", c.p.State())
	}
}

// Down takes the panel from wherever it is to Unprepared, dropping the
// rail. Already Unprepared is a no-op. A panel stuck at Prepared is
// rejected: the transition table has no way down from there.
func (c *Controller) Down() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	switch c.p.State() {
	case panel.Unprepared:
		return nil
	case panel.Enabled:
		if err := c.p.Disable(); err != nil {
			return err
		}
		return c.p.Unprepare()
	case panel.Disabled:
		return c.p.Unprepare()
	case panel.Prepared:
		// A panel stuck at Prepared means enable never succeeded. The
		// transition table has no way down from here; the caller has to
		// retry Up first.
		appLog.Warn("ctl: panel is prepared but never enabled; retry up before down")
		return fmt.Errorf("ctl: cannot power down from %s", panel.Prepared)
	default:
		return fmt.Errorf("ctl: unexpected state %s", c.p.State())
	}
}

// SetBrightness forwards to the panel under the lock.
func (c *Controller) SetBrightness(value uint16) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.p.SetBrightness(value)
}

// GetBrightness forwards to the panel under the lock.
func (c *Controller) GetBrightness() (uint16, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.p.GetBrightness()
}
