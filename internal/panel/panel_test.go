package panel

import (
	"errors"
	"fmt"
	"testing"
	"time"
)

// recorder collects hardware-facing events in order so tests can assert
// the exact sequencing of rail, reset, waits and link writes.
type recorder struct {
	events []string
}

func (r *recorder) add(format string, args ...any) {
	r.events = append(r.events, fmt.Sprintf(format, args...))
}

// fakeTransport implements Transport, Reader, LinkModeSetter and
// MaxReturnSizer. It records every write, can fail on the Nth write
// attempt, and echoes brightness writes back on reads.
type fakeTransport struct {
	rec *recorder

	writes  [][]byte
	failAt  int // fail the Nth write attempt, 1-based; 0 = never
	failErr error

	lowPower []bool

	brightness [2]byte
	readErr    error
	maxReturns []int
}

func (f *fakeTransport) Write(buf []byte) error {
	cp := append([]byte(nil), buf...)
	f.writes = append(f.writes, cp)
	if f.rec != nil {
		f.rec.add("write 0x%02x", buf[0])
	}
	if f.failAt != 0 && len(f.writes) == f.failAt {
		if f.failErr == nil {
			f.failErr = errors.New("link down")
		}
		return f.failErr
	}
	if buf[0] == dcsSetDisplayBrightness && len(buf) >= 3 {
		f.brightness = [2]byte{buf[1], buf[2]}
	}
	return nil
}

func (f *fakeTransport) Read(cmd byte, n int) ([]byte, error) {
	if f.readErr != nil {
		return nil, f.readErr
	}
	if cmd == dcsGetDisplayBrightness {
		out := f.brightness[:]
		if n < len(out) {
			out = out[:n]
		}
		return out, nil
	}
	return make([]byte, n), nil
}

func (f *fakeTransport) SetLowPower(on bool) error {
	f.lowPower = append(f.lowPower, on)
	return nil
}

func (f *fakeTransport) SetMaxReturnSize(n int) error {
	f.maxReturns = append(f.maxReturns, n)
	return nil
}

// writeOnlyTransport implements Transport and nothing else.
type writeOnlyTransport struct {
	writes [][]byte
}

func (f *writeOnlyTransport) Write(buf []byte) error {
	f.writes = append(f.writes, append([]byte(nil), buf...))
	return nil
}

type fakeRail struct {
	rec        *recorder
	enableErr  error
	disableErr error
}

func (f *fakeRail) Enable() error {
	f.rec.add("rail on")
	return f.enableErr
}

func (f *fakeRail) Disable() error {
	f.rec.add("rail off")
	return f.disableErr
}

type fakeLine struct {
	rec  *recorder
	name string
}

func (f *fakeLine) Set(level bool) error {
	f.rec.add("%s %v", f.name, level)
	return nil
}

type fakeAux struct {
	rec        *recorder
	acquireErr error
	acquired   int
	released   int
}

func (f *fakeAux) Acquire() (func(), error) {
	if f.acquireErr != nil {
		return nil, f.acquireErr
	}
	f.acquired++
	f.rec.add("aux acquire")
	return func() {
		f.released++
		f.rec.add("aux release")
	}, nil
}

func (f *fakeAux) Set(level bool) error {
	f.rec.add("aux %v", level)
	return nil
}

// rig bundles a panel with all its fakes.
type rig struct {
	rec   *recorder
	tr    *fakeTransport
	rail  *fakeRail
	reset *fakeLine
	aux   *fakeAux
	p     *Panel
}

func newRig(t *testing.T, opts Opts) *rig {
	t.Helper()
	rec := &recorder{}
	r := &rig{
		rec:   rec,
		tr:    &fakeTransport{rec: rec},
		rail:  &fakeRail{rec: rec},
		reset: &fakeLine{rec: rec, name: "reset"},
	}
	if opts.Aux == nil {
		r.aux = &fakeAux{rec: rec}
		opts.Aux = r.aux
	}
	if opts.Sleep == nil {
		opts.Sleep = func(d time.Duration) { rec.add("sleep %s", d) }
	}
	r.p = New(r.tr, r.rail, r.reset, opts)
	return r
}

func (r *rig) mustPrepare(t *testing.T) {
	t.Helper()
	if err := r.p.Prepare(); err != nil {
		t.Fatalf("Prepare() error = %v", err)
	}
}

func (r *rig) mustEnable(t *testing.T) {
	t.Helper()
	if err := r.p.Enable(); err != nil {
		t.Fatalf("Enable() error = %v", err)
	}
}

func assertEvents(t *testing.T, got, want []string) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("event count = %d, want %d\ngot:  %v\nwant: %v", len(got), len(want), got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("event[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestLifecycleCycle(t *testing.T) {
	r := newRig(t, Opts{Profile: RevisionA()})

	steps := []struct {
		name string
		call func() error
		want State
	}{
		{"prepare", r.p.Prepare, Prepared},
		{"enable", r.p.Enable, Enabled},
		{"disable", r.p.Disable, Disabled},
		{"unprepare", r.p.Unprepare, Unprepared},
	}
	for _, step := range steps {
		if err := step.call(); err != nil {
			t.Fatalf("%s error = %v", step.name, err)
		}
		if got := r.p.State(); got != step.want {
			t.Fatalf("after %s state = %s, want %s", step.name, got, step.want)
		}
	}
}

func TestInvalidTransitionsRejected(t *testing.T) {
	// bring walks a fresh rig to the given state.
	bring := func(t *testing.T, s State) *rig {
		r := newRig(t, Opts{Profile: RevisionB()})
		if s == Unprepared {
			return r
		}
		r.mustPrepare(t)
		if s == Prepared {
			return r
		}
		r.mustEnable(t)
		if s == Enabled {
			return r
		}
		if err := r.p.Disable(); err != nil {
			t.Fatalf("Disable() error = %v", err)
		}
		return r
	}

	states := []State{Unprepared, Prepared, Enabled, Disabled}
	valid := map[State]string{
		Unprepared: "prepare",
		Prepared:   "enable",
		Enabled:    "disable",
		Disabled:   "unprepare",
	}

	for _, from := range states {
		for _, call := range []string{"prepare", "enable", "disable", "unprepare"} {
			t.Run(fmt.Sprintf("%s_%s", from, call), func(t *testing.T) {
				r := bring(t, from)
				var err error
				switch call {
				case "prepare":
					err = r.p.Prepare()
				case "enable":
					err = r.p.Enable()
				case "disable":
					err = r.p.Disable()
				case "unprepare":
					err = r.p.Unprepare()
				}
				if valid[from] == call {
					if err != nil {
						t.Fatalf("%s from %s error = %v, want nil", call, from, err)
					}
					return
				}
				if !errors.Is(err, ErrInvalidTransition) {
					t.Fatalf("%s from %s error = %v, want ErrInvalidTransition", call, from, err)
				}
				if got := r.p.State(); got != from {
					t.Errorf("state changed to %s on rejected call, want %s", got, from)
				}
			})
		}
	}
}

func TestEnableTwiceRejected(t *testing.T) {
	r := newRig(t, Opts{Profile: RevisionB()})
	r.mustPrepare(t)
	r.mustEnable(t)

	if err := r.p.Enable(); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("second Enable() error = %v, want ErrInvalidTransition", err)
	}
	if got := r.p.State(); got != Enabled {
		t.Errorf("state = %s, want %s", got, Enabled)
	}
}

func TestPrepareRevisionAOrdering(t *testing.T) {
	r := newRig(t, Opts{Profile: RevisionA(), Aux: nilAux{}})
	r.mustPrepare(t)

	assertEvents(t, r.rec.events, []string{
		"reset false",
		"rail on",
		"sleep 20ms",
		"reset true",
		"sleep 20ms",
	})
}

func TestPrepareRevisionBOrdering(t *testing.T) {
	r := newRig(t, Opts{Profile: RevisionB(), Aux: nilAux{}})
	r.mustPrepare(t)

	assertEvents(t, r.rec.events, []string{
		"rail on",
		"sleep 20ms",
		"reset true",
		"sleep 120ms",
	})
}

// nilAux satisfies AuxLine without generating events, for ordering tests
// that only care about rail/reset/sleep.
type nilAux struct{}

func (nilAux) Acquire() (func(), error) { return func() {}, nil }
func (nilAux) Set(bool) error           { return nil }

func TestPrepareAuxScopedToCall(t *testing.T) {
	r := newRig(t, Opts{Profile: RevisionB()})
	r.mustPrepare(t)

	if r.aux.acquired != 1 || r.aux.released != 1 {
		t.Fatalf("aux acquired/released = %d/%d, want 1/1", r.aux.acquired, r.aux.released)
	}
	if r.rec.events[0] != "aux acquire" {
		t.Errorf("first event = %q, want aux acquire", r.rec.events[0])
	}
	if last := r.rec.events[len(r.rec.events)-1]; last != "aux release" {
		t.Errorf("last event = %q, want aux release", last)
	}
}

func TestPrepareAuxFailureNonFatal(t *testing.T) {
	r := newRig(t, Opts{Profile: RevisionB()})
	r.aux.acquireErr = errors.New("line busy")

	if err := r.p.Prepare(); err != nil {
		t.Fatalf("Prepare() error = %v, want nil despite aux failure", err)
	}
	if got := r.p.State(); got != Prepared {
		t.Errorf("state = %s, want %s", got, Prepared)
	}
	if r.aux.released != 0 {
		t.Errorf("release called %d times for a failed acquire", r.aux.released)
	}
}

func TestEnableFailureLeavesPreparedAndRetries(t *testing.T) {
	r := newRig(t, Opts{Profile: RevisionB()})
	r.mustPrepare(t)

	// Fail on the 5th write: with revision B there is no software reset,
	// so writes map one-to-one onto table instructions.
	r.tr.failAt = 5
	err := r.p.Enable()
	if err == nil {
		t.Fatal("Enable() succeeded with a failing transport")
	}
	var seqErr *SequenceError
	if !errors.As(err, &seqErr) {
		t.Fatalf("Enable() error = %v, want SequenceError", err)
	}
	if seqErr.Index != 4 {
		t.Errorf("SequenceError.Index = %d, want 4", seqErr.Index)
	}
	if got := r.p.State(); got != Prepared {
		t.Fatalf("state after failed enable = %s, want %s", got, Prepared)
	}

	// Retry against a healthy transport: the whole table is replayed from
	// the start, no partial resumption.
	r.tr.failAt = 0
	r.tr.writes = nil
	r.mustEnable(t)

	// Table, tear-on, backlight-on.
	want := len(defaultInitTable) + 2
	if got := len(r.tr.writes); got != want {
		t.Fatalf("retry issued %d writes, want %d", got, want)
	}
	first := r.tr.writes[0]
	if first[5] != 0x01 || first[0] != 0xFF {
		t.Errorf("retry did not restart at the page-1 switch: % x", first)
	}
}

func TestUnprepareSleepsPanelBeforeRailOff(t *testing.T) {
	r := newRig(t, Opts{Profile: RevisionB()})
	r.mustPrepare(t)
	r.mustEnable(t)
	if err := r.p.Disable(); err != nil {
		t.Fatalf("Disable() error = %v", err)
	}

	r.rec.events = nil
	if err := r.p.Unprepare(); err != nil {
		t.Fatalf("Unprepare() error = %v", err)
	}

	sleepIdx, railIdx := -1, -1
	for i, ev := range r.rec.events {
		switch ev {
		case "write 0x10":
			sleepIdx = i
		case "rail off":
			railIdx = i
		}
	}
	if sleepIdx == -1 {
		t.Fatal("enter-sleep command never issued")
	}
	if railIdx == -1 {
		t.Fatal("rail never disabled")
	}
	if sleepIdx > railIdx {
		t.Errorf("enter-sleep at %d after rail off at %d", sleepIdx, railIdx)
	}
	if got := r.p.State(); got != Unprepared {
		t.Errorf("state = %s, want %s", got, Unprepared)
	}
}

func TestUnprepareProceedsWhenSleepCommandFails(t *testing.T) {
	r := newRig(t, Opts{Profile: RevisionB()})
	r.mustPrepare(t)
	r.mustEnable(t)
	if err := r.p.Disable(); err != nil {
		t.Fatalf("Disable() error = %v", err)
	}

	r.tr.failAt = len(r.tr.writes) + 1 // the enter-sleep write
	if err := r.p.Unprepare(); err != nil {
		t.Fatalf("Unprepare() error = %v, want nil", err)
	}
	if got := r.p.State(); got != Unprepared {
		t.Errorf("state = %s, want %s", got, Unprepared)
	}
}

func TestEnableTogglesLinkMode(t *testing.T) {
	r := newRig(t, Opts{Profile: RevisionB()})
	r.mustPrepare(t)
	r.mustEnable(t)

	if len(r.tr.lowPower) != 2 || !r.tr.lowPower[0] || r.tr.lowPower[1] {
		t.Fatalf("link mode toggles = %v, want [true false]", r.tr.lowPower)
	}
}

func TestDisableOrdering(t *testing.T) {
	r := newRig(t, Opts{Profile: RevisionB()})
	r.mustPrepare(t)
	r.mustEnable(t)

	r.tr.writes = nil
	if err := r.p.Disable(); err != nil {
		t.Fatalf("Disable() error = %v", err)
	}

	if len(r.tr.writes) != 2 {
		t.Fatalf("Disable() issued %d writes, want 2", len(r.tr.writes))
	}
	if r.tr.writes[0][0] != dcsWriteControlDisplay || r.tr.writes[0][1] != ctrlDisplayBacklightOff {
		t.Errorf("first write = % x, want backlight off", r.tr.writes[0])
	}
	if r.tr.writes[1][0] != dcsSetDisplayOff {
		t.Errorf("second write = % x, want display off", r.tr.writes[1])
	}
}

func TestWriteOnlyTransportLifecycle(t *testing.T) {
	// A bridge without read or link-mode support still completes the
	// whole cycle; the optional capabilities are simply skipped.
	rec := &recorder{}
	tr := &writeOnlyTransport{}
	p := New(tr, &fakeRail{rec: rec}, &fakeLine{rec: rec, name: "reset"}, Opts{
		Profile: RevisionB(),
		Sleep:   func(time.Duration) {},
	})

	for _, call := range []func() error{p.Prepare, p.Enable, p.Disable, p.Unprepare} {
		if err := call(); err != nil {
			t.Fatalf("lifecycle error = %v", err)
		}
	}
}
