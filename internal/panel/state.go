package panel

// State is the externally observable lifecycle state of the panel.
//
// The valid transitions form a cycle:
//
//	Unprepared --Prepare--> Prepared --Enable--> Enabled
//	Enabled --Disable--> Disabled --Unprepare--> Unprepared
//
// Any other (state, call) pair is rejected with ErrInvalidTransition.
type State uint8

const (
	Unprepared State = iota
	Prepared
	Enabled
	Disabled
)

func (s State) String() string {
	switch s {
	case Unprepared:
		return "unprepared"
	case Prepared:
		return "prepared"
	case Enabled:
		return "enabled"
	case Disabled:
		return "disabled"
	default:
		return "unknown"
	}
}
