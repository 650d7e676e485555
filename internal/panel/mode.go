package panel

// TimingProfile describes the fixed video timing of the panel for the
// host's mode-setting logic. All values are constants of the glass; the
// panel core itself never reads them.
type TimingProfile struct {
	// PixelClockKHz is the dot clock in kHz.
	PixelClockKHz int

	HActive     int
	HFrontPorch int
	HSyncWidth  int
	HBackPorch  int

	VActive     int
	VFrontPorch int
	VSyncWidth  int
	VBackPorch  int

	RefreshHz int

	WidthMM  int
	HeightMM int

	// Lanes is the number of data lanes the link must be configured for.
	Lanes int

	// BitsPerComponent of the RGB888 pixel format.
	BitsPerComponent int

	// DataEnableActiveLow: the DE signal is sampled active-low.
	DataEnableActiveLow bool

	// PixelDataOnNegEdge: pixel data is latched on the falling clock edge.
	PixelDataOnNegEdge bool
}

// HTotal returns the full horizontal line length in pixels.
func (t TimingProfile) HTotal() int {
	return t.HActive + t.HFrontPorch + t.HSyncWidth + t.HBackPorch
}

// VTotal returns the full frame height in lines.
func (t TimingProfile) VTotal() int {
	return t.VActive + t.VFrontPorch + t.VSyncWidth + t.VBackPorch
}

// DefaultTiming returns the 480x800 @ 60Hz timing of the ILI9806E glass.
func DefaultTiming() TimingProfile {
	return TimingProfile{
		PixelClockKHz:       35714, // 28ns dot clock
		HActive:             480,
		HFrontPorch:         10,
		HSyncWidth:          20,
		HBackPorch:          30,
		VActive:             800,
		VFrontPorch:         10,
		VSyncWidth:          10,
		VBackPorch:          20,
		RefreshHz:           60,
		WidthMM:             52,
		HeightMM:            86,
		Lanes:               2,
		BitsPerComponent:    8,
		DataEnableActiveLow: true,
		PixelDataOnNegEdge:  true,
	}
}
