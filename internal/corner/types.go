package corner

// CornerSegment is one detected corner interval on a normalised lap's
// distance grid (spec §3 "CornerSegment"). Number is a sequential detection
// id, not a canonical track turn number (spec §4.4).
type CornerSegment struct {
	Number      int
	EntryM      int
	ApexM       int
	ExitM       int
	ApexSpeedMS float64
	Type        string

	merged bool // set by the merge step; informs classification precedence
}
