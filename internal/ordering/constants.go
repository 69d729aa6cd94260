package ordering

// Frozen after first deployment. Every value below feeds the per-student
// question order; changing any of them reorders every quiz a student has
// already seen.
const (
	// KeySeparator joins the student and course identifiers of a Key.
	KeySeparator = "|"

	hashOffsetBasis uint32 = 0x811C9DC5
	hashMultiplier  uint32 = 31

	// Mulberry32
	stateIncrement uint32 = 0x6D2B79F5
	mixShiftA             = 15
	mixShiftB             = 7
	mixShiftC             = 14
	mixOrA         uint32 = 1
	mixOrB         uint32 = 61

	drawScale = 1 << 32
)
