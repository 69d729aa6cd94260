package ordering

// generator is a Mulberry32 stream. One instance belongs to exactly one
// shuffle call.
type generator struct {
	state uint32
}

func newGenerator(seed uint32) *generator {
	return &generator{state: seed}
}

func (g *generator) next() uint32 {
	g.state += stateIncrement
	t := g.state
	t = (t ^ t>>mixShiftA) * (t | mixOrA)
	t ^= t + (t^t>>mixShiftB)*(t|mixOrB)
	return t ^ t>>mixShiftC
}

// Float64 returns the next draw in [0,1).
func (g *generator) Float64() float64 {
	return float64(g.next()) / drawScale
}
