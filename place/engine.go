package place

// BatchStats summarizes one inner-loop batch of candidate moves.
type BatchStats struct {
	Attempted int
	Accepted  int
}

// SuccessRate returns the fraction of attempted moves that were accepted,
// 0 for an empty batch.
func (b BatchStats) SuccessRate() float64 {
	if b.Attempted == 0 {
		return 0
	}
	return float64(b.Accepted) / float64(b.Attempted)
}

// MoveEngine is the boundary to the external move-evaluation engine. The
// controller owns the schedule; the engine owns move generation, delta-cost
// evaluation and placement legality.
//
// Implementations read T, Rlim, CritExponent and MoveLim from the state they
// are handed, write updated raw totals into costs, and report the batch's
// acceptance counts. They must not mutate the schedule state.
type MoveEngine interface {
	// InitialCosts performs a full cost evaluation of the starting placement
	// and writes the raw BBCost/TimingCost totals into costs.
	InitialCosts(costs *PlacerCosts) error

	// SampleDeltas evaluates n random candidate moves within the given range
	// limit, accepting all of them, and returns the observed delta sample.
	// Used once to seed the automatic schedule's initial temperature.
	SampleDeltas(n int, rlim float64) (*DeltaSample, error)

	// RunBatch attempts up to state.MoveLim moves at the current temperature
	// and range limit, updates the raw totals in costs for accepted moves,
	// and returns the attempted/accepted counts.
	RunBatch(state *AnnealingState, costs *PlacerCosts) (BatchStats, error)
}
