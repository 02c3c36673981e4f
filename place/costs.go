package place

import "math"

// MaxInvTimingCost stops the inverse timing cost from going to infinity with
// very lax timing constraints. The exact value has little impact but must not
// be on the order of inverse timing costs for normal constraints.
const MaxInvTimingCost = 1.e9

// PlacerCosts stores the different cost values of the placer.
//
// Although move deltas are evaluated in float32 by typical engines, the
// accumulated totals here are float64 to avoid round-off on large designs
// where a single move's delta is tiny compared to the overall cost.
//
// Move deltas are rescaled by the inverse of the previous iteration's cost
// totals so that competing objectives stay comparable; the inverses are
// stored (rather than dividing per move) because the divisions are hot.
type PlacerCosts struct {
	Cost           float64 // weighted blend of the normalized wiring and timing costs
	BBCost         float64 // bounding-box (wiring) cost
	TimingCost     float64 // aggregate of connection delay * criticality
	BBCostNorm     float64 // normalization factor for the wiring cost
	TimingCostNorm float64 // normalization factor for the timing cost, capped at MaxInvTimingCost

	placeAlgorithm PlaceAlgorithm
}

// NewPlacerCosts creates the cost state for one placement run. The algorithm
// selector is fixed for the run's lifetime.
func NewPlacerCosts(algo PlaceAlgorithm) *PlacerCosts {
	return &PlacerCosts{
		BBCostNorm:     1,
		TimingCostNorm: MaxInvTimingCost,
		placeAlgorithm: algo,
	}
}

// Algorithm returns the weighting-algorithm selector this run was created with.
func (c *PlacerCosts) Algorithm() PlaceAlgorithm {
	return c.placeAlgorithm
}

// UpdateNormFactors recomputes BBCostNorm and TimingCostNorm from the current
// raw totals. It mutates only the two normalization fields; the raw totals
// are produced by the external move/cost engine. Call it after every full
// cost recomputation — it is never invoked implicitly.
//
// A zero BBCost (zero-wirelength design) leaves the wiring component at a
// neutral factor of 1 instead of dividing by zero. A zero TimingCost (no
// timing constraints) clamps to MaxInvTimingCost.
func (c *PlacerCosts) UpdateNormFactors() {
	if c.BBCost > 0 {
		c.BBCostNorm = 1 / c.BBCost
	} else {
		c.BBCostNorm = 1
	}
	if c.TimingCost > 0 {
		c.TimingCostNorm = math.Min(1/c.TimingCost, MaxInvTimingCost)
	} else {
		c.TimingCostNorm = MaxInvTimingCost
	}
}

// WeightedCostDelta converts raw wiring and timing deltas into one scalar
// decision delta using the current normalization factors. Engines feed the
// result into their acceptance test so that both objectives share a single
// formula.
func (c *PlacerCosts) WeightedCostDelta(opts PlacerOpts, bbDelta, timingDelta float64) float64 {
	if c.placeAlgorithm == TimingDriven {
		return opts.TimingTradeoff*timingDelta*c.TimingCostNorm +
			(1-opts.TimingTradeoff)*bbDelta*c.BBCostNorm
	}
	return bbDelta * c.BBCostNorm
}

// RecomputeCost rebuilds the blended Cost from the raw totals and the current
// normalization factors. With freshly updated factors the result is 1 by
// construction; it drifts as the engine accumulates incremental deltas
// between normalizations, which is the signal the automatic exit criterion
// reads.
func (c *PlacerCosts) RecomputeCost(opts PlacerOpts) {
	if c.placeAlgorithm == TimingDriven {
		c.Cost = opts.TimingTradeoff*c.TimingCost*c.TimingCostNorm +
			(1-opts.TimingTradeoff)*c.BBCost*c.BBCostNorm
		return
	}
	c.Cost = c.BBCost * c.BBCostNorm
}
