package place

import (
	"fmt"
	"math"
)

// initTempScale converts the observed cost-delta spread of the initial
// random-move sample into a starting temperature. 20 standard deviations is
// hot enough that nearly every move is accepted at first.
const initTempScale = 20.0

// InitialMoveLim derives the per-outer-iteration move budget. Automatic
// schedules scale with design size (InnerNum * blocks^(4/3)); user schedules
// take InnerNum as an absolute count. The result is always strictly positive
// or an error — a design with zero movable blocks is a configuration error,
// never silently clamped.
func InitialMoveLim(opts PlacerOpts, sched AnnealingSched) (int, error) {
	if opts.NumBlocks <= 0 {
		return 0, fmt.Errorf("number of movable blocks must be positive, got %d", opts.NumBlocks)
	}
	var moveLim int
	if sched.Mode == ScheduleUser {
		moveLim = int(math.Round(sched.InnerNum))
	} else {
		moveLim = int(math.Round(sched.InnerNum * math.Pow(float64(opts.NumBlocks), 4.0/3.0)))
	}
	if moveLim < 1 {
		moveLim = 1
	}
	return moveLim, nil
}

// EstimateInitialTemperature seeds the automatic schedule from the dispersion
// of cost deltas observed over an initial random-move sample. An empty sample
// or one with zero variance cannot seed a positive temperature and is
// reported as a configuration error.
func EstimateInitialTemperature(sample *DeltaSample) (float64, error) {
	if sample == nil || sample.Count() == 0 {
		return 0, fmt.Errorf("initial temperature estimation requires a non-empty move sample")
	}
	stdDev := sample.StdDev()
	if stdDev <= 0 {
		return 0, fmt.Errorf("initial move sample has zero cost variance; cannot seed a temperature")
	}
	return initTempScale * stdDev, nil
}

// NewAnnealingState constructs the schedule's starting state from the initial
// temperature, range limit, move budget and criticality exponent. All
// configuration errors surface here, before any annealing starts.
func NewAnnealingState(sched AnnealingSched, firstT, firstRlim float64, firstMoveLim int, firstCritExponent float64) (*AnnealingState, error) {
	if err := sched.Validate(); err != nil {
		return nil, err
	}
	if firstT <= 0 || math.IsNaN(firstT) || math.IsInf(firstT, 0) {
		return nil, fmt.Errorf("initial temperature must be positive and finite, got %v", firstT)
	}
	if firstRlim < FinalRlim {
		return nil, fmt.Errorf("initial range limit must be at least %v, got %f", FinalRlim, firstRlim)
	}
	if firstMoveLim <= 0 {
		return nil, fmt.Errorf("initial move limit must be positive, got %d", firstMoveLim)
	}

	s := &AnnealingState{
		T:            firstT,
		Rlim:         firstRlim,
		Alpha:        sched.Alpha,
		RestartT:     firstT,
		CritExponent: firstCritExponent,
		MoveLimMax:   firstMoveLim,
		MoveLim:      firstMoveLim,
		upperRlim:    firstRlim,
	}
	// A 1x1 region has no rlim span to interpolate over; the exponent then
	// sits at its final value from the start.
	if firstRlim > FinalRlim {
		s.inverseDeltaRlim = 1 / (firstRlim - FinalRlim)
	}
	return s, nil
}
