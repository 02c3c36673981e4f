package place

import (
	"fmt"

	"github.com/sirupsen/logrus"
)

// Annealer ties one PlacerCosts/AnnealingState pair to a MoveEngine and runs
// the outer loop to termination. Each Annealer is private to its run;
// independent runs (multi-start placement) may execute concurrently because
// nothing is shared between them.
type Annealer struct {
	Opts   PlacerOpts
	Sched  AnnealingSched
	Engine MoveEngine

	// MaxTemps caps the number of outer iterations, 0 = unlimited. The cap
	// is a driver-side wall-clock style budget, not part of the schedule.
	MaxTemps int

	Costs      *PlacerCosts
	State      *AnnealingState
	Trajectory *Trajectory
}

// AnnealResult reports the outcome of one annealing run.
type AnnealResult struct {
	FinalCost       float64
	FinalBBCost     float64
	FinalTimingCost float64
	NumTemps        int
	NumRestarts     int
	StopReason      string
}

// NewAnnealer validates the configuration, seeds the initial costs and
// schedule through the engine, and returns a ready-to-run Annealer. All
// configuration errors surface here, before any annealing starts.
func NewAnnealer(opts PlacerOpts, sched AnnealingSched, engine MoveEngine) (*Annealer, error) {
	if err := opts.Validate(); err != nil {
		return nil, fmt.Errorf("invalid placer options: %w", err)
	}
	if err := sched.Validate(); err != nil {
		return nil, fmt.Errorf("invalid annealing schedule: %w", err)
	}
	if engine == nil {
		return nil, fmt.Errorf("move engine is required")
	}

	moveLim, err := InitialMoveLim(opts, sched)
	if err != nil {
		return nil, err
	}

	costs := NewPlacerCosts(opts.PlaceAlgorithm)
	if err := engine.InitialCosts(costs); err != nil {
		return nil, fmt.Errorf("initial cost evaluation: %w", err)
	}
	costs.UpdateNormFactors()
	costs.RecomputeCost(opts)

	firstRlim := opts.RegionExtent
	firstT := sched.InitT
	if sched.Mode == ScheduleAutomatic {
		sample, err := engine.SampleDeltas(moveLim, firstRlim)
		if err != nil {
			return nil, fmt.Errorf("initial move sampling: %w", err)
		}
		firstT, err = EstimateInitialTemperature(sample)
		if err != nil {
			return nil, err
		}
		// Sampling perturbs the placement; re-measure before annealing.
		if err := engine.InitialCosts(costs); err != nil {
			return nil, fmt.Errorf("cost evaluation after sampling: %w", err)
		}
		costs.UpdateNormFactors()
		costs.RecomputeCost(opts)
	}

	state, err := NewAnnealingState(sched, firstT, firstRlim, moveLim, opts.TimingExpFirst)
	if err != nil {
		return nil, err
	}

	logrus.Infof("annealing initialized: t=%.6g rlim=%.4g move_lim=%d mode=%s",
		state.T, state.Rlim, state.MoveLim, sched.Mode)

	return &Annealer{
		Opts:       opts,
		Sched:      sched,
		Engine:     engine,
		Costs:      costs,
		State:      state,
		Trajectory: NewTrajectory(),
	}, nil
}

// Run executes outer iterations until the schedule terminates or the
// iteration budget runs out. The engine's batch errors and the schedule's
// runaway-value errors abort the run; there are no retryable sub-operations
// inside an anneal.
func (a *Annealer) Run() (AnnealResult, error) {
	stopReason := "temperature below exit threshold"
	for {
		stats, err := a.Engine.RunBatch(a.State, a.Costs)
		if err != nil {
			return AnnealResult{}, fmt.Errorf("move batch at temperature %d: %w", a.State.NumTemps, err)
		}
		a.State.SuccessRate = stats.SuccessRate()

		// Full per-iteration renormalization keeps incremental delta drift
		// from skewing the objective weighting.
		a.Costs.UpdateNormFactors()
		a.Costs.RecomputeCost(a.Opts)

		a.Trajectory.Record(a.State, a.Costs)

		cont, err := a.State.OuterLoopUpdate(a.Costs, a.Opts, a.Sched)
		if err != nil {
			return AnnealResult{}, err
		}
		if !cont {
			break
		}
		if a.MaxTemps > 0 && a.State.NumTemps >= a.MaxTemps {
			stopReason = fmt.Sprintf("iteration budget of %d temperatures exhausted", a.MaxTemps)
			break
		}
	}

	result := AnnealResult{
		FinalCost:       a.Costs.Cost,
		FinalBBCost:     a.Costs.BBCost,
		FinalTimingCost: a.Costs.TimingCost,
		NumTemps:        a.State.NumTemps,
		NumRestarts:     a.State.NumRestarts(),
		StopReason:      stopReason,
	}
	logrus.Infof("annealing finished after %d temperatures (%d restarts): bb_cost=%.6g timing_cost=%.6g (%s)",
		result.NumTemps, result.NumRestarts, result.FinalBBCost, result.FinalTimingCost, result.StopReason)
	return result, nil
}
