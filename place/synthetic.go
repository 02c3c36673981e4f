package place

import (
	"fmt"
	"hash/fnv"
	"math"
	"math/rand"
)

// RNG subsystem names for the synthetic engine. Each subsystem gets an
// isolated, deterministically derived stream so that changing how one
// consumes randomness does not perturb the other.
const (
	subsystemMoves      = "moves"
	subsystemAcceptance = "acceptance"
)

// SyntheticEngineConfig parameterizes the synthetic move engine.
type SyntheticEngineConfig struct {
	InitialBBCost     float64 // starting wiring cost (must be > 0)
	InitialTimingCost float64 // starting timing cost (0 = untimed design)
	DeltaStdDev       float64 // spread of candidate move deltas at full range limit
	Seed              int64   // master seed for the per-subsystem RNG streams
}

// DefaultSyntheticEngineConfig returns a config that produces a healthy
// annealing trajectory at the stock schedule.
func DefaultSyntheticEngineConfig() SyntheticEngineConfig {
	return SyntheticEngineConfig{
		InitialBBCost:     1000.0,
		InitialTimingCost: 0,
		DeltaStdDev:       5.0,
		Seed:              42,
	}
}

// SyntheticEngine is a MoveEngine that swaps nothing: it draws candidate
// cost deltas from a Gaussian whose spread shrinks with the range limit and
// accepts them by the Metropolis criterion at the schedule's temperature.
// It exists to exercise the schedule controller (demo driver, run-loop
// tests) without a netlist or a real placer behind it.
type SyntheticEngine struct {
	cfg        SyntheticEngineConfig
	moveRNG    *rand.Rand
	acceptRNG  *rand.Rand
	bbCost     float64
	timingCost float64
}

// NewSyntheticEngine creates a synthetic engine. The same config always
// reproduces the same trajectory.
func NewSyntheticEngine(cfg SyntheticEngineConfig) (*SyntheticEngine, error) {
	if cfg.InitialBBCost <= 0 {
		return nil, fmt.Errorf("initial bb cost must be positive, got %f", cfg.InitialBBCost)
	}
	if cfg.InitialTimingCost < 0 {
		return nil, fmt.Errorf("initial timing cost must be non-negative, got %f", cfg.InitialTimingCost)
	}
	if cfg.DeltaStdDev <= 0 {
		return nil, fmt.Errorf("delta stddev must be positive, got %f", cfg.DeltaStdDev)
	}
	return &SyntheticEngine{
		cfg:        cfg,
		moveRNG:    rand.New(rand.NewSource(deriveSeed(cfg.Seed, subsystemMoves))),
		acceptRNG:  rand.New(rand.NewSource(deriveSeed(cfg.Seed, subsystemAcceptance))),
		bbCost:     cfg.InitialBBCost,
		timingCost: cfg.InitialTimingCost,
	}, nil
}

// InitialCosts writes the engine's current raw totals into costs.
func (e *SyntheticEngine) InitialCosts(costs *PlacerCosts) error {
	costs.BBCost = e.bbCost
	costs.TimingCost = e.timingCost
	return nil
}

// SampleDeltas draws n candidate deltas within rlim, accepting all of them,
// and returns the observed sample for temperature seeding.
func (e *SyntheticEngine) SampleDeltas(n int, rlim float64) (*DeltaSample, error) {
	if n <= 0 {
		return nil, fmt.Errorf("sample size must be positive, got %d", n)
	}
	sample := &DeltaSample{}
	for i := 0; i < n; i++ {
		delta := e.drawDelta(rlim)
		e.apply(delta)
		sample.Add(delta)
	}
	return sample, nil
}

// RunBatch attempts state.MoveLim moves at the schedule's temperature and
// range limit, applying accepted deltas to the raw totals.
func (e *SyntheticEngine) RunBatch(state *AnnealingState, costs *PlacerCosts) (BatchStats, error) {
	stats := BatchStats{}
	for i := 0; i < state.MoveLim; i++ {
		stats.Attempted++
		delta := e.drawDelta(state.Rlim)
		if !e.accept(delta, state.T) {
			continue
		}
		stats.Accepted++
		e.apply(delta)
	}
	costs.BBCost = e.bbCost
	costs.TimingCost = e.timingCost
	return stats, nil
}

// drawDelta models how far-reaching swaps produce larger cost swings: the
// Gaussian spread scales with sqrt(rlim), with a slight downward drift so
// improving moves exist at every range limit.
func (e *SyntheticEngine) drawDelta(rlim float64) float64 {
	spread := e.cfg.DeltaStdDev * math.Sqrt(math.Max(rlim, FinalRlim))
	return e.moveRNG.NormFloat64()*spread - 0.05*spread
}

// accept applies the Metropolis criterion at temperature t.
func (e *SyntheticEngine) accept(delta, t float64) bool {
	if delta <= 0 {
		return true
	}
	if t <= 0 {
		return false
	}
	return e.acceptRNG.Float64() < math.Exp(-delta/t)
}

func (e *SyntheticEngine) apply(delta float64) {
	e.bbCost += delta
	// The model has no legality floor; keep the total in the positive range
	// UpdateNormFactors expects from a real wiring cost.
	if e.bbCost < 1 {
		e.bbCost = 1
	}
	if e.timingCost > 0 {
		e.timingCost = math.Max(e.timingCost+delta*0.1, 0)
	}
}

// deriveSeed isolates a subsystem's RNG stream from the master seed by
// XORing with a 64-bit FNV-1a hash of the subsystem name.
func deriveSeed(master int64, subsystem string) int64 {
	h := fnv.New64a()
	h.Write([]byte(subsystem))
	return master ^ int64(h.Sum64())
}
