package place

import (
	"fmt"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// failingEngine errors on whichever call its flags select; used to verify
// error propagation out of construction and the run loop.
type failingEngine struct {
	failInitial bool
	failSample  bool
	failBatch   bool
}

func (e *failingEngine) InitialCosts(costs *PlacerCosts) error {
	if e.failInitial {
		return fmt.Errorf("netlist unavailable")
	}
	costs.BBCost = 100
	return nil
}

func (e *failingEngine) SampleDeltas(n int, rlim float64) (*DeltaSample, error) {
	if e.failSample {
		return nil, fmt.Errorf("sampling unavailable")
	}
	sample := &DeltaSample{}
	for i := 0; i < n; i++ {
		sample.Add(float64(i%7) - 3)
	}
	return sample, nil
}

func (e *failingEngine) RunBatch(state *AnnealingState, costs *PlacerCosts) (BatchStats, error) {
	if e.failBatch {
		return BatchStats{}, fmt.Errorf("swap evaluation failed")
	}
	return BatchStats{Attempted: state.MoveLim, Accepted: state.MoveLim / 2}, nil
}

func userSched(initT float64) AnnealingSched {
	s := DefaultAnnealingSched()
	s.Mode = ScheduleUser
	s.InitT = initT
	s.TExit = 0.01
	s.InnerNum = 32
	return s
}

func TestNewAnnealer_ConfigurationErrors(t *testing.T) {
	opts := autoOpts()
	sched := DefaultAnnealingSched()
	engine := &failingEngine{}

	_, err := NewAnnealer(opts, sched, nil)
	assert.Error(t, err)

	badOpts := opts
	badOpts.NumBlocks = 0
	_, err = NewAnnealer(badOpts, sched, engine)
	assert.Error(t, err)

	badSched := sched
	badSched.Alpha = 2
	_, err = NewAnnealer(opts, badSched, engine)
	assert.Error(t, err)
}

func TestNewAnnealer_EngineFailuresPropagate(t *testing.T) {
	opts := autoOpts()
	sched := DefaultAnnealingSched()

	_, err := NewAnnealer(opts, sched, &failingEngine{failInitial: true})
	assert.ErrorContains(t, err, "initial cost evaluation")

	_, err = NewAnnealer(opts, sched, &failingEngine{failSample: true})
	assert.ErrorContains(t, err, "initial move sampling")
}

func TestNewAnnealer_UserModeSkipsSampling(t *testing.T) {
	// GIVEN a user schedule and an engine whose sampler always fails
	opts := autoOpts()
	engine := &failingEngine{failSample: true}

	// WHEN the annealer is constructed in user mode
	annealer, err := NewAnnealer(opts, userSched(100), engine)

	// THEN sampling was never consulted and the configured temperature is used
	require.NoError(t, err)
	assert.Equal(t, 100.0, annealer.State.T)
}

func TestNewAnnealer_AutomaticModeSeedsFromSample(t *testing.T) {
	opts := autoOpts()
	sched := DefaultAnnealingSched()
	engine := &failingEngine{}

	annealer, err := NewAnnealer(opts, sched, engine)
	require.NoError(t, err)

	// The failingEngine sample is the fixed pattern i%7 - 3, so the seeded
	// temperature is exactly 20x its spread.
	sample, err := engine.SampleDeltas(annealer.State.MoveLim, opts.RegionExtent)
	require.NoError(t, err)
	assert.InEpsilon(t, initTempScale*sample.StdDev(), annealer.State.T, 1e-9)
	assert.Equal(t, opts.RegionExtent, annealer.State.Rlim)
}

func TestAnnealerRun_BatchErrorAborts(t *testing.T) {
	opts := autoOpts()
	annealer, err := NewAnnealer(opts, userSched(100), &failingEngine{failBatch: true})
	require.NoError(t, err)

	_, err = annealer.Run()
	assert.ErrorContains(t, err, "move batch")
}

func TestAnnealerRun_SyntheticAnnealTerminates(t *testing.T) {
	// GIVEN a user schedule against the synthetic engine
	opts := autoOpts()
	engine, err := NewSyntheticEngine(DefaultSyntheticEngineConfig())
	require.NoError(t, err)
	annealer, err := NewAnnealer(opts, userSched(200), engine)
	require.NoError(t, err)
	annealer.MaxTemps = 5000 // safety net only; the schedule must stop first

	// WHEN the anneal runs
	result, err := annealer.Run()

	// THEN it terminated through the schedule with sane final state
	require.NoError(t, err)
	assert.Equal(t, "temperature below exit threshold", result.StopReason)
	assert.Greater(t, result.NumTemps, 0)
	assert.Less(t, result.NumTemps, 5000)
	assert.False(t, math.IsNaN(result.FinalBBCost))
	assert.Greater(t, result.FinalBBCost, 0.0)
	assert.Equal(t, result.NumTemps, annealer.Trajectory.Len())
}

func TestAnnealerRun_AutomaticAnnealImprovesCost(t *testing.T) {
	opts := autoOpts()
	sched := DefaultAnnealingSched()
	cfg := DefaultSyntheticEngineConfig()
	engine, err := NewSyntheticEngine(cfg)
	require.NoError(t, err)

	annealer, err := NewAnnealer(opts, sched, engine)
	require.NoError(t, err)
	annealer.MaxTemps = 20000

	result, err := annealer.Run()
	require.NoError(t, err)

	// The synthetic landscape has a slight improving drift, so a full anneal
	// must not end worse than the unoptimized starting design.
	assert.LessOrEqual(t, result.FinalBBCost, cfg.InitialBBCost)
	assert.GreaterOrEqual(t, result.NumRestarts, 0)
}

func TestAnnealerRun_IterationBudget(t *testing.T) {
	opts := autoOpts()
	sched := userSched(1e9) // far too hot to finish in 3 temperatures
	engine, err := NewSyntheticEngine(DefaultSyntheticEngineConfig())
	require.NoError(t, err)

	annealer, err := NewAnnealer(opts, sched, engine)
	require.NoError(t, err)
	annealer.MaxTemps = 3

	result, err := annealer.Run()
	require.NoError(t, err)
	assert.Equal(t, 3, result.NumTemps)
	assert.Contains(t, result.StopReason, "budget")
}

func TestAnnealerRun_IndependentRunsShareNothing(t *testing.T) {
	// Two annealers with private engines may run concurrently; their results
	// must match a serial run with the same seeds.
	results := make([]AnnealResult, 2)
	done := make(chan int, 2)
	for i := 0; i < 2; i++ {
		go func(slot int) {
			opts := autoOpts()
			engine, err := NewSyntheticEngine(DefaultSyntheticEngineConfig())
			if err != nil {
				t.Error(err)
				done <- slot
				return
			}
			annealer, err := NewAnnealer(opts, userSched(200), engine)
			if err != nil {
				t.Error(err)
				done <- slot
				return
			}
			annealer.MaxTemps = 5000
			res, err := annealer.Run()
			if err != nil {
				t.Error(err)
			}
			results[slot] = res
			done <- slot
		}(i)
	}
	<-done
	<-done

	assert.Equal(t, results[0], results[1])
}
