package place

import (
	"fmt"
	"math"

	"github.com/sirupsen/logrus"
)

// FinalRlim is the terminal range limit. 1 is the smallest value that can
// still make progress, since a range limit of 0 would not allow any swaps.
const FinalRlim = 1.0

// AnnealingState stores the variables that drive the annealing process.
//
// OuterLoopUpdate mutates it once per outer loop iteration; between updates
// the move engine reads T, Rlim, CritExponent and MoveLim while running the
// inner loop, and writes back the measured SuccessRate. Nothing outside this
// type mutates the schedule.
type AnnealingState struct {
	T            float64 // annealing temperature, strictly positive while active
	Rlim         float64 // range limit for block swaps, in [FinalRlim, upper limit]
	Alpha        float64 // temperature decay factor, multiplied in each outer iteration
	RestartT     float64 // temperature used after a restart due to minimum success rate
	CritExponent float64 // sharpens timing criticality in timing-driven mode
	MoveLimMax   int     // maximum block move budget per outer iteration
	MoveLim      int     // current block move budget
	SuccessRate  float64 // fraction of accepted moves in the last batch
	NumTemps     int     // outer iterations completed so far

	upperRlim        float64
	inverseDeltaRlim float64
	numRestarts      int
}

// NumRestarts returns how many times the temperature was reset to RestartT
// because the success rate collapsed.
func (s *AnnealingState) NumRestarts() int {
	return s.numRestarts
}

// UpperRlim returns the initial (largest) range limit.
func (s *AnnealingState) UpperRlim() float64 {
	return s.upperRlim
}

// OuterLoopUpdate advances the schedule after one batch of moves has updated
// SuccessRate and costs. It returns true while annealing should continue and
// false once the temperature crosses the exit criterion. The error arm fires
// only on runaway state (non-finite or negative temperature, range limit or
// move budget), which signals a broken update formula and must abort the run.
//
// Effects, in order: temperature decay or restart, range-limit adaptation,
// criticality-exponent adaptation, move-budget adaptation, then the
// termination predicate.
func (s *AnnealingState) OuterLoopUpdate(costs *PlacerCosts, opts PlacerOpts, sched AnnealingSched) (bool, error) {
	if s.SuccessRate < sched.SuccessMin {
		// Acceptance collapsed: re-heat instead of decaying into a frozen
		// state. Each restart re-heats less than the previous one so the
		// exit criterion stays reachable.
		s.T = s.RestartT
		s.RestartT *= 0.5
		s.numRestarts++
	} else {
		s.T *= s.Alpha
		if s.SuccessRate >= sched.SuccessTarget && s.T < s.RestartT {
			// The batch was productive; a later restart resumes here
			// rather than back at the initial temperature.
			s.RestartT = s.T
		}
	}

	s.updateRlim()
	s.updateCritExponent(opts)
	s.updateMoveLim(sched.SuccessTarget)

	s.NumTemps++

	if err := s.checkFinite(); err != nil {
		return false, err
	}

	logrus.Debugf("temperature %d: t=%.6g rlim=%.4g crit_exp=%.3g move_lim=%d success=%.3f restarts=%d",
		s.NumTemps, s.T, s.Rlim, s.CritExponent, s.MoveLim, s.SuccessRate, s.numRestarts)

	return s.T >= s.exitTemperature(costs, opts, sched), nil
}

// updateRlim pulls the range limit toward the value implied by the measured
// success rate. The multiplier is 1 at a 44% acceptance rate: below it moves
// become more local, above it the range may grow back, clamped to
// [FinalRlim, upperRlim] either way.
func (s *AnnealingState) updateRlim() {
	s.Rlim *= 0.56 + s.SuccessRate
	s.Rlim = math.Min(s.Rlim, s.upperRlim)
	s.Rlim = math.Max(s.Rlim, FinalRlim)
}

// updateCritExponent sharpens the criticality exponent as the range limit
// approaches FinalRlim, interpolating linearly between the configured first
// and last exponents. No-op unless timing-driven placement is active.
func (s *AnnealingState) updateCritExponent(opts PlacerOpts) {
	if opts.PlaceAlgorithm != TimingDriven {
		return
	}
	scale := 1 - (s.Rlim-FinalRlim)*s.inverseDeltaRlim
	s.CritExponent = scale*(opts.TimingExpLast-opts.TimingExpFirst) + opts.TimingExpFirst
}

// updateMoveLim steers the move budget toward the count that would have
// produced the target success rate, floored at 1 so a zero-acceptance batch
// cannot zero the budget, and capped at MoveLimMax.
func (s *AnnealingState) updateMoveLim(successTarget float64) {
	scaled := int(math.Round(float64(s.MoveLim) * s.SuccessRate / successTarget))
	if scaled < 1 {
		scaled = 1
	}
	if scaled > s.MoveLimMax {
		scaled = s.MoveLimMax
	}
	s.MoveLim = scaled
}

// exitTemperature returns the threshold below which annealing stops. User
// schedules use the configured threshold directly; automatic schedules scale
// it by the current per-connection cost so the anneal stops when further
// temperature steps can no longer move the objective.
func (s *AnnealingState) exitTemperature(costs *PlacerCosts, opts PlacerOpts, sched AnnealingSched) float64 {
	if sched.Mode == ScheduleUser {
		return sched.TExit
	}
	return sched.TExit * costs.Cost / float64(opts.NumConnections)
}

func (s *AnnealingState) checkFinite() error {
	if math.IsNaN(s.T) || math.IsInf(s.T, 0) || s.T < 0 {
		return fmt.Errorf("annealing temperature corrupted after update: %v", s.T)
	}
	if math.IsNaN(s.Rlim) || math.IsInf(s.Rlim, 0) || s.Rlim < 0 {
		return fmt.Errorf("range limit corrupted after update: %v", s.Rlim)
	}
	if s.MoveLim <= 0 {
		return fmt.Errorf("move limit corrupted after update: %d", s.MoveLim)
	}
	return nil
}
