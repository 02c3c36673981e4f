// Package place provides the annealing-schedule and cost-normalization
// controller for a simulated-annealing placement optimizer.
//
// # Reading Guide
//
// Start with these three files to understand the control loop:
//   - costs.go: PlacerCosts and the normalization factors applied to move deltas
//   - schedule.go: AnnealingState and the per-temperature OuterLoopUpdate
//   - annealer.go: the outer driver loop tying costs, schedule and move engine together
//
// # Architecture
//
// The package owns only the numerically delicate schedule state. Move
// generation, delta-cost evaluation and placement legality live behind the
// MoveEngine interface (engine.go); SyntheticEngine (synthetic.go) is the
// in-repo implementation used by the demo driver and the run-loop tests.
//
// Each annealing run owns a private PlacerCosts/AnnealingState pair and is
// strictly sequential: every outer iteration's inputs depend on the previous
// iteration's temperature, range limit and move budget. Independent runs
// (multi-start placement) may execute concurrently because nothing is shared.
package place
