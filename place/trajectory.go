package place

import (
	"sort"

	"gonum.org/v1/gonum/stat"
)

// TemperaturePoint is one outer iteration's schedule and cost snapshot,
// captured before the schedule update so it reflects the state the batch
// actually ran under.
type TemperaturePoint struct {
	T           float64
	Rlim        float64
	CritExp     float64
	MoveLim     int
	SuccessRate float64
	BBCost      float64
	TimingCost  float64
}

// Trajectory records per-temperature snapshots across one annealing run.
type Trajectory struct {
	points []TemperaturePoint
}

// NewTrajectory returns an empty trajectory.
func NewTrajectory() *Trajectory {
	return &Trajectory{}
}

// Record appends a snapshot of the current schedule state and costs.
func (tr *Trajectory) Record(state *AnnealingState, costs *PlacerCosts) {
	tr.points = append(tr.points, TemperaturePoint{
		T:           state.T,
		Rlim:        state.Rlim,
		CritExp:     state.CritExponent,
		MoveLim:     state.MoveLim,
		SuccessRate: state.SuccessRate,
		BBCost:      costs.BBCost,
		TimingCost:  costs.TimingCost,
	})
}

// Len returns the number of recorded temperatures.
func (tr *Trajectory) Len() int {
	return len(tr.points)
}

// Points returns the recorded snapshots in iteration order.
func (tr *Trajectory) Points() []TemperaturePoint {
	return tr.points
}

// TrajectorySummary aggregates a run's bounding-box cost and acceptance
// behavior across temperatures.
type TrajectorySummary struct {
	Temperatures    int
	MeanBBCost      float64
	StdDevBBCost    float64
	MedianBBCost    float64
	FinalBBCost     float64
	MeanSuccessRate float64
}

// Summarize computes the summary statistics of the recorded trajectory.
// An empty trajectory yields the zero summary.
func (tr *Trajectory) Summarize() TrajectorySummary {
	if len(tr.points) == 0 {
		return TrajectorySummary{}
	}

	bbCosts := make([]float64, len(tr.points))
	successRates := make([]float64, len(tr.points))
	for i, p := range tr.points {
		bbCosts[i] = p.BBCost
		successRates[i] = p.SuccessRate
	}

	sorted := append([]float64(nil), bbCosts...)
	sort.Float64s(sorted)

	return TrajectorySummary{
		Temperatures:    len(tr.points),
		MeanBBCost:      stat.Mean(bbCosts, nil),
		StdDevBBCost:    stat.StdDev(bbCosts, nil),
		MedianBBCost:    stat.Quantile(0.5, stat.Empirical, sorted, nil),
		FinalBBCost:     bbCosts[len(bbCosts)-1],
		MeanSuccessRate: stat.Mean(successRates, nil),
	}
}
