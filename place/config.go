package place

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// PlaceAlgorithm selects how the normalized sub-costs combine into the
// scalar decision cost.
type PlaceAlgorithm int

const (
	// WirelengthDriven optimizes bounding-box cost only.
	WirelengthDriven PlaceAlgorithm = iota
	// TimingDriven optimizes a weighted blend of bounding-box and timing cost.
	TimingDriven
)

// Schedule modes recognized in AnnealingSched.Mode.
const (
	ScheduleAutomatic = "automatic"
	ScheduleUser      = "user"
)

// ValidScheduleModes is the set of recognized schedule mode names.
// Shared by Validate() and the schedule initializer to avoid duplication.
var ValidScheduleModes = map[string]bool{ScheduleAutomatic: true, ScheduleUser: true}

// AnnealingSched holds the user/algorithm schedule configuration consumed by
// the controller. It is a read-only value type: callers construct it once and
// pass it by value into the update routines.
type AnnealingSched struct {
	Mode          string  // "automatic" or "user"
	InitT         float64 // initial temperature (user mode only; automatic mode estimates it)
	Alpha         float64 // multiplicative temperature decay factor, in (0,1)
	TExit         float64 // exit temperature threshold (user mode absolute; automatic mode cost-relative scale)
	SuccessMin    float64 // success rate below which the temperature restarts
	SuccessTarget float64 // success rate the move budget controller steers toward
	InnerNum      float64 // automatic: scale on blocks^(4/3); user: absolute inner-loop move count
}

// DefaultAnnealingSched returns the automatic schedule with the stock
// tuning constants.
func DefaultAnnealingSched() AnnealingSched {
	return AnnealingSched{
		Mode:          ScheduleAutomatic,
		Alpha:         0.95,
		TExit:         0.005,
		SuccessMin:    0.1,
		SuccessTarget: 0.44,
		InnerNum:      1.0,
	}
}

// Validate checks the schedule parameters before any annealing starts.
func (s AnnealingSched) Validate() error {
	if !ValidScheduleModes[s.Mode] {
		return fmt.Errorf("unknown schedule mode %q", s.Mode)
	}
	if s.Alpha <= 0 || s.Alpha >= 1 {
		return fmt.Errorf("alpha must be in (0,1), got %f", s.Alpha)
	}
	if s.Mode == ScheduleUser && s.InitT <= 0 {
		return fmt.Errorf("initial temperature must be positive in user mode, got %f", s.InitT)
	}
	if s.TExit <= 0 {
		return fmt.Errorf("exit temperature threshold must be positive, got %f", s.TExit)
	}
	if s.SuccessMin < 0 || s.SuccessMin >= 1 {
		return fmt.Errorf("success_min must be in [0,1), got %f", s.SuccessMin)
	}
	if s.SuccessTarget <= 0 || s.SuccessTarget > 1 {
		return fmt.Errorf("success_target must be in (0,1], got %f", s.SuccessTarget)
	}
	if s.SuccessMin >= s.SuccessTarget {
		return fmt.Errorf("success_min (%f) must be below success_target (%f)", s.SuccessMin, s.SuccessTarget)
	}
	if s.InnerNum <= 0 {
		return fmt.Errorf("inner_num must be positive, got %f", s.InnerNum)
	}
	return nil
}

// PlacerOpts holds the placement options the controller reads. Like
// AnnealingSched it is injected by value at call sites, never reached
// through globals.
type PlacerOpts struct {
	PlaceAlgorithm PlaceAlgorithm
	TimingTradeoff float64 // weight of timing cost vs wiring cost in the blended objective
	TimingExpFirst float64 // criticality exponent at the initial (largest) range limit
	TimingExpLast  float64 // criticality exponent at the final range limit
	NumBlocks      int     // movable blocks, drives the automatic move budget
	NumConnections int     // netlist connections, drives the automatic exit criterion
	RegionExtent   float64 // largest placement-region dimension, the initial range limit
}

// DefaultPlacerOpts returns wirelength-driven options with the stock
// timing-exponent endpoints.
func DefaultPlacerOpts() PlacerOpts {
	return PlacerOpts{
		PlaceAlgorithm: WirelengthDriven,
		TimingTradeoff: 0.5,
		TimingExpFirst: 1.0,
		TimingExpLast:  8.0,
	}
}

// Validate checks the placer options before any annealing starts.
func (o PlacerOpts) Validate() error {
	if o.PlaceAlgorithm != WirelengthDriven && o.PlaceAlgorithm != TimingDriven {
		return fmt.Errorf("unknown place algorithm %d", o.PlaceAlgorithm)
	}
	if o.NumBlocks <= 0 {
		return fmt.Errorf("number of movable blocks must be positive, got %d", o.NumBlocks)
	}
	if o.NumConnections <= 0 {
		return fmt.Errorf("number of connections must be positive, got %d", o.NumConnections)
	}
	if o.RegionExtent < FinalRlim {
		return fmt.Errorf("region extent must be at least %v, got %f", FinalRlim, o.RegionExtent)
	}
	if o.TimingTradeoff < 0 || o.TimingTradeoff > 1 {
		return fmt.Errorf("timing tradeoff must be in [0,1], got %f", o.TimingTradeoff)
	}
	if o.PlaceAlgorithm == TimingDriven && o.TimingExpLast < o.TimingExpFirst {
		return fmt.Errorf("timing exponent range inverted: first=%f last=%f", o.TimingExpFirst, o.TimingExpLast)
	}
	return nil
}

// ScheduleBundle holds schedule overrides, loadable from a YAML file.
// Nil pointer fields mean "not set in YAML" — they do not override the
// schedule defaults. The mode string uses empty string for "not set".
type ScheduleBundle struct {
	Mode          string   `yaml:"mode"`
	InitT         *float64 `yaml:"init_t"`
	Alpha         *float64 `yaml:"alpha"`
	TExit         *float64 `yaml:"t_exit"`
	SuccessMin    *float64 `yaml:"success_min"`
	SuccessTarget *float64 `yaml:"success_target"`
	InnerNum      *float64 `yaml:"inner_num"`
}

// LoadScheduleBundle reads and parses a YAML schedule configuration file.
func LoadScheduleBundle(path string) (*ScheduleBundle, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading schedule config: %w", err)
	}
	var bundle ScheduleBundle
	if err := yaml.Unmarshal(data, &bundle); err != nil {
		return nil, fmt.Errorf("parsing schedule config: %w", err)
	}
	return &bundle, nil
}

// Validate checks the bundle's mode name and parameter ranges. Range checks
// duplicate only what can be caught without the merged schedule; the merged
// AnnealingSched is validated again after Apply.
func (b *ScheduleBundle) Validate() error {
	if b.Mode != "" && !ValidScheduleModes[b.Mode] {
		return fmt.Errorf("unknown schedule mode %q", b.Mode)
	}
	if b.Alpha != nil && (*b.Alpha <= 0 || *b.Alpha >= 1) {
		return fmt.Errorf("alpha must be in (0,1), got %f", *b.Alpha)
	}
	if b.InitT != nil && *b.InitT <= 0 {
		return fmt.Errorf("init_t must be positive, got %f", *b.InitT)
	}
	if b.TExit != nil && *b.TExit <= 0 {
		return fmt.Errorf("t_exit must be positive, got %f", *b.TExit)
	}
	if b.InnerNum != nil && *b.InnerNum <= 0 {
		return fmt.Errorf("inner_num must be positive, got %f", *b.InnerNum)
	}
	return nil
}

// Apply overlays the bundle's set fields onto sched and returns the result.
func (b *ScheduleBundle) Apply(sched AnnealingSched) AnnealingSched {
	if b.Mode != "" {
		sched.Mode = b.Mode
	}
	if b.InitT != nil {
		sched.InitT = *b.InitT
	}
	if b.Alpha != nil {
		sched.Alpha = *b.Alpha
	}
	if b.TExit != nil {
		sched.TExit = *b.TExit
	}
	if b.SuccessMin != nil {
		sched.SuccessMin = *b.SuccessMin
	}
	if b.SuccessTarget != nil {
		sched.SuccessTarget = *b.SuccessTarget
	}
	if b.InnerNum != nil {
		sched.InnerNum = *b.InnerNum
	}
	return sched
}
