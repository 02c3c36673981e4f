package cmd

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	place "github.com/placement-sim/placement-sim/place"
)

var (
	// CLI flags for the annealing schedule
	scheduleMode   string  // "automatic" or "user"
	initT          float64 // Initial temperature (user mode only)
	alpha          float64 // Temperature decay factor per outer iteration
	tExit          float64 // Exit temperature threshold
	successMin     float64 // Success rate below which the temperature restarts
	successTarget  float64 // Success rate the move budget steers toward
	innerNum       float64 // Move budget scale (automatic) or absolute count (user)
	scheduleConfig string  // Optional YAML schedule override file
	maxTemps       int     // Outer iteration budget (0 = unlimited)

	// CLI flags for the placer options
	timingDriven   bool    // Enable timing-driven cost weighting
	timingTradeoff float64 // Weight of timing cost vs wiring cost
	timingExpFirst float64 // Criticality exponent at the initial range limit
	timingExpLast  float64 // Criticality exponent at the final range limit
	numBlocks      int     // Movable blocks in the design
	numConnections int     // Netlist connections in the design
	regionExtent   float64 // Largest placement-region dimension

	// CLI flags for the synthetic move engine
	seed          int64   // Seed for the engine's RNG streams
	initialBBCost float64 // Starting wiring cost of the synthetic design
	initialTiming float64 // Starting timing cost (0 = untimed)
	deltaStdDev   float64 // Spread of candidate deltas at full range limit

	logLevel string // Log verbosity level
)

// rootCmd is the base command for the CLI
var rootCmd = &cobra.Command{
	Use:   "placement-sim",
	Short: "Annealing-schedule controller for simulated-annealing placement",
}

// runCmd anneals a synthetic design using parameters from CLI flags
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run an anneal against the synthetic move engine",
	Run: func(cmd *cobra.Command, args []string) {
		// Set up logging
		level, err := logrus.ParseLevel(logLevel)
		if err != nil {
			logrus.Fatalf("Invalid log level: %s", logLevel)
		}
		logrus.SetLevel(level)

		sched := place.DefaultAnnealingSched()
		sched.Mode = scheduleMode
		sched.InitT = initT
		sched.Alpha = alpha
		sched.TExit = tExit
		sched.SuccessMin = successMin
		sched.SuccessTarget = successTarget
		sched.InnerNum = innerNum

		if scheduleConfig != "" {
			bundle, err := place.LoadScheduleBundle(scheduleConfig)
			if err != nil {
				logrus.Fatalf("Unable to read schedule config: %v", err)
			}
			if err := bundle.Validate(); err != nil {
				logrus.Fatalf("Invalid schedule config: %v", err)
			}
			sched = bundle.Apply(sched)
			logrus.Infof("Applied schedule overrides from %s", scheduleConfig)
		}

		opts := place.DefaultPlacerOpts()
		if timingDriven {
			opts.PlaceAlgorithm = place.TimingDriven
		}
		opts.TimingTradeoff = timingTradeoff
		opts.TimingExpFirst = timingExpFirst
		opts.TimingExpLast = timingExpLast
		opts.NumBlocks = numBlocks
		opts.NumConnections = numConnections
		opts.RegionExtent = regionExtent

		engine, err := place.NewSyntheticEngine(place.SyntheticEngineConfig{
			InitialBBCost:     initialBBCost,
			InitialTimingCost: initialTiming,
			DeltaStdDev:       deltaStdDev,
			Seed:              seed,
		})
		if err != nil {
			logrus.Fatalf("Invalid engine config: %v", err)
		}

		annealer, err := place.NewAnnealer(opts, sched, engine)
		if err != nil {
			logrus.Fatalf("Unable to initialize anneal: %v", err)
		}
		annealer.MaxTemps = maxTemps

		result, err := annealer.Run()
		if err != nil {
			logrus.Fatalf("Anneal aborted: %v", err)
		}

		summary := annealer.Trajectory.Summarize()
		fmt.Printf("temperatures: %d (restarts: %d)\n", result.NumTemps, result.NumRestarts)
		fmt.Printf("stop reason:  %s\n", result.StopReason)
		fmt.Printf("bb cost:      final=%.4f mean=%.4f median=%.4f stddev=%.4f\n",
			summary.FinalBBCost, summary.MeanBBCost, summary.MedianBBCost, summary.StdDevBBCost)
		fmt.Printf("success rate: mean=%.4f\n", summary.MeanSuccessRate)
	},
}

// Execute runs the CLI root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// init sets up CLI flags and subcommands
func init() {
	runCmd.Flags().StringVar(&logLevel, "log", "info", "Log level (trace, debug, info, warn, error, fatal, panic)")

	// Annealing schedule
	runCmd.Flags().StringVar(&scheduleMode, "schedule-mode", place.ScheduleAutomatic, "Schedule mode (automatic, user)")
	runCmd.Flags().Float64Var(&initT, "init-t", 0, "Initial temperature (user mode)")
	runCmd.Flags().Float64Var(&alpha, "alpha", 0.95, "Temperature decay factor")
	runCmd.Flags().Float64Var(&tExit, "t-exit", 0.005, "Exit temperature threshold")
	runCmd.Flags().Float64Var(&successMin, "success-min", 0.1, "Minimum success rate before a restart")
	runCmd.Flags().Float64Var(&successTarget, "success-target", 0.44, "Target success rate for the move budget")
	runCmd.Flags().Float64Var(&innerNum, "inner-num", 1.0, "Move budget scale (automatic) or count (user)")
	runCmd.Flags().StringVar(&scheduleConfig, "schedule-config", "", "YAML schedule override file")
	runCmd.Flags().IntVar(&maxTemps, "max-temps", 0, "Outer iteration budget (0 = unlimited)")

	// Placer options
	runCmd.Flags().BoolVar(&timingDriven, "timing-driven", false, "Enable timing-driven cost weighting")
	runCmd.Flags().Float64Var(&timingTradeoff, "timing-tradeoff", 0.5, "Weight of timing cost vs wiring cost")
	runCmd.Flags().Float64Var(&timingExpFirst, "timing-exp-first", 1.0, "Criticality exponent at the initial range limit")
	runCmd.Flags().Float64Var(&timingExpLast, "timing-exp-last", 8.0, "Criticality exponent at the final range limit")
	runCmd.Flags().IntVar(&numBlocks, "blocks", 100, "Movable blocks in the design")
	runCmd.Flags().IntVar(&numConnections, "connections", 400, "Netlist connections in the design")
	runCmd.Flags().Float64Var(&regionExtent, "region-extent", 20, "Largest placement-region dimension")

	// Synthetic engine
	runCmd.Flags().Int64Var(&seed, "seed", 42, "Seed for the engine RNG streams")
	runCmd.Flags().Float64Var(&initialBBCost, "initial-bb-cost", 1000, "Starting wiring cost of the synthetic design")
	runCmd.Flags().Float64Var(&initialTiming, "initial-timing-cost", 0, "Starting timing cost (0 = untimed)")
	runCmd.Flags().Float64Var(&deltaStdDev, "delta-stddev", 5, "Spread of candidate deltas at full range limit")

	// Attach `run` as a subcommand to `root`
	rootCmd.AddCommand(runCmd)
}
