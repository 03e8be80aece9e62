package cmd

import (
	"io"
	"os"
	"sort"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/ossim/ossim/sim"
	"github.com/ossim/ossim/sim/trace"
)

var (
	// CLI flags for the run command
	configPath string // Scenario YAML file
	seed       int64  // Overrides the scenario seed when set
	logLevel   string // Log verbosity level
	traceLevel string // Decision trace level

	// CLI flags for the disk command
	diskPolicy    string // Disk scheduling policy
	diskTracks    int    // Number of tracks
	diskHead      int    // Initial head track
	diskRequests  []int  // Requested tracks, all arriving at 0
	diskDirection string // Initial sweep direction
)

// rootCmd is the base command for the CLI
var rootCmd = &cobra.Command{
	Use:   "ossim",
	Short: "Step simulator for operating-system resource management policies",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		level, err := logrus.ParseLevel(logLevel)
		if err != nil {
			logrus.Fatalf("Invalid log level: %s", logLevel)
		}
		logrus.SetLevel(level)
	},
}

// runCmd executes every engine configured in a scenario file
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run a scenario file",
	Run: func(cmd *cobra.Command, args []string) {
		if configPath == "" {
			logrus.Fatalf("Scenario file not provided (--config). Exiting simulation.")
		}
		sc, err := sim.LoadScenario(configPath)
		if err != nil {
			logrus.Fatalf("%v", err)
		}
		if cmd.Flags().Changed("seed") {
			sc.Seed = seed
		}
		if err := sc.Validate(); err != nil {
			logrus.Fatalf("invalid scenario %s: %v", configPath, err)
		}
		if !trace.IsValidTraceLevel(traceLevel) {
			logrus.Fatalf("Invalid trace level: %s", traceLevel)
		}
		logrus.Infof("Starting scenario %s with seed %d", configPath, sc.Seed)
		tr := trace.NewSimulationTrace(trace.TraceConfig{Level: trace.TraceLevel(traceLevel)})
		if err := runScenario(cmd.OutOrStdout(), sc, tr); err != nil {
			logrus.Fatalf("%v", err)
		}
	},
}

// diskCmd runs a one-off disk workload from flags
var diskCmd = &cobra.Command{
	Use:   "disk",
	Short: "Run a disk scheduling policy over a request list",
	Run: func(cmd *cobra.Command, args []string) {
		cfg := &sim.DiskConfig{Policy: diskPolicy, Tracks: diskTracks, Head: diskHead, Direction: diskDirection}
		for _, t := range diskRequests {
			cfg.Requests = append(cfg.Requests, sim.RequestConfig{Track: t})
		}
		if err := (&sim.Scenario{Disk: cfg}).Validate(); err != nil {
			logrus.Fatalf("%v", err)
		}
		d, err := buildDisk(cfg, nil)
		if err != nil {
			logrus.Fatalf("%v", err)
		}
		d.Run(0)
		reportDisk(cmd.OutOrStdout(), d)
	},
}

// policiesCmd lists every accepted policy name
var policiesCmd = &cobra.Command{
	Use:   "policies",
	Short: "List the accepted policy names of every engine",
	Run: func(cmd *cobra.Command, args []string) {
		writePolicies(cmd.OutOrStdout())
	},
}

func writePolicies(w io.Writer) {
	families := []struct {
		name  string
		names map[string]bool
	}{
		{"cpu", sim.ValidCPUPolicies},
		{"disk", sim.ValidDiskPolicies},
		{"fs", sim.ValidFSStrategies},
		{"memory", sim.ValidMemoryPolicies},
	}
	pairs := make([][2]string, 0, len(families))
	for _, f := range families {
		var names []string
		for n := range f.names {
			if n != "" {
				names = append(names, n)
			}
		}
		sort.Strings(names)
		pairs = append(pairs, [2]string{f.name, strings.Join(names, ", ")})
	}
	renderPairs(w, "Policies", pairs)
}

// Execute runs the CLI root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// init sets up CLI flags and subcommands
func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log", "error", "Log level (trace, debug, info, warn, error, fatal, panic)")
	rootCmd.PersistentFlags().BoolVar(&useColor, "color", false, "Color table cells with ANSI escapes")

	runCmd.Flags().StringVar(&configPath, "config", "", "Path to the scenario YAML file")
	runCmd.Flags().Int64Var(&seed, "seed", 42, "Seed for random process and request generation (overrides the scenario seed)")
	runCmd.Flags().StringVar(&traceLevel, "trace", "none", "Decision trace level (none, decisions)")

	diskCmd.Flags().StringVar(&diskPolicy, "policy", "fifo", "Disk scheduling policy")
	diskCmd.Flags().IntVar(&diskTracks, "tracks", 200, "Number of tracks")
	diskCmd.Flags().IntVar(&diskHead, "head", 0, "Initial head track")
	diskCmd.Flags().IntSliceVar(&diskRequests, "requests", nil, "Comma-separated requested tracks")
	diskCmd.Flags().StringVar(&diskDirection, "direction", "up", "Initial sweep direction (up, down)")

	rootCmd.AddCommand(runCmd, diskCmd, policiesCmd)
}
