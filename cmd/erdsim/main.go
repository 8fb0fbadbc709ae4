package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"text/tabwriter"
	"time"

	"github.com/guptarohit/asciigraph"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/erdlab/erdsim/internal/config"
	"github.com/erdlab/erdsim/internal/metrics"
	"github.com/erdlab/erdsim/internal/sim"
	"github.com/erdlab/erdsim/internal/store"
)

var (
	configFile string
	preset     string
	outDir     string
	backend    string
	seed       int64
	steps      int
	saveEvery  int
	noEnergy   bool
	plot       bool
	verbose    bool
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "erdsim",
		Short: "axisymmetric RF plasma reactor simulator",
		Long: "erdsim steps electron density and temperature transport in a cylindrical\n" +
			"RF reactor with a surrogate field model, writing snapshot datasets for\n" +
			"downstream reduced-order modeling.",
	}

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "run a full simulation and print the output dataset path",
		RunE:  runSimulation,
	}
	runCmd.Flags().StringVar(&configFile, "config", "", "YAML config file")
	runCmd.Flags().StringVar(&preset, "preset", "", "named preset (see 'erdsim presets')")
	runCmd.Flags().StringVar(&outDir, "out", "", "output directory (overrides config)")
	runCmd.Flags().StringVar(&backend, "backend", "", "solve backend: auto, adi, bicgstab")
	runCmd.Flags().Int64Var(&seed, "seed", 0, "random seed")
	runCmd.Flags().IntVar(&steps, "steps", 0, "override step count")
	runCmd.Flags().IntVar(&saveEvery, "save-every", 0, "override snapshot interval")
	runCmd.Flags().BoolVar(&noEnergy, "no-energy", false, "disable the electron energy equation")
	runCmd.Flags().BoolVar(&plot, "plot", false, "print the final mid-plane density profile")
	runCmd.Flags().BoolVar(&verbose, "verbose", false, "per-snapshot log output")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list named configuration presets",
		Run: func(cmd *cobra.Command, args []string) {
			for _, name := range config.ListPresets() {
				fmt.Println(name)
			}
		},
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list stored runs",
		RunE:  listRuns,
	}
	listCmd.Flags().StringVar(&outDir, "out", "outputs", "output directory")

	exportCmd := &cobra.Command{
		Use:   "export <run-id> <out.json>",
		Short: "write a JSON summary of a stored run",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			st := store.New(outDir)
			if err := st.ExportJSON(args[1], args[0]); err != nil {
				return err
			}
			fmt.Println(args[1])
			return nil
		},
	}
	exportCmd.Flags().StringVar(&outDir, "out", "outputs", "output directory")

	initCmd := &cobra.Command{
		Use:   "init-config [path]",
		Short: "write a default YAML config",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "erdsim.yaml"
			if len(args) == 1 {
				path = args[0]
			}
			if err := config.Save(path, config.Default()); err != nil {
				return err
			}
			fmt.Println(path)
			return nil
		},
	}

	rootCmd.AddCommand(runCmd, presetsCmd, listCmd, exportCmd, initCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func buildConfig() (*config.Config, error) {
	var cfg *config.Config
	switch {
	case configFile != "":
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	case preset != "":
		cfg = config.GetPreset(preset)
		if cfg == nil {
			return nil, fmt.Errorf("unknown preset %q (have %v)", preset, config.ListPresets())
		}
	default:
		cfg = config.Default()
	}

	cfg.Seed = seed
	if outDir != "" {
		cfg.Output.Dir = outDir
	}
	if backend != "" {
		cfg.Toggles.Backend = backend
	}
	if steps > 0 {
		cfg.Time.NSteps = steps
	}
	if saveEvery > 0 {
		cfg.Time.SaveEvery = saveEvery
	}
	if noEnergy {
		cfg.RF.UseEnergyEq = false
	}
	return cfg, nil
}

func runSimulation(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig()
	if err != nil {
		return err
	}

	log := logrus.New()
	if !verbose {
		log.SetLevel(logrus.WarnLevel)
	}

	s, err := sim.New(cfg)
	if err != nil {
		return err
	}
	s.SetLogger(log)

	neg := metrics.NewNegativity()
	mean := metrics.NewMeanDensity()
	s.AddMetric(neg)
	s.AddMetric(mean)

	st := store.New(cfg.Output.Dir)
	if err := st.Init(); err != nil {
		return err
	}
	runID := cfg.ResolvedRunName()
	if err := os.MkdirAll(st.RunDir(runID), 0755); err != nil {
		return err
	}

	datasetPath := filepath.Join(st.RunDir(runID), "snapshots.npz")
	w, err := store.Create(datasetPath, s.Grid().RadialCenters(), s.Grid().AxialCenters())
	if err != nil {
		return err
	}
	s.SetWriter(w)

	result, runErr := s.Run(context.Background())
	if closeErr := w.Close(); runErr == nil {
		runErr = closeErr
	}
	if runErr != nil {
		return runErr
	}

	meta := store.RunMetadata{
		ID:        runID,
		Timestamp: time.Now(),
		Seed:      cfg.Seed,
		Dt:        cfg.Time.DtS,
		Steps:     result.StepsTaken,
		Snapshots: result.Snapshots,
		Backend:   cfg.Toggles.Backend,
		Dataset:   datasetPath,
		Metrics:   result.Metrics,
	}
	if err := st.Save(meta); err != nil {
		return err
	}

	if neg.Violations() > 0 {
		log.WithFields(logrus.Fields{
			"steps":  neg.Violations(),
			"ne_min": neg.Value(),
		}).Warn("run contained negative density excursions")
	}

	if plot {
		printProfile(s)
	}

	fmt.Println(datasetPath)
	return nil
}

// printProfile renders the mid-plane radial density profile of the final
// state.
func printProfile(s *sim.Simulation) {
	g := s.Grid()
	j := g.Nz / 2
	row := make([]float64, g.Nr)
	copy(row, s.Ne()[j*g.Nr:(j+1)*g.Nr])
	fmt.Println(asciigraph.Plot(row,
		asciigraph.Height(12),
		asciigraph.Caption(fmt.Sprintf("ne(r) at z=H/2, t=%.3g s", s.Time()))))
}

func listRuns(cmd *cobra.Command, args []string) error {
	st := store.New(outDir)
	runs, err := st.List()
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tTIME\tSTEPS\tSNAPSHOTS\tBACKEND\tDATASET")
	for _, r := range runs {
		fmt.Fprintf(w, "%s\t%s\t%d\t%d\t%s\t%s\n",
			r.ID, r.Timestamp.Format(time.RFC3339), r.Steps, r.Snapshots, r.Backend, r.Dataset)
	}
	return w.Flush()
}
