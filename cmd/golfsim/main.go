package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"text/tabwriter"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
	"github.com/san-kum/golfsim/internal/analysis"
	"github.com/san-kum/golfsim/internal/config"
	"github.com/san-kum/golfsim/internal/experiment"
	"github.com/san-kum/golfsim/internal/export"
	"github.com/san-kum/golfsim/internal/flight"
	"github.com/san-kum/golfsim/internal/logging"
	"github.com/san-kum/golfsim/internal/optim"
	"github.com/san-kum/golfsim/internal/server"
	"github.com/san-kum/golfsim/internal/storage"
	"github.com/san-kum/golfsim/internal/sweep"
	"github.com/san-kum/golfsim/internal/telemetry"
	"github.com/san-kum/golfsim/internal/viz"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	dataDir  string
	logLevel string
	logJSON  bool
	logger   = zap.NewNop()

	// Launch and run settings
	speed      float64
	angle      float64
	spin       float64
	spinDecay  float64
	maxSteps   int
	configFile string
	preset     string
	label      string
	trace      bool
	noSave     bool

	// Output
	series     []string
	degree     int
	plotWidth  int
	plotHeight int
	liveWidth  int
	liveHeight int
	interval   time.Duration

	// Sweep
	angleFrom   float64
	angleTo     float64
	angleStep   float64
	spins       []float64
	workers     int
	showMetrics bool
	refinements int

	addr string
)

func main() {
	rootCmd := &cobra.Command{
		Use:           "golfsim",
		Short:         "golf ball flight simulator",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			l, err := logging.New(logLevel, logJSON)
			if err != nil {
				return err
			}
			logger = l
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			_ = logger.Sync()
		},
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".golfsim", "data directory")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().BoolVar(&logJSON, "log-json", false, "log as json")

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "simulate one flight and save it",
		Args:  cobra.NoArgs,
		RunE:  runSimulation,
	}
	addLaunchFlags(runCmd)
	runCmd.Flags().BoolVar(&trace, "trace", false, "log every step at debug level")
	runCmd.Flags().BoolVar(&noSave, "no-save", false, "do not save the run")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot run results",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}
	plotCmd.Flags().StringSliceVar(&series, "series", []string{"height", "speed"}, "series to plot (height, distance, speed, angle, spin)")
	plotCmd.Flags().IntVar(&plotWidth, "width", 60, "plot width")
	plotCmd.Flags().IntVar(&plotHeight, "height", 10, "plot height")

	fitCmd := &cobra.Command{
		Use:   "fit [run_id]",
		Short: "fit a polynomial to the flight path",
		Args:  cobra.ExactArgs(1),
		RunE:  fitRun,
	}
	fitCmd.Flags().IntVar(&degree, "degree", 2, "polynomial degree")

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export run data to JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportJSON,
	}

	exportCSVCmd := &cobra.Command{
		Use:   "export-csv [run_id]",
		Short: "export the trajectory as CSV",
		Args:  cobra.ExactArgs(1),
		RunE:  exportCSV,
	}

	sweepCmd := &cobra.Command{
		Use:   "sweep",
		Short: "fly a range of launch angles or spins in parallel",
		Args:  cobra.NoArgs,
		RunE:  runSweep,
	}
	addLaunchFlags(sweepCmd)
	sweepCmd.Flags().Float64Var(&angleFrom, "from", 5, "first launch angle")
	sweepCmd.Flags().Float64Var(&angleTo, "to", 60, "last launch angle")
	sweepCmd.Flags().Float64Var(&angleStep, "step", 5, "launch angle increment")
	sweepCmd.Flags().Float64SliceVar(&spins, "spins", nil, "sweep these spin rates instead of angles")
	sweepCmd.Flags().IntVar(&workers, "workers", 0, "parallel flights (0 = one per CPU)")
	sweepCmd.Flags().BoolVar(&showMetrics, "metrics", false, "print the collected run metrics")

	optimizeCmd := &cobra.Command{
		Use:   "optimize",
		Short: "grid search the launch angle (and spins) for the longest carry",
		Args:  cobra.NoArgs,
		RunE:  runOptimize,
	}
	addLaunchFlags(optimizeCmd)
	optimizeCmd.Flags().Float64Var(&angleFrom, "from", 5, "first launch angle")
	optimizeCmd.Flags().Float64Var(&angleTo, "to", 60, "last launch angle")
	optimizeCmd.Flags().Float64Var(&angleStep, "step", 5, "initial launch angle increment")
	optimizeCmd.Flags().Float64SliceVar(&spins, "spins", nil, "spin rates to try")
	optimizeCmd.Flags().IntVar(&refinements, "refine", 2, "refinement rounds around the best angle")
	optimizeCmd.Flags().IntVar(&workers, "workers", 0, "parallel flights (0 = one per CPU)")

	exportSVGCmd := &cobra.Command{
		Use:   "export-svg [run_id] [file]",
		Short: "draw the flight path as svg",
		Args:  cobra.RangeArgs(1, 2),
		RunE:  exportSVG,
	}

	liveCmd := &cobra.Command{
		Use:   "live",
		Short: "replay a flight in the terminal",
		Args:  cobra.NoArgs,
		RunE:  runLive,
	}
	addLaunchFlags(liveCmd)
	liveCmd.Flags().IntVar(&liveWidth, "width", 60, "canvas width in cells")
	liveCmd.Flags().IntVar(&liveHeight, "height", 16, "canvas height in cells")
	liveCmd.Flags().DurationVar(&interval, "interval", 250*time.Millisecond, "time per step")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list available launch presets",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "NAME\tSPEED\tANGLE\tSPIN\tDECAY")
			for _, name := range config.ListPresets() {
				p := config.Presets[name]
				fmt.Fprintf(w, "%s\t%.1f\t%.1f\t%.0f\t%.3f\n", name, p.Speed, p.Angle, p.Spin, p.SpinDecay)
			}
			return w.Flush()
		},
	}

	initConfigCmd := &cobra.Command{
		Use:   "init-config [path]",
		Short: "write the resolved configuration as yaml",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, _, err := resolveConfig(cmd)
			if err != nil {
				return err
			}
			if err := config.Save(args[0], cfg); err != nil {
				return err
			}
			fmt.Printf("wrote %s\n", args[0])
			return nil
		},
	}
	addLaunchFlags(initConfigCmd)

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "serve the simulator over http",
		Args:  cobra.NoArgs,
		RunE:  serve,
	}
	serveCmd.Flags().StringVar(&addr, "addr", ":8086", "listen address")
	serveCmd.Flags().BoolVar(&noSave, "no-save", false, "do not save runs")

	rootCmd.AddCommand(runCmd, listCmd, plotCmd, fitCmd, exportJSONCmd, exportCSVCmd, exportSVGCmd, sweepCmd, optimizeCmd, liveCmd, presetsCmd, initConfigCmd, serveCmd)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		stop()
		os.Exit(1)
	}
}

func addLaunchFlags(cmd *cobra.Command) {
	cmd.Flags().Float64Var(&speed, "speed", config.DefaultSpeed, "initial speed")
	cmd.Flags().Float64Var(&angle, "angle", config.DefaultAngle, "launch angle in degrees")
	cmd.Flags().Float64Var(&spin, "spin", config.DefaultSpin, "initial spin rate")
	cmd.Flags().Float64Var(&spinDecay, "decay", config.DefaultSpinDecay, "spin decay per step, within [0, 1]")
	cmd.Flags().IntVar(&maxSteps, "max-steps", flight.DefaultMaxSteps, "step budget")
	cmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	cmd.Flags().StringVar(&preset, "preset", "", "use preset launch")
	cmd.Flags().StringVar(&label, "label", "", "label for saved runs")
}

// resolveConfig starts from the defaults or the preset, replaces them with the
// config file if one is given, then applies explicitly set flags.
func resolveConfig(cmd *cobra.Command) (*config.Config, string, error) {
	cfg := config.DefaultConfig()
	name := "run"

	if preset != "" {
		cfg = config.GetPreset(preset)
		if cfg == nil {
			return nil, "", fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
		}
		name = preset
	}

	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, "", fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}

	flags := cmd.Flags()
	if flags.Changed("speed") {
		cfg.Launch.Speed = speed
	}
	if flags.Changed("angle") {
		cfg.Launch.Angle = angle
	}
	if flags.Changed("spin") {
		cfg.Launch.Spin = spin
	}
	if flags.Changed("decay") {
		cfg.Launch.SpinDecay = spinDecay
	}
	if flags.Changed("max-steps") {
		cfg.MaxSteps = maxSteps
	}
	if flags.Changed("label") {
		name = label
	}

	return cfg, name, cfg.Validate()
}

func runSimulation(cmd *cobra.Command, args []string) error {
	cfg, name, err := resolveConfig(cmd)
	if err != nil {
		return err
	}

	var observers []flight.Observer
	if trace {
		observers = append(observers, logging.NewStepObserver(logger))
	}

	exp := experiment.New(cfg)
	if err := exp.Setup(observers...); err != nil {
		return err
	}

	logger.Debug("running flight",
		zap.String("label", name),
		zap.Float64("speed", cfg.Launch.Speed),
		zap.Float64("angle", cfg.Launch.Angle),
		zap.Float64("spin", cfg.Launch.Spin),
	)
	start := time.Now()

	result, err := exp.Run(cmd.Context())
	if err != nil {
		if !errors.Is(err, flight.ErrDidNotLand) {
			return fmt.Errorf("simulate: %w", err)
		}
		logger.Warn("ball did not land", zap.Error(err))
	}

	elapsed := time.Since(start)

	runID := ""
	if !noSave {
		st := storage.New(dataDir)
		if err := st.Init(); err != nil {
			return err
		}
		runID, err = st.Save(name, exp.Config(), result)
		if err != nil {
			return err
		}
	}

	fmt.Println(viz.RenderSummary(name, cfg.LaunchParams(), result))
	fmt.Printf("completed in %v\n", elapsed)
	if runID != "" {
		fmt.Printf("run id: %s\n", runID)
	}
	return nil
}

func listRuns(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	runs, err := st.List()
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tLABEL\tTIME\tSPEED\tANGLE\tSPIN\tSTEPS\tCARRY\tLANDED")

	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%.1f\t%.1f\t%.0f\t%d\t%.2f\t%v\n",
			run.ID,
			run.Label,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Launch.Speed,
			run.Launch.Angle,
			run.Launch.Spin,
			run.Steps,
			run.Carry,
			run.Landed,
		)
	}

	return w.Flush()
}

func loadRun(runID string) (*storage.RunMetadata, flight.Trajectory, error) {
	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return nil, nil, err
	}
	tr, err := st.LoadTrajectory(runID)
	if err != nil {
		return nil, nil, err
	}
	if len(tr) == 0 {
		return nil, nil, fmt.Errorf("run %s has no samples", runID)
	}
	return meta, tr, nil
}

func plotRun(cmd *cobra.Command, args []string) error {
	meta, tr, err := loadRun(args[0])
	if err != nil {
		return err
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("label: %s\n", meta.Label)
	fmt.Printf("samples: %d\n\n", len(tr))

	for _, name := range series {
		s, err := viz.SeriesByName(strings.TrimSpace(name))
		if err != nil {
			return err
		}
		fmt.Println(viz.Plot(tr, s, plotWidth, plotHeight))
		fmt.Println()
	}

	fmt.Println("flight path")
	fmt.Print(viz.PlotTrajectory(tr, plotWidth, plotHeight))
	return nil
}

func fitRun(cmd *cobra.Command, args []string) error {
	meta, tr, err := loadRun(args[0])
	if err != nil {
		return err
	}

	pts := tr.Points()
	p, err := analysis.Fit(pts, degree)
	if err != nil {
		return fmt.Errorf("fit %s: %w", meta.ID, err)
	}

	fmt.Printf("run: %s (%d samples)\n", meta.ID, len(pts))
	fmt.Print("y(x) = ")
	terms := make([]string, 0, len(p.Coeffs))
	for i := len(p.Coeffs) - 1; i >= 0; i-- {
		switch i {
		case 0:
			terms = append(terms, fmt.Sprintf("%.6g", p.Coeffs[i]))
		case 1:
			terms = append(terms, fmt.Sprintf("%.6g·t", p.Coeffs[i]))
		default:
			terms = append(terms, fmt.Sprintf("%.6g·t^%d", p.Coeffs[i], i))
		}
	}
	fmt.Printf("%s, t = x/%.6g\n", strings.Join(terms, " + "), p.Scale)
	fmt.Printf("rms residual: %.6g\n", p.RMS(pts))

	if landing, ok := analysis.Landing(pts); ok {
		fmt.Printf("interpolated landing: x = %.3f\n", landing.X)
	}
	return nil
}

func exportJSON(cmd *cobra.Command, args []string) error {
	meta, tr, err := loadRun(args[0])
	if err != nil {
		return err
	}
	return storage.ExportJSON(os.Stdout, meta, tr)
}

func exportCSV(cmd *cobra.Command, args []string) error {
	_, tr, err := loadRun(args[0])
	if err != nil {
		return err
	}
	return storage.WriteCSV(os.Stdout, tr)
}

func exportSVG(cmd *cobra.Command, args []string) error {
	_, tr, err := loadRun(args[0])
	if err != nil {
		return err
	}
	if len(args) == 1 {
		return export.TrajectorySVG(os.Stdout, tr, export.DefaultSVGOptions())
	}

	f, err := os.Create(args[1])
	if err != nil {
		return err
	}
	defer f.Close()
	if err := export.TrajectorySVG(f, tr, export.DefaultSVGOptions()); err != nil {
		return err
	}
	fmt.Printf("wrote %s\n", args[1])
	return nil
}

func runSweep(cmd *cobra.Command, args []string) error {
	cfg, _, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	model, err := cfg.Model()
	if err != nil {
		return err
	}

	base := cfg.LaunchParams()
	var launches []flight.Launch
	if len(spins) > 0 {
		launches = sweep.Spins(base, spins)
	} else {
		launches, err = sweep.Angles(base, angleFrom, angleTo, angleStep)
		if err != nil {
			return err
		}
	}

	collector, err := telemetry.NewCollector(prometheus.NewRegistry())
	if err != nil {
		return err
	}

	start := time.Now()
	outcomes, err := sweep.New(model, cfg.SimConfig(), workers).WithRecorder(collector).Run(cmd.Context(), launches)
	if err != nil {
		return err
	}
	logger.Debug("sweep finished", zap.Int("flights", len(outcomes)), zap.Duration("elapsed", time.Since(start)))

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ANGLE\tSPIN\tSTEPS\tAPEX\tCARRY\tLANDED")
	for _, o := range outcomes {
		fmt.Fprintf(w, "%.1f\t%.0f\t%d\t%.2f\t%.2f\t%v\n", o.Launch.Angle, o.Launch.Spin, o.Steps, o.Apex, o.Carry, o.Landed)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	if best, ok := sweep.Best(outcomes); ok {
		fmt.Printf("\nlongest carry: %.2f at %.1f° / spin %.0f\n", best.Carry, best.Launch.Angle, best.Launch.Spin)
	} else {
		fmt.Println("\nno flight landed")
	}

	if showMetrics {
		fmt.Println()
		return printMetrics(os.Stdout, collector.Gatherer())
	}
	return nil
}

func runOptimize(cmd *cobra.Command, args []string) error {
	cfg, _, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	model, err := cfg.Model()
	if err != nil {
		return err
	}

	search := optim.NewGridSearch(angleFrom, angleTo, angleStep, spins, refinements)
	best, flown, err := search.Search(cmd.Context(), sweep.New(model, cfg.SimConfig(), workers), cfg.LaunchParams())
	if err != nil {
		return err
	}

	fmt.Printf("flights: %d\n", flown)
	fmt.Printf("best angle: %.3f°\n", best.Launch.Angle)
	fmt.Printf("best spin: %.0f\n", best.Launch.Spin)
	fmt.Printf("carry: %.2f (apex %.2f, %d steps)\n", best.Carry, best.Apex, best.Steps)
	return nil
}

// printMetrics writes every gathered family in the Prometheus text format.
func printMetrics(w io.Writer, g prometheus.Gatherer) error {
	families, err := g.Gather()
	if err != nil {
		return err
	}
	for _, mf := range families {
		if _, err := expfmt.MetricFamilyToText(w, mf); err != nil {
			return err
		}
	}
	return nil
}

func runLive(cmd *cobra.Command, args []string) error {
	cfg, name, err := resolveConfig(cmd)
	if err != nil {
		return err
	}

	exp := experiment.New(cfg)
	if err := exp.Setup(); err != nil {
		return err
	}
	result, err := exp.Run(cmd.Context())
	if err != nil && !errors.Is(err, flight.ErrDidNotLand) {
		return err
	}

	m := viz.NewReplay(name, result.Trajectory, liveWidth, liveHeight, interval)

	p := tea.NewProgram(m)
	if _, err := p.Run(); err != nil {
		return err
	}
	return nil
}

func serve(cmd *cobra.Command, args []string) error {
	var st *storage.Store
	if !noSave {
		st = storage.New(dataDir)
		if err := st.Init(); err != nil {
			return err
		}
	}

	collector, err := telemetry.NewCollector(prometheus.NewRegistry())
	if err != nil {
		return err
	}

	return server.New(st, collector, logger).ListenAndServe(cmd.Context(), addr)
}
