package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"text/tabwriter"

	"github.com/pkg/profile"
	"github.com/spf13/cobra"

	"github.com/san-kum/cachelayout/internal/bench"
	"github.com/san-kum/cachelayout/internal/config"
	"github.com/san-kum/cachelayout/internal/export"
	"github.com/san-kum/cachelayout/internal/storage"
	"github.com/san-kum/cachelayout/internal/viz"
)

const ruleWidth = 60

var (
	dataDir string
	verbose bool

	configFile string
	preset     string
	layouts    []string
	operations []string
	counts     []int
	iterations int
	warmup     int
	fresh      bool
	dt         float32
	gravity    string
	save       bool
	profMode   string
	noChart    bool

	steps     int
	frameRate int
	outPath   string
	svgOp     string
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

// newRootCmd builds the cachebench command tree. Flags bind to the package
// variables above, so building a new tree resets them to their defaults.
func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:          "cachebench",
		Short:        "AoS vs SoA particle layout benchmarks",
		SilenceUsage: true,
	}
	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".cachebench", "data directory for saved runs")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log benchmark progress to stderr")

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "time layout operations",
		Args:  cobra.NoArgs,
		RunE:  runBench,
	}
	runCmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	runCmd.Flags().StringVar(&preset, "preset", "", "use preset particle counts")
	runCmd.Flags().StringSliceVar(&layouts, "layout", nil, "layouts to run (aos, soa)")
	runCmd.Flags().StringSliceVar(&operations, "op", nil, "operations to run (update_positions, kinetic_energy, apply_gravity, full_update)")
	runCmd.Flags().IntSliceVar(&counts, "counts", nil, "particle counts")
	runCmd.Flags().IntVar(&iterations, "iterations", config.DefaultIterations, "timed samples per case")
	runCmd.Flags().IntVar(&warmup, "warmup", config.DefaultWarmup, "untimed calls before sampling")
	runCmd.Flags().BoolVar(&fresh, "fresh", false, "rebuild the system before every sample")
	runCmd.Flags().Float32Var(&dt, "dt", config.DefaultDt, "timestep")
	runCmd.Flags().StringVar(&gravity, "gravity", "0,-9.81,0", "gravity vector x,y,z")
	runCmd.Flags().BoolVar(&save, "save", false, "save the report to the data directory")
	runCmd.Flags().StringVar(&profMode, "profile", "", "write a pprof profile of the run (cpu, mem, allocs)")
	runCmd.Flags().BoolVar(&noChart, "no-chart", false, "skip ns/particle charts")

	verifyCmd := &cobra.Command{
		Use:   "verify [count]",
		Short: "check that aos and soa produce identical results",
		Args:  cobra.MaximumNArgs(1),
		RunE:  verifyLayouts,
	}
	verifyCmd.Flags().IntVar(&steps, "steps", 100, "frames to simulate")
	verifyCmd.Flags().Float32Var(&dt, "dt", config.DefaultDt, "timestep")
	verifyCmd.Flags().StringVar(&gravity, "gravity", "0,-9.81,0", "gravity vector x,y,z")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list saved runs",
		Args:  cobra.NoArgs,
		RunE:  listRuns,
	}

	showCmd := &cobra.Command{
		Use:   "show [run_id]",
		Short: "print a saved report",
		Args:  cobra.ExactArgs(1),
		RunE:  showRun,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot ns/particle against particle count",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export a saved report as JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportJSON,
	}
	exportJSONCmd.Flags().StringVarP(&outPath, "out", "o", "", "output file (default stdout)")

	exportSVGCmd := &cobra.Command{
		Use:   "export-svg [run_id]",
		Short: "export an ns/particle chart of a saved run as SVG",
		Args:  cobra.ExactArgs(1),
		RunE:  exportSVG,
	}
	exportSVGCmd.Flags().StringVarP(&outPath, "out", "o", "", "output file (default stdout)")
	exportSVGCmd.Flags().StringVar(&svgOp, "op", string(bench.FullUpdate), "operation to chart")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list available presets",
		Args:  cobra.NoArgs,
		RunE:  listPresets,
	}

	initCmd := &cobra.Command{
		Use:   "init-config [path]",
		Short: "write a config file with default or preset values",
		Args:  cobra.ExactArgs(1),
		RunE:  initConfig,
	}
	initCmd.Flags().StringVar(&preset, "preset", "", "start from a preset")

	liveCmd := &cobra.Command{
		Use:   "live [count]",
		Short: "step both layouts side by side in the terminal",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runLive,
	}
	liveCmd.Flags().IntVar(&frameRate, "fps", 30, "frame rate")
	liveCmd.Flags().Float32Var(&dt, "dt", config.DefaultDt, "timestep")
	liveCmd.Flags().StringVar(&gravity, "gravity", "0,-9.81,0", "gravity vector x,y,z")

	rootCmd.AddCommand(runCmd, verifyCmd, listCmd, showCmd, plotCmd, exportJSONCmd, exportSVGCmd, presetsCmd, initCmd, liveCmd)
	return rootCmd
}

func newLogger(w io.Writer) *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

func runBench(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	bc, err := cfg.BenchConfig()
	if err != nil {
		return err
	}

	log := newLogger(cmd.ErrOrStderr())
	runner := bench.New(bc)
	if verbose {
		runner.AddObserver(bench.NewLogObserver(log))
	}

	if profMode != "" {
		mode, err := profileMode(profMode)
		if err != nil {
			return err
		}
		defer profile.Start(mode, profile.ProfilePath("."), profile.NoShutdownHook, profile.Quiet).Stop()
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	log.Info("running", "cases", len(bc.Cases()), "iterations", bc.Iterations, "fresh", bc.Fresh)
	report, runErr := runner.Run(ctx)
	if report == nil {
		return runErr
	}

	out := cmd.OutOrStdout()
	fmt.Fprint(out, viz.RenderReport(report))
	fmt.Fprintln(out)
	fmt.Fprintln(out, viz.Rule("aos/soa", ruleWidth))
	fmt.Fprint(out, viz.RenderSpeedups(report))

	if !noChart {
		for _, op := range report.Operations() {
			if chart := viz.Chart(report, op, 60, 10); chart != "" {
				fmt.Fprintln(out)
				fmt.Fprintln(out, viz.Rule(string(op), ruleWidth))
				fmt.Fprintln(out, chart)
			}
		}
	}

	if runErr != nil {
		return runErr
	}

	if save || cfg.Save {
		st := storage.New(dataDir)
		if err := st.Init(); err != nil {
			return err
		}
		runID, err := st.Save(report)
		if err != nil {
			return fmt.Errorf("save report: %w", err)
		}
		fmt.Fprintf(out, "\nsaved run %s\n", runID)
	}
	return nil
}

// resolveConfig layers defaults, then the config file or preset, then any
// flags set on the command line.
func resolveConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()

	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	if preset != "" {
		p := config.GetPreset(preset)
		if p == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
		}
		cfg.Counts = p.Counts
		cfg.Iterations = p.Iterations
		cfg.Warmup = p.Warmup
		cfg.Fresh = p.Fresh
	}

	flags := cmd.Flags()
	if flags.Changed("layout") {
		cfg.Layouts = layouts
	}
	if flags.Changed("op") {
		cfg.Operations = operations
	}
	if flags.Changed("counts") {
		cfg.Counts = counts
	}
	if flags.Changed("iterations") {
		cfg.Iterations = iterations
	}
	if flags.Changed("warmup") {
		cfg.Warmup = warmup
	}
	if flags.Changed("fresh") {
		cfg.Fresh = fresh
	}
	if flags.Changed("dt") {
		cfg.Dt = dt
	}
	if flags.Changed("gravity") {
		g, err := parseGravity(gravity)
		if err != nil {
			return nil, err
		}
		cfg.Gravity = config.GravityConfig{X: g.X, Y: g.Y, Z: g.Z}
	}
	return cfg, nil
}

func verifyLayouts(cmd *cobra.Command, args []string) error {
	count, err := countArg(args, 10_000)
	if err != nil {
		return err
	}
	g, err := parseGravity(gravity)
	if err != nil {
		return err
	}

	p := bench.Params{Dt: dt, Gravity: g}
	if err := bench.Verify(count, steps, p); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "aos and soa agree on %d particles over %d frames\n", count, steps)
	return nil
}

func listRuns(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	runs, err := st.List()
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if len(runs) == 0 {
		fmt.Fprintln(out, "no runs found")
		return nil
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tTIME\tCASES\tITER\tFRESH\tDT\tELAPSED")
	for _, run := range runs {
		r := run.Report
		fmt.Fprintf(w, "%s\t%s\t%d\t%d\t%t\t%.4f\t%v\n",
			run.ID,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			len(r.Results),
			r.Iterations,
			r.Fresh,
			r.Params.Dt,
			r.Elapsed.Round(1e6),
		)
	}
	return w.Flush()
}

func showRun(cmd *cobra.Command, args []string) error {
	meta, err := storage.New(dataDir).Load(args[0])
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%s  %s\n", meta.ID, meta.Timestamp.Format("2006-01-02 15:04:05"))
	fmt.Fprint(out, viz.RenderReport(meta.Report))
	fmt.Fprintln(out)
	fmt.Fprintln(out, viz.Rule("aos/soa", ruleWidth))
	fmt.Fprint(out, viz.RenderSpeedups(meta.Report))
	return nil
}

func plotRun(cmd *cobra.Command, args []string) error {
	meta, err := storage.New(dataDir).Load(args[0])
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	plotted := 0
	for _, op := range meta.Report.Operations() {
		chart := viz.Chart(meta.Report, op, 80, 12)
		if chart == "" {
			continue
		}
		fmt.Fprintln(out, chart)
		fmt.Fprintln(out)
		plotted++
	}
	if plotted == 0 {
		fmt.Fprintln(out, "run has fewer than two particle counts; nothing to plot")
	}
	return nil
}

func exportJSON(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	if outPath == "" {
		return st.ExportJSON(cmd.OutOrStdout(), args[0])
	}

	f, err := os.Create(outPath)
	if err != nil {
		return err
	}
	if err := st.ExportJSON(f, args[0]); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func exportSVG(cmd *cobra.Command, args []string) error {
	op, err := bench.ParseOperation(svgOp)
	if err != nil {
		return err
	}
	meta, err := storage.New(dataDir).Load(args[0])
	if err != nil {
		return err
	}

	if outPath == "" {
		return export.WriteSVG(cmd.OutOrStdout(), meta.Report, op, 800, 500)
	}
	f, err := os.Create(outPath)
	if err != nil {
		return err
	}
	if err := export.WriteSVG(f, meta.Report, op, 800, 500); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", outPath)
	return nil
}

func listPresets(cmd *cobra.Command, args []string) error {
	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "PRESET\tCOUNTS\tITER\tWARMUP\tFRESH")
	for _, name := range config.ListPresets() {
		p := config.GetPreset(name)
		fmt.Fprintf(w, "%s\t%v\t%d\t%d\t%t\n", name, p.Counts, p.Iterations, p.Warmup, p.Fresh)
	}
	return w.Flush()
}

func initConfig(cmd *cobra.Command, args []string) error {
	cfg := config.DefaultConfig()
	if preset != "" {
		cfg = config.GetPreset(preset)
		if cfg == nil {
			return fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
		}
	}
	if err := config.Save(args[0], cfg); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", args[0])
	return nil
}

func runLive(cmd *cobra.Command, args []string) error {
	count, err := countArg(args, 50_000)
	if err != nil {
		return err
	}
	g, err := parseGravity(gravity)
	if err != nil {
		return err
	}
	return viz.RunLive(count, bench.Params{Dt: dt, Gravity: g}, frameRate)
}

func countArg(args []string, def int) (int, error) {
	if len(args) == 0 {
		return def, nil
	}
	n, err := strconv.Atoi(args[0])
	if err != nil || n < 0 {
		return 0, fmt.Errorf("invalid particle count: %q", args[0])
	}
	return n, nil
}
