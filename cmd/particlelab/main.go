package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/particlelab/internal/batch"
	"github.com/san-kum/particlelab/internal/compare"
	"github.com/san-kum/particlelab/internal/config"
	"github.com/san-kum/particlelab/internal/experiment"
	"github.com/san-kum/particlelab/internal/logging"
	"github.com/san-kum/particlelab/internal/sizing"
	"github.com/san-kum/particlelab/internal/spatial"
	"github.com/san-kum/particlelab/internal/storage"
	"github.com/san-kum/particlelab/internal/synth"
	"github.com/san-kum/particlelab/internal/viscosity"
	"github.com/san-kum/particlelab/internal/viz"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	dataDir    string
	configFile string
	verbose    bool
	preset     string

	measTemp float64
	refTemp  float64
	medium   string

	width  float64
	height float64
	label  string
	save   bool

	count int
	seed  int64
	out   string

	sweepFrom  float64
	sweepTo    float64
	sweepSteps int
	sweepTable bool

	logger = zap.NewNop()
)

func main() {
	err := newRootCmd().Execute()
	_ = logger.Sync()
	if err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "particlelab",
		Short: "nanoparticle size correction and spatial statistics",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			l, err := logging.New(verbose)
			if err != nil {
				return err
			}
			logger = l
			return nil
		},
		RunE: runTUI,
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".particlelab", "data directory")
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file path (yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")

	viscosityCmd := &cobra.Command{
		Use:   "viscosity [temp...]",
		Short: "water viscosity at the given temperatures (°C)",
		RunE:  showViscosity,
	}

	correctCmd := &cobra.Command{
		Use:   "correct [diameter...]",
		Short: "correction factor, optionally applied to diameters (nm)",
		RunE:  runCorrect,
	}
	addConditionFlags(correctCmd)

	mediaCmd := &cobra.Command{
		Use:   "media",
		Short: "list known suspension media",
		RunE:  listMedia,
	}

	sweepCmd := &cobra.Command{
		Use:   "sweep",
		Short: "plot the correction factor against measurement temperature",
		RunE:  runSweep,
	}
	addConditionFlags(sweepCmd)
	sweepCmd.Flags().Float64Var(&sweepFrom, "from", 10, "first measurement temperature")
	sweepCmd.Flags().Float64Var(&sweepTo, "to", 45, "last measurement temperature")
	sweepCmd.Flags().IntVar(&sweepSteps, "steps", 36, "number of temperatures")
	sweepCmd.Flags().BoolVar(&sweepTable, "table", false, "print a table instead of a chart")

	spatialCmd := &cobra.Command{
		Use:   "spatial [positions.csv]",
		Short: "spatial statistics for particle positions ('-' reads stdin)",
		Args:  cobra.ExactArgs(1),
		RunE:  runSpatial,
	}
	addConditionFlags(spatialCmd)
	addFrameFlags(spatialCmd)
	spatialCmd.Flags().StringVar(&label, "label", "", "run label")
	spatialCmd.Flags().BoolVar(&save, "save", false, "store the run")

	synthCmd := &cobra.Command{
		Use:   "synth [pattern]",
		Short: "generate synthetic particle positions",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runSynth,
	}
	addFrameFlags(synthCmd)
	synthCmd.Flags().IntVar(&count, "count", config.DefaultSynthCount, "number of particles")
	synthCmd.Flags().Int64Var(&seed, "seed", config.DefaultSeed, "random seed")
	synthCmd.Flags().StringVarP(&out, "out", "o", "", "output csv (default stdout)")

	compareCmd := &cobra.Command{
		Use:   "compare [a] [b]",
		Short: "compare two samples (run ids or positions files)",
		Args:  cobra.ExactArgs(2),
		RunE:  runCompare,
	}
	addConditionFlags(compareCmd)
	addFrameFlags(compareCmd)

	batchCmd := &cobra.Command{
		Use:   "batch [scenario.yaml]",
		Short: "run every sample of a scenario",
		Args:  cobra.ExactArgs(1),
		RunE:  runBatch,
	}
	batchCmd.Flags().BoolVar(&save, "save", false, "store each run")

	runsCmd := &cobra.Command{
		Use:   "runs",
		Short: "list stored runs",
		RunE:  listRuns,
	}

	showCmd := &cobra.Command{
		Use:   "show [run_id]",
		Short: "print run metadata",
		Args:  cobra.ExactArgs(1),
		RunE:  showRun,
	}

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list measurement presets",
		RunE:  listPresets,
	}

	tuiCmd := &cobra.Command{
		Use:   "tui",
		Short: "interactive correction calculator",
		RunE:  runTUI,
	}
	addConditionFlags(tuiCmd)

	rootCmd.AddCommand(viscosityCmd, correctCmd, mediaCmd, sweepCmd, spatialCmd, synthCmd,
		compareCmd, batchCmd, runsCmd, showCmd, presetsCmd, tuiCmd)

	return rootCmd
}

func addConditionFlags(cmd *cobra.Command) {
	cmd.Flags().Float64Var(&measTemp, "temp", config.DefaultMeasurementTemp, "measurement temperature (°C)")
	cmd.Flags().Float64Var(&refTemp, "ref", config.DefaultReferenceTemp, "reference temperature (°C)")
	cmd.Flags().StringVar(&medium, "medium", config.DefaultMedium, "suspension medium")
	cmd.Flags().StringVar(&preset, "preset", "", "use a measurement preset")
}

func addFrameFlags(cmd *cobra.Command) {
	cmd.Flags().Float64Var(&width, "width", config.DefaultFrameWidth, "frame width")
	cmd.Flags().Float64Var(&height, "height", config.DefaultFrameHeight, "frame height")
}

// resolveConfig layers defaults, preset, config file and explicitly set
// flags, in that order.
func resolveConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Resolve(preset, configFile, func(c *config.Config) { applyFlags(cmd, c) })
	if err != nil {
		return nil, err
	}
	logger.Debug("resolved config",
		zap.Float64("measurement_temp", cfg.MeasurementTemp),
		zap.Float64("reference_temp", cfg.ReferenceTemp),
		zap.String("medium", cfg.Medium),
		zap.Float64("width", cfg.Frame.Width),
		zap.Float64("height", cfg.Frame.Height))
	return cfg, nil
}

// applyFlags copies the flags the user set onto cfg. Flags left at their
// defaults do not override the preset or config file.
func applyFlags(cmd *cobra.Command, cfg *config.Config) {
	flags := cmd.Flags()
	if flags.Changed("temp") {
		cfg.MeasurementTemp = measTemp
	}
	if flags.Changed("ref") {
		cfg.ReferenceTemp = refTemp
	}
	if flags.Changed("medium") {
		cfg.Medium = medium
	}
	if flags.Changed("width") {
		cfg.Frame.Width = width
	}
	if flags.Changed("height") {
		cfg.Frame.Height = height
	}
	if flags.Changed("count") {
		cfg.Synth.Count = count
	}
	if flags.Changed("seed") {
		cfg.Seed = seed
	}
}

func parseFloats(args []string) ([]float64, error) {
	vals := make([]float64, 0, len(args))
	for _, a := range args {
		v, err := strconv.ParseFloat(a, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid number %q", a)
		}
		vals = append(vals, v)
	}
	return vals, nil
}

func showViscosity(cmd *cobra.Command, args []string) error {
	temps, err := parseFloats(args)
	if err != nil {
		return err
	}
	if len(temps) == 0 {
		temps = []float64{4, 20, 25, 37}
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "TEMP_C\tKELVIN\tVISCOSITY_PA_S\tVISCOSITY_MPA_S")
	for _, t := range temps {
		eta := viscosity.WaterViscosity(t)
		fmt.Fprintf(w, "%.2f\t%.2f\t%.4e\t%.4f\n", t, viscosity.Kelvin(t), eta, eta*1000)
	}
	return w.Flush()
}

func runCorrect(cmd *cobra.Command, args []string) error {
	diameters, err := parseFloats(args)
	if err != nil {
		return err
	}
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}

	c := cfg.Correction()
	if !c.KnownMedium {
		logger.Warn("unknown medium, treating as water", zap.String("medium", cfg.Medium))
	}
	fmt.Println(c.Breakdown())

	if len(diameters) == 0 {
		return nil
	}

	fmt.Println()
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "MEASURED_NM\tCORRECTED_NM")
	for _, d := range diameters {
		fmt.Fprintf(w, "%.2f\t%.2f\n", d, c.Apply(d))
	}
	if err := w.Flush(); err != nil {
		return err
	}

	if len(diameters) > 1 {
		fmt.Println()
		s := sizing.Summarize(diameters)
		printSizes(s, s.Corrected(c))
	}
	return nil
}

func listMedia(cmd *cobra.Command, args []string) error {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "MEDIUM\tMULTIPLIER\tDESCRIPTION")
	for _, m := range viscosity.Media() {
		fmt.Fprintf(w, "%s\t%.2f\t%s\n", m, m.Multiplier(), m.Description())
	}
	return w.Flush()
}

func runSweep(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	points := viscosity.TemperatureSweep(cfg.ReferenceTemp, cfg.Medium, sweepFrom, sweepTo, sweepSteps)

	if sweepTable {
		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "TEMP_C\tVISCOSITY_MPA_S\tFACTOR")
		for _, p := range points {
			fmt.Fprintf(w, "%.2f\t%.4f\t%.4f\n", p.TempC, p.Viscosity*1000, p.Factor)
		}
		return w.Flush()
	}

	caption := fmt.Sprintf("correction factor, %s, %.1f..%.1f °C vs %.1f °C reference",
		cfg.Medium, sweepFrom, sweepTo, cfg.ReferenceTemp)
	graph := asciigraph.Plot(viscosity.Factors(points),
		asciigraph.Height(12),
		asciigraph.Width(72),
		asciigraph.Caption(caption),
		asciigraph.Precision(3),
	)
	fmt.Println(graph)
	return nil
}

func readPositions(path string) ([]spatial.Position, error) {
	if path == "-" {
		return storage.ReadPositions(os.Stdin)
	}
	return storage.ReadPositionsFile(path)
}

func analyze(ctx context.Context, cfg *config.Config, name, source string, positions []spatial.Position) (*experiment.Result, error) {
	exp := experiment.New(experiment.FromConfig(name, source, cfg))
	if err := exp.Setup(positions); err != nil {
		return nil, err
	}
	return exp.Run(ctx)
}

func runSpatial(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	source := args[0]
	positions, err := readPositions(source)
	if err != nil {
		return err
	}
	logger.Debug("positions loaded", zap.String("source", source), zap.Int("count", len(positions)))

	name := label
	if name == "" {
		name = strings.TrimSuffix(filepath.Base(source), filepath.Ext(source))
	}
	result, err := analyze(cmd.Context(), cfg, name, source, positions)
	if err != nil {
		return err
	}

	printResult(result)

	if save {
		st := storage.New(dataDir)
		if err := st.Init(); err != nil {
			return err
		}
		id, err := st.Save(result.Record(), result.Positions)
		if err != nil {
			return err
		}
		fmt.Printf("\nrun id: %s\n", id)
	}
	return nil
}

func printResult(r *experiment.Result) {
	fmt.Println(viz.Title.Render(r.Label))
	fmt.Println(viz.SpatialSummary(r.Spatial))

	if r.Sizes != nil {
		fmt.Println()
		fmt.Println(viz.Metric("correction factor", viz.FactorBadge(r.Correction)))
		printSizes(r.Sizes, r.CorrectedSizes)
	}

	if len(r.NearestNeighbors) > 1 {
		profile := append([]float64(nil), r.NearestNeighbors...)
		sort.Float64s(profile)
		graph := asciigraph.Plot(profile,
			asciigraph.Height(8),
			asciigraph.Width(72),
			asciigraph.Caption("nearest-neighbour distances, sorted"),
		)
		fmt.Println()
		fmt.Println(graph)
	}
}

func printSizes(raw, corrected *sizing.Summary) {
	if raw == nil {
		return
	}
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "\tN\tMEAN\tSD\tD10\tD50\tD90\tSPAN")
	row := func(name string, s *sizing.Summary) {
		fmt.Fprintf(w, "%s\t%d\t%.2f\t%.2f\t%.2f\t%.2f\t%.2f\t%.3f\n",
			name, s.Count, s.Mean, s.StdDev, s.D10, s.D50, s.D90, s.Span())
	}
	row("measured", raw)
	if corrected != nil {
		row("corrected", corrected)
	}
	w.Flush()
}

func runSynth(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	name := cfg.Synth.Pattern
	if len(args) > 0 {
		name = args[0]
	}

	registry := synth.NewRegistry()
	positions, err := registry.Generate(name, cfg.SpatialFrame(), cfg.Synth.Count, cfg.Seed,
		synth.WithSizeDistribution(cfg.Synth.MedianSize, cfg.Synth.SizeSigma),
		synth.WithFrames(cfg.Synth.Frames),
	)
	if err != nil {
		return fmt.Errorf("%w (available: %v)", err, registry.List())
	}
	logger.Debug("generated positions", zap.String("pattern", name), zap.Int("count", len(positions)), zap.Int64("seed", cfg.Seed))

	if out == "" {
		return storage.WritePositions(os.Stdout, positions)
	}
	f, err := os.Create(out)
	if err != nil {
		return err
	}
	if err := storage.WritePositions(f, positions); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	fmt.Printf("wrote %d %s particles to %s\n", len(positions), name, out)
	return nil
}

// loadSample resolves a compare argument: an existing file is analysed with
// the current settings, anything else is looked up as a stored run.
func loadSample(cmd *cobra.Command, cfg *config.Config, arg string) (compare.Sample, error) {
	if _, err := os.Stat(arg); err == nil {
		positions, err := storage.ReadPositionsFile(arg)
		if err != nil {
			return compare.Sample{}, err
		}
		name := strings.TrimSuffix(filepath.Base(arg), filepath.Ext(arg))
		result, err := analyze(cmd.Context(), cfg, name, arg, positions)
		if err != nil {
			return compare.Sample{}, err
		}
		return result.Sample(), nil
	}

	run, err := storage.New(dataDir).Load(arg)
	if err != nil {
		return compare.Sample{}, err
	}
	name := run.Label
	if name == "" {
		name = run.ID
	}
	return compare.Sample{Label: name, Spatial: run.Spatial, Sizes: run.CorrectedSizes}, nil
}

func runCompare(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	a, err := loadSample(cmd, cfg, args[0])
	if err != nil {
		return err
	}
	b, err := loadSample(cmd, cfg, args[1])
	if err != nil {
		return err
	}

	c := compare.Compare(a, b)
	fmt.Printf("%s  vs  %s\n\n", c.A, c.B)

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "METRIC\t%s\t%s\tDIFF\tRATIO\n", strings.ToUpper(c.A), strings.ToUpper(c.B))
	for _, d := range c.Deltas {
		fmt.Fprintf(w, "%s\t%.4f\t%.4f\t%+.4f\t%.3f\n", d.Metric, d.A, d.B, d.Diff, d.Ratio)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	if c.InterpretationA != "" && c.InterpretationB != "" {
		fmt.Printf("\n%s -> %s", viz.InterpretationBadge(c.InterpretationA), viz.InterpretationBadge(c.InterpretationB))
		if c.InterpretationShift {
			fmt.Print("  (interpretation changed)")
		}
		fmt.Println()
	}
	return nil
}

func runBatch(cmd *cobra.Command, args []string) error {
	scenario, err := batch.LoadScenario(args[0])
	if err != nil {
		return err
	}
	base, err := resolveConfig(cmd)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	results, err := batch.RunScenario(ctx, scenario, base, logger)
	if err != nil {
		var se *batch.SampleError
		if errors.As(err, &se) {
			logger.Error("scenario stopped", sampleErrorFields(se)...)
		}
		return err
	}

	var st *storage.Store
	if save {
		st = storage.New(dataDir)
		if err := st.Init(); err != nil {
			return err
		}
	}

	if scenario.Name != "" {
		fmt.Println(viz.Title.Render(scenario.Name))
	}
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "SAMPLE\tN\tINDEX\tINTERPRETATION\tFACTOR\tD50_CORR\tRUN")
	for _, r := range results {
		runID := "-"
		if st != nil {
			if runID, err = st.Save(r.Record(), r.Positions); err != nil {
				return err
			}
		}
		n, index, interp := 0, 0.0, spatial.NotApplicable
		if r.Spatial != nil {
			n, index, interp = r.Spatial.Count, r.Spatial.ClusteringIndex, r.Spatial.Interpretation
		}
		d50 := "-"
		if r.CorrectedSizes != nil {
			d50 = fmt.Sprintf("%.2f", r.CorrectedSizes.D50)
		}
		fmt.Fprintf(w, "%s\t%d\t%.3f\t%s\t%.4f\t%s\t%s\n",
			r.Label, n, index, interp, r.Correction.Factor, d50, runID)
	}
	return w.Flush()
}

// sampleErrorFields numbers samples from one, as SampleError.Error does.
func sampleErrorFields(se *batch.SampleError) []zap.Field {
	return []zap.Field{
		zap.Int("sample", se.Index+1),
		zap.String("label", se.Label),
		zap.Error(se.Wrapped),
	}
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
	fmt.Fprintln(w, "ID\tLABEL\tTIME\tN\tINDEX\tINTERPRETATION\tFACTOR")

	for _, run := range runs {
		n, index, interp := 0, 0.0, spatial.NotApplicable
		if run.Spatial != nil {
			n, index, interp = run.Spatial.Count, run.Spatial.ClusteringIndex, run.Spatial.Interpretation
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%.3f\t%s\t%.4f\n",
			run.ID,
			run.Label,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			n,
			index,
			interp,
			run.Correction.Factor,
		)
	}

	return w.Flush()
}

func showRun(cmd *cobra.Command, args []string) error {
	run, err := storage.New(dataDir).Load(args[0])
	if err != nil {
		return err
	}
	data, err := json.MarshalIndent(run, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(data))
	return nil
}

func listPresets(cmd *cobra.Command, args []string) error {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "PRESET\tTEMP_C\tREF_C\tMEDIUM\tFACTOR\tDESCRIPTION")
	for _, name := range config.ListPresets() {
		p, _ := config.GetPreset(name)
		c := viscosity.CorrectionFactor(p.MeasurementTemp, p.ReferenceTemp, p.Medium)
		fmt.Fprintf(w, "%s\t%.1f\t%.1f\t%s\t%.4f\t%s\n",
			name, p.MeasurementTemp, p.ReferenceTemp, p.Medium, c.Factor, p.Description)
	}
	return w.Flush()
}

func runTUI(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	return viz.RunCalculator(cfg.MeasurementTemp, cfg.ReferenceTemp, cfg.Medium)
}
