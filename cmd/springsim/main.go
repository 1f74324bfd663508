package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"sort"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/san-kum/springsim/internal/analysis"
	"github.com/san-kum/springsim/internal/config"
	"github.com/san-kum/springsim/internal/dynamo"
	"github.com/san-kum/springsim/internal/experiment"
	"github.com/san-kum/springsim/internal/optim"
	"github.com/san-kum/springsim/internal/storage"
	"github.com/san-kum/springsim/internal/viz"
)

var (
	dataDir     string
	logLevel    string
	preset      string
	dt          float64
	steps       int
	integrator  string
	noValidate  bool
	noSave      bool
	output      string
	pointIdx    int
	theme       string
	trajectory  bool
	sweepParams []string
	metricName  string

	logger = log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		TimeFormat:      time.Kitchen,
		Prefix:          "springsim",
	})
)

func main() {
	rootCmd := &cobra.Command{
		Use:           "springsim",
		Short:         "mass-spring simulation lab",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			level, err := log.ParseLevel(logLevel)
			if err != nil {
				return err
			}
			logger.SetLevel(level)
			return nil
		},
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".springsim", "data directory")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")

	runCmd := &cobra.Command{
		Use:   "run [scene.yaml]",
		Short: "run a scene and record the trajectory",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runScene,
	}
	addSceneFlags(runCmd)
	runCmd.Flags().BoolVar(&noSave, "no-save", false, "do not record the run")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list recorded runs",
		Args:  cobra.NoArgs,
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot one point of a recorded run",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}
	plotCmd.Flags().IntVar(&pointIdx, "point", 0, "point index to plot")

	analyzeCmd := &cobra.Command{
		Use:   "analyze [run_id]",
		Short: "frequency analysis of one point",
		Args:  cobra.ExactArgs(1),
		RunE:  analyzeRun,
	}
	analyzeCmd.Flags().IntVar(&pointIdx, "point", 0, "point index to analyze")

	exportCmd := &cobra.Command{
		Use:   "export [run_id]",
		Short: "export a recorded run as JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportRun,
	}
	exportCmd.Flags().StringVarP(&output, "output", "o", "", "output file (default stdout)")

	presetsCmd := &cobra.Command{
		Use:   "presets [name]",
		Short: "list presets, or print one as YAML",
		Args:  cobra.MaximumNArgs(1),
		RunE:  showPresets,
	}

	compareCmd := &cobra.Command{
		Use:   "compare [scene] [integrator1] [integrator2] ...",
		Short: "run a scene once per integrator and compare",
		Args:  cobra.MinimumNArgs(1),
		RunE:  compareVariants,
	}
	addSceneFlags(compareCmd)

	sweepCmd := &cobra.Command{
		Use:   "sweep [scene]",
		Short: "grid search scene parameters for the lowest metric",
		Args:  cobra.MaximumNArgs(1),
		RunE:  sweepScene,
	}
	addSceneFlags(sweepCmd)
	sweepCmd.Flags().StringArrayVar(&sweepParams, "param", nil, "name=v1,v2,... ("+strings.Join(optim.SceneParams(), ", ")+")")
	sweepCmd.Flags().StringVar(&metricName, "metric", "energy_drift", "metric to minimise")

	liveCmd := &cobra.Command{
		Use:   "live [scene.yaml]",
		Short: "step a scene live in the terminal",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runLive,
	}
	addSceneFlags(liveCmd)

	svgCmd := &cobra.Command{
		Use:   "svg [scene.yaml]",
		Short: "run a scene and draw its final frame as SVG",
		Args:  cobra.MaximumNArgs(1),
		RunE:  renderSVG,
	}
	addSceneFlags(svgCmd)
	svgCmd.Flags().StringVarP(&output, "output", "o", "scene.svg", "output file")
	svgCmd.Flags().StringVar(&theme, "theme", "cyberpunk", "color theme ("+strings.Join(viz.ThemeNames(), ", ")+")")
	svgCmd.Flags().BoolVar(&trajectory, "trajectory", false, "draw the path of --point instead of the final frame")
	svgCmd.Flags().IntVar(&pointIdx, "point", 0, "point index for --trajectory")

	rootCmd.AddCommand(runCmd, listCmd, plotCmd, analyzeCmd, exportCmd, presetsCmd, compareCmd, sweepCmd, liveCmd, svgCmd)

	if err := rootCmd.Execute(); err != nil {
		logger.Error(err)
		os.Exit(1)
	}
}

func addSceneFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&preset, "preset", "", "use a preset scene ("+strings.Join(config.ListPresets(), ", ")+")")
	cmd.Flags().Float64Var(&dt, "dt", config.DefaultDt, "timestep")
	cmd.Flags().IntVar(&steps, "steps", config.DefaultSteps, "number of steps")
	cmd.Flags().StringVar(&integrator, "integrator", config.DefaultIntegrator, "integrator (euler, leapfrog, verlet, rk4)")
	cmd.Flags().BoolVar(&noValidate, "no-validate", false, "apply steps even if they produce NaN or Inf")
}

func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt)
}

func runScene(cmd *cobra.Command, args []string) error {
	cfg, err := loadScene(cmd, args)
	if err != nil {
		return err
	}

	exp := experiment.New(cfg)
	if err := exp.Setup(experiment.NewRegistry().DefaultMetrics()); err != nil {
		return err
	}
	exp.Scene().Simulator().AddObserver(&progressLogger{every: max(1, cfg.Steps/10), total: cfg.Steps})

	ctx, cancel := signalContext()
	defer cancel()

	logger.Info("running scene", "scene", cfg.Name, "integrator", cfg.Integrator,
		"points", len(cfg.Points), "springs", len(cfg.Springs), "steps", cfg.Steps)
	start := time.Now()

	result, runErr := exp.Run(ctx)
	elapsed := time.Since(start)
	if runErr != nil {
		logger.Warn("run stopped early", "step", result.Steps, "err", runErr)
	}

	if !noSave {
		st := storage.New(dataDir)
		runID, err := st.Save(cfg, result, runErr)
		if err != nil {
			return fmt.Errorf("save run: %w", err)
		}
		fmt.Printf("run id: %s\n", runID)
	}

	fmt.Printf("completed in %v\n", elapsed)
	fmt.Printf("steps: %d/%d\n", result.Steps, cfg.Steps)
	fmt.Println("\nmetrics:")
	for _, name := range sortedKeys(result.Metrics) {
		fmt.Printf("  %s: %.6f\n", name, result.Metrics[name])
	}

	return runErr
}

// progressLogger reports progress at debug level every few steps.
type progressLogger struct {
	every, total int
}

func (p *progressLogger) OnStep(s *dynamo.Simulator) {
	if s.Steps()%p.every == 0 {
		logger.Debug("progress", "step", s.Steps(), "of", p.total, "t", fmt.Sprintf("%.3f", s.Time()))
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
	fmt.Fprintln(w, "ID\tSCENE\tTIME\tSTEPS\tDT\tINTEG\tSTATUS")

	for _, run := range runs {
		status := "ok"
		if run.Error != "" {
			status = "failed"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%d/%d\t%.4fs\t%s\t%s\n",
			run.ID,
			run.Scene,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.StepsTaken,
			run.Steps,
			run.Dt,
			run.Integrator,
			status,
		)
	}

	return w.Flush()
}

func plotRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}

	states, _, err := st.LoadStates(runID)
	if err != nil {
		return err
	}

	if len(states) == 0 {
		return fmt.Errorf("no data to plot")
	}
	if pointIdx < 0 || 3*pointIdx+2 >= len(states[0]) {
		return fmt.Errorf("point %d out of range (run has %d points)", pointIdx, len(states[0])/3)
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("scene: %s\n", meta.Scene)
	fmt.Printf("samples: %d\n\n", len(states))

	for axis, name := range []string{"x", "y", "z"} {
		data := make([]float64, len(states))
		for i := range states {
			data[i] = states[i][3*pointIdx+axis]
		}

		graph := asciigraph.Plot(data,
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.Caption(fmt.Sprintf("%s%d vs time", name, pointIdx)),
		)
		fmt.Println(graph)
		fmt.Println()
	}

	return nil
}

func analyzeRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}

	states, _, err := st.LoadStates(runID)
	if err != nil {
		return err
	}
	if len(states) < 2 {
		return fmt.Errorf("no data")
	}
	if pointIdx < 0 || 3*pointIdx+2 >= len(states[0]) {
		return fmt.Errorf("point %d out of range (run has %d points)", pointIdx, len(states[0])/3)
	}

	fmt.Printf("frequency analysis: %s\n", meta.ID)
	fmt.Printf("scene: %s\n\n", meta.Scene)

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "AXIS\tFREQ (Hz)\tPERIOD (s)\tPOWER")
	for axis, name := range []string{"x", "y", "z"} {
		data := make([]float64, len(states))
		for i := range states {
			data[i] = states[i][3*pointIdx+axis]
		}
		freq, power := analysis.DominantFrequency(data, meta.Dt)
		period := "-"
		if freq > 0 && power > 1e-9 {
			period = fmt.Sprintf("%.3f", 1/freq)
		}
		fmt.Fprintf(w, "%s%d\t%.3f\t%s\t%.3e\n", name, pointIdx, freq, period, power)
	}
	return w.Flush()
}

func exportRun(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	data, err := st.Export(args[0])
	if err != nil {
		return err
	}
	if output == "" {
		return storage.WriteJSON(os.Stdout, data)
	}
	if err := storage.ExportJSON(output, data); err != nil {
		return err
	}
	logger.Info("exported run", "id", args[0], "path", output)
	return nil
}

func showPresets(cmd *cobra.Command, args []string) error {
	if len(args) == 1 {
		cfg := config.GetPreset(args[0])
		if cfg == nil {
			return fmt.Errorf("unknown preset: %s (available: %v)", args[0], config.ListPresets())
		}
		data, err := yaml.Marshal(cfg)
		if err != nil {
			return err
		}
		_, err = os.Stdout.Write(data)
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tINTEG\tPOINTS\tSPRINGS\tDT\tSTEPS")
	for _, name := range config.ListPresets() {
		cfg := config.GetPreset(name)
		fmt.Fprintf(w, "%s\t%s\t%d\t%d\t%.4f\t%d\n",
			name, cfg.Integrator, len(cfg.Points), len(cfg.Springs), cfg.Dt, cfg.Steps)
	}
	return w.Flush()
}

func compareVariants(cmd *cobra.Command, args []string) error {
	cfg, err := loadScene(cmd, args[:1])
	if err != nil {
		return err
	}

	variants := dynamo.Variants()
	if len(args) > 1 {
		variants = make([]dynamo.Variant, 0, len(args)-1)
		for _, name := range args[1:] {
			v, err := dynamo.ParseVariant(name)
			if err != nil {
				return err
			}
			variants = append(variants, v)
		}
	}

	ctx, cancel := signalContext()
	defer cancel()

	logger.Info("comparing integrators", "scene", cfg.Name, "variants", len(variants), "steps", cfg.Steps)
	results, err := experiment.Compare(ctx, cfg, variants, experiment.NewRegistry())
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "INTEG\tSTEPS\tENERGY\tDRIFT\tMOMENTUM\tSTABILITY\tSTATUS")
	for _, c := range results {
		status := "ok"
		if c.Err != nil {
			status = c.Err.Error()
		}
		m := c.Result.Metrics
		fmt.Fprintf(w, "%s\t%d\t%.6f\t%.3e\t%.6f\t%.3f\t%s\n",
			c.Variant, c.Result.Steps, m["energy"], m["energy_drift"], m["momentum"], m["stability"], status)
	}
	return w.Flush()
}

func sweepScene(cmd *cobra.Command, args []string) error {
	cfg, err := loadScene(cmd, args)
	if err != nil {
		return err
	}
	params, err := parseSweep(sweepParams)
	if err != nil {
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()

	logger.Info("sweeping", "scene", cfg.Name, "metric", metricName, "params", len(params))
	g := optim.NewGridSearch(params)
	best, trials, err := g.Search(ctx, optim.SceneBuilder(cfg, experiment.NewRegistry()), metricName)
	if err != nil && !errors.Is(err, optim.ErrNoTrial) {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	header := make([]string, 0, len(params)+2)
	for _, p := range params {
		header = append(header, strings.ToUpper(p.Name))
	}
	fmt.Fprintln(w, strings.Join(append(header, strings.ToUpper(metricName), "STATUS"), "\t"))
	for _, tr := range trials {
		row := make([]string, 0, len(params)+2)
		for _, p := range params {
			row = append(row, strconv.FormatFloat(tr.Params[p.Name], 'g', -1, 64))
		}
		status := "ok"
		if tr.Err != nil {
			status = tr.Err.Error()
		}
		row = append(row, fmt.Sprintf("%.6e", tr.Value), status)
		fmt.Fprintln(w, strings.Join(row, "\t"))
	}
	if err := w.Flush(); err != nil {
		return err
	}

	if err != nil {
		return err
	}
	fmt.Printf("\nbest: %v (%s=%.6e)\n", best.Params, metricName, best.Value)
	return nil
}

func runLive(cmd *cobra.Command, args []string) error {
	cfg, err := loadScene(cmd, args)
	if err != nil {
		return err
	}
	return viz.Run(cfg)
}

func renderSVG(cmd *cobra.Command, args []string) error {
	cfg, err := loadScene(cmd, args)
	if err != nil {
		return err
	}
	if trajectory && (pointIdx < 0 || pointIdx >= len(cfg.Points)) {
		return fmt.Errorf("point %d out of range (scene has %d points)", pointIdx, len(cfg.Points))
	}

	exp := experiment.New(cfg)
	if err := exp.Setup(nil); err != nil {
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()

	result, runErr := exp.Run(ctx)
	if runErr != nil {
		logger.Warn("drawing partial run", "step", result.Steps, "err", runErr)
	}

	var svg string
	if trajectory {
		path := make([]mgl64.Vec3, len(result.States))
		for i, s := range result.States {
			path[i] = mgl64.Vec3{s[3*pointIdx], s[3*pointIdx+1], s[3*pointIdx+2]}
		}
		svg = viz.TrajectoryToSVG(path, 800, 600, viz.GetTheme(theme))
	} else {
		svg = viz.FrameToSVG(viz.FrameFromScene(exp.Scene()), 800, 600, viz.GetTheme(theme))
	}

	if err := os.WriteFile(output, []byte(svg), 0644); err != nil {
		return err
	}
	logger.Info("wrote svg", "path", output, "steps", result.Steps)
	return nil
}

func sortedKeys(m map[string]float64) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
