// Package main provides the CLI entrypoint for hymod.
package main

import (
	"context"
	"fmt"
	"math"
	"os"
	"os/signal"
	"strings"

	"github.com/spf13/cobra"

	"github.com/maseology/hymod"
	"github.com/maseology/hymod/calibrate"
	"github.com/maseology/hymod/config"
	"github.com/maseology/hymod/forcing"
	"github.com/maseology/hymod/internal/log"
	"github.com/maseology/hymod/objfunc"
	"github.com/maseology/hymod/store"
)

const defaultBest = 10

var (
	cfgPath     string
	forcingPath string
	debug       bool

	calibOut string
	sampleN  int
	bestK    int
	progress bool
)

func main() {
	rootCmd := newRootCmd()
	err := rootCmd.Execute()
	log.Sync()
	if err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "hymod",
		Short:         "HyMod daily rainfall-runoff model",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			return log.Init(debug)
		},
	}
	rootCmd.PersistentFlags().StringVarP(&cfgPath, "config", "c", "hymod.toml", "TOML configuration file")
	rootCmd.PersistentFlags().StringVarP(&forcingPath, "forcing", "f", "", "forcing file (.csv, .mpk or MOPEX text), overrides [site] forcing")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "development logging")

	rootCmd.AddCommand(newRunCmd())
	rootCmd.AddCommand(newCalibrateCmd())
	rootCmd.AddCommand(newSampleCmd())
	rootCmd.AddCommand(newCacheCmd())
	return rootCmd
}

func newRunCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Simulate the configured period",
		Args:  cobra.NoArgs,
		RunE:  runRunCmd,
	}
}

func newCalibrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "calibrate",
		Short: "Fit parameters by multi-start Nelder-Mead or shuffled complex evolution",
		Args:  cobra.NoArgs,
		RunE:  runCalibrateCmd,
	}
	cmd.Flags().StringVarP(&calibOut, "out", "o", "", "write the calibrated run to this CSV file")
	return cmd
}

func newSampleCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sample",
		Short: "Monte Carlo sample the parameter space into the sample database",
		Args:  cobra.NoArgs,
		RunE:  runSampleCmd,
	}
	cmd.Flags().IntVarP(&sampleN, "samples", "n", 0, "number of samples (default from config)")
	cmd.Flags().IntVar(&bestK, "best", defaultBest, "number of best samples to report")
	cmd.Flags().BoolVar(&progress, "progress", true, "show a progress bar")
	return cmd
}

func newCacheCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "cache <out.mpk>",
		Short: "Convert the forcing to a msgpack cache",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			_, frc, err := load()
			if err != nil {
				return err
			}
			if err := frc.SaveMsgpack(args[0]); err != nil {
				return fmt.Errorf("failed to write cache: %w", err)
			}
			log.Infof("forcing cached to %s", args[0])
			return nil
		},
	}
}

func load() (*config.Config, *forcing.Forcing, error) {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return nil, nil, err
	}
	fp := forcingPath
	if fp == "" {
		fp = cfg.Site.Forcing
	}
	if fp == "" {
		return nil, nil, fmt.Errorf("no forcing given: use --forcing or [site] forcing")
	}
	lat := math.NaN()
	if cfg.Site.Latitude != nil {
		lat = *cfg.Site.Latitude
	} else if !strings.HasSuffix(strings.ToLower(fp), ".mpk") {
		return nil, nil, fmt.Errorf("[site] latitude is required to read %s", fp)
	}
	frc, err := forcing.LoadFile(fp, lat)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load forcing %s: %w", fp, err)
	}
	if cfg.Site.Latitude != nil {
		frc.Lat = lat
	}
	frc.CheckAndPrint()
	return &cfg, frc, nil
}

func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt)
}

func runRunCmd(_ *cobra.Command, _ []string) error {
	cfg, frc, err := load()
	if err != nil {
		return err
	}
	m, err := cfg.Model()
	if err != nil {
		return err
	}
	start, n, err := cfg.Window(frc)
	if err != nil {
		return err
	}
	s, err := m.Run(frc, start, n)
	if err != nil {
		return err
	}
	if err := s.CheckWaterBalance(1e-6); err != nil {
		log.Warnf("%v", err)
	}
	log.Infof("water budget: %v", s.Budget())
	report(frc, s, start, n, cfg.Period.Warmup)
	return writeOutputs(s, cfg.Output.CSV, cfg.Output.Bins)
}

func report(frc *forcing.Forcing, s *hymod.Series, start, n, warmup int) {
	obs, err := frc.Observed(start, n)
	if err != nil || warmup >= n {
		return
	}
	if warmup < 0 {
		warmup = 0
	}
	o, q := obs[warmup:], s.Q[warmup:]
	log.Infow("goodness of fit",
		"nse", objfunc.NSE(o, q),
		"kge", objfunc.KGE(o, q),
		"lognse", objfunc.LogNSE(o, q),
		"rmse", objfunc.RMSE(o, q),
		"bias", objfunc.Bias(o, q),
	)
}

func writeOutputs(s *hymod.Series, csvPath, binPrefix string) error {
	if csvPath != "" {
		f, err := os.Create(csvPath)
		if err != nil {
			return err
		}
		if err := s.WriteCSV(f); err != nil {
			f.Close()
			return fmt.Errorf("failed to write %s: %w", csvPath, err)
		}
		if err := f.Close(); err != nil {
			return err
		}
		log.Infof("series written to %s", csvPath)
	}
	if binPrefix != "" {
		if err := s.SaveBins(binPrefix); err != nil {
			return err
		}
		log.Infof("binary series written to %s.*.bin", binPrefix)
	}
	return nil
}

func newEvaluator(cfg *config.Config, frc *forcing.Forcing) (*calibrate.Evaluator, error) {
	obj, err := cfg.Objective()
	if err != nil {
		return nil, err
	}
	start, n, err := cfg.Window(frc)
	if err != nil {
		return nil, err
	}
	opts, err := cfg.Options()
	if err != nil {
		return nil, err
	}
	sp := calibrate.Space{Nq: cfg.Parameters.Nq, Snow: cfg.Snow.Enabled}
	return calibrate.NewEvaluator(frc, sp, obj, start, n, cfg.Period.Warmup, opts...)
}

func runCalibrateCmd(_ *cobra.Command, _ []string) error {
	cfg, frc, err := load()
	if err != nil {
		return err
	}
	ev, err := newEvaluator(cfg, frc)
	if err != nil {
		return err
	}
	method, err := cfg.Method()
	if err != nil {
		return err
	}
	ctx, cancel := signalContext()
	defer cancel()

	var res *calibrate.Result
	switch method {
	case config.MethodSCE:
		res, err = calibrate.SCE(ctx, ev, calibrate.SCEOptions{
			Complexes: cfg.Calibration.Complexes,
			Seed:      cfg.Calibration.Seed,
		})
	default:
		res, err = calibrate.Optimize(ctx, ev, calibrate.OptimizeOptions{
			Starts:   cfg.Calibration.Starts,
			MaxEvals: cfg.Calibration.MaxEvals,
			Seed:     cfg.Calibration.Seed,
		})
	}
	if err != nil && res == nil {
		return err
	}
	if res == nil {
		return fmt.Errorf("calibration failed at every start")
	}
	log.Infow("calibrated",
		"method", method,
		"objective", ev.Objective.String(),
		"score", res.Score,
		"evaluations", res.Evals,
		"parameters", fmt.Sprintf("%+v", res.Par),
		"snow", fmt.Sprintf("%+v", res.Snow),
	)
	if err != nil {
		return err
	}
	if calibOut == "" {
		return nil
	}
	s, err := ev.Simulate(res.U)
	if err != nil {
		return err
	}
	return writeOutputs(s, calibOut, "")
}

func runSampleCmd(_ *cobra.Command, _ []string) error {
	cfg, frc, err := load()
	if err != nil {
		return err
	}
	ev, err := newEvaluator(cfg, frc)
	if err != nil {
		return err
	}
	n := sampleN
	if n <= 0 {
		n = cfg.Calibration.Samples
	}

	st, err := store.Open(cfg.Calibration.Database)
	if err != nil {
		return fmt.Errorf("failed to open db: %w", err)
	}
	defer st.Close()

	ctx, cancel := signalContext()
	defer cancel()

	b, err := st.NewBatch(ctx, ev.Objective, ev.Space.Names(), n)
	if err != nil {
		return err
	}
	log.Infof("batch %s: %d samples into %s", b.ID, n, cfg.Calibration.Database)
	if _, err := calibrate.MonteCarlo(ctx, ev, calibrate.MonteCarloOptions{
		N:        n,
		Workers:  cfg.Calibration.Workers,
		Seed:     cfg.Calibration.Seed,
		Progress: progress,
	}, b); err != nil {
		return err
	}

	best, err := st.Best(ctx, b.ID, bestK)
	if err != nil {
		return err
	}
	for i, smpl := range best {
		log.Infow(fmt.Sprintf("rank %d", i+1),
			"sample", smpl.Index,
			ev.Objective.String(), smpl.Score,
			"parameters", fmt.Sprintf("%+v", smpl.Par),
		)
	}
	return nil
}
