package cmd

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"newsharvest/internal/classify"
	"newsharvest/internal/config"
	collyfetcher "newsharvest/internal/fetcher/colly"
	"newsharvest/internal/fetcher/headless"
	"newsharvest/internal/harvester"
	"newsharvest/internal/logging"
	"newsharvest/internal/metrics"
	"newsharvest/internal/pipeline"
	"newsharvest/internal/store"

	clocksystem "newsharvest/internal/clock/system"
)

// harvestFlags are the CLI overrides layered on top of the loaded
// configuration.
type harvestFlags struct {
	root     string
	limit    int
	loop     bool
	headless bool
}

// newHarvestCmd creates and configures the 'harvest' subcommand.
func newHarvestCmd() *cobra.Command {
	flags := &harvestFlags{}
	cmd := &cobra.Command{
		Use:   "harvest",
		Short: "Runs one harvest cycle, or repeats hourly with --loop",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runHarvest(cmd, flags)
		},
	}
	cmd.Flags().StringVar(&flags.root, "root", "", "root folder for the article store")
	cmd.Flags().IntVar(&flags.limit, "limit", 0, "max number of homepage articles to process per cycle")
	cmd.Flags().BoolVar(&flags.loop, "loop", false, "run forever; repeat at the top of every hour")
	cmd.Flags().BoolVar(&flags.headless, "headless", false, "fetch with a rendered-page browser instead of plain HTTP")
	return cmd
}

func runHarvest(cmd *cobra.Command, flags *harvestFlags) error {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	applyFlagOverrides(cmd, flags, &cfg)

	logger, err := logging.New(cfg.Logging.Development)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer logger.Sync() //nolint:errcheck
	zap.ReplaceGlobals(logger)

	metrics.Init()

	source, err := cfg.BuildSource()
	if err != nil {
		return err
	}

	articleStore, err := store.NewFileStore(cfg.Store.Root, source)
	if err != nil {
		return fmt.Errorf("init article store: %w", err)
	}
	index := store.NewFingerprintIndex(cfg.Store.Root, source)

	fetcher, closeFetcher, err := buildFetcher(cfg)
	if err != nil {
		return fmt.Errorf("init fetcher: %w", err)
	}
	defer closeFetcher()

	runner := pipeline.New(
		source,
		fetcher,
		articleStore,
		index,
		clocksystem.New(),
		classify.New(classify.DefaultRules()),
		pipeline.Config{
			Limit:             cfg.Harvest.Limit,
			Concurrency:       cfg.Harvest.Concurrency,
			RequestsPerSecond: cfg.Harvest.RequestsPerSecond,
			UserAgent:         cfg.Harvest.UserAgent,
		},
		logger.Named("pipeline"),
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger.Info("data root", zap.String("path", cfg.Store.Root))
	if cfg.Harvest.Loop {
		return runner.RunLoop(ctx)
	}
	return runner.RunOnce(ctx)
}

func applyFlagOverrides(cmd *cobra.Command, flags *harvestFlags, cfg *config.Config) {
	if cmd.Flags().Changed("root") {
		cfg.Store.Root = flags.root
	}
	if cmd.Flags().Changed("limit") {
		cfg.Harvest.Limit = flags.limit
	}
	if cmd.Flags().Changed("loop") {
		cfg.Harvest.Loop = flags.loop
	}
	if cmd.Flags().Changed("headless") {
		cfg.Headless.Enabled = flags.headless
	}
}

// buildFetcher picks the fetch strategy at configuration time. The
// pipeline only ever sees the harvester.Fetcher interface.
func buildFetcher(cfg config.Config) (harvester.Fetcher, func(), error) {
	if cfg.Headless.Enabled {
		fetcher, err := headless.NewChromedp(headless.Config{
			MaxParallel:       cfg.Headless.MaxParallel,
			UserAgent:         cfg.Harvest.UserAgent,
			NavigationTimeout: time.Duration(cfg.Headless.NavTimeoutSec) * time.Second,
		})
		if err != nil {
			return nil, nil, err
		}
		return fetcher, fetcher.Close, nil
	}
	fetcher := collyfetcher.New(collyfetcher.Config{
		UserAgent: cfg.Harvest.UserAgent,
		Timeout:   cfg.FetchTimeout(),
	})
	return fetcher, func() {}, nil
}
