package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/andrescamacho/colony-go/internal/adapters/persistence"
	"github.com/andrescamacho/colony-go/internal/adapters/telemetry"
	"github.com/andrescamacho/colony-go/internal/application/colony"
	"github.com/andrescamacho/colony-go/internal/application/common"
	"github.com/andrescamacho/colony-go/internal/infrastructure/bootstrap"
	"github.com/andrescamacho/colony-go/internal/infrastructure/config"
	"github.com/andrescamacho/colony-go/internal/infrastructure/database"
	"github.com/andrescamacho/colony-go/internal/infrastructure/logging"
	"github.com/andrescamacho/colony-go/pkg/utils"
)

// runOptions are the flags of `colony run`
type runOptions struct {
	Scenario     string
	Roster       string
	Ticks        int
	Seed         int64
	TelemetryDir string
	Persist      bool
}

// NewRunCommand creates the run command
func NewRunCommand() *cobra.Command {
	var opts runOptions

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run operations against a simulated world",
		Long: `Load a scenario and an operations roster, then drive every running
operation's missions through the tick phases until --ticks ticks ran or the
process is interrupted.

Scenario and roster default to the values set with 'colony config set-defaults',
then to scheduler.scenario_path and scheduler.roster_path from the config.

With --persist, mission memory is written to the configured database and the
run summary is recorded so later runs resume where this one stopped.

Examples:
  colony run --ticks 1000
  colony run --seed 42 --telemetry-dir out/run-42
  colony run --persist --ticks 0`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return runColony(ctx, cmd.OutOrStdout(), cmd.ErrOrStderr(), opts)
		},
	}

	cmd.Flags().StringVar(&opts.Scenario, "scenario", "", "Scenario YAML file")
	cmd.Flags().StringVar(&opts.Roster, "roster", "", "Operations roster YAML file")
	cmd.Flags().IntVar(&opts.Ticks, "ticks", 100, "Number of ticks to run (0 runs until interrupted)")
	cmd.Flags().Int64Var(&opts.Seed, "seed", 0, "Seed for cache invalidation (0 uses the clock)")
	cmd.Flags().StringVar(&opts.TelemetryDir, "telemetry-dir", "", "Write ticks.csv and rooms.csv to this directory")
	cmd.Flags().BoolVar(&opts.Persist, "persist", false, "Store mission memory and the run summary in the database")

	return cmd
}

func runColony(ctx context.Context, out, errOut io.Writer, opts runOptions) error {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	var userCfg *config.UserConfig
	if handler, err := config.NewUserConfigHandler(); err == nil {
		userCfg, _ = handler.Load()
	}
	paths := resolveRunPaths(opts.Scenario, opts.Roster, userCfg, cfg)

	level := cfg.Logging.Level
	if verbose {
		level = "debug"
	}
	logger := logging.NewConsoleLogger(errOut, "run", level, nil)
	ctx = common.WithLogger(ctx, logger)

	seed := opts.Seed
	if seed == 0 {
		seed = cfg.Scheduler.Seed
	}

	buildOpts := bootstrap.Options{
		ScenarioPath: paths.Scenario,
		RosterPath:   paths.Roster,
		Seed:         seed,
		Tuning:       bootstrap.TuningFromConfig(cfg.Missions),
	}

	var runRepo *persistence.GormRunRepository
	if opts.Persist {
		db, err := database.NewConnection(&cfg.Database)
		if err != nil {
			return fmt.Errorf("failed to connect to database: %w", err)
		}
		defer database.Close(db)
		if err := database.AutoMigrate(db); err != nil {
			return fmt.Errorf("failed to migrate database: %w", err)
		}
		buildOpts.MemoryRepo = persistence.NewGormMissionMemoryRepository(db, nil)
		runRepo = persistence.NewGormRunRepository(db)
	}

	col, err := bootstrap.Build(buildOpts)
	if err != nil {
		return err
	}

	output, err := telemetry.NewOutputManager(opts.TelemetryDir)
	if err != nil {
		return err
	}
	defer output.Close()

	observer := telemetry.NewObserver(col.World, output)
	runner := colony.NewRunner(col.Scheduler, col.World,
		colony.WithObserver(observer),
		colony.WithMemoryFlusher(col.Store, cfg.Scheduler.MemoryFlushInterval),
	)

	run := &persistence.Run{
		ID:        utils.GenerateRunID("run"),
		Source:    paths.Scenario,
		StartedAt: time.Now(),
		FirstTick: col.World.Tick(),
	}
	logger.Log(common.LevelInfo, fmt.Sprintf("starting run %s with %d operations", run.ID, len(col.Operations)), map[string]interface{}{
		"seed":     col.Seed,
		"scenario": paths.Scenario,
		"roster":   paths.Roster,
	})

	ran, runErr := runner.Run(ctx, opts.Ticks)
	summary := observer.Summary()

	fmt.Fprintf(out, "Run %s finished after %d ticks (seed %d)\n", run.ID, ran, col.Seed)
	fmt.Fprintf(out, "  %s\n", summary)
	if dir := output.Dir(); dir != "" {
		fmt.Fprintf(out, "  Telemetry written to %s\n", dir)
	}

	if runRepo != nil {
		finished := time.Now()
		run.FinishedAt = &finished
		run.Ticks = ran
		run.Faults = summary.Faults
		run.Spawns = summary.SpawnRequests
		if err := runRepo.Save(context.WithoutCancel(ctx), run); err != nil {
			logger.Log(common.LevelError, fmt.Sprintf("failed to record run: %v", err), nil)
		}
	}

	return runErr
}
