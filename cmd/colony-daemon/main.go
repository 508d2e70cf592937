package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/andrescamacho/colony-go/internal/adapters/grpc"
	"github.com/andrescamacho/colony-go/internal/adapters/metrics"
	"github.com/andrescamacho/colony-go/internal/adapters/persistence"
	"github.com/andrescamacho/colony-go/internal/adapters/telemetry"
	"github.com/andrescamacho/colony-go/internal/application/colony"
	"github.com/andrescamacho/colony-go/internal/application/common"
	"github.com/andrescamacho/colony-go/internal/application/scheduler"
	"github.com/andrescamacho/colony-go/internal/infrastructure/bootstrap"
	"github.com/andrescamacho/colony-go/internal/infrastructure/config"
	"github.com/andrescamacho/colony-go/internal/infrastructure/database"
	"github.com/andrescamacho/colony-go/internal/infrastructure/logging"
	"github.com/andrescamacho/colony-go/internal/infrastructure/pidfile"
	"github.com/andrescamacho/colony-go/pkg/utils"
)

func main() {
	// Parse command-line flags
	forceFlag := flag.Bool("force", false, "Kill any existing daemon and start a new one")
	configFlag := flag.String("config", "", "Config file (default: search ./, ./configs, /etc/colony)")
	flag.Parse()

	fmt.Println("Colony Daemon v0.1.0")
	fmt.Println("====================")

	// Load configuration
	fmt.Println("Loading configuration...")
	cfg := config.MustLoadConfig(*configFlag)

	// Acquire PID file lock to prevent multiple instances
	fmt.Printf("Acquiring PID file lock: %s\n", cfg.Daemon.PIDFile)
	pf := pidfile.New(cfg.Daemon.PIDFile)

	if err := pf.Acquire(); err != nil {
		if !*forceFlag {
			log.Fatalf("Failed to acquire PID file lock: %v\nUse --force to kill the existing daemon", err)
		}
		fmt.Println("Force mode enabled - attempting to kill existing daemon...")
		if killErr := pf.KillExisting(); killErr != nil {
			log.Fatalf("Failed to kill existing daemon: %v", killErr)
		}
		fmt.Println("Existing daemon killed")

		if err := pf.Acquire(); err != nil {
			log.Fatalf("Failed to acquire PID file lock after killing existing daemon: %v", err)
		}
	}
	fmt.Println("PID file lock acquired")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := run(ctx, cfg)
	stop()

	if releaseErr := pf.Release(); releaseErr != nil {
		log.Printf("Warning: failed to release PID file: %v", releaseErr)
	}
	if err != nil {
		log.Fatalf("Fatal error: %v", err)
	}
}

func run(ctx context.Context, cfg *config.Config) error {
	// 1. Database
	fmt.Printf("Connecting to %s database...\n", cfg.Database.Type)
	db, err := database.NewConnection(&cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer database.Close(db)
	if err := database.AutoMigrate(db); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}
	fmt.Println("Database connected")

	memoryRepo := persistence.NewGormMissionMemoryRepository(db, nil)
	tickLogRepo := persistence.NewGormTickLogRepository(db, nil)
	runRepo := persistence.NewGormRunRepository(db)

	// 2. Logging
	console, closer, err := logging.NewFromConfig(cfg.Logging, "daemon")
	if err != nil {
		return err
	}
	defer closer.Close()
	var logger common.Logger = console
	if cfg.Logging.Persist {
		logger = logging.NewTeeLogger(console, logging.NewRepositoryLogger(tickLogRepo, "daemon", os.Stderr))
		fmt.Println("Persisting logs to the tick_logs table")
	}
	ctx = common.WithLogger(ctx, logger)

	// 3. Metrics
	var recorder scheduler.Recorder
	var metricsServer *metrics.Server
	if cfg.Metrics.Enabled {
		metrics.InitRegistry()

		schedulerMetrics := metrics.NewSchedulerMetricsCollector()
		if err := schedulerMetrics.Register(); err != nil {
			return fmt.Errorf("failed to register scheduler metrics: %w", err)
		}
		recorder = schedulerMetrics

		spawnMetrics := metrics.NewSpawnMetricsCollector()
		if err := spawnMetrics.Register(); err != nil {
			return fmt.Errorf("failed to register spawn metrics: %w", err)
		}
		metrics.SetGlobalSpawnRecorder(spawnMetrics)

		metricsServer = metrics.NewServer(cfg.Metrics.Host, cfg.Metrics.Port, cfg.Metrics.Path)
		fmt.Printf("Metrics enabled on %s\n", cfg.Metrics.Endpoint())
	}

	// 4. Colony
	col, err := bootstrap.Build(bootstrap.Options{
		ScenarioPath:     cfg.Scheduler.ScenarioPath,
		RosterPath:       cfg.Scheduler.RosterPath,
		Seed:             cfg.Scheduler.Seed,
		Tuning:           bootstrap.TuningFromConfig(cfg.Missions),
		MemoryRepo:       memoryRepo,
		Recorder:         recorder,
		InstrumentSpawns: cfg.Metrics.Enabled,
	})
	if err != nil {
		return err
	}
	fmt.Printf("Loaded %d operations from %s (seed %d)\n", len(col.Operations), cfg.Scheduler.RosterPath, col.Seed)

	startedAt := time.Now()
	tracker := colony.NewStatusTracker(col.Scheduler, startedAt)

	output, err := telemetry.NewOutputManager(cfg.Scheduler.TelemetryDir)
	if err != nil {
		return err
	}
	defer output.Close()
	observer := telemetry.NewObserver(col.World, output)

	runner := colony.NewRunner(col.Scheduler, col.World,
		colony.WithObserver(tracker),
		colony.WithObserver(observer),
		colony.WithMemoryFlusher(col.Store, cfg.Scheduler.MemoryFlushInterval),
		colony.WithTickInterval(cfg.Scheduler.TickInterval),
	)

	// 5. Daemon server
	socketPath := cfg.Daemon.SocketPath
	fmt.Printf("Starting daemon server on: %s\n", socketPath)
	if err := os.MkdirAll(filepath.Dir(socketPath), 0755); err != nil {
		return fmt.Errorf("failed to create socket directory: %w", err)
	}
	daemonServer, err := grpc.NewDaemonServer(socketPath, tracker)
	if err != nil {
		return fmt.Errorf("failed to create daemon server: %w", err)
	}

	record := &persistence.Run{
		ID:        utils.GenerateRunID("daemon"),
		Source:    cfg.Scheduler.ScenarioPath,
		StartedAt: startedAt,
		FirstTick: col.World.Tick(),
	}
	if err := runRepo.Save(ctx, record); err != nil {
		return fmt.Errorf("failed to record run: %w", err)
	}

	fmt.Println("\n✓ Daemon is ready to accept connections")
	fmt.Println("Press Ctrl+C to stop")

	// Serving goroutines stop with serveCtx; the tick loop decides when that is
	serveCtx, cancelServe := context.WithCancel(ctx)
	g, gctx := errgroup.WithContext(serveCtx)
	g.Go(func() error {
		return daemonServer.Serve(gctx)
	})
	if metricsServer != nil {
		g.Go(func() error {
			return metricsServer.Start(gctx)
		})
	}
	daemonServer.SetServing(true)

	ran, runErr := runner.Run(gctx, cfg.Scheduler.MaxTicks)
	daemonServer.SetServing(false)
	cancelServe()

	shutdownDone := make(chan error, 1)
	go func() { shutdownDone <- g.Wait() }()
	var serveErr error
	select {
	case serveErr = <-shutdownDone:
	case <-time.After(cfg.Daemon.ShutdownTimeout):
		serveErr = errors.New("timed out waiting for servers to stop")
	}

	summary := observer.Summary()
	finished := time.Now()
	record.FinishedAt = &finished
	record.Ticks = ran
	record.Faults = summary.Faults
	record.Spawns = summary.SpawnRequests
	if err := runRepo.Save(context.WithoutCancel(ctx), record); err != nil {
		logger.Log(common.LevelError, fmt.Sprintf("failed to record run: %v", err), nil)
	}

	fmt.Printf("\nDaemon stopped after %d ticks\n", ran)
	fmt.Printf("  %s\n", summary)

	if runErr != nil {
		return runErr
	}
	return serveErr
}
