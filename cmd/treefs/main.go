package main

import (
	"context"
	"flag"
	"fmt"
	"io/fs"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/yihonglyu/treefs/internal/logger"
	"github.com/yihonglyu/treefs/internal/ratelimiter"
	"github.com/yihonglyu/treefs/internal/scenario"
	"github.com/yihonglyu/treefs/pkg/bridge"
	"github.com/yihonglyu/treefs/pkg/config"
	"github.com/yihonglyu/treefs/pkg/metrics"
	"github.com/yihonglyu/treefs/pkg/vfs"
)

func main() {
	configPath := flag.String("config", "", "Path to config file (default: "+config.GetDefaultConfigPath()+")")
	logLevel := flag.String("log-level", "", "Override log level (DEBUG, INFO, WARN, ERROR)")
	scenarioPath := flag.String("scenario", "", "Override scenario file to execute")
	idle := flag.Bool("idle", false, "Keep running after the scenario completes (until SIGINT/SIGTERM)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// CLI overrides take precedence over file and environment
	if *logLevel != "" {
		cfg.Logging.Level = *logLevel
	}
	if *scenarioPath != "" {
		cfg.Scenario.Path = *scenarioPath
	}

	logger.SetLevel(cfg.Logging.Level)

	fmt.Println("treefs - in-memory filesystem tree")
	logger.Info("Log level set to: %s", cfg.Logging.Level)

	// Create cancellable context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle shutdown signals
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logger.Info("Received signal %v, shutting down", sig)
		cancel()
	}()

	// Start metrics server if enabled
	var metricsServer *metrics.Server
	if cfg.Metrics.Enabled {
		metrics.InitRegistry()
		metricsServer = metrics.NewServer(metrics.ServerConfig{Port: cfg.Metrics.Port})
		go func() {
			if err := metricsServer.Start(ctx); err != nil {
				logger.Error("Metrics server error: %v", err)
			}
		}()
	}

	// Build the tree root
	root := vfs.NewDirectory(fs.FileMode(cfg.Root.Mode), vfs.NewBackendID())
	logger.Info("Tree root created (ino=%d mode=%04o backend=%s)", root.Ino(), cfg.Root.Mode, root.Backend())

	// Optional bridge worker for proxied file data
	var br *bridge.Bridge
	if cfg.Scenario.ProxiedIO {
		br = bridge.New(metrics.NewBridgeMetrics())
		logger.Info("Proxied IO enabled, bridge worker started")
	}

	exitCode := 0
	if cfg.Scenario.Path != "" {
		exitCode = runScenario(ctx, cfg, root, br)
	} else {
		logger.Info("No scenario configured, tree is empty")
	}

	if *idle && ctx.Err() == nil {
		logger.Info("Idling until shutdown signal")
		<-ctx.Done()
	}

	if br != nil {
		br.Close()
	}
	if metricsServer != nil {
		if err := metricsServer.Stop(context.Background()); err != nil {
			logger.Warn("Metrics server shutdown: %v", err)
		}
	}

	logger.Info("Shutdown complete")
	os.Exit(exitCode)
}

// runScenario loads and executes the configured scenario file.
func runScenario(ctx context.Context, cfg *config.Config, root *vfs.Directory, br *bridge.Bridge) int {
	ops, err := scenario.Load(cfg.Scenario.Path)
	if err != nil {
		logger.Error("Failed to load scenario: %v", err)
		return 1
	}
	logger.Info("Running scenario %s: %d operations, %d workers", cfg.Scenario.Path, len(ops), cfg.Scenario.Workers)

	runner := scenario.NewRunner(root, scenario.RunnerOptions{
		Workers: cfg.Scenario.Workers,
		Limiter: ratelimiter.New(cfg.Scenario.OpsPerSecond, cfg.Scenario.Burst),
		Metrics: metrics.NewTreeMetrics(),
		Bridge:  br,
	})

	if err := runner.Run(ctx, ops); err != nil {
		logger.Error("Scenario failed: %v", err)
		return 1
	}

	logger.Info("Scenario completed")
	return 0
}
