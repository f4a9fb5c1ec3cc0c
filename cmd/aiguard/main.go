package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/nordtime/aiguard/internal/budget"
	"github.com/nordtime/aiguard/internal/cache"
	"github.com/nordtime/aiguard/internal/config"
	"github.com/nordtime/aiguard/internal/events"
	"github.com/nordtime/aiguard/internal/logger"
	"github.com/nordtime/aiguard/internal/server"
	"github.com/nordtime/aiguard/internal/store"
)

var (
	version = "0.1.0"
	commit  = "dev"
	date    = "unknown"
)

func main() {
	var (
		configPath  = flag.String("config", "", "Path to configuration file")
		showVersion = flag.Bool("version", false, "Show version information")
		healthCheck = flag.Bool("health-check", false, "Perform health check and exit")
	)
	flag.Parse()

	if *showVersion {
		fmt.Printf("aiguard %s (commit: %s, built: %s)\n", version, commit, date)
		os.Exit(0)
	}

	if *healthCheck {
		performHealthCheck()
		return
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	loggerConfig := logger.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
	}
	if cfg.Logging.File.Enabled {
		loggerConfig.File = &logger.FileConfig{
			Enabled: true,
			Path:    cfg.Logging.File.Path,
		}
	}

	log, err := logger.New(loggerConfig)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	log.Info("Starting aiguard",
		zap.String("version", version),
		zap.String("commit", commit),
		zap.String("build_date", date),
		zap.Int("port", cfg.Server.Port),
	)

	// usage store is optional: without it the redaction and anonymization
	// endpoints still work, only the budget gate is offline
	var gate *budget.Gate
	if cfg.Store.DatabaseURL != "" {
		usageStore, err := store.New(&cfg.Store, log.WithComponent("store").Logger)
		if err != nil {
			log.Fatal("Failed to initialize usage store", zap.Error(err))
		}
		defer usageStore.Close()

		var spendCache budget.SpendCache
		if cfg.Cache.Enabled {
			redisCache, err := cache.NewSpendCache(&cfg.Cache.Config, log.WithComponent("cache").Logger)
			if err != nil {
				log.Fatal("Failed to initialize spend cache", zap.Error(err))
			}
			defer redisCache.Close()
			spendCache = redisCache
		}

		limits := budget.Limits{
			DailyCents:   cfg.Budget.DailyLimitCents,
			MonthlyCents: cfg.Budget.MonthlyLimitCents,
		}
		gate = budget.NewGate(usageStore, spendCache, limits, log.WithComponent("budget"))
	} else {
		log.Warn("No usage store configured, budget endpoints disabled")
	}

	var hub *events.Hub
	if cfg.Events.Enabled {
		hub = events.NewHub(log.WithComponent("events").Logger)
	}

	srv, err := server.New(cfg, log, gate, hub)
	if err != nil {
		log.Fatal("Failed to create server", zap.Error(err))
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	srv.StartLimiterCleanup(ctx)

	serverErrors := make(chan error, 1)
	go func() {
		log.Info("HTTP server listening", zap.Int("port", cfg.Server.Port))
		serverErrors <- srv.Start()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		log.Error("Server error", zap.Error(err))
	case sig := <-shutdown:
		log.Info("Shutdown signal received", zap.String("signal", sig.String()))

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		if err := srv.Stop(shutdownCtx); err != nil {
			log.Error("Failed to shutdown server gracefully", zap.Error(err))
			os.Exit(1)
		}

		log.Info("Server shutdown complete")
	}
}

// performHealthCheck performs a health check against the running server
func performHealthCheck() {
	client := &http.Client{
		Timeout: 5 * time.Second,
	}

	resp, err := client.Get("http://localhost:8080/health")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Health check failed: %v\n", err)
		os.Exit(1)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		fmt.Fprintf(os.Stderr, "Health check failed: HTTP %d\n", resp.StatusCode)
		os.Exit(1)
	}

	fmt.Println("Health check passed")
	os.Exit(0)
}
