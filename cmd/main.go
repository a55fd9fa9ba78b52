package main

import (
	"context"
	"database/sql"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	_ "heating_monitor/docs"
	"heating_monitor/internal/broadcast"
	"heating_monitor/internal/fetcher"
	"heating_monitor/internal/handlers"
	"heating_monitor/internal/logger"
	"heating_monitor/internal/metrics"
	"heating_monitor/internal/models"
	"heating_monitor/internal/repository"
	"heating_monitor/internal/repository/db"
	"heating_monitor/internal/server"
	"heating_monitor/internal/service"

	"github.com/google/uuid"
	"github.com/spf13/viper"
)

const shutdownTimeout = 10 * time.Second

// @title                       Heating Monitor API
// @version                     1.0
// @description                 Polls a pellet boiler controller and serves the cached readings.
// @BasePath                    /
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
func main() {
	// load config.yml
	if err := loadConfig(); err != nil {
		logger.Get(logger.InfoLevel).Fatalw("error reading config", "err", err)
	}

	// init logger
	log := logger.Get(viper.GetString("log_level"))

	// open DB
	sqlDB, err := openDB(log)
	if err != nil {
		log.Fatalw("failed to init sqlite", "err", err)
	}
	defer func() {
		if cerr := sqlDB.Close(); cerr != nil {
			log.Errorw("failed to close sqlite", "err", cerr)
		}
	}()

	defaults, err := dashboardDefaults()
	if err != nil {
		log.Fatalw("invalid dashboard defaults", "err", err)
	}

	// context for background goroutines
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// wire dependencies
	repos := repository.NewRepository(sqlDB, defaults)
	collector := metrics.NewPrometheusCollector()
	fetch := fetcher.NewSwitch(
		fetcher.NewMockFetcher(nil),
		fetcher.NewHTTPFetcher(&http.Client{Timeout: viper.GetDuration("controller.request_timeout")}),
		collector,
	)

	bus := openBus(ctx, repos.Snapshot, log)
	defer func() {
		if cerr := bus.Close(); cerr != nil {
			log.Warnw("failed to close sync transport", "err", cerr)
		}
	}()

	services, settings := service.NewService(repos, service.Deps{
		Fetcher: fetch,
		Sync:    bus,
		Metrics: collector,
		Auth:    authConfig(log),
		Log:     log,
	})
	cfg, err := settings.Load(ctx)
	if err != nil {
		log.Fatalw("failed to load dashboard config", "err", err)
	}

	// start poll timer
	if err := services.Scheduler.Start(ctx, cfg.PollInterval()); err != nil {
		log.Fatalw("failed to start scheduler", "err", err)
	}

	// start HTTP server
	apiHandler := handlers.NewHandler(services, log).
		WithMetrics(collector.Handler()).
		WithAllowedOrigins(viper.GetStringSlice("ws.allowed_origins"))
	srv := &server.Server{}
	runHTTPServer(srv, serverOptions(), apiHandler, log)

	// graceful shutdown
	waitForShutdown(cancel, services.Scheduler, srv, log)
}

func loadConfig() error {
	viper.AddConfigPath("configs") // configs/config.yml
	viper.SetConfigName("config")

	viper.SetEnvPrefix("HEATING") // e.g. HEATING_SYNC_NATS_URL
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	viper.SetDefault("port", "8080")
	viper.SetDefault("log_level", logger.InfoLevel)
	viper.SetDefault("db.path", "heating.db")
	viper.SetDefault("server.write_timeout", 90*time.Second)
	viper.SetDefault("auth.token_ttl", time.Hour)
	viper.SetDefault("controller.request_timeout", 10*time.Second)
	viper.SetDefault("sync.subject", "heating.snapshots")
	viper.SetDefault("sync.store_poll_interval", 2*time.Second)

	return viper.ReadInConfig()
}

// openDB initializes the SQLite database using configuration.
func openDB(log *logger.Logger) (*sql.DB, error) {
	dbPath := viper.GetString("db.path")
	log.Infow("opening sqlite", "path", dbPath)
	return db.InitDB(dbPath)
}

// dashboardDefaults is the configuration served until an operator saves one.
func dashboardDefaults() (models.Config, error) {
	cfg := models.DefaultConfig()
	if viper.IsSet("dashboard") {
		if err := viper.UnmarshalKey("dashboard", &cfg); err != nil {
			return models.Config{}, err
		}
	}
	return cfg, service.ValidateConfig(cfg)
}

func authConfig(log *logger.Logger) service.AuthConfig {
	key := viper.GetString("auth.signing_key")
	if key == "" {
		// Tokens will not survive a restart.
		key = uuid.NewString()
		log.Warnw("auth.signing_key not set; using a random key")
	}
	return service.AuthConfig{SigningKey: key, TokenTTL: viper.GetDuration("auth.token_ttl")}
}

// openBus connects the NATS transport when configured and always runs the
// store watcher, so views keep updating when NATS is down.
func openBus(ctx context.Context, snapshots repository.SnapshotRepo, log *logger.Logger) *broadcast.Bus {
	hub := broadcast.NewHub()
	syncLog := log.Named("sync")

	var primary broadcast.Transport
	if url := viper.GetString("sync.nats_url"); url != "" {
		t, err := broadcast.DialNATS(url, viper.GetString("sync.subject"), hub, syncLog)
		if err != nil {
			syncLog.Warnw("nats unavailable, using store watch only", "err", err)
		} else {
			primary = t
		}
	}

	watcher := broadcast.NewStoreWatcher(snapshots, hub, viper.GetDuration("sync.store_poll_interval"), syncLog)
	go watcher.Run(ctx)

	return broadcast.NewBus(hub, primary, syncLog)
}

func serverOptions() server.Options {
	return server.Options{
		Port:         viper.GetString("port"),
		WriteTimeout: viper.GetDuration("server.write_timeout"),
	}
}

// runHTTPServer runs the HTTP server in a separate goroutine.
func runHTTPServer(srv *server.Server, opts server.Options, handler *handlers.Handler, log *logger.Logger) {
	go func() {
		if err := srv.Run(opts, handler.InitRoutes()); err != nil {
			log.Fatalw("error starting server", "err", err)
		}
	}()
}

// waitForShutdown listens for termination signals and performs graceful shutdown.
func waitForShutdown(cancel context.CancelFunc, scheduler *service.Scheduler, srv *server.Server, log *logger.Logger) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Infow("shutting down server...")

	// stop the timer and let running polls finish
	scheduler.Stop()

	// stop background goroutines
	cancel()

	// allow in-flight requests to complete
	ctx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Errorw("server forced to shutdown", "err", err)
	}
}
