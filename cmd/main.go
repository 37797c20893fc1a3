package main

import (
	"context"
	"database/sql"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/finack/acc-smartlink/internal/handlers"
	"github.com/finack/acc-smartlink/internal/logger"
	"github.com/finack/acc-smartlink/internal/repository"
	"github.com/finack/acc-smartlink/internal/repository/db"
	"github.com/finack/acc-smartlink/internal/server"
	"github.com/finack/acc-smartlink/internal/service"
	"github.com/finack/acc-smartlink/internal/session"

	"github.com/spf13/viper"
)

func main() {
	// load config.yml, then init the logger at the configured level
	if err := loadConfig(); err != nil {
		logger.Get(logger.InfoLevel).Fatalw("error reading config", "err", err)
	}
	log := logger.Get(logLevel())

	// open DB
	sqlDB, err := openDB(log)
	if err != nil {
		log.Fatalw("failed to init sqlite", "err", err)
	}
	defer func() {
		if cerr := sqlDB.Close(); cerr != nil {
			log.Fatalw("failed to close sqlite", "err", cerr)
		}
	}()

	// wire dependencies
	repos := repository.NewRepository(sqlDB)
	services := service.NewService(repos, log, collectorOptions())
	apiHandler := handlers.NewHandler(services, log)

	// context for background goroutines
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// start the periodic collection loop
	go services.Collector.Run(ctx, collectInterval())

	// start HTTP server
	srv := &server.Server{}
	runHTTPServer(srv, viper.GetString("port"), apiHandler, log)

	// graceful shutdown
	waitForShutdown(cancel, srv, log)
}

func loadConfig() error {
	viper.AddConfigPath("configs") // configs/config.yml
	viper.SetConfigName("config")
	return viper.ReadInConfig()
}

func logLevel() string {
	if lvl := viper.GetString("log.level"); lvl != "" {
		return lvl
	}
	return logger.InfoLevel
}

// collectorOptions reads the spa endpoint and session bounds from config.
func collectorOptions() service.CollectorOptions {
	return service.CollectorOptions{
		SpaURL: viper.GetString("spa.url"),
		Session: session.Config{
			SampleTarget: viper.GetInt("spa.sample_target"),
			Timeout:      viper.GetDuration("spa.session_timeout"),
		},
	}
}

// collectInterval reads the collection cadence, falling back to the default.
func collectInterval() time.Duration {
	if d := viper.GetDuration("spa.interval"); d > 0 {
		return d
	}
	return service.DefaultInterval
}

// openDB initializes the SQLite database using configuration.
func openDB(log *logger.Logger) (*sql.DB, error) {
	dbPath := viper.GetString("db.path")
	if dbPath == "" {
		log.Infow("db.path not set in config; using default file", "default", "app.db")
		dbPath = "app.db"
	}
	return db.InitDB(dbPath)
}

// runHTTPServer runs the HTTP server in a separate goroutine.
func runHTTPServer(srv *server.Server, port string, handler *handlers.Handler, log *logger.Logger) {
	go func() {
		if port == "" {
			port = "8080"
		}
		if err := srv.Run(port, handler.InitRoutes()); err != nil {
			log.Fatalw("error starting server", "err", err)
		}
	}()
}

// waitForShutdown listens for termination signals and performs graceful shutdown.
// Canceling the context stops the collector: a session in flight finalizes
// (timer canceled, transport closed) and no new session starts after.
func waitForShutdown(cancel context.CancelFunc, srv *server.Server, log *logger.Logger) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Infow("shutting down server...")

	// stop background goroutines
	cancel()

	// allow in-flight requests to complete
	ctx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalw("server forced to shutdown", "err", err)
	}
}
