package main

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/viper"

	"irconsole/internal/emulator"
	"irconsole/internal/logger"
	"irconsole/internal/server"
)

func main() {
	log := logger.Get(logger.InfoLevel)

	if err := loadConfig(); err != nil {
		log.Infow("config not found; using defaults", "err", err)
	}

	db, err := openDB(log)
	if err != nil {
		log.Fatalw("failed to init sqlite", "err", err)
	}
	defer func() {
		if cerr := db.Close(); cerr != nil {
			log.Errorw("failed to close sqlite", "err", cerr)
		}
	}()

	// wire dependencies
	store := emulator.NewSQLStore(db)
	hub := emulator.NewHub(log)
	handler := emulator.NewHandler(store, hub, log)
	sim := emulator.NewSimulator(handler, hub, store, log)

	// context for background goroutines
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go sim.Run(ctx, simTick())

	srv := &server.Server{}
	runHTTPServer(srv, viper.GetString("port"), handler, log)

	waitForShutdown(cancel, srv, log)
}

func loadConfig() error {
	viper.SetDefault("log.level", logger.InfoLevel)
	viper.SetDefault("port", "8080")
	viper.SetDefault("db.path", "emulator.db")
	viper.SetDefault("sim.tick", "5s")

	viper.AddConfigPath("configs") // configs/config.yml
	viper.SetConfigName("config")
	return viper.ReadInConfig()
}

func openDB(log *logger.Logger) (*sql.DB, error) {
	dbPath := viper.GetString("db.path")
	log.Infow("opening sqlite", "path", dbPath)
	return emulator.InitDB(dbPath)
}

func simTick() time.Duration {
	tick := viper.GetDuration("sim.tick")
	if tick <= 0 {
		tick = 5 * time.Second
	}
	return tick
}

// runHTTPServer runs the HTTP server in a separate goroutine.
func runHTTPServer(srv *server.Server, port string, handler *emulator.Handler, log *logger.Logger) {
	go func() {
		log.Infow("emulator listening", "port", port)
		if err := srv.Run(port, handler.InitRoutes()); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalw("error starting server", "err", err)
		}
	}()
}

// waitForShutdown listens for termination signals and performs graceful shutdown.
func waitForShutdown(cancel context.CancelFunc, srv *server.Server, log *logger.Logger) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Infow("shutting down emulator...")

	cancel()

	ctx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalw("server forced to shutdown", "err", err)
	}
}
