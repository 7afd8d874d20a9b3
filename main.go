package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/danielhkuo/chainvote/cliparse"
	"github.com/danielhkuo/chainvote/contract"
	"github.com/danielhkuo/chainvote/db"
	"github.com/danielhkuo/chainvote/router"
)

func main() {
	var err error

	// Load .env if present; real environment variables win
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		slog.Warn("failed to load .env", "error", err)
	}

	// Parse configuration
	cfg, err := cliparse.ParseFlags(os.Args[1:])
	if err != nil {
		slog.Error("Error parsing flags", "error", err)
		os.Exit(1)
	}

	// Connect to the journal database
	dbConn, err := db.Open(cfg.DatabaseType, cfg.DatabaseURL)
	if err != nil {
		slog.Error("database connection failed", "error", err)
		os.Exit(1)
	}
	defer dbConn.Close()

	// Create schema (tables)
	if err := db.CreateSchema(dbConn); err != nil {
		slog.Error("schema creation failed", "error", err)
		os.Exit(1)
	}
	slog.Info("Database schema ready", "type", cfg.DatabaseType)

	// Connect to the chain
	ctx, cancel := context.WithTimeout(context.Background(), cfg.CallTimeout)
	election, err := contract.Open(ctx, cfg)
	cancel()
	if err != nil {
		slog.Error("contract connection failed", "error", err, "backend", cfg.Backend)
		os.Exit(1)
	}
	defer election.Close()
	slog.Info("Contract ready", "backend", cfg.Backend)

	// Create router
	handler := router.NewRouter(election, db.NewJournal(dbConn), cfg)

	// Create server
	server := http.Server{
		Handler:           handler,
		Addr:              ":" + strconv.Itoa(cfg.Port),
		ReadHeaderTimeout: 10 * time.Second,
	}

	// signal.Notify requires the channel to be buffered
	ctrlc := make(chan os.Signal, 1)
	signal.Notify(ctrlc, os.Interrupt, syscall.SIGTERM)
	go func() {
		// Wait for Ctrl-C signal, then let in-flight chain calls finish
		<-ctrlc
		ctx, cancel := context.WithTimeout(context.Background(), cfg.CallTimeout)
		defer cancel()
		if err := server.Shutdown(ctx); err != nil {
			server.Close()
		}
	}()

	// Start server
	slog.Info("Listening", "port", cfg.Port)
	err = server.ListenAndServe()
	if err != nil && err != http.ErrServerClosed {
		slog.Error("Server closed", "error", err)
	} else {
		slog.Info("Server closed", "error", err)
	}
}
