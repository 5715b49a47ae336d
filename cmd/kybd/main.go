// cmd/kybd/main.go
//
// Entry point for the KYB document service. It stores business
// verification forms, their uploaded incorporation documents, and the
// review lifecycle the partner dashboard reads.
//
// Configuration comes from the environment (KYBD_* variables, with an
// optional .env file). Without KYBD_DATABASE_URL the service falls back
// to an in-memory store, which is enough for local widget development.

package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/kingrea/onramp/internal/kybstore"
)

func main() {
	logger := log.New(os.Stderr, "kybd ", log.LstdFlags)

	cfg, err := kybstore.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var store kybstore.Store
	if cfg.DatabaseURL == "" {
		logger.Printf("KYBD_DATABASE_URL not set, using in-memory store")
		store = kybstore.NewMemoryStore()
	} else {
		db, err := kybstore.OpenPostgres(ctx, cfg.DatabaseURL)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error connecting to postgres: %v\n", err)
			os.Exit(1)
		}
		defer db.Close()
		if err := db.EnsureSchema(ctx); err != nil {
			fmt.Fprintf(os.Stderr, "Error preparing schema: %v\n", err)
			os.Exit(1)
		}
		store = db
	}

	files, err := kybstore.NewFileStore(cfg.UploadDir, cfg.MaxUploadBytes)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error preparing upload dir: %v\n", err)
		os.Exit(1)
	}

	srv := kybstore.NewServer(kybstore.SettingsFromConfig(cfg), store, files, kybstore.WithLogger(logger))
	if err := srv.Start(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error starting server: %v\n", err)
		os.Exit(1)
	}

	<-ctx.Done()
	logger.Printf("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		fmt.Fprintf(os.Stderr, "Error during shutdown: %v\n", err)
		os.Exit(1)
	}
}
