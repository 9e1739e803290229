package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 5 * time.Second

func main() {
	cfg, err := LoadConfig(os.Args[1:])
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	tuning, err := LoadTuning(cfg.TuningPath)
	if err != nil {
		log.Fatalf("tuning: %v", err)
	}

	var db *DB
	if cfg.DBPath != "" {
		db, err = OpenDB(cfg.DBPath)
		if err != nil {
			log.Fatalf("database: %v", err)
		}
		defer db.Close()
	}

	analytics := NewAnalytics(db)
	defer analytics.Stop()

	hub := NewHub(db, tuning, analytics)
	go hub.Run()

	server := &http.Server{Addr: cfg.Addr, Handler: SetupRoutes(hub, cfg)}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Printf("Server starting on %s", cfg.Addr)
		log.Printf("Serving client files from %s", cfg.ClientDir)
		if err := server.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		log.Println("Shutting down...")
		sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return server.Shutdown(sctx)
	})

	if err := g.Wait(); err != nil {
		log.Printf("server: %v", err)
	}
}
