package main

import (
	"context"
	"errors"
	"log"
	"os/signal"
	"syscall"
	"time"

	"vaulta-banking-be/internal/bootstrap"
	"vaulta-banking-be/internal/config"
	"vaulta-banking-be/internal/server"
	"vaulta-banking-be/internal/tracer"
	"vaulta-banking-be/pkg/database"

	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
)

func main() {
	// 1. Configuration and tracing
	cfg := config.Load()

	shutdownTracer := tracer.InitTracer(cfg.App.OtelEnabled)
	defer func() {
		if err := shutdownTracer(context.Background()); err != nil {
			log.Printf("Tracer shutdown error: %v", err)
		}
	}()

	// 2. Database (optional; the fast path serves the demo customers without it)
	var gormDB *gorm.DB
	if cfg.Database.Connection != "" && cfg.Banking.PersistentEnabled {
		db, err := database.NewGormDBFromDSN(cfg.Database.Connection, database.PoolConfig{
			MaxIdleConns:    cfg.Database.MaxIdleConns,
			MaxOpenConns:    cfg.Database.MaxOpenConns,
			ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
			Debug:           cfg.Database.Debug,
		})
		if err != nil {
			log.Printf("[WARN] Unable to connect to GORM DB, continuing with the fast path only: %v", err)
		} else {
			gormDB = db
		}
	}

	// 3. Container
	container := bootstrap.NewContainer(gormDB, cfg)
	defer container.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// 4. Server and background workers
	srv := server.New(cfg, container)
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return srv.Run()
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	g.Go(func() error {
		log.Println("Background: Starting statement consumer...")
		return container.ConsumerService.Consume(gctx)
	})
	g.Go(func() error {
		container.WebSocketHub.Run(gctx)
		return nil
	})
	if container.DeskSubscriber != nil {
		g.Go(func() error {
			log.Println("Background: Starting escalation desk...")
			return container.EscalationDesk.Start(gctx, container.DeskSubscriber)
		})
	}

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		log.Fatalf("Shutdown with error: %v", err)
	}
	log.Println("Server stopped")
}
