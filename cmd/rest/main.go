package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/AashishKarn828/rag-mlops/internal/bootstrap"
	"github.com/AashishKarn828/rag-mlops/internal/config"
	"github.com/AashishKarn828/rag-mlops/internal/server"
	"github.com/AashishKarn828/rag-mlops/internal/tracer"
)

func main() {
	// 1. Load Configuration
	cfg := config.Load()

	// 2. Bootstrap Dependencies (Container)
	container, err := bootstrap.NewContainer(cfg)
	if err != nil {
		log.Fatalf("Failed to bootstrap: %v", err)
	}

	// 3. Tracer
	shutdownTracer := tracer.InitTracer(cfg.App, container.Logger)

	// 4. Start Background Services
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := container.Start(ctx); err != nil {
		log.Fatalf("Failed to start background services: %v", err)
	}

	// 5. Run Server
	srv := server.New(cfg, container)
	go func() {
		if err := srv.Run(); err != nil {
			container.Logger.Error("HTTP", "Server stopped", map[string]interface{}{"error": err.Error()})
			cancel()
		}
	}()

	<-ctx.Done()
	container.Logger.Info("HTTP", "Shutting down", nil)

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		container.Logger.Warn("HTTP", "Graceful shutdown failed", map[string]interface{}{"error": err.Error()})
	}
	if err := shutdownTracer(shutdownCtx); err != nil {
		container.Logger.Warn("TRACER", "Tracer shutdown failed", map[string]interface{}{"error": err.Error()})
	}
	container.Shutdown()
}
