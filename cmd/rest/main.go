package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"marketing-insights-be/internal/bootstrap"
	"marketing-insights-be/internal/config"
	"marketing-insights-be/internal/model"
	"marketing-insights-be/internal/server"
	"marketing-insights-be/internal/tracer"
	"marketing-insights-be/pkg/database"

	"gorm.io/gorm"
)

func main() {
	// 1. Load Configuration
	cfg := config.Load()

	// 2. Initialize Tracer
	shutdownTracer := tracer.InitTracer(tracer.Config{
		Enabled:     cfg.Tracing.Enabled,
		Endpoint:    cfg.Tracing.Endpoint,
		ServiceName: cfg.App.ServiceName,
	})
	defer shutdownTracer(context.Background())

	// 3. Initialize Database (optional)
	var gormDB *gorm.DB
	if cfg.Database.Connection != "" {
		var err error
		gormDB, err = database.NewGormDBFromDSN(cfg.Database.Connection, cfg.Database.Verbose)
		if err != nil {
			log.Panicf("Unable to connect to GORM DB: %v", err)
		}
		if err := database.Migrate(gormDB, &model.Campaign{}); err != nil {
			log.Panicf("Unable to migrate campaigns: %v", err)
		}
	}

	// 4. Bootstrap Dependencies (Container)
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	container, err := bootstrap.NewContainer(ctx, gormDB, cfg)
	if err != nil {
		log.Panicf("Unable to bootstrap: %v", err)
	}
	defer container.Close()

	// 5. Start Background Services
	if err := container.ConsumerService.Consume(ctx); err != nil {
		log.Printf("Background Consumer Error: %v", err)
	}

	// 6. Run Server
	srv := server.New(cfg, container)
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Printf("Shutdown error: %v", err)
		}
	}()

	if err := srv.Run(); err != nil {
		log.Printf("Server stopped: %v", err)
	}
}
