package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"ai-chat-be/internal/bootstrap"
	"ai-chat-be/internal/config"
	"ai-chat-be/internal/pkg/logger"
	"ai-chat-be/internal/server"
	"ai-chat-be/internal/tracer"
	"ai-chat-be/pkg/database"

	"gorm.io/gorm"
)

func main() {
	// 1. Load Configuration
	cfg := config.Load()

	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.IsProduction())
	defer sysLogger.Sync()

	// 2. Tracing (no-op unless OTEL_ENABLED=true)
	shutdownTracer := tracer.InitTracer(cfg.Telemetry, sysLogger)
	defer shutdownTracer(context.Background())

	// 3. Database pool, opened once. Without it only the store endpoints are disabled.
	gormDB := openDatabase(cfg, sysLogger)
	if gormDB != nil {
		defer database.Close(gormDB)
	}

	// 4. Bootstrap Dependencies (Container)
	container := bootstrap.NewContainer(gormDB, cfg, sysLogger)

	// 5. Initialize Server
	srv := server.New(cfg, container)

	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
		<-quit
		sysLogger.Info("Server", "Shutting down", nil)
		_ = srv.Shutdown()
	}()

	// 6. Run Server
	if err := srv.Run(); err != nil {
		log.Fatal(err)
	}
}

// openDatabase returns nil when DATABASE_URL is unset or the pool cannot connect.
func openDatabase(cfg *config.Config, sysLogger logger.ILogger) *gorm.DB {
	if !cfg.DatabaseConfigured() {
		return nil
	}

	db, err := database.NewGormDBFromDSN(cfg.Database.Connection, database.PoolConfig{
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		ConnMaxLifetime: time.Duration(cfg.Database.ConnMaxLifetimeMinutes) * time.Minute,
	}, !cfg.IsProduction())
	if err != nil {
		sysLogger.Error("Bootstrap", "Unable to connect to database, chat store endpoints disabled", map[string]interface{}{
			"error": err,
		})
		return nil
	}
	return db
}
