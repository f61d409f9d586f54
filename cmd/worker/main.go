// cmd/worker/main.go
package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	"confession-backend/pkg/container"
	"confession-backend/pkg/logger"
)

func main() {
	_ = godotenv.Load()
	logger.Init(os.Getenv("APP_ENV"), os.Getenv("LOG_LEVEL"), "confession-worker")

	// Initialize container
	c, err := container.NewContainer("confession-worker")
	if err != nil {
		log.Fatal().Err(err).Msg("[Container] Failed to initialize")
	}
	defer c.Cleanup()

	logger.Info("[Config] Worker configured", map[string]interface{}{
		"redis":       c.Config.Redis.Host,
		"smtp":        c.Config.SMTP.Host + ":" + c.Config.SMTP.Port,
		"drain_retry": c.Config.App.DrainMaxRetry,
	})

	// Initialize handlers
	handlers := initializeHandlers(c)

	// Setup Asynq server
	srv := setupAsynqServer(c.Config, handlers)

	// Health checks + health endpoint
	if err := startServices(c); err != nil {
		srv.Shutdown()
		log.Fatal().Err(err).Msg("[Startup] Health check failed")
	}

	// Wait for shutdown signal
	waitForShutdown(srv)
}

func waitForShutdown(srv *asynqServer) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Info().Msg("[Shutdown] Gracefully stopping...")
	srv.Shutdown()
	log.Info().Msg("[Shutdown] ✓ Stopped")
}
