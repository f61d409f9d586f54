// cmd/worker/startup.go
package main

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"

	"confession-backend/pkg/container"
)

const healthAddr = ":9999"

// startServices chạy startup checks rồi mở health endpoint
func startServices(c *container.Container) error {
	log.Info().Msg("============================================")
	log.Info().Msg("🚀 Confession Worker Starting...")
	log.Info().Msg("============================================")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	for name, status := range c.HealthCheck(ctx) {
		if status != "up" {
			return fmt.Errorf("%s is %s", name, status)
		}
		log.Info().Str("dependency", name).Msg("✓ OK")
	}

	go startHealthCheckServer(c)
	return nil
}

// startHealthCheckServer mở /health, /ready và /metrics cho worker
func startHealthCheckServer(c *container.Container) {
	r := gin.New()
	r.Use(gin.Recovery())

	r.GET("/health", func(ctx *gin.Context) {
		ctx.JSON(http.StatusOK, gin.H{"status": "UP", "service": "confession-worker"})
	})
	r.GET("/ready", func(ctx *gin.Context) {
		deps := c.HealthCheck(ctx.Request.Context())
		for _, s := range deps {
			if s != "up" {
				ctx.JSON(http.StatusServiceUnavailable, gin.H{"status": "NOT_READY", "dependencies": deps})
				return
			}
		}
		ctx.JSON(http.StatusOK, gin.H{"status": "READY", "dependencies": deps})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	log.Info().Str("addr", healthAddr).Msg("[Health] Starting health check server")
	if err := r.Run(healthAddr); err != nil {
		log.Error().Err(err).Msg("[Health] Failed to start")
	}
}
