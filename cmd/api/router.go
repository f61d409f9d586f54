package main

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"confession-backend/internal/shared/middleware"
	"confession-backend/pkg/container"
)

func SetupRouter(c *container.Container) *gin.Engine {
	router := gin.New()

	// Global middlewares
	router.Use(
		middleware.Recovery(),
		middleware.RequestID(),
		middleware.Logger(),
		middleware.CORS(c.Config.CORS.AllowedOrigins),
		middleware.Metrics(),
	)

	router.GET("/health", healthCheckHandler(c))
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	requireSession := middleware.AuthMiddleware(c.AccountService, c.Config.Auth.CookieName)

	setupAuthRoutes(router, c, requireSession)
	setupProfileRoutes(router, c, requireSession)
	setupConfessRoutes(router, c)
	setupInboxRoutes(router, c, requireSession)

	return router
}

// ========================================
// AUTH ROUTES
// ========================================
func setupAuthRoutes(r *gin.Engine, c *container.Container, requireSession gin.HandlerFunc) {
	auth := r.Group("/auth")
	{
		auth.POST("/signup", c.AccountHandler.SignUp)
		auth.GET("/confirm", c.ConfirmHandler.Confirm)

		auth.POST("/logout", c.AccountHandler.Logout)
		auth.GET("/me", requireSession, c.AccountHandler.Me)
		auth.POST("/setup", requireSession, c.ProfileHandler.Setup)
	}
}

// ========================================
// PROFILE ROUTES
// ========================================
func setupProfileRoutes(r *gin.Engine, c *container.Container, requireSession gin.HandlerFunc) {
	profiles := r.Group("/profiles", requireSession)
	{
		profiles.GET("/me", c.ProfileHandler.GetMe)
		profiles.PATCH("/me", c.ProfileHandler.UpdateMe)
	}
}

// ========================================
// CONFESS ROUTES (public, anonymous)
// ========================================
func setupConfessRoutes(r *gin.Engine, c *container.Container) {
	confess := r.Group("/confess")
	{
		confess.GET("/:slug", c.ProfileHandler.GetPublic)
		confess.POST("/:slug", c.ConfessionHandler.Submit)
	}
}

// ========================================
// INBOX ROUTES
// ========================================
func setupInboxRoutes(r *gin.Engine, c *container.Container, requireSession gin.HandlerFunc) {
	inbox := r.Group("/inbox", requireSession)
	{
		inbox.GET("", c.ConfessionHandler.Inbox)
		inbox.GET("/unread-count", c.ConfessionHandler.UnreadCount)
		inbox.GET("/stream", c.ConfessionHandler.Stream)
	}
}

// ========================================
// HEALTH
// ========================================
func healthCheckHandler(c *container.Container) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		checkCtx, cancel := context.WithTimeout(ctx.Request.Context(), 5*time.Second)
		defer cancel()

		deps := c.HealthCheck(checkCtx)

		status := http.StatusOK
		overall := "healthy"
		for _, s := range deps {
			if s != "up" {
				status = http.StatusServiceUnavailable
				overall = "unhealthy"
			}
		}

		ctx.JSON(status, gin.H{
			"status":       overall,
			"service":      c.Config.App.Name,
			"version":      c.Config.App.Version,
			"dependencies": deps,
		})
	}
}
