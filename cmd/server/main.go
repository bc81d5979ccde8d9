// cmd/server/main.go
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/shipwise/allocator/internal/api"
	"github.com/shipwise/allocator/internal/cache"
	"github.com/shipwise/allocator/internal/config"
	"github.com/shipwise/allocator/internal/service"
	"github.com/shipwise/allocator/pkg/logger"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Initialize logger
	if cfg.Server.Mode == "debug" {
		logger.SetLevel("debug")
		gin.SetMode(gin.DebugMode)
	} else {
		logger.SetLevel("info")
		logger.UseJSON()
		gin.SetMode(gin.ReleaseMode)
	}

	// Initialize the shared distance cache; fall back to noop when redis
	// is unavailable so the service still starts.
	distCache, err := cache.NewDistanceCacheFromConfig(cfg.Cache)
	if err != nil {
		logger.Log.Warn().Err(err).Msg("distance cache unavailable, continuing without it")
		distCache = cache.NewNoopDistanceCache()
	}

	// Initialize services
	allocationService := service.NewAllocationService(cfg.Optimizer, distCache)

	// Initialize HTTP server
	router := api.NewRouter(&api.Services{AllocationService: allocationService}, cfg.Server.AllowedOrigins)
	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	// Start server in a goroutine
	go func() {
		logger.Log.Info().Str("port", cfg.Server.Port).Msg("Starting server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	// Wait for interrupt signal to gracefully shut down the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Log.Info().Msg("Shutting down server...")

	// The context is used to inform the server it has 5 seconds to finish
	// the request it is currently handling
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	logger.Log.Info().Msg("Server exiting")
}
