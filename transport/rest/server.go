package rest

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

const shutdownTimeout = 5 * time.Second

// NewRouter wires the REST routes onto a gin engine.
func NewRouter(logger *slog.Logger, gameSpace gameSpace) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), requestLogger(logger))

	handlers := NewHandlers(logger, gameSpace)

	router.GET("/ping", PingHandler)

	api := router.Group("/api")
	api.POST("/players", handlers.Login)
	api.GET("/players/:id", handlers.GetPlayer)
	api.DELETE("/players/:id", handlers.Logout)
	api.GET("/players/:id/tictactoe", handlers.TicTacToe)
	api.GET("/players/:id/chess", handlers.Chess)

	return router
}

// Start serves handler on port until ctx is cancelled.
func Start(ctx context.Context, port string, handler http.Handler) error {
	srv := &http.Server{
		Addr:         ":" + port,
		Handler:      handler,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  30 * time.Second,
	}

	go func() {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		_ = srv.Shutdown(shutdownCtx)
	}()

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("failed to start server: %w", err)
	}

	return nil
}

func requestLogger(logger *slog.Logger) gin.HandlerFunc {
	log := logger.With("component", "http")

	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		log.Debug("request served",
			"method", c.Request.Method,
			"path", c.FullPath(),
			"status", c.Writer.Status(),
			"duration", time.Since(start),
		)
	}
}
