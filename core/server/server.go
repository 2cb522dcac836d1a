package server

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"guidia-api/core/cache"
	"guidia-api/core/config"
	"guidia-api/core/database"
	"guidia-api/core/logger"
	"guidia-api/core/middleware"
	"guidia-api/core/worker"
	"guidia-api/modules/availability"
	"guidia-api/modules/calendar"
	"guidia-api/modules/feedback"
	"guidia-api/modules/meeting"
	"guidia-api/modules/notification"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
)

// Run wires the whole service and blocks until shutdown.
func Run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	db, err := database.InitDB(cfg.Database)
	if err != nil {
		return err
	}

	cacheInst, err := cache.InitCache(cfg.Redis.URL)
	if err != nil {
		return err
	}

	wk, err := worker.New(cfg)
	if err != nil {
		return err
	}

	e := echo.New()
	e.HideBanner = true
	e.Use(echomw.Recover())
	e.Use(echomw.CORS())
	e.Use(echomw.RequestID())

	mw := middleware.New(cacheInst)

	e.GET("/health", healthHandler(&db, cacheInst))
	e.POST("/api/v1/private/auth/logout", mw.Logout, mw.AuthMiddleware())

	// Module wiring. Availability and notification come up first because the
	// meeting service consumes both; calendar and feedback read from meeting.
	availabilitySvc := availability.Init(e, &db, mw)
	notificationSvc := notification.Init(e, &db, cacheInst, mw, wk.Client())
	meetingSvc := meeting.Init(e, &db, mw, availabilitySvc, notificationSvc)
	calendar.Init(e, mw, meetingSvc)
	feedback.Init(e, &db, mw, meetingSvc)

	wk.Bind(meetingSvc)
	if err := wk.Start(cfg); err != nil {
		return err
	}

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	go func() {
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			logger.Error("server stopped", err)
		}
	}()
	logger.Info("Server started", "addr", addr)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit
	logger.Info("Shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(ctx); err != nil {
		logger.Error("server shutdown error", err)
	}

	wk.Shutdown()
	if err := cacheInst.Close(); err != nil {
		logger.Warn("cache close error", "error", err)
	}

	logger.Info("Server stopped")
	return nil
}

// healthHandler reports liveness of the two backing stores.
func healthHandler(db database.IDatabase, c cache.ICache) echo.HandlerFunc {
	return func(ctx echo.Context) error {
		reqCtx, cancel := context.WithTimeout(ctx.Request().Context(), 3*time.Second)
		defer cancel()

		status := http.StatusOK
		health := map[string]string{"database": "up", "redis": "up"}
		if err := db.SQLx().PingContext(reqCtx); err != nil {
			health["database"] = "down"
			status = http.StatusServiceUnavailable
		}
		if err := c.Ping(reqCtx); err != nil {
			health["redis"] = "down"
			status = http.StatusServiceUnavailable
		}

		return ctx.JSON(status, health)
	}
}
