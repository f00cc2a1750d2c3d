// Package main runs the event-registration HTTP server with graceful shutdown.
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/alumni-reunion/backend/config"
	"github.com/alumni-reunion/backend/internal/mailer"
	"github.com/alumni-reunion/backend/internal/middleware"
	"github.com/alumni-reunion/backend/internal/registrations"
	"github.com/alumni-reunion/backend/internal/store"
	"github.com/alumni-reunion/backend/internal/tickets"
	"github.com/alumni-reunion/backend/pkg/queue"
	"github.com/alumni-reunion/backend/pkg/redis"
	"github.com/alumni-reunion/backend/pkg/response"
)

func main() {
	logger := newLogger()
	defer logger.Sync()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("load config", zap.Error(err))
	}

	ctx := context.Background()

	// Registration store
	var st store.Store
	switch cfg.Store.Driver {
	case "postgres":
		pg, err := store.NewPostgresStore(ctx, cfg.Store.DatabaseURL, logger)
		if err != nil {
			logger.Fatal("postgres store", zap.Error(err))
		}
		defer pg.Close()
		st = pg
	default:
		fs, err := store.NewFileStore(cfg.Store.FilePath, logger)
		if err != nil {
			logger.Fatal("file store", zap.Error(err))
		}
		st = fs
	}

	// QR artifact store
	var artifacts tickets.ArtifactStore
	if cfg.Tickets.S3Bucket != "" && cfg.AWS.Region != "" {
		artifacts, err = tickets.NewS3ArtifactStore(ctx, tickets.S3Options{
			Region:          cfg.AWS.Region,
			AccessKeyID:     cfg.AWS.AccessKeyID,
			SecretAccessKey: cfg.AWS.SecretAccessKey,
			Bucket:          cfg.Tickets.S3Bucket,
		}, logger)
		if err != nil {
			logger.Fatal("s3 artifact store", zap.Error(err))
		}
	} else {
		artifacts, err = tickets.NewFSArtifactStore(cfg.Tickets.QRDir)
		if err != nil {
			logger.Fatal("qr dir", zap.Error(err))
		}
	}

	issuer, err := tickets.NewIssuer(cfg.Server.PublicBaseURL, artifacts, logger)
	if err != nil {
		logger.Fatal("ticket issuer", zap.Error(err))
	}

	svc := registrations.NewService(st, registrations.CapacitiesFromConfig(cfg.Capacity), issuer, logger)

	// Redis is optional: without it the limiter fails open and confirmations
	// are skipped.
	rdb, err := redis.NewClient(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, logger)
	if err != nil {
		logger.Warn("redis unavailable, rate limiting and email queue disabled", zap.Error(err))
		rdb = nil
	} else {
		defer rdb.Close()
		svc.SetNotifier(mailer.NewQueueNotifier(queue.NewQueue(rdb.Client, logger)))
	}

	regHandler := registrations.NewHandler(svc, logger)
	ticketHandler := tickets.NewHandler(artifacts, logger)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.CORS(cfg.Server.CORSAllowedOrigins))
	router.Use(middleware.Logger(logger))

	router.GET("/health", func(c *gin.Context) { response.OK(c, gin.H{"status": "ok"}) })

	// Public
	var limiter gin.HandlerFunc
	if rdb != nil {
		limiter = middleware.RateLimit(cfg.RateLimit, rdb.Client, logger)
	} else {
		limiter = func(c *gin.Context) { c.Next() }
	}
	router.POST("/submit", limiter, regHandler.Submit)
	router.GET("/stats", regHandler.Stats)
	router.GET("/ticket/:id", regHandler.Ticket)
	router.GET("/qr/:id", ticketHandler.QR)

	// Admin (basic auth)
	admin := router.Group("/admin", middleware.BasicAuth(cfg.Admin))
	{
		admin.GET("/registrations", regHandler.AdminList)
		admin.GET("/registrations.csv", regHandler.AdminExportCSV)
		admin.GET("/registrations/:id", regHandler.AdminLookup)
	}

	// Static site (landing page, form, gallery assets)
	if cfg.Server.StaticDir != "" {
		if _, err := os.Stat(cfg.Server.StaticDir); err == nil {
			router.NoRoute(gin.WrapH(http.FileServer(http.Dir(cfg.Server.StaticDir))))
		}
	}

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	go func() {
		logger.Info("server listening", zap.String("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown", zap.Error(err))
	}
	logger.Info("server stopped")
}

func newLogger() *zap.Logger {
	config := zap.NewProductionConfig()
	config.EncoderConfig.TimeKey = "timestamp"
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	logger, _ := config.Build()
	return logger
}
