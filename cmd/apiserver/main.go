package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sentinela-gov/sentinela/internal/apiserver/database"
	"github.com/sentinela-gov/sentinela/internal/apiserver/handler"
	"github.com/sentinela-gov/sentinela/internal/apiserver/middleware"
	"github.com/sentinela-gov/sentinela/internal/apiserver/scheduler"
	"github.com/sentinela-gov/sentinela/internal/auth/jwt"
	"github.com/sentinela-gov/sentinela/internal/common/config"
	"github.com/sentinela-gov/sentinela/internal/i18n"
	"github.com/sentinela-gov/sentinela/internal/pncp"
	"github.com/sentinela-gov/sentinela/pkg/logger"
	"github.com/sentinela-gov/sentinela/pkg/metrics"
	"github.com/sentinela-gov/sentinela/pkg/version"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	configPath string

	versionCmd = &cobra.Command{
		Use:   "version",
		Short: "Print the version number of sentinela",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("sentinela version %s\n", version.Get())
		},
	}

	rootCmd = &cobra.Command{
		Use:   "sentinela",
		Short: "Sentinela API server",
		Long:  `Sentinela manages public procurement contracts and supplier compliance`,
		Run: func(cmd *cobra.Command, args []string) {
			run()
		},
	}
)

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "conf", "", "path to configuration file")
	rootCmd.AddCommand(versionCmd)
}

func getConfigPath() string {
	if configPath != "" {
		return configPath
	}
	if envPath := os.Getenv("SENTINELA_CONF"); envPath != "" {
		return envPath
	}
	return "configs/apiserver.yaml"
}

func run() {
	cfg, err := config.LoadConfig(getConfigPath())
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	zapLogger, err := logger.NewLogger(&cfg.Logger)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer func() { _ = zapLogger.Sync() }()

	if err := i18n.Load(cfg.I18n.Path); err != nil {
		zapLogger.Warn("failed to load translations, message ids will be returned raw",
			zap.String("path", cfg.I18n.Path),
			zap.Error(err))
	}

	store, err := database.NewStore(&cfg.Database)
	if err != nil {
		zapLogger.Fatal("Failed to initialize database", zap.Error(err))
	}
	defer store.Close()

	ctx := context.Background()
	if err := database.Bootstrap(ctx, store, cfg.Bootstrap, zapLogger); err != nil {
		zapLogger.Fatal("Failed to bootstrap initial data", zap.Error(err))
	}

	jwtService, err := jwt.NewService(jwt.Config{SecretKey: cfg.JWT.SecretKey, Duration: cfg.JWT.Duration})
	if err != nil {
		zapLogger.Fatal("Failed to initialize token service", zap.Error(err))
	}

	m := metrics.New(cfg.Metrics)
	pncpClient := pncp.NewClient(cfg.PNCP, zapLogger)
	audit := middleware.NewAuditWriter(store, zapLogger)
	sched := scheduler.New(store, pncpClient, audit, cfg.Sync, zapLogger, m)

	zapLogger.Info("Starting sentinela",
		zap.String("version", version.Get()),
		zap.Int("port", cfg.Port))

	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery(), m.GinMiddleware())

	h := handler.New(store, jwtService, pncpClient, audit, sched, zapLogger, m)
	h.RegisterRoutes(r, middleware.Auth(jwtService, store))

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Port),
		Handler: r,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zapLogger.Fatal("Server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	zapLogger.Info("Shutting down, waiting for background jobs")
	sched.Wait()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		zapLogger.Error("Forced shutdown", zap.Error(err))
	}
	zapLogger.Info("Server stopped")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
