// Turnario 排班服务
// 主程序入口

package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/turnario/turnario/internal/config"
	"github.com/turnario/turnario/internal/database"
	"github.com/turnario/turnario/internal/handler"
	"github.com/turnario/turnario/internal/metrics"
	"github.com/turnario/turnario/internal/middleware"
	"github.com/turnario/turnario/internal/repository"
	"github.com/turnario/turnario/pkg/logger"
	"github.com/turnario/turnario/pkg/solver"
)

// 构建信息（通过 ldflags 注入）
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "加载配置失败: %v\n", err)
		os.Exit(1)
	}

	format := "json"
	if cfg.IsDevelopment() {
		format = "console"
	}
	logger.Init(logger.Config{
		Level:  cfg.App.LogLevel,
		Format: format,
	})

	handler.Version = Version
	handler.BuildTime = BuildTime

	db, err := database.New(&cfg.Database)
	if err != nil {
		logger.Error().Err(err).Msg("数据库初始化失败")
		os.Exit(1)
	}
	defer db.Close()

	// 仓储与处理器装配
	orgRepo := repository.NewOrganizationRepository(db)
	empRepo := repository.NewEmployeeRepository(db)
	schedRepo := repository.NewScheduleRepository(db)
	staffRepo := repository.NewStaffingRepository(db)
	loader := repository.NewContextLoader(orgRepo, empRepo, schedRepo, staffRepo)
	gateway := solver.NewHTTPGateway(cfg.Solver.BaseURL, cfg.Solver.Timeout)
	h := handler.New(loader, schedRepo, empRepo, gateway)
	healthH := handler.NewHealthHandler(db)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recovery)
	r.Use(middleware.Logging)
	if cfg.API.RateLimit > 0 {
		r.Use(middleware.RateLimit(cfg.API.RateLimit))
	}
	if cfg.API.CORSEnabled {
		r.Use(middleware.CORS(cfg.API.CORSOrigins))
	}

	r.Get("/health", healthH.Health)
	r.Get("/version", healthH.VersionInfo)
	if cfg.Metrics.Enabled {
		r.Handle(cfg.Metrics.Path, metrics.Handler())
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/coverage", h.Coverage)
		r.Route("/schedule", func(r chi.Router) {
			r.Get("/", h.GetSchedule)
			r.Post("/validate", h.ValidateShift)
			r.Post("/substitutes", h.Substitutes)
			r.Post("/generate", h.Generate)
			r.Post("/fill-gaps", h.FillGaps)
			r.Post("/publish", h.Publish)
		})
	})

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.App.Port),
		Handler:      r,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		logger.Info().
			Int("port", cfg.App.Port).
			Str("version", Version).
			Str("solver", cfg.Solver.BaseURL).
			Msg("服务器启动")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error().Err(err).Msg("服务器启动失败")
			os.Exit(1)
		}
	}()

	// 优雅关闭
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("正在关闭服务器...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Error().Err(err).Msg("服务器关闭失败")
		os.Exit(1)
	}

	logger.Info().Msg("服务器已关闭")
}
