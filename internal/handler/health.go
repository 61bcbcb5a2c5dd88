package handler

import (
	"context"
	"net/http"
	"time"
)

// 构建时由 ldflags 注入
var (
	Version   = "dev"
	BuildTime = "unknown"
)

// HealthChecker 健康检查依赖
type HealthChecker interface {
	Health(ctx context.Context) error
}

// HealthHandler 健康检查处理器
type HealthHandler struct {
	db        HealthChecker
	startedAt time.Time
}

// NewHealthHandler 创建健康检查处理器
func NewHealthHandler(db HealthChecker) *HealthHandler {
	return &HealthHandler{db: db, startedAt: time.Now()}
}

// Health 存活与依赖检查
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	status := "ok"
	code := http.StatusOK
	if err := h.db.Health(r.Context()); err != nil {
		status = "degraded"
		code = http.StatusServiceUnavailable
	}
	respondJSON(w, code, map[string]interface{}{
		"status": status,
		"uptime": time.Since(h.startedAt).String(),
	})
}

// VersionInfo 版本信息
func (h *HealthHandler) VersionInfo(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{
		"version":    Version,
		"build_time": BuildTime,
	})
}
