// Package config 提供配置管理
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config 应用配置（从环境变量加载）
type Config struct {
	App      AppConfig
	Database DatabaseConfig
	Solver   SolverConfig
	API      APIConfig
	Metrics  MetricsConfig
}

// AppConfig 应用基础配置
type AppConfig struct {
	Name     string `env:"APP_NAME" envDefault:"turnario"`
	Env      string `env:"APP_ENV" envDefault:"development"`
	Port     int    `env:"APP_PORT" envDefault:"7080"`
	LogLevel string `env:"APP_LOG_LEVEL" envDefault:"info"`
}

// DatabaseConfig 数据库配置
type DatabaseConfig struct {
	Host            string        `env:"DB_HOST" envDefault:"localhost"`
	Port            int           `env:"DB_PORT" envDefault:"5432"`
	Name            string        `env:"DB_NAME" envDefault:"turnario"`
	User            string        `env:"DB_USER" envDefault:"turnario"`
	Password        string        `env:"DB_PASSWORD" envDefault:"turnario123"`
	SSLMode         string        `env:"DB_SSL_MODE" envDefault:"disable"`
	MaxOpenConns    int           `env:"DB_MAX_OPEN_CONNS" envDefault:"25"`
	MaxIdleConns    int           `env:"DB_MAX_IDLE_CONNS" envDefault:"5"`
	ConnMaxLifetime time.Duration `env:"DB_CONN_MAX_LIFETIME" envDefault:"5m"`
}

// DSN 返回数据库连接字符串
func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Name, c.SSLMode,
	)
}

// SolverConfig 求解服务配置
type SolverConfig struct {
	BaseURL string        `env:"SOLVER_BASE_URL" envDefault:"http://localhost:8787"`
	Timeout time.Duration `env:"SOLVER_TIMEOUT" envDefault:"35s"`
}

// APIConfig API配置
type APIConfig struct {
	RateLimit   int           `env:"API_RATE_LIMIT" envDefault:"100"`
	Timeout     time.Duration `env:"API_TIMEOUT" envDefault:"30s"`
	CORSEnabled bool          `env:"API_CORS_ENABLED" envDefault:"true"`
	CORSOrigins []string      `env:"API_CORS_ORIGINS" envDefault:"*" envSeparator:","`
}

// MetricsConfig 监控配置
type MetricsConfig struct {
	Enabled bool   `env:"METRICS_ENABLED" envDefault:"true"`
	Path    string `env:"METRICS_PATH" envDefault:"/metrics"`
}

// Load 从环境变量加载配置
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("解析环境变量失败: %w", err)
	}
	return cfg, nil
}

// IsDevelopment 检查是否为开发环境
func (c *Config) IsDevelopment() bool {
	return c.App.Env == "development"
}

// IsProduction 检查是否为生产环境
func (c *Config) IsProduction() bool {
	return c.App.Env == "production"
}

// IsTest 检查是否为测试环境
func (c *Config) IsTest() bool {
	return c.App.Env == "test"
}
