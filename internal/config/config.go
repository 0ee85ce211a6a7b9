package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

// Config конфигурация сервиса
type Config struct {
	Server         ServerConfig      `toml:"server"`
	Database       DatabaseConfig    `toml:"database"`
	Redis          RedisConfig       `toml:"redis"`
	Wizard         WizardConfig      `toml:"wizard"`
	Logs           LogsConfig        `toml:"logs"`
	Metrics        MetricsConfig     `toml:"metrics"`
	ProfileService ServiceConfig     `toml:"profile_service"`
	Geolocation    GeolocationConfig `toml:"geolocation"`
	Notifier       NotifierConfig    `toml:"notifier"`
}

// ServerConfig настройки HTTP сервера (таймауты в секундах)
type ServerConfig struct {
	HTTPPort        int `toml:"http_port"`
	ReadTimeout     int `toml:"read_timeout"`
	WriteTimeout    int `toml:"write_timeout"`
	IdleTimeout     int `toml:"idle_timeout"`
	ShutdownTimeout int `toml:"shutdown_timeout"`
}

// DatabaseConfig настройки PostgreSQL
type DatabaseConfig struct {
	Host            string `toml:"host"`
	Port            int    `toml:"port"`
	User            string `toml:"user"`
	Password        string `toml:"password"`
	DBName          string `toml:"dbname"`
	SSLMode         string `toml:"sslmode"`
	MaxOpenConns    int    `toml:"max_open_conns"`
	MaxIdleConns    int    `toml:"max_idle_conns"`
	ConnMaxLifetime int    `toml:"conn_max_lifetime"`
}

// DSN строка подключения для lib/pq
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.DBName, d.SSLMode)
}

// RedisConfig настройки Redis (хранилище сессий мастера)
type RedisConfig struct {
	Addr      string `toml:"addr"`
	Password  string `toml:"password"`
	DB        int    `toml:"db"`
	KeyPrefix string `toml:"key_prefix"`
}

// WizardConfig настройки мастера записи
type WizardConfig struct {
	SessionTTLMinutes    int `toml:"session_ttl_minutes"`
	UpdateRetries        int `toml:"update_retries"`
	LookupTimeoutSeconds int `toml:"lookup_timeout_seconds"`
}

// LogsConfig настройки логирования
type LogsConfig struct {
	Level string `toml:"level"`
	File  string `toml:"file"`
}

// MetricsConfig настройки метрик Prometheus
type MetricsConfig struct {
	Enabled     bool   `toml:"enabled"`
	Path        string `toml:"path"`
	ServiceName string `toml:"service_name"`
}

// ServiceConfig настройки внешнего HTTP сервиса (таймаут в секундах)
type ServiceConfig struct {
	URL     string `toml:"url"`
	Timeout int    `toml:"timeout"`
}

// GeolocationConfig настройки сервиса геолокации
type GeolocationConfig struct {
	URL               string  `toml:"url"`
	Timeout           int     `toml:"timeout"`
	RequestsPerSecond float64 `toml:"requests_per_second"`
	Burst             int     `toml:"burst"`
}

// NotifierConfig настройки уведомления врача о новой заявке
type NotifierConfig struct {
	Enabled    bool   `toml:"enabled"`
	WebhookURL string `toml:"webhook_url"`
	Timeout    int    `toml:"timeout"`
}

// Load загружает конфигурацию из TOML файла
// Перед этим подгружает .env (если есть), переменные окружения переопределяют секреты и порт
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("config: load .env: %w", err)
	}

	cfg := Default()
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("config: decode %s: %w", path, err)
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Default значения по умолчанию (перекрываются файлом)
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			HTTPPort:        8080,
			ReadTimeout:     10,
			WriteTimeout:    10,
			IdleTimeout:     60,
			ShutdownTimeout: 15,
		},
		Database: DatabaseConfig{
			Host:            "localhost",
			Port:            5432,
			SSLMode:         "disable",
			MaxOpenConns:    25,
			MaxIdleConns:    5,
			ConnMaxLifetime: 300,
		},
		Redis: RedisConfig{
			Addr:      "localhost:6379",
			KeyPrefix: "mybakup:wizard:",
		},
		Wizard: WizardConfig{
			SessionTTLMinutes:    120,
			UpdateRetries:        5,
			LookupTimeoutSeconds: 20,
		},
		Logs: LogsConfig{
			Level: "info",
		},
		Metrics: MetricsConfig{
			Path:        "/metrics",
			ServiceName: "mybakup_wizard",
		},
		ProfileService: ServiceConfig{Timeout: 5},
		Geolocation:    GeolocationConfig{Timeout: 20, RequestsPerSecond: 10, Burst: 20},
		Notifier:       NotifierConfig{Timeout: 5},
	}
}

// Validate проверяет обязательные параметры
func (c *Config) Validate() error {
	switch {
	case c.Server.HTTPPort <= 0 || c.Server.HTTPPort > 65535:
		return fmt.Errorf("config: invalid server.http_port %d", c.Server.HTTPPort)
	case c.Database.Host == "" || c.Database.DBName == "":
		return errors.New("config: database.host and database.dbname are required")
	case c.Redis.Addr == "":
		return errors.New("config: redis.addr is required")
	case c.ProfileService.URL == "":
		return errors.New("config: profile_service.url is required")
	case c.Geolocation.URL == "":
		return errors.New("config: geolocation.url is required")
	case c.Notifier.Enabled && c.Notifier.WebhookURL == "":
		return errors.New("config: notifier.webhook_url is required when notifier is enabled")
	case c.Wizard.SessionTTLMinutes <= 0:
		return errors.New("config: wizard.session_ttl_minutes must be positive")
	case c.Wizard.UpdateRetries <= 0:
		return errors.New("config: wizard.update_retries must be positive")
	}
	return nil
}

// applyEnv переопределяет значения из переменных окружения
func (c *Config) applyEnv() error {
	if v := os.Getenv("DB_PASSWORD"); v != "" {
		c.Database.Password = v
	}
	if v := os.Getenv("REDIS_PASSWORD"); v != "" {
		c.Redis.Password = v
	}
	if v := os.Getenv("HTTP_PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("config: invalid HTTP_PORT %q: %w", v, err)
		}
		c.Server.HTTPPort = port
	}
	return nil
}
