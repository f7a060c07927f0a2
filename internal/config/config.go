// Package config содержит логику чтения конфигурации сервиса.
package config

import (
	"errors"
	"flag"
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// ErrNoJWTSecret возвращается, если секрет подписи токенов не задан.
// Без секрета сервис не может выпускать и проверять токены, поэтому
// запуск прерывается сразу, а не на первом запросе.
var ErrNoJWTSecret = errors.New("JWT_SECRET is not configured")

// Config содержит конфигурацию приложения.
type Config struct {
	RunAddress      string `env:"RUN_ADDRESS"`
	DatabaseURI     string `env:"DATABASE_URI"`
	JWTSecret       string `env:"JWT_SECRET"`
	APIPrefix       string `env:"API_PREFIX"`
	Environment     string `env:"APP_ENV"`
	TokenExpiration time.Duration
}

// Parse считывает конфигурацию из переменных окружения и флагов командной строки.
// Приоритет: переменные окружения > флаги > значения по умолчанию.
func Parse() (*Config, error) {
	cfg := &Config{}

	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	envRunAddress := cfg.RunAddress
	envDatabaseURI := cfg.DatabaseURI
	envAPIPrefix := cfg.APIPrefix
	envEnvironment := cfg.Environment

	flag.StringVar(&cfg.RunAddress, "a", "localhost:8080", "адрес и порт запуска сервиса")
	flag.StringVar(&cfg.DatabaseURI, "d", "", "строка подключения к PostgreSQL")
	flag.StringVar(&cfg.APIPrefix, "p", "/api/v1", "префикс маршрутов API")
	flag.StringVar(&cfg.Environment, "e", "development", "окружение (development/production)")
	flag.Parse()

	if envRunAddress != "" {
		cfg.RunAddress = envRunAddress
	}
	if envDatabaseURI != "" {
		cfg.DatabaseURI = envDatabaseURI
	}
	if envAPIPrefix != "" {
		cfg.APIPrefix = envAPIPrefix
	}
	if envEnvironment != "" {
		cfg.Environment = envEnvironment
	}

	// Секрет задаётся только через окружение, флага для него нет.
	if cfg.JWTSecret == "" {
		return nil, ErrNoJWTSecret
	}

	// Время жизни токена
	cfg.TokenExpiration = 24 * time.Hour

	return cfg, nil
}

// IsDevelopment сообщает, запущен ли сервис вне production-окружения.
func (c *Config) IsDevelopment() bool {
	return c.Environment != "production"
}
