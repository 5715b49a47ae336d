// internal/kybstore/config.go
//
// Environment configuration for the kybd document service. A local .env
// file is honored when present; real environment variables win.

package kybstore

import (
	"fmt"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config is the kybd process configuration, bound from KYBD_* variables.
type Config struct {
	Host           string `envconfig:"HOST" default:"127.0.0.1"`
	Port           int    `envconfig:"PORT" default:"8090"`
	DatabaseURL    string `envconfig:"DATABASE_URL"`
	UploadDir      string `envconfig:"UPLOAD_DIR" default:"uploads"`
	MaxUploadBytes int64  `envconfig:"MAX_UPLOAD_BYTES" default:"10485760"`
}

// LoadConfig reads .env if present and binds the KYBD_* environment.
func LoadConfig() (*Config, error) {
	_ = godotenv.Load()
	var cfg Config
	if err := envconfig.Process("kybd", &cfg); err != nil {
		return nil, fmt.Errorf("kybstore: process environment: %w", err)
	}
	if cfg.Port <= 0 || cfg.Port > 65535 {
		return nil, fmt.Errorf("kybstore: invalid port %d", cfg.Port)
	}
	if cfg.MaxUploadBytes <= 0 {
		return nil, fmt.Errorf("kybstore: invalid upload limit %d", cfg.MaxUploadBytes)
	}
	return &cfg, nil
}
