package config

import (
	"fmt"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	Port int `envconfig:"PORT" default:"8080"`
	// DatabaseURL selects PostgreSQL. When empty the server uses the
	// SQLite file at SQLitePath.
	DatabaseURL    string `envconfig:"DATABASE_URL"`
	SQLitePath     string `envconfig:"SQLITE_PATH" default:"./data/canvas.db"`
	JWTSecret      string `envconfig:"JWT_SECRET" default:"dev-secret-change-in-production"`
	AllowedOrigins string `envconfig:"ALLOWED_ORIGINS" default:"http://localhost:5173,http://localhost:3000"`

	CanvasWidth  int     `envconfig:"CANVAS_WIDTH" default:"1280"`
	CanvasHeight int     `envconfig:"CANVAS_HEIGHT" default:"720"`
	GridSpacing  float64 `envconfig:"GRID_SPACING" default:"32"`
	FontPath     string  `envconfig:"FONT_PATH"`
	FontSize     float64 `envconfig:"FONT_SIZE" default:"16"`

	// AutosaveSeconds is how often the collaboration hub writes edited
	// documents back to the store.
	AutosaveSeconds int `envconfig:"AUTOSAVE_SECONDS" default:"10"`
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	if cfg.CanvasWidth <= 0 || cfg.CanvasHeight <= 0 {
		return nil, fmt.Errorf("canvas size %dx%d must be positive", cfg.CanvasWidth, cfg.CanvasHeight)
	}
	if cfg.GridSpacing <= 0 {
		return nil, fmt.Errorf("grid spacing %v must be positive", cfg.GridSpacing)
	}
	return &cfg, nil
}
