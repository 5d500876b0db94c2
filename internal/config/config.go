package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// ColorMode controls ANSI colour in terminal output.
type ColorMode string

const (
	ColorAuto   ColorMode = "auto"
	ColorAlways ColorMode = "always"
	ColorNever  ColorMode = "never"
)

type Config struct {
	DBPath   string    `env:"PHANTOM_DB_PATH" envDefault:"phantom_thieves.db"`
	ChartDir string    `env:"PHANTOM_CHART_DIR" envDefault:"charts"`
	User     string    `env:"PHANTOM_USER"`
	Color    ColorMode `env:"PHANTOM_COLOR" envDefault:"auto"`
	Verbose  bool      `env:"PHANTOM_VERBOSE"`
}

// Load reads an optional .env file from the working directory and then the
// process environment. Variables already set win over the file.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	cfg.Color = ColorMode(strings.ToLower(strings.TrimSpace(string(cfg.Color))))
	return cfg, cfg.Validate()
}

func (c Config) Validate() error {
	if strings.TrimSpace(c.DBPath) == "" {
		return errors.New("database path is required")
	}
	if strings.TrimSpace(c.ChartDir) == "" {
		return errors.New("chart directory is required")
	}
	switch c.Color {
	case ColorAuto, ColorAlways, ColorNever:
	default:
		return fmt.Errorf("invalid colour mode %q, expected auto, always or never", c.Color)
	}
	return nil
}
