package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/GregMSThompson/mural-backend/internal/mural"
)

type Config struct {
	ProjectID string
	LogLevel  string
	Port      string
	Grid      mural.Grid
}

// muralFile is the optional YAML file named by MURALCONFIG.
type muralFile struct {
	Grid *mural.Grid `yaml:"grid"`
}

func New() (*Config, error) {
	cfg := &Config{
		ProjectID: os.Getenv("PROJECTID"),
		LogLevel:  os.Getenv("LOGLEVEL"),
		Port:      getEnvOr("PORT", "8080"),
		Grid:      mural.DefaultGrid,
	}

	if path := os.Getenv("MURALCONFIG"); path != "" {
		if err := cfg.loadFile(path); err != nil {
			return nil, err
		}
	}

	if rows := os.Getenv("GRIDROWS"); rows != "" {
		n, err := strconv.Atoi(rows)
		if err != nil {
			return nil, fmt.Errorf("parse GRIDROWS: %w", err)
		}
		cfg.Grid.Rows = n
	}

	if err := cfg.Grid.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read mural config: %w", err)
	}

	var f muralFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return fmt.Errorf("parse mural config: %w", err)
	}

	if f.Grid != nil {
		if f.Grid.Cols != 0 {
			c.Grid.Cols = f.Grid.Cols
		}
		if f.Grid.Rows != 0 {
			c.Grid.Rows = f.Grid.Rows
		}
	}
	return nil
}

func getEnvOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
