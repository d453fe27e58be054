// Package config assembles the agent's runtime settings: built-in
// defaults, overlaid by an optional YAML file, overridden by environment
// variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/allwin107/hsn-validation-agent/internal/platform/env"
)

// Config is the fully resolved agent configuration.
type Config struct {
	Addr              string
	ShutdownTimeout   time.Duration
	DatasetPath       string
	CodeColumn        string
	DescriptionColumn string
	MaxBatchSize      int
	UploadMaxMiB      int
}

// fileConfig mirrors the YAML layout. Zero values mean "not set".
type fileConfig struct {
	Addr              string `yaml:"addr"`
	ShutdownTimeout   string `yaml:"shutdown_timeout"`
	DatasetPath       string `yaml:"dataset_path"`
	CodeColumn        string `yaml:"code_column"`
	DescriptionColumn string `yaml:"description_column"`
	MaxBatchSize      int    `yaml:"max_batch_size"`
	UploadMaxMiB      int    `yaml:"upload_max_mib"`
}

func defaults() Config {
	return Config{
		Addr:              ":8080",
		ShutdownTimeout:   10 * time.Second,
		DatasetPath:       "data/HSN_SAC.xlsx",
		CodeColumn:        "HSNCode",
		DescriptionColumn: "Description",
		MaxBatchSize:      100,
		UploadMaxMiB:      16,
	}
}

// Load resolves the configuration. path may be empty; a missing file at an
// explicitly configured path is an error, otherwise the file layer is
// skipped silently.
func Load(path string) (Config, error) {
	cfg := defaults()

	if path != "" {
		if err := applyFile(&cfg, path); err != nil {
			return Config{}, err
		}
	}
	if err := applyEnv(&cfg); err != nil {
		return Config{}, err
	}

	if cfg.MaxBatchSize <= 0 {
		return Config{}, fmt.Errorf("max batch size must be positive, got %d", cfg.MaxBatchSize)
	}
	if cfg.UploadMaxMiB <= 0 {
		return Config{}, fmt.Errorf("upload cap must be positive, got %d MiB", cfg.UploadMaxMiB)
	}
	return cfg, nil
}

func applyFile(cfg *Config, path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("config file %s: %w", path, err)
		}
		return fmt.Errorf("read config file: %w", err)
	}

	var fc fileConfig
	if err := yaml.Unmarshal(raw, &fc); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}

	if fc.Addr != "" {
		cfg.Addr = fc.Addr
	}
	if fc.ShutdownTimeout != "" {
		d, err := time.ParseDuration(fc.ShutdownTimeout)
		if err != nil {
			return fmt.Errorf("parse shutdown_timeout: %w", err)
		}
		cfg.ShutdownTimeout = d
	}
	if fc.DatasetPath != "" {
		cfg.DatasetPath = fc.DatasetPath
	}
	if fc.CodeColumn != "" {
		cfg.CodeColumn = fc.CodeColumn
	}
	if fc.DescriptionColumn != "" {
		cfg.DescriptionColumn = fc.DescriptionColumn
	}
	if fc.MaxBatchSize != 0 {
		cfg.MaxBatchSize = fc.MaxBatchSize
	}
	if fc.UploadMaxMiB != 0 {
		cfg.UploadMaxMiB = fc.UploadMaxMiB
	}
	return nil
}

func applyEnv(cfg *Config) error {
	cfg.Addr = env.String("HSN_AGENT_HTTP_ADDR", cfg.Addr)
	cfg.DatasetPath = env.String("HSN_AGENT_DATASET_PATH", cfg.DatasetPath)
	cfg.CodeColumn = env.String("HSN_AGENT_CODE_COLUMN", cfg.CodeColumn)
	cfg.DescriptionColumn = env.String("HSN_AGENT_DESCRIPTION_COLUMN", cfg.DescriptionColumn)

	var err error
	if cfg.ShutdownTimeout, err = env.Duration("HSN_AGENT_SHUTDOWN_TIMEOUT", cfg.ShutdownTimeout); err != nil {
		return err
	}
	if cfg.MaxBatchSize, err = env.Int("HSN_AGENT_MAX_BATCH_SIZE", cfg.MaxBatchSize); err != nil {
		return err
	}
	if cfg.UploadMaxMiB, err = env.Int("HSN_AGENT_UPLOAD_MAX_MIB", cfg.UploadMaxMiB); err != nil {
		return err
	}
	return nil
}
