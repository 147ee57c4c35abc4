package main

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Matching configures the local-match stage of the pipeline.
type Matching struct {
	Threshold     float32 `toml:"threshold"`
	FallbackLabel string  `toml:"fallback_label"`
}

// GenAI configures the external recognition service.
type GenAI struct {
	BaseURL           string  `toml:"base_url"`
	APIKey            string  `toml:"api_key"`
	Model             string  `toml:"model"`
	RequestsPerSecond float64 `toml:"requests_per_second"`
}

// AWS configures the DynamoDB entry store and the S3 dataset store.
type AWS struct {
	Region        string `toml:"region"`
	Table         string `toml:"table"`
	Bucket        string `toml:"bucket"`
	DatasetPrefix string `toml:"dataset_prefix"`
}

// MinIO configures an S3-compatible dataset store used instead of S3
// when Endpoint is set.
type MinIO struct {
	Endpoint  string `toml:"endpoint"`
	AccessKey string `toml:"access_key"`
	SecretKey string `toml:"secret_key"`
	UseSSL    bool   `toml:"use_ssl"`
	Bucket    string `toml:"bucket"`
}

// Config is the full CLI configuration.
type Config struct {
	Matching Matching `toml:"matching"`
	GenAI    GenAI    `toml:"genai"`
	AWS      AWS      `toml:"aws"`
	MinIO    MinIO    `toml:"minio"`
}

func defaultConfig() Config {
	return Config{
		Matching: Matching{
			Threshold:     0.75,
			FallbackLabel: "hello",
		},
		GenAI: GenAI{
			Model: "gpt-4o-mini",
		},
		AWS: AWS{
			Region:        "us-east-1",
			Table:         "signmatch-entries",
			DatasetPrefix: "datasets/",
		},
		MinIO: MinIO{
			UseSSL: true,
		},
	}
}

func defaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "signmatch.toml"
	}
	return filepath.Join(home, ".config", "signmatch", "config.toml")
}

// loadConfig reads the TOML config at path, falling back to defaults
// when the file does not exist. An explicitly given path must exist.
func loadConfig(path string, explicit bool) (Config, error) {
	cfg := defaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) && !explicit {
			return cfg, nil
		}
		return cfg, fmt.Errorf("failed to read config %s: %w", path, err)
	}

	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	return cfg, nil
}

// writeSampleConfig writes the embedded sample config to path, failing
// if the file already exists.
func writeSampleConfig(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config already exists: %s", path)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, []byte(sampleConfig), 0o600)
}
