// Package config loads the pricer configuration from YAML or JSON and the
// process environment.
package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/contactkeval/bs-pricer/internal/data"
	"github.com/contactkeval/bs-pricer/internal/logger"
	"github.com/contactkeval/bs-pricer/internal/quote"
)

const (
	EnvMassiveAPIKey = "MASSIVE_API_KEY"
	EnvPolygonAPIKey = "POLYGON_API_KEY"
)

type Config struct {
	Log       logger.Config `json:"log" yaml:"log"`
	Data      data.Config   `json:"data" yaml:"data"`
	Pricing   quote.Config  `json:"pricing" yaml:"pricing"`
	Server    ServerConfig  `json:"server" yaml:"server"`
	ReportDir string        `json:"report_dir,omitempty" yaml:"report_dir"`
}

type ServerConfig struct {
	Addr string `json:"addr" yaml:"addr"`
}

// Default returns a config that prices against synthetic data.
func Default() *Config {
	cfg := &Config{Log: logger.Config{Verbosity: int(logger.Info)}}
	cfg.ApplyDefaults()
	return cfg
}

// ApplyDefaults fills unset fields.
func (c *Config) ApplyDefaults() {
	if c.ReportDir == "" {
		c.ReportDir = "./out"
	}
	if c.Server.Addr == "" {
		c.Server.Addr = ":8080"
	}
	if c.Data.Source == "" {
		c.Data.Source = "synthetic"
	}
	if c.Data.MassiveAPIKey == "" {
		c.Data.MassiveAPIKey = os.Getenv(EnvMassiveAPIKey)
	}
	if c.Data.PolygonAPIKey == "" {
		c.Data.PolygonAPIKey = os.Getenv(EnvPolygonAPIKey)
	}
	if c.Log.Verbosity < int(logger.Error) || c.Log.Verbosity > int(logger.Trace) {
		c.Log.Verbosity = int(logger.Info)
	}
}

// Load reads path as YAML (.yaml, .yml) or JSON (.json) and applies defaults.
func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "reading config")
	}

	cfg := &Config{Log: logger.Config{Verbosity: int(logger.Info)}}
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(b, cfg)
	case ".json":
		err = json.Unmarshal(b, cfg)
	default:
		return nil, errors.Errorf("unsupported config format %q", ext)
	}
	if err != nil {
		return nil, errors.Wrapf(err, "invalid config %s", path)
	}

	cfg.ApplyDefaults()
	return cfg, nil
}

// LoadEnv loads KEY=VALUE pairs from the given files into the environment
// without overriding variables that are already set. Missing files are
// skipped.
func LoadEnv(files ...string) error {
	for _, f := range files {
		if _, err := os.Stat(f); os.IsNotExist(err) {
			logger.Debugf("env file %s not found, skipping", f)
			continue
		}
		if err := godotenv.Load(f); err != nil {
			return errors.Wrapf(err, "failed to load %s", f)
		}
	}
	return nil
}
