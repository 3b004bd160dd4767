// Package config loads the service configuration and sets up logging.
package config

import (
	"errors"
	"io/fs"
	"os"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v2"

	"sepsisapi/ml"
)

// Config holds the full application configuration. Every field has a default,
// so the service runs without a config file.
type Config struct {
	Server         ServerConfig      `yaml:"server"`
	Artifacts      ml.ArtifactConfig `yaml:"artifacts"`
	WatchArtifacts bool              `yaml:"watch_artifacts"`
	Log            LogConfig         `yaml:"log"`
}

// ServerConfig controls the listen address and HTTP timeouts.
type ServerConfig struct {
	Host            string        `yaml:"host"`
	Port            int           `yaml:"port"`
	ReadTimeout     time.Duration `yaml:"read_timeout"`
	WriteTimeout    time.Duration `yaml:"write_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

// LogConfig controls the zap logger. File enables a rotated log file in
// addition to stderr.
type LogConfig struct {
	Level      string `yaml:"level"`
	Format     string `yaml:"format"`
	File       string `yaml:"file"`
	MaxSizeMB  int    `yaml:"max_size_mb"`
	MaxBackups int    `yaml:"max_backups"`
	MaxAgeDays int    `yaml:"max_age_days"`
	Compress   bool   `yaml:"compress"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Host:            "0.0.0.0",
			Port:            8000,
			ReadTimeout:     30 * time.Second,
			WriteTimeout:    30 * time.Second,
			ShutdownTimeout: 5 * time.Second,
		},
		Artifacts: ml.DefaultArtifactConfig(),
		Log: LogConfig{
			Level:      "info",
			Format:     "json",
			MaxSizeMB:  100,
			MaxBackups: 3,
			MaxAgeDays: 28,
		},
	}
}

// Load reads the YAML file at path over the defaults. A missing file is not
// an error.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return cfg, nil
		}
		return nil, eris.Wrapf(err, "config: open %s", path)
	}
	defer file.Close()

	if err := yaml.NewDecoder(file).Decode(cfg); err != nil {
		return nil, eris.Wrapf(err, "config: decode %s", path)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects values the server cannot start with.
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return eris.Errorf("config: invalid server port %d", c.Server.Port)
	}
	if c.Artifacts.Imputer == "" || c.Artifacts.Scaler == "" || c.Artifacts.Model == "" {
		return eris.New("config: artifact file names must not be empty")
	}
	if _, err := zapcore.ParseLevel(c.Log.Level); err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	switch c.Log.Format {
	case "json", "console":
	default:
		return eris.Errorf("config: unsupported log format %q", c.Log.Format)
	}
	return nil
}
