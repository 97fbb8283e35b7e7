package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/latticefin/lattice/internal/core"
	"github.com/spf13/viper"
)

type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Storage  StorageConfig  `mapstructure:"storage"`
	Provider ProviderConfig `mapstructure:"provider"`
	Graph    GraphConfig    `mapstructure:"graph"`
	Metrics  MetricsConfig  `mapstructure:"metrics"`
}

type ServerConfig struct {
	Host   string `mapstructure:"host"`
	Port   int    `mapstructure:"port"`
	APIKey string `mapstructure:"api_key"`
}

// StorageConfig selects the snapshot backend.
type StorageConfig struct {
	Snapshot SnapshotConfig `mapstructure:"snapshot"`
}

type SnapshotConfig struct {
	Type string   `mapstructure:"type"` // "localfs" or "s3"
	Path string   `mapstructure:"path"` // For localfs
	S3   S3Config `mapstructure:"s3"`   // For S3
}

type S3Config struct {
	Bucket    string `mapstructure:"bucket"`
	Endpoint  string `mapstructure:"endpoint"`
	Region    string `mapstructure:"region"`
	AccessKey string `mapstructure:"access_key"`
	SecretKey string `mapstructure:"secret_key"`
	Prefix    string `mapstructure:"prefix"`
}

// ProviderConfig controls where the initial asset universe comes from.
type ProviderConfig struct {
	Sample bool `mapstructure:"sample"` // seed the built-in sample universe
}

// GraphConfig controls graph behavior at startup.
type GraphConfig struct {
	Autobuild bool   `mapstructure:"autobuild"` // run relationship inference after seeding
	Restore   string `mapstructure:"restore"`   // snapshot name to restore, empty for none
}

// MetricsConfig holds Prometheus exposure settings.
type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Path    string `mapstructure:"path"`
}

// Load reads configuration from file
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)

	// Support environment variable overrides
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	// Expand environment variables in string values
	for _, key := range v.AllKeys() {
		val := v.GetString(key)
		if strings.HasPrefix(val, "${") && strings.HasSuffix(val, "}") {
			envKey := strings.TrimSuffix(strings.TrimPrefix(val, "${"), "}")
			v.Set(key, os.Getenv(envKey))
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	return &cfg, nil
}

// Defaults returns a config with sensible defaults
func Defaults() *Config {
	return &Config{
		Server: ServerConfig{
			Host: "0.0.0.0",
			Port: 8080,
		},
		Storage: StorageConfig{
			Snapshot: SnapshotConfig{
				Type: "localfs",
				Path: "data/snapshots",
			},
		},
		Provider: ProviderConfig{
			Sample: true,
		},
		Graph: GraphConfig{
			Autobuild: true,
		},
		Metrics: MetricsConfig{
			Enabled: true,
			Path:    "/metrics",
		},
	}
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return core.WrapError(core.ErrConfigInvalid,
			fmt.Errorf("port must be between 1 and 65535, got %d", c.Server.Port))
	}

	switch c.Storage.Snapshot.Type {
	case "localfs":
		if c.Storage.Snapshot.Path == "" {
			return core.WrapError(core.ErrConfigMissing,
				fmt.Errorf("snapshot path required for localfs storage"))
		}
	case "s3":
		if c.Storage.Snapshot.S3.Bucket == "" {
			return core.WrapError(core.ErrConfigMissing,
				fmt.Errorf("s3 bucket required for s3 storage"))
		}
	default:
		return core.WrapError(core.ErrConfigInvalid,
			fmt.Errorf("snapshot type must be localfs or s3, got %q", c.Storage.Snapshot.Type))
	}

	return nil
}
