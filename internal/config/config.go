package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// DefaultAllowedOrigins are the local frontend dev servers.
var DefaultAllowedOrigins = []string{"http://localhost:5173", "http://127.0.0.1:5173"}

// Global configuration structure.
type Global struct {
	ListenAddr     string   `mapstructure:"listen_addr" yaml:"listen_addr"`
	MaxUploadMB    int      `mapstructure:"max_upload_mb" yaml:"max_upload_mb"`
	AllowedOrigins []string `mapstructure:"allowed_origins" yaml:"allowed_origins"`

	// HTTP server timeouts
	ReadTimeoutSec  int `mapstructure:"read_timeout_sec" yaml:"read_timeout_sec"`
	WriteTimeoutSec int `mapstructure:"write_timeout_sec" yaml:"write_timeout_sec"`
	IdleTimeoutSec  int `mapstructure:"idle_timeout_sec" yaml:"idle_timeout_sec"`
}

// MaxUploadBytes is the request body limit for uploads.
func (c *Global) MaxUploadBytes() int64 { return int64(c.MaxUploadMB) << 20 }

func (c *Global) ReadTimeout() time.Duration  { return time.Duration(c.ReadTimeoutSec) * time.Second }
func (c *Global) WriteTimeout() time.Duration { return time.Duration(c.WriteTimeoutSec) * time.Second }
func (c *Global) IdleTimeout() time.Duration  { return time.Duration(c.IdleTimeoutSec) * time.Second }

// Defaults returns the built-in configuration.
func Defaults() *Global {
	return &Global{
		ListenAddr:      ":8000",
		MaxUploadMB:     32,
		AllowedOrigins:  append([]string(nil), DefaultAllowedOrigins...),
		ReadTimeoutSec:  15,
		WriteTimeoutSec: 30,
		IdleTimeoutSec:  60,
	}
}

// DefaultPath returns ~/.datalens/config.yaml.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home dir: %w", err)
	}
	return filepath.Join(home, ".datalens", "config.yaml"), nil
}

// Save writes the given configuration to the cfgFile path. If cfgFile is empty,
// it writes to ~/.datalens/config.yaml, creating the directory if necessary.
func Save(c *Global, cfgFile string) error {
	path := cfgFile
	if path == "" {
		p, err := DefaultPath()
		if err != nil {
			return err
		}
		path = p
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("mkdir config dir: %w", err)
	}
	b, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal yaml: %w", err)
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// Load loads configuration from file, env, and defaults.
// Precedence: env > config file > defaults. A missing config file is not an error.
func Load(cfgFile string) (*Global, error) {
	v := viper.New()
	v.SetEnvPrefix("DATALENS")
	v.AutomaticEnv()

	d := Defaults()
	v.SetDefault("listen_addr", d.ListenAddr)
	v.SetDefault("max_upload_mb", d.MaxUploadMB)
	v.SetDefault("allowed_origins", d.AllowedOrigins)
	v.SetDefault("read_timeout_sec", d.ReadTimeoutSec)
	v.SetDefault("write_timeout_sec", d.WriteTimeoutSec)
	v.SetDefault("idle_timeout_sec", d.IdleTimeoutSec)

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("resolve home dir: %w", err)
		}
		v.AddConfigPath(filepath.Join(home, ".datalens"))
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var c Global
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if c.MaxUploadMB <= 0 {
		return nil, fmt.Errorf("max_upload_mb must be positive, got %d", c.MaxUploadMB)
	}
	return &c, nil
}
