package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	Database     DatabaseConfig
	Log          LogConfig
	Strings      StringsConfig
	Metrics      MetricsConfig
	UI           UIConfig
	DevDrive     DevDriveConfig `mapstructure:"devdrive"`
	Environments EnvironmentsConfig
	Repositories []RepositoryConfig
}

// DatabaseConfig holds sqlite settings.
type DatabaseConfig struct {
	Path string
}

// LogConfig controls the slog handler. An empty Path logs to stderr.
type LogConfig struct {
	Level  string
	Format string
	Path   string
}

// StringsConfig points at an optional strings override file.
type StringsConfig struct {
	Path string
}

// MetricsConfig enables the prometheus endpoint when Addr is set.
type MetricsConfig struct {
	Addr string
}

type UIConfig struct {
	Accent string
}

type DevDriveConfig struct {
	Enabled bool
	Label   string
	SizeGB  int `mapstructure:"size_gb"`
}

type EnvironmentsConfig struct {
	Providers []string
}

// RepositoryConfig is a repository offered by the clone flow.
type RepositoryConfig struct {
	URL  string
	Path string
}

const envPrefix = "SETUPFLOW"

// Load reads configuration from file and env. path overrides the config file
// location; otherwise SETUPFLOW_CONFIG or ~/.config/setupflow/config.toml is
// used. Env var overrides use prefix SETUPFLOW_.
func Load(path string) (Config, error) {
	v := viper.New()

	// default values
	v.SetDefault("database.path", filepath.Join(os.Getenv("HOME"), ".local", "share", "setupflow", "setupflow.db"))
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
	v.SetDefault("log.path", filepath.Join(os.Getenv("HOME"), ".local", "state", "setupflow", "setupflow.log"))
	v.SetDefault("strings.path", "")
	v.SetDefault("metrics.addr", "")
	v.SetDefault("ui.accent", "12")
	v.SetDefault("devdrive.enabled", false)
	v.SetDefault("devdrive.label", "Dev Drive")
	v.SetDefault("devdrive.size_gb", 50)
	v.SetDefault("environments.providers", []string{"Hyper-V", "Microsoft Dev Box"})

	v.SetConfigType("toml")

	if path == "" {
		path = os.Getenv(envPrefix + "_CONFIG")
	}
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.AddConfigPath(filepath.Join(os.Getenv("HOME"), ".config", "setupflow"))
		v.SetConfigName("config")
	}

	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		// a missing default file is fine, a broken or missing explicit one is not
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	return c, nil
}

// DefaultPath is where Save writes when no path is given.
func DefaultPath() string {
	if p := os.Getenv(envPrefix + "_CONFIG"); p != "" {
		return p
	}
	return filepath.Join(os.Getenv("HOME"), ".config", "setupflow", "config.toml")
}

// Save writes the provided config to path, or DefaultPath when path is
// empty, creating the config directory if needed.
func Save(cfg Config, path string) (string, error) {
	if path == "" {
		path = DefaultPath()
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", fmt.Errorf("mkdir config dir: %w", err)
	}

	v := viper.New()
	v.SetConfigType("toml")
	v.Set("database.path", cfg.Database.Path)
	v.Set("log.level", cfg.Log.Level)
	v.Set("log.format", cfg.Log.Format)
	v.Set("log.path", cfg.Log.Path)
	v.Set("strings.path", cfg.Strings.Path)
	v.Set("metrics.addr", cfg.Metrics.Addr)
	v.Set("ui.accent", cfg.UI.Accent)
	v.Set("devdrive.enabled", cfg.DevDrive.Enabled)
	v.Set("devdrive.label", cfg.DevDrive.Label)
	v.Set("devdrive.size_gb", cfg.DevDrive.SizeGB)
	v.Set("environments.providers", cfg.Environments.Providers)
	repos := make([]map[string]any, 0, len(cfg.Repositories))
	for _, r := range cfg.Repositories {
		repos = append(repos, map[string]any{"url": r.URL, "path": r.Path})
	}
	v.Set("repositories", repos)

	if err := v.WriteConfigAs(path); err != nil {
		return "", fmt.Errorf("write config: %w", err)
	}
	return path, nil
}
