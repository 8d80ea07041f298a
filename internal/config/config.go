package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config is the top-level studywatch configuration.
type Config struct {
	DBPath                string  `mapstructure:"db_path"`
	DefaultRange          string  `mapstructure:"default_range"`
	Premium               bool    `mapstructure:"premium"`
	DisplayCeilingMinutes float64 `mapstructure:"display_ceiling_minutes"`
	Output                Output  `mapstructure:"output"`
	Watch                 Watch   `mapstructure:"watch"`
}

// Output defines output preferences.
type Output struct {
	Color bool `mapstructure:"color"`
	Width int  `mapstructure:"width"`
}

// Watch configures the background watcher.
type Watch struct {
	Interval time.Duration `mapstructure:"interval"`
	Notify   bool          `mapstructure:"notify"`
}

// expandPath replaces a leading ~ with the user's home directory.
func expandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, path[2:])
	}
	return path
}

// envFiles lists the .env locations checked, first match wins.
func envFiles() []string {
	var paths []string
	if cwd, err := os.Getwd(); err == nil {
		paths = append(paths, filepath.Join(cwd, ".env"))
	}
	paths = append(paths, filepath.Join(ConfigDir(), ".env"))
	return paths
}

// Load reads configuration from the given path (or the default location),
// applies STUDYWATCH_* environment overrides (including those from an
// optional .env file) and returns a Config with all defaults applied.
func Load(cfgFile string) (*Config, error) {
	for _, path := range envFiles() {
		if _, err := os.Stat(path); err == nil {
			_ = godotenv.Load(path)
			break
		}
	}

	v := viper.New()

	v.SetDefault("db_path", DBPath())
	v.SetDefault("default_range", DefaultRange)
	v.SetDefault("premium", false)
	v.SetDefault("display_ceiling_minutes", DefaultDisplayCeilingMinutes)
	v.SetDefault("output.color", DefaultOutput.Color)
	v.SetDefault("output.width", DefaultOutput.Width)
	v.SetDefault("watch.interval", DefaultWatch.Interval)
	v.SetDefault("watch.notify", DefaultWatch.Notify)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if cfgFile != "" {
		v.SetConfigFile(expandPath(cfgFile))
	} else {
		v.AddConfigPath(ConfigDir())
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}

	// Missing config file is not an error.
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}

	switch cfg.DefaultRange {
	case "week", "month", "all":
	default:
		return nil, fmt.Errorf("invalid default_range %q (want week, month or all)", cfg.DefaultRange)
	}
	if cfg.Watch.Interval <= 0 {
		cfg.Watch.Interval = DefaultWatch.Interval
	}
	cfg.DBPath = expandPath(cfg.DBPath)

	return &cfg, nil
}

// DBPath returns the default full path to the SQLite database.
func DBPath() string {
	return filepath.Join(ConfigDir(), DefaultDBName)
}

// ConfigDir returns the expanded configuration directory.
func ConfigDir() string {
	return expandPath(DefaultConfigDir)
}
