// Package config handles application configuration management using Viper
package config

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/raykavin/tutor/pkg/core"
	"github.com/raykavin/tutor/pkg/monitor"
	"github.com/raykavin/tutor/pkg/storage"
	"github.com/spf13/viper"
	"github.com/xhit/go-str2duration/v2"
)

const (
	EnvPrefix = "TUTOR"

	DefaultPort        = 8080
	DefaultTitle       = "Training"
	DefaultStoragePath = "./tutor.db"
	DefaultStaleAfter  = "10m"
)

var defaultMetrics = []string{"metric1", "metric2", "metric3", "metric4"}

// AppConfig holds the application configuration
type AppConfig struct {
	Port  int
	Debug bool
	Title string
	// Metrics are drawn one chart each, in order
	Metrics []string
	// Canvases declared by the page; empty means one per metric
	Canvases   []string
	MaxPoints  int
	StaleAfter time.Duration
	// Simulation feeds random samples at this interval when positive
	Simulation time.Duration
	Storage    StorageConfig
	Telegram   core.TelegramSettings
	Fields     []monitor.ConfigField
}

// StorageConfig selects where backups are kept
type StorageConfig struct {
	Driver string
	Path   string
}

// Settings returns the core settings shared with notifiers
func (c *AppConfig) Settings() core.Settings {
	return core.Settings{
		Metrics:  c.Metrics,
		Telegram: c.Telegram,
	}
}

// Load reads the configuration from the environment and, when path is not
// empty, from a yaml file. Environment variables win over the file.
func Load(path string) (*AppConfig, error) {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("port", DefaultPort)
	v.SetDefault("debug", false)
	v.SetDefault("title", DefaultTitle)
	v.SetDefault("metrics", defaultMetrics)
	v.SetDefault("canvases", []string{})
	v.SetDefault("max_points", 0)
	v.SetDefault("stale_after", DefaultStaleAfter)
	v.SetDefault("simulation", "")
	v.SetDefault("storage.driver", storage.DriverBunt)
	v.SetDefault("storage.path", DefaultStoragePath)
	v.SetDefault("telegram.enabled", false)
	v.SetDefault("telegram.token", "")
	v.SetDefault("telegram.users", []string{})

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config %s: %w", path, err)
		}
	}

	staleAfter, err := parseDuration(v.GetString("stale_after"))
	if err != nil {
		return nil, fmt.Errorf("invalid stale_after: %w", err)
	}

	simulation, err := parseDuration(v.GetString("simulation"))
	if err != nil {
		return nil, fmt.Errorf("invalid simulation: %w", err)
	}

	users, err := parseUsers(splitList(v.GetStringSlice("telegram.users")))
	if err != nil {
		return nil, err
	}

	var fields []monitor.ConfigField
	if err := v.UnmarshalKey("fields", &fields); err != nil {
		return nil, fmt.Errorf("invalid fields: %w", err)
	}

	config := &AppConfig{
		Port:       v.GetInt("port"),
		Debug:      v.GetBool("debug"),
		Title:      v.GetString("title"),
		Metrics:    splitList(v.GetStringSlice("metrics")),
		Canvases:   splitList(v.GetStringSlice("canvases")),
		MaxPoints:  v.GetInt("max_points"),
		StaleAfter: staleAfter,
		Simulation: simulation,
		Storage: StorageConfig{
			Driver: v.GetString("storage.driver"),
			Path:   v.GetString("storage.path"),
		},
		Telegram: core.TelegramSettings{
			Enabled: v.GetBool("telegram.enabled"),
			Token:   v.GetString("telegram.token"),
			Users:   users,
		},
		Fields: fields,
	}

	if len(config.Metrics) == 0 {
		return nil, fmt.Errorf("at least one metric is required")
	}
	if config.MaxPoints < 0 {
		return nil, fmt.Errorf("max_points must not be negative, got %d", config.MaxPoints)
	}
	if config.Telegram.Enabled && config.Telegram.Token == "" {
		return nil, fmt.Errorf("telegram is enabled but no token is set")
	}

	return config, nil
}

// parseDuration accepts day and week units ("1d", "2w") besides the time.ParseDuration ones
func parseDuration(value string) (time.Duration, error) {
	if value == "" {
		return 0, nil
	}
	return str2duration.ParseDuration(value)
}

// splitList flattens comma separated entries, as given through env vars
func splitList(values []string) []string {
	out := make([]string, 0, len(values))
	for _, value := range values {
		for _, item := range strings.Split(value, ",") {
			if item = strings.TrimSpace(item); item != "" {
				out = append(out, item)
			}
		}
	}
	return out
}

func parseUsers(values []string) ([]int, error) {
	users := make([]int, 0, len(values))
	for _, value := range values {
		user, err := strconv.Atoi(value)
		if err != nil {
			return nil, fmt.Errorf("invalid telegram user %q: %w", value, err)
		}
		users = append(users, user)
	}
	return users, nil
}
