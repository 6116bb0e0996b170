// Package config loads settings for the docassist CLI.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/Lllllllleong/documentassistant/internal/models"
)

// EnvPrefix is prepended to every environment variable the CLI reads,
// e.g. DOCASSIST_SUMMARIZE_URL.
const EnvPrefix = "DOCASSIST"

// Keys shared between viper and the cobra flags bound to them.
const (
	KeySummarizeURL    = "summarize_url"
	KeyTasksURL        = "tasks_url"
	KeyHealthURL       = "health_url"
	KeyPriority        = "priority"
	KeyDepartment      = "department"
	KeyAutoCreateTasks = "auto_create_tasks"
	KeyTimeout         = "timeout"
)

// Config holds the endpoints of the deployed functions and the default
// processing options.
type Config struct {
	SummarizeURL    string
	TasksURL        string
	HealthURL       string
	Priority        models.Priority
	Department      string
	AutoCreateTasks bool
	Timeout         time.Duration
}

// New returns a viper instance with defaults, env binding and the config
// file search path set up. configFile overrides the search when non-empty.
func New(configFile string) *viper.Viper {
	v := viper.New()
	v.SetDefault(KeySummarizeURL, "http://localhost:8080")
	v.SetDefault(KeyTasksURL, "http://localhost:8081")
	v.SetDefault(KeyHealthURL, "http://localhost:8082")
	v.SetDefault(KeyPriority, string(models.PriorityMedium))
	v.SetDefault(KeyDepartment, "")
	v.SetDefault(KeyAutoCreateTasks, true)
	v.SetDefault(KeyTimeout, 2*time.Minute)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	v.AutomaticEnv()

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName(".docassist")
		v.SetConfigType("yaml")
		v.AddConfigPath("$HOME")
		v.AddConfigPath(".")
	}
	return v
}

// Load reads the config file, if any, and resolves the final settings.
// A missing file in the default search path is not an error.
func Load(v *viper.Viper) (*Config, error) {
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}

	priority, err := models.ParsePriority(v.GetString(KeyPriority))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", KeyPriority, err)
	}
	timeout := v.GetDuration(KeyTimeout)
	if timeout <= 0 {
		return nil, fmt.Errorf("%s must be positive, got %q", KeyTimeout, v.GetString(KeyTimeout))
	}

	cfg := &Config{
		SummarizeURL:    strings.TrimSpace(v.GetString(KeySummarizeURL)),
		TasksURL:        strings.TrimSpace(v.GetString(KeyTasksURL)),
		HealthURL:       strings.TrimSpace(v.GetString(KeyHealthURL)),
		Priority:        priority,
		Department:      strings.TrimSpace(v.GetString(KeyDepartment)),
		AutoCreateTasks: v.GetBool(KeyAutoCreateTasks),
		Timeout:         timeout,
	}
	for key, val := range map[string]string{
		KeySummarizeURL: cfg.SummarizeURL,
		KeyTasksURL:     cfg.TasksURL,
		KeyHealthURL:    cfg.HealthURL,
	} {
		if val == "" {
			return nil, fmt.Errorf("%s must not be empty", key)
		}
	}
	return cfg, nil
}
