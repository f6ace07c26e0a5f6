// Package config loads taskflow configuration from file, environment,
// and flags.
//
// Configuration is an explicit value passed into each component's
// constructor. There is deliberately no package-level settings singleton:
// the provider, task store, and issue tracker all receive their
// credentials and endpoints as parameters, which keeps the reconciler
// testable with substituted collaborators.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Defaults.
const (
	DefaultAnthropicModel  = "claude-haiku-4-5-20251001"
	DefaultProviderTimeout = 60 * time.Second
	DefaultTrackerTimeout  = 30 * time.Second
	DefaultSyncWorkers     = 4
)

// Config is the root configuration value.
type Config struct {
	GitHub   GitHubConfig   `mapstructure:"github"`
	Provider ProviderConfig `mapstructure:"provider"`
	Sync     SyncConfig     `mapstructure:"sync"`
	Task     TaskConfig     `mapstructure:"task"`
	Kanban   KanbanConfig   `mapstructure:"kanban"`
}

// GitHubConfig holds issue tracker credentials and target repository.
type GitHubConfig struct {
	Token string `mapstructure:"token"`
	Owner string `mapstructure:"owner"`
	Repo  string `mapstructure:"repo"`
}

// Configured reports whether sync can reach a repository.
func (g GitHubConfig) Configured() bool {
	return g.Token != "" && g.Owner != "" && g.Repo != ""
}

// ProviderConfig selects and parameterizes the text-generation backend.
type ProviderConfig struct {
	// Backend is "anthropic" (hosted API) or "cli" (local subprocess).
	Backend string        `mapstructure:"backend"`
	APIKey  string        `mapstructure:"api_key"`
	Model   string        `mapstructure:"model"`
	Command string        `mapstructure:"command"` // cli backend: binary to run
	Args    []string      `mapstructure:"args"`    // cli backend: leading arguments
	Timeout time.Duration `mapstructure:"timeout"`
}

// SyncConfig controls the task↔issue reconciler.
type SyncConfig struct {
	MappingPath string        `mapstructure:"mapping_path"`
	Workers     int           `mapstructure:"workers"`
	Timeout     time.Duration `mapstructure:"timeout"`
}

// TaskConfig locates the Taskwarrior installation.
type TaskConfig struct {
	Binary  string `mapstructure:"binary"`
	DataDir string `mapstructure:"data_dir"` // watched by sync --watch
}

// KanbanConfig controls board generation.
type KanbanConfig struct {
	OutputDir string `mapstructure:"output_dir"`
}

// Dir returns the taskflow configuration directory (~/.taskflow).
func Dir() string {
	if d := os.Getenv("TASKFLOW_DIR"); d != "" {
		return d
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ".taskflow"
	}
	return filepath.Join(home, ".taskflow")
}

// Load reads config.yaml from the taskflow directory, layered under
// TASKFLOW_* environment variables. A missing config file is not an
// error; defaults plus environment are enough to run offline commands.
func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(Dir())

	v.SetEnvPrefix("TASKFLOW")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	// GITHUB_TOKEN and ANTHROPIC_API_KEY are honored directly so users
	// don't have to duplicate credentials into taskflow's namespace.
	if cfg.GitHub.Token == "" {
		cfg.GitHub.Token = os.Getenv("GITHUB_TOKEN")
	}
	if cfg.Provider.APIKey == "" {
		cfg.Provider.APIKey = os.Getenv("ANTHROPIC_API_KEY")
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("provider.backend", "anthropic")
	v.SetDefault("provider.model", DefaultAnthropicModel)
	v.SetDefault("provider.command", "gemini")
	v.SetDefault("provider.timeout", DefaultProviderTimeout)
	v.SetDefault("sync.mapping_path", filepath.Join(Dir(), "task_github_mapping.json"))
	v.SetDefault("sync.workers", DefaultSyncWorkers)
	v.SetDefault("sync.timeout", DefaultTrackerTimeout)
	v.SetDefault("task.binary", "task")
	v.SetDefault("kanban.output_dir", filepath.Join(Dir(), "boards"))
}
