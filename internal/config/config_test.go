package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("TASKFLOW_DIR", t.TempDir())
	t.Setenv("GITHUB_TOKEN", "")
	t.Setenv("ANTHROPIC_API_KEY", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Provider.Backend != "anthropic" {
		t.Errorf("Provider.Backend = %q, want anthropic", cfg.Provider.Backend)
	}
	if cfg.Provider.Model != DefaultAnthropicModel {
		t.Errorf("Provider.Model = %q, want %q", cfg.Provider.Model, DefaultAnthropicModel)
	}
	if cfg.Sync.Workers != DefaultSyncWorkers {
		t.Errorf("Sync.Workers = %d, want %d", cfg.Sync.Workers, DefaultSyncWorkers)
	}
	if cfg.Task.Binary != "task" {
		t.Errorf("Task.Binary = %q, want task", cfg.Task.Binary)
	}
	if cfg.GitHub.Configured() {
		t.Error("GitHub.Configured() = true with no credentials")
	}
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("TASKFLOW_DIR", dir)

	data := []byte("github:\n  token: tok\n  owner: acme\n  repo: web\nsync:\n  workers: 2\n")
	if err := os.WriteFile(filepath.Join(dir, "config.yaml"), data, 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if !cfg.GitHub.Configured() {
		t.Error("GitHub.Configured() = false, want true")
	}
	if cfg.GitHub.Owner != "acme" || cfg.GitHub.Repo != "web" {
		t.Errorf("GitHub = %+v", cfg.GitHub)
	}
	if cfg.Sync.Workers != 2 {
		t.Errorf("Sync.Workers = %d, want 2", cfg.Sync.Workers)
	}
}

func TestEnvCredentialFallback(t *testing.T) {
	t.Setenv("TASKFLOW_DIR", t.TempDir())
	t.Setenv("GITHUB_TOKEN", "env-token")
	t.Setenv("ANTHROPIC_API_KEY", "env-key")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.GitHub.Token != "env-token" {
		t.Errorf("GitHub.Token = %q, want env fallback", cfg.GitHub.Token)
	}
	if cfg.Provider.APIKey != "env-key" {
		t.Errorf("Provider.APIKey = %q, want env fallback", cfg.Provider.APIKey)
	}
}

func TestWriteDefault(t *testing.T) {
	t.Setenv("TASKFLOW_DIR", t.TempDir())

	path, err := WriteDefault()
	if err != nil {
		t.Fatalf("WriteDefault() error = %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("config file not written: %v", err)
	}

	// Second call must refuse to clobber.
	if _, err := WriteDefault(); err == nil {
		t.Error("WriteDefault() overwrote an existing config")
	}
}
