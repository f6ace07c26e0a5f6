package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// fileTemplate is the skeleton written by `taskflow config init`. Values
// left empty here fall back to environment variables at load time.
type fileTemplate struct {
	GitHub struct {
		Token string `yaml:"token"`
		Owner string `yaml:"owner"`
		Repo  string `yaml:"repo"`
	} `yaml:"github"`
	Provider struct {
		Backend string `yaml:"backend"`
		Model   string `yaml:"model"`
		Command string `yaml:"command"`
	} `yaml:"provider"`
	Sync struct {
		Workers int `yaml:"workers"`
	} `yaml:"sync"`
	Kanban struct {
		OutputDir string `yaml:"output_dir"`
	} `yaml:"kanban"`
}

// WriteDefault creates the taskflow directory and writes a starter
// config.yaml. Refuses to overwrite an existing file.
func WriteDefault() (string, error) {
	dir := Dir()
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("creating config dir: %w", err)
	}

	path := filepath.Join(dir, "config.yaml")
	if _, err := os.Stat(path); err == nil {
		return path, fmt.Errorf("config already exists at %s", path)
	}

	var tpl fileTemplate
	tpl.Provider.Backend = "anthropic"
	tpl.Provider.Model = DefaultAnthropicModel
	tpl.Provider.Command = "gemini"
	tpl.Sync.Workers = DefaultSyncWorkers
	tpl.Kanban.OutputDir = filepath.Join(dir, "boards")

	data, err := yaml.Marshal(&tpl)
	if err != nil {
		return "", fmt.Errorf("marshaling default config: %w", err)
	}

	header := []byte("# taskflow configuration.\n" +
		"# Credentials may be left empty and supplied via GITHUB_TOKEN and\n" +
		"# ANTHROPIC_API_KEY, or via TASKFLOW_* environment variables.\n")
	if err := os.WriteFile(path, append(header, data...), 0o600); err != nil {
		return "", fmt.Errorf("writing config: %w", err)
	}
	return path, nil
}
