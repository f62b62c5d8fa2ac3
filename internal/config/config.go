// Package config loads the redpen configuration file and applies environment
// overrides.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/redpen-dev/redpen/internal/provider"
	"github.com/redpen-dev/redpen/internal/store"
)

// Config is the full application configuration.
type Config struct {
	// Listen is the HTTP server address, e.g. ":8787".
	Listen string `yaml:"listen"`

	// DBPath overrides the default ~/.redpen/redpen.db location.
	DBPath string `yaml:"db_path"`

	// DraftsDir, when set, is watched for .txt/.md files to import as drafts.
	DraftsDir string `yaml:"drafts_dir"`

	Provider ProviderConfig `yaml:"provider"`
}

// ProviderConfig configures the chat-completions backend.
type ProviderConfig struct {
	BaseURL        string        `yaml:"base_url"`
	APIKey         string        `yaml:"api_key"`
	Model          string        `yaml:"model"`
	EmbeddingModel string        `yaml:"embedding_model"`
	Timeout        time.Duration `yaml:"timeout"`
}

// Default returns the built-in configuration.
func Default() Config {
	p := provider.DefaultConfig()
	return Config{
		Listen: ":8787",
		Provider: ProviderConfig{
			BaseURL:        p.BaseURL,
			Model:          p.Model,
			EmbeddingModel: p.EmbeddingModel,
			Timeout:        p.Timeout,
		},
	}
}

// DefaultPath returns the default config file location inside the data
// directory.
func DefaultPath() (string, error) {
	dir, err := store.DataDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.yaml"), nil
}

// Load reads the config file at path, falling back to defaults for unset
// fields. A missing file is not an error; the defaults are returned. The
// DEEPSEEK_API_KEY environment variable overrides the configured API key.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err == nil {
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parsing config %s: %w", path, err)
		}
	} else if !os.IsNotExist(err) {
		return Config{}, fmt.Errorf("reading config %s: %w", path, err)
	}

	if key := os.Getenv("DEEPSEEK_API_KEY"); key != "" {
		cfg.Provider.APIKey = key
	}
	return cfg, nil
}

// ProviderClientConfig converts the provider section into the client's
// config type.
func (c Config) ProviderClientConfig() provider.Config {
	return provider.Config{
		BaseURL:        c.Provider.BaseURL,
		APIKey:         c.Provider.APIKey,
		Model:          c.Provider.Model,
		EmbeddingModel: c.Provider.EmbeddingModel,
		Timeout:        c.Provider.Timeout,
	}
}
