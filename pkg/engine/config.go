// Package engine loads provider configuration from YAML and constructs
// adapters from it.
package engine

import (
	"fmt"
	"os"
	"time"

	"github.com/benswift/langchain/pkg/providers/replicate"
	"gopkg.in/yaml.v3"
)

// Config is the top-level configuration.
type Config struct {
	Providers       []ProviderConfig `yaml:"providers"`
	DefaultProvider string           `yaml:"default_provider"`
}

// ProviderConfig describes one Replicate model instance.
type ProviderConfig struct {
	Name     string `yaml:"name"`
	APIToken string `yaml:"api_token"` //nolint:gosec // configuration field, not a hardcoded secret
	BaseURL  string `yaml:"base_url"`
	Model    string `yaml:"model"`
	Version  string `yaml:"version"`

	Temperature float64 `yaml:"temperature"`
	TopP        float64 `yaml:"top_p"`
	TopK        int     `yaml:"top_k"`
	Stream      bool    `yaml:"stream"`

	ReceiveTimeout  string `yaml:"receive_timeout"`   // Duration string (e.g. "60s").
	PollInterval    string `yaml:"poll_interval"`     // Duration string (e.g. "500ms").
	MaxPollDuration string `yaml:"max_poll_duration"` // Duration string (e.g. "10m").
}

// LoadConfig reads a YAML file and returns a Config.
// Environment variables referenced as ${VAR} or $VAR in the YAML are expanded
// before parsing. This allows API tokens to be kept in environment variables
// (e.g. loaded from a .env file) rather than committed in the config.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path) //nolint:gosec // path is caller-provided configuration, not user input
	if err != nil {
		return Config{}, fmt.Errorf("engine: load config: %w", err)
	}

	expanded := os.ExpandEnv(string(data))

	var cfg Config
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return Config{}, fmt.Errorf("engine: parse config: %w", err)
	}

	return cfg, nil
}

// Validate checks that the configuration is internally consistent.
func (c Config) Validate() error {
	if len(c.Providers) == 0 {
		return fmt.Errorf("engine: config: at least one provider is required")
	}

	names := make(map[string]struct{}, len(c.Providers))
	for _, p := range c.Providers {
		if p.Name == "" {
			return fmt.Errorf("engine: config: provider name is required")
		}
		if p.Model == "" {
			return fmt.Errorf("engine: config: provider %q: model is required", p.Name)
		}
		if _, dup := names[p.Name]; dup {
			return fmt.Errorf("engine: config: duplicate provider name %q", p.Name)
		}
		names[p.Name] = struct{}{}
	}

	if c.DefaultProvider != "" {
		if _, ok := names[c.DefaultProvider]; !ok {
			return fmt.Errorf("engine: config: default_provider %q not found in providers", c.DefaultProvider)
		}
	}

	return nil
}

// Provider returns the named provider entry. An empty name selects the
// default provider, or the first entry when no default is configured.
func (c Config) Provider(name string) (ProviderConfig, bool) {
	if name == "" {
		name = c.DefaultProvider
	}
	if name == "" && len(c.Providers) > 0 {
		return c.Providers[0], true
	}

	for _, p := range c.Providers {
		if p.Name == name {
			return p, true
		}
	}

	return ProviderConfig{}, false
}

// BuildAdapter constructs a replicate.Adapter from a provider entry.
func BuildAdapter(p ProviderConfig) (*replicate.Adapter, error) {
	receiveTimeout, err := parseDuration("receive_timeout", p.ReceiveTimeout)
	if err != nil {
		return nil, err
	}

	pollInterval, err := parseDuration("poll_interval", p.PollInterval)
	if err != nil {
		return nil, err
	}

	maxPollDuration, err := parseDuration("max_poll_duration", p.MaxPollDuration)
	if err != nil {
		return nil, err
	}

	return replicate.New(replicate.Options{
		BaseURL:         p.BaseURL,
		APIToken:        p.APIToken,
		Model:           p.Model,
		Version:         p.Version,
		Temperature:     p.Temperature,
		TopP:            p.TopP,
		TopK:            p.TopK,
		Stream:          p.Stream,
		ReceiveTimeout:  receiveTimeout,
		PollInterval:    pollInterval,
		MaxPollDuration: maxPollDuration,
	})
}

func parseDuration(field, val string) (time.Duration, error) {
	if val == "" {
		return 0, nil
	}

	d, err := time.ParseDuration(val)
	if err != nil {
		return 0, fmt.Errorf("engine: config: %s: %w", field, err)
	}

	return d, nil
}
