package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/ppiankov/cloudshift/internal/billing"
	"gopkg.in/yaml.v3"
)

// Config holds cloudshift configuration loaded from .cloudshift.yaml.
type Config struct {
	Provider   string            `yaml:"provider"`
	Inputs     map[string]string `yaml:"inputs"`
	Format     string            `yaml:"format"`
	MinImpact  float64           `yaml:"min_impact"`
	Addr       string            `yaml:"addr"`
	AWSProfile string            `yaml:"aws_profile"`
	AWSRegion  string            `yaml:"aws_region"`
	Timeout    string            `yaml:"timeout"`
	Exclude    Exclude           `yaml:"exclude"`
}

// Exclude lists billing lines to drop before analysis.
type Exclude struct {
	Services []string `yaml:"services"`
}

// Matches reports whether service is excluded. Entries compare
// case-insensitively; a trailing "*" matches by prefix.
func (e Exclude) Matches(service string) bool {
	s := strings.ToLower(strings.TrimSpace(service))
	for _, pattern := range e.Services {
		p := strings.ToLower(strings.TrimSpace(pattern))
		if prefix, ok := strings.CutSuffix(p, "*"); ok {
			if strings.HasPrefix(s, prefix) {
				return true
			}
			continue
		}
		if p == s {
			return true
		}
	}
	return false
}

// ProviderInputs returns the configured input location per provider, in
// provider order. Unknown provider keys are reported as an error.
func (c Config) ProviderInputs() (map[billing.Provider]string, error) {
	out := make(map[billing.Provider]string, len(c.Inputs))
	keys := make([]string, 0, len(c.Inputs))
	for k := range c.Inputs {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		p, err := billing.ParseProvider(k)
		if err != nil {
			return nil, fmt.Errorf("config inputs: %w", err)
		}
		if loc := strings.TrimSpace(c.Inputs[k]); loc != "" {
			out[p] = loc
		}
	}
	return out, nil
}

// TimeoutDuration parses the timeout string as a duration.
func (c Config) TimeoutDuration() time.Duration {
	if c.Timeout == "" {
		return 0
	}
	d, _ := time.ParseDuration(c.Timeout)
	return d
}

// Load searches for .cloudshift.yaml or .cloudshift.yml in the given directory
// and returns the parsed config. Returns an empty Config if no file is found.
func Load(dir string) (Config, error) {
	candidates := []string{
		filepath.Join(dir, ".cloudshift.yaml"),
		filepath.Join(dir, ".cloudshift.yml"),
	}

	for _, path := range candidates {
		data, err := os.ReadFile(path)
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return Config{}, fmt.Errorf("read config %s: %w", path, err)
		}

		var cfg Config
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config %s: %w", path, err)
		}
		return cfg, nil
	}

	return Config{}, nil
}
