package config

import (
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/sanovox/sanovox/pkg/recognizer"
)

// Load reads the YAML configuration file at path and returns a validated
// [Config]. It is a convenience wrapper around [LoadFromReader].
func Load(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("config: open %q: %w", path, err)
	}
	defer f.Close()

	cfg, err := LoadFromReader(f)
	if err != nil {
		return nil, fmt.Errorf("config: parse %q: %w", path, err)
	}
	return cfg, nil
}

// LoadFromReader decodes a YAML config from r and validates the result.
// Useful in tests where configs are constructed from string literals.
func LoadFromReader(r io.Reader) (*Config, error) {
	cfg := &Config{}
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil {
		return nil, fmt.Errorf("config: decode yaml: %w", err)
	}
	if err := Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks that cfg contains a coherent set of values.
// It returns a joined error listing all validation failures found.
func Validate(cfg *Config) error {
	var errs []error

	if cfg.Server.LogLevel != "" && !cfg.Server.LogLevel.IsValid() {
		errs = append(errs, fmt.Errorf("server.log_level %q is invalid; valid values: debug, info, warn, error", cfg.Server.LogLevel))
	}

	if t := cfg.Recognizer.PhoneticThreshold; t != 0 && (t <= 0 || t > 1) {
		errs = append(errs, fmt.Errorf("recognizer.phonetic_threshold %.2f is out of range (0, 1]", t))
	}

	for i, entry := range cfg.Recognizer.ExtraTerms {
		prefix := fmt.Sprintf("recognizer.extra_terms[%d]", i)
		if entry.Term == "" {
			errs = append(errs, fmt.Errorf("%s.term is required", prefix))
		}
		if !recognizer.Label(entry.Label).IsValid() {
			errs = append(errs, fmt.Errorf("%s.label %q is invalid; valid values: %v", prefix, entry.Label, validLabels))
		}
	}

	return errors.Join(errs...)
}
