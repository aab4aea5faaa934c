// Package config provides the configuration schema and loader for the
// Sanovox medical voice agent.
package config

import "github.com/sanovox/sanovox/pkg/recognizer"

// LogLevel controls log verbosity for the Sanovox agent.
type LogLevel string

const (
	LogDebug LogLevel = "debug"
	LogInfo  LogLevel = "info"
	LogWarn  LogLevel = "warn"
	LogError LogLevel = "error"
)

// IsValid reports whether l is a recognised log level.
func (l LogLevel) IsValid() bool {
	switch l {
	case LogDebug, LogInfo, LogWarn, LogError:
		return true
	}
	return false
}

// Config is the root configuration structure for Sanovox.
// It is typically loaded from a YAML file using [Load] or [LoadFromReader].
type Config struct {
	Server     ServerConfig     `yaml:"server"`
	Recognizer RecognizerConfig `yaml:"recognizer"`
	Safety     SafetyConfig     `yaml:"safety"`
}

// ServerConfig holds network and logging settings.
type ServerConfig struct {
	// MetricsAddr is the TCP address the Prometheus /metrics endpoint
	// listens on (e.g., ":9090"). Empty disables the endpoint.
	MetricsAddr string `yaml:"metrics_addr"`

	// LogLevel controls verbosity.
	LogLevel LogLevel `yaml:"log_level"`
}

// RecognizerConfig tunes the lexicon entity recognizer.
type RecognizerConfig struct {
	// PhoneticMatching toggles the phonetic fallback for medication names.
	// Nil means enabled.
	PhoneticMatching *bool `yaml:"phonetic_matching"`

	// PhoneticThreshold is the minimum similarity score for a phonetic
	// medication match, in (0, 1]. Zero means the built-in default.
	PhoneticThreshold float64 `yaml:"phonetic_threshold"`

	// ExtraTerms adds deployment-specific vocabulary to the built-in lexicon.
	ExtraTerms []TermEntry `yaml:"extra_terms"`
}

// TermEntry is one lexicon addition: a surface term and its entity label.
type TermEntry struct {
	// Term is the lowercase surface form (e.g., "atorvastatin").
	Term string `yaml:"term"`

	// Label is the entity label; one of MEDICATION, SYMPTOM, BODY_PART, DATE.
	Label string `yaml:"label"`
}

// SafetyConfig tunes the risk classifier.
type SafetyConfig struct {
	// RequireQuestionContext caps keyword escalation at MEDIUM unless the
	// utterance contains a question cue ("should i", "is it safe", ...).
	// Combination rules are never capped. Off by default: a bare mention of
	// a critical keyword still escalates.
	RequireQuestionContext bool `yaml:"require_question_context"`
}

// Default returns the configuration used when no config file is given:
// info-level logging, metrics disabled, phonetic matching on, no extra
// terms, and the defensive (ungated) safety policy.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			LogLevel: LogInfo,
		},
	}
}

// validLabels mirrors the recognizer's closed label set for validation
// error messages.
var validLabels = []recognizer.Label{
	recognizer.LabelMedication,
	recognizer.LabelSymptom,
	recognizer.LabelBodyPart,
	recognizer.LabelDate,
}
