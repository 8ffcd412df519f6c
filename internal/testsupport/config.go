package testsupport

import (
	"path/filepath"
	"testing"

	"prodid/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*config.Config)

// NewConfig produces a config seeded with unique temp directories per test.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfg := config.Default()
	cfg.Paths.DataDir = filepath.Join(base, "data")
	cfg.Paths.LogDir = filepath.Join(base, "logs")
	cfg.Paths.APIBind = "127.0.0.1:0"
	cfg.LLM.APIKey = "test"

	for _, opt := range opts {
		opt(&cfg)
	}
	return &cfg
}

// WithClarificationThreshold overrides the acceptance threshold.
func WithClarificationThreshold(threshold float64) ConfigOption {
	return func(cfg *config.Config) {
		cfg.Identify.ClarificationThreshold = threshold
	}
}

// WithLearnMinConfidence overrides the learned-store confidence floor.
func WithLearnMinConfidence(confidence float64) ConfigOption {
	return func(cfg *config.Config) {
		cfg.Identify.LearnMinConfidence = confidence
	}
}

// WithKnowledgeVerbosity overrides the enrichment verbosity.
func WithKnowledgeVerbosity(verbosity string) ConfigOption {
	return func(cfg *config.Config) {
		cfg.Knowledge.Verbosity = verbosity
	}
}
