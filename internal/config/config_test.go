package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"prodid/internal/config"
)

func TestDefaults(t *testing.T) {
	cfg := config.Default()
	if cfg.Identify.ClarificationThreshold != 0.85 {
		t.Fatalf("clarification threshold = %v, want 0.85", cfg.Identify.ClarificationThreshold)
	}
	if cfg.Identify.LearnMinConfidence != 0.75 {
		t.Fatalf("learn min confidence = %v, want 0.75", cfg.Identify.LearnMinConfidence)
	}
	if cfg.Identify.MaxQuestionsPerItem != 2 {
		t.Fatalf("max questions = %d, want 2", cfg.Identify.MaxQuestionsPerItem)
	}
	if cfg.Identify.MaxCandidates != 5 {
		t.Fatalf("max candidates = %d, want 5", cfg.Identify.MaxCandidates)
	}
	if cfg.Knowledge.Verbosity != "standard" {
		t.Fatalf("verbosity = %q, want standard", cfg.Knowledge.Verbosity)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("defaults do not validate: %v", err)
	}
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing.toml")
	cfg, resolved, exists, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if exists {
		t.Fatal("reported a missing file as existing")
	}
	if resolved != path {
		t.Fatalf("resolved path = %q, want %q", resolved, path)
	}
	if cfg.Identify.ClarificationThreshold != 0.85 {
		t.Fatalf("threshold = %v, want default", cfg.Identify.ClarificationThreshold)
	}
}

func TestLoadParsesAndNormalizes(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	content := `
[paths]
data_dir = "` + dir + `/data"

[identify]
clarification_threshold = 0.9
max_candidates = 3

[knowledge]
verbosity = "Detailed"

[logging]
format = "JSON"
level = "DEBUG"
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, _, exists, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if !exists {
		t.Fatal("existing file not detected")
	}
	if cfg.Identify.ClarificationThreshold != 0.9 {
		t.Fatalf("threshold = %v, want 0.9", cfg.Identify.ClarificationThreshold)
	}
	if cfg.Identify.MaxCandidates != 3 {
		t.Fatalf("max candidates = %d, want 3", cfg.Identify.MaxCandidates)
	}
	// Unset fields fall back to defaults.
	if cfg.Identify.MaxQuestionsPerItem != 2 {
		t.Fatalf("max questions = %d, want default 2", cfg.Identify.MaxQuestionsPerItem)
	}
	// Casing is normalized before validation.
	if cfg.Knowledge.Verbosity != "detailed" {
		t.Fatalf("verbosity = %q, want detailed", cfg.Knowledge.Verbosity)
	}
	if cfg.Logging.Format != "json" || cfg.Logging.Level != "debug" {
		t.Fatalf("logging = %q/%q, want json/debug", cfg.Logging.Format, cfg.Logging.Level)
	}
	if cfg.DataDir() != filepath.Join(dir, "data") {
		t.Fatalf("data dir = %q", cfg.DataDir())
	}
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	cases := []struct {
		name    string
		content string
	}{
		{"threshold above one", "[identify]\nclarification_threshold = 1.5\n"},
		{"too many questions", "[identify]\nmax_questions_per_item = 3\n"},
		{"unknown verbosity", "[knowledge]\nverbosity = \"chatty\"\n"},
		{"unknown log format", "[logging]\nformat = \"xml\"\n"},
		{"unknown log level", "[logging]\nlevel = \"trace\"\n"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.toml")
			if err := os.WriteFile(path, []byte(tc.content), 0o644); err != nil {
				t.Fatalf("write config: %v", err)
			}
			if _, _, _, err := config.Load(path); err == nil {
				t.Fatal("expected validation error")
			}
		})
	}
}

func TestAPIKeyFromEnvironment(t *testing.T) {
	t.Setenv("PRODID_LLM_API_KEY", "env-key")
	path := filepath.Join(t.TempDir(), "missing.toml")
	cfg, _, _, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.LLM.APIKey != "env-key" {
		t.Fatalf("api key = %q, want env-key", cfg.LLM.APIKey)
	}
}

func TestWriteSample(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.toml")
	if err := config.WriteSample(path); err != nil {
		t.Fatalf("WriteSample failed: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read sample: %v", err)
	}
	if !strings.Contains(string(data), "clarification_threshold") {
		t.Fatal("sample missing identify section")
	}
	if err := config.WriteSample(path); err == nil {
		t.Fatal("expected error overwriting existing config")
	}

	// The sample itself must load cleanly.
	if _, _, _, err := config.Load(path); err != nil {
		t.Fatalf("sample config does not load: %v", err)
	}
}

func TestEnsureDirectories(t *testing.T) {
	dir := t.TempDir()
	cfg := config.Default()
	cfg.Paths.DataDir = filepath.Join(dir, "data")
	cfg.Paths.LogDir = filepath.Join(dir, "logs")
	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("EnsureDirectories failed: %v", err)
	}
	for _, p := range []string{cfg.Paths.DataDir, cfg.Paths.LogDir} {
		info, err := os.Stat(p)
		if err != nil || !info.IsDir() {
			t.Fatalf("directory %s not created: %v", p, err)
		}
	}
}
