package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains directory and bind address configuration.
type Paths struct {
	DataDir  string `toml:"data_dir"`
	LogDir   string `toml:"log_dir"`
	APIBind  string `toml:"api_bind"`
	APIToken string `toml:"api_token"`
}

// LLM contains connection settings for the chat-completions provider.
type LLM struct {
	APIKey         string `toml:"api_key"`
	BaseURL        string `toml:"base_url"`
	Model          string `toml:"model"`
	VisionModel    string `toml:"vision_model"`
	Referer        string `toml:"referer"`
	Title          string `toml:"title"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
}

// Identify contains thresholds governing clarification and learning.
type Identify struct {
	// ClarificationThreshold is the confidence below which an unanswered item
	// receives clarification questions. Default: 0.85
	ClarificationThreshold float64 `toml:"clarification_threshold"`
	// LearnMinConfidence is the minimum confidence for an uncorrected commit to
	// enter the learned store. Default: 0.75
	LearnMinConfidence float64 `toml:"learn_min_confidence"`
	// MaxQuestionsPerItem caps clarification questions in a single round. Default: 2
	MaxQuestionsPerItem int `toml:"max_questions_per_item"`
	// MaxCandidates caps how many ranked candidates the identifier returns. Default: 5
	MaxCandidates int `toml:"max_candidates"`
}

// Knowledge contains brand knowledge rendering options.
type Knowledge struct {
	// Verbosity controls enrichment detail: minimal, standard, or detailed.
	Verbosity string `toml:"verbosity"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Config encapsulates all configuration values for prodid.
//
// Configuration sections by subsystem:
//   - Paths: data/log directories and API bind address
//   - LLM: chat-completions connection shared by text and vision identification
//   - Identify: clarification and learning thresholds
//   - Knowledge: brand knowledge verbosity
//   - Logging: log format and level
type Config struct {
	Paths     Paths     `toml:"paths"`
	LLM       LLM       `toml:"llm"`
	Identify  Identify  `toml:"identify"`
	Knowledge Knowledge `toml:"knowledge"`
	Logging   Logging   `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/prodid/config.toml")
}

// Load locates, parses, and validates a configuration file. The returned config
// has all path fields expanded and normalized. Secrets may also arrive via the
// environment (PRODID_LLM_API_KEY or OPENROUTER_API_KEY), optionally sourced
// from a .env file in the working directory.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	applyEnvironment(&cfg)

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func applyEnvironment(cfg *Config) {
	// Best effort: a missing .env file is not an error.
	_ = godotenv.Load()

	if strings.TrimSpace(cfg.LLM.APIKey) == "" {
		if key := os.Getenv("PRODID_LLM_API_KEY"); key != "" {
			cfg.LLM.APIKey = key
		} else if key := os.Getenv("OPENROUTER_API_KEY"); key != "" {
			cfg.LLM.APIKey = key
		}
	}
	if strings.TrimSpace(cfg.Paths.APIToken) == "" {
		cfg.Paths.APIToken = os.Getenv("PRODID_API_TOKEN")
	}
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		if _, err := os.Stat(expanded); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("prodid.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}
	return defaultPath, false, nil
}

// EnsureDirectories creates the data and log directories if they do not exist.
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.Paths.DataDir, c.Paths.LogDir} {
		if strings.TrimSpace(dir) == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %s: %w", dir, err)
		}
	}
	return nil
}

// WriteSample writes the embedded sample configuration to the supplied path.
func WriteSample(path string) error {
	expanded, err := expandPath(path)
	if err != nil {
		return err
	}
	if _, err := os.Stat(expanded); err == nil {
		return fmt.Errorf("config already exists at %s", expanded)
	}
	if err := os.MkdirAll(filepath.Dir(expanded), 0o755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}
	return os.WriteFile(expanded, []byte(sampleConfig), 0o644)
}

// DataDir returns the expanded data directory.
func (c *Config) DataDir() string { return c.Paths.DataDir }

// LogDir returns the expanded log directory.
func (c *Config) LogDir() string { return c.Paths.LogDir }

// LogLevel returns the configured log level.
func (c *Config) LogLevel() string { return c.Logging.Level }

// LogFormat returns the configured log format.
func (c *Config) LogFormat() string { return c.Logging.Format }

func expandPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", nil
	}
	if trimmed == "~" || strings.HasPrefix(trimmed, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if trimmed == "~" {
			return home, nil
		}
		return filepath.Join(home, trimmed[2:]), nil
	}
	return filepath.Abs(trimmed)
}
