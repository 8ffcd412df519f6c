package config

import (
	"fmt"
	"strings"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateIdentify(); err != nil {
		return err
	}
	if err := c.validateKnowledge(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateIdentify() error {
	if c.Identify.ClarificationThreshold <= 0 || c.Identify.ClarificationThreshold > 1 {
		return fmt.Errorf("identify.clarification_threshold must be in (0, 1], got %v", c.Identify.ClarificationThreshold)
	}
	if c.Identify.LearnMinConfidence <= 0 || c.Identify.LearnMinConfidence > 1 {
		return fmt.Errorf("identify.learn_min_confidence must be in (0, 1], got %v", c.Identify.LearnMinConfidence)
	}
	if c.Identify.MaxQuestionsPerItem < 1 || c.Identify.MaxQuestionsPerItem > 2 {
		return fmt.Errorf("identify.max_questions_per_item must be 1 or 2, got %d", c.Identify.MaxQuestionsPerItem)
	}
	if c.Identify.MaxCandidates < 1 {
		return fmt.Errorf("identify.max_candidates must be positive, got %d", c.Identify.MaxCandidates)
	}
	return nil
}

func (c *Config) validateKnowledge() error {
	switch c.Knowledge.Verbosity {
	case "minimal", "standard", "detailed":
		return nil
	default:
		return fmt.Errorf("knowledge.verbosity must be minimal, standard, or detailed, got %q", c.Knowledge.Verbosity)
	}
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format must be console or json, got %q", c.Logging.Format)
	}
	switch strings.ToLower(c.Logging.Level) {
	case "debug", "info", "warn", "error":
		return nil
	default:
		return fmt.Errorf("logging.level must be debug, info, warn, or error, got %q", c.Logging.Level)
	}
}
