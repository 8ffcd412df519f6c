package config

import (
	"fmt"
	"strings"
)

func (c *Config) normalize() error {
	var err error
	if strings.TrimSpace(c.Paths.DataDir) == "" {
		c.Paths.DataDir = defaultDataDir
	}
	if c.Paths.DataDir, err = expandPath(c.Paths.DataDir); err != nil {
		return fmt.Errorf("paths.data_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		c.Paths.LogDir = defaultLogDir
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	c.Paths.APIBind = strings.TrimSpace(c.Paths.APIBind)
	c.Paths.APIToken = strings.TrimSpace(c.Paths.APIToken)

	c.normalizeLLM()
	c.normalizeIdentify()
	c.normalizeKnowledge()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizeLLM() {
	c.LLM.APIKey = strings.TrimSpace(c.LLM.APIKey)
	c.LLM.BaseURL = strings.TrimSpace(c.LLM.BaseURL)
	if c.LLM.BaseURL == "" {
		c.LLM.BaseURL = defaultLLMBaseURL
	}
	c.LLM.Model = strings.TrimSpace(c.LLM.Model)
	if c.LLM.Model == "" {
		c.LLM.Model = defaultLLMModel
	}
	c.LLM.VisionModel = strings.TrimSpace(c.LLM.VisionModel)
	if c.LLM.VisionModel == "" {
		c.LLM.VisionModel = c.LLM.Model
	}
	if c.LLM.TimeoutSeconds <= 0 {
		c.LLM.TimeoutSeconds = defaultLLMTimeoutSeconds
	}
}

func (c *Config) normalizeIdentify() {
	if c.Identify.ClarificationThreshold <= 0 {
		c.Identify.ClarificationThreshold = defaultClarificationThreshold
	}
	if c.Identify.LearnMinConfidence <= 0 {
		c.Identify.LearnMinConfidence = defaultLearnMinConfidence
	}
	if c.Identify.MaxQuestionsPerItem <= 0 {
		c.Identify.MaxQuestionsPerItem = defaultMaxQuestionsPerItem
	}
	if c.Identify.MaxCandidates <= 0 {
		c.Identify.MaxCandidates = defaultMaxCandidates
	}
}

func (c *Config) normalizeKnowledge() {
	c.Knowledge.Verbosity = strings.ToLower(strings.TrimSpace(c.Knowledge.Verbosity))
	if c.Knowledge.Verbosity == "" {
		c.Knowledge.Verbosity = defaultKnowledgeVerbosity
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
