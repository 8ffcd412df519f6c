package config

const (
	defaultDataDir                = "~/.local/share/prodid"
	defaultLogDir                 = "~/.local/share/prodid/logs"
	defaultAPIBind                = "127.0.0.1:7519"
	defaultLLMBaseURL             = "https://openrouter.ai/api/v1/chat/completions"
	defaultLLMModel               = "google/gemini-3-flash-preview"
	defaultLLMVisionModel         = "google/gemini-3-flash-preview"
	defaultLLMReferer             = "https://github.com/prodid/prodid"
	defaultLLMTitle               = "Prodid Identifier"
	defaultLLMTimeoutSeconds      = 60
	defaultClarificationThreshold = 0.85
	defaultLearnMinConfidence     = 0.75
	defaultMaxQuestionsPerItem    = 2
	defaultMaxCandidates          = 5
	defaultKnowledgeVerbosity     = "standard"
	defaultLogFormat              = "console"
	defaultLogLevel               = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			DataDir: defaultDataDir,
			LogDir:  defaultLogDir,
			APIBind: defaultAPIBind,
		},
		LLM: LLM{
			BaseURL:        defaultLLMBaseURL,
			Model:          defaultLLMModel,
			VisionModel:    defaultLLMVisionModel,
			Referer:        defaultLLMReferer,
			Title:          defaultLLMTitle,
			TimeoutSeconds: defaultLLMTimeoutSeconds,
		},
		Identify: Identify{
			ClarificationThreshold: defaultClarificationThreshold,
			LearnMinConfidence:     defaultLearnMinConfidence,
			MaxQuestionsPerItem:    defaultMaxQuestionsPerItem,
			MaxCandidates:          defaultMaxCandidates,
		},
		Knowledge: Knowledge{
			Verbosity: defaultKnowledgeVerbosity,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
