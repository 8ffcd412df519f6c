package main

import (
	"strings"
	"sync"

	"log/slog"

	"prodid/internal/api"
	"prodid/internal/clarify"
	"prodid/internal/config"
	"prodid/internal/identify"
	"prodid/internal/knowledge"
	"prodid/internal/learned"
	"prodid/internal/logging"
	"prodid/internal/pipeline"
	"prodid/internal/services/llm"
)

type commandContext struct {
	configFlag *string

	configOnce sync.Once
	config     *config.Config
	configErr  error
}

func newCommandContext(configFlag *string) *commandContext {
	return &commandContext{configFlag: configFlag}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, _, _, err := config.Load(path)
		if err != nil {
			c.configErr = err
			return
		}
		if err := cfg.EnsureDirectories(); err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
	})
	return c.config, c.configErr
}

// runtime bundles the wired collaborators a command needs. The store is nil
// when opening it fails; identification still works without the feedback
// loop.
type runtime struct {
	cfg        *config.Config
	logger     *slog.Logger
	runner     *pipeline.Runner
	service    *api.Service
	identifier *identify.Identifier
	store      *learned.Store
}

func (c *commandContext) buildRuntime(console bool) (*runtime, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}

	logOpts := logging.Options{
		Level:  cfg.LogLevel(),
		Format: cfg.LogFormat(),
	}
	if console {
		logOpts.Format = "console"
		logOpts.OutputPaths = []string{"stderr"}
	}
	logger, err := logging.New(logOpts)
	if err != nil {
		return nil, err
	}

	client := llm.NewClient(llm.Config{
		APIKey:         cfg.LLM.APIKey,
		BaseURL:        cfg.LLM.BaseURL,
		Model:          cfg.LLM.Model,
		VisionModel:    cfg.LLM.VisionModel,
		Referer:        cfg.LLM.Referer,
		Title:          cfg.LLM.Title,
		TimeoutSeconds: cfg.LLM.TimeoutSeconds,
	})

	store, err := learned.Open(cfg)
	if err != nil {
		logger.Warn("learned store unavailable", logging.Error(err))
		store = nil
	}

	identifier := identify.NewIdentifier(cfg, logger, client, knowledge.NewRegistry())
	gate := clarify.NewGate(cfg)
	runner := pipeline.NewRunner(cfg, logger, identifier, gate, store)
	service := api.NewService(cfg, logger, runner, identifier, store)

	return &runtime{
		cfg:        cfg,
		logger:     logger,
		runner:     runner,
		service:    service,
		identifier: identifier,
		store:      store,
	}, nil
}

func (r *runtime) close() {
	if r == nil {
		return
	}
	r.runner.Wait()
	if r.store != nil {
		_ = r.store.Close()
	}
}
