package main

import (
	"fmt"

	"salespilot/internal/agent"
	"salespilot/internal/config"
	"salespilot/internal/db"
	"salespilot/internal/llm"
	"salespilot/internal/tools"
)

// buildLoop wires the full assistant stack: executor, OpenAI client, tool
// registry, orchestration loop. The acting agent is not baked in here; it is
// passed per call to Loop.Answer and threaded through tool dispatch.
func buildLoop(cfg *config.Config) (*agent.Loop, error) {
	if cfg.OpenAIAPIKey == "" {
		return nil, fmt.Errorf("no OpenAI API key configured (set OPENAI_API_KEY or openai_api_key in config)")
	}

	executor := db.NewExecutor(cfg.DatabasePath)
	client := llm.NewOpenAIClient(cfg.OpenAIAPIKey, cfg.OpenAIBaseURL)

	registry := tools.NewRegistry()
	registry.Register(tools.TextToSQLTool(tools.NewSynthesizer(client, executor, cfg.Model), executor))
	registry.Register(tools.OpenWorkTool(tools.NewWorkReporter(executor)))
	registry.Register(tools.RecommendTool(tools.NewRecommender(executor)))

	return agent.NewLoop(client, registry, cfg.Model, cfg.MaxIterations), nil
}

// resolveAgent picks the acting agent from a flag value, falling back to the
// configured default.
func resolveAgent(flagValue string, cfg *config.Config) string {
	if flagValue != "" {
		return flagValue
	}
	return cfg.DefaultAgent
}
