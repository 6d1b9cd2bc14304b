package main

import (
	"context"
	"fmt"
	"os"

	"go.uber.org/zap"

	"marvin/internal/agent"
	"marvin/internal/capability"
	"marvin/internal/config"
	"marvin/internal/handlers"
	"marvin/internal/llm"
	"marvin/internal/logging"
	"marvin/internal/prompt"
	"marvin/internal/store"
)

// app bundles the wired-up subsystems for a command invocation.
type app struct {
	cfg      *config.Config
	store    *store.Store
	registry *capability.Registry
	builder  *prompt.Builder
	agent    *agent.Agent
	client   llm.Client
}

// setupApp loads config, opens the store, and registers the built-in
// capabilities. withModel controls whether a real LLM client is created;
// commands that never call the model skip it.
func setupApp(ctx context.Context, withModel bool) (*app, error) {
	ws := workspace
	if ws == "" {
		var err error
		ws, err = os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("resolving workspace: %w", err)
		}
	}

	if err := logging.Initialize(ws); err != nil {
		return nil, fmt.Errorf("initializing logging: %w", err)
	}

	cfg, err := config.Load(ws)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	if apiKey != "" {
		cfg.LLM.APIKey = apiKey
	}
	if model != "" {
		cfg.LLM.Model = model
	}

	st, err := store.Open(cfg.DatabasePath())
	if err != nil {
		return nil, fmt.Errorf("opening store: %w", err)
	}

	reg := capability.NewRegistry()
	if err := handlers.RegisterAll(reg, handlers.Options{
		Store:       st,
		RecallLimit: cfg.Memory.RecallLimit,
	}); err != nil {
		st.Close()
		return nil, fmt.Errorf("registering capabilities: %w", err)
	}

	builder := prompt.NewBuilder(reg, st)

	var client llm.Client
	if withModel {
		if err := cfg.Validate(); err != nil {
			st.Close()
			return nil, err
		}
		client, err = llm.NewGeminiClient(ctx, cfg.LLM.APIKey, cfg.LLM.Model)
		if err != nil {
			st.Close()
			return nil, fmt.Errorf("creating model client: %w", err)
		}
	}

	logger.Info("marvin ready",
		zap.String("workspace", ws),
		zap.Int("capabilities", reg.Count()),
		zap.Bool("model", withModel))

	return &app{
		cfg:      cfg,
		store:    st,
		registry: reg,
		builder:  builder,
		agent:    agent.New(reg, builder, client, nil, cfg.Agent),
		client:   client,
	}, nil
}

func (a *app) close() {
	if a.client != nil {
		_ = a.client.Close()
	}
	if a.store != nil {
		_ = a.store.Close()
	}
	logging.CloseAll()
}
