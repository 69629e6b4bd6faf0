package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"supportdesk/pkg/config"

	"github.com/Role1776/gigago"
	"go.uber.org/zap"
)

// Generator is the external text-completion collaborator. A single call,
// no retries: any failure makes the orchestrator fall back to the
// deterministic mock responder.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
	Close() error
}

type GigaChatGenerator struct {
	client  *gigago.Client
	model   *gigago.GenerativeModel
	timeout time.Duration
	logger  *zap.Logger
}

func NewGigaChatGenerator(cfg *config.GigaChatConfig, timeout time.Duration, logger *zap.Logger) (*GigaChatGenerator, error) {
	ctx := context.Background()

	opts := []gigago.Option{
		gigago.WithCustomScope(cfg.Scope),
	}
	if cfg.InsecureSkipVerify {
		opts = append(opts, gigago.WithCustomInsecureSkipVerify(true))
		logger.Warn("GigaChat TLS certificate verification is disabled")
	}

	client, err := gigago.NewClient(ctx, cfg.APIKey, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create GigaChat client: %w", err)
	}

	model := client.GenerativeModel("GigaChat")
	model.Temperature = 0.2

	return &GigaChatGenerator{
		client:  client,
		model:   model,
		timeout: timeout,
		logger:  logger,
	}, nil
}

// Generate sends the prompt and returns the raw completion text. The
// provider has no contract beyond text-or-error, so an explicit timeout is
// imposed here.
func (g *GigaChatGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	messages := []gigago.Message{
		{Role: gigago.RoleUser, Content: prompt},
	}

	resp, err := g.model.Generate(ctx, messages)
	if err != nil {
		return "", fmt.Errorf("failed to generate response: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no response from LLM")
	}

	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}

func (g *GigaChatGenerator) Close() error {
	if g.client != nil {
		g.client.Close()
	}
	return nil
}
