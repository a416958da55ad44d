package judgment

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/sashabaranov/go-openai"
)

const systemPrompt = `You are a senior investigative auditor specialised in public-sector compliance.
You receive a JSON bundle of evidence about a public official: linked companies and their officers
(with a name affinity to the official), news reports, red flags already raised, parliamentary grants,
card expenses, public contracts and sanctions. Look for conflicts of interest and suspicious links.

Answer with ONLY a JSON object, no markdown, in this shape:
{"tier": "LOW" | "MEDIUM" | "HIGH" | "CRITICAL",
 "red_flags": [{"reason": "what is wrong", "severity": 1-10}],
 "summary": "short conclusion"}`

// ModelConfig configures the OpenAI-compatible chat endpoint.
type ModelConfig struct {
	BaseURL     string
	APIKey      string
	Model       string
	Temperature float32
}

// ModelDelegate asks an OpenAI-compatible chat model for a verdict.
type ModelDelegate struct {
	client      *openai.Client
	model       string
	temperature float32
	configured  bool
	logger      *slog.Logger
}

func NewModelDelegate(cfg ModelConfig, logger *slog.Logger) *ModelDelegate {
	if logger == nil {
		logger = slog.Default()
	}
	oc := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		oc.BaseURL = cfg.BaseURL
	}
	if cfg.Model == "" {
		cfg.Model = "qwen-plus"
	}
	if cfg.Temperature == 0 {
		cfg.Temperature = 0.1
	}
	return &ModelDelegate{
		client:      openai.NewClientWithConfig(oc),
		model:       cfg.Model,
		temperature: cfg.Temperature,
		configured:  cfg.APIKey != "",
		logger:      logger,
	}
}

func (m *ModelDelegate) Judge(ctx context.Context, b Bundle) (Verdict, error) {
	if !m.configured {
		return Verdict{}, fmt.Errorf("%w: no api key", ErrUnavailable)
	}
	payload, err := json.Marshal(b)
	if err != nil {
		return Verdict{}, fmt.Errorf("encode bundle: %w", err)
	}

	m.logger.DebugContext(ctx, "requesting risk judgment", "model", m.model, "items", len(b.Items))
	resp, err := m.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: m.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: "Analyse this dossier and return the verdict as JSON:\n\n" + string(payload)},
		},
		Temperature: m.temperature,
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
	})
	if err != nil {
		return Verdict{}, fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	if len(resp.Choices) == 0 {
		return Verdict{}, fmt.Errorf("%w: no choices", ErrMalformedVerdict)
	}
	return ParseVerdict(resp.Choices[0].Message.Content)
}
