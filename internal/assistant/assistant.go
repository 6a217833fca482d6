// Package assistant provides the HealthMate chat assistant: a Responder
// that produces replies and a Thread view model that holds the
// conversation shown in the chat popup.
package assistant

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

// SystemPrompt frames every assistant conversation.
const SystemPrompt = "You are AI HealthMate, a friendly health assistant. " +
	"Answer general health questions in plain language, keep answers short, " +
	"and remind users to consult a professional for medical concerns."

// PlaceholderReply is returned when no language model is configured.
const PlaceholderReply = "Thanks for your question! This is a placeholder response."

// Responder produces a reply to a single user message.
type Responder interface {
	Respond(ctx context.Context, message string) (string, error)
}

// PlaceholderResponder answers every message with the canned reply. It is
// the default when no OpenAI API key is configured.
type PlaceholderResponder struct{}

func (PlaceholderResponder) Respond(ctx context.Context, message string) (string, error) {
	return PlaceholderReply, nil
}

// OpenAIResponder answers through the OpenAI chat completion API.
type OpenAIResponder struct {
	client openai.Client
	model  openai.ChatModel
}

// Opts holds configuration for OpenAIResponder.
type Opts struct {
	APIKey string
	Model  openai.ChatModel
}

// Option configures an OpenAIResponder.
type Option func(*Opts)

// WithAPIKey sets the OpenAI API key.
func WithAPIKey(key string) Option {
	return func(o *Opts) { o.APIKey = key }
}

// WithModel overrides the chat model.
func WithModel(model openai.ChatModel) Option {
	return func(o *Opts) { o.Model = model }
}

// NewOpenAIResponder initializes a responder against the OpenAI API.
func NewOpenAIResponder(opts ...Option) (*OpenAIResponder, error) {
	var cfg Opts
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("openai api key not set")
	}
	if cfg.Model == "" {
		cfg.Model = openai.ChatModelGPT4oMini
	}
	return &OpenAIResponder{
		client: openai.NewClient(option.WithAPIKey(cfg.APIKey)),
		model:  cfg.Model,
	}, nil
}

// Respond sends the message with the system prompt and returns the model's
// reply.
func (r *OpenAIResponder) Respond(ctx context.Context, message string) (string, error) {
	resp, err := r.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: r.model,
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(SystemPrompt),
			openai.UserMessage(message),
		},
	})
	if err != nil {
		return "", fmt.Errorf("chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no choices returned")
	}
	slog.Debug("OpenAIResponder.Respond completed", "model", r.model)
	return resp.Choices[0].Message.Content, nil
}
