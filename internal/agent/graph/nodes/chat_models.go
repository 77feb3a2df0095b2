package nodes

import (
	"context"
	"fmt"

	"github.com/cloudwego/eino-ext/components/model/gemini"
	einomodel "github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	"google.golang.org/genai"

	"github.com/peoplebot-poc/server/internal/agent/model"
	logx "github.com/peoplebot-poc/server/pkg/logger"
)

// Generator is the slice of the chat model the generator node invokes. The
// gemini ChatModel satisfies it; tests swap in a stub.
type Generator interface {
	Generate(ctx context.Context, input []*schema.Message, opts ...einomodel.Option) (*schema.Message, error)
}

// AnswerModel bundles the configured chat model with its name for pricing.
type AnswerModel struct {
	Model *gemini.ChatModel
	Name  string
}

// NewAnswerModel creates the Gemini chat model used to draft answers.
func NewAnswerModel(ctx context.Context, cfg model.AnswerModelConfig) (*AnswerModel, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		logx.Error().Err(err).Msg("Error creating Gemini client")
		return nil, fmt.Errorf("error creating Gemini client: %w", err)
	}

	chatModel, err := gemini.NewChatModel(ctx, &gemini.Config{
		Client:      client,
		Model:       cfg.Model,
		Temperature: &cfg.Temperature,
		MaxTokens:   &cfg.MaxTokens,
	})
	if err != nil {
		logx.Error().Err(err).Msg("Error creating answer model")
		return nil, fmt.Errorf("error creating answer model: %w", err)
	}

	return &AnswerModel{Model: chatModel, Name: cfg.Model}, nil
}
