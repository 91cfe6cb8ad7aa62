// Package llm sends normalized statement rows to the model inference
// endpoint and parses its free-form reply into transactions.
package llm

import (
	"context"
	"fmt"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/rs/zerolog/log"

	"github.com/insightdelivered/statement-recon/internal/models"
)

const (
	defaultModel     = "claude-sonnet-4-5-20250929"
	defaultMaxTokens = 2048
)

// Client wraps the inference endpoint. Decoding is deterministic
// (temperature 0) with a fixed output budget so repeated runs over the same
// statement stay comparable.
type Client struct {
	api       anthropic.Client
	model     string
	maxTokens int64
}

// NewClient builds a Client. Empty model and non-positive maxTokens fall
// back to defaults.
func NewClient(apiKey, model string, maxTokens int64) *Client {
	if model == "" {
		model = defaultModel
	}
	if maxTokens <= 0 {
		maxTokens = defaultMaxTokens
	}
	return &Client{
		api:       anthropic.NewClient(option.WithAPIKey(apiKey)),
		model:     model,
		maxTokens: maxTokens,
	}
}

// ExtractTransactions prompts the model with the merged transaction rows and
// returns the parsed transactions plus the raw completion. A transport or
// API failure is an error; a malformed completion is not, it degrades to an
// empty sequence via the tolerant JSON boundary.
func (c *Client) ExtractTransactions(ctx context.Context, rowText string) ([]models.ExternalTransaction, string, error) {
	prompt := BuildPrompt(rowText)

	message, err := c.api.Messages.New(ctx, anthropic.MessageNewParams{
		Model:       anthropic.Model(c.model),
		MaxTokens:   c.maxTokens,
		Temperature: anthropic.Float(0),
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
	})
	if err != nil {
		return nil, "", fmt.Errorf("inference call failed: %w", err)
	}

	var raw string
	for _, block := range message.Content {
		if block.Type == "text" {
			raw = block.Text
			break
		}
	}
	log.Debug().Str("model", c.model).Int("response_size", len(raw)).Msg("llm extraction response")

	return ExtractJSON(raw), raw, nil
}
