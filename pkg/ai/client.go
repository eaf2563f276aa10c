package ai

import (
	"context"
	"errors"
	"fmt"

	sdk "github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/closermetrix/engine/pkg/config"
	"github.com/closermetrix/engine/pkg/resilience"
)

// Completion is the narrow result the pipeline needs back from a model
// call: the raw text content plus the usage metadata used to compute a
// Cost Entry (§4.5, §8 property 7).
type Completion struct {
	Text         string
	InputTokens  int
	OutputTokens int
}

// MessagesClient captures the subset of the Anthropic SDK used by Client,
// letting tests substitute a fake without a live API key.
type MessagesClient interface {
	New(ctx context.Context, body sdk.MessageNewParams, opts ...option.RequestOption) (*sdk.Message, error)
}

// Client wraps the Anthropic Messages API behind a circuit breaker (§4.5:
// "a string of provider failures opens the circuit and fails fast rather
// than hammering a down provider"). It issues exactly one request per
// Complete call — the engine does not retry internally (§5 Cancellation).
type Client struct {
	msg     MessagesClient
	breaker *resilience.Breaker
	pricing *config.AIPricing
}

// NewClient builds a Client from an API key, using the Anthropic SDK's
// default HTTP transport.
func NewClient(apiKey string, pricing *config.AIPricing) *Client {
	ac := sdk.NewClient(option.WithAPIKey(apiKey))
	return &Client{
		msg:     &ac.Messages,
		breaker: resilience.New(resilience.DefaultConfig("anthropic-messages")),
		pricing: pricing,
	}
}

// NewWithMessagesClient builds a Client over a caller-supplied
// MessagesClient, used by tests to substitute a fake.
func NewWithMessagesClient(msg MessagesClient, pricing *config.AIPricing) *Client {
	return &Client{msg: msg, breaker: resilience.New(resilience.DefaultConfig("anthropic-messages")), pricing: pricing}
}

// Complete issues one Messages.New call carrying systemPrompt and
// userMessage, returning the concatenated content of every text block and
// the usage metadata (§6.3 "An LLM provider accepting a system message and user
// message, returning a JSON body in its content and input/output token
// counts in usage metadata").
func (c *Client) Complete(ctx context.Context, systemPrompt, userMessage string) (*Completion, error) {
	result, err := c.breaker.Execute(ctx, func() (any, error) {
		msg, err := c.msg.New(ctx, sdk.MessageNewParams{
			Model:     sdk.Model(c.pricing.Model),
			MaxTokens: int64(c.pricing.MaxTokens),
			System:    []sdk.TextBlockParam{{Text: systemPrompt}},
			Messages: []sdk.MessageParam{
				sdk.NewUserMessage(sdk.NewTextBlock(userMessage)),
			},
		})
		if err != nil {
			return nil, fmt.Errorf("anthropic messages.new: %w", err)
		}
		return msg, nil
	})
	if err != nil {
		return nil, err
	}

	msg, ok := result.(*sdk.Message)
	if !ok || msg == nil {
		return nil, errors.New("ai: unexpected breaker result type")
	}

	var text string
	for _, block := range msg.Content {
		if block.Type == "text" && block.Text != "" {
			text += block.Text
		}
	}

	return &Completion{
		Text:         text,
		InputTokens:  int(msg.Usage.InputTokens),
		OutputTokens: int(msg.Usage.OutputTokens),
	}, nil
}
