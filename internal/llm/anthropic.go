// internal/llm/anthropic.go
package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

// AnthropicClient is the vendor-B adapter. The vendor has no system-role turn
// concept: all system messages are concatenated into one System parameter and
// only user/assistant turns form the conversation.
type AnthropicClient struct {
	client anthropic.Client
	model  string
}

// NewAnthropicClient creates an adapter bound to a single configured model.
func NewAnthropicClient(apiKey, baseURL, model string) *AnthropicClient {
	opts := []option.RequestOption{option.WithAPIKey(apiKey)}
	if baseURL != "" {
		opts = append(opts, option.WithBaseURL(baseURL))
	}
	return &AnthropicClient{
		client: anthropic.NewClient(opts...),
		model:  model,
	}
}

var _ Client = (*AnthropicClient)(nil)

func (c *AnthropicClient) Chat(ctx context.Context, messages []Message, opts Options) (*Response, error) {
	system, turns := splitSystemMessages(messages)

	maxTokens := opts.MaxTokens
	if maxTokens <= 0 {
		maxTokens = 1024
	}

	params := anthropic.MessageNewParams{
		Model:     anthropic.Model(c.model),
		MaxTokens: int64(maxTokens),
		Messages:  turns,
	}
	if system != "" {
		params.System = []anthropic.TextBlockParam{{Text: system}}
	}
	if opts.Temperature > 0 {
		params.Temperature = anthropic.Float(float64(opts.Temperature))
	}

	message, err := c.client.Messages.New(ctx, params)
	if err != nil {
		return nil, err
	}

	usage := Usage{
		PromptTokens:     int(message.Usage.InputTokens),
		CompletionTokens: int(message.Usage.OutputTokens),
		TotalTokens:      int(message.Usage.InputTokens + message.Usage.OutputTokens),
	}

	for _, block := range message.Content {
		if block.Type == "text" {
			return &Response{Text: block.Text, Usage: usage}, nil
		}
	}
	return nil, fmt.Errorf("no text content in response from model %s", c.model)
}

// splitSystemMessages joins all system-role turns (blank-line separated, in
// order) and converts the rest to vendor message params.
func splitSystemMessages(messages []Message) (string, []anthropic.MessageParam) {
	var system []string
	turns := make([]anthropic.MessageParam, 0, len(messages))

	for _, m := range messages {
		switch m.Role {
		case RoleSystem:
			system = append(system, m.Content)
		case RoleAssistant:
			turns = append(turns, anthropic.NewAssistantMessage(anthropic.NewTextBlock(m.Content)))
		default:
			turns = append(turns, anthropic.NewUserMessage(anthropic.NewTextBlock(m.Content)))
		}
	}

	return strings.Join(system, "\n\n"), turns
}
