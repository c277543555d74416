// internal/llm/openai.go
package llm

import (
	"context"
	"fmt"

	openai "github.com/sashabaranov/go-openai"
)

// OpenAIClient is the vendor-A adapter. System turns map 1:1 onto the chat
// message list, and JSONMode maps onto the native structured-output flag.
type OpenAIClient struct {
	client *openai.Client
	model  string
}

// NewOpenAIClient creates an adapter bound to a single configured model.
func NewOpenAIClient(apiKey, baseURL, model string) *OpenAIClient {
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	return &OpenAIClient{
		client: openai.NewClientWithConfig(cfg),
		model:  model,
	}
}

var _ Client = (*OpenAIClient)(nil)

func (c *OpenAIClient) Chat(ctx context.Context, messages []Message, opts Options) (*Response, error) {
	req := openai.ChatCompletionRequest{
		Model:       c.model,
		Temperature: opts.Temperature,
		MaxTokens:   opts.MaxTokens,
		Messages:    toOpenAIMessages(messages),
	}
	if opts.JSONMode {
		req.ResponseFormat = &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		}
	}

	resp, err := c.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return nil, err
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("empty response from model %s", c.model)
	}

	return &Response{
		Text:  resp.Choices[0].Message.Content,
		Usage: normalizeOpenAIUsage(resp.Usage),
	}, nil
}

func toOpenAIMessages(messages []Message) []openai.ChatCompletionMessage {
	out := make([]openai.ChatCompletionMessage, 0, len(messages))
	for _, m := range messages {
		role := openai.ChatMessageRoleUser
		switch m.Role {
		case RoleSystem:
			role = openai.ChatMessageRoleSystem
		case RoleAssistant:
			role = openai.ChatMessageRoleAssistant
		}
		out = append(out, openai.ChatCompletionMessage{Role: role, Content: m.Content})
	}
	return out
}

func normalizeOpenAIUsage(u openai.Usage) Usage {
	return Usage{
		PromptTokens:     u.PromptTokens,
		CompletionTokens: u.CompletionTokens,
		TotalTokens:      u.TotalTokens,
	}
}
