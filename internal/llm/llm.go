// Package llm provides a uniform chat abstraction over the vendor APIs.
package llm

import "context"

// Message roles. Adapters translate these to vendor-specific turn shapes.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message is a single role-tagged text turn.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Usage is token accounting normalized across vendors.
type Usage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// Add accumulates usage across calls.
func (u *Usage) Add(other Usage) {
	u.PromptTokens += other.PromptTokens
	u.CompletionTokens += other.CompletionTokens
	u.TotalTokens += other.TotalTokens
}

// Response is the normalized result of a chat call.
type Response struct {
	Text  string `json:"text"`
	Usage Usage  `json:"usage"`
}

// Options controls a single generation call.
type Options struct {
	Temperature float32
	MaxTokens   int
	// JSONMode requests structured output where the vendor supports it.
	// Vendor B has no equivalent flag; its adapter relies on the prompt.
	JSONMode bool
}

// Client is the single capability each vendor adapter implements. No retries
// happen at this layer; errors propagate to the caller verbatim.
type Client interface {
	Chat(ctx context.Context, messages []Message, opts Options) (*Response, error)
}
