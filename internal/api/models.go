// internal/api/models.go
package api

import (
	"strings"

	"triage-service/internal/llm"
	"triage-service/internal/triage/schema"
)

// TriageRequest is the inbound request body. Context is opaque pass-through
// from the surrounding application and is never validated beyond type.
type TriageRequest struct {
	Message  string                 `json:"message"`
	Context  map[string]interface{} `json:"context,omitempty"`
	Provider string                 `json:"provider,omitempty"`
	Mode     string                 `json:"mode,omitempty"`
}

// applyDefaults fills provider and mode when absent.
func (r *TriageRequest) applyDefaults(defaultProvider string) {
	if r.Provider == "" {
		r.Provider = defaultProvider
	}
	if r.Mode == "" {
		r.Mode = "homeowner"
	}
}

// validate returns a caller-safe problem description, or "" when valid.
func (r *TriageRequest) validate() string {
	if strings.TrimSpace(r.Message) == "" {
		return "message is required and must be non-empty"
	}
	if r.Provider != llm.ProviderVendorA && r.Provider != llm.ProviderVendorB {
		return "provider must be \"vendor-a\" or \"vendor-b\""
	}
	if r.Mode != "homeowner" && r.Mode != "contractor" {
		return "mode must be \"homeowner\" or \"contractor\""
	}
	return ""
}

// TriageResponse is the success envelope.
type TriageResponse struct {
	RequestID      string              `json:"request_id"`
	Router         schema.RouterOutput `json:"router"`
	AnswerMarkdown string              `json:"answer_markdown"`
	Metadata       ResponseMetadata    `json:"metadata"`
}

// ResponseMetadata carries timing, retry, and usage accounting.
type ResponseMetadata struct {
	RouterLatencyMs int64     `json:"router_latency_ms"`
	AnswerLatencyMs int64     `json:"answer_latency_ms"`
	TotalLatencyMs  int64     `json:"total_latency_ms"`
	RouterRetries   int       `json:"router_retries"`
	RouterUsage     llm.Usage `json:"router_usage"`
	AnswerUsage     llm.Usage `json:"answer_usage"`
	TotalUsage      llm.Usage `json:"total_usage"`
	Cached          bool      `json:"cached,omitempty"`
}

// ErrorResponse is the failure envelope. Message never includes internal
// error detail for 5xx responses.
type ErrorResponse struct {
	Error     string `json:"error"`
	Message   string `json:"message"`
	RequestID string `json:"request_id"`
}

// HealthResponse reports liveness plus configuration validity.
type HealthResponse struct {
	Status    string       `json:"status"`
	Timestamp string       `json:"timestamp"`
	Config    HealthConfig `json:"config"`
}

type HealthConfig struct {
	Valid  bool     `json:"valid"`
	Errors []string `json:"errors"`
}
