// Package router drives the classify -> validate -> repair -> fallback state
// machine. Run never returns an error and always yields a schema-valid
// profile; unreliability of the underlying generator stays inside this
// package.
package router

import (
	"context"

	apperrors "triage-service/internal/common/errors"
	"triage-service/internal/common/logger"
	"triage-service/internal/common/metrics"
	"triage-service/internal/llm"
	"triage-service/internal/triage/schema"
)

// Outcome labels, used in logs and the outcome metric.
const (
	OutcomeSucceeded = "succeeded"
	OutcomeRepaired  = "repaired"
	OutcomeDefaulted = "defaulted"
)

const (
	attemptTemperature = 0.3
	repairTemperature  = 0.1
	maxOutputTokens    = 1024
)

// RunMeta describes how the profile was obtained.
type RunMeta struct {
	Retries int       `json:"retries"`
	Outcome string    `json:"outcome"`
	Usage   llm.Usage `json:"usage"`
}

// Router orchestrates the classification pass.
type Router struct {
	client llm.Client
	logger logger.Logger
}

// New creates a router over the given classification client.
func New(client llm.Client, log logger.Logger) *Router {
	return &Router{
		client: client,
		logger: log.With(map[string]interface{}{"pass": "router"}),
	}
}

// Run classifies the message. Any failure of the first call, of any kind
// (transport, parse, or schema), triggers one repair call; any failure of the
// repair call yields the safe default. The returned profile is always valid.
func (r *Router) Run(ctx context.Context, message string, userCtx map[string]interface{}) (schema.RouterOutput, RunMeta) {
	meta := RunMeta{}
	userTurn := buildUserTurn(message, userCtx)

	// ATTEMPT
	out, rawText, errText := r.generate(ctx, buildSystemPrompt(), userTurn, attemptTemperature, &meta)
	if out != nil {
		meta.Outcome = OutcomeSucceeded
		r.finish(meta)
		return *out, meta
	}
	r.logger.WithError(apperrors.NewStructuredOutputError(errText)).Warn("router attempt failed, repairing", nil)

	// REPAIR
	meta.Retries = 1
	out, _, repairErrText := r.generate(ctx, buildRepairPrompt(rawText, errText), userTurn, repairTemperature, &meta)
	if out != nil {
		meta.Outcome = OutcomeRepaired
		r.finish(meta)
		return *out, meta
	}
	r.logger.WithError(apperrors.NewStructuredOutputError(repairErrText)).Warn("router repair failed, using safe default", nil)

	// FALLBACK
	meta.Retries = 2
	meta.Outcome = OutcomeDefaulted
	r.finish(meta)
	return schema.SafeDefault(), meta
}

// generate issues one structured-output call and validates the result. On any
// failure it returns nil plus the raw text (if any) and the error detail for
// the repair prompt. Transport errors are treated the same as schema errors:
// the fallback guarantee makes distinguishing them pointless here.
func (r *Router) generate(ctx context.Context, systemPrompt, userTurn string, temperature float32, meta *RunMeta) (*schema.RouterOutput, string, string) {
	resp, err := r.client.Chat(ctx, []llm.Message{
		{Role: llm.RoleSystem, Content: systemPrompt},
		{Role: llm.RoleUser, Content: userTurn},
	}, llm.Options{
		Temperature: temperature,
		MaxTokens:   maxOutputTokens,
		JSONMode:    true,
	})
	if err != nil {
		return nil, "", err.Error()
	}
	meta.Usage.Add(resp.Usage)

	out, vr := schema.Parse(resp.Text)
	if !vr.Valid {
		return nil, resp.Text, vr.ErrorText()
	}
	return out, resp.Text, ""
}

func (r *Router) finish(meta RunMeta) {
	metrics.RouterOutcomes.WithLabelValues(meta.Outcome).Inc()
	metrics.TokensUsed.WithLabelValues("router", "prompt").Add(float64(meta.Usage.PromptTokens))
	metrics.TokensUsed.WithLabelValues("router", "completion").Add(float64(meta.Usage.CompletionTokens))

	fields := map[string]interface{}{
		"retries":      meta.Retries,
		"total_tokens": meta.Usage.TotalTokens,
	}
	switch meta.Outcome {
	case OutcomeSucceeded:
		r.logger.Info("router succeeded", fields)
	case OutcomeRepaired:
		r.logger.Info("router repaired", fields)
	default:
		r.logger.Error("router defaulted", fields)
	}
}
