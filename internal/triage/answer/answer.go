// Package answer builds the audience- and posture-conditioned prompt, issues
// one generation call, and checks the result against the section contract.
// Unlike the router pass there is no repair loop: provider errors propagate,
// and contract violations degrade the text rather than fail the request.
package answer

import (
	"context"

	apperrors "triage-service/internal/common/errors"
	"triage-service/internal/common/logger"
	"triage-service/internal/common/metrics"
	"triage-service/internal/llm"
	"triage-service/internal/triage/schema"
)

const (
	answerTemperature = 0.7
	answerMaxTokens   = 3000
)

// Answer is the generated markdown plus its contract check.
type Answer struct {
	Markdown string             `json:"markdown"`
	Contract ContractValidation `json:"contract"`
	Usage    llm.Usage          `json:"usage"`
}

// Generator runs the answer pass.
type Generator struct {
	client llm.Client
	logger logger.Logger
}

// NewGenerator creates a generator over the given answer client.
func NewGenerator(client llm.Client, log logger.Logger) *Generator {
	return &Generator{
		client: client,
		logger: log.With(map[string]interface{}{"pass": "answer"}),
	}
}

// Generate issues the generation call and validates the section contract.
// Missing sections are logged at error level and surfaced as a visible
// warning block appended to the otherwise-delivered text.
func (g *Generator) Generate(ctx context.Context, message string, profile schema.RouterOutput, userCtx map[string]interface{}, mode string) (*Answer, error) {
	resp, err := g.client.Chat(ctx, []llm.Message{
		{Role: llm.RoleSystem, Content: buildAnswerSystemPrompt(mode, profile)},
		{Role: llm.RoleUser, Content: buildAnswerUserTurn(message, userCtx)},
	}, llm.Options{
		Temperature: answerTemperature,
		MaxTokens:   answerMaxTokens,
	})
	if err != nil {
		return nil, err
	}

	metrics.TokensUsed.WithLabelValues("answer", "prompt").Add(float64(resp.Usage.PromptTokens))
	metrics.TokensUsed.WithLabelValues("answer", "completion").Add(float64(resp.Usage.CompletionTokens))

	markdown := resp.Text
	contract := ValidateContract(markdown)
	if !contract.Valid {
		metrics.ContractWarnings.Inc()
		g.logger.WithError(apperrors.NewContractWarning(contract.MissingSections)).Error("answer missing required sections", map[string]interface{}{
			"missing": contract.MissingSections,
		})
		markdown += warningBlock(contract.MissingSections)
	} else {
		g.logger.Info("answer generated", map[string]interface{}{
			"length": len(markdown),
		})
	}

	return &Answer{
		Markdown: markdown,
		Contract: contract,
		Usage:    resp.Usage,
	}, nil
}
