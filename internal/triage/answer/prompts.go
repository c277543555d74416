// internal/triage/answer/prompts.go
package answer

import (
	"encoding/json"
	"fmt"
	"strings"

	"triage-service/internal/triage/schema"
	"triage-service/internal/triage/taxonomy"
)

// Mode selects the audience the answer is written for.
const (
	ModeHomeowner  = "homeowner"
	ModeContractor = "contractor"
)

const homeownerPreamble = `You are a home-service advisor writing for a homeowner. Use plain language, explain trade terms the first time you use them, and assume no prior experience with contractors.`

const contractorPreamble = `You are a home-service advisor writing for a licensed contractor. Use precise trade terminology, reference code considerations where relevant, and skip basic explanations.`

// Posture guidance fragments. Fragments are additive: one is appended per
// posture present on the profile, in the profile's order.
var postureGuidance = map[taxonomy.Posture]string{
	taxonomy.PostureExplainer:   `Explain the underlying system clearly so the reader understands why the problem happens, not just what to do.`,
	taxonomy.PostureTriager:     `Lead with urgency: state immediately whether this is an emergency, what to shut off or evacuate, and who to call first.`,
	taxonomy.PostureRiskManager: `Call out safety hazards, code and permit issues, and the consequences of delaying or doing this wrong.`,
	taxonomy.PostureOptimizer:   `Focus on getting the best outcome per dollar: where to spend, where to save, and which corners must never be cut.`,
}

func buildAnswerSystemPrompt(mode string, profile schema.RouterOutput) string {
	var b strings.Builder

	if mode == ModeContractor {
		b.WriteString(contractorPreamble)
	} else {
		b.WriteString(homeownerPreamble)
	}

	b.WriteString(fmt.Sprintf("\n\nThe problem has been classified as domain %q, decision type %q, risk level %q.", profile.Domain, profile.DecisionType, profile.RiskLevel))

	for _, p := range profile.Posture {
		if guidance, ok := postureGuidance[p]; ok {
			b.WriteString("\n\n")
			b.WriteString(guidance)
		}
	}

	if len(profile.MustInclude) > 0 {
		b.WriteString("\n\nThe answer must cover: ")
		b.WriteString(strings.Join(profile.MustInclude, "; "))
		b.WriteString(".")
	}
	if len(profile.Assumptions) > 0 {
		b.WriteString("\n\nState these assumptions where relevant: ")
		b.WriteString(strings.Join(profile.Assumptions, "; "))
		b.WriteString(".")
	}

	b.WriteString("\n\nStructure the answer in markdown under exactly these headings, in this order:\n")
	for _, section := range RequiredSections {
		b.WriteString(section + "\n")
	}
	b.WriteString("\nEvery heading must appear verbatim. Under Clarifying Questions, ask what you still need to know.")

	return b.String()
}

func buildAnswerUserTurn(message string, userCtx map[string]interface{}) string {
	if len(userCtx) == 0 {
		return message
	}
	ctxJSON, err := json.Marshal(userCtx)
	if err != nil {
		return message
	}
	return fmt.Sprintf("%s\n\nUser context: %s", message, ctxJSON)
}
