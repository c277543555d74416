// internal/triage/router/prompts.go
package router

import (
	"encoding/json"
	"fmt"
	"strings"

	"triage-service/internal/triage/schema"
)

const systemPromptTemplate = `You are a triage classifier for home-service problems. Classify the user's message into a decision profile.

Respond with a single JSON object and nothing else. The object must conform exactly to this JSON schema:

%s

Rules:
- Pick the single best domain and decision_type for the problem described.
- risk_level reflects hazard to people or property: "high" for active dangers (fire, gas, electrical shock, structural failure, flooding), "medium" for problems that worsen if ignored, "low" otherwise.
- posture is the set of stances the answer should take; it must never be empty.
- assumptions lists what you had to assume; must_include lists facts the answer must cover; clarifying_questions lists what you would ask the user.
- Set tooling.needs_local_resources when local contractor or permit information matters; tooling.needs_citations when claims need sourcing.`

const repairPromptTemplate = `Your previous output did not conform to the required JSON schema. Produce a corrected JSON object and nothing else.

Required schema:

%s

Previous output:
%s

Validation errors:
%s`

const noOutputCaptured = "(no output captured)"

func buildSystemPrompt() string {
	return fmt.Sprintf(systemPromptTemplate, schema.JSONSchema)
}

func buildRepairPrompt(priorOutput, errorText string) string {
	if strings.TrimSpace(priorOutput) == "" {
		priorOutput = noOutputCaptured
	}
	return fmt.Sprintf(repairPromptTemplate, schema.JSONSchema, priorOutput, errorText)
}

// buildUserTurn serializes the message plus optional user context into the
// user turn. The context is opaque pass-through; it is rendered as JSON.
func buildUserTurn(message string, userCtx map[string]interface{}) string {
	if len(userCtx) == 0 {
		return message
	}
	ctxJSON, err := json.Marshal(userCtx)
	if err != nil {
		return message
	}
	return fmt.Sprintf("%s\n\nUser context: %s", message, ctxJSON)
}
