// Package schema defines the router output shape, its validation, and the
// canonical safe default. Validation returns a result value, never an error:
// the router state machine branches on it.
package schema

import (
	"encoding/json"
	"fmt"
	"strings"

	"triage-service/internal/triage/taxonomy"

	"github.com/xeipuuv/gojsonschema"
)

// RouterOutput is the structured decision profile produced by the router pass.
// Holders of a value obtained through Validate or SafeDefault can rely on
// every field belonging to its enumerated domain.
type RouterOutput struct {
	Domain              taxonomy.Domain       `json:"domain"`
	DecisionType        taxonomy.DecisionType `json:"decision_type"`
	RiskLevel           taxonomy.RiskLevel    `json:"risk_level"`
	Posture             []taxonomy.Posture    `json:"posture"`
	Assumptions         []string              `json:"assumptions"`
	MustInclude         []string              `json:"must_include"`
	ClarifyingQuestions []string              `json:"clarifying_questions"`
	Tooling             Tooling               `json:"tooling"`
}

// Tooling flags downstream resource needs.
type Tooling struct {
	NeedsLocalResources bool `json:"needs_local_resources"`
	NeedsCitations      bool `json:"needs_citations"`
}

// Array caps from the output contract.
const (
	MaxAssumptions         = 10
	MaxMustInclude         = 10
	MaxClarifyingQuestions = 5
)

// ValidationResult reports schema conformance with detailed errors.
type ValidationResult struct {
	Valid  bool              `json:"valid"`
	Errors []ValidationError `json:"errors,omitempty"`
}

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// GetErrorMessages returns a simple list of error messages.
func (vr *ValidationResult) GetErrorMessages() []string {
	messages := make([]string, len(vr.Errors))
	for i, err := range vr.Errors {
		messages[i] = fmt.Sprintf("%s: %s", err.Field, err.Message)
	}
	return messages
}

// ErrorText joins all error messages for embedding in a repair prompt.
func (vr *ValidationResult) ErrorText() string {
	return strings.Join(vr.GetErrorMessages(), "; ")
}

// JSONSchema is the structural contract for RouterOutput. It is both the
// gojsonschema document validated against and the schema text embedded in the
// router prompts, so the model and the validator always agree.
var JSONSchema = buildJSONSchema()

func buildJSONSchema() string {
	doc := map[string]interface{}{
		"type":                 "object",
		"additionalProperties": false,
		"required": []string{
			"domain", "decision_type", "risk_level", "posture",
			"assumptions", "must_include", "clarifying_questions", "tooling",
		},
		"properties": map[string]interface{}{
			"domain":        map[string]interface{}{"type": "string", "enum": taxonomy.Domains()},
			"decision_type": map[string]interface{}{"type": "string", "enum": taxonomy.DecisionTypes()},
			"risk_level":    map[string]interface{}{"type": "string", "enum": taxonomy.RiskLevels()},
			"posture": map[string]interface{}{
				"type":     "array",
				"minItems": 1,
				"items":    map[string]interface{}{"type": "string", "enum": taxonomy.Postures()},
			},
			"assumptions": map[string]interface{}{
				"type": "array", "maxItems": MaxAssumptions,
				"items": map[string]interface{}{"type": "string"},
			},
			"must_include": map[string]interface{}{
				"type": "array", "maxItems": MaxMustInclude,
				"items": map[string]interface{}{"type": "string"},
			},
			"clarifying_questions": map[string]interface{}{
				"type": "array", "maxItems": MaxClarifyingQuestions,
				"items": map[string]interface{}{"type": "string"},
			},
			"tooling": map[string]interface{}{
				"type":                 "object",
				"required":             []string{"needs_local_resources", "needs_citations"},
				"additionalProperties": false,
				"properties": map[string]interface{}{
					"needs_local_resources": map[string]interface{}{"type": "boolean"},
					"needs_citations":       map[string]interface{}{"type": "boolean"},
				},
			},
		},
	}
	data, _ := json.MarshalIndent(doc, "", "  ")
	return string(data)
}

var compiledSchema = mustCompileSchema()

func mustCompileSchema() *gojsonschema.Schema {
	s, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(JSONSchema))
	if err != nil {
		panic(fmt.Sprintf("router output schema does not compile: %v", err))
	}
	return s
}

// Validate checks raw JSON against the structural schema, then decodes and
// re-checks the typed enums. Invalid input yields an invalid result, not an
// error or panic.
func Validate(raw []byte) (*RouterOutput, *ValidationResult) {
	result, err := compiledSchema.Validate(gojsonschema.NewBytesLoader(raw))
	if err != nil {
		return nil, &ValidationResult{Valid: false, Errors: []ValidationError{
			{Field: "(root)", Message: fmt.Sprintf("not valid JSON: %v", err)},
		}}
	}
	if !result.Valid() {
		vr := &ValidationResult{Valid: false}
		for _, e := range result.Errors() {
			vr.Errors = append(vr.Errors, ValidationError{Field: e.Field(), Message: e.Description()})
		}
		return nil, vr
	}

	var out RouterOutput
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, &ValidationResult{Valid: false, Errors: []ValidationError{
			{Field: "(root)", Message: fmt.Sprintf("decode failed: %v", err)},
		}}
	}

	if vr := validateTyped(&out); !vr.Valid {
		return nil, vr
	}

	// Nil slices decode from absent-but-allowed empty arrays; normalize so
	// callers and the response envelope always see [].
	if out.Assumptions == nil {
		out.Assumptions = []string{}
	}
	if out.MustInclude == nil {
		out.MustInclude = []string{}
	}
	if out.ClarifyingQuestions == nil {
		out.ClarifyingQuestions = []string{}
	}

	return &out, &ValidationResult{Valid: true}
}

// validateTyped guards the enum membership independently of the JSON schema,
// so taxonomy drift in either place is caught by the other.
func validateTyped(out *RouterOutput) *ValidationResult {
	errs := []ValidationError{}

	if !out.Domain.Valid() {
		errs = append(errs, ValidationError{Field: "domain", Message: fmt.Sprintf("unknown domain %q", out.Domain)})
	}
	if !out.DecisionType.Valid() {
		errs = append(errs, ValidationError{Field: "decision_type", Message: fmt.Sprintf("unknown decision type %q", out.DecisionType)})
	}
	if !out.RiskLevel.Valid() {
		errs = append(errs, ValidationError{Field: "risk_level", Message: fmt.Sprintf("unknown risk level %q", out.RiskLevel)})
	}
	if len(out.Posture) == 0 {
		errs = append(errs, ValidationError{Field: "posture", Message: "must not be empty"})
	}
	for i, p := range out.Posture {
		if !p.Valid() {
			errs = append(errs, ValidationError{Field: fmt.Sprintf("posture[%d]", i), Message: fmt.Sprintf("unknown posture %q", p)})
		}
	}
	if len(out.Assumptions) > MaxAssumptions {
		errs = append(errs, ValidationError{Field: "assumptions", Message: fmt.Sprintf("at most %d entries", MaxAssumptions)})
	}
	if len(out.MustInclude) > MaxMustInclude {
		errs = append(errs, ValidationError{Field: "must_include", Message: fmt.Sprintf("at most %d entries", MaxMustInclude)})
	}
	if len(out.ClarifyingQuestions) > MaxClarifyingQuestions {
		errs = append(errs, ValidationError{Field: "clarifying_questions", Message: fmt.Sprintf("at most %d entries", MaxClarifyingQuestions)})
	}

	return &ValidationResult{Valid: len(errs) == 0, Errors: errs}
}

// Parse strips markdown code fences the model may wrap around its JSON, then
// validates and decodes.
func Parse(text string) (*RouterOutput, *ValidationResult) {
	return Validate([]byte(stripCodeFences(text)))
}

func stripCodeFences(text string) string {
	trimmed := strings.TrimSpace(text)
	if !strings.HasPrefix(trimmed, "```") {
		return trimmed
	}
	trimmed = strings.TrimPrefix(trimmed, "```json")
	trimmed = strings.TrimPrefix(trimmed, "```")
	trimmed = strings.TrimSuffix(strings.TrimSpace(trimmed), "```")
	return strings.TrimSpace(trimmed)
}

// SafeDefault is the canonical fallback profile: conservative, risk-averse,
// and guaranteed to pass Validate.
func SafeDefault() RouterOutput {
	return RouterOutput{
		Domain:              taxonomy.DomainGeneral,
		DecisionType:        taxonomy.DecisionDiagnose,
		RiskLevel:           taxonomy.RiskMedium,
		Posture:             []taxonomy.Posture{taxonomy.PostureExplainer, taxonomy.PostureRiskManager},
		Assumptions:         []string{},
		MustInclude:         []string{},
		ClarifyingQuestions: []string{},
		Tooling:             Tooling{},
	}
}
