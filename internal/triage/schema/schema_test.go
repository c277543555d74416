// internal/triage/schema/schema_test.go
package schema

import (
	"encoding/json"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"triage-service/internal/triage/taxonomy"
)

func validOutputJSON() string {
	return `{
		"domain": "plumbing",
		"decision_type": "diagnose",
		"risk_level": "medium",
		"posture": ["explainer", "risk_manager"],
		"assumptions": ["single-family home"],
		"must_include": ["shut off the water supply"],
		"clarifying_questions": ["how old is the water heater?"],
		"tooling": {"needs_local_resources": true, "needs_citations": false}
	}`
}

func TestValidate_AcceptsConformingOutput(t *testing.T) {
	out, vr := Validate([]byte(validOutputJSON()))
	require.True(t, vr.Valid, "errors: %v", vr.GetErrorMessages())
	require.NotNil(t, out)
	assert.Equal(t, taxonomy.DomainPlumbing, out.Domain)
	assert.Equal(t, taxonomy.DecisionDiagnose, out.DecisionType)
	assert.Equal(t, taxonomy.RiskMedium, out.RiskLevel)
	assert.Equal(t, []taxonomy.Posture{taxonomy.PostureExplainer, taxonomy.PostureRiskManager}, out.Posture)
	assert.True(t, out.Tooling.NeedsLocalResources)
}

func TestValidate_Rejections(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(m map[string]interface{})
	}{
		{
			name:   "unknown domain",
			mutate: func(m map[string]interface{}) { m["domain"] = "astrology" },
		},
		{
			name:   "unknown decision type",
			mutate: func(m map[string]interface{}) { m["decision_type"] = "procrastinate" },
		},
		{
			name:   "unknown risk level",
			mutate: func(m map[string]interface{}) { m["risk_level"] = "extreme" },
		},
		{
			name:   "empty posture",
			mutate: func(m map[string]interface{}) { m["posture"] = []string{} },
		},
		{
			name:   "unknown posture member",
			mutate: func(m map[string]interface{}) { m["posture"] = []string{"explainer", "comedian"} },
		},
		{
			name:   "missing tooling",
			mutate: func(m map[string]interface{}) { delete(m, "tooling") },
		},
		{
			name:   "wrong type for assumptions",
			mutate: func(m map[string]interface{}) { m["assumptions"] = "none" },
		},
		{
			name: "too many clarifying questions",
			mutate: func(m map[string]interface{}) {
				qs := make([]string, MaxClarifyingQuestions+1)
				for i := range qs {
					qs[i] = fmt.Sprintf("question %d", i)
				}
				m["clarifying_questions"] = qs
			},
		},
		{
			name: "too many assumptions",
			mutate: func(m map[string]interface{}) {
				as := make([]string, MaxAssumptions+1)
				for i := range as {
					as[i] = fmt.Sprintf("assumption %d", i)
				}
				m["assumptions"] = as
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var m map[string]interface{}
			require.NoError(t, json.Unmarshal([]byte(validOutputJSON()), &m))
			tt.mutate(m)
			raw, err := json.Marshal(m)
			require.NoError(t, err)

			out, vr := Validate(raw)
			assert.Nil(t, out)
			assert.False(t, vr.Valid)
			assert.NotEmpty(t, vr.Errors)
		})
	}
}

func TestValidate_MalformedJSON(t *testing.T) {
	for _, raw := range []string{"", "not json at all", "{", `"just a string"`} {
		out, vr := Validate([]byte(raw))
		assert.Nil(t, out, "input: %q", raw)
		assert.False(t, vr.Valid, "input: %q", raw)
	}
}

func TestParse_StripsCodeFences(t *testing.T) {
	fenced := "```json\n" + validOutputJSON() + "\n```"
	out, vr := Parse(fenced)
	require.True(t, vr.Valid, "errors: %v", vr.GetErrorMessages())
	assert.Equal(t, taxonomy.DomainPlumbing, out.Domain)

	bare := "```\n" + validOutputJSON() + "\n```"
	out, vr = Parse(bare)
	require.True(t, vr.Valid)
	assert.Equal(t, taxonomy.DomainPlumbing, out.Domain)
}

// Regression guard against taxonomy drift: the fallback value must always
// pass its own schema.
func TestSafeDefault_AlwaysValidates(t *testing.T) {
	def := SafeDefault()

	raw, err := json.Marshal(def)
	require.NoError(t, err)

	out, vr := Validate(raw)
	require.True(t, vr.Valid, "errors: %v", vr.GetErrorMessages())
	assert.Equal(t, def, *out)

	assert.Equal(t, taxonomy.DomainGeneral, def.Domain)
	assert.Equal(t, taxonomy.DecisionDiagnose, def.DecisionType)
	assert.Equal(t, taxonomy.RiskMedium, def.RiskLevel)
	assert.Equal(t, []taxonomy.Posture{taxonomy.PostureExplainer, taxonomy.PostureRiskManager}, def.Posture)
}

func TestValidate_NormalizesNilArrays(t *testing.T) {
	// Arrays present but empty must come back as empty slices, not nil, so
	// the response envelope renders [] rather than null.
	out, vr := Validate([]byte(`{
		"domain": "general",
		"decision_type": "diagnose",
		"risk_level": "low",
		"posture": ["explainer"],
		"assumptions": [],
		"must_include": [],
		"clarifying_questions": [],
		"tooling": {"needs_local_resources": false, "needs_citations": false}
	}`))
	require.True(t, vr.Valid)
	assert.NotNil(t, out.Assumptions)
	assert.NotNil(t, out.MustInclude)
	assert.NotNil(t, out.ClarifyingQuestions)
}
