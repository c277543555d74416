// internal/triage/answer/contract_test.go
package answer

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func completeAnswer() string {
	var b strings.Builder
	for _, section := range RequiredSections {
		b.WriteString(section + "\n\nsome content\n\n")
	}
	return b.String()
}

func TestValidateContract_AllSectionsPresent(t *testing.T) {
	v := ValidateContract(completeAnswer())
	assert.True(t, v.Valid)
	assert.Empty(t, v.MissingSections)
	assert.Len(t, v.PresentSections, 7)
}

// Scenario: six of seven headings, missing "Clarifying Questions".
func TestValidateContract_OneMissing(t *testing.T) {
	var b strings.Builder
	for _, section := range RequiredSections {
		if section == "## Clarifying Questions" {
			continue
		}
		b.WriteString(section + "\ncontent\n")
	}

	v := ValidateContract(b.String())
	assert.False(t, v.Valid)
	assert.Equal(t, []string{"## Clarifying Questions"}, v.MissingSections)
	assert.Len(t, v.PresentSections, 6)
}

func TestValidateContract_OrderIndependent(t *testing.T) {
	var b strings.Builder
	for i := len(RequiredSections) - 1; i >= 0; i-- {
		b.WriteString(RequiredSections[i] + "\ncontent\n")
	}

	v := ValidateContract(b.String())
	assert.True(t, v.Valid)
	assert.Len(t, v.PresentSections, 7)
}

func TestValidateContract_InterveningContentIgnored(t *testing.T) {
	var b strings.Builder
	b.WriteString("# A grand title\n\npreamble text\n\n")
	for _, section := range RequiredSections {
		b.WriteString(section + "\n\nlots of\n\nintervening\n\ncontent\n\n### A subsection\n\n")
	}
	v := ValidateContract(b.String())
	assert.True(t, v.Valid)
}

func TestValidateContract_EmptyMarkdown(t *testing.T) {
	v := ValidateContract("")
	assert.False(t, v.Valid)
	assert.Len(t, v.MissingSections, 7)
	assert.Empty(t, v.PresentSections)
}

func TestValidateContract_HeadingIsExactSubstring(t *testing.T) {
	// A lower-cased or reworded heading does not count.
	v := ValidateContract("## immediate actions\n## Likely causes\n")
	assert.False(t, v.Valid)
	assert.Len(t, v.MissingSections, 7)
}

func TestWarningBlock(t *testing.T) {
	block := warningBlock([]string{"## Clarifying Questions", "## Likely Causes"})
	require.Contains(t, block, "Internal warning")
	assert.Contains(t, block, "## Clarifying Questions")
	assert.Contains(t, block, "## Likely Causes")
}
