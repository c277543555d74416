// internal/triage/answer/contract.go
package answer

import "strings"

// RequiredSections are the seven exact headings every answer must contain, in
// canonical order. The contract check tests presence only, not order.
var RequiredSections = []string{
	"## Immediate Actions",
	"## Likely Causes",
	"## Cost & Effort Range",
	"## What Changes the Price",
	"## Hiring & Next Steps",
	"## Red Flags & Don'ts",
	"## Clarifying Questions",
}

// ContractValidation reports which required sections the markdown contains.
type ContractValidation struct {
	Valid           bool     `json:"valid"`
	MissingSections []string `json:"missingSections"`
	PresentSections []string `json:"presentSections"`
}

// ValidateContract checks each required heading as an exact substring,
// independent of order and intervening content.
func ValidateContract(markdown string) ContractValidation {
	v := ContractValidation{
		MissingSections: []string{},
		PresentSections: []string{},
	}
	for _, section := range RequiredSections {
		if strings.Contains(markdown, section) {
			v.PresentSections = append(v.PresentSections, section)
		} else {
			v.MissingSections = append(v.MissingSections, section)
		}
	}
	v.Valid = len(v.MissingSections) == 0
	return v
}

// warningBlock renders the visible internal warning appended to a degraded
// answer.
func warningBlock(missing []string) string {
	var b strings.Builder
	b.WriteString("\n\n---\n\n")
	b.WriteString("> **Internal warning:** this answer is missing required sections:\n")
	for _, section := range missing {
		b.WriteString("> - " + section + "\n")
	}
	return b.String()
}
