// Package taxonomy defines the classification enumerations and the
// keyword-based risk scorer. Everything here is pure and cannot error.
package taxonomy

import "strings"

// Domain is the problem area of a triage request.
type Domain string

const (
	DomainPlumbing    Domain = "plumbing"
	DomainElectrical  Domain = "electrical"
	DomainHVAC        Domain = "hvac"
	DomainRoofing     Domain = "roofing"
	DomainStructural  Domain = "structural"
	DomainAppliance   Domain = "appliance"
	DomainLandscaping Domain = "landscaping"
	DomainPainting    Domain = "painting"
	DomainFlooring    Domain = "flooring"
	DomainPestControl Domain = "pest_control"
	DomainGeneral     Domain = "general"
)

// Domains lists all valid domain values.
func Domains() []Domain {
	return []Domain{
		DomainPlumbing, DomainElectrical, DomainHVAC, DomainRoofing,
		DomainStructural, DomainAppliance, DomainLandscaping, DomainPainting,
		DomainFlooring, DomainPestControl, DomainGeneral,
	}
}

func (d Domain) Valid() bool {
	for _, v := range Domains() {
		if d == v {
			return true
		}
	}
	return false
}

// DecisionType is the kind of decision the user is facing.
type DecisionType string

const (
	DecisionDiagnose         DecisionType = "diagnose"
	DecisionRepairVsReplace  DecisionType = "repair_vs_replace"
	DecisionDIYVsPro         DecisionType = "diy_vs_pro"
	DecisionCostEstimate     DecisionType = "cost_estimate"
	DecisionContractorVet    DecisionType = "contractor_vetting"
	DecisionScheduling       DecisionType = "scheduling"
	DecisionPreventiveMaint  DecisionType = "preventive_maintenance"
	DecisionEmergencyRespond DecisionType = "emergency_response"
)

// DecisionTypes lists all valid decision type values.
func DecisionTypes() []DecisionType {
	return []DecisionType{
		DecisionDiagnose, DecisionRepairVsReplace, DecisionDIYVsPro,
		DecisionCostEstimate, DecisionContractorVet, DecisionScheduling,
		DecisionPreventiveMaint, DecisionEmergencyRespond,
	}
}

func (d DecisionType) Valid() bool {
	for _, v := range DecisionTypes() {
		if d == v {
			return true
		}
	}
	return false
}

// RiskLevel grades the hazard implied by the message.
type RiskLevel string

const (
	RiskLow    RiskLevel = "low"
	RiskMedium RiskLevel = "medium"
	RiskHigh   RiskLevel = "high"
)

func RiskLevels() []RiskLevel {
	return []RiskLevel{RiskLow, RiskMedium, RiskHigh}
}

func (r RiskLevel) Valid() bool {
	return r == RiskLow || r == RiskMedium || r == RiskHigh
}

// Posture is a behavioral stance shaping answer-prompt guidance.
type Posture string

const (
	PostureExplainer   Posture = "explainer"
	PostureTriager     Posture = "triager"
	PostureRiskManager Posture = "risk_manager"
	PostureOptimizer   Posture = "optimizer"
)

func Postures() []Posture {
	return []Posture{PostureExplainer, PostureTriager, PostureRiskManager, PostureOptimizer}
}

func (p Posture) Valid() bool {
	for _, v := range Postures() {
		if p == v {
			return true
		}
	}
	return false
}

// Prioritized keyword rules, scanned in declaration order against the
// lower-cased message with plain substring containment. No stemming and no
// word-boundary checks: a term embedded inside a longer word still matches.
// The high list is scanned before the medium list; first match wins.
var highRiskKeywords = []string{
	"fire",
	"smoke",
	"sparking",
	"burning smell",
	"gas leak",
	"smell gas",
	"carbon monoxide",
	"shock",
	"electrocut",
	"exposed wire",
	"breaker trip",
	"foundation crack",
	"wall crack",
	"sagging",
	"collapse",
	"structural",
	"mold",
	"flood",
	"sewage backup",
}

var mediumRiskKeywords = []string{
	"leak",
	"drip",
	"no heat",
	"no hot water",
	"furnace",
	"ac not",
	"hvac",
	"sewer",
	"clog",
	"pest",
	"termite",
	"rodent",
}

// ClassifyRisk scans the high-risk keyword list, then the medium list, against
// the lower-cased message. Returns on the first match; falls through to low.
func ClassifyRisk(message string) RiskLevel {
	lowered := strings.ToLower(message)

	for _, kw := range highRiskKeywords {
		if strings.Contains(lowered, kw) {
			return RiskHigh
		}
	}
	for _, kw := range mediumRiskKeywords {
		if strings.Contains(lowered, kw) {
			return RiskMedium
		}
	}
	return RiskLow
}

// PosturesForRisk is a total deterministic mapping from risk to postures.
// Unrecognized values map to the explainer posture.
func PosturesForRisk(risk RiskLevel) []Posture {
	switch risk {
	case RiskHigh:
		return []Posture{PostureTriager, PostureRiskManager}
	case RiskMedium:
		return []Posture{PostureExplainer, PostureRiskManager}
	case RiskLow:
		return []Posture{PostureExplainer}
	default:
		return []Posture{PostureExplainer}
	}
}
