package agents

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"underwriting-engine/internal/models"
)

func TestParsePremium_ExtractsTotalAndLoading(t *testing.T) {
	text := "Base premium calculation with 40% loading applied.\nTotal Annual Premium = ₹16,770"
	info := ParsePremium(text)

	assert.Equal(t, 16770, info.TotalPremium)
	assert.Equal(t, 40.0, info.MedicalLoadingPercent)
}

func TestParsePremium_EmptyTextYieldsZeroValue(t *testing.T) {
	info := ParsePremium("")
	assert.Zero(t, info.TotalPremium)
	assert.Zero(t, info.MedicalLoadingPercent)
}

func TestParseDecision_ApprovedWithConditionsBecomesAdditionalRequirements(t *testing.T) {
	text := "DECISION: APPROVED WITH CONDITIONS. Processing will take 7–14 business days."
	decision, details := ParseDecision(text, PremiumInfo{})

	assert.Equal(t, models.DecisionAdditionalRequirements, decision)
	assert.Equal(t, 10, details.ProcessingTimeDays)
}

func TestParseDecision_DefaultProcessingDaysIsSeven(t *testing.T) {
	text := "DECISION: APPROVED WITH CONDITIONS requiring additional requirements."
	_, details := ParseDecision(text, PremiumInfo{})
	assert.Equal(t, 7, details.ProcessingTimeDays)
}

func TestParseDecision_DeclineKeyword(t *testing.T) {
	decision, details := ParseDecision("This application is DECLINED due to unacceptable risk.", PremiumInfo{})
	assert.Equal(t, models.DecisionDeclined, decision)
	assert.Equal(t, 2, details.ProcessingTimeDays)
}

func TestParseDecision_UnrecognizedTextDefaultsToManualReview(t *testing.T) {
	decision, _ := ParseDecision("No clear signal here.", PremiumInfo{})
	assert.Equal(t, models.DecisionManualReview, decision)
}

func TestBuildReasoning_FallsBackWhenNoQuotableLines(t *testing.T) {
	reasoning := BuildReasoning(models.DecisionAutoApproved, models.DecisionDetails{DecisionType: "auto", ProcessingTimeDays: 1, TotalPremium: 5000},
		models.RiskAssessment{RiskScore: 0.2}, models.MedicalFindings{}, models.AgentTranscript{})

	assert.NotEmpty(t, reasoning, "expected a synthesized fallback reasoning trail")
}
