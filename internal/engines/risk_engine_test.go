package engines

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"underwriting-engine/internal/models"
)

func baseApplicant() models.Applicant {
	return models.Applicant{
		ApplicationID: "APP-1",
		Name:          "Test Applicant",
		Age:           40,
		AnnualIncome:  100000,
		Coverages:     []models.Coverage{{CoverType: models.CoverTermLife, SumAssured: 200000}},
		Physical:      models.Physical{HeightCM: 175, WeightKG: 70},
	}
}

func TestAssessRisk_LowForCleanApplicant(t *testing.T) {
	assessment := AssessRisk(baseApplicant(), models.MedicalFindings{RiskScore: 0.9})
	assert.Equal(t, models.RiskLow, assessment.OverallLevel)
}

func TestAssessRisk_HighOnCriticalAlert(t *testing.T) {
	findings := models.MedicalFindings{RiskScore: 0.9, CriticalAlerts: []string{"Severe cardiac abnormality"}}
	assessment := AssessRisk(baseApplicant(), findings)
	assert.Equal(t, models.RiskHigh, assessment.OverallLevel)
	assert.NotEmpty(t, assessment.RedFlags, "expected at least one red flag for a critical alert")
}

func TestAssessRisk_FinancialRiskCapped(t *testing.T) {
	a := baseApplicant()
	a.AnnualIncome = 1000
	a.Coverages = []models.Coverage{{CoverType: models.CoverTermLife, SumAssured: 1000000}}
	assessment := AssessRisk(a, models.MedicalFindings{RiskScore: 1.0})
	assert.LessOrEqual(t, assessment.FinancialRisk, 0.5)
}

func TestAssessRisk_SmokerRedFlag(t *testing.T) {
	a := baseApplicant()
	a.Lifestyle.Smoker = true
	assessment := AssessRisk(a, models.MedicalFindings{RiskScore: 0.9})
	assert.Contains(t, assessment.RedFlags, "Current smoker")
}
