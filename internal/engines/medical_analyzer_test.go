package engines

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"underwriting-engine/internal/models"
)

func TestAnalyzeMedical_SkipsFailedExtractions(t *testing.T) {
	extracted := models.ExtractedMedical{
		Reports: []models.ReportRecord{
			{ExtractionSuccessful: false, AbnormalValues: []string{"should be ignored"}},
			{ExtractionSuccessful: true, NormalValues: []string{"Hemoglobin: 14.0 g/dL"}},
		},
	}

	findings := AnalyzeMedical(extracted)

	assert.Empty(t, findings.AbnormalValues, "a failed extraction should contribute no abnormal values")
	assert.Len(t, findings.NormalValues, 1)
}

func TestAnalyzeMedical_RiskFactorsFromLabText(t *testing.T) {
	extracted := models.ExtractedMedical{
		Reports: []models.ReportRecord{
			{
				ExtractionSuccessful: true,
				AbnormalValues:       []string{"Fasting Glucose 140 mg/dL", "Hemoglobin 9.1 g/dL"},
			},
		},
	}

	findings := AnalyzeMedical(extracted)

	assert.Contains(t, findings.RiskFactors, "diabetes_risk")
	assert.Contains(t, findings.RiskFactors, "anemia")
}

func TestCalculateMedicalRiskScore_ClampsAtZero(t *testing.T) {
	findings := models.MedicalFindings{
		CriticalAlerts: []string{"a", "b", "c", "d", "e", "f"},
	}
	score := calculateMedicalRiskScore(findings)
	assert.Zero(t, score)
}
