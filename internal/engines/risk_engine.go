package engines

import (
	"fmt"

	"underwriting-engine/internal/models"
)

// AssessRisk combines applicant demographics/lifestyle/finance with the Medical Analyzer's
// output into a RiskAssessment. Pure function; never fails.
//
// The source exposes a synthetic-data-trained classifier for the composite score; it is not
// reimplemented here (see DESIGN.md Open Question 4) — the composite is the deterministic rule
// below, which every downstream component (C, the agents) re-derives identically anyway.
func AssessRisk(a models.Applicant, findings models.MedicalFindings) models.RiskAssessment {
	medicalRisk := 1 - findings.RiskScore

	lifestyleComposite := 0.8
	if a.Lifestyle.Smoker {
		lifestyleComposite -= 0.3
	}
	if a.Lifestyle.AlcoholUnitsPerWeek > 14 {
		lifestyleComposite -= 0.1
	}
	lifestyleRisk := 1 - lifestyleComposite

	financialRisk := 0.0
	if a.AnnualIncome > 0 {
		sumAssured := totalSumAssured(a)
		financialRisk = sumAssured / (10 * a.AnnualIncome)
		if financialRisk > 0.5 {
			financialRisk = 0.5
		}
	}

	occupationRisk := occupationRiskFor(a.Occupation)

	overall := models.RiskStandard
	switch {
	case medicalRisk <= 0.2 && lifestyleRisk <= 0.2 && len(findings.CriticalAlerts) == 0:
		overall = models.RiskLow
	case medicalRisk >= 0.5 || len(findings.CriticalAlerts) >= 1:
		overall = models.RiskHigh
	}

	riskScore := clamp01((medicalRisk + lifestyleRisk + financialRisk + occupationRisk) / 4)

	var redFlags []string
	for _, alert := range findings.CriticalAlerts {
		redFlags = append(redFlags, "Critical medical alert: "+alert)
	}
	if a.Lifestyle.Smoker {
		redFlags = append(redFlags, "Current smoker")
	}
	bmi := a.BMI()
	if bmi > 30 {
		redFlags = append(redFlags, fmt.Sprintf("High BMI: %.1f", bmi))
	}
	if a.Age > 55 {
		redFlags = append(redFlags, fmt.Sprintf("Advanced age: %d", a.Age))
	}

	var recommendations []string
	if medicalRisk > 0.3 {
		recommendations = append(recommendations, "Consider additional medical underwriting review")
	}
	if lifestyleRisk > 0.3 {
		recommendations = append(recommendations, "Lifestyle modification counseling recommended")
	}
	if len(findings.CriticalAlerts) > 0 {
		recommendations = append(recommendations, "Refer critical findings to medical director")
	}

	return models.RiskAssessment{
		OverallLevel:    overall,
		RiskScore:       riskScore,
		MedicalRisk:     medicalRisk,
		LifestyleRisk:   lifestyleRisk,
		FinancialRisk:   financialRisk,
		OccupationRisk:  occupationRisk,
		RedFlags:        redFlags,
		Recommendations: recommendations,
	}
}

func totalSumAssured(a models.Applicant) float64 {
	total := 0.0
	for _, c := range a.Coverages {
		total += c.SumAssured
	}
	return total
}

func occupationRiskFor(occupation string) float64 {
	switch occupation {
	case "":
		return 0.1
	default:
		return 0.1
	}
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
