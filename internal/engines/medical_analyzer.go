// Package engines holds the three deterministic, pure-function components of the pipeline:
// the Medical Analyzer, the Risk Engine, and the Loading Engine.
package engines

import (
	"regexp"
	"strconv"
	"strings"

	"underwriting-engine/internal/models"
)

var (
	randomGlucosePattern  = regexp.MustCompile(`(?i)random\s*blood\s*sugar[^0-9]*([\d.]+)`)
	fastingGlucosePattern = regexp.MustCompile(`(?i)fasting\s*glucose[^0-9]*([\d.]+)`)
	hemoglobinPattern     = regexp.MustCompile(`(?i)hemoglobin[^0-9]*([\d.]+)`)
	wbcPattern            = regexp.MustCompile(`(?i)\bwbc\b[^0-9]*([\d,.]+)`)
)

// AnalyzeMedical walks every successfully-extracted report and produces MedicalFindings.
// It is a pure function: it never fails, tolerating missing fields by skipping them.
func AnalyzeMedical(extracted models.ExtractedMedical) models.MedicalFindings {
	findings := models.MedicalFindings{}

	for _, report := range extracted.Reports {
		if !report.ExtractionSuccessful {
			continue
		}
		findings.NormalValues = append(findings.NormalValues, report.NormalValues...)
		findings.AbnormalValues = append(findings.AbnormalValues, report.AbnormalValues...)
		findings.CriticalAlerts = append(findings.CriticalAlerts, report.CriticalAlerts...)

		haystack := report.NormalValues
		haystack = append(haystack, report.AbnormalValues...)
		haystack = append(haystack, report.CriticalAlerts...)
		for _, v := range report.LabResults {
			haystack = append(haystack, v.Value)
		}
		text := strings.Join(haystack, " | ")

		if v, ok := firstFloatMatch(randomGlucosePattern, text); ok && v > 180 {
			findings.RiskFactors = append(findings.RiskFactors, "high_blood_sugar")
		}
		if v, ok := firstFloatMatch(fastingGlucosePattern, text); ok && v > 126 {
			findings.RiskFactors = append(findings.RiskFactors, "diabetes_risk")
		}
		if v, ok := firstFloatMatch(hemoglobinPattern, text); ok && v < 10 {
			findings.RiskFactors = append(findings.RiskFactors, "anemia")
		}
		if v, ok := firstFloatMatch(wbcPattern, text); ok && v > 15000 {
			findings.RiskFactors = append(findings.RiskFactors, "infection_inflammation")
		}
	}

	findings.RiskScore = calculateMedicalRiskScore(findings)
	return findings
}

// calculateMedicalRiskScore applies a penalty-weighted clamp formula.
func calculateMedicalRiskScore(f models.MedicalFindings) float64 {
	score := 0.8
	hasRiskFactor := func(name string) bool {
		for _, rf := range f.RiskFactors {
			if rf == name {
				return true
			}
		}
		return false
	}
	if hasRiskFactor("high_blood_sugar") || hasRiskFactor("diabetes_risk") {
		score -= 0.15
	}
	for _, a := range f.AbnormalValues {
		if strings.Contains(strings.ToLower(a), "cardiac") {
			score -= 0.25
			break
		}
	}
	if hasRiskFactor("anemia") {
		score -= 0.10
	}
	if hasRiskFactor("infection_inflammation") {
		score -= 0.05
	}
	score -= 0.20 * float64(len(f.CriticalAlerts))

	if score < 0 {
		return 0
	}
	if score > 1 {
		return 1
	}
	return score
}

func firstFloatMatch(re *regexp.Regexp, text string) (float64, bool) {
	m := re.FindStringSubmatch(text)
	if m == nil {
		return 0, false
	}
	cleaned := strings.ReplaceAll(m[1], ",", "")
	v, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}
