package engines

import (
	"strings"

	"underwriting-engine/internal/models"
)

var baseExclusions = []string{
	"Standard suicide clause",
	"War and terrorism exclusion",
}

// CalculateLoading is the Loading Engine (component C): a table-driven classifier over critical
// alerts, abnormal values, lab-result categories, then lifestyle factors, aggregated by the
// severity-weighted combiner in §4.C.
func CalculateLoading(a models.Applicant, extracted models.ExtractedMedical, findings models.MedicalFindings) models.LoadingResult {
	var conditions []condition

	for _, report := range extracted.Reports {
		if !report.ExtractionSuccessful {
			continue
		}
		haystack := append(append([]string{}, report.CriticalAlerts...), report.AbnormalValues...)
		for _, v := range report.LabResults {
			haystack = append(haystack, v.Value)
		}
		text := strings.Join(haystack, " | ")

		if c, ok := matchHbA1c(text); ok {
			conditions = append(conditions, c)
		}
		if c, ok := matchBloodPressure(text); ok {
			conditions = append(conditions, c)
		}
		if c, ok := matchHemoglobin(text, a.Gender); ok {
			conditions = append(conditions, c)
		}
		if c, ok := matchLiverEnzymes(text); ok {
			conditions = append(conditions, c)
		}
		if c, ok := matchCholesterol(text); ok {
			conditions = append(conditions, c)
		}
		if c, ok := matchThyroid(text); ok {
			conditions = append(conditions, c)
		}
		if c, ok := matchKidneyFunction(text); ok {
			conditions = append(conditions, c)
		}
		if c, ok := matchCardiacAbnormality(text); ok {
			conditions = append(conditions, c)
		}
		if c, ok := matchMetabolic(text); ok {
			conditions = append(conditions, c)
		}
		if c, ok := matchBloodSugar(text); ok {
			conditions = append(conditions, c)
		}
		if c, ok := matchWBC(text); ok {
			conditions = append(conditions, c)
		}
	}

	if c, ok := bmiLoading(a.BMI()); ok {
		conditions = append(conditions, c)
	}
	if a.Lifestyle.Smoker {
		if c, ok := smokingLoading(a.Lifestyle.CigarettesPerDay); ok {
			conditions = append(conditions, c)
		}
	}
	if c, ok := alcoholLoading(a.Lifestyle.AlcoholUnitsPerWeek); ok {
		conditions = append(conditions, c)
	}

	total := combineLoadings(conditions)
	total *= ageFactor(a.Age)
	total = clampLoading(total)

	criticalCount := len(findings.CriticalAlerts)
	abnormalCount := len(findings.AbnormalValues)
	normalCount := len(findings.NormalValues)

	result := models.LoadingResult{
		TotalLoadingPct: total,
		CriticalCount:   criticalCount,
		AbnormalCount:   abnormalCount,
		NormalCount:     normalCount,
		RiskCategory:    riskCategoryFor(total, criticalCount),
	}

	for _, c := range conditions {
		result.Individual = append(result.Individual, models.MedicalLoading{
			Condition:              c.name,
			LoadingPct:              c.loadingPct,
			Severity:                c.severity,
			Type:                    c.loadType,
			Reasoning:               c.reasoning,
			AffectsCriticalIllness:  c.affectsCI,
			AffectsTermLife:         c.affectsTL,
			AffectsDisability:       c.affectsDI,
		})
	}

	result.OverallHealthScore = healthScore(total, normalCount, abnormalCount, criticalCount)
	result.Recommendations, result.Exclusions, result.RequiresAdditionalTests = recommendationsAndExclusions(conditions)

	return result
}

// combineLoadings implements the §4.C severity-weighted combiner, before the age multiplier.
func combineLoadings(conditions []condition) float64 {
	groups := map[models.Severity][]float64{}
	for _, c := range conditions {
		groups[c.severity] = append(groups[c.severity], c.loadingPct)
	}

	hasCritical := len(groups[models.SeverityCritical]) > 0
	hasSevere := len(groups[models.SeveritySevere]) > 0
	hasModerate := len(groups[models.SeverityModerate]) > 0

	total := 0.0

	if hasCritical {
		maxV, rest := maxAndRestSum(groups[models.SeverityCritical])
		total += maxV + 0.5*rest
	}

	if hasSevere {
		maxV, rest := maxAndRestSum(groups[models.SeveritySevere])
		if !hasCritical {
			total += maxV + 0.4*rest
		} else {
			total += 0.3 * sum(groups[models.SeveritySevere])
			_ = maxV
		}
	}

	if hasModerate {
		s := sum(groups[models.SeverityModerate])
		if !hasCritical && !hasSevere {
			maxV, rest := maxAndRestSum(groups[models.SeverityModerate])
			total += maxV + 0.3*rest
		} else {
			total += 0.2 * s
		}
	}

	if len(groups[models.SeverityMild]) > 0 {
		total += 0.2 * sum(groups[models.SeverityMild])
	}

	return total
}

func maxAndRestSum(values []float64) (max float64, restSum float64) {
	if len(values) == 0 {
		return 0, 0
	}
	max = values[0]
	for _, v := range values[1:] {
		if v > max {
			max = v
		}
	}
	total := sum(values)
	restSum = total - max
	return max, restSum
}

func sum(values []float64) float64 {
	s := 0.0
	for _, v := range values {
		s += v
	}
	return s
}

func clampLoading(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 300 {
		return 300
	}
	return v
}

func riskCategoryFor(total float64, criticalCount int) models.RiskCategory {
	switch {
	case total > 200 || criticalCount > 2:
		return models.CategoryHighRisk
	case total > 100 || criticalCount > 0:
		return models.CategoryModerateRisk
	case total > 50:
		return models.CategoryStandardPlus
	case total > 0:
		return models.CategoryStandard
	default:
		return models.CategoryPreferred
	}
}

func healthScore(total float64, normal, abnormal, critical int) float64 {
	if total == 0 {
		return 1.0
	}
	score := (float64(normal)/total)*0.9 + 0.1 - 0.3*(float64(abnormal)/total) - 0.6*(float64(critical)/total)
	return clamp01(score)
}

func recommendationsAndExclusions(conditions []condition) (recommendations, exclusions []string, requiresTests bool) {
	exclusions = append(exclusions, baseExclusions...)
	seen := map[string]bool{}
	for _, e := range exclusions {
		seen[e] = true
	}

	for _, c := range conditions {
		lower := strings.ToLower(c.name)
		high := c.severity == models.SeveritySevere || c.severity == models.SeverityCritical
		switch {
		case strings.Contains(lower, "diabetes"):
			recommendations = append(recommendations, "Regular glycemic monitoring recommended")
			if high {
				add(&exclusions, seen, "Diabetes-related complications exclusion for Critical Illness coverage")
				requiresTests = true
			}
		case strings.Contains(lower, "hypertension"):
			recommendations = append(recommendations, "Cardiovascular risk monitoring recommended")
			if high {
				add(&exclusions, seen, "Cardiac-related complications exclusion for Critical Illness coverage")
				requiresTests = true
			}
		case strings.Contains(lower, "liver"):
			recommendations = append(recommendations, "Hepatic function follow-up recommended")
			if high {
				add(&exclusions, seen, "Liver disease complications exclusion for Critical Illness coverage")
				requiresTests = true
			}
		case strings.Contains(lower, "kidney"):
			recommendations = append(recommendations, "Nephrology follow-up recommended")
			if high {
				add(&exclusions, seen, "Kidney disease exclusion")
				requiresTests = true
			}
		case strings.Contains(lower, "cardiac"):
			recommendations = append(recommendations, "Cardiology evaluation and annual ECG recommended")
			if c.severity == models.SeverityCritical {
				add(&exclusions, seen, "Pre-existing cardiac condition exclusion")
				requiresTests = true
			}
		case strings.Contains(lower, "cholesterol"):
			recommendations = append(recommendations, "Lipid panel follow-up recommended")
		case strings.Contains(lower, "thyroid"):
			recommendations = append(recommendations, "Endocrinology follow-up recommended")
		case strings.Contains(lower, "anemia"):
			recommendations = append(recommendations, "Hematology follow-up recommended")
		case strings.Contains(lower, "white blood cells"):
			recommendations = append(recommendations, "Hematology follow-up recommended")
		case strings.Contains(lower, "obesity"), strings.Contains(lower, "overweight"):
			recommendations = append(recommendations, "Weight management program recommended")
		case strings.Contains(lower, "smoking"):
			recommendations = append(recommendations, "Smoking cessation program recommended")
		case strings.Contains(lower, "alcohol"):
			recommendations = append(recommendations, "Alcohol moderation counseling recommended")
		}
	}

	return recommendations, exclusions, requiresTests
}

func add(list *[]string, seen map[string]bool, item string) {
	if seen[item] {
		return
	}
	seen[item] = true
	*list = append(*list, item)
}
