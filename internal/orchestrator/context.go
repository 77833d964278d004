// Package orchestrator drives the fixed 5-stage agent pipeline (component G): it calls the
// Medical Analyzer and Risk Engine, then runs the agent stages in order over an Agent Runner,
// streaming WorkflowEvents as it goes, and assembles the terminal UnderwritingReport.
package orchestrator

import (
	"fmt"
	"strconv"
	"strings"

	"underwriting-engine/internal/models"
)

const previousAnalysesMaxChars = 500

// BuildCaseContext renders the initial case brief shown to every agent, mirroring the
// donor-adjacent case-context template (name/age, basic info, key medical data, lifestyle/BMI,
// risk scores, workflow order).
func BuildCaseContext(a models.Applicant, findings models.MedicalFindings, assessment models.RiskAssessment) string {
	var b strings.Builder

	fmt.Fprintf(&b, "🎯 UNDERWRITING CASE: %s (Age: %d)\n\n", safeName(a.Name), a.Age)
	fmt.Fprintf(&b, "📋 BASIC INFO: %s | Income: ₹%s | Coverage: ₹%s\n\n",
		safeName(a.Occupation), formatAmount(a.AnnualIncome), formatAmount(totalSumAssured(a)))

	fmt.Fprintf(&b, "🏥 KEY MEDICAL DATA:\n")
	fmt.Fprintf(&b, "- Critical Alerts: %s\n", safeJoin(limit(findings.CriticalAlerts, 2)))
	fmt.Fprintf(&b, "- Abnormal Findings: %s\n", safeJoin(limit(findings.AbnormalValues, 3)))
	fmt.Fprintf(&b, "- Red Flags: %s\n\n", safeJoin(limit(assessment.RedFlags, 2)))

	smokerText := "Non-smoker"
	if a.Lifestyle.Smoker {
		smokerText = "Smoker"
	}
	exerciseText := a.Lifestyle.ExerciseFrequency
	if exerciseText == "" {
		exerciseText = "Unknown"
	}
	fmt.Fprintf(&b, "💼 LIFESTYLE: %s | BMI: %s | Exercise: %s\n\n", smokerText, bmiWithCategory(a), exerciseText)

	fmt.Fprintf(&b, "📊 ML RISK SCORES:\n")
	fmt.Fprintf(&b, "- Overall Risk: %s (%.3f)\n", strings.ToUpper(string(assessment.OverallLevel)), assessment.RiskScore)
	fmt.Fprintf(&b, "- Medical: %.3f | Lifestyle: %.3f\n", assessment.MedicalRisk, assessment.LifestyleRisk)
	fmt.Fprintf(&b, "- Financial: %.3f | Occupational: %.3f\n\n", assessment.FinancialRisk, assessment.OccupationRisk)

	fmt.Fprintf(&b, "🎯 WORKFLOW: Medical Review → Fraud Detection → Risk Assessment → Premium Calculation → Final Decision")

	return b.String()
}

// AppendPreviousAnalyses extends a stage's context with every prior stage's transcript,
// truncated to 500 characters each, in fixed workflow order.
func AppendPreviousAnalyses(context string, transcripts models.AgentTranscript) string {
	if len(transcripts) == 0 {
		return context
	}
	var b strings.Builder
	b.WriteString(context)
	b.WriteString("\n\n📋 PREVIOUS AGENT ANALYSES:\n")
	for _, stage := range models.AgentWorkflowOrder {
		analysis, ok := transcripts[stage]
		if !ok {
			continue
		}
		b.WriteString("\n")
		b.WriteString(strings.ToUpper(strings.ReplaceAll(string(stage), "_", " ")))
		b.WriteString(":\n")
		b.WriteString(truncate(analysis, previousAnalysesMaxChars))
		b.WriteString("...\n")
	}
	return b.String()
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}

func safeJoin(items []string) string {
	if len(items) == 0 {
		return "None"
	}
	return strings.Join(items, ", ")
}

func limit(items []string, n int) []string {
	if len(items) <= n {
		return items
	}
	return items[:n]
}

func safeName(s string) string {
	if s == "" {
		return "Unknown"
	}
	return s
}

func totalSumAssured(a models.Applicant) float64 {
	total := 0.0
	for _, c := range a.Coverages {
		total += c.SumAssured
	}
	return total
}

func formatAmount(v float64) string {
	n := int64(v)
	s := strconv.FormatInt(n, 10)
	if len(s) <= 3 {
		return s
	}
	var parts []string
	for len(s) > 3 {
		parts = append([]string{s[len(s)-3:]}, parts...)
		s = s[:len(s)-3]
	}
	parts = append([]string{s}, parts...)
	return strings.Join(parts, ",")
}

func bmiWithCategory(a models.Applicant) string {
	if a.Physical.HeightCM <= 0 || a.Physical.WeightKG <= 0 {
		return "Unknown (height/weight missing)"
	}
	bmi := a.BMI()
	category := "Obese"
	switch {
	case bmi < 18.5:
		category = "Underweight"
	case bmi < 25:
		category = "Normal"
	case bmi < 30:
		category = "Overweight"
	}
	return fmt.Sprintf("%.1f (%s)", bmi, category)
}
