package agents

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"underwriting-engine/internal/models"
)

// PremiumInfo is the Response Parser's (component E) reading of the premium calculator's
// transcript.
type PremiumInfo struct {
	TotalPremium          int
	MedicalLoadingPercent float64
}

var (
	loadingPercentPattern = regexp.MustCompile(`(\d+)%\s*(?:loading|Loading)`)

	totalPremiumPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)=\s*₹([\d,]+)\s*$`),
		regexp.MustCompile(`(?i)\*\*=\s*₹([\d,]+)\*\*`),
		regexp.MustCompile(`(?i)Total Annual Premium.*?₹([\d,]+)`),
		regexp.MustCompile(`(?i)\*\*TOTAL\*\*.*?₹([\d,]+)`),
		regexp.MustCompile(`(?i)₹([\d,]+)\s*per annum`),
		regexp.MustCompile(`(?i)Premium.*?₹([\d,]+)\s*per annum`),
		regexp.MustCompile(`(?i)TOTAL.*?₹([\d,]+)`),
	}
)

// ParsePremium extracts the total premium and loading percentage the pricing specialist
// reported, trying patterns in order of specificity, matching the ordered regex list in §4.E.
func ParsePremium(premiumText string) PremiumInfo {
	info := PremiumInfo{}
	if premiumText == "" {
		return info
	}

	for _, pattern := range totalPremiumPatterns {
		m := pattern.FindStringSubmatch(premiumText)
		if m != nil {
			if v, err := strconv.Atoi(strings.ReplaceAll(m[1], ",", "")); err == nil {
				info.TotalPremium = v
			}
			break
		}
	}

	matches := loadingPercentPattern.FindAllStringSubmatch(premiumText, -1)
	maxLoading := 0
	for _, m := range matches {
		if v, err := strconv.Atoi(m[1]); err == nil && v > maxLoading {
			maxLoading = v
		}
	}
	info.MedicalLoadingPercent = float64(maxLoading)

	return info
}

// ParseDecision extracts the final underwriting decision from the decision maker's transcript,
// cascading through decision-category keyword groups in the order the decision maker's
// prompt presents them.
func ParseDecision(decisionText string, premium PremiumInfo) (models.Decision, models.DecisionDetails) {
	details := models.DecisionDetails{
		ProcessingTimeDays: 1,
		DecisionType:       "auto",
		MedicalLoadingPct:  premium.MedicalLoadingPercent,
		TotalPremium:       premium.TotalPremium,
	}

	upper := strings.ToUpper(decisionText)
	// "UNACCEPTABLE" is a decline keyword; it must not count as an "ACCEPT" approval signal.
	approvalText := strings.ReplaceAll(upper, "UNACCEPTABLE", "")

	var decision models.Decision
	switch {
	case containsAny(approvalText, "APPROVED WITH CONDITIONS", "APPROVED WITH", "APPROVED", "ACCEPT", "COVERAGE GRANTED"):
		switch {
		case containsAny(upper, "APPROVED WITH CONDITIONS", "CONDITIONS", "EXCLUSIONS", "ADDITIONAL REQUIREMENTS"):
			decision = models.DecisionAdditionalRequirements
			details.DecisionType = "additional"
			if strings.Contains(decisionText, "7–14") || strings.Contains(decisionText, "7-14") {
				details.ProcessingTimeDays = 10
			} else {
				details.ProcessingTimeDays = 7
			}
		case containsAny(upper, "MANUAL REVIEW", "MODERATE PREMIUM LOADING"):
			decision = models.DecisionManualReview
			details.DecisionType = "manual"
			details.ProcessingTimeDays = 3
		default:
			decision = models.DecisionAutoApproved
			details.DecisionType = "auto"
			details.ProcessingTimeDays = 1
		}
	case containsAny(upper, "MANUAL REVIEW", "MANUAL_REVIEW", "REQUIRES MANUAL", "MANUAL UNDERWRITING"):
		decision = models.DecisionManualReview
		details.DecisionType = "manual"
		details.ProcessingTimeDays = 3
	case containsAny(upper, "ADDITIONAL REQUIREMENTS", "MORE INFORMATION", "FURTHER TESTING", "ADDITIONAL MEDICAL"):
		decision = models.DecisionAdditionalRequirements
		details.DecisionType = "additional"
		details.ProcessingTimeDays = 7
	case containsAny(upper, "DECLINE", "DECLINED", "REJECT", "UNACCEPTABLE", "DENY"):
		decision = models.DecisionDeclined
		details.DecisionType = "declined"
		details.ProcessingTimeDays = 2
	default:
		decision = models.DecisionManualReview
		details.DecisionType = "manual"
		details.ProcessingTimeDays = 3
	}
	details.Decision = decision

	lower := strings.ToLower(decisionText)
	if strings.Contains(lower, "diabetes") && strings.Contains(lower, "exclusion") {
		details.Exclusions = append(details.Exclusions, "Diabetes-related complications exclusion for Critical Illness")
	}

	return decision, details
}

func containsAny(haystack string, needles ...string) bool {
	for _, n := range needles {
		if strings.Contains(haystack, n) {
			return true
		}
	}
	return false
}

// BuildReasoning assembles the reasoning trail shown on the final report: up to two key lines
// quoted from the decision maker transcript, plus fixed summary sentences when the medical
// reviewer or fraud detector transcripts mention concerns, falling back to a synthesized
// summary when none of these yields anything.
func BuildReasoning(decision models.Decision, details models.DecisionDetails, assessment models.RiskAssessment, findings models.MedicalFindings, transcripts models.AgentTranscript) []string {
	var reasoning []string

	decisionResponse := transcripts[models.StageFinalDecision]
	medicalResponse := transcripts[models.StageMedicalReview]
	fraudResponse := transcripts[models.StageFraudDetection]

	if decisionResponse != "" {
		var keyPoints []string
		for _, line := range strings.Split(decisionResponse, "\n") {
			line = strings.TrimSpace(line)
			if line == "" {
				continue
			}
			if containsAny(strings.ToUpper(line), "DECISION", "RECOMMENDATION", "CONCLUSION", "RATIONALE") {
				keyPoints = append(keyPoints, line)
			}
		}
		if len(keyPoints) > 2 {
			keyPoints = keyPoints[:2]
		}
		reasoning = append(reasoning, keyPoints...)
	}

	lowerMedical := strings.ToLower(medicalResponse)
	if medicalResponse != "" && (strings.Contains(lowerMedical, "abnormal") || strings.Contains(lowerMedical, "concern")) {
		reasoning = append(reasoning, "Medical review identified specific concerns requiring attention")
	}

	lowerFraud := strings.ToLower(fraudResponse)
	switch {
	case fraudResponse == "":
	case strings.Contains(lowerFraud, "low risk"):
		reasoning = append(reasoning, "Fraud analysis indicates low risk profile")
	case strings.Contains(lowerFraud, "verification"):
		reasoning = append(reasoning, "Additional verification recommended based on fraud analysis")
	}

	if len(reasoning) == 0 {
		reasoning = []string{
			fmt.Sprintf("Decision: %s (from Agent Analysis)", decisionTitle(decision)),
			fmt.Sprintf("Risk Score: %.3f", assessment.RiskScore),
			fmt.Sprintf("Medical Findings: %d abnormal, %d critical", len(findings.AbnormalValues), len(findings.CriticalAlerts)),
			fmt.Sprintf("Processing: %s review - %d days", titleCase(details.DecisionType), details.ProcessingTimeDays),
		}
		if details.TotalPremium > 0 {
			reasoning = append(reasoning, fmt.Sprintf("Total Premium: ₹%s (from Agent Calculation)", formatThousands(details.TotalPremium)))
		}
	}

	return reasoning
}

func decisionTitle(d models.Decision) string {
	words := strings.Split(strings.ToLower(string(d)), "_")
	for i, w := range words {
		if w == "" {
			continue
		}
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}

func titleCase(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

func formatThousands(n int) string {
	s := strconv.Itoa(n)
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
