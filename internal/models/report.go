package models

import "time"

// Decision is the final categorical underwriting outcome.
type Decision string

const (
	DecisionAutoApproved          Decision = "AUTO_APPROVED"
	DecisionManualReview          Decision = "MANUAL_REVIEW"
	DecisionAdditionalRequirements Decision = "ADDITIONAL_REQUIREMENTS"
	DecisionDeclined              Decision = "DECLINED"

	// DecisionError marks a partial report filed after an agent stage failed outright: no
	// final decision was ever reached, but the stages that did complete are still on record.
	DecisionError Decision = "ERROR"
)

// Stage names the five agent stages, in fixed pipeline order.
type Stage string

const (
	StageMedicalReview      Stage = "medical_review"
	StageFraudDetection     Stage = "fraud_detection"
	StageRiskAssessment     Stage = "risk_assessment"
	StagePremiumCalculation Stage = "premium_calculation"
	StageFinalDecision      Stage = "final_decision"
)

// AgentWorkflowOrder is the fixed, single-writer-per-stage agent call sequence.
var AgentWorkflowOrder = []Stage{
	StageMedicalReview,
	StageFraudDetection,
	StageRiskAssessment,
	StagePremiumCalculation,
	StageFinalDecision,
}

// AgentTranscript maps each stage to the raw text its LLM call produced.
type AgentTranscript map[Stage]string

// DecisionDetails is derived from parsing the final_decision and premium_calculation texts.
type DecisionDetails struct {
	Decision             Decision `json:"decision"`
	DecisionType         string   `json:"decisionType"`
	ProcessingTimeDays   int      `json:"processingTimeDays"`
	TotalPremium         int      `json:"totalPremium"`
	MedicalLoadingPct    float64  `json:"medicalLoadingPercentage"`
	Conditions           []string `json:"conditions"`
	Exclusions           []string `json:"exclusions"`
}

// PremiumCalculation is the final, per-coverage premium figure.
type PremiumCalculation struct {
	CoverType       string           `json:"coverType"`
	BasePremium     float64          `json:"basePremium"`
	FinalPremium    float64          `json:"finalPremium"`
	TotalLoadingPct float64          `json:"totalLoadingPct"`
	Loadings        []MedicalLoading `json:"loadings"`
}

// UnderwritingReport is the terminal, per-workflow output.
type UnderwritingReport struct {
	ApplicationID   string    `json:"applicationId"`
	ApplicantName   string    `json:"applicantName"`
	FinalDecision   Decision  `json:"finalDecision"`
	ConfidenceScore float64   `json:"confidenceScore"`

	Assessment RiskAssessment  `json:"riskAssessment"`
	Findings   MedicalFindings `json:"medicalFindings"`
	Loading    LoadingResult   `json:"loadingResult"`

	Premiums   []PremiumCalculation `json:"premiums"`
	Conditions []string             `json:"conditions"`
	Exclusions []string             `json:"exclusions"`
	Reasoning  []string             `json:"reasoning"`

	Timestamp time.Time       `json:"timestamp"`
	Agents    AgentTranscript `json:"agentTranscript"`
}

// TotalFinalPremium sums FinalPremium across all coverages, used for dashboard/report denormalization.
func (r UnderwritingReport) TotalFinalPremium() float64 {
	total := 0.0
	for _, p := range r.Premiums {
		total += p.FinalPremium
	}
	return total
}
