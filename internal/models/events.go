package models

import "time"

// EventStatus is a WorkflowEvent's lifecycle phase.
type EventStatus string

const (
	StatusPending   EventStatus = "PENDING"
	StatusActive    EventStatus = "ACTIVE"
	StatusCompleted EventStatus = "COMPLETED"
	StatusError     EventStatus = "ERROR"
)

// Agent display names used on the wire.
const (
	AgentMedicalAnalyzer  = "MedicalAnalyzer"
	AgentRiskAssessmentML = "RiskAssessmentML"
	AgentMedicalReviewer  = "MedicalReviewer"
	AgentFraudDetector    = "FraudDetector"
	AgentRiskAssessor     = "RiskAssessor"
	AgentPremiumCalc      = "PremiumCalculator"
	AgentDecisionMaker    = "DecisionMaker"
	AgentReportGenerator  = "ReportGenerator"
	AgentSystem           = "System"
)

// WorkflowEvent is one entry on a workflow's event bus.
type WorkflowEvent struct {
	EventID   string                 `json:"event_id"`
	Timestamp time.Time              `json:"timestamp"`
	AgentName string                 `json:"agent_name"`
	AgentRole string                 `json:"agent_role"`
	Status    EventStatus            `json:"status"`
	Message   string                 `json:"message"`
	Analysis  string                 `json:"analysis,omitempty"`
	Metadata  map[string]interface{} `json:"metadata"`
}
