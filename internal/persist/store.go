package persist

import (
	"encoding/json"
	"fmt"
	"time"

	"gorm.io/gorm"

	"underwriting-engine/internal/models"
)

// Store is the Persistence Adapter's query/write surface over the document tables.
type Store struct {
	db *gorm.DB
}

func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

// workflowResultBody is the "workflow_result" document shape: the event stream plus per-stage
// agent outputs alongside the final decision.
type workflowResultBody struct {
	WorkflowID          string                    `json:"workflow_id"`
	ApplicantName       string                    `json:"applicant_name"`
	Status              string                    `json:"status"`
	ProcessingTimestamp time.Time                 `json:"processing_timestamp"`
	Events              []models.WorkflowEvent    `json:"events"`
	AgentOutputs        models.AgentTranscript    `json:"agent_outputs"`
	FinalDecision       models.UnderwritingReport `json:"final_decision"`
}

// StoreWorkflow persists a completed workflow's event stream and agent outputs as a "workflow_result"
// document, then mirrors the full report into the dashboard-facing "comprehensive_report" table.
func (s *Store) StoreWorkflow(workflowID string, report models.UnderwritingReport, events []models.WorkflowEvent) error {
	now := time.Now()

	body, err := json.Marshal(workflowResultBody{
		WorkflowID:          workflowID,
		ApplicantName:       report.ApplicantName,
		Status:              "completed",
		ProcessingTimestamp: now,
		Events:              events,
		AgentOutputs:        report.Agents,
		FinalDecision:       report,
	})
	if err != nil {
		return err
	}

	doc := WorkflowResultDoc{
		ID:                fmt.Sprintf("%s_%s", report.ApplicationID, now.Format("20060102150405")),
		ApplicationID:     report.ApplicationID,
		DocumentType:      "workflow_result",
		CreatedAt:         now,
		ApplicantName:     report.ApplicantName,
		FinalDecision:     string(report.FinalDecision),
		RiskCategory:      string(report.Loading.RiskCategory),
		TotalFinalPremium: report.TotalFinalPremium(),
		Document:          string(body),
	}
	if err := s.db.Create(&doc).Error; err != nil {
		return err
	}

	return s.StoreReport(report)
}

// StoreReport persists a "comprehensive_report" document, denormalized for dashboard queries
// without needing to deserialize the blob.
func (s *Store) StoreReport(report models.UnderwritingReport) error {
	body, err := json.Marshal(report)
	if err != nil {
		return err
	}

	now := time.Now()
	comprehensive := ComprehensiveReportDoc{
		ID:                fmt.Sprintf("report_%s_%s", report.ApplicationID, now.Format("20060102150405")),
		ApplicationID:     report.ApplicationID,
		CreatedAt:         now,
		ApplicantName:     report.ApplicantName,
		FinalDecision:     string(report.FinalDecision),
		RiskCategory:      string(report.Loading.RiskCategory),
		ConfidenceScore:   report.ConfidenceScore,
		TotalFinalPremium: report.TotalFinalPremium(),
		Document:          string(body),
	}
	return s.db.Create(&comprehensive).Error
}

// StoreAgentResult persists one agent stage's event as its own document, for per-agent
// auditability independent of the final report.
func (s *Store) StoreAgentResult(applicationID string, evt models.WorkflowEvent) error {
	body, err := json.Marshal(evt)
	if err != nil {
		return err
	}
	doc := AgentResultDoc{
		ID:            fmt.Sprintf("%s_%s_%s", applicationID, evt.AgentName, evt.Timestamp.Format("20060102150405.000")),
		ApplicationID: applicationID,
		DocumentType:  "agent_result",
		AgentName:     evt.AgentName,
		AgentRole:     evt.AgentRole,
		Status:        string(evt.Status),
		Timestamp:     evt.Timestamp,
		Document:      string(body),
	}
	return s.db.Create(&doc).Error
}

// GetReport returns the most recent workflow result for an application ID, if any.
func (s *Store) GetReport(applicationID string) (*models.UnderwritingReport, error) {
	var doc WorkflowResultDoc
	err := s.db.Where("application_id = ? AND document_type = ?", applicationID, "workflow_result").
		Order("created_at desc").First(&doc).Error
	if err != nil {
		return nil, err
	}
	var body workflowResultBody
	if err := json.Unmarshal([]byte(doc.Document), &body); err != nil {
		return nil, err
	}
	return &body.FinalDecision, nil
}

// GetAllReportsForApplication returns every stored workflow result for an application ID,
// newest first.
func (s *Store) GetAllReportsForApplication(applicationID string, limit int) ([]models.UnderwritingReport, error) {
	var docs []WorkflowResultDoc
	q := s.db.Where("application_id = ? AND document_type = ?", applicationID, "workflow_result").
		Order("created_at desc")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&docs).Error; err != nil {
		return nil, err
	}
	return decodeReports(docs)
}

// GetAllReports returns the most recent report per application ID across the whole store,
// for the dashboard's cross-partition listing.
func (s *Store) GetAllReports(limit int) ([]models.UnderwritingReport, error) {
	var docs []WorkflowResultDoc
	q := s.db.Where("document_type = ?", "workflow_result").
		Order("application_id, created_at desc")
	if err := q.Find(&docs).Error; err != nil {
		return nil, err
	}

	seen := map[string]bool{}
	var latest []WorkflowResultDoc
	for _, d := range docs {
		if seen[d.ApplicationID] {
			continue
		}
		seen[d.ApplicationID] = true
		latest = append(latest, d)
	}
	if limit > 0 && len(latest) > limit {
		latest = latest[:limit]
	}
	return decodeReports(latest)
}

// GetAgentResults returns an application's agent-result events, optionally filtered to one
// agent name, newest first.
func (s *Store) GetAgentResults(applicationID, agentName string) ([]models.WorkflowEvent, error) {
	q := s.db.Where("application_id = ? AND document_type = ?", applicationID, "agent_result").
		Order("timestamp desc")
	if agentName != "" {
		q = q.Where("agent_name = ?", agentName)
	}
	var docs []AgentResultDoc
	if err := q.Find(&docs).Error; err != nil {
		return nil, err
	}
	var events []models.WorkflowEvent
	for _, d := range docs {
		var evt models.WorkflowEvent
		if err := json.Unmarshal([]byte(d.Document), &evt); err != nil {
			continue
		}
		events = append(events, evt)
	}
	return events, nil
}

func decodeReports(docs []WorkflowResultDoc) ([]models.UnderwritingReport, error) {
	var reports []models.UnderwritingReport
	for _, d := range docs {
		var body workflowResultBody
		if err := json.Unmarshal([]byte(d.Document), &body); err != nil {
			continue
		}
		reports = append(reports, body.FinalDecision)
	}
	return reports, nil
}
