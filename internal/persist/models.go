// Package persist is the Persistence Adapter (component I): it stores workflow results, agent
// results, and comprehensive reports as JSON-blob documents partitioned by application ID,
// with a set of denormalized columns for querying without deserializing the blob.
package persist

import (
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// WorkflowResultDoc is one complete workflow outcome, keyed by application_id the way the
// original Cosmos DB container partitioned documents.
type WorkflowResultDoc struct {
	ID            string    `gorm:"primaryKey"`
	ApplicationID string    `gorm:"index"`
	DocumentType  string    `gorm:"index"`
	CreatedAt     time.Time `gorm:"index"`

	ApplicantName    string
	FinalDecision    string `gorm:"index"`
	RiskCategory     string
	TotalFinalPremium float64

	Document string `gorm:"type:text"` // JSON blob of the workflow_result body (events, agent outputs, final report)
}

func (WorkflowResultDoc) TableName() string { return "workflow_results" }

// AgentResultDoc is one agent stage's transcript, stored alongside the workflow it belongs to.
type AgentResultDoc struct {
	ID            string    `gorm:"primaryKey"`
	ApplicationID string    `gorm:"index"`
	DocumentType  string    `gorm:"index"`
	AgentName     string    `gorm:"index"`
	AgentRole     string
	Status        string
	Timestamp     time.Time `gorm:"index"`

	Document string `gorm:"type:text"` // JSON blob of the WorkflowEvent
}

func (AgentResultDoc) TableName() string { return "agent_results" }

// ComprehensiveReportDoc is the dashboard-facing denormalized view of a workflow result,
// kept separate from WorkflowResultDoc so /dashboard-data queries don't deserialize the blob.
type ComprehensiveReportDoc struct {
	ID            string    `gorm:"primaryKey"`
	ApplicationID string    `gorm:"index"`
	CreatedAt     time.Time `gorm:"index"`

	ApplicantName     string
	FinalDecision     string
	RiskCategory      string
	ConfidenceScore   float64
	TotalFinalPremium float64

	Document string `gorm:"type:text"`
}

func (ComprehensiveReportDoc) TableName() string { return "comprehensive_reports" }

// Open connects to a SQLite-backed GORM database at path and migrates every document model.
func Open(path string) (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{})
	if err != nil {
		return nil, err
	}
	if err := db.AutoMigrate(&WorkflowResultDoc{}, &AgentResultDoc{}, &ComprehensiveReportDoc{}); err != nil {
		return nil, err
	}
	return db, nil
}
