package orchestrator

import (
	"context"
	"fmt"
	"log"
	"strings"
	"sync/atomic"
	"time"

	"underwriting-engine/internal/agents"
	"underwriting-engine/internal/config"
	"underwriting-engine/internal/engines"
	"underwriting-engine/internal/models"
	"underwriting-engine/internal/premium"

	gocache "github.com/patrickmn/go-cache"
)

// EventSink receives WorkflowEvents as the orchestrator produces them. Streaming adapters
// (SSE, WebSocket, the in-memory collector) all implement this.
type EventSink interface {
	Emit(models.WorkflowEvent)
}

// noopSink discards events, for callers that only want the final report.
type noopSink struct{}

func (noopSink) Emit(models.WorkflowEvent) {}

// NoopSink is a shared no-op EventSink.
var NoopSink EventSink = noopSink{}

// Persister is the Persistence Adapter's write-after-completion hook (internal/persist.Writer
// satisfies it). Storage failures are logged and never alter the workflow's outcome.
type Persister interface {
	PublishOrStore(workflowID string, report models.UnderwritingReport, events []models.WorkflowEvent) error
}

// teeSink forwards every event to the caller's subscriber while also collecting it for
// final-report persistence.
type teeSink struct {
	inner  EventSink
	events []models.WorkflowEvent
}

func (t *teeSink) Emit(evt models.WorkflowEvent) {
	t.events = append(t.events, evt)
	if t.inner != nil {
		t.inner.Emit(evt)
	}
}

var eventCounter uint64

func nextEventID() string {
	n := atomic.AddUint64(&eventCounter, 1)
	return fmt.Sprintf("evt_%s_%04d", time.Now().Format("20060102150405"), n%10000)
}

func newWorkflowID() string {
	return "wf_" + time.Now().Format("20060102150405")
}

func emit(sink EventSink, agentName, agentRole string, status models.EventStatus, message, analysis string, metadata map[string]interface{}) models.WorkflowEvent {
	evt := models.WorkflowEvent{
		EventID:   nextEventID(),
		Timestamp: time.Now(),
		AgentName: agentName,
		AgentRole: agentRole,
		Status:    status,
		Message:   message,
		Analysis:  analysis,
		Metadata:  metadata,
	}
	if sink != nil {
		sink.Emit(evt)
	}
	return evt
}

// Orchestrator wires the deterministic engines, the Agent Runner, and the in-process
// active-workflow registry (discarded after termination).
type Orchestrator struct {
	Runner  agents.Runner
	Cfg     *config.Config
	Persist Persister

	active *gocache.Cache
}

// New builds an Orchestrator with a 30-minute active-workflow TTL and 10-minute cleanup sweep.
func New(runner agents.Runner, cfg *config.Config, persist Persister) *Orchestrator {
	return &Orchestrator{
		Runner:  runner,
		Cfg:     cfg,
		Persist: persist,
		active:  gocache.New(30*time.Minute, 10*time.Minute),
	}
}

// agentRoles names the display role string for each agent, per the streaming event shape.
var agentRoles = map[string]string{
	models.AgentMedicalAnalyzer:  "ML Medical Data Analyzer",
	models.AgentRiskAssessmentML: "ML Risk Assessment Engine",
	models.AgentMedicalReviewer:  "Medical Review Specialist",
	models.AgentFraudDetector:    "Fraud Detection Specialist",
	models.AgentRiskAssessor:     "Risk Assessment Specialist",
	models.AgentPremiumCalc:      "Premium Calculation Specialist",
	models.AgentDecisionMaker:    "Senior Underwriting Decision Maker",
	models.AgentReportGenerator:  "Report Generation Engine",
	models.AgentSystem:           "Workflow Orchestrator",
}

// Run drives the full pipeline: medical analysis, risk assessment, the five agent stages in
// fixed order, and report assembly, emitting a WorkflowEvent ACTIVE/COMPLETED pair (or a
// single ERROR) around every step. A failed agent call is terminal for the workflow: a partial
// report (FinalDecision ERROR) holding the stages completed so far is handed to the Persister,
// and the caller gets an empty report plus the error (see DESIGN.md's agent-failure-handling
// decision).
func (o *Orchestrator) Run(ctx context.Context, applicant models.Applicant, extracted models.ExtractedMedical) (string, models.UnderwritingReport, error) {
	workflowID := newWorkflowID()
	report, err := o.run(ctx, workflowID, applicant, extracted, NoopSink)
	return workflowID, report, err
}

// RunStreaming is the same pipeline, emitting every event to sink as it happens.
func (o *Orchestrator) RunStreaming(ctx context.Context, applicant models.Applicant, extracted models.ExtractedMedical, sink EventSink) (string, models.UnderwritingReport, error) {
	workflowID := newWorkflowID()
	report, err := o.run(ctx, workflowID, applicant, extracted, sink)
	return workflowID, report, err
}

func (o *Orchestrator) run(ctx context.Context, workflowID string, applicant models.Applicant, extracted models.ExtractedMedical, subscriber EventSink) (models.UnderwritingReport, error) {
	o.active.Set(workflowID, "running", gocache.DefaultExpiration)
	defer o.active.Delete(workflowID)

	sink := &teeSink{inner: subscriber}

	emit(sink, models.AgentSystem, agentRoles[models.AgentSystem], models.StatusActive,
		fmt.Sprintf("Starting underwriting workflow for %s", applicant.Name), "",
		map[string]interface{}{"workflow_id": workflowID, "application_id": applicant.ApplicationID, "total_agents": len(models.AgentWorkflowOrder)})

	emit(sink, models.AgentMedicalAnalyzer, agentRoles[models.AgentMedicalAnalyzer], models.StatusActive,
		"Analyzing medical data using ML models...", "", nil)
	findings := engines.AnalyzeMedical(extracted)
	emit(sink, models.AgentMedicalAnalyzer, agentRoles[models.AgentMedicalAnalyzer], models.StatusCompleted,
		"Medical data analysis complete",
		fmt.Sprintf("Found %d normal, %d abnormal, %d critical findings", len(findings.NormalValues), len(findings.AbnormalValues), len(findings.CriticalAlerts)),
		map[string]interface{}{
			"normal_count": len(findings.NormalValues), "abnormal_count": len(findings.AbnormalValues),
			"critical_count": len(findings.CriticalAlerts), "risk_score": findings.RiskScore,
		})

	emit(sink, models.AgentRiskAssessmentML, agentRoles[models.AgentRiskAssessmentML], models.StatusActive,
		"Computing risk scores using ML models...", "", nil)
	assessment := engines.AssessRisk(applicant, findings)
	emit(sink, models.AgentRiskAssessmentML, agentRoles[models.AgentRiskAssessmentML], models.StatusCompleted,
		fmt.Sprintf("Risk assessment complete - %s", strings.ToUpper(string(assessment.OverallLevel))),
		fmt.Sprintf("Overall Risk Score: %.3f", assessment.RiskScore),
		map[string]interface{}{
			"risk_level": assessment.OverallLevel, "risk_score": assessment.RiskScore,
			"medical_risk": assessment.MedicalRisk, "lifestyle_risk": assessment.LifestyleRisk,
			"financial_risk": assessment.FinancialRisk, "occupation_risk": assessment.OccupationRisk,
			"red_flags": assessment.RedFlags,
		})

	loading := engines.CalculateLoading(applicant, extracted, findings)

	caseContext := BuildCaseContext(applicant, findings, assessment)
	transcripts := models.AgentTranscript{}

	for _, spec := range agents.Specs {
		role := roleFor(spec.Stage)
		emit(sink, spec.DisplayName, role, models.StatusActive, fmt.Sprintf("%s is analyzing the case...", role), "", nil)

		agentContext := AppendPreviousAnalyses(caseContext, transcripts)
		response, err := o.Runner.Run(ctx, spec.Stage, spec.SystemPrompt, agentContext)
		if err != nil {
			emit(sink, spec.DisplayName, role, models.StatusError, fmt.Sprintf("Agent failed: %v", err), "", nil)

			partial := models.UnderwritingReport{
				ApplicationID: applicant.ApplicationID,
				ApplicantName: applicant.Name,
				FinalDecision: models.DecisionError,
				Assessment:    assessment,
				Findings:      findings,
				Loading:       loading,
				Timestamp:     time.Now(),
				Agents:        transcripts,
			}
			if o.Persist != nil {
				if perr := o.Persist.PublishOrStore(workflowID, partial, sink.events); perr != nil {
					log.Printf("⚠️ Orchestrator: persistence failed for workflow %s: %v", workflowID, perr)
				}
			}

			return models.UnderwritingReport{}, fmt.Errorf("workflow %s terminated: %w", workflowID, err)
		}

		transcripts[spec.Stage] = response
		preview := truncate(response, 300)
		if len([]rune(response)) > 300 {
			preview += "..."
		}
		emit(sink, spec.DisplayName, role, models.StatusCompleted, fmt.Sprintf("%s completed analysis", role), response,
			map[string]interface{}{"response_length": len(response), "preview": preview})

		time.Sleep(500 * time.Millisecond)
	}

	emit(sink, models.AgentReportGenerator, agentRoles[models.AgentReportGenerator], models.StatusActive,
		"Compiling final underwriting report...", "", nil)

	report := o.assembleReport(applicant, findings, assessment, loading, transcripts)

	emit(sink, models.AgentReportGenerator, agentRoles[models.AgentReportGenerator], models.StatusCompleted,
		fmt.Sprintf("Underwriting decision: %s", strings.ToUpper(string(report.FinalDecision))), "",
		map[string]interface{}{
			"application_id": report.ApplicationID, "decision": report.FinalDecision,
			"confidence_score": report.ConfidenceScore, "total_premium": report.TotalFinalPremium(),
		})

	if o.Persist != nil {
		if err := o.Persist.PublishOrStore(workflowID, report, sink.events); err != nil {
			log.Printf("⚠️ Orchestrator: persistence failed for workflow %s: %v", workflowID, err)
		}
	}

	emit(sink, models.AgentSystem, agentRoles[models.AgentSystem], models.StatusCompleted,
		"Underwriting workflow completed successfully", "",
		map[string]interface{}{"workflow_id": workflowID, "application_id": applicant.ApplicationID, "decision": report.FinalDecision, "confidence": report.ConfidenceScore})

	return report, nil
}

func roleFor(stage models.Stage) string {
	for _, s := range agents.Specs {
		if s.Stage == stage {
			return agentRoles[s.DisplayName]
		}
	}
	return ""
}

func (o *Orchestrator) assembleReport(applicant models.Applicant, findings models.MedicalFindings, assessment models.RiskAssessment, loading models.LoadingResult, transcripts models.AgentTranscript) models.UnderwritingReport {
	premiumInfo := agents.ParsePremium(transcripts[models.StagePremiumCalculation])
	decision, details := agents.ParseDecision(transcripts[models.StageFinalDecision], premiumInfo)

	var premiums []models.PremiumCalculation
	if decision != models.DecisionDeclined {
		premiums = premium.Calculate(o.Cfg, applicant.Coverages, details.TotalPremium, details.MedicalLoadingPct, &loading)
	}

	reasoning := agents.BuildReasoning(decision, details, assessment, findings, transcripts)

	conditions := details.Conditions
	if len(conditions) == 0 {
		conditions = generateConditions(assessment)
	}
	exclusions := mergeExclusions(details.Exclusions, loading.Exclusions)

	return models.UnderwritingReport{
		ApplicationID:   applicant.ApplicationID,
		ApplicantName:   applicant.Name,
		FinalDecision:   decision,
		ConfidenceScore: confidenceScore(decision, assessment, findings),
		Assessment:      assessment,
		Findings:        findings,
		Loading:         loading,
		Premiums:        premiums,
		Conditions:      conditions,
		Exclusions:      exclusions,
		Reasoning:       reasoning,
		Timestamp:       time.Now(),
		Agents:          transcripts,
	}
}

// generateConditions derives policy conditions straight from the risk assessment when the
// decision maker's transcript named none explicitly.
func generateConditions(assessment models.RiskAssessment) []string {
	var conditions []string
	if assessment.MedicalRisk > 0.3 {
		conditions = append(conditions, "Annual medical check-up required")
	}
	if assessment.LifestyleRisk > 0.2 {
		conditions = append(conditions, "Lifestyle modification counseling recommended")
	}
	if len(assessment.RedFlags) > 0 {
		conditions = append(conditions, "Additional medical examinations may be required during policy term")
	}
	return conditions
}

// mergeExclusions concatenates the decision maker's stated exclusions with the Loading
// Engine's, deduplicated by exact text (see DESIGN.md's resolved Open Question on exclusion
// merging).
func mergeExclusions(fromDecision, fromLoading []string) []string {
	seen := map[string]bool{}
	var merged []string
	for _, e := range fromDecision {
		if !seen[e] {
			seen[e] = true
			merged = append(merged, e)
		}
	}
	for _, e := range fromLoading {
		if !seen[e] {
			seen[e] = true
			merged = append(merged, e)
		}
	}
	return merged
}

// confidenceScore computes an additive confidence formula: a decision-type base, plus
// independent medical-findings and risk-consistency adjustments, clamped to [0.5, 1.0]. Each
// condition below is evaluated independently (not as an elif chain) per DESIGN.md's resolved
// Open Question.
func confidenceScore(decision models.Decision, assessment models.RiskAssessment, findings models.MedicalFindings) float64 {
	base := map[models.Decision]float64{
		models.DecisionAutoApproved:          0.95,
		models.DecisionManualReview:          0.80,
		models.DecisionAdditionalRequirements: 0.70,
		models.DecisionDeclined:              0.90,
	}[decision]
	if base == 0 {
		base = 0.85
	}

	if len(findings.CriticalAlerts) > 0 {
		base += 0.05
	}
	if len(findings.AbnormalValues) == 0 {
		base += 0.05
	}
	if len(findings.AbnormalValues) > 3 {
		base -= 0.10
	}

	if assessment.RiskScore > 0.8 && decision == models.DecisionAutoApproved {
		base += 0.05
	}
	if assessment.RiskScore < 0.3 && decision == models.DecisionDeclined {
		base += 0.05
	}

	if base > 1.0 {
		return 1.0
	}
	if base < 0.5 {
		return 0.5
	}
	return base
}
