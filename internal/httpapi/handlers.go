package httpapi

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/gofiber/fiber/v2"

	"underwriting-engine/internal/cache"
	appmiddleware "underwriting-engine/internal/middleware"
	"underwriting-engine/internal/models"
	"underwriting-engine/internal/orchestrator"
	"underwriting-engine/internal/queue"
	"underwriting-engine/internal/streaming"
)

// pipelineStages is the static list served by GET /agents: the seven agents the workflow
// actually names as distinct stages (the System and ReportGenerator framing events are not
// counted as pipeline stages).
var pipelineStages = []fiber.Map{
	{"name": models.AgentMedicalAnalyzer, "role": "ML Medical Data Analyzer", "order": 1},
	{"name": models.AgentRiskAssessmentML, "role": "ML Risk Assessment Engine", "order": 2},
	{"name": models.AgentMedicalReviewer, "role": "Medical Review Specialist", "order": 3},
	{"name": models.AgentFraudDetector, "role": "Fraud Detection Specialist", "order": 4},
	{"name": models.AgentRiskAssessor, "role": "Risk Assessment Specialist", "order": 5},
	{"name": models.AgentPremiumCalc, "role": "Premium Calculation Specialist", "order": 6},
	{"name": models.AgentDecisionMaker, "role": "Senior Underwriting Decision Maker", "order": 7},
}

func (s *Server) handleHealth(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":    "ok",
		"service":   "underwriting-engine",
		"timestamp": time.Now(),
		"version":   "1.0.0",
	})
}

func (s *Server) handleHealthReady(c *fiber.Ctx) error {
	ready := true
	deps := fiber.Map{}

	if err := cache.Ping(); err != nil {
		ready = false
		deps["redis"] = "unhealthy"
	} else {
		deps["redis"] = "healthy"
	}

	if !queue.IsConnected() {
		deps["nats"] = "unhealthy"
	} else {
		deps["nats"] = "healthy"
	}

	status := 200
	if !ready {
		status = 503
	}
	return c.Status(status).JSON(fiber.Map{"status": map[bool]string{true: "ready", false: "not ready"}[ready], "dependencies": deps})
}

// persistingSink wraps any EventSink so every agent-level event is also durably recorded via
// storeAgentResult, independent of the final report write. The same wrapper backs the
// synchronous, SSE, and WebSocket entry points so none of them can lose a workflow's completed
// stage outputs on a later agent failure.
type persistingSink struct {
	applicationID string
	inner         orchestrator.EventSink
	store         agentResultStorer
}

type agentResultStorer interface {
	StoreAgentResult(applicationID string, evt models.WorkflowEvent) error
}

func (p *persistingSink) Emit(evt models.WorkflowEvent) {
	if p.inner != nil {
		p.inner.Emit(evt)
	}
	if p.store != nil {
		if err := p.store.StoreAgentResult(p.applicationID, evt); err != nil {
			fmt.Printf("⚠️ httpapi: storeAgentResult failed for %s: %v\n", p.applicationID, err)
		}
	}
}

func (s *Server) processAndRespond(c *fiber.Ctx, req models.ApplicationRequest) error {
	applicant := req.ToApplicant()
	extracted := req.ExtractedOrEmpty()

	collector := streaming.NewCollector()
	sink := &persistingSink{applicationID: applicant.ApplicationID, inner: collector, store: s.store}

	ctx, cancel := context.WithTimeout(c.Context(), 240*time.Second*6)
	defer cancel()

	workflowID, report, err := s.orch.RunStreaming(ctx, applicant, extracted, sink)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "workflow_failed", "detail": err.Error()})
	}

	return c.JSON(fiber.Map{
		"workflow_id":          workflowID,
		"applicant_name":       report.ApplicantName,
		"status":               "completed",
		"processing_timestamp": time.Now(),
		"events":               collector.Events,
		"agent_outputs":        report.Agents,
		"final_decision":       report,
	})
}

func (s *Server) handleProcess(c *fiber.Ctx) error {
	var req models.ApplicationRequest
	ok, err := parseAndValidate(c, &req)
	if !ok {
		return err
	}
	return s.processAndRespond(c, req)
}

func (s *Server) handleDemo(c *fiber.Ctx) error {
	return s.processAndRespond(c, SampleRequest())
}

func (s *Server) handleProcessStream(c *fiber.Ctx) error {
	var req models.ApplicationRequest
	ok, err := parseAndValidate(c, &req)
	if !ok {
		return err
	}

	applicant := req.ToApplicant()
	extracted := req.ExtractedOrEmpty()

	bus := streaming.NewBus(applicant.ApplicationID)
	sink := &persistingSink{applicationID: applicant.ApplicationID, inner: bus, store: s.store}
	go func() {
		ctx := context.Background()
		_, _, err := s.orch.RunStreaming(ctx, applicant, extracted, sink)
		if err != nil {
			fmt.Printf("⚠️ httpapi: streaming workflow failed: %v\n", err)
		}
		bus.Close()
	}()

	streaming.StreamWorkflow(c, bus)
	return nil
}

// processFileRequest names a server-local JSON file to load the applicant body from, for
// `/process/file`.
type processFileRequest struct {
	ApplicantPath string `json:"applicantPath" validate:"required"`
}

func (s *Server) handleProcessFile(c *fiber.Ctx) error {
	var fileReq processFileRequest
	ok, err := parseAndValidate(c, &fileReq)
	if !ok {
		return err
	}

	body, err := os.ReadFile(fileReq.ApplicantPath)
	if err != nil {
		return c.Status(404).JSON(fiber.Map{"error": "unknown_application", "detail": "Could not read applicant file: " + err.Error()})
	}

	var req models.ApplicationRequest
	if err := json.Unmarshal(body, &req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "invalid_input", "detail": "Malformed applicant JSON: " + err.Error()})
	}

	return s.processAndRespond(c, req)
}

func (s *Server) handleAgents(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"agents": pipelineStages, "total": len(pipelineStages)})
}

func (s *Server) handleSampleData(c *fiber.Ctx) error {
	return c.JSON(SampleRequest())
}

func (s *Server) handleReports(c *fiber.Ctx) error {
	reports, err := s.store.GetAllReports(0)
	if err != nil {
		return c.Status(503).JSON(fiber.Map{"error": "persistence_unavailable", "detail": err.Error()})
	}
	return c.JSON(fiber.Map{"reports": reports, "total": len(reports)})
}

func (s *Server) handleReportByID(c *fiber.Ctx) error {
	appID := c.Params("appId")
	report, err := s.store.GetReport(appID)
	if err != nil {
		return c.Status(404).JSON(fiber.Map{"error": "unknown_application", "detail": "No report found for application " + appID})
	}
	return c.JSON(report)
}

func (s *Server) handleReportAllVersions(c *fiber.Ctx) error {
	appID := c.Params("appId")
	reports, err := s.store.GetAllReportsForApplication(appID, 0)
	if err != nil || len(reports) == 0 {
		return c.Status(404).JSON(fiber.Map{"error": "unknown_application", "detail": "No reports found for application " + appID})
	}
	return c.JSON(fiber.Map{"reports": reports, "total": len(reports)})
}

func (s *Server) handleDashboardData(c *fiber.Ctx) error {
	reports, err := s.store.GetAllReports(0)
	if err != nil {
		return c.Status(503).JSON(fiber.Map{"error": "persistence_unavailable", "detail": err.Error()})
	}

	summary := fiber.Map{
		"totalApplications":           len(reports),
		"totalAccepted":               0,
		"totalAdditionalRequirements": 0,
		"totalDeclined":               0,
		"totalPending":                0,
		"totalPremiumValue":           0.0,
		"averageProcessingTime":       0.0,
	}

	accepted, additional, declined := 0, 0, 0
	premiumTotal := 0.0
	for _, r := range reports {
		switch r.FinalDecision {
		case models.DecisionAutoApproved, models.DecisionManualReview:
			accepted++
		case models.DecisionAdditionalRequirements:
			additional++
		case models.DecisionDeclined:
			declined++
		}
		premiumTotal += r.TotalFinalPremium()
	}
	summary["totalAccepted"] = accepted
	summary["totalAdditionalRequirements"] = additional
	summary["totalDeclined"] = declined
	summary["totalPremiumValue"] = premiumTotal

	return c.JSON(fiber.Map{"applications": reports, "summary": summary})
}

// parseAndValidate parses the request body and runs struct-tag validation. On failure it writes
// the 400 response itself and returns false; the caller must return nil immediately in that case
// so the already-written response isn't clobbered.
func parseAndValidate(c *fiber.Ctx, out interface{}) (ok bool, handlerErr error) {
	if err := c.BodyParser(out); err != nil {
		return false, c.Status(400).JSON(fiber.Map{"error": "invalid_input", "detail": "Invalid request body: " + err.Error()})
	}
	if errs := appmiddleware.ValidateStruct(out); len(errs) > 0 {
		return false, c.Status(400).JSON(fiber.Map{"error": "invalid_input", "detail": errs})
	}
	return true, nil
}
