package orchestrator

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"underwriting-engine/internal/config"
	"underwriting-engine/internal/models"
)

// fakeRunner returns a canned response per stage, or fails the named stage outright.
type fakeRunner struct {
	responses map[models.Stage]string
	failStage models.Stage
	callOrder []models.Stage
}

func (f *fakeRunner) Run(_ context.Context, stage models.Stage, _, _ string) (string, error) {
	f.callOrder = append(f.callOrder, stage)
	if stage == f.failStage {
		return "", errors.New("vendor unreachable")
	}
	return f.responses[stage], nil
}

func okResponses() map[models.Stage]string {
	return map[models.Stage]string{
		models.StageMedicalReview:      "Medical review: no abnormal findings. RATIONALE: clean bill of health.",
		models.StageFraudDetection:     "Fraud analysis indicates low risk profile.",
		models.StageRiskAssessment:     "Risk assessment complete.",
		models.StagePremiumCalculation: "Total Annual Premium = ₹12,000",
		models.StageFinalDecision:      "DECISION: APPROVED. COVERAGE GRANTED.",
	}
}

// collectingSink gathers every emitted event for inspection.
type collectingSink struct {
	events []models.WorkflowEvent
}

func (c *collectingSink) Emit(evt models.WorkflowEvent) {
	c.events = append(c.events, evt)
}

// fakePersister records what it was asked to persist without touching real storage.
type fakePersister struct {
	called     bool
	workflowID string
	eventCount int
	err        error
}

func (f *fakePersister) PublishOrStore(workflowID string, report models.UnderwritingReport, events []models.WorkflowEvent) error {
	f.called = true
	f.workflowID = workflowID
	f.eventCount = len(events)
	return f.err
}

func testApplicant() models.Applicant {
	return models.Applicant{
		ApplicationID: "APP-TEST-1",
		Name:          "Test Applicant",
		Age:           35,
		AnnualIncome:  80000,
		Coverages:     []models.Coverage{{CoverType: models.CoverTermLife, SumAssured: 200000}},
		Physical:      models.Physical{HeightCM: 175, WeightKG: 70},
	}
}

func TestRun_HappyPathPersistsAndReturnsWorkflowID(t *testing.T) {
	runner := &fakeRunner{responses: okResponses()}
	persist := &fakePersister{}
	orch := New(runner, &config.Config{}, persist)

	workflowID, report, err := orch.Run(context.Background(), testApplicant(), models.ExtractedMedical{})
	require.NoError(t, err)
	assert.NotEmpty(t, workflowID)
	assert.Equal(t, "APP-TEST-1", report.ApplicationID)

	assert.True(t, persist.called, "expected the persister to be invoked")
	assert.Equal(t, workflowID, persist.workflowID)
	assert.NotZero(t, persist.eventCount, "expected accumulated events to be passed to the persister")
}

func TestRun_AgentFailurePersistsPriorStageOutputsThenReturnsError(t *testing.T) {
	runner := &fakeRunner{responses: okResponses(), failStage: models.StageFraudDetection}
	persist := &fakePersister{}
	orch := New(runner, &config.Config{}, persist)

	workflowID, _, err := orch.Run(context.Background(), testApplicant(), models.ExtractedMedical{})
	require.Error(t, err)
	assert.True(t, persist.called, "expected prior stage outputs to be persisted even on a terminal agent failure")
	assert.Equal(t, workflowID, persist.workflowID)
	assert.NotZero(t, persist.eventCount, "expected the events gathered before the failure to be passed through")
	// Medical review ran before the failing fraud-detection stage; later stages never run.
	assert.Len(t, runner.callOrder, 2)
}

func TestRun_PersistenceFailureDoesNotFailWorkflow(t *testing.T) {
	runner := &fakeRunner{responses: okResponses()}
	persist := &fakePersister{err: errors.New("store unavailable")}
	orch := New(runner, &config.Config{}, persist)

	_, _, err := orch.Run(context.Background(), testApplicant(), models.ExtractedMedical{})
	require.NoError(t, err, "a persistence failure must be swallowed")
	assert.True(t, persist.called)
}

func TestRunStreaming_ForwardsEveryEventToSink(t *testing.T) {
	runner := &fakeRunner{responses: okResponses()}
	orch := New(runner, &config.Config{}, nil)
	sink := &collectingSink{}

	_, _, err := orch.RunStreaming(context.Background(), testApplicant(), models.ExtractedMedical{}, sink)
	require.NoError(t, err)
	require.NotEmpty(t, sink.events)

	last := sink.events[len(sink.events)-1]
	assert.Equal(t, models.AgentSystem, last.AgentName)
	assert.Equal(t, models.StatusCompleted, last.Status)
}

func TestRunStreaming_NilPersisterIsTolerated(t *testing.T) {
	runner := &fakeRunner{responses: okResponses()}
	orch := New(runner, &config.Config{}, nil)

	_, _, err := orch.RunStreaming(context.Background(), testApplicant(), models.ExtractedMedical{}, NoopSink)
	assert.NoError(t, err)
}
