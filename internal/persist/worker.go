package persist

import (
	"encoding/json"
	"log"

	"github.com/nats-io/nats.go"

	"underwriting-engine/internal/models"
	"underwriting-engine/internal/queue"
)

// persistMessage is the payload published on queue.PersistSubject.
type persistMessage struct {
	WorkflowID string                    `json:"workflow_id"`
	Report     models.UnderwritingReport `json:"report"`
	Events     []models.WorkflowEvent    `json:"events"`
}

// Writer consumes persistMessage documents off NATS and writes them through to the Store. When
// NATS is unreachable, PublishOrStore falls back to calling the Store directly so a workflow's
// result is never silently dropped.
type Writer struct {
	store *Store
}

func NewWriter(store *Store) *Writer {
	return &Writer{store: store}
}

// Start subscribes to queue.PersistSubject and begins processing in the background. It is a
// no-op if NATS never connected.
func (w *Writer) Start() {
	if !queue.IsConnected() {
		log.Println("⚠️ Persistence worker: NATS unavailable, workflows will be stored synchronously")
		return
	}

	_, err := queue.Subscribe(queue.PersistSubject, func(m *nats.Msg) {
		var msg persistMessage
		if err := json.Unmarshal(m.Data, &msg); err != nil {
			log.Printf("❌ Persistence worker: bad message: %v", err)
			return
		}
		if err := w.store.StoreWorkflow(msg.WorkflowID, msg.Report, msg.Events); err != nil {
			log.Printf("❌ Persistence worker: store failed for %s: %v", msg.Report.ApplicationID, err)
			return
		}
		log.Printf("💾 Persistence worker: stored workflow %s", msg.WorkflowID)
	})
	if err != nil {
		log.Printf("❌ Persistence worker: subscribe failed: %v", err)
		return
	}
	log.Printf("👷 Persistence worker listening on %s", queue.PersistSubject)
}

// PublishOrStore hands a finished report off to the background writer via NATS. If NATS isn't
// connected it stores synchronously on the calling goroutine instead, so completion is never
// lost to a missing broker.
func (w *Writer) PublishOrStore(workflowID string, report models.UnderwritingReport, events []models.WorkflowEvent) error {
	if !queue.IsConnected() {
		return w.store.StoreWorkflow(workflowID, report, events)
	}

	body, err := json.Marshal(persistMessage{WorkflowID: workflowID, Report: report, Events: events})
	if err != nil {
		return err
	}
	if err := queue.Publish(queue.PersistSubject, body); err != nil {
		log.Printf("⚠️ Persistence worker: publish failed, storing synchronously: %v", err)
		return w.store.StoreWorkflow(workflowID, report, events)
	}
	return nil
}
