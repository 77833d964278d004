// Package wshub manages WebSocket sessions for /ws/{clientId}: each client can ask the hub to
// process an application and receives the resulting workflow's events as they happen.
package wshub

import (
	"context"
	"encoding/json"
	"log"
	"sync"

	"github.com/gofiber/contrib/websocket"

	"underwriting-engine/internal/models"
	"underwriting-engine/internal/orchestrator"
	"underwriting-engine/internal/persist"
)

// Hub tracks live connections; it does not record which workflow a connection is streaming.
type Hub struct {
	mu    sync.RWMutex
	conns map[*websocket.Conn]bool

	orch  *orchestrator.Orchestrator
	store *persist.Store
}

func NewHub(orch *orchestrator.Orchestrator, store *persist.Store) *Hub {
	return &Hub{
		conns: make(map[*websocket.Conn]bool),
		orch:  orch,
		store: store,
	}
}

type clientMessage struct {
	Action string                    `json:"action"`
	Data   models.ApplicationRequest `json:"data"`
}

// HandleConnection is the per-connection read loop: it is blocking and is meant to run as the
// Fiber websocket.New handler body.
func (h *Hub) HandleConnection(c *websocket.Conn) {
	h.mu.Lock()
	h.conns[c] = true
	h.mu.Unlock()

	defer func() {
		h.mu.Lock()
		delete(h.conns, c)
		h.mu.Unlock()
		c.Close()
	}()

	for {
		_, raw, err := c.ReadMessage()
		if err != nil {
			break
		}

		var msg clientMessage
		if err := json.Unmarshal(raw, &msg); err != nil {
			log.Printf("⚠️ WS: invalid client message: %v", err)
			continue
		}

		switch msg.Action {
		case "ping":
			h.writeJSON(c, map[string]string{"type": "pong"})
		case "process":
			h.runWorkflow(c, msg.Data)
		}
	}
}

func (h *Hub) runWorkflow(c *websocket.Conn, req models.ApplicationRequest) {
	applicant := req.ToApplicant()
	extracted := req.ExtractedOrEmpty()

	sink := &persistingConnSink{conn: &connSink{hub: h, conn: c}, applicationID: applicant.ApplicationID, store: h.store}
	_, _, err := h.orch.RunStreaming(context.Background(), applicant, extracted, sink)
	if err != nil {
		h.writeJSON(c, map[string]string{"type": "error", "message": err.Error()})
		return
	}
	h.writeJSON(c, map[string]string{"type": "workflow_complete"})
}

func (h *Hub) writeJSON(c *websocket.Conn, v interface{}) {
	payload, err := json.Marshal(v)
	if err != nil {
		return
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	if err := c.WriteMessage(websocket.TextMessage, payload); err != nil {
		log.Printf("⚠️ WS write error: %v", err)
	}
}

// connSink adapts a single websocket connection into an orchestrator.EventSink.
type connSink struct {
	hub  *Hub
	conn *websocket.Conn
}

func (s *connSink) Emit(evt models.WorkflowEvent) {
	s.hub.writeJSON(s.conn, evt)
}

var _ orchestrator.EventSink = (*connSink)(nil)

// persistingConnSink wraps a connSink so every agent-level event reaching a WebSocket client is
// also durably recorded via storeAgentResult, the same guarantee the HTTP Surface's synchronous
// and SSE entry points give — an agent failure mid-workflow must not cost a WS client its
// already-completed stage outputs either.
type persistingConnSink struct {
	conn          *connSink
	applicationID string
	store         *persist.Store
}

func (p *persistingConnSink) Emit(evt models.WorkflowEvent) {
	p.conn.Emit(evt)
	if p.store != nil {
		if err := p.store.StoreAgentResult(p.applicationID, evt); err != nil {
			log.Printf("⚠️ WS: storeAgentResult failed for %s: %v", p.applicationID, err)
		}
	}
}

var _ orchestrator.EventSink = (*persistingConnSink)(nil)
