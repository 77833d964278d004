package streaming

import "underwriting-engine/internal/models"

// Collector is an in-memory EventSink used by the synchronous /process endpoint: it keeps
// every event in arrival order for the caller to inspect once the workflow completes.
type Collector struct {
	Events []models.WorkflowEvent
}

func NewCollector() *Collector {
	return &Collector{}
}

func (c *Collector) Emit(evt models.WorkflowEvent) {
	c.Events = append(c.Events, evt)
}
