package streaming

import (
	"bufio"
	"encoding/json"
	"fmt"

	"github.com/gofiber/fiber/v2"

	"underwriting-engine/internal/models"
)

// WriteSSE writes one event as an SSE `data:` frame to w, flushing immediately so the client
// sees it without buffering delay.
func WriteSSE(w *bufio.Writer, evt models.WorkflowEvent) error {
	payload, err := json.Marshal(evt)
	if err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "data: %s\n\n", payload); err != nil {
		return err
	}
	return w.Flush()
}

// WriteSSEComplete writes the terminal `{"type":"complete"}` frame.
func WriteSSEComplete(w *bufio.Writer) error {
	if _, err := fmt.Fprint(w, "data: {\"type\":\"complete\"}\n\n"); err != nil {
		return err
	}
	return w.Flush()
}

// WriteSSEError writes the terminal `{"type":"error","message":...}` frame.
func WriteSSEError(w *bufio.Writer, message string) error {
	payload, _ := json.Marshal(map[string]string{"type": "error", "message": message})
	if _, err := fmt.Fprintf(w, "data: %s\n\n", payload); err != nil {
		return err
	}
	return w.Flush()
}

// StreamWorkflow wires a Fiber streaming response body to the given bus subscription,
// forwarding every WorkflowEvent as an SSE frame until the channel closes.
func StreamWorkflow(c *fiber.Ctx, bus *Bus) {
	c.Set("Content-Type", "text/event-stream")
	c.Set("Cache-Control", "no-cache")
	c.Set("Connection", "keep-alive")

	ch := bus.Subscribe()
	c.Context().SetBodyStreamWriter(func(w *bufio.Writer) {
		defer bus.Unsubscribe(ch)
		for evt := range ch {
			if err := WriteSSE(w, evt); err != nil {
				return
			}
		}
		WriteSSEComplete(w)
	})
}
