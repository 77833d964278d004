// Package streaming fans out one workflow's events to every subscriber (HTTP SSE stream,
// WebSocket client, or in-memory collector), and also publishes each event to a per-workflow
// Redis Pub/Sub channel. Nothing in this service subscribes to that channel, so clients only
// see workflows run by the instance they are connected to.
package streaming

import (
	"encoding/json"
	"fmt"
	"log"
	"sync"

	"underwriting-engine/internal/cache"
	"underwriting-engine/internal/models"
)

const subscriberBufferSize = 32

// Bus is a single-producer, multi-consumer fan-out for one workflow's events. A subscriber
// that falls behind has its oldest buffered event dropped and is marked lagging rather than
// blocking the producer.
type Bus struct {
	mu          sync.Mutex
	subscribers map[chan models.WorkflowEvent]*subscriberState
	closed      bool
	workflowID  string
}

type subscriberState struct {
	lagging bool
}

func NewBus(workflowID string) *Bus {
	return &Bus{
		subscribers: make(map[chan models.WorkflowEvent]*subscriberState),
		workflowID:  workflowID,
	}
}

// Subscribe registers a new consumer channel, buffered to subscriberBufferSize.
func (b *Bus) Subscribe() chan models.WorkflowEvent {
	b.mu.Lock()
	defer b.mu.Unlock()
	ch := make(chan models.WorkflowEvent, subscriberBufferSize)
	b.subscribers[ch] = &subscriberState{}
	return ch
}

// Unsubscribe removes and closes a consumer channel.
func (b *Bus) Unsubscribe(ch chan models.WorkflowEvent) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if _, ok := b.subscribers[ch]; ok {
		delete(b.subscribers, ch)
		close(ch)
	}
}

// Emit implements orchestrator.EventSink: it delivers evt to every live subscriber and
// publishes it to this workflow's Redis channel.
func (b *Bus) Emit(evt models.WorkflowEvent) {
	b.mu.Lock()
	for ch, state := range b.subscribers {
		select {
		case ch <- evt:
		default:
			// Buffer full: drop the oldest event to make room, mark lagging.
			select {
			case <-ch:
			default:
			}
			select {
			case ch <- evt:
			default:
			}
			state.lagging = true
		}
	}
	b.mu.Unlock()

	if payload, err := json.Marshal(evt); err == nil {
		if err := cache.Publish(RedisChannel(b.workflowID), payload); err != nil {
			log.Printf("⚠️ Streaming: Redis publish failed for workflow %s: %v", b.workflowID, err)
		}
	}
}

// Close unsubscribes and closes every live subscriber channel.
func (b *Bus) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return
	}
	b.closed = true
	for ch := range b.subscribers {
		close(ch)
	}
	b.subscribers = make(map[chan models.WorkflowEvent]*subscriberState)
}

// RedisChannel names the Pub/Sub channel a workflow's events fan out on.
func RedisChannel(workflowID string) string {
	return fmt.Sprintf("underwriting:events:%s", workflowID)
}
