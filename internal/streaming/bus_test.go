package streaming

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"underwriting-engine/internal/models"
)

func TestBus_SubscribeReceivesEmittedEvents(t *testing.T) {
	bus := NewBus("wf_test")
	ch := bus.Subscribe()
	defer bus.Unsubscribe(ch)

	bus.Emit(models.WorkflowEvent{EventID: "evt_1", Message: "hello"})

	select {
	case evt := <-ch:
		assert.Equal(t, "evt_1", evt.EventID)
	case <-time.After(time.Second):
		t.Fatal("expected to receive the emitted event")
	}
}

func TestBus_UnsubscribeClosesChannel(t *testing.T) {
	bus := NewBus("wf_test")
	ch := bus.Subscribe()
	bus.Unsubscribe(ch)

	_, ok := <-ch
	assert.False(t, ok, "expected the channel to be closed after unsubscribe")
}

func TestBus_LaggingSubscriberDropsOldestRatherThanBlocking(t *testing.T) {
	bus := NewBus("wf_test")
	ch := bus.Subscribe()
	defer bus.Unsubscribe(ch)

	for i := 0; i < subscriberBufferSize+5; i++ {
		bus.Emit(models.WorkflowEvent{EventID: "evt"})
	}

	state := bus.subscribers[ch]
	require.NotNil(t, state)
	assert.True(t, state.lagging, "expected the subscriber to be marked lagging after overflowing its buffer")
	assert.Len(t, ch, subscriberBufferSize)
}

func TestBus_CloseClosesAllSubscribers(t *testing.T) {
	bus := NewBus("wf_test")
	ch1 := bus.Subscribe()
	ch2 := bus.Subscribe()

	bus.Close()

	_, ok1 := <-ch1
	_, ok2 := <-ch2
	assert.False(t, ok1)
	assert.False(t, ok2)
}

func TestBus_CloseIsIdempotent(t *testing.T) {
	bus := NewBus("wf_test")
	bus.Close()
	bus.Close()
}

func TestRedisChannel_FormatsWithWorkflowID(t *testing.T) {
	got := RedisChannel("wf_20260731120000")
	assert.Equal(t, "underwriting:events:wf_20260731120000", got)
}
