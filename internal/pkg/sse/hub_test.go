package sse

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHub_PublishReachesTopicSubscribers(t *testing.T) {
	h := NewHub()

	a, closeA := h.Subscribe("managers")
	defer closeA()
	b, closeB := h.Subscribe("managers")
	defer closeB()
	other, closeOther := h.Subscribe("elsewhere")
	defer closeOther()

	h.Publish("managers", Event{Event: "checkin", Data: "u1"})

	for _, ch := range []<-chan Event{a, b} {
		ev := <-ch
		assert.Equal(t, "managers", ev.Topic)
		assert.Equal(t, "checkin", ev.Event)
		assert.Equal(t, "u1", ev.Data)
	}

	select {
	case ev := <-other:
		t.Fatalf("unexpected event on other topic: %+v", ev)
	default:
	}
}

func TestHub_CleanupIsIdempotent(t *testing.T) {
	h := NewHub()

	ch, cleanup := h.Subscribe("managers")
	require.Equal(t, 1, h.SubscriberCount("managers"))

	cleanup()
	cleanup()

	_, open := <-ch
	assert.False(t, open)
	assert.Zero(t, h.TotalSubscribers())
}

func TestHub_DropsWhenSubscriberIsFull(t *testing.T) {
	h := NewHub()
	ch, cleanup := h.Subscribe("managers")
	defer cleanup()

	for i := 0; i < h.buffer+5; i++ {
		h.Publish("managers", Event{Event: "checkin", Data: i})
	}

	assert.Len(t, ch, h.buffer)
}

func TestHub_ConcurrentPublish(t *testing.T) {
	h := NewHub()
	_, cleanup := h.Subscribe("managers")
	defer cleanup()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			h.Publish("managers", Event{Event: "checkout"})
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, h.SubscriberCount("managers"))
}

func TestHub_Close(t *testing.T) {
	h := NewHub()
	ch, cleanup := h.Subscribe("managers")

	h.Close()

	_, ok := <-ch
	assert.False(t, ok)
	assert.Equal(t, 0, h.TotalSubscribers())

	// cleanup after Close must not panic
	assert.NotPanics(t, cleanup)
}
