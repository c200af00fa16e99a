package eventbus

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPublishReachesAllSubscribers(t *testing.T) {
	bus := New()
	_, ch1 := bus.Subscribe(1)
	_, ch2 := bus.Subscribe(1)

	bus.PublishNew(EventTypeTaskCreated, "task-1", map[string]string{"owner_id": "u1"})

	for _, ch := range []<-chan *Event{ch1, ch2} {
		select {
		case event := <-ch:
			assert.Equal(t, EventTypeTaskCreated, event.Type)
			assert.Equal(t, "task-1", event.ResourceID)
			assert.Equal(t, "u1", event.Metadata["owner_id"])
			assert.NotEmpty(t, event.ID)
		case <-time.After(time.Second):
			t.Fatal("event not delivered")
		}
	}
}

func TestPublishDropsWhenSubscriberBufferIsFull(t *testing.T) {
	bus := New()
	_, ch := bus.Subscribe(1)

	// The second publish must not block even though nobody is reading.
	done := make(chan struct{})
	go func() {
		bus.PublishNew(EventTypeTaskCreated, "task-1", nil)
		bus.PublishNew(EventTypeTaskCreated, "task-2", nil)
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("publish blocked on a slow subscriber")
	}

	event := <-ch
	assert.Equal(t, "task-1", event.ResourceID)
	select {
	case extra := <-ch:
		t.Fatalf("expected dropped event, got %s", extra.ResourceID)
	default:
	}
}

func TestUnsubscribeClosesChannel(t *testing.T) {
	bus := New()
	id, ch := bus.Subscribe(1)

	bus.Unsubscribe(id)
	_, open := <-ch
	require.False(t, open)

	// Publishing after unsubscribe must not panic.
	bus.PublishNew(EventTypeTaskDeleted, "task-1", nil)
}
