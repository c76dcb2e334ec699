package events

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrepareEvent(t *testing.T) {
	t.Run("fills id, timestamp and channel", func(t *testing.T) {
		event := prepareEvent(POINTS_CHANNEL, Event{Type: POINTS_AWARDED})
		assert.NotEmpty(t, event.ID)
		assert.False(t, event.Timestamp.IsZero())
		assert.Equal(t, POINTS_CHANNEL, event.Channel)
	})

	t.Run("keeps explicit values", func(t *testing.T) {
		ts := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
		event := prepareEvent(POINTS_CHANNEL, Event{ID: "fixed", Channel: BROADCAST_CHANNEL, Timestamp: ts})
		assert.Equal(t, "fixed", event.ID)
		assert.Equal(t, BROADCAST_CHANNEL, event.Channel)
		assert.Equal(t, ts, event.Timestamp)
	})
}

func TestPointsAwarded(t *testing.T) {
	participantID := uuid.New()
	event := PointsAwarded(participantID, 15, 40, "Beach Cleanup Drive")

	require.NotNil(t, event.UserID)
	assert.Equal(t, participantID, *event.UserID)
	assert.Equal(t, POINTS_AWARDED, event.Type)
	assert.Equal(t, 15, event.Data["points"])
	assert.Equal(t, 40, event.Data["total_points"])
}

func TestNotifyLocalHandlers(t *testing.T) {
	bus := New(nil)
	defer bus.Close()

	received := make(chan Event, 1)
	bus.handlers[POINTS_CHANNEL] = []EventHandler{func(e Event) error {
		received <- e
		return nil
	}}

	bus.notifyLocalHandlers(POINTS_CHANNEL, Event{ID: "abc"})

	select {
	case e := <-received:
		assert.Equal(t, "abc", e.ID)
	case <-time.After(time.Second):
		t.Fatal("handler was not invoked")
	}
}
