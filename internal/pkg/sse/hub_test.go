package sse

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHub_PublishReachesOnlyTheUser(t *testing.T) {
	hub := NewHub[string](1)

	a, cleanupA := hub.Subscribe("a")
	defer cleanupA()
	b, cleanupB := hub.Subscribe("b")
	defer cleanupB()

	assert.Equal(t, 1, hub.Publish("a", Event[string]{Event: "notification", Data: "hello"}))

	got := <-a
	assert.Equal(t, "a", got.UserID)
	assert.Equal(t, "hello", got.Data)
	assert.Empty(t, b)
}

func TestHub_FullSubscriberDropsEvents(t *testing.T) {
	hub := NewHub[int](1)
	ch, cleanup := hub.Subscribe("a")
	defer cleanup()

	assert.Equal(t, 1, hub.Publish("a", Event[int]{Data: 1}))
	assert.Equal(t, 0, hub.Publish("a", Event[int]{Data: 2}))
	assert.Equal(t, 1, (<-ch).Data)
}

func TestHub_CleanupIsIdempotent(t *testing.T) {
	hub := NewHub[int](0)
	ch, cleanup := hub.Subscribe("a")
	_, cleanup2 := hub.Subscribe("a")
	require.Equal(t, 2, hub.SubscriberCount("a"))

	cleanup()
	cleanup()
	_, open := <-ch
	assert.False(t, open)
	assert.Equal(t, 1, hub.TotalSubscribers())

	cleanup2()
	assert.Equal(t, 0, hub.SubscriberCount("a"))
	assert.Equal(t, 0, hub.Publish("a", Event[int]{Data: 1}))
}
