package events

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMakeEvent(t *testing.T) {
	var e Event
	require.NoError(t, json.Unmarshal([]byte(MakeEvent("req-1", TypeSearchFinished, map[string]int{"count": 3})), &e))
	assert.Equal(t, TypeSearchFinished, e.Type)
	assert.Equal(t, Version, e.Version)
	assert.Equal(t, "req-1", e.RequestID)
	assert.JSONEq(t, `{"count":3}`, string(e.Data))
	assert.False(t, e.At.IsZero())
}

func TestHub(t *testing.T) {
	h := NewHub()
	a := h.Subscribe()
	b := h.Subscribe()
	assert.Equal(t, 2, h.Subscribers())

	h.Emit("", TypePing, nil)
	assert.Contains(t, <-a, `"type":"ping"`)
	assert.Contains(t, <-b, `"type":"ping"`)

	h.Unsubscribe(a)
	h.Unsubscribe(a)
	assert.Equal(t, 1, h.Subscribers())
	_, open := <-a
	assert.False(t, open)
}

func TestHub_DropsForSlowSubscriber(t *testing.T) {
	h := NewHub()
	ch := h.Subscribe()
	for i := 0; i < 100; i++ {
		h.Publish("x")
	}
	assert.Equal(t, cap(ch), len(ch))

	var nilHub *Hub
	nilHub.Emit("", TypePing, nil)
}
