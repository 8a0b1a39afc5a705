package events

import (
	"encoding/json"
	"time"
)

// Event types published on the hub.
const (
	TypePing           = "ping"
	TypeSearchStarted  = "search_started"
	TypeSearchFinished = "search_finished"
	TypeSearchFailed   = "search_failed"
	TypeConfigUpdated  = "config_updated"
)

const Version = 1

type Event struct {
	Type      string          `json:"type"`
	Version   int             `json:"v"`
	At        time.Time       `json:"at"`
	RequestID string          `json:"request_id,omitempty"`
	Data      json.RawMessage `json:"data,omitempty"`
}

// MakeEvent returns the JSON envelope for an event of type typ.
func MakeEvent(reqID, typ string, data any) string {
	var raw json.RawMessage
	if data != nil {
		b, _ := json.Marshal(data)
		raw = b
	}
	b, _ := json.Marshal(Event{
		Type:      typ,
		Version:   Version,
		At:        time.Now().UTC(),
		RequestID: reqID,
		Data:      raw,
	})
	return string(b)
}
