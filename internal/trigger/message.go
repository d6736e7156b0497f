package trigger

import (
	"encoding/json"
	"fmt"

	"onedrop/internal/queue"
)

// MessageType tags change events on the queue.
const MessageType = "sheet-change"

// EncodeMessage wraps a change event in a queue message.
func EncodeMessage(ev ChangeEvent) (queue.Message, error) {
	raw, err := json.Marshal(ev)
	if err != nil {
		return queue.Message{}, err
	}
	return queue.Message{Type: MessageType, Body: raw}, nil
}

// DecodeMessage unwraps a change event from a queue message.
func DecodeMessage(msg queue.Message) (ChangeEvent, error) {
	if msg.Type != MessageType {
		return ChangeEvent{}, fmt.Errorf("unexpected message type %q", msg.Type)
	}
	var ev ChangeEvent
	if err := json.Unmarshal(msg.Body, &ev); err != nil {
		return ChangeEvent{}, err
	}
	return ev, nil
}
