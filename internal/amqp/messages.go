package amqp

import (
	"encoding/json"
	"time"
)

// Purchase event operations carried on the queue.
const (
	OpCreated = "created"
	OpUpdated = "updated"
	OpDeleted = "deleted"
)

// PurchaseEvent is a lightweight notification that a purchase changed.
// It carries only identifiers; the worker fetches the full record from
// the database when it needs one.
type PurchaseEvent struct {
	Op         string    `json:"op"`
	ID         string    `json:"id"`
	UserID     string    `json:"userId"`
	OccurredAt time.Time `json:"occurredAt"`
}

func NewPurchaseEvent(op, id, userID string) *PurchaseEvent {
	return &PurchaseEvent{
		Op:         op,
		ID:         id,
		UserID:     userID,
		OccurredAt: time.Now().UTC(),
	}
}

// ToJSON converts the event to JSON bytes
func (e *PurchaseEvent) ToJSON() ([]byte, error) {
	return json.Marshal(e)
}

// PurchaseEventFromJSON creates an event from JSON bytes
func PurchaseEventFromJSON(data []byte) (*PurchaseEvent, error) {
	var ev PurchaseEvent
	if err := json.Unmarshal(data, &ev); err != nil {
		return nil, err
	}
	return &ev, nil
}
