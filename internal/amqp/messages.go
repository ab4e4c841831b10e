package amqp

import (
	"encoding/json"
	"time"
)

// Actions a record-change message can carry.
const (
	ActionCreated = "created"
	ActionUpdated = "updated"
	ActionDeleted = "deleted"
)

// RecordChangeMessage announces that one record in a partition changed.
// Consumers only need enough to invalidate their cached views; the full
// record is re-fetched from the store on the next read.
type RecordChangeMessage struct {
	Kind      string    `json:"kind"`
	Partition string    `json:"partition"`
	Action    string    `json:"action"`
	ID        string    `json:"id"`
	Timestamp time.Time `json:"timestamp"`
}

func NewRecordChangeMessage(kind, partition, action, id string) *RecordChangeMessage {
	return &RecordChangeMessage{
		Kind:      kind,
		Partition: partition,
		Action:    action,
		ID:        id,
		Timestamp: time.Now(),
	}
}

func (m *RecordChangeMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

func RecordChangeMessageFromJSON(data []byte) (*RecordChangeMessage, error) {
	var msg RecordChangeMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
