package amqp

import (
	"testing"
	"time"
)

func TestRecordChangeMessageRoundTrip(t *testing.T) {
	msg := NewRecordChangeMessage("Diary", "5201314", ActionCreated, "abc-123")
	if msg.Timestamp.IsZero() {
		t.Fatal("timestamp should be set")
	}

	body, err := msg.ToJSON()
	if err != nil {
		t.Fatalf("ToJSON: %v", err)
	}
	got, err := RecordChangeMessageFromJSON(body)
	if err != nil {
		t.Fatalf("FromJSON: %v", err)
	}
	if got.Kind != "Diary" || got.Partition != "5201314" || got.Action != ActionCreated || got.ID != "abc-123" {
		t.Errorf("round trip lost fields: %+v", got)
	}
	if !got.Timestamp.Equal(msg.Timestamp.Truncate(time.Nanosecond)) {
		t.Errorf("timestamp = %v, want %v", got.Timestamp, msg.Timestamp)
	}
}

func TestRecordChangeMessageFromJSONRejectsGarbage(t *testing.T) {
	if _, err := RecordChangeMessageFromJSON([]byte("{not json")); err == nil {
		t.Fatal("expected error")
	}
}
