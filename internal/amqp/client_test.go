package amqp

import (
	"testing"
	"time"
)

func TestNewExpenseCreatedMessage(t *testing.T) {
	msg := NewExpenseCreatedMessage(12345)

	if msg.ID != 12345 {
		t.Errorf("NewExpenseCreatedMessage() ID = %v, want 12345", msg.ID)
	}
	if msg.Timestamp.IsZero() {
		t.Error("NewExpenseCreatedMessage() Timestamp should not be zero")
	}
	if time.Since(msg.Timestamp) > time.Second {
		t.Error("NewExpenseCreatedMessage() Timestamp should be recent")
	}
}

func TestExpenseCreatedMessage_JSON(t *testing.T) {
	timestamp := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	msg := &ExpenseCreatedMessage{
		ID:        12345,
		Timestamp: timestamp,
	}

	jsonBytes, err := msg.ToJSON()
	if err != nil {
		t.Fatalf("ToJSON() error = %v", err)
	}

	parsedMsg, err := ExpenseCreatedMessageFromJSON(jsonBytes)
	if err != nil {
		t.Fatalf("ExpenseCreatedMessageFromJSON() error = %v", err)
	}

	if parsedMsg.ID != msg.ID {
		t.Errorf("Parsed ID = %v, want %v", parsedMsg.ID, msg.ID)
	}
	if !parsedMsg.Timestamp.Equal(msg.Timestamp) {
		t.Errorf("Parsed Timestamp = %v, want %v", parsedMsg.Timestamp, msg.Timestamp)
	}
}

func TestExpenseCreatedMessage_InvalidJSON(t *testing.T) {
	invalidJSON := []byte(`{"id": "not_a_number"}`)

	_, err := ExpenseCreatedMessageFromJSON(invalidJSON)
	if err == nil {
		t.Error("ExpenseCreatedMessageFromJSON() should fail with invalid JSON")
	}
}
