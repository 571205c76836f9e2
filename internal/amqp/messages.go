package amqp

import (
	"encoding/json"
	"time"
)

// TransactionChangedMessage signals that a user's transaction set changed.
// It carries identifiers only, the worker fetches the full record from the
// store before exporting it.
type TransactionChangedMessage struct {
	UserID        string    `json:"user_id"`
	TransactionID string    `json:"transaction_id"`
	Timestamp     time.Time `json:"timestamp"`
}

// NewTransactionChangedMessage creates a change notification for one transaction
func NewTransactionChangedMessage(userID, transactionID string) *TransactionChangedMessage {
	return &TransactionChangedMessage{
		UserID:        userID,
		TransactionID: transactionID,
		Timestamp:     time.Now(),
	}
}

// ToJSON converts the message to JSON bytes
func (m *TransactionChangedMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// TransactionChangedMessageFromJSON creates a message from JSON bytes
func TransactionChangedMessageFromJSON(data []byte) (*TransactionChangedMessage, error) {
	var msg TransactionChangedMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}

// SMSMessage carries a raw mobile-money notification for ingestion.
type SMSMessage struct {
	UserID     string    `json:"user_id"`
	Sender     string    `json:"sender"`
	Body       string    `json:"body"`
	ReceivedAt time.Time `json:"received_at"`
}

// NewSMSMessage wraps a raw SMS body for the ingest queue
func NewSMSMessage(userID, sender, body string) *SMSMessage {
	return &SMSMessage{
		UserID:     userID,
		Sender:     sender,
		Body:       body,
		ReceivedAt: time.Now(),
	}
}

// ToJSON converts the message to JSON bytes
func (m *SMSMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// SMSMessageFromJSON creates a message from JSON bytes
func SMSMessageFromJSON(data []byte) (*SMSMessage, error) {
	var msg SMSMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
