package amqp

import (
	"encoding/json"
	"time"
)

// LedgerChangedMessage announces that a ledger mutation was persisted.
// It carries only the day key, the mutation revision, and the derived
// balance; consumers fetch the full snapshot from the shared store.
type LedgerChangedMessage struct {
	Day          string    `json:"day"`
	Revision     int64     `json:"revision"`
	BalanceCents int64     `json:"balance_cents"`
	Timestamp    time.Time `json:"timestamp"`
}

func NewLedgerChangedMessage(day string, revision, balanceCents int64) *LedgerChangedMessage {
	return &LedgerChangedMessage{
		Day:          day,
		Revision:     revision,
		BalanceCents: balanceCents,
		Timestamp:    time.Now(),
	}
}

func (m *LedgerChangedMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

func LedgerChangedMessageFromJSON(data []byte) (*LedgerChangedMessage, error) {
	var msg LedgerChangedMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
