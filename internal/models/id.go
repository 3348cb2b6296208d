package models

import (
	"bytes"
	"encoding/json"
)

// TransactionID is an opaque identifier kept as the raw JSON value it arrived as,
// so a string, a number or any other value is echoed back unchanged.
type TransactionID struct {
	raw json.RawMessage
}

// NewTransactionID creates an id holding a JSON string
func NewTransactionID(s string) *TransactionID {
	raw, _ := json.Marshal(s)
	return &TransactionID{raw: raw}
}

// String returns the id text: the unquoted value for strings, the raw JSON otherwise
func (id TransactionID) String() string {
	var s string
	if err := json.Unmarshal(id.raw, &s); err == nil {
		return s
	}
	return string(id.raw)
}

// MarshalJSON writes the id exactly as it was received
func (id TransactionID) MarshalJSON() ([]byte, error) {
	if len(id.raw) == 0 {
		return []byte("null"), nil
	}
	return id.raw, nil
}

// UnmarshalJSON keeps a copy of the raw value
func (id *TransactionID) UnmarshalJSON(data []byte) error {
	id.raw = append(json.RawMessage(nil), bytes.TrimSpace(data)...)
	return nil
}
