package models

// Transaction represents a stored transaction record as fetched for analytics.
// Timestamp and CreatedAt keep the raw stored value; the analytics package parses them.
type Transaction struct {
	ID              *TransactionID `json:"transaction_id"`
	Amount          float64        `json:"transaction_amount"`
	Timestamp       string         `json:"timestamp,omitempty"`
	CreatedAt       string         `json:"created_at,omitempty"`
	Channel         string         `json:"channel,omitempty"`
	MerchantName    string         `json:"merchant_name,omitempty"`
	TransactionType string         `json:"transaction_type,omitempty"`
}

// Label returns the free-text label used by trend analysis: channel, then merchant name.
func (t Transaction) Label() string {
	if t.Channel != "" {
		return t.Channel
	}
	return t.MerchantName
}

// MerchantLabel returns the label used by batch categorization: merchant name, then channel.
func (t Transaction) MerchantLabel() string {
	if t.MerchantName != "" {
		return t.MerchantName
	}
	return t.Channel
}

// RawTimestamp returns the stored timestamp, falling back to created_at.
func (t Transaction) RawTimestamp() string {
	if t.Timestamp != "" {
		return t.Timestamp
	}
	return t.CreatedAt
}

// TransactionInput is an ad-hoc transaction submitted for categorization.
// Amount is echoed back as given, including null.
type TransactionInput struct {
	TransactionID *TransactionID `json:"transaction_id"`
	Amount        *float64       `json:"transaction_amount"`
	MerchantName  string         `json:"merchant_name"`
	Channel       string         `json:"channel"`
}

// InputFromTransaction converts an imported transaction for categorization.
func InputFromTransaction(t Transaction) TransactionInput {
	amount := t.Amount
	return TransactionInput{
		TransactionID: t.ID,
		Amount:        &amount,
		MerchantName:  t.MerchantName,
		Channel:       t.Channel,
	}
}
