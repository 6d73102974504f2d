package models

import (
	"time"

	"github.com/shopspring/decimal"
)

const PaymentEventSucceeded = "payment_succeeded"

// PaymentEvent is the message published for downstream order processing.
type PaymentEvent struct {
	Type          string          `json:"type"`
	SessionID     string          `json:"session_id"`
	TransactionID string          `json:"transaction_id"`
	Reference     string          `json:"reference"`
	Method        string          `json:"method"`
	Amount        decimal.Decimal `json:"amount"`
	Currency      string          `json:"currency"`
	EmailAddress  string          `json:"email_address"`
	Timestamp     time.Time       `json:"timestamp"`
}
