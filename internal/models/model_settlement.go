package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

// Settlement is the ledger row written once per settled payment session.
type Settlement struct {
	ID            string          `gorm:"column:id;type:uuid;primary_key" json:"id"`
	SessionID     string          `gorm:"column:session_id;type:varchar(64);not null;index" json:"session_id"`
	TransactionID string          `gorm:"column:transaction_id;type:varchar(64);not null;uniqueIndex" json:"transaction_id"`
	Reference     string          `gorm:"column:reference;type:varchar(64);not null" json:"reference"`
	Method        string          `gorm:"column:method;type:varchar(32);not null;index" json:"method"`
	Currency      string          `gorm:"column:currency;type:varchar(8);not null" json:"currency"`
	Amount        decimal.Decimal `gorm:"column:amount;type:numeric(18,2);not null" json:"amount"`
	CardBrand     string          `gorm:"column:card_brand;type:varchar(32)" json:"card_brand,omitempty"`
	CardLast4     string          `gorm:"column:card_last4;type:varchar(4)" json:"card_last4,omitempty"`
	MaskedCard    string          `gorm:"column:masked_card;type:varchar(32)" json:"masked_card,omitempty"`
	MaskedUpi     string          `gorm:"column:masked_upi;type:varchar(128)" json:"masked_upi,omitempty"`
	EmailAddress  string          `gorm:"column:email_address;type:varchar(256);index" json:"email_address"`
	TraceID       string          `gorm:"column:trace_id;type:varchar(128)" json:"trace_id"`
	SettledAt     time.Time       `gorm:"column:settled_at;not null;index" json:"settled_at"`
	// Extra holds the customer snapshot and other context, e.g. {"customer_name": "..."}.
	Extra     datatypes.JSONMap `gorm:"column:extra;type:jsonb" json:"extra"`
	CreatedAt time.Time         `json:"created_at"`
}

func (Settlement) TableName() string { return "payment_settlement" }
