package payment

import (
	"time"

	"github.com/samber/lo"
	"github.com/shopspring/decimal"
)

// Method is the payment instrument chosen by the customer.
type Method string

const (
	MethodCard       Method = "Card"
	MethodUPI        Method = "UPI"
	MethodNetBanking Method = "NetBanking"
	MethodWallet     Method = "Wallet"
	MethodCOD        Method = "COD"
)

var otpMethods = []Method{MethodCard, MethodUPI, MethodNetBanking}

// RequiresOtp reports whether sessions for m need a one-time code before settling.
func (m Method) RequiresOtp() bool {
	return lo.Contains(otpMethods, m)
}

type Status string

const (
	StatusRequiresAction Status = "requires_action"
	StatusSucceeded      Status = "succeeded"
)

// Customer is a snapshot of the paying user taken at session creation.
type Customer struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// Metadata holds display-safe, method specific fields. Raw card numbers and
// UPI ids are never stored here.
type Metadata struct {
	CardHolder string `json:"card_holder,omitempty"`
	Expiry     string `json:"expiry,omitempty"`
	MaskedCard string `json:"masked_card,omitempty"`
	CardBrand  string `json:"card_brand,omitempty"`
	MaskedUpi  string `json:"masked_upi,omitempty"`
}

type Session struct {
	ID          string          `json:"id"`
	Amount      decimal.Decimal `json:"amount"`
	Currency    string          `json:"currency"`
	Method      Method          `json:"method"`
	Status      Status          `json:"status"`
	RequiresOtp bool            `json:"requires_otp"`
	// Otp is empty unless RequiresOtp.
	Otp           string         `json:"-"`
	Metadata      Metadata       `json:"metadata"`
	Customer      Customer       `json:"customer"`
	CreatedAt     time.Time      `json:"created_at"`
	ExpiresAt     time.Time      `json:"expires_at"`
	PaymentResult *PaymentResult `json:"payment_result"`
}

func (s *Session) expired(now time.Time) bool {
	return now.After(s.ExpiresAt)
}

func (s *Session) clone() *Session {
	c := *s
	if s.PaymentResult != nil {
		r := *s.PaymentResult
		c.PaymentResult = &r
	}
	return &c
}

// PaymentResult is produced once per session, at settlement.
type PaymentResult struct {
	ID           string          `json:"id"`
	Status       Status          `json:"status"`
	UpdateTime   time.Time       `json:"update_time"`
	EmailAddress string          `json:"email_address"`
	Method       Method          `json:"method"`
	Currency     string          `json:"currency"`
	Amount       decimal.Decimal `json:"amount"`
	Reference    string          `json:"reference"`
	CardBrand    string          `json:"card_brand,omitempty"`
	CardLast4    string          `json:"card_last4,omitempty"`
	MaskedCard   string          `json:"masked_card,omitempty"`
	MaskedUpi    string          `json:"masked_upi,omitempty"`
}

// CreateSessionInput carries already validated request data into the engine.
// CardNumber and UpiID are only used to derive masked metadata.
type CreateSessionInput struct {
	Amount     decimal.Decimal
	Currency   string
	Method     Method
	CardNumber string
	CardHolder string
	Expiry     string
	UpiID      string
	Customer   Customer
}
