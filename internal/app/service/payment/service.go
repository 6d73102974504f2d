package payment

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/datatypes"

	"github.com/fatflowers/fakepay/internal/models"
	"github.com/fatflowers/fakepay/pkg/config"
	"github.com/fatflowers/fakepay/pkg/logctx"
)

const (
	MessageOtpSent    = "OTP sent to your registered mobile number"
	MessageAuthorized = "Payment authorized successfully"

	publishTimeout = 5 * time.Second
)

// SettlementSink persists settled payments.
type SettlementSink interface {
	Save(ctx context.Context, rec *models.Settlement)
}

// Publisher delivers settlement events to a topic.
type Publisher interface {
	Publish(ctx context.Context, topicArn string, message []byte) error
}

type InitiateRequest struct {
	Amount     decimal.Decimal
	Method     Method
	Currency   string
	CardNumber string
	CardHolder string
	Expiry     string
	Cvv        string
	UpiID      string
}

type InitiateResult struct {
	Session *Session
	// PaymentResult is set when the method settles without a one-time code.
	PaymentResult *PaymentResult
	Message       string
}

// Gateway is the request-facing payment API.
type Gateway interface {
	// Validate the request and open a payment session.
	Initiate(ctx context.Context, req *InitiateRequest, customer Customer) (*InitiateResult, error)
	// Verify the one-time code and settle the session.
	Confirm(ctx context.Context, sessionID, otp, email string) (*PaymentResult, error)
	// Look up a live session.
	Status(ctx context.Context, sessionID string) (*Session, bool)
}

type Service struct {
	engine    *Engine
	ledger    SettlementSink
	publisher Publisher
	topicArn  string
	log       *zap.SugaredLogger
}

func NewService(cfg *config.Config, log *zap.SugaredLogger, engine *Engine, ledger SettlementSink, publisher Publisher) Gateway {
	s := &Service{engine: engine, ledger: ledger, publisher: publisher, log: log}
	if cfg != nil {
		s.topicArn = cfg.Events.SNSTopicArn
	}
	return s
}

func (s *Service) Initiate(ctx context.Context, req *InitiateRequest, customer Customer) (*InitiateResult, error) {
	if req == nil {
		return nil, fmt.Errorf("nil request")
	}
	if !req.Amount.IsPositive() {
		return nil, ErrInvalidAmount
	}
	if strings.TrimSpace(string(req.Method)) == "" {
		return nil, ErrMethodRequired
	}

	in := CreateSessionInput{
		Amount:   req.Amount,
		Currency: req.Currency,
		Method:   req.Method,
		Customer: customer,
	}
	switch req.Method {
	case MethodCard:
		number, err := ValidateCard(CardDetails{Number: req.CardNumber, Holder: req.CardHolder, Expiry: req.Expiry, Cvv: req.Cvv})
		if err != nil {
			return nil, err
		}
		in.CardNumber = number
		in.CardHolder = strings.TrimSpace(req.CardHolder)
		in.Expiry = req.Expiry
	case MethodUPI:
		upi, err := ValidateUpiID(req.UpiID)
		if err != nil {
			return nil, err
		}
		in.UpiID = upi
	}

	sess, err := s.engine.CreateSession(in)
	if err != nil {
		return nil, err
	}
	lg := logctx.FromCtx(ctx, s.log)
	lg.Infow("payment session created",
		"session_id", sess.ID,
		"method", sess.Method,
		"amount", sess.Amount.String(),
		"currency", sess.Currency,
		"requires_otp", sess.RequiresOtp,
	)

	res := &InitiateResult{Session: sess, Message: MessageOtpSent}
	if !sess.RequiresOtp {
		result, err := s.Confirm(ctx, sess.ID, "", customer.Email)
		if err != nil {
			return nil, fmt.Errorf("instant settlement: %w", err)
		}
		res.PaymentResult = result
		res.Message = MessageAuthorized
	}
	return res, nil
}

func (s *Service) Confirm(ctx context.Context, sessionID, otp, email string) (*PaymentResult, error) {
	if sessionID == "" {
		return nil, ErrSessionIDRequired
	}
	lg := logctx.FromCtx(ctx, s.log)

	sess, settled, err := s.engine.verify(sessionID, otp, email)
	if err != nil {
		lg.Warnw("payment verify rejected", "session_id", sessionID, "err", err)
		return nil, err
	}
	if !settled {
		lg.Infow("payment confirmation replayed", "session_id", sessionID, "transaction_id", sess.PaymentResult.ID)
		return sess.PaymentResult, nil
	}

	lg.Infow("payment settled",
		"session_id", sess.ID,
		"transaction_id", sess.PaymentResult.ID,
		"reference", sess.PaymentResult.Reference,
		"method", sess.Method,
	)
	s.recordSettlement(ctx, sess)
	return sess.PaymentResult, nil
}

func (s *Service) Status(_ context.Context, sessionID string) (*Session, bool) {
	if sessionID == "" {
		return nil, false
	}
	return s.engine.GetSession(sessionID)
}

func (s *Service) recordSettlement(ctx context.Context, sess *Session) {
	r := sess.PaymentResult
	traceID := logctx.TraceID(ctx)

	if s.ledger != nil {
		s.ledger.Save(ctx, &models.Settlement{
			SessionID:     sess.ID,
			TransactionID: r.ID,
			Reference:     r.Reference,
			Method:        string(r.Method),
			Currency:      r.Currency,
			Amount:        r.Amount,
			CardBrand:     r.CardBrand,
			CardLast4:     r.CardLast4,
			MaskedCard:    r.MaskedCard,
			MaskedUpi:     r.MaskedUpi,
			EmailAddress:  r.EmailAddress,
			TraceID:       traceID,
			SettledAt:     r.UpdateTime,
			Extra:         datatypes.JSONMap{"customer_name": sess.Customer.Name},
		})
	}

	if s.publisher == nil || s.topicArn == "" {
		return
	}
	payload, err := json.Marshal(models.PaymentEvent{
		Type:          models.PaymentEventSucceeded,
		SessionID:     sess.ID,
		TransactionID: r.ID,
		Reference:     r.Reference,
		Method:        string(r.Method),
		Amount:        r.Amount,
		Currency:      r.Currency,
		EmailAddress:  r.EmailAddress,
		Timestamp:     r.UpdateTime.UTC(),
	})
	if err != nil {
		logctx.FromCtx(ctx, s.log).Errorw("marshal payment event failed", "transaction_id", r.ID, "err", err)
		return
	}
	bg := context.WithoutCancel(ctx)
	go func() {
		pctx, cancel := context.WithTimeout(bg, publishTimeout)
		defer cancel()
		if err := s.publisher.Publish(pctx, s.topicArn, payload); err != nil {
			logctx.FromCtx(bg, s.log).Errorw("publish payment event failed", "transaction_id", r.ID, "err", err)
		}
	}()
}
