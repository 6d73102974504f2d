package payment

import (
	"crypto/subtle"
	"fmt"
	"math/rand/v2"
	"strings"
	"time"

	"github.com/fatflowers/fakepay/pkg/tool"
)

const (
	DefaultSessionTTL = 5 * time.Minute
	DefaultCurrency   = "INR"
	defaultShards     = 32

	maxIDAttempts = 5
)

// Recorder receives engine events, typically for metrics.
type Recorder interface {
	SessionCreated(method string)
	SessionSettled(method string)
	VerifyFailed(reason string)
	SessionsExpired(n int)
}

type nopRecorder struct{}

func (nopRecorder) SessionCreated(string) {}
func (nopRecorder) SessionSettled(string) {}
func (nopRecorder) VerifyFailed(string)   {}
func (nopRecorder) SessionsExpired(int)   {}

// Engine is the in-memory payment session table: creation, lazy expiry,
// one-time code verification and settlement.
type Engine struct {
	store    *store
	ttl      time.Duration
	currency string
	now      func() time.Time
	recorder Recorder
	newID    func(prefix string) string
	newOtp   func() string
}

type Option func(*Engine)

func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

func WithTTL(ttl time.Duration) Option {
	return func(e *Engine) {
		if ttl > 0 {
			e.ttl = ttl
		}
	}
}

func WithDefaultCurrency(currency string) Option {
	return func(e *Engine) {
		if currency != "" {
			e.currency = currency
		}
	}
}

func WithShards(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.store = newStore(n)
		}
	}
}

func WithRecorder(r Recorder) Option {
	return func(e *Engine) {
		if r != nil {
			e.recorder = r
		}
	}
}

func NewEngine(opts ...Option) *Engine {
	e := &Engine{
		store:    newStore(defaultShards),
		ttl:      DefaultSessionTTL,
		currency: DefaultCurrency,
		now:      time.Now,
		recorder: nopRecorder{},
		newID:    tool.GeneratePrefixedID,
		newOtp:   generateOtp,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// generateOtp returns a uniform 6 digit code, zero padded.
func generateOtp() string {
	return fmt.Sprintf("%06d", rand.IntN(1_000_000))
}

// CreateSession stores a new session and returns a snapshot of it.
func (e *Engine) CreateSession(in CreateSessionInput) (*Session, error) {
	if !in.Amount.IsPositive() {
		return nil, ErrInvalidAmount
	}
	currency := strings.TrimSpace(in.Currency)
	if currency == "" {
		currency = e.currency
	}

	requiresOtp := in.Method.RequiresOtp()
	var otp string
	status := StatusSucceeded
	if requiresOtp {
		otp = e.newOtp()
		status = StatusRequiresAction
	}

	var meta Metadata
	if in.CardNumber != "" {
		meta.MaskedCard = MaskCard(in.CardNumber)
		meta.CardBrand = CardBrand(in.CardNumber)
		meta.CardHolder = in.CardHolder
		meta.Expiry = in.Expiry
	}
	if in.UpiID != "" {
		meta.MaskedUpi = MaskUpi(in.UpiID)
	}

	now := e.now()
	sess := &Session{
		Amount:      in.Amount,
		Currency:    currency,
		Method:      in.Method,
		Status:      status,
		RequiresOtp: requiresOtp,
		Otp:         otp,
		Metadata:    meta,
		Customer:    in.Customer,
		CreatedAt:   now,
		ExpiresAt:   now.Add(e.ttl),
	}

	for attempt := 0; attempt < maxIDAttempts; attempt++ {
		id := e.newID("session")
		sh := e.store.shardFor(id)
		sh.mu.Lock()
		if sh.has(id) {
			sh.mu.Unlock()
			continue
		}
		sess.ID = id
		sh.live[id] = sess
		out := sess.clone()
		sh.mu.Unlock()

		e.recorder.SessionCreated(string(in.Method))
		return out, nil
	}
	return nil, fmt.Errorf("allocate session id: %d collisions", maxIDAttempts)
}

// GetSession returns a snapshot of a live session. Expired sessions are evicted
// and reported as absent; settled sessions are no longer live.
func (e *Engine) GetSession(id string) (*Session, bool) {
	sh := e.store.shardFor(id)
	sh.mu.Lock()
	defer sh.mu.Unlock()

	sess, ok := sh.live[id]
	if !ok {
		return nil, false
	}
	if sess.expired(e.now()) {
		delete(sh.live, id)
		e.recorder.SessionsExpired(1)
		return nil, false
	}
	return sess.clone(), true
}

// Verify checks the one-time code and settles the session. A repeated call for
// an already settled session returns the stored result unchanged.
func (e *Engine) Verify(id, otp, email string) (*PaymentResult, error) {
	sess, _, err := e.verify(id, otp, email)
	if err != nil {
		return nil, err
	}
	return sess.PaymentResult, nil
}

// verify returns a snapshot of the settled session and whether this call settled it.
func (e *Engine) verify(id, otp, email string) (*Session, bool, error) {
	sh := e.store.shardFor(id)
	sh.mu.Lock()
	defer sh.mu.Unlock()
	now := e.now()

	if done, ok := sh.settled[id]; ok {
		if !done.expired(now) {
			return done.clone(), false, nil
		}
		delete(sh.settled, id)
	}

	sess, ok := sh.live[id]
	if !ok {
		e.recorder.VerifyFailed("not_found")
		return nil, false, ErrSessionNotFound
	}
	if sess.expired(now) {
		delete(sh.live, id)
		e.recorder.SessionsExpired(1)
		e.recorder.VerifyFailed("not_found")
		return nil, false, ErrSessionNotFound
	}

	if sess.RequiresOtp {
		if otp == "" {
			e.recorder.VerifyFailed("otp_required")
			return nil, false, ErrOtpRequired
		}
		if subtle.ConstantTimeCompare([]byte(otp), []byte(sess.Otp)) != 1 {
			e.recorder.VerifyFailed("invalid_otp")
			return nil, false, ErrInvalidOtp
		}
	}

	e.settle(sh, sess, email, now)
	return sess.clone(), true, nil
}

// settle finalizes sess and moves it out of the live table. Caller holds sh.mu.
func (e *Engine) settle(sh *shard, sess *Session, email string, now time.Time) {
	result := &PaymentResult{
		ID:           e.newID("txn"),
		Status:       StatusSucceeded,
		UpdateTime:   now,
		EmailAddress: email,
		Method:       sess.Method,
		Currency:     sess.Currency,
		Amount:       sess.Amount,
		Reference:    e.newID("ref"),
		CardBrand:    sess.Metadata.CardBrand,
		MaskedCard:   sess.Metadata.MaskedCard,
		MaskedUpi:    sess.Metadata.MaskedUpi,
	}
	if m := sess.Metadata.MaskedCard; len(m) >= 4 {
		result.CardLast4 = m[len(m)-4:]
	}

	sess.Status = StatusSucceeded
	sess.PaymentResult = result
	delete(sh.live, sess.ID)
	sh.settled[sess.ID] = sess
	e.recorder.SessionSettled(string(sess.Method))
}

// Sweep evicts expired sessions from every shard and returns the number of
// live sessions removed.
func (e *Engine) Sweep() int {
	now := e.now()
	total := 0
	for _, sh := range e.store.shards {
		total += sh.evictExpired(now)
	}
	e.recorder.SessionsExpired(total)
	return total
}

// LiveSessions returns the number of sessions awaiting settlement, expired or not.
func (e *Engine) LiveSessions() int {
	return e.store.liveCount()
}
