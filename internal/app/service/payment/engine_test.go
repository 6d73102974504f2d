package payment

import (
	"fmt"
	"regexp"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2025, 1, 1, 10, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

type countingRecorder struct {
	mu       sync.Mutex
	created  int
	settled  int
	failures map[string]int
	expired  int
}

func (r *countingRecorder) SessionCreated(string) { r.mu.Lock(); r.created++; r.mu.Unlock() }
func (r *countingRecorder) SessionSettled(string) { r.mu.Lock(); r.settled++; r.mu.Unlock() }
func (r *countingRecorder) VerifyFailed(reason string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failures == nil {
		r.failures = map[string]int{}
	}
	r.failures[reason]++
}
func (r *countingRecorder) SessionsExpired(n int) { r.mu.Lock(); r.expired += n; r.mu.Unlock() }

func cardInput(amount int64) CreateSessionInput {
	return CreateSessionInput{
		Amount:     decimal.NewFromInt(amount),
		Method:     MethodCard,
		CardNumber: "4111111111111111",
		CardHolder: "Asha Rao",
		Expiry:     "12/29",
		Customer:   Customer{Name: "Asha", Email: "asha@example.com"},
	}
}

func TestCreateSession_RejectsNonPositiveAmount(t *testing.T) {
	e := NewEngine()
	for _, amount := range []decimal.Decimal{decimal.Zero, decimal.NewFromInt(-1), decimal.RequireFromString("-0.01")} {
		_, err := e.CreateSession(CreateSessionInput{Amount: amount, Method: MethodCard})
		require.ErrorIs(t, err, ErrInvalidAmount)
	}
	require.Equal(t, 0, e.LiveSessions())
}

func TestCreateSession_OtpMethods(t *testing.T) {
	e := NewEngine()
	otpPattern := regexp.MustCompile(`^[0-9]{6}$`)
	for _, m := range []Method{MethodCard, MethodUPI, MethodNetBanking} {
		sess, err := e.CreateSession(CreateSessionInput{Amount: decimal.NewFromInt(10), Method: m})
		require.NoError(t, err)
		require.True(t, sess.RequiresOtp, m)
		require.Equal(t, StatusRequiresAction, sess.Status)
		require.Regexp(t, otpPattern, sess.Otp)
	}
}

func TestCreateSession_InstantMethods(t *testing.T) {
	e := NewEngine()
	for _, m := range []Method{MethodCOD, MethodWallet, Method("GiftCard")} {
		sess, err := e.CreateSession(CreateSessionInput{Amount: decimal.NewFromInt(10), Method: m})
		require.NoError(t, err)
		require.False(t, sess.RequiresOtp)
		require.Empty(t, sess.Otp)
		require.Equal(t, StatusSucceeded, sess.Status)
		require.Nil(t, sess.PaymentResult)
	}
}

func TestCreateSession_DerivesMetadataAndDefaults(t *testing.T) {
	clock := newFakeClock()
	e := NewEngine(WithClock(clock.Now))

	sess, err := e.CreateSession(cardInput(500))
	require.NoError(t, err)
	require.Regexp(t, regexp.MustCompile(`^session_[0-9a-f]{32}$`), sess.ID)
	require.Equal(t, "INR", sess.Currency)
	require.Equal(t, "XXXX-XXXX-XXXX-1111", sess.Metadata.MaskedCard)
	require.Equal(t, "VISA", sess.Metadata.CardBrand)
	require.Equal(t, clock.Now(), sess.CreatedAt)
	require.Equal(t, clock.Now().Add(5*time.Minute), sess.ExpiresAt)
	require.Equal(t, "asha@example.com", sess.Customer.Email)

	upi, err := e.CreateSession(CreateSessionInput{Amount: decimal.NewFromInt(1), Method: MethodUPI, UpiID: "ab@upi", Currency: "USD"})
	require.NoError(t, err)
	require.Equal(t, "ab***@upi", upi.Metadata.MaskedUpi)
	require.Equal(t, "USD", upi.Currency)
	require.Empty(t, upi.Metadata.MaskedCard)
}

func TestCreateSession_RetriesOnIDCollision(t *testing.T) {
	e := NewEngine()
	ids := []string{"session_dup", "session_dup", "session_other"}
	e.newID = func(prefix string) string {
		if prefix != "session" {
			return prefix + "_x"
		}
		id := ids[0]
		ids = ids[1:]
		return id
	}

	first, err := e.CreateSession(cardInput(1))
	require.NoError(t, err)
	second, err := e.CreateSession(cardInput(1))
	require.NoError(t, err)
	require.Equal(t, "session_dup", first.ID)
	require.Equal(t, "session_other", second.ID)
}

func TestGetSession_ReturnsSnapshot(t *testing.T) {
	e := NewEngine()
	sess, err := e.CreateSession(cardInput(500))
	require.NoError(t, err)

	got, ok := e.GetSession(sess.ID)
	require.True(t, ok)
	got.Status = StatusSucceeded

	again, ok := e.GetSession(sess.ID)
	require.True(t, ok)
	require.Equal(t, StatusRequiresAction, again.Status)

	_, ok = e.GetSession("session_missing")
	require.False(t, ok)
}

func TestVerify_EndToEndCard(t *testing.T) {
	e := NewEngine()
	sess, err := e.CreateSession(cardInput(500))
	require.NoError(t, err)
	require.Equal(t, StatusRequiresAction, sess.Status)

	res, err := e.Verify(sess.ID, sess.Otp, "a@b.com")
	require.NoError(t, err)
	require.Equal(t, StatusSucceeded, res.Status)
	require.True(t, decimal.NewFromInt(500).Equal(res.Amount))
	require.Equal(t, MethodCard, res.Method)
	require.Equal(t, "VISA", res.CardBrand)
	require.Equal(t, "1111", res.CardLast4)
	require.Equal(t, "a@b.com", res.EmailAddress)
	require.Regexp(t, regexp.MustCompile(`^txn_`), res.ID)
	require.Regexp(t, regexp.MustCompile(`^ref_`), res.Reference)

	_, ok := e.GetSession(sess.ID)
	require.False(t, ok)
	require.Equal(t, 0, e.LiveSessions())
}

func TestVerify_IsIdempotent(t *testing.T) {
	rec := &countingRecorder{}
	e := NewEngine(WithRecorder(rec))
	sess, err := e.CreateSession(CreateSessionInput{Amount: decimal.NewFromInt(99), Method: MethodUPI, UpiID: "ab@upi"})
	require.NoError(t, err)

	first, err := e.Verify(sess.ID, sess.Otp, "a@b.com")
	require.NoError(t, err)
	second, err := e.Verify(sess.ID, sess.Otp, "other@b.com")
	require.NoError(t, err)

	require.Equal(t, first.ID, second.ID)
	require.Equal(t, first, second)
	require.Equal(t, 1, rec.settled)

	_, fresh, err := e.verify(sess.ID, "", "")
	require.NoError(t, err)
	require.False(t, fresh)
}

func TestVerify_InstantMethodSettlesOnFirstCall(t *testing.T) {
	e := NewEngine()
	sess, err := e.CreateSession(CreateSessionInput{Amount: decimal.NewFromInt(10), Method: MethodCOD})
	require.NoError(t, err)

	res, err := e.Verify(sess.ID, "whatever", "a@b.com")
	require.NoError(t, err)
	require.Equal(t, StatusSucceeded, res.Status)

	again, err := e.Verify(sess.ID, "", "a@b.com")
	require.NoError(t, err)
	require.Equal(t, res.ID, again.ID)
}

func TestVerify_OtpErrors(t *testing.T) {
	rec := &countingRecorder{}
	e := NewEngine(WithRecorder(rec))
	e.newOtp = func() string { return "012345" }
	sess, err := e.CreateSession(cardInput(500))
	require.NoError(t, err)
	require.Equal(t, "012345", sess.Otp)

	_, err = e.Verify(sess.ID, "", "a@b.com")
	require.ErrorIs(t, err, ErrOtpRequired)

	_, err = e.Verify(sess.ID, "12345", "a@b.com")
	require.ErrorIs(t, err, ErrInvalidOtp)

	_, err = e.Verify(sess.ID, "999999", "a@b.com")
	require.ErrorIs(t, err, ErrInvalidOtp)

	got, ok := e.GetSession(sess.ID)
	require.True(t, ok)
	require.Equal(t, StatusRequiresAction, got.Status)
	require.Nil(t, got.PaymentResult)

	res, err := e.Verify(sess.ID, "012345", "a@b.com")
	require.NoError(t, err)
	require.Equal(t, StatusSucceeded, res.Status)
	require.Equal(t, 1, rec.failures["otp_required"])
	require.Equal(t, 2, rec.failures["invalid_otp"])
}

func TestVerify_UnknownSession(t *testing.T) {
	e := NewEngine()
	_, err := e.Verify("session_nope", "123456", "a@b.com")
	require.ErrorIs(t, err, ErrSessionNotFound)
}

func TestExpiry_LazyEviction(t *testing.T) {
	clock := newFakeClock()
	rec := &countingRecorder{}
	e := NewEngine(WithClock(clock.Now), WithRecorder(rec))

	sess, err := e.CreateSession(cardInput(500))
	require.NoError(t, err)

	clock.Advance(5 * time.Minute)
	_, ok := e.GetSession(sess.ID)
	require.True(t, ok, "session is valid up to and including expires_at")

	clock.Advance(time.Millisecond)
	_, ok = e.GetSession(sess.ID)
	require.False(t, ok)
	require.Equal(t, 0, e.LiveSessions())
	require.Equal(t, 1, rec.expired)

	_, err = e.Verify(sess.ID, sess.Otp, "a@b.com")
	require.ErrorIs(t, err, ErrSessionNotFound)
}

func TestExpiry_VerifyAfterTTL(t *testing.T) {
	clock := newFakeClock()
	e := NewEngine(WithClock(clock.Now), WithTTL(time.Minute))

	sess, err := e.CreateSession(cardInput(500))
	require.NoError(t, err)
	clock.Advance(2 * time.Minute)

	_, err = e.Verify(sess.ID, sess.Otp, "a@b.com")
	require.ErrorIs(t, err, ErrSessionNotFound)
	require.Equal(t, 0, e.LiveSessions())
}

func TestExpiry_ReplayWindowEndsAtExpiresAt(t *testing.T) {
	clock := newFakeClock()
	e := NewEngine(WithClock(clock.Now))

	sess, err := e.CreateSession(cardInput(500))
	require.NoError(t, err)
	_, err = e.Verify(sess.ID, sess.Otp, "a@b.com")
	require.NoError(t, err)

	clock.Advance(6 * time.Minute)
	_, err = e.Verify(sess.ID, sess.Otp, "a@b.com")
	require.ErrorIs(t, err, ErrSessionNotFound)
}

func TestSweep_EvictsExpired(t *testing.T) {
	clock := newFakeClock()
	rec := &countingRecorder{}
	e := NewEngine(WithClock(clock.Now), WithRecorder(rec), WithShards(4))

	for i := 0; i < 10; i++ {
		_, err := e.CreateSession(cardInput(int64(i + 1)))
		require.NoError(t, err)
	}
	clock.Advance(3 * time.Minute)
	keep, err := e.CreateSession(cardInput(1))
	require.NoError(t, err)

	clock.Advance(3 * time.Minute)
	require.Equal(t, 10, e.Sweep())
	require.Equal(t, 1, e.LiveSessions())
	require.Equal(t, 10, rec.expired)

	_, ok := e.GetSession(keep.ID)
	require.True(t, ok)
}

func TestVerify_ConcurrentSettlesOnce(t *testing.T) {
	rec := &countingRecorder{}
	e := NewEngine(WithRecorder(rec))
	sess, err := e.CreateSession(cardInput(500))
	require.NoError(t, err)

	const callers = 32
	ids := make([]string, callers)
	var wg sync.WaitGroup
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			res, err := e.Verify(sess.ID, sess.Otp, "a@b.com")
			if err == nil {
				ids[i] = res.ID
			}
		}(i)
	}
	wg.Wait()

	for _, id := range ids {
		require.Equal(t, ids[0], id)
	}
	require.NotEmpty(t, ids[0])
	require.Equal(t, 1, rec.settled)
}

func TestEngine_ConcurrentIndependentSessions(t *testing.T) {
	e := NewEngine(WithShards(8))

	const n = 64
	var wg sync.WaitGroup
	errs := make(chan error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			sess, err := e.CreateSession(cardInput(int64(i + 1)))
			if err != nil {
				errs <- err
				return
			}
			res, err := e.Verify(sess.ID, sess.Otp, fmt.Sprintf("u%d@b.com", i))
			if err != nil {
				errs <- err
				return
			}
			if !res.Amount.Equal(decimal.NewFromInt(int64(i + 1))) {
				errs <- fmt.Errorf("session %s settled with amount %s", sess.ID, res.Amount)
			}
		}(i)
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}
	require.Equal(t, 0, e.LiveSessions())
}
