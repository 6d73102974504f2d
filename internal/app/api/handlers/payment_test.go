package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	mw "github.com/fatflowers/fakepay/internal/app/api/middleware"
	"github.com/fatflowers/fakepay/internal/app/service/payment"
	"github.com/fatflowers/fakepay/pkg/config"
)

const testSecret = "handler-secret"

type envelope struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

type paymentAPI struct {
	t     *testing.T
	r     *gin.Engine
	token string
}

func newPaymentAPI(t *testing.T, cfg *config.Config) *paymentAPI {
	t.Helper()
	gin.SetMode(gin.TestMode)
	log := zap.NewNop().Sugar()
	gw := payment.NewService(cfg, log, payment.NewEngine(), nil, nil)

	r := gin.New()
	g := r.Group("/api/v1/payment")
	g.Use(mw.AuthMiddleware(testSecret, log))
	RegisterPaymentRoutes(g, gw, cfg, log)

	token, err := mw.SignCustomerToken(testSecret, mw.CustomerClaims{Name: "Asha", Email: "a@b.com"})
	require.NoError(t, err)
	return &paymentAPI{t: t, r: r, token: token}
}

func (a *paymentAPI) do(method, path string, body any) (*httptest.ResponseRecorder, envelope) {
	a.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(a.t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if a.token != "" {
		req.Header.Set("Authorization", "Bearer "+a.token)
	}
	w := httptest.NewRecorder()
	a.r.ServeHTTP(w, req)

	var env envelope
	require.NoError(a.t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	return w, env
}

func devConfig() *config.Config {
	return &config.Config{Env: config.EnvDev, Payment: config.PaymentConfig{ExposeOtp: true}}
}

func cardBody() map[string]any {
	return map[string]any{
		"amount":      500,
		"method":      "Card",
		"card_number": "4111 1111 1111 1111",
		"card_holder": "Asha Rao",
		"expiry":      "12/29",
		"cvv":         "123",
	}
}

func TestPaymentFlow_CardInitiateConfirmStatus(t *testing.T) {
	api := newPaymentAPI(t, devConfig())

	w, env := api.do(http.MethodPost, "/api/v1/payment/initiate", cardBody())
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, 0, env.Code)
	require.NotContains(t, w.Body.String(), "4111 1111 1111 1111")
	require.NotContains(t, w.Body.String(), "4111111111111111")

	var initRes InitiatePaymentResponse
	require.NoError(t, json.Unmarshal(env.Data, &initRes))
	require.Equal(t, payment.MessageOtpSent, initRes.Message)
	require.True(t, initRes.Session.RequiresOtp)
	require.Equal(t, payment.StatusRequiresAction, initRes.Session.Status)
	require.Equal(t, "XXXX-XXXX-XXXX-1111", initRes.Session.Metadata.MaskedCard)
	require.Len(t, initRes.Session.OtpHint, 6)
	require.Nil(t, initRes.PaymentResult)

	id := initRes.Session.SessionID
	w, _ = api.do(http.MethodGet, "/api/v1/payment/status/"+id, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w, env = api.do(http.MethodPost, "/api/v1/payment/confirm", map[string]any{"session_id": id, "otp": "bad"})
	require.Equal(t, http.StatusBadRequest, w.Code)
	require.Equal(t, 40000, env.Code)

	w, env = api.do(http.MethodPost, "/api/v1/payment/confirm", map[string]any{"session_id": id, "otp": initRes.Session.OtpHint})
	require.Equal(t, http.StatusOK, w.Code)
	var first payment.PaymentResult
	require.NoError(t, json.Unmarshal(env.Data, &first))
	require.Equal(t, payment.StatusSucceeded, first.Status)
	require.Equal(t, "a@b.com", first.EmailAddress)
	require.Equal(t, "1111", first.CardLast4)
	require.Equal(t, "VISA", first.CardBrand)

	w, env = api.do(http.MethodPost, "/api/v1/payment/confirm", map[string]any{"session_id": id, "otp": initRes.Session.OtpHint})
	require.Equal(t, http.StatusOK, w.Code)
	var second payment.PaymentResult
	require.NoError(t, json.Unmarshal(env.Data, &second))
	require.Equal(t, first.ID, second.ID)

	w, env = api.do(http.MethodGet, "/api/v1/payment/status/"+id, nil)
	require.Equal(t, http.StatusNotFound, w.Code)
	require.Equal(t, 40400, env.Code)
}

func TestInitiatePayment_InstantMethod(t *testing.T) {
	api := newPaymentAPI(t, devConfig())

	w, env := api.do(http.MethodPost, "/api/v1/payment/initiate", map[string]any{"amount": "99.50", "method": "COD"})
	require.Equal(t, http.StatusOK, w.Code)
	var res InitiatePaymentResponse
	require.NoError(t, json.Unmarshal(env.Data, &res))
	require.Equal(t, payment.MessageAuthorized, res.Message)
	require.False(t, res.Session.RequiresOtp)
	require.Empty(t, res.Session.OtpHint)
	require.NotNil(t, res.PaymentResult)
	require.Equal(t, "99.5", res.PaymentResult.Amount.String())
}

func TestInitiatePayment_ValidationErrors(t *testing.T) {
	api := newPaymentAPI(t, devConfig())

	for name, body := range map[string]map[string]any{
		"zero amount": {"amount": 0, "method": "Card"},
		"no method":   {"amount": 10},
		"bad upi":     {"amount": 10, "method": "UPI", "upi_id": "nohandle"},
		"bad cvv":     func() map[string]any { b := cardBody(); b["cvv"] = "1"; return b }(),
	} {
		w, env := api.do(http.MethodPost, "/api/v1/payment/initiate", body)
		require.Equal(t, http.StatusBadRequest, w.Code, name)
		require.Equal(t, 40000, env.Code, name)
	}
}

func TestInitiatePayment_HidesOtpOutsideDev(t *testing.T) {
	for _, env := range []config.Env{config.EnvProd, "production", "staging"} {
		cfg := devConfig()
		cfg.Env = env
		api := newPaymentAPI(t, cfg)

		w, res := api.do(http.MethodPost, "/api/v1/payment/initiate", cardBody())
		require.Equal(t, http.StatusOK, w.Code, env)
		require.NotContains(t, string(res.Data), "otp_hint", env)
	}

	api := newPaymentAPI(t, &config.Config{Env: config.EnvDev})
	_, res := api.do(http.MethodPost, "/api/v1/payment/initiate", cardBody())
	require.NotContains(t, string(res.Data), "otp_hint")
}

func TestConfirmPayment_Errors(t *testing.T) {
	api := newPaymentAPI(t, devConfig())

	w, env := api.do(http.MethodPost, "/api/v1/payment/confirm", map[string]any{"otp": "123456"})
	require.Equal(t, http.StatusBadRequest, w.Code)
	require.Equal(t, 40000, env.Code)

	w, env = api.do(http.MethodPost, "/api/v1/payment/confirm", map[string]any{"session_id": "session_missing", "otp": "123456"})
	require.Equal(t, http.StatusNotFound, w.Code)
	require.Equal(t, 40400, env.Code)
}

func TestPaymentRoutes_RequireAuth(t *testing.T) {
	api := newPaymentAPI(t, devConfig())
	api.token = ""

	w, env := api.do(http.MethodPost, "/api/v1/payment/initiate", cardBody())
	require.Equal(t, http.StatusUnauthorized, w.Code)
	require.Equal(t, 40100, env.Code)
}

func TestRegisterPaymentRoutes_RegistersEndpoints(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	RegisterPaymentRoutes(r.Group("/api/v1/payment"), nil, nil, nil)
	RegisterAdminRoutes(r.Group("/api/v1/admin"), nil, nil)
	RegisterHealthRoutes(r.Group("/"))

	routes := r.Routes()
	contains := func(target string) bool {
		for _, rt := range routes {
			if rt.Method+" "+rt.Path == target {
				return true
			}
		}
		return false
	}

	require.True(t, contains("POST /api/v1/payment/initiate"))
	require.True(t, contains("POST /api/v1/payment/confirm"))
	require.True(t, contains("GET /api/v1/payment/status/:session_id"))
	require.True(t, contains("POST /api/v1/admin/list_settlements"))
	require.True(t, contains("POST /api/v1/admin/get_settlement_statistic"))
	require.True(t, contains("GET /healthz"))
}
