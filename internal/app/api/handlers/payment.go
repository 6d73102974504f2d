package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	mw "github.com/fatflowers/fakepay/internal/app/api/middleware"
	"github.com/fatflowers/fakepay/internal/app/service/payment"
	"github.com/fatflowers/fakepay/pkg/config"
	"github.com/fatflowers/fakepay/pkg/logctx"
	"github.com/fatflowers/fakepay/pkg/response"
)

var errUnauthenticated = errors.New("customer not authenticated")

type InitiatePaymentRequest struct {
	Amount     decimal.Decimal `json:"amount" swaggertype:"string" example:"500.00"`
	Method     string          `json:"method" example:"Card"`
	Currency   string          `json:"currency,omitempty" example:"INR"`
	CardNumber string          `json:"card_number,omitempty" example:"4111 1111 1111 1111"`
	CardHolder string          `json:"card_holder,omitempty" example:"Asha Rao"`
	Expiry     string          `json:"expiry,omitempty" example:"12/29"`
	Cvv        string          `json:"cvv,omitempty" example:"123"`
	UpiID      string          `json:"upi_id,omitempty" example:"asha@okaxis"`
}

type ConfirmPaymentRequest struct {
	SessionID string `json:"session_id" example:"session_4f2c..."`
	Otp       string `json:"otp" example:"123456"`
}

// SessionView is the caller-visible session. It never carries raw card or UPI values.
type SessionView struct {
	SessionID   string           `json:"session_id"`
	Amount      decimal.Decimal  `json:"amount" swaggertype:"string"`
	Currency    string           `json:"currency"`
	Method      payment.Method   `json:"method" swaggertype:"string"`
	Status      payment.Status   `json:"status" swaggertype:"string"`
	RequiresOtp bool             `json:"requires_otp"`
	Metadata    payment.Metadata `json:"metadata"`
	CreatedAt   time.Time        `json:"created_at"`
	ExpiresAt   time.Time        `json:"expires_at"`
	// OtpHint is a development aid, only populated when enabled in config.
	OtpHint string `json:"otp_hint,omitempty"`
}

type InitiatePaymentResponse struct {
	Session       *SessionView           `json:"session"`
	Message       string                 `json:"message"`
	PaymentResult *payment.PaymentResult `json:"payment_result,omitempty"`
}

func toSessionView(cfg *config.Config, s *payment.Session) *SessionView {
	v := &SessionView{
		SessionID:   s.ID,
		Amount:      s.Amount,
		Currency:    s.Currency,
		Method:      s.Method,
		Status:      s.Status,
		RequiresOtp: s.RequiresOtp,
		Metadata:    s.Metadata,
		CreatedAt:   s.CreatedAt,
		ExpiresAt:   s.ExpiresAt,
	}
	if s.RequiresOtp && cfg.OtpHintEnabled() {
		v.OtpHint = s.Otp
	}
	return v
}

// @Summary      Initiate Payment
// @Description  Validates the payment details and opens a payment session. Methods without a one-time code settle immediately.
// @Tags         Payment
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body InitiatePaymentRequest true "Payment details"
// @Success      200  {object}  handlers.RespInitiatePayment
// @Failure      400  {object}  handlers.RespError
// @Failure      401  {object}  handlers.RespError
// @Router       /api/v1/payment/initiate [post]
func ApiInitiatePayment(gw payment.Gateway, cfg *config.Config, log *zap.SugaredLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		customer, ok := mw.CustomerFrom(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, response.ErrorT[any](response.APIResponseCodeUnauthorized, errUnauthenticated.Error()))
			return
		}
		var req InitiatePaymentRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			abortBadRequest(c, err)
			return
		}

		res, err := gw.Initiate(c.Request.Context(), &payment.InitiateRequest{
			Amount:     req.Amount,
			Method:     payment.Method(req.Method),
			Currency:   req.Currency,
			CardNumber: req.CardNumber,
			CardHolder: req.CardHolder,
			Expiry:     req.Expiry,
			Cvv:        req.Cvv,
			UpiID:      req.UpiID,
		}, customer)
		if err != nil {
			if !payment.IsClientError(err) {
				logctx.FromGin(c, log).Errorw("initiate payment failed", "err", err)
			}
			abortWithError(c, err)
			return
		}
		c.JSON(http.StatusOK, response.OKT(&InitiatePaymentResponse{
			Session:       toSessionView(cfg, res.Session),
			Message:       res.Message,
			PaymentResult: res.PaymentResult,
		}))
	}
}

// @Summary      Confirm Payment
// @Description  Verifies the one-time code and settles the session. Repeating a successful confirmation returns the same result.
// @Tags         Payment
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body ConfirmPaymentRequest true "Session id and one-time code"
// @Success      200  {object}  handlers.RespPaymentResult
// @Failure      400  {object}  handlers.RespError
// @Failure      404  {object}  handlers.RespError
// @Router       /api/v1/payment/confirm [post]
func ApiConfirmPayment(gw payment.Gateway) gin.HandlerFunc {
	return func(c *gin.Context) {
		customer, ok := mw.CustomerFrom(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, response.ErrorT[any](response.APIResponseCodeUnauthorized, errUnauthenticated.Error()))
			return
		}
		var req ConfirmPaymentRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			abortBadRequest(c, err)
			return
		}
		res, err := gw.Confirm(c.Request.Context(), req.SessionID, req.Otp, customer.Email)
		if err != nil {
			abortWithError(c, err)
			return
		}
		c.JSON(http.StatusOK, response.OKT(res))
	}
}

// @Summary      Payment Session Status
// @Description  Returns a live payment session. Settled and expired sessions are not found.
// @Tags         Payment
// @Produce      json
// @Security     BearerAuth
// @Param        session_id path string true "Session id"
// @Success      200  {object}  handlers.RespSession
// @Failure      404  {object}  handlers.RespError
// @Router       /api/v1/payment/status/{session_id} [get]
func ApiPaymentStatus(gw payment.Gateway, cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		sess, ok := gw.Status(c.Request.Context(), c.Param("session_id"))
		if !ok {
			abortWithError(c, payment.ErrSessionNotFound)
			return
		}
		c.JSON(http.StatusOK, response.OKT(toSessionView(cfg, sess)))
	}
}

func RegisterPaymentRoutes(r gin.IRouter, gw payment.Gateway, cfg *config.Config, log *zap.SugaredLogger) {
	r.POST("/initiate", ApiInitiatePayment(gw, cfg, log))
	r.POST("/confirm", ApiConfirmPayment(gw))
	r.GET("/status/:session_id", ApiPaymentStatus(gw, cfg))
}
