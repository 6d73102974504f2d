package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"

	settlementlog "github.com/fatflowers/fakepay/internal/app/service/settlement_log"
	"github.com/fatflowers/fakepay/internal/app/service/statistics"
	"github.com/fatflowers/fakepay/internal/models"
	"github.com/fatflowers/fakepay/pkg/response"
)

// SettlementScanner lists ledger rows.
type SettlementScanner interface {
	Scan(ctx context.Context, req *settlementlog.ScanRequest) (*settlementlog.ScanResponse, error)
}

// SettlementStatistics aggregates ledger rows.
type SettlementStatistics interface {
	GetSettlementStatistic(ctx context.Context, req *statistics.StatisticRequest) (*statistics.StatisticResponse, error)
}

type SettlementItem struct {
	ID            string          `json:"id"`
	SessionID     string          `json:"session_id"`
	TransactionID string          `json:"transaction_id"`
	Reference     string          `json:"reference"`
	Method        string          `json:"method"`
	Currency      string          `json:"currency"`
	Amount        decimal.Decimal `json:"amount" swaggertype:"string"`
	CardBrand     string          `json:"card_brand,omitempty"`
	CardLast4     string          `json:"card_last4,omitempty"`
	MaskedUpi     string          `json:"masked_upi,omitempty"`
	EmailAddress  string          `json:"email_address"`
	CustomerName  string          `json:"customer_name,omitempty"`
	TraceID       string          `json:"trace_id,omitempty"`
	SettledAt     time.Time       `json:"settled_at"`
}

type ListSettlementsResponse struct {
	Items []*SettlementItem `json:"items"`
	Total int64             `json:"total"`
}

func toSettlementItem(m *models.Settlement) *SettlementItem {
	item := &SettlementItem{
		ID:            m.ID,
		SessionID:     m.SessionID,
		TransactionID: m.TransactionID,
		Reference:     m.Reference,
		Method:        m.Method,
		Currency:      m.Currency,
		Amount:        m.Amount,
		CardBrand:     m.CardBrand,
		CardLast4:     m.CardLast4,
		MaskedUpi:     m.MaskedUpi,
		EmailAddress:  m.EmailAddress,
		TraceID:       m.TraceID,
		SettledAt:     m.SettledAt,
	}
	if name, ok := m.Extra["customer_name"].(string); ok {
		item.CustomerName = name
	}
	return item
}

// @Summary      List Settlements (Admin)
// @Description  Retrieves a paginated and filterable list of settled payments.
// @Tags         Admin
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body settlementlog.ScanRequest true "Filters, pagination and sorting"
// @Success      200  {object}  handlers.RespListSettlements
// @Failure      400  {object}  handlers.RespError
// @Failure      401  {object}  handlers.RespError
// @Failure      403  {object}  handlers.RespError
// @Router       /api/v1/admin/list_settlements [post]
func ApiListSettlements(scanner SettlementScanner) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req settlementlog.ScanRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			abortBadRequest(c, err)
			return
		}
		res, err := scanner.Scan(c.Request.Context(), &req)
		if err != nil {
			abortWithError(c, err)
			return
		}
		items := lo.Map(res.Items, func(it *models.Settlement, _ int) *SettlementItem { return toSettlementItem(it) })
		c.JSON(http.StatusOK, response.OKT(&ListSettlementsResponse{Items: items, Total: res.Total}))
	}
}

// @Summary      Get Settlement Statistics (Admin)
// @Description  Aggregates settled payments per day, currency or method.
// @Tags         Admin
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body statistics.StatisticRequest true "Statistic request parameters"
// @Success      200  {object}  handlers.RespSettlementStatistic
// @Failure      400  {object}  handlers.RespError
// @Failure      401  {object}  handlers.RespError
// @Failure      403  {object}  handlers.RespError
// @Router       /api/v1/admin/get_settlement_statistic [post]
func ApiGetSettlementStatistic(svc SettlementStatistics) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req statistics.StatisticRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			abortBadRequest(c, err)
			return
		}
		res, err := svc.GetSettlementStatistic(c.Request.Context(), &req)
		if err != nil {
			abortWithError(c, err)
			return
		}
		c.JSON(http.StatusOK, response.OKT(res))
	}
}

func RegisterAdminRoutes(r gin.IRouter, scanner SettlementScanner, stats SettlementStatistics) {
	r.POST("/list_settlements", ApiListSettlements(scanner))
	r.POST("/get_settlement_statistic", ApiGetSettlementStatistic(stats))
}
