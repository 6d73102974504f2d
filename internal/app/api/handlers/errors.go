package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/fatflowers/fakepay/internal/app/service/payment"
	settlementlog "github.com/fatflowers/fakepay/internal/app/service/settlement_log"
	"github.com/fatflowers/fakepay/internal/app/service/statistics"
	"github.com/fatflowers/fakepay/pkg/response"
)

// abortWithError writes the envelope for err using the HTTP status matching its kind.
func abortWithError(c *gin.Context, err error) {
	status, code := http.StatusInternalServerError, response.APIResponseCodeError
	switch {
	case errors.Is(err, payment.ErrSessionNotFound):
		status, code = http.StatusNotFound, response.APIResponseCodeNotFound
	case payment.IsClientError(err),
		errors.Is(err, settlementlog.ErrInvalidScanRequest),
		errors.Is(err, statistics.ErrInvalidStatisticRequest):
		status, code = http.StatusBadRequest, response.APIResponseCodeBadRequest
	}
	c.AbortWithStatusJSON(status, response.ErrorT[any](code, err.Error()))
}

func abortBadRequest(c *gin.Context, err error) {
	c.AbortWithStatusJSON(http.StatusBadRequest, response.ErrorT[any](response.APIResponseCodeBadRequest, err.Error()))
}
