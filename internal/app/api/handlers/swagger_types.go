package handlers

import (
	"github.com/fatflowers/fakepay/internal/app/service/payment"
	"github.com/fatflowers/fakepay/internal/app/service/statistics"
	"github.com/fatflowers/fakepay/pkg/response"
)

// RespError is the envelope returned with non-2xx statuses; data carries the error text.
type RespError struct {
	Code    response.APIResponseCode `json:"code"`
	Message string                   `json:"message"`
	Data    string                   `json:"data"`
}

type RespHealth struct {
	Code    response.APIResponseCode `json:"code"`
	Message string                   `json:"message"`
	Data    map[string]string        `json:"data"`
}

type RespInitiatePayment struct {
	Code    response.APIResponseCode `json:"code"`
	Message string                   `json:"message"`
	Data    InitiatePaymentResponse  `json:"data"`
}

type RespPaymentResult struct {
	Code    response.APIResponseCode `json:"code"`
	Message string                   `json:"message"`
	Data    payment.PaymentResult    `json:"data"`
}

type RespSession struct {
	Code    response.APIResponseCode `json:"code"`
	Message string                   `json:"message"`
	Data    SessionView              `json:"data"`
}

type RespListSettlements struct {
	Code    response.APIResponseCode `json:"code"`
	Message string                   `json:"message"`
	Data    ListSettlementsResponse  `json:"data"`
}

type RespSettlementStatistic struct {
	Code    response.APIResponseCode     `json:"code"`
	Message string                       `json:"message"`
	Data    statistics.StatisticResponse `json:"data"`
}
