// Package docs registers the OpenAPI document served at /swagger/*any.
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "contact": {},
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/healthz": {
            "get": {
                "description": "Returns service status",
                "produces": ["application/json"],
                "tags": ["System"],
                "summary": "Health check",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handlers.RespHealth"}}
                }
            }
        },
        "/api/v1/payment/initiate": {
            "post": {
                "security": [{"BearerAuth": []}],
                "description": "Validates the payment details and opens a payment session. Methods without a one-time code settle immediately.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Payment"],
                "summary": "Initiate Payment",
                "parameters": [
                    {"description": "Payment details", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handlers.InitiatePaymentRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handlers.RespInitiatePayment"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/handlers.RespError"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/handlers.RespError"}}
                }
            }
        },
        "/api/v1/payment/confirm": {
            "post": {
                "security": [{"BearerAuth": []}],
                "description": "Verifies the one-time code and settles the session. Repeating a successful confirmation returns the same result.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Payment"],
                "summary": "Confirm Payment",
                "parameters": [
                    {"description": "Session id and one-time code", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handlers.ConfirmPaymentRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handlers.RespPaymentResult"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/handlers.RespError"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/handlers.RespError"}}
                }
            }
        },
        "/api/v1/payment/status/{session_id}": {
            "get": {
                "security": [{"BearerAuth": []}],
                "description": "Returns a live payment session. Settled and expired sessions are not found.",
                "produces": ["application/json"],
                "tags": ["Payment"],
                "summary": "Payment Session Status",
                "parameters": [
                    {"type": "string", "description": "Session id", "name": "session_id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handlers.RespSession"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/handlers.RespError"}}
                }
            }
        },
        "/api/v1/admin/list_settlements": {
            "post": {
                "description": "Retrieves a paginated and filterable list of settled payments.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Admin"],
                "summary": "List Settlements (Admin)",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"description": "Filters, pagination and sorting", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/settlementlog.ScanRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handlers.RespListSettlements"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/handlers.RespError"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/handlers.RespError"}},
                    "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/handlers.RespError"}}
                }
            }
        },
        "/api/v1/admin/get_settlement_statistic": {
            "post": {
                "description": "Aggregates settled payments per day, currency or method.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Admin"],
                "summary": "Get Settlement Statistics (Admin)",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"description": "Statistic request parameters", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/statistics.StatisticRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handlers.RespSettlementStatistic"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/handlers.RespError"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/handlers.RespError"}},
                    "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/handlers.RespError"}}
                }
            }
        }
    },
    "definitions": {
        "handlers.ConfirmPaymentRequest": {
            "type": "object",
            "properties": {
                "otp": {"type": "string", "example": "123456"},
                "session_id": {"type": "string"}
            }
        },
        "handlers.InitiatePaymentRequest": {
            "type": "object",
            "properties": {
                "amount": {"type": "string", "example": "500.00"},
                "card_holder": {"type": "string", "example": "Asha Rao"},
                "card_number": {"type": "string", "example": "4111 1111 1111 1111"},
                "currency": {"type": "string", "example": "INR"},
                "cvv": {"type": "string", "example": "123"},
                "expiry": {"type": "string", "example": "12/29"},
                "method": {"type": "string", "example": "Card"},
                "upi_id": {"type": "string", "example": "asha@okaxis"}
            }
        },
        "handlers.InitiatePaymentResponse": {
            "type": "object",
            "properties": {
                "message": {"type": "string"},
                "payment_result": {"$ref": "#/definitions/payment.PaymentResult"},
                "session": {"$ref": "#/definitions/handlers.SessionView"}
            }
        },
        "handlers.ListSettlementsResponse": {
            "type": "object",
            "properties": {
                "items": {"type": "array", "items": {"$ref": "#/definitions/handlers.SettlementItem"}},
                "total": {"type": "integer"}
            }
        },
        "handlers.RespError": {
            "type": "object",
            "properties": {
                "code": {"type": "integer"},
                "data": {"type": "string"},
                "message": {"type": "string"}
            }
        },
        "handlers.RespHealth": {
            "type": "object",
            "properties": {
                "code": {"type": "integer"},
                "data": {"type": "object", "additionalProperties": {"type": "string"}},
                "message": {"type": "string"}
            }
        },
        "handlers.RespInitiatePayment": {
            "type": "object",
            "properties": {
                "code": {"type": "integer"},
                "data": {"$ref": "#/definitions/handlers.InitiatePaymentResponse"},
                "message": {"type": "string"}
            }
        },
        "handlers.RespListSettlements": {
            "type": "object",
            "properties": {
                "code": {"type": "integer"},
                "data": {"$ref": "#/definitions/handlers.ListSettlementsResponse"},
                "message": {"type": "string"}
            }
        },
        "handlers.RespPaymentResult": {
            "type": "object",
            "properties": {
                "code": {"type": "integer"},
                "data": {"$ref": "#/definitions/payment.PaymentResult"},
                "message": {"type": "string"}
            }
        },
        "handlers.RespSession": {
            "type": "object",
            "properties": {
                "code": {"type": "integer"},
                "data": {"$ref": "#/definitions/handlers.SessionView"},
                "message": {"type": "string"}
            }
        },
        "handlers.SessionView": {
            "type": "object",
            "properties": {
                "amount": {"type": "string"},
                "created_at": {"type": "string"},
                "currency": {"type": "string"},
                "expires_at": {"type": "string"},
                "metadata": {"$ref": "#/definitions/payment.Metadata"},
                "method": {"type": "string"},
                "otp_hint": {"type": "string"},
                "requires_otp": {"type": "boolean"},
                "session_id": {"type": "string"},
                "status": {"type": "string"}
            }
        },
        "handlers.SettlementItem": {
            "type": "object",
            "properties": {
                "amount": {"type": "string"},
                "card_brand": {"type": "string"},
                "card_last4": {"type": "string"},
                "currency": {"type": "string"},
                "customer_name": {"type": "string"},
                "email_address": {"type": "string"},
                "id": {"type": "string"},
                "masked_upi": {"type": "string"},
                "method": {"type": "string"},
                "reference": {"type": "string"},
                "session_id": {"type": "string"},
                "settled_at": {"type": "string"},
                "trace_id": {"type": "string"},
                "transaction_id": {"type": "string"}
            }
        },
        "payment.Metadata": {
            "type": "object",
            "properties": {
                "card_brand": {"type": "string"},
                "card_holder": {"type": "string"},
                "expiry": {"type": "string"},
                "masked_card": {"type": "string"},
                "masked_upi": {"type": "string"}
            }
        },
        "payment.PaymentResult": {
            "type": "object",
            "properties": {
                "amount": {"type": "string"},
                "card_brand": {"type": "string"},
                "card_last4": {"type": "string"},
                "currency": {"type": "string"},
                "email_address": {"type": "string"},
                "id": {"type": "string"},
                "masked_card": {"type": "string"},
                "masked_upi": {"type": "string"},
                "method": {"type": "string"},
                "reference": {"type": "string"},
                "status": {"type": "string"},
                "update_time": {"type": "string"}
            }
        },
        "settlementlog.ScanRequest": {
            "type": "object",
            "properties": {
                "filters": {"type": "array", "items": {"$ref": "#/definitions/types.CommonFilter"}},
                "from": {"type": "integer"},
                "size": {"type": "integer"},
                "sort_by": {"type": "string"},
                "sort_order": {"type": "string"}
            }
        },
        "handlers.RespSettlementStatistic": {
            "type": "object",
            "properties": {
                "code": {"type": "integer"},
                "data": {"$ref": "#/definitions/statistics.StatisticResponse"},
                "message": {"type": "string"}
            }
        },
        "statistics.StatisticRequest": {
            "type": "object",
            "properties": {
                "data_items": {"type": "array", "items": {"type": "object", "properties": {"id": {"type": "string", "enum": ["daily_settlement_count", "daily_volume", "total_volume", "method_breakdown"]}}}},
                "filters": {"type": "array", "items": {"$ref": "#/definitions/types.CommonFilter"}}
            }
        },
        "statistics.StatisticResponse": {
            "type": "object",
            "properties": {
                "data_items": {
                    "type": "object",
                    "additionalProperties": {
                        "type": "array",
                        "items": {
                            "type": "object",
                            "properties": {
                                "count": {"type": "integer"},
                                "date": {"type": "string"},
                                "label": {"type": "string"},
                                "value": {"type": "string"}
                            }
                        }
                    }
                }
            }
        },
        "types.CommonFilter": {
            "type": "object",
            "properties": {
                "field": {"type": "string"},
                "operator": {"type": "string", "enum": ["eq", "not_eq", "lt", "lte", "gt", "gte", "range", "in"]},
                "values": {"type": "array", "items": {}}
            }
        }
    },
    "securityDefinitions": {
        "BearerAuth": {"type": "apiKey", "name": "Authorization", "in": "header"}
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "localhost:8888",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Fakepay Payment API",
	Description:      "Simulated payment gateway: session initiation, one-time code confirmation and settlement.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
