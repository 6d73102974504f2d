package middleware

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt"
	"go.uber.org/zap"

	"github.com/fatflowers/fakepay/internal/app/service/payment"
	"github.com/fatflowers/fakepay/pkg/logctx"
	"github.com/fatflowers/fakepay/pkg/response"
)

const (
	// CustomerContextKey holds the authenticated payment.Customer in gin.Context.
	CustomerContextKey = "customer"
	RoleContextKey     = "role"
	AdminRole          = "admin"
)

var (
	errMissingToken    = errors.New("missing bearer token")
	errInvalidToken    = errors.New("invalid token")
	errAuthUnavailable = errors.New("authentication is not configured")
)

// CustomerClaims is the token payload identifying the paying customer.
type CustomerClaims struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role,omitempty"`
	jwt.StandardClaims
}

// AuthMiddleware requires an HS256 bearer token signed with secret and stores
// the customer it names. An empty secret rejects every request.
func AuthMiddleware(secret string, base *zap.SugaredLogger) gin.HandlerFunc {
	key := []byte(secret)
	return func(c *gin.Context) {
		claims, err := parseBearer(c.GetHeader("Authorization"), key)
		if err != nil {
			logctx.FromGin(c, base).Warnw("request rejected", "path", c.FullPath(), "err", err)
			c.AbortWithStatusJSON(http.StatusUnauthorized, response.ErrorT[any](response.APIResponseCodeUnauthorized, err.Error()))
			return
		}

		customer := payment.Customer{Name: claims.Name, Email: claims.Email}
		c.Set(CustomerContextKey, customer)
		c.Set(RoleContextKey, claims.Role)
		ctx := context.WithValue(c.Request.Context(), logctx.CustomerKey, customer.Email)
		c.Request = c.Request.WithContext(ctx)
		setRequestLogger(c, logctx.FromGin(c, base).With("customer_email", customer.Email))

		c.Next()
	}
}

func parseBearer(header string, key []byte) (*CustomerClaims, error) {
	if len(key) == 0 {
		return nil, errAuthUnavailable
	}
	scheme, token, found := strings.Cut(strings.TrimSpace(header), " ")
	if !found || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(token) == "" {
		return nil, errMissingToken
	}

	claims := &CustomerClaims{}
	parsed, err := jwt.ParseWithClaims(strings.TrimSpace(token), claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return key, nil
	})
	if err != nil || !parsed.Valid {
		return nil, errInvalidToken
	}
	if claims.Email == "" {
		return nil, fmt.Errorf("%w: email claim required", errInvalidToken)
	}
	return claims, nil
}

// AdminOnly must run after AuthMiddleware and rejects tokens without the admin role.
func AdminOnly(base *zap.SugaredLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if role := c.GetString(RoleContextKey); role != AdminRole {
			logctx.FromGin(c, base).Warnw("admin request rejected", "path", c.FullPath(), "role", role)
			c.AbortWithStatusJSON(http.StatusForbidden, response.ErrorT[any](response.APIResponseCodeForbidden, "admin role required"))
			return
		}
		c.Next()
	}
}

// CustomerFrom returns the customer stored by AuthMiddleware.
func CustomerFrom(c *gin.Context) (payment.Customer, bool) {
	v, ok := c.Get(CustomerContextKey)
	if !ok {
		return payment.Customer{}, false
	}
	customer, ok := v.(payment.Customer)
	return customer, ok
}

// SignCustomerToken issues a token AuthMiddleware accepts. Used by tests and local tooling.
func SignCustomerToken(secret string, claims CustomerClaims) (string, error) {
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
}
