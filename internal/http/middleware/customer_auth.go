package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
)

type contextKey string

const (
	customerClaimsKey contextKey = "customerClaims"
	bearerTokenKey    contextKey = "bearerToken"
)

// CustomerClaims is the identity carried in the shop's customer tokens.
type CustomerClaims struct {
	CustomerID int64 `json:"customerId"`
	jwt.RegisteredClaims
}

// CustomerJWT enforces an HMAC-signed customer token on identified
// endpoints. The raw token is kept in context so the gateway can forward it
// to the shop service unchanged.
func CustomerJWT(secret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if secret == "" {
				http.Error(w, `{"message": "customer auth disabled"}`, http.StatusUnauthorized)
				return
			}
			auth := r.Header.Get("Authorization")
			if auth == "" || !strings.HasPrefix(auth, "Bearer ") {
				http.Error(w, `{"message": "missing authorization header"}`, http.StatusUnauthorized)
				return
			}
			tokenString := strings.TrimPrefix(auth, "Bearer ")
			claims := CustomerClaims{}
			token, err := jwt.ParseWithClaims(tokenString, &claims, func(token *jwt.Token) (any, error) {
				if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
					return nil, jwt.ErrSignatureInvalid
				}
				return []byte(secret), nil
			})
			if err != nil || !token.Valid {
				http.Error(w, `{"message": "invalid token"}`, http.StatusUnauthorized)
				return
			}
			if claims.CustomerID == 0 {
				http.Error(w, `{"message": "token has no customer identity"}`, http.StatusUnauthorized)
				return
			}
			ctx := context.WithValue(r.Context(), customerClaimsKey, claims)
			ctx = context.WithValue(ctx, bearerTokenKey, tokenString)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// CustomerFromContext returns the customer claims if present.
func CustomerFromContext(ctx context.Context) (CustomerClaims, bool) {
	claims, ok := ctx.Value(customerClaimsKey).(CustomerClaims)
	return claims, ok
}

// BearerTokenFromContext returns the raw customer token for upstream calls.
func BearerTokenFromContext(ctx context.Context) (string, bool) {
	token, ok := ctx.Value(bearerTokenKey).(string)
	return token, ok
}
