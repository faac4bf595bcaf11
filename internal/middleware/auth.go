package middleware

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	"github.com/iam-sarthakdev/MockMate-AI/internal/utils"
)

const identityKey contextKey = "identity"

var (
	ErrMissingToken  = errors.New("missing session token")
	ErrInvalidToken  = errors.New("invalid token")
	ErrInvalidClaims = errors.New("invalid token claims")
)

// Identity is the authenticated user, as asserted by the auth collaborator's session token.
type Identity struct {
	UserID string
	Email  string
	Name   string
}

// Auth rejects requests without a valid HS256 session token. The token is
// read from the Authorization header first, then from cookieName.
func Auth(secret, cookieName string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id, err := VerifyRequest(r, secret, cookieName)
			if err != nil {
				utils.Error(w, http.StatusUnauthorized, "unauthorized", err.Error())
				return
			}
			ctx := context.WithValue(r.Context(), identityKey, id)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// IdentityFromContext returns the identity stored by Auth.
func IdentityFromContext(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(identityKey).(Identity)
	return id, ok
}

// WithIdentity stores id in ctx the way Auth does.
func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, identityKey, id)
}

func VerifyRequest(r *http.Request, secret, cookieName string) (Identity, error) {
	tokenStr := ""
	if authz := r.Header.Get("Authorization"); strings.HasPrefix(authz, "Bearer ") {
		tokenStr = strings.TrimPrefix(authz, "Bearer ")
	} else if cookie, err := r.Cookie(cookieName); err == nil {
		tokenStr = cookie.Value
	}
	if tokenStr == "" {
		return Identity{}, ErrMissingToken
	}

	token, err := jwt.Parse(tokenStr, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrTokenUnverifiable
		}
		return []byte(secret), nil
	})
	if err != nil || !token.Valid {
		return Identity{}, ErrInvalidToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return Identity{}, ErrInvalidClaims
	}
	userID, err := userIDFromClaims(claims)
	if err != nil {
		return Identity{}, err
	}

	id := Identity{UserID: userID}
	id.Email, _ = claims["email"].(string)
	id.Name, _ = claims["name"].(string)
	return id, nil
}

// the auth collaborator puts the user id in "sub", older tokens in "_id"
func userIDFromClaims(claims jwt.MapClaims) (string, error) {
	raw, ok := claims["sub"]
	if !ok {
		raw, ok = claims["_id"]
	}
	if !ok {
		return "", ErrInvalidClaims
	}

	switch v := raw.(type) {
	case string:
		if v == "" {
			return "", ErrInvalidClaims
		}
		return v, nil
	case float64:
		// JWT numbers get decoded as float64
		return fmt.Sprintf("%d", int64(v)), nil
	default:
		return "", ErrInvalidClaims
	}
}
