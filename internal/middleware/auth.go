// Package middleware holds the Connect interceptors shared by every service.
package middleware

import (
	"context"
	"strings"

	"connectrpc.com/connect"

	"github.com/mmynk/feira/internal/auth"
	"github.com/mmynk/feira/internal/models"
)

// contextKey is a custom type for context keys to avoid collisions.
type contextKey string

const callerKey contextKey = "caller"

// Caller is the request-scoped identity. Beneficiary is nil until
// ResolveBeneficiary runs, and stays nil for users without a profile.
type Caller struct {
	UserID      string
	Email       string
	Beneficiary *models.Beneficiary
}

// WithCaller returns a context carrying c.
func WithCaller(ctx context.Context, c *Caller) context.Context {
	return context.WithValue(ctx, callerKey, c)
}

// GetCaller returns the caller stored in ctx, or nil.
func GetCaller(ctx context.Context) *Caller {
	c, _ := ctx.Value(callerKey).(*Caller)
	return c
}

// GetUserID extracts the user ID from the context.
// Returns empty string if not found.
func GetUserID(ctx context.Context) string {
	if c := GetCaller(ctx); c != nil {
		return c.UserID
	}
	return ""
}

// GetEmail extracts the user email from the context.
// Returns empty string if not found.
func GetEmail(ctx context.Context) string {
	if c := GetCaller(ctx); c != nil {
		return c.Email
	}
	return ""
}

// GetBeneficiary returns the caller's beneficiary profile, or nil.
func GetBeneficiary(ctx context.Context) *models.Beneficiary {
	if c := GetCaller(ctx); c != nil {
		return c.Beneficiary
	}
	return nil
}

func bearerToken(header string) (string, bool) {
	scheme, token, ok := strings.Cut(header, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") || token == "" {
		return "", false
	}
	return token, true
}

// RequireAuth returns an interceptor that validates the bearer token and
// rejects requests without one.
func RequireAuth(jwtManager *auth.JWTManager) connect.UnaryInterceptorFunc {
	return func(next connect.UnaryFunc) connect.UnaryFunc {
		return func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
			authHeader := req.Header().Get("Authorization")
			if authHeader == "" {
				return nil, connect.NewError(connect.CodeUnauthenticated, auth.ErrMissingToken)
			}

			tokenString, ok := bearerToken(authHeader)
			if !ok {
				return nil, connect.NewError(connect.CodeUnauthenticated, auth.ErrInvalidToken)
			}

			claims, err := jwtManager.Validate(tokenString)
			if err != nil {
				return nil, connect.NewError(connect.CodeUnauthenticated, err)
			}

			ctx = WithCaller(ctx, &Caller{UserID: claims.UserID, Email: claims.Email})
			return next(ctx, req)
		}
	}
}

// OptionalAuth returns an interceptor that validates the bearer token if
// present but lets anonymous requests through. Used for AuthService, where
// Register and Login are public.
func OptionalAuth(jwtManager *auth.JWTManager) connect.UnaryInterceptorFunc {
	return func(next connect.UnaryFunc) connect.UnaryFunc {
		return func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
			if tokenString, ok := bearerToken(req.Header().Get("Authorization")); ok {
				if claims, err := jwtManager.Validate(tokenString); err == nil {
					ctx = WithCaller(ctx, &Caller{UserID: claims.UserID, Email: claims.Email})
				}
			}
			return next(ctx, req)
		}
	}
}
