package middleware

import (
	"context"
	"errors"

	"connectrpc.com/connect"

	"github.com/mmynk/feira/internal/auth"
	"github.com/mmynk/feira/internal/models"
)

// BeneficiaryResolver maps an authenticated email to a beneficiary.
type BeneficiaryResolver interface {
	Resolve(ctx context.Context, email string) (*models.Beneficiary, error)
}

// ResolveBeneficiary returns an interceptor that attaches the caller's
// beneficiary profile to the context. It must run after RequireAuth or
// OptionalAuth. A caller without a profile passes through with a nil
// Beneficiary; services decide whether that is acceptable.
func ResolveBeneficiary(resolver BeneficiaryResolver) connect.UnaryInterceptorFunc {
	return func(next connect.UnaryFunc) connect.UnaryFunc {
		return func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
			caller := GetCaller(ctx)
			if caller == nil {
				return next(ctx, req)
			}

			b, err := resolver.Resolve(ctx, caller.Email)
			if err != nil && !errors.Is(err, auth.ErrNoProfile) {
				return nil, connect.NewError(connect.CodeInternal, err)
			}

			resolved := *caller
			resolved.Beneficiary = b
			return next(WithCaller(ctx, &resolved), req)
		}
	}
}
