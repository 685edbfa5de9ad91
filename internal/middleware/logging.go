package middleware

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"connectrpc.com/connect"

	"github.com/mmynk/feira/pkg/api"
)

// LoggingInterceptor returns a Connect interceptor that logs every RPC with
// its caller. Handled failures (Connect errors) log at WARN; anything else
// logs at ERROR.
func LoggingInterceptor(logger *slog.Logger) connect.UnaryInterceptorFunc {
	return func(next connect.UnaryFunc) connect.UnaryFunc {
		return func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
			start := time.Now()
			attrs := append([]any{"procedure", req.Spec().Procedure}, callerAttrs(GetCaller(ctx))...)

			resp, err := next(ctx, req)

			attrs = append(attrs, "duration_ms", time.Since(start).Milliseconds())
			var connectErr *connect.Error
			switch {
			case err == nil:
				logger.InfoContext(ctx, "RPC ok", attrs...)
			case errors.As(err, &connectErr):
				attrs = append(attrs, "code", connectErr.Code(), "error", connectErr.Message())
				if ceiling := connectErr.Meta().Get(api.CeilingHeader); ceiling != "" {
					attrs = append(attrs, "ceiling", ceiling)
				}
				logger.WarnContext(ctx, "RPC error", attrs...)
			default:
				logger.ErrorContext(ctx, "RPC error", append(attrs, "error", err)...)
			}
			return resp, err
		}
	}
}

// callerAttrs describes who made the call. Pre-auth calls have no caller.
func callerAttrs(c *Caller) []any {
	if c == nil {
		return nil
	}
	attrs := []any{"user_id", c.UserID}
	if c.Beneficiary != nil {
		attrs = append(attrs, "beneficiary_id", c.Beneficiary.ID)
		if c.Beneficiary.IsAdmin {
			attrs = append(attrs, "admin", true)
		}
	}
	return attrs
}
