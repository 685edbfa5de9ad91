package service

import (
	"errors"

	"connectrpc.com/connect"

	"github.com/mmynk/feira/internal/auth"
	"github.com/mmynk/feira/internal/calculator"
	"github.com/mmynk/feira/internal/lists"
	"github.com/mmynk/feira/internal/storage"
	"github.com/mmynk/feira/pkg/api"
)

var (
	errNoProfile = &lists.NotFoundError{Kind: "beneficiary profile"}
	errNotAdmin  = errors.New("administrator access required")
)

// toConnectError maps domain and storage errors to Connect codes.
// Limit errors also carry the ceiling in the Purchase-Ceiling metadata.
func toConnectError(err error) error {
	if err == nil {
		return nil
	}

	var connectErr *connect.Error
	if errors.As(err, &connectErr) {
		return connectErr
	}

	var limitErr *lists.LimitExceededError
	if errors.As(err, &limitErr) {
		ce := connect.NewError(connect.CodeFailedPrecondition, err)
		ce.Meta().Set(api.CeilingHeader, calculator.Format(limitErr.Ceiling))
		return ce
	}

	switch {
	case errors.Is(err, lists.ErrValidation):
		return connect.NewError(connect.CodeInvalidArgument, err)
	case errors.Is(err, lists.ErrNotFound), errors.Is(err, storage.ErrNotFound):
		return connect.NewError(connect.CodeNotFound, err)
	case errors.Is(err, lists.ErrUnauthorized), errors.Is(err, errNotAdmin):
		return connect.NewError(connect.CodePermissionDenied, err)
	case errors.Is(err, storage.ErrConflict), errors.Is(err, auth.ErrEmailExists):
		return connect.NewError(connect.CodeAlreadyExists, err)
	case errors.Is(err, storage.ErrProtected):
		return connect.NewError(connect.CodeFailedPrecondition, err)
	case errors.Is(err, auth.ErrWeakPassword), errors.Is(err, auth.ErrInvalidEmail):
		return connect.NewError(connect.CodeInvalidArgument, err)
	case errors.Is(err, auth.ErrInvalidCredentials), errors.Is(err, auth.ErrMissingToken):
		return connect.NewError(connect.CodeUnauthenticated, err)
	default:
		return connect.NewError(connect.CodeInternal, err)
	}
}
