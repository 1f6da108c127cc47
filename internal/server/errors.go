package server

import (
	"errors"

	"connectrpc.com/connect"

	"commander-league/internal/domain"
)

func toConnectError(err error) *connect.Error {
	var ce *connect.Error
	if errors.As(err, &ce) {
		return ce
	}
	switch {
	case errors.Is(err, domain.ErrInvalidInput),
		errors.Is(err, domain.ErrMalformedKey),
		errors.Is(err, domain.ErrNoEligibleCards):
		return connect.NewError(connect.CodeInvalidArgument, err)
	case errors.Is(err, domain.ErrUnresolvedReference):
		return connect.NewError(connect.CodeNotFound, err)
	case errors.Is(err, domain.ErrDuplicate):
		return connect.NewError(connect.CodeAlreadyExists, err)
	default:
		return connect.NewError(connect.CodeInternal, err)
	}
}
