package domain

import "errors"

var (
	ErrInvalidInput        = errors.New("invalid input")
	ErrUnresolvedReference = errors.New("unresolved reference")
	ErrNoEligibleCards     = errors.New("no eligible cards")
	ErrMalformedKey        = errors.New("malformed identity key")
	ErrInvalidRecord       = errors.New("invalid record")
	ErrDuplicate           = errors.New("duplicate entity")
)
