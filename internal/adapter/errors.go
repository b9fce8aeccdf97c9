package adapter

import "errors"

var (
	ErrBadRequest          = errors.New("bad request")
	ErrUnauthorized        = errors.New("client unauthorized")
	ErrForbidden           = errors.New("forbidden")
	ErrNotFound            = errors.New("not found")
	ErrConflict            = errors.New("conflict")
	ErrAlreadyExists       = errors.New("entity already exists")
	ErrInternalServerError = errors.New("internal server error")
	ErrServerUnavailable   = errors.New("server unavailable")

	ErrInvalidScope    = errors.New("invalid scope")
	ErrMissingEntityID = errors.New("entity id is required")
	ErrDecodeResponse  = errors.New("error decoding response")
)
