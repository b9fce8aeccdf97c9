package service

import "errors"

var (
	ErrCursorNotAdvancing = errors.New("pagination cursor did not advance")
	ErrTooManyPages       = errors.New("pagination exceeded the page limit")

	ErrScopeMismatch  = errors.New("entity scope does not match the manager scope")
	ErrManagerClosed  = errors.New("sync manager is closed")
	ErrReadOnlyScope  = errors.New("scope is read-only")
	ErrInvalidRequest = errors.New("invalid request")

	ErrTokenCreationFailed     = errors.New("token creation failed")
	ErrTokenIsExpiredOrInvalid = errors.New("token is expired or invalid")
)
