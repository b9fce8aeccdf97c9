package models

import "errors"

var (
	ErrUnknownKind   = errors.New("unknown entity kind")
	ErrEmptyScopeKey = errors.New("scope key is required for this kind")
	ErrKindMismatch  = errors.New("entity kind does not match the requested view")
	ErrEmptyEntityID = errors.New("entity id is empty")
)
