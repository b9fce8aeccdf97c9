package validators

import "errors"

var (
	ErrUnsupportedType = errors.New("unsupported type for validation")
	ErrUnknownField    = errors.New("unknown field for validation")

	ErrInvalidScope        = errors.New("invalid scope")
	ErrInvalidPayload      = errors.New("invalid payload")
	ErrReadOnlyKind        = errors.New("entities of this kind are read-only")
	ErrEmptyName           = errors.New("name is required")
	ErrNameTooLong         = errors.New("name is too long")
	ErrInvalidAccess       = errors.New("invalid collection access")
	ErrEmptyCollectionID   = errors.New("collection id is required")
	ErrEmptyPlaceID        = errors.New("place id is required")
	ErrInvalidLocationType = errors.New("invalid location type")
	ErrInvalidLatLng       = errors.New("lat,lng out of range")
	ErrInvalidPageSize     = errors.New("invalid page size")
)
