package validators

import (
	"context"
	"fmt"
	"unicode/utf8"

	"github.com/MKhiriev/munch-sync/models"
)

// Field name constants used to restrict validation to a subset of fields.
const (
	// FieldScope targets the kind and key of an entity.
	FieldScope = "scope"

	// FieldPayload decodes the entity payload into its typed view and
	// validates the view with its default fields.
	FieldPayload = "payload"

	FieldName         = "name"
	FieldAccess       = "access"
	FieldCollectionID = "collection_id"
	FieldPlaceID      = "place_id"
	FieldLocationType = "location_type"
	FieldLatLng       = "lat_lng"

	// FieldPageSize targets the requested page size of a list call.
	FieldPageSize = "page_size"
)

const (
	MaxNameLength = 100
	MaxPageSize   = 100
)

var allowedAccess = []models.CollectionAccess{models.AccessPublic, models.AccessPrivate}

var allowedLocationTypes = []models.LocationType{
	models.LocationHome,
	models.LocationWork,
	models.LocationSaved,
	models.LocationRecent,
}

// EntityValidator checks entities written by clients and the paging
// parameters of list calls.
type EntityValidator struct {
}

func NewEntityValidator() Validator {
	return &EntityValidator{}
}

func (v *EntityValidator) Validate(ctx context.Context, obj any, fields ...string) error {
	switch value := obj.(type) {
	case models.Entity:
		return v.validateEntity(ctx, value, fields...)
	case *models.Entity:
		return v.validateEntity(ctx, *value, fields...)

	case models.Collection:
		return v.validateCollection(value, fields...)
	case *models.Collection:
		return v.validateCollection(*value, fields...)

	case models.CollectionItem:
		return v.validateCollectionItem(value, fields...)
	case *models.CollectionItem:
		return v.validateCollectionItem(*value, fields...)

	case models.SearchLocation:
		return v.validateSearchLocation(value, fields...)
	case *models.SearchLocation:
		return v.validateSearchLocation(*value, fields...)

	case models.PageRequest:
		return v.validatePageRequest(value, fields...)
	case *models.PageRequest:
		return v.validatePageRequest(*value, fields...)

	default:
		return ErrUnsupportedType
	}
}

func (v *EntityValidator) validateEntity(ctx context.Context, e models.Entity, fields ...string) error {
	if len(fields) == 0 {
		fields = []string{FieldScope, FieldPayload}
	}

	for _, f := range fields {
		switch f {
		case FieldScope:
			if err := e.Scope.Validate(); err != nil {
				return fmt.Errorf("%w: %w", ErrInvalidScope, err)
			}
		case FieldPayload:
			if err := v.validatePayload(ctx, e); err != nil {
				return err
			}
		default:
			return ErrUnknownField
		}
	}

	return nil
}

func (v *EntityValidator) validatePayload(ctx context.Context, e models.Entity) error {
	var (
		view any
		err  error
	)

	switch e.Scope.Kind {
	case models.KindCollection:
		view, err = models.AsCollection(e)
	case models.KindCollectionItem:
		view, err = models.AsCollectionItem(e)
	case models.KindLocation:
		view, err = models.AsSearchLocation(e)
	case models.KindFeedItem:
		return ErrReadOnlyKind
	default:
		return fmt.Errorf("%w: %q", ErrInvalidScope, e.Scope.Kind)
	}
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidPayload, err)
	}

	return v.Validate(ctx, view)
}

func (v *EntityValidator) validateCollection(c models.Collection, fields ...string) error {
	if len(fields) == 0 {
		fields = []string{FieldName, FieldAccess}
	}

	for _, f := range fields {
		switch f {
		case FieldName:
			if err := validateName(c.Name); err != nil {
				return err
			}
		case FieldAccess:
			if c.Access != "" && !contains(allowedAccess, c.Access) {
				return ErrInvalidAccess
			}
		default:
			return ErrUnknownField
		}
	}

	return nil
}

// The collection id of an item is usually taken from its scope, so it is not
// checked unless asked for.
func (v *EntityValidator) validateCollectionItem(item models.CollectionItem, fields ...string) error {
	if len(fields) == 0 {
		fields = []string{FieldPlaceID}
	}

	for _, f := range fields {
		switch f {
		case FieldPlaceID:
			if item.PlaceID == "" {
				return ErrEmptyPlaceID
			}
		case FieldCollectionID:
			if item.CollectionID == "" {
				return ErrEmptyCollectionID
			}
		default:
			return ErrUnknownField
		}
	}

	return nil
}

func (v *EntityValidator) validateSearchLocation(l models.SearchLocation, fields ...string) error {
	if len(fields) == 0 {
		fields = []string{FieldLocationType, FieldName, FieldLatLng}
	}

	for _, f := range fields {
		switch f {
		case FieldLocationType:
			if !contains(allowedLocationTypes, l.Type) {
				return ErrInvalidLocationType
			}
		case FieldName:
			if err := validateName(l.Name); err != nil {
				return err
			}
		case FieldLatLng:
			if l.LatLng.Lat < -90 || l.LatLng.Lat > 90 || l.LatLng.Lng < -180 || l.LatLng.Lng > 180 {
				return ErrInvalidLatLng
			}
		default:
			return ErrUnknownField
		}
	}

	return nil
}

// A zero size asks for the server default.
func (v *EntityValidator) validatePageRequest(req models.PageRequest, fields ...string) error {
	if len(fields) == 0 {
		fields = []string{FieldPageSize}
	}

	for _, f := range fields {
		switch f {
		case FieldPageSize:
			if req.Size < 0 || req.Size > MaxPageSize {
				return fmt.Errorf("%w: %d", ErrInvalidPageSize, req.Size)
			}
		default:
			return ErrUnknownField
		}
	}

	return nil
}

func validateName(name string) error {
	if name == "" {
		return ErrEmptyName
	}
	if utf8.RuneCountInString(name) > MaxNameLength {
		return ErrNameTooLong
	}
	return nil
}

func contains[T comparable](allowed []T, v T) bool {
	for _, a := range allowed {
		if a == v {
			return true
		}
	}
	return false
}
