package adapter

import (
	"fmt"
	"net/url"

	"github.com/MKhiriev/munch-sync/models"
)

const tokenPath = "/api/auth/token"

// listPath returns the collection path of scope. The user is implied by the
// bearer token.
func listPath(scope models.Scope) (string, error) {
	if err := scope.Validate(); err != nil {
		return "", fmt.Errorf("%w: %w", ErrInvalidScope, err)
	}

	switch scope.Kind {
	case models.KindCollection:
		return "/users/collections", nil
	case models.KindCollectionItem:
		return "/users/collections/" + url.PathEscape(scope.Key) + "/items", nil
	case models.KindFeedItem:
		return "/feed/" + url.PathEscape(scope.Key) + "/items", nil
	case models.KindLocation:
		return "/users/locations", nil
	}
	return "", fmt.Errorf("%w: %s", ErrInvalidScope, scope)
}

func itemPath(scope models.Scope, id string) (string, error) {
	if id == "" {
		return "", ErrMissingEntityID
	}

	base, err := listPath(scope)
	if err != nil {
		return "", err
	}
	return base + "/" + url.PathEscape(id), nil
}
