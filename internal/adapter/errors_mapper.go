package adapter

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-resty/resty/v2"

	"github.com/MKhiriev/munch-sync/models"
)

// mapHTTPError turns a non-2xx response into one of the package sentinels.
// The message of an API error body is kept as context; a body that is not an
// API error is used verbatim.
func mapHTTPError(resp *resty.Response) error {
	status := resp.StatusCode()
	if status >= http.StatusOK && status < http.StatusMultipleChoices {
		return nil
	}

	errType, message := parseErrorBody(resp.Body())
	if message == "" {
		message = http.StatusText(status)
	}

	switch status {
	case http.StatusBadRequest:
		return fmt.Errorf("%w: %s", ErrBadRequest, message)
	case http.StatusUnauthorized:
		return fmt.Errorf("%w: %s", ErrUnauthorized, message)
	case http.StatusForbidden:
		return fmt.Errorf("%w: %s", ErrForbidden, message)
	case http.StatusNotFound:
		return fmt.Errorf("%w: %s", ErrNotFound, message)
	case http.StatusConflict:
		if errType == models.ErrorTypeAlreadyExist {
			return fmt.Errorf("%w: %s", ErrAlreadyExists, message)
		}
		return fmt.Errorf("%w: %s", ErrConflict, message)
	case http.StatusBadGateway, http.StatusServiceUnavailable, http.StatusGatewayTimeout:
		return fmt.Errorf("%w: %s", ErrServerUnavailable, message)
	case http.StatusInternalServerError:
		return fmt.Errorf("%w: %s", ErrInternalServerError, message)
	default:
		return fmt.Errorf("http %d: %s", status, message)
	}
}

func parseErrorBody(body []byte) (errType, message string) {
	var apiErr models.APIError
	if err := json.Unmarshal(body, &apiErr); err == nil && apiErr.Error.Type != "" {
		return apiErr.Error.Type, apiErr.Error.Message
	}
	return "", strings.TrimSpace(string(body))
}
