package http

import (
	"errors"
	"net/http"

	"github.com/MKhiriev/munch-sync/internal/logger"
	"github.com/MKhiriev/munch-sync/internal/service"
	"github.com/MKhiriev/munch-sync/internal/store"
	"github.com/MKhiriev/munch-sync/internal/utils"
	"github.com/MKhiriev/munch-sync/models"
)

var errorStatusMap = map[error]int{
	ErrEmptyAuthorizationHeader:   http.StatusUnauthorized,
	ErrInvalidAuthorizationHeader: http.StatusUnauthorized,
	ErrEmptyToken:                 http.StatusUnauthorized,
	ErrNoUserID:                   http.StatusUnauthorized,

	service.ErrInvalidRequest:          http.StatusBadRequest,
	service.ErrTokenIsExpiredOrInvalid: http.StatusUnauthorized,
	service.ErrTokenCreationFailed:     http.StatusInternalServerError,

	store.ErrAlreadyExists:     http.StatusConflict,
	store.ErrEntityNotFound:    http.StatusNotFound,
	store.ErrInvalidScope:      http.StatusBadRequest,
	models.ErrPayloadNotObject: http.StatusBadRequest,
}

var statusErrorTypes = map[int]string{
	http.StatusBadRequest:   models.ErrorTypeValidation,
	http.StatusUnauthorized: models.ErrorTypeUnauthorized,
	http.StatusNotFound:     models.ErrorTypeNotFound,
	http.StatusConflict:     models.ErrorTypeAlreadyExist,
}

func statusFromError(err error) int {
	for target, status := range errorStatusMap {
		if errors.Is(err, target) {
			return status
		}
	}
	return http.StatusInternalServerError
}

// writeError writes err as an API error body. Server-side failures are logged
// and their details are not sent to the client.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFromError(err)

	errorType, ok := statusErrorTypes[status]
	if !ok {
		errorType = models.ErrorTypeInternal
	}

	message := err.Error()
	if status >= http.StatusInternalServerError {
		logger.FromRequest(r).Err(err).Str("func", "writeError").Msg("request failed")
		message = http.StatusText(status)
	}

	utils.WriteError(w, status, errorType, message)
}
