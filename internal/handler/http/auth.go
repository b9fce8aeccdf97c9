package http

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/MKhiriev/munch-sync/internal/logger"
	"github.com/MKhiriev/munch-sync/internal/service"
	"github.com/MKhiriev/munch-sync/internal/utils"
	"github.com/MKhiriev/munch-sync/models"
)

// issueToken hands out a bearer token for any user id. The development API
// has no accounts.
func (h *Handler) issueToken(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	var req models.TokenRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Err(err).Str("func", "*Handler.issueToken").Msg("Invalid JSON was passed")
		writeError(w, r, fmt.Errorf("%w: invalid JSON", service.ErrInvalidRequest))
		return
	}

	token, err := h.services.AuthService.CreateToken(ctx, req.UserID)
	if err != nil {
		log.Err(err).Str("func", "*Handler.issueToken").Msg("creation of token failed")
		writeError(w, r, err)
		return
	}

	log.Debug().Str("user_id", token.UserID).Msg("token issued")

	w.Header().Set("Authorization", fmt.Sprintf("Bearer %s", token.SignedString))
	utils.WriteJSON(w, models.TokenResponse{Token: token.SignedString, UserID: token.UserID}, http.StatusOK)
}
