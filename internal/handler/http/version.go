package http

import (
	"net/http"

	"github.com/MKhiriev/munch-sync/internal/logger"
	"github.com/MKhiriev/munch-sync/internal/utils"
)

// getServerVersion reports the build the development API runs. Clients use
// it as a liveness probe, so it is never cached.
func (h *Handler) getServerVersion(w http.ResponseWriter, r *http.Request) {
	info := h.services.AppInfoService.GetAppVersion(r.Context())
	logger.FromRequest(r).Debug().Str("version", info.BuildVersion).Msg("version requested")

	w.Header().Set("Cache-Control", "no-store")
	utils.WriteJSON(w, info, http.StatusOK)
}
