package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/MKhiriev/munch-sync/internal/logger"
	"github.com/MKhiriev/munch-sync/internal/service"
	"github.com/MKhiriev/munch-sync/internal/utils"
	"github.com/MKhiriev/munch-sync/models"
)

const (
	sizeParam   = "size"
	cursorParam = "next.sort"
)

// scopeFunc resolves the scope of a request from its URL.
type scopeFunc func(r *http.Request) models.Scope

func fixedScope(kind models.Kind) scopeFunc {
	return func(*http.Request) models.Scope {
		return models.Scope{Kind: kind}
	}
}

func keyedScope(kind models.Kind, param string) scopeFunc {
	return func(r *http.Request) models.Scope {
		return models.Scope{Kind: kind, Key: chi.URLParam(r, param)}
	}
}

func (h *Handler) list(scope scopeFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := h.userID(w, r)
		if !ok {
			return
		}

		req := models.PageRequest{Cursor: models.Cursor(r.URL.Query().Get(cursorParam))}
		if raw := r.URL.Query().Get(sizeParam); raw != "" {
			size, err := strconv.Atoi(raw)
			if err != nil {
				writeError(w, r, fmt.Errorf("%w: size %q", service.ErrInvalidRequest, raw))
				return
			}
			req.Size = size
		}

		page, err := h.services.CatalogService.List(r.Context(), userID, scope(r), req)
		if err != nil {
			writeError(w, r, err)
			return
		}

		envelope := models.PageEnvelope{Items: make([]json.RawMessage, 0, len(page.Items))}
		for _, e := range page.Items {
			envelope.Items = append(envelope.Items, e.Payload)
		}
		if next, ok := page.NextCursor(); ok {
			envelope.Next = &models.PageNext{Sort: next}
		}

		utils.WriteJSON(w, envelope, http.StatusOK)
	}
}

func (h *Handler) get(scope scopeFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := h.userID(w, r)
		if !ok {
			return
		}

		e, err := h.services.CatalogService.Get(r.Context(), userID, scope(r), chi.URLParam(r, "id"))
		if err != nil {
			writeError(w, r, err)
			return
		}

		writeEntity(w, e, http.StatusOK)
	}
}

// create adds an entity under a server-generated id.
func (h *Handler) create(scope scopeFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		h.add(w, r, models.Entity{Scope: scope(r)})
	}
}

// put adds an entity under the id from the path. A taken id is a conflict,
// which lets clients make adds idempotent.
func (h *Handler) put(scope scopeFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		h.add(w, r, models.Entity{Scope: scope(r), ID: chi.URLParam(r, "id")})
	}
}

func (h *Handler) add(w http.ResponseWriter, r *http.Request, e models.Entity) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}

	payload, ok := h.readBody(w, r)
	if !ok {
		return
	}
	e.Payload = payload

	added, err := h.services.CatalogService.Add(r.Context(), userID, e)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeEntity(w, added, http.StatusCreated)
}

func (h *Handler) patch(scope scopeFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := h.userID(w, r)
		if !ok {
			return
		}

		patch, ok := h.readBody(w, r)
		if !ok {
			return
		}

		updated, err := h.services.CatalogService.Patch(r.Context(), userID, scope(r), chi.URLParam(r, "id"), patch)
		if err != nil {
			writeError(w, r, err)
			return
		}

		writeEntity(w, updated, http.StatusOK)
	}
}

func (h *Handler) delete(scope scopeFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := h.userID(w, r)
		if !ok {
			return
		}

		if err := h.services.CatalogService.Delete(r.Context(), userID, scope(r), chi.URLParam(r, "id")); err != nil {
			writeError(w, r, err)
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}

func (h *Handler) userID(w http.ResponseWriter, r *http.Request) (string, bool) {
	userID, found := utils.GetUserIDFromContext(r.Context())
	if !found {
		logger.FromRequest(r).Error().Str("func", "*Handler.userID").Msg("no user ID was given")
		writeError(w, r, ErrNoUserID)
		return "", false
	}
	return userID, true
}

func (h *Handler) readBody(w http.ResponseWriter, r *http.Request) (json.RawMessage, bool) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, h.maxBodyBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			utils.WriteError(w, http.StatusRequestEntityTooLarge, models.ErrorTypeValidation, "request body too large")
			return nil, false
		}
		writeError(w, r, fmt.Errorf("%w: %w", service.ErrInvalidRequest, err))
		return nil, false
	}
	if !json.Valid(body) {
		writeError(w, r, fmt.Errorf("%w: body is not valid JSON", service.ErrInvalidRequest))
		return nil, false
	}
	return body, true
}

func writeEntity(w http.ResponseWriter, e models.Entity, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_, _ = w.Write(e.Payload)
}
