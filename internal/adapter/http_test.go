// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package adapter

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MKhiriev/munch-sync/internal/config"
	"github.com/MKhiriev/munch-sync/internal/logger"
	"github.com/MKhiriev/munch-sync/models"
)

type staticToken string

func (s staticToken) Token() string { return string(s) }

type fixedIDs struct{}

func (fixedIDs) Generate() string { return "req-1" }

var collectionsScope = models.Scope{Kind: models.KindCollection}

func newTestAPI(t *testing.T, serverURL string) *httpRemoteAPI {
	t.Helper()
	a, err := NewHTTPRemoteAPI(config.ClientAdapter{HTTPAddress: serverURL}, staticToken("tok"), fixedIDs{}, logger.Nop())
	require.NoError(t, err)
	return a.(*httpRemoteAPI)
}

func writeBody(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(body))
}

// ── FetchPage ───────────────────────────────────────────────────────────────

func TestFetchPage_FirstPage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/users/collections", r.URL.Path)
		assert.Equal(t, "10", r.URL.Query().Get("size"))
		assert.False(t, r.URL.Query().Has("next.sort"))
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		assert.Equal(t, "req-1", r.Header.Get("X-Request-ID"))

		writeBody(w, http.StatusOK, `{
			"items": [
				{"collectionId":"c-2","name":"Date night","sort":"0002","updatedMillis":20},
				{"collectionId":"c-1","name":"Brunch","sort":"0001","updatedMillis":10}
			],
			"next": {"sort": 1}
		}`)
	}))
	defer srv.Close()

	page, err := newTestAPI(t, srv.URL).FetchPage(context.Background(), collectionsScope, models.PageRequest{Size: 10})

	require.NoError(t, err)
	assert.Equal(t, []string{"c-2", "c-1"}, models.IDs(page.Items))
	assert.Equal(t, int64(30), models.Checksum(page.Items))

	next, ok := page.NextCursor()
	require.True(t, ok)
	assert.Equal(t, models.Cursor("1"), next)
}

func TestFetchPage_LastPageSendsCursor(t *testing.T) {
	scope := models.Scope{Kind: models.KindFeedItem, Key: "sg"}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/feed/sg/items", r.URL.Path)
		assert.Equal(t, "0005", r.URL.Query().Get("next.sort"))

		writeBody(w, http.StatusOK, `{"items":[{"itemId":"f-1","type":"image","updatedMillis":3}]}`)
	}))
	defer srv.Close()

	page, err := newTestAPI(t, srv.URL).FetchPage(context.Background(), scope, models.PageRequest{Size: 5, Cursor: "0005"})

	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, scope, page.Items[0].Scope)
	assert.Nil(t, page.Next)
}

func TestFetchPage_InvalidItem(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeBody(w, http.StatusOK, `{"items":[{"name":"no id"}]}`)
	}))
	defer srv.Close()

	_, err := newTestAPI(t, srv.URL).FetchPage(context.Background(), collectionsScope, models.PageRequest{Size: 10})

	assert.ErrorIs(t, err, ErrDecodeResponse)
	assert.ErrorIs(t, err, models.ErrEmptyEntityID)
}

func TestFetchPage_InvalidScope(t *testing.T) {
	a := newTestAPI(t, "http://localhost:1")

	_, err := a.FetchPage(context.Background(), models.Scope{Kind: models.KindCollectionItem}, models.PageRequest{})

	assert.ErrorIs(t, err, ErrInvalidScope)
}

func TestFetchPage_ErrorMapping(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantErr error
	}{
		{"bad request", http.StatusBadRequest, `{"error":{"type":"ValidationException","message":"size"}}`, ErrBadRequest},
		{"unauthorized", http.StatusUnauthorized, `{"error":{"type":"UnauthorizedException"}}`, ErrUnauthorized},
		{"forbidden", http.StatusForbidden, "nope", ErrForbidden},
		{"not found", http.StatusNotFound, "", ErrNotFound},
		{"internal", http.StatusInternalServerError, "boom", ErrInternalServerError},
		{"bad gateway", http.StatusBadGateway, "", ErrServerUnavailable},
		{"unavailable", http.StatusServiceUnavailable, "", ErrServerUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				writeBody(w, tt.status, tt.body)
			}))
			defer srv.Close()

			_, err := newTestAPI(t, srv.URL).FetchPage(context.Background(), collectionsScope, models.PageRequest{Size: 1})
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

// ── Create ──────────────────────────────────────────────────────────────────

func TestCreate_PostWithoutID(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/users/collections", r.URL.Path)

		body, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		assert.JSONEq(t, `{"name":"Brunch"}`, string(body))

		writeBody(w, http.StatusCreated, `{"collectionId":"c-9","name":"Brunch","sort":"0009","updatedMillis":9}`)
	}))
	defer srv.Close()

	got, err := newTestAPI(t, srv.URL).Create(context.Background(), models.Entity{
		Scope:   collectionsScope,
		Payload: json.RawMessage(`{"name":"Brunch"}`),
	})

	require.NoError(t, err)
	assert.Equal(t, "c-9", got.ID)
	assert.Equal(t, int64(9), got.UpdatedAt)
}

func TestCreate_PutWithID(t *testing.T) {
	scope := models.Scope{Kind: models.KindCollectionItem, Key: "c-1"}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "/users/collections/c-1/items/p-1", r.URL.Path)

		writeBody(w, http.StatusOK, `{"collectionId":"c-1","placeId":"p-1","updatedMillis":5}`)
	}))
	defer srv.Close()

	got, err := newTestAPI(t, srv.URL).Create(context.Background(), models.Entity{
		ID:      "p-1",
		Scope:   scope,
		Payload: json.RawMessage(`{"placeId":"p-1"}`),
	})

	require.NoError(t, err)
	assert.Equal(t, "p-1", got.ID)
}

func TestCreate_AlreadyExists(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeBody(w, http.StatusConflict, `{"error":{"type":"AlreadyExistException","message":"place p-1 already saved"}}`)
	}))
	defer srv.Close()

	_, err := newTestAPI(t, srv.URL).Create(context.Background(), models.Entity{
		ID:      "p-1",
		Scope:   models.Scope{Kind: models.KindCollectionItem, Key: "c-1"},
		Payload: json.RawMessage(`{}`),
	})

	assert.ErrorIs(t, err, ErrAlreadyExists)
	assert.NotErrorIs(t, err, ErrConflict)
	assert.Contains(t, err.Error(), "place p-1 already saved")
}

func TestCreate_PlainConflict(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeBody(w, http.StatusConflict, `conflict`)
	}))
	defer srv.Close()

	_, err := newTestAPI(t, srv.URL).Create(context.Background(), models.Entity{
		Scope:   collectionsScope,
		Payload: json.RawMessage(`{}`),
	})

	assert.ErrorIs(t, err, ErrConflict)
}

// ── Get / Patch / Delete ────────────────────────────────────────────────────

func TestGet_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/users/locations/l-1", r.URL.Path)

		writeBody(w, http.StatusOK, `{"locationId":"l-1","type":"home","name":"Home","latLng":"1.3,103.8","updatedMillis":4}`)
	}))
	defer srv.Close()

	got, err := newTestAPI(t, srv.URL).Get(context.Background(), models.Scope{Kind: models.KindLocation}, "l-1")

	require.NoError(t, err)
	view, err := models.AsSearchLocation(got)
	require.NoError(t, err)
	assert.Equal(t, "Home", view.Name)
}

func TestGet_MissingID(t *testing.T) {
	_, err := newTestAPI(t, "http://localhost:1").Get(context.Background(), collectionsScope, "")

	assert.ErrorIs(t, err, ErrMissingEntityID)
}

func TestPatch_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPatch, r.Method)
		assert.Equal(t, "/users/collections/c-1", r.URL.Path)

		writeBody(w, http.StatusOK, `{"collectionId":"c-1","name":"Renamed","updatedMillis":11}`)
	}))
	defer srv.Close()

	got, err := newTestAPI(t, srv.URL).Patch(context.Background(), collectionsScope, "c-1", json.RawMessage(`{"name":"Renamed"}`))

	require.NoError(t, err)
	assert.Equal(t, int64(11), got.UpdatedAt)
}

func TestDelete_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		assert.Equal(t, "/users/collections/c-1", r.URL.Path)
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	err := newTestAPI(t, srv.URL).Delete(context.Background(), collectionsScope, "c-1")

	assert.NoError(t, err)
}

func TestDelete_NotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeBody(w, http.StatusNotFound, `{"error":{"type":"NotFoundException"}}`)
	}))
	defer srv.Close()

	err := newTestAPI(t, srv.URL).Delete(context.Background(), collectionsScope, "c-1")

	assert.ErrorIs(t, err, ErrNotFound)
}

// ── IssueToken ──────────────────────────────────────────────────────────────

func TestIssueToken_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/auth/token", r.URL.Path)
		assert.Empty(t, r.Header.Get("Authorization"))

		var req models.TokenRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "u-1", req.UserID)

		writeBody(w, http.StatusOK, `{"token":"abc","user_id":"u-1"}`)
	}))
	defer srv.Close()

	got, err := newTestAPI(t, srv.URL).IssueToken(context.Background(), "u-1")

	require.NoError(t, err)
	assert.Equal(t, models.TokenResponse{Token: "abc", UserID: "u-1"}, got)
}

func TestRequest_WithoutToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Empty(t, r.Header.Get("Authorization"))
		writeBody(w, http.StatusOK, `{"items":[]}`)
	}))
	defer srv.Close()

	a, err := NewHTTPRemoteAPI(config.ClientAdapter{HTTPAddress: srv.URL}, staticToken(""), fixedIDs{}, logger.Nop())
	require.NoError(t, err)

	page, err := a.FetchPage(context.Background(), collectionsScope, models.PageRequest{})
	require.NoError(t, err)
	assert.Empty(t, page.Items)
}

func TestNormalizeBaseURL(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    string
		wantErr bool
	}{
		{name: "adds scheme", raw: "localhost:8080", want: "http://localhost:8080"},
		{name: "keeps https", raw: "https://api.example.com/", want: "https://api.example.com"},
		{name: "trims spaces", raw: "  http://h:1  ", want: "http://h:1"},
		{name: "empty", raw: "", wantErr: true},
		{name: "no host", raw: "http://", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := normalizeBaseURL(tt.raw)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
