package adapter

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-resty/resty/v2"

	"github.com/MKhiriev/munch-sync/internal/config"
	"github.com/MKhiriev/munch-sync/internal/logger"
	"github.com/MKhiriev/munch-sync/internal/utils"
	"github.com/MKhiriev/munch-sync/models"
)

const (
	requestIDHeader = "X-Request-ID"

	sizeParam   = "size"
	cursorParam = "next.sort"
)

type httpRemoteAPI struct {
	client *utils.HTTPClient
	tokens TokenSource
	ids    utils.IDGenerator

	logger *logger.Logger
}

// NewHTTPRemoteAPI constructs the REST implementation of [RemoteAPI].
// It normalises and validates the base URL from adapterCfg.HTTPAddress and
// configures the underlying HTTP client with the request timeout. Every
// request carries a fresh X-Request-ID from ids and, when tokens returns one,
// a bearer token.
func NewHTTPRemoteAPI(adapterCfg config.ClientAdapter, tokens TokenSource, ids utils.IDGenerator, logger *logger.Logger) (RemoteAPI, error) {
	baseURL, err := normalizeBaseURL(adapterCfg.HTTPAddress)
	if err != nil {
		return nil, fmt.Errorf("invalid adapter http address: %w", err)
	}

	return &httpRemoteAPI{
		client: utils.NewHTTPClient(baseURL, adapterCfg.RequestTimeout),
		tokens: tokens,
		ids:    ids,
		logger: logger,
	}, nil
}

func normalizeBaseURL(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", fmt.Errorf("empty address")
	}

	if !strings.Contains(raw, "://") {
		raw = "http://" + raw
	}

	u, err := url.Parse(raw)
	if err != nil {
		return "", err
	}
	if u.Scheme == "" || u.Host == "" {
		return "", fmt.Errorf("address must include host and scheme")
	}

	return strings.TrimRight(u.String(), "/"), nil
}

// FetchPage implements [RemoteAPI]: GET <list path>?size=N&next.sort=<cursor>.
func (h *httpRemoteAPI) FetchPage(ctx context.Context, scope models.Scope, req models.PageRequest) (models.Page, error) {
	path, err := listPath(scope)
	if err != nil {
		return models.Page{}, err
	}

	r := h.request(ctx)
	if req.Size > 0 {
		r.SetQueryParam(sizeParam, strconv.Itoa(req.Size))
	}
	if req.Cursor != "" {
		r.SetQueryParam(cursorParam, req.Cursor.String())
	}

	resp, err := r.Get(path)
	if err != nil {
		return models.Page{}, fmt.Errorf("fetch page request: %w", err)
	}
	if err = mapHTTPError(resp); err != nil {
		return models.Page{}, err
	}

	var envelope models.PageEnvelope
	if err = json.Unmarshal(resp.Body(), &envelope); err != nil {
		return models.Page{}, fmt.Errorf("%w: page of %s: %w", ErrDecodeResponse, scope, err)
	}

	items, err := models.DecodeEntities(scope, envelope.Items)
	if err != nil {
		return models.Page{}, fmt.Errorf("%w: page of %s: %w", ErrDecodeResponse, scope, err)
	}

	page := models.Page{Items: items}
	if envelope.Next != nil && envelope.Next.Sort != "" {
		next := envelope.Next.Sort
		page.Next = &next
	}

	h.logger.Debug().
		Str("func", "httpRemoteAPI.FetchPage").
		Stringer("scope", scope).
		Int("items", len(items)).
		Bool("has_next", page.Next != nil).
		Msg("page fetched")

	return page, nil
}

// Get implements [RemoteAPI]: GET <item path>.
func (h *httpRemoteAPI) Get(ctx context.Context, scope models.Scope, id string) (models.Entity, error) {
	path, err := itemPath(scope, id)
	if err != nil {
		return models.Entity{}, err
	}

	resp, err := h.request(ctx).Get(path)
	if err != nil {
		return models.Entity{}, fmt.Errorf("get request: %w", err)
	}

	return h.decodeEntity(resp, scope)
}

// Create implements [RemoteAPI]: POST <list path> without an id,
// PUT <item path> with one.
func (h *httpRemoteAPI) Create(ctx context.Context, e models.Entity) (models.Entity, error) {
	var (
		resp *resty.Response
		err  error
	)

	if e.ID == "" {
		path, pathErr := listPath(e.Scope)
		if pathErr != nil {
			return models.Entity{}, pathErr
		}
		resp, err = h.request(ctx).SetBody([]byte(e.Payload)).Post(path)
	} else {
		path, pathErr := itemPath(e.Scope, e.ID)
		if pathErr != nil {
			return models.Entity{}, pathErr
		}
		resp, err = h.request(ctx).SetBody([]byte(e.Payload)).Put(path)
	}
	if err != nil {
		return models.Entity{}, fmt.Errorf("create request: %w", err)
	}

	return h.decodeEntity(resp, e.Scope)
}

// Patch implements [RemoteAPI]: PATCH <item path>.
func (h *httpRemoteAPI) Patch(ctx context.Context, scope models.Scope, id string, patch json.RawMessage) (models.Entity, error) {
	path, err := itemPath(scope, id)
	if err != nil {
		return models.Entity{}, err
	}

	resp, err := h.request(ctx).SetBody([]byte(patch)).Patch(path)
	if err != nil {
		return models.Entity{}, fmt.Errorf("patch request: %w", err)
	}

	return h.decodeEntity(resp, scope)
}

// Delete implements [RemoteAPI]: DELETE <item path>.
func (h *httpRemoteAPI) Delete(ctx context.Context, scope models.Scope, id string) error {
	path, err := itemPath(scope, id)
	if err != nil {
		return err
	}

	resp, err := h.request(ctx).Delete(path)
	if err != nil {
		return fmt.Errorf("delete request: %w", err)
	}

	return mapHTTPError(resp)
}

// IssueToken implements [RemoteAPI]: POST /api/auth/token.
func (h *httpRemoteAPI) IssueToken(ctx context.Context, userID string) (models.TokenResponse, error) {
	var issued models.TokenResponse

	resp, err := h.client.R().
		SetContext(ctx).
		SetHeader(requestIDHeader, h.ids.Generate()).
		SetBody(models.TokenRequest{UserID: userID}).
		SetResult(&issued).
		Post(tokenPath)
	if err != nil {
		return models.TokenResponse{}, fmt.Errorf("issue token request: %w", err)
	}
	if err = mapHTTPError(resp); err != nil {
		return models.TokenResponse{}, err
	}

	return issued, nil
}

func (h *httpRemoteAPI) request(ctx context.Context) *resty.Request {
	req := h.client.R().
		SetContext(ctx).
		SetHeader(requestIDHeader, h.ids.Generate())

	if h.tokens != nil {
		if token := h.tokens.Token(); token != "" {
			req.SetAuthToken(token)
		}
	}
	return req
}

func (h *httpRemoteAPI) decodeEntity(resp *resty.Response, scope models.Scope) (models.Entity, error) {
	if err := mapHTTPError(resp); err != nil {
		return models.Entity{}, err
	}

	e, err := models.DecodeEntity(scope, resp.Body())
	if err != nil {
		return models.Entity{}, fmt.Errorf("%w: %w", ErrDecodeResponse, err)
	}
	return e, nil
}
