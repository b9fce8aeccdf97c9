package service

import (
	"context"
	"fmt"

	"github.com/MKhiriev/munch-sync/internal/adapter"
	"github.com/MKhiriev/munch-sync/internal/logger"
	"github.com/MKhiriev/munch-sync/models"
)

// FetchResult is the outcome of a complete paginated fetch.
type FetchResult struct {
	Entities []models.Entity
	Pages    int
}

// Fetcher walks every page of a scope, one request at a time.
type Fetcher struct {
	api      adapter.RemoteAPI
	pageSize int
	maxPages int

	logger *logger.Logger
}

// NewFetcher creates a Fetcher requesting pageSize items per page. maxPages
// bounds a single walk; zero disables the bound.
func NewFetcher(api adapter.RemoteAPI, pageSize, maxPages int, logger *logger.Logger) *Fetcher {
	return &Fetcher{
		api:      api,
		pageSize: pageSize,
		maxPages: maxPages,
		logger:   logger,
	}
}

// FetchAll requests pages of scope until the API stops returning a next
// cursor. ctx is checked before every request. Any failure discards the pages
// already collected.
//
// An item repeated on a later page (the list shifted between requests) is
// kept only at its first position.
func (f *Fetcher) FetchAll(ctx context.Context, scope models.Scope) (FetchResult, error) {
	var (
		items  []models.Entity
		seen   = make(map[string]struct{})
		cursor models.Cursor
		pages  int
	)

	for {
		if err := ctx.Err(); err != nil {
			return FetchResult{}, err
		}
		if f.maxPages > 0 && pages >= f.maxPages {
			return FetchResult{}, fmt.Errorf("%w: %d pages of %s", ErrTooManyPages, pages, scope)
		}

		page, err := f.api.FetchPage(ctx, scope, models.PageRequest{Size: f.pageSize, Cursor: cursor})
		pages++
		if err != nil {
			return FetchResult{}, fmt.Errorf("error fetching page %d of %s: %w", pages, scope, err)
		}

		for _, e := range page.Items {
			if _, dup := seen[e.ID]; dup {
				continue
			}
			seen[e.ID] = struct{}{}
			items = append(items, e)
		}

		next, ok := page.NextCursor()
		if !ok || len(page.Items) == 0 {
			break
		}
		if next == cursor {
			return FetchResult{}, fmt.Errorf("%w: %q on page %d of %s", ErrCursorNotAdvancing, next, pages, scope)
		}
		cursor = next
	}

	f.logger.Debug().
		Str("func", "Fetcher.FetchAll").
		Stringer("scope", scope).
		Int("pages", pages).
		Int("items", len(items)).
		Msg("fetch completed")

	if items == nil {
		items = []models.Entity{}
	}
	return FetchResult{Entities: items, Pages: pages}, nil
}
