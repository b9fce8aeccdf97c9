package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MKhiriev/munch-sync/internal/logger"
	"github.com/MKhiriev/munch-sync/internal/mock"
	"github.com/MKhiriev/munch-sync/models"
)

func cursorPtr(c models.Cursor) *models.Cursor { return &c }

func TestFetcher_FetchAll_PagesUntilExhausted(t *testing.T) {
	remote := newCatalogRemote(t)
	seeded := remote.seed(t, collectionsScope, 25)

	f := NewFetcher(remote, 10, 0, logger.Nop())
	got, err := f.FetchAll(context.Background(), collectionsScope)

	require.NoError(t, err)
	assert.Equal(t, 3, got.Pages)
	assert.Equal(t, int64(3), remote.pageCalls.Load())
	require.Len(t, got.Entities, 25)
	assert.Equal(t, seeded[24].ID, got.Entities[0].ID)
	assert.Equal(t, seeded[0].ID, got.Entities[24].ID)
}

func TestFetcher_FetchAll_EmptyScope(t *testing.T) {
	remote := newCatalogRemote(t)

	got, err := NewFetcher(remote, 10, 0, logger.Nop()).FetchAll(context.Background(), collectionsScope)

	require.NoError(t, err)
	assert.Equal(t, 1, got.Pages)
	assert.NotNil(t, got.Entities)
	assert.Empty(t, got.Entities)
}

func TestFetcher_FetchAll_PageFailureDiscardsEverything(t *testing.T) {
	remote := newCatalogRemote(t)
	remote.seed(t, collectionsScope, 25)
	remote.failPage = 2

	got, err := NewFetcher(remote, 10, 0, logger.Nop()).FetchAll(context.Background(), collectionsScope)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "page 2")
	assert.Empty(t, got.Entities)
	assert.Equal(t, int64(2), remote.pageCalls.Load())
}

func TestFetcher_FetchAll_SendsCursors(t *testing.T) {
	ctrl := gomock.NewController(t)
	api := mock.NewMockRemoteAPI(ctrl)
	ctx := context.Background()

	gomock.InOrder(
		api.EXPECT().FetchPage(ctx, collectionsScope, models.PageRequest{Size: 2}).
			Return(models.Page{Items: []models.Entity{collection("a", 4), collection("b", 3)}, Next: cursorPtr("3")}, nil),
		api.EXPECT().FetchPage(ctx, collectionsScope, models.PageRequest{Size: 2, Cursor: "3"}).
			Return(models.Page{Items: []models.Entity{collection("c", 2)}}, nil),
	)

	got, err := NewFetcher(api, 2, 0, logger.Nop()).FetchAll(ctx, collectionsScope)

	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "c"}, models.IDs(got.Entities))
}

func TestFetcher_FetchAll_SkipsRepeatedItems(t *testing.T) {
	ctrl := gomock.NewController(t)
	api := mock.NewMockRemoteAPI(ctrl)

	gomock.InOrder(
		api.EXPECT().FetchPage(gomock.Any(), collectionsScope, gomock.Any()).
			Return(models.Page{Items: []models.Entity{collection("a", 4), collection("b", 3)}, Next: cursorPtr("3")}, nil),
		api.EXPECT().FetchPage(gomock.Any(), collectionsScope, gomock.Any()).
			Return(models.Page{Items: []models.Entity{collection("b", 3), collection("c", 2)}}, nil),
	)

	got, err := NewFetcher(api, 2, 0, logger.Nop()).FetchAll(context.Background(), collectionsScope)

	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "c"}, models.IDs(got.Entities))
}

func TestFetcher_FetchAll_CursorNotAdvancing(t *testing.T) {
	ctrl := gomock.NewController(t)
	api := mock.NewMockRemoteAPI(ctrl)

	api.EXPECT().FetchPage(gomock.Any(), collectionsScope, gomock.Any()).
		Return(models.Page{Items: []models.Entity{collection("a", 1)}, Next: cursorPtr("x")}, nil).
		Times(2)

	_, err := NewFetcher(api, 1, 0, logger.Nop()).FetchAll(context.Background(), collectionsScope)

	assert.ErrorIs(t, err, ErrCursorNotAdvancing)
}

func TestFetcher_FetchAll_EmptyPageWithCursorEnds(t *testing.T) {
	ctrl := gomock.NewController(t)
	api := mock.NewMockRemoteAPI(ctrl)

	api.EXPECT().FetchPage(gomock.Any(), collectionsScope, models.PageRequest{Size: 10}).
		Return(models.Page{Items: []models.Entity{}, Next: cursorPtr("x")}, nil).
		Times(1)

	got, err := NewFetcher(api, 10, 0, logger.Nop()).FetchAll(context.Background(), collectionsScope)

	require.NoError(t, err)
	assert.Equal(t, 1, got.Pages)
	assert.Empty(t, got.Entities)
	assert.NotNil(t, got.Entities)
}

func TestFetcher_FetchAll_TooManyPages(t *testing.T) {
	remote := newCatalogRemote(t)
	remote.seed(t, collectionsScope, 5)

	_, err := NewFetcher(remote, 1, 3, logger.Nop()).FetchAll(context.Background(), collectionsScope)

	assert.ErrorIs(t, err, ErrTooManyPages)
	assert.Equal(t, int64(3), remote.pageCalls.Load())
}

func TestFetcher_FetchAll_StopsWhenCancelled(t *testing.T) {
	ctrl := gomock.NewController(t)
	api := mock.NewMockRemoteAPI(ctrl)
	ctx, cancel := context.WithCancel(context.Background())

	// the first page cancels; no second request may follow
	api.EXPECT().FetchPage(gomock.Any(), collectionsScope, gomock.Any()).
		DoAndReturn(func(context.Context, models.Scope, models.PageRequest) (models.Page, error) {
			cancel()
			return models.Page{Items: []models.Entity{collection("a", 1)}, Next: cursorPtr("1")}, nil
		})

	_, err := NewFetcher(api, 1, 0, logger.Nop()).FetchAll(ctx, collectionsScope)

	assert.True(t, errors.Is(err, context.Canceled))
}
