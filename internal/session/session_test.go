package session

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MKhiriev/munch-sync/internal/logger"
	"github.com/MKhiriev/munch-sync/internal/mock"
	"github.com/MKhiriev/munch-sync/internal/store"
	"github.com/MKhiriev/munch-sync/internal/utils"
	"github.com/MKhiriev/munch-sync/models"
)

func newTestSession(t *testing.T) (*Session, *mock.MockSessionRepository) {
	t.Helper()
	ctrl := gomock.NewController(t)
	repo := mock.NewMockSessionRepository(ctrl)
	return New(repo, logger.Nop()), repo
}

func signedToken(t *testing.T, userID string) string {
	t.Helper()
	token, err := utils.GenerateJWTToken("munch-dev", userID, time.Hour, "key")
	require.NoError(t, err)
	return token.SignedString
}

func TestSession_SignIn(t *testing.T) {
	s, repo := newTestSession(t)
	ctx := context.Background()
	token := signedToken(t, "u-42")

	repo.EXPECT().Save(ctx, gomock.Any()).DoAndReturn(func(_ context.Context, st models.SessionState) error {
		assert.Equal(t, "u-42", st.UserID)
		assert.Equal(t, token, st.Token)
		assert.Equal(t, "Ann", st.DisplayName)
		assert.False(t, st.SavedAt.IsZero())
		return nil
	})

	require.NoError(t, s.SignIn(ctx, token, "Ann"))

	assert.True(t, s.Authenticated())
	assert.Equal(t, token, s.Token())
	assert.Equal(t, "u-42", s.UserID())
	assert.Equal(t, "Ann", s.DisplayName())
}

func TestSession_SignIn_Errors(t *testing.T) {
	s, _ := newTestSession(t)

	assert.ErrorIs(t, s.SignIn(context.Background(), "", ""), ErrEmptyToken)
	assert.Error(t, s.SignIn(context.Background(), "garbage", ""))
	assert.False(t, s.Authenticated())
}

func TestSession_SignIn_PersistFails(t *testing.T) {
	s, repo := newTestSession(t)
	repo.EXPECT().Save(gomock.Any(), gomock.Any()).Return(errors.New("disk full"))

	err := s.SignIn(context.Background(), signedToken(t, "u-1"), "")

	assert.ErrorIs(t, err, ErrPersistSession)
	// the in-memory session is still usable
	assert.Equal(t, "u-1", s.UserID())
}

func TestSession_Restore(t *testing.T) {
	ll := models.LatLng{Lat: 1.3, Lng: 103.8}

	t.Run("stored", func(t *testing.T) {
		s, repo := newTestSession(t)
		repo.EXPECT().Load(gomock.Any()).Return(models.SessionState{UserID: "u-1", Token: "tok", LastLatLng: &ll}, nil)

		ok, err := s.Restore(context.Background())
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, "tok", s.Token())

		got, has := s.Location()
		assert.True(t, has)
		assert.Equal(t, ll, got)
	})

	t.Run("nothing stored", func(t *testing.T) {
		s, repo := newTestSession(t)
		repo.EXPECT().Load(gomock.Any()).Return(models.SessionState{}, store.ErrLocalSessionNotFound)

		ok, err := s.Restore(context.Background())
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("store failure", func(t *testing.T) {
		s, repo := newTestSession(t)
		repo.EXPECT().Load(gomock.Any()).Return(models.SessionState{}, errors.New("locked"))

		_, err := s.Restore(context.Background())
		assert.Error(t, err)
	})
}

func TestSession_SetLocation(t *testing.T) {
	s, repo := newTestSession(t)
	ctx := context.Background()

	assert.ErrorIs(t, s.SetLocation(ctx, models.LatLng{Lat: 1, Lng: 2}), ErrNotSignedIn)

	repo.EXPECT().Save(ctx, gomock.Any()).Return(nil).Times(2)
	require.NoError(t, s.SignIn(ctx, signedToken(t, "u-1"), ""))
	require.NoError(t, s.SetLocation(ctx, models.LatLng{Lat: 1, Lng: 2}))

	got, ok := s.Location()
	require.True(t, ok)
	assert.Equal(t, models.LatLng{Lat: 1, Lng: 2}, got)

	// State hands out a copy
	st := s.State()
	st.LastLatLng.Lat = 99
	got, _ = s.Location()
	assert.Equal(t, float64(1), got.Lat)
}

func TestSession_Clear(t *testing.T) {
	s, repo := newTestSession(t)
	ctx := context.Background()

	repo.EXPECT().Save(ctx, gomock.Any()).Return(nil)
	repo.EXPECT().Clear(ctx).Return(nil)

	require.NoError(t, s.SignIn(ctx, signedToken(t, "u-1"), ""))
	require.NoError(t, s.Clear(ctx))

	assert.False(t, s.Authenticated())
	assert.Empty(t, s.Token())
}

func TestSession_ConcurrentAccess(t *testing.T) {
	s, repo := newTestSession(t)
	repo.EXPECT().Save(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	token := signedToken(t, "u-1")

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			_ = s.SignIn(context.Background(), token, "")
		}()
		go func() {
			defer wg.Done()
			_ = s.Token()
			_, _ = s.Location()
		}()
	}
	wg.Wait()

	assert.Equal(t, "u-1", s.UserID())
}
