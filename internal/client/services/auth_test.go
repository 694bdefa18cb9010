package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dpsmushkipur/bine/internal/client/client"
	"github.com/dpsmushkipur/bine/internal/client/models"
	"github.com/dpsmushkipur/bine/internal/client/session"
)

func newAuth(t *testing.T) (*fakeClient, *authService) {
	fc, store, _ := setup(t)
	svc := NewAuthService(fc, session.NewStore(store.Metadata), store).(*authService)
	svc.now = func() time.Time { return testNow }
	return fc, svc
}

func TestAuth_OnlineThenOffline(t *testing.T) {
	ctx := context.Background()
	fc, svc := newAuth(t)
	fc.loginRes = models.LoginResponse{UserID: "7", Name: "Meera", Role: "teacher", ClassName: "6", Section: "B", Token: "opaque"}

	s, err := svc.OnlineLogin(ctx, "meera", []byte("pw"))
	require.NoError(t, err)
	assert.Equal(t, "7", s.UserID)
	assert.Equal(t, "meera", s.Username)
	assert.Equal(t, testNow, s.IssuedAt)

	off, err := svc.OfflineLogin(ctx, "meera")
	require.NoError(t, err)
	assert.Equal(t, s.UserID, off.UserID)
	assert.Equal(t, s.Token, off.Token)

	_, err = svc.OfflineLogin(ctx, "someone")
	require.ErrorIs(t, err, client.ErrUnauthorized)
}

func TestAuth_OnlineLoginRejected(t *testing.T) {
	fc, svc := newAuth(t)
	fc.loginErr = client.ErrUnauthorized

	_, err := svc.OnlineLogin(context.Background(), "x", []byte("bad"))
	require.ErrorIs(t, err, client.ErrUnauthorized)
}

func TestAuth_OfflineWithoutData(t *testing.T) {
	_, svc := newAuth(t)
	_, err := svc.OfflineLogin(context.Background(), "meera")
	require.ErrorIs(t, err, ErrLocalDataNotAvailable)
}

func TestAuth_ClearOfflineData(t *testing.T) {
	ctx := context.Background()
	fc, svc := newAuth(t)
	fc.loginRes = models.LoginResponse{UserID: "7", Role: "student"}

	_, err := svc.OnlineLogin(ctx, "meera", []byte("pw"))
	require.NoError(t, err)

	require.NoError(t, svc.ClearOfflineData(ctx))
	_, err = svc.OfflineLogin(ctx, "meera")
	require.ErrorIs(t, err, ErrLocalDataNotAvailable)
}

func TestAuth_Ping(t *testing.T) {
	fc, svc := newAuth(t)
	require.NoError(t, svc.Ping(context.Background()))

	fc.pingErr = client.ErrUnavailable
	require.ErrorIs(t, svc.Ping(context.Background()), client.ErrUnavailable)
}
