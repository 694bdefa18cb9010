package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dpsmushkipur/bine/internal/client/client"
	"github.com/dpsmushkipur/bine/internal/client/session"
)

// AuthService signs the user in and out.
//
// Contract:
//   - OnlineLogin: authenticate against the API and remember the session.
//   - OfflineLogin: restore the remembered session for username.
//   - Ping: check API liveness.
//   - ClearOfflineData: forget the session and every cached response.
type AuthService interface {
	OnlineLogin(ctx context.Context, username string, password []byte) (session.Session, error)
	OfflineLogin(ctx context.Context, username string) (session.Session, error)
	Ping(ctx context.Context) error
	ClearOfflineData(ctx context.Context) error
}

// Resetter wipes local data. *cache.Store implements it.
type Resetter interface {
	Reset(ctx context.Context) error
}

type authService struct {
	client client.Client
	store  *session.Store
	reset  Resetter
	now    func() time.Time
}

func NewAuthService(c client.Client, store *session.Store, reset Resetter) AuthService {
	return &authService{client: c, store: store, reset: reset, now: time.Now}
}

func (a *authService) OnlineLogin(ctx context.Context, username string, password []byte) (session.Session, error) {
	resp, err := a.client.Login(ctx, username, string(password))
	if err != nil {
		return session.Session{}, fmt.Errorf("login error: %w", err)
	}

	s := session.FromLogin(username, resp, a.now())
	if err := a.store.Save(ctx, s); err != nil {
		return session.Session{}, fmt.Errorf("offline data saving error: %w", err)
	}
	return s, nil
}

// OfflineLogin returns ErrLocalDataNotAvailable when nothing is saved,
// client.ErrUnauthorized when the saved session belongs to someone else and
// session.ErrExpired when its token has run out.
func (a *authService) OfflineLogin(ctx context.Context, username string) (session.Session, error) {
	s, err := a.store.Load(ctx)
	if errors.Is(err, session.ErrNoSession) {
		return session.Session{}, ErrLocalDataNotAvailable
	}
	if err != nil {
		return session.Session{}, err
	}
	if s.Username != username {
		return session.Session{}, client.ErrUnauthorized
	}
	if err := s.Valid(a.now()); err != nil {
		return session.Session{}, err
	}
	return s, nil
}

func (a *authService) Ping(ctx context.Context) error {
	return a.client.Ping(ctx)
}

func (a *authService) ClearOfflineData(ctx context.Context) error {
	if a.reset != nil {
		return a.reset.Reset(ctx)
	}
	return a.store.Clear(ctx)
}
