package cli

import (
	"context"
	"errors"

	"github.com/dpsmushkipur/bine/internal/client/client"
	"github.com/dpsmushkipur/bine/internal/client/session"
)

var errBadCredentials = errors.New("invalid username or password")

// Login prompts for credentials and signs in.
//
// The online login is tried first. If the server is unavailable it falls
// back to the session saved on this device. Mode ends up online, offline or
// disabled when neither worked.
func (a *App) Login(ctx context.Context) error {
	userName, err := getSimpleText(a.reader, "Enter username", a.out)
	if err != nil {
		return err
	}

	password, err := getPassword(a.out)
	if err != nil {
		return err
	}
	defer clear(password)

	s, err := a.authService.OnlineLogin(ctx, userName, password)
	switch {
	case err == nil:
		a.setSession(s)
		a.setMode(ModeOnline)
		a.banner.Success("Welcome, " + displayName(s))
		return nil

	case errors.Is(err, client.ErrUnavailable):
		a.log.Warn(ctx, "server unavailable, trying offline login", "error", err)
		s, err = a.authService.OfflineLogin(ctx, userName)
		if err != nil {
			a.setMode(ModeDisabled)
			return err
		}
		a.setSession(s)
		a.setMode(ModeOffline)
		a.banner.Info("Offline: showing saved data for " + displayName(s))
		return nil
	}

	a.log.Info(ctx, "login unsuccessful", "error", err)
	if errors.Is(err, client.ErrUnauthorized) {
		return errBadCredentials
	}
	return err
}

func displayName(s session.Session) string {
	if s.Name != "" {
		return s.Name
	}
	return s.Username
}

// Logout forgets the session and every cached response on this device.
func (a *App) Logout(ctx context.Context) error {
	if err := a.authService.ClearOfflineData(ctx); err != nil {
		return err
	}
	a.setSession(session.Session{})
	a.setMode("")
	a.banner.Info("Logged out")
	return nil
}
