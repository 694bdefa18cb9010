// Package session holds the signed-in user. A Session is a plain value passed
// to every service call; nothing reads it from ambient storage.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/dpsmushkipur/bine/internal/client/models"
	"github.com/dpsmushkipur/bine/internal/client/repositories/metadata"
)

var (
	ErrNoSession = errors.New("not logged in")
	ErrExpired   = errors.New("session expired")
)

type Session struct {
	UserID    string    `json:"user_id"`
	Username  string    `json:"username"`
	Name      string    `json:"name"`
	Role      string    `json:"role"`
	ClassName string    `json:"class"`
	Section   string    `json:"section"`
	Token     string    `json:"token,omitempty"`
	IssuedAt  time.Time `json:"issued_at"`
}

// FromLogin builds a Session from the login response.
func FromLogin(username string, r models.LoginResponse, now time.Time) Session {
	return Session{
		UserID:    r.UserID.String(),
		Username:  username,
		Name:      r.Name,
		Role:      r.Role,
		ClassName: r.ClassName.String(),
		Section:   r.Section,
		Token:     r.Token,
		IssuedAt:  now,
	}
}

// Valid returns ErrNoSession for an empty session and ErrExpired when the
// token is a JWT whose exp has passed. Opaque tokens never expire here; the
// server says so with a 401.
func (s Session) Valid(now time.Time) error {
	if s.UserID == "" {
		return ErrNoSession
	}
	exp, ok := s.ExpiresAt()
	if ok && !now.Before(exp) {
		return ErrExpired
	}
	return nil
}

// ExpiresAt reads exp from a JWT token without verifying the signature;
// the server verifies it.
func (s Session) ExpiresAt() (time.Time, bool) {
	if s.Token == "" {
		return time.Time{}, false
	}
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(s.Token, claims); err != nil {
		return time.Time{}, false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}, false
	}
	return exp.Time, true
}

// IsStaff reports whether the user may act on other people's records.
func (s Session) IsStaff() bool { return models.IsStaff(s.Role) }

// Params are the identifying fields sent with every API call.
func (s Session) Params() url.Values {
	v := url.Values{}
	v.Set("user_id", s.UserID)
	v.Set("role", s.Role)
	if s.Token != "" {
		v.Set("token", s.Token)
	}
	return v
}

// With returns Params plus the given key/value pairs.
func (s Session) With(kv ...string) url.Values {
	v := s.Params()
	for i := 0; i+1 < len(kv); i += 2 {
		v.Set(kv[i], kv[i+1])
	}
	return v
}

const storeKey = "session"

// Store keeps the last session in the metadata table so the CLI can start
// offline.
type Store struct {
	repo metadata.Repository
}

func NewStore(repo metadata.Repository) *Store {
	return &Store{repo: repo}
}

func (st *Store) Save(ctx context.Context, s Session) error {
	b, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	return st.repo.Set(ctx, storeKey, b)
}

// Load returns ErrNoSession when nothing was saved.
func (st *Store) Load(ctx context.Context) (Session, error) {
	b, err := st.repo.Get(ctx, storeKey)
	if err != nil {
		return Session{}, err
	}
	if b == nil {
		return Session{}, ErrNoSession
	}
	var s Session
	if err := json.Unmarshal(b, &s); err != nil {
		return Session{}, fmt.Errorf("decode session: %w", err)
	}
	return s, nil
}

func (st *Store) Clear(ctx context.Context) error {
	return st.repo.Delete(ctx, storeKey)
}
