package services

import (
	"context"
	"net/url"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/dpsmushkipur/bine/internal/client/cache"
	"github.com/dpsmushkipur/bine/internal/client/models"
	"github.com/dpsmushkipur/bine/internal/client/mutation"
	"github.com/dpsmushkipur/bine/internal/client/session"
)

type call struct {
	action string
	params url.Values
}

// fakeClient answers from per-action tables.
type fakeClient struct {
	mu sync.Mutex

	pingErr  error
	loginRes models.LoginResponse
	loginErr error

	payloads map[string][]string // served in order; the last one repeats
	errs     map[string]error
	calls    []call
}

func newFakeClient() *fakeClient {
	return &fakeClient{payloads: map[string][]string{}, errs: map[string]error{}}
}

func (f *fakeClient) on(action string, payloads ...string) *fakeClient {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.payloads[action] = payloads
	return f
}

func (f *fakeClient) fail(action string, err error) *fakeClient {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.errs[action] = err
	return f
}

func (f *fakeClient) Ping(context.Context) error { return f.pingErr }

func (f *fakeClient) Login(context.Context, string, string) (models.LoginResponse, error) {
	return f.loginRes, f.loginErr
}

func (f *fakeClient) Fetch(_ context.Context, action string, params url.Values) ([]byte, error) {
	return f.answer(action, params)
}

func (f *fakeClient) Do(_ context.Context, action string, params url.Values) ([]byte, error) {
	return f.answer(action, params)
}

func (f *fakeClient) answer(action string, params url.Values) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	cp := url.Values{}
	for k, v := range params {
		cp[k] = append([]string(nil), v...)
	}
	f.calls = append(f.calls, call{action: action, params: cp})

	if err := f.errs[action]; err != nil {
		return nil, err
	}
	p := f.payloads[action]
	if len(p) == 0 {
		return nil, nil
	}
	out := p[0]
	if len(p) > 1 {
		f.payloads[action] = p[1:]
	}
	return []byte(out), nil
}

func (f *fakeClient) callsOf(action string) []call {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []call
	for _, c := range f.calls {
		if c.action == action {
			out = append(out, c)
		}
	}
	return out
}

var testNow = time.Date(2025, 6, 2, 9, 30, 0, 0, time.UTC)

func setup(t *testing.T) (*fakeClient, *cache.Store, Deps) {
	t.Helper()

	store, err := cache.Open(context.Background(), ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	fc := newFakeClient()
	return fc, store, Deps{
		Client:    fc,
		Responses: store.Responses,
		Guard:     mutation.NewGuard(),
		Now:       func() time.Time { return testNow },
	}
}

var (
	teacher = session.Session{UserID: "t1", Username: "rkumar", Name: "R Kumar", Role: models.RoleTeacher, ClassName: "5", Section: "A", Token: "tok"}
	pupil   = session.Session{UserID: "s9", Username: "anya", Name: "Anya", Role: models.RoleStudent, ClassName: "5", Section: "A"}
)
