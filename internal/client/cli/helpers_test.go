package cli

import (
	"bufio"
	"bytes"
	"context"
	"net/url"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dpsmushkipur/bine/internal/client/cache"
	"github.com/dpsmushkipur/bine/internal/client/config"
	"github.com/dpsmushkipur/bine/internal/client/models"
	"github.com/dpsmushkipur/bine/internal/client/mutation"
	"github.com/dpsmushkipur/bine/internal/client/services"
	"github.com/dpsmushkipur/bine/internal/client/session"
	"github.com/dpsmushkipur/bine/internal/client/ui"
	"github.com/dpsmushkipur/bine/internal/logging"
	"github.com/dpsmushkipur/bine/internal/upload"
)

// fakeAPI answers every action with a fixed payload.
type fakeAPI struct {
	mu       sync.Mutex
	payloads map[string]string
	errs     map[string]error
	calls    map[string][]url.Values
}

func newFakeAPI() *fakeAPI {
	return &fakeAPI{payloads: map[string]string{}, errs: map[string]error{}, calls: map[string][]url.Values{}}
}

func (f *fakeAPI) Ping(context.Context) error { return nil }

func (f *fakeAPI) Login(context.Context, string, string) (models.LoginResponse, error) {
	return models.LoginResponse{}, nil
}

func (f *fakeAPI) Fetch(_ context.Context, action string, params url.Values) ([]byte, error) {
	return f.answer(action, params)
}

func (f *fakeAPI) Do(_ context.Context, action string, params url.Values) ([]byte, error) {
	return f.answer(action, params)
}

func (f *fakeAPI) answer(action string, params url.Values) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls[action] = append(f.calls[action], params)
	if err := f.errs[action]; err != nil {
		return nil, err
	}
	return []byte(f.payloads[action]), nil
}

func (f *fakeAPI) callsOf(action string) []url.Values {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[action]
}

var (
	staffSession   = session.Session{UserID: "t1", Username: "rkumar", Name: "R Kumar", Role: models.RoleTeacher, ClassName: "5", Section: "A"}
	studentSession = session.Session{UserID: "s9", Username: "anya", Name: "Anya", Role: models.RoleStudent, ClassName: "5", Section: "A"}
)

// newTestApp builds an App over an in-memory cache and api, reading input.
func newTestApp(t *testing.T, api *fakeAPI, input string) (*App, *bytes.Buffer) {
	t.Helper()

	store, err := cache.Open(context.Background(), ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	cfg := &config.Config{}
	cfg.LoadDefaults()
	cfg.StagingDir = t.TempDir()

	out := &bytes.Buffer{}
	deps := services.Deps{Client: api, Responses: store.Responses, Guard: mutation.NewGuard(), Logger: logging.Nop()}

	return &App{
		config:      cfg,
		log:         logging.Nop(),
		store:       store,
		authService: services.NewAuthService(api, session.NewStore(store.Metadata), store),
		screens:     newScreens(deps),
		banner:      ui.NewBanner(out, 0, upload.Theme{}),
		out:         out,
		reader:      bufio.NewReader(strings.NewReader(input)),
	}, out
}
