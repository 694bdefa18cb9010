package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/dpsmushkipur/bine/internal/client/cache"
	"github.com/dpsmushkipur/bine/internal/client/client"
	"github.com/dpsmushkipur/bine/internal/client/config"
	"github.com/dpsmushkipur/bine/internal/client/mutation"
	"github.com/dpsmushkipur/bine/internal/client/services"
	"github.com/dpsmushkipur/bine/internal/client/session"
	"github.com/dpsmushkipur/bine/internal/client/ui"
	"github.com/dpsmushkipur/bine/internal/logging"
	"github.com/dpsmushkipur/bine/internal/upload"
)

type Mode string

const (
	ModeOffline  Mode = "offline"
	ModeOnline   Mode = "online"
	ModeDisabled Mode = "disabled"
)

// screens bundles one service per screen.
type screens struct {
	notices    *services.Notices
	homework   *services.Homework
	attendance *services.Attendance
	fees       *services.Fees
	leaves     *services.Leaves
	complaints *services.Complaints
	reports    *services.Reports
}

func newScreens(d services.Deps) screens {
	return screens{
		notices:    services.NewNotices(d),
		homework:   services.NewHomework(d),
		attendance: services.NewAttendance(d),
		fees:       services.NewFees(d),
		leaves:     services.NewLeaves(d),
		complaints: services.NewComplaints(d),
		reports:    services.NewReports(d),
	}
}

type App struct {
	config      *config.Config
	log         logging.Logger
	store       *cache.Store
	authService services.AuthService
	screens
	banner *ui.Banner
	out    io.Writer
	reader *bufio.Reader

	mu        sync.Mutex
	Mode      Mode
	session   session.Session
	transport upload.Transport
}

func NewApp(ctx context.Context, c *config.Config, log logging.Logger) (*App, error) {
	store, err := cache.Open(ctx, c.CacheDSN)
	if err != nil {
		log.Error(ctx, "error initializing database", "error", err)
		return nil, err
	}

	pruneCache(ctx, store, c.CacheRetention, time.Now(), log)

	apiClient := client.NewHTTPClient(c.APIBaseURL, c.RequestTimeout, log)

	deps := services.Deps{
		Client:    apiClient,
		Responses: store.Responses,
		Guard:     mutation.NewGuard(),
		Logger:    log,
	}

	return &App{
		config:      c,
		log:         log,
		store:       store,
		authService: services.NewAuthService(apiClient, session.NewStore(store.Metadata), store),
		screens:     newScreens(deps),
		banner:      ui.NewBanner(os.Stdout, c.BannerTTL, upload.Theme{}),
		out:         os.Stdout,
		reader:      bufio.NewReader(os.Stdin),
	}, nil
}

// pruneCache drops cached responses older than retention. A failure only
// costs disk space, so it is logged and startup continues.
func pruneCache(ctx context.Context, store *cache.Store, retention time.Duration, now time.Time, log logging.Logger) {
	n, err := store.Responses.Prune(ctx, now.Add(-retention))
	if err != nil {
		log.Warn(ctx, "pruning response cache", "error", err)
		return
	}
	if n > 0 {
		log.Debug(ctx, "pruned response cache", "entries", n)
	}
}

func (a *App) setMode(mode Mode) {
	a.mu.Lock()
	changed := a.Mode != mode
	a.Mode = mode
	a.mu.Unlock()

	if changed && mode != "" {
		a.log.Info(context.Background(), "switched mode", "mode", string(mode))
		a.banner.Info(fmt.Sprintf("Switched to %s mode", mode))
	}
}

func (a *App) mode() Mode {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.Mode
}

func (a *App) currentSession() session.Session {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.session
}

func (a *App) setSession(s session.Session) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.session = s
	a.transport = nil
}

func (a *App) isLoggedIn() bool {
	return a.currentSession().UserID != ""
}

func (a *App) isStaff() bool {
	return a.currentSession().IsStaff()
}

func (a *App) Run(ctx context.Context) {
	defer func() {
		a.banner.Dismiss()
		if err := a.store.Close(); err != nil {
			a.log.Warn(ctx, "closing cache", "error", err)
		}
	}()
	a.Root(ctx)
}

// StartOnlineStatusWatcher pings the API every interval and switches between
// online and offline. A disabled app (no usable session) is left alone
// until the API answers again.
func (a *App) StartOnlineStatusWatcher(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			pctx, cancel := context.WithTimeout(ctx, 3*time.Second)
			err := a.authService.Ping(pctx)
			cancel()

			if err != nil {
				if a.mode() == ModeOnline {
					a.setMode(ModeOffline)
				}
			} else if a.mode() != ModeOnline && a.isLoggedIn() {
				a.setMode(ModeOnline)
			}

		case <-ctx.Done():
			return
		}
	}
}
