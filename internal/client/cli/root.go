package cli

import (
	"context"
	"fmt"
)

func (a *App) getStatus() string {
	s := a.currentSession()
	status := ""
	if s.Name != "" {
		status = s.Name + " "
	} else if s.Username != "" {
		status = s.Username + " "
	}
	if s.Role != "" {
		status += "[" + s.Role + "] "
	}
	status += string(a.mode())
	if status != "" {
		status = fmt.Sprintf("(%s)", status)
	}
	return status
}

// Root greets the user, asks for credentials, starts the connectivity
// watcher and runs the REPL until exit.
func (a *App) Root(ctx context.Context) {
	fmt.Fprintln(a.out, "Welcome to DPS Mushkipur (type 'help' for commands)")

	if err := a.Login(ctx); err != nil {
		a.banner.Error(message(err))
	}

	wctx, stop := context.WithCancel(ctx)
	defer stop()
	go a.StartOnlineStatusWatcher(wctx, a.config.OnlineCheckInterval)

	runREPL(ctx, a, a.getStatus, a.reader)
}
