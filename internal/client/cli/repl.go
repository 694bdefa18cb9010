package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/dpsmushkipur/bine/internal/client/client"
	"github.com/dpsmushkipur/bine/internal/client/mutation"
	"github.com/dpsmushkipur/bine/internal/client/services"
	"github.com/dpsmushkipur/bine/internal/client/session"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

// execIface defines the command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	isLoggedIn() bool
	isStaff() bool
	Login(ctx context.Context) error
	Logout(ctx context.Context) error

	Notices(ctx context.Context, args []string) error
	PostNotice(ctx context.Context) error
	Homework(ctx context.Context, args []string) error
	Assign(ctx context.Context) error
	Attendance(ctx context.Context, args []string) error
	Fees(ctx context.Context, args []string) error
	Collect(ctx context.Context, args []string) error
	Receipts(ctx context.Context, args []string) error
	Leaves(ctx context.Context, args []string) error
	Apply(ctx context.Context) error
	Approve(ctx context.Context, args []string) error
	Reject(ctx context.Context, args []string) error
	Complaints(ctx context.Context, args []string) error
	Complain(ctx context.Context) error
	Resolve(ctx context.Context, args []string) error
	Report(ctx context.Context, args []string) error
	Upload(ctx context.Context, args []string) error
	Uploads(ctx context.Context, args []string) error
}

const (
	helpGuest   = "Available commands: login, exit"
	helpStudent = "Available commands: notices [query], homework, fees, receipts, leaves [query], apply, complaints [query], complain, report <exam>, upload doc|gallery|camera, uploads, logout, exit"
	helpStaff   = "Available commands: notices [query], post, homework [class section], assign, attendance <class> <section> [date], fees <student>, collect <student> <amount> <mode> [months], receipts <student>, leaves [query], apply, approve <id>, reject <id>, complaints [query], complain, resolve <id> [response], report <student> <exam>, upload doc|gallery|camera, uploads, logout, exit"
)

// runREPL starts a simple read–eval–print loop.
//
// It reads a line from reader, parses the first token as the command and
// dispatches to methods on a with the remaining tokens. The loop exits on
// EOF or when the user types "exit" or "quit". Every command except help,
// login and exit needs a signed-in user. Handler errors are printed and the
// loop carries on.
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader) {
	for {
		printlnFn(fmt.Sprintf("dps %s> ", statusFn()))
		line, err := reader.ReadString('\n')
		if err != nil && (!errors.Is(err, io.EOF) || strings.TrimSpace(line) == "") {
			return
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd, args := strings.ToLower(parts[0]), parts[1:]

		switch cmd {
		case "help":
			switch {
			case !a.isLoggedIn():
				printlnFn(helpGuest)
			case a.isStaff():
				printlnFn(helpStaff)
			default:
				printlnFn(helpStudent)
			}
			continue

		case "login":
			report(a.Login(ctx))
			continue

		case "exit", "quit":
			printlnFn("Bye!")
			return
		}

		if !a.isLoggedIn() {
			if _, known := commands[cmd]; known {
				printlnFn("Please login first")
			} else {
				printlnFn("Unknown command:", cmd)
			}
			continue
		}

		run, known := commands[cmd]
		if !known {
			printlnFn("Unknown command:", cmd)
			continue
		}
		report(run(ctx, a, args))
	}
}

var commands = map[string]func(context.Context, execIface, []string) error{
	"logout":     func(ctx context.Context, a execIface, _ []string) error { return a.Logout(ctx) },
	"notices":    func(ctx context.Context, a execIface, args []string) error { return a.Notices(ctx, args) },
	"post":       func(ctx context.Context, a execIface, _ []string) error { return a.PostNotice(ctx) },
	"homework":   func(ctx context.Context, a execIface, args []string) error { return a.Homework(ctx, args) },
	"assign":     func(ctx context.Context, a execIface, _ []string) error { return a.Assign(ctx) },
	"attendance": func(ctx context.Context, a execIface, args []string) error { return a.Attendance(ctx, args) },
	"fees":       func(ctx context.Context, a execIface, args []string) error { return a.Fees(ctx, args) },
	"collect":    func(ctx context.Context, a execIface, args []string) error { return a.Collect(ctx, args) },
	"receipts":   func(ctx context.Context, a execIface, args []string) error { return a.Receipts(ctx, args) },
	"leaves":     func(ctx context.Context, a execIface, args []string) error { return a.Leaves(ctx, args) },
	"apply":      func(ctx context.Context, a execIface, _ []string) error { return a.Apply(ctx) },
	"approve":    func(ctx context.Context, a execIface, args []string) error { return a.Approve(ctx, args) },
	"reject":     func(ctx context.Context, a execIface, args []string) error { return a.Reject(ctx, args) },
	"complaints": func(ctx context.Context, a execIface, args []string) error { return a.Complaints(ctx, args) },
	"complain":   func(ctx context.Context, a execIface, _ []string) error { return a.Complain(ctx) },
	"resolve":    func(ctx context.Context, a execIface, args []string) error { return a.Resolve(ctx, args) },
	"report":     func(ctx context.Context, a execIface, args []string) error { return a.Report(ctx, args) },
	"upload":     func(ctx context.Context, a execIface, args []string) error { return a.Upload(ctx, args) },
	"uploads":    func(ctx context.Context, a execIface, args []string) error { return a.Uploads(ctx, args) },
}

func report(err error) {
	if err != nil {
		printlnFn("Error:", message(err))
	}
}

// message turns err into something worth showing the user.
func message(err error) string {
	switch {
	case errors.Is(err, errBadCredentials):
		return "Invalid username or password"
	case errors.Is(err, session.ErrNoSession):
		return "Please login first"
	case errors.Is(err, services.ErrLocalDataNotAvailable):
		return "Server unavailable and no saved login on this device"
	case errors.Is(err, session.ErrExpired):
		return "Your session has expired, please login again"
	case errors.Is(err, services.ErrForbidden):
		return "This action is only available to staff"
	case errors.Is(err, mutation.ErrInFlight):
		return "That record is already being updated, please wait"
	case errors.Is(err, client.ErrUnavailable):
		return "Server unavailable, please try again later"
	case errors.Is(err, services.ErrInvalidInput), errors.Is(err, errUsage):
		return err.Error()
	}
	return client.Message(err)
}
