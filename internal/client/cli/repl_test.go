package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dpsmushkipur/bine/internal/client/mutation"
	"github.com/dpsmushkipur/bine/internal/client/services"
)

type fakeExec struct {
	loggedIn bool
	staff    bool
	err      error

	calls []string
}

func (f *fakeExec) rec(name string, args ...string) error {
	f.calls = append(f.calls, strings.TrimSpace(name+" "+strings.Join(args, " ")))
	return f.err
}

func (f *fakeExec) isLoggedIn() bool { return f.loggedIn }
func (f *fakeExec) isStaff() bool    { return f.staff }
func (f *fakeExec) Login(context.Context) error {
	f.loggedIn = true
	return f.rec("login")
}
func (f *fakeExec) Logout(context.Context) error {
	f.loggedIn = false
	return f.rec("logout")
}
func (f *fakeExec) Notices(_ context.Context, a []string) error    { return f.rec("notices", a...) }
func (f *fakeExec) PostNotice(context.Context) error               { return f.rec("post") }
func (f *fakeExec) Homework(_ context.Context, a []string) error   { return f.rec("homework", a...) }
func (f *fakeExec) Assign(context.Context) error                   { return f.rec("assign") }
func (f *fakeExec) Attendance(_ context.Context, a []string) error { return f.rec("attendance", a...) }
func (f *fakeExec) Fees(_ context.Context, a []string) error       { return f.rec("fees", a...) }
func (f *fakeExec) Collect(_ context.Context, a []string) error    { return f.rec("collect", a...) }
func (f *fakeExec) Receipts(_ context.Context, a []string) error   { return f.rec("receipts", a...) }
func (f *fakeExec) Leaves(_ context.Context, a []string) error     { return f.rec("leaves", a...) }
func (f *fakeExec) Apply(context.Context) error                    { return f.rec("apply") }
func (f *fakeExec) Approve(_ context.Context, a []string) error    { return f.rec("approve", a...) }
func (f *fakeExec) Reject(_ context.Context, a []string) error     { return f.rec("reject", a...) }
func (f *fakeExec) Complaints(_ context.Context, a []string) error { return f.rec("complaints", a...) }
func (f *fakeExec) Complain(context.Context) error                 { return f.rec("complain") }
func (f *fakeExec) Resolve(_ context.Context, a []string) error    { return f.rec("resolve", a...) }
func (f *fakeExec) Report(_ context.Context, a []string) error     { return f.rec("report", a...) }
func (f *fakeExec) Upload(_ context.Context, a []string) error     { return f.rec("upload", a...) }
func (f *fakeExec) Uploads(_ context.Context, a []string) error    { return f.rec("uploads", a...) }

func capturePrint(t *testing.T) *[]string {
	t.Helper()
	var lines []string
	orig := printlnFn
	printlnFn = func(a ...any) (int, error) {
		lines = append(lines, strings.TrimSuffix(fmt.Sprintln(a...), "\n"))
		return 0, nil
	}
	t.Cleanup(func() { printlnFn = orig })
	return &lines
}

func TestRunREPL_LoginFlowAndCommands(t *testing.T) {
	out := capturePrint(t)

	input := strings.Join([]string{
		"notices",
		"help",
		"login",
		"help",
		"notices sports day",
		"FEES",
		"collect s9 500 upi",
		"upload doc",
		"foobar",
		"logout",
		"exit",
		"notices",
	}, "\n")

	exec := &fakeExec{staff: true}
	runREPL(context.Background(), exec, func() string { return "status" }, bufio.NewReader(strings.NewReader(input)))

	assert.Equal(t, []string{
		"login",
		"notices sports day",
		"fees",
		"collect s9 500 upi",
		"upload doc",
		"logout",
	}, exec.calls)

	assert.Contains(t, *out, "Please login first")
	assert.Contains(t, *out, helpGuest)
	assert.Contains(t, *out, helpStaff)
	assert.Contains(t, *out, "Unknown command: foobar")
	assert.Equal(t, "Bye!", (*out)[len(*out)-1])
	assert.Equal(t, "dps status> ", (*out)[0])
}

func TestRunREPL_EOFWithoutNewline(t *testing.T) {
	capturePrint(t)
	exec := &fakeExec{loggedIn: true}
	runREPL(context.Background(), exec, func() string { return "" }, bufio.NewReader(strings.NewReader("leaves pending")))
	assert.Equal(t, []string{"leaves pending"}, exec.calls)
}

func TestRunREPL_ReportsErrors(t *testing.T) {
	out := capturePrint(t)
	exec := &fakeExec{loggedIn: true, err: fmt.Errorf("wrap: %w", mutation.ErrInFlight)}

	runREPL(context.Background(), exec, func() string { return "" }, bufio.NewReader(strings.NewReader("approve 4\n")))
	assert.Contains(t, *out, "Error: That record is already being updated, please wait")
}

func TestMessage(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{services.ErrForbidden, "This action is only available to staff"},
		{errBadCredentials, "Invalid username or password"},
		{usage("approve <id>"), "usage: approve <id>"},
		{fmt.Errorf("%w: title is required", services.ErrInvalidInput), "invalid input: title is required"},
		{errors.New("plain"), "plain"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, message(tt.err))
	}
}
