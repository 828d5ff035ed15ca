package cli

import (
	"bufio"
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

type stubExec struct {
	loggedIn bool
	calls    []string
}

func (s *stubExec) isLoggedIn() bool { return s.loggedIn }

func (s *stubExec) record(name string) error {
	s.calls = append(s.calls, name)
	return nil
}

func (s *stubExec) Login(ctx context.Context) error      { return s.record("login") }
func (s *stubExec) Logout(ctx context.Context) error     { return s.record("logout") }
func (s *stubExec) Users(ctx context.Context) error      { return s.record("users") }
func (s *stubExec) Facilities(ctx context.Context) error { return s.record("facilities") }
func (s *stubExec) Events(ctx context.Context) error     { return s.record("events") }
func (s *stubExec) Dashboard(ctx context.Context) error  { return s.record("dashboard") }

func captureOutput(t *testing.T) *[]string {
	t.Helper()
	orig := printlnFn
	t.Cleanup(func() { printlnFn = orig })

	var lines []string
	printlnFn = func(a ...any) (int, error) {
		lines = append(lines, fmt.Sprint(a...))
		return 0, nil
	}
	return &lines
}

func runScript(t *testing.T, exec *stubExec, script string) {
	t.Helper()
	scanner := bufio.NewScanner(strings.NewReader(script))
	runREPL(context.Background(), exec, func() string { return "test" }, scanner)
}

func TestREPL_DispatchesCommands(t *testing.T) {
	captureOutput(t)
	exec := &stubExec{loggedIn: true}

	runScript(t, exec, "users\nfacilities\nevents\ndashboard\nlogout\nexit\n")

	assert.Equal(t, []string{"users", "facilities", "events", "dashboard", "logout"}, exec.calls)
}

func TestREPL_ShortAliases(t *testing.T) {
	captureOutput(t)
	exec := &stubExec{loggedIn: true}

	runScript(t, exec, "u\nf\ne\nd\nexit\n")

	assert.Equal(t, []string{"users", "facilities", "events", "dashboard"}, exec.calls)
}

func TestREPL_UnknownCommand(t *testing.T) {
	lines := captureOutput(t)
	exec := &stubExec{}

	runScript(t, exec, "frobnicate\nexit\n")

	assert.Empty(t, exec.calls)
	joined := strings.Join(*lines, "\n")
	assert.Contains(t, joined, "Unknown command:frobnicate")
}

func TestREPL_HelpDependsOnLoginState(t *testing.T) {
	lines := captureOutput(t)

	runScript(t, &stubExec{loggedIn: false}, "help\nexit\n")
	assert.Contains(t, strings.Join(*lines, "\n"), "login, exit")

	*lines = (*lines)[:0]
	runScript(t, &stubExec{loggedIn: true}, "help\nexit\n")
	assert.Contains(t, strings.Join(*lines, "\n"), "users, facilities, events, dashboard")
}

func TestREPL_ExitsOnEOF(t *testing.T) {
	captureOutput(t)
	exec := &stubExec{}

	// No exit command; the loop must end when input is exhausted.
	runScript(t, exec, "users\n")

	assert.Equal(t, []string{"users"}, exec.calls)
}
