package cli

import (
	"bufio"
	"context"
	"fmt"
	"strings"
)

// printlnFn is a test seam for user-facing output.
var printlnFn = fmt.Println

// execIface is the minimal command surface the REPL dispatches to. The
// real App satisfies it; tests provide a stub.
type execIface interface {
	isLoggedIn() bool
	Login(ctx context.Context) error
	Logout(ctx context.Context) error
	Users(ctx context.Context) error
	Facilities(ctx context.Context) error
	Events(ctx context.Context) error
	Dashboard(ctx context.Context) error
}

// runREPL reads a line, takes the first token as the command and
// dispatches. Handler errors are already reported by the handlers; the
// loop stays alive until EOF or exit/quit.
func runREPL(ctx context.Context, a execIface, statusFn func() string, scanner *bufio.Scanner) {
	for {
		printlnFn(fmt.Sprintf("gmpi> %s > ", statusFn()))
		if !scanner.Scan() {
			return
		}

		parts := strings.Fields(scanner.Text())
		if len(parts) == 0 {
			continue
		}

		switch parts[0] {
		case "help":
			if a.isLoggedIn() {
				printlnFn("Available commands: users, facilities, events, dashboard, logout, exit")
			} else {
				printlnFn("Available commands: login, exit")
			}

		case "login":
			_ = a.Login(ctx)

		case "logout":
			_ = a.Logout(ctx)

		case "u", "users":
			_ = a.Users(ctx)

		case "f", "facilities":
			_ = a.Facilities(ctx)

		case "e", "events":
			_ = a.Events(ctx)

		case "d", "dashboard":
			_ = a.Dashboard(ctx)

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", parts[0])
		}
	}
}
