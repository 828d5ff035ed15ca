package cli

import (
	"bufio"
	"context"
	"fmt"
	"os"
)

// getSimpleText and getPassword are indirections used to facilitate testing.
var getSimpleText = GetSimpleText
var getPassword = GetPassword

// App holds the client state for one interactive run.
type App struct {
	client    *Client
	reader    *bufio.Reader
	userEmail string
}

func NewApp(serverAddr string) *App {
	return &App{
		client: NewClient(serverAddr),
		reader: bufio.NewReader(os.Stdin),
	}
}

func (a *App) isLoggedIn() bool {
	return a.userEmail != ""
}

// Login prompts for credentials and authenticates against the server.
func (a *App) Login(ctx context.Context) error {
	email, err := getSimpleText(a.reader, "Enter email", os.Stdout)
	if err != nil {
		return err
	}

	password, err := getPassword(os.Stdout)
	if err != nil {
		return err
	}

	user, err := a.client.Login(ctx, email, string(password))
	if err != nil {
		printlnFn("Login failed:", err.Error())
		return err
	}

	a.userEmail = user.Email
	printlnFn(fmt.Sprintf("Welcome, %s (%s)", user.Name, user.Role))
	return nil
}

func (a *App) Logout(ctx context.Context) error {
	if err := a.client.Logout(ctx); err != nil {
		printlnFn("Logout failed:", err.Error())
		return err
	}
	a.userEmail = ""
	printlnFn("Logged out")
	return nil
}

func (a *App) Users(ctx context.Context) error {
	users, err := a.client.Users(ctx)
	if err != nil {
		printlnFn("Error:", err.Error())
		return err
	}

	for _, u := range users {
		state := "active"
		if !u.Active {
			state = "disabled"
		}
		printlnFn(fmt.Sprintf("%-40s %-25s %-15s %s", u.ID, u.Email, u.Role, state))
	}
	return nil
}

func (a *App) Facilities(ctx context.Context) error {
	facilities, err := a.client.Facilities(ctx)
	if err != nil {
		printlnFn("Error:", err.Error())
		return err
	}

	for _, f := range facilities {
		printlnFn(fmt.Sprintf("%-40s %-30s %-12s %s", f.ID, f.Name, f.Type, f.Status))
	}
	return nil
}

func (a *App) Events(ctx context.Context) error {
	events, err := a.client.Events(ctx)
	if err != nil {
		printlnFn("Error:", err.Error())
		return err
	}

	for _, e := range events {
		printlnFn(fmt.Sprintf("%s %s  %-30s %-20s %s",
			e.Date.Format("2006-01-02"), e.Time, e.Title, e.Facility, e.Status))
	}
	return nil
}

func (a *App) Dashboard(ctx context.Context) error {
	summary, err := a.client.Dashboard(ctx)
	if err != nil {
		printlnFn("Error:", err.Error())
		return err
	}

	printlnFn(fmt.Sprintf("Facilities: %d total, %d active, %d need maintenance, %d inactive",
		summary.TotalFacilities, summary.ActiveFacilities,
		summary.MaintenanceRequired, summary.InactiveFacilities))
	printlnFn(fmt.Sprintf("Upcoming maintenance (30 days): %d", len(summary.UpcomingMaintenance)))
	for _, e := range summary.UpcomingMaintenance {
		printlnFn(fmt.Sprintf("  %s  %s (%s)", e.Date.Format("2006-01-02"), e.Title, e.Facility))
	}
	return nil
}

// Run starts the REPL on stdin.
func (a *App) Run(ctx context.Context) {
	scanner := bufio.NewScanner(os.Stdin)
	runREPL(ctx, a, func() string {
		if a.isLoggedIn() {
			return a.userEmail
		}
		return "not logged in"
	}, scanner)
}
