// Package cli implements the interactive admin client: a small REPL
// speaking the server's HTTP/JSON envelope protocol.
package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// envelope mirrors the server's uniform response shape.
type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

// Client is a thin HTTP wrapper holding the bearer token after login.
type Client struct {
	baseURL string
	httpc   *http.Client
	token   string
}

func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		httpc:   &http.Client{Timeout: 10 * time.Second},
	}
}

// do sends one request and decodes the envelope. A response with
// success=false becomes an error carrying the server's message.
func (c *Client) do(ctx context.Context, method, path string, body any, out any) error {
	var reader *bytes.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(b)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpc.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return fmt.Errorf("malformed server response: %w", err)
	}
	if !env.Success {
		return fmt.Errorf("server: %s", env.Message)
	}
	if out != nil && env.Data != nil {
		if err := json.Unmarshal(env.Data, out); err != nil {
			return fmt.Errorf("malformed server payload: %w", err)
		}
	}
	return nil
}

type sessionUser struct {
	Email       string   `json:"email"`
	Name        string   `json:"name"`
	Role        string   `json:"role"`
	Permissions []string `json:"permissions"`
}

type loginPayload struct {
	Token string      `json:"token"`
	User  sessionUser `json:"user"`
}

// Login authenticates and stores the bearer token for later calls.
func (c *Client) Login(ctx context.Context, email, password string) (*sessionUser, error) {
	var payload loginPayload
	err := c.do(ctx, http.MethodPost, "/api/login", map[string]string{
		"email":    email,
		"password": password,
	}, &payload)
	if err != nil {
		return nil, err
	}
	c.token = payload.Token
	return &payload.User, nil
}

// Logout closes the server-side session and drops the token.
func (c *Client) Logout(ctx context.Context) error {
	err := c.do(ctx, http.MethodPost, "/api/logout", nil, nil)
	c.token = ""
	return err
}

type userRecord struct {
	ID     string `json:"id"`
	Email  string `json:"email"`
	Name   string `json:"name"`
	Role   string `json:"role"`
	Active bool   `json:"active"`
}

func (c *Client) Users(ctx context.Context) ([]userRecord, error) {
	var list []userRecord
	if err := c.do(ctx, http.MethodGet, "/api/users", nil, &list); err != nil {
		return nil, err
	}
	return list, nil
}

type facilityRecord struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Type     string `json:"type"`
	Location string `json:"location"`
	Status   string `json:"status"`
}

func (c *Client) Facilities(ctx context.Context) ([]facilityRecord, error) {
	var list []facilityRecord
	if err := c.do(ctx, http.MethodGet, "/api/facilities", nil, &list); err != nil {
		return nil, err
	}
	return list, nil
}

type eventRecord struct {
	ID       string    `json:"id"`
	Title    string    `json:"title"`
	Date     time.Time `json:"date"`
	Time     string    `json:"time"`
	Facility string    `json:"facility"`
	Status   string    `json:"status"`
	Priority string    `json:"priority"`
}

func (c *Client) Events(ctx context.Context) ([]eventRecord, error) {
	var list []eventRecord
	if err := c.do(ctx, http.MethodGet, "/api/events", nil, &list); err != nil {
		return nil, err
	}
	return list, nil
}

type dashboardSummary struct {
	TotalFacilities     int           `json:"total_facilities"`
	ActiveFacilities    int           `json:"active_facilities"`
	MaintenanceRequired int           `json:"maintenance_required"`
	InactiveFacilities  int           `json:"inactive_facilities"`
	UpcomingMaintenance []eventRecord `json:"upcoming_maintenance"`
}

func (c *Client) Dashboard(ctx context.Context) (*dashboardSummary, error) {
	var summary dashboardSummary
	if err := c.do(ctx, http.MethodGet, "/api/dashboard", nil, &summary); err != nil {
		return nil, err
	}
	return &summary, nil
}
