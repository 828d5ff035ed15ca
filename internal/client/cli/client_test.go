package cli

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func envelopeHandler(t *testing.T, check func(r *http.Request), env envelope) http.HandlerFunc {
	t.Helper()
	return func(w http.ResponseWriter, r *http.Request) {
		if check != nil {
			check(r)
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(env)
	}
}

func TestClientLogin_StoresToken(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/login", envelopeHandler(t, func(r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
	}, envelope{
		Success: true,
		Message: "authenticated",
		Data:    json.RawMessage(`{"token":"tok123","user":{"email":"vic@colegio.edu","name":"Vic","role":"authority"}}`),
	}))
	mux.HandleFunc("/api/users", envelopeHandler(t, func(r *http.Request) {
		assert.Equal(t, "Bearer tok123", r.Header.Get("Authorization"))
	}, envelope{
		Success: true,
		Data:    json.RawMessage(`[{"id":"1","email":"vic@colegio.edu","role":"authority","active":true}]`),
	}))

	srv := httptest.NewServer(mux)
	defer srv.Close()

	c := NewClient(srv.URL)

	user, err := c.Login(context.Background(), "vic@colegio.edu", "Vic1234567!")
	require.NoError(t, err)
	assert.Equal(t, "vic@colegio.edu", user.Email)

	users, err := c.Users(context.Background())
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, "authority", users[0].Role)
}

func TestClient_ServerFailureBecomesError(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/login", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_ = json.NewEncoder(w).Encode(envelope{Success: false, Message: "invalid credentials"})
	})

	srv := httptest.NewServer(mux)
	defer srv.Close()

	c := NewClient(srv.URL)

	_, err := c.Login(context.Background(), "x@x.edu", "bad")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid credentials")
	assert.Empty(t, c.token)
}

func TestClientLogout_DropsTokenEvenOnError(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/logout", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_ = json.NewEncoder(w).Encode(envelope{Success: false, Message: "invalid or expired session"})
	})

	srv := httptest.NewServer(mux)
	defer srv.Close()

	c := NewClient(srv.URL)
	c.token = "stale"

	err := c.Logout(context.Background())
	assert.Error(t, err)
	assert.Empty(t, c.token)
}

func TestClientDashboard(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/dashboard", envelopeHandler(t, nil, envelope{
		Success: true,
		Data:    json.RawMessage(`{"total_facilities":3,"active_facilities":1,"maintenance_required":1,"inactive_facilities":1,"upcoming_maintenance":[]}`),
	}))

	srv := httptest.NewServer(mux)
	defer srv.Close()

	c := NewClient(srv.URL)

	summary, err := c.Dashboard(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, summary.TotalFacilities)
	assert.Empty(t, summary.UpcomingMaintenance)
}
