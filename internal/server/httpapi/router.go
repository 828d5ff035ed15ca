package httpapi

import (
	"net/http"

	"github.com/gorilla/mux"
)

// NewRouter mounts every route behind the session middleware.
func (a *API) NewRouter() *mux.Router {
	r := mux.NewRouter()
	r.Use(a.sessionMiddleware)

	r.HandleFunc("/health", a.handleHealth).Methods(http.MethodGet)

	api := r.PathPrefix("/api").Subrouter()

	api.HandleFunc("/login", a.handleLogin).Methods(http.MethodPost)
	api.HandleFunc("/logout", a.handleLogout).Methods(http.MethodPost)
	api.HandleFunc("/register", a.handleRegister).Methods(http.MethodPost)

	api.HandleFunc("/users", a.handleUserList).Methods(http.MethodGet)
	api.HandleFunc("/users/{id}", a.handleUserUpdate).Methods(http.MethodPut)
	api.HandleFunc("/users/{id}", a.handleUserDelete).Methods(http.MethodDelete)

	api.HandleFunc("/facilities", a.handleFacilityList).Methods(http.MethodGet)
	api.HandleFunc("/facilities", a.handleFacilityCreate).Methods(http.MethodPost)
	api.HandleFunc("/facilities/{id}", a.handleFacilityUpdate).Methods(http.MethodPut)
	api.HandleFunc("/facilities/{id}", a.handleFacilityDelete).Methods(http.MethodDelete)

	api.HandleFunc("/events", a.handleEventList).Methods(http.MethodGet)
	api.HandleFunc("/events", a.handleEventCreate).Methods(http.MethodPost)
	api.HandleFunc("/events/upcoming", a.handleEventUpcoming).Methods(http.MethodGet)
	api.HandleFunc("/events/{id}", a.handleEventUpdate).Methods(http.MethodPut)
	api.HandleFunc("/events/{id}", a.handleEventDelete).Methods(http.MethodDelete)
	api.HandleFunc("/events/{id}/complete", a.handleEventComplete).Methods(http.MethodPost)

	api.HandleFunc("/dashboard", a.handleDashboard).Methods(http.MethodGet)

	api.HandleFunc("/attachments/upload-url", a.handleAttachmentUploadURL).Methods(http.MethodPost)
	api.HandleFunc("/attachments/download-url", a.handleAttachmentDownloadURL).Methods(http.MethodGet)

	return r
}
