package httpapi

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/gmpi-project/gmpi/internal/common"
	"github.com/gmpi-project/gmpi/internal/logging"
	"github.com/gmpi-project/gmpi/internal/server/auth"
	"github.com/gmpi-project/gmpi/internal/server/models"
	"github.com/gmpi-project/gmpi/internal/server/services"
)

// defaultTokenValidity bounds the bearer token itself. The sliding session
// on the server is the authoritative expiry; the token outliving it only
// yields ErrInvalidSession on use.
const defaultTokenValidity = 24 * time.Hour

var (
	generateToken      = auth.GenerateToken
	sessionIDFromToken = auth.SessionIDFromToken
)

// API bundles the services behind the HTTP handlers.
type API struct {
	auth        *services.AuthService
	users       *services.UserService
	calendar    *services.CalendarService
	facilities  *services.FacilityService
	dashboard   *services.DashboardService
	attachments *services.AttachmentService

	secret        []byte
	tokenValidity time.Duration
	logger        logging.Logger
}

func NewAPI(authSvc *services.AuthService, users *services.UserService, calendar *services.CalendarService,
	facilities *services.FacilityService, dashboard *services.DashboardService,
	attachments *services.AttachmentService, secret []byte, logger logging.Logger) *API {
	return &API{
		auth:          authSvc,
		users:         users,
		calendar:      calendar,
		facilities:    facilities,
		dashboard:     dashboard,
		attachments:   attachments,
		secret:        secret,
		tokenValidity: defaultTokenValidity,
		logger:        logger,
	}
}

func decode(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return fmt.Errorf("malformed request body: %w", common.ErrValidation)
	}
	return nil
}

func (a *API) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeOK(w, "ok", nil)
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token     string             `json:"token"`
	User      models.SessionUser `json:"user"`
	ExpiresAt time.Time          `json:"expires_at"`
}

func (a *API) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decode(r, &req); err != nil {
		writeError(w, err)
		return
	}

	session, err := a.auth.Authenticate(r.Context(), req.Email, req.Password)
	if err != nil {
		writeError(w, err)
		return
	}

	token, err := generateToken(session.ID, a.secret, a.tokenValidity)
	if err != nil {
		writeError(w, common.ErrInternal)
		return
	}

	writeOK(w, "authenticated", loginResponse{
		Token:     token,
		User:      session.User,
		ExpiresAt: session.ExpiresAt,
	})
}

func (a *API) handleLogout(w http.ResponseWriter, r *http.Request) {
	if a.auth.Logout(r.Context(), sessionID(r)) {
		writeOK(w, "session closed", nil)
		return
	}
	writeError(w, common.ErrInvalidSession)
}

type registerRequest struct {
	Email    string      `json:"email"`
	Password string      `json:"password"`
	Name     string      `json:"name"`
	Role     models.Role `json:"role"`
}

func (a *API) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := decode(r, &req); err != nil {
		writeError(w, err)
		return
	}

	pub, err := a.auth.Register(r.Context(), services.RegisterRequest{
		Email:    req.Email,
		Password: req.Password,
		Name:     req.Name,
		Role:     req.Role,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	writeOK(w, "user registered", pub)
}

func (a *API) handleUserList(w http.ResponseWriter, r *http.Request) {
	list, err := a.users.List(r.Context(), sessionID(r))
	if err != nil {
		writeError(w, err)
		return
	}
	writeOK(w, "users", list)
}

type userPatchRequest struct {
	Name   string      `json:"name"`
	Role   models.Role `json:"role"`
	Active *bool       `json:"active"`
}

func (a *API) handleUserUpdate(w http.ResponseWriter, r *http.Request) {
	var req userPatchRequest
	if err := decode(r, &req); err != nil {
		writeError(w, err)
		return
	}

	err := a.users.Update(r.Context(), sessionID(r), mux.Vars(r)["id"], services.UserPatch{
		Name:   req.Name,
		Role:   req.Role,
		Active: req.Active,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeOK(w, "user updated", nil)
}

func (a *API) handleUserDelete(w http.ResponseWriter, r *http.Request) {
	if err := a.users.Delete(r.Context(), sessionID(r), mux.Vars(r)["id"]); err != nil {
		writeError(w, err)
		return
	}
	writeOK(w, "user deleted", nil)
}

type facilityRequest struct {
	Name            string                `json:"name"`
	Type            string                `json:"type"`
	Location        string                `json:"location"`
	Status          models.FacilityStatus `json:"status"`
	LastMaintenance time.Time             `json:"last_maintenance"`
	NextMaintenance time.Time             `json:"next_maintenance"`
}

func (a *API) handleFacilityCreate(w http.ResponseWriter, r *http.Request) {
	var req facilityRequest
	if err := decode(r, &req); err != nil {
		writeError(w, err)
		return
	}

	facility, err := a.facilities.Create(r.Context(), sessionID(r), services.CreateFacilityRequest{
		Name:            req.Name,
		Type:            req.Type,
		Location:        req.Location,
		Status:          req.Status,
		LastMaintenance: req.LastMaintenance,
		NextMaintenance: req.NextMaintenance,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeOK(w, "facility created", facility)
}

func (a *API) handleFacilityList(w http.ResponseWriter, r *http.Request) {
	list, err := a.facilities.List(r.Context(), sessionID(r))
	if err != nil {
		writeError(w, err)
		return
	}
	writeOK(w, "facilities", list)
}

type facilityPatchRequest struct {
	Name            *string                `json:"name"`
	Type            *string                `json:"type"`
	Location        *string                `json:"location"`
	Status          *models.FacilityStatus `json:"status"`
	LastMaintenance *time.Time             `json:"last_maintenance"`
	NextMaintenance *time.Time             `json:"next_maintenance"`
}

func (a *API) handleFacilityUpdate(w http.ResponseWriter, r *http.Request) {
	var req facilityPatchRequest
	if err := decode(r, &req); err != nil {
		writeError(w, err)
		return
	}

	facility, err := a.facilities.Update(r.Context(), sessionID(r), mux.Vars(r)["id"], services.FacilityUpdate{
		Name:            req.Name,
		Type:            req.Type,
		Location:        req.Location,
		Status:          req.Status,
		LastMaintenance: req.LastMaintenance,
		NextMaintenance: req.NextMaintenance,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeOK(w, "facility updated", facility)
}

func (a *API) handleFacilityDelete(w http.ResponseWriter, r *http.Request) {
	if err := a.facilities.Delete(r.Context(), sessionID(r), mux.Vars(r)["id"]); err != nil {
		writeError(w, err)
		return
	}
	writeOK(w, "facility deleted", nil)
}

type eventRequest struct {
	Title       string               `json:"title"`
	Description string               `json:"description"`
	Date        time.Time            `json:"date"`
	Time        string               `json:"time"`
	Facility    string               `json:"facility"`
	Type        string               `json:"type"`
	AssignedTo  string               `json:"assigned_to"`
	Priority    models.EventPriority `json:"priority"`
}

func (a *API) handleEventCreate(w http.ResponseWriter, r *http.Request) {
	var req eventRequest
	if err := decode(r, &req); err != nil {
		writeError(w, err)
		return
	}

	event, err := a.calendar.Create(r.Context(), sessionID(r), services.CreateEventRequest{
		Title:       req.Title,
		Description: req.Description,
		Date:        req.Date,
		Time:        req.Time,
		Facility:    req.Facility,
		Type:        req.Type,
		AssignedTo:  req.AssignedTo,
		Priority:    req.Priority,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeOK(w, "event created", event)
}

func (a *API) handleEventList(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	month, _ := strconv.Atoi(q.Get("month"))
	year, _ := strconv.Atoi(q.Get("year"))

	list, err := a.calendar.List(r.Context(), sessionID(r), services.EventFilter{
		Month:    month,
		Year:     year,
		Facility: q.Get("facility"),
		Status:   models.EventStatus(q.Get("status")),
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeOK(w, "events", list)
}

type eventPatchRequest struct {
	Title       *string               `json:"title"`
	Description *string               `json:"description"`
	Date        *time.Time            `json:"date"`
	Time        *string               `json:"time"`
	Facility    *string               `json:"facility"`
	AssignedTo  *string               `json:"assigned_to"`
	Priority    *models.EventPriority `json:"priority"`
	Status      *models.EventStatus   `json:"status"`
}

func (a *API) handleEventUpdate(w http.ResponseWriter, r *http.Request) {
	var req eventPatchRequest
	if err := decode(r, &req); err != nil {
		writeError(w, err)
		return
	}

	event, err := a.calendar.Update(r.Context(), sessionID(r), mux.Vars(r)["id"], services.EventUpdate{
		Title:       req.Title,
		Description: req.Description,
		Date:        req.Date,
		Time:        req.Time,
		Facility:    req.Facility,
		AssignedTo:  req.AssignedTo,
		Priority:    req.Priority,
		Status:      req.Status,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeOK(w, "event updated", event)
}

func (a *API) handleEventDelete(w http.ResponseWriter, r *http.Request) {
	if err := a.calendar.Delete(r.Context(), sessionID(r), mux.Vars(r)["id"]); err != nil {
		writeError(w, err)
		return
	}
	writeOK(w, "event deleted", nil)
}

func (a *API) handleEventComplete(w http.ResponseWriter, r *http.Request) {
	event, err := a.calendar.Complete(r.Context(), sessionID(r), mux.Vars(r)["id"])
	if err != nil {
		writeError(w, err)
		return
	}
	writeOK(w, "event completed", event)
}

func (a *API) handleEventUpcoming(w http.ResponseWriter, r *http.Request) {
	days, _ := strconv.Atoi(r.URL.Query().Get("days"))

	list, err := a.calendar.Upcoming(r.Context(), sessionID(r), days)
	if err != nil {
		writeError(w, err)
		return
	}
	writeOK(w, "upcoming events", list)
}

func (a *API) handleDashboard(w http.ResponseWriter, r *http.Request) {
	summary, err := a.dashboard.Summary(r.Context(), sessionID(r))
	if err != nil {
		writeError(w, err)
		return
	}
	writeOK(w, "dashboard", summary)
}

type uploadURLResponse struct {
	Key string `json:"key"`
	URL string `json:"url"`
}

func (a *API) handleAttachmentUploadURL(w http.ResponseWriter, r *http.Request) {
	key, url, err := a.attachments.GetPresignedPutUrl(r.Context(), sessionID(r))
	if err != nil {
		writeError(w, err)
		return
	}
	writeOK(w, "upload url", uploadURLResponse{Key: key, URL: url})
}

func (a *API) handleAttachmentDownloadURL(w http.ResponseWriter, r *http.Request) {
	key := r.URL.Query().Get("key")
	if key == "" {
		writeError(w, fmt.Errorf("key is required: %w", common.ErrValidation))
		return
	}

	url, err := a.attachments.GetPresignedGetUrl(r.Context(), sessionID(r), key)
	if err != nil {
		writeError(w, err)
		return
	}
	writeOK(w, "download url", uploadURLResponse{Key: key, URL: url})
}
