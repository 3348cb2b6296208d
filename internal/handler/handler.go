package handler

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/Dan9191/bank-insights/internal/service"
	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
)

const maxBodyBytes = 10 << 20

type Handler struct {
	svc *service.Service
	log *logrus.Logger
}

func NewHandler(svc *service.Service, log *logrus.Logger) *Handler {
	return &Handler{svc: svc, log: log}
}

// RegisterRoutes mounts public routes on r and protects the rest with auth
func (h *Handler) RegisterRoutes(r *mux.Router, auth mux.MiddlewareFunc) {
	// Public routes
	r.HandleFunc("/register", h.Register).Methods(http.MethodPost)
	r.HandleFunc("/login", h.Login).Methods(http.MethodPost)
	r.HandleFunc("/health", h.Health).Methods(http.MethodGet)

	// Protected routes
	protected := r.NewRoute().Subrouter()
	protected.Use(auth)
	protected.HandleFunc("/accounts", h.CreateAccount).Methods(http.MethodPost)

	api := protected.PathPrefix("/api/analytics").Subrouter()
	api.HandleFunc("/insights", h.Insights).Methods(http.MethodGet)
	api.HandleFunc("/spending", h.Spending).Methods(http.MethodGet)
	api.HandleFunc("/anomalies", h.Anomalies).Methods(http.MethodGet)
	api.HandleFunc("/forecast", h.Forecast).Methods(http.MethodGet)
	api.HandleFunc("/overdraft-risk", h.OverdraftRisk).Methods(http.MethodGet)
	api.HandleFunc("/categorize", h.Categorize).Methods(http.MethodPost)
	api.HandleFunc("/segments", h.Segments).Methods(http.MethodPost)
}

// Health reports liveness
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

type registerRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Register handles user registration
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if !h.decodeJSON(w, r, &req) {
		return
	}

	user, err := h.svc.Register(r.Context(), req.Username, req.Email, req.Password)
	if err != nil {
		h.fail(w, "Registration", err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"status": "success", "user": user})
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login handles user authentication
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if !h.decodeJSON(w, r, &req) {
		return
	}

	token, err := h.svc.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		h.fail(w, "Login", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "success", "token": token})
}

type createAccountRequest struct {
	Currency string `json:"currency"`
}

// CreateAccount handles account creation
func (h *Handler) CreateAccount(w http.ResponseWriter, r *http.Request) {
	var req createAccountRequest
	if !h.decodeJSON(w, r, &req) {
		return
	}

	account, err := h.svc.CreateAccount(r.Context(), req.Currency)
	if err != nil {
		h.fail(w, "Account creation", err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"status": "success", "account": account})
}

// decodeJSON reads a JSON body into v and writes a 400 on failure.
// An empty body leaves v at its zero value.
func (h *Handler) decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil && !errors.Is(err, io.EOF) {
		writeError(w, http.StatusBadRequest, "Invalid JSON")
		return false
	}
	return true
}

// fail maps service errors to HTTP statuses and logs unexpected ones
func (h *Handler) fail(w http.ResponseWriter, op string, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidInput), errors.Is(err, service.ErrNoTransactions):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrInvalidCredentials), errors.Is(err, service.ErrUserIDMissing):
		writeError(w, http.StatusUnauthorized, err.Error())
	default:
		h.log.Errorf("%s error: %v", op, err)
		writeError(w, http.StatusInternalServerError, "internal server error")
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
