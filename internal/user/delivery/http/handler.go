package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/himapp/pos/internal/user/domain"
	"github.com/himapp/pos/internal/user/usecase/command"
	"github.com/himapp/pos/internal/user/usecase/query"
	"github.com/himapp/pos/pkg/logger"
)

// UserHandler handles HTTP requests for the session
type UserHandler struct {
	loginHandler   *command.LoginUserHandler
	logoutHandler  *command.LogoutUserHandler
	currentHandler *query.CurrentUserHandler

	requestCounter *prometheus.CounterVec
	requestLatency *prometheus.HistogramVec
	loginFailures  prometheus.Counter
}

// NewUserHandler creates a new user handler
func NewUserHandler(sessions domain.SessionRepository, verifier domain.CredentialVerifier) *UserHandler {
	requestCounter := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "user_service_requests_total",
			Help: "Total number of requests to the session endpoints",
		},
		[]string{"method", "endpoint", "status"},
	)

	requestLatency := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "user_service_request_duration_seconds",
			Help:    "Duration of session endpoint requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "endpoint"},
	)

	loginFailures := prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "user_service_login_failures_total",
			Help: "Total number of rejected login attempts",
		},
	)

	prometheus.MustRegister(requestCounter)
	prometheus.MustRegister(requestLatency)
	prometheus.MustRegister(loginFailures)

	return &UserHandler{
		loginHandler:   command.NewLoginUserHandler(sessions, verifier),
		logoutHandler:  command.NewLogoutUserHandler(sessions),
		currentHandler: query.NewCurrentUserHandler(sessions),
		requestCounter: requestCounter,
		requestLatency: requestLatency,
		loginFailures:  loginFailures,
	}
}

type Response struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// responseWriter wraps http.ResponseWriter to capture status code
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// metricsMiddleware wraps handlers with Prometheus metrics
func (h *UserHandler) metricsMiddleware(endpoint string, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next.ServeHTTP(rw, r)

		duration := time.Since(start).Seconds()
		h.requestCounter.WithLabelValues(r.Method, endpoint, strconv.Itoa(rw.statusCode)).Inc()
		h.requestLatency.WithLabelValues(r.Method, endpoint).Observe(duration)
	}
}

// RegisterRoutes registers the session routes; login and the session probe
// stay outside the guard.
func (h *UserHandler) RegisterRoutes(router *mux.Router, guard Guard) {
	router.HandleFunc("/auth/login", h.metricsMiddleware("/auth/login", h.Login)).Methods("POST")
	router.HandleFunc("/auth/me", h.metricsMiddleware("/auth/me", h.CurrentUser)).Methods("GET")
	router.HandleFunc("/auth/logout", h.metricsMiddleware("/auth/logout", guard(h.Logout))).Methods("POST")
}

// Login handles POST /auth/login
func (h *UserHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSON(w, http.StatusBadRequest, Response{
			Success: false,
			Error:   "Invalid request body",
		})
		return
	}

	cmd := command.LoginUserCommand{
		Username: req.Username,
		Password: req.Password,
	}

	resp, err := h.loginHandler.Handle(r.Context(), cmd)
	if errors.Is(err, domain.ErrInvalidCredentials) {
		h.loginFailures.Inc()
		logger.Logger.Warn().Str("username", req.Username).Msg("Login rejected")
		respondJSON(w, http.StatusUnauthorized, Response{
			Success: false,
			Error:   "Invalid credentials",
		})
		return
	}
	if err != nil {
		logger.Logger.Error().Err(err).Msg("Failed to login")
		respondJSON(w, http.StatusBadRequest, Response{
			Success: false,
			Error:   err.Error(),
		})
		return
	}

	respondJSON(w, http.StatusOK, Response{
		Success: true,
		Message: "Logged in successfully",
		Data:    resp,
	})
}

// Logout handles POST /auth/logout
func (h *UserHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.logoutHandler.Handle(r.Context(), command.LogoutUserCommand{}); err != nil {
		logger.Logger.Error().Err(err).Msg("Failed to logout")
		respondJSON(w, http.StatusInternalServerError, Response{
			Success: false,
			Error:   "Failed to logout",
		})
		return
	}

	respondJSON(w, http.StatusOK, Response{
		Success: true,
		Message: "Logged out successfully",
	})
}

// CurrentUser handles GET /auth/me
func (h *UserHandler) CurrentUser(w http.ResponseWriter, r *http.Request) {
	session, err := h.currentHandler.Handle(r.Context(), query.CurrentUserQuery{})
	if err != nil {
		logger.Logger.Error().Err(err).Msg("Failed to read session")
		respondJSON(w, http.StatusInternalServerError, Response{
			Success: false,
			Error:   "Failed to read session",
		})
		return
	}

	if !session.Authenticated() {
		respondJSON(w, http.StatusOK, Response{
			Success: true,
			Data:    nil,
		})
		return
	}

	respondJSON(w, http.StatusOK, Response{
		Success: true,
		Data:    session,
	})
}

// respondJSON sends a JSON response
func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}
