package http

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/himapp/pos/internal/analytics/usecase/query"
	"github.com/himapp/pos/pkg/logger"
)

// Guard gates a handler on the session state
type Guard func(http.HandlerFunc) http.HandlerFunc

// AnalyticsHandler handles HTTP requests for the sales chart data
type AnalyticsHandler struct {
	salesDataHandler *query.GetSalesDataHandler

	requestCounter *prometheus.CounterVec
	requestLatency *prometheus.HistogramVec
}

// NewAnalyticsHandler creates a new analytics handler
func NewAnalyticsHandler() *AnalyticsHandler {
	requestCounter := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "analytics_service_requests_total",
			Help: "Total number of requests to analytics endpoints",
		},
		[]string{"method", "endpoint", "status"},
	)

	requestLatency := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "analytics_service_request_duration_seconds",
			Help:    "Duration of analytics endpoint requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "endpoint"},
	)

	prometheus.MustRegister(requestCounter)
	prometheus.MustRegister(requestLatency)

	return &AnalyticsHandler{
		salesDataHandler: query.NewGetSalesDataHandler(),
		requestCounter:   requestCounter,
		requestLatency:   requestLatency,
	}
}

type Response struct {
	Success bool        `json:"success"`
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

func (h *AnalyticsHandler) metricsMiddleware(endpoint string, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next.ServeHTTP(rw, r)

		duration := time.Since(start).Seconds()
		h.requestCounter.WithLabelValues(r.Method, endpoint, strconv.Itoa(rw.statusCode)).Inc()
		h.requestLatency.WithLabelValues(r.Method, endpoint).Observe(duration)
	}
}

// RegisterRoutes registers the analytics routes behind the session guard
func (h *AnalyticsHandler) RegisterRoutes(router *mux.Router, guard Guard) {
	router.HandleFunc("/api/analytics/sales", h.metricsMiddleware("/api/analytics/sales", guard(h.GetSalesData))).Methods("GET")
}

// GetSalesData handles GET /api/analytics/sales. The response is the ordered
// label/value list the chart collaborator consumes.
func (h *AnalyticsHandler) GetSalesData(w http.ResponseWriter, r *http.Request) {
	data, err := h.salesDataHandler.Handle(r.Context(), query.GetSalesDataQuery{})
	if err != nil {
		logger.Logger.Error().Err(err).Msg("Failed to get sales data")
		respondJSON(w, http.StatusInternalServerError, Response{
			Success: false,
			Error:   "Failed to get sales data",
		})
		return
	}

	respondJSON(w, http.StatusOK, Response{
		Success: true,
		Data:    data,
	})
}

// respondJSON sends a JSON response
func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}
