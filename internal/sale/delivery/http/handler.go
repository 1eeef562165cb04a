package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"

	productdomain "github.com/himapp/pos/internal/product/domain"
	"github.com/himapp/pos/internal/sale/domain"
	"github.com/himapp/pos/internal/sale/repository"
	"github.com/himapp/pos/internal/sale/usecase/command"
	userhttp "github.com/himapp/pos/internal/user/delivery/http"
	"github.com/himapp/pos/pkg/logger"
)

// Guard gates a handler on the session state
type Guard func(http.HandlerFunc) http.HandlerFunc

// SaleHandler handles HTTP requests for the sale workflow
type SaleHandler struct {
	products productdomain.ProductRepository
	carts    *repository.CartStore
	checkout *command.ProcessSaleHandler

	requestCounter *prometheus.CounterVec
	requestLatency *prometheus.HistogramVec
	salesTotal     prometheus.Counter
}

// NewSaleHandler creates a new sale handler
func NewSaleHandler(products productdomain.ProductRepository, carts *repository.CartStore, checkout *command.ProcessSaleHandler) *SaleHandler {
	requestCounter := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sale_service_requests_total",
			Help: "Total number of requests to sale endpoints",
		},
		[]string{"method", "endpoint", "status"},
	)

	requestLatency := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "sale_service_request_duration_seconds",
			Help:    "Duration of sale endpoint requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "endpoint"},
	)

	salesTotal := prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "sale_service_sales_total",
			Help: "Total number of committed sales",
		},
	)

	prometheus.MustRegister(requestCounter)
	prometheus.MustRegister(requestLatency)
	prometheus.MustRegister(salesTotal)

	return &SaleHandler{
		products:       products,
		carts:          carts,
		checkout:       checkout,
		requestCounter: requestCounter,
		requestLatency: requestLatency,
		salesTotal:     salesTotal,
	}
}

type Response struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// cartView is the cart payload with both currency totals
type cartView struct {
	Items    []domain.CartItem `json:"items"`
	TotalDKK string            `json:"total_dkk"`
	TotalEUR string            `json:"total_eur"`
}

func newCartView(cart *domain.Cart) cartView {
	return cartView{
		Items:    cart.Items(),
		TotalDKK: cart.Total().StringFixed(2),
		TotalEUR: cart.TotalEUR().StringFixed(2),
	}
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
func (h *SaleHandler) metricsMiddleware(endpoint string, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next.ServeHTTP(rw, r)

		duration := time.Since(start).Seconds()
		h.requestCounter.WithLabelValues(r.Method, endpoint, strconv.Itoa(rw.statusCode)).Inc()
		h.requestLatency.WithLabelValues(r.Method, endpoint).Observe(duration)
	}
}

// RegisterRoutes registers all sale routes behind the session guard
func (h *SaleHandler) RegisterRoutes(router *mux.Router, guard Guard) {
	router.HandleFunc("/api/sale/cart", h.metricsMiddleware("/api/sale/cart", guard(h.GetCart))).Methods("GET")
	router.HandleFunc("/api/sale/cart/items", h.metricsMiddleware("/api/sale/cart/items", guard(h.AddToCart))).Methods("POST")
	router.HandleFunc("/api/sale/cart/items/{id}", h.metricsMiddleware("/api/sale/cart/items/{id}", guard(h.UpdateQuantity))).Methods("PUT")
	router.HandleFunc("/api/sale/cart/items/{id}", h.metricsMiddleware("/api/sale/cart/items/{id}", guard(h.RemoveFromCart))).Methods("DELETE")
	router.HandleFunc("/api/sale/checkout", h.metricsMiddleware("/api/sale/checkout", guard(h.ProcessSale))).Methods("POST")
}

func (h *SaleHandler) owner(r *http.Request) (string, bool) {
	return userhttp.UsernameFromContext(r.Context())
}

// GetCart handles GET /api/sale/cart
func (h *SaleHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	owner, ok := h.owner(r)
	if !ok {
		respondJSON(w, http.StatusUnauthorized, Response{Success: false, Error: "Not logged in"})
		return
	}

	respondJSON(w, http.StatusOK, Response{
		Success: true,
		Data:    newCartView(h.carts.Get(owner)),
	})
}

// AddToCart handles POST /api/sale/cart/items. Adding an id already in the
// cart increments its quantity; stock is not checked here (checkout is).
func (h *SaleHandler) AddToCart(w http.ResponseWriter, r *http.Request) {
	owner, ok := h.owner(r)
	if !ok {
		respondJSON(w, http.StatusUnauthorized, Response{Success: false, Error: "Not logged in"})
		return
	}

	var req struct {
		ProductID string `json:"product_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.ProductID == "" {
		respondJSON(w, http.StatusBadRequest, Response{
			Success: false,
			Error:   "Invalid request body",
		})
		return
	}

	product, err := h.products.FindByID(r.Context(), req.ProductID)
	if errors.Is(err, productdomain.ErrProductNotFound) {
		respondJSON(w, http.StatusNotFound, Response{
			Success: false,
			Error:   "Product not found",
		})
		return
	}
	if err != nil {
		logger.Logger.Error().Err(err).Msg("Failed to load product")
		respondJSON(w, http.StatusInternalServerError, Response{
			Success: false,
			Error:   "Failed to load product",
		})
		return
	}

	cart := h.carts.Get(owner)
	cart.AddItem(*product)

	respondJSON(w, http.StatusOK, Response{
		Success: true,
		Message: "Added to cart",
		Data:    newCartView(cart),
	})
}

// UpdateQuantity handles PUT /api/sale/cart/items/{id}
func (h *SaleHandler) UpdateQuantity(w http.ResponseWriter, r *http.Request) {
	owner, ok := h.owner(r)
	if !ok {
		respondJSON(w, http.StatusUnauthorized, Response{Success: false, Error: "Not logged in"})
		return
	}

	var req struct {
		Quantity int `json:"quantity"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSON(w, http.StatusBadRequest, Response{
			Success: false,
			Error:   "Invalid request body",
		})
		return
	}
	if req.Quantity < 1 {
		respondJSON(w, http.StatusBadRequest, Response{
			Success: false,
			Error:   "Quantity must be at least 1",
		})
		return
	}

	cart := h.carts.Get(owner)
	if !cart.UpdateQuantity(mux.Vars(r)["id"], req.Quantity) {
		respondJSON(w, http.StatusNotFound, Response{
			Success: false,
			Error:   "Product not in cart",
		})
		return
	}

	respondJSON(w, http.StatusOK, Response{
		Success: true,
		Data:    newCartView(cart),
	})
}

// RemoveFromCart handles DELETE /api/sale/cart/items/{id}
func (h *SaleHandler) RemoveFromCart(w http.ResponseWriter, r *http.Request) {
	owner, ok := h.owner(r)
	if !ok {
		respondJSON(w, http.StatusUnauthorized, Response{Success: false, Error: "Not logged in"})
		return
	}

	cart := h.carts.Get(owner)
	cart.RemoveItem(mux.Vars(r)["id"])

	respondJSON(w, http.StatusOK, Response{
		Success: true,
		Data:    newCartView(cart),
	})
}

// ProcessSale handles POST /api/sale/checkout
func (h *SaleHandler) ProcessSale(w http.ResponseWriter, r *http.Request) {
	owner, ok := h.owner(r)
	if !ok {
		respondJSON(w, http.StatusUnauthorized, Response{Success: false, Error: "Not logged in"})
		return
	}

	receipt, err := h.checkout.Handle(r.Context(), command.ProcessSaleCommand{Username: owner})
	if errors.Is(err, command.ErrEmptyCart) {
		respondJSON(w, http.StatusBadRequest, Response{
			Success: false,
			Error:   "Cart is empty",
		})
		return
	}
	if errors.Is(err, command.ErrInsufficientStock) || errors.Is(err, productdomain.ErrProductNotFound) {
		respondJSON(w, http.StatusConflict, Response{
			Success: false,
			Error:   err.Error(),
		})
		return
	}
	if err != nil {
		logger.Logger.Error().Err(err).Msg("Failed to process sale")
		respondJSON(w, http.StatusInternalServerError, Response{
			Success: false,
			Error:   "Failed to process sale",
		})
		return
	}

	h.salesTotal.Inc()

	respondJSON(w, http.StatusOK, Response{
		Success: true,
		Message: "Sale processed successfully",
		Data: map[string]interface{}{
			"lines":     receipt.Lines,
			"total_dkk": receipt.TotalDKK.StringFixed(2),
			"total_eur": receipt.TotalEUR.StringFixed(2),
		},
	})
}

// respondJSON sends a JSON response
func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}
