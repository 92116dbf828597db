// Package server exposes the storefront core over a small JSON API so the
// demo can be driven and inspected remotely.
package server

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"runtime"
	"strconv"
	"strings"
	"time"

	"allyshop/internal/appstate"
	"allyshop/internal/catalog"
	"allyshop/internal/config"
	"allyshop/internal/middleware"
	"allyshop/internal/version"
)

// Server holds all dependencies for the HTTP server
type Server struct {
	cfg           *config.Config
	store         Storefront
	search        SearchRunner
	notifications NotificationFeed
	announcements AnnouncementFeed
	products      ProductSource
	report        func(any)
	mux           *http.ServeMux
	startTime     time.Time
}

// Deps are the collaborators the server drives.
type Deps struct {
	Store         Storefront
	Search        SearchRunner
	Notifications NotificationFeed
	Announcements AnnouncementFeed
	Products      ProductSource

	// Report receives recovered handler panics so the storefront can
	// surface them through its own feedback channels.
	Report func(any)
}

// New creates a new server instance
func New(cfg *config.Config, deps Deps) *Server {
	s := &Server{
		cfg:           cfg,
		store:         deps.Store,
		search:        deps.Search,
		notifications: deps.Notifications,
		announcements: deps.Announcements,
		products:      deps.Products,
		report:        deps.Report,
		mux:           http.NewServeMux(),
		startTime:     time.Now(),
	}

	s.setupRoutes()
	return s
}

// setupRoutes configures all HTTP routes
func (s *Server) setupRoutes() {
	s.mux.HandleFunc("/state", s.handleState)
	s.mux.HandleFunc("/cart", s.handleCart)
	s.mux.HandleFunc("/wishlist", s.handleWishlist)
	s.mux.HandleFunc("/restock", s.handleRestock)
	s.mux.HandleFunc("/login", s.handleLogin)
	s.mux.HandleFunc("/logout", s.handleLogout)
	s.mux.HandleFunc("/search", s.handleSearch)
	s.mux.HandleFunc("/products", s.handleProducts)
	s.mux.HandleFunc("/products/", s.handleProduct) // Per-product endpoint: /products/{id}
	s.mux.HandleFunc("/notifications", s.handleNotifications)
	s.mux.HandleFunc("/announcements", s.handleAnnouncements)
	s.mux.HandleFunc("/metadata", s.handleMetadata)
	s.mux.HandleFunc("/health", s.handleHealth)
}

// Handler returns the HTTP handler with middleware applied
func (s *Server) Handler() http.Handler {
	// Chain: RequestID -> Logging -> security -> Recovery
	// RequestID must run first so the logger can access it from context
	var h http.Handler = middleware.RecoveryMiddleware(s.report)(s.mux)
	if s.cfg.Security.BasicAuth.Enabled {
		h = middleware.BasicAuthMiddleware(&s.cfg.Security.BasicAuth)(h)
	}
	if s.cfg.Security.IPAllowlist.Enabled {
		h = middleware.IPAllowlistMiddleware(&s.cfg.Security.IPAllowlist)(h)
	}
	return middleware.RequestIDMiddleware(middleware.LoggingMiddleware(h))
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("json_encode_error", "error", err)
	}
}

type errorResponse struct {
	Error string `json:"error"`
}

type cartSummaryResponse struct {
	TotalItems  int `json:"total_items"`
	UniqueItems int `json:"unique_items"`
	TotalPrice  int `json:"total_price"`
}

func toCartSummary(cs appstate.CartSummary) cartSummaryResponse {
	return cartSummaryResponse{
		TotalItems:  cs.TotalItems,
		UniqueItems: cs.UniqueItems,
		TotalPrice:  cs.TotalPrice,
	}
}

// StateResponse describes the observable storefront state.
type StateResponse struct {
	LoggedIn          bool                `json:"logged_in"`
	CurrentUser       string              `json:"current_user,omitempty"`
	Cart              cartSummaryResponse `json:"cart"`
	NotificationCount int                 `json:"notification_count"`
}

// handleState returns the session and cart summary
func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	sess := s.store.Session()
	s.writeJSON(w, http.StatusOK, StateResponse{
		LoggedIn:          sess.LoggedIn,
		CurrentUser:       sess.CurrentUser,
		Cart:              toCartSummary(s.store.CartSummary()),
		NotificationCount: s.notifications.Count(),
	})
}

type productRequest struct {
	ProductID int `json:"product_id"`
}

func (s *Server) decodeProductID(w http.ResponseWriter, r *http.Request) (int, bool) {
	var req productRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return 0, false
	}
	return req.ProductID, true
}

// handleCart adds a product to the cart
func (s *Server) handleCart(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		s.writeJSON(w, http.StatusOK, toCartSummary(s.store.CartSummary()))
	case http.MethodPost:
		id, ok := s.decodeProductID(w, r)
		if !ok {
			return
		}
		summary, err := s.store.AddToCart(id)
		switch {
		case errors.Is(err, catalog.ErrProductNotFound):
			s.writeJSON(w, http.StatusNotFound, errorResponse{Error: err.Error()})
		case errors.Is(err, appstate.ErrOutOfStock):
			s.writeJSON(w, http.StatusConflict, errorResponse{Error: err.Error()})
		case err != nil:
			s.writeJSON(w, http.StatusInternalServerError, errorResponse{Error: err.Error()})
		default:
			s.writeJSON(w, http.StatusOK, toCartSummary(summary))
		}
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

// handleWishlist toggles wishlist membership for a product
func (s *Server) handleWishlist(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	id, ok := s.decodeProductID(w, r)
	if !ok {
		return
	}
	added, err := s.store.ToggleWishlist(id)
	if err != nil {
		s.writeJSON(w, http.StatusNotFound, errorResponse{Error: err.Error()})
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]bool{"in_wishlist": added})
}

// handleRestock registers restock interest for an out-of-stock product
func (s *Server) handleRestock(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	id, ok := s.decodeProductID(w, r)
	if !ok {
		return
	}
	if err := s.store.RequestRestock(id); err != nil {
		s.writeJSON(w, http.StatusNotFound, errorResponse{Error: err.Error()})
		return
	}
	w.WriteHeader(http.StatusAccepted)
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type fieldErrorResponse struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// handleLogin starts a login. Validation failures come back as 422 with
// every failing field; an accepted submission returns 202 because the
// session flips only after the simulated backend delay.
func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	err := s.store.Login(req.Username, req.Password)
	var fieldErrs appstate.FieldErrors
	if errors.As(err, &fieldErrs) {
		out := make([]fieldErrorResponse, len(fieldErrs))
		for i, fe := range fieldErrs {
			out[i] = fieldErrorResponse{Field: fe.Field, Message: fe.Message}
		}
		s.writeJSON(w, http.StatusUnprocessableEntity, map[string]any{
			"error":  err.Error(),
			"fields": out,
		})
		return
	}
	if err != nil {
		s.writeJSON(w, http.StatusInternalServerError, errorResponse{Error: err.Error()})
		return
	}
	w.WriteHeader(http.StatusAccepted)
}

// handleLogout ends the session
func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	s.store.Logout()
	w.WriteHeader(http.StatusNoContent)
}

type searchRequest struct {
	Query string `json:"query"`
}

// handleSearch runs a search; completion lands asynchronously on the
// notification channels. GET returns the configured suggestions.
func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		s.writeJSON(w, http.StatusOK, map[string][]string{"suggestions": s.search.Suggestions()})
	case http.MethodPost:
		var req searchRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			s.writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
			return
		}
		s.search.PerformQuery(req.Query)
		w.WriteHeader(http.StatusAccepted)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

// ProductResponse is one catalog entry as served to clients.
type ProductResponse struct {
	ID          int     `json:"id"`
	Name        string  `json:"name"`
	Price       int     `json:"price"`
	PriceText   string  `json:"price_text"`
	Description string  `json:"description,omitempty"`
	Category    string  `json:"category,omitempty"`
	Stock       int     `json:"stock"`
	Rating      float64 `json:"rating,omitempty"`
	InWishlist  bool    `json:"in_wishlist"`
}

func (s *Server) toProduct(p catalog.Product) ProductResponse {
	return ProductResponse{
		ID:          p.ID,
		Name:        p.Name,
		Price:       p.Price,
		PriceText:   catalog.FormatPrice(p.Price) + "원",
		Description: p.Description,
		Category:    p.Category,
		Stock:       p.Stock,
		Rating:      p.Rating,
		InWishlist:  s.store.InWishlist(p.ID),
	}
}

// handleProducts returns the full catalog
func (s *Server) handleProducts(w http.ResponseWriter, r *http.Request) {
	all := s.products.All()
	out := make([]ProductResponse, len(all))
	for i, p := range all {
		out[i] = s.toProduct(p)
	}
	s.writeJSON(w, http.StatusOK, out)
}

// handleProduct returns a single catalog entry
func (s *Server) handleProduct(w http.ResponseWriter, r *http.Request) {
	// Extract product ID from path: /products/{id}
	idStr := strings.TrimPrefix(r.URL.Path, "/products/")
	if idStr == "" {
		http.NotFound(w, r)
		return
	}
	id, err := strconv.Atoi(idStr)
	if err != nil {
		s.writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid product id"})
		return
	}
	p, err := s.products.Get(id)
	if err != nil {
		s.writeJSON(w, http.StatusNotFound, errorResponse{Error: err.Error()})
		return
	}
	s.writeJSON(w, http.StatusOK, s.toProduct(p))
}

// NotificationResponse is one visible notification.
type NotificationResponse struct {
	ID       int    `json:"id"`
	Text     string `json:"text"`
	Severity string `json:"severity"`
}

// handleNotifications returns the visible notifications, newest first
func (s *Server) handleNotifications(w http.ResponseWriter, r *http.Request) {
	active := s.notifications.Active()
	out := make([]NotificationResponse, len(active))
	for i, n := range active {
		out[i] = NotificationResponse{ID: n.ID, Text: n.Text, Severity: string(n.Severity)}
	}
	s.writeJSON(w, http.StatusOK, map[string]any{
		"notifications": out,
		"count":         len(out),
	})
}

// AnnouncementResponse is one delivered live-region message.
type AnnouncementResponse struct {
	Text     string `json:"text"`
	Priority string `json:"priority"`
}

// handleAnnouncements returns every delivered announcement in order
func (s *Server) handleAnnouncements(w http.ResponseWriter, r *http.Request) {
	delivered := s.announcements.Delivered()
	out := make([]AnnouncementResponse, len(delivered))
	for i, m := range delivered {
		out[i] = AnnouncementResponse{Text: m.Text, Priority: string(m.Priority)}
	}
	s.writeJSON(w, http.StatusOK, out)
}

// MetadataResponse holds the metadata endpoint response
type MetadataResponse struct {
	Version   string `json:"version"`
	Commit    string `json:"commit"`
	BuildDate string `json:"build_date"`
}

// HealthResponse holds the health endpoint response
type HealthResponse struct {
	Status     string  `json:"status"`
	Uptime     string  `json:"uptime"`
	Goroutines int     `json:"goroutines"`
	MemoryMB   float64 `json:"memory_mb"`
	GoVersion  string  `json:"go_version"`
}

// handleHealth returns process liveness and basic runtime stats
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	var mem runtime.MemStats
	runtime.ReadMemStats(&mem)

	s.writeJSON(w, http.StatusOK, HealthResponse{
		Status:     "ok",
		Uptime:     time.Since(s.startTime).Round(time.Second).String(),
		Goroutines: runtime.NumGoroutine(),
		MemoryMB:   float64(mem.Alloc) / 1024 / 1024,
		GoVersion:  runtime.Version(),
	})
}

// handleMetadata returns version and build information as JSON
func (s *Server) handleMetadata(w http.ResponseWriter, r *http.Request) {
	versionInfo := version.Get()
	s.writeJSON(w, http.StatusOK, MetadataResponse{
		Version:   versionInfo.Version,
		Commit:    versionInfo.Commit,
		BuildDate: versionInfo.CommitDate,
	})
}
