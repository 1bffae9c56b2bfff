// Package api provides the HTTP REST API server for cryptodeck.
//
// It exposes endpoints for market listings, tickers, order books, pair
// statistics, account data, API key management, exchange announcements,
// and WebSocket streaming of provider updates.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/seenimoa/cryptodeck/internal/config"
	"github.com/seenimoa/cryptodeck/internal/exchange"
	"github.com/seenimoa/cryptodeck/internal/model"
	"github.com/seenimoa/cryptodeck/internal/news"
	"github.com/seenimoa/cryptodeck/pkg/models"
)

// Server is the HTTP API server.
type Server struct {
	router chi.Router
	cfg    *config.Config
	core   *model.Model
	news   *news.Service
	wsHub  *WSHub
}

// NewServer creates a configured API server with all routes and middleware.
func NewServer(cfg *config.Config, core *model.Model) *Server {
	srv := &Server{
		cfg:   cfg,
		core:  core,
		news:  news.New(time.Duration(cfg.News.CacheTTLSec) * time.Second),
		wsHub: NewWSHub(),
	}
	if len(cfg.News.Feeds) > 0 {
		sources := make([]news.Source, 0, len(cfg.News.Feeds))
		for _, url := range cfg.News.Feeds {
			sources = append(sources, news.Source{Name: url, URL: url})
		}
		srv.news = news.NewWithSources(sources, time.Duration(cfg.News.CacheTTLSec)*time.Second)
	}

	srv.router = srv.buildRouter()
	return srv
}

// Router returns the chi router for testing.
func (s *Server) Router() chi.Router {
	return s.router
}

// ListenAndServe starts the HTTP server with graceful shutdown.
func (s *Server) ListenAndServe(addr string) error {
	httpSrv := &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go s.wsHub.Run()

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("HTTP server error: %v", err)
		}
	}()

	<-done
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	return httpSrv.Shutdown(ctx)
}

// buildRouter configures all routes and middleware.
func (s *Server) buildRouter() chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(120 * time.Second))

	origins := []string{"*"}
	if len(s.cfg.API.CORSOrigins) > 0 {
		origins = s.cfg.API.CORSOrigins
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/health", s.handleHealth)

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", s.handleHealth)

		// Cross-market listings
		r.Get("/markets", s.handleMarkets)
		r.Get("/pairs", s.handleAllPairs)
		r.Get("/currencies", s.handleAllCurrencies)
		r.Get("/stats", s.handleAllStats)

		// Per-market data
		r.Route("/markets/{market}", func(r chi.Router) {
			r.Get("/pairs", s.handlePairs)
			r.Get("/currencies", s.handleCurrencies)
			r.Get("/ticker", s.handleTicker)
			r.Get("/orderbook", s.handleOrderBook)
			r.Get("/stats", s.handleStats)
			r.Get("/history", s.handleHistory)
			r.Get("/balances", s.handleBalances)
			r.Get("/orders", s.handleOrders)
			r.Put("/keys", s.handleSetKeys)
		})

		// Announcements
		r.Get("/news", s.handleNews)

		// Key status (masked, never raw material)
		r.Get("/config/keys", s.handleKeyStatus)

		// WebSocket streaming
		r.Get("/ws", s.handleWebSocket)
	})

	return r
}

// ============================================================
// Request / Response types
// ============================================================

// APIResponse is the standard JSON envelope.
type APIResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// MarketInfo describes one configured market in the markets listing.
type MarketInfo struct {
	Name     string `json:"name"`
	CanTrade bool   `json:"can_trade"`
}

// SetKeysRequest is the body for PUT /api/v1/markets/{market}/keys.
type SetKeysRequest struct {
	Role      string `json:"role"` // "info", "trading", "withdrawal"
	PublicKey string `json:"public_key"`
	SecretKey string `json:"secret_key"`
}

// ============================================================
// Handlers
// ============================================================

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, APIResponse{
		Success: true,
		Data: map[string]interface{}{
			"status":  "ok",
			"markets": len(s.core.Markets()),
			"time":    time.Now().UTC().Format(time.RFC3339),
		},
	})
}

func (s *Server) handleMarkets(w http.ResponseWriter, r *http.Request) {
	markets := s.core.Markets()
	infos := make([]MarketInfo, 0, len(markets))
	for _, m := range markets {
		infos = append(infos, MarketInfo{Name: m.Name(), CanTrade: m.CanTrade()})
	}
	writeJSON(w, http.StatusOK, APIResponse{Success: true, Data: infos})
}

func (s *Server) handleAllPairs(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, APIResponse{
		Success: true,
		Data:    s.core.AllPairs(r.Context()),
	})
}

func (s *Server) handleAllCurrencies(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, APIResponse{
		Success: true,
		Data:    s.core.AllCurrencies(r.Context()),
	})
}

func (s *Server) handleAllStats(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, APIResponse{
		Success: true,
		Data:    s.core.AllStatistics(r.Context()),
	})
}

func (s *Server) handlePairs(w http.ResponseWriter, r *http.Request) {
	market, ok := s.market(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, APIResponse{Success: true, Data: market.Pairs(r.Context())})
}

func (s *Server) handleCurrencies(w http.ResponseWriter, r *http.Request) {
	market, ok := s.market(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, APIResponse{Success: true, Data: market.Currencies(r.Context())})
}

func (s *Server) handleTicker(w http.ResponseWriter, r *http.Request) {
	market, ok := s.market(w, r)
	if !ok {
		return
	}
	pair, ok := pairParam(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, APIResponse{Success: true, Data: market.Tick(r.Context(), pair)})
}

func (s *Server) handleOrderBook(w http.ResponseWriter, r *http.Request) {
	market, ok := s.market(w, r)
	if !ok {
		return
	}
	pair, ok := pairParam(w, r)
	if !ok {
		return
	}

	depth := s.cfg.Refresh.Depth
	if raw := r.URL.Query().Get("depth"); raw != "" {
		d, err := strconv.Atoi(raw)
		if err != nil || d <= 0 {
			writeError(w, http.StatusBadRequest, "invalid depth")
			return
		}
		depth = d
	}

	side := models.SideBoth
	switch r.URL.Query().Get("side") {
	case "", "both":
	case "buy":
		side = models.SideBuy
	case "sell":
		side = models.SideSell
	default:
		writeError(w, http.StatusBadRequest, "side must be both, buy or sell")
		return
	}

	book := market.OrderBook(r.Context(), pair, depth, side)
	writeJSON(w, http.StatusOK, APIResponse{
		Success: true,
		Data: map[string]interface{}{
			"pair": book.Pair,
			"asks": book.Asks(),
			"bids": book.Bids(),
		},
	})
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	market, ok := s.market(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, APIResponse{Success: true, Data: market.PairsStatistic(r.Context())})
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	market, ok := s.market(w, r)
	if !ok {
		return
	}
	pair, ok := pairParam(w, r)
	if !ok {
		return
	}
	history, err := market.TradeHistory(r.Context(), pair)
	if err != nil {
		writeMarketError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, APIResponse{Success: true, Data: history})
}

func (s *Server) handleBalances(w http.ResponseWriter, r *http.Request) {
	market, ok := s.market(w, r)
	if !ok {
		return
	}
	balances, err := market.Balances(r.Context())
	if err != nil {
		writeMarketError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, APIResponse{Success: true, Data: balances})
}

func (s *Server) handleOrders(w http.ResponseWriter, r *http.Request) {
	market, ok := s.market(w, r)
	if !ok {
		return
	}
	pair, ok := pairParam(w, r)
	if !ok {
		return
	}
	orders, err := market.OpenOrders(r.Context(), pair)
	if err != nil && len(orders) == 0 {
		writeMarketError(w, err)
		return
	}
	// Partial mapping failures still return the good records.
	writeJSON(w, http.StatusOK, APIResponse{Success: true, Data: orders})
}

func (s *Server) handleSetKeys(w http.ResponseWriter, r *http.Request) {
	market, ok := s.market(w, r)
	if !ok {
		return
	}

	var req SetKeysRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	role, ok := roleFromString(req.Role)
	if !ok {
		writeError(w, http.StatusBadRequest, "role must be info, trading or withdrawal")
		return
	}

	market.SetPublicApiKey(role, models.ApiKey(req.PublicKey))
	market.SetPrivateApiKey(role, models.ApiKey(req.SecretKey))
	writeJSON(w, http.StatusOK, APIResponse{Success: true})
}

func (s *Server) handleNews(w http.ResponseWriter, r *http.Request) {
	limit := 50
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			limit = n
		}
	}
	items, err := s.news.Announcements(r.Context(), limit)
	if err != nil {
		writeError(w, http.StatusBadGateway, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, APIResponse{Success: true, Data: items})
}

func (s *Server) handleKeyStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, APIResponse{
		Success: true,
		Data:    config.CheckAPIKeys(s.cfg),
	})
}

// ============================================================
// Helpers
// ============================================================

// market resolves the {market} path parameter; writes 404 when unknown.
func (s *Server) market(w http.ResponseWriter, r *http.Request) (*exchange.Market, bool) {
	name := chi.URLParam(r, "market")
	market, ok := s.core.Market(name)
	if !ok {
		writeError(w, http.StatusNotFound, "unknown market: "+name)
		return nil, false
	}
	return market, true
}

// pairParam parses the pair query parameter ("BASE-QUOTE").
func pairParam(w http.ResponseWriter, r *http.Request) (models.Pair, bool) {
	pair, ok := parsePair(r.URL.Query().Get("pair"))
	if !ok {
		writeError(w, http.StatusBadRequest, "pair must be BASE-QUOTE")
		return models.Pair{}, false
	}
	return pair, true
}

func parsePair(raw string) (models.Pair, bool) {
	tokens := strings.Split(raw, "-")
	if len(tokens) != 2 || tokens[0] == "" || tokens[1] == "" {
		return models.Pair{}, false
	}
	return models.NewPair(models.NewCurrency(tokens[0]), models.NewCurrency(tokens[1])), true
}

func roleFromString(raw string) (models.ApiKeyRole, bool) {
	switch strings.ToLower(raw) {
	case "info":
		return models.RoleInfo, true
	case "trading":
		return models.RoleTrading, true
	case "withdrawal":
		return models.RoleWithdrawal, true
	default:
		return 0, false
	}
}

// writeMarketError maps exchange-layer errors onto HTTP status codes.
func writeMarketError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, exchange.ErrNotSupported):
		writeError(w, http.StatusNotImplemented, err.Error())
	case exchange.IsAuthError(err):
		writeError(w, http.StatusUnauthorized, err.Error())
	default:
		writeError(w, http.StatusBadGateway, err.Error())
	}
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("failed to write JSON response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, APIResponse{Success: false, Error: msg})
}

// ============================================================
// WebSocket Hub
// ============================================================

// WSMessage is a message sent over WebSocket connections.
type WSMessage struct {
	Type   string      `json:"type"`
	Market string      `json:"market,omitempty"`
	Pair   string      `json:"pair,omitempty"`
	Data   interface{} `json:"data,omitempty"`
	Error  string      `json:"error,omitempty"`
}

// WSHub manages WebSocket connections and message broadcasting.
type WSHub struct {
	mu         sync.RWMutex
	clients    map[*WSClient]bool
	broadcast  chan WSMessage
	register   chan *WSClient
	unregister chan *WSClient
}

// WSClient represents a single WebSocket connection and the provider
// subscriptions it holds. Every subscription is torn down when the
// connection closes.
type WSClient struct {
	hub  *WSHub
	send chan WSMessage

	mu      sync.Mutex
	cancels map[string]func()
}

// NewWSHub creates a new WebSocket hub.
func NewWSHub() *WSHub {
	return &WSHub{
		clients:    make(map[*WSClient]bool),
		broadcast:  make(chan WSMessage, 256),
		register:   make(chan *WSClient),
		unregister: make(chan *WSClient),
	}
}

// Run starts the hub event loop.
func (h *WSHub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			h.mu.Unlock()
		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
			}
			h.mu.Unlock()
		case msg := <-h.broadcast:
			h.mu.Lock()
			for client := range h.clients {
				select {
				case client.send <- msg:
				default:
					// Slow client; disconnect.
					delete(h.clients, client)
					close(client.send)
				}
			}
			h.mu.Unlock()
		}
	}
}

// Broadcast sends a message to all connected WebSocket clients.
func (h *WSHub) Broadcast(msg WSMessage) {
	select {
	case h.broadcast <- msg:
	default:
		// Drop message if broadcast channel is full.
	}
}

// ClientCount returns the number of connected WebSocket clients.
func (h *WSHub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Register adds a client to the hub.
func (h *WSHub) Register(client *WSClient) {
	h.register <- client
}

// Unregister removes a client from the hub.
func (h *WSHub) Unregister(client *WSClient) {
	h.unregister <- client
}
