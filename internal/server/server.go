// Package server exposes the ledger over a JSON HTTP API.
//
// Three route shapes serve the same ledger:
//
//   - /api/...            owner routes, Bearer session token required
//   - /access/{token}/... share-link routes, read-write
//   - /shared/{token}/... share-link routes, display-only (mutations 403)
//
// Handlers validate input and check the balance guard before anything
// reaches the store, and publish on the change bus after every
// successful mutation.
package server

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/speedsyndicate/ledger/internal/auth"
	"github.com/speedsyndicate/ledger/internal/bus"
	"github.com/speedsyndicate/ledger/internal/middleware"
	"github.com/speedsyndicate/ledger/internal/share"
	"github.com/speedsyndicate/ledger/internal/storage"
)

// Store is the storage surface the server needs: the ledger store plus
// the failover wrapper's degraded flag.
type Store interface {
	storage.Store

	// Degraded reports whether the last operation was served by the
	// local fallback; surfaced to clients as a banner flag.
	Degraded() bool
}

// Server holds the wired collaborators for the HTTP API.
type Server struct {
	store         Store
	gate          *share.Gate
	bus           *bus.Bus
	authenticator *auth.PasswordAuthenticator
	jwt           *auth.JWTManager
}

// New creates a Server.
func New(store Store, gate *share.Gate, changeBus *bus.Bus, authenticator *auth.PasswordAuthenticator, jwt *auth.JWTManager) *Server {
	return &Server{
		store:         store,
		gate:          gate,
		bus:           changeBus,
		authenticator: authenticator,
		jwt:           jwt,
	}
}

// Handler builds the route table and wraps it in the shared middleware.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /api/auth/signup", s.handleSignup)
	mux.HandleFunc("POST /api/auth/login", s.handleLogin)

	requireAuth := middleware.RequireAuth(s.jwt, http.HandlerFunc(s.unauthorized))
	s.registerLedgerRoutes(mux, "/api", requireAuth, false)
	mux.Handle("POST /api/share", requireAuth(http.HandlerFunc(s.handleCreateShare)))

	// Share-link holders: /access is interactive, /shared is display-only.
	s.registerLedgerRoutes(mux, "/access/{token}", s.requireShare, false)
	s.registerLedgerRoutes(mux, "/shared/{token}", s.requireShare, true)

	mux.Handle("GET /metrics", promhttp.Handler())
	mux.HandleFunc("GET /healthz", s.handleHealth)

	return middleware.Logging(middleware.CORS(middleware.Metrics(mux)))
}

// registerLedgerRoutes mounts the collection routes under a prefix.
// With readOnly set, mutation routes respond 403 instead of mutating.
func (s *Server) registerLedgerRoutes(mux *http.ServeMux, prefix string, wrap func(http.Handler) http.Handler, readOnly bool) {
	handle := func(method, path string, h http.HandlerFunc) {
		mux.Handle(method+" "+prefix+path, wrap(h))
	}

	handle("GET", "/equipment", s.handleListEquipment)
	handle("GET", "/incomes", s.handleListIncomes)
	handle("GET", "/trades", s.handleListTrades)
	handle("GET", "/summary", s.handleSummary)

	addEquipment, deleteEquipment := s.handleAddEquipment, s.handleDeleteEquipment
	addIncome, deleteIncome := s.handleAddIncome, s.handleDeleteIncome
	addTrade, deleteTrade := s.handleAddTrade, s.handleDeleteTrade
	if readOnly {
		addEquipment, deleteEquipment = s.readOnlyForbidden, s.readOnlyForbidden
		addIncome, deleteIncome = s.readOnlyForbidden, s.readOnlyForbidden
		addTrade, deleteTrade = s.readOnlyForbidden, s.readOnlyForbidden
	}

	handle("POST", "/equipment", addEquipment)
	handle("DELETE", "/equipment/{id}", deleteEquipment)
	handle("POST", "/incomes", addIncome)
	handle("DELETE", "/incomes/{id}", deleteIncome)
	handle("POST", "/trades", addTrade)
	handle("DELETE", "/trades/{id}", deleteTrade)
}

// requireShare validates the share token in the route before letting
// the request through.
func (s *Server) requireShare(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := r.PathValue("token")
		if token == "" || !s.gate.Validate(r.Context(), token) {
			writeError(w, http.StatusForbidden, "invalid or expired share link")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) unauthorized(w http.ResponseWriter, r *http.Request) {
	writeError(w, http.StatusUnauthorized, auth.ErrMissingToken.Error())
}

func (s *Server) readOnlyForbidden(w http.ResponseWriter, r *http.Request) {
	writeError(w, http.StatusForbidden, "this link is read-only")
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":   "ok",
		"degraded": s.store.Degraded(),
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
