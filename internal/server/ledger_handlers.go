package server

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/shopspring/decimal"

	"github.com/speedsyndicate/ledger/internal/ledger"
	"github.com/speedsyndicate/ledger/internal/models"
)

var errInsufficientBalance = errors.New("insufficient balance for this debit")

// currentSummary recomputes the balance from the live collections.
// Never cached: correctness requires it always reflect the latest
// state the store can serve.
func (s *Server) currentSummary(r *http.Request) (ledger.Summary, error) {
	ctx := r.Context()

	equipment, err := s.store.ListEquipment(ctx)
	if err != nil {
		return ledger.Summary{}, err
	}
	incomes, err := s.store.ListIncomes(ctx)
	if err != nil {
		return ledger.Summary{}, err
	}
	trades, err := s.store.ListTrades(ctx)
	if err != nil {
		return ledger.Summary{}, err
	}

	return ledger.Compute(equipment, incomes, trades), nil
}

// guardDebit rejects a debit that would drive the balance negative.
func (s *Server) guardDebit(r *http.Request, amount decimal.Decimal) error {
	summary, err := s.currentSummary(r)
	if err != nil {
		return err
	}
	if !summary.CanAffordDebit(amount) {
		return errInsufficientBalance
	}
	return nil
}

func today() string {
	return time.Now().Format("2006-01-02")
}

func (s *Server) handleListEquipment(w http.ResponseWriter, r *http.Request) {
	recs, err := s.store.ListEquipment(r.Context())
	if err != nil {
		slog.Error("list equipment failed", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to load equipment purchases")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"equipment": recs,
		"degraded":  s.store.Degraded(),
	})
}

func (s *Server) handleAddEquipment(w http.ResponseWriter, r *http.Request) {
	var req models.EquipmentPurchase
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	req.ID = ""
	if req.Date == "" {
		req.Date = today()
	}

	if err := req.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := s.guardDebit(r, req.LineTotal()); err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	rec, err := s.store.AddEquipment(r.Context(), req)
	if err != nil {
		slog.Error("add equipment failed", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to add equipment purchase")
		return
	}
	s.bus.Publish()

	writeJSON(w, http.StatusCreated, map[string]any{
		"equipment": rec,
		"degraded":  s.store.Degraded(),
	})
}

func (s *Server) handleDeleteEquipment(w http.ResponseWriter, r *http.Request) {
	found, err := s.store.DeleteEquipment(r.Context(), r.PathValue("id"))
	if err != nil {
		slog.Error("delete equipment failed", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to delete equipment purchase")
		return
	}
	if found {
		s.bus.Publish()
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"deleted":  found,
		"degraded": s.store.Degraded(),
	})
}

func (s *Server) handleListIncomes(w http.ResponseWriter, r *http.Request) {
	recs, err := s.store.ListIncomes(r.Context())
	if err != nil {
		slog.Error("list incomes failed", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to load investor incomes")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"incomes":  recs,
		"degraded": s.store.Degraded(),
	})
}

func (s *Server) handleAddIncome(w http.ResponseWriter, r *http.Request) {
	var req models.InvestorIncome
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	req.ID = ""
	if req.Date == "" {
		req.Date = today()
	}

	if err := req.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	rec, err := s.store.AddIncome(r.Context(), req)
	if err != nil {
		slog.Error("add income failed", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to add investor income")
		return
	}
	s.bus.Publish()

	writeJSON(w, http.StatusCreated, map[string]any{
		"income":   rec,
		"degraded": s.store.Degraded(),
	})
}

func (s *Server) handleDeleteIncome(w http.ResponseWriter, r *http.Request) {
	found, err := s.store.DeleteIncome(r.Context(), r.PathValue("id"))
	if err != nil {
		slog.Error("delete income failed", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to delete investor income")
		return
	}
	if found {
		s.bus.Publish()
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"deleted":  found,
		"degraded": s.store.Degraded(),
	})
}

func (s *Server) handleListTrades(w http.ResponseWriter, r *http.Request) {
	recs, err := s.store.ListTrades(r.Context())
	if err != nil {
		slog.Error("list trades failed", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to load racer trades")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"trades":   recs,
		"degraded": s.store.Degraded(),
	})
}

func (s *Server) handleAddTrade(w http.ResponseWriter, r *http.Request) {
	var req models.RacerTrade
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	req.ID = ""
	if req.Date == "" {
		req.Date = today()
	}

	if err := req.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.Kind == models.TradeBuy {
		if err := s.guardDebit(r, req.Price); err != nil {
			writeError(w, http.StatusUnprocessableEntity, err.Error())
			return
		}
	}

	rec, err := s.store.AddTrade(r.Context(), req)
	if err != nil {
		slog.Error("add trade failed", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to add racer trade")
		return
	}
	s.bus.Publish()

	writeJSON(w, http.StatusCreated, map[string]any{
		"trade":    rec,
		"degraded": s.store.Degraded(),
	})
}

func (s *Server) handleDeleteTrade(w http.ResponseWriter, r *http.Request) {
	found, err := s.store.DeleteTrade(r.Context(), r.PathValue("id"))
	if err != nil {
		slog.Error("delete trade failed", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to delete racer trade")
		return
	}
	if found {
		s.bus.Publish()
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"deleted":  found,
		"degraded": s.store.Degraded(),
	})
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	summary, err := s.currentSummary(r)
	if err != nil {
		slog.Error("summary failed", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to compute summary")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"summary":          summary,
		"formattedBalance": ledger.Format(summary.CurrentBalance),
		"degraded":         s.store.Degraded(),
	})
}

func (s *Server) handleCreateShare(w http.ResponseWriter, r *http.Request) {
	token, err := s.gate.Create(r.Context())
	if err != nil {
		slog.Error("create share link failed", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to create share link")
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{
		"token":     token,
		"accessUrl": "/access/" + token,
		"sharedUrl": "/shared/" + token,
	})
}
