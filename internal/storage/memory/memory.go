// Package memory provides a volatile, process-local implementation of
// the storage.Store interface.
//
// It is both the local-development backend and the fallback the
// failover wrapper degrades to when the persistent backend errors.
// State is an explicit object with injectable contents, never a
// package-level singleton, so tests get full isolation.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/speedsyndicate/ledger/internal/models"
	"github.com/speedsyndicate/ledger/internal/storage"
)

// Ensure Store implements storage.Store.
var _ storage.Store = (*Store)(nil)

// Store keeps all collections in memory, most-recent-first.
// Safe for concurrent use. Contents are lost on restart.
type Store struct {
	mu sync.RWMutex

	equipment []models.EquipmentPurchase
	incomes   []models.InvestorIncome
	trades    []models.RacerTrade
	links     map[string]models.ShareLink // keyed by token
	users     map[string]*models.User     // keyed by id
}

// New creates an empty in-memory store.
func New() *Store {
	return &Store{
		links: make(map[string]models.ShareLink),
		users: make(map[string]*models.User),
	}
}

// Reset replaces the three ledger collections wholesale. Used to inject
// seed data and by the failover wrapper to keep a last-known copy of
// the persistent backend's contents.
func (s *Store) Reset(equipment []models.EquipmentPurchase, incomes []models.InvestorIncome, trades []models.RacerTrade) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.equipment = append([]models.EquipmentPurchase(nil), equipment...)
	s.incomes = append([]models.InvestorIncome(nil), incomes...)
	s.trades = append([]models.RacerTrade(nil), trades...)
}

// ReplaceEquipment swaps in a fresh copy of the equipment collection.
func (s *Store) ReplaceEquipment(recs []models.EquipmentPurchase) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.equipment = append([]models.EquipmentPurchase(nil), recs...)
}

// ReplaceIncomes swaps in a fresh copy of the incomes collection.
func (s *Store) ReplaceIncomes(recs []models.InvestorIncome) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.incomes = append([]models.InvestorIncome(nil), recs...)
}

// ReplaceTrades swaps in a fresh copy of the trades collection.
func (s *Store) ReplaceTrades(recs []models.RacerTrade) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.trades = append([]models.RacerTrade(nil), recs...)
}

// ListEquipment returns the equipment purchases, newest first.
func (s *Store) ListEquipment(ctx context.Context) ([]models.EquipmentPurchase, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]models.EquipmentPurchase(nil), s.equipment...), nil
}

// AddEquipment assigns a fresh id and prepends the purchase.
func (s *Store) AddEquipment(ctx context.Context, p models.EquipmentPurchase) (models.EquipmentPurchase, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p.ID = storage.NewID()
	if p.CreatedAt == 0 {
		p.CreatedAt = time.Now().Unix()
	}
	s.equipment = append([]models.EquipmentPurchase{p}, s.equipment...)
	return p, nil
}

// DeleteEquipment removes a purchase by id. Missing ids are a no-op.
func (s *Store) DeleteEquipment(ctx context.Context, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, rec := range s.equipment {
		if rec.ID == id {
			s.equipment = append(s.equipment[:i], s.equipment[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

// ListIncomes returns the investor incomes, newest first.
func (s *Store) ListIncomes(ctx context.Context) ([]models.InvestorIncome, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]models.InvestorIncome(nil), s.incomes...), nil
}

// AddIncome assigns a fresh id and prepends the income.
func (s *Store) AddIncome(ctx context.Context, in models.InvestorIncome) (models.InvestorIncome, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	in.ID = storage.NewID()
	if in.CreatedAt == 0 {
		in.CreatedAt = time.Now().Unix()
	}
	s.incomes = append([]models.InvestorIncome{in}, s.incomes...)
	return in, nil
}

// DeleteIncome removes an income by id. Missing ids are a no-op.
func (s *Store) DeleteIncome(ctx context.Context, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, rec := range s.incomes {
		if rec.ID == id {
			s.incomes = append(s.incomes[:i], s.incomes[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

// ListTrades returns the racer trades, newest first.
func (s *Store) ListTrades(ctx context.Context) ([]models.RacerTrade, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]models.RacerTrade(nil), s.trades...), nil
}

// AddTrade assigns a fresh id and prepends the trade.
func (s *Store) AddTrade(ctx context.Context, t models.RacerTrade) (models.RacerTrade, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t.ID = storage.NewID()
	if t.CreatedAt == 0 {
		t.CreatedAt = time.Now().Unix()
	}
	s.trades = append([]models.RacerTrade{t}, s.trades...)
	return t, nil
}

// DeleteTrade removes a trade by id. Missing ids are a no-op.
func (s *Store) DeleteTrade(ctx context.Context, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, rec := range s.trades {
		if rec.ID == id {
			s.trades = append(s.trades[:i], s.trades[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

// CreateShareLink stores a share link row.
func (s *Store) CreateShareLink(ctx context.Context, link models.ShareLink) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if link.ID == "" {
		link.ID = uuid.New().String()
	}
	s.links[link.Token] = link
	return nil
}

// GetShareLink returns the link for a token, or (nil, nil) when unknown.
func (s *Store) GetShareLink(ctx context.Context, token string) (*models.ShareLink, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	link, ok := s.links[token]
	if !ok {
		return nil, nil
	}
	return &link, nil
}

// CreateUser stores an owner account.
func (s *Store) CreateUser(ctx context.Context, user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	u := *user
	s.users[u.ID] = &u
	return nil
}

// GetUserByEmail returns the user for an email, or (nil, nil) when absent.
func (s *Store) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, u := range s.users {
		if u.Email == email {
			copied := *u
			return &copied, nil
		}
	}
	return nil, nil
}

// GetUserByID returns the user for an id, or (nil, nil) when absent.
func (s *Store) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.users[id]
	if !ok {
		return nil, nil
	}
	copied := *u
	return &copied, nil
}

// Close is a no-op for the in-memory store.
func (s *Store) Close() error {
	return nil
}
