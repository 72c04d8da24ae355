// Package failover is the single backend-selection strategy for the
// ledger: one wrapper decides, per operation, whether the persistent
// backend or the local in-memory fallback serves the call.
//
// Reads that succeed against the primary refresh the fallback's
// last-known copy; reads that fail serve that copy instead. Writes
// that fail against the primary are applied to the fallback so the
// caller's view stays consistent. Either way the caller gets a usable
// result — a backend outage is never fatal, it only flips the
// Degraded flag that the HTTP layer surfaces as a banner. Nothing is
// retried automatically.
package failover

import (
	"context"
	"log/slog"
	"sync/atomic"

	"github.com/speedsyndicate/ledger/internal/models"
	"github.com/speedsyndicate/ledger/internal/storage"
	"github.com/speedsyndicate/ledger/internal/storage/memory"
)

// Ensure Store implements storage.Store.
var _ storage.Store = (*Store)(nil)

// Store wraps a primary storage.Store with an in-memory fallback.
// A nil primary means the process runs volatile-only and every
// operation is served locally.
type Store struct {
	primary  storage.Store
	local    *memory.Store
	degraded atomic.Bool
}

// New creates the wrapper. primary may be nil.
func New(primary storage.Store, local *memory.Store) *Store {
	s := &Store{primary: primary, local: local}
	s.degraded.Store(primary == nil)
	return s
}

// Degraded reports whether the most recent operation was served by the
// local fallback instead of the persistent backend.
func (s *Store) Degraded() bool {
	return s.degraded.Load()
}

func (s *Store) fallBack(op string, err error) {
	if err != nil {
		slog.Warn("persistent backend error, serving local fallback", "op", op, "error", err)
	}
	s.degraded.Store(true)
}

// ListEquipment serves from the primary, falling back to the local
// last-known copy on error.
func (s *Store) ListEquipment(ctx context.Context) ([]models.EquipmentPurchase, error) {
	if s.primary != nil {
		recs, err := s.primary.ListEquipment(ctx)
		if err == nil {
			s.degraded.Store(false)
			s.local.ReplaceEquipment(recs)
			return recs, nil
		}
		s.fallBack("ListEquipment", err)
	} else {
		s.fallBack("ListEquipment", nil)
	}
	return s.local.ListEquipment(ctx)
}

// AddEquipment writes to the primary, applying the mutation locally on
// error so the caller's view stays consistent.
func (s *Store) AddEquipment(ctx context.Context, p models.EquipmentPurchase) (models.EquipmentPurchase, error) {
	if s.primary != nil {
		rec, err := s.primary.AddEquipment(ctx, p)
		if err == nil {
			s.degraded.Store(false)
			return rec, nil
		}
		s.fallBack("AddEquipment", err)
	} else {
		s.fallBack("AddEquipment", nil)
	}
	return s.local.AddEquipment(ctx, p)
}

// DeleteEquipment deletes from the primary, falling back locally on error.
func (s *Store) DeleteEquipment(ctx context.Context, id string) (bool, error) {
	if s.primary != nil {
		found, err := s.primary.DeleteEquipment(ctx, id)
		if err == nil {
			s.degraded.Store(false)
			return found, nil
		}
		s.fallBack("DeleteEquipment", err)
	} else {
		s.fallBack("DeleteEquipment", nil)
	}
	return s.local.DeleteEquipment(ctx, id)
}

// ListIncomes serves from the primary, falling back to the local
// last-known copy on error.
func (s *Store) ListIncomes(ctx context.Context) ([]models.InvestorIncome, error) {
	if s.primary != nil {
		recs, err := s.primary.ListIncomes(ctx)
		if err == nil {
			s.degraded.Store(false)
			s.local.ReplaceIncomes(recs)
			return recs, nil
		}
		s.fallBack("ListIncomes", err)
	} else {
		s.fallBack("ListIncomes", nil)
	}
	return s.local.ListIncomes(ctx)
}

// AddIncome writes to the primary, applying the mutation locally on error.
func (s *Store) AddIncome(ctx context.Context, in models.InvestorIncome) (models.InvestorIncome, error) {
	if s.primary != nil {
		rec, err := s.primary.AddIncome(ctx, in)
		if err == nil {
			s.degraded.Store(false)
			return rec, nil
		}
		s.fallBack("AddIncome", err)
	} else {
		s.fallBack("AddIncome", nil)
	}
	return s.local.AddIncome(ctx, in)
}

// DeleteIncome deletes from the primary, falling back locally on error.
func (s *Store) DeleteIncome(ctx context.Context, id string) (bool, error) {
	if s.primary != nil {
		found, err := s.primary.DeleteIncome(ctx, id)
		if err == nil {
			s.degraded.Store(false)
			return found, nil
		}
		s.fallBack("DeleteIncome", err)
	} else {
		s.fallBack("DeleteIncome", nil)
	}
	return s.local.DeleteIncome(ctx, id)
}

// ListTrades serves from the primary, falling back to the local
// last-known copy on error.
func (s *Store) ListTrades(ctx context.Context) ([]models.RacerTrade, error) {
	if s.primary != nil {
		recs, err := s.primary.ListTrades(ctx)
		if err == nil {
			s.degraded.Store(false)
			s.local.ReplaceTrades(recs)
			return recs, nil
		}
		s.fallBack("ListTrades", err)
	} else {
		s.fallBack("ListTrades", nil)
	}
	return s.local.ListTrades(ctx)
}

// AddTrade writes to the primary, applying the mutation locally on error.
func (s *Store) AddTrade(ctx context.Context, t models.RacerTrade) (models.RacerTrade, error) {
	if s.primary != nil {
		rec, err := s.primary.AddTrade(ctx, t)
		if err == nil {
			s.degraded.Store(false)
			return rec, nil
		}
		s.fallBack("AddTrade", err)
	} else {
		s.fallBack("AddTrade", nil)
	}
	return s.local.AddTrade(ctx, t)
}

// DeleteTrade deletes from the primary, falling back locally on error.
func (s *Store) DeleteTrade(ctx context.Context, id string) (bool, error) {
	if s.primary != nil {
		found, err := s.primary.DeleteTrade(ctx, id)
		if err == nil {
			s.degraded.Store(false)
			return found, nil
		}
		s.fallBack("DeleteTrade", err)
	} else {
		s.fallBack("DeleteTrade", nil)
	}
	return s.local.DeleteTrade(ctx, id)
}

// CreateShareLink writes to the primary, storing locally on error.
func (s *Store) CreateShareLink(ctx context.Context, link models.ShareLink) error {
	if s.primary != nil {
		err := s.primary.CreateShareLink(ctx, link)
		if err == nil {
			s.degraded.Store(false)
			return nil
		}
		s.fallBack("CreateShareLink", err)
	} else {
		s.fallBack("CreateShareLink", nil)
	}
	return s.local.CreateShareLink(ctx, link)
}

// GetShareLink reads from the primary without falling back: the share
// gate owns the fail-open decision, so backend errors must reach it
// unmasked.
func (s *Store) GetShareLink(ctx context.Context, token string) (*models.ShareLink, error) {
	if s.primary != nil {
		return s.primary.GetShareLink(ctx, token)
	}
	return s.local.GetShareLink(ctx, token)
}

// CreateUser writes to the primary, storing locally on error.
func (s *Store) CreateUser(ctx context.Context, user *models.User) error {
	if s.primary != nil {
		err := s.primary.CreateUser(ctx, user)
		if err == nil {
			s.degraded.Store(false)
			return nil
		}
		s.fallBack("CreateUser", err)
	} else {
		s.fallBack("CreateUser", nil)
	}
	return s.local.CreateUser(ctx, user)
}

// GetUserByEmail reads from the primary, falling back locally on error.
func (s *Store) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	if s.primary != nil {
		user, err := s.primary.GetUserByEmail(ctx, email)
		if err == nil {
			s.degraded.Store(false)
			return user, nil
		}
		s.fallBack("GetUserByEmail", err)
	} else {
		s.fallBack("GetUserByEmail", nil)
	}
	return s.local.GetUserByEmail(ctx, email)
}

// GetUserByID reads from the primary, falling back locally on error.
func (s *Store) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	if s.primary != nil {
		user, err := s.primary.GetUserByID(ctx, id)
		if err == nil {
			s.degraded.Store(false)
			return user, nil
		}
		s.fallBack("GetUserByID", err)
	} else {
		s.fallBack("GetUserByID", nil)
	}
	return s.local.GetUserByID(ctx, id)
}

// Close closes the primary backend; the local fallback holds no
// resources.
func (s *Store) Close() error {
	if s.primary != nil {
		return s.primary.Close()
	}
	return nil
}
