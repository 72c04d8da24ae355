// Package sqlite provides the persistent SQLite-backed implementation
// of the storage.Store interface.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/shopspring/decimal"
	_ "modernc.org/sqlite" // Pure Go SQLite driver (no CGO)

	"github.com/speedsyndicate/ledger/internal/models"
	"github.com/speedsyndicate/ledger/internal/storage"
)

// Ensure Store implements storage.Store.
var _ storage.Store = (*Store)(nil)

// Store implements storage.Store using SQLite.
type Store struct {
	db *sql.DB
}

// New creates a Store with the given database path. It creates the
// parent directories and runs migrations automatically.
func New(dbPath string) (*Store, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	if err := runMigrations(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// ListEquipment returns the equipment purchases, newest first.
func (s *Store) ListEquipment(ctx context.Context) ([]models.EquipmentPurchase, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, racer, item, quantity, unit_price, date, created_at
		 FROM equipment_purchases ORDER BY created_at DESC, rowid DESC`,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list equipment purchases: %w", err)
	}
	defer rows.Close()

	var recs []models.EquipmentPurchase
	for rows.Next() {
		var (
			rec       models.EquipmentPurchase
			unitPrice string
		)
		if err := rows.Scan(&rec.ID, &rec.Racer, &rec.Item, &rec.Quantity, &unitPrice, &rec.Date, &rec.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan equipment purchase: %w", err)
		}
		if rec.UnitPrice, err = decimal.NewFromString(unitPrice); err != nil {
			return nil, fmt.Errorf("failed to parse unit price %q: %w", unitPrice, err)
		}
		recs = append(recs, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate equipment purchases: %w", err)
	}
	return recs, nil
}

// AddEquipment assigns a fresh id and inserts the purchase.
func (s *Store) AddEquipment(ctx context.Context, p models.EquipmentPurchase) (models.EquipmentPurchase, error) {
	p.ID = storage.NewID()
	if p.CreatedAt == 0 {
		p.CreatedAt = time.Now().Unix()
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO equipment_purchases (id, racer, item, quantity, unit_price, date, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		p.ID, p.Racer, p.Item, p.Quantity, p.UnitPrice.String(), p.Date, p.CreatedAt,
	)
	if err != nil {
		return models.EquipmentPurchase{}, fmt.Errorf("failed to insert equipment purchase: %w", err)
	}
	return p, nil
}

// DeleteEquipment removes a purchase by id. Missing ids are a no-op.
func (s *Store) DeleteEquipment(ctx context.Context, id string) (bool, error) {
	res, err := s.db.ExecContext(ctx, "DELETE FROM equipment_purchases WHERE id = ?", id)
	if err != nil {
		return false, fmt.Errorf("failed to delete equipment purchase: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read affected rows: %w", err)
	}
	return n > 0, nil
}

// ListIncomes returns the investor incomes, newest first.
func (s *Store) ListIncomes(ctx context.Context) ([]models.InvestorIncome, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, investor_name, amount, description, date, created_at
		 FROM investor_incomes ORDER BY created_at DESC, rowid DESC`,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list investor incomes: %w", err)
	}
	defer rows.Close()

	var recs []models.InvestorIncome
	for rows.Next() {
		var (
			rec    models.InvestorIncome
			amount string
			desc   sql.NullString
		)
		if err := rows.Scan(&rec.ID, &rec.InvestorName, &amount, &desc, &rec.Date, &rec.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan investor income: %w", err)
		}
		if rec.Amount, err = decimal.NewFromString(amount); err != nil {
			return nil, fmt.Errorf("failed to parse amount %q: %w", amount, err)
		}
		if desc.Valid {
			rec.Description = desc.String
		}
		recs = append(recs, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate investor incomes: %w", err)
	}
	return recs, nil
}

// AddIncome assigns a fresh id and inserts the income.
func (s *Store) AddIncome(ctx context.Context, in models.InvestorIncome) (models.InvestorIncome, error) {
	in.ID = storage.NewID()
	if in.CreatedAt == 0 {
		in.CreatedAt = time.Now().Unix()
	}

	var desc interface{}
	if in.Description != "" {
		desc = in.Description
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO investor_incomes (id, investor_name, amount, description, date, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		in.ID, in.InvestorName, in.Amount.String(), desc, in.Date, in.CreatedAt,
	)
	if err != nil {
		return models.InvestorIncome{}, fmt.Errorf("failed to insert investor income: %w", err)
	}
	return in, nil
}

// DeleteIncome removes an income by id. Missing ids are a no-op.
func (s *Store) DeleteIncome(ctx context.Context, id string) (bool, error) {
	res, err := s.db.ExecContext(ctx, "DELETE FROM investor_incomes WHERE id = ?", id)
	if err != nil {
		return false, fmt.Errorf("failed to delete investor income: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read affected rows: %w", err)
	}
	return n > 0, nil
}

// ListTrades returns the racer trades, newest first.
func (s *Store) ListTrades(ctx context.Context) ([]models.RacerTrade, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, racer_name, kind, price, description, date, created_at
		 FROM racer_trades ORDER BY created_at DESC, rowid DESC`,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list racer trades: %w", err)
	}
	defer rows.Close()

	var recs []models.RacerTrade
	for rows.Next() {
		var (
			rec   models.RacerTrade
			price string
			desc  sql.NullString
		)
		if err := rows.Scan(&rec.ID, &rec.RacerName, &rec.Kind, &price, &desc, &rec.Date, &rec.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan racer trade: %w", err)
		}
		if rec.Price, err = decimal.NewFromString(price); err != nil {
			return nil, fmt.Errorf("failed to parse price %q: %w", price, err)
		}
		if desc.Valid {
			rec.Description = desc.String
		}
		recs = append(recs, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate racer trades: %w", err)
	}
	return recs, nil
}

// AddTrade assigns a fresh id and inserts the trade.
func (s *Store) AddTrade(ctx context.Context, t models.RacerTrade) (models.RacerTrade, error) {
	t.ID = storage.NewID()
	if t.CreatedAt == 0 {
		t.CreatedAt = time.Now().Unix()
	}

	var desc interface{}
	if t.Description != "" {
		desc = t.Description
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO racer_trades (id, racer_name, kind, price, description, date, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		t.ID, t.RacerName, string(t.Kind), t.Price.String(), desc, t.Date, t.CreatedAt,
	)
	if err != nil {
		return models.RacerTrade{}, fmt.Errorf("failed to insert racer trade: %w", err)
	}
	return t, nil
}

// DeleteTrade removes a trade by id. Missing ids are a no-op.
func (s *Store) DeleteTrade(ctx context.Context, id string) (bool, error) {
	res, err := s.db.ExecContext(ctx, "DELETE FROM racer_trades WHERE id = ?", id)
	if err != nil {
		return false, fmt.Errorf("failed to delete racer trade: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read affected rows: %w", err)
	}
	return n > 0, nil
}
