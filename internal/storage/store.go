// Package storage provides abstractions for ledger persistence.
package storage

import (
	"context"
	"math/rand"
	"strconv"
	"time"

	"github.com/speedsyndicate/ledger/internal/models"
)

// Store defines the operations every ledger backend supports.
// Two implementations exist: a volatile in-process store
// (storage/memory) and a persistent SQLite store (storage/sqlite);
// callers stay agnostic to which is active.
//
// List methods return collections most-recent-first. Add methods
// assign a fresh id and place the record at the head of its
// collection. Delete methods report false, never an error, when the
// id is absent.
type Store interface {
	ListEquipment(ctx context.Context) ([]models.EquipmentPurchase, error)
	AddEquipment(ctx context.Context, p models.EquipmentPurchase) (models.EquipmentPurchase, error)
	DeleteEquipment(ctx context.Context, id string) (bool, error)

	ListIncomes(ctx context.Context) ([]models.InvestorIncome, error)
	AddIncome(ctx context.Context, i models.InvestorIncome) (models.InvestorIncome, error)
	DeleteIncome(ctx context.Context, id string) (bool, error)

	ListTrades(ctx context.Context) ([]models.RacerTrade, error)
	AddTrade(ctx context.Context, t models.RacerTrade) (models.RacerTrade, error)
	DeleteTrade(ctx context.Context, id string) (bool, error)

	// CreateShareLink persists a new share link row.
	CreateShareLink(ctx context.Context, link models.ShareLink) error

	// GetShareLink returns the link for a token, or (nil, nil) when the
	// token is unknown.
	GetShareLink(ctx context.Context, token string) (*models.ShareLink, error)

	// CreateUser persists a new owner account.
	CreateUser(ctx context.Context, user *models.User) error

	// GetUserByEmail returns the user for an email, or (nil, nil) when
	// no account exists.
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)

	// GetUserByID returns the user for an id, or (nil, nil) when no
	// account exists.
	GetUserByID(ctx context.Context, id string) (*models.User, error)

	// Close releases any resources held by the store.
	Close() error
}

const idSuffixAlphabet = "0123456789abcdefghijklmnopqrstuvwxyz"

// NewID generates an opaque record id: the current Unix-millisecond
// timestamp followed by a random base36 suffix. The timestamp prefix is
// monotonically non-decreasing and the suffix makes collisions within
// the same millisecond negligible.
func NewID() string {
	buf := make([]byte, 9)
	for i := range buf {
		buf[i] = idSuffixAlphabet[rand.Intn(len(idSuffixAlphabet))]
	}
	return strconv.FormatInt(time.Now().UnixMilli(), 10) + string(buf)
}
