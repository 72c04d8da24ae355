// Package share implements the share-link gate: opaque tokens that
// grant time-limited access to the ledger without a user account.
package share

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/speedsyndicate/ledger/internal/models"
)

// DefaultTTL is how long a freshly created share link stays valid.
const DefaultTTL = 30 * 24 * time.Hour

// LinkStore is the slice of the storage layer the gate needs.
type LinkStore interface {
	CreateShareLink(ctx context.Context, link models.ShareLink) error
	GetShareLink(ctx context.Context, token string) (*models.ShareLink, error)
}

// Gate creates and validates share tokens.
//
// Validation fails closed only when the backend is reachable and the
// token is known-expired or unknown. On any backend error it fails
// OPEN and grants access: for this internal tool, locking out
// legitimate link holders during an outage is considered worse than
// briefly admitting an invalid token. This trade-off is intentional;
// do not silently tighten it.
type Gate struct {
	store LinkStore
	ttl   time.Duration
	now   func() time.Time
}

// Option configures a Gate.
type Option func(*Gate)

// WithTTL overrides the default 30-day link lifetime.
func WithTTL(ttl time.Duration) Option {
	return func(g *Gate) { g.ttl = ttl }
}

// WithClock injects the time source, for expiry tests.
func WithClock(now func() time.Time) Option {
	return func(g *Gate) { g.now = now }
}

// NewGate creates a gate over the given link store.
func NewGate(store LinkStore, opts ...Option) *Gate {
	g := &Gate{
		store: store,
		ttl:   DefaultTTL,
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Create generates a fresh opaque token, persists it with an expiry
// timestamp and returns it.
func (g *Gate) Create(ctx context.Context) (string, error) {
	now := g.now()
	link := models.ShareLink{
		ID:        uuid.New().String(),
		Token:     uuid.New().String(),
		CreatedAt: now.Unix(),
		ExpiresAt: now.Add(g.ttl).Unix(),
	}
	if err := g.store.CreateShareLink(ctx, link); err != nil {
		return "", fmt.Errorf("failed to create share link: %w", err)
	}
	return link.Token, nil
}

// Validate reports whether the token currently grants access.
func (g *Gate) Validate(ctx context.Context, token string) bool {
	link, err := g.store.GetShareLink(ctx, token)
	if err != nil {
		// Fail open: availability over strict access control.
		slog.Warn("share link lookup failed, granting access", "error", err)
		return true
	}
	if link == nil {
		return false
	}
	return !link.Expired(g.now())
}
