package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/speedsyndicate/ledger/internal/models"
)

// CreateShareLink persists a new share link row.
func (s *Store) CreateShareLink(ctx context.Context, link models.ShareLink) error {
	if link.ID == "" {
		link.ID = uuid.New().String()
	}
	if link.CreatedAt == 0 {
		link.CreatedAt = time.Now().Unix()
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO share_links (id, token, created_at, expires_at)
		 VALUES (?, ?, ?, ?)`,
		link.ID, link.Token, link.CreatedAt, link.ExpiresAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert share link: %w", err)
	}
	return nil
}

// GetShareLink returns the link for a token, or (nil, nil) when the
// token is unknown.
func (s *Store) GetShareLink(ctx context.Context, token string) (*models.ShareLink, error) {
	link := &models.ShareLink{}
	err := s.db.QueryRowContext(ctx,
		"SELECT id, token, created_at, expires_at FROM share_links WHERE token = ?",
		token,
	).Scan(&link.ID, &link.Token, &link.CreatedAt, &link.ExpiresAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get share link: %w", err)
	}
	return link, nil
}
