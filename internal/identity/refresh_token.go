package identity

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type RefreshToken struct {
	ID         string
	SubjectID  string
	TokenHash  string
	ExpiresAt  time.Time
	Revoked    bool
	ReplacedBy *string
	CreatedAt  time.Time
}

func (p *PgProvider) CreateRefreshToken(ctx context.Context, subjectID, tokenHash string, expiresAt time.Time) (string, error) {
	id := uuid.New().String()
	_, err := p.pool.Exec(ctx,
		`INSERT INTO refresh_tokens (id, subject_id, token_hash, expires_at) VALUES ($1,$2,$3,$4)`,
		id, subjectID, tokenHash, expiresAt,
	)
	return id, err
}

func (p *PgProvider) GetRefreshTokenByHash(ctx context.Context, tokenHash string) (*RefreshToken, error) {
	rt := &RefreshToken{}
	err := p.pool.QueryRow(ctx,
		`SELECT id, subject_id, token_hash, expires_at, revoked, replaced_by, created_at
		 FROM refresh_tokens WHERE token_hash = $1`, tokenHash,
	).Scan(&rt.ID, &rt.SubjectID, &rt.TokenHash, &rt.ExpiresAt, &rt.Revoked, &rt.ReplacedBy, &rt.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrTokenNotFound
		}
		return nil, err
	}
	if rt.Revoked {
		return nil, ErrTokenRevoked
	}
	if rt.ExpiresAt.Before(time.Now()) {
		return nil, ErrTokenExpired
	}
	return rt, nil
}

// RotateRefreshToken revokes the old token, creates its replacement and
// links the two inside one transaction.
func (p *PgProvider) RotateRefreshToken(ctx context.Context, oldID, subjectID, newHash string, newExpiry time.Time) (string, error) {
	tx, err := p.pool.Begin(ctx)
	if err != nil {
		return "", err
	}
	defer tx.Rollback(ctx)

	newID := uuid.New().String()

	// insert the replacement first: replaced_by references this row
	_, err = tx.Exec(ctx,
		`INSERT INTO refresh_tokens (id, subject_id, token_hash, expires_at) VALUES ($1,$2,$3,$4)`,
		newID, subjectID, newHash, newExpiry,
	)
	if err != nil {
		return "", err
	}

	_, err = tx.Exec(ctx,
		`UPDATE refresh_tokens SET revoked = true, replaced_by = $1 WHERE id = $2`,
		newID, oldID,
	)
	if err != nil {
		return "", err
	}

	if err := tx.Commit(ctx); err != nil {
		return "", fmt.Errorf("commit token rotation: %w", err)
	}
	return newID, nil
}
