package identity

import (
	"context"
	"errors"
	"fmt"
	"regexp"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/crypto/bcrypt"
)

const minPasswordLen = 8

var emailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

type PgProvider struct {
	pool *pgxpool.Pool
}

func NewPgProvider(pool *pgxpool.Pool) *PgProvider {
	return &PgProvider{pool: pool}
}

func (p *PgProvider) SignUp(ctx context.Context, kind SubjectKind, email, password string) (string, error) {
	if !emailPattern.MatchString(email) {
		return "", ErrInvalidEmail
	}
	if len(password) < minPasswordLen {
		return "", ErrWeakPassword
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}

	id := uuid.New().String()
	_, err = p.pool.Exec(ctx,
		`INSERT INTO accounts (id, kind, email, password_hash) VALUES ($1,$2,$3,$4)`,
		id, kind, email, string(hash),
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return "", ErrAccountExists
		}
		return "", fmt.Errorf("create account: %w", err)
	}

	return id, nil
}

func (p *PgProvider) SignIn(ctx context.Context, kind SubjectKind, email, password string) (string, error) {
	var id, hash string
	err := p.pool.QueryRow(ctx,
		`SELECT id, password_hash FROM accounts WHERE kind = $1 AND email = $2`,
		kind, email,
	).Scan(&id, &hash)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			// indistinguishable from a wrong password on purpose
			return "", ErrInvalidCredentials
		}
		return "", fmt.Errorf("load account: %w", err)
	}

	if bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) != nil {
		return "", ErrInvalidCredentials
	}

	return id, nil
}

// KindOf resolves which account population a subject belongs to.
func (p *PgProvider) KindOf(ctx context.Context, subjectID string) (SubjectKind, error) {
	var kind SubjectKind
	err := p.pool.QueryRow(ctx,
		`SELECT kind FROM accounts WHERE id = $1`, subjectID,
	).Scan(&kind)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", ErrInvalidCredentials
		}
		return "", fmt.Errorf("load account kind: %w", err)
	}
	return kind, nil
}

// SignOut revokes every live refresh token for the subject. Access tokens
// already issued simply age out.
func (p *PgProvider) SignOut(ctx context.Context, subjectID string) error {
	_, err := p.pool.Exec(ctx,
		`UPDATE refresh_tokens SET revoked = true WHERE subject_id = $1 AND revoked = false`,
		subjectID,
	)
	if err != nil {
		return fmt.Errorf("revoke refresh tokens: %w", err)
	}
	return nil
}
