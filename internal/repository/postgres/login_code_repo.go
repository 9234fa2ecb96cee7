package postgres

import (
	"context"
	"crypto/subtle"
	"database/sql"
	"errors"
	"time"

	"courtshare/internal/domain"
)

type loginCodeRepository struct {
	DB *sql.DB
}

// NewLoginCodeRepository returns a domain.LoginCodeRepository implemented with Postgres.
func NewLoginCodeRepository(db *sql.DB) domain.LoginCodeRepository {
	return &loginCodeRepository{DB: db}
}

// Create stores the code as the email's only live code and resets its attempt count.
func (r *loginCodeRepository) Create(ctx context.Context, email, codeHash string, expiresAt time.Time) error {
	query := `
		INSERT INTO login_codes (email, code_hash, expires_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (email) DO UPDATE
		SET code_hash = EXCLUDED.code_hash, attempts = 0, expires_at = EXCLUDED.expires_at, created_at = NOW()
	`
	_, err := r.DB.ExecContext(ctx, query, email, codeHash, expiresAt)
	return domain.NewStorageError("upsert login code", err)
}

func (r *loginCodeRepository) Consume(ctx context.Context, email, codeHash string, maxAttempts int) (bool, error) {
	if maxAttempts < 1 {
		maxAttempts = 1
	}
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return false, domain.NewStorageError("begin tx", err)
	}
	defer tx.Rollback()

	query := `
		SELECT id, code_hash, attempts
		FROM login_codes
		WHERE email = $1 AND expires_at > NOW()
		FOR UPDATE
	`
	var (
		id       string
		stored   string
		attempts int
	)
	err = tx.QueryRowContext(ctx, query, email).Scan(&id, &stored, &attempts)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, domain.NewStorageError("get login code", err)
	}

	matched := subtle.ConstantTimeCompare([]byte(stored), []byte(codeHash)) == 1
	switch {
	case matched, attempts+1 >= maxAttempts:
		_, err = tx.ExecContext(ctx, `DELETE FROM login_codes WHERE id = $1`, id)
	default:
		_, err = tx.ExecContext(ctx, `UPDATE login_codes SET attempts = attempts + 1 WHERE id = $1`, id)
	}
	if err != nil {
		return false, domain.NewStorageError("consume login code", err)
	}
	if err := tx.Commit(); err != nil {
		return false, domain.NewStorageError("commit login code", err)
	}
	return matched, nil
}
