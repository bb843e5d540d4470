package auth

import (
	"context"
	"database/sql"
)

type PostgresTokenRepository struct {
	db *sql.DB
}

func NewPostgresTokenRepository(db *sql.DB) *PostgresTokenRepository {
	return &PostgresTokenRepository{db: db}
}

func (r *PostgresTokenRepository) Create(ctx context.Context, t AuthToken) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO auth_tokens (jti, customer_id, token, expires_at) VALUES ($1, $2, $3, $4)`,
		t.JTI, t.CustomerID, t.Token, t.ExpiresAt)
	return err
}

func (r *PostgresTokenRepository) FindByJTI(ctx context.Context, jti string) (AuthToken, error) {
	var t AuthToken
	err := r.db.QueryRowContext(ctx,
		`SELECT jti, customer_id, token, expires_at FROM auth_tokens WHERE jti = $1`, jti).
		Scan(&t.JTI, &t.CustomerID, &t.Token, &t.ExpiresAt)
	if err == sql.ErrNoRows {
		return AuthToken{}, ErrTokenNotFound
	}
	if err != nil {
		return AuthToken{}, err
	}
	return t, nil
}

func (r *PostgresTokenRepository) DeleteByJTI(ctx context.Context, jti string) (bool, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM auth_tokens WHERE jti = $1`, jti)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
