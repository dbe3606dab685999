package repository

import (
    "context"
    "database/sql"
    "errors"
    "time"

    "github.com/cinebook/movie-ticket-booking/internal/model"
)

// ErrTokenNotFound indicates a refresh token hash that is unknown,
// expired or revoked.
var ErrTokenNotFound = errors.New("refresh token not found")

// TokenRepo stores hashed refresh tokens.  Only SHA-256 digests of the
// raw tokens are persisted so a leaked table cannot be replayed.
type TokenRepo struct {
    db *sql.DB
}

// NewTokenRepo constructs a TokenRepo bound to the given DB handle.
func NewTokenRepo(db *sql.DB) *TokenRepo { return &TokenRepo{db: db} }

// StoreRefresh persists a refresh token hash for a user.
func (r *TokenRepo) StoreRefresh(ctx context.Context, userID uint64, tokenHash string, expiresAt time.Time) error {
    _, err := r.db.ExecContext(ctx,
        `INSERT INTO refresh_tokens (user_id, token_hash, expires_at) VALUES (?, ?, ?)`,
        userID, tokenHash, expiresAt.UTC().Format("2006-01-02 15:04:05"),
    )
    return err
}

// GetActiveByHash returns the refresh token row matching the hash when it
// is neither expired nor revoked.
func (r *TokenRepo) GetActiveByHash(ctx context.Context, tokenHash string) (*model.RefreshToken, error) {
    const q = `SELECT id, user_id, token_hash, expires_at, revoked_at, created_at
               FROM refresh_tokens
               WHERE token_hash = ? AND revoked_at IS NULL AND expires_at > UTC_TIMESTAMP()`
    var t model.RefreshToken
    err := r.db.QueryRowContext(ctx, q, tokenHash).Scan(
        &t.ID, &t.UserID, &t.TokenHash, &t.ExpiresAt, &t.RevokedAt, &t.CreatedAt,
    )
    if err != nil {
        if errors.Is(err, sql.ErrNoRows) {
            return nil, ErrTokenNotFound
        }
        return nil, err
    }
    return &t, nil
}

// Revoke marks a refresh token as revoked.  Revoking an already revoked
// or unknown token returns ErrTokenNotFound.
func (r *TokenRepo) Revoke(ctx context.Context, tokenHash string) error {
    res, err := r.db.ExecContext(ctx,
        `UPDATE refresh_tokens SET revoked_at = UTC_TIMESTAMP() WHERE token_hash = ? AND revoked_at IS NULL`,
        tokenHash,
    )
    if err != nil {
        return err
    }
    if n, _ := res.RowsAffected(); n == 0 {
        return ErrTokenNotFound
    }
    return nil
}
