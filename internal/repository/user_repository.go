package repository

import (
    "context"
    "database/sql"
    "errors"
    "strings"

    "github.com/cinebook/movie-ticket-booking/internal/model"
    "github.com/cinebook/movie-ticket-booking/internal/utils"
)

// ErrEmailExists indicates a registration attempt with an email that is
// already taken.
var ErrEmailExists = errors.New("email already exists")

// ErrUserNotFound indicates the requested user row does not exist.
var ErrUserNotFound = errors.New("user not found")

// UserRepo provides persistence for users and their one-to-one profiles.
type UserRepo struct {
    db *sql.DB
}

// NewUserRepo constructs a UserRepo bound to the given DB handle.
func NewUserRepo(db *sql.DB) *UserRepo { return &UserRepo{db: db} }

// Create inserts a user together with its profile row in one transaction
// and returns the new user ID.  The password is bcrypt-hashed with the
// provided cost.  A duplicate email yields ErrEmailExists.
func (r *UserRepo) Create(ctx context.Context, email, password, role string, bcryptCost int) (uint64, error) {
    hash, err := utils.HashPassword(password, bcryptCost)
    if err != nil {
        return 0, err
    }
    tx, err := r.db.BeginTx(ctx, nil)
    if err != nil {
        return 0, err
    }
    committed := false
    defer func() {
        if !committed {
            _ = tx.Rollback()
        }
    }()
    res, err := tx.ExecContext(ctx,
        `INSERT INTO users (email, password_hash, role) VALUES (?, ?, ?)`,
        email, hash, role,
    )
    if err != nil {
        if isDuplicateKey(err) {
            return 0, ErrEmailExists
        }
        return 0, err
    }
    id, err := res.LastInsertId()
    if err != nil {
        return 0, err
    }
    // The profile mirrors the registration email until the user edits it.
    if _, err = tx.ExecContext(ctx,
        `INSERT INTO user_profiles (user_id, email) VALUES (?, ?)`,
        uint64(id), email,
    ); err != nil {
        return 0, err
    }
    if err = tx.Commit(); err != nil {
        return 0, err
    }
    committed = true
    return uint64(id), nil
}

// GetByEmail fetches a user by email.  Returns ErrUserNotFound when no
// row matches.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*model.User, error) {
    const q = `SELECT id, email, password_hash, role, created_at, updated_at FROM users WHERE email = ?`
    var u model.User
    err := r.db.QueryRowContext(ctx, q, email).Scan(
        &u.ID, &u.Email, &u.PasswordHash, &u.Role, &u.CreatedAt, &u.UpdatedAt,
    )
    if err != nil {
        if errors.Is(err, sql.ErrNoRows) {
            return nil, ErrUserNotFound
        }
        return nil, err
    }
    return &u, nil
}

// GetByID fetches a user by primary key.  Returns ErrUserNotFound when no
// row matches.
func (r *UserRepo) GetByID(ctx context.Context, id uint64) (*model.User, error) {
    const q = `SELECT id, email, password_hash, role, created_at, updated_at FROM users WHERE id = ?`
    var u model.User
    err := r.db.QueryRowContext(ctx, q, id).Scan(
        &u.ID, &u.Email, &u.PasswordHash, &u.Role, &u.CreatedAt, &u.UpdatedAt,
    )
    if err != nil {
        if errors.Is(err, sql.ErrNoRows) {
            return nil, ErrUserNotFound
        }
        return nil, err
    }
    return &u, nil
}

// GetProfile fetches the profile belonging to a user.
func (r *UserRepo) GetProfile(ctx context.Context, userID uint64) (*model.UserProfile, error) {
    const q = `SELECT id, user_id, email FROM user_profiles WHERE user_id = ?`
    var p model.UserProfile
    err := r.db.QueryRowContext(ctx, q, userID).Scan(&p.ID, &p.UserID, &p.Email)
    if err != nil {
        if errors.Is(err, sql.ErrNoRows) {
            return nil, ErrUserNotFound
        }
        return nil, err
    }
    return &p, nil
}

// isDuplicateKey reports whether err is a MySQL duplicate-entry error
// (error 1062).  Matching on the message avoids importing the driver's
// error type here.
func isDuplicateKey(err error) bool {
    return err != nil && strings.Contains(err.Error(), "Error 1062")
}
