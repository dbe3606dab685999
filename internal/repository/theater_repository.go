package repository

import (
    "context"
    "database/sql"
    "errors"

    "github.com/cinebook/movie-ticket-booking/internal/model"
)

// ErrTheaterNotFound indicates that a theater was not located in the DB.
var ErrTheaterNotFound = errors.New("theater not found")

// TheaterRepo manages persistence for theaters.
type TheaterRepo struct {
    db *sql.DB
}

// NewTheaterRepo constructs a TheaterRepo with the given DB handle.
func NewTheaterRepo(db *sql.DB) *TheaterRepo { return &TheaterRepo{db: db} }

// Create inserts a new theater and assigns the generated ID back to the
// struct.
func (r *TheaterRepo) Create(ctx context.Context, t *model.Theater) error {
    res, err := r.db.ExecContext(ctx,
        `INSERT INTO theaters (name, city) VALUES (?, ?)`, t.Name, t.City)
    if err != nil {
        return err
    }
    id, err := res.LastInsertId()
    if err != nil {
        return err
    }
    t.ID = uint64(id)
    return nil
}

// Update rewrites name and city of a theater.
func (r *TheaterRepo) Update(ctx context.Context, t *model.Theater) error {
    res, err := r.db.ExecContext(ctx,
        `UPDATE theaters SET name = ?, city = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`,
        t.Name, t.City, t.ID)
    if err != nil {
        return err
    }
    if n, _ := res.RowsAffected(); n == 0 {
        var one int
        if err := r.db.QueryRowContext(ctx, `SELECT 1 FROM theaters WHERE id = ?`, t.ID).Scan(&one); err != nil {
            if errors.Is(err, sql.ErrNoRows) {
                return ErrTheaterNotFound
            }
            return err
        }
    }
    return nil
}

// Delete removes a theater.  Dependent shows cascade away.
func (r *TheaterRepo) Delete(ctx context.Context, id uint64) error {
    res, err := r.db.ExecContext(ctx, `DELETE FROM theaters WHERE id = ?`, id)
    if err != nil {
        return err
    }
    if n, _ := res.RowsAffected(); n == 0 {
        return ErrTheaterNotFound
    }
    return nil
}

// GetByID retrieves a theater by its ID.
func (r *TheaterRepo) GetByID(ctx context.Context, id uint64) (*model.Theater, error) {
    const q = `SELECT id, name, city, created_at, updated_at FROM theaters WHERE id = ?`
    var t model.Theater
    err := r.db.QueryRowContext(ctx, q, id).Scan(&t.ID, &t.Name, &t.City, &t.CreatedAt, &t.UpdatedAt)
    if err != nil {
        if errors.Is(err, sql.ErrNoRows) {
            return nil, ErrTheaterNotFound
        }
        return nil, err
    }
    return &t, nil
}

// List returns all theaters ordered by name.
func (r *TheaterRepo) List(ctx context.Context) ([]model.Theater, error) {
    rows, err := r.db.QueryContext(ctx,
        `SELECT id, name, city, created_at, updated_at FROM theaters ORDER BY name ASC`)
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    var result []model.Theater
    for rows.Next() {
        var t model.Theater
        if err := rows.Scan(&t.ID, &t.Name, &t.City, &t.CreatedAt, &t.UpdatedAt); err != nil {
            return nil, err
        }
        result = append(result, t)
    }
    if err := rows.Err(); err != nil {
        return nil, err
    }
    return result, nil
}
