package repository

import (
    "context"
    "database/sql"
    "errors"
    "strings"

    "github.com/cinebook/movie-ticket-booking/internal/model"
)

// ErrSeatClassNotFound indicates a seat class lookup by ID or name that
// matched nothing.  Show provisioning treats a missing "Premium" or
// "Regular" class as a hard failure surfaced to the caller.
var ErrSeatClassNotFound = errors.New("seat class not found")

// SeatClassRepo manages persistence for seat classes (pricing tiers).
type SeatClassRepo struct {
    db *sql.DB
}

// NewSeatClassRepo constructs a SeatClassRepo with the given DB handle.
func NewSeatClassRepo(db *sql.DB) *SeatClassRepo { return &SeatClassRepo{db: db} }

// Create inserts a new seat class.  Duplicate names yield ErrConflict
// since the tier name is the unique key of the table.
func (r *SeatClassRepo) Create(ctx context.Context, sc *model.SeatClass) error {
    res, err := r.db.ExecContext(ctx,
        `INSERT INTO seat_classes (name, color, default_price_cents) VALUES (?, ?, ?)`,
        sc.Name, sc.Color, sc.DefaultPriceCents)
    if err != nil {
        if isDuplicateKey(err) {
            return ErrConflict
        }
        return err
    }
    id, err := res.LastInsertId()
    if err != nil {
        return err
    }
    sc.ID = uint64(id)
    return nil
}

// Update rewrites the color and default price of a seat class.  The name
// is the tier key and cannot be renamed once created.  Price propagation
// to existing show prices is the service layer's job, invoked explicitly
// after this call succeeds.
func (r *SeatClassRepo) Update(ctx context.Context, sc *model.SeatClass) error {
    res, err := r.db.ExecContext(ctx,
        `UPDATE seat_classes SET color = ?, default_price_cents = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`,
        sc.Color, sc.DefaultPriceCents, sc.ID)
    if err != nil {
        return err
    }
    if n, _ := res.RowsAffected(); n == 0 {
        var one int
        if err := r.db.QueryRowContext(ctx, `SELECT 1 FROM seat_classes WHERE id = ?`, sc.ID).Scan(&one); err != nil {
            if errors.Is(err, sql.ErrNoRows) {
                return ErrSeatClassNotFound
            }
            return err
        }
    }
    return nil
}

// Delete removes a seat class.  Classes referenced by seats cannot be
// deleted; the FK constraint surfaces as ErrConflict.
func (r *SeatClassRepo) Delete(ctx context.Context, id uint64) error {
    res, err := r.db.ExecContext(ctx, `DELETE FROM seat_classes WHERE id = ?`, id)
    if err != nil {
        if isForeignKeyViolation(err) {
            return ErrConflict
        }
        return err
    }
    if n, _ := res.RowsAffected(); n == 0 {
        return ErrSeatClassNotFound
    }
    return nil
}

// GetByID retrieves a seat class by primary key.
func (r *SeatClassRepo) GetByID(ctx context.Context, id uint64) (*model.SeatClass, error) {
    const q = `SELECT id, name, color, default_price_cents, created_at, updated_at FROM seat_classes WHERE id = ?`
    return r.scanOne(r.db.QueryRowContext(ctx, q, id))
}

// GetByName retrieves a seat class by its unique tier name.
func (r *SeatClassRepo) GetByName(ctx context.Context, name string) (*model.SeatClass, error) {
    const q = `SELECT id, name, color, default_price_cents, created_at, updated_at FROM seat_classes WHERE name = ?`
    return r.scanOne(r.db.QueryRowContext(ctx, q, name))
}

func (r *SeatClassRepo) scanOne(row *sql.Row) (*model.SeatClass, error) {
    var sc model.SeatClass
    err := row.Scan(&sc.ID, &sc.Name, &sc.Color, &sc.DefaultPriceCents, &sc.CreatedAt, &sc.UpdatedAt)
    if err != nil {
        if errors.Is(err, sql.ErrNoRows) {
            return nil, ErrSeatClassNotFound
        }
        return nil, err
    }
    return &sc, nil
}

// List returns all seat classes ordered by name.
func (r *SeatClassRepo) List(ctx context.Context) ([]model.SeatClass, error) {
    rows, err := r.db.QueryContext(ctx,
        `SELECT id, name, color, default_price_cents, created_at, updated_at FROM seat_classes ORDER BY name ASC`)
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    var result []model.SeatClass
    for rows.Next() {
        var sc model.SeatClass
        if err := rows.Scan(&sc.ID, &sc.Name, &sc.Color, &sc.DefaultPriceCents, &sc.CreatedAt, &sc.UpdatedAt); err != nil {
            return nil, err
        }
        result = append(result, sc)
    }
    if err := rows.Err(); err != nil {
        return nil, err
    }
    return result, nil
}

// isForeignKeyViolation reports whether err is a MySQL FK constraint
// error (1451/1452).
func isForeignKeyViolation(err error) bool {
    if err == nil {
        return false
    }
    msg := err.Error()
    return strings.Contains(msg, "Error 1451") || strings.Contains(msg, "Error 1452")
}
