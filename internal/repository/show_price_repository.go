package repository

import (
    "context"
    "database/sql"

    "github.com/cinebook/movie-ticket-booking/internal/model"
)

// ShowPriceRepo encapsulates database operations for per-show seat class
// prices.  One row exists per (show, seat_class); rows are seeded from
// the class default at provisioning time and bulk-overwritten whenever
// the class default changes.
type ShowPriceRepo struct {
    db *sql.DB
}

// NewShowPriceRepo constructs a ShowPriceRepo given a DB handle.
func NewShowPriceRepo(db *sql.DB) *ShowPriceRepo { return &ShowPriceRepo{db: db} }

// SeedIgnore inserts the given price rows, skipping rows whose
// (show_id, seat_class_id) already exists.  Like seat creation, this
// keeps provisioning idempotent and preserves manual per-show edits on
// re-runs.
func (r *ShowPriceRepo) SeedIgnore(ctx context.Context, prices []model.ShowPrice) error {
    if len(prices) == 0 {
        return nil
    }
    query := `INSERT IGNORE INTO show_prices (show_id, seat_class_id, price_cents) VALUES `
    args := make([]interface{}, 0, len(prices)*3)
    for i, p := range prices {
        if i > 0 {
            query += ","
        }
        query += "(?, ?, ?)"
        args = append(args, p.ShowID, p.SeatClassID, p.PriceCents)
    }
    _, err := r.db.ExecContext(ctx, query, args...)
    return err
}

// UpdatePriceByClass overwrites the price of every show_prices row
// referencing the given seat class, unconditionally.  Manually edited
// per-show prices are discarded; there is no versioning or audit trail.
// It returns the number of rows rewritten.
func (r *ShowPriceRepo) UpdatePriceByClass(ctx context.Context, seatClassID uint64, priceCents uint32) (int64, error) {
    res, err := r.db.ExecContext(ctx,
        `UPDATE show_prices SET price_cents = ? WHERE seat_class_id = ?`,
        priceCents, seatClassID,
    )
    if err != nil {
        return 0, err
    }
    return res.RowsAffected()
}

// PriceMapByShow returns the prices of a show keyed by seat class ID.
func (r *ShowPriceRepo) PriceMapByShow(ctx context.Context, showID uint64) (map[uint64]uint32, error) {
    rows, err := r.db.QueryContext(ctx,
        `SELECT seat_class_id, price_cents FROM show_prices WHERE show_id = ?`, showID)
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    m := make(map[uint64]uint32)
    for rows.Next() {
        var classID uint64
        var cents uint32
        if err := rows.Scan(&classID, &cents); err != nil {
            return nil, err
        }
        m[classID] = cents
    }
    return m, rows.Err()
}

// PricesByClassName returns the prices of a show keyed by seat class
// name, for the public price endpoint.
func (r *ShowPriceRepo) PricesByClassName(ctx context.Context, showID uint64) (map[string]uint32, error) {
    const q = `SELECT sc.name, sp.price_cents
               FROM show_prices sp
               JOIN seat_classes sc ON sc.id = sp.seat_class_id
               WHERE sp.show_id = ?`
    rows, err := r.db.QueryContext(ctx, q, showID)
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    m := make(map[string]uint32)
    for rows.Next() {
        var name string
        var cents uint32
        if err := rows.Scan(&name, &cents); err != nil {
            return nil, err
        }
        m[name] = cents
    }
    return m, rows.Err()
}
