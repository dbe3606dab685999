package repository

import (
    "context"
    "database/sql"

    "github.com/cinebook/movie-ticket-booking/internal/model"
)

// SeatRepo encapsulates database operations for seats.  Seats exist per
// show and are created in bulk when the show is provisioned.
type SeatRepo struct {
    db *sql.DB
}

// NewSeatRepo constructs a SeatRepo given a DB handle.
func NewSeatRepo(db *sql.DB) *SeatRepo { return &SeatRepo{db: db} }

// CreateBulkIgnore inserts multiple seat records in one statement,
// skipping rows whose (show_id, seat_number) already exists.  This makes
// provisioning idempotent: re-running it for an already provisioned show
// is a no-op.
func (r *SeatRepo) CreateBulkIgnore(ctx context.Context, seats []model.Seat) error {
    if len(seats) == 0 {
        return nil
    }
    query := `INSERT IGNORE INTO seats (show_id, seat_number, seat_class_id) VALUES `
    args := make([]interface{}, 0, len(seats)*3)
    for i, s := range seats {
        if i > 0 {
            query += ","
        }
        query += "(?, ?, ?)"
        args = append(args, s.ShowID, s.SeatNumber, s.SeatClassID)
    }
    _, err := r.db.ExecContext(ctx, query, args...)
    return err
}

// ListByShow returns all seats of a show ordered by seat number.
func (r *SeatRepo) ListByShow(ctx context.Context, showID uint64) ([]model.Seat, error) {
    const q = `SELECT id, show_id, seat_number, seat_class_id FROM seats WHERE show_id = ? ORDER BY seat_number ASC`
    rows, err := r.db.QueryContext(ctx, q, showID)
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    return scanSeats(rows)
}

// ListByShowAndNumbers returns the seats of a show matching the given
// seat numbers.  Unknown numbers are simply absent from the result; the
// caller decides whether that is an error.
func (r *SeatRepo) ListByShowAndNumbers(ctx context.Context, showID uint64, numbers []string) ([]model.Seat, error) {
    if len(numbers) == 0 {
        return []model.Seat{}, nil
    }
    query := `SELECT id, show_id, seat_number, seat_class_id FROM seats WHERE show_id = ? AND seat_number IN (`
    args := make([]interface{}, 0, len(numbers)+1)
    args = append(args, showID)
    for i, n := range numbers {
        if i > 0 {
            query += ","
        }
        query += "?"
        args = append(args, n)
    }
    query += ")"
    rows, err := r.db.QueryContext(ctx, query, args...)
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    return scanSeats(rows)
}

// ListByIDs returns the seats with the given primary keys.
func (r *SeatRepo) ListByIDs(ctx context.Context, ids []uint64) ([]model.Seat, error) {
    if len(ids) == 0 {
        return []model.Seat{}, nil
    }
    query := `SELECT id, show_id, seat_number, seat_class_id FROM seats WHERE id IN (`
    args := make([]interface{}, 0, len(ids))
    for i, id := range ids {
        if i > 0 {
            query += ","
        }
        query += "?"
        args = append(args, id)
    }
    query += ")"
    rows, err := r.db.QueryContext(ctx, query, args...)
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    return scanSeats(rows)
}

func scanSeats(rows *sql.Rows) ([]model.Seat, error) {
    var result []model.Seat
    for rows.Next() {
        var s model.Seat
        if err := rows.Scan(&s.ID, &s.ShowID, &s.SeatNumber, &s.SeatClassID); err != nil {
            return nil, err
        }
        result = append(result, s)
    }
    if err := rows.Err(); err != nil {
        return nil, err
    }
    return result, nil
}
