package repository

import (
    "context"
    "database/sql"
    "time"

    "github.com/cinebook/movie-ticket-booking/internal/model"
)

// SeatHoldRepo provides data access to the seat_holds table.  Holds
// stage a user's seat selection between the selection and payment steps
// and expire automatically, which replaces the opaque session storage of
// earlier designs.  All timestamps are UTC.
type SeatHoldRepo struct {
    db *sql.DB
}

// NewSeatHoldRepo returns a new SeatHoldRepo bound to the provided database.
func NewSeatHoldRepo(db *sql.DB) *SeatHoldRepo { return &SeatHoldRepo{db: db} }

// ReplaceForUserShow atomically replaces the caller's staged selection
// for a show.  Within one transaction it purges the show's expired holds
// (opportunistic cleanup), deletes the user's previous holds on every
// show of the same movie, and inserts one hold per seat sharing the
// given token and expiry.  Clearing movie-wide keeps one selection per
// (user, movie): re-staging on a different show of the movie must not
// leave stale holds behind, or recovery would mix seats of two shows
// into one booking.
func (r *SeatHoldRepo) ReplaceForUserShow(ctx context.Context, userID, showID uint64, seatIDs []uint64, token string, expiresAt time.Time) error {
    tx, err := r.db.BeginTx(ctx, nil)
    if err != nil {
        return err
    }
    committed := false
    defer func() {
        if !committed {
            _ = tx.Rollback()
        }
    }()
    if _, err = tx.ExecContext(ctx,
        `DELETE FROM seat_holds WHERE show_id = ? AND expires_at <= UTC_TIMESTAMP()`, showID,
    ); err != nil {
        return err
    }
    if _, err = tx.ExecContext(ctx,
        `DELETE sh FROM seat_holds sh
         JOIN shows s ON s.id = sh.show_id
         WHERE sh.user_id = ? AND s.movie_id = (SELECT movie_id FROM shows WHERE id = ?)`,
        userID, showID,
    ); err != nil {
        return err
    }
    if len(seatIDs) > 0 {
        query := `INSERT INTO seat_holds (user_id, show_id, seat_id, hold_token, expires_at) VALUES `
        args := make([]interface{}, 0, len(seatIDs)*5)
        exp := expiresAt.UTC().Format("2006-01-02 15:04:05")
        for i, sid := range seatIDs {
            if i > 0 {
                query += ","
            }
            query += "(?, ?, ?, ?, ?)"
            args = append(args, userID, showID, sid, token, exp)
        }
        if _, err = tx.ExecContext(ctx, query, args...); err != nil {
            return err
        }
    }
    if err = tx.Commit(); err != nil {
        return err
    }
    committed = true
    return nil
}

// ActiveForUserAndMovie returns the caller's non-expired holds on any
// show of the given movie.  The payment step uses this to recover the
// staged selection without the client resending it.
func (r *SeatHoldRepo) ActiveForUserAndMovie(ctx context.Context, userID, movieID uint64) ([]model.SeatHold, error) {
    const q = `SELECT sh.id, sh.user_id, sh.show_id, sh.seat_id, sh.hold_token, sh.expires_at, sh.created_at
               FROM seat_holds sh
               JOIN shows s ON s.id = sh.show_id
               WHERE sh.user_id = ? AND s.movie_id = ? AND sh.expires_at > UTC_TIMESTAMP()
               ORDER BY sh.id ASC`
    rows, err := r.db.QueryContext(ctx, q, userID, movieID)
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    var holds []model.SeatHold
    for rows.Next() {
        var h model.SeatHold
        if err := rows.Scan(&h.ID, &h.UserID, &h.ShowID, &h.SeatID, &h.HoldToken, &h.ExpiresAt, &h.CreatedAt); err != nil {
            return nil, err
        }
        holds = append(holds, h)
    }
    return holds, rows.Err()
}

// HeldSeatNumbersByShow returns the seat numbers currently held on a
// show by users other than excludeUserID.  The seat map marks these so
// a second customer does not stage seats that are about to be bought.
func (r *SeatHoldRepo) HeldSeatNumbersByShow(ctx context.Context, showID, excludeUserID uint64) ([]string, error) {
    const q = `SELECT s.seat_number
               FROM seat_holds sh
               JOIN seats s ON s.id = sh.seat_id
               WHERE sh.show_id = ? AND sh.user_id <> ? AND sh.expires_at > UTC_TIMESTAMP()
               ORDER BY s.seat_number ASC`
    rows, err := r.db.QueryContext(ctx, q, showID, excludeUserID)
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    var numbers []string
    for rows.Next() {
        var n string
        if err := rows.Scan(&n); err != nil {
            return nil, err
        }
        numbers = append(numbers, n)
    }
    return numbers, rows.Err()
}
