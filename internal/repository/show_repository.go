// Package repository contains data access logic for Show domain operations.
// A Show is one scheduled screening of a movie at a theater and time.  The
// (movie, theater, show_time) triple is unique so that the scheduled
// provisioning job can re-run without creating duplicate rows.
package repository

import (
    "context"
    "database/sql"
    "errors"
    "time"

    "github.com/cinebook/movie-ticket-booking/internal/model"
)

// ErrShowNotFound indicates that a show was not located in the DB.
var ErrShowNotFound = errors.New("show not found")

// ShowRepo manages persistence for shows.
type ShowRepo struct {
    db *sql.DB
}

// NewShowRepo constructs a ShowRepo with the given DB handle.
func NewShowRepo(db *sql.DB) *ShowRepo { return &ShowRepo{db: db} }

// DB exposes the underlying sql.DB.  It allows callers to begin
// transactions spanning multiple repositories.
func (r *ShowRepo) DB() *sql.DB { return r.db }

// Ensure inserts a show for the given slot unless one already exists.
// It returns the show ID and whether a new row was created.  The unique
// key on (movie_id, theater_id, show_time) makes this safe to call from
// concurrent scheduler runs.
func (r *ShowRepo) Ensure(ctx context.Context, movieID, theaterID uint64, showTime time.Time) (uint64, bool, error) {
    ts := showTime.UTC().Format("2006-01-02 15:04:05")
    res, err := r.db.ExecContext(ctx,
        `INSERT IGNORE INTO shows (movie_id, theater_id, show_time) VALUES (?, ?, ?)`,
        movieID, theaterID, ts,
    )
    if err != nil {
        return 0, false, err
    }
    if n, _ := res.RowsAffected(); n > 0 {
        id, err := res.LastInsertId()
        if err != nil {
            return 0, false, err
        }
        return uint64(id), true, nil
    }
    // Row already existed; look up its ID.
    var id uint64
    err = r.db.QueryRowContext(ctx,
        `SELECT id FROM shows WHERE movie_id = ? AND theater_id = ? AND show_time = ?`,
        movieID, theaterID, ts,
    ).Scan(&id)
    if err != nil {
        return 0, false, err
    }
    return id, false, nil
}

// GetByID retrieves a show by its ID.  It returns ErrShowNotFound if
// there is no matching row.
func (r *ShowRepo) GetByID(ctx context.Context, id uint64) (*model.Show, error) {
    const q = `SELECT id, movie_id, theater_id, show_time, created_at, updated_at FROM shows WHERE id = ?`
    var s model.Show
    err := r.db.QueryRowContext(ctx, q, id).Scan(
        &s.ID, &s.MovieID, &s.TheaterID, &s.ShowTime, &s.CreatedAt, &s.UpdatedAt,
    )
    if err != nil {
        if errors.Is(err, sql.ErrNoRows) {
            return nil, ErrShowNotFound
        }
        return nil, err
    }
    return &s, nil
}

// ListByMovieOn returns the shows of a movie on one calendar day (UTC),
// ordered by start time.  The booking flow always queries tomorrow.
func (r *ShowRepo) ListByMovieOn(ctx context.Context, movieID uint64, day time.Time) ([]model.Show, error) {
    const q = `SELECT id, movie_id, theater_id, show_time, created_at, updated_at
               FROM shows
               WHERE movie_id = ? AND DATE(show_time) = ?
               ORDER BY show_time ASC`
    return r.list(ctx, q, movieID, day.UTC().Format("2006-01-02"))
}

// ListByTheaterAndMovieOn returns the shows of one movie in one theater
// on one calendar day (UTC), ordered by start time.
func (r *ShowRepo) ListByTheaterAndMovieOn(ctx context.Context, theaterID, movieID uint64, day time.Time) ([]model.Show, error) {
    const q = `SELECT id, movie_id, theater_id, show_time, created_at, updated_at
               FROM shows
               WHERE theater_id = ? AND movie_id = ? AND DATE(show_time) = ?
               ORDER BY show_time ASC`
    return r.list(ctx, q, theaterID, movieID, day.UTC().Format("2006-01-02"))
}

func (r *ShowRepo) list(ctx context.Context, q string, args ...interface{}) ([]model.Show, error) {
    rows, err := r.db.QueryContext(ctx, q, args...)
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    var result []model.Show
    for rows.Next() {
        var s model.Show
        if err := rows.Scan(&s.ID, &s.MovieID, &s.TheaterID, &s.ShowTime, &s.CreatedAt, &s.UpdatedAt); err != nil {
            return nil, err
        }
        result = append(result, s)
    }
    if err := rows.Err(); err != nil {
        return nil, err
    }
    return result, nil
}
