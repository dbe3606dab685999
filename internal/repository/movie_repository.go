// Package repository contains data access logic for the booking domain.
// This file covers movies and their theater scheduling scope.  A movie
// with no movie_theaters rows is scheduled in every theater.
package repository

import (
    "context"
    "database/sql"
    "errors"
    "strings"

    "github.com/cinebook/movie-ticket-booking/internal/model"
)

// ErrMovieNotFound indicates that a movie was not located in the DB.
var ErrMovieNotFound = errors.New("movie not found")

// MovieRepo manages persistence for movies.
type MovieRepo struct {
    db *sql.DB
}

// NewMovieRepo constructs a MovieRepo with the given DB handle.
func NewMovieRepo(db *sql.DB) *MovieRepo { return &MovieRepo{db: db} }

// NormalizeTrailerLink rewrites a YouTube watch URL into its embeddable
// form.  Links that are not YouTube watch URLs pass through untouched.
func NormalizeTrailerLink(link string) string {
    if strings.Contains(link, "youtube.com/watch?v=") {
        return strings.Replace(link, "watch?v=", "embed/", 1)
    }
    return link
}

// Create inserts a new movie and assigns the generated ID back to the
// struct.  The trailer link is normalized before writing.
func (r *MovieRepo) Create(ctx context.Context, m *model.Movie) error {
    m.TrailerURL = NormalizeTrailerLink(m.TrailerURL)
    const q = `INSERT INTO movies (title, description, duration_min, release_date, poster_url, trailer_url)
               VALUES (?, ?, ?, ?, ?, ?)`
    res, err := r.db.ExecContext(ctx, q,
        m.Title, m.Description, m.DurationMin, m.ReleaseDate.UTC().Format("2006-01-02"), m.PosterURL, m.TrailerURL,
    )
    if err != nil {
        return err
    }
    id, err := res.LastInsertId()
    if err != nil {
        return err
    }
    m.ID = uint64(id)
    return nil
}

// Update rewrites all editable fields of a movie.  The trailer link is
// normalized the same way as on create.  Returns ErrMovieNotFound when
// the row does not exist.
func (r *MovieRepo) Update(ctx context.Context, m *model.Movie) error {
    m.TrailerURL = NormalizeTrailerLink(m.TrailerURL)
    const q = `UPDATE movies
               SET title = ?, description = ?, duration_min = ?, release_date = ?, poster_url = ?, trailer_url = ?, updated_at = CURRENT_TIMESTAMP
               WHERE id = ?`
    res, err := r.db.ExecContext(ctx, q,
        m.Title, m.Description, m.DurationMin, m.ReleaseDate.UTC().Format("2006-01-02"), m.PosterURL, m.TrailerURL, m.ID,
    )
    if err != nil {
        return err
    }
    if n, _ := res.RowsAffected(); n == 0 {
        // Distinguish "missing" from "identical values".
        var one int
        if err := r.db.QueryRowContext(ctx, `SELECT 1 FROM movies WHERE id = ?`, m.ID).Scan(&one); err != nil {
            if errors.Is(err, sql.ErrNoRows) {
                return ErrMovieNotFound
            }
            return err
        }
    }
    return nil
}

// Delete removes a movie.  Dependent shows, seats and prices are removed
// by ON DELETE CASCADE foreign keys.
func (r *MovieRepo) Delete(ctx context.Context, id uint64) error {
    res, err := r.db.ExecContext(ctx, `DELETE FROM movies WHERE id = ?`, id)
    if err != nil {
        return err
    }
    if n, _ := res.RowsAffected(); n == 0 {
        return ErrMovieNotFound
    }
    return nil
}

// GetByID retrieves a movie by its ID.  Returns ErrMovieNotFound when
// there is no matching row.
func (r *MovieRepo) GetByID(ctx context.Context, id uint64) (*model.Movie, error) {
    const q = `SELECT id, title, description, duration_min, release_date, poster_url, trailer_url, created_at, updated_at
               FROM movies WHERE id = ?`
    var m model.Movie
    err := r.db.QueryRowContext(ctx, q, id).Scan(
        &m.ID, &m.Title, &m.Description, &m.DurationMin, &m.ReleaseDate,
        &m.PosterURL, &m.TrailerURL, &m.CreatedAt, &m.UpdatedAt,
    )
    if err != nil {
        if errors.Is(err, sql.ErrNoRows) {
            return nil, ErrMovieNotFound
        }
        return nil, err
    }
    return &m, nil
}

// List returns all movies ordered by title.
func (r *MovieRepo) List(ctx context.Context) ([]model.Movie, error) {
    const q = `SELECT id, title, description, duration_min, release_date, poster_url, trailer_url, created_at, updated_at
               FROM movies ORDER BY title ASC`
    rows, err := r.db.QueryContext(ctx, q)
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    var result []model.Movie
    for rows.Next() {
        var m model.Movie
        if err := rows.Scan(
            &m.ID, &m.Title, &m.Description, &m.DurationMin, &m.ReleaseDate,
            &m.PosterURL, &m.TrailerURL, &m.CreatedAt, &m.UpdatedAt,
        ); err != nil {
            return nil, err
        }
        result = append(result, m)
    }
    if err := rows.Err(); err != nil {
        return nil, err
    }
    return result, nil
}

// ListByTheater returns the distinct movies that have at least one show
// scheduled in the given theater, ordered by title.
func (r *MovieRepo) ListByTheater(ctx context.Context, theaterID uint64) ([]model.Movie, error) {
    const q = `SELECT DISTINCT m.id, m.title, m.description, m.duration_min, m.release_date, m.poster_url, m.trailer_url, m.created_at, m.updated_at
               FROM movies m
               JOIN shows s ON s.movie_id = m.id
               WHERE s.theater_id = ?
               ORDER BY m.title ASC`
    rows, err := r.db.QueryContext(ctx, q, theaterID)
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    var result []model.Movie
    for rows.Next() {
        var m model.Movie
        if err := rows.Scan(
            &m.ID, &m.Title, &m.Description, &m.DurationMin, &m.ReleaseDate,
            &m.PosterURL, &m.TrailerURL, &m.CreatedAt, &m.UpdatedAt,
        ); err != nil {
            return nil, err
        }
        result = append(result, m)
    }
    if err := rows.Err(); err != nil {
        return nil, err
    }
    return result, nil
}

// SetTheaters replaces the explicit theater scope of a movie.  Passing an
// empty slice clears the scope, meaning "schedule everywhere".
func (r *MovieRepo) SetTheaters(ctx context.Context, movieID uint64, theaterIDs []uint64) error {
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
    if _, err = tx.ExecContext(ctx, `DELETE FROM movie_theaters WHERE movie_id = ?`, movieID); err != nil {
        return err
    }
    if len(theaterIDs) > 0 {
        query := `INSERT INTO movie_theaters (movie_id, theater_id) VALUES `
        args := make([]interface{}, 0, len(theaterIDs)*2)
        for i, tid := range theaterIDs {
            if i > 0 {
                query += ","
            }
            query += "(?, ?)"
            args = append(args, movieID, tid)
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

// TheaterIDs returns the explicit theater scope of a movie.  An empty
// result means the movie is scheduled in every theater.
func (r *MovieRepo) TheaterIDs(ctx context.Context, movieID uint64) ([]uint64, error) {
    rows, err := r.db.QueryContext(ctx,
        `SELECT theater_id FROM movie_theaters WHERE movie_id = ?`, movieID)
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    var ids []uint64
    for rows.Next() {
        var id uint64
        if err := rows.Scan(&id); err != nil {
            return nil, err
        }
        ids = append(ids, id)
    }
    return ids, rows.Err()
}
