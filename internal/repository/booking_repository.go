package repository

import (
    "context"
    "database/sql"
    "errors"

    "github.com/cinebook/movie-ticket-booking/internal/model"
)

// ErrBookingNotFound indicates that a booking was not located in the DB.
var ErrBookingNotFound = errors.New("booking not found")

// BookingSeat is a seat attached to a booking together with its class,
// as needed by the confirmation page and the admin report.
type BookingSeat struct {
    SeatID      uint64 // seats.id
    SeatNumber  string // seats.seat_number
    SeatClassID uint64 // seats.seat_class_id
    ClassName   string // seat_classes.name
}

// BookingRepo manages persistence for bookings and their seat links.
type BookingRepo struct {
    db *sql.DB
}

// NewBookingRepo constructs a BookingRepo with the given DB handle.
func NewBookingRepo(db *sql.DB) *BookingRepo { return &BookingRepo{db: db} }

// CreateWithSeats confirms a booking atomically: within one transaction
// it locks the selected seat rows, verifies that none of them is
// referenced by an existing booking, inserts the booking and its seat
// links, and clears the user's holds for the show.  When one or more
// seats are already taken the transaction is rolled back, no booking is
// created, and the taken seat numbers are returned so the caller can
// report the conflict.  On success the booking's ID and BookingTime are
// populated.
func (r *BookingRepo) CreateWithSeats(ctx context.Context, b *model.Booking, seatIDs []uint64) ([]string, error) {
    if len(seatIDs) == 0 {
        return nil, errors.New("no seats to book")
    }
    tx, err := r.db.BeginTx(ctx, nil)
    if err != nil {
        return nil, err
    }
    committed := false
    defer func() {
        if !committed {
            _ = tx.Rollback()
        }
    }()

    placeholders := ""
    idArgs := make([]interface{}, 0, len(seatIDs))
    for i, id := range seatIDs {
        if i > 0 {
            placeholders += ","
        }
        placeholders += "?"
        idArgs = append(idArgs, id)
    }

    // Lock the seat rows so competing confirmations of the same seats
    // serialize on this transaction.
    if _, err = tx.ExecContext(ctx,
        `SELECT id FROM seats WHERE id IN (`+placeholders+`) FOR UPDATE`, idArgs...,
    ); err != nil {
        return nil, err
    }

    // Reserve-or-fail: any seat already attached to a booking aborts the
    // whole confirmation.
    rows, err := tx.QueryContext(ctx,
        `SELECT s.seat_number
         FROM booking_seats bs
         JOIN seats s ON s.id = bs.seat_id
         WHERE bs.seat_id IN (`+placeholders+`)`, idArgs...,
    )
    if err != nil {
        return nil, err
    }
    var taken []string
    for rows.Next() {
        var n string
        if scanErr := rows.Scan(&n); scanErr != nil {
            rows.Close()
            return nil, scanErr
        }
        taken = append(taken, n)
    }
    if err = rows.Close(); err != nil {
        return nil, err
    }
    if len(taken) > 0 {
        return taken, nil
    }

    res, err := tx.ExecContext(ctx,
        `INSERT INTO bookings (reference, user_id, movie_id, show_id, total_cents) VALUES (?, ?, ?, ?, ?)`,
        b.Reference, b.UserID, b.MovieID, b.ShowID, b.TotalCents,
    )
    if err != nil {
        return nil, err
    }
    id, err := res.LastInsertId()
    if err != nil {
        return nil, err
    }
    b.ID = uint64(id)

    query := `INSERT INTO booking_seats (booking_id, seat_id) VALUES `
    args := make([]interface{}, 0, len(seatIDs)*2)
    for i, sid := range seatIDs {
        if i > 0 {
            query += ","
        }
        query += "(?, ?)"
        args = append(args, b.ID, sid)
    }
    if _, err = tx.ExecContext(ctx, query, args...); err != nil {
        return nil, err
    }

    // The staged selection is consumed by the confirmation.
    if _, err = tx.ExecContext(ctx,
        `DELETE FROM seat_holds WHERE user_id = ? AND show_id = ?`, b.UserID, b.ShowID,
    ); err != nil {
        return nil, err
    }

    if err = tx.QueryRowContext(ctx,
        `SELECT booking_time FROM bookings WHERE id = ?`, b.ID,
    ).Scan(&b.BookingTime); err != nil {
        return nil, err
    }

    if err = tx.Commit(); err != nil {
        return nil, err
    }
    committed = true
    return nil, nil
}

// GetByID retrieves a booking by primary key.
func (r *BookingRepo) GetByID(ctx context.Context, id uint64) (*model.Booking, error) {
    const q = `SELECT id, reference, user_id, movie_id, show_id, total_cents, booking_time FROM bookings WHERE id = ?`
    var b model.Booking
    err := r.db.QueryRowContext(ctx, q, id).Scan(
        &b.ID, &b.Reference, &b.UserID, &b.MovieID, &b.ShowID, &b.TotalCents, &b.BookingTime,
    )
    if err != nil {
        if errors.Is(err, sql.ErrNoRows) {
            return nil, ErrBookingNotFound
        }
        return nil, err
    }
    return &b, nil
}

// GetByIDForUser retrieves a booking and enforces ownership.  A booking
// belonging to another user yields ErrForbidden so the handler can
// answer 403 instead of leaking existence via 404.
func (r *BookingRepo) GetByIDForUser(ctx context.Context, id, userID uint64) (*model.Booking, error) {
    b, err := r.GetByID(ctx, id)
    if err != nil {
        return nil, err
    }
    if b.UserID != userID {
        return nil, ErrForbidden
    }
    return b, nil
}

// SeatsByBooking returns the seats of a booking joined with their seat
// class, ordered by class name then seat number — the order the
// confirmation page and the PDF ticket present them in.
func (r *BookingRepo) SeatsByBooking(ctx context.Context, bookingID uint64) ([]BookingSeat, error) {
    const q = `SELECT s.id, s.seat_number, s.seat_class_id, sc.name
               FROM booking_seats bs
               JOIN seats s ON s.id = bs.seat_id
               JOIN seat_classes sc ON sc.id = s.seat_class_id
               WHERE bs.booking_id = ?
               ORDER BY sc.name ASC, s.seat_number ASC`
    rows, err := r.db.QueryContext(ctx, q, bookingID)
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    var result []BookingSeat
    for rows.Next() {
        var bs BookingSeat
        if err := rows.Scan(&bs.SeatID, &bs.SeatNumber, &bs.SeatClassID, &bs.ClassName); err != nil {
            return nil, err
        }
        result = append(result, bs)
    }
    return result, rows.Err()
}

// BookedSeatNumbersByShow returns the seat numbers of a show that are
// referenced by any booking.  The seat map uses this to mark seats as
// sold.
func (r *BookingRepo) BookedSeatNumbersByShow(ctx context.Context, showID uint64) ([]string, error) {
    const q = `SELECT s.seat_number
               FROM bookings b
               JOIN booking_seats bs ON bs.booking_id = b.id
               JOIN seats s ON s.id = bs.seat_id
               WHERE b.show_id = ?
               ORDER BY s.seat_number ASC`
    rows, err := r.db.QueryContext(ctx, q, showID)
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

// ListByUser returns the bookings of one user, newest first.
func (r *BookingRepo) ListByUser(ctx context.Context, userID uint64) ([]model.Booking, error) {
    const q = `SELECT id, reference, user_id, movie_id, show_id, total_cents, booking_time
               FROM bookings WHERE user_id = ? ORDER BY booking_time DESC`
    return r.list(ctx, q, userID)
}

// ListAll returns every booking, newest first, for the admin report.
func (r *BookingRepo) ListAll(ctx context.Context) ([]model.Booking, error) {
    const q = `SELECT id, reference, user_id, movie_id, show_id, total_cents, booking_time
               FROM bookings ORDER BY booking_time DESC`
    return r.list(ctx, q)
}

func (r *BookingRepo) list(ctx context.Context, q string, args ...interface{}) ([]model.Booking, error) {
    rows, err := r.db.QueryContext(ctx, q, args...)
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    var result []model.Booking
    for rows.Next() {
        var b model.Booking
        if err := rows.Scan(&b.ID, &b.Reference, &b.UserID, &b.MovieID, &b.ShowID, &b.TotalCents, &b.BookingTime); err != nil {
            return nil, err
        }
        result = append(result, b)
    }
    if err := rows.Err(); err != nil {
        return nil, err
    }
    return result, nil
}
