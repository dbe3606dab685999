package model

import "time"

// Booking is a confirmed purchase of one or more seats for a show by
// one user.  Bookings are created only at payment confirmation and
// are immutable afterwards; the admin surface may read them but never
// mutate them.  Seats are attached through the booking_seats join
// table.
//
// Fields:
//  ID          – primary key identifier.
//  Reference   – opaque booking reference printed on the ticket.
//  UserID      – purchasing user.
//  MovieID     – movie the booking is for.
//  ShowID      – show the seats belong to.
//  TotalCents  – total charged at confirmation time.
//  BookingTime – when the booking was confirmed.
type Booking struct {
    ID          uint64    // bookings.id
    Reference   string    // bookings.reference
    UserID      uint64    // bookings.user_id
    MovieID     uint64    // bookings.movie_id
    ShowID      uint64    // bookings.show_id
    TotalCents  uint32    // bookings.total_cents
    BookingTime time.Time // bookings.booking_time
}

// SeatHold stages a user's seat selection between the selection and
// payment steps.  It replaces opaque per-session storage: holds are
// keyed by user and show and expire automatically, so an abandoned
// checkout frees its seats without any cleanup job.
//
// Fields:
//  ID        – primary key identifier.
//  UserID    – user who staged the selection.
//  ShowID    – show the seats belong to.
//  SeatID    – seat being held.
//  HoldToken – opaque token correlating the hold batch.
//  ExpiresAt – when the hold lapses.
//  CreatedAt – when the hold was created.
type SeatHold struct {
    ID        uint64    // seat_holds.id
    UserID    uint64    // seat_holds.user_id
    ShowID    uint64    // seat_holds.show_id
    SeatID    uint64    // seat_holds.seat_id
    HoldToken string    // seat_holds.hold_token
    ExpiresAt time.Time // seat_holds.expires_at
    CreatedAt time.Time // seat_holds.created_at
}
