// Package queue defines message payloads exchanged over the message broker
// plus the publisher and the background consumer for them.
package queue

// BookingConfirmedEvent is published when a booking is successfully
// confirmed. It carries enough information for downstream consumers to
// log, notify, or feed analytics without querying the primary database.
type BookingConfirmedEvent struct {
    BookingID   uint64   `json:"booking_id"`
    Reference   string   `json:"reference"`
    UserID      uint64   `json:"user_id"`
    ShowID      uint64   `json:"show_id"`
    MovieTitle  string   `json:"movie_title"`
    TheaterName string   `json:"theater_name"`
    ShowTime    string   `json:"show_time"`
    Seats       []string `json:"seats"`
    TotalCents  uint32   `json:"total_cents"`
    ConfirmedAt string   `json:"confirmed_at"`
}
