package model

import "time"

// Seat class names that provisioning depends on.  The rows A and B of
// every show are assigned the premium class, rows C through E the
// regular class.  Both classes must exist before a show can be
// provisioned.
const (
    SeatClassPremium = "Premium"
    SeatClassRegular = "Regular"
)

// Show represents one scheduled screening of a movie at a theater and
// time.  Creating a show implies that its seats and show prices get
// provisioned by the service layer.  The (movie, theater, show_time)
// triple is unique so that scheduled provisioning stays idempotent.
//
// Fields:
//  ID        – primary key identifier.
//  MovieID   – movie being screened.
//  TheaterID – venue of the screening.
//  ShowTime  – start time of the screening (UTC).
//  CreatedAt – creation timestamp.
//  UpdatedAt – last update timestamp.
type Show struct {
    ID        uint64    // shows.id
    MovieID   uint64    // shows.movie_id
    TheaterID uint64    // shows.theater_id
    ShowTime  time.Time // shows.show_time
    CreatedAt time.Time // shows.created_at
    UpdatedAt time.Time // shows.updated_at
}

// SeatClass is a pricing/seating tier such as Premium or Regular.
// The class name is the tier key and is unique.  DefaultPriceCents
// seeds the per-show price rows at provisioning time; updating it
// propagates to every existing ShowPrice of the class.
//
// Fields:
//  ID                – primary key identifier.
//  Name              – unique tier name.
//  Color             – display color for the seat map (hex or named).
//  DefaultPriceCents – default price in cents.
//  CreatedAt         – creation timestamp.
//  UpdatedAt         – last update timestamp.
type SeatClass struct {
    ID                uint64    // seat_classes.id
    Name              string    // seat_classes.name
    Color             string    // seat_classes.color
    DefaultPriceCents uint32    // seat_classes.default_price_cents
    CreatedAt         time.Time // seat_classes.created_at
    UpdatedAt         time.Time // seat_classes.updated_at
}

// Seat is a bookable seat belonging to a specific show.  Seats are
// generated when the show is provisioned; the class is fixed at
// creation and never changes.  (show, seat_number) is unique.
//
// Fields:
//  ID          – primary key identifier.
//  ShowID      – show the seat belongs to.
//  SeatNumber  – label such as "A1" .. "E10".
//  SeatClassID – pricing tier of the seat.
type Seat struct {
    ID          uint64 // seats.id
    ShowID      uint64 // seats.show_id
    SeatNumber  string // seats.seat_number
    SeatClassID uint64 // seats.seat_class_id
}

// ShowPrice is the price of one seat class for one specific show.
// It mirrors the class default price until edited independently, and
// is overwritten again whenever the class default changes.
// (show, seat_class) is unique.
//
// Fields:
//  ID          – primary key identifier.
//  ShowID      – show the price applies to.
//  SeatClassID – seat class being priced.
//  PriceCents  – price in cents.
type ShowPrice struct {
    ID          uint64 // show_prices.id
    ShowID      uint64 // show_prices.show_id
    SeatClassID uint64 // show_prices.seat_class_id
    PriceCents  uint32 // show_prices.price_cents
}
