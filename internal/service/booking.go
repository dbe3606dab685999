package service

import (
    "context"
    "errors"
    "fmt"
    "strings"
    "time"

    "github.com/google/uuid"

    "github.com/cinebook/movie-ticket-booking/internal/model"
)

// Booking flow errors mapped to HTTP statuses by the handlers.
var (
    // ErrEmptySelection: the request staged no seats.
    ErrEmptySelection = errors.New("no seats selected")
    // ErrUnknownSeats: a requested seat number does not exist on the show.
    ErrUnknownSeats = errors.New("unknown seat for this show")
    // ErrShowMismatch: the show does not belong to the movie in the URL.
    ErrShowMismatch = errors.New("show does not belong to movie")
    // ErrSelectionExpired: the staged selection lapsed before payment.
    ErrSelectionExpired = errors.New("seat selection expired")
)

// SeatsTakenError reports a confirmation that lost the race: the listed
// seats were already booked when the transaction ran.
type SeatsTakenError struct {
    Seats []string
}

func (e *SeatsTakenError) Error() string {
    return fmt.Sprintf("seats already booked: %s", strings.Join(e.Seats, ", "))
}

// HoldStore stages and recovers seat selections.
type HoldStore interface {
    ReplaceForUserShow(ctx context.Context, userID, showID uint64, seatIDs []uint64, token string, expiresAt time.Time) error
    ActiveForUserAndMovie(ctx context.Context, userID, movieID uint64) ([]model.SeatHold, error)
}

// SeatReader resolves seat rows by number or by ID.
type SeatReader interface {
    ListByShowAndNumbers(ctx context.Context, showID uint64, numbers []string) ([]model.Seat, error)
    ListByIDs(ctx context.Context, ids []uint64) ([]model.Seat, error)
}

// PriceReader resolves the per-class prices of a show.
type PriceReader interface {
    PriceMapByShow(ctx context.Context, showID uint64) (map[uint64]uint32, error)
}

// BookingWriter persists a confirmed booking atomically.
type BookingWriter interface {
    CreateWithSeats(ctx context.Context, b *model.Booking, seatIDs []uint64) ([]string, error)
}

// ShowReader fetches a show by ID.
type ShowReader interface {
    GetByID(ctx context.Context, id uint64) (*model.Show, error)
}

// Selection is a staged, still valid seat selection priced against the
// show's current prices.
type Selection struct {
    ShowID     uint64
    ShowTime   time.Time
    Seats      []model.Seat
    TotalCents uint32
    ExpiresAt  time.Time
}

// BookingService drives the three-step booking flow: stage a selection
// as expiring holds, price it for the payment page, and confirm it with
// an atomic reserve-or-fail write.
type BookingService struct {
    holds    HoldStore
    seats    SeatReader
    prices   PriceReader
    bookings BookingWriter
    shows    ShowReader
    holdTTL  time.Duration
}

// NewBookingService wires a BookingService from its stores.  holdTTL is
// how long a staged selection stays valid.
func NewBookingService(holds HoldStore, seats SeatReader, prices PriceReader, bookings BookingWriter, shows ShowReader, holdTTL time.Duration) *BookingService {
    if holdTTL <= 0 {
        holdTTL = 10 * time.Minute
    }
    return &BookingService{
        holds:    holds,
        seats:    seats,
        prices:   prices,
        bookings: bookings,
        shows:    shows,
        holdTTL:  holdTTL,
    }
}

// ParseSeatNumbers splits a comma-separated seat list ("A1, a2,A1") into
// trimmed, upper-cased, de-duplicated seat numbers preserving order.
func ParseSeatNumbers(raw string) []string {
    parts := strings.Split(raw, ",")
    seen := make(map[string]bool, len(parts))
    out := make([]string, 0, len(parts))
    for _, p := range parts {
        n := strings.ToUpper(strings.TrimSpace(p))
        if n == "" || seen[n] {
            continue
        }
        seen[n] = true
        out = append(out, n)
    }
    return out
}

// SumPrices totals the price of the given seat classes against a show's
// price map.  A class with no price row contributes zero rather than
// failing the whole page.
func SumPrices(priceMap map[uint64]uint32, classIDs []uint64) uint32 {
    var total uint32
    for _, id := range classIDs {
        total += priceMap[id]
    }
    return total
}

// StageSelection validates the requested seats against the show and
// replaces the user's staged selection with fresh holds.  It returns the
// expiry of the new holds.
func (s *BookingService) StageSelection(ctx context.Context, userID, movieID, showID uint64, rawSeats string) (time.Time, error) {
    numbers := ParseSeatNumbers(rawSeats)
    if len(numbers) == 0 {
        return time.Time{}, ErrEmptySelection
    }
    show, err := s.shows.GetByID(ctx, showID)
    if err != nil {
        return time.Time{}, err
    }
    if show.MovieID != movieID {
        return time.Time{}, ErrShowMismatch
    }
    seats, err := s.seats.ListByShowAndNumbers(ctx, showID, numbers)
    if err != nil {
        return time.Time{}, err
    }
    if len(seats) != len(numbers) {
        return time.Time{}, ErrUnknownSeats
    }
    seatIDs := make([]uint64, len(seats))
    for i, seat := range seats {
        seatIDs[i] = seat.ID
    }
    expiresAt := time.Now().UTC().Add(s.holdTTL)
    token := uuid.NewString()
    if err := s.holds.ReplaceForUserShow(ctx, userID, showID, seatIDs, token, expiresAt); err != nil {
        return time.Time{}, err
    }
    return expiresAt, nil
}

// StagedSelection recovers and prices the user's active holds on the
// movie.  When no active holds exist the selection has expired (or was
// never staged) and ErrSelectionExpired is returned.
func (s *BookingService) StagedSelection(ctx context.Context, userID, movieID uint64) (*Selection, error) {
    holds, err := s.holds.ActiveForUserAndMovie(ctx, userID, movieID)
    if err != nil {
        return nil, err
    }
    if len(holds) == 0 {
        return nil, ErrSelectionExpired
    }
    // Holds of one staging share a token and a show. Staging clears the
    // user's older holds on the movie, but if a stale batch survived a
    // race, only the newest one counts.
    newest := holds[len(holds)-1]
    showID := newest.ShowID
    seatIDs := make([]uint64, 0, len(holds))
    for _, h := range holds {
        if h.HoldToken == newest.HoldToken {
            seatIDs = append(seatIDs, h.SeatID)
        }
    }
    seats, err := s.seats.ListByIDs(ctx, seatIDs)
    if err != nil {
        return nil, err
    }
    priceMap, err := s.prices.PriceMapByShow(ctx, showID)
    if err != nil {
        return nil, err
    }
    classIDs := make([]uint64, len(seats))
    for i, seat := range seats {
        classIDs[i] = seat.SeatClassID
    }
    show, err := s.shows.GetByID(ctx, showID)
    if err != nil {
        return nil, err
    }
    return &Selection{
        ShowID:     showID,
        ShowTime:   show.ShowTime,
        Seats:      seats,
        TotalCents: SumPrices(priceMap, classIDs),
        ExpiresAt:  newest.ExpiresAt,
    }, nil
}

// Confirm turns the user's staged selection into a booking.  The total
// is recomputed from current prices at confirmation time.  When another
// booking won one of the seats in the meantime it returns
// *SeatsTakenError and nothing is persisted.
func (s *BookingService) Confirm(ctx context.Context, userID, movieID uint64) (*model.Booking, *Selection, error) {
    sel, err := s.StagedSelection(ctx, userID, movieID)
    if err != nil {
        return nil, nil, err
    }
    seatIDs := make([]uint64, len(sel.Seats))
    for i, seat := range sel.Seats {
        seatIDs[i] = seat.ID
    }
    booking := &model.Booking{
        Reference:  uuid.NewString(),
        UserID:     userID,
        MovieID:    movieID,
        ShowID:     sel.ShowID,
        TotalCents: sel.TotalCents,
    }
    taken, err := s.bookings.CreateWithSeats(ctx, booking, seatIDs)
    if err != nil {
        return nil, nil, err
    }
    if len(taken) > 0 {
        return nil, nil, &SeatsTakenError{Seats: taken}
    }
    return booking, sel, nil
}
