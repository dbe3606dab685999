package service

import (
    "context"
    "testing"
    "time"

    "github.com/stretchr/testify/assert"
    "github.com/stretchr/testify/require"

    "github.com/cinebook/movie-ticket-booking/internal/model"
)

// ----- mocks -----

// fakeHoldStore mirrors the repository contract: staging clears the
// user's holds on every show of the staged show's movie (holds on other
// movies and other users survive), and recovery filters by movie and
// expiry.
type fakeHoldStore struct {
    showMovie map[uint64]uint64 // show id -> movie id
    holds     []model.SeatHold
    lastToken string
}

func (f *fakeHoldStore) ReplaceForUserShow(_ context.Context, userID, showID uint64, seatIDs []uint64, token string, expiresAt time.Time) error {
    f.lastToken = token
    movieID := f.showMovie[showID]
    kept := f.holds[:0]
    for _, h := range f.holds {
        if h.UserID == userID && f.showMovie[h.ShowID] == movieID {
            continue
        }
        kept = append(kept, h)
    }
    f.holds = kept
    for _, sid := range seatIDs {
        f.holds = append(f.holds, model.SeatHold{
            UserID: userID, ShowID: showID, SeatID: sid, HoldToken: token, ExpiresAt: expiresAt,
        })
    }
    return nil
}

func (f *fakeHoldStore) ActiveForUserAndMovie(_ context.Context, userID, movieID uint64) ([]model.SeatHold, error) {
    var out []model.SeatHold
    now := time.Now().UTC()
    for _, h := range f.holds {
        if h.UserID == userID && f.showMovie[h.ShowID] == movieID && h.ExpiresAt.After(now) {
            out = append(out, h)
        }
    }
    return out, nil
}

type fakeSeatReader struct {
    seats []model.Seat
}

func (f *fakeSeatReader) ListByShowAndNumbers(_ context.Context, showID uint64, numbers []string) ([]model.Seat, error) {
    want := map[string]bool{}
    for _, n := range numbers {
        want[n] = true
    }
    var out []model.Seat
    for _, s := range f.seats {
        if s.ShowID == showID && want[s.SeatNumber] {
            out = append(out, s)
        }
    }
    return out, nil
}

func (f *fakeSeatReader) ListByIDs(_ context.Context, ids []uint64) ([]model.Seat, error) {
    want := map[uint64]bool{}
    for _, id := range ids {
        want[id] = true
    }
    var out []model.Seat
    for _, s := range f.seats {
        if want[s.ID] {
            out = append(out, s)
        }
    }
    return out, nil
}

type fakePriceReader struct {
    byClass map[uint64]uint32
}

func (f *fakePriceReader) PriceMapByShow(_ context.Context, _ uint64) (map[uint64]uint32, error) {
    return f.byClass, nil
}

type fakeBookingWriter struct {
    taken   []string
    created *model.Booking
}

func (f *fakeBookingWriter) CreateWithSeats(_ context.Context, b *model.Booking, seatIDs []uint64) ([]string, error) {
    if len(f.taken) > 0 {
        return f.taken, nil
    }
    b.ID = 42
    b.BookingTime = time.Now().UTC()
    f.created = b
    return nil, nil
}

type fakeShowReader struct {
    show model.Show
}

func (f *fakeShowReader) GetByID(_ context.Context, id uint64) (*model.Show, error) {
    s := f.show
    s.ID = id
    return &s, nil
}

const (
    premiumClassID = uint64(1)
    regularClassID = uint64(2)
)

// fixture: movie 3 with shows 5 and 6; show 5 has seats A1 (premium)
// and C3 (regular) priced 200.00 and 120.00, show 6 has seat B2.
func newBookingFixture() (*BookingService, *fakeHoldStore, *fakeBookingWriter) {
    holds := &fakeHoldStore{showMovie: map[uint64]uint64{5: 3, 6: 3}}
    seats := &fakeSeatReader{seats: []model.Seat{
        {ID: 11, ShowID: 5, SeatNumber: "A1", SeatClassID: premiumClassID},
        {ID: 12, ShowID: 5, SeatNumber: "C3", SeatClassID: regularClassID},
        {ID: 21, ShowID: 6, SeatNumber: "B2", SeatClassID: premiumClassID},
    }}
    prices := &fakePriceReader{byClass: map[uint64]uint32{
        premiumClassID: 20000,
        regularClassID: 12000,
    }}
    bookings := &fakeBookingWriter{}
    shows := &fakeShowReader{show: model.Show{MovieID: 3, ShowTime: time.Date(2025, 3, 11, 19, 0, 0, 0, time.UTC)}}
    svc := NewBookingService(holds, seats, prices, bookings, shows, 10*time.Minute)
    return svc, holds, bookings
}

// ----- tests -----

func TestParseSeatNumbers(t *testing.T) {
    assert.Equal(t, []string{"A1", "A2", "C3"}, ParseSeatNumbers("A1, a2 ,C3,A1"))
    assert.Empty(t, ParseSeatNumbers("  , ,"))
    assert.Empty(t, ParseSeatNumbers(""))
}

func TestSumPricesMissingClassCountsZero(t *testing.T) {
    prices := map[uint64]uint32{premiumClassID: 20000}
    total := SumPrices(prices, []uint64{premiumClassID, regularClassID})
    assert.Equal(t, uint32(20000), total, "unpriced class contributes zero")
}

func TestStageSelectionValidation(t *testing.T) {
    svc, _, _ := newBookingFixture()
    ctx := context.Background()

    _, err := svc.StageSelection(ctx, 1, 3, 5, " , ")
    assert.ErrorIs(t, err, ErrEmptySelection)

    _, err = svc.StageSelection(ctx, 1, 3, 5, "A1,Z9")
    assert.ErrorIs(t, err, ErrUnknownSeats)

    _, err = svc.StageSelection(ctx, 1, 99, 5, "A1")
    assert.ErrorIs(t, err, ErrShowMismatch)
}

func TestStageSelectionCreatesHolds(t *testing.T) {
    svc, holds, _ := newBookingFixture()

    expiresAt, err := svc.StageSelection(context.Background(), 1, 3, 5, "A1,C3")
    require.NoError(t, err)

    assert.Len(t, holds.holds, 2)
    assert.NotEmpty(t, holds.lastToken)
    assert.WithinDuration(t, time.Now().UTC().Add(10*time.Minute), expiresAt, 2*time.Second)
    for _, h := range holds.holds {
        assert.Equal(t, holds.lastToken, h.HoldToken, "holds of one selection share a token")
    }
}

func TestStagedSelectionExpired(t *testing.T) {
    svc, holds, _ := newBookingFixture()

    // Never staged.
    _, err := svc.StagedSelection(context.Background(), 1, 3)
    assert.ErrorIs(t, err, ErrSelectionExpired)

    // Staged but lapsed.
    holds.holds = []model.SeatHold{{
        UserID: 1, ShowID: 5, SeatID: 11,
        ExpiresAt: time.Now().UTC().Add(-time.Minute),
    }}
    _, err = svc.StagedSelection(context.Background(), 1, 3)
    assert.ErrorIs(t, err, ErrSelectionExpired)
}

func TestStagedSelectionTotal(t *testing.T) {
    svc, _, _ := newBookingFixture()
    ctx := context.Background()

    _, err := svc.StageSelection(ctx, 1, 3, 5, "A1,C3")
    require.NoError(t, err)

    sel, err := svc.StagedSelection(ctx, 1, 3)
    require.NoError(t, err)

    assert.Equal(t, uint64(5), sel.ShowID)
    assert.Len(t, sel.Seats, 2)
    assert.Equal(t, uint32(32000), sel.TotalCents, "200.00 premium + 120.00 regular")
}

func TestConfirmCreatesBooking(t *testing.T) {
    svc, _, bookings := newBookingFixture()
    ctx := context.Background()

    _, err := svc.StageSelection(ctx, 1, 3, 5, "A1,C3")
    require.NoError(t, err)

    b, sel, err := svc.Confirm(ctx, 1, 3)
    require.NoError(t, err)

    assert.Equal(t, uint64(42), b.ID)
    assert.NotEmpty(t, b.Reference)
    assert.Equal(t, uint32(32000), b.TotalCents)
    assert.Equal(t, uint64(5), b.ShowID)
    assert.Len(t, sel.Seats, 2)
    require.NotNil(t, bookings.created)
    assert.Equal(t, b.Reference, bookings.created.Reference)
}

func TestConfirmReportsTakenSeats(t *testing.T) {
    svc, _, bookings := newBookingFixture()
    bookings.taken = []string{"A1"}
    ctx := context.Background()

    _, err := svc.StageSelection(ctx, 1, 3, 5, "A1,C3")
    require.NoError(t, err)

    _, _, err = svc.Confirm(ctx, 1, 3)
    var takenErr *SeatsTakenError
    require.ErrorAs(t, err, &takenErr)
    assert.Equal(t, []string{"A1"}, takenErr.Seats)
    assert.Nil(t, bookings.created, "no booking persisted when seats are taken")
}

func TestRestagingAnotherShowReplacesSelection(t *testing.T) {
    svc, _, bookings := newBookingFixture()
    ctx := context.Background()

    // Change of mind within the hold TTL: first show 5, then show 6 of
    // the same movie.
    _, err := svc.StageSelection(ctx, 1, 3, 5, "A1,C3")
    require.NoError(t, err)
    _, err = svc.StageSelection(ctx, 1, 3, 6, "B2")
    require.NoError(t, err)

    sel, err := svc.StagedSelection(ctx, 1, 3)
    require.NoError(t, err)
    assert.Equal(t, uint64(6), sel.ShowID)
    require.Len(t, sel.Seats, 1, "the earlier show's seats are gone")
    assert.Equal(t, "B2", sel.Seats[0].SeatNumber)
    assert.Equal(t, uint32(20000), sel.TotalCents)

    b, sel, err := svc.Confirm(ctx, 1, 3)
    require.NoError(t, err)
    assert.Equal(t, uint64(6), b.ShowID)
    require.Len(t, sel.Seats, 1)
    for _, s := range sel.Seats {
        assert.Equal(t, b.ShowID, s.ShowID, "every booked seat belongs to the booking's show")
    }
    require.NotNil(t, bookings.created)
}

func TestStagedSelectionIgnoresStaleHoldBatch(t *testing.T) {
    svc, holds, _ := newBookingFixture()
    ctx := context.Background()

    // Simulate a stale batch that survived a racing re-stage: holds on
    // two shows of the movie with different tokens.
    now := time.Now().UTC()
    holds.holds = []model.SeatHold{
        {UserID: 1, ShowID: 5, SeatID: 11, HoldToken: "old", ExpiresAt: now.Add(5 * time.Minute)},
        {UserID: 1, ShowID: 6, SeatID: 21, HoldToken: "new", ExpiresAt: now.Add(9 * time.Minute)},
    }

    sel, err := svc.StagedSelection(ctx, 1, 3)
    require.NoError(t, err)
    assert.Equal(t, uint64(6), sel.ShowID, "only the newest batch counts")
    require.Len(t, sel.Seats, 1)
    assert.Equal(t, "B2", sel.Seats[0].SeatNumber)
}

func TestConfirmWithoutSelectionIsConflict(t *testing.T) {
    svc, _, _ := newBookingFixture()

    _, _, err := svc.Confirm(context.Background(), 1, 3)
    assert.ErrorIs(t, err, ErrSelectionExpired)
}
