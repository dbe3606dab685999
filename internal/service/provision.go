// Package service holds the explicit business operations that earlier
// designs hid inside database save hooks: seat and price provisioning
// when a show is created, bulk price propagation when a seat class
// default changes, and the scheduled creation of tomorrow's shows.
// Keeping these as plain functions invoked from the call paths makes
// the fan-out writes visible and testable in isolation.
package service

import (
    "context"
    "errors"
    "fmt"
    "time"

    "github.com/cinebook/movie-ticket-booking/internal/model"
)

// ErrSeatClassMissing is returned when show provisioning cannot find the
// "Premium" or "Regular" seat class.  Both are a fixed dependency: they
// must be seeded before any show is created.
var ErrSeatClassMissing = errors.New("required seat class missing")

// SeatClassStore is the slice of SeatClassRepo that provisioning needs.
type SeatClassStore interface {
    GetByID(ctx context.Context, id uint64) (*model.SeatClass, error)
    GetByName(ctx context.Context, name string) (*model.SeatClass, error)
    List(ctx context.Context) ([]model.SeatClass, error)
}

// SeatWriter creates seat rows in bulk, ignoring duplicates.
type SeatWriter interface {
    CreateBulkIgnore(ctx context.Context, seats []model.Seat) error
}

// PriceWriter seeds and propagates show prices.
type PriceWriter interface {
    SeedIgnore(ctx context.Context, prices []model.ShowPrice) error
    UpdatePriceByClass(ctx context.Context, seatClassID uint64, priceCents uint32) (int64, error)
}

// ShowEnsurer creates a show for a slot unless it already exists.
type ShowEnsurer interface {
    Ensure(ctx context.Context, movieID, theaterID uint64, showTime time.Time) (uint64, bool, error)
}

// MovieLister lists movies and their explicit theater scope.
type MovieLister interface {
    List(ctx context.Context) ([]model.Movie, error)
    TheaterIDs(ctx context.Context, movieID uint64) ([]uint64, error)
}

// TheaterLister lists all theaters.
type TheaterLister interface {
    List(ctx context.Context) ([]model.Theater, error)
}

// SeatSpec describes one seat of the fixed auditorium layout: its label
// and the seat class name it belongs to.
type SeatSpec struct {
    Number    string // e.g. "A1"
    ClassName string // Premium or Regular
}

const (
    seatRows    = "ABCDE"
    seatsPerRow = 10
)

// SeatGrid returns the fixed 50-seat layout every show is provisioned
// with: rows A-E times seats 1-10, rows A and B premium, the rest
// regular.
func SeatGrid() []SeatSpec {
    grid := make([]SeatSpec, 0, len(seatRows)*seatsPerRow)
    for _, row := range seatRows {
        class := model.SeatClassRegular
        if row == 'A' || row == 'B' {
            class = model.SeatClassPremium
        }
        for n := 1; n <= seatsPerRow; n++ {
            grid = append(grid, SeatSpec{
                Number:    fmt.Sprintf("%c%d", row, n),
                ClassName: class,
            })
        }
    }
    return grid
}

// showSlotHours are the daily screening slots (UTC) the scheduler fills.
var showSlotHours = []int{13, 16, 19, 22}

// TomorrowSlots returns the four show times of the calendar day after
// now, in UTC.
func TomorrowSlots(now time.Time) []time.Time {
    tomorrow := now.UTC().AddDate(0, 0, 1)
    slots := make([]time.Time, 0, len(showSlotHours))
    for _, h := range showSlotHours {
        slots = append(slots, time.Date(tomorrow.Year(), tomorrow.Month(), tomorrow.Day(), h, 0, 0, 0, time.UTC))
    }
    return slots
}

// Provisioner performs the fan-out writes triggered by show creation,
// seat class price updates and the daily schedule.
type Provisioner struct {
    classes  SeatClassStore
    seats    SeatWriter
    prices   PriceWriter
    shows    ShowEnsurer
    movies   MovieLister
    theaters TheaterLister
}

// NewProvisioner wires a Provisioner from its stores.
func NewProvisioner(classes SeatClassStore, seats SeatWriter, prices PriceWriter, shows ShowEnsurer, movies MovieLister, theaters TheaterLister) *Provisioner {
    if classes == nil || seats == nil || prices == nil {
        panic("nil store passed to NewProvisioner")
    }
    return &Provisioner{
        classes:  classes,
        seats:    seats,
        prices:   prices,
        shows:    shows,
        movies:   movies,
        theaters: theaters,
    }
}

// ProvisionShow generates the 50-seat layout for a newly created show
// and seeds one show price per existing seat class from the class
// default.  Both inserts skip rows that already exist, so re-invoking
// for an already provisioned show changes nothing.  It fails with
// ErrSeatClassMissing when the Premium or Regular class is absent.
func (p *Provisioner) ProvisionShow(ctx context.Context, showID uint64) error {
    premium, err := p.classes.GetByName(ctx, model.SeatClassPremium)
    if err != nil {
        return fmt.Errorf("%w: %s", ErrSeatClassMissing, model.SeatClassPremium)
    }
    regular, err := p.classes.GetByName(ctx, model.SeatClassRegular)
    if err != nil {
        return fmt.Errorf("%w: %s", ErrSeatClassMissing, model.SeatClassRegular)
    }

    classByName := map[string]uint64{
        premium.Name: premium.ID,
        regular.Name: regular.ID,
    }
    grid := SeatGrid()
    seats := make([]model.Seat, 0, len(grid))
    for _, spec := range grid {
        seats = append(seats, model.Seat{
            ShowID:      showID,
            SeatNumber:  spec.Number,
            SeatClassID: classByName[spec.ClassName],
        })
    }
    if err := p.seats.CreateBulkIgnore(ctx, seats); err != nil {
        return fmt.Errorf("create seats: %w", err)
    }

    classes, err := p.classes.List(ctx)
    if err != nil {
        return fmt.Errorf("list seat classes: %w", err)
    }
    prices := make([]model.ShowPrice, 0, len(classes))
    for _, sc := range classes {
        prices = append(prices, model.ShowPrice{
            ShowID:      showID,
            SeatClassID: sc.ID,
            PriceCents:  sc.DefaultPriceCents,
        })
    }
    if err := p.prices.SeedIgnore(ctx, prices); err != nil {
        return fmt.Errorf("seed show prices: %w", err)
    }
    return nil
}

// PropagatePrice overwrites the price of every show price row belonging
// to the given seat class with the class's current default.  Rows of
// other classes are untouched.  It returns the number of rows rewritten.
func (p *Provisioner) PropagatePrice(ctx context.Context, seatClassID uint64) (int64, error) {
    sc, err := p.classes.GetByID(ctx, seatClassID)
    if err != nil {
        return 0, err
    }
    return p.prices.UpdatePriceByClass(ctx, sc.ID, sc.DefaultPriceCents)
}

// EnsureTomorrowShows makes sure every movie has a show tomorrow at each
// of the fixed daily slots, in its explicit theater set when one is
// configured and in every theater otherwise.  Existing slots are left
// alone; newly created shows are provisioned immediately.  It returns
// the number of shows created.
func (p *Provisioner) EnsureTomorrowShows(ctx context.Context) (int, error) {
    if p.shows == nil || p.movies == nil || p.theaters == nil {
        return 0, errors.New("provisioner not configured for scheduling")
    }
    movies, err := p.movies.List(ctx)
    if err != nil {
        return 0, fmt.Errorf("list movies: %w", err)
    }
    allTheaters, err := p.theaters.List(ctx)
    if err != nil {
        return 0, fmt.Errorf("list theaters: %w", err)
    }
    slots := TomorrowSlots(time.Now())

    created := 0
    for _, m := range movies {
        theaterIDs, err := p.movies.TheaterIDs(ctx, m.ID)
        if err != nil {
            return created, fmt.Errorf("theater scope of movie %d: %w", m.ID, err)
        }
        if len(theaterIDs) == 0 {
            // Empty scope means: schedule everywhere.
            for _, t := range allTheaters {
                theaterIDs = append(theaterIDs, t.ID)
            }
        }
        for _, tid := range theaterIDs {
            for _, slot := range slots {
                showID, isNew, err := p.shows.Ensure(ctx, m.ID, tid, slot)
                if err != nil {
                    return created, fmt.Errorf("ensure show movie=%d theater=%d: %w", m.ID, tid, err)
                }
                if !isNew {
                    continue
                }
                if err := p.ProvisionShow(ctx, showID); err != nil {
                    return created, fmt.Errorf("provision show %d: %w", showID, err)
                }
                created++
            }
        }
    }
    return created, nil
}
