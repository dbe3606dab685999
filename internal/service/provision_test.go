package service

import (
    "context"
    "errors"
    "fmt"
    "strings"
    "testing"
    "time"

    "github.com/stretchr/testify/assert"
    "github.com/stretchr/testify/require"

    "github.com/cinebook/movie-ticket-booking/internal/model"
)

// ----- mocks -----

type fakeClassStore struct {
    byName map[string]*model.SeatClass
    byID   map[uint64]*model.SeatClass
}

func newFakeClassStore(classes ...model.SeatClass) *fakeClassStore {
    s := &fakeClassStore{byName: map[string]*model.SeatClass{}, byID: map[uint64]*model.SeatClass{}}
    for i := range classes {
        sc := classes[i]
        s.byName[sc.Name] = &sc
        s.byID[sc.ID] = &sc
    }
    return s
}

func (s *fakeClassStore) GetByID(_ context.Context, id uint64) (*model.SeatClass, error) {
    if sc, ok := s.byID[id]; ok {
        return sc, nil
    }
    return nil, errors.New("seat class not found")
}

func (s *fakeClassStore) GetByName(_ context.Context, name string) (*model.SeatClass, error) {
    if sc, ok := s.byName[name]; ok {
        return sc, nil
    }
    return nil, errors.New("seat class not found")
}

func (s *fakeClassStore) List(_ context.Context) ([]model.SeatClass, error) {
    out := make([]model.SeatClass, 0, len(s.byID))
    for _, sc := range s.byID {
        out = append(out, *sc)
    }
    return out, nil
}

// fakeSeatWriter records seats keyed by (show, number) and ignores
// duplicates like the INSERT IGNORE it stands in for.
type fakeSeatWriter struct {
    seats map[string]model.Seat
    calls int
}

func newFakeSeatWriter() *fakeSeatWriter { return &fakeSeatWriter{seats: map[string]model.Seat{}} }

func (w *fakeSeatWriter) CreateBulkIgnore(_ context.Context, seats []model.Seat) error {
    w.calls++
    for _, s := range seats {
        key := fmt.Sprintf("%d/%s", s.ShowID, s.SeatNumber)
        if _, ok := w.seats[key]; !ok {
            w.seats[key] = s
        }
    }
    return nil
}

type fakePriceWriter struct {
    prices     map[[2]uint64]uint32 // (showID, classID) -> cents
    propagated []uint64
}

func newFakePriceWriter() *fakePriceWriter { return &fakePriceWriter{prices: map[[2]uint64]uint32{}} }

func (w *fakePriceWriter) SeedIgnore(_ context.Context, prices []model.ShowPrice) error {
    for _, p := range prices {
        key := [2]uint64{p.ShowID, p.SeatClassID}
        if _, ok := w.prices[key]; !ok {
            w.prices[key] = p.PriceCents
        }
    }
    return nil
}

func (w *fakePriceWriter) UpdatePriceByClass(_ context.Context, classID uint64, cents uint32) (int64, error) {
    w.propagated = append(w.propagated, classID)
    var n int64
    for key := range w.prices {
        if key[1] == classID {
            w.prices[key] = cents
            n++
        }
    }
    return n, nil
}

type fakeShowEnsurer struct {
    existing map[string]uint64 // "movie/theater/time" -> show id
    nextID   uint64
}

func (f *fakeShowEnsurer) Ensure(_ context.Context, movieID, theaterID uint64, at time.Time) (uint64, bool, error) {
    key := fmt.Sprintf("%d/%d/%s", movieID, theaterID, at.UTC().Format(time.RFC3339))
    if id, ok := f.existing[key]; ok {
        return id, false, nil
    }
    f.nextID++
    f.existing[key] = f.nextID
    return f.nextID, true, nil
}

type fakeMovieLister struct {
    movies map[uint64][]uint64 // movie id -> explicit theater ids
}

func (f *fakeMovieLister) List(_ context.Context) ([]model.Movie, error) {
    out := make([]model.Movie, 0, len(f.movies))
    for id := range f.movies {
        out = append(out, model.Movie{ID: id, Title: "movie"})
    }
    return out, nil
}

func (f *fakeMovieLister) TheaterIDs(_ context.Context, movieID uint64) ([]uint64, error) {
    return f.movies[movieID], nil
}

type fakeTheaterLister struct{ ids []uint64 }

func (f *fakeTheaterLister) List(_ context.Context) ([]model.Theater, error) {
    out := make([]model.Theater, 0, len(f.ids))
    for _, id := range f.ids {
        out = append(out, model.Theater{ID: id, Name: "theater"})
    }
    return out, nil
}

func premiumRegular() (*fakeClassStore, model.SeatClass, model.SeatClass) {
    premium := model.SeatClass{ID: 1, Name: model.SeatClassPremium, DefaultPriceCents: 20000}
    regular := model.SeatClass{ID: 2, Name: model.SeatClassRegular, DefaultPriceCents: 12000}
    return newFakeClassStore(premium, regular), premium, regular
}

// ----- tests -----

func TestSeatGridLayout(t *testing.T) {
    grid := SeatGrid()
    require.Len(t, grid, 50)

    premium, regular := 0, 0
    seen := map[string]bool{}
    for _, spec := range grid {
        assert.False(t, seen[spec.Number], "duplicate seat %s", spec.Number)
        seen[spec.Number] = true
        switch {
        case strings.HasPrefix(spec.Number, "A"), strings.HasPrefix(spec.Number, "B"):
            assert.Equal(t, model.SeatClassPremium, spec.ClassName, "seat %s", spec.Number)
            premium++
        default:
            assert.Equal(t, model.SeatClassRegular, spec.ClassName, "seat %s", spec.Number)
            regular++
        }
    }
    assert.Equal(t, 20, premium)
    assert.Equal(t, 30, regular)
    assert.True(t, seen["A1"])
    assert.True(t, seen["E10"])
}

func TestProvisionShowSeedsSeatsAndPrices(t *testing.T) {
    classes, premium, regular := premiumRegular()
    seats := newFakeSeatWriter()
    prices := newFakePriceWriter()
    p := NewProvisioner(classes, seats, prices, nil, nil, nil)

    require.NoError(t, p.ProvisionShow(context.Background(), 7))

    assert.Len(t, seats.seats, 50)
    assert.Equal(t, premium.DefaultPriceCents, prices.prices[[2]uint64{7, premium.ID}])
    assert.Equal(t, regular.DefaultPriceCents, prices.prices[[2]uint64{7, regular.ID}])
}

func TestProvisionShowIsIdempotent(t *testing.T) {
    classes, _, _ := premiumRegular()
    seats := newFakeSeatWriter()
    prices := newFakePriceWriter()
    p := NewProvisioner(classes, seats, prices, nil, nil, nil)

    require.NoError(t, p.ProvisionShow(context.Background(), 7))
    require.NoError(t, p.ProvisionShow(context.Background(), 7))

    assert.Len(t, seats.seats, 50, "re-provisioning must not duplicate seats")
    assert.Len(t, prices.prices, 2, "re-provisioning must not duplicate prices")
}

func TestProvisionShowFailsWithoutSeatClasses(t *testing.T) {
    classes := newFakeClassStore(model.SeatClass{ID: 1, Name: model.SeatClassPremium})
    p := NewProvisioner(classes, newFakeSeatWriter(), newFakePriceWriter(), nil, nil, nil)

    err := p.ProvisionShow(context.Background(), 7)
    require.Error(t, err)
    assert.ErrorIs(t, err, ErrSeatClassMissing)
}

func TestPropagatePriceRewritesOnlyOwnClass(t *testing.T) {
    classes, premium, regular := premiumRegular()
    prices := newFakePriceWriter()
    // Two shows already priced.
    prices.prices[[2]uint64{1, premium.ID}] = 20000
    prices.prices[[2]uint64{2, premium.ID}] = 15000 // manually edited
    prices.prices[[2]uint64{1, regular.ID}] = 12000

    p := NewProvisioner(classes, newFakeSeatWriter(), prices, nil, nil, nil)
    n, err := p.PropagatePrice(context.Background(), premium.ID)
    require.NoError(t, err)

    assert.Equal(t, int64(2), n)
    assert.Equal(t, uint32(20000), prices.prices[[2]uint64{1, premium.ID}])
    assert.Equal(t, uint32(20000), prices.prices[[2]uint64{2, premium.ID}], "manual edit is overwritten")
    assert.Equal(t, uint32(12000), prices.prices[[2]uint64{1, regular.ID}], "other classes untouched")
}

func TestTomorrowSlots(t *testing.T) {
    now := time.Date(2025, 3, 10, 23, 45, 0, 0, time.UTC)
    slots := TomorrowSlots(now)
    require.Len(t, slots, 4)
    for i, hour := range []int{13, 16, 19, 22} {
        assert.Equal(t, time.Date(2025, 3, 11, hour, 0, 0, 0, time.UTC), slots[i])
    }
}

func TestEnsureTomorrowShowsCreatesAndProvisions(t *testing.T) {
    classes, _, _ := premiumRegular()
    seats := newFakeSeatWriter()
    prices := newFakePriceWriter()
    shows := &fakeShowEnsurer{existing: map[string]uint64{}}
    movies := &fakeMovieLister{movies: map[uint64][]uint64{1: {10}}} // one movie, one explicit theater
    theaters := &fakeTheaterLister{ids: []uint64{10, 11}}

    p := NewProvisioner(classes, seats, prices, shows, movies, theaters)
    created, err := p.EnsureTomorrowShows(context.Background())
    require.NoError(t, err)

    assert.Equal(t, 4, created, "one show per slot in the explicit theater only")
    assert.Len(t, seats.seats, 4*50)
}

func TestEnsureTomorrowShowsIsIdempotent(t *testing.T) {
    classes, _, _ := premiumRegular()
    seats := newFakeSeatWriter()
    prices := newFakePriceWriter()
    shows := &fakeShowEnsurer{existing: map[string]uint64{}}
    movies := &fakeMovieLister{movies: map[uint64][]uint64{1: nil}} // empty scope -> all theaters
    theaters := &fakeTheaterLister{ids: []uint64{10}}

    p := NewProvisioner(classes, seats, prices, shows, movies, theaters)

    created, err := p.EnsureTomorrowShows(context.Background())
    require.NoError(t, err)
    assert.Equal(t, 4, created)

    created, err = p.EnsureTomorrowShows(context.Background())
    require.NoError(t, err)
    assert.Equal(t, 0, created, "second run finds every slot filled")
    assert.Len(t, seats.seats, 4*50)
}
