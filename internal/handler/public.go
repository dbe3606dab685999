package handler

import (
    "errors"
    "net/http"
    "time"

    "github.com/labstack/echo/v4"

    "github.com/cinebook/movie-ticket-booking/internal/model"
    "github.com/cinebook/movie-ticket-booking/internal/repository"
)

// showClockFormat renders show times the way the browse pages expect,
// e.g. "01:00 PM".
const showClockFormat = "03:04 PM"

// PublicHandler serves the unauthenticated browse endpoints: movies,
// theaters, tomorrow's show times and per-show prices.
type PublicHandler struct {
    Movies   *repository.MovieRepo
    Theaters *repository.TheaterRepo
    Shows    *repository.ShowRepo
    Prices   *repository.ShowPriceRepo
}

func NewPublicHandler(m *repository.MovieRepo, t *repository.TheaterRepo, s *repository.ShowRepo, p *repository.ShowPriceRepo) *PublicHandler {
    return &PublicHandler{Movies: m, Theaters: t, Shows: s, Prices: p}
}

type movieResp struct {
    ID          uint64 `json:"id"`
    Title       string `json:"title"`
    Description string `json:"description"`
    DurationMin uint32 `json:"duration_min"`
    ReleaseDate string `json:"release_date"`
    PosterURL   string `json:"poster_url"`
    TrailerURL  string `json:"trailer_url"`
}

func toMovieResp(m model.Movie) movieResp {
    return movieResp{
        ID:          m.ID,
        Title:       m.Title,
        Description: m.Description,
        DurationMin: m.DurationMin,
        ReleaseDate: m.ReleaseDate.Format("2006-01-02"),
        PosterURL:   m.PosterURL,
        TrailerURL:  m.TrailerURL,
    }
}

// ListMovies returns every movie for the landing page.
func (h *PublicHandler) ListMovies(c echo.Context) error {
    ctx, cancel := reqCtx(c)
    defer cancel()

    movies, err := h.Movies.List(ctx)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "list movies failed"})
    }
    out := make([]movieResp, 0, len(movies))
    for _, m := range movies {
        out = append(out, toMovieResp(m))
    }
    return c.JSON(http.StatusOK, echo.Map{"movies": out})
}

// GetMovie returns one movie with its embeddable trailer link.
func (h *PublicHandler) GetMovie(c echo.Context) error {
    id, err := pathID(c, "movie_id")
    if err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid movie id"})
    }

    ctx, cancel := reqCtx(c)
    defer cancel()

    m, err := h.Movies.GetByID(ctx, id)
    if err != nil {
        if errors.Is(err, repository.ErrMovieNotFound) {
            return c.JSON(http.StatusNotFound, echo.Map{"error": "movie not found"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load movie failed"})
    }
    return c.JSON(http.StatusOK, toMovieResp(*m))
}

// ListTheaters returns every theater.
func (h *PublicHandler) ListTheaters(c echo.Context) error {
    ctx, cancel := reqCtx(c)
    defer cancel()

    theaters, err := h.Theaters.List(ctx)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "list theaters failed"})
    }
    type theaterResp struct {
        ID   uint64 `json:"id"`
        Name string `json:"name"`
        City string `json:"city"`
    }
    out := make([]theaterResp, 0, len(theaters))
    for _, t := range theaters {
        out = append(out, theaterResp{ID: t.ID, Name: t.Name, City: t.City})
    }
    return c.JSON(http.StatusOK, echo.Map{"theaters": out})
}

// MoviesByTheater returns the movies that have at least one show
// scheduled in the given theater, as id/title pairs for the booking
// widget's movie dropdown.
func (h *PublicHandler) MoviesByTheater(c echo.Context) error {
    theaterID, err := pathID(c, "theater_id")
    if err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid theater id"})
    }

    ctx, cancel := reqCtx(c)
    defer cancel()

    movies, err := h.Movies.ListByTheater(ctx, theaterID)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "list movies failed"})
    }
    type pair struct {
        ID    uint64 `json:"id"`
        Title string `json:"title"`
    }
    out := make([]pair, 0, len(movies))
    for _, m := range movies {
        out = append(out, pair{ID: m.ID, Title: m.Title})
    }
    return c.JSON(http.StatusOK, echo.Map{"movies": out})
}

// ShowsTomorrow returns tomorrow's shows of a movie in a theater as
// id/time pairs, times rendered as "01:00 PM".
func (h *PublicHandler) ShowsTomorrow(c echo.Context) error {
    theaterID, err := pathID(c, "theater_id")
    if err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid theater id"})
    }
    movieID, err := pathID(c, "movie_id")
    if err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid movie id"})
    }

    ctx, cancel := reqCtx(c)
    defer cancel()

    tomorrow := time.Now().UTC().AddDate(0, 0, 1)
    shows, err := h.Shows.ListByTheaterAndMovieOn(ctx, theaterID, movieID, tomorrow)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "list shows failed"})
    }
    type showResp struct {
        ID   uint64 `json:"id"`
        Time string `json:"time"`
    }
    out := make([]showResp, 0, len(shows))
    for _, s := range shows {
        out = append(out, showResp{ID: s.ID, Time: s.ShowTime.Format(showClockFormat)})
    }
    return c.JSON(http.StatusOK, echo.Map{"shows": out})
}

// ShowPrices returns the per-class prices of one show keyed by class
// name, as decimal amounts.
func (h *PublicHandler) ShowPrices(c echo.Context) error {
    showID, err := pathID(c, "show_id")
    if err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid show id"})
    }

    ctx, cancel := reqCtx(c)
    defer cancel()

    if _, err := h.Shows.GetByID(ctx, showID); err != nil {
        if errors.Is(err, repository.ErrShowNotFound) {
            return c.JSON(http.StatusNotFound, echo.Map{"error": "show not found"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load show failed"})
    }
    byName, err := h.Prices.PricesByClassName(ctx, showID)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load prices failed"})
    }
    prices := make(map[string]float64, len(byName))
    for name, cents := range byName {
        prices[name] = centsToAmount(cents)
    }
    return c.JSON(http.StatusOK, echo.Map{"prices": prices})
}
