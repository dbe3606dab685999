package handler

import (
    "errors"
    "math"
    "net/http"
    "strings"
    "time"

    "github.com/labstack/echo/v4"

    "github.com/cinebook/movie-ticket-booking/internal/model"
    "github.com/cinebook/movie-ticket-booking/internal/repository"
    "github.com/cinebook/movie-ticket-booking/internal/service"
)

// AdminHandler serves the management surface: movie, theater and seat
// class CRUD, show creation, the schedule trigger and the read-only
// bookings report. All routes behind it require the ADMIN role.
type AdminHandler struct {
    Movies      *repository.MovieRepo
    Theaters    *repository.TheaterRepo
    Classes     *repository.SeatClassRepo
    Shows       *repository.ShowRepo
    Bookings    *repository.BookingRepo
    Users       *repository.UserRepo
    Provisioner *service.Provisioner
}

// ----- movies -----

type movieReq struct {
    Title       string   `json:"title"`
    Description string   `json:"description"`
    DurationMin uint32   `json:"duration_min"`
    ReleaseDate string   `json:"release_date"` // YYYY-MM-DD
    PosterURL   string   `json:"poster_url"`
    TrailerURL  string   `json:"trailer_url"`
    TheaterIDs  []uint64 `json:"theater_ids"` // empty = every theater
}

func (r *movieReq) toModel() (*model.Movie, error) {
    r.Title = strings.TrimSpace(r.Title)
    if r.Title == "" {
        return nil, errors.New("title required")
    }
    release, err := time.Parse("2006-01-02", r.ReleaseDate)
    if err != nil {
        return nil, errors.New("release_date must be YYYY-MM-DD")
    }
    return &model.Movie{
        Title:       r.Title,
        Description: r.Description,
        DurationMin: r.DurationMin,
        ReleaseDate: release,
        PosterURL:   r.PosterURL,
        TrailerURL:  r.TrailerURL,
    }, nil
}

// CreateMovie adds a movie and its theater scope.
func (h *AdminHandler) CreateMovie(c echo.Context) error {
    var req movieReq
    if err := c.Bind(&req); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
    }
    m, err := req.toModel()
    if err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
    }

    ctx, cancel := reqCtx(c)
    defer cancel()

    if err := h.Movies.Create(ctx, m); err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create movie failed"})
    }
    if len(req.TheaterIDs) > 0 {
        if err := h.Movies.SetTheaters(ctx, m.ID, req.TheaterIDs); err != nil {
            return c.JSON(http.StatusInternalServerError, echo.Map{"error": "set theaters failed"})
        }
    }
    return c.JSON(http.StatusCreated, echo.Map{"id": m.ID})
}

// UpdateMovie rewrites a movie and replaces its theater scope.
func (h *AdminHandler) UpdateMovie(c echo.Context) error {
    id, err := pathID(c, "movie_id")
    if err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid movie id"})
    }
    var req movieReq
    if err := c.Bind(&req); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
    }
    m, err := req.toModel()
    if err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
    }
    m.ID = id

    ctx, cancel := reqCtx(c)
    defer cancel()

    if err := h.Movies.Update(ctx, m); err != nil {
        if errors.Is(err, repository.ErrMovieNotFound) {
            return c.JSON(http.StatusNotFound, echo.Map{"error": "movie not found"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update movie failed"})
    }
    if err := h.Movies.SetTheaters(ctx, id, req.TheaterIDs); err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "set theaters failed"})
    }
    return c.JSON(http.StatusOK, echo.Map{"message": "updated"})
}

// DeleteMovie removes a movie.
func (h *AdminHandler) DeleteMovie(c echo.Context) error {
    id, err := pathID(c, "movie_id")
    if err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid movie id"})
    }

    ctx, cancel := reqCtx(c)
    defer cancel()

    if err := h.Movies.Delete(ctx, id); err != nil {
        if errors.Is(err, repository.ErrMovieNotFound) {
            return c.JSON(http.StatusNotFound, echo.Map{"error": "movie not found"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete movie failed"})
    }
    return c.JSON(http.StatusOK, echo.Map{"message": "deleted"})
}

// ----- theaters -----

type theaterReq struct {
    Name string `json:"name"`
    City string `json:"city"`
}

// CreateTheater adds a theater.
func (h *AdminHandler) CreateTheater(c echo.Context) error {
    var req theaterReq
    if err := c.Bind(&req); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
    }
    req.Name = strings.TrimSpace(req.Name)
    if req.Name == "" {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "name required"})
    }

    ctx, cancel := reqCtx(c)
    defer cancel()

    t := &model.Theater{Name: req.Name, City: strings.TrimSpace(req.City)}
    if err := h.Theaters.Create(ctx, t); err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create theater failed"})
    }
    return c.JSON(http.StatusCreated, echo.Map{"id": t.ID})
}

// UpdateTheater rewrites a theater.
func (h *AdminHandler) UpdateTheater(c echo.Context) error {
    id, err := pathID(c, "theater_id")
    if err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid theater id"})
    }
    var req theaterReq
    if err := c.Bind(&req); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
    }
    req.Name = strings.TrimSpace(req.Name)
    if req.Name == "" {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "name required"})
    }

    ctx, cancel := reqCtx(c)
    defer cancel()

    t := &model.Theater{ID: id, Name: req.Name, City: strings.TrimSpace(req.City)}
    if err := h.Theaters.Update(ctx, t); err != nil {
        if errors.Is(err, repository.ErrTheaterNotFound) {
            return c.JSON(http.StatusNotFound, echo.Map{"error": "theater not found"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update theater failed"})
    }
    return c.JSON(http.StatusOK, echo.Map{"message": "updated"})
}

// DeleteTheater removes a theater.
func (h *AdminHandler) DeleteTheater(c echo.Context) error {
    id, err := pathID(c, "theater_id")
    if err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid theater id"})
    }

    ctx, cancel := reqCtx(c)
    defer cancel()

    if err := h.Theaters.Delete(ctx, id); err != nil {
        if errors.Is(err, repository.ErrTheaterNotFound) {
            return c.JSON(http.StatusNotFound, echo.Map{"error": "theater not found"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete theater failed"})
    }
    return c.JSON(http.StatusOK, echo.Map{"message": "deleted"})
}

// ----- seat classes -----

type seatClassReq struct {
    Name         string  `json:"name"`
    Color        string  `json:"color"`
    DefaultPrice float64 `json:"default_price"` // decimal amount
}

func amountToCents(amount float64) (uint32, bool) {
    if amount < 0 || amount > math.MaxUint32/100 {
        return 0, false
    }
    return uint32(math.Round(amount * 100)), true
}

// ListSeatClasses returns every seat class with its default price.
func (h *AdminHandler) ListSeatClasses(c echo.Context) error {
    ctx, cancel := reqCtx(c)
    defer cancel()

    classes, err := h.Classes.List(ctx)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "list seat classes failed"})
    }
    type resp struct {
        ID           uint64  `json:"id"`
        Name         string  `json:"name"`
        Color        string  `json:"color"`
        DefaultPrice float64 `json:"default_price"`
    }
    out := make([]resp, 0, len(classes))
    for _, sc := range classes {
        out = append(out, resp{ID: sc.ID, Name: sc.Name, Color: sc.Color, DefaultPrice: centsToAmount(sc.DefaultPriceCents)})
    }
    return c.JSON(http.StatusOK, echo.Map{"seat_classes": out})
}

// CreateSeatClass adds a pricing tier.
func (h *AdminHandler) CreateSeatClass(c echo.Context) error {
    var req seatClassReq
    if err := c.Bind(&req); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
    }
    req.Name = strings.TrimSpace(req.Name)
    if req.Name == "" {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "name required"})
    }
    cents, ok := amountToCents(req.DefaultPrice)
    if !ok {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid default_price"})
    }

    ctx, cancel := reqCtx(c)
    defer cancel()

    sc := &model.SeatClass{Name: req.Name, Color: req.Color, DefaultPriceCents: cents}
    if err := h.Classes.Create(ctx, sc); err != nil {
        if errors.Is(err, repository.ErrConflict) {
            return c.JSON(http.StatusConflict, echo.Map{"error": "seat class name already exists"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create seat class failed"})
    }
    return c.JSON(http.StatusCreated, echo.Map{"id": sc.ID})
}

// UpdateSeatClass changes a tier's color or default price. A default
// price change is propagated to every existing show price of the class.
func (h *AdminHandler) UpdateSeatClass(c echo.Context) error {
    id, err := pathID(c, "class_id")
    if err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid seat class id"})
    }
    var req seatClassReq
    if err := c.Bind(&req); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
    }
    cents, ok := amountToCents(req.DefaultPrice)
    if !ok {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid default_price"})
    }

    ctx, cancel := reqCtx(c)
    defer cancel()

    sc := &model.SeatClass{ID: id, Color: req.Color, DefaultPriceCents: cents}
    if err := h.Classes.Update(ctx, sc); err != nil {
        if errors.Is(err, repository.ErrSeatClassNotFound) {
            return c.JSON(http.StatusNotFound, echo.Map{"error": "seat class not found"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update seat class failed"})
    }
    propagated, err := h.Provisioner.PropagatePrice(ctx, id)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "propagate price failed"})
    }
    return c.JSON(http.StatusOK, echo.Map{"message": "updated", "propagated": propagated})
}

// DeleteSeatClass removes a tier that is not referenced by any seat or
// price row.
func (h *AdminHandler) DeleteSeatClass(c echo.Context) error {
    id, err := pathID(c, "class_id")
    if err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid seat class id"})
    }

    ctx, cancel := reqCtx(c)
    defer cancel()

    if err := h.Classes.Delete(ctx, id); err != nil {
        switch {
        case errors.Is(err, repository.ErrSeatClassNotFound):
            return c.JSON(http.StatusNotFound, echo.Map{"error": "seat class not found"})
        case errors.Is(err, repository.ErrConflict):
            return c.JSON(http.StatusConflict, echo.Map{"error": "seat class is in use"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete seat class failed"})
    }
    return c.JSON(http.StatusOK, echo.Map{"message": "deleted"})
}

// ----- shows -----

type createShowReq struct {
    MovieID   uint64 `json:"movie_id"`
    TheaterID uint64 `json:"theater_id"`
    ShowTime  string `json:"show_time"` // RFC3339
}

// CreateShow schedules one show and provisions its seats and prices.
// Creating a slot that already exists answers 200 with the existing
// show rather than duplicating it.
func (h *AdminHandler) CreateShow(c echo.Context) error {
    var req createShowReq
    if err := c.Bind(&req); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
    }
    showTime, err := time.Parse(time.RFC3339, req.ShowTime)
    if err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "show_time must be RFC3339"})
    }

    ctx, cancel := reqCtx(c)
    defer cancel()

    if _, err := h.Movies.GetByID(ctx, req.MovieID); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "unknown movie"})
    }
    if _, err := h.Theaters.GetByID(ctx, req.TheaterID); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "unknown theater"})
    }

    showID, created, err := h.Shows.Ensure(ctx, req.MovieID, req.TheaterID, showTime.UTC())
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create show failed"})
    }
    if err := h.Provisioner.ProvisionShow(ctx, showID); err != nil {
        if errors.Is(err, service.ErrSeatClassMissing) {
            return c.JSON(http.StatusConflict, echo.Map{"error": "seat classes not seeded"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "provision show failed"})
    }
    status := http.StatusOK
    if created {
        status = http.StatusCreated
    }
    return c.JSON(status, echo.Map{"id": showID, "created": created})
}

// ProvisionShows runs the tomorrow's-schedule job on demand, the same
// job the scheduler runs periodically.
func (h *AdminHandler) ProvisionShows(c echo.Context) error {
    ctx, cancel := reqCtx(c)
    defer cancel()

    created, err := h.Provisioner.EnsureTomorrowShows(ctx)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "provision shows failed"})
    }
    return c.JSON(http.StatusOK, echo.Map{"created": created})
}

// ----- bookings report -----

// ListBookings returns every booking for the admin report. The report
// is read-only: bookings are immutable once confirmed.
func (h *AdminHandler) ListBookings(c echo.Context) error {
    ctx, cancel := reqCtx(c)
    defer cancel()

    bookings, err := h.Bookings.ListAll(ctx)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "list bookings failed"})
    }
    out := make([]echo.Map, 0, len(bookings))
    for _, b := range bookings {
        row := echo.Map{
            "booking_id":   b.ID,
            "reference":    b.Reference,
            "user_id":      b.UserID,
            "show_id":      b.ShowID,
            "total":        centsToAmount(b.TotalCents),
            "booking_time": b.BookingTime,
        }
        if u, err := h.Users.GetByID(ctx, b.UserID); err == nil {
            row["user_email"] = u.Email
        }
        if m, err := h.Movies.GetByID(ctx, b.MovieID); err == nil {
            row["movie"] = m.Title
        }
        out = append(out, row)
    }
    return c.JSON(http.StatusOK, echo.Map{"bookings": out})
}

// GetBooking returns one booking with its seats grouped by class, for
// the admin report detail view.
func (h *AdminHandler) GetBooking(c echo.Context) error {
    id, err := pathID(c, "booking_id")
    if err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid booking id"})
    }

    ctx, cancel := reqCtx(c)
    defer cancel()

    b, err := h.Bookings.GetByID(ctx, id)
    if err != nil {
        if errors.Is(err, repository.ErrBookingNotFound) {
            return c.JSON(http.StatusNotFound, echo.Map{"error": "booking not found"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load booking failed"})
    }
    seats, err := h.Bookings.SeatsByBooking(ctx, b.ID)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load seats failed"})
    }

    // SeatsByBooking orders by class name, so grouping is a single scan.
    var groups []echo.Map
    for _, bs := range seats {
        if len(groups) == 0 || groups[len(groups)-1]["class"] != bs.ClassName {
            groups = append(groups, echo.Map{"class": bs.ClassName, "seats": []string{}})
        }
        last := groups[len(groups)-1]
        last["seats"] = append(last["seats"].([]string), bs.SeatNumber)
    }

    detail := echo.Map{
        "booking_id":   b.ID,
        "reference":    b.Reference,
        "user_id":      b.UserID,
        "show_id":      b.ShowID,
        "total":        centsToAmount(b.TotalCents),
        "booking_time": b.BookingTime,
        "seat_groups":  groups,
    }
    if u, err := h.Users.GetByID(ctx, b.UserID); err == nil {
        detail["user_email"] = u.Email
    }
    if m, err := h.Movies.GetByID(ctx, b.MovieID); err == nil {
        detail["movie"] = m.Title
    }
    return c.JSON(http.StatusOK, detail)
}
