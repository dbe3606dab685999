package handler

import (
    "context"
    "errors"
    "fmt"
    "log"
    "net/http"
    "strconv"
    "time"

    "github.com/labstack/echo/v4"

    "github.com/cinebook/movie-ticket-booking/internal/model"
    "github.com/cinebook/movie-ticket-booking/internal/queue"
    "github.com/cinebook/movie-ticket-booking/internal/repository"
    "github.com/cinebook/movie-ticket-booking/internal/service"
    "github.com/cinebook/movie-ticket-booking/internal/ticket"
)

// Seat map statuses.
const (
    seatAvailable = "available"
    seatBooked    = "booked"
    seatHeld      = "held"
)

// BookingHandler serves the customer booking flow: the seat map, seat
// selection, the payment preview, confirmation, booking details, the
// PDF ticket and the user's booking history.
type BookingHandler struct {
    Svc      *service.BookingService
    Bookings *repository.BookingRepo
    Seats    *repository.SeatRepo
    Holds    *repository.SeatHoldRepo
    Classes  *repository.SeatClassRepo
    Shows    *repository.ShowRepo
    Movies   *repository.MovieRepo
    Theaters *repository.TheaterRepo
    Prices   *repository.ShowPriceRepo
    Tickets  *ticket.PDFGenerator
}

type seatResp struct {
    Number string `json:"number"`
    Class  string `json:"class"`
    Color  string `json:"color,omitempty"`
    Status string `json:"status"`
}

// SeatMap renders the seat grid of a show with per-seat status. Seats
// held by other users show as held so the client can grey them out;
// the caller's own holds stay available for re-selection.
func (h *BookingHandler) SeatMap(c echo.Context) error {
    uid, ok := currentUserID(c)
    if !ok {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthenticated"})
    }
    movieID, err := pathID(c, "movie_id")
    if err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid movie id"})
    }
    showID, err := strconv.ParseUint(c.QueryParam("show_id"), 10, 64)
    if err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "show_id required"})
    }

    ctx, cancel := reqCtx(c)
    defer cancel()

    show, err := h.Shows.GetByID(ctx, showID)
    if err != nil {
        if errors.Is(err, repository.ErrShowNotFound) {
            return c.JSON(http.StatusNotFound, echo.Map{"error": "show not found"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load show failed"})
    }
    if show.MovieID != movieID {
        return c.JSON(http.StatusNotFound, echo.Map{"error": "show not found for movie"})
    }

    seats, err := h.Seats.ListByShow(ctx, showID)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load seats failed"})
    }
    booked, err := h.Bookings.BookedSeatNumbersByShow(ctx, showID)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load bookings failed"})
    }
    held, err := h.Holds.HeldSeatNumbersByShow(ctx, showID, uid)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load holds failed"})
    }
    classes, err := h.Classes.List(ctx)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load seat classes failed"})
    }

    classByID := make(map[uint64]model.SeatClass, len(classes))
    for _, sc := range classes {
        classByID[sc.ID] = sc
    }
    bookedSet := toSet(booked)
    heldSet := toSet(held)

    out := make([]seatResp, 0, len(seats))
    for _, s := range seats {
        status := seatAvailable
        if bookedSet[s.SeatNumber] {
            status = seatBooked
        } else if heldSet[s.SeatNumber] {
            status = seatHeld
        }
        sc := classByID[s.SeatClassID]
        out = append(out, seatResp{Number: s.SeatNumber, Class: sc.Name, Color: sc.Color, Status: status})
    }
    return c.JSON(http.StatusOK, echo.Map{
        "show_id":   showID,
        "show_time": show.ShowTime.Format(showClockFormat),
        "seats":     out,
    })
}

type selectSeatsReq struct {
    ShowID uint64 `json:"show_id"`
    Seats  string `json:"seats"` // comma-separated, e.g. "A1,A2"
}

// SelectSeats stages the caller's seat selection as expiring holds.
func (h *BookingHandler) SelectSeats(c echo.Context) error {
    uid, ok := currentUserID(c)
    if !ok {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthenticated"})
    }
    movieID, err := pathID(c, "movie_id")
    if err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid movie id"})
    }
    var req selectSeatsReq
    if err := c.Bind(&req); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
    }

    ctx, cancel := reqCtx(c)
    defer cancel()

    expiresAt, err := h.Svc.StageSelection(ctx, uid, movieID, req.ShowID, req.Seats)
    if err != nil {
        switch {
        case errors.Is(err, service.ErrEmptySelection):
            return c.JSON(http.StatusBadRequest, echo.Map{"error": "no seats selected"})
        case errors.Is(err, service.ErrUnknownSeats):
            return c.JSON(http.StatusBadRequest, echo.Map{"error": "unknown seat for this show"})
        case errors.Is(err, service.ErrShowMismatch), errors.Is(err, repository.ErrShowNotFound):
            return c.JSON(http.StatusNotFound, echo.Map{"error": "show not found for movie"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "stage selection failed"})
    }
    return c.JSON(http.StatusOK, echo.Map{"expires_at": expiresAt})
}

func selectionResp(sel *service.Selection) echo.Map {
    numbers := make([]string, len(sel.Seats))
    for i, s := range sel.Seats {
        numbers[i] = s.SeatNumber
    }
    return echo.Map{
        "show_id":    sel.ShowID,
        "show_time":  sel.ShowTime.Format(showClockFormat),
        "seats":      numbers,
        "total":      centsToAmount(sel.TotalCents),
        "expires_at": sel.ExpiresAt,
    }
}

// PaymentPreview prices the staged selection for the payment page. An
// expired or absent selection answers 409 so the client restarts the
// flow from seat selection.
func (h *BookingHandler) PaymentPreview(c echo.Context) error {
    uid, ok := currentUserID(c)
    if !ok {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthenticated"})
    }
    movieID, err := pathID(c, "movie_id")
    if err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid movie id"})
    }

    ctx, cancel := reqCtx(c)
    defer cancel()

    sel, err := h.Svc.StagedSelection(ctx, uid, movieID)
    if err != nil {
        if errors.Is(err, service.ErrSelectionExpired) {
            return c.JSON(http.StatusConflict, echo.Map{"error": "seat selection expired"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load selection failed"})
    }
    return c.JSON(http.StatusOK, selectionResp(sel))
}

// ConfirmPayment turns the staged selection into a booking. Payment is
// simulated: confirmation itself is the charge. Losing the seat race
// answers 409 with the contested seat numbers.
func (h *BookingHandler) ConfirmPayment(c echo.Context) error {
    uid, ok := currentUserID(c)
    if !ok {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthenticated"})
    }
    movieID, err := pathID(c, "movie_id")
    if err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid movie id"})
    }

    ctx, cancel := reqCtx(c)
    defer cancel()

    booking, sel, err := h.Svc.Confirm(ctx, uid, movieID)
    if err != nil {
        var taken *service.SeatsTakenError
        switch {
        case errors.Is(err, service.ErrSelectionExpired):
            return c.JSON(http.StatusConflict, echo.Map{"error": "seat selection expired"})
        case errors.As(err, &taken):
            return c.JSON(http.StatusConflict, echo.Map{
                "error": "seats already booked",
                "seats": taken.Seats,
            })
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "confirm booking failed"})
    }

    h.publishConfirmed(ctx, booking, sel)

    numbers := make([]string, len(sel.Seats))
    for i, s := range sel.Seats {
        numbers[i] = s.SeatNumber
    }
    return c.JSON(http.StatusCreated, echo.Map{
        "booking_id": booking.ID,
        "reference":  booking.Reference,
        "show_id":    booking.ShowID,
        "seats":      numbers,
        "total":      centsToAmount(booking.TotalCents),
    })
}

// publishConfirmed emits the booking.confirmed event. Failures are
// logged only: the booking is already committed.
func (h *BookingHandler) publishConfirmed(ctx context.Context, b *model.Booking, sel *service.Selection) {
    movieTitle, theaterName := "", ""
    if m, err := h.Movies.GetByID(ctx, b.MovieID); err == nil {
        movieTitle = m.Title
    }
    if show, err := h.Shows.GetByID(ctx, b.ShowID); err == nil {
        if t, err := h.Theaters.GetByID(ctx, show.TheaterID); err == nil {
            theaterName = t.Name
        }
    }
    numbers := make([]string, len(sel.Seats))
    for i, s := range sel.Seats {
        numbers[i] = s.SeatNumber
    }
    ev := queue.BookingConfirmedEvent{
        BookingID:   b.ID,
        Reference:   b.Reference,
        UserID:      b.UserID,
        ShowID:      b.ShowID,
        MovieTitle:  movieTitle,
        TheaterName: theaterName,
        ShowTime:    sel.ShowTime.UTC().Format("2006-01-02 15:04:05"),
        Seats:       numbers,
        TotalCents:  b.TotalCents,
        ConfirmedAt: time.Now().UTC().Format(time.RFC3339),
    }
    go func() {
        pubCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
        defer cancel()
        if err := queue.PublishBookingConfirmed(pubCtx, ev); err != nil {
            log.Printf("booking %d: publish confirmed event failed: %v", b.ID, err)
        }
    }()
}

type seatGroupResp struct {
    Class string   `json:"class"`
    Price float64  `json:"price"`
    Seats []string `json:"seats"`
}

func (h *BookingHandler) bookingDetail(ctx context.Context, b *model.Booking) (echo.Map, error) {
    seats, err := h.Bookings.SeatsByBooking(ctx, b.ID)
    if err != nil {
        return nil, err
    }
    priceMap, err := h.Prices.PriceMapByShow(ctx, b.ShowID)
    if err != nil {
        return nil, err
    }

    var groups []seatGroupResp
    for _, bs := range seats {
        if len(groups) == 0 || groups[len(groups)-1].Class != bs.ClassName {
            groups = append(groups, seatGroupResp{
                Class: bs.ClassName,
                Price: centsToAmount(priceMap[bs.SeatClassID]),
            })
        }
        last := &groups[len(groups)-1]
        last.Seats = append(last.Seats, bs.SeatNumber)
    }

    detail := echo.Map{
        "booking_id":   b.ID,
        "reference":    b.Reference,
        "show_id":      b.ShowID,
        "total":        centsToAmount(b.TotalCents),
        "booking_time": b.BookingTime,
        "seat_groups":  groups,
    }
    if m, err := h.Movies.GetByID(ctx, b.MovieID); err == nil {
        detail["movie"] = m.Title
    }
    if show, err := h.Shows.GetByID(ctx, b.ShowID); err == nil {
        detail["show_time"] = show.ShowTime.Format(showClockFormat)
        if t, err := h.Theaters.GetByID(ctx, show.TheaterID); err == nil {
            detail["theater"] = t.Name
        }
    }
    return detail, nil
}

// GetBooking returns a booking's confirmation view with seats grouped
// by class. Only the owner may read it.
func (h *BookingHandler) GetBooking(c echo.Context) error {
    uid, ok := currentUserID(c)
    if !ok {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthenticated"})
    }
    bookingID, err := pathID(c, "booking_id")
    if err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid booking id"})
    }

    ctx, cancel := reqCtx(c)
    defer cancel()

    b, err := h.Bookings.GetByIDForUser(ctx, bookingID, uid)
    if err != nil {
        switch {
        case errors.Is(err, repository.ErrBookingNotFound):
            return c.JSON(http.StatusNotFound, echo.Map{"error": "booking not found"})
        case errors.Is(err, repository.ErrForbidden):
            return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load booking failed"})
    }
    detail, err := h.bookingDetail(ctx, b)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load booking failed"})
    }
    return c.JSON(http.StatusOK, detail)
}

// TicketPDF renders the booking as a downloadable PDF ticket with a QR
// code carrying the booking reference. Only the owner may download it.
func (h *BookingHandler) TicketPDF(c echo.Context) error {
    uid, ok := currentUserID(c)
    if !ok {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthenticated"})
    }
    bookingID, err := pathID(c, "booking_id")
    if err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid booking id"})
    }

    ctx, cancel := reqCtx(c)
    defer cancel()

    b, err := h.Bookings.GetByIDForUser(ctx, bookingID, uid)
    if err != nil {
        switch {
        case errors.Is(err, repository.ErrBookingNotFound):
            return c.JSON(http.StatusNotFound, echo.Map{"error": "booking not found"})
        case errors.Is(err, repository.ErrForbidden):
            return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load booking failed"})
    }

    seats, err := h.Bookings.SeatsByBooking(ctx, b.ID)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load seats failed"})
    }
    numbers := make([]string, len(seats))
    for i, s := range seats {
        numbers[i] = s.SeatNumber
    }

    d := ticket.Details{
        Reference:   b.Reference,
        Seats:       numbers,
        TotalCents:  b.TotalCents,
        BookingTime: b.BookingTime,
    }
    if m, err := h.Movies.GetByID(ctx, b.MovieID); err == nil {
        d.MovieTitle = m.Title
    }
    if show, err := h.Shows.GetByID(ctx, b.ShowID); err == nil {
        d.ShowTime = show.ShowTime
        if t, err := h.Theaters.GetByID(ctx, show.TheaterID); err == nil {
            d.TheaterName = t.Name
        }
    }

    qr, err := ticket.QRCode(b.Reference)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "render qr failed"})
    }
    pdf, err := h.Tickets.Generate(d, qr)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "render ticket failed"})
    }

    c.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf("attachment; filename=ticket-%s.pdf", b.Reference))
    return c.Blob(http.StatusOK, "application/pdf", pdf)
}

// MyBookings lists the caller's bookings, newest first.
func (h *BookingHandler) MyBookings(c echo.Context) error {
    uid, ok := currentUserID(c)
    if !ok {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthenticated"})
    }

    ctx, cancel := reqCtx(c)
    defer cancel()

    bookings, err := h.Bookings.ListByUser(ctx, uid)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "list bookings failed"})
    }
    out := make([]echo.Map, 0, len(bookings))
    for i := range bookings {
        detail, err := h.bookingDetail(ctx, &bookings[i])
        if err != nil {
            return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load bookings failed"})
        }
        out = append(out, detail)
    }
    return c.JSON(http.StatusOK, echo.Map{"bookings": out})
}

func toSet(items []string) map[string]bool {
    set := make(map[string]bool, len(items))
    for _, it := range items {
        set[it] = true
    }
    return set
}
