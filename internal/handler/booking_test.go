package handler

import (
    "context"
    "net/http"
    "net/http/httptest"
    "strings"
    "testing"
    "time"

    "github.com/labstack/echo/v4"
    "github.com/stretchr/testify/assert"
    "github.com/stretchr/testify/require"

    "github.com/cinebook/movie-ticket-booking/internal/model"
    "github.com/cinebook/movie-ticket-booking/internal/service"
)

// noHolds is a HoldStore with no staged selection.
type noHolds struct{}

func (noHolds) ReplaceForUserShow(context.Context, uint64, uint64, []uint64, string, time.Time) error {
    return nil
}

func (noHolds) ActiveForUserAndMovie(context.Context, uint64, uint64) ([]model.SeatHold, error) {
    return nil, nil
}

func newPaymentCtx(e *echo.Echo, method string) (echo.Context, *httptest.ResponseRecorder) {
    req := httptest.NewRequest(method, "/v1/movies/3/payment", strings.NewReader(""))
    rec := httptest.NewRecorder()
    c := e.NewContext(req, rec)
    c.SetPath("/v1/movies/:movie_id/payment")
    c.SetParamNames("movie_id")
    c.SetParamValues("3")
    c.Set("user_id", float64(1)) // as JWTAuth stores it
    return c, rec
}

func TestPaymentPreviewExpiredSelectionIsConflict(t *testing.T) {
    svc := service.NewBookingService(noHolds{}, nil, nil, nil, nil, 10*time.Minute)
    h := &BookingHandler{Svc: svc}

    e := echo.New()
    c, rec := newPaymentCtx(e, http.MethodGet)

    require.NoError(t, h.PaymentPreview(c))
    assert.Equal(t, http.StatusConflict, rec.Code)
    assert.Contains(t, rec.Body.String(), "seat selection expired")
}

func TestConfirmPaymentExpiredSelectionIsConflict(t *testing.T) {
    svc := service.NewBookingService(noHolds{}, nil, nil, nil, nil, 10*time.Minute)
    h := &BookingHandler{Svc: svc}

    e := echo.New()
    c, rec := newPaymentCtx(e, http.MethodPost)

    require.NoError(t, h.ConfirmPayment(c))
    assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestPaymentPreviewRequiresAuth(t *testing.T) {
    h := &BookingHandler{Svc: service.NewBookingService(noHolds{}, nil, nil, nil, nil, 0)}

    e := echo.New()
    req := httptest.NewRequest(http.MethodGet, "/v1/movies/3/payment", nil)
    rec := httptest.NewRecorder()
    c := e.NewContext(req, rec)
    c.SetParamNames("movie_id")
    c.SetParamValues("3")
    // no user_id in context

    require.NoError(t, h.PaymentPreview(c))
    assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestCentsToAmount(t *testing.T) {
    assert.Equal(t, 320.0, centsToAmount(32000))
    assert.Equal(t, 0.5, centsToAmount(50))
    assert.Equal(t, 0.0, centsToAmount(0))
}
