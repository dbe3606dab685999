// Package router wires the HTTP endpoints to their handlers and attaches
// the middleware each route group needs.
package router

import (
    "github.com/labstack/echo/v4"

    "github.com/cinebook/movie-ticket-booking/internal/handler"
    "github.com/cinebook/movie-ticket-booking/internal/middleware"
    "github.com/cinebook/movie-ticket-booking/internal/model"
)

// RegisterRoutes registers routes that do not require authentication
// and carry no domain logic. Currently only the health check.
func RegisterRoutes(e *echo.Echo) {
    e.GET("/healthz", handler.Health)
}

// RegisterAuth registers the authentication endpoints.  Unauthenticated
// operations live under /v1/auth; /v1/me requires a valid access token.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, jwtSecret string) {
    g := e.Group("/v1/auth")
    g.POST("/register", a.Register)
    g.POST("/login", a.Login)
    // Refresh rotates the refresh token: the presented token is revoked
    // and a new pair is issued.
    g.POST("/refresh", a.Refresh)
    // Logout takes the refresh token in the body, so it needs no JWT.
    g.POST("/logout", a.Logout)

    auth := e.Group("/v1")
    auth.Use(middleware.JWTAuth(jwtSecret))
    auth.GET("/me", a.Me)
}

// RegisterPublic registers the unauthenticated browse endpoints. The
// cache middleware (when enabled) shields these from repeated reads;
// seat availability is deliberately NOT here because it must stay
// fresh per booking.
func RegisterPublic(e *echo.Echo, p *handler.PublicHandler, cache echo.MiddlewareFunc) {
    g := e.Group("/v1", cache)
    g.GET("/movies", p.ListMovies)
    g.GET("/movies/:movie_id", p.GetMovie)
    g.GET("/theaters", p.ListTheaters)
    g.GET("/theaters/:theater_id/movies", p.MoviesByTheater)
    g.GET("/theaters/:theater_id/movies/:movie_id/shows", p.ShowsTomorrow)
    g.GET("/shows/:show_id/prices", p.ShowPrices)
}

// RegisterBooking registers the customer booking flow. Every route
// requires an authenticated session; both roles may book.
func RegisterBooking(e *echo.Echo, b *handler.BookingHandler, jwtSecret string) {
    g := e.Group("/v1", middleware.JWTAuth(jwtSecret), middleware.RequireRole(model.RoleCustomer, model.RoleAdmin))
    g.GET("/movies/:movie_id/booking", b.SeatMap)
    g.POST("/movies/:movie_id/booking", b.SelectSeats)
    g.GET("/movies/:movie_id/payment", b.PaymentPreview)
    g.POST("/movies/:movie_id/payment", b.ConfirmPayment)
    g.GET("/bookings/:booking_id", b.GetBooking)
    g.GET("/bookings/:booking_id/ticket.pdf", b.TicketPDF)
    g.GET("/my-bookings", b.MyBookings)
}

// RegisterAdmin registers the management surface behind the ADMIN role.
func RegisterAdmin(e *echo.Echo, a *handler.AdminHandler, jwtSecret string) {
    g := e.Group("/v1/admin", middleware.JWTAuth(jwtSecret), middleware.RequireRole(model.RoleAdmin))

    g.POST("/movies", a.CreateMovie)
    g.PUT("/movies/:movie_id", a.UpdateMovie)
    g.DELETE("/movies/:movie_id", a.DeleteMovie)

    g.POST("/theaters", a.CreateTheater)
    g.PUT("/theaters/:theater_id", a.UpdateTheater)
    g.DELETE("/theaters/:theater_id", a.DeleteTheater)

    g.GET("/seat-classes", a.ListSeatClasses)
    g.POST("/seat-classes", a.CreateSeatClass)
    g.PUT("/seat-classes/:class_id", a.UpdateSeatClass)
    g.DELETE("/seat-classes/:class_id", a.DeleteSeatClass)

    g.POST("/shows", a.CreateShow)
    g.POST("/provision-shows", a.ProvisionShows)

    g.GET("/bookings", a.ListBookings)
    g.GET("/bookings/:booking_id", a.GetBooking)
}
