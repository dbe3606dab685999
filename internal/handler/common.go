// Package handler implements the HTTP endpoints of the booking API.
// Handlers bind and validate input, call repositories and services with
// a bounded context, and translate domain errors into JSON responses.
package handler

import (
    "context"
    "strconv"
    "time"

    "github.com/labstack/echo/v4"
)

// dbTimeout bounds every database call made from a handler.
const dbTimeout = 5 * time.Second

// reqCtx derives a bounded context from the request.
func reqCtx(c echo.Context) (context.Context, context.CancelFunc) {
    return context.WithTimeout(c.Request().Context(), dbTimeout)
}

// currentUserID extracts the authenticated user's ID that JWTAuth
// stored in the context. JWT claims decode numbers as float64; tokens
// produced by other issuers may carry the subject as a string.
func currentUserID(c echo.Context) (uint64, bool) {
    switch v := c.Get("user_id").(type) {
    case float64:
        return uint64(v), true
    case uint64:
        return v, true
    case string:
        n, err := strconv.ParseUint(v, 10, 64)
        return n, err == nil
    }
    return 0, false
}

// pathID parses a numeric path parameter.
func pathID(c echo.Context, name string) (uint64, error) {
    return strconv.ParseUint(c.Param(name), 10, 64)
}

// centsToAmount converts an integer cent amount to the decimal number
// rendered in JSON (e.g. 32000 -> 320.00).
func centsToAmount(cents uint32) float64 {
    return float64(cents) / 100
}
