package middleware

import (
    "net/http"
    "net/http/httptest"
    "testing"

    "github.com/labstack/echo/v4"
    "github.com/stretchr/testify/assert"
    "github.com/stretchr/testify/require"

    "github.com/cinebook/movie-ticket-booking/internal/utils"
)

const testSecret = "test-secret"

func okHandler(c echo.Context) error {
    return c.String(http.StatusOK, "ok")
}

func doRequest(t *testing.T, mw echo.MiddlewareFunc, authorization string) *httptest.ResponseRecorder {
    t.Helper()
    e := echo.New()
    req := httptest.NewRequest(http.MethodGet, "/", nil)
    if authorization != "" {
        req.Header.Set("Authorization", authorization)
    }
    rec := httptest.NewRecorder()
    c := e.NewContext(req, rec)
    require.NoError(t, mw(okHandler)(c))
    return rec
}

func TestJWTAuthAcceptsValidToken(t *testing.T) {
    at, err := utils.NewAccessToken(testSecret, 7, "CUSTOMER", 15)
    require.NoError(t, err)

    rec := doRequest(t, JWTAuth(testSecret), "Bearer "+at.Token)
    assert.Equal(t, http.StatusOK, rec.Code)
}

func TestJWTAuthRejectsMissingAndBadTokens(t *testing.T) {
    mw := JWTAuth(testSecret)

    rec := doRequest(t, mw, "")
    assert.Equal(t, http.StatusUnauthorized, rec.Code)

    rec = doRequest(t, mw, "Bearer not-a-jwt")
    assert.Equal(t, http.StatusUnauthorized, rec.Code)

    // Signed with a different secret.
    at, err := utils.NewAccessToken("other-secret", 7, "CUSTOMER", 15)
    require.NoError(t, err)
    rec = doRequest(t, mw, "Bearer "+at.Token)
    assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRequireRole(t *testing.T) {
    e := echo.New()

    run := func(role interface{}) *httptest.ResponseRecorder {
        req := httptest.NewRequest(http.MethodGet, "/", nil)
        rec := httptest.NewRecorder()
        c := e.NewContext(req, rec)
        if role != nil {
            c.Set("role", role)
        }
        require.NoError(t, RequireRole("ADMIN")(okHandler)(c))
        return rec
    }

    assert.Equal(t, http.StatusOK, run("ADMIN").Code)
    assert.Equal(t, http.StatusForbidden, run("CUSTOMER").Code)
    assert.Equal(t, http.StatusForbidden, run(nil).Code)
}
