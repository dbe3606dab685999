package utils

import (
    "testing"
    "time"

    "github.com/golang-jwt/jwt/v5"
    "github.com/stretchr/testify/assert"
    "github.com/stretchr/testify/require"
)

func TestNewAccessTokenRoundTrip(t *testing.T) {
    const secret = "test-secret"
    at, err := NewAccessToken(secret, 7, "CUSTOMER", 15)
    require.NoError(t, err)
    assert.WithinDuration(t, time.Now().UTC().Add(15*time.Minute), at.Exp, 2*time.Second)

    tok, err := jwt.Parse(at.Token, func(tok *jwt.Token) (interface{}, error) {
        return []byte(secret), nil
    })
    require.NoError(t, err)
    require.True(t, tok.Valid)

    claims, ok := tok.Claims.(jwt.MapClaims)
    require.True(t, ok)
    assert.Equal(t, float64(7), claims["sub"])
    assert.Equal(t, "CUSTOMER", claims["role"])
}

func TestNewRefreshTokenIsRandom(t *testing.T) {
    a, err := NewRefreshToken(30)
    require.NoError(t, err)
    b, err := NewRefreshToken(30)
    require.NoError(t, err)

    assert.NotEqual(t, a.Raw, b.Raw)
    assert.Len(t, a.Raw, 96) // 48 random bytes hex-encoded
    assert.WithinDuration(t, time.Now().UTC().Add(30*24*time.Hour), a.Exp, 2*time.Second)
}

func TestHashRefreshRawIsStable(t *testing.T) {
    h1 := HashRefreshRaw("token")
    h2 := HashRefreshRaw("token")
    assert.Equal(t, h1, h2)
    assert.Len(t, h1, 64) // sha256 hex
    assert.NotEqual(t, h1, HashRefreshRaw("other"))
}
