package database

import (
    "testing"
    "time"

    "github.com/stretchr/testify/assert"
)

func TestOptionsDSN(t *testing.T) {
    o := Options{User: "app", Pass: "s3cret", Host: "db", Port: "3306", Name: "cinebook"}
    assert.Equal(t,
        "app:s3cret@tcp(db:3306)/cinebook?charset=utf8mb4&parseTime=true&loc=UTC",
        o.dsn())

    // Passwordless local setups omit the colon entirely.
    o.Pass = ""
    assert.Equal(t,
        "app@tcp(db:3306)/cinebook?charset=utf8mb4&parseTime=true&loc=UTC",
        o.dsn())
}

func TestOptionsPoolDefaults(t *testing.T) {
    o := Options{}.withDefaults()
    assert.Equal(t, 25, o.MaxOpenConns)
    assert.Equal(t, 25, o.MaxIdleConns)
    assert.Equal(t, 30*time.Minute, o.ConnMaxLifetime)

    o = Options{MaxOpenConns: 10, ConnMaxLifetime: time.Minute}.withDefaults()
    assert.Equal(t, 10, o.MaxOpenConns)
    assert.Equal(t, 10, o.MaxIdleConns, "idle pool follows the open pool when unset")
    assert.Equal(t, time.Minute, o.ConnMaxLifetime)
}
