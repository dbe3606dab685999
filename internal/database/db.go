package database

import (
    "context"
    "database/sql"
    "fmt"
    "time"

    _ "github.com/go-sql-driver/mysql"
)

// Options describes a MySQL connection for Open.  Pool knobs left at
// zero get defaults sized for a single server instance.
type Options struct {
    User string
    Pass string
    Host string
    Port string
    Name string

    MaxOpenConns    int
    MaxIdleConns    int
    ConnMaxLifetime time.Duration
}

func (o Options) withDefaults() Options {
    if o.MaxOpenConns <= 0 {
        o.MaxOpenConns = 25
    }
    if o.MaxIdleConns <= 0 {
        o.MaxIdleConns = o.MaxOpenConns
    }
    if o.ConnMaxLifetime <= 0 {
        o.ConnMaxLifetime = 30 * time.Minute
    }
    return o
}

// dsn builds the driver connection string.  parseTime makes DATETIME
// columns scan into time.Time, and loc=UTC matches the UTC_TIMESTAMP()
// comparisons the repositories rely on.
func (o Options) dsn() string {
    cred := o.User
    if o.Pass != "" {
        cred += ":" + o.Pass
    }
    return fmt.Sprintf("%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=true&loc=UTC",
        cred, o.Host, o.Port, o.Name)
}

// Open connects to MySQL with the given options, applies the pool
// settings and verifies the connection with a short ping.
func Open(o Options) (*sql.DB, error) {
    o = o.withDefaults()

    db, err := sql.Open("mysql", o.dsn())
    if err != nil {
        return nil, err
    }
    db.SetMaxOpenConns(o.MaxOpenConns)
    db.SetMaxIdleConns(o.MaxIdleConns)
    db.SetConnMaxLifetime(o.ConnMaxLifetime)

    ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
    defer cancel()
    if err := db.PingContext(ctx); err != nil {
        _ = db.Close()
        return nil, err
    }
    return db, nil
}
