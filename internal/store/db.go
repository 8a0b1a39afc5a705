package store

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"strings"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	_ "modernc.org/sqlite"
)

const (
	DriverSQLite = "sqlite"
	DriverPgx    = "pgx"
)

type DB struct {
	Pool   *sql.DB
	Driver string
}

// Open connects to the run store. For sqlite, dsn is a file path.
func Open(driver, dsn string) (*DB, error) {
	if driver == "" {
		driver = DriverSQLite
	}

	var pool *sql.DB
	var err error
	switch driver {
	case DriverSQLite:
		// modernc sqlite uses DSN like: file:foo.db?_pragma=busy_timeout(5000)
		pool, err = sql.Open("sqlite", fmt.Sprintf("file:%s?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)", dsn))
		if err == nil {
			pool.SetMaxOpenConns(1) // sqlite typically wants 1 writer
		}
	case DriverPgx:
		pool, err = sql.Open("pgx", dsn)
		if err == nil {
			pool.SetMaxOpenConns(5)
			pool.SetMaxIdleConns(2)
		}
	default:
		return nil, fmt.Errorf("store: unsupported driver %q", driver)
	}
	if err != nil {
		return nil, err
	}
	pool.SetConnMaxLifetime(5 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := pool.PingContext(ctx); err != nil {
		_ = pool.Close()
		return nil, fmt.Errorf("store: ping %s: %w", driver, err)
	}

	return &DB{Pool: pool, Driver: driver}, nil
}

func (d *DB) Close() error {
	if d == nil || d.Pool == nil {
		return nil
	}
	return d.Pool.Close()
}

// Checkpoint flushes the sqlite WAL into the main database file. No-op for postgres.
func (d *DB) Checkpoint(ctx context.Context) error {
	if d.Driver != DriverSQLite {
		return nil
	}
	_, err := d.Pool.ExecContext(ctx, `PRAGMA wal_checkpoint(FULL);`)
	return err
}

// rebind rewrites ? placeholders to $n for postgres.
func (d *DB) rebind(q string) string {
	if d.Driver != DriverPgx {
		return q
	}
	var b strings.Builder
	n := 0
	for _, r := range q {
		if r == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
