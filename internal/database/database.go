// Package database centralises sqlx connection helpers.  The default driver
// is modernc.org/sqlite (pure Go, file-backed); MySQL-style DSNs are
// dispatched to go-sql-driver/mysql for deployments that have outgrown the
// file store.
//
// SQLite connections are opened with WAL journaling, a 30 s busy timeout,
// and foreign keys on.  WAL permits concurrent readers while one writer
// holds the log; the busy timeout covers the window where two scrape
// workers commit back to back.  The pragmas ride on the DSN so every
// connection in the pool gets them.
//
// Both entry points Ping the database before returning so callers can fail
// fast during bootstrap.  Callers should Close() the returned *sqlx.DB when
// no longer needed.
package database

import (
	"context"
	"strings"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"
)

// Options tunes the pool.  Zero values fall back to conservative defaults.
type Options struct {
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

const sqlitePragmas = "_pragma=journal_mode(WAL)&_pragma=busy_timeout(30000)&_pragma=foreign_keys(1)"

// Open returns a *sqlx.DB with sane defaults: 15 max open, 5 idle, and a
// 30-minute connection lifetime.
func Open(dsn string) (*sqlx.DB, error) {
	return OpenWithOptions(dsn, Options{MaxOpenConns: 15, MaxIdleConns: 5})
}

// OpenWithOptions lets callers tune the pool.  The driver is inferred from
// the DSN: anything that looks like a MySQL network DSN goes to the mysql
// driver, everything else is treated as a SQLite file path.
func OpenWithOptions(dsn string, opts Options) (*sqlx.DB, error) {
	driver := "sqlite"
	if isMySQL(dsn) {
		driver = "mysql"
		dsn = strings.TrimPrefix(dsn, "mysql://")
	} else {
		dsn = sqliteDSN(dsn)
	}

	db, err := sqlx.Open(driver, dsn)
	if err != nil {
		return nil, err
	}

	if opts.MaxOpenConns == 0 {
		opts.MaxOpenConns = 15
	}
	if opts.MaxIdleConns == 0 {
		opts.MaxIdleConns = 5
	}
	if opts.ConnMaxLifetime == 0 {
		opts.ConnMaxLifetime = 30 * time.Minute
	}
	db.SetMaxOpenConns(opts.MaxOpenConns)
	db.SetMaxIdleConns(opts.MaxIdleConns)
	db.SetConnMaxLifetime(opts.ConnMaxLifetime)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, err
	}

	if driver == "sqlite" {
		if err := EnsureSchema(context.Background(), db); err != nil {
			db.Close()
			return nil, err
		}
	}
	return db, nil
}

// isMySQL recognises the classic go-sql-driver DSN (user:pass@tcp(host)/db)
// and an explicit mysql:// prefix.
func isMySQL(dsn string) bool {
	return strings.HasPrefix(dsn, "mysql://") || strings.Contains(dsn, "@tcp(")
}

// sqliteDSN appends the WAL, busy-timeout, and FK pragmas to a file path or
// file: URI, preserving any parameters the operator already set.
func sqliteDSN(dsn string) string {
	dsn = strings.TrimPrefix(dsn, "sqlite://")
	if !strings.HasPrefix(dsn, "file:") {
		dsn = "file:" + dsn
	}
	sep := "?"
	if strings.Contains(dsn, "?") {
		sep = "&"
	}
	return dsn + sep + sqlitePragmas
}
