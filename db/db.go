// Copyright (c) 2025 Hana Cho.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"database/sql"
	"errors"
	"strconv"
	"strings"

	"github.com/lib/pq"
)

// Driver names accepted by Open.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// ErrNotFound is returned when a requested row does not exist.
var ErrNotFound = errors.New("not found")

// DB wraps a sql.DB with the driver it was opened on so queries can be
// written once with ? placeholders.
type DB struct {
	conn   *sql.DB
	driver string
}

func New(conn *sql.DB, driver string) *DB {
	return &DB{conn: conn, driver: driver}
}

func (d *DB) Conn() *sql.DB { return d.conn }

// q rewrites ? placeholders to $N for postgres; sqlite takes ? as-is.
func (d *DB) q(query string) string {
	if d.driver != DriverPostgres {
		return query
	}
	var b strings.Builder
	b.Grow(len(query) + 8)
	n := 0
	for _, r := range query {
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

// isConflict reports whether err is a uniqueness-constraint violation on
// either driver.
func isConflict(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "23505"
	}
	return strings.Contains(err.Error(), "UNIQUE constraint")
}

// placeholders builds "?, ?, ..." for n values.
func placeholders(n int) string {
	if n <= 0 {
		return ""
	}
	return strings.TrimSuffix(strings.Repeat("?, ", n), ", ")
}
