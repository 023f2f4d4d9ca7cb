package sql

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/seekql/seekql/dialect"
)

// ExecQuerier wraps the standard Exec and Query methods.
type ExecQuerier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

// A Driver executes rendered statements against a database/sql
// connection. It is a thin convenience layer: the builder never needs
// a live connection, and callers with their own execution stack can
// ignore this type entirely.
type Driver struct {
	conn    ExecQuerier
	dialect string
}

// Open opens a database connection and wraps it in a Driver. The
// driver name doubles as the dialect name, with a prefix match so
// wrapped driver registrations like "sqlite3" still resolve.
func Open(driverName, source string) (*Driver, error) {
	db, err := sql.Open(driverName, source)
	if err != nil {
		return nil, err
	}
	return OpenDB(driverName, db), nil
}

// OpenDB wraps an existing *sql.DB in a Driver.
func OpenDB(driverName string, db *sql.DB) *Driver {
	return &Driver{conn: db, dialect: driverName}
}

// Dialect returns the dialect constant matching the driver name.
func (d *Driver) Dialect() string {
	for _, name := range []string{dialect.MySQL, dialect.SQLite, dialect.Postgres} {
		if strings.HasPrefix(d.dialect, name) {
			return name
		}
	}
	return d.dialect
}

// DB returns the underlying *sql.DB, or nil when the driver wraps a
// transaction.
func (d *Driver) DB() *sql.DB {
	db, _ := d.conn.(*sql.DB)
	return db
}

// Close closes the underlying connection.
func (d *Driver) Close() error {
	db := d.DB()
	if db == nil {
		return nil
	}
	return db.Close()
}

// Exec runs a mutating statement and returns its result.
func (d *Driver) Exec(ctx context.Context, st *Statement) (sql.Result, error) {
	res, err := d.conn.ExecContext(ctx, st.SQL, st.Args...)
	if err != nil {
		return nil, fmt.Errorf("sql: exec: %w", err)
	}
	return res, nil
}

// Query runs a row-returning statement. The caller owns the rows.
func (d *Driver) Query(ctx context.Context, st *Statement) (*sql.Rows, error) {
	rows, err := d.conn.QueryContext(ctx, st.SQL, st.Args...)
	if err != nil {
		return nil, fmt.Errorf("sql: query: %w", err)
	}
	return rows, nil
}

// Tx starts a transaction whose driver executes within it.
func (d *Driver) Tx(ctx context.Context) (*Tx, error) {
	db := d.DB()
	if db == nil {
		return nil, fmt.Errorf("sql: cannot start a transaction within a transaction")
	}
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	return &Tx{
		Driver: Driver{conn: tx, dialect: d.dialect},
		tx:     tx,
	}, nil
}

// A Tx is a Driver scoped to one transaction.
type Tx struct {
	Driver
	tx *sql.Tx
}

// Commit commits the transaction.
func (t *Tx) Commit() error { return t.tx.Commit() }

// Rollback rolls the transaction back.
func (t *Tx) Rollback() error { return t.tx.Rollback() }
