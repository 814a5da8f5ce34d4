package sqldb

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/aussiebroadwan/studydesk/internal/studydesk/store"
	"github.com/jackc/pgx/v5/pgconn"
	_ "github.com/jackc/pgx/v5/stdlib"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

// querier is the subset of *sql.DB the repositories use.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// conn pairs a querier with the dialect used to rebind its queries.
type conn struct {
	q       querier
	dialect Dialect
}

func (c conn) exec(ctx context.Context, query string, args ...any) (sql.Result, error) {
	return c.q.ExecContext(ctx, c.dialect.Rebind(query), args...)
}

func (c conn) query(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	return c.q.QueryContext(ctx, c.dialect.Rebind(query), args...)
}

func (c conn) queryRow(ctx context.Context, query string, args ...any) *sql.Row {
	return c.q.QueryRowContext(ctx, c.dialect.Rebind(query), args...)
}

func (c conn) count(ctx context.Context, query string, args ...any) (int, error) {
	var n int64
	if err := c.queryRow(ctx, query, args...).Scan(&n); err != nil {
		return 0, err
	}
	return int(n), nil
}

type Store struct {
	db      *sql.DB
	dialect Dialect
	dsn     string
}

// Open connects to the database named by url. Anything that is not a
// postgres:// URL is handed to the SQLite driver as a DSN.
func Open(url string) (*Store, error) {
	dialect := DialectFromURL(url)
	if dialect == DialectPostgres {
		return NewPostgresStore(url)
	}
	return NewSQLiteStore(url)
}

func NewSQLiteStore(dsn string) (*Store, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}

	// Every connection to :memory: is a fresh database, keep exactly one.
	if strings.Contains(dsn, ":memory:") {
		db.SetMaxOpenConns(1)
	}

	// Enforce FKs
	if _, err := db.ExecContext(context.Background(), `PRAGMA foreign_keys = ON;`); err != nil {
		_ = db.Close()
		return nil, err
	}

	return &Store{db: db, dialect: DialectSQLite, dsn: dsn}, nil
}

func NewPostgresStore(url string) (*Store, error) {
	db, err := sql.Open("pgx", url)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(10)
	db.SetConnMaxIdleTime(5 * time.Minute)

	return &Store{db: db, dialect: DialectPostgres, dsn: url}, nil
}

func (s *Store) Dialect() Dialect { return s.dialect }

func (s *Store) Close() error { return s.db.Close() }

// Ping verifies the database connection is still alive.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *Store) conn() conn { return conn{q: s.db, dialect: s.dialect} }

func (s *Store) Profiles() store.Profiles           { return &profilesRepo{c: s.conn()} }
func (s *Store) Subscriptions() store.Subscriptions { return &subscriptionsRepo{c: s.conn()} }
func (s *Store) UserBans() store.UserBans           { return &userBansRepo{c: s.conn()} }
func (s *Store) DeviceBans() store.DeviceBans       { return &deviceBansRepo{c: s.conn()} }
func (s *Store) Devices() store.Devices             { return &devicesRepo{c: s.conn()} }
func (s *Store) TrialCodes() store.TrialCodes       { return &trialCodesRepo{c: s.conn()} }
func (s *Store) AuditLogs() store.AuditLogs         { return &auditLogsRepo{c: s.conn()} }

func mapNotFound(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return store.ErrNotFound
	}
	return err
}

// mapConflict turns unique/primary key violations from either driver into
// store.ErrAlreadyExists.
func mapConflict(err error) error {
	if err == nil {
		return nil
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return store.ErrAlreadyExists
	}

	var liteErr *sqlite.Error
	if errors.As(err, &liteErr) {
		switch liteErr.Code() {
		case sqlite3.SQLITE_CONSTRAINT_UNIQUE, sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY:
			return store.ErrAlreadyExists
		}
	}

	return err
}

func mapNullString(ns sql.NullString) string {
	if ns.Valid {
		return ns.String
	}
	return ""
}

func mapStringNull(s string) sql.NullString {
	if s == "" {
		return sql.NullString{Valid: false}
	}
	return sql.NullString{String: s, Valid: true}
}

func mapNullTimePtr(nt sql.NullTime) *time.Time {
	if nt.Valid {
		val := nt.Time.UTC()
		return &val
	}
	return nil
}

func mapOptionalTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{Valid: false}
	}
	return sql.NullTime{Time: t.UTC(), Valid: true}
}

func mapNullIntPtr(ni sql.NullInt64) *int {
	if ni.Valid {
		val := int(ni.Int64)
		return &val
	}
	return nil
}

func mapOptionalInt(i *int) sql.NullInt64 {
	if i == nil {
		return sql.NullInt64{Valid: false}
	}
	return sql.NullInt64{Int64: int64(*i), Valid: true}
}

// utc normalises timestamps before they reach the database so ordering on
// the text representation SQLite uses stays chronological.
func utc(t time.Time) time.Time {
	return t.UTC().Truncate(time.Microsecond)
}
