package journal

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
	"go.uber.org/zap"
)

// Supported database drivers
const (
	DriverSQLite   = "sqlite3"
	DriverPostgres = "postgres"
)

// Entry is one journaled request
type Entry struct {
	ID        int64
	SessionID string
	Kind      string // "vocabulary", "translation" or "photo"
	Language  string
	Input     string
	Output    string
	Failed    bool
	Reason    string
	CreatedAt time.Time
}

// Store writes and lists journal entries
type Store struct {
	db     *sql.DB
	driver string
	logger *zap.Logger
}

// DefaultDSN returns the SQLite journal path under the user's home
func DefaultDSN() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "polyglot.db"
	}
	return filepath.Join(home, ".local", "share", "polyglot", "journal.db")
}

// Open connects to the journal database and migrates it
func Open(ctx context.Context, driver, dsn string, logger *zap.Logger) (*Store, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if driver == "" {
		driver = DriverSQLite
	}
	if driver != DriverSQLite && driver != DriverPostgres {
		return nil, fmt.Errorf("unsupported journal driver: %s", driver)
	}
	if dsn == "" {
		if driver != DriverSQLite {
			return nil, fmt.Errorf("a DSN is required for the %s journal", driver)
		}
		dsn = DefaultDSN()
	}

	if driver == DriverSQLite && dsn != ":memory:" && !strings.HasPrefix(dsn, "file:") {
		if err := os.MkdirAll(filepath.Dir(dsn), 0755); err != nil {
			return nil, fmt.Errorf("failed to create journal directory: %w", err)
		}
	}

	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open journal: %w", err)
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to journal: %w", err)
	}

	if driver == DriverSQLite {
		// Every connection to :memory: is a new database; SQLite also
		// serializes writers anyway
		db.SetMaxOpenConns(1)
	} else {
		db.SetMaxOpenConns(10)
		db.SetMaxIdleConns(2)
		db.SetConnMaxLifetime(5 * time.Minute)
	}

	if err := Migrate(db, driver, logger); err != nil {
		db.Close()
		return nil, err
	}

	return New(db, driver, logger), nil
}

// New wraps an already migrated database
func New(db *sql.DB, driver string, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{db: db, driver: driver, logger: logger}
}

// Close closes the database
func (s *Store) Close() error {
	return s.db.Close()
}

// Record appends an entry; CreatedAt defaults to now
func (s *Store) Record(ctx context.Context, e Entry) error {
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now()
	}

	query := s.rebind(`
		INSERT INTO requests (session_id, kind, language, input, output, failed, reason, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`)
	_, err := s.db.ExecContext(ctx, query,
		e.SessionID, e.Kind, e.Language, e.Input, e.Output, e.Failed, e.Reason, e.CreatedAt.UTC(),
	)
	if err != nil {
		return fmt.Errorf("failed to record %s request: %w", e.Kind, err)
	}

	s.logger.Debug("Journaled request",
		zap.String("session", e.SessionID),
		zap.String("kind", e.Kind),
		zap.Bool("failed", e.Failed),
	)
	return nil
}

// Filter narrows Recent
type Filter struct {
	SessionID string
	Language  string
	Kind      string
}

// Recent returns up to limit entries, newest first
func (s *Store) Recent(ctx context.Context, limit int, filter Filter) ([]Entry, error) {
	if limit <= 0 {
		limit = 50
	}

	var (
		where []string
		args  []interface{}
	)
	if filter.SessionID != "" {
		where = append(where, "session_id = ?")
		args = append(args, filter.SessionID)
	}
	if filter.Language != "" {
		where = append(where, "language = ?")
		args = append(args, filter.Language)
	}
	if filter.Kind != "" {
		where = append(where, "kind = ?")
		args = append(args, filter.Kind)
	}

	query := `
		SELECT id, session_id, kind, language, input, output, failed, reason, created_at
		FROM requests`
	if len(where) > 0 {
		query += "\n\t\tWHERE " + strings.Join(where, " AND ")
	}
	query += "\n\t\tORDER BY created_at DESC, id DESC\n\t\tLIMIT ?"
	args = append(args, limit)

	rows, err := s.db.QueryContext(ctx, s.rebind(query), args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query journal: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.ID, &e.SessionID, &e.Kind, &e.Language, &e.Input, &e.Output, &e.Failed, &e.Reason, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to read journal entry: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read journal: %w", err)
	}

	return entries, nil
}

// LanguageCount is the number of requests made for one language
type LanguageCount struct {
	Language string
	Requests int
	Failures int
}

// CountByLanguage summarizes the journal per language
func (s *Store) CountByLanguage(ctx context.Context) ([]LanguageCount, error) {
	query := `
		SELECT language, COUNT(*), SUM(CASE WHEN failed THEN 1 ELSE 0 END)
		FROM requests
		GROUP BY language
		ORDER BY COUNT(*) DESC, language
	`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query journal: %w", err)
	}
	defer rows.Close()

	var counts []LanguageCount
	for rows.Next() {
		var c LanguageCount
		if err := rows.Scan(&c.Language, &c.Requests, &c.Failures); err != nil {
			return nil, fmt.Errorf("failed to read journal summary: %w", err)
		}
		counts = append(counts, c)
	}
	return counts, rows.Err()
}

// rebind rewrites ? placeholders as $n for PostgreSQL
func (s *Store) rebind(query string) string {
	if s.driver != DriverPostgres {
		return query
	}

	var b strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			fmt.Fprintf(&b, "$%d", n)
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
