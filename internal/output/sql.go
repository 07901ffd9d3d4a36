package output

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	// Drivers selected by sink DSN scheme.
	_ "github.com/go-sql-driver/mysql"
	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"

	"steamdata/internal/config"
	"steamdata/internal/normalizer"
)

// ErrInvalidIdentifier is returned for table names that cannot be used
// unquoted in every dialect.
var ErrInvalidIdentifier = errors.New("invalid SQL identifier")

var identPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// dialect holds the per-driver SQL differences.
type dialect struct {
	quote       func(string) string
	placeholder func(n int) string
	boolType    string
	intType     string
	floatType   string
	textType    string
}

func dialectFor(driver string) dialect {
	d := dialect{
		quote:       func(s string) string { return `"` + s + `"` },
		placeholder: func(int) string { return "?" },
		boolType:    "BOOLEAN",
		intType:     "BIGINT",
		floatType:   "DOUBLE PRECISION",
		textType:    "TEXT",
	}

	switch driver {
	case "postgres":
		d.placeholder = func(n int) string { return fmt.Sprintf("$%d", n) }
	case "mysql":
		d.quote = func(s string) string { return "`" + s + "`" }
		d.floatType = "DOUBLE"
	case "sqlite":
		d.floatType = "REAL"
	}

	return d
}

func (d dialect) columnType(v any) string {
	switch v.(type) {
	case bool:
		return d.boolType
	case int64, int:
		return d.intType
	case float64:
		return d.floatType
	default:
		return d.textType
	}
}

// SQLSink inserts records into a database table inside one transaction.
// Nothing is visible to readers until Close commits.
type SQLSink struct {
	db      *sql.DB
	tx      *sql.Tx
	stmt    *sql.Stmt
	columns []string
	rows    int
}

// OpenSQLSink connects to dsn, creates table if needed with column types
// taken from sample, and starts the insert transaction.
func OpenSQLSink(ctx context.Context, dsn, table string, columns []string, sample normalizer.Record) (*SQLSink, error) {
	if !identPattern.MatchString(table) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidIdentifier, table)
	}

	driver, source, err := config.SplitDSN(dsn)
	if err != nil {
		return nil, err
	}

	db, err := sql.Open(driver, source)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", driver, err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping %s: %w", driver, err)
	}

	d := dialectFor(driver)

	if _, err := db.ExecContext(ctx, createTableSQL(d, table, columns, sample)); err != nil {
		db.Close()
		return nil, fmt.Errorf("create table %s: %w", table, err)
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("begin: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, insertSQL(d, table, columns))
	if err != nil {
		_ = tx.Rollback()
		db.Close()

		return nil, fmt.Errorf("prepare insert: %w", err)
	}

	return &SQLSink{db: db, tx: tx, stmt: stmt, columns: columns}, nil
}

func createTableSQL(d dialect, table string, columns []string, sample normalizer.Record) string {
	defs := make([]string, len(columns))
	for i, c := range columns {
		defs[i] = d.quote(c) + " " + d.columnType(sample[c])
	}

	return fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (%s)", d.quote(table), strings.Join(defs, ", "))
}

func insertSQL(d dialect, table string, columns []string) string {
	names := make([]string, len(columns))
	marks := make([]string, len(columns))

	for i, c := range columns {
		names[i] = d.quote(c)
		marks[i] = d.placeholder(i + 1)
	}

	return fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		d.quote(table), strings.Join(names, ", "), strings.Join(marks, ", "))
}

// Write inserts one record.
func (s *SQLSink) Write(ctx context.Context, rec normalizer.Record) error {
	if _, err := s.stmt.ExecContext(ctx, rec.Values(s.columns)...); err != nil {
		return fmt.Errorf("insert row %d: %w", s.rows+1, err)
	}

	s.rows++

	return nil
}

// Rows returns the number of records inserted so far.
func (s *SQLSink) Rows() int {
	return s.rows
}

// Close commits the transaction and closes the connection.
func (s *SQLSink) Close() error {
	stmtErr := s.stmt.Close()

	if err := s.tx.Commit(); err != nil {
		return errors.Join(fmt.Errorf("commit: %w", err), s.db.Close())
	}

	return errors.Join(stmtErr, s.db.Close())
}

// Abort rolls back every insert and closes the connection.
func (s *SQLSink) Abort() error {
	_ = s.stmt.Close()

	return errors.Join(s.tx.Rollback(), s.db.Close())
}
