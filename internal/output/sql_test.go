package output

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"steamdata/internal/config"
	"steamdata/internal/normalizer"
)

func sampleRecords() []normalizer.Record {
	return []normalizer.Record{
		{"QueryID": int64(10), "ResponseName": "Counter-Strike", "IsFree": false, "PriceFinal": 9.99},
		{"QueryID": int64(20), "ResponseName": "Team Fortress Classic", "IsFree": true, "PriceFinal": 0.0},
	}
}

var sampleColumns = []string{"QueryID", "ResponseName", "IsFree", "PriceFinal"}

func TestSQLSink_SQLite(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "features.db")
	recs := sampleRecords()

	sink, err := OpenSQLSink(ctx, "sqlite:"+path, "features", sampleColumns, recs[0])
	if err != nil {
		t.Fatalf("OpenSQLSink() error = %v", err)
	}

	for _, r := range recs {
		if err := sink.Write(ctx, r); err != nil {
			t.Fatalf("Write() error = %v", err)
		}
	}

	if err := sink.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer db.Close()

	var count int
	if err := db.QueryRow(`SELECT COUNT(*) FROM "features"`).Scan(&count); err != nil {
		t.Fatalf("count: %v", err)
	}

	if count != 2 {
		t.Errorf("count = %d, want 2", count)
	}

	var (
		name  string
		price float64
	)

	if err := db.QueryRow(`SELECT "ResponseName", "PriceFinal" FROM "features" WHERE "QueryID" = 10`).Scan(&name, &price); err != nil {
		t.Fatalf("select: %v", err)
	}

	if name != "Counter-Strike" || price != 9.99 {
		t.Errorf("row = %q %v", name, price)
	}
}

func TestSQLSink_AbortDiscardsRows(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "features.db")
	recs := sampleRecords()

	sink, err := OpenSQLSink(ctx, "sqlite:"+path, "features", sampleColumns, recs[0])
	if err != nil {
		t.Fatalf("OpenSQLSink() error = %v", err)
	}

	if err := sink.Write(ctx, recs[0]); err != nil {
		t.Fatalf("Write() error = %v", err)
	}

	if err := sink.Abort(); err != nil {
		t.Fatalf("Abort() error = %v", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer db.Close()

	var count int
	if err := db.QueryRow(`SELECT COUNT(*) FROM "features"`).Scan(&count); err != nil {
		t.Fatalf("count: %v", err)
	}

	if count != 0 {
		t.Errorf("count = %d after abort, want 0", count)
	}
}

func TestOpenSQLSink_Rejects(t *testing.T) {
	ctx := context.Background()

	if _, err := OpenSQLSink(ctx, "sqlite::memory:", "features; DROP", sampleColumns, nil); !errors.Is(err, ErrInvalidIdentifier) {
		t.Errorf("bad table error = %v, want ErrInvalidIdentifier", err)
	}

	if _, err := OpenSQLSink(ctx, "oracle://x", "features", sampleColumns, nil); !errors.Is(err, config.ErrInvalidSinkDSN) {
		t.Errorf("bad dsn error = %v, want ErrInvalidSinkDSN", err)
	}
}

func TestDialectSQL(t *testing.T) {
	rec := sampleRecords()[0]

	tests := []struct {
		driver string
		create string
		insert string
	}{
		{
			"postgres",
			`CREATE TABLE IF NOT EXISTS "t" ("QueryID" BIGINT, "ResponseName" TEXT, "IsFree" BOOLEAN, "PriceFinal" DOUBLE PRECISION)`,
			`INSERT INTO "t" ("QueryID", "ResponseName", "IsFree", "PriceFinal") VALUES ($1, $2, $3, $4)`,
		},
		{
			"mysql",
			"CREATE TABLE IF NOT EXISTS `t` (`QueryID` BIGINT, `ResponseName` TEXT, `IsFree` BOOLEAN, `PriceFinal` DOUBLE)",
			"INSERT INTO `t` (`QueryID`, `ResponseName`, `IsFree`, `PriceFinal`) VALUES (?, ?, ?, ?)",
		},
		{
			"sqlite",
			`CREATE TABLE IF NOT EXISTS "t" ("QueryID" BIGINT, "ResponseName" TEXT, "IsFree" BOOLEAN, "PriceFinal" REAL)`,
			`INSERT INTO "t" ("QueryID", "ResponseName", "IsFree", "PriceFinal") VALUES (?, ?, ?, ?)`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.driver, func(t *testing.T) {
			d := dialectFor(tt.driver)

			if got := createTableSQL(d, "t", sampleColumns, rec); got != tt.create {
				t.Errorf("create =\n%s\nwant\n%s", got, tt.create)
			}

			if got := insertSQL(d, "t", sampleColumns); !strings.EqualFold(got, tt.insert) {
				t.Errorf("insert =\n%s\nwant\n%s", got, tt.insert)
			}
		})
	}
}
