package output

import (
	"context"

	"steamdata/internal/config"
	"steamdata/internal/normalizer"
)

// Sink receives normalized records after the CSV table. Rows become
// visible only when Close succeeds; Abort discards them.
type Sink interface {
	Write(ctx context.Context, rec normalizer.Record) error
	Rows() int
	Close() error
	Abort() error
}

// OpenSink opens the sink named by dsn. table is the SQL table or MongoDB
// collection; sample fixes the SQL column types.
func OpenSink(ctx context.Context, dsn, table string, columns []string, sample normalizer.Record) (Sink, error) {
	driver, _, err := config.SplitDSN(dsn)
	if err != nil {
		return nil, err
	}

	if driver == "mongodb" {
		m, err := OpenMongoSink(ctx, dsn, table, columns)
		if err != nil {
			return nil, err
		}

		return m, nil
	}

	s, err := OpenSQLSink(ctx, dsn, table, columns, sample)
	if err != nil {
		return nil, err
	}

	return s, nil
}
