package output

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"steamdata/internal/normalizer"
)

// DefaultMongoDatabase is used when the URI names no database.
const DefaultMongoDatabase = "steamdata"

// mongoBatch is the InsertMany chunk size.
const mongoBatch = 500

// documentStore is the part of a MongoDB collection the sink uses.
type documentStore interface {
	InsertMany(ctx context.Context, docs []any) error
	DeleteIDs(ctx context.Context, ids []any) error
	Disconnect(ctx context.Context) error
}

type mongoCollection struct {
	client *mongo.Client
	coll   *mongo.Collection
}

func (c mongoCollection) InsertMany(ctx context.Context, docs []any) error {
	_, err := c.coll.InsertMany(ctx, docs)
	return err
}

func (c mongoCollection) DeleteIDs(ctx context.Context, ids []any) error {
	_, err := c.coll.DeleteMany(ctx, bson.D{{Key: "_id", Value: bson.D{{Key: "$in", Value: ids}}}})
	return err
}

func (c mongoCollection) Disconnect(ctx context.Context) error {
	return c.client.Disconnect(ctx)
}

// MongoSink stores records as documents with fields in column order.
// Documents are buffered and inserted on Close. Abort inserts nothing; a
// Close that fails part way deletes the documents it already inserted.
type MongoSink struct {
	store   documentStore
	columns []string
	pending []any
	ids     []any
	rows    int
}

// OpenMongoSink connects to uri and targets collection in the URI's
// database.
func OpenMongoSink(ctx context.Context, uri, collection string, columns []string) (*MongoSink, error) {
	if !identPattern.MatchString(collection) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidIdentifier, collection)
	}

	client, err := mongo.Connect(options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("connect mongodb: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if err := client.Ping(pingCtx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("ping mongodb: %w", err)
	}

	store := mongoCollection{
		client: client,
		coll:   client.Database(mongoDatabase(uri)).Collection(collection),
	}

	return newMongoSink(store, columns), nil
}

func newMongoSink(store documentStore, columns []string) *MongoSink {
	return &MongoSink{store: store, columns: columns}
}

// mongoDatabase reads the database name from the URI path.
func mongoDatabase(uri string) string {
	u, err := url.Parse(uri)
	if err != nil {
		return DefaultMongoDatabase
	}

	if name := strings.Trim(u.Path, "/"); name != "" {
		return name
	}

	return DefaultMongoDatabase
}

// Document converts a record to an ordered BSON document.
func Document(rec normalizer.Record, columns []string) bson.D {
	doc := make(bson.D, len(columns))
	for i, c := range columns {
		doc[i] = bson.E{Key: c, Value: rec[c]}
	}

	return doc
}

// Write buffers one record under a fresh ObjectID.
func (m *MongoSink) Write(_ context.Context, rec normalizer.Record) error {
	id := bson.NewObjectID()
	doc := append(bson.D{{Key: "_id", Value: id}}, Document(rec, m.columns)...)

	m.pending = append(m.pending, doc)
	m.ids = append(m.ids, id)
	m.rows++

	return nil
}

// Rows returns the number of records accepted so far.
func (m *MongoSink) Rows() int {
	return m.rows
}

// Close inserts the buffered documents in chunks and disconnects. When a
// chunk fails, every id sent so far is deleted again.
func (m *MongoSink) Close() error {
	ctx := context.Background()

	var insertErr error

	for start := 0; start < len(m.pending); start += mongoBatch {
		end := min(start+mongoBatch, len(m.pending))
		if err := m.store.InsertMany(ctx, m.pending[start:end]); err != nil {
			insertErr = fmt.Errorf("insert documents %d-%d: %w", start+1, end, err)

			if delErr := m.store.DeleteIDs(ctx, m.ids[:end]); delErr != nil {
				insertErr = errors.Join(insertErr, fmt.Errorf("remove partial insert: %w", delErr))
			}

			break
		}
	}

	m.pending, m.ids = nil, nil

	return errors.Join(insertErr, m.store.Disconnect(ctx))
}

// Abort drops the buffered documents and disconnects.
func (m *MongoSink) Abort() error {
	m.pending, m.ids = nil, nil
	return m.store.Disconnect(context.Background())
}
