package etl

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/BartekS5/soundope-import/pkg/models"
)

const mongoTimeout = 30 * time.Second

// MongoStore keeps one collection per table, keyed by _id.
type MongoStore struct {
	Client   *mongo.Client
	Database string
}

func NewMongoStore(client *mongo.Client, database string) *MongoStore {
	return &MongoStore{Client: client, Database: database}
}

func (m *MongoStore) coll(name string) *mongo.Collection {
	return m.Client.Database(m.Database).Collection(name)
}

func (m *MongoStore) UserExists(ctx context.Context, id string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, mongoTimeout)
	defer cancel()

	n, err := m.coll("users").CountDocuments(ctx, bson.M{"_id": id}, options.Count().SetLimit(1))
	if err != nil {
		return false, fmt.Errorf("error checking user existence: %w", err)
	}
	return n > 0, nil
}

// CreatePlaceholderUser only sets fields on insert, so an existing user
// document is never modified.
func (m *MongoStore) CreatePlaceholderUser(ctx context.Context, u models.User) error {
	r := userRow(u)
	doc := r.document()
	doc["created_at"] = r.createdAt
	return m.update(ctx, r, bson.M{"$setOnInsert": doc})
}

func (m *MongoStore) UpsertUser(ctx context.Context, u models.User) error {
	return m.upsert(ctx, userRow(u))
}

func (m *MongoStore) UpsertTrack(ctx context.Context, t models.Track) error {
	return m.upsert(ctx, trackRow(t))
}

func (m *MongoStore) UpsertComment(ctx context.Context, c models.Comment) error {
	return m.upsert(ctx, commentRow(c))
}

func (m *MongoStore) UpsertFeedback(ctx context.Context, f models.Feedback) error {
	return m.upsert(ctx, feedbackRow(f))
}

func (m *MongoStore) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return m.Client.Disconnect(ctx)
}

// upsert overwrites every mutable field; created_at is only written on
// insert unless the source carried one.
func (m *MongoStore) upsert(ctx context.Context, r row) error {
	set := r.document()
	update := bson.M{"$set": set}
	if r.fromSource {
		set["created_at"] = r.createdAt
	} else {
		update["$setOnInsert"] = bson.M{"created_at": r.createdAt}
	}
	return m.update(ctx, r, update)
}

func (m *MongoStore) update(ctx context.Context, r row, update bson.M) error {
	ctx, cancel := context.WithTimeout(ctx, mongoTimeout)
	defer cancel()

	opts := options.Update().SetUpsert(true)
	if _, err := m.coll(r.table).UpdateOne(ctx, bson.M{"_id": r.id}, update, opts); err != nil {
		return fmt.Errorf("error writing %s %s: %w", strings.TrimSuffix(r.table, "s"), r.id, err)
	}
	return nil
}

func (r row) document() bson.M {
	doc := bson.M{}
	for i, c := range r.cols {
		doc[c] = r.vals[i]
	}
	return doc
}
