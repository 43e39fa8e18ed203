package etl

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"

	"github.com/BartekS5/soundope-import/pkg/database"
	"github.com/BartekS5/soundope-import/pkg/models"
)

const postgresSchema = `
CREATE TABLE IF NOT EXISTS users (
    id TEXT PRIMARY KEY, email TEXT UNIQUE, username TEXT NOT NULL DEFAULT '',
    artist_name TEXT, bio TEXT, avatar_url TEXT, credits INTEGER NOT NULL DEFAULT 0,
    rating DOUBLE PRECISION, is_active BOOLEAN NOT NULL DEFAULT TRUE,
    is_admin BOOLEAN NOT NULL DEFAULT FALSE, is_placeholder BOOLEAN NOT NULL DEFAULT FALSE,
    genres TEXT NOT NULL DEFAULT '[]', social_links TEXT, created_at TIMESTAMPTZ NOT NULL
);
CREATE TABLE IF NOT EXISTS tracks (
    id TEXT PRIMARY KEY, user_id TEXT NOT NULL REFERENCES users(id), title TEXT NOT NULL DEFAULT '',
    genre TEXT, description TEXT, audio_url TEXT NOT NULL DEFAULT '', cover_url TEXT,
    duration_seconds INTEGER, plays INTEGER NOT NULL DEFAULT 0, average_rating DOUBLE PRECISION,
    feedback_count INTEGER NOT NULL DEFAULT 0, tags TEXT NOT NULL DEFAULT '[]', metadata TEXT,
    is_public BOOLEAN NOT NULL DEFAULT FALSE, is_boosted BOOLEAN NOT NULL DEFAULT FALSE,
    created_at TIMESTAMPTZ NOT NULL
)`

func TestPostgresStoreIntegration(t *testing.T) {
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		t.Skip("DATABASE_URL not set")
	}
	observeLogs(t)
	ctx := context.Background()

	pool, err := database.ConnectPostgres(ctx, dsn)
	require.NoError(t, err)
	_, err = pool.Exec(ctx, postgresSchema)
	require.NoError(t, err)
	cleanup := func() {
		_, _ = pool.Exec(ctx, `DELETE FROM tracks WHERE id LIKE 'it-%'`)
		_, _ = pool.Exec(ctx, `DELETE FROM users WHERE id LIKE 'it-%'`)
	}
	cleanup()
	store := NewPostgresStore(pool)
	t.Cleanup(func() {
		cleanup()
		store.Close()
	})

	records := []models.TrackRecord{
		track("it-t1", "it-u1", "First", `["a"]`),
		track("it-t1", "it-u1", "Second", `["b"]`),
	}
	for _, now := range []time.Time{time.Now(), time.Now().Add(time.Hour)} {
		summary := NewPipeline(store, Options{Now: fixedClock(now)}).ImportTracks(ctx, "tracks.csv", records)
		require.Equal(t, 2, summary.Succeeded)
	}

	var (
		title, tags   string
		isPlaceholder bool
		n             int
	)
	require.NoError(t, pool.QueryRow(ctx, `SELECT title, tags FROM tracks WHERE id = 'it-t1'`).Scan(&title, &tags))
	assert.Equal(t, "Second", title)
	assert.Equal(t, `["b"]`, tags)
	require.NoError(t, pool.QueryRow(ctx, `SELECT is_placeholder FROM users WHERE id = 'it-u1'`).Scan(&isPlaceholder))
	assert.True(t, isPlaceholder)
	require.NoError(t, pool.QueryRow(ctx, `SELECT COUNT(*) FROM users WHERE id LIKE 'it-%'`).Scan(&n))
	assert.Equal(t, 1, n)
}

func TestMongoStoreIntegration(t *testing.T) {
	dsn := os.Getenv("MONGO_CONNECTION_STRING")
	if dsn == "" {
		t.Skip("MONGO_CONNECTION_STRING not set")
	}
	observeLogs(t)
	ctx := context.Background()

	client, err := database.ConnectMongo(ctx, dsn)
	require.NoError(t, err)
	store := NewMongoStore(client, "soundope_import_test")
	t.Cleanup(func() {
		_ = client.Database(store.Database).Drop(context.Background())
		store.Close()
	})

	created := time.Date(2024, 3, 9, 14, 30, 0, 0, time.UTC)
	require.NoError(t, store.UpsertUser(ctx, models.User{ID: "u1", Username: "real", CreatedAt: created}))
	require.NoError(t, store.CreatePlaceholderUser(ctx, NewTransformer(nil).Placeholder("u1", "", "example.org")))
	require.NoError(t, store.UpsertUser(ctx, models.User{ID: "u1", Username: "renamed", CreatedAt: created.AddDate(1, 0, 0)}))

	var user bson.M
	require.NoError(t, store.coll("users").FindOne(ctx, bson.M{"_id": "u1"}).Decode(&user))
	assert.Equal(t, "renamed", user["username"])
	assert.Equal(t, false, user["is_placeholder"])
	createdAt, ok := user["created_at"].(interface{ Time() time.Time })
	require.True(t, ok)
	assert.True(t, createdAt.Time().Equal(created))

	exists, err := store.UserExists(ctx, "u1")
	require.NoError(t, err)
	assert.True(t, exists)
	exists, err = store.UserExists(ctx, "u2")
	require.NoError(t, err)
	assert.False(t, exists)
}
