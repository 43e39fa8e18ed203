package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRawFieldUnmarshal(t *testing.T) {
	var rec TrackRecord
	err := json.Unmarshal([]byte(`{
		"id": "t1",
		"plays": 12,
		"is_public": true,
		"tags": ["lofi", "chill"],
		"metadata": "{\"bpm\": 90}",
		"description": null
	}`), &rec)
	require.NoError(t, err)

	assert.Equal(t, Raw("t1"), rec.ID)
	assert.Equal(t, Raw("12"), rec.Plays)
	assert.Equal(t, Raw("true"), rec.IsPublic)
	assert.Equal(t, `["lofi", "chill"]`, rec.Tags.Value)
	assert.Equal(t, `{"bpm": 90}`, rec.Metadata.Value)
	assert.False(t, rec.Description.Present)
	assert.False(t, rec.CoverURL.Present)
	assert.True(t, rec.Description.Blank())
}

func TestUserBundleKeys(t *testing.T) {
	var bundles []UserBundle
	err := json.Unmarshal([]byte(`[{
		"user": {"id": "u1", "email": "a@b.c"},
		"tracks": [{"id": "t1"}],
		"comments": [{"id": "c1", "track_id": "t9"}],
		"feedbackGiven": [{"id": "f1"}],
		"feedbackReceived": [{"id": "f2"}, {"id": "f3"}]
	}]`), &bundles)
	require.NoError(t, err)
	require.Len(t, bundles, 1)

	b := bundles[0]
	assert.Equal(t, "u1", b.User.ID.String())
	assert.Len(t, b.Tracks, 1)
	assert.Len(t, b.Comments, 1)
	assert.Len(t, b.FeedbackGiven, 1)
	assert.Len(t, b.FeedbackReceived, 2)
}

func TestTrackRecordFromRow(t *testing.T) {
	m := &ColumnMapping{Columns: map[string]string{"user_id": "artist_id", "title": " Track Title "}}
	row := map[string]string{"id": "t1", "artist_id": "u7", "Track Title": "Night Drive", "plays": ""}

	rec := TrackRecordFromRow(3, row, m)
	assert.Equal(t, 3, rec.Line)
	assert.Equal(t, "u7", rec.UserID.String())
	assert.Equal(t, "Night Drive", rec.Title.String())
	assert.True(t, rec.Plays.Present)
	assert.False(t, rec.Genre.Present)
}

func TestLoadMapping(t *testing.T) {
	m, err := LoadMapping([]byte(`{"entity": "track", "columns": {"user_id": "owner"}}`))
	require.NoError(t, err)
	assert.Equal(t, "owner", m.Header("user_id"))
	assert.Equal(t, "title", m.Header("title"))

	var nilMapping *ColumnMapping
	assert.Equal(t, "id", nilMapping.Header("id"))

	_, err = LoadMapping([]byte(`{"entity": "user"}`))
	assert.Error(t, err)
}
