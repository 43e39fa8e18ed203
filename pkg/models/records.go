package models

import (
	"bytes"
	"encoding/json"
	"strings"
)

// RawField is a source value before normalization. JSON scalars keep their
// text form, arrays and objects keep their literal JSON, and null or a
// missing key leaves the field absent.
type RawField struct {
	Value   string
	Present bool
}

// Raw builds a present field.
func Raw(v string) RawField {
	return RawField{Value: v, Present: true}
}

func (f *RawField) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		*f = RawField{}
		return nil
	}
	if trimmed[0] == '"' {
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return err
		}
		*f = Raw(s)
		return nil
	}
	*f = Raw(string(trimmed))
	return nil
}

// Blank reports whether the field is absent or only whitespace.
func (f RawField) Blank() bool {
	return !f.Present || strings.TrimSpace(f.Value) == ""
}

func (f RawField) String() string {
	return strings.TrimSpace(f.Value)
}

// TrackRecord is one row of a tracks export or one element of a bundle's tracks.
type TrackRecord struct {
	Line int `json:"-"`

	ID              RawField `json:"id"`
	UserID          RawField `json:"user_id"`
	ArtistName      RawField `json:"artist_name"`
	Title           RawField `json:"title"`
	Genre           RawField `json:"genre"`
	Description     RawField `json:"description"`
	AudioURL        RawField `json:"audio_url"`
	CoverURL        RawField `json:"cover_url"`
	DurationSeconds RawField `json:"duration_seconds"`
	Plays           RawField `json:"plays"`
	AverageRating   RawField `json:"average_rating"`
	FeedbackCount   RawField `json:"feedback_count"`
	Tags            RawField `json:"tags"`
	Metadata        RawField `json:"metadata"`
	IsPublic        RawField `json:"is_public"`
	IsBoosted       RawField `json:"is_boosted"`
	CreatedAt       RawField `json:"created_at"`
}

// TrackFields lists the tabular columns of a tracks export in canonical order.
var TrackFields = []string{
	"id", "user_id", "artist_name", "title", "genre", "description",
	"audio_url", "cover_url", "duration_seconds", "plays", "average_rating",
	"feedback_count", "tags", "metadata", "is_public", "is_boosted", "created_at",
}

// TrackRecordFromRow builds a TrackRecord from a header-keyed row.
func TrackRecordFromRow(line int, row map[string]string, m *ColumnMapping) TrackRecord {
	get := func(field string) RawField {
		v, ok := row[m.Header(field)]
		if !ok {
			return RawField{}
		}
		return Raw(v)
	}
	return TrackRecord{
		Line:            line,
		ID:              get("id"),
		UserID:          get("user_id"),
		ArtistName:      get("artist_name"),
		Title:           get("title"),
		Genre:           get("genre"),
		Description:     get("description"),
		AudioURL:        get("audio_url"),
		CoverURL:        get("cover_url"),
		DurationSeconds: get("duration_seconds"),
		Plays:           get("plays"),
		AverageRating:   get("average_rating"),
		FeedbackCount:   get("feedback_count"),
		Tags:            get("tags"),
		Metadata:        get("metadata"),
		IsPublic:        get("is_public"),
		IsBoosted:       get("is_boosted"),
		CreatedAt:       get("created_at"),
	}
}

type UserRecord struct {
	ID          RawField `json:"id"`
	Email       RawField `json:"email"`
	Username    RawField `json:"username"`
	ArtistName  RawField `json:"artist_name"`
	Bio         RawField `json:"bio"`
	AvatarURL   RawField `json:"avatar_url"`
	Credits     RawField `json:"credits"`
	Rating      RawField `json:"rating"`
	IsActive    RawField `json:"is_active"`
	IsAdmin     RawField `json:"is_admin"`
	Genres      RawField `json:"genres"`
	SocialLinks RawField `json:"social_links"`
	CreatedAt   RawField `json:"created_at"`
}

type CommentRecord struct {
	ID        RawField `json:"id"`
	TrackID   RawField `json:"track_id"`
	UserID    RawField `json:"user_id"`
	Content   RawField `json:"content"`
	Likes     RawField `json:"likes"`
	CreatedAt RawField `json:"created_at"`
}

type FeedbackRecord struct {
	ID             RawField `json:"id"`
	TrackID        RawField `json:"track_id"`
	ReviewerID     RawField `json:"reviewer_id"`
	Rating         RawField `json:"rating"`
	Scores         RawField `json:"scores"`
	Content        RawField `json:"content"`
	CreditsAwarded RawField `json:"credits_awarded"`
	IsHelpful      RawField `json:"is_helpful"`
	CreatedAt      RawField `json:"created_at"`
}

// UserBundle is one element of a users export: a user together with the
// tracks, comments and feedback that belong to them.
type UserBundle struct {
	User             UserRecord       `json:"user"`
	Tracks           []TrackRecord    `json:"tracks"`
	Comments         []CommentRecord  `json:"comments"`
	FeedbackGiven    []FeedbackRecord `json:"feedbackGiven"`
	FeedbackReceived []FeedbackRecord `json:"feedbackReceived"`
}
