package etl

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/BartekS5/soundope-import/pkg/logger"
	"github.com/BartekS5/soundope-import/pkg/models"
	"github.com/BartekS5/soundope-import/pkg/utils"
)

// Transformer turns raw source records into entities. It never fails:
// unusable values fall back to defaults and malformed structured fields are
// reported as warnings.
type Transformer struct {
	now      func() time.Time
	warnings int
}

func NewTransformer(now func() time.Time) *Transformer {
	if now == nil {
		now = time.Now
	}
	return &Transformer{now: now}
}

// Warnings is the number of structured fields that fell back so far.
func (t *Transformer) Warnings() int {
	return t.warnings
}

func (t *Transformer) Track(rec models.TrackRecord) models.Track {
	id := rec.ID.String()
	createdAt, fromSource := t.timestamp(rec.CreatedAt)
	return models.Track{
		ID:                  id,
		UserID:              rec.UserID.String(),
		Title:               rec.Title.String(),
		Genre:               utils.OptionalString(rec.Genre),
		Description:         utils.OptionalString(rec.Description),
		AudioURL:            rec.AudioURL.String(),
		CoverURL:            utils.OptionalString(rec.CoverURL),
		DurationSeconds:     utils.OptionalInt(rec.DurationSeconds),
		Plays:               utils.IntOr(rec.Plays, 0),
		AverageRating:       utils.OptionalFloat(rec.AverageRating),
		FeedbackCount:       utils.IntOr(rec.FeedbackCount, 0),
		Tags:                t.list("track", id, "tags", rec.Tags),
		Metadata:            t.object("track", id, "metadata", rec.Metadata),
		IsPublic:            utils.Bool(rec.IsPublic),
		IsBoosted:           utils.Bool(rec.IsBoosted),
		CreatedAt:           createdAt,
		CreatedAtFromSource: fromSource,
	}
}

func (t *Transformer) User(rec models.UserRecord) models.User {
	id := rec.ID.String()
	createdAt, fromSource := t.timestamp(rec.CreatedAt)

	var email *string
	if !rec.Email.Blank() {
		e := utils.Lower(rec.Email.Value)
		email = &e
	}
	username := rec.Username.String()
	if username == "" {
		username = rec.ArtistName.String()
	}

	return models.User{
		ID:                  id,
		Email:               email,
		Username:            username,
		ArtistName:          utils.OptionalString(rec.ArtistName),
		Bio:                 utils.OptionalString(rec.Bio),
		AvatarURL:           utils.OptionalString(rec.AvatarURL),
		Credits:             utils.IntOr(rec.Credits, 0),
		Rating:              utils.OptionalFloat(rec.Rating),
		IsActive:            utils.BoolDefaultTrue(rec.IsActive),
		IsAdmin:             utils.Bool(rec.IsAdmin),
		Genres:              t.list("user", id, "genres", rec.Genres),
		SocialLinks:         t.object("user", id, "social_links", rec.SocialLinks),
		CreatedAt:           createdAt,
		CreatedAtFromSource: fromSource,
	}
}

func (t *Transformer) Comment(rec models.CommentRecord) models.Comment {
	createdAt, fromSource := t.timestamp(rec.CreatedAt)
	return models.Comment{
		ID:                  rec.ID.String(),
		TrackID:             rec.TrackID.String(),
		UserID:              rec.UserID.String(),
		Content:             rec.Content.String(),
		Likes:               utils.IntOr(rec.Likes, 0),
		CreatedAt:           createdAt,
		CreatedAtFromSource: fromSource,
	}
}

func (t *Transformer) Feedback(rec models.FeedbackRecord) models.Feedback {
	id := rec.ID.String()
	createdAt, fromSource := t.timestamp(rec.CreatedAt)
	return models.Feedback{
		ID:                  id,
		TrackID:             rec.TrackID.String(),
		ReviewerID:          rec.ReviewerID.String(),
		Rating:              utils.OptionalFloat(rec.Rating),
		Scores:              t.object("feedback", id, "scores", rec.Scores),
		Content:             rec.Content.String(),
		CreditsAwarded:      utils.IntOr(rec.CreditsAwarded, 0),
		IsHelpful:           utils.Bool(rec.IsHelpful),
		CreatedAt:           createdAt,
		CreatedAtFromSource: fromSource,
	}
}

// Placeholder builds the minimal user a child record needs when its owner
// is missing from the target. displayName may be empty.
func (t *Transformer) Placeholder(userID, displayName, emailDomain string) models.User {
	name := strings.TrimSpace(displayName)
	if name == "" {
		name = "artist-" + userID
	}
	email := PlaceholderEmail(userID, emailDomain)
	return models.User{
		ID:            userID,
		Email:         &email,
		Username:      name,
		IsActive:      true,
		IsPlaceholder: true,
		Genres:        []string{},
		CreatedAt:     t.now().UTC(),
	}
}

// PlaceholderEmail derives the contact address of a placeholder user from its
// id. The id keeps its case so ids differing only by case stay distinct.
func PlaceholderEmail(userID, domain string) string {
	return fmt.Sprintf("user-%s@%s", userID, utils.Lower(domain))
}

func (t *Transformer) timestamp(f models.RawField) (time.Time, bool) {
	return utils.TimeOr(f, t.now().UTC())
}

func (t *Transformer) list(entity, id, field string, f models.RawField) []string {
	list, err := utils.StringList(f)
	if err != nil {
		if !errors.Is(err, utils.ErrBlank) {
			t.warn(entity, id, field, err)
		}
		return []string{}
	}
	return list
}

func (t *Transformer) object(entity, id, field string, f models.RawField) map[string]any {
	obj, err := utils.Object(f)
	if err != nil {
		if !errors.Is(err, utils.ErrBlank) {
			t.warn(entity, id, field, err)
		}
		return nil
	}
	return obj
}

func (t *Transformer) warn(entity, id, field string, err error) {
	t.warnings++
	logger.Warnw("Malformed structured field, using fallback",
		"entity", entity, "id", id, "field", field, "error", err.Error())
}
