package etl

import (
	"fmt"

	"github.com/BartekS5/soundope-import/pkg/models"
)

func requireField(field string, f models.RawField) error {
	if f.Blank() {
		return fmt.Errorf("missing required field: %s", field)
	}
	return nil
}

// ValidateTrack checks the identifiers a track needs before it can be written.
func ValidateTrack(rec models.TrackRecord) error {
	if err := requireField("id", rec.ID); err != nil {
		if rec.Line > 0 {
			return fmt.Errorf("row %d: %w", rec.Line, err)
		}
		return err
	}
	return requireField("user_id", rec.UserID)
}

func ValidateUser(rec models.UserRecord) error {
	return requireField("id", rec.ID)
}

func ValidateComment(rec models.CommentRecord) error {
	if err := requireField("id", rec.ID); err != nil {
		return err
	}
	if err := requireField("track_id", rec.TrackID); err != nil {
		return err
	}
	return requireField("user_id", rec.UserID)
}

func ValidateFeedback(rec models.FeedbackRecord) error {
	if err := requireField("id", rec.ID); err != nil {
		return err
	}
	if err := requireField("track_id", rec.TrackID); err != nil {
		return err
	}
	return requireField("reviewer_id", rec.ReviewerID)
}
