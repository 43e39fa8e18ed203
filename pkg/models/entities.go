package models

import "time"

// User is a normalized soundope account. Placeholder users are synthesized
// when a child record references an account that is not in the target yet.
type User struct {
	ID            string
	Email         *string
	Username      string
	ArtistName    *string
	Bio           *string
	AvatarURL     *string
	Credits       int
	Rating        *float64
	IsActive      bool
	IsAdmin       bool
	IsPlaceholder bool
	Genres        []string
	SocialLinks   map[string]any

	CreatedAt           time.Time
	CreatedAtFromSource bool
}

type Track struct {
	ID              string
	UserID          string
	Title           string
	Genre           *string
	Description     *string
	AudioURL        string
	CoverURL        *string
	DurationSeconds *int
	Plays           int
	AverageRating   *float64
	FeedbackCount   int
	Tags            []string
	Metadata        map[string]any
	IsPublic        bool
	IsBoosted       bool

	CreatedAt           time.Time
	CreatedAtFromSource bool
}

type Comment struct {
	ID      string
	TrackID string
	UserID  string
	Content string
	Likes   int

	CreatedAt           time.Time
	CreatedAtFromSource bool
}

type Feedback struct {
	ID             string
	TrackID        string
	ReviewerID     string
	Rating         *float64
	Scores         map[string]any
	Content        string
	CreditsAwarded int
	IsHelpful      bool

	CreatedAt           time.Time
	CreatedAtFromSource bool
}
