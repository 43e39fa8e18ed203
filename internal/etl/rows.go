package etl

import (
	"fmt"
	"strings"
	"time"

	"github.com/BartekS5/soundope-import/pkg/models"
	"github.com/BartekS5/soundope-import/pkg/utils"
)

// row is the column view of an entity shared by all stores. cols holds the
// mutable columns only; id and created_at are handled by the statements.
type row struct {
	table      string
	id         string
	cols       []string
	vals       []any
	createdAt  time.Time
	fromSource bool
}

func userRow(u models.User) row {
	return row{
		table: "users",
		id:    u.ID,
		cols: []string{"email", "username", "artist_name", "bio", "avatar_url", "credits", "rating",
			"is_active", "is_admin", "is_placeholder", "genres", "social_links"},
		vals: []any{u.Email, u.Username, u.ArtistName, u.Bio, u.AvatarURL, u.Credits, u.Rating,
			u.IsActive, u.IsAdmin, u.IsPlaceholder, utils.EmptyIfNil(u.Genres), u.SocialLinks},
		createdAt:  u.CreatedAt,
		fromSource: u.CreatedAtFromSource,
	}
}

func trackRow(t models.Track) row {
	return row{
		table: "tracks",
		id:    t.ID,
		cols: []string{"user_id", "title", "genre", "description", "audio_url", "cover_url",
			"duration_seconds", "plays", "average_rating", "feedback_count", "tags", "metadata",
			"is_public", "is_boosted"},
		vals: []any{t.UserID, t.Title, t.Genre, t.Description, t.AudioURL, t.CoverURL,
			t.DurationSeconds, t.Plays, t.AverageRating, t.FeedbackCount, utils.EmptyIfNil(t.Tags), t.Metadata,
			t.IsPublic, t.IsBoosted},
		createdAt:  t.CreatedAt,
		fromSource: t.CreatedAtFromSource,
	}
}

func commentRow(c models.Comment) row {
	return row{
		table:      "comments",
		id:         c.ID,
		cols:       []string{"track_id", "user_id", "content", "likes"},
		vals:       []any{c.TrackID, c.UserID, c.Content, c.Likes},
		createdAt:  c.CreatedAt,
		fromSource: c.CreatedAtFromSource,
	}
}

func feedbackRow(f models.Feedback) row {
	return row{
		table: "feedback",
		id:    f.ID,
		cols:  []string{"track_id", "reviewer_id", "rating", "scores", "content", "credits_awarded", "is_helpful"},
		vals: []any{f.TrackID, f.ReviewerID, f.Rating, f.Scores, f.Content, f.CreditsAwarded,
			f.IsHelpful},
		createdAt:  f.CreatedAt,
		fromSource: f.CreatedAtFromSource,
	}
}

// sqlArgs returns id, mutable values and created_at in statement order, with
// structured values encoded as JSON text.
func (r row) sqlArgs() ([]any, error) {
	args := make([]any, 0, len(r.vals)+2)
	args = append(args, r.id)
	for i, v := range r.vals {
		switch v.(type) {
		case []string, map[string]any:
			text, err := utils.JSONText(v)
			if err != nil {
				return nil, fmt.Errorf("encoding %s.%s: %w", r.table, r.cols[i], err)
			}
			args = append(args, text)
		default:
			args = append(args, v)
		}
	}
	return append(args, r.createdAt), nil
}

type dialect string

const (
	dialectPostgres  dialect = "postgres"
	dialectSQLite    dialect = "sqlite"
	dialectSQLServer dialect = "sqlserver"
)

// param is the 1-based positional parameter marker of the dialect.
func (d dialect) param(i int) string {
	switch d {
	case dialectPostgres:
		return fmt.Sprintf("$%d", i)
	case dialectSQLServer:
		return fmt.Sprintf("@p%d", i)
	default:
		return fmt.Sprintf("?%d", i)
	}
}

func (r row) allCols() []string {
	cols := make([]string, 0, len(r.cols)+2)
	cols = append(cols, "id")
	cols = append(cols, r.cols...)
	return append(cols, "created_at")
}

// updateCols are the columns overwritten on conflict. created_at is kept
// when the source did not provide one, so re-runs converge.
func (r row) updateCols() []string {
	cols := append([]string{}, r.cols...)
	if r.fromSource {
		cols = append(cols, "created_at")
	}
	return cols
}

// upsertStatement inserts r or, when a row with the same id exists,
// replaces all of its mutable columns. With insertOnly set an existing row
// is left untouched.
func upsertStatement(d dialect, r row, insertOnly bool) string {
	cols := r.allCols()
	params := make([]string, len(cols))
	for i := range cols {
		params[i] = d.param(i + 1)
	}

	if d == dialectSQLServer {
		return mergeStatement(r, cols, params, insertOnly)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "INSERT INTO %s (%s) VALUES (%s) ON CONFLICT (id) DO ",
		r.table, strings.Join(cols, ", "), strings.Join(params, ", "))
	if insertOnly {
		b.WriteString("NOTHING")
		return b.String()
	}
	sets := make([]string, 0, len(cols))
	for _, c := range r.updateCols() {
		sets = append(sets, fmt.Sprintf("%s = excluded.%s", c, c))
	}
	fmt.Fprintf(&b, "UPDATE SET %s", strings.Join(sets, ", "))
	return b.String()
}

func mergeStatement(r row, cols, params []string, insertOnly bool) string {
	using := make([]string, len(cols))
	srcCols := make([]string, len(cols))
	for i, c := range cols {
		using[i] = fmt.Sprintf("%s AS %s", params[i], c)
		srcCols[i] = "source." + c
	}

	var b strings.Builder
	fmt.Fprintf(&b, "MERGE INTO %s WITH (HOLDLOCK) AS target USING (SELECT %s) AS source ON target.id = source.id",
		r.table, strings.Join(using, ", "))
	if !insertOnly {
		sets := make([]string, 0, len(cols))
		for _, c := range r.updateCols() {
			sets = append(sets, fmt.Sprintf("target.%s = source.%s", c, c))
		}
		fmt.Fprintf(&b, " WHEN MATCHED THEN UPDATE SET %s", strings.Join(sets, ", "))
	}
	fmt.Fprintf(&b, " WHEN NOT MATCHED THEN INSERT (%s) VALUES (%s);",
		strings.Join(cols, ", "), strings.Join(srcCols, ", "))
	return b.String()
}

func existsStatement(d dialect) string {
	return fmt.Sprintf("SELECT COUNT(1) FROM users WHERE id = %s", d.param(1))
}
