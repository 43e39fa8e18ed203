package etl

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/BartekS5/soundope-import/internal/source"
	"github.com/BartekS5/soundope-import/pkg/logger"
	"github.com/BartekS5/soundope-import/pkg/models"
)

// RunSummary is the outcome of one run. Succeeded+Failed always equals the
// number of top-level records; child records are counted separately.
type RunSummary struct {
	RunID      uuid.UUID `json:"run_id"`
	Source     string    `json:"source"`
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`

	Succeeded         int `json:"succeeded"`
	Failed            int `json:"failed"`
	ChildrenSucceeded int `json:"children_succeeded"`
	ChildrenFailed    int `json:"children_failed"`
	Warnings          int `json:"warnings"`

	Ledger *Ledger `json:"-"`
}

// Total is the number of top-level records processed.
func (s *RunSummary) Total() int {
	return s.Succeeded + s.Failed
}

type Options struct {
	// PlaceholderDomain is the mail domain of synthesized placeholder users.
	PlaceholderDomain string
	// Now overrides the clock used for defaulted timestamps.
	Now func() time.Time
}

// Pipeline writes records into a Store strictly one at a time, in source
// order. A record's placeholder parent is visible to every later record of
// the same run.
type Pipeline struct {
	Store       Store
	Transformer *Transformer
	Options     Options

	ledger  *Ledger
	summary *RunSummary
}

func NewPipeline(store Store, opts Options) *Pipeline {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.PlaceholderDomain == "" {
		opts.PlaceholderDomain = "placeholder.soundope.app"
	}
	return &Pipeline{
		Store:       store,
		Transformer: NewTransformer(opts.Now),
		Options:     opts,
	}
}

// Run imports every record of src and returns the finished summary.
func (p *Pipeline) Run(ctx context.Context, src *source.Source) (*RunSummary, error) {
	switch src.Kind() {
	case source.KindTracks:
		return p.ImportTracks(ctx, src.Path, src.Tracks()), nil
	case source.KindBundles:
		return p.ImportBundles(ctx, src.Path, src.Bundles()), nil
	default:
		return nil, fmt.Errorf("unknown source kind %q", src.Kind())
	}
}

func (p *Pipeline) ImportTracks(ctx context.Context, name string, records []models.TrackRecord) *RunSummary {
	p.begin(name)
	p.processEach(ctx, len(records), func(ctx context.Context, i int) *ImportError {
		return p.importTrack(ctx, records[i], "")
	})
	return p.finish()
}

func (p *Pipeline) ImportBundles(ctx context.Context, name string, bundles []models.UserBundle) *RunSummary {
	p.begin(name)
	p.processEach(ctx, len(bundles), func(ctx context.Context, i int) *ImportError {
		return p.importBundle(ctx, bundles[i])
	})
	return p.finish()
}

func (p *Pipeline) begin(name string) {
	p.ledger = NewLedger()
	p.Transformer = NewTransformer(p.Options.Now)
	p.summary = &RunSummary{
		RunID:     uuid.New(),
		Source:    name,
		StartedAt: p.Options.Now().UTC(),
		Ledger:    p.ledger,
	}
	logger.Infof("Starting import run %s from %s", p.summary.RunID, name)
}

func (p *Pipeline) finish() *RunSummary {
	p.summary.FinishedAt = p.Options.Now().UTC()
	p.summary.Warnings = p.Transformer.Warnings()
	logger.Infof("Import run %s finished: %d succeeded, %d failed",
		p.summary.RunID, p.summary.Succeeded, p.summary.Failed)
	return p.summary
}

// processEach runs step for every record index in order. Each record ends
// with exactly one outcome: success when step returns nil, otherwise the
// returned error goes to the ledger. A failing record never stops the loop.
func (p *Pipeline) processEach(ctx context.Context, n int, step func(ctx context.Context, i int) *ImportError) {
	for i := 0; i < n; i++ {
		if ierr := step(ctx, i); ierr != nil {
			p.ledger.Append(*ierr)
			p.summary.Failed++
			logger.Errorf("Record %d/%d failed: %s", i+1, n, ierr)
			continue
		}
		p.summary.Succeeded++
		logger.Debugf("Record %d/%d imported", i+1, n)
	}
}

// child records one child outcome without touching the parent's outcome.
func (p *Pipeline) child(ierr *ImportError) {
	if ierr != nil {
		p.ledger.Append(*ierr)
		p.summary.ChildrenFailed++
		logger.Warnf("Child record failed: %s", ierr)
		return
	}
	p.summary.ChildrenSucceeded++
}

// importTrack writes one track. ownerID is the already imported owner of a
// bundled track; tracks of other users go through the dependency check.
func (p *Pipeline) importTrack(ctx context.Context, rec models.TrackRecord, ownerID string) *ImportError {
	if err := ValidateTrack(rec); err != nil {
		return recordError("track", rec.ID.String(), rec.Title.String(), "", err)
	}
	track := p.Transformer.Track(rec)

	if track.UserID != ownerID {
		if ierr := p.ensureUser(ctx, track.UserID, rec.ArtistName.String(), "track", track.ID); ierr != nil {
			return ierr
		}
	}
	if err := p.Store.UpsertTrack(ctx, track); err != nil {
		return recordError("track", track.ID, track.Title, "", err)
	}
	return nil
}

func (p *Pipeline) importBundle(ctx context.Context, b models.UserBundle) *ImportError {
	if err := ValidateUser(b.User); err != nil {
		return recordError("user", b.User.ID.String(), b.User.Username.String(), b.User.Email.String(), err)
	}
	user := p.Transformer.User(b.User)
	email := ""
	if user.Email != nil {
		email = *user.Email
	}
	if err := p.Store.UpsertUser(ctx, user); err != nil {
		return recordError("user", user.ID, user.Username, email, err)
	}

	for _, rec := range b.Tracks {
		rec.UserID = defaultTo(rec.UserID, user.ID)
		p.child(p.importTrack(ctx, rec, user.ID))
	}
	for _, rec := range b.Comments {
		rec.UserID = defaultTo(rec.UserID, user.ID)
		p.child(p.importComment(ctx, rec, user.ID))
	}
	for _, rec := range b.FeedbackGiven {
		rec.ReviewerID = defaultTo(rec.ReviewerID, user.ID)
		p.child(p.importFeedback(ctx, rec, user.ID))
	}
	for _, rec := range b.FeedbackReceived {
		p.child(p.importFeedback(ctx, rec, user.ID))
	}
	return nil
}

func (p *Pipeline) importComment(ctx context.Context, rec models.CommentRecord, ownerID string) *ImportError {
	if err := ValidateComment(rec); err != nil {
		return recordError("comment", rec.ID.String(), "", "", err)
	}
	comment := p.Transformer.Comment(rec)
	if comment.UserID != ownerID {
		if ierr := p.ensureUser(ctx, comment.UserID, "", "comment", comment.ID); ierr != nil {
			return ierr
		}
	}
	if err := p.Store.UpsertComment(ctx, comment); err != nil {
		return recordError("comment", comment.ID, "", "", err)
	}
	return nil
}

func (p *Pipeline) importFeedback(ctx context.Context, rec models.FeedbackRecord, ownerID string) *ImportError {
	if err := ValidateFeedback(rec); err != nil {
		return recordError("feedback", rec.ID.String(), "", "", err)
	}
	fb := p.Transformer.Feedback(rec)
	if fb.ReviewerID != ownerID {
		if ierr := p.ensureUser(ctx, fb.ReviewerID, "", "feedback", fb.ID); ierr != nil {
			return ierr
		}
	}
	if err := p.Store.UpsertFeedback(ctx, fb); err != nil {
		return recordError("feedback", fb.ID, "", "", err)
	}
	return nil
}

// ensureUser creates a placeholder for userID when the target does not have
// it yet. The returned error means the dependent record must be skipped.
func (p *Pipeline) ensureUser(ctx context.Context, userID, displayName, childEntity, childID string) *ImportError {
	exists, err := p.Store.UserExists(ctx, userID)
	if err != nil {
		return &ImportError{
			Kind:    KindParentCreation,
			Entity:  "user",
			ID:      userID,
			Message: fmt.Sprintf("checking user for %s %s: %v", childEntity, childID, err),
		}
	}
	if exists {
		return nil
	}

	placeholder := p.Transformer.Placeholder(userID, displayName, p.Options.PlaceholderDomain)
	if err := p.Store.CreatePlaceholderUser(ctx, placeholder); err != nil {
		return &ImportError{
			Kind:    KindParentCreation,
			Entity:  "user",
			ID:      userID,
			Email:   *placeholder.Email,
			Message: fmt.Sprintf("creating placeholder user for %s %s: %v", childEntity, childID, err),
		}
	}
	logger.Infof("Created placeholder user %s for %s %s", userID, childEntity, childID)
	return nil
}

func recordError(entity, id, title, email string, err error) *ImportError {
	return &ImportError{
		Kind:    KindRecord,
		Entity:  entity,
		ID:      id,
		Title:   title,
		Email:   email,
		Message: err.Error(),
	}
}

func defaultTo(f models.RawField, v string) models.RawField {
	if f.Blank() {
		return models.Raw(v)
	}
	return f
}
