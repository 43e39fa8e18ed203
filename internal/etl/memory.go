package etl

import (
	"context"

	"github.com/BartekS5/soundope-import/pkg/logger"
	"github.com/BartekS5/soundope-import/pkg/models"
)

// MemoryStore keeps everything in maps. It backs --dry-run, where a run
// should read, normalize and resolve parents without touching a target.
type MemoryStore struct {
	Users    map[string]models.User
	Tracks   map[string]models.Track
	Comments map[string]models.Comment
	Feedback map[string]models.Feedback

	// Placeholders counts placeholder creations per user id.
	Placeholders map[string]int
	// Log prints every write when set.
	Log bool
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		Users:        make(map[string]models.User),
		Tracks:       make(map[string]models.Track),
		Comments:     make(map[string]models.Comment),
		Feedback:     make(map[string]models.Feedback),
		Placeholders: make(map[string]int),
	}
}

func (m *MemoryStore) UserExists(_ context.Context, id string) (bool, error) {
	_, ok := m.Users[id]
	return ok, nil
}

func (m *MemoryStore) CreatePlaceholderUser(_ context.Context, u models.User) error {
	if _, ok := m.Users[u.ID]; ok {
		return nil
	}
	m.Users[u.ID] = u
	m.Placeholders[u.ID]++
	m.logf("[DRY RUN] Would create placeholder user %s", u.ID)
	return nil
}

func (m *MemoryStore) UpsertUser(_ context.Context, u models.User) error {
	if old, ok := m.Users[u.ID]; ok && !u.CreatedAtFromSource {
		u.CreatedAt = old.CreatedAt
	}
	m.Users[u.ID] = u
	m.logf("[DRY RUN] Would upsert user %s", u.ID)
	return nil
}

func (m *MemoryStore) UpsertTrack(_ context.Context, t models.Track) error {
	if old, ok := m.Tracks[t.ID]; ok && !t.CreatedAtFromSource {
		t.CreatedAt = old.CreatedAt
	}
	m.Tracks[t.ID] = t
	m.logf("[DRY RUN] Would upsert track %s", t.ID)
	return nil
}

func (m *MemoryStore) UpsertComment(_ context.Context, c models.Comment) error {
	if old, ok := m.Comments[c.ID]; ok && !c.CreatedAtFromSource {
		c.CreatedAt = old.CreatedAt
	}
	m.Comments[c.ID] = c
	m.logf("[DRY RUN] Would upsert comment %s", c.ID)
	return nil
}

func (m *MemoryStore) UpsertFeedback(_ context.Context, f models.Feedback) error {
	if old, ok := m.Feedback[f.ID]; ok && !f.CreatedAtFromSource {
		f.CreatedAt = old.CreatedAt
	}
	m.Feedback[f.ID] = f
	m.logf("[DRY RUN] Would upsert feedback %s", f.ID)
	return nil
}

func (m *MemoryStore) Close() error {
	return nil
}

func (m *MemoryStore) logf(format string, args ...interface{}) {
	if m.Log {
		logger.Infof(format, args...)
	}
}
