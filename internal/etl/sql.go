package etl

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"
	"strings"

	"github.com/BartekS5/soundope-import/pkg/models"
)

//go:embed schema/sqlite.sql
var sqliteSchema string

// SQLStore writes into SQL Server or SQLite through database/sql.
type SQLStore struct {
	DB      *sql.DB
	dialect dialect
}

// NewSQLServerStore uses MERGE statements for upserts.
func NewSQLServerStore(db *sql.DB) *SQLStore {
	return &SQLStore{DB: db, dialect: dialectSQLServer}
}

// NewSQLiteStore creates the soundope tables when they are missing.
func NewSQLiteStore(ctx context.Context, db *sql.DB) (*SQLStore, error) {
	for _, stmt := range strings.Split(sqliteSchema, ";") {
		if strings.TrimSpace(stmt) == "" {
			continue
		}
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return nil, fmt.Errorf("creating sqlite schema: %w", err)
		}
	}
	return &SQLStore{DB: db, dialect: dialectSQLite}, nil
}

func (s *SQLStore) UserExists(ctx context.Context, id string) (bool, error) {
	var n int
	if err := s.DB.QueryRowContext(ctx, existsStatement(s.dialect), id).Scan(&n); err != nil {
		return false, fmt.Errorf("error checking user existence: %w", err)
	}
	return n > 0, nil
}

func (s *SQLStore) CreatePlaceholderUser(ctx context.Context, u models.User) error {
	return s.write(ctx, userRow(u), true)
}

func (s *SQLStore) UpsertUser(ctx context.Context, u models.User) error {
	return s.write(ctx, userRow(u), false)
}

func (s *SQLStore) UpsertTrack(ctx context.Context, t models.Track) error {
	return s.write(ctx, trackRow(t), false)
}

func (s *SQLStore) UpsertComment(ctx context.Context, c models.Comment) error {
	return s.write(ctx, commentRow(c), false)
}

func (s *SQLStore) UpsertFeedback(ctx context.Context, f models.Feedback) error {
	return s.write(ctx, feedbackRow(f), false)
}

func (s *SQLStore) Close() error {
	return s.DB.Close()
}

func (s *SQLStore) write(ctx context.Context, r row, insertOnly bool) error {
	args, err := r.sqlArgs()
	if err != nil {
		return err
	}
	if _, err := s.DB.ExecContext(ctx, upsertStatement(s.dialect, r, insertOnly), args...); err != nil {
		return fmt.Errorf("error writing %s %s: %w", strings.TrimSuffix(r.table, "s"), r.id, err)
	}
	return nil
}
