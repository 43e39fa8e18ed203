package etl

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/BartekS5/soundope-import/pkg/models"
)

// pgConn is the part of *pgxpool.Pool the store needs.
type pgConn interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Close()
}

// PostgresStore upserts with INSERT ... ON CONFLICT (id) DO UPDATE.
type PostgresStore struct {
	conn pgConn
}

func NewPostgresStore(conn pgConn) *PostgresStore {
	return &PostgresStore{conn: conn}
}

func (s *PostgresStore) UserExists(ctx context.Context, id string) (bool, error) {
	var n int
	if err := s.conn.QueryRow(ctx, existsStatement(dialectPostgres), id).Scan(&n); err != nil {
		return false, fmt.Errorf("error checking user existence: %w", err)
	}
	return n > 0, nil
}

func (s *PostgresStore) CreatePlaceholderUser(ctx context.Context, u models.User) error {
	return s.write(ctx, userRow(u), true)
}

func (s *PostgresStore) UpsertUser(ctx context.Context, u models.User) error {
	return s.write(ctx, userRow(u), false)
}

func (s *PostgresStore) UpsertTrack(ctx context.Context, t models.Track) error {
	return s.write(ctx, trackRow(t), false)
}

func (s *PostgresStore) UpsertComment(ctx context.Context, c models.Comment) error {
	return s.write(ctx, commentRow(c), false)
}

func (s *PostgresStore) UpsertFeedback(ctx context.Context, f models.Feedback) error {
	return s.write(ctx, feedbackRow(f), false)
}

func (s *PostgresStore) Close() error {
	s.conn.Close()
	return nil
}

func (s *PostgresStore) write(ctx context.Context, r row, insertOnly bool) error {
	args, err := r.sqlArgs()
	if err != nil {
		return err
	}
	if _, err := s.conn.Exec(ctx, upsertStatement(dialectPostgres, r, insertOnly), args...); err != nil {
		return fmt.Errorf("error writing %s %s: %w", strings.TrimSuffix(r.table, "s"), r.id, err)
	}
	return nil
}
