package session

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"gymadmin/internal/adapters/storage"
	domain "gymadmin/internal/domain/session"
)

const timeLayout = "2006-01-02T15:04:05Z07:00"

// SQLiteStore implements Store using the admin_session table.
type SQLiteStore struct {
	db storage.SQLDB
}

// NewSQLiteStore creates a new SQLiteStore.
func NewSQLiteStore(db storage.SQLDB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

// Get retrieves a session by token.
// PRE: token is non-empty
// POST: Returns the session or domain.ErrNotFound
func (s *SQLiteStore) Get(ctx context.Context, token string) (domain.Session, error) {
	ctx = storage.WithOp(ctx, "session.Get")
	var (
		sess    domain.Session
		created string
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT token, gym_id, admin_username, created_at FROM admin_session WHERE token = ?`, token).
		Scan(&sess.Token, &sess.GymID, &sess.AdminUsername, &created)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Session{}, domain.ErrNotFound
	}
	if err != nil {
		return domain.Session{}, fmt.Errorf("get session: %w", err)
	}
	sess.CreatedAt, err = time.Parse(timeLayout, created)
	if err != nil {
		return domain.Session{}, fmt.Errorf("parse session created_at: %w", err)
	}
	return sess, nil
}

// Save inserts or replaces a session.
// PRE: s has been validated
// POST: Session is persisted
func (s *SQLiteStore) Save(ctx context.Context, sess domain.Session) error {
	if err := sess.Validate(); err != nil {
		return err
	}
	ctx = storage.WithOp(ctx, "session.Save")
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO admin_session (token, gym_id, admin_username, created_at)
		 VALUES (?, ?, ?, ?)
		 ON CONFLICT(token) DO UPDATE SET
		   gym_id=excluded.gym_id, admin_username=excluded.admin_username, created_at=excluded.created_at`,
		sess.Token, sess.GymID, sess.AdminUsername, sess.CreatedAt.UTC().Format(timeLayout))
	return err
}

// Delete removes a session. Deleting an unknown token is not an error.
func (s *SQLiteStore) Delete(ctx context.Context, token string) error {
	ctx = storage.WithOp(ctx, "session.Delete")
	_, err := s.db.ExecContext(ctx, `DELETE FROM admin_session WHERE token = ?`, token)
	return err
}

// DeleteCreatedBefore purges sessions created before cutoff and returns how many were removed.
// PRE: cutoff is a valid time
// POST: No session older than cutoff remains
func (s *SQLiteStore) DeleteCreatedBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	ctx = storage.WithOp(ctx, "session.DeleteCreatedBefore")
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM admin_session WHERE created_at < ?`, cutoff.UTC().Format(timeLayout))
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
