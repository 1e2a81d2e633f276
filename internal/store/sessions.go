package store

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
)

// StaffSession binds a gateway session token (hashed) to the backend
// bearer token obtained at login.
type StaffSession struct {
	TokenHash    string
	Phone        string
	BackendToken string
	CreatedAt    time.Time
	ExpiresAt    time.Time
}

func (s *Store) CreateStaffSession(ctx context.Context, sess StaffSession) error {
	_, err := s.Pool.Exec(ctx,
		`INSERT INTO staff_sessions (token_hash, phone, backend_token, expires_at)
		 VALUES ($1, $2, $3, $4)`,
		sess.TokenHash, sess.Phone, sess.BackendToken, sess.ExpiresAt)
	return err
}

// GetStaffSessionByToken resolves a raw session token. Expired rows are
// treated as absent.
func (s *Store) GetStaffSessionByToken(ctx context.Context, token string) (*StaffSession, error) {
	row := s.Pool.QueryRow(ctx,
		`SELECT token_hash, phone, backend_token, created_at, expires_at
		 FROM staff_sessions
		 WHERE token_hash = $1 AND expires_at > now()`,
		HashToken(token))

	var sess StaffSession
	err := row.Scan(&sess.TokenHash, &sess.Phone, &sess.BackendToken, &sess.CreatedAt, &sess.ExpiresAt)
	if err != nil {
		return nil, mapNotFound(err)
	}
	return &sess, nil
}

func (s *Store) DeleteStaffSession(ctx context.Context, token string) error {
	tag, err := s.Pool.Exec(ctx,
		`DELETE FROM staff_sessions WHERE token_hash = $1`, HashToken(token))
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Store) DeleteExpiredStaffSessions(ctx context.Context) (int64, error) {
	tag, err := s.Pool.Exec(ctx, `DELETE FROM staff_sessions WHERE expires_at <= now()`)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

func mapNotFound(err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}
	return err
}
