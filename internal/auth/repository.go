package auth

import (
	"context"
	"crypto/rand"
	"database/sql"
	"encoding/hex"
	"time"

	"github.com/scoutlens/scoutlens/internal/dberr"
)

type Repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) *Repository { return &Repository{db: db} }

type User struct {
	ID           int64
	Email        string
	PasswordHash string
	IsAdmin      bool
	CreatedAt    time.Time
}

// CreateUser inserts a new user. The first registered user becomes admin.
func (r *Repository) CreateUser(ctx context.Context, email, passwordHash string) (User, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return User{}, err
	}
	defer func() { _ = tx.Rollback() }()

	var cnt int64
	if err := tx.QueryRowContext(ctx, `SELECT COUNT(1) FROM users`).Scan(&cnt); err != nil {
		return User{}, err
	}
	isAdmin := 0
	if cnt == 0 {
		isAdmin = 1
	}
	row := tx.QueryRowContext(ctx,
		`INSERT INTO users (email, password_hash, is_admin) VALUES (?, ?, ?)
		 RETURNING id, email, password_hash, is_admin, created_at`,
		email, passwordHash, isAdmin,
	)
	var u User
	if err := row.Scan(&u.ID, &u.Email, &u.PasswordHash, &u.IsAdmin, &u.CreatedAt); err != nil {
		return User{}, dberr.Wrap(err)
	}
	if err := tx.Commit(); err != nil {
		return User{}, err
	}
	return u, nil
}

func (r *Repository) GetUserByEmail(ctx context.Context, email string) (User, error) {
	var u User
	err := r.db.QueryRowContext(ctx,
		`SELECT id, email, password_hash, is_admin, created_at FROM users WHERE email = ?`, email,
	).Scan(&u.ID, &u.Email, &u.PasswordHash, &u.IsAdmin, &u.CreatedAt)
	if err != nil {
		return User{}, dberr.Wrap(err)
	}
	return u, nil
}

type Session struct {
	Token     string
	UserID    int64
	ExpiresAt time.Time
	CreatedAt time.Time
}

// NewToken returns a cryptographically secure random token (hex-64).
func NewToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

func (r *Repository) CreateSession(ctx context.Context, userID int64, ttl time.Duration) (Session, error) {
	tok, err := NewToken()
	if err != nil {
		return Session{}, err
	}
	exp := time.Now().Add(ttl).UTC()
	row := r.db.QueryRowContext(ctx,
		`INSERT INTO sessions (token, user_id, expires_at) VALUES (?, ?, ?)
		 RETURNING token, user_id, expires_at, created_at`,
		tok, userID, exp,
	)
	var s Session
	if err := row.Scan(&s.Token, &s.UserID, &s.ExpiresAt, &s.CreatedAt); err != nil {
		return Session{}, dberr.Wrap(err)
	}
	return s, nil
}

func (r *Repository) DeleteSession(ctx context.Context, token string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM sessions WHERE token = ?`, token)
	return err
}

func (r *Repository) GetUserBySession(ctx context.Context, token string) (User, error) {
	// Opportunistic cleanup of expired sessions.
	_, _ = r.db.ExecContext(ctx, `DELETE FROM sessions WHERE expires_at < CURRENT_TIMESTAMP`)

	var u User
	err := r.db.QueryRowContext(ctx, `
        SELECT u.id, u.email, u.password_hash, u.is_admin, u.created_at
        FROM sessions s
        JOIN users u ON u.id = s.user_id
        WHERE s.token = ? AND s.expires_at > CURRENT_TIMESTAMP
    `, token).Scan(&u.ID, &u.Email, &u.PasswordHash, &u.IsAdmin, &u.CreatedAt)
	if err != nil {
		return User{}, dberr.Wrap(err)
	}
	return u, nil
}
