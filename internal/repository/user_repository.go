package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/tutorhub/internal/models"
)

// UserRepository provides database access for login accounts.
type UserRepository struct {
	db *sqlx.DB
}

// NewUserRepository creates a new instance of UserRepository.
func NewUserRepository(db *sqlx.DB) *UserRepository {
	return &UserRepository{db: db}
}

// FindByLogin returns the account whose name or email matches, ignoring case.
func (r *UserRepository) FindByLogin(ctx context.Context, nameOrEmail string) (*models.Account, error) {
	const query = `SELECT id, name, email, password_hash, role, student_id, teacher_id, last_login FROM users WHERE LOWER(email) = LOWER($1) OR LOWER(name) = LOWER($1) ORDER BY id LIMIT 1`
	var account models.Account
	if err := r.db.GetContext(ctx, &account, query, nameOrEmail); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find user by login: %w", err)
	}
	return &account, nil
}

// MarkLoggedIn records a successful login.
func (r *UserRepository) MarkLoggedIn(ctx context.Context, id int64, ts time.Time) error {
	const query = `UPDATE users SET last_login = $2 WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id, ts); err != nil {
		return fmt.Errorf("update last login: %w", err)
	}
	return nil
}
