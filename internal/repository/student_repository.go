package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/tutorhub/internal/models"
)

// StudentRepository reads student profiles.
type StudentRepository struct {
	db *sqlx.DB
}

// NewStudentRepository creates a StudentRepository.
func NewStudentRepository(db *sqlx.DB) *StudentRepository {
	return &StudentRepository{db: db}
}

// FindStudent returns a student profile by id.
func (r *StudentRepository) FindStudent(ctx context.Context, id int64) (*models.Profile, error) {
	const query = `SELECT id, full_name, COALESCE(email, '') AS email, COALESCE(phone, '') AS phone FROM students WHERE id = $1`
	var profile models.Profile
	if err := r.db.GetContext(ctx, &profile, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find student: %w", err)
	}
	return &profile, nil
}
