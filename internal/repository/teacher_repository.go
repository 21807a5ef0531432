package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/tutorhub/internal/models"
)

// TeacherRepository reads teacher profiles.
type TeacherRepository struct {
	db *sqlx.DB
}

// NewTeacherRepository creates a TeacherRepository.
func NewTeacherRepository(db *sqlx.DB) *TeacherRepository {
	return &TeacherRepository{db: db}
}

// FindTeacher returns a teacher profile by id.
func (r *TeacherRepository) FindTeacher(ctx context.Context, id int64) (*models.Profile, error) {
	const query = `SELECT id, full_name, COALESCE(email, '') AS email, COALESCE(phone, '') AS phone FROM teachers WHERE id = $1`
	var profile models.Profile
	if err := r.db.GetContext(ctx, &profile, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find teacher: %w", err)
	}
	return &profile, nil
}
