package store

import (
	"context"
	"database/sql"
	"time"

	apperrors "ostech-hub/errors"
	"ostech-hub/models"
)

const courseColumns = `id, title, COALESCE(short_description, ''), COALESCE(description, ''),
	COALESCE(trainer_name, ''), price, COALESCE(category, ''), COALESCE(level, ''),
	COALESCE(duration, ''), lessons, is_active, created_at, updated_at`

// CourseStore persists the course catalog in postgres.
type CourseStore struct {
	db *sql.DB
}

// NewCourseStore creates a CourseStore on the given connection.
func NewCourseStore(db *sql.DB) *CourseStore {
	return &CourseStore{db: db}
}

func scanCourse(row interface{ Scan(...interface{}) error }, c *models.Course) error {
	return row.Scan(&c.ID, &c.Title, &c.ShortDescription, &c.Description, &c.TrainerName,
		&c.Price, &c.Category, &c.Level, &c.Duration, &c.Lessons, &c.IsActive,
		&c.CreatedAt, &c.UpdatedAt)
}

// ListActive returns all active courses ordered by id.
func (s *CourseStore) ListActive(ctx context.Context) ([]models.Course, error) {
	query := `SELECT ` + courseColumns + ` FROM course WHERE is_active = 1 ORDER BY id ASC`
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, apperrors.E(apperrors.Store, "error fetching courses", err)
	}
	defer rows.Close()

	courses := []models.Course{}
	for rows.Next() {
		var c models.Course
		if err := scanCourse(rows, &c); err != nil {
			return nil, apperrors.E(apperrors.Store, "error scanning course", err)
		}
		courses = append(courses, c)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.E(apperrors.Store, "error fetching courses", err)
	}
	return courses, nil
}

// GetByID fetches one course.
func (s *CourseStore) GetByID(ctx context.Context, id int) (*models.Course, error) {
	var c models.Course
	query := `SELECT ` + courseColumns + ` FROM course WHERE id = $1`
	err := scanCourse(s.db.QueryRowContext(ctx, query, id), &c)
	if err == sql.ErrNoRows {
		return nil, apperrors.NewNotFoundError("course not found")
	}
	if err != nil {
		return nil, apperrors.E(apperrors.Store, "error fetching course", err)
	}
	return &c, nil
}

// Create inserts a course and fills its id and timestamps.
func (s *CourseStore) Create(ctx context.Context, c *models.Course) error {
	now := time.Now()
	query := `INSERT INTO course
		(title, short_description, description, trainer_name, price, category, level, duration, lessons, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, 1, $10, $11)
		RETURNING id`
	err := s.db.QueryRowContext(ctx, query,
		c.Title, c.ShortDescription, c.Description, c.TrainerName, c.Price,
		c.Category, c.Level, c.Duration, c.Lessons, now, now,
	).Scan(&c.ID)
	if err != nil {
		return apperrors.E(apperrors.Store, "error creating course", err)
	}
	c.IsActive = 1
	c.CreatedAt = now
	c.UpdatedAt = now
	return nil
}

// Update rewrites a course's editable fields.
func (s *CourseStore) Update(ctx context.Context, c *models.Course) error {
	query := `UPDATE course
		SET title = $1, short_description = $2, description = $3, trainer_name = $4,
		    price = $5, category = $6, level = $7, duration = $8, lessons = $9,
		    is_active = $10, updated_at = CURRENT_TIMESTAMP
		WHERE id = $11`
	result, err := s.db.ExecContext(ctx, query,
		c.Title, c.ShortDescription, c.Description, c.TrainerName, c.Price,
		c.Category, c.Level, c.Duration, c.Lessons, c.IsActive, c.ID)
	if err != nil {
		return apperrors.E(apperrors.Store, "error updating course", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return apperrors.E(apperrors.Store, "error checking course update", err)
	}
	if rows == 0 {
		return apperrors.NewNotFoundError("course not found")
	}
	return nil
}
