package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/lib/pq"

	apperrors "ostech-hub/errors"
	"ostech-hub/models"
)

// EnrollmentStore persists enrollments in postgres.
type EnrollmentStore struct {
	db *sql.DB
}

// NewEnrollmentStore creates an EnrollmentStore on the given connection.
func NewEnrollmentStore(db *sql.DB) *EnrollmentStore {
	return &EnrollmentStore{db: db}
}

// Create inserts an enrollment with no completed lessons yet.
func (s *EnrollmentStore) Create(ctx context.Context, e *models.Enrollment) error {
	e.ID = uuid.NewString()
	if e.CompletedLessons == nil {
		e.CompletedLessons = []int64{}
	}

	query := `INSERT INTO enrollments (id, course_id, learner_name, learner_email, completed_lessons)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING enrolled_at`
	err := s.db.QueryRowContext(ctx, query,
		e.ID, e.CourseID, e.LearnerName, e.LearnerEmail, pq.Array(e.CompletedLessons),
	).Scan(&e.EnrolledAt)
	if err != nil {
		return apperrors.E(apperrors.Store, "error creating enrollment", err)
	}
	return nil
}

// GetByID fetches one enrollment.
func (s *EnrollmentStore) GetByID(ctx context.Context, id string) (*models.Enrollment, error) {
	var e models.Enrollment
	query := `SELECT id, course_id, learner_name, learner_email, completed_lessons, enrolled_at, completed_at
		FROM enrollments WHERE id = $1`
	err := s.db.QueryRowContext(ctx, query, id).Scan(
		&e.ID, &e.CourseID, &e.LearnerName, &e.LearnerEmail,
		pq.Array(&e.CompletedLessons), &e.EnrolledAt, &e.CompletedAt,
	)
	if err == sql.ErrNoRows {
		return nil, apperrors.NewNotFoundError("enrollment not found")
	}
	if err != nil {
		return nil, apperrors.E(apperrors.Store, "error fetching enrollment", err)
	}
	return &e, nil
}

// Save rewrites the mutable progress fields of an enrollment.
func (s *EnrollmentStore) Save(ctx context.Context, e *models.Enrollment) error {
	query := `UPDATE enrollments
		SET completed_lessons = $1, completed_at = $2
		WHERE id = $3`
	result, err := s.db.ExecContext(ctx, query, pq.Array(e.CompletedLessons), e.CompletedAt, e.ID)
	if err != nil {
		return apperrors.E(apperrors.Store, "error saving enrollment", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return apperrors.E(apperrors.Store, "error checking enrollment update", err)
	}
	if rows == 0 {
		return apperrors.NewNotFoundError("enrollment not found")
	}
	return nil
}
