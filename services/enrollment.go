package services

import (
	"context"
	"time"

	apperrors "ostech-hub/errors"
	"ostech-hub/logger"
	"ostech-hub/models"
)

// CourseGetter resolves catalog courses for enrollment checks.
type CourseGetter interface {
	GetByID(ctx context.Context, id int) (*models.Course, error)
}

// EnrollmentStore persists learner enrollments.
type EnrollmentStore interface {
	Create(ctx context.Context, e *models.Enrollment) error
	GetByID(ctx context.Context, id string) (*models.Enrollment, error)
	Save(ctx context.Context, e *models.Enrollment) error
}

// CertificateMailer notifies a learner that their certificate is ready.
type CertificateMailer interface {
	SendCertificateReady(toEmail, learnerName, courseTitle string, completedAt time.Time) error
}

// EnrollmentService tracks learner progress through courses and issues
// completion certificates.
type EnrollmentService struct {
	courses     CourseGetter
	enrollments EnrollmentStore
	events      EventPublisher
	mailer      CertificateMailer
}

// NewEnrollmentService creates an EnrollmentService with its collaborators.
func NewEnrollmentService(courses CourseGetter, enrollments EnrollmentStore, events EventPublisher, mailer CertificateMailer) *EnrollmentService {
	return &EnrollmentService{courses: courses, enrollments: enrollments, events: events, mailer: mailer}
}

// Enroll registers a learner on an active course with zero progress.
func (s *EnrollmentService) Enroll(ctx context.Context, courseID int, learnerName, learnerEmail string) (*models.Enrollment, *models.Course, error) {
	if learnerName == "" {
		return nil, nil, apperrors.NewInvalidParamsError("Learner name is required")
	}
	if learnerEmail == "" {
		return nil, nil, apperrors.NewInvalidParamsError("Learner email is required")
	}

	course, err := s.courses.GetByID(ctx, courseID)
	if err != nil {
		return nil, nil, err
	}
	if course.IsActive != 1 {
		return nil, nil, apperrors.NewInvalidParamsError("Course is not open for enrollment")
	}

	enrollment := &models.Enrollment{
		CourseID:     courseID,
		LearnerName:  learnerName,
		LearnerEmail: learnerEmail,
	}
	if err := s.enrollments.Create(ctx, enrollment); err != nil {
		return nil, nil, err
	}

	logger.Info("Enrollment created: %s (course %d)", enrollment.ID, courseID)
	return enrollment, course, nil
}

// Get returns an enrollment together with its course.
func (s *EnrollmentService) Get(ctx context.Context, id string) (*models.Enrollment, *models.Course, error) {
	enrollment, err := s.enrollments.GetByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	course, err := s.courses.GetByID(ctx, enrollment.CourseID)
	if err != nil {
		return nil, nil, err
	}
	return enrollment, course, nil
}

// CompleteLesson records lesson n as done. Repeating a lesson is a no-op.
// Completing the final lesson stamps completed_at, emits an event and
// queues the certificate email, both best-effort.
func (s *EnrollmentService) CompleteLesson(ctx context.Context, id string, lesson int) (*models.Enrollment, *models.Course, error) {
	enrollment, course, err := s.Get(ctx, id)
	if err != nil {
		return nil, nil, err
	}

	if lesson < 1 || lesson > course.Lessons {
		return nil, nil, apperrors.NewInvalidParamsError("Lesson number is out of range")
	}

	if enrollment.HasLesson(lesson) {
		return enrollment, course, nil
	}

	enrollment.CompletedLessons = append(enrollment.CompletedLessons, int64(lesson))

	justCompleted := false
	if enrollment.CompletedAt == nil && len(enrollment.CompletedLessons) >= course.Lessons {
		now := time.Now()
		enrollment.CompletedAt = &now
		justCompleted = true
	}

	if err := s.enrollments.Save(ctx, enrollment); err != nil {
		return nil, nil, err
	}

	if justCompleted {
		logger.Info("Course completed: enrollment %s (course %d)", enrollment.ID, course.ID)
		s.publishCompletionEvent(enrollment, course)
		if s.mailer != nil {
			go func() {
				if err := s.mailer.SendCertificateReady(enrollment.LearnerEmail, enrollment.LearnerName, course.Title, *enrollment.CompletedAt); err != nil {
					logger.Warn("Failed to send certificate email to %s: %v", enrollment.LearnerEmail, err)
				}
			}()
		}
	}

	return enrollment, course, nil
}

// Certificate renders the completion certificate PDF. Before completion it
// returns a conflict error.
func (s *EnrollmentService) Certificate(ctx context.Context, id string) ([]byte, error) {
	enrollment, course, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if enrollment.CompletedAt == nil {
		return nil, apperrors.NewConflictError("Course is not completed yet")
	}
	return BuildCertificate(enrollment.LearnerName, course.Title, course.TrainerName, *enrollment.CompletedAt)
}

func (s *EnrollmentService) publishCompletionEvent(e *models.Enrollment, c *models.Course) {
	if s.events == nil {
		return
	}
	// Snapshot before spawning; the caller still owns the enrollment.
	key := e.ID
	evt := map[string]interface{}{
		"event":         "enrollment.completed",
		"enrollment_id": e.ID,
		"course_id":     c.ID,
		"course_title":  c.Title,
		"learner_email": e.LearnerEmail,
		"ts":            time.Now().UTC().Format(time.RFC3339),
	}
	go func() {
		if err := s.events.Publish(TopicEnrollments, key, evt); err != nil {
			logger.Warn("Failed to publish enrollment.completed event: %v", err)
		}
	}()
}
