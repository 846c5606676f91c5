package services

import (
	"bytes"
	"context"
	"testing"
	"time"

	apperrors "ostech-hub/errors"
	"ostech-hub/models"
)

type mockCourseGetter struct {
	GetByIDFunc func(ctx context.Context, id int) (*models.Course, error)
}

func (m *mockCourseGetter) GetByID(ctx context.Context, id int) (*models.Course, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	return nil, apperrors.NewNotFoundError("course not found")
}

// mockEnrollmentStore keeps enrollments in memory.
type mockEnrollmentStore struct {
	byID map[string]*models.Enrollment
	next int
}

func newMockEnrollmentStore() *mockEnrollmentStore {
	return &mockEnrollmentStore{byID: map[string]*models.Enrollment{}}
}

func (m *mockEnrollmentStore) Create(ctx context.Context, e *models.Enrollment) error {
	m.next++
	e.ID = "enr-" + string(rune('0'+m.next))
	e.EnrolledAt = time.Now()
	if e.CompletedLessons == nil {
		e.CompletedLessons = []int64{}
	}
	copied := *e
	m.byID[e.ID] = &copied
	return nil
}

func (m *mockEnrollmentStore) GetByID(ctx context.Context, id string) (*models.Enrollment, error) {
	e, ok := m.byID[id]
	if !ok {
		return nil, apperrors.NewNotFoundError("enrollment not found")
	}
	copied := *e
	return &copied, nil
}

func (m *mockEnrollmentStore) Save(ctx context.Context, e *models.Enrollment) error {
	if _, ok := m.byID[e.ID]; !ok {
		return apperrors.NewNotFoundError("enrollment not found")
	}
	copied := *e
	m.byID[e.ID] = &copied
	return nil
}

func activeCourse() *models.Course {
	return &models.Course{
		ID:          7,
		Title:       "Intro to Web Development",
		TrainerName: "Grace Nakato",
		Price:       50000,
		Lessons:     3,
		IsActive:    1,
	}
}

func newEnrollmentService(course *models.Course) (*EnrollmentService, *mockEnrollmentStore) {
	courses := &mockCourseGetter{
		GetByIDFunc: func(ctx context.Context, id int) (*models.Course, error) {
			if course != nil && id == course.ID {
				return course, nil
			}
			return nil, apperrors.NewNotFoundError("course not found")
		},
	}
	enrollments := newMockEnrollmentStore()
	return NewEnrollmentService(courses, enrollments, nil, nil), enrollments
}

func TestEnroll_CreatesWithZeroProgress(t *testing.T) {
	svc, _ := newEnrollmentService(activeCourse())

	enrollment, course, err := svc.Enroll(context.Background(), 7, "Jane Doe", "jane@example.com")
	if err != nil {
		t.Fatalf("Enroll error: %v", err)
	}
	if enrollment.Progress(course.Lessons) != 0 {
		t.Errorf("new enrollment progress = %d, want 0", enrollment.Progress(course.Lessons))
	}
	if enrollment.CompletedAt != nil {
		t.Error("new enrollment should not be completed")
	}
}

func TestEnroll_RejectsInactiveCourseAndMissingFields(t *testing.T) {
	inactive := activeCourse()
	inactive.IsActive = 0
	svc, _ := newEnrollmentService(inactive)

	if _, _, err := svc.Enroll(context.Background(), 7, "Jane", "jane@example.com"); apperrors.KindOf(err) != apperrors.Invalid {
		t.Errorf("inactive course: error kind = %v, want Invalid", apperrors.KindOf(err))
	}

	active, _ := newEnrollmentService(activeCourse())
	if _, _, err := active.Enroll(context.Background(), 7, "", "jane@example.com"); apperrors.KindOf(err) != apperrors.Invalid {
		t.Errorf("missing name: error kind = %v, want Invalid", apperrors.KindOf(err))
	}
	if _, _, err := active.Enroll(context.Background(), 99, "Jane", "jane@example.com"); apperrors.KindOf(err) != apperrors.NotFound {
		t.Errorf("unknown course: error kind = %v, want NotFound", apperrors.KindOf(err))
	}
}

func TestCompleteLesson_ProgressAndIdempotency(t *testing.T) {
	svc, _ := newEnrollmentService(activeCourse())
	ctx := context.Background()

	enrollment, _, err := svc.Enroll(ctx, 7, "Jane Doe", "jane@example.com")
	if err != nil {
		t.Fatalf("Enroll error: %v", err)
	}

	e, course, err := svc.CompleteLesson(ctx, enrollment.ID, 1)
	if err != nil {
		t.Fatalf("CompleteLesson error: %v", err)
	}
	if got := e.Progress(course.Lessons); got != 33 {
		t.Errorf("progress after 1/3 lessons = %d, want 33", got)
	}

	// Completing the same lesson again changes nothing
	e, course, err = svc.CompleteLesson(ctx, enrollment.ID, 1)
	if err != nil {
		t.Fatalf("repeat CompleteLesson error: %v", err)
	}
	if len(e.CompletedLessons) != 1 {
		t.Errorf("completed lessons after repeat = %d, want 1", len(e.CompletedLessons))
	}

	if _, _, err := svc.CompleteLesson(ctx, enrollment.ID, 4); apperrors.KindOf(err) != apperrors.Invalid {
		t.Errorf("out-of-range lesson: error kind = %v, want Invalid", apperrors.KindOf(err))
	}
	if _, _, err := svc.CompleteLesson(ctx, enrollment.ID, 0); apperrors.KindOf(err) != apperrors.Invalid {
		t.Errorf("lesson zero: error kind = %v, want Invalid", apperrors.KindOf(err))
	}
}

func TestCompleteLesson_FinalLessonCompletesCourse(t *testing.T) {
	svc, enrollments := newEnrollmentService(activeCourse())
	ctx := context.Background()

	enrollment, _, err := svc.Enroll(ctx, 7, "Jane Doe", "jane@example.com")
	if err != nil {
		t.Fatalf("Enroll error: %v", err)
	}

	for _, lesson := range []int{1, 2, 3} {
		if _, _, err := svc.CompleteLesson(ctx, enrollment.ID, lesson); err != nil {
			t.Fatalf("CompleteLesson(%d) error: %v", lesson, err)
		}
	}

	stored, _ := enrollments.GetByID(ctx, enrollment.ID)
	if stored.CompletedAt == nil {
		t.Fatal("completed_at should be set after the final lesson")
	}
	if got := stored.Progress(3); got != 100 {
		t.Errorf("progress = %d, want 100", got)
	}
}

func TestCertificate_OnlyAfterCompletion(t *testing.T) {
	svc, _ := newEnrollmentService(activeCourse())
	ctx := context.Background()

	enrollment, _, err := svc.Enroll(ctx, 7, "Jane Doe", "jane@example.com")
	if err != nil {
		t.Fatalf("Enroll error: %v", err)
	}

	if _, err := svc.Certificate(ctx, enrollment.ID); apperrors.KindOf(err) != apperrors.Conflict {
		t.Fatalf("certificate before completion: error kind = %v, want Conflict", apperrors.KindOf(err))
	}

	for _, lesson := range []int{1, 2, 3} {
		if _, _, err := svc.CompleteLesson(ctx, enrollment.ID, lesson); err != nil {
			t.Fatalf("CompleteLesson(%d) error: %v", lesson, err)
		}
	}

	pdf, err := svc.Certificate(ctx, enrollment.ID)
	if err != nil {
		t.Fatalf("Certificate error: %v", err)
	}
	if !bytes.HasPrefix(pdf, []byte("%PDF")) {
		t.Errorf("certificate does not look like a PDF (starts with %q)", pdf[:4])
	}
}
