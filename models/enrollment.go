package models

import "time"

// Enrollment tracks one learner's progress through one course.
type Enrollment struct {
	ID               string     `json:"id"`
	CourseID         int        `json:"course_id"`
	LearnerName      string     `json:"learner_name"`
	LearnerEmail     string     `json:"learner_email"`
	CompletedLessons []int64    `json:"completed_lessons"`
	EnrolledAt       time.Time  `json:"enrolled_at"`
	CompletedAt      *time.Time `json:"completed_at,omitempty"`
}

// Progress returns the completion percentage against totalLessons, clamped
// to [0,100]. A course with no lessons reports zero.
func (e *Enrollment) Progress(totalLessons int) int {
	if totalLessons <= 0 {
		return 0
	}
	pct := len(e.CompletedLessons) * 100 / totalLessons
	if pct > 100 {
		pct = 100
	}
	return pct
}

// HasLesson reports whether lesson n is already recorded as completed.
func (e *Enrollment) HasLesson(n int) bool {
	for _, l := range e.CompletedLessons {
		if int(l) == n {
			return true
		}
	}
	return false
}

// EnrollmentResponse is the structured response for API responses
type EnrollmentResponse struct {
	ID               string  `json:"id"`
	CourseID         int     `json:"course_id"`
	CourseTitle      string  `json:"course_title"`
	LearnerName      string  `json:"learner_name"`
	LearnerEmail     string  `json:"learner_email"`
	CompletedLessons []int64 `json:"completed_lessons"`
	Progress         int     `json:"progress"`
	EnrolledAt       string  `json:"enrolled_at"`
	CompletedAt      *string `json:"completed_at,omitempty"`
}

// ToResponse converts Enrollment to EnrollmentResponse with formatted timestamps
func (e *Enrollment) ToResponse(course *Course) EnrollmentResponse {
	var completedAt *string
	if e.CompletedAt != nil {
		formatted := e.CompletedAt.Format(time.RFC3339)
		completedAt = &formatted
	}
	lessons := e.CompletedLessons
	if lessons == nil {
		lessons = []int64{}
	}
	resp := EnrollmentResponse{
		ID:               e.ID,
		CourseID:         e.CourseID,
		LearnerName:      e.LearnerName,
		LearnerEmail:     e.LearnerEmail,
		CompletedLessons: lessons,
		EnrolledAt:       e.EnrolledAt.Format(time.RFC3339),
		CompletedAt:      completedAt,
	}
	if course != nil {
		resp.CourseTitle = course.Title
		resp.Progress = e.Progress(course.Lessons)
	}
	return resp
}
