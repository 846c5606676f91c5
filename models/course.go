package models

import "time"

// Course levels
const (
	LevelBeginner     = "Beginner"
	LevelIntermediate = "Intermediate"
	LevelAdvanced     = "Advanced"
)

// Course represents a published course in the catalog
type Course struct {
	ID               int       `json:"id"`
	Title            string    `json:"title"`
	ShortDescription string    `json:"short_description"`
	Description      string    `json:"description"`
	TrainerName      string    `json:"trainer_name"`
	Price            int64     `json:"price"` // whole UGX
	Category         string    `json:"category"`
	Level            string    `json:"level"`
	Duration         string    `json:"duration"`
	Lessons          int       `json:"lessons"`
	IsActive         int       `json:"is_active"` // 0 = inactive, 1 = active
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// CourseResponse is the structured response for API responses
type CourseResponse struct {
	ID               int    `json:"id"`
	Title            string `json:"title"`
	ShortDescription string `json:"short_description"`
	Description      string `json:"description"`
	TrainerName      string `json:"trainer_name"`
	Price            int64  `json:"price"`
	Currency         string `json:"currency"`
	Category         string `json:"category"`
	Level            string `json:"level"`
	Duration         string `json:"duration"`
	Lessons          int    `json:"lessons"`
	IsActive         int    `json:"is_active"`
	CreatedAt        string `json:"created_at"`
	UpdatedAt        string `json:"updated_at"`
}

// ToResponse converts Course to CourseResponse with formatted timestamps
func (c *Course) ToResponse() CourseResponse {
	return CourseResponse{
		ID:               c.ID,
		Title:            c.Title,
		ShortDescription: c.ShortDescription,
		Description:      c.Description,
		TrainerName:      c.TrainerName,
		Price:            c.Price,
		Currency:         Currency,
		Category:         c.Category,
		Level:            c.Level,
		Duration:         c.Duration,
		Lessons:          c.Lessons,
		IsActive:         c.IsActive,
		CreatedAt:        c.CreatedAt.Format(time.RFC3339),
		UpdatedAt:        c.UpdatedAt.Format(time.RFC3339),
	}
}
