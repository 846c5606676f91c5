package handlers

import (
	"fmt"
	"io"
	"net/http"
	"os"
	"strconv"

	"github.com/gorilla/mux"

	apperrors "ostech-hub/errors"
	"ostech-hub/http/response"
	"ostech-hub/logger"
	"ostech-hub/models"
	"ostech-hub/services"
	"ostech-hub/store"
	"ostech-hub/utils"
)

// CourseHandler serves the course catalog.
type CourseHandler struct {
	courses *store.CourseStore
}

// NewCourseHandler creates a CourseHandler.
func NewCourseHandler(courses *store.CourseStore) *CourseHandler {
	return &CourseHandler{courses: courses}
}

func writeStandardError(w http.ResponseWriter, err error) {
	switch apperrors.KindOf(err) {
	case apperrors.Invalid:
		response.ErrorResponse(w, http.StatusBadRequest, apperrors.MessageOf(err))
	case apperrors.NotFound:
		response.ErrorResponse(w, http.StatusNotFound, apperrors.MessageOf(err))
	case apperrors.Conflict:
		response.ErrorResponse(w, http.StatusConflict, apperrors.MessageOf(err))
	default:
		logger.Error("Request failed: %v", err)
		response.ErrorResponse(w, http.StatusInternalServerError, "Internal server error")
	}
}

// GetCourses retrieves all active courses
func (h *CourseHandler) GetCourses(w http.ResponseWriter, r *http.Request) {
	courses, err := h.courses.ListActive(r.Context())
	if err != nil {
		writeStandardError(w, err)
		return
	}

	resp := make([]models.CourseResponse, 0, len(courses))
	for i := range courses {
		resp = append(resp, courses[i].ToResponse())
	}
	response.SuccessResponse(w, http.StatusOK, fmt.Sprintf("Retrieved %d courses", len(resp)), resp)
}

// GetCourseByID retrieves a specific course by ID
func (h *CourseHandler) GetCourseByID(w http.ResponseWriter, r *http.Request) {
	courseID, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		response.ErrorResponse(w, http.StatusBadRequest, "Invalid course ID")
		return
	}

	course, err := h.courses.GetByID(r.Context(), courseID)
	if err != nil {
		writeStandardError(w, err)
		return
	}

	response.SuccessResponse(w, http.StatusOK, "Course retrieved", course.ToResponse())
}

type coursePayload struct {
	Title            string `json:"title"`
	ShortDescription string `json:"short_description"`
	Description      string `json:"description"`
	TrainerName      string `json:"trainer_name"`
	Price            int64  `json:"price"`
	Category         string `json:"category"`
	Level            string `json:"level"`
	Duration         string `json:"duration"`
	Lessons          int    `json:"lessons"`
}

// CreateCourse creates a new course (admin endpoint)
func (h *CourseHandler) CreateCourse(w http.ResponseWriter, r *http.Request) {
	var req coursePayload
	if err := utils.DecodeJSONRequest(r, &req); err != nil {
		response.ErrorResponse(w, http.StatusBadRequest, "Invalid request: "+err.Error())
		return
	}

	if req.Title == "" || req.Price <= 0 {
		response.ErrorResponse(w, http.StatusBadRequest, "Title and a positive price are required")
		return
	}

	course := models.Course{
		Title:            req.Title,
		ShortDescription: req.ShortDescription,
		Description:      req.Description,
		TrainerName:      req.TrainerName,
		Price:            req.Price,
		Category:         req.Category,
		Level:            req.Level,
		Duration:         req.Duration,
		Lessons:          req.Lessons,
	}
	if course.Level == "" {
		course.Level = models.LevelBeginner
	}

	if err := h.courses.Create(r.Context(), &course); err != nil {
		writeStandardError(w, err)
		return
	}

	response.SuccessResponse(w, http.StatusCreated, "Course created successfully", course.ToResponse())
}

// UpdateCourse updates an existing course (admin endpoint)
func (h *CourseHandler) UpdateCourse(w http.ResponseWriter, r *http.Request) {
	courseID, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		response.ErrorResponse(w, http.StatusBadRequest, "Invalid course ID")
		return
	}

	course, err := h.courses.GetByID(r.Context(), courseID)
	if err != nil {
		writeStandardError(w, err)
		return
	}

	var req coursePayload
	if err := utils.DecodeJSONRequest(r, &req); err != nil {
		response.ErrorResponse(w, http.StatusBadRequest, "Invalid request: "+err.Error())
		return
	}

	if req.Title != "" {
		course.Title = req.Title
	}
	if req.ShortDescription != "" {
		course.ShortDescription = req.ShortDescription
	}
	if req.Description != "" {
		course.Description = req.Description
	}
	if req.TrainerName != "" {
		course.TrainerName = req.TrainerName
	}
	if req.Price > 0 {
		course.Price = req.Price
	}
	if req.Category != "" {
		course.Category = req.Category
	}
	if req.Level != "" {
		course.Level = req.Level
	}
	if req.Duration != "" {
		course.Duration = req.Duration
	}
	if req.Lessons > 0 {
		course.Lessons = req.Lessons
	}

	if err := h.courses.Update(r.Context(), course); err != nil {
		writeStandardError(w, err)
		return
	}

	response.SuccessResponse(w, http.StatusOK, "Course updated successfully", course.ToResponse())
}

// ImportCourses handles bulk course upload via Excel file
func (h *CourseHandler) ImportCourses(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	file, header, err := r.FormFile("file")
	if err != nil {
		logger.Error("Error getting form file: %v", err)
		response.ErrorResponse(w, http.StatusBadRequest, "Invalid file")
		return
	}
	defer file.Close()

	logger.Info("Processing course import: %s", header.Filename)

	tempFile, err := os.CreateTemp("", "courses_*.xlsx")
	if err != nil {
		logger.Error("Error creating temp file: %v", err)
		response.ErrorResponse(w, http.StatusInternalServerError, "Error processing file")
		return
	}
	tempFilePath := tempFile.Name()
	defer func() {
		tempFile.Close()
		os.Remove(tempFilePath)
	}()

	if _, err = io.Copy(tempFile, file); err != nil {
		logger.Error("Error copying file: %v", err)
		response.ErrorResponse(w, http.StatusInternalServerError, "Error saving file")
		return
	}
	if err := tempFile.Close(); err != nil {
		logger.Warn("Error closing temp file: %v", err)
	}

	courses, err := services.ParseCourseWorkbook(tempFilePath)
	if err != nil {
		logger.Error("Error parsing Excel: %v", err)
		response.ErrorResponse(w, http.StatusBadRequest, "Error parsing Excel: "+err.Error())
		return
	}

	imported := 0
	failed := []map[string]string{}
	for i := range courses {
		if err := h.courses.Create(ctx, &courses[i]); err != nil {
			logger.Error("Failed to import course %q: %v", courses[i].Title, err)
			failed = append(failed, map[string]string{
				"row":   fmt.Sprintf("%d", i+2), // +2 for header row
				"title": courses[i].Title,
			})
			continue
		}
		imported++
	}

	response.SuccessResponse(w, http.StatusOK,
		fmt.Sprintf("Imported %d of %d courses", imported, len(courses)),
		map[string]interface{}{
			"imported": imported,
			"parsed":   len(courses),
			"failed":   failed,
		})
}
