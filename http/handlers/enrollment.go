package handlers

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"ostech-hub/http/response"
	"ostech-hub/services"
	"ostech-hub/utils"
)

// EnrollmentHandler exposes enrollment, progress and certificate endpoints.
type EnrollmentHandler struct {
	service *services.EnrollmentService
}

// NewEnrollmentHandler creates an EnrollmentHandler.
func NewEnrollmentHandler(service *services.EnrollmentService) *EnrollmentHandler {
	return &EnrollmentHandler{service: service}
}

// CreateEnrollment handles POST /api/enrollments.
func (h *EnrollmentHandler) CreateEnrollment(w http.ResponseWriter, r *http.Request) {
	var req struct {
		CourseID     int    `json:"courseId"`
		LearnerName  string `json:"learnerName"`
		LearnerEmail string `json:"learnerEmail"`
	}
	if err := utils.DecodeJSONRequest(r, &req); err != nil {
		response.ErrorResponse(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	enrollment, course, err := h.service.Enroll(r.Context(), req.CourseID, req.LearnerName, req.LearnerEmail)
	if err != nil {
		writeStandardError(w, err)
		return
	}

	response.SuccessResponse(w, http.StatusCreated, "Enrollment created", enrollment.ToResponse(course))
}

// GetEnrollment handles GET /api/enrollments/{id}.
func (h *EnrollmentHandler) GetEnrollment(w http.ResponseWriter, r *http.Request) {
	enrollment, course, err := h.service.Get(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeStandardError(w, err)
		return
	}

	response.SuccessResponse(w, http.StatusOK, "Enrollment retrieved", enrollment.ToResponse(course))
}

// CompleteLesson handles POST /api/enrollments/{id}/lessons/{lesson}/complete.
func (h *EnrollmentHandler) CompleteLesson(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	lesson, err := strconv.Atoi(vars["lesson"])
	if err != nil {
		response.ErrorResponse(w, http.StatusBadRequest, "Invalid lesson number")
		return
	}

	enrollment, course, err := h.service.CompleteLesson(r.Context(), vars["id"], lesson)
	if err != nil {
		writeStandardError(w, err)
		return
	}

	response.SuccessResponse(w, http.StatusOK, "Lesson recorded", enrollment.ToResponse(course))
}

// GetCertificate handles GET /api/enrollments/{id}/certificate.
func (h *EnrollmentHandler) GetCertificate(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	pdf, err := h.service.Certificate(r.Context(), id)
	if err != nil {
		writeStandardError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=certificate_%s.pdf", id))
	w.WriteHeader(http.StatusOK)
	w.Write(pdf)
}
