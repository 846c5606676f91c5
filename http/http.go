package http

import (
	"net/http"

	"github.com/gorilla/mux"

	"ostech-hub/http/handlers"
	"ostech-hub/http/middleware"
)

// NewRouter wires all HTTP routes. Every endpoint is CORS-enabled for any
// origin; OPTIONS preflights answer 204 with no body.
func NewRouter(payments *handlers.PaymentHandler, courses *handlers.CourseHandler, enrollments *handlers.EnrollmentHandler) *mux.Router {
	router := mux.NewRouter()

	router.HandleFunc("/healthz", middleware.EnableCORS(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})).Methods("GET", "HEAD", "OPTIONS")

	// Payment intake and lookup APIs
	router.HandleFunc("/api/payments/mobile", middleware.EnableCORS(payments.ProcessMobilePayment)).Methods("POST", "OPTIONS")
	router.HandleFunc("/api/payments/card", middleware.EnableCORS(payments.ProcessCardPayment)).Methods("POST", "OPTIONS")
	router.HandleFunc("/api/payments", middleware.EnableCORS(payments.ListPayments)).Methods("GET", "OPTIONS")
	router.HandleFunc("/api/payments/{transactionId}", middleware.EnableCORS(payments.GetPaymentStatus)).Methods("GET", "OPTIONS")

	// Course catalog APIs
	router.HandleFunc("/api/courses", middleware.EnableCORS(courses.GetCourses)).Methods("GET", "OPTIONS")
	router.HandleFunc("/api/courses", middleware.EnableCORS(courses.CreateCourse)).Methods("POST")
	router.HandleFunc("/api/courses/import", middleware.EnableCORS(courses.ImportCourses)).Methods("POST", "OPTIONS")
	router.HandleFunc("/api/courses/{id}", middleware.EnableCORS(courses.GetCourseByID)).Methods("GET", "OPTIONS")
	router.HandleFunc("/api/courses/{id}", middleware.EnableCORS(courses.UpdateCourse)).Methods("PUT")

	// Enrollment & progress APIs
	router.HandleFunc("/api/enrollments", middleware.EnableCORS(enrollments.CreateEnrollment)).Methods("POST", "OPTIONS")
	router.HandleFunc("/api/enrollments/{id}", middleware.EnableCORS(enrollments.GetEnrollment)).Methods("GET", "OPTIONS")
	router.HandleFunc("/api/enrollments/{id}/lessons/{lesson}/complete", middleware.EnableCORS(enrollments.CompleteLesson)).Methods("POST", "OPTIONS")
	router.HandleFunc("/api/enrollments/{id}/certificate", middleware.EnableCORS(enrollments.GetCertificate)).Methods("GET", "OPTIONS")

	return router
}
