package handlers

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	apperrors "ostech-hub/errors"
	"ostech-hub/http/response"
	"ostech-hub/logger"
	"ostech-hub/models"
	"ostech-hub/services"
	"ostech-hub/utils"
)

// mobilePaymentSuccess mirrors the payload shape of the original checkout API.
type mobilePaymentSuccess struct {
	Success       bool     `json:"success"`
	TransactionID string   `json:"transactionId"`
	Message       string   `json:"message"`
	PaymentID     string   `json:"paymentId"`
	SMSSent       bool     `json:"smsSent"`
	Instructions  []string `json:"instructions"`
}

type cardPaymentSuccess struct {
	Success        bool   `json:"success"`
	Message        string `json:"message"`
	TransactionID  string `json:"transactionId"`
	CardType       string `json:"cardType"`
	LastFourDigits string `json:"lastFourDigits"`
}

// PaymentHandler exposes the two payment intake flows over HTTP.
type PaymentHandler struct {
	service *services.PaymentService
}

// NewPaymentHandler creates a PaymentHandler.
func NewPaymentHandler(service *services.PaymentService) *PaymentHandler {
	return &PaymentHandler{service: service}
}

// ProcessMobilePayment handles POST /api/payments/mobile.
func (h *PaymentHandler) ProcessMobilePayment(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		response.CheckoutFailure(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	var req services.MobilePaymentRequest
	if err := utils.DecodeJSONRequest(r, &req); err != nil {
		response.CheckoutFailure(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	logger.Info("Processing %s payment for course: %s", req.PaymentMethod, req.CourseTitle)

	result, err := h.service.ProcessMobilePayment(r.Context(), req)
	if err != nil {
		writePaymentError(w, err)
		return
	}

	response.SendJSON(w, http.StatusOK, mobilePaymentSuccess{
		Success:       true,
		TransactionID: result.TransactionID,
		Message:       result.Message,
		PaymentID:     result.PaymentID,
		SMSSent:       result.SMSSent,
		Instructions:  result.Instructions,
	})
}

// ProcessCardPayment handles POST /api/payments/card.
func (h *PaymentHandler) ProcessCardPayment(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		response.CheckoutFailure(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	var req services.CardPaymentRequest
	if err := utils.DecodeJSONRequest(r, &req); err != nil {
		response.CheckoutFailure(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	logger.Info("Processing card payment for course: %s", req.CourseTitle)

	result, err := h.service.ProcessCardPayment(r.Context(), req)
	if err != nil {
		writePaymentError(w, err)
		return
	}

	response.SendJSON(w, http.StatusOK, cardPaymentSuccess{
		Success:        true,
		Message:        result.Message,
		TransactionID:  result.TransactionID,
		CardType:       result.CardType,
		LastFourDigits: result.LastFourDigits,
	})
}

// GetPaymentStatus handles GET /api/payments/{transactionId}.
func (h *PaymentHandler) GetPaymentStatus(w http.ResponseWriter, r *http.Request) {
	payment, err := h.service.GetPayment(r.Context(), mux.Vars(r)["transactionId"])
	if err != nil {
		writeStandardError(w, err)
		return
	}

	response.SuccessResponse(w, http.StatusOK, "Payment retrieved", payment.ToResponse())
}

// ListPayments handles GET /api/payments (admin endpoint).
func (h *PaymentHandler) ListPayments(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	payments, err := h.service.ListPayments(r.Context(), limit)
	if err != nil {
		writeStandardError(w, err)
		return
	}

	resp := make([]models.PaymentResponse, 0, len(payments))
	for i := range payments {
		resp = append(resp, payments[i].ToResponse())
	}
	response.SuccessResponse(w, http.StatusOK, fmt.Sprintf("Retrieved %d payments", len(resp)), resp)
}

// writePaymentError maps error kinds onto the checkout API's status codes.
// Validation failures carry their specific reason; everything else is
// returned generically and logged with detail server-side.
func writePaymentError(w http.ResponseWriter, err error) {
	switch apperrors.KindOf(err) {
	case apperrors.Invalid:
		response.CheckoutFailure(w, http.StatusBadRequest, apperrors.MessageOf(err))
	case apperrors.Store:
		logger.Error("Payment store error: %v", err)
		response.CheckoutFailure(w, http.StatusInternalServerError, apperrors.MessageOf(err))
	default:
		logger.Error("Error processing payment: %v", err)
		response.CheckoutFailure(w, http.StatusInternalServerError, "Unknown error occurred")
	}
}
