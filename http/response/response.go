package response

import (
	"encoding/json"
	"net/http"

	"ostech-hub/logger"
)

// Envelope wraps the catalog, enrollment and payment lookup responses.
type Envelope struct {
	Status  string      `json:"status"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

// checkoutError is the failure shape the checkout UI expects from the
// payment intake endpoints.
type checkoutError struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

// SuccessResponse sends an enveloped success response.
func SuccessResponse(w http.ResponseWriter, statusCode int, message string, data interface{}) {
	SendJSON(w, statusCode, Envelope{Status: "success", Message: message, Data: data})
}

// ErrorResponse sends an enveloped error response.
func ErrorResponse(w http.ResponseWriter, statusCode int, errorMsg string) {
	SendJSON(w, statusCode, Envelope{Status: "error", Message: errorMsg})
}

// CheckoutFailure sends the flat {success, error} shape of the payment
// intake endpoints.
func CheckoutFailure(w http.ResponseWriter, statusCode int, errorMsg string) {
	SendJSON(w, statusCode, checkoutError{Error: errorMsg})
}

// SendJSON encodes and sends a JSON response.
func SendJSON(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		logger.Error("Error encoding JSON response: %v", err)
	}
}
