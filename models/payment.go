package models

import "time"

// Payment statuses. A record only ever moves forward through these.
const (
	StatusPending    = "pending"
	StatusProcessing = "processing"
	StatusCompleted  = "completed"
)

// Payment method identifiers as stored in the payments table.
const (
	MethodMTN    = "mtn"
	MethodAirtel = "airtel"
)

// Currency is fixed; amounts are whole Ugandan shillings.
const Currency = "UGX"

// StatusRank orders payment statuses for the monotonic-advance guard.
// Unknown statuses rank below pending so they can never overwrite anything.
func StatusRank(status string) int {
	switch status {
	case StatusPending:
		return 1
	case StatusProcessing:
		return 2
	case StatusCompleted:
		return 3
	default:
		return 0
	}
}

// Payment is the persisted record of one payment attempt.
type Payment struct {
	ID            string    `json:"id"`
	CourseID      string    `json:"course_id"`
	CourseTitle   string    `json:"course_title"`
	Amount        int64     `json:"amount"`
	Currency      string    `json:"currency"`
	PaymentMethod string    `json:"payment_method"`
	// Phone number for mobile money, email for card payments. The column
	// name is inherited from the original schema.
	PhoneNumber       string    `json:"phone_number"`
	Status            string    `json:"status"`
	TransactionID     string    `json:"transaction_id"`
	ExternalReference string    `json:"external_reference,omitempty"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

// PaymentResponse is the structured response for API responses
type PaymentResponse struct {
	ID                string `json:"id"`
	CourseID          string `json:"course_id"`
	CourseTitle       string `json:"course_title"`
	Amount            int64  `json:"amount"`
	Currency          string `json:"currency"`
	PaymentMethod     string `json:"payment_method"`
	PhoneNumber       string `json:"phone_number"`
	Status            string `json:"status"`
	TransactionID     string `json:"transaction_id"`
	ExternalReference string `json:"external_reference,omitempty"`
	CreatedAt         string `json:"created_at"`
	UpdatedAt         string `json:"updated_at"`
}

// ToResponse converts Payment to PaymentResponse with formatted timestamps
func (p *Payment) ToResponse() PaymentResponse {
	return PaymentResponse{
		ID:                p.ID,
		CourseID:          p.CourseID,
		CourseTitle:       p.CourseTitle,
		Amount:            p.Amount,
		Currency:          p.Currency,
		PaymentMethod:     p.PaymentMethod,
		PhoneNumber:       p.PhoneNumber,
		Status:            p.Status,
		TransactionID:     p.TransactionID,
		ExternalReference: p.ExternalReference,
		CreatedAt:         p.CreatedAt.Format(time.RFC3339),
		UpdatedAt:         p.UpdatedAt.Format(time.RFC3339),
	}
}
