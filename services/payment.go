package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	apperrors "ostech-hub/errors"
	"ostech-hub/logger"
	"ostech-hub/models"
	"ostech-hub/utils"
)

// PaymentStore is the record store collaborator: the intake flows insert
// and advance records, the lookup endpoints read them back.
type PaymentStore interface {
	Create(ctx context.Context, p *models.Payment) error
	UpdateStatus(ctx context.Context, id, status string) error
	GetByTransactionID(ctx context.Context, transactionID string) (*models.Payment, error)
	List(ctx context.Context, limit int) ([]models.Payment, error)
}

// SMSSender delivers one outbound SMS. Delivery failure must never fail a
// payment request.
type SMSSender interface {
	Send(ctx context.Context, phoneNumber, message string) error
}

// EventPublisher publishes lifecycle events, best-effort.
type EventPublisher interface {
	Publish(topic, key string, value interface{}) error
}

// ReceiptMailer sends the card-payment receipt email, best-effort.
type ReceiptMailer interface {
	SendPaymentReceipt(toEmail, cardholderName, courseTitle, transactionID string, amount int64) error
}

// PaymentService implements the two payment intake flows.
type PaymentService struct {
	store  PaymentStore
	sms    SMSSender
	events EventPublisher
	mailer ReceiptMailer
}

// NewPaymentService creates a PaymentService with its collaborators.
func NewPaymentService(store PaymentStore, sms SMSSender, events EventPublisher, mailer ReceiptMailer) *PaymentService {
	return &PaymentService{store: store, sms: sms, events: events, mailer: mailer}
}

// MobilePaymentRequest is the mobile money checkout payload.
type MobilePaymentRequest struct {
	CourseID      string `json:"courseId"`
	CourseTitle   string `json:"courseTitle"`
	Amount        int64  `json:"amount"`
	PhoneNumber   string `json:"phoneNumber"`
	PaymentMethod string `json:"paymentMethod"`
}

// MobilePaymentResult is returned to the checkout UI on success.
type MobilePaymentResult struct {
	TransactionID string
	Message       string
	PaymentID     string
	SMSSent       bool
	Instructions  []string
}

// CardPaymentRequest is the card checkout payload.
type CardPaymentRequest struct {
	CourseID       string `json:"courseId"`
	CourseTitle    string `json:"courseTitle"`
	Amount         int64  `json:"amount"`
	CardNumber     string `json:"cardNumber"`
	ExpiryDate     string `json:"expiryDate"`
	CVV            string `json:"cvv"`
	CardholderName string `json:"cardholderName"`
	Email          string `json:"email"`
}

// CardPaymentResult is returned to the checkout UI on success.
type CardPaymentResult struct {
	TransactionID  string
	Message        string
	CardType       string
	LastFourDigits string
}

// ProcessMobilePayment validates the request, records the payment attempt,
// sends the USSD instruction SMS and advances the record to processing.
// The SMS is best-effort: its failure is reported in the result only.
func (s *PaymentService) ProcessMobilePayment(ctx context.Context, req MobilePaymentRequest) (*MobilePaymentResult, error) {
	if req.PaymentMethod != models.MethodMTN && req.PaymentMethod != models.MethodAirtel {
		return nil, apperrors.NewInvalidParamsError("Invalid payment method. Use mtn or airtel")
	}
	if req.Amount <= 0 {
		return nil, apperrors.NewInvalidParamsError("Invalid amount")
	}
	if err := utils.ValidatePhone(req.PhoneNumber); err != nil {
		return nil, apperrors.NewInvalidParamsError("Invalid phone number format. Use format: 0771234567 or 256771234567")
	}
	phone := utils.NormalizePhone(req.PhoneNumber)

	transactionID := utils.NewTransactionID(utils.MobileTxPrefix)

	payment := &models.Payment{
		CourseID:      req.CourseID,
		CourseTitle:   req.CourseTitle,
		Amount:        req.Amount,
		Currency:      models.Currency,
		PaymentMethod: req.PaymentMethod,
		PhoneNumber:   phone,
		Status:        models.StatusPending,
		TransactionID: transactionID,
	}
	if err := s.store.Create(ctx, payment); err != nil {
		logger.Error("Error creating payment record: %v", err)
		return nil, apperrors.E(apperrors.Store, "Failed to create payment record", err)
	}
	logger.Info("Payment record created: %s", payment.ID)

	s.publishPaymentEvent("payment.initiated", payment)

	providerName := "MTN Mobile Money"
	ussdCode := "*165#"
	if req.PaymentMethod == models.MethodAirtel {
		providerName = "Airtel Money"
		ussdCode = "*185#"
	}

	smsMessage := fmt.Sprintf(
		`OSTECH HUB: To complete your payment of UGX %s for %q, please dial %s and approve the transaction. Ref: %s`,
		utils.FormatAmount(req.Amount), req.CourseTitle, ussdCode, transactionID)

	smsSent := true
	if err := s.sms.Send(ctx, utils.FormatInternationalPhone(phone), smsMessage); err != nil {
		logger.Warn("SMS notification failed, but payment record created: %v", err)
		smsSent = false
	}

	// The record advances regardless of the SMS outcome. A failure here is
	// logged only; the caller already has a usable transaction reference.
	if err := s.store.UpdateStatus(ctx, payment.ID, models.StatusProcessing); err != nil {
		logger.Error("Error updating payment %s to processing: %v", payment.ID, err)
	} else {
		payment.Status = models.StatusProcessing
		s.publishPaymentEvent("payment.processing", payment)
	}

	return &MobilePaymentResult{
		TransactionID: transactionID,
		Message:       fmt.Sprintf("%s payment initiated. You will receive an SMS with instructions on %s.", providerName, phone),
		PaymentID:     payment.ID,
		SMSSent:       smsSent,
		Instructions: []string{
			fmt.Sprintf("1. You will receive an SMS on %s with payment details", phone),
			fmt.Sprintf("2. Dial %s to access Mobile Money", ussdCode),
			"3. Select 'Approve Transaction' or 'Payments'",
			"4. Enter your PIN to confirm the payment",
			"5. Your course access will be activated once payment is confirmed",
		},
	}, nil
}

// ProcessCardPayment validates card details in order, records the payment
// and marks it completed. No gateway is called; the flow is simulated after
// validation. The card number and CVV are never stored.
func (s *PaymentService) ProcessCardPayment(ctx context.Context, req CardPaymentRequest) (*CardPaymentResult, error) {
	cleaned := utils.CleanCardNumber(req.CardNumber)
	if err := utils.ValidateCardNumber(cleaned); err != nil {
		return nil, apperrors.NewInvalidParamsError("Invalid card number format")
	}
	month, year, err := utils.ParseExpiry(req.ExpiryDate)
	if err != nil {
		return nil, apperrors.NewInvalidParamsError("Invalid expiry date format. Use MM/YY")
	}
	if utils.ExpiryInPast(month, year, time.Now()) {
		return nil, apperrors.NewInvalidParamsError("Card has expired")
	}
	if err := utils.ValidateCVV(req.CVV); err != nil {
		return nil, apperrors.NewInvalidParamsError("Invalid CVV")
	}
	if strings.TrimSpace(req.CardholderName) == "" {
		return nil, apperrors.NewInvalidParamsError("Cardholder name is required")
	}
	if err := utils.ValidateEmail(req.Email); err != nil {
		return nil, apperrors.NewInvalidParamsError("Invalid email address")
	}
	if req.Amount <= 0 {
		return nil, apperrors.NewInvalidParamsError("Invalid amount")
	}

	cardType := utils.CardType(cleaned)
	transactionID := utils.NewTransactionID(utils.CardTxPrefix)

	payment := &models.Payment{
		CourseID:      req.CourseID,
		CourseTitle:   req.CourseTitle,
		Amount:        req.Amount,
		Currency:      models.Currency,
		PaymentMethod: "card_" + strings.ReplaceAll(strings.ToLower(cardType), " ", "_"),
		// Email stands in for the phone column on card payments.
		PhoneNumber:       req.Email,
		Status:            models.StatusProcessing,
		TransactionID:     transactionID,
		ExternalReference: utils.MaskCardNumber(cleaned),
	}
	if err := s.store.Create(ctx, payment); err != nil {
		logger.Error("Failed to create payment record: %v", err)
		return nil, apperrors.E(apperrors.Store, "Failed to create payment record", err)
	}
	logger.Info("Payment record created: %s", payment.ID)

	s.publishPaymentEvent("payment.initiated", payment)

	// Simulated settlement: the success response is already decided, so a
	// failed status write is logged and swallowed.
	if err := s.store.UpdateStatus(ctx, payment.ID, models.StatusCompleted); err != nil {
		logger.Error("Failed to update payment status: %v", err)
	} else {
		payment.Status = models.StatusCompleted
		s.publishPaymentEvent("payment.completed", payment)
	}

	if s.mailer != nil {
		go func() {
			if err := s.mailer.SendPaymentReceipt(req.Email, req.CardholderName, req.CourseTitle, transactionID, req.Amount); err != nil {
				logger.Warn("Failed to send payment receipt to %s: %v", req.Email, err)
			}
		}()
	}

	logger.Info("Card payment processed successfully for transaction: %s", transactionID)

	return &CardPaymentResult{
		TransactionID:  transactionID,
		Message:        "Payment processed successfully!",
		CardType:       cardType,
		LastFourDigits: utils.LastFourDigits(cleaned),
	}, nil
}

// GetPayment looks up a payment by the transaction id handed to the
// checkout UI.
func (s *PaymentService) GetPayment(ctx context.Context, transactionID string) (*models.Payment, error) {
	if strings.TrimSpace(transactionID) == "" {
		return nil, apperrors.NewInvalidParamsError("Transaction ID is required")
	}
	return s.store.GetByTransactionID(ctx, transactionID)
}

// ListPayments returns recent payments, newest first.
func (s *PaymentService) ListPayments(ctx context.Context, limit int) ([]models.Payment, error) {
	return s.store.List(ctx, limit)
}

// publishPaymentEvent snapshots the record's fields synchronously so the
// goroutine never reads a payment the caller keeps mutating.
func (s *PaymentService) publishPaymentEvent(event string, p *models.Payment) {
	if s.events == nil {
		return
	}
	key := p.TransactionID
	evt := map[string]interface{}{
		"event":          event,
		"payment_id":     p.ID,
		"transaction_id": p.TransactionID,
		"course_id":      p.CourseID,
		"amount":         p.Amount,
		"currency":       p.Currency,
		"method":         p.PaymentMethod,
		"status":         p.Status,
		"ts":             time.Now().UTC().Format(time.RFC3339),
	}
	go func() {
		if err := s.events.Publish(TopicPayments, key, evt); err != nil {
			logger.Warn("Failed to publish %s event: %v", event, err)
		}
	}()
}
