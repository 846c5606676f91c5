package services

import (
	"context"
	"strings"
	"testing"
	"time"

	apperrors "ostech-hub/errors"
	"ostech-hub/models"
)

// mockPaymentStore records calls and enforces the monotonic status guard
// the way the postgres store does.
type mockPaymentStore struct {
	CreateFunc             func(ctx context.Context, p *models.Payment) error
	UpdateStatusFunc       func(ctx context.Context, id, status string) error
	GetByTransactionIDFunc func(ctx context.Context, transactionID string) (*models.Payment, error)

	created  []*models.Payment
	statuses []string
}

func (m *mockPaymentStore) Create(ctx context.Context, p *models.Payment) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, p)
	}
	p.ID = "pay-1"
	m.created = append(m.created, p)
	m.statuses = append(m.statuses, p.Status)
	return nil
}

func (m *mockPaymentStore) UpdateStatus(ctx context.Context, id, status string) error {
	if m.UpdateStatusFunc != nil {
		return m.UpdateStatusFunc(ctx, id, status)
	}
	if len(m.statuses) > 0 && models.StatusRank(m.statuses[len(m.statuses)-1]) >= models.StatusRank(status) {
		return apperrors.NewStoreError("payment not updated: unknown id or status would regress")
	}
	m.statuses = append(m.statuses, status)
	return nil
}

func (m *mockPaymentStore) GetByTransactionID(ctx context.Context, transactionID string) (*models.Payment, error) {
	if m.GetByTransactionIDFunc != nil {
		return m.GetByTransactionIDFunc(ctx, transactionID)
	}
	for _, p := range m.created {
		if p.TransactionID == transactionID {
			return p, nil
		}
	}
	return nil, apperrors.NewNotFoundError("payment not found")
}

func (m *mockPaymentStore) List(ctx context.Context, limit int) ([]models.Payment, error) {
	out := make([]models.Payment, 0, len(m.created))
	for i := len(m.created) - 1; i >= 0; i-- {
		out = append(out, *m.created[i])
	}
	return out, nil
}

type publishedEvent struct {
	topic string
	key   string
	value map[string]interface{}
}

// mockPublisher hands published events back over a channel so tests can
// wait for the publishing goroutines.
type mockPublisher struct {
	events chan publishedEvent
}

func newMockPublisher() *mockPublisher {
	return &mockPublisher{events: make(chan publishedEvent, 8)}
}

func (m *mockPublisher) Publish(topic, key string, value interface{}) error {
	evt, _ := value.(map[string]interface{})
	m.events <- publishedEvent{topic: topic, key: key, value: evt}
	return nil
}

// collect receives n payment events and indexes them by event name.
func (m *mockPublisher) collect(t *testing.T, n int) map[string]map[string]interface{} {
	t.Helper()
	out := map[string]map[string]interface{}{}
	for i := 0; i < n; i++ {
		select {
		case e := <-m.events:
			if e.topic != TopicPayments {
				t.Errorf("event published to topic %q, want %q", e.topic, TopicPayments)
			}
			name, _ := e.value["event"].(string)
			out[name] = e.value
		case <-time.After(2 * time.Second):
			t.Fatalf("timed out waiting for event %d of %d", i+1, n)
		}
	}
	return out
}

type mockSMS struct {
	SendFunc func(ctx context.Context, phoneNumber, message string) error

	recipients []string
	messages   []string
}

func (m *mockSMS) Send(ctx context.Context, phoneNumber, message string) error {
	m.recipients = append(m.recipients, phoneNumber)
	m.messages = append(m.messages, message)
	if m.SendFunc != nil {
		return m.SendFunc(ctx, phoneNumber, message)
	}
	return nil
}

func newMobileRequest() MobilePaymentRequest {
	return MobilePaymentRequest{
		CourseID:      "course-7",
		CourseTitle:   "Intro to Web Development",
		Amount:        50000,
		PhoneNumber:   "0771234567",
		PaymentMethod: "mtn",
	}
}

func newCardRequest() CardPaymentRequest {
	return CardPaymentRequest{
		CourseID:       "course-7",
		CourseTitle:    "Intro to Web Development",
		Amount:         50000,
		CardNumber:     "4242424242424242",
		ExpiryDate:     "12/30",
		CVV:            "123",
		CardholderName: "Jane Doe",
		Email:          "jane@example.com",
	}
}

func TestProcessMobilePayment_Success(t *testing.T) {
	store := &mockPaymentStore{}
	sms := &mockSMS{}
	svc := NewPaymentService(store, sms, nil, nil)

	result, err := svc.ProcessMobilePayment(context.Background(), newMobileRequest())
	if err != nil {
		t.Fatalf("ProcessMobilePayment error: %v", err)
	}

	if len(store.created) != 1 {
		t.Fatalf("expected 1 record created, got %d", len(store.created))
	}
	p := store.created[0]
	if p.Status != models.StatusPending {
		t.Errorf("record created with status %q, want pending", p.Status)
	}
	if got, want := store.statuses, []string{models.StatusPending, models.StatusProcessing}; len(got) != 2 || got[0] != want[0] || got[1] != want[1] {
		t.Errorf("status sequence = %v, want %v", got, want)
	}
	if p.PaymentMethod != "mtn" || p.PhoneNumber != "0771234567" || p.Amount != 50000 {
		t.Errorf("unexpected record fields: %+v", p)
	}
	if p.Currency != "UGX" {
		t.Errorf("currency = %q, want UGX", p.Currency)
	}

	if !result.SMSSent {
		t.Error("smsSent = false, want true")
	}
	if !strings.Contains(result.Message, "MTN Mobile Money") || !strings.Contains(result.Message, "0771234567") {
		t.Errorf("message %q should reference provider and phone", result.Message)
	}
	if len(result.Instructions) != 5 {
		t.Errorf("expected 5 instruction steps, got %d", len(result.Instructions))
	}
	if result.TransactionID != p.TransactionID || !strings.HasPrefix(result.TransactionID, "OSTECH-") {
		t.Errorf("transaction id mismatch: %q vs record %q", result.TransactionID, p.TransactionID)
	}

	if len(sms.recipients) != 1 || sms.recipients[0] != "+256771234567" {
		t.Errorf("SMS recipient = %v, want [+256771234567]", sms.recipients)
	}
	if !strings.Contains(sms.messages[0], "*165#") || !strings.Contains(sms.messages[0], result.TransactionID) {
		t.Errorf("SMS message %q should carry the USSD code and reference", sms.messages[0])
	}
}

func TestProcessMobilePayment_AirtelUsesItsUSSDCode(t *testing.T) {
	store := &mockPaymentStore{}
	sms := &mockSMS{}
	svc := NewPaymentService(store, sms, nil, nil)

	req := newMobileRequest()
	req.PaymentMethod = "airtel"

	result, err := svc.ProcessMobilePayment(context.Background(), req)
	if err != nil {
		t.Fatalf("ProcessMobilePayment error: %v", err)
	}
	if !strings.Contains(result.Message, "Airtel Money") {
		t.Errorf("message %q should reference Airtel Money", result.Message)
	}
	if !strings.Contains(sms.messages[0], "*185#") {
		t.Errorf("SMS message %q should carry the Airtel USSD code", sms.messages[0])
	}
}

func TestProcessMobilePayment_InvalidPhone_NoRecordCreated(t *testing.T) {
	store := &mockPaymentStore{}
	sms := &mockSMS{}
	svc := NewPaymentService(store, sms, nil, nil)

	req := newMobileRequest()
	req.PhoneNumber = "12345"

	_, err := svc.ProcessMobilePayment(context.Background(), req)
	if err == nil {
		t.Fatal("expected error for invalid phone")
	}
	if apperrors.KindOf(err) != apperrors.Invalid {
		t.Errorf("error kind = %v, want Invalid", apperrors.KindOf(err))
	}
	if !strings.Contains(apperrors.MessageOf(err), "Invalid phone number format") {
		t.Errorf("error message %q should mention the phone format", apperrors.MessageOf(err))
	}
	if len(store.created) != 0 {
		t.Error("no record should be created on validation failure")
	}
	if len(sms.messages) != 0 {
		t.Error("no SMS should be attempted on validation failure")
	}
}

func TestProcessMobilePayment_UnknownProviderRejected(t *testing.T) {
	store := &mockPaymentStore{}
	svc := NewPaymentService(store, &mockSMS{}, nil, nil)

	req := newMobileRequest()
	req.PaymentMethod = "mpesa"

	_, err := svc.ProcessMobilePayment(context.Background(), req)
	if apperrors.KindOf(err) != apperrors.Invalid {
		t.Fatalf("error kind = %v, want Invalid", apperrors.KindOf(err))
	}
	if len(store.created) != 0 {
		t.Error("no record should be created for an unknown provider")
	}
}

func TestProcessMobilePayment_StoreFailureAbortsBeforeSMS(t *testing.T) {
	store := &mockPaymentStore{
		CreateFunc: func(ctx context.Context, p *models.Payment) error {
			return apperrors.NewStoreError("insert failed")
		},
	}
	sms := &mockSMS{}
	svc := NewPaymentService(store, sms, nil, nil)

	_, err := svc.ProcessMobilePayment(context.Background(), newMobileRequest())
	if apperrors.KindOf(err) != apperrors.Store {
		t.Fatalf("error kind = %v, want Store", apperrors.KindOf(err))
	}
	if !strings.Contains(apperrors.MessageOf(err), "Failed to create payment record") {
		t.Errorf("error message %q should be the generic store failure", apperrors.MessageOf(err))
	}
	if len(sms.messages) != 0 {
		t.Error("SMS must not be attempted when the insert fails")
	}
}

func TestProcessMobilePayment_SMSFailureStillSucceeds(t *testing.T) {
	store := &mockPaymentStore{}
	sms := &mockSMS{
		SendFunc: func(ctx context.Context, phoneNumber, message string) error {
			return apperrors.NewNotificationError("gateway down")
		},
	}
	svc := NewPaymentService(store, sms, nil, nil)

	result, err := svc.ProcessMobilePayment(context.Background(), newMobileRequest())
	if err != nil {
		t.Fatalf("SMS failure must not fail the request: %v", err)
	}
	if result.SMSSent {
		t.Error("smsSent = true, want false after delivery failure")
	}
	// The record still advances to processing
	if store.statuses[len(store.statuses)-1] != models.StatusProcessing {
		t.Errorf("final status = %q, want processing", store.statuses[len(store.statuses)-1])
	}
}

func TestProcessMobilePayment_StatusUpdateFailureIsSwallowed(t *testing.T) {
	store := &mockPaymentStore{
		UpdateStatusFunc: func(ctx context.Context, id, status string) error {
			return apperrors.NewStoreError("update failed")
		},
	}
	svc := NewPaymentService(store, &mockSMS{}, nil, nil)

	result, err := svc.ProcessMobilePayment(context.Background(), newMobileRequest())
	if err != nil {
		t.Fatalf("status update failure must not fail the request: %v", err)
	}
	if result.TransactionID == "" {
		t.Error("result should still carry a transaction id")
	}
}

func TestProcessCardPayment_Success(t *testing.T) {
	store := &mockPaymentStore{}
	svc := NewPaymentService(store, &mockSMS{}, nil, nil)

	result, err := svc.ProcessCardPayment(context.Background(), newCardRequest())
	if err != nil {
		t.Fatalf("ProcessCardPayment error: %v", err)
	}

	if result.CardType != "Visa" {
		t.Errorf("cardType = %q, want Visa", result.CardType)
	}
	if result.LastFourDigits != "4242" {
		t.Errorf("lastFourDigits = %q, want 4242", result.LastFourDigits)
	}
	if !strings.HasPrefix(result.TransactionID, "CARD-") {
		t.Errorf("transaction id %q missing CARD prefix", result.TransactionID)
	}

	if len(store.created) != 1 {
		t.Fatalf("expected 1 record created, got %d", len(store.created))
	}
	p := store.created[0]
	if got, want := store.statuses, []string{models.StatusProcessing, models.StatusCompleted}; len(got) != 2 || got[0] != want[0] || got[1] != want[1] {
		t.Errorf("status sequence = %v, want %v", got, want)
	}
	if p.PaymentMethod != "card_visa" {
		t.Errorf("payment method = %q, want card_visa", p.PaymentMethod)
	}
	if p.PhoneNumber != "jane@example.com" {
		t.Errorf("payer reference = %q, want the email", p.PhoneNumber)
	}
	if p.ExternalReference != "****4242" {
		t.Errorf("external reference = %q, want ****4242", p.ExternalReference)
	}
	// The full card number must never reach the store
	for _, field := range []string{p.PhoneNumber, p.ExternalReference, p.TransactionID} {
		if strings.Contains(field, "4242424242424242") {
			t.Errorf("full card number leaked into stored field %q", field)
		}
	}
}

func TestProcessCardPayment_ValidationOrder(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*CardPaymentRequest)
		wantMsg string
	}{
		{"bad card number", func(r *CardPaymentRequest) { r.CardNumber = "1234" }, "Invalid card number format"},
		{"bad expiry shape", func(r *CardPaymentRequest) { r.ExpiryDate = "2030-12" }, "Invalid expiry date format. Use MM/YY"},
		{"expired card", func(r *CardPaymentRequest) { r.ExpiryDate = "01/20" }, "Card has expired"},
		{"bad cvv", func(r *CardPaymentRequest) { r.CVV = "12" }, "Invalid CVV"},
		{"missing name", func(r *CardPaymentRequest) { r.CardholderName = " " }, "Cardholder name is required"},
		{"bad email", func(r *CardPaymentRequest) { r.Email = "not-an-email" }, "Invalid email address"},
		{"bad amount", func(r *CardPaymentRequest) { r.Amount = 0 }, "Invalid amount"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := &mockPaymentStore{}
			svc := NewPaymentService(store, &mockSMS{}, nil, nil)

			req := newCardRequest()
			tt.mutate(&req)

			_, err := svc.ProcessCardPayment(context.Background(), req)
			if err == nil {
				t.Fatal("expected validation error")
			}
			if apperrors.KindOf(err) != apperrors.Invalid {
				t.Errorf("error kind = %v, want Invalid", apperrors.KindOf(err))
			}
			if got := apperrors.MessageOf(err); got != tt.wantMsg {
				t.Errorf("error message = %q, want %q", got, tt.wantMsg)
			}
			if len(store.created) != 0 {
				t.Error("no record should be created on validation failure")
			}
		})
	}
}

func TestProcessCardPayment_BrandEncoding(t *testing.T) {
	tests := []struct {
		number     string
		wantType   string
		wantMethod string
	}{
		{"5555555555554444", "MasterCard", "card_mastercard"},
		{"2221000000000009", "MasterCard", "card_mastercard"},
		{"371449635398431", "American Express", "card_american_express"},
		{"6011111111111117", "Unknown", "card_unknown"},
	}
	for _, tt := range tests {
		store := &mockPaymentStore{}
		svc := NewPaymentService(store, &mockSMS{}, nil, nil)

		req := newCardRequest()
		req.CardNumber = tt.number

		result, err := svc.ProcessCardPayment(context.Background(), req)
		if err != nil {
			t.Fatalf("ProcessCardPayment(%s) error: %v", tt.number, err)
		}
		if result.CardType != tt.wantType {
			t.Errorf("cardType for %s = %q, want %q", tt.number, result.CardType, tt.wantType)
		}
		if store.created[0].PaymentMethod != tt.wantMethod {
			t.Errorf("method for %s = %q, want %q", tt.number, store.created[0].PaymentMethod, tt.wantMethod)
		}
	}
}

func TestProcessCardPayment_CompletionUpdateFailureIsSwallowed(t *testing.T) {
	store := &mockPaymentStore{
		UpdateStatusFunc: func(ctx context.Context, id, status string) error {
			return apperrors.NewStoreError("update failed")
		},
	}
	svc := NewPaymentService(store, &mockSMS{}, nil, nil)

	result, err := svc.ProcessCardPayment(context.Background(), newCardRequest())
	if err != nil {
		t.Fatalf("completion update failure must not fail the request: %v", err)
	}
	if result.Message != "Payment processed successfully!" {
		t.Errorf("message = %q", result.Message)
	}
}

func TestProcessMobilePayment_EventsCarryStatusAtPublishTime(t *testing.T) {
	pub := newMockPublisher()
	svc := NewPaymentService(&mockPaymentStore{}, &mockSMS{}, pub, nil)

	result, err := svc.ProcessMobilePayment(context.Background(), newMobileRequest())
	if err != nil {
		t.Fatalf("ProcessMobilePayment error: %v", err)
	}

	events := pub.collect(t, 2)

	initiated, ok := events["payment.initiated"]
	if !ok {
		t.Fatal("payment.initiated event not published")
	}
	if got, _ := initiated["status"].(string); got != models.StatusPending {
		t.Errorf("payment.initiated status = %q, want pending", got)
	}
	if got, _ := initiated["transaction_id"].(string); got != result.TransactionID {
		t.Errorf("payment.initiated transaction_id = %q, want %q", got, result.TransactionID)
	}

	processing, ok := events["payment.processing"]
	if !ok {
		t.Fatal("payment.processing event not published")
	}
	if got, _ := processing["status"].(string); got != models.StatusProcessing {
		t.Errorf("payment.processing status = %q, want processing", got)
	}
}

func TestProcessCardPayment_EventsCarryStatusAtPublishTime(t *testing.T) {
	pub := newMockPublisher()
	svc := NewPaymentService(&mockPaymentStore{}, &mockSMS{}, pub, nil)

	if _, err := svc.ProcessCardPayment(context.Background(), newCardRequest()); err != nil {
		t.Fatalf("ProcessCardPayment error: %v", err)
	}

	events := pub.collect(t, 2)
	if got, _ := events["payment.initiated"]["status"].(string); got != models.StatusProcessing {
		t.Errorf("payment.initiated status = %q, want processing", got)
	}
	if got, _ := events["payment.completed"]["status"].(string); got != models.StatusCompleted {
		t.Errorf("payment.completed status = %q, want completed", got)
	}
}

func TestGetPayment_ReturnsRecordedPayment(t *testing.T) {
	store := &mockPaymentStore{}
	svc := NewPaymentService(store, &mockSMS{}, nil, nil)

	result, err := svc.ProcessMobilePayment(context.Background(), newMobileRequest())
	if err != nil {
		t.Fatalf("ProcessMobilePayment error: %v", err)
	}

	payment, err := svc.GetPayment(context.Background(), result.TransactionID)
	if err != nil {
		t.Fatalf("GetPayment error: %v", err)
	}
	if payment.Status != models.StatusProcessing {
		t.Errorf("status = %q, want processing", payment.Status)
	}
	if payment.TransactionID != result.TransactionID {
		t.Errorf("transaction id = %q, want %q", payment.TransactionID, result.TransactionID)
	}

	if _, err := svc.GetPayment(context.Background(), "  "); apperrors.KindOf(err) != apperrors.Invalid {
		t.Errorf("blank transaction id: error kind = %v, want Invalid", apperrors.KindOf(err))
	}
	if _, err := svc.GetPayment(context.Background(), "OSTECH-0-AAAAAAAAA"); apperrors.KindOf(err) != apperrors.NotFound {
		t.Errorf("unknown transaction id: error kind = %v, want NotFound", apperrors.KindOf(err))
	}
}
