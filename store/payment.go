package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	apperrors "ostech-hub/errors"
	"ostech-hub/models"
)

// PaymentStore persists payment records in postgres.
type PaymentStore struct {
	db *sql.DB
}

// NewPaymentStore creates a PaymentStore on the given connection.
func NewPaymentStore(db *sql.DB) *PaymentStore {
	return &PaymentStore{db: db}
}

// Create inserts a new payment record and assigns its id and timestamps.
func (s *PaymentStore) Create(ctx context.Context, p *models.Payment) error {
	p.ID = uuid.NewString()

	query := `INSERT INTO payments
		(id, course_id, course_title, amount, currency, payment_method, phone_number, status, transaction_id, external_reference)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING created_at, updated_at`
	err := s.db.QueryRowContext(ctx, query,
		p.ID, p.CourseID, p.CourseTitle, p.Amount, p.Currency, p.PaymentMethod,
		p.PhoneNumber, p.Status, p.TransactionID, p.ExternalReference,
	).Scan(&p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return apperrors.E(apperrors.Store, "error saving payment record", err)
	}
	return nil
}

// UpdateStatus advances a payment to the given status. The guard clause
// refuses to move a record backwards, so a replayed or out-of-order update
// cannot regress pending -> processing -> completed. The CASE expression
// mirrors models.StatusRank, which ranks the target status.
func (s *PaymentStore) UpdateStatus(ctx context.Context, id, status string) error {
	query := `UPDATE payments
		SET status = $1, updated_at = CURRENT_TIMESTAMP
		WHERE id = $2
		  AND CASE status WHEN 'pending' THEN 1 WHEN 'processing' THEN 2 WHEN 'completed' THEN 3 ELSE 0 END < $3`
	result, err := s.db.ExecContext(ctx, query, status, id, models.StatusRank(status))
	if err != nil {
		return apperrors.E(apperrors.Store, "error updating payment status", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return apperrors.E(apperrors.Store, "error checking payment update", err)
	}
	if rows == 0 {
		return apperrors.NewStoreError("payment not updated: unknown id or status would regress")
	}
	return nil
}

// GetByTransactionID looks a payment up by its external correlation token.
func (s *PaymentStore) GetByTransactionID(ctx context.Context, transactionID string) (*models.Payment, error) {
	var p models.Payment
	query := `SELECT id, course_id, course_title, amount, currency, payment_method, phone_number,
		status, transaction_id, COALESCE(external_reference, ''), created_at, updated_at
		FROM payments WHERE transaction_id = $1`
	err := s.db.QueryRowContext(ctx, query, transactionID).Scan(
		&p.ID, &p.CourseID, &p.CourseTitle, &p.Amount, &p.Currency, &p.PaymentMethod,
		&p.PhoneNumber, &p.Status, &p.TransactionID, &p.ExternalReference, &p.CreatedAt, &p.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, apperrors.NewNotFoundError("payment not found")
	}
	if err != nil {
		return nil, apperrors.E(apperrors.Store, "error fetching payment", err)
	}
	return &p, nil
}

// List returns payments newest first, capped at limit.
func (s *PaymentStore) List(ctx context.Context, limit int) ([]models.Payment, error) {
	if limit <= 0 {
		limit = 100
	}
	query := `SELECT id, course_id, course_title, amount, currency, payment_method, phone_number,
		status, transaction_id, COALESCE(external_reference, ''), created_at, updated_at
		FROM payments ORDER BY created_at DESC LIMIT $1`
	rows, err := s.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, apperrors.E(apperrors.Store, "error listing payments", err)
	}
	defer rows.Close()

	payments := []models.Payment{}
	for rows.Next() {
		var p models.Payment
		if err := rows.Scan(&p.ID, &p.CourseID, &p.CourseTitle, &p.Amount, &p.Currency, &p.PaymentMethod,
			&p.PhoneNumber, &p.Status, &p.TransactionID, &p.ExternalReference, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, apperrors.E(apperrors.Store, "error scanning payment", err)
		}
		payments = append(payments, p)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.E(apperrors.Store, "error listing payments", err)
	}
	return payments, nil
}
