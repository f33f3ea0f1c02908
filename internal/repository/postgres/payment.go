package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"storefront/internal/domain"
	"storefront/internal/repository"
)

const paymentColumns = `
	id, order_id, user_id, amount, currency, status, payment_method,
	tx_ref, flw_ref, transaction_id,
	customer_email, customer_name, customer_phone,
	metadata, failure_reason, webhook_data,
	created_at, updated_at, paid_at`

// PaymentRepository is a PostgreSQL implementation of repository.PaymentRepository.
type PaymentRepository struct {
	q Querier
}

// NewPaymentRepository creates a new PostgreSQL payment repository.
func NewPaymentRepository(db *sql.DB) *PaymentRepository {
	return &PaymentRepository{q: db}
}

// NewPaymentRepositoryWithTx creates a payment repository using a transaction.
func NewPaymentRepositoryWithTx(tx *sql.Tx) *PaymentRepository {
	return &PaymentRepository{q: tx}
}

// Create persists a new payment.
func (r *PaymentRepository) Create(ctx context.Context, payment *domain.Payment) error {
	metadata, err := marshalObject(payment.Metadata)
	if err != nil {
		return fmt.Errorf("encode metadata: %w", err)
	}

	query := `
		INSERT INTO payments (
			order_id, user_id, amount, currency, status, payment_method,
			tx_ref, flw_ref, transaction_id,
			customer_email, customer_name, customer_phone,
			metadata, failure_reason, webhook_data, paid_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
		RETURNING id, created_at, updated_at
	`

	err = r.q.QueryRowContext(ctx, query,
		payment.OrderID,
		payment.UserID,
		payment.Amount,
		payment.Currency,
		payment.Status,
		payment.PaymentMethod,
		payment.TxRef,
		nullString(payment.FlwRef),
		nullString(payment.TransactionID),
		payment.Customer.Email,
		payment.Customer.Name,
		payment.Customer.Phone,
		metadata,
		payment.FailureReason,
		rawObject(payment.WebhookData),
		nullTime(payment.PaidAt),
	).Scan(&payment.ID, &payment.CreatedAt, &payment.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return repository.ErrDuplicate
		}
		return err
	}

	return nil
}

// GetByID retrieves a payment by ID.
func (r *PaymentRepository) GetByID(ctx context.Context, id int64) (*domain.Payment, error) {
	query := `SELECT ` + paymentColumns + ` FROM payments WHERE id = $1`
	return r.getOne(ctx, query, id)
}

// GetByTxRef retrieves a payment by its transaction reference.
func (r *PaymentRepository) GetByTxRef(ctx context.Context, txRef string) (*domain.Payment, error) {
	query := `SELECT ` + paymentColumns + ` FROM payments WHERE tx_ref = $1`
	return r.getOne(ctx, query, txRef)
}

// GetByTxRefForUpdate retrieves a payment and holds a row lock on it for the
// rest of the transaction.
func (r *PaymentRepository) GetByTxRefForUpdate(ctx context.Context, txRef string) (*domain.Payment, error) {
	query := `SELECT ` + paymentColumns + ` FROM payments WHERE tx_ref = $1 FOR UPDATE`
	return r.getOne(ctx, query, txRef)
}

// List retrieves payments, newest first.
func (r *PaymentRepository) List(ctx context.Context, filter repository.PaymentFilter) ([]*domain.Payment, error) {
	limit := filter.Limit
	if limit <= 0 {
		limit = 100
	}

	var (
		rows *sql.Rows
		err  error
	)
	if filter.UserID != 0 {
		query := `SELECT ` + paymentColumns + ` FROM payments WHERE user_id = $1 ORDER BY created_at DESC LIMIT $2`
		rows, err = r.q.QueryContext(ctx, query, filter.UserID, limit)
	} else {
		query := `SELECT ` + paymentColumns + ` FROM payments ORDER BY created_at DESC LIMIT $1`
		rows, err = r.q.QueryContext(ctx, query, limit)
	}
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var payments []*domain.Payment
	for rows.Next() {
		payment, err := scanPayment(rows)
		if err != nil {
			return nil, err
		}
		payments = append(payments, payment)
	}

	return payments, rows.Err()
}

// Update persists the reconciliation fields of a payment.
// Amount, currency, tx_ref, customer and metadata are immutable and never written here.
func (r *PaymentRepository) Update(ctx context.Context, payment *domain.Payment) error {
	query := `
		UPDATE payments
		SET status = $1, payment_method = $2, flw_ref = $3, transaction_id = $4,
		    failure_reason = $5, webhook_data = $6, paid_at = $7, updated_at = NOW()
		WHERE id = $8
		RETURNING updated_at
	`

	err := r.q.QueryRowContext(ctx, query,
		payment.Status,
		payment.PaymentMethod,
		nullString(payment.FlwRef),
		nullString(payment.TransactionID),
		payment.FailureReason,
		rawObject(payment.WebhookData),
		nullTime(payment.PaidAt),
		payment.ID,
	).Scan(&payment.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return repository.ErrNotFound
		}
		if isUniqueViolation(err) {
			return repository.ErrDuplicate
		}
		return err
	}

	return nil
}

func (r *PaymentRepository) getOne(ctx context.Context, query string, arg any) (*domain.Payment, error) {
	payment, err := scanPayment(r.q.QueryRowContext(ctx, query, arg))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return payment, nil
}

func scanPayment(s scanner) (*domain.Payment, error) {
	var (
		payment       domain.Payment
		flwRef        sql.NullString
		transactionID sql.NullString
		metadata      []byte
		webhookData   []byte
		paidAt        sql.NullTime
	)

	err := s.Scan(
		&payment.ID,
		&payment.OrderID,
		&payment.UserID,
		&payment.Amount,
		&payment.Currency,
		&payment.Status,
		&payment.PaymentMethod,
		&payment.TxRef,
		&flwRef,
		&transactionID,
		&payment.Customer.Email,
		&payment.Customer.Name,
		&payment.Customer.Phone,
		&metadata,
		&payment.FailureReason,
		&webhookData,
		&payment.CreatedAt,
		&payment.UpdatedAt,
		&paidAt,
	)
	if err != nil {
		return nil, err
	}

	payment.FlwRef = flwRef.String
	payment.TransactionID = transactionID.String
	if paidAt.Valid {
		t := paidAt.Time
		payment.PaidAt = &t
	}
	if len(metadata) > 0 {
		if err := json.Unmarshal(metadata, &payment.Metadata); err != nil {
			return nil, fmt.Errorf("decode metadata: %w", err)
		}
	}
	if len(webhookData) > 0 {
		payment.WebhookData = json.RawMessage(webhookData)
	}

	return &payment, nil
}

// Ensure PaymentRepository implements repository.PaymentRepository.
var _ repository.PaymentRepository = (*PaymentRepository)(nil)
