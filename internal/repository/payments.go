package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/raterhub/payoutbot/internal/domain"
)

// PaymentTx is the unit-of-work surface for completing a single payment.
// All three calls run inside one transaction so the read-check-write against
// a payment row and its beneficiary is atomic.
type PaymentTx interface {
	GetPaymentForUpdate(ctx context.Context, id uuid.UUID) (*domain.Payment, error)
	MarkPaymentCompleted(ctx context.Context, id uuid.UUID, processedAt time.Time) error
	CreditBeneficiary(ctx context.Context, beneficiaryID uuid.UUID, amount decimal.Decimal) error
}

// PaymentRepo executes payment completion transactions against Postgres.
type PaymentRepo struct {
	pool *pgxpool.Pool
}

func NewPaymentRepo(pool *pgxpool.Pool) *PaymentRepo {
	return &PaymentRepo{pool: pool}
}

// InTx runs fn inside one transaction scoped to a single payment. The
// SELECT ... FOR UPDATE in GetPaymentForUpdate serializes concurrent
// completions of the same payment on the row lock, so exactly one caller
// observes the pending status.
func (r *PaymentRepo) InTx(ctx context.Context, fn func(PaymentTx) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	if err := fn(&paymentTx{tx: tx}); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

type paymentTx struct {
	tx pgx.Tx
}

func (t *paymentTx) GetPaymentForUpdate(ctx context.Context, id uuid.UUID) (*domain.Payment, error) {
	row := t.tx.QueryRow(ctx, `
		SELECT id, beneficiary_id, amount::text, paypal_email, paypal_transaction_id,
		       status, type, transfer_fee::text, net_amount::text, error_message,
		       processed_at, created_at, updated_at
		FROM payments
		WHERE id = $1
		FOR UPDATE`, id)

	var (
		p                domain.Payment
		amount, fee, net string
		status           string
	)
	err := row.Scan(
		&p.ID, &p.BeneficiaryID, &amount, &p.PaypalEmail, &p.PaypalTransactionID,
		&status, &p.Type, &fee, &net, &p.ErrorMessage,
		&p.ProcessedAt, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrPaymentNotFound
		}
		return nil, fmt.Errorf("get payment: %w", err)
	}

	p.Status = domain.PaymentStatus(status)
	if p.Amount, err = decimal.NewFromString(amount); err != nil {
		return nil, fmt.Errorf("parse amount: %w", err)
	}
	if p.TransferFee, err = decimal.NewFromString(fee); err != nil {
		return nil, fmt.Errorf("parse transfer fee: %w", err)
	}
	if p.NetAmount, err = decimal.NewFromString(net); err != nil {
		return nil, fmt.Errorf("parse net amount: %w", err)
	}
	return &p, nil
}

func (t *paymentTx) MarkPaymentCompleted(ctx context.Context, id uuid.UUID, processedAt time.Time) error {
	ct, err := t.tx.Exec(ctx, `
		UPDATE payments
		SET status = 'completed', processed_at = $2, updated_at = NOW()
		WHERE id = $1`, id, processedAt)
	if err != nil {
		return fmt.Errorf("mark payment completed: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return domain.ErrPaymentNotFound
	}
	return nil
}

func (t *paymentTx) CreditBeneficiary(ctx context.Context, beneficiaryID uuid.UUID, amount decimal.Decimal) error {
	ct, err := t.tx.Exec(ctx, `
		UPDATE beneficiaries
		SET total_paid_out = total_paid_out + $2::numeric, updated_at = NOW()
		WHERE id = $1`, beneficiaryID, amount.StringFixed(2))
	if err != nil {
		return fmt.Errorf("credit beneficiary: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return domain.ErrBeneficiaryNotFound
	}
	return nil
}
